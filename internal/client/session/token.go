package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reports when the current bearer token expires, when it
// can be told. The token is treated as opaque by the rest of the
// pipeline; this is a best-effort unverified decode for display only,
// and returns ok=false for non-JWT tokens or JWTs without an exp claim.
func (s *Store) TokenExpiry() (time.Time, bool) {
	s.stateMu.Lock()
	token := s.token
	s.stateMu.Unlock()

	if token == "" {
		return time.Time{}, false
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
