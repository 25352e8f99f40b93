package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestTokenExpiryFromJWT(t *testing.T) {
	ctx := context.Background()
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)

	fake := &fakeClient{LoginToken: signed, ProfileRet: sampleUser()}
	s, _ := newTestStore(fake, &memRepo{})
	require.NoError(t, s.Login(ctx, "a@b.com", "secret123"))

	got, ok := s.TokenExpiry()
	require.True(t, ok)
	require.Equal(t, exp.Unix(), got.Unix())
}

func TestTokenExpiryOpaqueToken(t *testing.T) {
	ctx := context.Background()
	fake := &fakeClient{LoginToken: "not-a-jwt", ProfileRet: sampleUser()}
	s, _ := newTestStore(fake, &memRepo{})
	require.NoError(t, s.Login(ctx, "a@b.com", "secret123"))

	_, ok := s.TokenExpiry()
	require.False(t, ok)
}

func TestTokenExpiryWhenLoggedOut(t *testing.T) {
	s, _ := newTestStore(&fakeClient{}, &memRepo{})
	_, ok := s.TokenExpiry()
	require.False(t, ok)
}
