package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// memStore is an in-memory TokenStore for tests.
type memStore struct {
	mu    sync.Mutex
	token string

	clears int
}

func (m *memStore) Get(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.clears++
	return nil
}

func newTestClient(t *testing.T, handler http.Handler, store *memStore, opts ...Option) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, 5*time.Second, store, opts...)
}

func TestDoAttachesBearerToken(t *testing.T) {
	var gotAuth, gotReqID string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{}`))
	})

	c := newTestClient(t, h, &memStore{token: "tok-abc"})
	_, err := c.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-abc", gotAuth)
	require.NotEmpty(t, gotReqID)
}

func TestDoWithoutTokenSendsNoHeader(t *testing.T) {
	var gotAuth string
	var present bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, present = r.Header["Authorization"]
		w.Write([]byte(`{"token":"t1"}`))
	})

	c := newTestClient(t, h, &memStore{})
	_, err := c.Login(context.Background(), "a@b.com", "secret123")
	require.NoError(t, err)
	require.Empty(t, gotAuth)
	require.False(t, present)
}

func TestUnauthorizedClearsTokenAndFiresPolicy(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})

		store := &memStore{token: "stale"}
		fired := 0
		c := newTestClient(t, h, store, WithOnUnauthorized(func() { fired++ }))

		_, err := c.Profile(context.Background())
		require.ErrorIs(t, err, ErrUnauthorized)
		require.Equal(t, 1, fired)

		tok, _ := store.Get(context.Background())
		require.Empty(t, tok)
		require.Equal(t, 1, store.clears)
	}
}

func TestServerErrorIsUnavailable(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	store := &memStore{token: "keep-me"}
	c := newTestClient(t, h, store)

	_, err := c.Profile(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)

	// A 5xx must not touch the stored token.
	tok, _ := store.Get(context.Background())
	require.Equal(t, "keep-me", tok)
}

func TestConnectionErrorIsUnavailable(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:1", time.Second, &memStore{})
	_, err := c.Profile(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestBadRequestParsesValidationErrors(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"non_field_errors":["Invalid credentials."],"email":["Enter a valid email."]}`))
	})

	c := newTestClient(t, h, &memStore{})
	_, err := c.Login(context.Background(), "a@b.com", "bad")

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "Invalid credentials.", ve.Message())
	require.Equal(t, []string{"Enter a valid email."}, ve.Fields["email"])
}

func TestBadRequestWithSingleStringMessages(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Not found."}`))
	})

	c := newTestClient(t, h, &memStore{})
	err := c.VerifyOTP(context.Background(), "000000")

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "detail: Not found.", ve.Message())
}

func TestProfileNormalizesResponse(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/profile/", r.URL.Path)
		w.Write([]byte(`{"profile_type":"student","profile":{"user":{"id":"1","email":"a@b.com","display_name":"A B","is_verified":true}}}`))
	})

	c := newTestClient(t, h, &memStore{token: "tok1"})
	u, err := c.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "1", u.ID)
	require.Equal(t, "A B", u.FullName)
	require.Equal(t, AccountStudent, u.AccountType)
	require.True(t, u.Verified)
}

func TestLoginReturnsEmptyTokenAsIs(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	c := newTestClient(t, h, &memStore{})
	tok, err := c.Login(context.Background(), "a@b.com", "secret123")
	require.NoError(t, err)
	require.Empty(t, tok)
}

func TestUploadProfilePicture(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/profile/picture/", r.URL.Path)
		require.Contains(t, r.Header.Get("Content-Type"), "multipart/form-data")

		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, hdr, err := r.FormFile("image")
		require.NoError(t, err)
		defer f.Close()
		require.Equal(t, "me.png", hdr.Filename)

		w.Write([]byte(`{"profile_pic_url":"https://cdn/me.png"}`))
	})

	c := newTestClient(t, h, &memStore{token: "tok"})
	url, err := c.UploadProfilePicture(context.Background(), "me.png", strings.NewReader("pngbytes"))
	require.NoError(t, err)
	require.Equal(t, "https://cdn/me.png", url)
}

func TestCreateWallGeneratesSlug(t *testing.T) {
	var gotSlug string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var wall Wall
		require.NoError(t, json.NewDecoder(r.Body).Decode(&wall))
		gotSlug = wall.Slug
		w.Write([]byte(`{}`))
	})

	c := newTestClient(t, h, &memStore{token: "tok"})
	wall, err := c.CreateWall(context.Background(), "Meet me")
	require.NoError(t, err)
	require.NotEmpty(t, gotSlug)
	// Server echoed nothing back, so the client-side slug stands.
	require.Equal(t, gotSlug, wall.Slug)
	require.Equal(t, "Meet me", wall.Title)
}

func TestRegisterSerializesNullOrganization(t *testing.T) {
	var body string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		body = string(b)
		w.Write([]byte(`{"token":"t2"}`))
	})

	c := newTestClient(t, h, &memStore{})
	tok, err := c.Register(context.Background(), RegisterRequest{
		Email:    "a@b.com",
		Password: "secret123",
		Student:  map[string]any{"name": "A B"},
	})
	require.NoError(t, err)
	require.Equal(t, "t2", tok)
	require.Contains(t, body, `"organization":null`)
	require.Contains(t, body, `"bio":""`)
}
