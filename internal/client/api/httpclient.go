package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campuslink/campuslink/internal/logging"
)

// TokenStore is the slice of token persistence the pipeline needs:
// read the current token before a request, clear it after a 401/403.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// HTTPClient implements Client over the REST API.
//
// It holds no session state of its own. The token comes from the
// TokenStore on every request, so the client and the session store can
// never disagree about which credential is current.
type HTTPClient struct {
	baseURL        string
	http           *http.Client
	tokens         TokenStore
	onUnauthorized func()
	log            logging.Logger
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithOnUnauthorized installs the policy invoked after any 401/403
// response, once the persisted token has been cleared. The CLI uses it
// to tell the user to log in again; tests use it to observe teardown.
func WithOnUnauthorized(fn func()) Option {
	return func(c *HTTPClient) { c.onUnauthorized = fn }
}

func WithLogger(log logging.Logger) Option {
	return func(c *HTTPClient) { c.log = log }
}

// WithHTTPClient swaps the underlying *http.Client, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *HTTPClient) { c.http = h }
}

// SetOnUnauthorized replaces the 401/403 policy after construction.
// The session store is built on top of this client, so its teardown
// hook can only be wired once both exist. Call before issuing requests.
func (c *HTTPClient) SetOnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// NewHTTPClient builds a client for the API at baseURL. The trailing
// slash on baseURL is optional.
func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenStore, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &http.Client{Timeout: timeout},
		tokens:         tokens,
		onUnauthorized: func() {},
		log:            logging.NopLogger{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) (string, error) {
	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, "/register/", req, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, "/login/", body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (c *HTTPClient) Profile(ctx context.Context) (*UserProfile, error) {
	var resp profileResponse
	if err := c.do(ctx, http.MethodGet, "/profile/", nil, &resp); err != nil {
		return nil, err
	}
	return normalizeProfile(resp), nil
}

func (c *HTTPClient) SendOTP(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/send-otp/", struct{}{}, nil)
}

func (c *HTTPClient) VerifyOTP(ctx context.Context, code string) error {
	body := map[string]string{"otp": code}
	return c.do(ctx, http.MethodPost, "/verify-otp/", body, nil)
}

func (c *HTTPClient) RequestPasswordReset(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/password-reset/", body, nil)
}

func (c *HTTPClient) ConfirmPasswordReset(ctx context.Context, uid, token, newPassword string) error {
	body := map[string]string{"uid": uid, "token": token, "new_password": newPassword}
	return c.do(ctx, http.MethodPost, "/password-reset-confirm/", body, nil)
}

func (c *HTTPClient) UpdateStudent(ctx context.Context, fields map[string]any) error {
	return c.do(ctx, http.MethodPatch, "/student/update/", fields, nil)
}

func (c *HTTPClient) UpdateOrganization(ctx context.Context, fields map[string]any) error {
	return c.do(ctx, http.MethodPatch, "/organization/update/", fields, nil)
}

type pictureResponse struct {
	ProfilePicURL string `json:"profile_pic_url"`
}

// UploadProfilePicture posts the image as multipart form data and
// returns the URL the backend stored it under.
func (c *HTTPClient) UploadProfilePicture(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to finish multipart body: %w", err)
	}

	var resp pictureResponse
	if err := c.doRaw(ctx, http.MethodPost, "/profile/picture/", &buf, mw.FormDataContentType(), &resp); err != nil {
		return "", err
	}
	return resp.ProfilePicURL, nil
}

func (c *HTTPClient) Opportunities(ctx context.Context) ([]Opportunity, error) {
	var resp []Opportunity
	if err := c.do(ctx, http.MethodGet, "/opportunities/", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateWall lets the client pick the shareable slug so the link can be
// shown before the request round-trips.
func (c *HTTPClient) CreateWall(ctx context.Context, title string) (*Wall, error) {
	w := Wall{Slug: uuid.NewString(), Title: title}
	var resp Wall
	if err := c.do(ctx, http.MethodPost, "/walls/", w, &resp); err != nil {
		return nil, err
	}
	if resp.Slug == "" {
		resp = w
	}
	return &resp, nil
}

func (c *HTTPClient) AddWallCard(ctx context.Context, slug string, card WallCard) error {
	return c.do(ctx, http.MethodPost, "/walls/"+slug+"/cards/", card, nil)
}

func (c *HTTPClient) Wall(ctx context.Context, slug string) (*Wall, error) {
	var resp Wall
	if err := c.do(ctx, http.MethodGet, "/walls/"+slug+"/", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do sends a JSON request through the authenticated pipeline and decodes
// a JSON response into out (which may be nil).
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	return c.doRaw(ctx, method, path, reader, "application/json", out)
}

// doRaw is the single enforcement point of the pipeline contract:
// attach the bearer token when one is stored, and on any 401/403 clear
// the persisted token, fire the OnUnauthorized policy, and return
// ErrUnauthorized regardless of which endpoint failed.
func (c *HTTPClient) doRaw(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	token, err := c.tokens.Get(ctx)
	if err != nil {
		c.log.Warn(ctx, "failed to read stored token", "error", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		if err := c.tokens.Clear(ctx); err != nil {
			c.log.Error(ctx, "failed to clear token after auth failure", "error", err)
		}
		c.onUnauthorized()
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)

	case resp.StatusCode >= 500:
		return fmt.Errorf("%s %s: %w (status %d)", method, path, ErrUnavailable, resp.StatusCode)

	case resp.StatusCode >= 400:
		if ve := parseValidation(respBody); ve != nil {
			return ve
		}
		return fmt.Errorf("%s %s: unexpected status %d: %s", method, path, resp.StatusCode, snippet(respBody))
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// parseValidation tries to read the backend's error body shape:
// {"non_field_errors": [...], "<field>": [...], ...}. Returns nil if the
// body does not look like field errors.
func parseValidation(body []byte) *ValidationError {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || len(raw) == 0 {
		return nil
	}

	ve := &ValidationError{Fields: map[string][]string{}}
	for field, msg := range raw {
		var list []string
		if err := json.Unmarshal(msg, &list); err != nil {
			var single string
			if err := json.Unmarshal(msg, &single); err != nil {
				continue
			}
			list = []string{single}
		}
		if field == "non_field_errors" {
			ve.NonField = list
		} else {
			ve.Fields[field] = list
		}
	}

	if len(ve.NonField) == 0 && len(ve.Fields) == 0 {
		return nil
	}
	return ve
}
