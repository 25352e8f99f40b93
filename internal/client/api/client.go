// Package api is the client for the CampusLink REST backend. It owns the
// request pipeline every feature goes through: bearer-token injection on
// the way out, and unconditional session teardown on any 401/403 on the
// way back.
package api

import (
	"context"
	"encoding/json"
	"io"
)

// Client defines the backend operations the rest of the client uses.
//
// Contract:
//   - Login/Register return the raw token from the response; an empty
//     string means the backend sent none (policy on that belongs to the
//     session store).
//   - Every other call is made through the authenticated pipeline: the
//     stored bearer token is attached when present, and any 401/403
//     clears the persisted token, fires the OnUnauthorized policy, and
//     surfaces ErrUnauthorized.
//   - All methods honor context cancellation.
type Client interface {
	Register(ctx context.Context, req RegisterRequest) (token string, err error)
	Login(ctx context.Context, email, password string) (token string, err error)
	Profile(ctx context.Context) (*UserProfile, error)

	SendOTP(ctx context.Context) error
	VerifyOTP(ctx context.Context, code string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, uid, token, newPassword string) error

	UpdateStudent(ctx context.Context, fields map[string]any) error
	UpdateOrganization(ctx context.Context, fields map[string]any) error
	UploadProfilePicture(ctx context.Context, filename string, r io.Reader) (url string, err error)

	Opportunities(ctx context.Context) ([]Opportunity, error)

	CreateWall(ctx context.Context, title string) (*Wall, error)
	AddWallCard(ctx context.Context, slug string, card WallCard) error
	Wall(ctx context.Context, slug string) (*Wall, error)
}

// RegisterRequest is the sign-up payload. Student and Organization are
// mutually exclusive; the one left nil is serialized as JSON null, which
// is what the backend expects.
type RegisterRequest struct {
	Email        string         `json:"email"`
	Password     string         `json:"password"`
	Bio          string         `json:"bio"`
	Student      map[string]any `json:"student"`
	Organization map[string]any `json:"organization"`
}

// Opportunity is one entry on the opportunities board.
type Opportunity struct {
	ID           json.Number `json:"id"`
	Title        string      `json:"title"`
	Organization string      `json:"organization"`
	Description  string      `json:"description"`
	Deadline     string      `json:"deadline"`
	Link         string      `json:"link"`
}

// Wall is a shareable collection of contact cards.
type Wall struct {
	Slug  string     `json:"slug"`
	Title string     `json:"title"`
	Cards []WallCard `json:"cards"`
}

// WallCard is a single contact card on a wall.
type WallCard struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Note  string `json:"note,omitempty"`
}
