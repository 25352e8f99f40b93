package api

import "encoding/json"

// AccountType mirrors the backend's profile_type value. Unknown values
// pass through untouched; route-level branching treats anything that is
// not AccountOrganization as a student profile.
type AccountType string

const (
	AccountStudent      AccountType = "student"
	AccountOrganization AccountType = "organization"
)

// UserProfile is the flat, normalized view of the nested profile
// response. Optional backend fields stay zero-valued when absent.
type UserProfile struct {
	ID             string
	Email          string
	FullName       string
	ProfilePicURL  string
	Username       string
	Verified       bool
	Bio            string
	AccountType    AccountType
	FollowingCount int
	FollowersCount int
}

// profileResponse is the wire shape of GET /profile/.
type profileResponse struct {
	ProfileType string `json:"profile_type"`
	Profile     struct {
		Name string      `json:"name"`
		User profileUser `json:"user"`
	} `json:"profile"`
}

type profileUser struct {
	ID             json.Number `json:"id"`
	Email          string      `json:"email"`
	DisplayName    string      `json:"display_name"`
	NameRaw        string      `json:"name_raw"`
	ProfilePicURL  string      `json:"profile_pic_url"`
	Username       string      `json:"username"`
	IsVerified     bool        `json:"is_verified"`
	Bio            string      `json:"bio"`
	FollowingCount int         `json:"following_count"`
	FollowersCount int         `json:"followers_count"`
}

// normalizeProfile flattens the nested response into a UserProfile.
//
// FullName is the first non-empty of: the user's display name, the
// profile-level name, the raw name, the email. Email is always present
// on real accounts, so FullName never ends up empty in practice.
func normalizeProfile(r profileResponse) *UserProfile {
	u := r.Profile.User

	fullName := u.DisplayName
	if fullName == "" {
		fullName = r.Profile.Name
	}
	if fullName == "" {
		fullName = u.NameRaw
	}
	if fullName == "" {
		fullName = u.Email
	}

	return &UserProfile{
		ID:             u.ID.String(),
		Email:          u.Email,
		FullName:       fullName,
		ProfilePicURL:  u.ProfilePicURL,
		Username:       u.Username,
		Verified:       u.IsVerified,
		Bio:            u.Bio,
		AccountType:    AccountType(r.ProfileType),
		FollowingCount: u.FollowingCount,
		FollowersCount: u.FollowersCount,
	}
}
