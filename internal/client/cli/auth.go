package cli

import (
	"context"
	"fmt"
	"os"
	"time"
)

// getSimpleText and getPassword are indirections used to facilitate
// testing; they point at the interactive input helpers.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for email, password, and full name, then creates an
// account. If the backend returns a token the session store persists it,
// so the user may already be signed in afterwards.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	fullName, err := getSimpleText(a.reader, "Enter full name", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.session.SignUp(ctx, email, password, fullName, nil); err != nil {
		return err
	}

	fmt.Println(successStyle.Render("Account created!"))
	return nil
}

// Login prompts for credentials and authenticates. Failures are already
// notified by the session store; the error is returned for the caller's
// bookkeeping only.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, email, password); err != nil {
		return err
	}

	snap := a.session.Current()
	if snap.User != nil {
		fmt.Println(successStyle.Render("Logged in as " + snap.User.FullName))
	} else {
		fmt.Println(successStyle.Render("Logged in."))
	}
	return nil
}

// Logout tears the session down. Safe when already logged out.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Println(mutedStyle.Render("Logged out."))
	return nil
}

// WhoAmI prints the current session: identity fields when the profile
// is resolved, and the token expiry when the token happens to be a JWT.
func (a *App) WhoAmI(ctx context.Context) error {
	snap := a.session.Current()
	if snap.Token == "" {
		fmt.Println(mutedStyle.Render("Not logged in."))
		return nil
	}
	if snap.User == nil {
		fmt.Println(mutedStyle.Render("Signed in, profile not resolved."))
		return nil
	}

	u := snap.User
	fmt.Println(labelStyle.Render("Name") + u.FullName)
	fmt.Println(labelStyle.Render("Email") + u.Email)
	if u.Username != "" {
		fmt.Println(labelStyle.Render("Username") + u.Username)
	}
	fmt.Println(labelStyle.Render("Account") + string(u.AccountType))
	fmt.Println(labelStyle.Render("Verified") + fmt.Sprintf("%v", u.Verified))
	if u.Bio != "" {
		fmt.Println(labelStyle.Render("Bio") + u.Bio)
	}
	fmt.Println(labelStyle.Render("Following") + fmt.Sprintf("%d", u.FollowingCount))
	fmt.Println(labelStyle.Render("Followers") + fmt.Sprintf("%d", u.FollowersCount))

	if exp, ok := a.session.TokenExpiry(); ok {
		fmt.Println(labelStyle.Render("Expires") + exp.Local().Format(time.RFC822))
	}
	return nil
}
