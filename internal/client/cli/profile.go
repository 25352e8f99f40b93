package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/campuslink/campuslink/internal/client/api"
)

// UpdateProfile prompts for a new bio and patches the profile through
// the endpoint matching the account type. The local user is updated in
// place rather than re-fetched.
func (a *App) UpdateProfile(ctx context.Context) error {
	snap := a.session.Current()
	if snap.Token == "" {
		fmt.Println(mutedStyle.Render("Log in first."))
		return nil
	}

	bio, err := getSimpleText(a.reader, "Enter new bio", os.Stdout)
	if err != nil {
		return err
	}

	fields := map[string]any{"bio": bio}

	if snap.User != nil && snap.User.AccountType == api.AccountOrganization {
		err = a.api.UpdateOrganization(ctx, fields)
	} else {
		err = a.api.UpdateStudent(ctx, fields)
	}
	if err != nil {
		fmt.Println(errorStyle.Render(api.UserMessage(err)))
		return err
	}

	if snap.User != nil {
		updated := *snap.User
		updated.Bio = bio
		a.session.UpdateUser(&updated)
	}

	fmt.Println(successStyle.Render("Profile updated."))
	return nil
}

// SetPicture uploads a local image file as the profile picture and
// patches the returned URL into the local user.
func (a *App) SetPicture(ctx context.Context) error {
	snap := a.session.Current()
	if snap.Token == "" {
		fmt.Println(mutedStyle.Render("Log in first."))
		return nil
	}

	path, err := getSimpleText(a.reader, "Path to image file", os.Stdout)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Println(errorStyle.Render("Cannot open file: " + err.Error()))
		return err
	}
	defer f.Close()

	url, err := a.api.UploadProfilePicture(ctx, filepath.Base(path), f)
	if err != nil {
		fmt.Println(errorStyle.Render(api.UserMessage(err)))
		return err
	}

	if snap.User != nil {
		updated := *snap.User
		updated.ProfilePicURL = url
		a.session.UpdateUser(&updated)
	}

	fmt.Println(successStyle.Render("Picture updated."))
	return nil
}

// VerifyEmail runs the OTP flow: request a code, prompt for it, confirm.
// On success the local user is patched to verified.
func (a *App) VerifyEmail(ctx context.Context) error {
	snap := a.session.Current()
	if snap.Token == "" {
		fmt.Println(mutedStyle.Render("Log in first."))
		return nil
	}

	if err := a.api.SendOTP(ctx); err != nil {
		fmt.Println(errorStyle.Render(api.UserMessage(err)))
		return err
	}
	fmt.Println(mutedStyle.Render("A verification code was sent to your email."))

	code, err := getSimpleText(a.reader, "Enter verification code", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.api.VerifyOTP(ctx, code); err != nil {
		fmt.Println(errorStyle.Render(api.UserMessage(err)))
		return err
	}

	if snap.User != nil {
		updated := *snap.User
		updated.Verified = true
		a.session.UpdateUser(&updated)
	}

	fmt.Println(successStyle.Render("Email verified!"))
	return nil
}

// ResetPassword runs the recovery flow: request a reset email, then
// confirm with the uid and token from that email plus a new password.
func (a *App) ResetPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter account email", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.api.RequestPasswordReset(ctx, email); err != nil {
		fmt.Println(errorStyle.Render(api.UserMessage(err)))
		return err
	}
	fmt.Println(mutedStyle.Render("If the account exists, a reset email was sent."))

	uid, err := getSimpleText(a.reader, "Enter uid from the email (blank to stop here)", os.Stdout)
	if err != nil {
		return err
	}
	if uid == "" {
		return nil
	}

	token, err := getSimpleText(a.reader, "Enter reset token from the email", os.Stdout)
	if err != nil {
		return err
	}

	newPassword, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.api.ConfirmPasswordReset(ctx, uid, token, newPassword); err != nil {
		fmt.Println(errorStyle.Render(api.UserMessage(err)))
		return err
	}

	fmt.Println(successStyle.Render("Password changed. You can log in now."))
	return nil
}
