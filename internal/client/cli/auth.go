package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/boabp/dashboard/internal/client/client"
	"github.com/boabp/dashboard/internal/client/services"
	validation "github.com/go-ozzo/ozzo-validation"
)

// MsgSessionExpiredNotice is shown when an expired session sends the user
// back to sign-in, as opposed to a fresh login.
const MsgSessionExpiredNotice = "Your session has expired. Please sign in again."

// MsgInvalidCredentials replaces the session-expired text when the 401
// answers the login request itself.
const MsgInvalidCredentials = "Invalid email or password."

var errPasswordMismatch = errors.New("passwords do not match")

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// userMessage returns the text to show for err.
func userMessage(err error) string {
	var ce *client.Error
	switch {
	case errors.As(err, &ce):
		return ce.Message
	case errors.Is(err, services.ErrNotSignedIn):
		return "Please log in first."
	case errors.Is(err, services.ErrTokenExpired):
		return "The server issued an expired session. Check your system clock."
	default:
		return err.Error()
	}
}

func (a *App) report(ctx context.Context, action string, err error) {
	a.log.Debug(ctx, action+" failed", "error", err)
	printlnFn("Error:", userMessage(err))
}

// Login prompts for credentials and signs in. The password is wiped
// before returning.
func (a *App) Login(ctx context.Context) error {
	done, ok := a.busy.start("login")
	if !ok {
		printlnFn("Login is already in progress")
		return ErrBusy
	}
	defer done()

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer wipe(password)

	if err := validation.Validate(email, validation.Required); err != nil {
		printlnFn("Email is required")
		return err
	}

	info, err := a.authService.SignIn(ctx, email, password)
	if errors.Is(err, client.ErrUnauthorized) {
		// The user is already at the sign-in prompt.
		a.router.Discard(a.signInRoute)
		a.log.Debug(ctx, "login failed", "error", err)
		printlnFn("Error:", MsgInvalidCredentials)
		return err
	}
	if err != nil {
		a.report(ctx, "login", err)
		return err
	}

	a.userName = email
	a.loggedIn.Store(true)
	printlnFn(fmt.Sprintf("Signed in as %s (%s), session valid for %s", email, info.Role, info.ExpiresIn.Round(time.Second)))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.SignOut(ctx); err != nil {
		a.report(ctx, "logout", err)
		return err
	}
	a.userName = ""
	a.loggedIn.Store(false)
	printlnFn("Signed out")
	return nil
}

// WhoAmI prints the claims of the current session.
func (a *App) WhoAmI(ctx context.Context) error {
	info, ok := a.authService.Session(ctx)
	if !ok {
		printlnFn("Not signed in")
		return services.ErrNotSignedIn
	}
	printlnFn(fmt.Sprintf("user id: %s, role: %s, expires in: %s",
		info.UserID, info.Role, info.ExpiresIn.Round(time.Second)))
	return nil
}

// ChangePassword prompts for the current and new password. On success the
// session is dropped and the user is asked to sign in again.
func (a *App) ChangePassword(ctx context.Context) error {
	done, ok := a.busy.start("passwd")
	if !ok {
		printlnFn("Password change is already in progress")
		return ErrBusy
	}
	defer done()

	current, err := getPassword(a.out, "Current password")
	if err != nil {
		return err
	}
	defer wipe(current)
	next, err := getPassword(a.out, "New password")
	if err != nil {
		return err
	}
	defer wipe(next)
	confirm, err := getPassword(a.out, "Repeat new password")
	if err != nil {
		return err
	}
	defer wipe(confirm)

	if string(next) != string(confirm) {
		printlnFn("Error:", errPasswordMismatch.Error())
		return errPasswordMismatch
	}
	if err := validation.Validate(string(next), validation.Required, validation.Length(8, 128)); err != nil {
		printlnFn("Error: new password", err.Error())
		return err
	}

	if err := a.authService.ChangePassword(ctx, current, next); err != nil {
		a.report(ctx, "change password", err)
		return err
	}
	printlnFn("Password changed. Please sign in again.")
	return nil
}
