package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fragments-ui/internal/client/auth"
	"github.com/dmitrijs2005/fragments-ui/internal/common"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

// restoreSession resumes the persisted session, if any, and shows the
// user's fragments once.
func (a *App) restoreSession(ctx context.Context) {
	user, err := a.authService.CurrentUser(ctx)
	if err != nil {
		if !errors.Is(err, common.ErrNoSession) {
			a.log.Warn(ctx, "could not restore session", "error", err)
		}
		fmt.Fprintln(a.out, "Not logged in. Type 'login' to sign in.")
		return
	}

	a.user = user
	fmt.Fprintf(a.out, "Welcome back, %s!\n", user.DisplayName())
	_ = a.List(ctx)
}

// Login prompts for credentials, signs in with the configured provider and
// shows the user's fragments. The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username or email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.authService.SignIn(ctx, username, password)
	if err != nil {
		a.log.Error(ctx, "login failed", "user", username, "error", err)
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			a.alert("Incorrect username or password.")
		case errors.Is(err, auth.ErrChallengeRequired):
			a.alert("Your account needs attention before you can sign in here.")
		default:
			a.alert("Login failed. Please try again.")
		}
		return err
	}

	a.user = user
	a.log.Info(ctx, "logged in", "user", user.DisplayName())
	fmt.Fprintf(a.out, "Welcome, %s!\n", user.DisplayName())
	return a.List(ctx)
}

// Logout ends the session. The local session is forgotten even when the
// provider could not be reached.
func (a *App) Logout(ctx context.Context) error {
	err := a.authService.SignOut(ctx)
	if err != nil {
		a.log.Warn(ctx, "logout incomplete", "error", err)
	}

	a.user = nil
	a.fragments = nil
	fmt.Fprintln(a.out, "Logged out.")
	return err
}
