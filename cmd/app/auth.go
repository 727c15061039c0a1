package app

import (
	"context"
	"fmt"
	"strings"

	"example.com/tinysocial/internal/models"
)

// loginView collects credentials and performs the login transition. The
// profile stored with the token echoes the credentials used; the backend
// does not send a verified profile at login.
func (a *App) loginView(ctx context.Context) {
	username, ok := a.promptRequired("Username: ")
	if !ok {
		return
	}
	password, ok := a.promptRequired("Password: ")
	if !ok {
		return
	}

	resp, err := a.client.Login(ctx, username, password)
	if err != nil {
		logg.Error("app/login", "Login request failed", err)
		fmt.Fprintln(a.out, "Login failed: "+errorMessage(err))
		return
	}

	if resp.AccessToken == "" {
		fmt.Fprintln(a.out, "Login failed. Please check your credentials.")
		return
	}

	user := models.User{UserID: username, Name: username}
	if err := a.session.Login(resp.AccessToken, user); err != nil {
		logg.Error("app/login", "Failed to persist session", err)
		fmt.Fprintln(a.out, "Login failed: could not store session: "+err.Error())
		return
	}
	fmt.Fprintf(a.out, "Welcome, %s!\n", username)
}

// registerView collects the registration form. The only validations are
// non-empty fields and password confirmation; everything else is the
// backend's call. Returns true when the account was created.
func (a *App) registerView(ctx context.Context) bool {
	userID, ok := a.promptRequired("Username: ")
	if !ok {
		return false
	}
	name, ok := a.promptRequired("Full name: ")
	if !ok {
		return false
	}
	password, ok := a.promptRequired("Password: ")
	if !ok {
		return false
	}
	confirm, ok := a.promptRequired("Confirm password: ")
	if !ok {
		return false
	}

	if password != confirm {
		fmt.Fprintln(a.out, "Passwords do not match")
		return false
	}

	resp, err := a.client.Register(ctx, userID, name, password)
	if err != nil {
		logg.Error("app/register", "Register request failed", err)
		fmt.Fprintln(a.out, "Registration failed: "+errorMessage(err))
		return false
	}

	// The backend signals success through its message text.
	if !strings.Contains(resp.Message, "successfully") {
		fmt.Fprintln(a.out, "Registration failed. Please try again.")
		return false
	}

	fmt.Fprintln(a.out, "Registration successful! You can now log in.")
	return true
}
