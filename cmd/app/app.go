// Package app is the terminal front end: an auth screen (sign in / create
// account) and a dashboard with feed and profile tabs. Views keep their own
// input state and error line, fire exactly one API call per user action and
// render every failure inline; no error ever terminates the app.
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"example.com/tinysocial/internal/api"
	config "example.com/tinysocial/internal/init"
	"example.com/tinysocial/internal/logger"
	"example.com/tinysocial/internal/session"
)

var logg = logger.New()

type App struct {
	cfg     *config.Config
	session *session.Session
	client  *api.Client
	in      *bufio.Scanner
	out     io.Writer
}

// New wires the app at the composition root. Input and output are injected
// so tests can script a whole session.
func New(cfg *config.Config, sess *session.Session, client *api.Client, in io.Reader, out io.Writer) *App {
	return &App{
		cfg:     cfg,
		session: sess,
		client:  client,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// Run drives the view loop until the user quits, input ends or ctx is
// cancelled.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintf(a.out, "TinySocial | API: %s\n", a.client.BaseURL())

	for ctx.Err() == nil {
		if !a.session.Authenticated() {
			if !a.authMenu(ctx) {
				return nil
			}
			continue
		}
		if !a.dashboard(ctx) {
			return nil
		}
	}
	return nil
}

// authMenu is shown while Anonymous. Returns false when the user quits or
// input ends.
func (a *App) authMenu(ctx context.Context) bool {
	fmt.Fprintln(a.out, "\n[1] Sign in  [2] Create account  [q] Quit")
	choice, ok := a.prompt("> ")
	if !ok {
		return false
	}

	switch choice {
	case "1":
		a.loginView(ctx)
	case "2":
		a.registerView(ctx)
	case "q":
		return false
	default:
		fmt.Fprintln(a.out, "Unknown choice.")
	}
	return true
}

// prompt reads one trimmed line. ok is false when input is exhausted.
func (a *App) prompt(label string) (string, bool) {
	fmt.Fprint(a.out, label)
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}

// promptRequired re-asks until the field is non-empty.
func (a *App) promptRequired(label string) (string, bool) {
	for {
		value, ok := a.prompt(label)
		if !ok {
			return "", false
		}
		if value != "" {
			return value, true
		}
		fmt.Fprintln(a.out, "This field is required.")
	}
}

// errorMessage maps the three error kinds, and anything unexpected, to the
// guidance the views display. Connectivity and protocol failures get their
// own wording because the fix is different for each.
func errorMessage(err error) string {
	var backendErr *api.BackendError
	var protocolErr *api.ProtocolMismatchError
	var connErr *api.ConnectivityError

	switch {
	case errors.As(err, &connErr):
		return "Cannot connect to the server. Check that the backend is running and cross-origin access is configured."
	case errors.As(err, &protocolErr):
		return "The server answered with something that is not JSON: " + protocolErr.Snippet
	case errors.As(err, &backendErr):
		return backendErr.Message
	default:
		return err.Error()
	}
}
