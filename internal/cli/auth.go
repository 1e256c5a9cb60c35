package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/amelnik/enhancer/internal/api"
	"github.com/amelnik/enhancer/internal/services"
)

// Login prompts for credentials and authenticates the session. Rejections are
// reported with the server's own message; transport failures with a generic
// connectivity note.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, email, password); err != nil {
		a.reportAuthError(err)
		return nil
	}

	fmt.Fprintf(a.out, "Login successful. Welcome, %s!\n", a.session.Username())
	return nil
}

// Register prompts for registration fields and creates an account. A
// successful registration does not log the user in; one explicit login step
// follows.
func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	username, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	msg, err := a.session.Register(ctx, email, username, password)
	if err != nil {
		a.reportAuthError(err)
		return nil
	}

	if msg != "" {
		fmt.Fprintln(a.out, msg)
	}
	fmt.Fprintln(a.out, "Account created! Please log in.")
	return nil
}

// WhoAmI shows the current session state.
func (a *App) WhoAmI(ctx context.Context) error {
	if a.session.IsAuthenticated() {
		fmt.Fprintf(a.out, "Logged in as %s\n", a.session.Username())
	} else {
		fmt.Fprintln(a.out, "Not logged in.")
	}
	return nil
}

func (a *App) reportAuthError(err error) {
	var srvErr *api.ServerError
	switch {
	case errors.Is(err, services.ErrBusy):
		fmt.Fprintln(a.out, "Previous request is still in progress.")
	case errors.As(err, &srvErr):
		fmt.Fprintf(a.out, "Error: %s\n", srvErr.Message)
	case errors.Is(err, api.ErrUnavailable):
		fmt.Fprintln(a.out, "Network error. Is the backend running?")
	default:
		fmt.Fprintf(a.out, "Error: %v\n", err)
	}
}
