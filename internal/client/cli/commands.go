package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/dmitrijs2005/authkeeper/internal/client/client"
	"github.com/dmitrijs2005/authkeeper/internal/client/services"
)

var errNotSignedIn = errors.New("not signed in")

func (a *App) Register(ctx context.Context) error {
	email, err := readLine(a.in, a.out, "Email")
	if err != nil {
		return err
	}
	password, err := readSecret(a.in, a.out, "Password")
	if err != nil {
		return err
	}
	confirm, err := readSecret(a.in, a.out, "Confirm password")
	if err != nil {
		return err
	}

	if err := a.session.Register(ctx, email, password, confirm); err != nil {
		fmt.Fprintf(a.out, "Registration failed: %s\n", err)
		return err
	}
	fmt.Fprintf(a.out, "Registered and signed in as %s\n", email)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := readLine(a.in, a.out, "Email")
	if err != nil {
		return err
	}
	password, err := readSecret(a.in, a.out, "Password")
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, email, password); err != nil {
		fmt.Fprintf(a.out, "Login failed: %s\n", err)
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s\n", email)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *App) Status(ctx context.Context) error {
	s := a.session.Snapshot()
	fmt.Fprintf(a.out, "Status: %s\n", s.Status)
	if s.Email != "" {
		fmt.Fprintf(a.out, "Email:  %s\n", s.Email)
	}
	if s.LastError != "" {
		fmt.Fprintf(a.out, "Last error: %s\n", s.LastError)
	}
	return nil
}

// Profile fetches the signed-in user's profile from the server. The stored
// token is not checked locally; the server decides whether it is still valid.
func (a *App) Profile(ctx context.Context) error {
	if a.api == nil {
		fmt.Fprintln(a.out, "Profile is only available in live mode")
		return nil
	}
	s := a.session.Snapshot()
	if s.Status != services.StatusSignedIn {
		fmt.Fprintln(a.out, "Log in first")
		return errNotSignedIn
	}

	profile, err := a.api.GetProfile(ctx, s.Token)
	if err != nil {
		fmt.Fprintf(a.out, "Profile request failed: %s\n", err)
		var pe *client.ProviderError
		if errors.As(err, &pe) && pe.Status == http.StatusUnauthorized {
			fmt.Fprintln(a.out, "Your session is no longer valid, log out and log in again")
		}
		return err
	}

	keys := make([]string, 0, len(profile))
	for k := range profile {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(a.out, "%-13s %v\n", k+":", profile[k])
	}
	return nil
}
