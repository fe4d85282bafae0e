package cli

import (
	"context"
	"fmt"

	"github.com/dtroode/vaultkeeper/internal/model"
)

func (a *App) runRegister(ctx context.Context, args []string) error {
	const synopsis = "register [-email EMAIL] [-first NAME] [-last NAME]"

	fs := newFlagSet("register")
	email := fs.String("email", "", "account email (prompted when empty)")
	first := fs.String("first", "", "first name (prompted when empty)")
	last := fs.String("last", "", "last name (prompted when empty)")
	if _, err := parse(fs, args, 0, synopsis); err != nil {
		return err
	}
	for _, field := range []struct {
		value  *string
		prompt string
	}{
		{email, "Email"},
		{first, "First name"},
		{last, "Last name"},
	} {
		answer, err := a.orPrompt(*field.value, field.prompt, synopsis)
		if err != nil {
			return err
		}
		*field.value = answer
	}

	password, err := a.Prompter.Secret("Password")
	if err != nil {
		return err
	}

	user, err := a.Identity.Register(ctx, model.RegisterParams{
		LastName:  *last,
		FirstName: *first,
		Email:     *email,
		Password:  password,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.Out, "registered %s <%s>\n", user.DisplayName(), user.Email)
	return nil
}

func (a *App) runLogin(ctx context.Context, args []string) error {
	const synopsis = "login [-email EMAIL]"

	fs := newFlagSet("login")
	emailFlag := fs.String("email", "", "account email (prompted when empty)")
	if _, err := parse(fs, args, 0, synopsis); err != nil {
		return err
	}
	email, err := a.orPrompt(*emailFlag, "Email", synopsis)
	if err != nil {
		return err
	}

	password, err := a.Prompter.Secret("Password")
	if err != nil {
		return err
	}

	user, err := a.Identity.Authenticate(ctx, email, password)
	if err != nil {
		return err
	}
	if err := a.Auth.Login(user.ID); err != nil {
		return err
	}

	fmt.Fprintf(a.Out, "logged in as %s\n", user.DisplayName())
	return nil
}

func (a *App) runLogout(_ context.Context, args []string) error {
	fs := newFlagSet("logout")
	if _, err := parse(fs, args, 0, "logout"); err != nil {
		return err
	}
	if err := a.Auth.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(a.Out, "logged out")
	return nil
}

func (a *App) runWhoami(ctx context.Context, args []string) error {
	fs := newFlagSet("whoami")
	if _, err := parse(fs, args, 0, "whoami"); err != nil {
		return err
	}

	ctx, userID, err := a.session(ctx)
	if err != nil {
		return err
	}
	user, err := a.Identity.LookupByID(ctx, userID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.Out, "%s <%s>\nid: %s\n", user.DisplayName(), user.Email, user.ID)
	return nil
}
