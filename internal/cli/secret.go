package cli

import (
	"context"
	"fmt"
	"io"
)

func (a *App) runGenerate(_ context.Context, args []string) error {
	fs := newFlagSet("generate")
	length := fs.Int("length", 0, "password length")
	if _, err := parse(fs, args, 0, "generate [-length N]"); err != nil {
		return err
	}

	value, err := a.Secrets.GenerateValue(*length)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.Out, value)
	return nil
}

// secretValue returns the value given on the command line, a generated one,
// or one read from the prompt.
func (a *App) secretValue(value string, generate bool, length int) (string, error) {
	switch {
	case value != "":
		return value, nil
	case generate:
		return a.Secrets.GenerateValue(length)
	default:
		return a.Prompter.Secret("Value")
	}
}

func (a *App) runAdd(ctx context.Context, args []string) error {
	const synopsis = "add [-label LABEL] [-value VALUE | -generate [-length N]] [-group GROUP_ID]"

	fs := newFlagSet("add")
	labelFlag := fs.String("label", "", "secret label (prompted when empty)")
	value := fs.String("value", "", "secret value (prompted when empty)")
	generate := fs.Bool("generate", false, "generate a random value")
	length := fs.Int("length", 0, "generated value length")
	group := fs.String("group", "", "also share with this group")
	if _, err := parse(fs, args, 0, synopsis); err != nil {
		return err
	}

	ctx, userID, err := a.session(ctx)
	if err != nil {
		return err
	}

	label, err := a.orPrompt(*labelFlag, "Label", synopsis)
	if err != nil {
		return err
	}

	v, err := a.secretValue(*value, *generate, *length)
	if err != nil {
		return err
	}

	if *group != "" {
		groupID, err := parseID("group", *group)
		if err != nil {
			return err
		}
		secret, err := a.Secrets.CreateInGroup(ctx, label, v, groupID, userID)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.Out, "stored %q as %s and shared it with the group\n", secret.Label, secret.ID)
		printGenerated(a.Out, *generate, v)
		return nil
	}

	secret, err := a.Secrets.Create(ctx, label, v, userID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "stored %q as %s\n", secret.Label, secret.ID)
	printGenerated(a.Out, *generate, v)
	return nil
}

func printGenerated(w io.Writer, generated bool, value string) {
	if generated {
		fmt.Fprintf(w, "value: %s\n", value)
	}
}

func (a *App) runList(ctx context.Context, args []string) error {
	fs := newFlagSet("list")
	format := formatFlag(fs)
	if _, err := parse(fs, args, 0, "list [-o text|yaml]"); err != nil {
		return err
	}

	ctx, userID, err := a.session(ctx)
	if err != nil {
		return err
	}
	views, err := a.Secrets.ListForUser(ctx, userID)
	if err != nil {
		return err
	}
	return renderSecrets(a.Out, *format, views)
}

func (a *App) runShow(ctx context.Context, args []string) error {
	fs := newFlagSet("show")
	format := formatFlag(fs)
	rest, err := parse(fs, args, 1, "show SECRET_ID [-o text|yaml]")
	if err != nil {
		return err
	}
	secretID, err := parseID("secret", rest[0])
	if err != nil {
		return err
	}

	ctx, userID, err := a.session(ctx)
	if err != nil {
		return err
	}
	view, err := a.Secrets.Get(ctx, secretID, userID)
	if err != nil {
		return err
	}
	return renderSecret(a.Out, *format, view)
}

func (a *App) runDelete(ctx context.Context, args []string) error {
	fs := newFlagSet("delete")
	rest, err := parse(fs, args, 1, "delete SECRET_ID")
	if err != nil {
		return err
	}
	secretID, err := parseID("secret", rest[0])
	if err != nil {
		return err
	}

	ctx, userID, err := a.session(ctx)
	if err != nil {
		return err
	}
	deleted, err := a.Secrets.Delete(ctx, secretID, userID)
	if err != nil {
		return err
	}

	if deleted {
		fmt.Fprintln(a.Out, "secret deleted")
	} else {
		fmt.Fprintln(a.Out, "secret was already gone")
	}
	return nil
}

func (a *App) runShare(ctx context.Context, args []string) error {
	const synopsis = "share SECRET_ID -with EMAIL|USER_ID"

	fs := newFlagSet("share")
	with := fs.String("with", "", "user to share with")
	rest, err := parse(fs, args, 1, synopsis)
	if err != nil {
		return err
	}
	if *with == "" {
		return &usageError{msg: "-with is required", synopsis: synopsis}
	}
	secretID, err := parseID("secret", rest[0])
	if err != nil {
		return err
	}

	ctx, userID, err := a.session(ctx)
	if err != nil {
		return err
	}
	targetID, err := a.resolveUserID(ctx, *with)
	if err != nil {
		return err
	}
	if _, err := a.Secrets.ShareWithUser(ctx, secretID, targetID, userID); err != nil {
		return err
	}

	fmt.Fprintf(a.Out, "shared with %s\n", *with)
	return nil
}
