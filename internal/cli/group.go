package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
)

func (a *App) runGroup(ctx context.Context, args []string) error {
	const synopsis = "group create|list|members|add|remove|link|secrets|add-secret ..."

	if len(args) == 0 {
		return &usageError{msg: "missing group subcommand", synopsis: synopsis}
	}

	sub, args := args[0], args[1:]
	handlers := map[string]func(context.Context, []string) error{
		"create":     a.runGroupCreate,
		"list":       a.runGroupList,
		"members":    a.runGroupMembers,
		"add":        a.runGroupAdd,
		"remove":     a.runGroupRemove,
		"link":       a.runGroupLink,
		"secrets":    a.runGroupSecrets,
		"add-secret": a.runGroupAddSecret,
	}
	run, ok := handlers[sub]
	if !ok {
		return &usageError{msg: fmt.Sprintf("unknown group subcommand %q", sub), synopsis: synopsis}
	}
	return run(ctx, args)
}

func (a *App) runGroupCreate(ctx context.Context, args []string) error {
	fs := newFlagSet("group create")
	rest, err := parse(fs, args, 1, "group create NAME")
	if err != nil {
		return err
	}

	ctx, userID, err := a.session(ctx)
	if err != nil {
		return err
	}
	group, err := a.Groups.CreateGroup(ctx, rest[0], userID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.Out, "created group %q as %s\n", group.Name, group.ID)
	return nil
}

func (a *App) runGroupList(ctx context.Context, args []string) error {
	fs := newFlagSet("group list")
	format := formatFlag(fs)
	if _, err := parse(fs, args, 0, "group list [-o text|yaml]"); err != nil {
		return err
	}

	ctx, userID, err := a.session(ctx)
	if err != nil {
		return err
	}
	groups, err := a.Groups.ListGroupsForUser(ctx, userID)
	if err != nil {
		return err
	}

	out := make([]groupOut, 0, len(groups))
	for _, g := range groups {
		out = append(out, groupOut{ID: g.ID.String(), Name: g.Name, Admin: g.IsAdmin(userID), CreatedAt: g.CreatedAt})
	}

	return render(a.Out, *format, out, func(tw *tabwriter.Writer) {
		if len(out) == 0 {
			fmt.Fprintln(tw, "no groups")
			return
		}
		fmt.Fprintln(tw, "ID\tNAME\tROLE\tCREATED")
		for _, g := range out {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", g.ID, g.Name, role(g.Admin), g.CreatedAt.Local().Format(time.DateTime))
		}
	})
}

func (a *App) runGroupMembers(ctx context.Context, args []string) error {
	fs := newFlagSet("group members")
	format := formatFlag(fs)
	rest, err := parse(fs, args, 1, "group members GROUP_ID [-o text|yaml]")
	if err != nil {
		return err
	}
	groupID, err := parseID("group", rest[0])
	if err != nil {
		return err
	}

	ctx, userID, err := a.session(ctx)
	if err != nil {
		return err
	}
	members, err := a.Groups.ListMembers(ctx, groupID, userID)
	if err != nil {
		return err
	}

	out := make([]memberOut, 0, len(members))
	for _, m := range members {
		out = append(out, memberOut{ID: m.User.ID.String(), Name: m.User.DisplayName(), Email: m.User.Email, Admin: m.IsAdmin})
	}

	return render(a.Out, *format, out, func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE")
		for _, m := range out {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.ID, m.Name, m.Email, role(m.Admin))
		}
	})
}

func (a *App) runGroupAdd(ctx context.Context, args []string) error {
	fs := newFlagSet("group add")
	rest, err := parse(fs, args, 2, "group add GROUP_ID EMAIL|USER_ID")
	if err != nil {
		return err
	}
	groupID, err := parseID("group", rest[0])
	if err != nil {
		return err
	}

	ctx, userID, err := a.session(ctx)
	if err != nil {
		return err
	}
	res, err := a.Groups.AddMember(ctx, groupID, rest[1], userID)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.Out, res.Message)
	return nil
}

func (a *App) runGroupRemove(ctx context.Context, args []string) error {
	fs := newFlagSet("group remove")
	rest, err := parse(fs, args, 2, "group remove GROUP_ID EMAIL|USER_ID")
	if err != nil {
		return err
	}
	groupID, err := parseID("group", rest[0])
	if err != nil {
		return err
	}

	ctx, userID, err := a.session(ctx)
	if err != nil {
		return err
	}
	targetID, err := a.resolveUserID(ctx, rest[1])
	if err != nil {
		return err
	}
	removed, err := a.Groups.RemoveMember(ctx, groupID, targetID, userID)
	if err != nil {
		return err
	}

	if removed {
		fmt.Fprintln(a.Out, "member removed")
	} else {
		fmt.Fprintln(a.Out, "not a member, nothing to remove")
	}
	return nil
}

func (a *App) runGroupLink(ctx context.Context, args []string) error {
	fs := newFlagSet("group link")
	rest, err := parse(fs, args, 2, "group link GROUP_ID SECRET_ID")
	if err != nil {
		return err
	}
	ids, err := parseIDs([]string{"group", "secret"}, rest)
	if err != nil {
		return err
	}

	ctx, userID, err := a.session(ctx)
	if err != nil {
		return err
	}
	if _, err := a.Groups.LinkSecret(ctx, ids[0], ids[1], userID); err != nil {
		return err
	}

	fmt.Fprintln(a.Out, "secret shared with the group")
	return nil
}

func (a *App) runGroupSecrets(ctx context.Context, args []string) error {
	fs := newFlagSet("group secrets")
	format := formatFlag(fs)
	rest, err := parse(fs, args, 1, "group secrets GROUP_ID [-o text|yaml]")
	if err != nil {
		return err
	}
	groupID, err := parseID("group", rest[0])
	if err != nil {
		return err
	}

	ctx, userID, err := a.session(ctx)
	if err != nil {
		return err
	}
	views, err := a.Groups.ListSecrets(ctx, groupID, userID)
	if err != nil {
		return err
	}
	return renderSecrets(a.Out, *format, views)
}

// runGroupAddSecret is shorthand for add -group.
func (a *App) runGroupAddSecret(ctx context.Context, args []string) error {
	fs := newFlagSet("group add-secret")
	label := fs.String("label", "", "secret label (prompted when empty)")
	value := fs.String("value", "", "secret value (prompted when empty)")
	generate := fs.Bool("generate", false, "generate a random value")
	length := fs.Int("length", 0, "generated value length")
	rest, err := parse(fs, args, 1, "group add-secret GROUP_ID [-label LABEL] [-value VALUE | -generate]")
	if err != nil {
		return err
	}

	forwarded := []string{"-label", *label, "-group", rest[0], "-length", fmt.Sprint(*length)}
	if *value != "" {
		forwarded = append(forwarded, "-value", *value)
	}
	if *generate {
		forwarded = append(forwarded, "-generate")
	}
	return a.runAdd(ctx, forwarded)
}

func parseIDs(kinds []string, raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(raw))
	for i := range raw {
		id, err := parseID(kinds[i], raw[i])
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func role(admin bool) string {
	if admin {
		return "admin"
	}
	return "member"
}
