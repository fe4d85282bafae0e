// Package cli implements the vaultkeeper command line.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/vaultkeeper/internal/logger"
	"github.com/dtroode/vaultkeeper/internal/model"
)

// IdentityService registers and authenticates users.
type IdentityService interface {
	Register(ctx context.Context, params model.RegisterParams) (model.User, error)
	Authenticate(ctx context.Context, email, password string) (model.User, error)
	LookupByID(ctx context.Context, id uuid.UUID) (model.User, error)
	LookupByEmail(ctx context.Context, email string) (model.User, error)
}

// SecretService manages secrets.
type SecretService interface {
	GenerateValue(length int) (string, error)
	Create(ctx context.Context, label, value string, ownerID uuid.UUID) (model.Secret, error)
	CreateInGroup(ctx context.Context, label, value string, groupID, requesterID uuid.UUID) (model.Secret, error)
	Delete(ctx context.Context, secretID, requesterID uuid.UUID) (bool, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.SecretView, error)
	Get(ctx context.Context, secretID, requesterID uuid.UUID) (model.SecretView, error)
	ShareWithUser(ctx context.Context, secretID, targetID, requesterID uuid.UUID) (bool, error)
}

// GroupService manages groups.
type GroupService interface {
	CreateGroup(ctx context.Context, name string, adminID uuid.UUID) (model.Group, error)
	GetGroup(ctx context.Context, groupID uuid.UUID) (model.Group, error)
	AddMember(ctx context.Context, groupID uuid.UUID, target string, requesterID uuid.UUID) (model.Result, error)
	RemoveMember(ctx context.Context, groupID, targetID, requesterID uuid.UUID) (bool, error)
	LinkSecret(ctx context.Context, groupID, secretID, requesterID uuid.UUID) (bool, error)
	ListMembers(ctx context.Context, groupID, requesterID uuid.UUID) ([]model.Member, error)
	ListSecrets(ctx context.Context, groupID, requesterID uuid.UUID) ([]model.SecretView, error)
	ListGroupsForUser(ctx context.Context, userID uuid.UUID) ([]model.Group, error)
}

// Authenticator keeps the logged-in user between invocations.
type Authenticator interface {
	Login(userID uuid.UUID) error
	Logout() error
	Authenticate(ctx context.Context) (context.Context, error)
}

// Deps holds everything the command line needs.
type Deps struct {
	Identity       IdentityService
	Secrets        SecretService
	Groups         GroupService
	Auth           Authenticator
	ContextManager model.ContextManager
	Migrate        func(ctx context.Context) error
	Prompter       *Prompter
	Out            io.Writer
	ErrOut         io.Writer
	Logger         *logger.Logger
	Version        string
}

// App dispatches command line invocations to the services.
type App struct {
	Deps
	commands map[string]command
}

type command struct {
	summary string
	run     func(ctx context.Context, args []string) error
}

func NewApp(deps Deps) *App {
	a := &App{Deps: deps}
	a.commands = map[string]command{
		"migrate":  {"apply database migrations", a.runMigrate},
		"register": {"create an account", a.runRegister},
		"login":    {"log in and start a session", a.runLogin},
		"logout":   {"end the current session", a.runLogout},
		"whoami":   {"show the logged-in user", a.runWhoami},
		"generate": {"print a random password", a.runGenerate},
		"add":      {"store a secret", a.runAdd},
		"list":     {"list secrets you can read", a.runList},
		"show":     {"show a secret with its value", a.runShow},
		"delete":   {"delete a secret you created", a.runDelete},
		"share":    {"share a secret with a user", a.runShare},
		"group":    {"manage groups (create, list, members, add, remove, link, secrets, add-secret)", a.runGroup},
		"version":  {"print the version", a.runVersion},
	}
	return a
}

// Run executes one command and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		a.usage(a.Out)
		return exitOK
	}

	name := args[0]
	cmd, ok := a.commands[name]
	if !ok {
		fmt.Fprintf(a.ErrOut, "unknown command %q\n\n", name)
		a.usage(a.ErrOut)
		return exitUsage
	}

	start := time.Now()
	a.Logger.Debug("command started",
		"command", name)

	err := cmd.run(ctx, args[1:])

	a.Logger.Debug("command completed",
		"command", name,
		"duration_ms", time.Since(start).Milliseconds())

	if err != nil {
		return a.fail(name, err)
	}
	return exitOK
}

func (a *App) fail(name string, err error) int {
	code := exitCode(err)

	var usage *usageError
	switch {
	case errors.As(err, &usage):
		fmt.Fprintf(a.ErrOut, "%s\nusage: vaultkeeper %s\n", usage.msg, usage.synopsis)
	default:
		fmt.Fprintf(a.ErrOut, "error: %s\n", model.Describe(err).Message)
	}

	if code == exitFailure {
		a.Logger.Error("command failed",
			"command", name,
			"error", err.Error())
	}
	return code
}

func (a *App) usage(w io.Writer) {
	fmt.Fprintln(w, "usage: vaultkeeper <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")

	names := make([]string, 0, len(a.commands))
	for name := range a.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-9s %s\n", name, a.commands[name].summary)
	}
}

// session restores the logged-in user.
func (a *App) session(ctx context.Context) (context.Context, uuid.UUID, error) {
	ctx, err := a.Auth.Authenticate(ctx)
	if err != nil {
		return nil, uuid.Nil, err
	}
	userID, ok := a.ContextManager.GetUserIDFromContext(ctx)
	if !ok {
		return nil, uuid.Nil, fmt.Errorf("%w: not logged in", model.ErrAuthentication)
	}
	return ctx, userID, nil
}

// resolveUserID accepts a user id or an email.
func (a *App) resolveUserID(ctx context.Context, target string) (uuid.UUID, error) {
	if id, err := uuid.Parse(target); err == nil {
		return id, nil
	}
	user, err := a.Identity.LookupByEmail(ctx, target)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}

// orPrompt returns value, or asks for it when the flag was left empty.
func (a *App) orPrompt(value, prompt, synopsis string) (string, error) {
	if value != "" {
		return value, nil
	}
	answer, err := a.Prompter.Line(prompt)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if answer == "" {
		return "", &usageError{msg: strings.ToLower(prompt) + " is required", synopsis: synopsis}
	}
	return answer, nil
}

func (a *App) runVersion(_ context.Context, _ []string) error {
	fmt.Fprintf(a.Out, "vaultkeeper %s\n", a.Version)
	return nil
}

func (a *App) runMigrate(ctx context.Context, args []string) error {
	fs := newFlagSet("migrate")
	if _, err := parse(fs, args, 0, "migrate"); err != nil {
		return err
	}
	if err := a.Migrate(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.Out, "database schema is up to date")
	return nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parse parses flags placed anywhere among the arguments and checks the
// number of positional arguments.
func parse(fs *flag.FlagSet, args []string, positional int, synopsis string) ([]string, error) {
	var rest []string
	for {
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil, &usageError{msg: "help requested", synopsis: synopsis}
			}
			return nil, &usageError{msg: err.Error(), synopsis: synopsis}
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		rest = append(rest, args[0])
		args = args[1:]
	}

	if len(rest) != positional {
		return nil, &usageError{
			msg:      fmt.Sprintf("expected %d argument(s), got %d", positional, len(rest)),
			synopsis: synopsis,
		}
	}
	return rest, nil
}

func parseID(kind, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q is not a valid %s id", model.ErrValidation, raw, kind)
	}
	return id, nil
}
