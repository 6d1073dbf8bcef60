package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rswauth/authcore/internal/identity/models"
	"github.com/rswauth/authcore/internal/validation"
)

// ErrUsage reports a malformed command line.
var ErrUsage = errors.New("usage error")

const usage = `usage: identityctl [config flags] <command> [arguments]

commands:
  migrate
  groups
  create <username>
  show <username>
  search <pattern>
  profile <username>
  passwd <username>
  reset <username>
  lock <username>
  unlock <username>
  enable <username>
  disable <username>
  delete <username>
  login <username>
`

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "help":
		fmt.Fprint(a.out, usage)
		return nil
	case "migrate":
		return a.runMigrate(ctx)
	case "groups":
		return a.listGroups(ctx)
	}

	handler, ok := a.userCommands()[cmd]
	if !ok {
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
	if len(rest) != 1 {
		return fmt.Errorf("%w: %s takes exactly one argument", ErrUsage, cmd)
	}
	return handler(ctx, rest[0])
}

func (a *App) userCommands() map[string]func(context.Context, string) error {
	return map[string]func(context.Context, string) error{
		"create":  a.create,
		"show":    a.show,
		"search":  a.search,
		"profile": a.profile,
		"passwd":  a.passwd,
		"reset":   a.reset,
		"lock":    a.setFlag(func(u *models.User) { u.Locked = true }, "locked"),
		"unlock":  a.setFlag(func(u *models.User) { u.Locked = false }, "unlocked"),
		"enable":  a.setFlag(func(u *models.User) { u.Enabled = true }, "enabled"),
		"disable": a.setFlag(func(u *models.User) { u.Enabled = false }, "disabled"),
		"delete":  a.deleteUser,
		"login":   a.login,
	}
}

func (a *App) runMigrate(ctx context.Context) error {
	if err := a.migrate(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "migrations applied")
	return nil
}

func (a *App) listGroups(ctx context.Context) error {
	names, err := a.directory.ListGroups(ctx)
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(a.out, n)
	}
	return nil
}

// Report writes err to w. Validation failures are listed one field per line.
func Report(w io.Writer, err error) {
	fields := validation.Fields(err)
	if len(fields) == 0 {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	fmt.Fprintln(w, "error: invalid input")
	for _, f := range fields {
		fmt.Fprintf(w, "  %s\n", f.Message)
	}
}
