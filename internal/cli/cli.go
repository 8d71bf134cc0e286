// Package cli is the taskhub command line. It builds the caller identity from
// flags or configuration, validates input shapes, calls the services and
// renders results with lipgloss.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dori/taskhub/internal/app"
	"github.com/dori/taskhub/internal/apperr"
	"github.com/dori/taskhub/internal/model"
	"github.com/dori/taskhub/internal/theme"
)

// Version is set at build time
var Version = "0.1.0"

// Exit codes
const (
	ExitOK         = 0
	ExitInternal   = 1
	ExitValidation = 2
	ExitForbidden  = 3
	ExitNotFound   = 4
	ExitConflict   = 5
)

// ExitCode maps a failure onto the process exit status
func ExitCode(err error) int {
	switch apperr.KindOf(err) {
	case nil:
		return ExitOK
	case apperr.ErrValidation:
		return ExitValidation
	case apperr.ErrForbidden:
		return ExitForbidden
	case apperr.ErrNotFound:
		return ExitNotFound
	case apperr.ErrConflict:
		return ExitConflict
	default:
		return ExitInternal
	}
}

// command is one leaf of the command tree, e.g. "task update"
type command struct {
	usage string
	run   func(c *Context, args []string) error
}

var commands = map[string]map[string]command{
	"project": projectCommands,
	"task":    taskCommands,
	"tag":     tagCommands,
	"comment": commentCommands,
	"user":    userCommands,
	"role":    roleCommands,
}

// Context is passed to every command
type Context struct {
	Ctx    context.Context
	App    *app.App
	Actor  model.Actor
	Out    io.Writer
	Styles theme.Styles
}

// Run executes the command line in args (without the program name) and
// returns the exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("taskhub", flag.ContinueOnError)
	fs.SetOutput(stderr)
	envFile := fs.String("env", "", "Path to a .env file")
	dbPath := fs.String("db", "", "Database file (overrides TASKHUB_DB_PATH)")
	actorID := fs.Int64("actor", 0, "Acting user ID (overrides TASKHUB_ACTOR_ID)")
	roles := fs.String("roles", "", "Comma separated roles of the acting user")
	themeName := fs.String("theme", "", "Output theme (nord, dracula, gruvbox, catppuccin)")
	fs.Usage = func() { printHelp(stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitValidation
	}

	rest := fs.Args()
	if len(rest) == 0 {
		printHelp(stdout)
		return ExitOK
	}
	switch rest[0] {
	case "help", "-h", "--help":
		printHelp(stdout)
		return ExitOK
	case "version":
		fmt.Fprintf(stdout, "taskhub v%s\n", Version)
		return ExitOK
	}

	group, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "Unknown command %q\n\n", rest[0])
		printHelp(stderr)
		return ExitValidation
	}
	if len(rest) < 2 {
		printGroupHelp(stderr, rest[0], group)
		return ExitValidation
	}
	cmd, ok := group[rest[1]]
	if !ok {
		fmt.Fprintf(stderr, "Unknown %s command %q\n\n", rest[0], rest[1])
		printGroupHelp(stderr, rest[0], group)
		return ExitValidation
	}

	cfg, err := app.LoadConfig(*envFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitInternal
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *actorID != 0 {
		cfg.Actor.ID = *actorID
	}
	if *roles != "" {
		cfg.Actor.Roles = splitList(*roles)
	}
	if *themeName != "" {
		cfg.Theme = *themeName
	}
	t, ok := theme.ByName(cfg.Theme)
	if !ok {
		fmt.Fprintf(stderr, "Error: unknown theme %q\n", cfg.Theme)
		return ExitValidation
	}
	styles := theme.NewStyles(t)

	application, err := app.New(ctx, cfg, nil)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitInternal
	}
	defer application.Close()

	c := &Context{
		Ctx:    ctx,
		App:    application,
		Actor:  cfg.Actor,
		Out:    stdout,
		Styles: styles,
	}
	if err := cmd.run(c, rest[2:]); err != nil {
		fmt.Fprintln(stderr, styles.Error.Render("Error: "+err.Error()))
		return ExitCode(err)
	}
	return ExitOK
}

// requireActor fails when no acting user was configured
func (c *Context) requireActor() error {
	if c.Actor.ID <= 0 {
		return apperr.Validation("actor", "set --actor or TASKHUB_ACTOR_ID")
	}
	return nil
}

func printHelp(w io.Writer) {
	help := `taskhub - projects, tasks, tags and comments with ownership rules

Usage:
  taskhub [global flags] <command> <subcommand> [flags]

Commands:
  project   create | get | list | update | delete
  task      create | add | get | list | update | delete | tag | untag
  tag       create | get | list | update | delete
  comment   add | get | list | update | delete
  user      register | get | list | update | activate | deactivate | grant | revoke
  role      create | get | list | update | delete
  version   Show version
  help      Show this help

Global flags:
  --env <file>      Load configuration from a .env file
  --db <path>       Database file
  --actor <id>      Acting user ID
  --roles <A,B>     Roles of the acting user
  --theme <name>    Output theme (nord, dracula, gruvbox, catppuccin)

Quick add:
  taskhub task add --project 1 "Review PR @work !high due:friday"

  Tags:      @tag           (created when missing)
  Priority:  !low !medium !high
  Due date:  due:today due:tomorrow due:friday due:2026-01-15

Exit codes:
  0 ok, 1 internal, 2 invalid input, 3 forbidden, 4 not found, 5 conflict`

	fmt.Fprintln(w, help)
}

func printGroupHelp(w io.Writer, name string, group map[string]command) {
	names := make([]string, 0, len(group))
	for sub := range group {
		names = append(names, sub)
	}
	sort.Strings(names)

	fmt.Fprintf(w, "Usage of taskhub %s:\n", name)
	for _, sub := range names {
		fmt.Fprintf(w, "  taskhub %s %s\n", name, group[sub].usage)
	}
}

// splitList splits a comma separated list, dropping blanks
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
