// Package cli implements the one-shot `todo` subcommands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/todolist"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Options carry what main resolved before dispatch.
type Options struct {
	Config *config.Config
	Logger *log.Logger

	// Stdin is read by `auth login` when no credential is given.
	Stdin io.Reader
	// Interactive runs the TUI; tests replace it.
	Interactive func(todolist.Controller) (todolist.Controller, error)
}

func (o *Options) fill() {
	if o.Config == nil {
		o.Config = &config.Config{APIURL: config.DefaultAPIURL, Timeout: config.DefaultTimeout}
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Interactive == nil {
		o.Interactive = tui.Run
	}
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	opt.fill()
	if len(args) == 0 {
		PrintHelp(os.Stderr)
		return ExitUsage
	}
	cmd, a := args[0], args[1:]
	opt.Logger.Debug("command", "name", cmd, "args", len(a))

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(ui.Stdout())
		return ExitOK

	case "ls":
		if len(a) > 1 {
			return usage("todo ls [all|active|completed]")
		}
		return doList(ctx, a, opt)

	case "add":
		if len(a) == 0 {
			return usage("todo add <title...>")
		}
		return doAdd(ctx, strings.Join(a, " "), opt)

	case "rm":
		if len(a) != 1 {
			return usage("todo rm <id>")
		}
		id, err := strconv.Atoi(a[0])
		if err != nil || id <= 0 {
			return usage("todo rm <id>: not an id: " + a[0])
		}
		return doRemove(ctx, id, opt)

	case "clear":
		if len(a) != 0 {
			return usage("todo clear")
		}
		return doClear(ctx, opt)

	case "tui":
		return doTUI(opt)

	case "auth":
		if len(a) == 0 {
			return usage("todo auth <login|logout|status|whoami>")
		}
		return doAuth(a[0], a[1:], opt)
	}

	ui.Fail("unknown subcommand: " + cmd)
	PrintHelp(os.Stderr)
	return ExitUsage
}

func usage(line string) int {
	ui.Fail("usage: " + line)
	return ExitUsage
}

// PrintHelp writes the command summary to w.
func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `todo - a remote to-do list

Usage:
  todo [flags] <subcommand> [args]

Subcommands:
  ls [filter]        List todos (filter: all, active, completed)
  add <title...>     Add a todo (title can be multiple words)
  rm <id>            Delete the todo with this id
  clear              Delete every completed todo
  tui                Interactive list
  auth login [cred]  Store a user id or JWT (read from stdin if omitted)
  auth logout        Forget the stored credential
  auth status        Show the active session
  auth whoami        Print the user id

Flags:
  -api URL           API base URL (TADA_API_URL)
  -timeout DUR       Per-request timeout (TADA_TIMEOUT)
  -theme NAME        classic, neon or mono (TADA_THEME)
  -filter NAME       Default filter for ls and tui (TADA_FILTER)
  -group             Group ls output by active/completed
  -log-level LEVEL   debug, info, warn or error (TADA_LOG_LEVEL)
  -log-file PATH     Append logs to PATH (TADA_LOG_FILE)
  -config PATH       Extra TOML config file (TADA_CONFIG)

Examples:
  todo auth login 1
  todo add "Buy milk"
  todo ls active
  todo rm 3
  todo clear
`)
}
