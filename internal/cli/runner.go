package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/fakeapi"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store"
	"github.com/idilsaglam/tada/internal/tui"
	"github.com/idilsaglam/tada/internal/ui"
)

// Options carry what the root command resolved before dispatch.
type Options struct {
	Config *config.Config
	Logger *log.Logger
	Token  string
	Stdin  io.Reader // for auth login; os.Stdin when nil
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	if opt.Logger == nil {
		opt.Logger = log.New(io.Discard)
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "ls":
		return withStore(ctx, opt, func(s *store.Store) int {
			if err := tui.Run(ctx, s); err != nil {
				ui.Fail("tui: " + err.Error())
				return 1
			}
			return 0
		})

	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		fs.SetOutput(ui.Err)
		filter := fs.String("filter", "all", "all, active or completed")
		if err := fs.Parse(a); err != nil {
			return 2
		}
		f, err := model.ParseFilter(*filter)
		if err != nil {
			ui.Fail("list: " + err.Error())
			return 2
		}
		return withStore(ctx, opt, func(s *store.Store) int { return doList(s, f, opt.Config.Group) })

	case "add":
		if len(a) == 0 {
			ui.Fail("usage: tada add <title...>")
			return 2
		}
		return withStore(ctx, opt, func(s *store.Store) int { return doAdd(ctx, s, strings.Join(a, " ")) })

	case "done", "rm":
		if len(a) != 1 {
			ui.Fail("usage: tada " + cmd + " <index>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail(cmd + ": not a number: " + a[0])
			return 2
		}
		return withStore(ctx, opt, func(s *store.Store) int {
			if cmd == "done" {
				return doToggle(ctx, s, n)
			}
			return doRemove(ctx, s, n)
		})

	case "edit":
		if len(a) < 1 {
			ui.Fail("usage: tada edit <index> <title...>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail("edit: not a number: " + a[0])
			return 2
		}
		return withStore(ctx, opt, func(s *store.Store) int { return doEdit(ctx, s, n, strings.Join(a[1:], " ")) })

	case "toggle-all":
		return withStore(ctx, opt, func(s *store.Store) int {
			if err := s.ToggleAll(ctx); err != nil {
				return failed(s, err)
			}
			ui.OK("toggled all")
			return 0
		})

	case "clear":
		return withStore(ctx, opt, func(s *store.Store) int {
			n := s.Snapshot().CompletedCount
			if err := s.ClearCompleted(ctx); err != nil {
				return failed(s, err)
			}
			ui.OK(fmt.Sprintf("cleared %d", n))
			return 0
		})

	case "serve":
		return doServe(ctx, a, opt)

	case "auth":
		if len(a) == 0 {
			ui.Fail("usage: tada auth <login|logout|status>")
			return 2
		}
		switch a[0] {
		case "login":
			return doAuthLogin(opt)
		case "logout":
			return doAuthLogout(opt)
		case "status":
			return doAuthStatus(opt)
		default:
			ui.Fail("usage: tada auth <login|logout|status>")
			return 2
		}
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(ui.Err)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Fprint(ui.Out, `tada - todos from your terminal

Usage:
  tada [flags] <subcommand> [args]

Subcommands:
  ls                     Interactive list (TUI)
  list [--filter f]      Print items (all, active, completed)
  add <title...>         Add a new item (title can be multiple words)
  done <index>           Toggle done for item at 1-based index
  edit <index> <title>   Rename item; an empty title deletes it
  rm <index>             Remove item at 1-based index
  toggle-all             Complete everything, or reopen if all are done
  clear                  Delete every completed item
  serve [--addr a] [--data f]   Run a local stand-in todo API
  auth <login|logout|status>    Bearer token for the todo API

Flags:
  --api-url, --user-id, --log-level, --theme, --group

Examples:
  tada --user-id 42 add "Buy milk"
  tada list --filter active
  tada done 2
`)
}

// withStore connects to the API, loads the list and hands over the store.
func withStore(ctx context.Context, opt Options, fn func(*store.Store) int) int {
	cfg := opt.Config
	if cfg.UserID == 0 {
		ui.Fail("no user id configured. Set user_id in ~/.tada/config.toml, TADA_USER_ID or --user-id")
		return 2
	}
	client := api.New(api.Options{
		BaseURL: cfg.APIURL,
		UserID:  cfg.UserID,
		Token:   opt.Token,
		Timeout: cfg.Timeout(),
		Logger:  opt.Logger,
	})
	s := store.New(client, store.Options{UserID: cfg.UserID, Logger: opt.Logger})
	defer s.Close()

	if err := s.Load(ctx); err != nil {
		return failed(s, err)
	}
	return fn(s)
}

// failed prints the banner text the store chose, falling back to err.
func failed(s *store.Store, err error) int {
	msg := s.Snapshot().Error
	if msg == "" {
		msg = err.Error()
	}
	ui.Fail(msg)
	if errors.Is(err, store.ErrEmptyTitle) || errors.Is(err, store.ErrUnknownTodo) {
		return 2
	}
	return 1
}

// pick resolves a 1-based index against the full list.
func pick(s *store.Store, userIndex int) (model.Todo, bool) {
	todos := s.Snapshot().Todos
	if userIndex < 1 || userIndex > len(todos) {
		ui.Fail(fmt.Sprintf("index out of range: have %d, got %d", len(todos), userIndex))
		fmt.Fprintln(ui.Err, ui.Dim("Hint: run `tada list` to see valid indexes"))
		return model.Todo{}, false
	}
	return todos[userIndex-1], true
}

// -------------- subcommand impls ----------------

func doList(s *store.Store, f model.Filter, group bool) int {
	s.SetFilter(f)
	snap := s.Snapshot()
	t := ui.Current()

	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(t.Title, "Todos"),
		ui.C(t.Success, t.SymDone), snap.CompletedCount,
		ui.C(t.Pending, t.SymUnchecked), snap.ActiveCount,
		ui.C(t.Accent, "Total"), len(snap.Todos),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, ui.C(t.Muted, ui.ProgressBar(snap.CompletedCount, len(snap.Todos), 28)))
	lines = append(lines, "")

	if group && f == model.All {
		lines = append(lines, groupLines(snap.Todos)...)
	} else {
		lines = append(lines, flatLines(snap.Todos, f)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, fmt.Sprintf("%d items left · filter: %s", snap.ActiveCount, f)))
	ui.Panel(lines)
	return 0
}

func doAdd(ctx context.Context, s *store.Store, title string) int {
	created, err := s.AddTodo(ctx, title)
	if err != nil {
		return failed(s, err)
	}
	ui.OK(fmt.Sprintf("added %q", created.Title))
	return 0
}

func doToggle(ctx context.Context, s *store.Store, userIndex int) int {
	td, ok := pick(s, userIndex)
	if !ok {
		return 2
	}
	if _, err := s.ToggleTodo(ctx, td.ID, model.CompletedPatch(!td.Completed)); err != nil {
		return failed(s, err)
	}
	ui.OK("toggled")
	return 0
}

func doEdit(ctx context.Context, s *store.Store, userIndex int, title string) int {
	td, ok := pick(s, userIndex)
	if !ok {
		return 2
	}
	s.BeginEdit(td.ID)
	if err := s.EditTodo(ctx, td.ID, title); err != nil {
		return failed(s, err)
	}
	switch title = strings.TrimSpace(title); title {
	case "":
		ui.OK("removed")
	case strings.TrimSpace(td.Title):
		ui.OK("unchanged")
	default:
		ui.OK("renamed")
	}
	return 0
}

func doRemove(ctx context.Context, s *store.Store, userIndex int) int {
	td, ok := pick(s, userIndex)
	if !ok {
		return 2
	}
	if err := s.DeleteTodo(ctx, td.ID); err != nil {
		return failed(s, err)
	}
	ui.OK("removed")
	return 0
}

func doServe(ctx context.Context, args []string, opt Options) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(ui.Err)
	addr := fs.String("addr", "127.0.0.1:8080", "listen address")
	data := fs.String("data", "todos.json", "JSON file backing the store; empty keeps it in memory")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger, err := logging.New(os.Stderr, logging.Options{Level: opt.Config.LogLevel, Prefix: "tada-api"})
	if err != nil {
		ui.Fail(err.Error())
		return 2
	}
	db, err := fakeapi.Open(*data)
	if err != nil {
		ui.Fail("open store: " + err.Error())
		return 1
	}
	logger.Info("serving todo API", "addr", *addr, "data", *data)
	if err := fakeapi.Serve(ctx, fakeapi.New(db, logger), *addr); err != nil {
		ui.Fail("serve: " + err.Error())
		return 1
	}
	return 0
}

// -------------- rendering helpers --------------

func todoLine(i int, td model.Todo) string {
	t := ui.Current()
	idx := fmt.Sprintf("%2d.", i+1)
	box := t.BoxUnchecked
	color := t.Muted
	if td.Completed {
		box, color = t.BoxChecked, t.Success
	}
	title := td.Title
	if len([]rune(title)) > 80 {
		title = string([]rune(title)[:77]) + "..."
	}
	line := fmt.Sprintf("%s %s %s", ui.Dim(idx), ui.C(color, box), title)
	if td.Processed() {
		line += " " + ui.C(t.Pending, t.SymBusy)
	}
	return line
}

// flatLines keeps the index of each todo in the full list so it can be
// passed back to done/edit/rm.
func flatLines(all []model.Todo, f model.Filter) []string {
	var out []string
	for i, td := range all {
		if f.Match(td) {
			out = append(out, todoLine(i, td))
		}
	}
	if len(out) == 0 {
		return []string{ui.C(ui.Current().Muted, "no items")}
	}
	return out
}

func groupLines(all []model.Todo) []string {
	t := ui.Current()
	var lines []string
	for _, sec := range []struct {
		name string
		f    model.Filter
	}{{"Pending", model.Active}, {"Done", model.Completed}} {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, ui.C(t.Accent, sec.name))
		if sub := flatLines(all, sec.f); len(sec.f.Apply(all)) > 0 {
			lines = append(lines, sub...)
		} else {
			lines = append(lines, ui.C(t.Muted, "(none)"))
		}
	}
	return lines
}
