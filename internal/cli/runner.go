package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/todocrm/internal/auth"
	"github.com/idilsaglam/todocrm/internal/model"
	"github.com/idilsaglam/todocrm/internal/ui"
)

// TaskStore is the task persistence the commands run against.
type TaskStore interface {
	Tasks(ctx context.Context) ([]model.ToDoTask, error)
	AddTask(ctx context.Context, task model.ToDoTask) (model.ToDoTask, error)
	UpdateTask(ctx context.Context, task model.ToDoTask) error
	SetCompleted(ctx context.Context, task model.ToDoTask, completed bool) error
	SetFavorite(ctx context.Context, task model.ToDoTask, favorite bool) error
	DeleteTask(ctx context.Context, task model.ToDoTask) error
}

type CustomerStore interface {
	GetCustomers(ctx context.Context) (model.CustomerResponse, error)
	AddCustomer(ctx context.Context, c model.Customer) error
}

type PasswordAuth interface {
	LogIn(ctx context.Context, email, password string) (auth.Session, error)
	SignUp(ctx context.Context, email, password string) (auth.Session, error)
}

type SessionStore interface {
	Load() (*auth.Session, error)
	Save(s auth.Session) error
	Delete() error
}

// TokenVerifier checks an ID token signature.
type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

// Env is what the commands talk to. Fields a command does not need may
// be nil.
type Env struct {
	Tasks     TaskStore
	Customers CustomerStore
	Password  PasswordAuth
	Federated func(ctx context.Context, provider string, out io.Writer) (auth.Session, error)
	Sessions  SessionStore
	Verifier  TokenVerifier

	// App runs the interactive screens.
	App func(ctx context.Context) error

	// ExportPath is used by export and import when no file is given.
	ExportPath string

	Log logrus.FieldLogger
}

// Options tune output behavior from root flags.
type Options struct {
	Group bool // list grouped by active/completed

	In       io.Reader
	Out, Err io.Writer
}

type runner struct {
	env Env
	opt Options
	ctx context.Context
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, env Env, opt Options) int {
	if opt.In == nil {
		opt.In = os.Stdin
	}
	if opt.Out == nil {
		opt.Out = os.Stdout
	}
	if opt.Err == nil {
		opt.Err = os.Stderr
	}
	if env.Log == nil {
		env.Log = logrus.New()
	}
	r := &runner{env: env, opt: opt, ctx: ctx}

	if len(args) == 0 {
		PrintHelp(opt.Out)
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Out)
		return 0

	case "app":
		return r.doApp()

	case "ls":
		return r.doList()

	case "add":
		title, desc, ok := splitDescription(a)
		if !ok || title == "" {
			return r.usage("todo add <title...> [-d description]")
		}
		return r.doAdd(title, desc)

	case "edit":
		if len(a) < 2 {
			return r.usage("todo edit <index> <title...>")
		}
		n, code := r.index(cmd, a[0])
		if code != 0 {
			return code
		}
		title, desc, ok := splitDescription(a[1:])
		if !ok || title == "" {
			return r.usage("todo edit <index> <title...> [-d description]")
		}
		return r.doEdit(n, title, desc)

	case "done", "undone", "fav", "unfav", "rm":
		if len(a) != 1 {
			return r.usage(fmt.Sprintf("todo %s <index>", cmd))
		}
		n, code := r.index(cmd, a[0])
		if code != 0 {
			return code
		}
		return r.doTaskAction(cmd, n)

	case "export":
		if len(a) > 1 {
			return r.usage("todo export [file]")
		}
		return r.doExport(optionalArg(a))

	case "import":
		if len(a) != 1 {
			return r.usage("todo import <file>")
		}
		return r.doImport(a[0])

	case "customers":
		return r.doCustomers()

	case "customer-add":
		if len(a) != 3 {
			return r.usage("todo customer-add <first> <last> <email>")
		}
		return r.doCustomerAdd(a[0], a[1], a[2])

	case "auth":
		if len(a) == 0 {
			return r.usage("todo auth <login|signup|google|github|apple|logout|status|whoami>")
		}
		return r.doAuth(a[0], a[1:])
	}

	r.fail("unknown subcommand: " + cmd)
	fmt.Fprintln(opt.Err)
	PrintHelp(opt.Err)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `todo - tasks and customers from the terminal

Usage:
  todo [--config dir] [--group] <subcommand> [args]

Subcommands:
  app                        Open the interactive screens
  ls                         List tasks (active first, favorites on top)
  add <title...> [-d desc]   Add a task (title can be multiple words)
  edit <index> <title...>    Change the title (and -d description) of a task
  done|undone <index>        Mark the task at the 1-based index completed or active
  fav|unfav <index>          Mark or unmark the task as favorite
  rm <index>                 Remove the task
  export [file]              Write all tasks to a JSON file (default todos.json)
  import <file>              Add the tasks of a JSON file
  customers                  List customers from the customer service
  customer-add <first> <last> <email>
                             Create a customer
  auth login|signup <email> [password]
  auth google|github|apple   Sign in through the browser
  auth logout|status|whoami

Examples:
  todo add "Buy milk" -d "2L, semi-skimmed"
  todo ls
  todo done 2
  todo rm 3
`)
}

func (r *runner) ok(msg string)   { ui.OK(r.opt.Out, msg) }
func (r *runner) fail(msg string) { ui.Fail(r.opt.Err, msg) }

func (r *runner) usage(u string) int {
	r.fail("usage: " + u)
	return 2
}

func (r *runner) index(cmd, arg string) (int, int) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		r.fail(cmd + ": not a number: " + arg)
		return 0, 2
	}
	return n, 0
}

func optionalArg(a []string) string {
	if len(a) == 0 {
		return ""
	}
	return a[0]
}

// splitDescription separates the words of a title from a trailing
// -d/--desc description.
func splitDescription(a []string) (title, desc string, ok bool) {
	for i, arg := range a {
		if arg == "-d" || arg == "--desc" {
			if i+1 >= len(a) {
				return "", "", false
			}
			return strings.TrimSpace(strings.Join(a[:i], " ")), strings.Join(a[i+1:], " "), true
		}
	}
	return strings.TrimSpace(strings.Join(a, " ")), "", true
}
