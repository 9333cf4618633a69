package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/todocrm/internal/auth"
	"github.com/idilsaglam/todocrm/internal/cli"
	"github.com/idilsaglam/todocrm/internal/config"
	"github.com/idilsaglam/todocrm/internal/customer"
	"github.com/idilsaglam/todocrm/internal/logging"
	"github.com/idilsaglam/todocrm/internal/store/taskdb"
	"github.com/idilsaglam/todocrm/internal/tui"
	"github.com/idilsaglam/todocrm/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	configDir := flag.String("config", "", "config directory holding config.yml (default $XDG_CONFIG_HOME/todo)")
	groupPending := flag.Bool("group", false, "group output by active/completed")
	flag.Parse()

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp(os.Stdout)
		os.Exit(2)
	}

	code := run(args, *configDir, cli.Options{Group: *groupPending})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}

func run(args []string, dir string, opt cli.Options) int {
	cfg, err := config.Load(dir)
	if err != nil {
		ui.Fail(os.Stderr, "config: "+err.Error())
		return 1
	}
	ui.SetTheme(cfg.UI.Theme)
	if os.Getenv("NO_COLOR") != "" {
		ui.SetColorForcing(false, true)
	}
	if err := cfg.EnsureDir(); err != nil {
		ui.Fail(os.Stderr, "config: "+err.Error())
		return 1
	}

	log, closer, err := logging.New(cfg.Log)
	if err != nil {
		ui.Fail(os.Stderr, "log: "+err.Error())
		return 1
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw := taskdb.New(taskdb.Options{
		Path:            cfg.Database.Path,
		CompactOnLaunch: cfg.Database.CompactOnLaunch,
	}, log)
	defer gw.Close()

	repo := customer.New(cfg.Customer.BaseURL, nil, time.Duration(cfg.Customer.TimeoutSeconds)*time.Second)
	password := auth.NewPasswordClient(cfg.Auth.IdentityURL, cfg.Auth.FirebaseAPIKey, nil)
	federated := auth.FederatedSignIn(cfg.Auth)
	sessions := auth.NewStore(cfg.SessionPath())

	env := cli.Env{
		Tasks:     gw,
		Customers: repo,
		Password:  password,
		Federated: federated,
		Sessions:  sessions,
		Log:       log,
		App: func(ctx context.Context) error {
			return tui.Run(ctx, tui.Deps{
				Tasks:        gw,
				Customers:    repo,
				Password:     password,
				Federated:    federated,
				Sessions:     sessions,
				Log:          log,
				SplashDelay:  time.Duration(cfg.UI.SplashDelayMs) * time.Millisecond,
				StartupDelay: time.Duration(cfg.UI.StartupDelayMs) * time.Millisecond,
			})
		},
	}

	if needsVerifier(args) && cfg.Auth.JwksURL != "" {
		v, end, err := auth.NewJWKSVerifier(cfg.Auth.JwksURL, cfg.Auth.ProjectID, log)
		if err != nil {
			log.WithError(err).Warn("token verification disabled")
		} else {
			defer end()
			env.Verifier = v
		}
	}

	log.WithFields(logrus.Fields{"cmd": args[0], "config": cfg.Dir}).Debug("running")
	return cli.Run(ctx, args, env, opt)
}

// needsVerifier reports whether the command checks token signatures,
// which fetches signing keys over the network.
func needsVerifier(args []string) bool {
	return len(args) >= 2 && args[0] == "auth" && args[1] == "status"
}
