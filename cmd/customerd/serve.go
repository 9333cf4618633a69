package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/todocrm/internal/customer/server"
	"github.com/idilsaglam/todocrm/internal/logging"
)

type ServeConfig struct {
	Api struct {
		Addr string `yaml:"addr" env:"CUSTOMERD_ADDR" env-default:":8080"`
	} `yaml:"api"`
	Database struct {
		Path string `yaml:"path" env:"CUSTOMERD_DB_PATH" env-default:"customers.db"`
	} `yaml:"database"`
	Log struct {
		Level string `yaml:"level" env:"CUSTOMERD_LOG_LEVEL" env-default:"info"`
	} `yaml:"log"`
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "customerd",
		Short: "Customer backend for the todo app",
	}
	root.AddCommand(newServeCmd())
	return root
}

func newServeCmd() (cmd *cobra.Command) {
	var configPath string

	cmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve GET/POST /customer",
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg ServeConfig
			if err := readConfig(configPath, &cfg); err != nil {
				return err
			}

			log := logging.Stderr(cfg.Log.Level)
			app, err := server.Open(cfg.Database.Path, log)
			if err != nil {
				return err
			}
			defer app.Close()

			srv := &http.Server{Addr: cfg.Api.Addr, Handler: app.Handler()}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(shutdownCtx)
			}()

			log.WithField("addr", cfg.Api.Addr).Info("listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file path (env only when empty)")
	return cmd
}

func readConfig(path string, cfg *ServeConfig) error {
	if path == "" {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return fmt.Errorf("read env: %w", err)
		}
		return nil
	}
	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}
