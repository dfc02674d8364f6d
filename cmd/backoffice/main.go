// Command backoffice serves the bakery back-office console: sign-in,
// session handling, and the permission-gated CRUD screens, backed by the
// remote bakery REST API.
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

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lahornada/backoffice/api"
	"github.com/lahornada/backoffice/auth"
	"github.com/lahornada/backoffice/config"
	"github.com/lahornada/backoffice/handlers"
	"github.com/lahornada/backoffice/session"
)

const shutdownGrace = 10 * time.Second

func main() {
	var cfgFile string

	root := &cobra.Command{
		Use:           "backoffice",
		Short:         "Bakery back-office console",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfgFile)
		},
	}
	root.Flags().StringVar(&cfgFile, "config", "", "path to config file (optional)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfgFile string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}

	store, err := newStore(cfg.Session)
	if err != nil {
		return err
	}

	client := api.NewClient(api.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Logger:  log,
	})

	provider, err := auth.New().
		WithStore(store).
		WithClient(client).
		WithLogger(log).
		Build()
	if err != nil {
		return err
	}

	// Hydrate before serving so the first guard evaluation never races the
	// storage read.
	provider.Load()
	if user := provider.CurrentUser(); user != nil {
		log.WithField("user_id", user.ID).Info("restored session")
	}

	router := handlers.NewRouter(provider, store, client, log)
	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("listen", cfg.Listen).Info("console listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newLogger(cfg config.LogConfig) (*logrus.Logger, error) {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log, nil
}

func newStore(cfg config.SessionConfig) (session.Store, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return session.NewFileStore(cfg.File), nil
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return session.NewRedisStore(rdb, cfg.Redis.Prefix), nil
	case config.BackendMemory:
		return session.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}
