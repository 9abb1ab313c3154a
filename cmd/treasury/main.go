package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/SscSPs/treasury_backoffice/internal/client/auth"
	"github.com/SscSPs/treasury_backoffice/internal/client/console"
	"github.com/SscSPs/treasury_backoffice/internal/client/gateway"
	"github.com/SscSPs/treasury_backoffice/internal/client/remittance"
	"github.com/SscSPs/treasury_backoffice/internal/client/session"
	"github.com/SscSPs/treasury_backoffice/internal/platform/config"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const programName = "treasury"

var globalFlags = struct {
	debug     bool
	assumeYes bool
}{}

// app is what every subcommand runs against.
type app struct {
	cfg      *config.ConsoleConfig
	logger   *slog.Logger
	term     *console.Terminal
	sessions *session.Manager
	auth     *auth.Service
	slips    *remittance.Controller
	closers  []func() error
}

type appKey struct{}

func appFrom(cmd *cobra.Command) *app {
	a, _ := cmd.Context().Value(appKey{}).(*app)
	return a
}

func newApp() (*app, error) {
	cfg, err := config.LoadConsoleConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.LogLevel
	if globalFlags.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	a := &app{
		cfg:    cfg,
		logger: logger,
		term:   console.NewTerminal(os.Stdin, os.Stdout, globalFlags.assumeYes),
	}

	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	a.sessions = session.NewManager(store, logger)
	a.sessions.Subscribe(func(ev session.Event) {
		if ev.Kind == session.EventCleared {
			logger.Debug("Session cleared", slog.String("reason", ev.Reason))
		}
	})

	gw, err := gateway.New(cfg.APIBaseURL, a.sessions,
		gateway.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		gateway.WithNavigator(a.term),
		gateway.WithLoginRoute(cfg.LoginRoute),
		gateway.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	a.auth = auth.NewService(gw, a.sessions, logger)
	a.slips = remittance.NewController(gw, a.term, a.term, remittance.WithLogger(logger))
	return a, nil
}

func (a *app) openStore() (session.Store, error) {
	switch a.cfg.SessionStore {
	case config.SessionStoreRedis:
		client := redis.NewClient(&redis.Options{Addr: a.cfg.RedisAddr})
		a.closers = append(a.closers, client.Close)
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("failed to reach redis at %s: %w", a.cfg.RedisAddr, err)
		}
		return session.NewRedisStore(client, a.cfg.RedisKey, a.cfg.SessionTTL), nil
	case config.SessionStoreMemory:
		a.logger.Warn("In-memory session store: the session ends with this command")
		return session.NewMemoryStore(), nil
	default:
		return session.NewFileStore(a.cfg.SessionFile), nil
	}
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn("Close failed", slog.String("error", err.Error()))
		}
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Treasury back-office console: cheque remittance slips (FRCHQ)",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.assumeYes, "yes", "y", false, "answer yes to every confirmation")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, a))
		return nil
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if a := appFrom(cmd); a != nil {
			a.close()
		}
	}

	rootCmd.AddCommand(loginCommand())
	rootCmd.AddCommand(logoutCommand())
	rootCmd.AddCommand(whoamiCommand())
	rootCmd.AddCommand(slipsCommand())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", programName, err)
		os.Exit(1)
	}
}
