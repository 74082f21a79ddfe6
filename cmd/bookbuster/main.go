// Command bookbuster is the terminal client of the BookBuster backend:
// browse the catalog, rent and return copies, and run the operator desks
// for members, fines and registration requests.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bookbuster/internal/api"
	"bookbuster/internal/bus"
	"bookbuster/internal/cli"
	"bookbuster/internal/config"
	"bookbuster/internal/session"
	"bookbuster/internal/telemetry"
)

type app struct {
	cfg    config.Config
	log    *zap.Logger
	store  session.Store
	client *api.Client
	bus    *bus.Bus
	prompt *cli.Prompter

	shutdownTraces func(context.Context) error
}

func newApp() (*app, error) {
	cfg := config.Load()

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	shutdown, err := telemetry.Setup(context.Background(), "bookbuster-cli", cfg.OTLPEndpoint)
	if err != nil {
		return nil, err
	}

	dir := cfg.SessionDir
	if dir == "" {
		dir, err = session.DefaultDir()
		if err != nil {
			return nil, err
		}
	}
	store, err := session.NewFileStore(dir)
	if err != nil {
		return nil, err
	}

	client, err := api.New(cfg.BaseURL, store,
		api.WithLogger(log),
		api.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:            cfg,
		log:            log,
		store:          store,
		client:         client,
		bus:            bus.New(),
		prompt:         cli.NewPrompter(),
		shutdownTraces: shutdown,
	}, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if a.shutdownTraces != nil {
		a.shutdownTraces(ctx)
	}
	a.log.Sync()
}

// currentUser returns the persisted session user, if logged in.
func (a *app) currentUser() (session.User, bool) {
	rec, ok := a.store.Get()
	return rec.User, ok
}

func (a *app) requireElevated() error {
	user, ok := a.currentUser()
	if !ok {
		return fmt.Errorf("no hay sesión activa; use 'bookbuster login'")
	}
	if !user.Elevated() {
		return fmt.Errorf("se requiere rol de administrador o bibliotecario")
	}
	return nil
}

func newRootCmd() *cobra.Command {
	var a *app

	root := &cobra.Command{
		Use:           "bookbuster",
		Short:         "Terminal client for the BookBuster library",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp()
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a != nil {
				a.close()
			}
		},
	}

	root.AddCommand(
		newLoginCmd(&a),
		newLogoutCmd(&a),
		newRegisterCmd(&a),
		newWhoamiCmd(&a),
		newBooksCmd(&a),
		newBookCmd(&a),
		newEditorialsCmd(&a),
		newCopiesCmd(&a),
		newRentCmd(&a),
		newLoansCmd(&a),
		newDashboardCmd(&a),
		newReturnsCmd(&a),
		newReturnCmd(&a),
		newPenaltiesCmd(&a),
		newRequestsCmd(&a),
		newSeedCmd(&a),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
