// Package cli implements the interactive terminal client. It wires the gate
// controller to a text presenter and drives sign-up, sign-in, recovery and
// license activation from a small REPL.
package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/frostgate/frostgate/internal/client/api"
	"github.com/frostgate/frostgate/internal/client/config"
	"github.com/frostgate/frostgate/internal/client/gate"
	"github.com/frostgate/frostgate/internal/client/license"
	"github.com/frostgate/frostgate/internal/client/services"
	"github.com/frostgate/frostgate/internal/client/session"
	"github.com/frostgate/frostgate/internal/client/store"
	"github.com/frostgate/frostgate/internal/filex"
	"github.com/frostgate/frostgate/internal/logging"

	_ "modernc.org/sqlite"
)

const (
	databaseFile = "frostgate.db"
	artifactFile = "license.bin"
)

type App struct {
	config    *config.Config
	ctrl      *gate.Controller
	artifacts *license.ArtifactStore
	presenter *TermPresenter
	log       logging.Logger
	reader    *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	dataDir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, err
	}

	db, err := store.InitDatabase(ctx, filepath.Join(dataDir, databaseFile))
	if err != nil {
		return nil, err
	}

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	cache := store.NewSessionCache(store.NewSQLiteRepository(db))
	apiClient := api.NewHTTPClient(c.ServerBaseURL, c.RequestTimeout)
	artifacts := license.NewArtifactStore(filepath.Join(dataDir, artifactFile), []byte(c.InstallSecret))
	presenter := NewTermPresenter(os.Stdout)

	ctrl := gate.New(gate.Deps{
		License:   license.NewValidator(artifacts, apiClient, log),
		Sessions:  session.NewValidator(apiClient, log),
		Users:     apiClient,
		Auth:      services.NewAuthService(apiClient),
		Cache:     cache,
		Presenter: presenter,
		Log:       log,
	})

	return &App{
		config:    c,
		ctrl:      ctrl,
		artifacts: artifacts,
		presenter: presenter,
		log:       log,
		reader:    bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.ctrl.Close()
	a.ctrl.Refresh(ctx)
	a.Root(ctx)
}
