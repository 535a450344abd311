// Package app wires the chat client together: storage backend, persistence,
// conversation store, telemetry, agent client, and dispatcher. Everything is
// constructed explicitly; there are no package-level singletons.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/sbellin/palaver/src/agentclient"
	"github.com/sbellin/palaver/src/chat"
	"github.com/sbellin/palaver/src/config"
	"github.com/sbellin/palaver/src/dispatch"
	"github.com/sbellin/palaver/src/ident"
	"github.com/sbellin/palaver/src/storage"
	"github.com/sbellin/palaver/src/telemetry"
)

// App holds the assembled services for one client process.
type App struct {
	Config      *config.Config
	Store       *chat.Store
	Dispatcher  *dispatch.Dispatcher
	Persistence *storage.Store
	Telemetry   *telemetry.Monitor
	UserID      string
	Logger      *slog.Logger

	kvCloser io.Closer
}

// Options overrides parts of the default wiring, mainly for tests.
type Options struct {
	Logger *slog.Logger
	// Caller replaces the HTTP agent client.
	Caller dispatch.AgentCaller
	// KV replaces the configured storage backend.
	KV storage.KV
}

// New builds an App from configuration.
func New(cfg *config.Config, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	kv := opts.KV
	var kvCloser io.Closer
	if kv == nil {
		opened, closer, err := openBackend(cfg)
		if err != nil {
			return nil, err
		}
		kv = opened
		kvCloser = closer
	}

	persistence := storage.NewStore(kv, logger)

	// The user identity is minted once per installation and kept for as
	// long as the backing store survives.
	userID, ok := persistence.LoadIdentity()
	if !ok {
		userID = ident.Generate()
		persistence.SaveIdentity(userID)
	}

	store := chat.NewStore(chat.StoreConfig{
		Persister: persistence,
		Logger:    logger,
	})
	if saved, ok := persistence.LoadConversations(); ok {
		store.Seed(saved)
	}

	monitor := telemetry.NewMonitor(logger)

	caller := opts.Caller
	if caller == nil {
		caller = agentclient.NewClient(agentclient.Config{
			BaseURL: cfg.Agent.BaseURL,
			APIKey:  cfg.Agent.APIKey,
			Logger:  logger,
		})
	}

	dispatcher := dispatch.New(dispatch.Config{
		Store:      store,
		Caller:     caller,
		AgentID:    cfg.Agent.ID,
		UserID:     userID,
		Extractors: agentclient.DefaultExtractors(),
		Telemetry:  monitor,
		Logger:     logger,
	})

	return &App{
		Config:      cfg,
		Store:       store,
		Dispatcher:  dispatcher,
		Persistence: persistence,
		Telemetry:   monitor,
		UserID:      userID,
		Logger:      logger,
		kvCloser:    kvCloser,
	}, nil
}

// Close flushes pending persistence and releases the backend.
func (a *App) Close() error {
	a.Store.Close()
	_ = a.Telemetry.Close()
	if a.kvCloser != nil {
		return a.kvCloser.Close()
	}
	return nil
}

func openBackend(cfg *config.Config) (storage.KV, io.Closer, error) {
	dir := cfg.DataDir()
	switch cfg.Storage.Backend {
	case "badger":
		kv, err := storage.OpenBadger(filepath.Join(dir, "badger"))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open storage backend: %w", err)
		}
		return kv, kv, nil
	case "sqlite":
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
		kv, err := storage.OpenSQLite(filepath.Join(dir, "palaver.db"))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open storage backend: %w", err)
		}
		return kv, kv, nil
	case "file":
		kv, err := storage.NewFileKV(afero.NewOsFs(), filepath.Join(dir, "kv"))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open storage backend: %w", err)
		}
		return kv, nil, nil
	case "none":
		return storage.NewMapKV(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
