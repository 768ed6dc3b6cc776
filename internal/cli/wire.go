package cli

import (
	"fmt"
	"os"

	"github.com/commentify/commentify/internal/api"
	"github.com/commentify/commentify/internal/config"
	"github.com/commentify/commentify/internal/notify"
	"github.com/commentify/commentify/internal/session"
	"github.com/commentify/commentify/internal/store"
)

// deps holds the collaborators a command needs once config and local
// state are resolved.
type deps struct {
	cfg    *config.Config
	store  *store.Store
	client *api.Client
	sink   notify.Sink
}

// Close releases the local state database
func (d *deps) Close() {
	if d.store != nil {
		d.store.Close()
	}
}

// wire loads config, opens the state store, and builds the transport
// client with the stored token as its bearer source.
func (a *App) wire() (*deps, error) {
	path := a.configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	statePath := cfg.StatePath
	if statePath == "" {
		statePath, err = store.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	st, err := store.Open(statePath)
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}

	timeout, err := cfg.RequestTimeout()
	if err != nil {
		st.Close()
		return nil, err
	}

	client := api.New(cfg.API.BaseURL, timeout, func() string {
		token, err := st.Token()
		if err != nil {
			return ""
		}
		return token
	})

	return &deps{
		cfg:    cfg,
		store:  st,
		client: client,
		sink:   notify.NewConsole(os.Stdout),
	}, nil
}

// currentSession restores the authenticated session from local state
func (d *deps) currentSession() (*session.Session, error) {
	return session.Restore(d.store)
}
