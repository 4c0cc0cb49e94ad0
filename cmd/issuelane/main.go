package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/issuelane/issuelane/internal/app"
	"github.com/issuelane/issuelane/internal/backend"
	"github.com/issuelane/issuelane/internal/model"
	"github.com/issuelane/issuelane/internal/session"
	"github.com/issuelane/issuelane/internal/store"
	"github.com/issuelane/issuelane/internal/tickets"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to the config file")
	dataPath := flag.String("data", model.DefaultDataPath(), "path to the local cache database")
	flag.Parse()

	if err := run(*configPath, *dataPath); err != nil {
		fmt.Fprintln(os.Stderr, "issuelane:", err)
		os.Exit(1)
	}
}

func run(configPath, dataPath string) error {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}

	// Environment overrides keep the backend keys out of the config
	// file when desired.
	if url := os.Getenv("ISSUELANE_BACKEND_URL"); url != "" {
		cfg.Backend.URL = url
	}
	if key := os.Getenv("ISSUELANE_ANON_KEY"); key != "" {
		cfg.Backend.AnonKey = key
	}

	if cfg.Backend.URL == "" || cfg.Backend.AnonKey == "" {
		return fmt.Errorf(
			"backend not configured: set backend.url and backend.anon_key in %s "+
				"or the ISSUELANE_BACKEND_URL / ISSUELANE_ANON_KEY environment variables",
			configPath,
		)
	}

	if err := os.MkdirAll(filepath.Dir(dataPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	st, err := store.NewSQLiteStore(dataPath)
	if err != nil {
		return fmt.Errorf("opening local cache: %w", err)
	}
	defer st.Close()

	client := backend.New(cfg.Backend.URL, cfg.Backend.AnonKey)
	gateway := session.New(client, st, session.KeyringTokens{})

	// Best effort: a stale or missing remembered session just lands on
	// the sign-in screen.
	_, _ = gateway.Resume(context.Background())

	fetcher := tickets.NewFetcher(client)
	creator := tickets.NewCreator(client, gateway, cfg.Backend.Bucket)

	root := app.New(gateway, st, fetcher, creator, cfg.Display.PageSize)

	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}

	return nil
}
