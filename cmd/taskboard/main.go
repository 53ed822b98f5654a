package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/config"
	"taskboard/internal/kv"
	"taskboard/internal/logging"
	"taskboard/internal/store"
	"taskboard/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("taskboard %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	cfg := config.Load()
	ctx := context.Background()

	backing, dbPath, err := openBacking(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening backing store: %v\n", err)
		os.Exit(1)
	}

	logPath := cfg.LogFile
	if logPath == "" {
		logPath = filepath.Join(filepath.Dir(dbPath), "taskboard.log")
	}
	log := logging.Setup(logPath)

	st, err := store.New(ctx, backing, store.WithLogger(log))
	if err != nil {
		backing.Close()
		fmt.Fprintf(os.Stderr, "Error initializing store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	app := ui.NewApp(st)
	p := tea.NewProgram(app, tea.WithAltScreen())

	// Re-render on every committed action
	unsubscribe := st.Subscribe(func(store.State) {
		p.Send(ui.StateChanged{})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

// openBacking opens the configured backing store. The second return
// is the SQLite file path, used to place the log file nearby; for
// Redis it is the data directory fallback.
func openBacking(ctx context.Context, cfg config.Config) (kv.Store, string, error) {
	dbPath, err := kv.DefaultPath(cfg.DataDir)
	if err != nil {
		return nil, "", err
	}

	switch cfg.Backend {
	case config.BackendRedis:
		s, err := kv.OpenRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, "", err
		}
		return s, dbPath, nil
	default:
		s, err := kv.OpenSQLite(dbPath)
		if err != nil {
			return nil, "", err
		}
		return s, dbPath, nil
	}
}
