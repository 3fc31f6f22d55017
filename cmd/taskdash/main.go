package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskdash/internal/app"
	"github.com/nhle/taskdash/internal/model"
	"github.com/nhle/taskdash/internal/notify"
	"github.com/nhle/taskdash/internal/repo"
	"github.com/nhle/taskdash/internal/store"
)

// Version information set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("taskdash %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	dbPath := cfg.Storage.Path
	if dbPath == "" {
		dbPath, err = model.DefaultDBPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resolving data directory: %v\n", err)
			os.Exit(1)
		}
	}

	kv, err := store.NewKVStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer kv.Close()

	ctx := context.Background()
	tasks := repo.NewTasks(ctx, kv)
	log := repo.NewNotificationLog(ctx, kv)

	watcher := notify.New(tasks, log,
		time.Duration(cfg.Notifier.PollIntervalSec)*time.Second)
	defer watcher.Stop()

	root := app.New(tasks, log, watcher,
		time.Duration(cfg.Display.RefreshIntervalSec)*time.Second)

	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}
