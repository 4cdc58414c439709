package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"todo/internal/config"
	"todo/internal/storage"
	"todo/internal/tasks"
	"todo/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath, dbPath string
	cmd := &cobra.Command{
		Use:          "todo",
		Short:        "A terminal task list with drag-and-drop reordering",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, dbPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", config.ResolveConfigPath(), "path to the config file")
	cmd.Flags().StringVar(&dbPath, "db", "", "database path (overrides db_path from the config)")
	return cmd
}

func run(configPath, dbPath string) error {
	cfg, err := config.LoadOrCreate(afero.NewOsFs(), configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	closeLog, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	slog.Info("starting", "config", configPath, "db", cfg.DBPath)
	if err := ui.Run(tasks.NewStore(store), store, cfg); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

// setupLogging points the default slog logger at the configured file. The
// terminal belongs to the UI, so without a log path output is dropped.
func setupLogging(cfg config.Config) (func(), error) {
	if cfg.LogPath == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() {}, nil
	}
	f, err := tea.LogToFile(cfg.LogPath, "todo")
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	return func() { f.Close() }, nil
}
