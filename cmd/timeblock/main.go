package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hvu/timeblock/internal/app"
	"github.com/hvu/timeblock/internal/config"
	"github.com/hvu/timeblock/internal/store"
	"github.com/hvu/timeblock/internal/update"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagConfig  string
	flagDataDir string
	flagDev     bool
)

var rootCmd = &cobra.Command{
	Use:   "timeblock",
	Short: "A visual time-blocking planner for the terminal",
	Long: `timeblock is a drag-driven day planner. Blocks are created, moved,
and resized with the mouse; each day is stored as a plain markdown file.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "path to the config file")
	rootCmd.Flags().StringVar(&flagDataDir, "data-dir", "", "directory for day files")
	rootCmd.Flags().BoolVar(&flagDev, "dev", false, "use ./devdata and skip the update check")
	rootCmd.Version = version
}

func run(cmd *cobra.Command, args []string) error {
	configPath := flagConfig
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	dataDir := cfg.DataDir
	if flagDataDir != "" {
		dataDir = flagDataDir
	}
	if flagDev {
		dataDir = filepath.Join(".", "devdata", "days")
	}

	dayStore, err := store.NewFileDayStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening day store: %w", err)
	}

	settingsPath := filepath.Join(filepath.Dir(dataDir), "settings.db")
	settingsStore, err := store.NewSettingsStore(settingsPath)
	if err != nil {
		return fmt.Errorf("opening settings store: %w", err)
	}
	defer settingsStore.Close()

	var updates *update.Client
	if cfg.Update.Enabled && !flagDev {
		updates = update.NewClient(cfg.Update.FeedURL, version)
	}

	program := tea.NewProgram(
		app.New(cfg, configPath, settingsStore, dayStore, updates),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
