package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/termjournal/internal/config"
	"github.com/jask/termjournal/internal/database"
	"github.com/jask/termjournal/internal/database/repository"
	"github.com/jask/termjournal/internal/keys"
	"github.com/jask/termjournal/internal/service"
	"github.com/jask/termjournal/internal/tui"
)

var (
	configPath string
	dbPath     string
	verbose    bool

	cfg config.Config

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:          "termjournal",
	Short:        "A modal terminal journal with a small team roster utility",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.Database.Path = dbPath
		}
		logger, err = newLogger(cfg.Log, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runShell,
}

var recentCmd = &cobra.Command{
	Use:   "recent [n]",
	Short: "Print the most recent entries without starting the shell",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRecent,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write config.toml and keybindings.toml with the current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: $TERMJOURNAL_CONFIG or ~/.config/termjournal/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "journal database path (overrides database.path)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(recentCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger writes JSON logs to the configured file. The terminal belongs
// to the TUI.
func newLogger(lc config.LogConfig, verbose bool) (*zap.Logger, error) {
	if strings.TrimSpace(lc.Path) == "" {
		return zap.NewNop(), nil
	}
	if err := os.MkdirAll(filepath.Dir(lc.Path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	zc := zap.NewProductionConfig()
	level := strings.TrimSpace(lc.Level)
	if verbose {
		level = "debug"
	}
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log.level: %w", err)
		}
		zc.Level = lvl
	}
	zc.OutputPaths = []string{lc.Path}
	zc.ErrorOutputPaths = []string{lc.Path}
	return zc.Build()
}

// openStore migrates and opens the database and wires the services on it.
func openStore(ctx context.Context) (*sql.DB, tui.Services, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, tui.Services{}, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		return nil, tui.Services{}, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, tui.Services{}, fmt.Errorf("open db: %w", err)
	}
	if err := database.SeedDefaults(ctx, db); err != nil {
		_ = db.Close()
		return nil, tui.Services{}, fmt.Errorf("seed defaults: %w", err)
	}

	entries := repository.NewEntryRepo(db)
	return db, tui.Services{
		Journal:     &service.JournalService{Entries: entries},
		Team:        &service.TeamService{DB: db, Employees: repository.NewEmployeeRepo(db)},
		Maintenance: &service.MaintenanceService{DB: db, Entries: entries, Logger: logger},
	}, nil
}

func runShell(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	db, services, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	loc, err := cfg.Location()
	if err != nil {
		logger.Warn("using local timezone", zap.Error(err))
	}
	registry, err := keys.Load(cfg.UI.Keybindings)
	if err != nil {
		logger.Warn("using default key bindings", zap.Error(err))
		fmt.Fprintf(cmd.ErrOrStderr(), "warn: %v (using default key bindings)\n", err)
	}

	logger.Info("starting shell", zap.String("db", cfg.Database.Path))
	app := tui.New(ctx, cfg, services, tui.Options{
		Logger:   logger,
		Keys:     registry,
		Location: loc,
	})
	if _, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run shell: %w", err)
	}
	return nil
}

func runRecent(cmd *cobra.Command, args []string) error {
	limit := cfg.Journal.RecentLimit
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("recent: %q is not a positive number", args[0])
		}
		limit = n
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	db, services, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	previews, err := services.Journal.Recent(ctx, limit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(previews) == 0 {
		fmt.Fprintln(out, "No entries yet.")
		return nil
	}
	for _, p := range previews {
		text := strings.Join(strings.Fields(p.Text), " ")
		fmt.Fprintf(out, "%s  %s\n", p.Date, runewidth.Truncate(text, 60, "…"))
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	out := cmd.OutOrStdout()
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(out, "config exists: %s\n", path)
	} else {
		if err := config.Save(path, cfg); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", path)
	}
	if cfg.UI.Keybindings == "" {
		return nil
	}
	wrote, err := keys.WriteDefaults(cfg.UI.Keybindings)
	if err != nil {
		return err
	}
	if wrote {
		fmt.Fprintf(out, "wrote %s\n", cfg.UI.Keybindings)
	} else {
		fmt.Fprintf(out, "keybindings exist: %s\n", cfg.UI.Keybindings)
	}
	return nil
}
