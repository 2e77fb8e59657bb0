// Command notes is a keyboard-driven terminal note organiser.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/treykane/norganisers/internal/app"
	"github.com/treykane/norganisers/internal/config"
	"github.com/treykane/norganisers/internal/editor"
	"github.com/treykane/norganisers/internal/logging"
	"github.com/treykane/norganisers/internal/notes"
	"github.com/treykane/norganisers/internal/search"
	"github.com/treykane/norganisers/internal/watch"
)

// version is set via ldflags at build time.
var version = "dev"

const debugLogFile = "debug.log"

var log = logging.New("main")

type rootOptions struct {
	debug      bool
	configPath string
	dataFile   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "notes",
		Short:         "Keyboard-driven terminal note organiser",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(opts.debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "write debug logs to "+debugLogFile)
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file path")
	cmd.PersistentFlags().StringVar(&opts.dataFile, "data-file", "", "notes data file (overrides the config)")
	cmd.AddCommand(newInitCmd(opts))
	return cmd
}

func newInitCmd(opts *rootOptions) *cobra.Command {
	var (
		backend string
		force   bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file and create an empty notes data file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.OutOrStdout(), opts, backend, force)
		},
	}
	cmd.Flags().StringVar(&backend, "backend", config.BackendJSON, "note backend (json or sqlite)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

// setupLogging sends logs to debug.log at debug level when requested.
func setupLogging(debug bool) error {
	if !debug {
		return nil
	}
	f, err := os.OpenFile(debugLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open debug log: %w", err)
	}
	logging.Configure(f, slog.LevelDebug)
	return nil
}

// quietLogging drops log output while the program owns the terminal.
// Failures are shown on the status line instead.
func quietLogging(debug bool) {
	if debug {
		return
	}
	logging.Configure(io.Discard, slog.LevelError)
}

func configPath(opts *rootOptions) (string, error) {
	if strings.TrimSpace(opts.configPath) != "" {
		return opts.configPath, nil
	}
	return config.ConfigPath()
}

func configExists(opts *rootOptions) (bool, error) {
	if strings.TrimSpace(opts.configPath) == "" {
		return config.Exists()
	}
	_, err := os.Stat(opts.configPath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func saveConfig(opts *rootOptions, cfg config.Config) error {
	if strings.TrimSpace(opts.configPath) == "" {
		return config.Save(cfg)
	}
	return config.SaveFile(opts.configPath, cfg)
}

func runInit(out io.Writer, opts *rootOptions, backend string, force bool) error {
	path, err := configPath(opts)
	if err != nil {
		return err
	}
	if !force {
		exists, err := configExists(opts)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("config already exists in %s (use --force to overwrite)", filepath.Dir(path))
		}
	}
	dataFile := opts.dataFile
	if strings.TrimSpace(dataFile) == "" {
		if dataFile, err = config.DefaultDataFilePath(); err != nil {
			return err
		}
		if backend == config.BackendSQLite {
			dataFile = strings.TrimSuffix(dataFile, ".json") + ".db"
		}
	}

	cfg, err := config.Normalize(config.Config{DataFilePath: dataFile, NoteBackend: backend})
	if err != nil {
		return err
	}
	if err := saveConfig(opts, cfg); err != nil {
		return err
	}
	b, err := notes.Open(cfg.NoteBackend, cfg.DataFilePath)
	if err != nil {
		return err
	}
	closeBackend(b)

	fmt.Fprintf(out, "Wrote config to %s\n", path)
	fmt.Fprintf(out, "Notes are stored in %s (%s)\n", cfg.DataFilePath, cfg.NoteBackend)
	return nil
}

func loadConfig(opts *rootOptions) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if strings.TrimSpace(opts.configPath) == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFile(opts.configPath)
	}
	if errors.Is(err, config.ErrNotConfigured) && opts.dataFile != "" {
		cfg, err = config.Normalize(config.Config{DataFilePath: opts.dataFile})
	}
	if errors.Is(err, config.ErrNotConfigured) {
		return config.Config{}, fmt.Errorf("%w: run `notes init` first", err)
	}
	if err != nil {
		return config.Config{}, err
	}
	if opts.dataFile != "" {
		cfg.DataFilePath = opts.dataFile
		if cfg, err = config.Normalize(cfg); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

func runTUI(opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	backend, err := notes.Open(cfg.NoteBackend, cfg.DataFilePath)
	if err != nil {
		return fmt.Errorf("open notes: %w", err)
	}
	defer closeBackend(backend)

	appOpts := app.Options{Backend: backend, Config: cfg}
	if s, err := search.ForEngine(cfg.SearchEngine); err != nil {
		log.Warn("search disabled", "engine", cfg.SearchEngine, "error", err)
	} else {
		appOpts.Searcher = s
		log.Info("search engine ready", "engine", s.Name())
	}
	if ed, err := editor.NewExternal(cfg.Editor); err != nil {
		log.Warn("editing disabled", "error", err)
	} else {
		appOpts.Editor = ed
	}

	if cfg.WatchDataFile {
		w, err := watch.New(cfg.DataFilePath)
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return fmt.Errorf("watch data file: %w", err)
		}
		defer w.Close()
		appOpts.Changes = w.Changed()
	}

	m, err := app.New(appOpts)
	if err != nil {
		return err
	}
	quietLogging(opts.debug)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run app: %w", err)
	}
	return m.Err()
}

func closeBackend(b notes.Backend) {
	c, ok := b.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		log.Warn("close backend", "error", err)
	}
}
