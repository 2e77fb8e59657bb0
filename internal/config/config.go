package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/treykane/norganisers/internal/logging"
)

var log = logging.New("config")

const (
	configDirName      = "norganisers"
	configFileName     = "config.json"
	configYAMLFileName = "config.yaml"
	configYMLFileName  = "config.yml"

	// DefaultDataFileName is used by `notes init` when no data path is given.
	DefaultDataFileName = "notes.json"
)

// Backend names accepted by note_backend.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Search engine names accepted by search_engine.
const (
	SearchAuto  = "auto"
	SearchFZF   = "fzf"
	SearchFuzzy = "fuzzy"
)

const defaultEditor = "nvim"

var ErrNotConfigured = errors.New("norganisers is not configured")

// Config stores user-defined settings.
type Config struct {
	DataFilePath  string            `json:"data_file_path" yaml:"data_file_path"`
	NoteBackend   string            `json:"note_backend,omitempty" yaml:"note_backend,omitempty"`
	Editor        string            `json:"editor,omitempty" yaml:"editor,omitempty"`
	SearchEngine  string            `json:"search_engine,omitempty" yaml:"search_engine,omitempty"`
	WatchDataFile bool              `json:"watch_data_file,omitempty" yaml:"watch_data_file,omitempty"`
	Keybindings   map[string]string `json:"keybindings,omitempty" yaml:"keybindings,omitempty"`
}

// ConfigDir returns the directory holding the configuration file. It honors
// XDG_CONFIG_HOME and falls back to ~/.config.
func ConfigDir() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, configDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", configDirName), nil
}

// ConfigPath returns the JSON configuration file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// DefaultDataFilePath returns the data file location used by `notes init`.
func DefaultDataFilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultDataFileName), nil
}

// Exists reports whether a config file exists in the default location.
func Exists() (bool, error) {
	path, err := ConfigPath()
	if err != nil {
		return false, err
	}
	_, err = findConfigFile(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotConfigured) {
		return false, nil
	}
	return false, err
}

// Load reads and validates the configuration from the default location.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	return LoadFile(path)
}

// LoadFile reads and validates the configuration at path. A missing JSON
// file falls back to config.yaml or config.yml in the same directory.
func LoadFile(path string) (Config, error) {
	found, err := findConfigFile(path)
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(found)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if isYAML(found) {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %q: %w", found, err)
		}
	} else if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %q: %w", found, err)
	}

	return Normalize(cfg)
}

// Normalize validates cfg and fills defaults.
func Normalize(cfg Config) (Config, error) {
	dataPath, err := NormalizeDataFilePath(cfg.DataFilePath)
	if err != nil {
		return Config{}, fmt.Errorf("invalid data_file_path: %w", err)
	}
	cfg.DataFilePath = dataPath

	cfg.NoteBackend = strings.ToLower(strings.TrimSpace(cfg.NoteBackend))
	switch cfg.NoteBackend {
	case "":
		cfg.NoteBackend = BackendJSON
	case BackendJSON, BackendSQLite:
	default:
		return Config{}, fmt.Errorf("invalid note_backend %q", cfg.NoteBackend)
	}

	cfg.SearchEngine = strings.ToLower(strings.TrimSpace(cfg.SearchEngine))
	switch cfg.SearchEngine {
	case "":
		cfg.SearchEngine = SearchAuto
	case SearchAuto, SearchFZF, SearchFuzzy:
	default:
		return Config{}, fmt.Errorf("invalid search_engine %q", cfg.SearchEngine)
	}

	cfg.Editor = strings.TrimSpace(cfg.Editor)
	if cfg.Editor == "" {
		cfg.Editor = DefaultEditor()
	}
	return cfg, nil
}

// Save writes configuration to the default location.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

// SaveFile writes configuration as JSON to path.
func SaveFile(path string, cfg Config) error {
	cfg, err := Normalize(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %q: %w", path, err)
	}
	log.Info("saved config", "path", path)
	return nil
}

// DefaultEditor picks the external editor from VISUAL or EDITOR, falling
// back to nvim.
func DefaultEditor() string {
	for _, key := range []string{"VISUAL", "EDITOR"} {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return defaultEditor
}

// ResolveSearchEngine turns "auto" into a concrete engine name.
func ResolveSearchEngine(engine string) string {
	if engine != SearchAuto && engine != "" {
		return engine
	}
	if _, err := exec.LookPath("fzf"); err == nil {
		return SearchFZF
	}
	return SearchFuzzy
}

// NormalizeDataFilePath expands and normalizes the data file path.
func NormalizeDataFilePath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is required")
	}

	expanded, err := expandHome(trimmed)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", err
	}

	return filepath.Clean(abs), nil
}

func findConfigFile(path string) (string, error) {
	candidates := []string{path}
	if !isYAML(path) {
		dir := filepath.Dir(path)
		candidates = append(candidates,
			filepath.Join(dir, configYAMLFileName),
			filepath.Join(dir, configYMLFileName),
		)
	}
	for _, candidate := range candidates {
		_, err := os.Stat(candidate)
		if err == nil {
			if candidate != path {
				log.Debug("using alternate config file", "path", candidate)
			}
			return candidate, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
	}
	return "", ErrNotConfigured
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func expandHome(path string) (string, error) {
	if path == "~" {
		return os.UserHomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
	}
	return path, nil
}
