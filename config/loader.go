package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "explorer.yaml"
	// UserConfigDir is the directory for user-level config
	UserConfigDir = ".config/explorer"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
)

// Loader handles configuration loading with layered precedence.
type Loader struct {
	logger *slog.Logger
	home   string
	dir    string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHomeDir sets the directory holding the user config instead of the
// user's home directory.
func WithHomeDir(dir string) LoaderOption {
	return func(l *Loader) { l.home = dir }
}

// WithWorkDir sets the directory the project config is searched from
// instead of the working directory.
func WithWorkDir(dir string) LoaderOption {
	return func(l *Loader) { l.dir = dir }
}

// NewLoader creates a new configuration loader.
func NewLoader(logger *slog.Logger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{logger: logger}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load loads configuration with layered precedence:
//  1. Default config
//  2. User config (~/.config/explorer/config.yaml)
//  3. Project config (explorer.yaml in current or parent directories)
//  4. The file at path, when not empty
func (l *Loader) Load(path string) (*File, error) {
	f := DefaultFile()

	if userPath := l.userConfigPath(); userPath != "" {
		if user, err := readFile(userPath); err == nil {
			l.logger.Debug("Loaded user config", slog.String("path", userPath))
			f.Merge(user)
		} else if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("Failed to load user config", slog.String("path", userPath), slog.String("error", err.Error()))
		}
	}

	if projectPath := l.findProjectConfig(); projectPath != "" {
		project, err := readFile(projectPath)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded project config", slog.String("path", projectPath))
		f.Merge(project)
	} else {
		l.logger.Debug("No project config found")
	}

	if path != "" {
		explicit, err := readFile(path)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded config", slog.String("path", path))
		f.Merge(explicit)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// userConfigPath returns the path to the user config file.
func (l *Loader) userConfigPath() string {
	home := l.home
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// findProjectConfig searches for explorer.yaml in the current and parent
// directories.
func (l *Loader) findProjectConfig() string {
	dir := l.dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = cwd
	}
	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
