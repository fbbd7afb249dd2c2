package store

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Backend names a persistence implementation.
type Backend string

const (
	BackendDiskv  Backend = "diskv"
	BackendSQLite Backend = "sqlite"
)

// ParseBackend validates a backend name from config or flags.
func ParseBackend(raw string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(raw))); b {
	case "", BackendDiskv:
		return BackendDiskv, nil
	case BackendSQLite:
		return BackendSQLite, nil
	default:
		return "", fmt.Errorf("store: unknown backend %q", raw)
	}
}

type Config interface {
	BasePath() string
	Backend() Backend
	// LogLevel is the configured zerolog level, empty when unset.
	LogLevel() string
}

// NewConfig builds a Config without consulting viper.
func NewConfig(path string, backend Backend) Config {
	return &fileConfig{Path: path, Kind: backend}
}

// LoadConfig reads .rpt.yaml (from $RPT_CONFIG_PATH, the working directory,
// or $HOME) and RPT_* environment variables.
func LoadConfig() (Config, error) {
	viper.SetDefault("path", "~/.rpt.db")
	viper.SetDefault("backend", string(BackendDiskv))
	viper.SetDefault("log.level", "")
	viper.SetConfigName(".rpt") // .yaml is implicit
	viper.SetEnvPrefix("RPT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if override := os.Getenv("RPT_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}
	viper.AddConfigPath("./")
	viper.AddConfigPath("$HOME")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}
	backend, err := ParseBackend(viper.GetString("backend"))
	if err != nil {
		return nil, err
	}
	return &fileConfig{Path: path, Kind: backend, Level: viper.GetString("log.level")}, nil
}

type fileConfig struct {
	Path  string  `json:"path"`
	Kind  Backend `json:"backend"`
	Level string  `json:"logLevel,omitempty"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) Backend() Backend {
	return f.Kind
}

func (f *fileConfig) LogLevel() string {
	return f.Level
}
