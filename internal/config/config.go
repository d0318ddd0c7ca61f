// Package config loads jobrecap configuration.
//
// Precedence, lowest to highest: built-in defaults, an optional YAML
// config file, JOBRECAP_* environment variables. File paths for the
// persisted watermark and audit log are explicit configuration rather
// than being derived from the executable location, so every consumer
// of those files can be pointed at a temp directory under test.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config is the root configuration for the jobrecap CLI.
type Config struct {
	Sacct   SacctConfig   `mapstructure:"sacct"`
	State   StateConfig   `mapstructure:"state"`
	Display DisplayConfig `mapstructure:"display"`
}

// SacctConfig controls how the accounting command is invoked.
type SacctConfig struct {
	// Binary is the accounting command to execute.
	Binary string `mapstructure:"binary"`

	// User is the account to query. Empty means the invoking user.
	User string `mapstructure:"user"`
}

// StateConfig locates the files jobrecap persists between runs.
type StateConfig struct {
	// Dir is the state directory. WatermarkFile and AuditLog default
	// to paths inside it when left empty.
	Dir string `mapstructure:"dir"`

	// WatermarkFile holds the last-session timestamp.
	WatermarkFile string `mapstructure:"watermark_file"`

	// AuditLog is the append-only log of every extracted job.
	AuditLog string `mapstructure:"audit_log"`
}

// DisplayConfig controls table rendering.
type DisplayConfig struct {
	// Color toggles ANSI highlighting of the state column.
	Color bool `mapstructure:"color"`

	// SkipStates are run states hidden from the table. Jobs in these
	// states are still extracted and audit-logged.
	SkipStates []string `mapstructure:"skip_states"`
}

// DefaultSkipStates are the states hidden from display out of the box:
// queued-but-not-started jobs and the cancelled-with-modifier variant.
var DefaultSkipStates = []string{"PENDING", "CANCELLED+"}

// Load reads configuration. path names an explicit config file; when
// empty, $XDG_CONFIG_HOME/jobrecap/config.yaml is tried and silently
// skipped if absent.
func Load(path string) (*Config, error) {
	v := viper.New()

	stateDir := defaultStateDir()
	v.SetDefault("sacct.binary", "sacct")
	v.SetDefault("sacct.user", os.Getenv("USER"))
	v.SetDefault("state.dir", stateDir)
	v.SetDefault("state.watermark_file", "")
	v.SetDefault("state.audit_log", "")
	v.SetDefault("display.color", true)
	v.SetDefault("display.skip_states", DefaultSkipStates)

	v.SetEnvPrefix("JOBRECAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "jobrecap"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.State.Dir == "" {
		cfg.State.Dir = stateDir
	}
	if cfg.State.WatermarkFile == "" {
		cfg.State.WatermarkFile = filepath.Join(cfg.State.Dir, "last_session")
	}
	if cfg.State.AuditLog == "" {
		cfg.State.AuditLog = filepath.Join(cfg.State.Dir, "jobs.log")
	}

	return &cfg, nil
}

func defaultStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "jobrecap")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "state", "jobrecap")
}
