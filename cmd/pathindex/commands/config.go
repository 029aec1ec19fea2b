package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meigma/pathindex"
)

// Configuration keys, shared by flags, environment variables
// (PATHINDEX_BASE_DIR, ...) and the config file.
const (
	keyBaseDir      = "base-dir"
	keyIndexName    = "index-name"
	keyFormat       = "format"
	keyCompression  = "compression"
	keyNoVerify     = "no-verify"
	keyResetCorrupt = "reset-corrupt"
	keyLogLevel     = "log-level"
)

// Config holds the settings used to open the index.
type Config struct {
	BaseDir      string `mapstructure:"base-dir"`
	IndexName    string `mapstructure:"index-name"`
	Format       string `mapstructure:"format"`
	Compression  string `mapstructure:"compression"`
	NoVerify     bool   `mapstructure:"no-verify"`
	ResetCorrupt bool   `mapstructure:"reset-corrupt"`
	LogLevel     string `mapstructure:"log-level"`
}

// DefaultBaseDir returns the base directory used when none is configured.
func DefaultBaseDir() string {
	return filepath.Join(os.TempDir(), "pathindex")
}

// LoadConfig resolves configuration for cmd.
//
// Precedence (highest to lowest):
//  1. Command line flags
//  2. Environment variables (PATHINDEX_*)
//  3. Configuration file (--config)
//  4. Default values
func LoadConfig(cmd *cobra.Command) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PATHINDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(keyBaseDir, DefaultBaseDir())
	v.SetDefault(keyIndexName, "index")
	v.SetDefault(keyFormat, "json")
	v.SetDefault(keyCompression, "none")
	v.SetDefault(keyNoVerify, false)
	v.SetDefault(keyResetCorrupt, false)
	v.SetDefault(keyLogLevel, "warn")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for _, key := range []string{keyBaseDir, keyIndexName, keyFormat, keyCompression, keyNoVerify, keyResetCorrupt, keyLogLevel} {
		if f := cmd.Flags().Lookup(key); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Options converts the configuration into index options.
func (c *Config) Options() ([]pathindex.Option, error) {
	format, err := pathindex.ParseFormat(c.Format)
	if err != nil {
		return nil, err
	}
	compression, err := pathindex.ParseCompression(c.Compression)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(c.LogLevel)
	if err != nil {
		return nil, err
	}
	return []pathindex.Option{
		pathindex.WithIndexName(c.IndexName),
		pathindex.WithFormat(format),
		pathindex.WithCompression(compression),
		pathindex.WithVerifyDigest(!c.NoVerify),
		pathindex.WithResetCorrupt(c.ResetCorrupt),
		pathindex.WithLogger(logger),
	}, nil
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

// openIndex opens the index configured for cmd.
func openIndex(cmd *cobra.Command) (*pathindex.Index, error) {
	cfg, err := LoadConfig(cmd)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	return pathindex.Open(cfg.BaseDir, opts...)
}

// withIndex runs a read-only fn against the configured index. The index
// file is left untouched.
func withIndex(cmd *cobra.Command, fn func(idx *pathindex.Index) error) error {
	idx, err := openIndex(cmd)
	if err != nil {
		return err
	}
	return fn(idx)
}

// updateIndex runs fn against the configured index and closes it, which
// saves it in the configured format.
func updateIndex(cmd *cobra.Command, fn func(idx *pathindex.Index) error) error {
	idx, err := openIndex(cmd)
	if err != nil {
		return err
	}
	runErr := fn(idx)
	if closeErr := idx.Close(); closeErr != nil {
		return errors.Join(runErr, fmt.Errorf("save index: %w", closeErr))
	}
	return runErr
}
