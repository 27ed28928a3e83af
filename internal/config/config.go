// Package config holds the run parameters shared by the CLI commands.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"vgapview/internal/scene"
	"vgapview/internal/snapshot"
)

// EnvPrefix is the prefix of environment variables that override settings,
// e.g. VGAPVIEW_START.
const EnvPrefix = "VGAPVIEW"

// ErrInvalid marks a configuration problem found before any turn is read.
var ErrInvalid = errors.New("invalid configuration")

// Config is one scene build or import run.
type Config struct {
	File     string
	Start    *int
	End      *int
	Output   string
	Format   string
	Encoding string
	Database string
	Verbose  bool
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("format", scene.FormatJS)
	return v
}

// ReadFile merges a YAML (or any viper-supported) config file into v.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrInvalid, path, err)
	}
	return nil
}

// Load decodes the settings held by v. Start and end stay nil when unset so
// that Validate can tell "missing" from "turn 0".
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		File:     v.GetString("file"),
		Output:   v.GetString("output"),
		Format:   v.GetString("format"),
		Encoding: v.GetString("encoding"),
		Database: v.GetString("db"),
		Verbose:  v.GetBool("verbose"),
	}

	turns := []struct {
		key string
		dst **int
	}{
		{"start", &cfg.Start},
		{"end", &cfg.End},
	}
	for _, t := range turns {
		if !v.IsSet(t.key) || v.GetString(t.key) == "" {
			continue
		}
		n, err := parseTurn(v.GetString(t.key))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, t.key, err)
		}
		*t.dst = &n
	}

	return cfg, nil
}

func parseTurn(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q is not a turn number", s)
	}
	return n, nil
}

// Validate checks the parameters of a build. Every missing option is
// reported at once.
func (c *Config) Validate() error {
	var missing []string
	if c.File == "" && c.Database == "" {
		missing = append(missing, "file")
	}
	if c.Start == nil {
		missing = append(missing, "start")
	}
	if c.End == nil {
		missing = append(missing, "end")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing options: %s", ErrInvalid, strings.Join(missing, ", "))
	}

	if *c.Start < 0 || *c.End < 0 {
		return fmt.Errorf("%w: turn numbers must not be negative", ErrInvalid)
	}
	if *c.Start > *c.End {
		return fmt.Errorf("%w: start turn %d is after end turn %d", ErrInvalid, *c.Start, *c.End)
	}
	if c.Format != "" && !slices.Contains(scene.Formats(), c.Format) {
		return fmt.Errorf("%w: unknown format %q (want one of %s)", ErrInvalid, c.Format, strings.Join(scene.Formats(), ", "))
	}
	if _, err := snapshot.LookupEncoding(c.Encoding); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// ValidateImport checks the parameters of an import: a file template and a
// database are both required.
func (c *Config) ValidateImport() error {
	var missing []string
	if c.File == "" {
		missing = append(missing, "file")
	}
	if c.Database == "" {
		missing = append(missing, "db")
	}
	if c.Start == nil {
		missing = append(missing, "start")
	}
	if c.End == nil {
		missing = append(missing, "end")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing options: %s", ErrInvalid, strings.Join(missing, ", "))
	}
	return c.Validate()
}

// Range returns the inclusive turn range. Call only after Validate.
func (c *Config) Range() (int, int) {
	return *c.Start, *c.End
}
