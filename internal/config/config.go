// Package config resolves where dateplan keeps its plan files and how it
// names and writes them.
//
// Settings are layered, lowest precedence first:
//   - built-in defaults (current directory, base name "tasks", atomic writes)
//   - DATEPLAN_DIR environment variable for the plan directory
//   - dateplan.toml inside the plan directory
//   - command-line flags
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/danieljhkim/dateplan/internal/fsops"
	"github.com/danieljhkim/dateplan/internal/plan"
)

const (
	// EnvDir overrides the plan directory.
	EnvDir = "DATEPLAN_DIR"

	// FileName is the optional config file looked up in the plan directory.
	FileName = "dateplan.toml"
)

// Config holds the resolved settings.
type Config struct {
	// Dir is the directory holding the plan files
	Dir string

	// Base is the base filename shared by all plan files
	Base string

	// Atomic selects temp file + rename writes over in-place truncation
	Atomic bool
}

// fileConfig mirrors dateplan.toml. Pointers distinguish unset keys.
type fileConfig struct {
	BaseName     *string `toml:"base_name"`
	AtomicWrites *bool   `toml:"atomic_writes"`
}

// Flags holds command-line overrides bound by RegisterFlags.
type Flags struct {
	Dir    string
	Base   string
	Atomic bool

	set *pflag.FlagSet
}

// RegisterFlags binds the configuration flags on set.
func RegisterFlags(set *pflag.FlagSet) *Flags {
	f := &Flags{set: set}
	set.StringVar(&f.Dir, "dir", "", "Directory holding plan files (default: $"+EnvDir+" or current directory)")
	set.StringVar(&f.Base, "base", plan.DefaultBase, "Base filename shared by plan files")
	set.BoolVar(&f.Atomic, "atomic", true, "Write plan files via temp file + rename")
	return f
}

func (f *Flags) changed(name string) bool {
	return f != nil && f.set != nil && f.set.Changed(name)
}

// Default returns the built-in configuration with the environment applied.
func Default() (*Config, error) {
	dir := os.Getenv(EnvDir)
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		dir = cwd
	}

	return &Config{
		Dir:    dir,
		Base:   plan.DefaultBase,
		Atomic: true,
	}, nil
}

// Load resolves the configuration from defaults, environment, config file
// and flags. flags may be nil.
func Load(flags *Flags) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if flags.changed("dir") {
		cfg.Dir = flags.Dir
	}

	if err := cfg.applyFile(filepath.Join(cfg.Dir, FileName)); err != nil {
		return nil, err
	}

	if flags.changed("base") {
		cfg.Base = flags.Base
	}
	if flags.changed("atomic") {
		cfg.Atomic = flags.Atomic
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFile overlays the keys present in the TOML file at path.
// A missing file is not an error.
func (c *Config) applyFile(path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if fc.BaseName != nil {
		c.Base = *fc.BaseName
	}
	if fc.AtomicWrites != nil {
		c.Atomic = *fc.AtomicWrites
	}
	return nil
}

// Validate checks that the configuration can name plan files safely.
func (c *Config) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("plan directory is empty")
	}
	if err := fsops.ValidateIdentifier(c.Base); err != nil {
		return fmt.Errorf("invalid base name %q: %w", c.Base, err)
	}
	return nil
}
