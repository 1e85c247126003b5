// Package inputs resolves the generation config shared by the pursgen
// commands from a config file and command-line flags.
package inputs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/broady/pursgen"
)

// Flags are the input flags accepted by gen, check and dev.
// Flags override values from the config file.
type Flags struct {
	Config   string   `help:"Config file (default: pursgen.toml if present)." short:"c" type:"path"`
	Input    string   `help:"JSON or YAML declaration file to render instead of Go packages." short:"i" type:"path"`
	Module   string   `help:"PureScript module name, e.g. App.Types." short:"m"`
	Packages []string `name:"package" help:"Go package to analyze. Repeatable." short:"p"`
	Types    []string `name:"type" help:"Root type to generate. Repeatable; default: every exported type." short:"t"`
	Provider string   `help:"Type extraction strategy. Only source is available from the CLI."`
	Comments bool     `help:"Write Go doc comments as PureScript doc comments."`
}

// Load reads the config file, applies flag overrides and validates the
// result.
func (f *Flags) Load() (*pursgen.Config, error) {
	cfg, err := f.read()
	if err != nil {
		return nil, err
	}

	if f.Module != "" {
		cfg.Module = f.Module
	}
	if f.Input != "" {
		cfg.Input = f.Input
		cfg.Packages = nil
	}
	if len(f.Packages) > 0 {
		cfg.Packages = f.Packages
		cfg.Input = ""
	}
	if len(f.Types) > 0 {
		cfg.Types = f.Types
	}
	if f.Provider != "" {
		cfg.Provider = f.Provider
	}
	if f.Comments {
		cfg.EmitComments = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration:\n%w", err)
	}
	return cfg, nil
}

func (f *Flags) read() (*pursgen.Config, error) {
	path := f.Config
	if path == "" {
		if _, err := os.Stat(pursgen.DefaultConfigFile); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return &pursgen.Config{Provider: pursgen.ProviderSource, OutDir: "src"}, nil
			}
			return nil, err
		}
		path = pursgen.DefaultConfigFile
	}
	return pursgen.ReadConfig(path)
}
