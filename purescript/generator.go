package purescript

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/broady/pursgen/ir"
)

// Generator writes PureScript modules.
type Generator struct{}

var _ ModuleGenerator = (*Generator)(nil)

// Name returns "purescript".
func (g *Generator) Name() string {
	return "purescript"
}

// Generate validates mod, assembles it and writes it to opts.Sink at
// ModulePath(mod.Name).
func (g *Generator) Generate(ctx context.Context, mod *ir.Module, opts GenerateOptions) (*GenerateResult, error) {
	if mod == nil {
		return nil, errors.New("module is nil")
	}
	if opts.Sink == nil {
		return nil, errors.New("sink is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !opts.Config.SkipValidation {
		if err := ValidateModule(mod); err != nil {
			return nil, err
		}
	}

	content := g.Render(mod, opts.Config)
	path := ModulePath(mod.Name)
	if err := opts.Sink.WriteFile(ctx, path, content); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}

	return &GenerateResult{
		Files:                 []OutputFile{{Path: path, Size: int64(len(content))}},
		DeclarationsGenerated: len(mod.Declarations),
		Warnings:              mod.Warnings,
	}, nil
}

// ValidateModule returns every problem Module.Validate finds, joined, or nil.
func ValidateModule(mod *ir.Module) error {
	if errs := mod.Validate(); len(errs) > 0 {
		return fmt.Errorf("invalid module %s: %w", mod.Name, errors.Join(errs...))
	}
	return nil
}

// Render returns the file content Generate would write for mod.
// It does not validate; use ValidateModule first.
func (g *Generator) Render(mod *ir.Module, cfg GeneratorConfig) []byte {
	var buf bytes.Buffer
	if cfg.Header != "" {
		for _, line := range strings.Split(strings.TrimRight(cfg.Header, "\n"), "\n") {
			buf.WriteString(strings.TrimRight("-- "+line, " "))
			buf.WriteString("\n")
		}
	}
	buf.WriteString(AssembleWith(mod.Name, mod.Declarations, AssembleOptions{
		Imports:      cfg.Imports,
		EmitComments: cfg.EmitComments,
	}))
	return buf.Bytes()
}
