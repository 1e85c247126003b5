// Package pursgen generates PureScript data declarations from Go types.
//
// A Generator collects Go types from source packages, runtime values or a
// declaration file, and writes one PureScript module:
//
//	pursgen.FromPackages("github.com/acme/market/fruits").
//	    Module("Fruits").
//	    Types("Currency", "Color", "Fruit").
//	    ToDir("./src")
package pursgen

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"slices"

	"github.com/broady/pursgen/ir"
	"github.com/broady/pursgen/provider"
	"github.com/broady/pursgen/purescript"
	"github.com/broady/pursgen/sink"
)

// Generator provides a fluent API for code generation.
// Create with FromTypes, FromPackages, FromModule or FromConfig and
// configure with method chaining.
type Generator struct {
	values     []any
	module     *ir.Module
	unions     []provider.UnionInput
	positional []reflect.Type
	cfg        Config
	logger     *slog.Logger
}

// Result describes a completed generation.
type Result struct {
	// Module is the module that was generated.
	Module *ir.Module

	// Files lists the files that were written.
	Files []purescript.OutputFile

	// Warnings contains non-fatal issues found while extracting types.
	Warnings []ir.Warning

	// Content holds the generated files by path. Only Generate sets it.
	Content map[string][]byte
}

// FromTypes creates a Generator that extracts types by reflection.
// Pass zero values of the types to generate, or reflect.Type values for
// interfaces:
//
//	pursgen.FromTypes(Fruit{}, reflect.TypeFor[Color]()).
//	    Enum(Currency(0), "Coins", "Credits", "Abolished").
//	    Union(reflect.TypeFor[Color](), Red(0), Green(0), Blue(nil)).
//	    Module("Fruits").
//	    Generate()
func FromTypes(values ...any) *Generator {
	return &Generator{
		values: values,
		cfg:    Config{Provider: ProviderReflection},
	}
}

// FromPackages creates a Generator that analyzes Go source packages.
func FromPackages(pkgs ...string) *Generator {
	return &Generator{
		cfg: Config{Provider: ProviderSource, Packages: pkgs},
	}
}

// FromModule creates a Generator for an already built module.
func FromModule(m *ir.Module) *Generator {
	return &Generator{module: m}
}

// FromConfig creates a Generator from a loaded config file.
func FromConfig(cfg *Config) *Generator {
	g := &Generator{cfg: *cfg}
	g.cfg.Packages = append([]string(nil), cfg.Packages...)
	g.cfg.Types = append([]string(nil), cfg.Types...)
	g.cfg.Imports = make(map[string]ImportConfig, len(cfg.Imports))
	for k, v := range cfg.Imports {
		g.cfg.Imports[k] = v
	}
	g.cfg.TypeMappings = make(map[string]string, len(cfg.TypeMappings))
	for k, v := range cfg.TypeMappings {
		g.cfg.TypeMappings[k] = v
	}
	return g
}

// Module sets the PureScript module name.
func (g *Generator) Module(name string) *Generator {
	g.cfg.Module = name
	return g
}

// Types selects root types by Go name. For FromModule and declaration
// files it selects declarations by PureScript name.
func (g *Generator) Types(names ...string) *Generator {
	g.cfg.Types = append(g.cfg.Types, names...)
	return g
}

// Packages adds Go packages to analyze.
func (g *Generator) Packages(pkgs ...string) *Generator {
	g.cfg.Packages = append(g.cfg.Packages, pkgs...)
	return g
}

// Provider sets the type extraction strategy.
// Valid values: "source", "reflection".
func (g *Generator) Provider(p string) *Generator {
	g.cfg.Provider = p
	return g
}

// TypeMapping maps a Go type to a PureScript type.
// e.g. TypeMapping("time.Time", "DateTime")
func (g *Generator) TypeMapping(goType, pursType string) *Generator {
	if g.cfg.TypeMappings == nil {
		g.cfg.TypeMappings = make(map[string]string)
	}
	g.cfg.TypeMappings[goType] = pursType
	return g
}

// Import makes references to marker import name from library.
// e.g. Import("Array", "Data.List", "List")
func (g *Generator) Import(marker, library, name string) *Generator {
	if g.cfg.Imports == nil {
		g.cfg.Imports = make(map[string]ImportConfig)
	}
	g.cfg.Imports[marker] = ImportConfig{Library: library, Name: name}
	return g
}

// PreserveComments controls whether Go doc comments are written as
// PureScript doc comments.
func (g *Generator) PreserveComments(enabled bool) *Generator {
	g.cfg.EmitComments = enabled
	return g
}

// Header sets comment text written at the top of the generated file.
func (g *Generator) Header(text string) *Generator {
	g.cfg.Header = text
	return g
}

// Dir sets the directory Go packages are resolved from.
func (g *Generator) Dir(dir string) *Generator {
	g.cfg.Dir = dir
	return g
}

// Enum registers a basic type as a union of nullary members for the
// reflection provider. value is a value of the type or its reflect.Type.
func (g *Generator) Enum(value any, members ...string) *Generator {
	g.unions = append(g.unions, provider.UnionInput{Type: typeOf(value), Members: members})
	return g
}

// Union registers an interface as a union of the given variants for the
// reflection provider. Variants are values or reflect.Type values.
func (g *Generator) Union(iface reflect.Type, variants ...any) *Generator {
	u := provider.UnionInput{Type: iface}
	for _, v := range variants {
		u.Variants = append(u.Variants, typeOf(v))
	}
	g.unions = append(g.unions, u)
	return g
}

// Positional renders the given struct types as positional constructors
// with the reflection provider.
func (g *Generator) Positional(values ...any) *Generator {
	for _, v := range values {
		g.positional = append(g.positional, typeOf(v))
	}
	return g
}

// Logger sets the logger used for progress and warnings.
// Default: slog.Default()
func (g *Generator) Logger(l *slog.Logger) *Generator {
	g.logger = l
	return g
}

// ToDir generates the module into dir.
// This is a terminal operation that writes files to disk.
func (g *Generator) ToDir(dir string) (*Result, error) {
	return g.GenerateTo(context.Background(), sink.NewFilesystemSink(dir))
}

// Generate returns the generated files in memory without writing to disk.
// Use ToDir() to write files to disk instead.
func (g *Generator) Generate() (*Result, error) {
	mem := sink.NewMemorySink()
	res, err := g.GenerateTo(context.Background(), mem)
	if err != nil {
		return nil, err
	}
	res.Content = mem.Files()
	return res, nil
}

// GenerateTo builds the module and writes it to s.
func (g *Generator) GenerateTo(ctx context.Context, s sink.OutputSink) (*Result, error) {
	mod, err := g.Build(ctx)
	if err != nil {
		return nil, err
	}

	gen := &purescript.Generator{}
	res, err := gen.Generate(ctx, mod, purescript.GenerateOptions{
		Sink:   s,
		Config: g.GeneratorConfig(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate PureScript: %w", err)
	}

	logger := g.log()
	for _, f := range res.Files {
		logger.DebugContext(ctx, "wrote file",
			slog.String("path", f.Path),
			slog.Int64("size", f.Size),
			slog.Int("declarations", res.DeclarationsGenerated),
		)
	}

	return &Result{Module: mod, Files: res.Files, Warnings: res.Warnings}, nil
}

// Render builds and validates the module and returns its text.
func (g *Generator) Render(ctx context.Context) (string, error) {
	mod, err := g.Build(ctx)
	if err != nil {
		return "", err
	}
	cfg := g.GeneratorConfig()
	if !cfg.SkipValidation {
		if err := purescript.ValidateModule(mod); err != nil {
			return "", err
		}
	}
	gen := &purescript.Generator{}
	return string(gen.Render(mod, cfg)), nil
}

// Build extracts the module without rendering it. Warnings are logged.
func (g *Generator) Build(ctx context.Context) (*ir.Module, error) {
	logger := g.log()
	mod, err := g.build(ctx)
	if err != nil {
		return nil, err
	}
	if mod.Name == "" {
		return nil, fmt.Errorf("module name is required")
	}

	logger.DebugContext(ctx, "built module",
		slog.String("module", mod.Name),
		slog.Int("declarations", len(mod.Declarations)),
	)
	for _, w := range mod.Warnings {
		logger.WarnContext(ctx, w.Message,
			slog.String("code", w.Code),
			slog.String("type", w.TypeName),
		)
	}
	return mod, nil
}

func (g *Generator) build(ctx context.Context) (*ir.Module, error) {
	cfg := g.cfg
	cfg.applyDefaults()

	switch {
	case g.module != nil:
		return g.selectDeclarations(g.module, cfg)

	case cfg.Input != "":
		mod, err := readModule(cfg.Input)
		if err != nil {
			return nil, err
		}
		return g.selectDeclarations(mod, cfg)
	}

	switch cfg.Provider {
	case ProviderSource:
		if len(cfg.Packages) == 0 {
			return nil, fmt.Errorf("packages is required when using source provider")
		}
		p := &provider.SourceProvider{}
		mod, err := p.BuildModule(ctx, provider.SourceInputOptions{
			Module:       cfg.Module,
			Packages:     cfg.Packages,
			RootTypes:    cfg.Types,
			TypeMappings: cfg.TypeMappings,
			Dir:          cfg.Dir,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build module: %w", err)
		}
		return mod, nil

	case ProviderReflection:
		roots := make([]reflect.Type, 0, len(g.values))
		for _, v := range g.values {
			t := typeOf(v)
			if t == nil {
				return nil, fmt.Errorf("nil value passed to FromTypes")
			}
			roots = append(roots, t)
		}
		p := &provider.ReflectionProvider{}
		mod, err := p.BuildModule(ctx, provider.ReflectionInputOptions{
			Module:       cfg.Module,
			RootTypes:    roots,
			Positional:   g.positional,
			Unions:       g.unions,
			TypeMappings: cfg.TypeMappings,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build module: %w", err)
		}
		return mod, nil

	default:
		return nil, fmt.Errorf("unknown provider: %q (expected %q or %q)", cfg.Provider, ProviderSource, ProviderReflection)
	}
}

// selectDeclarations applies the module name and type selection to mod
// without modifying it.
func (g *Generator) selectDeclarations(mod *ir.Module, cfg Config) (*ir.Module, error) {
	out := ir.Module{
		Name:         mod.Name,
		Declarations: slices.Clone(mod.Declarations),
		Warnings:     slices.Clone(mod.Warnings),
	}
	if len(cfg.Types) > 0 {
		selected, err := mod.Select(cfg.Types...)
		if err != nil {
			return nil, err
		}
		out = *selected
	}
	if cfg.Module != "" {
		out.Name = cfg.Module
	}
	return &out, nil
}

// GeneratorConfig returns the PureScript generator configuration for g.
func (g *Generator) GeneratorConfig() purescript.GeneratorConfig {
	cfg := purescript.GeneratorConfig{
		EmitComments: g.cfg.EmitComments,
		Header:       g.cfg.Header,
	}
	if len(g.cfg.Imports) > 0 {
		table := purescript.DefaultImports()
		for marker, imp := range g.cfg.Imports {
			table[marker] = purescript.ImportEntry{Library: imp.Library, Name: imp.Name}
		}
		cfg.Imports = table
	}
	return cfg
}

func (g *Generator) log() *slog.Logger {
	if g.logger != nil {
		return g.logger
	}
	return slog.Default()
}

// readModule decodes a JSON or YAML declaration file.
func readModule(path string) (*ir.Module, error) {
	format, err := ir.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	mod, err := ir.DecodeModule(f, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return mod, nil
}

func typeOf(v any) reflect.Type {
	if t, ok := v.(reflect.Type); ok {
		return t
	}
	return reflect.TypeOf(v)
}
