package purescript

import (
	"context"

	"github.com/broady/pursgen/ir"
	"github.com/broady/pursgen/sink"
)

// GenerateOptions configures generation behavior.
type GenerateOptions struct {
	// Sink receives generated output files.
	Sink sink.OutputSink

	// Config contains generator configuration.
	Config GeneratorConfig
}

// GenerateResult contains generation output metadata.
type GenerateResult struct {
	// Files lists all files that were written.
	Files []OutputFile

	// DeclarationsGenerated is the count of declarations written.
	DeclarationsGenerated int

	// Warnings contains non-fatal issues carried by the module.
	Warnings []ir.Warning
}

// OutputFile describes a generated file.
type OutputFile struct {
	// Path is the relative path of the generated file.
	Path string

	// Size is the number of bytes written.
	Size int64
}

// GeneratorConfig provides generation options.
type GeneratorConfig struct {
	// Imports maps marker constructors to imports. nil selects DefaultImports.
	Imports ImportTable

	// EmitComments includes declaration documentation in the output.
	EmitComments bool

	// Header is written as "--" comment lines above the module declaration.
	// e.g. "Code generated by pursgen. DO NOT EDIT."
	Header string

	// SkipValidation writes the module even if ir.Module.Validate reports errors.
	SkipValidation bool
}

// ModuleGenerator is implemented by generators that write an ir.Module.
type ModuleGenerator interface {
	// Name returns the generator's identifier.
	Name() string

	// Generate produces source code for the given module.
	Generate(ctx context.Context, mod *ir.Module, opts GenerateOptions) (*GenerateResult, error)
}
