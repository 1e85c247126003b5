package purescript

import (
	"bytes"
	"strings"

	"github.com/broady/pursgen/ir"
)

// AssembleOptions configures module assembly.
type AssembleOptions struct {
	// Imports is the marker table used to compute imports.
	// nil selects DefaultImports; an empty table disables imports.
	Imports ImportTable

	// EmitComments writes declaration documentation as "-- |" comments.
	EmitComments bool
}

// Assemble renders a complete module using the default import table:
// the module header, one import block per required library, then each
// declaration in the order given, each followed by a blank line.
//
//	module Fruits where
//
//	import Data.Array (
//	Array
//	)
//
//	data Color = Red Int | Blue (Array Int)
//
// Declarations are neither reordered nor de-duplicated.
func Assemble(moduleName string, decls []ir.Declaration) string {
	return AssembleWith(moduleName, decls, AssembleOptions{})
}

// AssembleWith is Assemble with explicit options.
func AssembleWith(moduleName string, decls []ir.Declaration, opts AssembleOptions) string {
	table := opts.Imports
	if table == nil {
		table = DefaultImports()
	}

	var buf bytes.Buffer
	buf.WriteString("module ")
	buf.WriteString(moduleName)
	buf.WriteString(" where\n\n")

	if imports := ResolveImports(decls, table); len(imports) > 0 {
		for _, imp := range imports {
			writeImport(&buf, imp)
			buf.WriteString("\n")
		}
		buf.WriteString("\n")
	}

	e := &Emitter{EmitComments: opts.EmitComments}
	for _, d := range decls {
		e.EmitDeclaration(&buf, d)
		buf.WriteString("\n\n")
	}
	return buf.String()
}

// ModulePath returns the output file path for a module name:
// "Fruits" becomes "Fruits.purs" and "App.Types" becomes "App/Types.purs".
func ModulePath(moduleName string) string {
	return strings.ReplaceAll(moduleName, ".", "/") + ".purs"
}
