// Package directive parses pursgen directives from Go source files.
//
// Directives are line comments in a type declaration's doc comment:
//
//	//pursgen:positional
//	//pursgen:name <Name>
//	//pursgen:skip
//
// The positional directive renders a struct as a positional constructor
// instead of a record. The name directive renames the generated declaration.
// The skip directive omits the type; references to it become Foreign.
package directive

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"
)

const prefix = "//pursgen:"

// Kind represents the type of directive.
type Kind string

const (
	KindPositional Kind = "positional"
	KindName       Kind = "name"
	KindSkip       Kind = "skip"
)

// Directives holds the directives attached to one type declaration.
type Directives struct {
	Positional bool
	Name       string // empty unless renamed
	Skip       bool
	Pos        token.Position // location of the first directive
}

// IsZero reports whether no directive was found.
func (d Directives) IsZero() bool {
	return !d.Positional && d.Name == "" && !d.Skip
}

// ParseFile returns the directives of every type declared in f, keyed by the
// Go type name. Types without directives are absent from the map.
//
// Returns an error if:
//   - A directive is unknown or malformed
//   - A directive is not attached to a type declaration
func ParseFile(fset *token.FileSet, f *ast.File) (map[string]Directives, error) {
	result := make(map[string]Directives)
	attached := make(map[*ast.CommentGroup]bool)

	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)

			// A lone spec's doc comment belongs to the GenDecl.
			groups := []*ast.CommentGroup{ts.Doc}
			if len(gen.Specs) == 1 {
				groups = append(groups, gen.Doc)
			}

			d, err := Parse(fset, groups...)
			if err != nil {
				return nil, err
			}
			for _, g := range groups {
				if g != nil {
					attached[g] = true
				}
			}
			if !d.IsZero() {
				result[ts.Name.Name] = d
			}
		}
	}

	for _, cg := range f.Comments {
		if attached[cg] {
			continue
		}
		for _, c := range cg.List {
			if strings.HasPrefix(c.Text, prefix) {
				return nil, fmt.Errorf("%s: %s directive must be attached to a type declaration",
					fset.Position(c.Pos()), strings.Fields(c.Text)[0])
			}
		}
	}

	return result, nil
}

// Parse reads the directives in the given comment groups. Nil groups are
// ignored.
func Parse(fset *token.FileSet, groups ...*ast.CommentGroup) (Directives, error) {
	var d Directives
	for _, cg := range groups {
		if cg == nil {
			continue
		}
		for _, c := range cg.List {
			if !strings.HasPrefix(c.Text, prefix) {
				continue
			}

			pos := fset.Position(c.Pos())
			parts := strings.Fields(strings.TrimPrefix(c.Text, prefix))
			if len(parts) == 0 {
				return Directives{}, fmt.Errorf("%s: empty %s directive", pos, prefix)
			}
			if !d.Pos.IsValid() {
				d.Pos = pos
			}

			switch Kind(parts[0]) {
			case KindPositional:
				d.Positional = true
			case KindSkip:
				d.Skip = true
			case KindName:
				if len(parts) != 2 {
					return Directives{}, fmt.Errorf("%s: %sname requires exactly one argument", pos, prefix)
				}
				d.Name = parts[1]
			default:
				return Directives{}, fmt.Errorf("%s: unknown directive %s%s", pos, prefix, parts[0])
			}
		}
	}
	return d, nil
}
