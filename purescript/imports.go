package purescript

import (
	"bytes"

	"github.com/broady/pursgen/ir"
)

// ImportEntry names the library and the imported name that a marker
// constructor requires.
type ImportEntry struct {
	// Library is the PureScript module to import from, e.g. "Data.Array".
	Library string

	// Name is the name to import, e.g. "Array".
	Name string
}

// ImportTable maps constructor names that need an explicit import to the
// import that provides them. Names absent from the table, such as Int,
// String, Boolean, Number and type variables, need no import.
type ImportTable map[string]ImportEntry

// DefaultImports returns the import table for the constructors the providers
// emit: host sequences become Array, pointers Maybe, maps Map and untyped
// values Foreign.
func DefaultImports() ImportTable {
	return ImportTable{
		"Array":   {Library: "Data.Array", Name: "Array"},
		"Maybe":   {Library: "Data.Maybe", Name: "Maybe"},
		"Map":     {Library: "Data.Map", Name: "Map"},
		"Tuple":   {Library: "Data.Tuple", Name: "Tuple"},
		"Set":     {Library: "Data.Set", Name: "Set"},
		"Foreign": {Library: "Foreign", Name: "Foreign"},
	}
}

// With returns a copy of t with marker mapped to (library, name).
func (t ImportTable) With(marker, library, name string) ImportTable {
	out := make(ImportTable, len(t)+1)
	for k, v := range t {
		out[k] = v
	}
	out[marker] = ImportEntry{Library: library, Name: name}
	return out
}

// Import is one import declaration: a library and the names imported from it.
type Import struct {
	Library string
	Names   []string
}

// String renders the import with one name per line:
//
//	import Data.Array (
//	Array
//	)
func (imp Import) String() string {
	var buf bytes.Buffer
	writeImport(&buf, imp)
	return buf.String()
}

func writeImport(buf *bytes.Buffer, imp Import) {
	buf.WriteString("import ")
	buf.WriteString(imp.Library)
	buf.WriteString(" (\n")
	for i, name := range imp.Names {
		if i > 0 {
			buf.WriteString(",\n")
		}
		buf.WriteString(name)
	}
	buf.WriteString("\n)")
}

// ResolveImports walks every constructor reachable from decls and returns the
// imports they require. Libraries are ordered by first reference, as are the
// names within a library; each name appears once. Constructors named after a
// type or union alternative declared in decls are never imported.
func ResolveImports(decls []ir.Declaration, table ImportTable) []Import {
	declared := make(map[string]bool, len(decls))
	for _, d := range decls {
		declared[d.Self().Name] = true
		if u, ok := d.(*ir.UnionDeclaration); ok {
			for _, alt := range u.Alternatives {
				declared[alt.Name] = true
			}
		}
	}

	var imports []Import
	index := make(map[string]int)      // library -> position in imports
	seen := make(map[ImportEntry]bool) // already recorded

	record := func(c ir.Constructor) {
		if declared[c.Name] {
			return
		}
		entry, ok := table[c.Name]
		if !ok || seen[entry] {
			return
		}
		seen[entry] = true

		i, ok := index[entry.Library]
		if !ok {
			i = len(imports)
			index[entry.Library] = i
			imports = append(imports, Import{Library: entry.Library})
		}
		imports[i].Names = append(imports[i].Names, entry.Name)
	}

	for _, d := range decls {
		for _, ref := range ir.References(d) {
			ref.Walk(record)
		}
	}
	return imports
}
