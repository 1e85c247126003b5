// Package provider implements input providers that extract type information
// from Go code and convert it to declarations.
//
// Both providers emit declarations with dependencies first, followed by the
// requested root types in the order given.
package provider

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/broady/pursgen/ir"
)

// Warning codes reported through ir.Module.Warnings.
const (
	WarnInterfaceType = "INTERFACE_TYPE"
	WarnSkippedType   = "SKIPPED_TYPE"
)

// builtinMappings are the Go types that map to a PureScript type directly
// rather than through their structure.
var builtinMappings = map[string]string{
	"time.Time":                "String",
	"time.Duration":            "Int",
	"encoding/json.Number":     "String",
	"encoding/json.RawMessage": "Foreign",
}

// DefaultTypeMappings returns the Go types mapped without inspecting their
// structure, keyed by package path and name.
func DefaultTypeMappings() map[string]string {
	out := make(map[string]string, len(builtinMappings))
	for k, v := range builtinMappings {
		out[k] = v
	}
	return out
}

// moduleBuilder accumulates declarations in dependency order. Keys identify
// host types (package path and name); names are the PureScript names.
type moduleBuilder struct {
	module   *ir.Module
	mappings map[string]string
	done     map[string]ir.Constructor // key -> declared self reference
	active   map[string]string         // key -> name, while being built
	owners   map[string]string         // name -> key
}

func newModuleBuilder(name string, overrides map[string]string) *moduleBuilder {
	mappings := DefaultTypeMappings()
	for k, v := range overrides {
		mappings[k] = v
	}
	return &moduleBuilder{
		module:   ir.NewModule(name),
		mappings: mappings,
		done:     make(map[string]ir.Constructor),
		active:   make(map[string]string),
		owners:   make(map[string]string),
	}
}

// mapped returns the constructor for a mapped Go type string.
func (b *moduleBuilder) mapped(key string) (ir.Constructor, bool) {
	v, ok := b.mappings[key]
	if !ok {
		return ir.Constructor{}, false
	}
	return parseConstructor(v), true
}

// reference returns the constructor for an already declared or in-progress
// type. A type still being built is recursive and is referenced by name.
func (b *moduleBuilder) reference(key string) (ir.Constructor, bool) {
	if self, ok := b.done[key]; ok {
		return self, true
	}
	if name, ok := b.active[key]; ok {
		return ir.Con(name), true
	}
	return ir.Constructor{}, false
}

// begin marks key as being built under name.
func (b *moduleBuilder) begin(key, name string) error {
	if other, ok := b.owners[name]; ok && other != key {
		return fmt.Errorf("name collision: %s and %s both map to %s", other, key, name)
	}
	b.owners[name] = key
	b.active[key] = name
	return nil
}

// finish appends d, marks its key as declared and returns its self reference.
// A nil d records the key without emitting a declaration.
func (b *moduleBuilder) finish(key string, d ir.Declaration, self ir.Constructor) {
	delete(b.active, key)
	b.done[key] = self
	if d != nil {
		b.module.Add(d)
	}
}

func (b *moduleBuilder) warn(code, message, typeName string) {
	b.module.AddWarning(ir.Warning{Code: code, Message: message, TypeName: typeName})
}

func (b *moduleBuilder) foreign(code, message, typeName string) ir.Constructor {
	b.warn(code, message, typeName)
	return ir.Con("Foreign")
}

// parseConstructor parses a mapping value such as "String" or "Map String Int".
// Parameters are bare names.
func parseConstructor(s string) ir.Constructor {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return ir.Con("Foreign")
	}
	c := ir.Con(parts[0])
	for _, p := range parts[1:] {
		c.Parameters = append(c.Parameters, ir.Con(p))
	}
	return c
}

// fieldLabel returns the record label for a struct field from its json tag,
// falling back to the Go name with a lowercased first letter. ok is false if
// the field is skipped via `json:"-"`.
func fieldLabel(tag, goName string) (label string, ok bool) {
	if tag == "-" {
		return "", false
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return lowerFirst(goName), true
	}
	return name, true
}

// hasJSONName reports whether tag names the field explicitly.
func hasJSONName(tag string) bool {
	name, _, _ := strings.Cut(tag, ",")
	return name != ""
}

func lowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[n:]
}

func upperFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// typeVariable returns the PureScript type variable for a Go type parameter.
func typeVariable(goName string) ir.Constructor {
	return ir.Con(lowerFirst(goName))
}

// syntheticName flattens a generic instantiation name into a proper name:
// "Page[github.com/acme/api.User]" becomes "Page_User" and
// "Pair[string,*api.User]" becomes "Pair_String_PtrUser".
func syntheticName(name string) string {
	var out strings.Builder
	var token strings.Builder
	flush := func() {
		t := token.String()
		token.Reset()
		if t == "" {
			return
		}
		ptr := strings.TrimLeft(t, "*")
		for range len(t) - len(ptr) {
			out.WriteString("Ptr")
		}
		if i := strings.LastIndex(ptr, "/"); i >= 0 {
			ptr = ptr[i+1:]
		}
		if i := strings.LastIndex(ptr, "."); i >= 0 {
			ptr = ptr[i+1:]
		}
		out.WriteString(upperFirst(ptr))
	}

	for _, r := range name {
		switch r {
		case '[', ',':
			flush()
			out.WriteByte('_')
		case ']', ' ':
			flush()
		default:
			token.WriteRune(r)
		}
	}
	flush()
	return out.String()
}
