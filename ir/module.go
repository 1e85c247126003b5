package ir

import (
	"fmt"
	"slices"
)

// Module is a named collection of declarations rendered into one
// PureScript compilation unit. Declarations keep caller order.
//
// References between declarations are by name: a field of type Color holds
// Con("Color"), never a copy of Color's declaration, so recursive and
// mutually recursive types need no special representation. Find resolves a
// name back to its declaration.
type Module struct {
	// Name is the PureScript module name, e.g. "Fruits" or "App.Types".
	Name string

	// Declarations are emitted in this order.
	Declarations []Declaration

	// Warnings contains non-fatal issues encountered by the provider.
	Warnings []Warning
}

// NewModule returns a module with the given name and declarations.
func NewModule(name string, decls ...Declaration) *Module {
	return &Module{Name: name, Declarations: decls}
}

// Add appends a declaration to the module.
func (m *Module) Add(d Declaration) {
	m.Declarations = append(m.Declarations, d)
}

// AddWarning adds a warning to the module.
func (m *Module) AddWarning(w Warning) {
	m.Warnings = append(m.Warnings, w)
}

// Find looks up a declaration by its type name. Returns nil if not found.
func (m *Module) Find(name string) Declaration {
	for _, d := range m.Declarations {
		if d.Self().Name == name {
			return d
		}
	}
	return nil
}

// Names returns the declared type names in order.
func (m *Module) Names() []string {
	names := make([]string, len(m.Declarations))
	for i, d := range m.Declarations {
		names[i] = d.Self().Name
	}
	return names
}

// Select returns a module holding only the named declarations, in the
// order given. Unknown names are reported as an error.
func (m *Module) Select(names ...string) (*Module, error) {
	out := &Module{Name: m.Name, Warnings: slices.Clone(m.Warnings)}
	for _, name := range names {
		d := m.Find(name)
		if d == nil {
			return nil, fmt.Errorf("module %s has no declaration %s", m.Name, name)
		}
		out.Add(d)
	}
	return out, nil
}

// ValidationError represents a module validation error.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks the module for structural issues that would produce
// invalid PureScript. Returns all validation errors found (not just the first).
// Rendering never requires a valid module; this is for callers that want to
// fail early.
func (m *Module) Validate() []error {
	var errs []error
	add := func(code, format string, args ...any) {
		errs = append(errs, &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)})
	}

	switch {
	case m.Name == "":
		add("empty_module_name", "module name is empty")
	case !IsModuleName(m.Name):
		add("invalid_module_name", "invalid module name: %q", m.Name)
	}

	declared := make(map[string]bool)
	constructors := make(map[string]int) // data constructor -> declaration index
	defines := func(i int, self, name string) {
		if name == "" {
			return
		}
		j, ok := constructors[name]
		switch {
		case !ok:
			constructors[name] = i
		case j == i:
			add("duplicate_constructor", "%s: constructor %s is defined twice", self, name)
		case m.Declarations[j].Self().Name != self:
			add("duplicate_constructor", "%s: constructor %s is already defined by %s", self, name, m.Declarations[j].Self().Name)
		}
	}
	for i, d := range m.Declarations {
		self := d.Self()
		if self.Name == "" {
			add("empty_name", "declaration %d has an empty name", i)
			continue
		}
		if !IsProperName(self.Name) {
			add("invalid_type_name", "invalid type name: %q", self.Name)
		}
		if declared[self.Name] {
			add("duplicate_declaration", "duplicate declaration: %s", self.Name)
		}
		declared[self.Name] = true

		vars := make(map[string]bool)
		for _, p := range self.Parameters {
			if p.IsApplied() {
				add("nested_type_parameter", "%s: type parameter %s must be a bare name", self.Name, p.Name)
			}
			if !IsTypeVariable(p.Name) {
				add("invalid_type_parameter", "%s: invalid type parameter: %q", self.Name, p.Name)
			}
			vars[p.Name] = true
		}

		switch x := d.(type) {
		case *RecordDeclaration:
			defines(i, self.Name, self.Name)
			seen := make(map[string]bool)
			for _, f := range x.Fields {
				if f.Name == "" {
					add("empty_name", "%s: field with an empty name", self.Name)
				} else if seen[f.Name] {
					add("duplicate_field", "%s: duplicate field %s", self.Name, f.Name)
				}
				seen[f.Name] = true
			}
		case *PositionalDeclaration:
			defines(i, self.Name, self.Name)
		case *UnionDeclaration:
			if len(x.Alternatives) == 0 {
				add("empty_union", "union %s has no alternatives", self.Name)
			}
			for _, alt := range x.Alternatives {
				defines(i, self.Name, alt.Name)
				if alt.Name != "" && !IsProperName(alt.Name) {
					add("invalid_type_name", "%s: invalid constructor name: %q", self.Name, alt.Name)
				}
			}
		}

		for _, ref := range References(d)[len(self.Parameters):] {
			ref.Walk(func(c Constructor) {
				switch {
				case c.Name == "":
					add("empty_name", "%s: type reference with an empty name", self.Name)
				case IsTypeVariable(c.Name) && !vars[c.Name]:
					add("unbound_type_variable", "%s: type variable %s is not a parameter of %s", self.Name, c.Name, self.Name)
				}
			})
		}
	}

	return errs
}
