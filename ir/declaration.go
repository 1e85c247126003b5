package ir

// DeclarationKind identifies the shape of a declaration.
type DeclarationKind int

const (
	KindRecord     DeclarationKind = iota // Single constructor with named fields
	KindPositional                        // Single constructor with positional arguments
	KindUnion                             // Several constructor alternatives
)

// String returns the string representation of the declaration kind.
func (k DeclarationKind) String() string {
	switch k {
	case KindRecord:
		return "Record"
	case KindPositional:
		return "Positional"
	case KindUnion:
		return "Union"
	default:
		return "Unknown"
	}
}

// Declaration is one PureScript data type definition.
// The set of implementations is closed: RecordDeclaration,
// PositionalDeclaration and UnionDeclaration.
type Declaration interface {
	// Kind returns the declaration kind for type switching.
	Kind() DeclarationKind

	// Self returns the type being declared, with its type variables
	// as parameters.
	Self() Constructor

	// Doc returns the documentation lifted from the host type.
	Doc() Documentation

	sealed()
}

// RecordDeclaration renders as data Name a = Name { field :: T, }.
type RecordDeclaration struct {
	Type          Constructor
	Fields        []Field
	Documentation Documentation
}

// Field is a named record field.
type Field struct {
	Name string
	Type Constructor
}

// Kind returns KindRecord.
func (d *RecordDeclaration) Kind() DeclarationKind { return KindRecord }

// Self returns the record's own type.
func (d *RecordDeclaration) Self() Constructor { return d.Type }

// Doc returns the record's documentation.
func (d *RecordDeclaration) Doc() Documentation { return d.Documentation }

func (*RecordDeclaration) sealed() {}

// PositionalDeclaration renders as data Name a = Name T1 (T2 a).
// An empty Args list declares a nullary constructor.
type PositionalDeclaration struct {
	Type          Constructor
	Args          []Constructor
	Documentation Documentation
}

// Kind returns KindPositional.
func (d *PositionalDeclaration) Kind() DeclarationKind { return KindPositional }

// Self returns the declaration's own type.
func (d *PositionalDeclaration) Self() Constructor { return d.Type }

// Doc returns the declaration's documentation.
func (d *PositionalDeclaration) Doc() Documentation { return d.Documentation }

func (*PositionalDeclaration) sealed() {}

// UnionDeclaration renders as data Name = Alt1 T | Alt2 | Alt3 (Array T).
// Alternatives must not be empty.
type UnionDeclaration struct {
	Type          Constructor
	Alternatives  []Constructor
	Documentation Documentation
}

// Kind returns KindUnion.
func (d *UnionDeclaration) Kind() DeclarationKind { return KindUnion }

// Self returns the union's own type.
func (d *UnionDeclaration) Self() Constructor { return d.Type }

// Doc returns the union's documentation.
func (d *UnionDeclaration) Doc() Documentation { return d.Documentation }

func (*UnionDeclaration) sealed() {}

// Record returns a RecordDeclaration for typ with the given fields.
func Record(typ Constructor, fields ...Field) *RecordDeclaration {
	return &RecordDeclaration{Type: typ, Fields: fields}
}

// Positional returns a PositionalDeclaration for typ with the given arguments.
func Positional(typ Constructor, args ...Constructor) *PositionalDeclaration {
	return &PositionalDeclaration{Type: typ, Args: args}
}

// Union returns a UnionDeclaration for typ with the given alternatives.
func Union(typ Constructor, alternatives ...Constructor) *UnionDeclaration {
	return &UnionDeclaration{Type: typ, Alternatives: alternatives}
}

// Equal reports whether two declarations have the same kind, self type and
// payload. Documentation is ignored.
func Equal(a, b Declaration) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() || !a.Self().Equal(b.Self()) {
		return false
	}

	switch x := a.(type) {
	case *RecordDeclaration:
		y := b.(*RecordDeclaration)
		if len(x.Fields) != len(y.Fields) {
			return false
		}
		for i := range x.Fields {
			if x.Fields[i].Name != y.Fields[i].Name || !x.Fields[i].Type.Equal(y.Fields[i].Type) {
				return false
			}
		}
		return true
	case *PositionalDeclaration:
		return equalConstructors(x.Args, b.(*PositionalDeclaration).Args)
	case *UnionDeclaration:
		return equalConstructors(x.Alternatives, b.(*UnionDeclaration).Alternatives)
	}
	return false
}

// References returns every constructor used inside d, in declaration order:
// self parameters first, then field types, arguments or alternatives.
// Nested parameters are not expanded; use Constructor.Walk for that.
func References(d Declaration) []Constructor {
	refs := append([]Constructor(nil), d.Self().Parameters...)
	switch x := d.(type) {
	case *RecordDeclaration:
		for _, f := range x.Fields {
			refs = append(refs, f.Type)
		}
	case *PositionalDeclaration:
		refs = append(refs, x.Args...)
	case *UnionDeclaration:
		refs = append(refs, x.Alternatives...)
	}
	return refs
}
