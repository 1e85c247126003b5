package ir

// Constructor is a use of a type: a name applied to zero or more type
// parameters. It describes both the type being declared (with its own type
// variables as parameters) and every type appearing inside a declaration.
//
// Examples:
//
//	Con("Int")                          // Int
//	Con("Array", Con("Int"))            // Array Int
//	Con("Map", Con("String"), Con("a")) // Map String a
type Constructor struct {
	// Name is the PureScript type name or type variable.
	Name string

	// Parameters are the applied type arguments, in order.
	Parameters []Constructor
}

// Con returns a Constructor applying name to params.
func Con(name string, params ...Constructor) Constructor {
	return Constructor{Name: name, Parameters: params}
}

// IsApplied reports whether c carries type parameters.
func (c Constructor) IsApplied() bool {
	return len(c.Parameters) > 0
}

// Equal reports whether c and other are structurally identical.
func (c Constructor) Equal(other Constructor) bool {
	if c.Name != other.Name || len(c.Parameters) != len(other.Parameters) {
		return false
	}
	for i := range c.Parameters {
		if !c.Parameters[i].Equal(other.Parameters[i]) {
			return false
		}
	}
	return true
}

// Walk calls fn for c and then for every nested parameter, depth first.
func (c Constructor) Walk(fn func(Constructor)) {
	fn(c)
	for _, p := range c.Parameters {
		p.Walk(fn)
	}
}

func equalConstructors(a, b []Constructor) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
