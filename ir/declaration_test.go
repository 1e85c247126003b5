package ir

import "testing"

func TestDeclarationKind_String(t *testing.T) {
	tests := []struct {
		kind DeclarationKind
		want string
	}{
		{KindRecord, "Record"},
		{KindPositional, "Positional"},
		{KindUnion, "Union"},
		{DeclarationKind(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("DeclarationKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestDeclaration_Kinds(t *testing.T) {
	tests := []struct {
		decl Declaration
		want DeclarationKind
	}{
		{Record(Con("Fruit")), KindRecord},
		{Positional(Con("UserID"), Con("String")), KindPositional},
		{Union(Con("Currency"), Con("Coins")), KindUnion},
	}
	for _, tt := range tests {
		if got := tt.decl.Kind(); got != tt.want {
			t.Errorf("%T.Kind() = %v, want %v", tt.decl, got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	fruit := func() *RecordDeclaration {
		return Record(Con("Fruit"),
			Field{Name: "color", Type: Con("Color")},
			Field{Name: "price", Type: Con("Int")},
		)
	}

	tests := []struct {
		name string
		a, b Declaration
		want bool
	}{
		{"identical records", fruit(), fruit(), true},
		{
			"field order matters",
			fruit(),
			Record(Con("Fruit"),
				Field{Name: "price", Type: Con("Int")},
				Field{Name: "color", Type: Con("Color")},
			),
			false,
		},
		{
			"documentation ignored",
			fruit(),
			&RecordDeclaration{Type: Con("Fruit"), Fields: fruit().Fields, Documentation: Documentation{Body: "Fruit."}},
			true,
		},
		{"different kinds", Positional(Con("Coins")), Union(Con("Coins"), Con("Coins")), false},
		{"self parameters", Positional(Con("Box", Con("a")), Con("a")), Positional(Con("Box", Con("b")), Con("a")), false},
		{"union alternatives", Union(Con("C"), Con("A"), Con("B")), Union(Con("C"), Con("A"), Con("B")), true},
		{"union alternative params", Union(Con("C"), Con("A", Con("Int"))), Union(Con("C"), Con("A")), false},
		{"both nil", nil, nil, true},
		{"one nil", fruit(), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReferences(t *testing.T) {
	d := Record(Con("Pair", Con("a"), Con("b")),
		Field{Name: "first", Type: Con("a")},
		Field{Name: "rest", Type: Con("Array", Con("b"))},
	)

	refs := References(d)
	want := []Constructor{Con("a"), Con("b"), Con("a"), Con("Array", Con("b"))}
	if len(refs) != len(want) {
		t.Fatalf("References() returned %d refs, want %d", len(refs), len(want))
	}
	for i := range want {
		if !refs[i].Equal(want[i]) {
			t.Errorf("References()[%d] = %v, want %v", i, refs[i], want[i])
		}
	}
}
