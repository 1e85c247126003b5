package ir

import "encoding/json"

// JSON serialization support for IR types.
// Declarations include a "kind" field for type discrimination; DecodeModule
// reads the same shape back.

// MarshalJSON implements json.Marshaler for Constructor.
func (c Constructor) MarshalJSON() ([]byte, error) {
	return json.Marshal(toConstructorDoc(c))
}

// MarshalJSON implements json.Marshaler for RecordDeclaration.
func (d *RecordDeclaration) MarshalJSON() ([]byte, error) {
	return json.Marshal(toDeclarationDoc(d))
}

// MarshalJSON implements json.Marshaler for PositionalDeclaration.
func (d *PositionalDeclaration) MarshalJSON() ([]byte, error) {
	return json.Marshal(toDeclarationDoc(d))
}

// MarshalJSON implements json.Marshaler for UnionDeclaration.
func (d *UnionDeclaration) MarshalJSON() ([]byte, error) {
	return json.Marshal(toDeclarationDoc(d))
}

// MarshalJSON implements json.Marshaler for Module.
func (m *Module) MarshalJSON() ([]byte, error) {
	return json.Marshal(toModuleDoc(m))
}
