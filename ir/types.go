// Package ir defines the intermediate representation for PureScript data
// declarations. Providers build it from Go types; the purescript package
// renders it.
package ir

// Documentation holds the doc comment attached to a declaration.
type Documentation struct {
	// Summary is the first sentence, suitable for one-line descriptions.
	Summary string

	// Body is the complete documentation text, including the summary.
	// May contain multiple paragraphs separated by blank lines.
	Body string
}

// IsZero returns true if the documentation is empty.
func (d Documentation) IsZero() bool {
	return d.Summary == "" && d.Body == ""
}

// Warning represents a non-fatal issue encountered while building a module.
type Warning struct {
	// Code is a machine-readable warning identifier.
	Code string

	// Message is a human-readable description.
	Message string

	// TypeName is the Go type that triggered the warning, if applicable.
	TypeName string
}
