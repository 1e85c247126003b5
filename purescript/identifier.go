package purescript

import "github.com/broady/pursgen/ir"

// needsQuoting returns true if a record label must be written as a string.
// Keywords such as type and data are valid labels.
func needsQuoting(label string) bool {
	return !ir.IsTypeVariable(label)
}

// quoteLabel returns label in a form accepted as a record label.
func quoteLabel(label string) string {
	if !needsQuoting(label) {
		return label
	}
	quoted := make([]byte, 0, len(label)+2)
	quoted = append(quoted, '"')
	for i := 0; i < len(label); i++ {
		switch c := label[i]; c {
		case '"', '\\':
			quoted = append(quoted, '\\', c)
		default:
			quoted = append(quoted, c)
		}
	}
	return string(append(quoted, '"'))
}
