package ir

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsProperName reports whether name is a PureScript proper name, the form
// required for type and data constructor names: an uppercase letter followed
// by letters, digits, '_' or '\''.
func IsProperName(name string) bool {
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 || !unicode.IsUpper(r) {
		return false
	}
	return isIdentTail(name[size:])
}

// IsTypeVariable reports whether name is a PureScript type variable:
// a lowercase letter or '_' followed by identifier characters.
func IsTypeVariable(name string) bool {
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 || !(unicode.IsLower(r) || r == '_') {
		return false
	}
	return isIdentTail(name[size:])
}

// IsModuleName reports whether name is a dot-separated sequence of proper
// names, such as "Fruits" or "App.Api.Types".
func IsModuleName(name string) bool {
	if name == "" {
		return false
	}
	for _, part := range strings.Split(name, ".") {
		if !IsProperName(part) {
			return false
		}
	}
	return true
}

func isIdentTail(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '\'' {
			return false
		}
	}
	return true
}
