package purescript

import (
	"bytes"
	"strings"

	"github.com/broady/pursgen/ir"
)

// Render returns the PureScript declaration for d.
//
//	data Fruit = Fruit { color :: Color, price :: Int, currency :: Currency, }
//	data Wrapper a = Wrapper (Array a) Int
//	data Color = Red Int | Green Int | Blue (Array Int)
//
// Render never fails. A union without alternatives renders as "data Name = ",
// which ir.Module.Validate reports beforehand.
func Render(d ir.Declaration) string {
	var buf bytes.Buffer
	(&Emitter{}).EmitDeclaration(&buf, d)
	return buf.String()
}

// RenderConstructor returns the type expression for c: its name followed by
// each parameter, parenthesizing parameters that are applied themselves.
func RenderConstructor(c ir.Constructor) string {
	var buf bytes.Buffer
	writeConstructor(&buf, c)
	return buf.String()
}

// Emitter writes declarations and their documentation.
type Emitter struct {
	// EmitComments writes "-- |" doc comments above documented declarations.
	EmitComments bool
}

// EmitDeclaration writes the declaration text for d, preceded by its doc
// comment when comments are enabled. No trailing newline is written.
func (e *Emitter) EmitDeclaration(buf *bytes.Buffer, d ir.Declaration) {
	if e.EmitComments && !d.Doc().IsZero() {
		emitDocComment(buf, d.Doc())
	}

	switch t := d.(type) {
	case *ir.RecordDeclaration:
		emitRecord(buf, t)
	case *ir.PositionalDeclaration:
		emitPositional(buf, t)
	case *ir.UnionDeclaration:
		emitUnion(buf, t)
	}
}

// emitHead writes "data Name a b = ".
func emitHead(buf *bytes.Buffer, self ir.Constructor) {
	buf.WriteString("data ")
	buf.WriteString(self.Name)
	buf.WriteString(" ")
	for _, p := range self.Parameters {
		buf.WriteString(p.Name)
		buf.WriteString(" ")
	}
	buf.WriteString("= ")
}

// emitRecord writes a record. Every field, the last included, is followed by
// ", " before the closing brace.
func emitRecord(buf *bytes.Buffer, r *ir.RecordDeclaration) {
	emitHead(buf, r.Type)
	buf.WriteString(r.Type.Name)
	buf.WriteString(" { ")
	for _, f := range r.Fields {
		buf.WriteString(quoteLabel(f.Name))
		buf.WriteString(" :: ")
		writeConstructor(buf, f.Type)
		buf.WriteString(", ")
	}
	buf.WriteString("}")
}

func emitPositional(buf *bytes.Buffer, p *ir.PositionalDeclaration) {
	emitHead(buf, p.Type)
	buf.WriteString(p.Type.Name)
	for _, arg := range p.Args {
		buf.WriteString(" ")
		writeArgument(buf, arg)
	}
}

func emitUnion(buf *bytes.Buffer, u *ir.UnionDeclaration) {
	emitHead(buf, u.Type)
	for i, alt := range u.Alternatives {
		if i > 0 {
			buf.WriteString(" | ")
		}
		writeConstructor(buf, alt)
	}
}

func writeConstructor(buf *bytes.Buffer, c ir.Constructor) {
	buf.WriteString(c.Name)
	for _, p := range c.Parameters {
		buf.WriteString(" ")
		writeArgument(buf, p)
	}
}

// writeArgument writes c in argument position, where an applied type needs
// parentheses to bind tighter than the enclosing application.
func writeArgument(buf *bytes.Buffer, c ir.Constructor) {
	if !c.IsApplied() {
		buf.WriteString(c.Name)
		return
	}
	buf.WriteString("(")
	writeConstructor(buf, c)
	buf.WriteString(")")
}

// emitDocComment writes PureScript doc comments, one "-- |" line per line.
func emitDocComment(buf *bytes.Buffer, doc ir.Documentation) {
	body := doc.Body
	if body == "" {
		body = doc.Summary
	}
	for _, line := range strings.Split(strings.TrimSpace(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			buf.WriteString("-- |\n")
			continue
		}
		buf.WriteString("-- | ")
		buf.WriteString(line)
		buf.WriteString("\n")
	}
}
