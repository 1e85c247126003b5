package ir

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies a declaration file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown declaration file extension: %q (expected .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// moduleDoc is the wire shape of a module in declaration files.
//
//	name: Fruits
//	declarations:
//	  - kind: union
//	    type: {name: Currency}
//	    alternatives: [{name: Coins}, {name: Credits}]
//	  - kind: record
//	    type: {name: Fruit}
//	    fields:
//	      - {name: price, type: {name: Int}}
type moduleDoc struct {
	Name         string           `json:"name" yaml:"name"`
	Declarations []declarationDoc `json:"declarations" yaml:"declarations"`
}

type declarationDoc struct {
	Kind         string           `json:"kind" yaml:"kind"`
	Type         constructorDoc   `json:"type" yaml:"type"`
	Fields       []fieldDoc       `json:"fields,omitempty" yaml:"fields,omitempty"`
	Args         []constructorDoc `json:"args,omitempty" yaml:"args,omitempty"`
	Alternatives []constructorDoc `json:"alternatives,omitempty" yaml:"alternatives,omitempty"`
	Doc          string           `json:"doc,omitempty" yaml:"doc,omitempty"`
}

type fieldDoc struct {
	Name string         `json:"name" yaml:"name"`
	Type constructorDoc `json:"type" yaml:"type"`
}

type constructorDoc struct {
	Name       string           `json:"name" yaml:"name"`
	Parameters []constructorDoc `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// DecodeModule reads a module from a JSON or YAML declaration file.
func DecodeModule(r io.Reader, format Format) (*Module, error) {
	var doc moduleDoc
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %q", format)
	}
	return doc.module()
}

// EncodeModule writes m as a declaration file that DecodeModule reads back.
func EncodeModule(w io.Writer, m *Module, format Format) error {
	doc := toModuleDoc(m)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format: %q", format)
	}
	return nil
}

func (doc moduleDoc) module() (*Module, error) {
	m := &Module{Name: doc.Name}
	for i, dd := range doc.Declarations {
		d, err := dd.declaration()
		if err != nil {
			return nil, fmt.Errorf("declaration %d: %w", i, err)
		}
		m.Add(d)
	}
	return m, nil
}

func (dd declarationDoc) declaration() (Declaration, error) {
	if dd.Type.Name == "" {
		return nil, fmt.Errorf("missing type name")
	}
	self, err := dd.Type.constructor()
	if err != nil {
		return nil, err
	}
	doc := Documentation{Body: dd.Doc, Summary: Summarize(dd.Doc)}

	switch dd.Kind {
	case "record":
		fields := make([]Field, len(dd.Fields))
		for i, f := range dd.Fields {
			if f.Name == "" {
				return nil, fmt.Errorf("%s: field %d has no name", self.Name, i)
			}
			typ, err := f.Type.constructor()
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", self.Name, f.Name, err)
			}
			fields[i] = Field{Name: f.Name, Type: typ}
		}
		return &RecordDeclaration{Type: self, Fields: fields, Documentation: doc}, nil
	case "positional":
		args, err := constructors(dd.Args)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", self.Name, err)
		}
		return &PositionalDeclaration{Type: self, Args: args, Documentation: doc}, nil
	case "union":
		alts, err := constructors(dd.Alternatives)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", self.Name, err)
		}
		return &UnionDeclaration{Type: self, Alternatives: alts, Documentation: doc}, nil
	case "":
		return nil, fmt.Errorf("%s: missing kind", self.Name)
	default:
		return nil, fmt.Errorf("%s: unknown kind %q (expected record, positional or union)", self.Name, dd.Kind)
	}
}

func (cd constructorDoc) constructor() (Constructor, error) {
	if cd.Name == "" {
		return Constructor{}, fmt.Errorf("constructor with an empty name")
	}
	params, err := constructors(cd.Parameters)
	if err != nil {
		return Constructor{}, fmt.Errorf("%s: %w", cd.Name, err)
	}
	return Constructor{Name: cd.Name, Parameters: params}, nil
}

func constructors(docs []constructorDoc) ([]Constructor, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	out := make([]Constructor, len(docs))
	for i, cd := range docs {
		c, err := cd.constructor()
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func toModuleDoc(m *Module) moduleDoc {
	doc := moduleDoc{Name: m.Name, Declarations: make([]declarationDoc, len(m.Declarations))}
	for i, d := range m.Declarations {
		doc.Declarations[i] = toDeclarationDoc(d)
	}
	return doc
}

func toDeclarationDoc(d Declaration) declarationDoc {
	dd := declarationDoc{Type: toConstructorDoc(d.Self()), Doc: d.Doc().Body}
	switch x := d.(type) {
	case *RecordDeclaration:
		dd.Kind = "record"
		dd.Fields = make([]fieldDoc, len(x.Fields))
		for i, f := range x.Fields {
			dd.Fields[i] = fieldDoc{Name: f.Name, Type: toConstructorDoc(f.Type)}
		}
	case *PositionalDeclaration:
		dd.Kind = "positional"
		dd.Args = toConstructorDocs(x.Args)
	case *UnionDeclaration:
		dd.Kind = "union"
		dd.Alternatives = toConstructorDocs(x.Alternatives)
	}
	return dd
}

func toConstructorDoc(c Constructor) constructorDoc {
	return constructorDoc{Name: c.Name, Parameters: toConstructorDocs(c.Parameters)}
}

func toConstructorDocs(cs []Constructor) []constructorDoc {
	if len(cs) == 0 {
		return nil
	}
	out := make([]constructorDoc, len(cs))
	for i, c := range cs {
		out[i] = toConstructorDoc(c)
	}
	return out
}

// Summarize returns the first sentence of a doc comment body.
func Summarize(body string) string {
	body = strings.TrimSpace(body)
	if i := strings.Index(body, "\n\n"); i >= 0 {
		body = body[:i]
	}
	if i := strings.Index(body, ". "); i >= 0 {
		return body[:i+1]
	}
	return strings.ReplaceAll(body, "\n", " ")
}
