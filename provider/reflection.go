package provider

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/broady/pursgen/ir"
)

// ReflectionProvider extracts declarations using runtime reflection.
// Reflection cannot see constants, method sets of unexported interfaces or
// comments, so enums and sealed interfaces are registered explicitly.
type ReflectionProvider struct{}

// ReflectionInputOptions configures reflection-based extraction.
type ReflectionInputOptions struct {
	// Module is the PureScript module name of the result.
	Module string

	// RootTypes are the types to extract, specified as reflect.Type values.
	RootTypes []reflect.Type

	// Positional lists struct types rendered as positional constructors.
	Positional []reflect.Type

	// Unions registers types rendered as unions.
	Unions []UnionInput

	// TypeMappings overrides the PureScript type for Go types.
	// See SourceInputOptions.TypeMappings.
	TypeMappings map[string]string
}

// UnionInput registers a union. Members lists the nullary alternatives of
// a basic type such as an int enum; Variants lists the implementations of an
// interface. Both are rendered in the order given.
type UnionInput struct {
	Type     reflect.Type
	Members  []string
	Variants []reflect.Type
}

// BuildModule extracts the root types and everything they reference.
func (p *ReflectionProvider) BuildModule(ctx context.Context, opts ReflectionInputOptions) (*ir.Module, error) {
	if len(opts.RootTypes) == 0 {
		return nil, fmt.Errorf("no root types provided")
	}

	b := &reflectionBuilder{
		moduleBuilder: newModuleBuilder(opts.Module, opts.TypeMappings),
		ctx:           ctx,
		positional:    make(map[reflect.Type]bool),
		unions:        make(map[reflect.Type]UnionInput),
		variantOf:     make(map[reflect.Type]reflect.Type),
	}
	for _, t := range opts.Positional {
		b.positional[t] = true
	}
	for _, u := range opts.Unions {
		if u.Type == nil {
			return nil, fmt.Errorf("union without a type")
		}
		if len(u.Members) == 0 && len(u.Variants) == 0 {
			return nil, fmt.Errorf("union %s has no members or variants", u.Type)
		}
		b.unions[u.Type] = u
		for _, v := range u.Variants {
			for v != nil && v.Kind() == reflect.Pointer {
				v = v.Elem()
			}
			b.variantOf[v] = u.Type
		}
	}

	for _, t := range opts.RootTypes {
		if t == nil {
			return nil, fmt.Errorf("nil root type")
		}
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t.Name() == "" {
			return nil, fmt.Errorf("root type %s is not a named type", t)
		}
		if _, err := b.convert(t, ""); err != nil {
			return nil, fmt.Errorf("failed to extract root type %s: %w", t, err)
		}
	}

	return b.module, nil
}

// reflectionBuilder maintains state during module construction.
type reflectionBuilder struct {
	*moduleBuilder
	ctx        context.Context
	positional map[reflect.Type]bool
	unions     map[reflect.Type]UnionInput
	variantOf  map[reflect.Type]reflect.Type // variant -> union
}

// convert converts t to a constructor reference, declaring the named types
// it reaches. hint names anonymous structs.
func (b *reflectionBuilder) convert(t reflect.Type, hint string) (ir.Constructor, error) {
	if t.Name() != "" && t.PkgPath() != "" {
		return b.convertNamed(t, hint)
	}
	if c, ok := b.mapped(t.String()); ok {
		return c, nil
	}
	return b.structure(t, hint)
}

// structure converts t by its kind, ignoring its name.
func (b *reflectionBuilder) structure(t reflect.Type, hint string) (ir.Constructor, error) {
	switch t.Kind() {
	case reflect.Bool:
		return ir.Con("Boolean"), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return ir.Con("Int"), nil

	case reflect.Float32, reflect.Float64:
		return ir.Con("Number"), nil

	case reflect.String:
		return ir.Con("String"), nil

	case reflect.Pointer:
		elem, err := b.convert(t.Elem(), hint)
		if err != nil {
			return ir.Constructor{}, err
		}
		return ir.Con("Maybe", elem), nil

	case reflect.Slice, reflect.Array:
		elem, err := b.convert(t.Elem(), hint)
		if err != nil {
			return ir.Constructor{}, err
		}
		return ir.Con("Array", elem), nil

	case reflect.Map:
		key, err := b.convert(t.Key(), hint)
		if err != nil {
			return ir.Constructor{}, err
		}
		value, err := b.convert(t.Elem(), hint)
		if err != nil {
			return ir.Constructor{}, err
		}
		return ir.Con("Map", key, value), nil

	case reflect.Interface:
		return b.foreign(WarnInterfaceType, fmt.Sprintf("interface type %s mapped to Foreign", t), t.Name()), nil

	case reflect.Struct:
		return b.anonymousStruct(t, hint)

	case reflect.Chan:
		return ir.Constructor{}, fmt.Errorf("unsupported type: chan %s", t.Elem())
	}
	return ir.Constructor{}, fmt.Errorf("unsupported type: %s", t.Kind())
}

func (b *reflectionBuilder) convertNamed(t reflect.Type, hint string) (ir.Constructor, error) {
	if c, ok := b.mapped(t.PkgPath() + "." + t.Name()); ok {
		return c, nil
	}
	if u, ok := b.variantOf[t]; ok {
		return ir.Constructor{}, fmt.Errorf("type %s is a variant of union %s and can only be referenced through it", t.Name(), u.Name())
	}
	_, union := b.unions[t]
	if t.Kind() == reflect.Interface && !union {
		return b.foreign(WarnInterfaceType, fmt.Sprintf("interface type %s mapped to Foreign", t.Name()), t.Name()), nil
	}
	return b.declare(t)
}

// declare emits the declaration for a named type after its dependencies.
func (b *reflectionBuilder) declare(t reflect.Type) (ir.Constructor, error) {
	key := t.PkgPath() + "." + t.Name()
	if self, ok := b.reference(key); ok {
		return self, nil
	}
	if err := b.ctx.Err(); err != nil {
		return ir.Constructor{}, err
	}

	self := ir.Con(typeName(t))
	if err := b.begin(key, self.Name); err != nil {
		return ir.Constructor{}, err
	}
	decl, err := b.build(t, self)
	if err != nil {
		return ir.Constructor{}, err
	}
	b.finish(key, decl, self)
	return self, nil
}

func (b *reflectionBuilder) build(t reflect.Type, self ir.Constructor) (ir.Declaration, error) {
	if u, ok := b.unions[t]; ok {
		union := ir.Union(self)
		for _, m := range u.Members {
			union.Alternatives = append(union.Alternatives, ir.Con(m))
		}
		for _, v := range u.Variants {
			alt, err := b.variant(v)
			if err != nil {
				return nil, fmt.Errorf("variant %s: %w", v, err)
			}
			union.Alternatives = append(union.Alternatives, alt)
		}
		return union, nil
	}

	if t.Kind() == reflect.Struct {
		fields, err := b.structFields(t, self.Name)
		if err != nil {
			return nil, err
		}
		if b.positional[t] {
			return ir.Positional(self, fieldTypes(fields)...), nil
		}
		return ir.Record(self, fields...), nil
	}

	arg, err := b.structure(t, self.Name)
	if err != nil {
		return nil, err
	}
	return ir.Positional(self, arg), nil
}

// variant converts a union variant: a struct contributes its field types,
// any other type its underlying structure.
func (b *reflectionBuilder) variant(v reflect.Type) (ir.Constructor, error) {
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	alt := ir.Con(typeName(v))
	if v.Kind() == reflect.Struct {
		fields, err := b.structFields(v, alt.Name)
		if err != nil {
			return ir.Constructor{}, err
		}
		alt.Parameters = fieldTypes(fields)
		return alt, nil
	}
	arg, err := b.structure(v, alt.Name)
	if err != nil {
		return ir.Constructor{}, err
	}
	alt.Parameters = []ir.Constructor{arg}
	return alt, nil
}

// structFields converts the serialized fields of a struct. Embedded structs
// without a json name are flattened in place.
func (b *reflectionBuilder) structFields(t reflect.Type, parent string) ([]ir.Field, error) {
	var fields []ir.Field
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() && !field.Anonymous {
			continue
		}

		tag := field.Tag.Get("json")
		label, ok := fieldLabel(tag, field.Name)
		if !ok {
			continue
		}

		if field.Anonymous && !hasJSONName(tag) {
			ft := field.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				promoted, err := b.structFields(ft, parent)
				if err != nil {
					return nil, err
				}
				fields = append(fields, promoted...)
				continue
			}
		}
		if !field.IsExported() {
			continue
		}

		typ, err := b.convert(field.Type, parent+field.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to convert field %s: %w", field.Name, err)
		}
		fields = append(fields, ir.Field{Name: label, Type: typ})
	}
	return fields, nil
}

// anonymousStruct declares an inline struct as a record named after the
// field that holds it.
func (b *reflectionBuilder) anonymousStruct(t reflect.Type, hint string) (ir.Constructor, error) {
	if hint == "" {
		return ir.Constructor{}, fmt.Errorf("cannot name anonymous struct %s without a containing type", t)
	}
	key := "anonymous:" + hint
	if self, ok := b.reference(key); ok {
		return self, nil
	}

	self := ir.Con(hint)
	if err := b.begin(key, hint); err != nil {
		return ir.Constructor{}, err
	}
	fields, err := b.structFields(t, hint)
	if err != nil {
		return ir.Constructor{}, err
	}
	b.finish(key, ir.Record(self, fields...), self)
	return self, nil
}

// typeName returns the PureScript name for a named type, using synthetic
// naming for generic instantiations.
func typeName(t reflect.Type) string {
	name := t.Name()
	if strings.Contains(name, "[") {
		return syntheticName(name)
	}
	return upperFirst(name)
}
