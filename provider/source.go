package provider

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"reflect"
	"sort"
	"strings"

	"github.com/broady/pursgen/internal/directive"
	"github.com/broady/pursgen/ir"
	"golang.org/x/tools/go/packages"
)

// SourceProvider extracts declarations by analyzing Go source code.
type SourceProvider struct{}

// SourceInputOptions configures source-based extraction.
type SourceInputOptions struct {
	// Module is the PureScript module name of the result.
	Module string

	// Packages are the Go package patterns to analyze.
	Packages []string

	// RootTypes are the type names to extract (e.g., "Fruit", "Color").
	// If empty, all exported types are extracted in source order, except
	// the variants of sealed interfaces, which only appear as alternatives.
	RootTypes []string

	// TypeMappings overrides the PureScript type for Go types, keyed by
	// package path and name ("time.Time", "github.com/acme/api.ID") or by
	// basic type name ("int64"). Values take the form "String" or "Map String Int".
	TypeMappings map[string]string

	// Dir is the directory packages are resolved from. Empty means the
	// current directory.
	Dir string
}

// BuildModule analyzes source code and returns a module.
// The provider recursively extracts all types reachable from RootTypes.
func (p *SourceProvider) BuildModule(ctx context.Context, opts SourceInputOptions) (*ir.Module, error) {
	if len(opts.Packages) == 0 {
		return nil, fmt.Errorf("no packages specified")
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     opts.Dir,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedImports |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo,
	}

	pkgs, err := packages.Load(cfg, opts.Packages...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found")
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("package %s has errors: %v", pkg.PkgPath, pkg.Errors)
		}
	}

	b := &sourceBuilder{
		moduleBuilder: newModuleBuilder(opts.Module, opts.TypeMappings),
		ctx:           ctx,
		pkgs:          pkgs,
		docs:          make(map[token.Pos]*ast.CommentGroup),
		directives:    make(map[string]directive.Directives),
	}
	if err := b.index(); err != nil {
		return nil, err
	}

	if len(opts.RootTypes) > 0 {
		for _, name := range opts.RootTypes {
			if err := b.extractRootType(name); err != nil {
				return nil, fmt.Errorf("failed to extract root type %s: %w", name, err)
			}
		}
	} else if err := b.extractAllExportedTypes(); err != nil {
		return nil, fmt.Errorf("failed to extract exported types: %w", err)
	}

	return b.module, nil
}

// sourceBuilder holds the loaded packages and the state of one extraction.
type sourceBuilder struct {
	*moduleBuilder
	ctx        context.Context
	pkgs       []*packages.Package
	docs       map[token.Pos]*ast.CommentGroup // type name position -> doc comment
	directives map[string]directive.Directives // type key -> directives
}

// index records the doc comment and directives of every type declaration.
func (b *sourceBuilder) index() error {
	for _, pkg := range b.pkgs {
		for _, file := range pkg.Syntax {
			found, err := directive.ParseFile(pkg.Fset, file)
			if err != nil {
				return err
			}
			for name, d := range found {
				b.directives[pkg.PkgPath+"."+name] = d
			}

			for _, decl := range file.Decls {
				gen, ok := decl.(*ast.GenDecl)
				if !ok || gen.Tok != token.TYPE {
					continue
				}
				for _, spec := range gen.Specs {
					ts := spec.(*ast.TypeSpec)
					doc := ts.Doc
					if doc == nil && len(gen.Specs) == 1 {
						doc = gen.Doc
					}
					if doc != nil {
						b.docs[ts.Name.Pos()] = doc
					}
				}
			}
		}
	}
	return nil
}

// extractRootType finds and extracts a named type by name.
func (b *sourceBuilder) extractRootType(name string) error {
	for _, pkg := range b.pkgs {
		tn, ok := pkg.Types.Scope().Lookup(name).(*types.TypeName)
		if !ok {
			continue
		}
		_, err := b.convert(tn.Type(), "")
		return err
	}
	return fmt.Errorf("type %s not found in any package", name)
}

// extractAllExportedTypes extracts every exported type, package by package
// in source order.
func (b *sourceBuilder) extractAllExportedTypes() error {
	for _, pkg := range b.pkgs {
		var roots []*types.TypeName
		var sealed []*types.Interface
		for _, tn := range typeNames(pkg.Types) {
			if iface, ok := tn.Type().Underlying().(*types.Interface); ok && isSealed(iface) {
				sealed = append(sealed, iface)
			}
			if tn.Exported() && !tn.IsAlias() {
				roots = append(roots, tn)
			}
		}

		for _, tn := range roots {
			if implementsAny(tn.Type(), sealed) {
				continue
			}
			if _, err := b.convert(tn.Type(), ""); err != nil {
				return fmt.Errorf("%s: %w", tn.Name(), err)
			}
		}
	}
	return nil
}

// convert converts a Go type to a constructor reference, declaring the
// named types it reaches. hint names anonymous structs.
func (b *sourceBuilder) convert(t types.Type, hint string) (ir.Constructor, error) {
	switch typ := t.(type) {
	case *types.Alias:
		return b.convert(types.Unalias(typ), hint)

	case *types.Named:
		return b.convertNamed(typ, hint)

	case *types.Basic:
		if c, ok := b.mapped(typ.Name()); ok {
			return c, nil
		}
		return basicConstructor(typ)

	case *types.Pointer:
		elem, err := b.convert(typ.Elem(), hint)
		if err != nil {
			return ir.Constructor{}, err
		}
		return ir.Con("Maybe", elem), nil

	case *types.Slice:
		elem, err := b.convert(typ.Elem(), hint)
		if err != nil {
			return ir.Constructor{}, err
		}
		return ir.Con("Array", elem), nil

	case *types.Array:
		elem, err := b.convert(typ.Elem(), hint)
		if err != nil {
			return ir.Constructor{}, err
		}
		return ir.Con("Array", elem), nil

	case *types.Map:
		key, err := b.convert(typ.Key(), hint)
		if err != nil {
			return ir.Constructor{}, err
		}
		value, err := b.convert(typ.Elem(), hint)
		if err != nil {
			return ir.Constructor{}, err
		}
		return ir.Con("Map", key, value), nil

	case *types.Interface:
		return b.foreign(WarnInterfaceType, fmt.Sprintf("interface type %s mapped to Foreign", typ), ""), nil

	case *types.TypeParam:
		return typeVariable(typ.Obj().Name()), nil

	case *types.Struct:
		return b.anonymousStruct(typ, hint)

	default:
		return ir.Constructor{}, fmt.Errorf("unsupported type: %s", t)
	}
}

// convertNamed returns the reference to a named type, applying its type
// arguments.
func (b *sourceBuilder) convertNamed(t *types.Named, hint string) (ir.Constructor, error) {
	obj := t.Obj()
	key := typeKey(obj)
	if c, ok := b.mapped(key); ok {
		return c, nil
	}
	if b.directives[key].Skip {
		return b.foreign(WarnSkippedType, fmt.Sprintf("type %s is skipped, mapped to Foreign", obj.Name()), obj.Name()), nil
	}
	if iface, ok := t.Underlying().(*types.Interface); ok && !isSealed(iface) {
		return b.foreign(WarnInterfaceType, fmt.Sprintf("interface type %s mapped to Foreign", obj.Name()), obj.Name()), nil
	}

	if owner := sealedOwner(t); owner != nil {
		return ir.Constructor{}, fmt.Errorf("type %s is a variant of sealed interface %s and can only be referenced through it", obj.Name(), owner.Name())
	}

	self, err := b.declare(t.Origin())
	if err != nil {
		return ir.Constructor{}, err
	}

	ref := ir.Con(self.Name)
	if args := t.TypeArgs(); args != nil {
		for i := range args.Len() {
			arg, err := b.convert(args.At(i), hint)
			if err != nil {
				return ir.Constructor{}, err
			}
			ref.Parameters = append(ref.Parameters, arg)
		}
	}
	return ref, nil
}

// declare emits the declaration for a named type after its dependencies and
// returns its self reference.
func (b *sourceBuilder) declare(t *types.Named) (ir.Constructor, error) {
	obj := t.Obj()
	key := typeKey(obj)
	if self, ok := b.reference(key); ok {
		return self, nil
	}
	if err := b.ctx.Err(); err != nil {
		return ir.Constructor{}, err
	}

	d := b.directives[key]
	self := ir.Con(b.declName(obj))
	if tparams := t.TypeParams(); tparams != nil {
		for i := range tparams.Len() {
			self.Parameters = append(self.Parameters, typeVariable(tparams.At(i).Obj().Name()))
		}
	}

	if err := b.begin(key, self.Name); err != nil {
		return ir.Constructor{}, err
	}
	decl, err := b.build(t, self, d)
	if err != nil {
		return ir.Constructor{}, err
	}
	b.finish(key, decl, self)
	return self, nil
}

func (b *sourceBuilder) build(t *types.Named, self ir.Constructor, d directive.Directives) (ir.Declaration, error) {
	doc := b.documentation(t.Obj())

	switch u := t.Underlying().(type) {
	case *types.Struct:
		fields, err := b.structFields(u, self.Name)
		if err != nil {
			return nil, err
		}
		if d.Positional {
			return &ir.PositionalDeclaration{Type: self, Args: fieldTypes(fields), Documentation: doc}, nil
		}
		return &ir.RecordDeclaration{Type: self, Fields: fields, Documentation: doc}, nil

	case *types.Interface:
		alts, err := b.variants(t, u)
		if err != nil {
			return nil, err
		}
		return &ir.UnionDeclaration{Type: self, Alternatives: alts, Documentation: doc}, nil

	case *types.Basic:
		if members := enumMembers(t); len(members) > 0 {
			union := &ir.UnionDeclaration{Type: self, Documentation: doc}
			for _, c := range members {
				union.Alternatives = append(union.Alternatives, ir.Con(upperFirst(c.Name())))
			}
			return union, nil
		}
	}

	arg, err := b.convert(t.Underlying(), self.Name)
	if err != nil {
		return nil, err
	}
	return &ir.PositionalDeclaration{Type: self, Args: []ir.Constructor{arg}, Documentation: doc}, nil
}

// structFields converts the serialized fields of st. Embedded structs
// without a json name are flattened in place.
func (b *sourceBuilder) structFields(st *types.Struct, parent string) ([]ir.Field, error) {
	var fields []ir.Field
	for i := range st.NumFields() {
		field := st.Field(i)
		if !field.Exported() && !field.Embedded() {
			continue
		}

		tag := reflect.StructTag(st.Tag(i)).Get("json")
		label, ok := fieldLabel(tag, field.Name())
		if !ok {
			continue
		}

		if field.Embedded() && !hasJSONName(tag) {
			if inner, ok := embeddedStruct(field.Type()); ok {
				promoted, err := b.structFields(inner, parent)
				if err != nil {
					return nil, err
				}
				fields = append(fields, promoted...)
				continue
			}
		}
		if !field.Exported() {
			continue
		}

		typ, err := b.convert(field.Type(), parent+upperFirst(field.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to convert field %s: %w", field.Name(), err)
		}
		fields = append(fields, ir.Field{Name: label, Type: typ})
	}
	return fields, nil
}

// variants returns the alternatives of a sealed interface: every named type
// in its package that implements it, in source order.
func (b *sourceBuilder) variants(t *types.Named, iface *types.Interface) ([]ir.Constructor, error) {
	if t.Obj().Pkg() == nil {
		return nil, fmt.Errorf("sealed interface %s has no package", t.Obj().Name())
	}

	var alts []ir.Constructor
	for _, tn := range typeNames(t.Obj().Pkg()) {
		if tn.IsAlias() || !implementsAny(tn.Type(), []*types.Interface{iface}) {
			continue
		}

		vt := tn.Type().(*types.Named)
		alt := ir.Con(b.declName(tn))
		switch u := vt.Underlying().(type) {
		case *types.Struct:
			fields, err := b.structFields(u, alt.Name)
			if err != nil {
				return nil, fmt.Errorf("variant %s: %w", tn.Name(), err)
			}
			alt.Parameters = fieldTypes(fields)
		default:
			arg, err := b.convert(u, alt.Name)
			if err != nil {
				return nil, fmt.Errorf("variant %s: %w", tn.Name(), err)
			}
			alt.Parameters = []ir.Constructor{arg}
		}
		alts = append(alts, alt)
	}
	return alts, nil
}

// anonymousStruct declares an inline struct as a record named after the
// field that holds it.
func (b *sourceBuilder) anonymousStruct(st *types.Struct, hint string) (ir.Constructor, error) {
	if hint == "" {
		return ir.Constructor{}, fmt.Errorf("cannot name anonymous struct %s without a containing type", st)
	}
	key := "anonymous:" + hint
	if self, ok := b.reference(key); ok {
		return self, nil
	}

	self := ir.Con(hint)
	if err := b.begin(key, hint); err != nil {
		return ir.Constructor{}, err
	}
	fields, err := b.structFields(st, hint)
	if err != nil {
		return ir.Constructor{}, err
	}
	b.finish(key, &ir.RecordDeclaration{Type: self, Fields: fields}, self)
	return self, nil
}

// declName returns the PureScript name of a Go type: the name directive if
// present, otherwise the Go name with an uppercased first letter.
func (b *sourceBuilder) declName(obj *types.TypeName) string {
	if name := b.directives[typeKey(obj)].Name; name != "" {
		return name
	}
	return upperFirst(obj.Name())
}

// documentation returns the doc comment of a type declared in a loaded
// package. Directive lines are not part of the text.
func (b *sourceBuilder) documentation(obj types.Object) ir.Documentation {
	cg := b.docs[obj.Pos()]
	if cg == nil {
		return ir.Documentation{}
	}
	body := strings.TrimSpace(cg.Text())
	if body == "" {
		return ir.Documentation{}
	}
	return ir.Documentation{Summary: ir.Summarize(body), Body: body}
}

// typeKey generates a unique key for a named type.
func typeKey(obj *types.TypeName) string {
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}

// typeNames returns the type names declared in pkg in source order.
func typeNames(pkg *types.Package) []*types.TypeName {
	scope := pkg.Scope()
	var out []*types.TypeName
	for _, name := range scope.Names() {
		if tn, ok := scope.Lookup(name).(*types.TypeName); ok {
			out = append(out, tn)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pos() < out[j].Pos() })
	return out
}

// enumMembers returns the constants declared with type t, in source order.
func enumMembers(t *types.Named) []*types.Const {
	pkg := t.Obj().Pkg()
	if pkg == nil {
		return nil
	}
	scope := pkg.Scope()
	var consts []*types.Const
	for _, name := range scope.Names() {
		if c, ok := scope.Lookup(name).(*types.Const); ok && types.Identical(c.Type(), t) {
			consts = append(consts, c)
		}
	}
	sort.Slice(consts, func(i, j int) bool { return consts[i].Pos() < consts[j].Pos() })
	return consts
}

// isSealed reports whether an interface has an unexported method, which
// restricts its implementations to the declaring package.
func isSealed(iface *types.Interface) bool {
	for i := range iface.NumMethods() {
		if !iface.Method(i).Exported() {
			return true
		}
	}
	return false
}

// sealedOwner returns the sealed interface of t's package that t
// implements, or nil.
func sealedOwner(t *types.Named) *types.TypeName {
	pkg := t.Obj().Pkg()
	if pkg == nil {
		return nil
	}
	for _, tn := range typeNames(pkg) {
		iface, ok := tn.Type().Underlying().(*types.Interface)
		if !ok || !isSealed(iface) {
			continue
		}
		if implementsAny(t, []*types.Interface{iface}) {
			return tn
		}
	}
	return nil
}

// implementsAny reports whether the non-interface, non-generic named type t
// or a pointer to it implements one of ifaces.
func implementsAny(t types.Type, ifaces []*types.Interface) bool {
	named, ok := t.(*types.Named)
	if !ok || named.TypeParams().Len() > 0 {
		return false
	}
	if _, ok := named.Underlying().(*types.Interface); ok {
		return false
	}
	for _, iface := range ifaces {
		if types.Implements(named, iface) || types.Implements(types.NewPointer(named), iface) {
			return true
		}
	}
	return false
}

// embeddedStruct returns the struct type behind an embedded field.
func embeddedStruct(t types.Type) (*types.Struct, bool) {
	if ptr, ok := types.Unalias(t).(*types.Pointer); ok {
		t = ptr.Elem()
	}
	st, ok := types.Unalias(t).Underlying().(*types.Struct)
	return st, ok
}

func basicConstructor(basic *types.Basic) (ir.Constructor, error) {
	info := basic.Info()
	switch {
	case basic.Kind() == types.UnsafePointer:
		return ir.Constructor{}, fmt.Errorf("unsupported type: unsafe.Pointer")
	case info&types.IsBoolean != 0:
		return ir.Con("Boolean"), nil
	case info&types.IsInteger != 0:
		return ir.Con("Int"), nil
	case info&types.IsFloat != 0:
		return ir.Con("Number"), nil
	case info&types.IsString != 0:
		return ir.Con("String"), nil
	}
	return ir.Constructor{}, fmt.Errorf("unsupported type: %s", basic)
}

func fieldTypes(fields []ir.Field) []ir.Constructor {
	out := make([]ir.Constructor, len(fields))
	for i, f := range fields {
		out[i] = f.Type
	}
	return out
}
