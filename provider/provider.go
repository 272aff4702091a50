// Package provider extracts binding libraries from Go source. Exported
// functions marked with an //hdrgen:export directive become prototypes, and
// every struct, enum-like named type, and alias reachable from their
// signatures is collected into the ir.Library. The provider makes no dialect
// decisions; it only maps Go types onto the C-oriented IR.
package provider

import (
	"context"
	"fmt"
	"go/ast"
	"go/constant"
	"go/types"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/hdrgen/hdrgen/ir"
)

// exportDirective marks a function for binding generation.
const exportDirective = "hdrgen:export"

// Options configures source extraction.
type Options struct {
	// Packages are the Go package patterns to analyze.
	Packages []string

	// LibraryName overrides the library name (defaults to the first
	// package's name).
	LibraryName string
}

// Build analyzes source code and returns a Library of exported declarations.
func Build(ctx context.Context, opts Options) (*ir.Library, error) {
	if len(opts.Packages) == 0 {
		return nil, fmt.Errorf("no packages specified")
	}

	cfg := &packages.Config{
		Context: ctx,
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

	b := &libraryBuilder{
		lib:  &ir.Library{Name: opts.LibraryName},
		seen: make(map[string]bool),
	}
	if b.lib.Name == "" {
		b.lib.Name = pkgs[0].Name
	}

	for _, pkg := range pkgs {
		if err := b.collectFunctions(pkg); err != nil {
			return nil, err
		}
	}

	sort.Slice(b.lib.Functions, func(i, j int) bool {
		return b.lib.Functions[i].Name < b.lib.Functions[j].Name
	})
	return b.lib, nil
}

type libraryBuilder struct {
	lib *ir.Library

	// seen tracks named types already added, by qualified name.
	seen map[string]bool
}

// collectFunctions finds directive-marked functions and maps their
// signatures.
func (b *libraryBuilder) collectFunctions(pkg *packages.Package) error {
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv != nil || !hasDirective(fn.Doc) {
				continue
			}
			obj, ok := pkg.TypesInfo.Defs[fn.Name].(*types.Func)
			if !ok {
				continue
			}
			f, err := b.mapFunction(obj)
			if err != nil {
				return fmt.Errorf("function %s: %w", obj.Name(), err)
			}
			b.lib.Functions = append(b.lib.Functions, *f)
		}
	}
	return nil
}

func hasDirective(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		if strings.HasPrefix(c.Text, "//"+exportDirective) {
			return true
		}
	}
	return false
}

func (b *libraryBuilder) mapFunction(fn *types.Func) (*ir.Function, error) {
	sig, ok := fn.Type().(*types.Signature)
	if !ok {
		return nil, fmt.Errorf("not a function signature")
	}
	if sig.Variadic() {
		return nil, fmt.Errorf("variadic functions cannot be exported")
	}

	out := &ir.Function{Name: fn.Name()}

	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		p := params.At(i)
		t, err := b.mapType(p.Type())
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", p.Name(), err)
		}
		name := p.Name()
		if name == "" {
			name = fmt.Sprintf("arg%d", i)
		}
		out.Args = append(out.Args, ir.Arg(name, t))
	}

	results := sig.Results()
	switch results.Len() {
	case 0:
		out.Ret = ir.Primitive("void")
	case 1:
		t, err := b.mapType(results.At(0).Type())
		if err != nil {
			return nil, fmt.Errorf("return value: %w", err)
		}
		out.Ret = t
	default:
		return nil, fmt.Errorf("multiple return values cannot be exported")
	}

	return out, nil
}

// mapType converts a Go type to the C-oriented IR. Types with no stable C
// representation (strings, slices, maps, channels, interfaces) are rejected.
func (b *libraryBuilder) mapType(t types.Type) (ir.Type, error) {
	switch t := t.(type) {
	case *types.Basic:
		return mapBasic(t)

	case *types.Pointer:
		elem, err := b.mapType(t.Elem())
		if err != nil {
			return nil, err
		}
		return ir.Ptr(elem), nil

	case *types.Array:
		elem, err := b.mapType(t.Elem())
		if err != nil {
			return nil, err
		}
		return ir.Array(elem, strconv.FormatInt(t.Len(), 10)), nil

	case *types.Named:
		return b.mapNamed(t)

	case *types.Signature:
		return b.mapFuncPtr(t)

	case *types.Alias:
		return b.mapType(types.Unalias(t))

	default:
		return nil, fmt.Errorf("unsupported type %s", t.String())
	}
}

func mapBasic(t *types.Basic) (ir.Type, error) {
	switch t.Kind() {
	case types.Bool:
		return ir.Primitive("bool"), nil
	case types.Int8:
		return ir.Primitive("i8"), nil
	case types.Int16:
		return ir.Primitive("i16"), nil
	case types.Int32:
		return ir.Primitive("i32"), nil
	case types.Int64:
		return ir.Primitive("i64"), nil
	case types.Int:
		return ir.Primitive("isize"), nil
	case types.Uint8:
		return ir.Primitive("u8"), nil
	case types.Uint16:
		return ir.Primitive("u16"), nil
	case types.Uint32:
		return ir.Primitive("u32"), nil
	case types.Uint64:
		return ir.Primitive("u64"), nil
	case types.Uint, types.Uintptr:
		return ir.Primitive("usize"), nil
	case types.Float32:
		return ir.Primitive("f32"), nil
	case types.Float64:
		return ir.Primitive("f64"), nil
	case types.UnsafePointer:
		return ir.Ptr(ir.Primitive("void")), nil
	default:
		return nil, fmt.Errorf("unsupported basic type %s", t.Name())
	}
}

func (b *libraryBuilder) mapFuncPtr(sig *types.Signature) (ir.Type, error) {
	if sig.Recv() != nil {
		return nil, fmt.Errorf("method values cannot be exported")
	}
	var args []ir.FuncArg
	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		p := params.At(i)
		t, err := b.mapType(p.Type())
		if err != nil {
			return nil, err
		}
		args = append(args, ir.Arg(p.Name(), t))
	}
	var ret ir.Type = ir.Primitive("void")
	if sig.Results().Len() == 1 {
		t, err := b.mapType(sig.Results().At(0).Type())
		if err != nil {
			return nil, err
		}
		ret = t
	} else if sig.Results().Len() > 1 {
		return nil, fmt.Errorf("multiple return values cannot be exported")
	}
	return ir.FuncPtr(ret, args...), nil
}

// mapNamed maps a named type to a Path usage and, on first sight, records
// its declaration in the library.
func (b *libraryBuilder) mapNamed(t *types.Named) (ir.Type, error) {
	name := t.Obj().Name()
	qualified := t.Obj().Id()

	switch under := t.Underlying().(type) {
	case *types.Struct:
		if !b.seen[qualified] {
			b.seen[qualified] = true
			decl := ir.StructDecl{Name: name}
			for i := 0; i < under.NumFields(); i++ {
				f := under.Field(i)
				ft, err := b.mapType(f.Type())
				if err != nil {
					return nil, fmt.Errorf("field %s.%s: %w", name, f.Name(), err)
				}
				decl.Fields = append(decl.Fields, ir.Field{Name: f.Name(), Type: ft})
			}
			b.lib.Structs = append(b.lib.Structs, decl)
		}
		return ir.Path(name), nil

	case *types.Basic:
		if !b.seen[qualified] {
			b.seen[qualified] = true
			ut, err := mapBasic(under)
			if err != nil {
				return nil, fmt.Errorf("type %s: %w", name, err)
			}
			var variants []ir.EnumVariant
			if under.Info()&types.IsInteger != 0 {
				variants = enumVariants(t)
			}
			if len(variants) > 0 {
				prim, ok := ut.(*ir.PrimitiveType)
				if !ok {
					return nil, fmt.Errorf("type %s: integer representation expected", name)
				}
				b.lib.Enums = append(b.lib.Enums, ir.EnumDecl{
					Name:     name,
					Repr:     prim.Name,
					Variants: variants,
				})
			} else {
				b.lib.Typedefs = append(b.lib.Typedefs, ir.TypedefDecl{Name: name, Underlying: ut})
			}
		}
		return ir.Path(name), nil

	default:
		return nil, fmt.Errorf("unsupported named type %s (%s)", name, under.String())
	}
}

// enumVariants collects the package-level constants declared with the named
// type, ordered by value. A named integer type with at least one such
// constant is treated as an enum rather than a plain typedef.
func enumVariants(t *types.Named) []ir.EnumVariant {
	pkg := t.Obj().Pkg()
	if pkg == nil {
		return nil
	}

	type member struct {
		name  string
		value int64
	}
	var members []member
	scope := pkg.Scope()
	for _, n := range scope.Names() {
		c, ok := scope.Lookup(n).(*types.Const)
		if !ok || !types.Identical(c.Type(), t) {
			continue
		}
		v, exact := constant.Int64Val(c.Val())
		if !exact {
			// A value outside int64 cannot be an enum discriminant.
			return nil
		}
		members = append(members, member{name: n, value: v})
	}

	sort.Slice(members, func(i, j int) bool {
		if members[i].value != members[j].value {
			return members[i].value < members[j].value
		}
		return members[i].name < members[j].name
	})

	variants := make([]ir.EnumVariant, len(members))
	for i, m := range members {
		variants[i] = ir.EnumVariant{Name: m.name, Value: strconv.FormatInt(m.value, 10)}
	}
	return variants
}
