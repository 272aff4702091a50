// Package cdecl renders resolved types and function signatures as C-family
// declarations. See section 6.7, Declarations, in the C standard for the
// grammar this implements:
// http://www.open-std.org/jtc1/sc22/wg14/www/docs/n1570.pdf
//
// A declaration is built in two steps: the builder flattens a type tree into
// a base type plus an ordered declarator list, and the writer serializes that
// list around an optional identifier using the right-left rule. Each call is
// an independent computation over borrowed immutable input; nothing is shared
// between calls.
package cdecl

import (
	"github.com/cockroachdb/errors"

	"github.com/hdrgen/hdrgen/ir"
	"github.com/hdrgen/hdrgen/lang"
	"github.com/hdrgen/hdrgen/sink"
)

type declaratorKind int

const (
	declPtr declaratorKind = iota
	declRef
	declArray
	declFunc
)

// funcArg is one parameter of a function declarator: an optional name and an
// independently built declarator list.
type funcArg struct {
	name string
	decl *decl
}

type declarator struct {
	kind declaratorKind

	// isConst marks a pointer that is itself const-qualified (declPtr only).
	isConst bool

	// length is the array length expression, carried verbatim (declArray only).
	length string

	// args and vertical describe the parameter list (declFunc only).
	args     []funcArg
	vertical bool
}

// pointerLike reports whether the declarator binds like a pointer for
// parenthesization purposes. Arrays and parameter lists nested under a
// pointer-like declarator need a grouping parenthesis.
func (d declarator) pointerLike() bool {
	switch d.kind {
	case declPtr, declRef, declFunc:
		return true
	default:
		return false
	}
}

// decl is a flattened declaration: exactly one base type plus the declarator
// operations applied to it, outermost first.
type decl struct {
	qualifier   string
	name        string
	generics    []ir.Type
	declKind    ir.DeclKind
	declarators []declarator
}

func fromType(t ir.Type, l lang.Language) (*decl, error) {
	d := &decl{}
	if err := d.buildType(t, false, l); err != nil {
		return nil, err
	}
	return d, nil
}

func fromFunc(f *ir.Function, layoutVertical bool, l lang.Language) (*decl, error) {
	d := &decl{}
	if err := d.buildFunc(f, layoutVertical, l); err != nil {
		return nil, err
	}
	return d, nil
}

// buildFunc pushes the parameter list first and then builds the return type
// as the remaining declarator chain: `T f(args)` declares f as "function
// returning T", so the function declarator nests inside the return type's.
func (d *decl) buildFunc(f *ir.Function, layoutVertical bool, l lang.Language) error {
	args := make([]funcArg, 0, len(f.Args))
	for _, a := range f.Args {
		ad, err := fromType(a.Type, l)
		if err != nil {
			return errors.Wrapf(err, "argument %q of function %q", a.Name, f.Name)
		}
		args = append(args, funcArg{name: a.Name, decl: ad})
	}
	d.declarators = append(d.declarators, declarator{kind: declFunc, args: args, vertical: layoutVertical})
	return d.buildType(f.Ret, false, l)
}

// buildType walks the type tree from the outside in, pushing one declarator
// per wrapper and recording the first Primitive or Path leaf as the base
// type. isConst is the one-level const qualification threaded down by
// ConstPtr and Ref.
func (d *decl) buildType(t ir.Type, isConst bool, l lang.Language) error {
	switch t := t.(type) {
	case *ir.PathType:
		if err := d.setBase(t, t.Name, isConst, l); err != nil {
			return err
		}
		if len(t.Generics) > 0 && !l.Profile().SupportsGenerics {
			return errors.AssertionFailedf(
				"generating %s declaration for %s: dialect has no generic syntax", l, t)
		}
		d.generics = t.Generics
		d.declKind = t.DeclKind
		return nil

	case *ir.PrimitiveType:
		return d.setBase(t, lang.PrimitiveRepr(t.Name, l), isConst, l)

	case *ir.ConstPtrType:
		d.declarators = append(d.declarators, declarator{kind: declPtr, isConst: isConst})
		return d.buildType(t.Elem, true, l)

	case *ir.PtrType:
		d.declarators = append(d.declarators, declarator{kind: declPtr, isConst: isConst})
		return d.buildType(t.Elem, false, l)

	case *ir.RefType:
		d.declarators = append(d.declarators, declarator{kind: declRef})
		return d.buildType(t.Elem, true, l)

	case *ir.MutRefType:
		d.declarators = append(d.declarators, declarator{kind: declRef})
		return d.buildType(t.Elem, false, l)

	case *ir.ArrayType:
		d.declarators = append(d.declarators, declarator{kind: declArray, length: t.Length})
		return d.buildType(t.Elem, isConst, l)

	case *ir.FuncPtrType:
		args := make([]funcArg, 0, len(t.Args))
		for _, a := range t.Args {
			ad, err := fromType(a.Type, l)
			if err != nil {
				return err
			}
			args = append(args, funcArg{name: a.Name, decl: ad})
		}
		d.declarators = append(d.declarators, declarator{kind: declPtr})
		d.declarators = append(d.declarators, declarator{kind: declFunc, args: args})
		return d.buildType(t.Ret, false, l)

	default:
		return errors.AssertionFailedf(
			"generating %s declaration: unhandled type kind %s", l, t.Kind())
	}
}

// setBase records the base type leaf. A second leaf means every root-to-leaf
// path of the input tree did not terminate in exactly one Primitive or Path,
// which is a malformed IR produced upstream.
func (d *decl) setBase(t ir.Type, name string, isConst bool, l lang.Language) error {
	if d.name != "" {
		return errors.AssertionFailedf(
			"generating %s declaration for %s: duplicate base type (already %q)", l, t, d.name)
	}
	if isConst {
		if d.qualifier != "" {
			return errors.AssertionFailedf(
				"generating %s declaration for %s: duplicate type qualifier", l, t)
		}
		d.qualifier = "const"
	}
	d.name = name
	return nil
}

// write serializes the declaration around ident (which may be empty for an
// anonymous type usage). The left side is emitted walking the declarators in
// reverse, the right side walking them forward; a grouping parenthesis opens
// around an array or parameter list exactly when the adjacent more-outer
// declarator is pointer-like.
func (d *decl) write(out *sink.SourceWriter, ident string, voidPrototype bool, l lang.Language) error {
	profile := l.Profile()

	// A single trailing fixed array in the managed dialect marshals as a
	// size attribute on the whole declaration instead of bracket syntax.
	attrArray := profile.ArrayAsAttribute &&
		len(d.declarators) == 1 && d.declarators[0].kind == declArray
	if attrArray {
		out.Writef("[MarshalAs(UnmanagedType.ByValArray, SizeConst=%s)] readonly ",
			d.declarators[0].length)
	}

	if d.qualifier != "" {
		out.Writef("%s ", d.qualifier)
	}
	if tag := d.declKind.String(); tag != "" {
		out.Writef("%s ", tag)
	}
	if attrArray {
		out.Writef("%s[]", d.name)
	} else {
		out.WriteString(d.name)
	}

	if len(d.generics) > 0 {
		out.WriteString("<")
		for i, g := range d.generics {
			if i != 0 {
				out.WriteString(", ")
			}
			if err := WriteType(out, g, l); err != nil {
				return err
			}
		}
		out.WriteString(">")
	}

	if ident != "" {
		out.WriteString(" ")
	}

	// Left side, outermost-declared last.
	for i := len(d.declarators) - 1; i >= 0; i-- {
		nextIsPointer := i > 0 && d.declarators[i-1].pointerLike()

		switch dd := d.declarators[i]; dd.kind {
		case declPtr:
			if dd.isConst {
				out.WriteString("*const ")
			} else {
				out.WriteString("*")
			}
		case declRef:
			out.WriteString("&")
		case declArray, declFunc:
			if nextIsPointer {
				out.WriteString("(")
			}
		}
	}

	out.WriteString(ident)

	// Right side, closing any group opened on the left.
	lastWasPointer := false
	for _, dd := range d.declarators {
		switch dd.kind {
		case declPtr, declRef:
			lastWasPointer = true

		case declArray:
			if lastWasPointer {
				out.WriteString(")")
			}
			if !profile.ArrayAsAttribute {
				out.Writef("[%s]", dd.length)
			}
			lastWasPointer = false

		case declFunc:
			if lastWasPointer {
				out.WriteString(")")
			}

			out.WriteString("(")
			if len(dd.args) == 0 && voidPrototype {
				out.WriteString("void")
			}
			if dd.vertical {
				align := out.LineLength()
				out.PushSpaces(align)
				for i, a := range dd.args {
					if i != 0 {
						out.WriteString(",")
						out.NewLine()
					}
					if err := a.decl.write(out, a.name, voidPrototype, l); err != nil {
						return err
					}
				}
				out.PopIndent()
			} else {
				for i, a := range dd.args {
					if i != 0 {
						out.WriteString(", ")
					}
					if err := a.decl.write(out, a.name, voidPrototype, l); err != nil {
						return err
					}
				}
			}
			out.WriteString(")")

			lastWasPointer = true
		}
	}

	return nil
}

// WriteFunc renders a function prototype, without the trailing semicolon.
// layoutVertical places each parameter on its own line, aligned to the
// column after the opening parenthesis. voidPrototype spells zero-parameter
// lists as (void) instead of ().
func WriteFunc(out *sink.SourceWriter, f *ir.Function, layoutVertical, voidPrototype bool, l lang.Language) error {
	d, err := fromFunc(f, layoutVertical, l)
	if err != nil {
		return err
	}
	return d.write(out, f.Name, voidPrototype, l)
}

// WriteField renders a type with an identifier, as in a struct field or a
// named parameter.
func WriteField(out *sink.SourceWriter, t ir.Type, ident string, l lang.Language) error {
	d, err := fromType(t, l)
	if err != nil {
		return err
	}
	return d.write(out, ident, false, l)
}

// WriteType renders a bare type usage with no identifier, as in a cast or a
// generic argument.
func WriteType(out *sink.SourceWriter, t ir.Type, l lang.Language) error {
	d, err := fromType(t, l)
	if err != nil {
		return err
	}
	return d.write(out, "", false, l)
}
