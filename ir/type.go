// Package ir defines the resolved intermediate representation consumed by the
// declaration renderer. Types arrive here fully resolved: no unresolved
// generic placeholders, no unqualified names. Upstream providers own all
// semantic decisions; this package is pure data.
package ir

import (
	"fmt"
	"strings"
)

// TypeKind identifies the category of a type node.
type TypeKind int

const (
	KindPrimitive TypeKind = iota // Base scalar or alias type
	KindPath                      // Named user type, optionally generic
	KindConstPtr                  // Pointer to const pointee
	KindPtr                       // Pointer to mutable pointee
	KindRef                       // Reference to const referent
	KindMutRef                    // Reference to mutable referent
	KindArray                     // Fixed-size array
	KindFuncPtr                   // Pointer to function
)

// String returns the string representation of the type kind.
func (k TypeKind) String() string {
	switch k {
	case KindPrimitive:
		return "Primitive"
	case KindPath:
		return "Path"
	case KindConstPtr:
		return "ConstPtr"
	case KindPtr:
		return "Ptr"
	case KindRef:
		return "Ref"
	case KindMutRef:
		return "MutRef"
	case KindArray:
		return "Array"
	case KindFuncPtr:
		return "FuncPtr"
	default:
		return "Unknown"
	}
}

// DeclKind is the declaration-kind tag a named type may carry. Dialects that
// use tagged declarations (C tag style) prefix the type name with it.
type DeclKind int

const (
	DeclNone DeclKind = iota
	DeclStruct
	DeclEnum
	DeclUnion
)

// String returns the tag keyword, or "" for DeclNone.
func (k DeclKind) String() string {
	switch k {
	case DeclStruct:
		return "struct"
	case DeclEnum:
		return "enum"
	case DeclUnion:
		return "union"
	default:
		return ""
	}
}

// Type is the base interface for all resolved type nodes.
// Values are immutable after construction and owned by the caller; the
// renderer only borrows them for the duration of one build+write call.
type Type interface {
	// Kind returns the type kind for type switching.
	Kind() TypeKind

	// String returns a compact debug form, used in contract-violation errors.
	String() string

	// Ensure only types in this package can implement Type.
	sealed()
}

type typeBase struct{}

func (typeBase) sealed() {}

// PrimitiveType is a base scalar type identified by its logical name
// (e.g. "u32", "f64", "int"). The dialect-specific spelling is resolved at
// render time; the same logical width may render differently per dialect.
type PrimitiveType struct {
	typeBase

	// Name is the logical primitive name.
	Name string
}

// Kind returns KindPrimitive.
func (t *PrimitiveType) Kind() TypeKind { return KindPrimitive }

func (t *PrimitiveType) String() string { return t.Name }

// PathType is a named user type, optionally parameterized and optionally
// carrying a declaration-kind tag.
type PathType struct {
	typeBase

	// Name is the fully resolved (already mangled, if applicable) type name.
	Name string

	// Generics are the generic arguments, in order. Empty for plain types.
	// Dialects without generic syntax must never receive a non-empty list;
	// that is enforced at build time.
	Generics []Type

	// DeclKind is the optional tag some dialects prefix (struct/enum/union).
	DeclKind DeclKind
}

// Kind returns KindPath.
func (t *PathType) Kind() TypeKind { return KindPath }

func (t *PathType) String() string {
	if len(t.Generics) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Generics))
	for i, g := range t.Generics {
		parts[i] = g.String()
	}
	return t.Name + "<" + strings.Join(parts, ", ") + ">"
}

// ConstPtrType is a pointer whose pointee is const-qualified.
type ConstPtrType struct {
	typeBase
	Elem Type
}

// Kind returns KindConstPtr.
func (t *ConstPtrType) Kind() TypeKind { return KindConstPtr }

func (t *ConstPtrType) String() string { return "*const " + t.Elem.String() }

// PtrType is a pointer to a mutable pointee.
type PtrType struct {
	typeBase
	Elem Type
}

// Kind returns KindPtr.
func (t *PtrType) Kind() TypeKind { return KindPtr }

func (t *PtrType) String() string { return "*mut " + t.Elem.String() }

// RefType is a reference whose referent is const-qualified.
type RefType struct {
	typeBase
	Elem Type
}

// Kind returns KindRef.
func (t *RefType) Kind() TypeKind { return KindRef }

func (t *RefType) String() string { return "&" + t.Elem.String() }

// MutRefType is a reference to a mutable referent.
type MutRefType struct {
	typeBase
	Elem Type
}

// Kind returns KindMutRef.
func (t *MutRefType) Kind() TypeKind { return KindMutRef }

func (t *MutRefType) String() string { return "&mut " + t.Elem.String() }

// ArrayType is a fixed-size array. Length is an opaque constant expression
// carried verbatim into the output; it is never evaluated.
type ArrayType struct {
	typeBase
	Elem   Type
	Length string
}

// Kind returns KindArray.
func (t *ArrayType) Kind() TypeKind { return KindArray }

func (t *ArrayType) String() string {
	return fmt.Sprintf("[%s; %s]", t.Elem.String(), t.Length)
}

// FuncPtrType is a pointer to function. A bare function type used as a value
// must be a pointer-to-function in every target dialect, so the renderer
// expands this to a pointer declarator followed by a function declarator.
type FuncPtrType struct {
	typeBase
	Ret  Type
	Args []FuncArg
}

// Kind returns KindFuncPtr.
func (t *FuncPtrType) Kind() TypeKind { return KindFuncPtr }

func (t *FuncPtrType) String() string {
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.Type.String()
	}
	return fmt.Sprintf("fn(%s) -> %s", strings.Join(parts, ", "), t.Ret.String())
}

// FuncArg is a single function parameter. Name may be empty for unnamed
// parameters (common in function-pointer types).
type FuncArg struct {
	Name string
	Type Type
}

// Convenience constructors.

// Primitive returns a PrimitiveType with the given logical name.
func Primitive(name string) *PrimitiveType {
	return &PrimitiveType{Name: name}
}

// Path returns a plain named type.
func Path(name string) *PathType {
	return &PathType{Name: name}
}

// Generic returns a named type with generic arguments.
func Generic(name string, args ...Type) *PathType {
	return &PathType{Name: name, Generics: args}
}

// Tagged returns a named type carrying a declaration-kind tag.
func Tagged(kind DeclKind, name string) *PathType {
	return &PathType{Name: name, DeclKind: kind}
}

// ConstPtr returns a pointer to a const-qualified pointee.
func ConstPtr(elem Type) *ConstPtrType {
	return &ConstPtrType{Elem: elem}
}

// Ptr returns a pointer to a mutable pointee.
func Ptr(elem Type) *PtrType {
	return &PtrType{Elem: elem}
}

// Ref returns a reference to a const-qualified referent.
func Ref(elem Type) *RefType {
	return &RefType{Elem: elem}
}

// MutRef returns a reference to a mutable referent.
func MutRef(elem Type) *MutRefType {
	return &MutRefType{Elem: elem}
}

// Array returns a fixed-size array with an opaque length expression.
func Array(elem Type, length string) *ArrayType {
	return &ArrayType{Elem: elem, Length: length}
}

// FuncPtr returns a pointer-to-function type.
func FuncPtr(ret Type, args ...FuncArg) *FuncPtrType {
	return &FuncPtrType{Ret: ret, Args: args}
}

// Arg returns a named function argument.
func Arg(name string, t Type) FuncArg {
	return FuncArg{Name: name, Type: t}
}
