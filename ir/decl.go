package ir

// Function is a free function signature to be rendered as a prototype or an
// extern binding. Per the C declaration grammar, `T f(args)` declares f as
// "function returning T", so the renderer nests the parameter list one level
// inside the return type.
type Function struct {
	// Name is the exported symbol name.
	Name string

	// Args are the parameters, in order. Names are required for functions
	// (unlike function-pointer types, which may leave parameters unnamed).
	Args []FuncArg

	// Ret is the return type. Use Primitive("void") for no return value.
	Ret Type
}

// Field is a named struct member.
type Field struct {
	Name string
	Type Type
}

// StructDecl is a struct declaration to be emitted into a header.
type StructDecl struct {
	Name   string
	Fields []Field
}

// EnumVariant is a single enum member. Value is an optional explicit
// discriminant, carried verbatim; empty means implicit.
type EnumVariant struct {
	Name  string
	Value string
}

// EnumDecl is an enum declaration. Repr is the optional logical primitive
// name of the underlying representation (e.g. "u8"); empty means the dialect
// default.
type EnumDecl struct {
	Name     string
	Repr     string
	Variants []EnumVariant
}

// TypedefDecl is a type alias declaration.
type TypedefDecl struct {
	Name       string
	Underlying Type
}

// Library groups every declaration destined for one output artifact.
// Declarations are emitted in the order given; dependency ordering is the
// provider's responsibility.
type Library struct {
	// Name identifies the library (used for include guards and C# class
	// naming defaults).
	Name string

	Enums     []EnumDecl
	Typedefs  []TypedefDecl
	Structs   []StructDecl
	Functions []Function
}

// IsEmpty reports whether the library contains no declarations.
func (l *Library) IsEmpty() bool {
	return len(l.Enums) == 0 && len(l.Typedefs) == 0 &&
		len(l.Structs) == 0 && len(l.Functions) == 0
}
