package ir

import "testing"

func TestTypeString(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{Primitive("u32"), "u32"},
		{Path("Point"), "Point"},
		{Generic("Box", Primitive("u8")), "Box<u8>"},
		{Generic("Map", Primitive("u32"), Path("Node")), "Map<u32, Node>"},
		{ConstPtr(Primitive("u8")), "*const u8"},
		{Ptr(Primitive("u8")), "*mut u8"},
		{Ref(Path("T")), "&T"},
		{MutRef(Path("T")), "&mut T"},
		{Array(Primitive("u8"), "16"), "[u8; 16]"},
		{FuncPtr(Primitive("void"), Arg("x", Primitive("i32"))), "fn(i32) -> void"},
	}

	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestTypeKinds(t *testing.T) {
	tests := []struct {
		typ  Type
		want TypeKind
	}{
		{Primitive("int"), KindPrimitive},
		{Path("T"), KindPath},
		{ConstPtr(Primitive("int")), KindConstPtr},
		{Ptr(Primitive("int")), KindPtr},
		{Ref(Primitive("int")), KindRef},
		{MutRef(Primitive("int")), KindMutRef},
		{Array(Primitive("int"), "1"), KindArray},
		{FuncPtr(Primitive("void")), KindFuncPtr},
	}

	for _, tt := range tests {
		if got := tt.typ.Kind(); got != tt.want {
			t.Errorf("%s: Kind() = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestDeclKindString(t *testing.T) {
	if DeclNone.String() != "" {
		t.Errorf("DeclNone.String() = %q, want empty", DeclNone.String())
	}
	if DeclStruct.String() != "struct" || DeclEnum.String() != "enum" || DeclUnion.String() != "union" {
		t.Error("declaration-kind tags must match the C keywords")
	}
}

func TestLibraryIsEmpty(t *testing.T) {
	var lib Library
	if !lib.IsEmpty() {
		t.Error("zero Library should be empty")
	}
	lib.Functions = append(lib.Functions, Function{Name: "f", Ret: Primitive("void")})
	if lib.IsEmpty() {
		t.Error("Library with a function should not be empty")
	}
}
