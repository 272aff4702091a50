package cdecl

import (
	"strings"
	"testing"

	"github.com/hdrgen/hdrgen/ir"
	"github.com/hdrgen/hdrgen/lang"
	"github.com/hdrgen/hdrgen/sink"
)

func renderField(t *testing.T, typ ir.Type, ident string, l lang.Language) string {
	t.Helper()
	w := sink.NewSourceWriter()
	if err := WriteField(w, typ, ident, l); err != nil {
		t.Fatalf("WriteField(%s): %v", typ, err)
	}
	return w.String()
}

// TestWriteField covers the right-left rule for named type usages.
func TestWriteField(t *testing.T) {
	tests := []struct {
		name  string
		typ   ir.Type
		ident string
		lang  lang.Language
		want  string
	}{
		{
			name:  "pointer to int",
			typ:   ir.Ptr(ir.Primitive("int")),
			ident: "x",
			lang:  lang.C,
			want:  "int *x",
		},
		{
			name:  "pointer to array of 4 ints",
			typ:   ir.Ptr(ir.Array(ir.Primitive("int"), "4")),
			ident: "x",
			lang:  lang.C,
			want:  "int (*x)[4]",
		},
		{
			name:  "array of 4 pointers",
			typ:   ir.Array(ir.Ptr(ir.Primitive("int")), "4"),
			ident: "x",
			lang:  lang.C,
			want:  "int *x[4]",
		},
		{
			name:  "function pointer",
			typ:   ir.FuncPtr(ir.Primitive("int"), ir.Arg("a", ir.Primitive("int"))),
			ident: "f",
			lang:  lang.C,
			want:  "int (*f)(int a)",
		},
		{
			name:  "function pointer returning pointer",
			typ:   ir.FuncPtr(ir.Ptr(ir.Primitive("int")), ir.Arg("", ir.Primitive("i32"))),
			ident: "f",
			lang:  lang.C,
			want:  "int *(*f)(int32_t)",
		},
		{
			name:  "array of function pointers",
			typ:   ir.Array(ir.FuncPtr(ir.Primitive("void")), "4"),
			ident: "handlers",
			lang:  lang.C,
			want:  "void (*handlers[4])()",
		},
		{
			name:  "pointer to array of pointers",
			typ:   ir.Ptr(ir.Array(ir.Ptr(ir.Primitive("int")), "2")),
			ident: "x",
			lang:  lang.C,
			want:  "int *(*x)[2]",
		},
		{
			name:  "nested arrays need no parens",
			typ:   ir.Array(ir.Array(ir.Primitive("int"), "2"), "3"),
			ident: "m",
			lang:  lang.C,
			want:  "int m[3][2]",
		},
		{
			name:  "const pointer qualifies the pointee once",
			typ:   ir.ConstPtr(ir.Primitive("u8")),
			ident: "p",
			lang:  lang.C,
			want:  "const uint8_t *p",
		},
		{
			name:  "mutable pointer adds no qualifier",
			typ:   ir.Ptr(ir.Primitive("u8")),
			ident: "p",
			lang:  lang.C,
			want:  "uint8_t *p",
		},
		{
			name:  "const pointer to const pointer",
			typ:   ir.ConstPtr(ir.ConstPtr(ir.Primitive("int"))),
			ident: "p",
			lang:  lang.C,
			want:  "const int *const *p",
		},
		{
			name:  "reference qualifies the referent",
			typ:   ir.Ref(ir.Primitive("i32")),
			ident: "r",
			lang:  lang.Cxx,
			want:  "const int32_t &r",
		},
		{
			name:  "mutable reference adds no qualifier",
			typ:   ir.MutRef(ir.Primitive("i32")),
			ident: "r",
			lang:  lang.Cxx,
			want:  "int32_t &r",
		},
		{
			name:  "reference to array needs parens",
			typ:   ir.MutRef(ir.Array(ir.Primitive("u8"), "8")),
			ident: "buf",
			lang:  lang.Cxx,
			want:  "uint8_t (&buf)[8]",
		},
		{
			name:  "tagged struct name",
			typ:   ir.Ptr(ir.Tagged(ir.DeclStruct, "Options")),
			ident: "opts",
			lang:  lang.C,
			want:  "struct Options *opts",
		},
		{
			name:  "generic arguments in c++",
			typ:   ir.Generic("Box", ir.Primitive("u64")),
			ident: "b",
			lang:  lang.Cxx,
			want:  "Box<uint64_t> b",
		},
		{
			name: "nested generic arguments",
			typ: ir.Generic("Map",
				ir.Primitive("u32"),
				ir.Generic("Vec", ir.Ptr(ir.Path("Node")))),
			ident: "index",
			lang:  lang.Cxx,
			want:  "Map<uint32_t, Vec<Node*>> index",
		},
		{
			name:  "managed dialect primitive spelling",
			typ:   ir.Ptr(ir.Primitive("u64")),
			ident: "v",
			lang:  lang.CSharp,
			want:  "ulong *v",
		},
		{
			name:  "managed trailing fixed array marshals as attribute",
			typ:   ir.Array(ir.Primitive("u8"), "16"),
			ident: "hash",
			lang:  lang.CSharp,
			want:  "[MarshalAs(UnmanagedType.ByValArray, SizeConst=16)] readonly byte[] hash",
		},
		{
			name:  "managed array behind a pointer gets no attribute",
			typ:   ir.Ptr(ir.Array(ir.Primitive("u8"), "4")),
			ident: "p",
			lang:  lang.CSharp,
			want:  "byte (*p)",
		},
		{
			name:  "native fixed array keeps brackets",
			typ:   ir.Array(ir.Primitive("u8"), "16"),
			ident: "hash",
			lang:  lang.C,
			want:  "uint8_t hash[16]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderField(t, tt.typ, tt.ident, tt.lang)
			if got != tt.want {
				t.Errorf("WriteField(%s, %q, %s) = %q, want %q",
					tt.typ, tt.ident, tt.lang, got, tt.want)
			}
		})
	}
}

// TestWriteType covers anonymous type usages (casts, generic arguments).
func TestWriteType(t *testing.T) {
	tests := []struct {
		name string
		typ  ir.Type
		lang lang.Language
		want string
	}{
		{
			name: "anonymous pointer has no separating space",
			typ:  ir.Ptr(ir.Primitive("u8")),
			lang: lang.C,
			want: "uint8_t*",
		},
		{
			name: "anonymous const pointer",
			typ:  ir.ConstPtr(ir.Primitive("u8")),
			lang: lang.C,
			want: "const uint8_t*",
		},
		{
			name: "anonymous function pointer",
			typ:  ir.FuncPtr(ir.Primitive("void"), ir.Arg("", ir.Primitive("i64"))),
			lang: lang.C,
			want: "void (*)(int64_t)",
		},
		{
			name: "plain named type",
			typ:  ir.Path("Duration"),
			lang: lang.Cxx,
			want: "Duration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := sink.NewSourceWriter()
			if err := WriteType(w, tt.typ, tt.lang); err != nil {
				t.Fatalf("WriteType(%s): %v", tt.typ, err)
			}
			if got := w.String(); got != tt.want {
				t.Errorf("WriteType(%s, %s) = %q, want %q", tt.typ, tt.lang, got, tt.want)
			}
		})
	}
}

// TestWriteFunc covers whole prototypes, the explicit-void convention, and
// vertical parameter layout.
func TestWriteFunc(t *testing.T) {
	dot := &ir.Function{
		Name: "point_dot",
		Args: []ir.FuncArg{
			ir.Arg("a", ir.ConstPtr(ir.Path("Point"))),
			ir.Arg("b", ir.ConstPtr(ir.Path("Point"))),
		},
		Ret: ir.Primitive("f64"),
	}
	noArgs := &ir.Function{Name: "g", Ret: ir.Primitive("void")}

	tests := []struct {
		name     string
		f        *ir.Function
		vertical bool
		voidProt bool
		lang     lang.Language
		want     string
	}{
		{
			name: "two pointer parameters",
			f:    dot,
			lang: lang.C,
			want: "double point_dot(const Point *a, const Point *b)",
		},
		{
			name:     "zero parameters with explicit void",
			f:        noArgs,
			voidProt: true,
			lang:     lang.C,
			want:     "void g(void)",
		},
		{
			name: "zero parameters without explicit void",
			f:    noArgs,
			lang: lang.C,
			want: "void g()",
		},
		{
			name: "zero parameters in managed dialect",
			f:    noArgs,
			lang: lang.CSharp,
			want: "void g()",
		},
		{
			name:     "vertical layout aligns to the open paren",
			f:        dot,
			vertical: true,
			lang:     lang.C,
			want: "double point_dot(const Point *a,\n" +
				"                 const Point *b)",
		},
		{
			name: "function returning function pointer",
			f: &ir.Function{
				Name: "signal",
				Args: []ir.FuncArg{
					ir.Arg("sig", ir.Primitive("int")),
					ir.Arg("handler", ir.FuncPtr(ir.Primitive("void"), ir.Arg("", ir.Primitive("int")))),
				},
				Ret: ir.FuncPtr(ir.Primitive("void"), ir.Arg("", ir.Primitive("int"))),
			},
			voidProt: true,
			lang:     lang.C,
			want:     "void (*signal(int sig, void (*handler)(int)))(int)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := sink.NewSourceWriter()
			if err := WriteFunc(w, tt.f, tt.vertical, tt.voidProt, tt.lang); err != nil {
				t.Fatalf("WriteFunc(%s): %v", tt.f.Name, err)
			}
			if got := w.String(); got != tt.want {
				t.Errorf("WriteFunc(%s) = %q, want %q", tt.f.Name, got, tt.want)
			}
		})
	}
}

// TestVerticalLayoutDoesNotChangeParens checks that layout is purely a
// formatting choice: the same declaration renders with identical
// parenthesization in both layouts.
func TestVerticalLayoutDoesNotChangeParens(t *testing.T) {
	f := &ir.Function{
		Name: "frob",
		Args: []ir.FuncArg{
			ir.Arg("cb", ir.FuncPtr(ir.Primitive("void"), ir.Arg("", ir.Ptr(ir.Primitive("u8"))))),
			ir.Arg("n", ir.Primitive("usize")),
		},
		Ret: ir.Primitive("void"),
	}

	horizontal := sink.NewSourceWriter()
	if err := WriteFunc(horizontal, f, false, true, lang.C); err != nil {
		t.Fatal(err)
	}
	vertical := sink.NewSourceWriter()
	if err := WriteFunc(vertical, f, true, true, lang.C); err != nil {
		t.Fatal(err)
	}

	normalize := func(s string) string {
		s = strings.ReplaceAll(s, "\n", " ")
		for strings.Contains(s, "  ") {
			s = strings.ReplaceAll(s, "  ", " ")
		}
		return strings.ReplaceAll(s, ", ", ",")
	}
	if normalize(horizontal.String()) != normalize(vertical.String()) {
		t.Errorf("layouts diverge:\nhorizontal: %q\nvertical:   %q",
			horizontal.String(), vertical.String())
	}
	if !strings.Contains(vertical.String(), "void (*cb)(uint8_t*)") {
		t.Errorf("vertical layout lost function-pointer parens: %q", vertical.String())
	}
}

// TestContractViolations checks that malformed IR fails fast instead of
// emitting wrong text.
func TestContractViolations(t *testing.T) {
	t.Run("duplicate base type", func(t *testing.T) {
		d := &decl{}
		if err := d.buildType(ir.Primitive("int"), false, lang.C); err != nil {
			t.Fatalf("first leaf: %v", err)
		}
		err := d.buildType(ir.Primitive("char"), false, lang.C)
		if err == nil {
			t.Fatal("expected error attaching a second base type")
		}
		if !strings.Contains(err.Error(), "duplicate base type") {
			t.Errorf("error %q does not name the violation", err)
		}
	})

	t.Run("generics in a dialect without generic syntax", func(t *testing.T) {
		w := sink.NewSourceWriter()
		err := WriteField(w, ir.Generic("Box", ir.Primitive("u8")), "b", lang.C)
		if err == nil {
			t.Fatal("expected error for generics in the c dialect")
		}
		if !strings.Contains(err.Error(), "generic") {
			t.Errorf("error %q does not name the violation", err)
		}
		if !strings.Contains(err.Error(), "Box<u8>") {
			t.Errorf("error %q does not include the offending type", err)
		}
	})

	t.Run("generic argument errors propagate from parameters", func(t *testing.T) {
		f := &ir.Function{
			Name: "bad",
			Args: []ir.FuncArg{ir.Arg("v", ir.Generic("Vec", ir.Primitive("u8")))},
			Ret:  ir.Primitive("void"),
		}
		w := sink.NewSourceWriter()
		err := WriteFunc(w, f, false, false, lang.C)
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), `"bad"`) {
			t.Errorf("error %q does not name the function", err)
		}
	})
}

// TestFuncPtrExpandsToPointerAndFunc checks the builder contract that a bare
// function type becomes pointer-to-function.
func TestFuncPtrExpandsToPointerAndFunc(t *testing.T) {
	d, err := fromType(ir.FuncPtr(ir.Primitive("void")), lang.C)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.declarators) != 2 {
		t.Fatalf("got %d declarators, want 2", len(d.declarators))
	}
	if d.declarators[0].kind != declPtr || d.declarators[1].kind != declFunc {
		t.Errorf("got kinds %v/%v, want pointer then function",
			d.declarators[0].kind, d.declarators[1].kind)
	}
}
