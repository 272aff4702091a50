// Package lang defines the target dialects and their formatting profiles.
// Dialect quirks live here as data so the rendering rule in package cdecl
// stays testable independent of any one dialect.
package lang

import "fmt"

// Language selects the target declaration syntax.
type Language int

const (
	// C emits C declarations (stdint spellings, optional explicit-void
	// prototypes, tagged type names).
	C Language = iota

	// Cxx emits C++ declarations (references, template argument lists).
	Cxx

	// CSharp emits C# interop declarations (ByValArray marshaling for fixed
	// arrays, managed primitive spellings).
	CSharp
)

// String returns the canonical dialect name.
func (l Language) String() string {
	switch l {
	case C:
		return "c"
	case Cxx:
		return "c++"
	case CSharp:
		return "csharp"
	default:
		return "unknown"
	}
}

// Parse converts a user-supplied dialect name into a Language.
// Accepted spellings: "c", "c++", "cxx", "cpp", "csharp", "c#", "cs".
func Parse(s string) (Language, error) {
	switch s {
	case "c":
		return C, nil
	case "c++", "cxx", "cpp":
		return Cxx, nil
	case "csharp", "c#", "cs":
		return CSharp, nil
	default:
		return 0, fmt.Errorf("unknown language %q (expected c, c++, or csharp)", s)
	}
}

// Profile captures the per-dialect formatting choices the renderer branches
// on. Keeping these as data avoids scattering dialect conditionals through
// the core rendering rule.
type Profile struct {
	// SupportsGenerics reports whether the dialect has generic/template
	// argument syntax. Types carrying generic arguments are a contract
	// violation in dialects without it.
	SupportsGenerics bool

	// ArrayAsAttribute marshals a trailing fixed-size array as a
	// size-annotation attribute on the whole declaration instead of bracket
	// syntax.
	ArrayAsAttribute bool

	// ExplicitVoidDefault is whether zero-parameter prototypes should spell
	// out (void) by default. Only meaningful for C, where () means "no
	// prototype information" rather than "zero parameters".
	ExplicitVoidDefault bool
}

// Profile returns the formatting profile for the dialect.
func (l Language) Profile() Profile {
	switch l {
	case C:
		return Profile{ExplicitVoidDefault: true}
	case Cxx:
		return Profile{SupportsGenerics: true}
	case CSharp:
		return Profile{SupportsGenerics: true, ArrayAsAttribute: true}
	default:
		return Profile{}
	}
}

// nativeReprs maps logical primitive names to C/C++ spellings. Names missing
// here render as-is, which covers primitives that are already spelled in the
// target's vocabulary (int, float, size_t, ...).
var nativeReprs = map[string]string{
	"bool":  "bool",
	"char":  "char",
	"i8":    "int8_t",
	"i16":   "int16_t",
	"i32":   "int32_t",
	"i64":   "int64_t",
	"u8":    "uint8_t",
	"u16":   "uint16_t",
	"u32":   "uint32_t",
	"u64":   "uint64_t",
	"isize": "intptr_t",
	"usize": "uintptr_t",
	"f32":   "float",
	"f64":   "double",
	"void":  "void",
}

// managedReprs maps logical primitive names to C# spellings.
var managedReprs = map[string]string{
	"bool":  "bool",
	"char":  "byte",
	"i8":    "sbyte",
	"i16":   "short",
	"i32":   "int",
	"i64":   "long",
	"u8":    "byte",
	"u16":   "ushort",
	"u32":   "uint",
	"u64":   "ulong",
	"isize": "IntPtr",
	"usize": "UIntPtr",
	"f32":   "float",
	"f64":   "double",
	"void":  "void",
}

// PrimitiveRepr returns the dialect spelling for a logical primitive name.
// Unknown names pass through unchanged.
func PrimitiveRepr(name string, l Language) string {
	var table map[string]string
	if l == CSharp {
		table = managedReprs
	} else {
		table = nativeReprs
	}
	if repr, ok := table[name]; ok {
		return repr
	}
	return name
}
