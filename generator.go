// Package hdrgen assembles resolved binding libraries into complete header
// artifacts for the C, C++, and C# dialects. The declaration grammar itself
// lives in package cdecl; this package owns file-level concerns: include
// guards, includes, declaration ordering, and per-dialect wrappers such as
// extern "C" blocks and DllImport attributes.
package hdrgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hdrgen/hdrgen/cdecl"
	"github.com/hdrgen/hdrgen/ir"
	"github.com/hdrgen/hdrgen/lang"
	"github.com/hdrgen/hdrgen/sink"
)

var validate = validator.New()

// Config holds the configuration for header generation.
type Config struct {
	// Language selects the target dialect: "c" (default), "c++", or "csharp".
	Language string `toml:"language" validate:"omitempty,oneof=c c++ cxx cpp csharp c# cs"`

	// IncludeGuard emits a classic #ifndef/#define/#endif guard with the
	// given macro name. Ignored for C#.
	IncludeGuard string `toml:"include_guard"`

	// PragmaOnce emits #pragma once instead of an include guard.
	PragmaOnce bool `toml:"pragma_once"`

	// Header and Trailer are verbatim banners placed at the top and bottom
	// of the artifact (e.g. a license header).
	Header  string `toml:"header"`
	Trailer string `toml:"trailer"`

	// SysIncludes and Includes are emitted after the standard includes, as
	// #include <...> and #include "..." respectively. C and C++ only.
	SysIncludes []string `toml:"sys_includes"`
	Includes    []string `toml:"includes"`

	// NoStdIncludes suppresses the default stdint/stdbool includes.
	NoStdIncludes bool `toml:"no_std_includes"`

	// Style controls C struct/enum declarations: "both" (default) emits a
	// typedef with a tag, "tag" emits only the tagged form, "type" emits an
	// anonymous typedef. C++ and C# ignore it.
	Style string `toml:"style" validate:"omitempty,oneof=both tag type"`

	// Namespace wraps the declarations in a namespace. C++ and C# only.
	Namespace string `toml:"namespace"`

	// Class names the static class holding extern methods in C# output.
	// Defaults to the library name.
	Class string `toml:"class"`

	// DllName is the native library name used in C# DllImport attributes.
	// Defaults to the library name.
	DllName string `toml:"dll_name"`

	// VerticalFunctionArgs lays each function parameter on its own line,
	// aligned to the opening parenthesis.
	VerticalFunctionArgs bool `toml:"vertical_function_args"`

	// VoidPrototype spells zero-parameter lists as (void). Nil means the
	// dialect default (on for C, off otherwise).
	VoidPrototype *bool `toml:"void_prototype"`

	// IndentSize is the number of spaces per indent level (default 2).
	IndentSize int `toml:"indent_size" validate:"omitempty,gte=1,lte=16"`
}

// applyConfigDefaults applies default values to Config.
func applyConfigDefaults(cfg *Config) *Config {
	// Make a copy to avoid mutating the input
	result := *cfg

	if result.Language == "" {
		result.Language = "c"
	}
	if result.Style == "" {
		result.Style = "both"
	}
	if result.IndentSize == 0 {
		result.IndentSize = 2
	}
	return &result
}

// Result describes a completed generation run.
type Result struct {
	// Path is the artifact path passed to the sink.
	Path string

	// Size is the number of bytes written.
	Size int64

	// Declarations is the count of top-level declarations emitted.
	Declarations int
}

// Generator renders ir.Library values into header artifacts for one dialect.
type Generator struct {
	cfg       Config
	lang      lang.Language
	voidProto bool
}

// New validates the configuration and returns a Generator.
func New(cfg Config) (*Generator, error) {
	cfg = *applyConfigDefaults(&cfg)

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	l, err := lang.Parse(cfg.Language)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	voidProto := l.Profile().ExplicitVoidDefault
	if cfg.VoidPrototype != nil {
		voidProto = *cfg.VoidPrototype
	}

	return &Generator{cfg: cfg, lang: l, voidProto: voidProto}, nil
}

// Language returns the generator's target dialect.
func (g *Generator) Language() lang.Language { return g.lang }

// Generate renders lib and writes the artifact to path on the sink.
func (g *Generator) Generate(ctx context.Context, lib *ir.Library, out sink.OutputSink, path string) (*Result, error) {
	text, count, err := g.render(lib)
	if err != nil {
		return nil, err
	}
	if err := out.WriteFile(ctx, path, []byte(text)); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return &Result{Path: path, Size: int64(len(text)), Declarations: count}, nil
}

// Render renders lib and returns the artifact text.
func (g *Generator) Render(lib *ir.Library) (string, error) {
	text, _, err := g.render(lib)
	return text, err
}

func (g *Generator) render(lib *ir.Library) (string, int, error) {
	w := sink.NewSourceWriterIndent(g.cfg.IndentSize)
	var count int
	var err error

	if g.cfg.Header != "" {
		writeLines(w, g.cfg.Header)
		w.NewLine()
	}

	if g.lang == lang.CSharp {
		count, err = g.renderManaged(w, lib)
	} else {
		count, err = g.renderNative(w, lib)
	}
	if err != nil {
		return "", 0, fmt.Errorf("generating %s bindings for %q: %w", g.lang, lib.Name, err)
	}

	if g.cfg.Trailer != "" {
		w.NewLine()
		writeLines(w, g.cfg.Trailer)
	}

	return w.String(), count, nil
}

// renderNative emits a C or C++ header.
func (g *Generator) renderNative(w *sink.SourceWriter, lib *ir.Library) (int, error) {
	guard := g.cfg.IncludeGuard
	if g.cfg.PragmaOnce {
		w.WriteString("#pragma once")
		w.NewLine()
		w.NewLine()
	} else if guard != "" {
		w.Writef("#ifndef %s", guard)
		w.NewLine()
		w.Writef("#define %s", guard)
		w.NewLine()
		w.NewLine()
	}

	if !g.cfg.NoStdIncludes {
		if g.lang == lang.Cxx {
			w.WriteString("#include <cstdint>")
			w.NewLine()
			w.WriteString("#include <cstddef>")
			w.NewLine()
		} else {
			w.WriteString("#include <stdint.h>")
			w.NewLine()
			w.WriteString("#include <stdbool.h>")
			w.NewLine()
			w.WriteString("#include <stddef.h>")
			w.NewLine()
		}
	}
	for _, inc := range g.cfg.SysIncludes {
		w.Writef("#include <%s>", inc)
		w.NewLine()
	}
	for _, inc := range g.cfg.Includes {
		w.Writef("#include %q", inc)
		w.NewLine()
	}

	if g.cfg.Namespace != "" && g.lang == lang.Cxx {
		w.NewLine()
		w.Writef("namespace %s {", g.cfg.Namespace)
		w.NewLine()
	}

	count := 0

	for _, e := range lib.Enums {
		w.NewLine()
		g.writeNativeEnum(w, e)
		count++
	}

	for _, td := range lib.Typedefs {
		w.NewLine()
		if err := g.writeNativeTypedef(w, td); err != nil {
			return 0, err
		}
		count++
	}

	for _, s := range lib.Structs {
		w.NewLine()
		if err := g.writeNativeStruct(w, s); err != nil {
			return 0, err
		}
		count++
	}

	if len(lib.Functions) > 0 {
		w.NewLine()
		if g.lang == lang.Cxx {
			w.WriteString(`extern "C" {`)
			w.NewLine()
		}
		for i := range lib.Functions {
			w.NewLine()
			if err := cdecl.WriteFunc(w, &lib.Functions[i], g.cfg.VerticalFunctionArgs, g.voidProto, g.lang); err != nil {
				return 0, err
			}
			w.WriteString(";")
			w.NewLine()
			count++
		}
		if g.lang == lang.Cxx {
			w.NewLine()
			w.WriteString(`}  // extern "C"`)
			w.NewLine()
		}
	}

	if g.cfg.Namespace != "" && g.lang == lang.Cxx {
		w.NewLine()
		w.Writef("}  // namespace %s", g.cfg.Namespace)
		w.NewLine()
	}

	if !g.cfg.PragmaOnce && guard != "" {
		w.NewLine()
		w.Writef("#endif  // %s", guard)
		w.NewLine()
	}

	return count, nil
}

func (g *Generator) writeNativeEnum(w *sink.SourceWriter, e ir.EnumDecl) {
	if g.lang == lang.Cxx {
		if e.Repr != "" {
			w.Writef("enum class %s : %s {", e.Name, lang.PrimitiveRepr(e.Repr, g.lang))
		} else {
			w.Writef("enum class %s {", e.Name)
		}
	} else {
		switch g.cfg.Style {
		case "tag":
			w.Writef("enum %s {", e.Name)
		case "type":
			w.WriteString("typedef enum {")
		default:
			w.Writef("typedef enum %s {", e.Name)
		}
	}
	w.NewLine()
	w.PushTab()
	for _, v := range e.Variants {
		if v.Value != "" {
			w.Writef("%s = %s,", v.Name, v.Value)
		} else {
			w.Writef("%s,", v.Name)
		}
		w.NewLine()
	}
	w.PopIndent()

	if g.lang == lang.Cxx || g.cfg.Style == "tag" {
		w.WriteString("};")
	} else {
		w.Writef("} %s;", e.Name)
	}
	w.NewLine()
}

func (g *Generator) writeNativeTypedef(w *sink.SourceWriter, td ir.TypedefDecl) error {
	if g.lang == lang.Cxx {
		w.Writef("using %s = ", td.Name)
		if err := cdecl.WriteType(w, td.Underlying, g.lang); err != nil {
			return err
		}
		w.WriteString(";")
		w.NewLine()
		return nil
	}
	w.WriteString("typedef ")
	if err := cdecl.WriteField(w, td.Underlying, td.Name, g.lang); err != nil {
		return err
	}
	w.WriteString(";")
	w.NewLine()
	return nil
}

func (g *Generator) writeNativeStruct(w *sink.SourceWriter, s ir.StructDecl) error {
	if g.lang == lang.Cxx {
		w.Writef("struct %s {", s.Name)
	} else {
		switch g.cfg.Style {
		case "tag":
			w.Writef("struct %s {", s.Name)
		case "type":
			w.WriteString("typedef struct {")
		default:
			w.Writef("typedef struct %s {", s.Name)
		}
	}
	w.NewLine()
	w.PushTab()
	for _, f := range s.Fields {
		if err := cdecl.WriteField(w, f.Type, f.Name, g.lang); err != nil {
			return err
		}
		w.WriteString(";")
		w.NewLine()
	}
	w.PopIndent()

	if g.lang == lang.Cxx || g.cfg.Style == "tag" {
		w.WriteString("};")
	} else {
		w.Writef("} %s;", s.Name)
	}
	w.NewLine()
	return nil
}

// renderManaged emits a C# interop source file.
func (g *Generator) renderManaged(w *sink.SourceWriter, lib *ir.Library) (int, error) {
	w.WriteString("using System;")
	w.NewLine()
	w.WriteString("using System.Runtime.InteropServices;")
	w.NewLine()

	ns := g.cfg.Namespace
	if ns == "" {
		ns = lib.Name
	}
	w.NewLine()
	w.Writef("namespace %s {", ns)
	w.NewLine()
	w.PushTab()

	count := 0

	// Using-alias directives must precede the other namespace members.
	for _, td := range lib.Typedefs {
		w.NewLine()
		w.Writef("using %s = ", td.Name)
		if err := cdecl.WriteType(w, td.Underlying, g.lang); err != nil {
			return 0, err
		}
		w.WriteString(";")
		w.NewLine()
		count++
	}

	for _, e := range lib.Enums {
		w.NewLine()
		if e.Repr != "" {
			w.Writef("public enum %s : %s {", e.Name, lang.PrimitiveRepr(e.Repr, g.lang))
		} else {
			w.Writef("public enum %s {", e.Name)
		}
		w.NewLine()
		w.PushTab()
		for _, v := range e.Variants {
			if v.Value != "" {
				w.Writef("%s = %s,", v.Name, v.Value)
			} else {
				w.Writef("%s,", v.Name)
			}
			w.NewLine()
		}
		w.PopIndent()
		w.WriteString("}")
		w.NewLine()
		count++
	}

	for _, s := range lib.Structs {
		w.NewLine()
		w.WriteString("[StructLayout(LayoutKind.Sequential)]")
		w.NewLine()
		w.Writef("public struct %s {", s.Name)
		w.NewLine()
		w.PushTab()
		for _, f := range s.Fields {
			if err := cdecl.WriteField(w, f.Type, f.Name, g.lang); err != nil {
				return 0, err
			}
			w.WriteString(";")
			w.NewLine()
		}
		w.PopIndent()
		w.WriteString("}")
		w.NewLine()
		count++
	}

	if len(lib.Functions) > 0 {
		class := g.cfg.Class
		if class == "" {
			class = lib.Name
		}
		dll := g.cfg.DllName
		if dll == "" {
			dll = lib.Name
		}

		w.NewLine()
		w.Writef("public static class %s {", class)
		w.NewLine()
		w.PushTab()
		for i := range lib.Functions {
			w.NewLine()
			w.Writef("[DllImport(%q, CallingConvention = CallingConvention.Cdecl)]", dll)
			w.NewLine()
			w.WriteString("public static extern ")
			if err := cdecl.WriteFunc(w, &lib.Functions[i], g.cfg.VerticalFunctionArgs, g.voidProto, g.lang); err != nil {
				return 0, err
			}
			w.WriteString(";")
			w.NewLine()
			count++
		}
		w.PopIndent()
		w.WriteString("}")
		w.NewLine()
	}

	w.PopIndent()
	w.Writef("}  // namespace %s", ns)
	w.NewLine()

	return count, nil
}

// writeLines writes a multi-line banner through the source writer.
func writeLines(w *sink.SourceWriter, text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		w.WriteString(line)
		w.NewLine()
	}
}
