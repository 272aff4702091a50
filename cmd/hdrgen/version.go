package main

import (
	_ "embed"
	"fmt"
	"runtime/debug"
	"strings"
)

//go:embed VERSION
var rawVersion string

// Version reports the module version for tagged builds and a
// "{version}-dev+{revision}" string for builds from source.
func Version() string {
	v := strings.TrimSpace(rawVersion)

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return v
	}
	if mv := info.Main.Version; mv != "" && mv != "(devel)" {
		return mv
	}
	if rev := vcsRevision(info); rev != "" {
		return fmt.Sprintf("%s-dev+%s", v, rev)
	}
	return v + "-dev"
}

// vcsRevision returns the short commit hash recorded in the build info,
// or "" when the binary was built outside a checkout.
func vcsRevision(info *debug.BuildInfo) string {
	for _, s := range info.Settings {
		if s.Key != "vcs.revision" {
			continue
		}
		rev := s.Value
		if len(rev) > 7 {
			rev = rev[:7]
		}
		return rev
	}
	return ""
}
