// Package testdata holds fixtures for provider tests.
package testdata

// Vec3 is a value type crossing the boundary.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// Flags is a named integer with a constant group, which makes it an enum.
type Flags uint8

const (
	FlagNone  Flags = 0
	FlagDirty Flags = 1
	FlagFixed Flags = 2
)

// Scalar is a named scalar with no constants, which keeps it a typedef.
type Scalar float64

//hdrgen:export
func Dot(a *Vec3, b *Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

//hdrgen:export
func Scale(v *Vec3, factor Scalar) {
	v.X *= float64(factor)
	v.Y *= float64(factor)
	v.Z *= float64(factor)
}

//hdrgen:export
func SetFlags(f Flags) {}

//hdrgen:export
func SetCallback(cb func(code int32)) {}

// helper has no directive and must not be exported.
func helper() {}
