// Package bad holds fixtures that must be rejected by the provider.
package bad

//hdrgen:export
func Greet(name string) string { return "hi " + name }
