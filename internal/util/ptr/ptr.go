// Package ptr provides helpers for pointers to literal values, mostly
// for populating optional fields on API objects.
package ptr

// To returns a pointer to v.
func To[T any](v T) *T { return &v }
