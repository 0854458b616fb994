//go:build !chsmdebug

package parser

// checkTag is a no-op in release builds; see stack_debug.go.
func checkTag(v value, want valueKind) {}
