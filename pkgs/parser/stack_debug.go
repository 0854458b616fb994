//go:build chsmdebug

package parser

import "fmt"

// checkTag panics on a semantic-stack kind mismatch. Only compiled into
// debug builds (-tags chsmdebug); release builds use the no-op in
// stack_release.go.
func checkTag(v value, want valueKind) {
	if v.kind != want {
		panic(fmt.Sprintf("internal error: semantic stack tag mismatch: want %d, got %d", want, v.kind))
	}
}
