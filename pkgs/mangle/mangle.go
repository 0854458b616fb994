// Package mangle implements the bijection between dotted hierarchical state
// names ("root.trunk.leaf") and flat identifiers safe for use as host
// language symbols, used to name compiler-generated enter/exit-action
// functions and nested-class qualifiers.
//
// The scheme is M<len1><part1><len2><part2>... where each len is the
// decimal length of the part that follows it, ported directly from the
// reference compiler's mangle.cpp/demangle.cpp.
package mangle

import (
	"strconv"
	"strings"
)

const prefix = "M"

// Mangle converts a dotted identifier into its flat mangled form.
func Mangle(name string) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, part := range strings.Split(name, ".") {
		b.WriteString(strconv.Itoa(len(part)))
		b.WriteString(part)
	}
	return b.String()
}

// Demangle recovers the dotted identifier from its mangled form. If s does
// not begin with the mangle prefix followed by a digit, s is returned
// unchanged (it was never mangled).
func Demangle(s string) string {
	if !strings.HasPrefix(s, prefix) {
		return s
	}
	rest := s[len(prefix):]
	if rest == "" || rest[0] < '0' || rest[0] > '9' {
		return s
	}

	var parts []string
	i := 0
	for i < len(rest) {
		digitsStart := i
		for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
			i++
		}
		if i == digitsStart {
			break
		}
		n, err := strconv.Atoi(rest[digitsStart:i])
		if err != nil || n == 0 {
			break
		}
		if i+n > len(rest) {
			break
		}
		parts = append(parts, rest[i:i+n])
		i += n
	}
	return strings.Join(parts, ".")
}
