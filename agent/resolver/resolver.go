// Package resolver matches free-text utterances against ordered candidate lists.
//
// A candidate matches when the lowercased utterance contains its lowercased
// name, contains its id, or equals its 1-based position once trimmed. The
// earliest-listed matching candidate wins.
package resolver

import (
	"strconv"
	"strings"
)

// Resolve returns the first candidate matching utterance, its index and true,
// or the zero value, -1 and false.
func Resolve[T any](utterance string, candidates []T, nameOf, idOf func(T) string) (T, int, bool) {
	var zero T
	idx := ResolveIndex(utterance, candidates, nameOf, idOf)
	if idx < 0 {
		return zero, -1, false
	}
	return candidates[idx], idx, true
}

func ResolveIndex[T any](utterance string, candidates []T, nameOf, idOf func(T) string) int {
	lower := strings.ToLower(utterance)
	trimmed := strings.TrimSpace(lower)
	if trimmed == "" {
		return -1
	}

	for i, c := range candidates {
		if name := strings.ToLower(nameOf(c)); name != "" && strings.Contains(lower, name) {
			return i
		}
		if id := idOf(c); id != "" && strings.Contains(lower, id) {
			return i
		}
		if trimmed == strconv.Itoa(i+1) {
			return i
		}
	}
	return -1
}

// MatchesAny reports whether the lowercased utterance contains any keyword.
func MatchesAny(utterance string, keywords ...string) bool {
	lower := strings.ToLower(utterance)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Ordinals returns "1".."n".
func Ordinals(n int) []string {
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, strconv.Itoa(i))
	}
	return out
}

// FirstToken returns the lowercased first whitespace-separated token of name.
func FirstToken(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
