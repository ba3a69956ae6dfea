package utils

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText returns s in Unicode NFC form with surrounding whitespace removed.
// Spreadsheet cells and typed input arrive in mixed normalization forms.
func NormalizeText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// FoldText lower-cases the normalized form of s for case-insensitive comparison
func FoldText(s string) string {
	return strings.ToLower(NormalizeText(s))
}

// EqualFold reports whether a and b match after normalization, ignoring case
func EqualFold(a, b string) bool {
	return FoldText(a) == FoldText(b)
}

// SortedUnique returns the distinct non-empty normalized values in ascending order
func SortedUnique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = NormalizeText(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
