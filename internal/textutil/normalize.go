// SPDX-License-Identifier: MIT

// Package textutil provides text normalization shared by the intent matcher
// and the menu lookup.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s and strips combining marks so that "Crème Brûlée"
// compares equal to "creme brulee". Invalid input is returned lowercased.
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(folded)
}

// Words splits s into folded words.
func Words(s string) []string {
	return strings.Fields(Fold(s))
}

// Contains reports whether the folded form of s contains the folded form of substr.
func Contains(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}
