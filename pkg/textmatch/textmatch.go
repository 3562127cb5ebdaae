// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package textmatch implements the loose text matching used by club search.
//
// # Normalization
//
// Both the haystack and the needle are folded the same way, so "Cafe"
// finds "Café Lecteurs" and "ÉTÉ" finds "été".
package textmatch

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold normalizes s for comparison.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD (decomposes accented chars: é → e + combining acute).
// 2. Removes combining marks (accents).
// 3. Recomposes to NFC.
// 4. Applies Unicode case folding.
func Fold(s string) string {
	// Transformers carry state, so a fresh chain is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}

// Contains reports whether needle occurs in haystack ignoring case and accents.
// An empty needle matches everything.
func Contains(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(Fold(haystack), Fold(needle))
}

// AnyContains reports whether needle occurs in any of the haystacks.
func AnyContains(needle string, haystacks ...string) bool {
	folded := Fold(needle)
	for _, haystack := range haystacks {
		if strings.Contains(Fold(haystack), folded) {
			return true
		}
	}
	return false
}
