// Zaparoo Core
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Core.
//
// Zaparoo Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Core.  If not, see <http://www.gnu.org/licenses/>.

// Package normalize turns anime titles into canonical strings for index
// lookups and fuzzy comparison.
//
// Normalization runs in stages:
//  1. Roman numerals (II to XIII, skipping I and X) become digits.
//  2. Special characters and long vowels are transliterated.
//  3. Unicode is folded: compatibility decomposition, mark stripping,
//     removal of control and ignorable characters, lumping of look-alike
//     punctuation and case folding.
//  4. Romanization variants, ordinals and season markers are unified.
//  5. Words that carry no identifying value are erased.
//  6. Punctuation (and whitespace, for lookups) is erased depending on Type.
//
// The pipeline repeats until the output is stable, so Normalize is
// idempotent for every Type.
package normalize

import (
	"strings"
	"unicode/utf8"
)

// Type selects how aggressively a title is normalized. Types are ordered:
// every Type erases at least as much as the ones before it.
type Type int

const (
	// Minimal applies the word stages only and keeps all punctuation.
	Minimal Type = iota
	// ForTrigrams erases punctuation but keeps single spaces between words.
	ForTrigrams
	// ForLookup erases punctuation and whitespace.
	ForLookup
	// Full is ForLookup that also erases trailing punctuation.
	Full
)

func (t Type) String() string {
	switch t {
	case Minimal:
		return "minimal"
	case ForTrigrams:
		return "trigrams"
	case ForLookup:
		return "lookup"
	case Full:
		return "full"
	default:
		return "unknown"
	}
}

const maxPasses = 16

// Normalize returns the canonical form of title. If normalizedBefore is
// true the title is assumed to have gone through the word stages already
// and only punctuation handling is applied.
func Normalize(title string, t Type, normalizedBefore bool) string {
	cur := title
	for range maxPasses {
		next := pass(cur, t, normalizedBefore)
		if next == cur {
			break
		}
		cur = next
	}
	return cur
}

// ForLookupString is shorthand for a ForLookup normalization of a raw title.
func ForLookupString(title string) string {
	return Normalize(title, ForLookup, false)
}

func pass(title string, t Type, normalizedBefore bool) string {
	modifiedTail := false

	if !normalizedBefore {
		original := title

		title = ConvertRomanNumbers(title)
		title = TransliterateChars(title)
		title = FoldUnicode(title)
		title = TransliterateWords(title)
		title = ConvertOrdinalNumbers(title)
		title = ConvertSeasonNumbers(title)
		title = EraseUnnecessary(title)
		title = strings.TrimSpace(title)

		if len(title) != len(original) && lastRune(title) != lastRune(original) {
			modifiedTail = true
		}
	}

	if t != Minimal {
		title = ErasePunctuation(title, t, modifiedTail)
	}

	if t < Full {
		title = collapseSpaces(title)
	}

	return strings.TrimSpace(title)
}

func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

func collapseSpaces(s string) string {
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return s
}
