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

package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type replacement struct {
	from string
	to   string
}

// I and X are skipped, they are far more likely to be letters than numbers.
// Longer numerals never need a real conversion in practice.
var romanNumerals = []replacement{
	{"II", "2"}, {"III", "3"}, {"IV", "4"}, {"V", "5"},
	{"VI", "6"}, {"VII", "7"}, {"VIII", "8"}, {"IX", "9"},
	{"XI", "11"}, {"XII", "12"}, {"XIII", "13"},
}

var ordinalNumbers = []replacement{
	{"first", "1st"}, {"second", "2nd"}, {"third", "3rd"},
	{"fourth", "4th"}, {"fifth", "5th"}, {"sixth", "6th"},
	{"seventh", "7th"}, {"eighth", "8th"}, {"ninth", "9th"},
}

// Hepburn to wapuro.
var romanizations = []replacement{
	{"wa", "ha"},
	{"e", "he"},
	{"o", "wo"},
}

var seasonNumbers = buildSeasonNumbers()

var unnecessaryWords = []replacement{
	{"&", "and"},
	{"the animation", ""},
	{"the", ""},
	{"episode", ""},
	{"oad", "ova"},
	{"oav", "ova"},
	{"specials", "sp"},
	{"special", "sp"},
	{"(tv)", ""},
}

func buildSeasonNumbers() []replacement {
	ordinals := []string{"1st", "2nd", "3rd", "4th", "5th", "6th"}
	seasons := make([]replacement, 0, len(ordinals)*4)
	for i, ordinal := range ordinals {
		n := string(rune('1' + i))
		seasons = append(seasons,
			replacement{ordinal + " season", n},
			replacement{"season " + n, n},
			replacement{"series " + n, n},
			replacement{"s" + n, n},
		)
	}
	return seasons
}

// ConvertRomanNumbers replaces whole-word upper case Roman numerals with
// digits. "Season II" becomes "Season 2", "IVy" is left alone.
func ConvertRomanNumbers(s string) string {
	return replaceWords(s, romanNumerals)
}

// ConvertOrdinalNumbers replaces spelled out ordinals with their numeric
// form. Input is expected to be case folded.
func ConvertOrdinalNumbers(s string) string {
	return replaceWords(s, ordinalNumbers)
}

// ConvertSeasonNumbers reduces season markers such as "2nd season",
// "season 2", "series 2" and "s2" to the bare number.
func ConvertSeasonNumbers(s string) string {
	return replaceWords(s, seasonNumbers)
}

// TransliterateWords unifies common romanization variants of Japanese
// particles. Input is expected to be case folded.
func TransliterateWords(s string) string {
	return replaceWords(s, romanizations)
}

// EraseUnnecessary removes articles and other words that don't help
// telling titles apart, and unifies release type spellings.
func EraseUnnecessary(s string) string {
	return replaceWords(s, unnecessaryWords)
}

// TransliterateChars maps characters that compatibility folding leaves
// alone but that are used interchangeably in titles.
func TransliterateChars(s string) string {
	if isASCII(s) && !strings.ContainsRune(s, '@') {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch r {
		case '@':
			sb.WriteByte('a')
		case '×': // multiplication sign
			sb.WriteByte('x')
		case '꞉': // modifier letter colon
			sb.WriteByte(':')
		case 'Ō', 'ō': // o with macron
			sb.WriteString("ou")
		case 'ū': // u with macron
			sb.WriteString("uu")
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func replaceWords(s string, replacements []replacement) string {
	for _, r := range replacements {
		s = replaceWholeWord(s, r.from, r.to)
	}
	return s
}

// replaceWholeWord replaces every occurrence of word that is bounded on
// both sides by the string edges, whitespace, punctuation or symbols.
func replaceWholeWord(s, word, repl string) string {
	if word == "" || !strings.Contains(s, word) {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	i := 0
	for {
		j := strings.Index(s[i:], word)
		if j < 0 {
			break
		}
		start := i + j
		end := start + len(word)
		if boundaryBefore(s, start) && boundaryAfter(s, end) {
			sb.WriteString(s[i:start])
			sb.WriteString(repl)
			i = end
			continue
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		sb.WriteString(s[i : start+size])
		i = start + size
	}
	sb.WriteString(s[i:])
	return sb.String()
}

func boundaryBefore(s string, pos int) bool {
	if pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:pos])
	return isWordBoundary(r)
}

func boundaryAfter(s string, pos int) bool {
	if pos >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[pos:])
	return isWordBoundary(r)
}

func isWordBoundary(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func isASCII(s string) bool {
	for i := range len(s) {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
