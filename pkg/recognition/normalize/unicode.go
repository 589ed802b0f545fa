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
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Marks, format characters and other default-ignorable code points.
var ignorable = runes.Predicate(func(r rune) bool {
	return unicode.In(r,
		unicode.Mn,
		unicode.Mc,
		unicode.Me,
		unicode.Cf,
		unicode.Other_Default_Ignorable_Code_Point,
		unicode.Variation_Selector,
	)
})

// lump maps look-alike characters to a single ASCII representative.
func lump(r rune) rune {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\u0085':
		return ' '
	case '\u2010', '\u2011', '\u2012', '\u2013', '\u2014', '\u2015', '\u2043', '\u2212':
		return '-'
	case '\u2018', '\u2019', '\u201B', '\u2032', '\u02B9', '\u02BC':
		return '\''
	case '\u201C', '\u201D', '\u201F', '\u02BA':
		return '"'
	case '\u2044', '\u2215':
		return '/'
	case '\u2236':
		return ':'
	case '\u2039', '\u3008':
		return '<'
	case '\u203A', '\u3009':
		return '>'
	case '\u2223':
		return '|'
	case '\u2216':
		return '\\'
	case '\u02C4', '\u02C6', '\u2038', '\u2303':
		return '^'
	case '\u02CB', '\u2035':
		return '`'
	case '\u02CD':
		return '_'
	}
	if unicode.Is(unicode.Zs, r) {
		return ' '
	}
	return r
}

// FoldUnicode applies compatibility decomposition, strips marks, control
// and default-ignorable characters, lumps look-alike punctuation and case
// folds the result. The output is NFC.
func FoldUnicode(s string) string {
	t := transform.Chain(
		width.Fold,
		norm.NFKD,
		runes.Remove(ignorable),
		runes.Map(lump),
		runes.Remove(runes.Predicate(unicode.IsControl)),
		cases.Fold(),
		norm.NFC,
	)
	if folded, _, err := transform.String(t, s); err == nil {
		return folded
	}
	return s
}
