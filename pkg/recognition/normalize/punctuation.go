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
)

func isASCIIAlnum(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// ErasePunctuation removes punctuation, control characters and decorative
// symbols (stars, hearts, notes) from s. Whitespace is removed only for
// ForLookup and Full. Unless t is Full or modifiedTail is set, a trailing
// run of punctuation is kept, since it is often part of the title
// ("Working!!", "Kill la Kill?"). Closing brackets end that run.
func ErasePunctuation(s string, t Type, modifiedTail bool) string {
	eraseTail := modifiedTail || t == Full
	eraseSpace := t >= ForLookup

	removable := func(r rune, inTail bool) bool {
		if r <= 0xFF && !isASCIIAlnum(r) && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			switch r {
			case ' ':
				return eraseSpace
			case ')', ']':
				return !inTail
			default:
				return true
			}
		}
		return r > 0x2000 && r < 0x2767
	}

	rs := []rune(s)
	end := len(rs)
	if !eraseTail {
		for end > 0 && removable(rs[end-1], true) {
			end--
		}
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range rs[:end] {
		if !removable(r, false) {
			sb.WriteRune(r)
		}
	}
	for _, r := range rs[end:] {
		if r == ' ' && eraseSpace {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
