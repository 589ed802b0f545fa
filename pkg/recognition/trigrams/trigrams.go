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

// Package trigrams generates character trigram sets for titles and compares
// them with the Dice coefficient.
package trigrams

import (
	"slices"

	"github.com/ZaparooProject/anitrack/pkg/recognition/normalize"
)

// Get normalizes s for trigram comparison and returns its sorted trigram
// multiset. The result is empty only if s normalizes to an empty string.
func Get(s string) []string {
	return GetNormalized(normalize.Normalize(s, normalize.ForTrigrams, false))
}

// GetNormalized returns the sorted trigram multiset of an already
// normalized string. The string is padded with a space on both sides so
// that word starts and ends produce their own trigrams.
func GetNormalized(s string) []string {
	if s == "" {
		return nil
	}

	rs := make([]rune, 0, len(s)+2)
	rs = append(rs, ' ')
	rs = append(rs, []rune(s)...)
	rs = append(rs, ' ')

	grams := make([]string, 0, len(rs)-2)
	for i := 0; i+3 <= len(rs); i++ {
		grams = append(grams, string(rs[i:i+3]))
	}
	slices.Sort(grams)
	return grams
}

// Compare returns the Dice coefficient of two sorted trigram multisets:
// twice the size of the multiset intersection over the summed sizes. It is
// symmetric and returns 0 when both sets are empty.
func Compare(a, b []string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 0
	}
	return 2 * float64(intersection(a, b)) / float64(total)
}

func intersection(a, b []string) int {
	n, i, j := 0, 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			n++
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return n
}
