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
	"testing"

	"pgregory.net/rapid"
)

func typeGen() *rapid.Generator[Type] {
	return rapid.SampledFrom([]Type{Minimal, ForTrigrams, ForLookup, Full})
}

// titleGen generates strings from characters and words that trigger the
// normalization stages.
func titleGen() *rapid.Generator[string] {
	//nolint:gosmopolitan // multi-script input is intentional
	chars := rapid.SampledFrom([]rune(
		"ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789" +
			" -:.'\"&!?(),[]@×ōŌū★♥" +
			"éèàüßæøÅ" +
			"ＡＢＣ１２３" +
			"進撃の巨人がガ" +
			"\t​　",
	))
	words := rapid.SampledFrom([]string{
		"the", "The", "II", "III", "XIII", "IV", "wa", "e", "o", "first",
		"second season", "season 2", "s3", "episode", "OAD", "Specials",
		"(TV)", "&", "!!", "?", "the animation", "x",
	})
	token := rapid.OneOf(
		rapid.StringOfN(chars, 1, 8, -1),
		words,
	)
	return rapid.Custom(func(t *rapid.T) string {
		parts := rapid.SliceOfN(token, 0, 8).Draw(t, "parts")
		return strings.Join(parts, " ")
	})
}

func TestPropertyNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		s := titleGen().Draw(t, "title")
		typ := typeGen().Draw(t, "type")

		once := Normalize(s, typ, false)
		twice := Normalize(once, typ, false)
		if once != twice {
			t.Fatalf("not idempotent for %q (%s): %q != %q", s, typ, once, twice)
		}
	})
}

func TestPropertyNormalizeArbitraryIdempotent(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "title")
		typ := typeGen().Draw(t, "type")

		once := Normalize(s, typ, false)
		if twice := Normalize(once, typ, false); once != twice {
			t.Fatalf("not idempotent for %q (%s): %q != %q", s, typ, once, twice)
		}
	})
}

func TestPropertyLookupHasNoWhitespace(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		s := titleGen().Draw(t, "title")
		got := Normalize(s, ForLookup, false)
		if strings.ContainsAny(got, " \t\n") {
			t.Fatalf("lookup form of %q contains whitespace: %q", s, got)
		}
	})
}

func TestPropertyTrigramFormHasSingleSpaces(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		s := titleGen().Draw(t, "title")
		got := Normalize(s, ForTrigrams, false)
		if strings.Contains(got, "  ") || got != strings.TrimSpace(got) {
			t.Fatalf("trigram form of %q has extra spaces: %q", s, got)
		}
	})
}
