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

// Package matcher ranks library items against a title with a composite of
// string similarity metrics.
package matcher

import (
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/ZaparooProject/anitrack/pkg/anime"
	"github.com/ZaparooProject/anitrack/pkg/recognition/normalize"
	"github.com/ZaparooProject/anitrack/pkg/recognition/trigrams"
	"github.com/hbollon/go-edlib"
	"github.com/rs/zerolog/log"
)

const (
	// TrigramCutoff is the Dice coefficient a candidate must exceed to be
	// scored at all.
	TrigramCutoff = 0.1
	// MinimumScore drops weak candidates from the results.
	MinimumScore = 0.3
	// MaxResults caps the number of scores returned.
	MaxResults = 20

	// Bonus added for each matching piece of metadata.
	metadataBonus = 0.1
)

// Query is the title being matched, with optional metadata that earns
// candidates a bonus when it agrees.
type Query struct {
	Title    string
	Trigrams []string
	Year     int
	Type     anime.SeriesType
}

// NewQuery normalizes title for trigram comparison.
func NewQuery(title string, year int, typ anime.SeriesType) Query {
	normalized := normalize.Normalize(title, normalize.ForTrigrams, false)
	return Query{
		Title:    normalized,
		Trigrams: trigrams.GetNormalized(normalized),
		Year:     year,
		Type:     typ,
	}
}

// Candidate is a library item with its title variants.
type Candidate struct {
	Variants []trigrams.Variant
	ID       int
	Year     int
	Type     anime.SeriesType
}

// Result is the score of one library item.
type Result struct {
	ID    int
	Value float64
}

// Scores are ordered best first.
type Scores []Result

// Best returns the top id if its score reaches threshold.
func (s Scores) Best(threshold float64) (int, bool) {
	if len(s) == 0 || s[0].Value < threshold {
		return anime.IDUnknown, false
	}
	return s[0].ID, true
}

func (s Scores) IDs() []int {
	ids := make([]int, len(s))
	for i := range s {
		ids[i] = s[i].ID
	}
	return ids
}

// Score rates every candidate against q. Candidates whose best trigram
// overlap doesn't exceed TrigramCutoff, or whose score stays below
// MinimumScore, are left out. Higher scores come first and equal scores
// are ordered by id, so the result is deterministic.
func Score(q Query, candidates []Candidate) Scores {
	if q.Title == "" {
		return nil
	}

	var scores Scores
	for i := range candidates {
		c := &candidates[i]

		var m metrics
		for _, v := range c.Variants {
			m.dice = max(m.dice, trigrams.Compare(q.Trigrams, v.Trigrams))
		}
		if m.dice <= TrigramCutoff {
			continue
		}
		for _, v := range c.Variants {
			m.jaroWinkler = max(m.jaroWinkler, float64(edlib.JaroWinklerSimilarity(q.Title, v.Title)))
			m.levenshtein = max(m.levenshtein, levenshteinSimilarity(q.Title, v.Title))
			m.custom = max(m.custom, customSimilarity(q.Title, v.Title))
		}

		value := m.combine()
		if q.Year > 0 && q.Year == c.Year {
			value += metadataBonus
		}
		if q.Type != anime.TypeUnknown && q.Type == c.Type {
			value += metadataBonus
		}
		if value < MinimumScore {
			continue
		}
		scores = append(scores, Result{ID: c.ID, Value: value})
	}

	slices.SortStableFunc(scores, func(a, b Result) int {
		switch {
		case a.Value > b.Value:
			return -1
		case a.Value < b.Value:
			return 1
		default:
			return a.ID - b.ID
		}
	})
	if len(scores) > MaxResults {
		scores = scores[:MaxResults]
	}

	if len(scores) > 0 {
		log.Debug().
			Str("query", q.Title).
			Int("candidates", len(candidates)).
			Int("scored", len(scores)).
			Int("top_id", scores[0].ID).
			Float64("top_score", scores[0].Value).
			Msg("scored title candidates")
	}

	return scores
}

type metrics struct {
	jaroWinkler float64
	custom      float64
	levenshtein float64
	dice        float64
}

// combine weighs the metrics so that an exact match scores 1.0.
func (m metrics) combine() float64 {
	return (m.jaroWinkler +
		0.5*math.Pow(m.custom, 0.66) +
		0.3*math.Pow(m.levenshtein, 0.8) +
		0.2*math.Pow(m.dice, 0.8)) / 2
}

func levenshteinSimilarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 0
	}
	return 1 - float64(edlib.LevenshteinDistance(a, b))/float64(longest)
}

// customSimilarity rewards titles that share a beginning, since releases
// often append or drop a subtitle.
func customSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	shorter, longer := a, b
	if utf8.RuneCountInString(shorter) > utf8.RuneCountInString(longer) {
		shorter, longer = longer, shorter
	}
	minLen := utf8.RuneCountInString(shorter)
	maxLen := utf8.RuneCountInString(longer)
	if minLen == 0 {
		return 0
	}

	ratio := float64(minLen) / float64(maxLen)
	switch {
	case strings.HasPrefix(longer, shorter):
		return ratio
	case strings.Contains(longer, shorter):
		return ratio * 0.9
	}

	lcs := float64(edlib.LCS(a, b)) / float64(maxLen) * 0.8
	prefix := float64(commonPrefix(a, b)) / float64(minLen) * 0.7
	return max(lcs, prefix)
}

func commonPrefix(a, b string) int {
	n := 0
	for a != "" && b != "" {
		ra, sa := utf8.DecodeRuneInString(a)
		rb, sb := utf8.DecodeRuneInString(b)
		if ra != rb {
			break
		}
		n++
		a, b = a[sa:], b[sb:]
	}
	return n
}
