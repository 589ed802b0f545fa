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

package trigrams

import (
	"slices"

	"github.com/ZaparooProject/anitrack/pkg/anime"
	"github.com/ZaparooProject/anitrack/pkg/recognition/normalize"
)

// Variant is one normalized title of a library item with its trigrams.
type Variant struct {
	Title    string
	Trigrams []string
}

// Store maps library item ids to the trigram sets of all their titles.
// It is not safe for concurrent use; the engine guards it.
type Store struct {
	variants map[int][]Variant
}

func NewStore() *Store {
	return &Store{variants: make(map[int][]Variant)}
}

// Add normalizes title and appends it to the variants of id. Titles that
// normalize to an empty string or duplicate an existing variant are
// ignored.
func (s *Store) Add(id int, title string) {
	normalized := normalize.Normalize(title, normalize.ForTrigrams, false)
	if normalized == "" {
		return
	}
	for _, v := range s.variants[id] {
		if v.Title == normalized {
			return
		}
	}
	s.variants[id] = append(s.variants[id], Variant{
		Title:    normalized,
		Trigrams: GetNormalized(normalized),
	})
}

// Set replaces the variants of item.ID with all titles of the item.
func (s *Store) Set(item *anime.Item) {
	delete(s.variants, item.ID)
	for _, title := range item.AllTitles() {
		s.Add(item.ID, title)
	}
}

func (s *Store) Erase(id int) {
	delete(s.variants, id)
}

func (s *Store) Variants(id int) []Variant {
	return s.variants[id]
}

// IDs returns all ids with at least one variant, in ascending order.
func (s *Store) IDs() []int {
	ids := make([]int, 0, len(s.variants))
	for id := range s.variants {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *Store) Len() int {
	return len(s.variants)
}
