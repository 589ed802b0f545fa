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

// Package titles maps normalized titles to library item ids.
//
// The index has three tiers searched in order: main titles, alternative
// titles (English, Japanese and synonyms) and user-defined synonyms. The
// first tier with a hit answers a lookup.
package titles

import (
	"slices"

	"github.com/ZaparooProject/anitrack/pkg/anime"
	"github.com/ZaparooProject/anitrack/pkg/recognition/normalize"
)

type Tier int

const (
	TierMain Tier = iota
	TierAlternative
	TierUser
)

var tiers = []Tier{TierMain, TierAlternative, TierUser}

func (t Tier) String() string {
	switch t {
	case TierMain:
		return "main"
	case TierAlternative:
		return "alternative"
	case TierUser:
		return "user"
	default:
		return "unknown"
	}
}

type idSet map[int]struct{}

// Index is a three-tier title index. Keys are ForLookup normalized. It is
// not safe for concurrent use; the engine guards it.
type Index struct {
	tiers [3]map[string]idSet
}

func NewIndex() *Index {
	idx := &Index{}
	for i := range idx.tiers {
		idx.tiers[i] = make(map[string]idSet)
	}
	return idx
}

// Initialize builds a new index from items.
func Initialize(items []anime.Item) *Index {
	idx := NewIndex()
	for i := range items {
		idx.Update(&items[i], false)
	}
	return idx
}

// LookUp returns the ids stored under an already normalized title in the
// first tier that has any, sorted ascending. More than one id means the
// title is ambiguous.
func (idx *Index) LookUp(normalized string) []int {
	if normalized == "" {
		return nil
	}
	for _, tier := range tiers {
		if set, ok := idx.tiers[tier][normalized]; ok && len(set) > 0 {
			return set.sorted()
		}
	}
	return nil
}

// LookUpTier returns the ids stored under normalized in a single tier.
func (idx *Index) LookUpTier(tier Tier, normalized string) []int {
	return idx.tiers[tier][normalized].sorted()
}

// Update inserts all titles of item. If eraseIDs is set, every existing
// entry pointing at item.ID is removed first, so renamed titles don't
// linger.
func (idx *Index) Update(item *anime.Item, eraseIDs bool) {
	if eraseIDs {
		idx.Erase(item.ID)
	}

	idx.insert(TierMain, item.Title, item.ID)
	for _, title := range item.AlternativeTitles() {
		idx.insert(TierAlternative, title, item.ID)
	}
	for _, title := range item.UserSynonyms {
		idx.insert(TierUser, title, item.ID)
	}
}

// Erase removes id from every tier, dropping keys left without ids.
func (idx *Index) Erase(id int) {
	for _, tier := range idx.tiers {
		for key, set := range tier {
			if _, ok := set[id]; !ok {
				continue
			}
			delete(set, id)
			if len(set) == 0 {
				delete(tier, key)
			}
		}
	}
}

// Len returns the number of keys in a tier.
func (idx *Index) Len(tier Tier) int {
	return len(idx.tiers[tier])
}

// Keys returns the sorted keys of a tier.
func (idx *Index) Keys(tier Tier) []string {
	keys := make([]string, 0, len(idx.tiers[tier]))
	for key := range idx.tiers[tier] {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

func (idx *Index) insert(tier Tier, title string, id int) {
	key := normalize.Normalize(title, normalize.ForLookup, false)
	if key == "" {
		return
	}
	set, ok := idx.tiers[tier][key]
	if !ok {
		set = make(idSet)
		idx.tiers[tier][key] = set
	}
	set[id] = struct{}{}
}

func (s idSet) sorted() []int {
	if len(s) == 0 {
		return nil
	}
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
