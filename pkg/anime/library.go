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

package anime

import (
	"slices"

	"github.com/ZaparooProject/anitrack/pkg/helpers/syncutil"
)

// Library is a read-only view of the anime library.
type Library interface {
	// Find returns the item with the given id.
	Find(id int) (Item, bool)
	// Items returns a snapshot of all items ordered by id.
	Items() []Item
}

// MemoryLibrary is a Library held in memory. It is safe for concurrent use.
type MemoryLibrary struct {
	items map[int]Item
	mu    syncutil.RWMutex
}

func NewMemoryLibrary(items ...Item) *MemoryLibrary {
	lib := &MemoryLibrary{items: make(map[int]Item, len(items))}
	for i := range items {
		lib.items[items[i].ID] = items[i]
	}
	return lib
}

func (l *MemoryLibrary) Find(id int) (Item, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	item, ok := l.items[id]
	return item, ok
}

func (l *MemoryLibrary) Items() []Item {
	l.mu.RLock()
	defer l.mu.RUnlock()
	items := make([]Item, 0, len(l.items))
	for id := range l.items {
		items = append(items, l.items[id])
	}
	slices.SortFunc(items, func(a, b Item) int {
		return a.ID - b.ID
	})
	return items
}

// Put adds or replaces an item.
func (l *MemoryLibrary) Put(item Item) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items[item.ID] = item
}

// Delete removes an item, reporting whether it existed.
func (l *MemoryLibrary) Delete(id int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.items[id]
	delete(l.items, id)
	return ok
}

func (l *MemoryLibrary) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}
