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

// Package relations redirects episode numbers across sequel entries.
//
// Many releases keep counting episodes across seasons ("Show - 15" for the
// third episode of the second season). A relations table maps such ranges
// of a source entry to the matching range of its successor.
package relations

import (
	"errors"
	"fmt"

	"github.com/ZaparooProject/anitrack/pkg/anime"
)

// ErrLoad is matched by every error returned when a relations document
// cannot be used at all.
var ErrLoad = errors.New("could not load relations")

// LoadError describes why a relations document was rejected.
type LoadError struct {
	Err  error
	Path string
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", ErrLoad, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", ErrLoad, e.Err)
}

func (e *LoadError) Unwrap() []error {
	return []error{ErrLoad, e.Err}
}

// Rule maps the Source range of SourceID to the Dest range of DestID. A
// High of 0 marks an open ended range.
type Rule struct {
	Source   anime.NumberRange
	Dest     anime.NumberRange
	SourceID int
	DestID   int
}

// find maps a single episode number through the rule.
func (r *Rule) find(n int) (int, bool) {
	distance := n - r.Source.Low
	if distance < 0 {
		return 0, false
	}
	if r.Source.High != 0 && n > r.Source.High {
		return 0, false
	}
	dest := r.Dest.Low
	if r.Dest.Low != r.Dest.High {
		dest += distance
	}
	if r.Dest.High != 0 && dest > r.Dest.High {
		return 0, false
	}
	return dest, true
}

// Meta holds the document header.
type Meta struct {
	Version      string
	LastModified string
}

// Table holds redirection rules keyed by source id. It is immutable once
// built and safe for concurrent reads.
type Table struct {
	bySource map[int][]Rule
	Meta     Meta
	rules    []Rule
	column   int
}

func NewTable() *Table {
	return &Table{bySource: make(map[int][]Rule)}
}

// Add appends a rule. Rules of a source id are tried in the order they
// were added.
func (t *Table) Add(r Rule) {
	t.rules = append(t.rules, r)
	t.bySource[r.SourceID] = append(t.bySource[r.SourceID], r)
}

// Rules returns all rules in insertion order.
func (t *Table) Rules() []Rule {
	rules := make([]Rule, len(t.rules))
	copy(rules, t.rules)
	return rules
}

// Column is the id column the table was read with.
func (t *Table) Column() int {
	return t.column
}

func (t *Table) Len() int {
	return len(t.rules)
}

// HasSource reports whether any rule redirects from id.
func (t *Table) HasSource(id int) bool {
	return len(t.bySource[id]) > 0
}

func (t *Table) findRange(id, n int) (int, int, bool) {
	for i := range t.bySource[id] {
		r := &t.bySource[id][i]
		if dest, ok := r.find(n); ok {
			return r.DestID, dest, true
		}
	}
	return 0, 0, false
}

// Search redirects the requested range of id. Both ends of a multi-episode
// range must land on the same destination id. Nothing is returned when no
// rule covers the range.
func (t *Table) Search(id int, requested anime.NumberRange) (int, anime.NumberRange, bool) {
	if t == nil || requested.Low <= 0 {
		return anime.IDUnknown, anime.NumberRange{}, false
	}

	destID, low, ok := t.findRange(id, requested.Low)
	if !ok {
		return anime.IDUnknown, anime.NumberRange{}, false
	}

	high := low
	if requested.IsRange() {
		highID, h, ok := t.findRange(id, requested.High)
		if !ok || highID != destID {
			return anime.IDUnknown, anime.NumberRange{}, false
		}
		high = h
	}

	return destID, anime.NumberRange{Low: low, High: high}, true
}
