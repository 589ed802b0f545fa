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

// Package recognition identifies library items from release names and
// free-text titles.
//
// An Engine owns a title index and a trigram store built from a library
// snapshot, plus an optional relations table for sequel redirection. All
// methods are safe for concurrent use.
package recognition

import (
	"fmt"
	"io"

	"github.com/ZaparooProject/anitrack/pkg/anime"
	"github.com/ZaparooProject/anitrack/pkg/helpers/syncutil"
	"github.com/ZaparooProject/anitrack/pkg/recognition/matcher"
	"github.com/ZaparooProject/anitrack/pkg/recognition/normalize"
	"github.com/ZaparooProject/anitrack/pkg/recognition/relations"
	"github.com/ZaparooProject/anitrack/pkg/recognition/titles"
	"github.com/ZaparooProject/anitrack/pkg/recognition/trigrams"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// DefaultConfidenceThreshold is the score a fuzzy match must reach when no
// title matched exactly.
const DefaultConfidenceThreshold = 0.95

// Engine is the recognition facade. The zero value is not usable; create
// engines with NewEngine.
type Engine struct {
	lib       anime.Library
	clock     clockwork.Clock
	index     *titles.Index
	store     *trigrams.Store
	relations *relations.Table
	stale     map[int]struct{}
	scores    matcher.Scores
	threshold float64
	column    int
	mu        syncutil.RWMutex
	writeMu   syncutil.Mutex
	staleMu   syncutil.Mutex
	scoresMu  syncutil.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used for airing date checks.
func WithClock(clock clockwork.Clock) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithConfidenceThreshold sets the minimum fuzzy match score.
func WithConfidenceThreshold(threshold float64) Option {
	return func(e *Engine) {
		e.threshold = threshold
	}
}

// WithRelations sets the initial relations table.
func WithRelations(table *relations.Table) Option {
	return func(e *Engine) {
		e.relations = table
	}
}

// WithServiceColumn selects the id column used when reading relations
// documents.
func WithServiceColumn(column int) Option {
	return func(e *Engine) {
		e.column = column
	}
}

// NewEngine creates an engine for lib. Titles are not indexed until
// InitializeTitles is called.
func NewEngine(lib anime.Library, opts ...Option) *Engine {
	e := &Engine{
		lib:       lib,
		clock:     clockwork.NewRealClock(),
		index:     titles.NewIndex(),
		store:     trigrams.NewStore(),
		relations: relations.NewTable(),
		stale:     make(map[int]struct{}),
		threshold: DefaultConfidenceThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// InitializeTitles rebuilds the title index and trigram store from the
// current library contents.
func (e *Engine) InitializeTitles() {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	items := e.lib.Items()
	index := titles.Initialize(items)
	store := trigrams.NewStore()
	for i := range items {
		store.Set(&items[i])
	}

	e.mu.Lock()
	e.index = index
	e.store = store
	e.mu.Unlock()

	e.staleMu.Lock()
	clear(e.stale)
	e.staleMu.Unlock()

	log.Info().
		Int("items", len(items)).
		Int("main_titles", index.Len(titles.TierMain)).
		Int("alternative_titles", index.Len(titles.TierAlternative)).
		Int("user_titles", index.Len(titles.TierUser)).
		Msg("initialized title index")
}

// UpdateTitles adds the titles of item to the index. With eraseIDs set,
// titles previously indexed for item.ID are dropped first.
func (e *Engine) UpdateTitles(item anime.Item, eraseIDs bool) {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	stale := e.takeStale()

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, id := range stale {
		e.index.Erase(id)
		e.store.Erase(id)
	}
	e.index.Update(&item, eraseIDs)
	e.store.Set(&item)

	log.Debug().Int("anime_id", item.ID).Bool("erase_ids", eraseIDs).Msg("updated titles")
}

// RemoveTitles drops every title of id from the index.
func (e *Engine) RemoveTitles(id int) {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.index.Erase(id)
	e.store.Erase(id)
}

// LookUpTitle returns the ids whose titles normalize to the same lookup
// key as title, from the first index tier that has any. Ids no longer in
// the library are left out.
func (e *Engine) LookUpTitle(title string) []int {
	key := normalize.ForLookupString(title)

	e.mu.RLock()
	ids := e.index.LookUp(key)
	e.mu.RUnlock()

	return e.present(ids)
}

// Search ranks library items for free text: exact title matches first,
// then fuzzy matches by score.
func (e *Engine) Search(text string) []int {
	key := normalize.ForLookupString(text)
	if key == "" {
		return nil
	}

	e.mu.RLock()
	exact := e.index.LookUp(key)
	candidates := e.candidates(e.store.IDs(), nil)
	e.mu.RUnlock()

	results := e.present(exact)
	seen := make(map[int]struct{}, len(results))
	for _, id := range results {
		seen[id] = struct{}{}
	}

	scores := matcher.Score(matcher.NewQuery(text, 0, anime.TypeUnknown), candidates)
	for _, s := range scores {
		if _, ok := seen[s.ID]; ok {
			continue
		}
		seen[s.ID] = struct{}{}
		results = append(results, s.ID)
	}
	return results
}

// GetScores returns the scores recorded by the last Identify call that
// asked for them.
func (e *Engine) GetScores() matcher.Scores {
	e.scoresMu.Lock()
	defer e.scoresMu.Unlock()
	scores := make(matcher.Scores, len(e.scores))
	copy(scores, e.scores)
	return scores
}

func (e *Engine) setScores(scores matcher.Scores) {
	e.scoresMu.Lock()
	defer e.scoresMu.Unlock()
	e.scores = scores
}

// ReadRelations replaces the relations table with the rules read from r.
// The current table is kept when the document cannot be loaded.
func (e *Engine) ReadRelations(r io.Reader) error {
	table, err := relations.Read(r, e.column)
	if err != nil {
		return fmt.Errorf("failed to read relations: %w", err)
	}
	e.setRelations(table)
	return nil
}

// ReadRelationsFile is ReadRelations for a file on fs.
func (e *Engine) ReadRelationsFile(fs afero.Fs, path string) error {
	table, err := relations.ReadFile(fs, path, e.column)
	if err != nil {
		return fmt.Errorf("failed to read relations file: %w", err)
	}
	e.setRelations(table)
	return nil
}

func (e *Engine) setRelations(table *relations.Table) {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	e.mu.Lock()
	e.relations = table
	e.mu.Unlock()

	log.Info().
		Int("rules", table.Len()).
		Str("version", table.Meta.Version).
		Msg("loaded anime relations")
}

// Relations returns the current relations table. It must not be modified.
func (e *Engine) Relations() *relations.Table {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.relations
}

// SearchEpisodeRedirection remaps requested episodes of id through the
// relations table. It reports false when no rule covers the range.
func (e *Engine) SearchEpisodeRedirection(id int, requested anime.NumberRange) (int, anime.NumberRange, bool) {
	return e.Relations().Search(id, requested)
}

// present filters out ids that are no longer in the library and queues
// them for removal on the next index update.
func (e *Engine) present(ids []int) []int {
	if len(ids) == 0 {
		return nil
	}
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := e.lib.Find(id); ok {
			out = append(out, id)
			continue
		}
		log.Warn().Int("anime_id", id).Msg("title index references missing library item")
		e.staleMu.Lock()
		e.stale[id] = struct{}{}
		e.staleMu.Unlock()
	}
	return out
}

func (e *Engine) takeStale() []int {
	e.staleMu.Lock()
	defer e.staleMu.Unlock()
	ids := make([]int, 0, len(e.stale))
	for id := range e.stale {
		ids = append(ids, id)
	}
	clear(e.stale)
	return ids
}

// candidates builds matcher input for ids found in the library. If keep is
// set, items it rejects are skipped. Must be called with mu held.
func (e *Engine) candidates(ids []int, keep func(*anime.Item) bool) []matcher.Candidate {
	out := make([]matcher.Candidate, 0, len(ids))
	for _, id := range ids {
		item, ok := e.lib.Find(id)
		if !ok {
			continue
		}
		if keep != nil && !keep(&item) {
			continue
		}
		out = append(out, matcher.Candidate{
			ID:       id,
			Variants: e.store.Variants(id),
			Year:     item.DateStart.Year,
			Type:     item.Type,
		})
	}
	return out
}
