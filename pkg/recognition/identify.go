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

package recognition

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"

	"github.com/ZaparooProject/anitrack/pkg/anime"
	"github.com/ZaparooProject/anitrack/pkg/recognition/matcher"
	"github.com/ZaparooProject/anitrack/pkg/recognition/normalize"
	"github.com/ZaparooProject/anitrack/pkg/recognition/parser"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type resolution struct {
	number anime.NumberRange
	// source is the item the title matched, id the item the episode
	// belongs to after redirection.
	source int
	id     int
}

// Identify resolves ep to a library item and returns its id, or
// anime.IDUnknown. On success ep is updated with the parsed fields, the
// matched id, its lookup key in CleanTitle and the episode number after
// sequel redirection. On failure ep is left untouched. With giveScore set,
// the candidate scores are kept for GetScores.
func (e *Engine) Identify(ep *anime.Episode, giveScore bool, opts MatchOptions) int {
	if giveScore {
		e.setScores(nil)
	}

	work := *ep
	if work.Title == "" && work.CleanTitle == "" {
		if work.FileName == "" {
			return anime.IDUnknown
		}
		if !parser.Fill(&work, parserOptions(opts)) {
			log.Debug().Str("input", work.FileName).Msg("no title found in release name")
			return anime.IDUnknown
		}
	}

	normalizedBefore := work.CleanTitle != ""
	source := work.Title
	if normalizedBefore {
		source = work.CleanTitle
	}
	key := normalize.Normalize(source, normalize.ForLookup, normalizedBefore)
	if key == "" {
		return anime.IDUnknown
	}

	e.mu.RLock()
	res, ok := e.match(&work, &key, giveScore, opts)
	e.mu.RUnlock()

	if !ok {
		log.Debug().Str("title", source).Msg("no library item matched")
		return anime.IDUnknown
	}

	work.AnimeID = res.id
	work.EpisodeNumber = res.number
	work.CleanTitle = key
	*ep = work

	log.Debug().
		Str("title", source).
		Int("anime_id", res.id).
		Str("episode", res.number.String()).
		Msg("identified episode")

	return res.id
}

func (e *Engine) match(ep *anime.Episode, key *string, giveScore bool, opts MatchOptions) (resolution, bool) {
	ids := e.present(e.index.LookUp(*key))
	if len(ids) == 0 {
		ids = e.lookUpNumbered(ep, key)
	}

	switch len(ids) {
	case 0:
		return e.fuzzy(ep, giveScore, opts)
	case 1:
		if giveScore {
			e.setScores(matcher.Scores{{ID: ids[0], Value: 1}})
		}
		item, ok := e.lib.Find(ids[0])
		if !ok {
			return resolution{}, false
		}
		return e.check(ep, &item, opts)
	default:
		return e.disambiguate(ep, ids, giveScore, opts)
	}
}

// lookUpNumbered retries the lookup with the episode number appended to
// the title, for movies like "Evangelion 3" where the parser took the
// number for an episode. Only single-episode items are accepted, and the
// number becomes part of the title.
func (e *Engine) lookUpNumbered(ep *anime.Episode, key *string) []int {
	if ep.EpisodeNumber.IsEmpty() || ep.EpisodeNumber.IsRange() {
		return nil
	}
	number := strconv.Itoa(ep.Number())
	numbered := *key + number

	var ids []int
	for _, id := range e.present(e.index.LookUp(numbered)) {
		if item, ok := e.lib.Find(id); ok && item.EpisodeCount == 1 {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	*key = numbered
	if ep.Title != "" {
		ep.Title += " " + number
	}
	ep.EpisodeNumber = anime.NumberRange{}
	return ids
}

// fuzzy scores every item that passes validation and accepts the best one
// if it is confident enough. Sequel redirection is not attempted.
func (e *Engine) fuzzy(ep *anime.Episode, giveScore bool, opts MatchOptions) (resolution, bool) {
	candidates := e.candidates(e.store.IDs(), func(item *anime.Item) bool {
		return e.validate(ep, item, opts) == nil
	})
	scores := matcher.Score(query(ep), candidates)
	if giveScore {
		e.setScores(scores)
	}

	id, ok := scores.Best(e.threshold)
	if !ok {
		return resolution{}, false
	}
	return resolution{source: id, id: id, number: ep.EpisodeNumber}, true
}

// disambiguate validates every exact hit and scores the survivors. Equal
// scores go to the lowest id.
func (e *Engine) disambiguate(
	ep *anime.Episode,
	ids []int,
	giveScore bool,
	opts MatchOptions,
) (resolution, bool) {
	valid := make([]resolution, 0, len(ids))
	for _, id := range ids {
		item, ok := e.lib.Find(id)
		if !ok {
			continue
		}
		if res, ok := e.check(ep, &item, opts); ok {
			valid = append(valid, res)
		}
	}

	switch len(valid) {
	case 0:
		return resolution{}, false
	case 1:
		if giveScore {
			e.setScores(matcher.Scores{{ID: valid[0].source, Value: 1}})
		}
		return valid[0], true
	}

	sources := make([]int, len(valid))
	for i := range valid {
		sources[i] = valid[i].source
	}
	scores := matcher.Score(query(ep), e.candidates(sources, nil))
	if giveScore {
		e.setScores(scores)
	}

	for _, s := range scores {
		for _, res := range valid {
			if res.source == s.ID {
				return res, true
			}
		}
	}
	return valid[0], true
}

// check validates ep against item, redirecting to a sequel when the
// episode number is past the end of item.
func (e *Engine) check(ep *anime.Episode, item *anime.Item, opts MatchOptions) (resolution, bool) {
	err := e.validate(ep, item, opts)
	if err == nil {
		return resolution{source: item.ID, id: item.ID, number: ep.EpisodeNumber}, true
	}
	if !errors.Is(err, ErrInvalidEpisode) || !opts.AllowSequels {
		log.Debug().Err(err).Int("anime_id", item.ID).Msg("candidate rejected")
		return resolution{}, false
	}

	if ep.EpisodeNumber.IsEmpty() {
		log.Debug().Int("anime_id", item.ID).Msg("release has no episode number for a multi-episode series")
		return resolution{}, false
	}

	destID, dest, ok := e.relations.Search(item.ID, ep.EpisodeNumber)
	if !ok {
		log.Debug().
			Int("anime_id", item.ID).
			Str("episode", ep.EpisodeNumber.String()).
			Msg("episode number out of range and no relation applies")
		return resolution{}, false
	}

	redirected := *ep
	redirected.EpisodeNumber = dest
	if destItem, found := e.lib.Find(destID); found {
		if err := e.validate(&redirected, &destItem, opts); err != nil {
			log.Debug().Err(err).Int("anime_id", destID).Msg("redirected candidate rejected")
			return resolution{}, false
		}
	}

	log.Debug().
		Int("from_id", item.ID).
		Str("from_episode", ep.EpisodeNumber.String()).
		Int("to_id", destID).
		Str("to_episode", dest.String()).
		Msg("redirected episode to sequel")

	return resolution{source: item.ID, id: destID, number: dest}, true
}

func parserOptions(opts MatchOptions) parser.Options {
	return parser.Options{
		ParsePath:      opts.ParsePath,
		StreamingMedia: opts.StreamingMedia,
	}
}

func query(ep *anime.Episode) matcher.Query {
	title := ep.Title
	if title == "" {
		title = ep.CleanTitle
	}
	return matcher.NewQuery(title, ep.Year, anime.ParseSeriesType(ep.AnimeType))
}

// Result is the outcome for one input of IdentifyAll.
type Result struct {
	Input   string
	Episode anime.Episode
	AnimeID int
}

// IdentifyAll identifies every input concurrently. Results keep the order
// of inputs. It stops early and returns an error if ctx is canceled.
func (e *Engine) IdentifyAll(ctx context.Context, inputs []string, opts MatchOptions) ([]Result, error) {
	results := make([]Result, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, input := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ep := anime.NewEpisode(input)
			id := e.Identify(&ep, false, opts)
			results[i] = Result{Input: input, Episode: ep, AnimeID: id}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to identify releases: %w", err)
	}
	return results, nil
}
