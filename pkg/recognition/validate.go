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
	"errors"
	"strings"

	"github.com/ZaparooProject/anitrack/pkg/anime"
	"github.com/ZaparooProject/anitrack/pkg/recognition/parser"
)

var (
	ErrNotAiredYet        = errors.New("anime has not aired yet")
	ErrYearOutOfRange     = errors.New("release year is outside the airing period")
	ErrNonEpisodeType     = errors.New("release is not an episode")
	ErrInvalidEpisode     = errors.New("episode number is out of range")
	ErrUnsupportedRelease = errors.New("release is an audio file")
)

// MatchOptions select which checks an identified item must pass.
type MatchOptions struct {
	// AllowSequels redirects episode numbers past the end of a series
	// through the relations table.
	AllowSequels       bool
	CheckAiringDate    bool
	CheckAnimeType     bool
	CheckEpisodeNumber bool
	// ParsePath and StreamingMedia are passed to the tokenizer when the
	// episode has no title yet.
	ParsePath      bool
	StreamingMedia bool
}

// DefaultMatchOptions enables every check and sequel redirection.
func DefaultMatchOptions() MatchOptions {
	return MatchOptions{
		AllowSequels:       true,
		CheckAiringDate:    true,
		CheckAnimeType:     true,
		CheckEpisodeNumber: true,
	}
}

// validate checks ep against item. The checks run in a fixed order so
// that ErrInvalidEpisode is only returned when everything else passed.
func (e *Engine) validate(ep *anime.Episode, item *anime.Item, opts MatchOptions) error {
	if opts.CheckAiringDate {
		if !anime.IsAiredYet(item, e.clock.Now()) {
			return ErrNotAiredYet
		}
		if !isValidYear(ep.Year, item) {
			return ErrYearOutOfRange
		}
	}
	if opts.CheckAnimeType {
		if !IsValidAnimeType(ep) {
			return ErrNonEpisodeType
		}
		if IsAudioFileExtension(ep.FileExtension) {
			return ErrUnsupportedRelease
		}
	}
	if opts.CheckEpisodeNumber && !isValidEpisode(ep, item) {
		return ErrInvalidEpisode
	}
	return nil
}

func isValidYear(year int, item *anime.Item) bool {
	if year == 0 || !item.DateStart.IsValid() {
		return true
	}
	if year < item.DateStart.Year {
		return false
	}
	return !item.DateEnd.IsValid() || year <= item.DateEnd.Year
}

func isValidEpisode(ep *anime.Episode, item *anime.Item) bool {
	switch {
	case !anime.IsValidEpisodeCount(item.EpisodeCount):
		return true
	case ep.EpisodeNumber.IsEmpty():
		// Without an extension the release is a folder or torrent of the
		// whole series.
		return item.EpisodeCount == 1 || ep.FileExtension == ""
	case ep.FileExtension == "" && IsBatchRelease(ep):
		return true
	case ep.EpisodeNumber.IsRange():
		// Batches may run past the end to include extras.
		return anime.IsValidEpisodeNumber(ep.EpisodeNumber.Low, item.EpisodeCount)
	default:
		return anime.IsValidEpisodeNumber(ep.Number(), item.EpisodeCount)
	}
}

// IsValidAnimeType reports whether ep is an episode rather than an
// opening, ending, preview or similar extra.
func IsValidAnimeType(ep *anime.Episode) bool {
	return !parser.IsNonEpisodeType(ep.AnimeType)
}

// IsValidFileExtension reports whether ext is empty or a video container.
func IsValidFileExtension(ext string) bool {
	return ext == "" || parser.IsVideoExtension(strings.TrimPrefix(ext, "."))
}

func IsAudioFileExtension(ext string) bool {
	return parser.IsAudioExtension(strings.TrimPrefix(ext, "."))
}

// IsBatchRelease reports whether ep is a batch torrent or folder rather
// than a single file. Volumes are always batches.
func IsBatchRelease(ep *anime.Episode) bool {
	if !ep.VolumeNumber.IsEmpty() {
		return true
	}
	return ep.FileExtension == "" && (ep.HasReleaseInfo("batch") || ep.HasReleaseInfo("complete"))
}

// IsValidEpisodeNumber reports whether number fits a series of total
// episodes. A total of 0 means unknown.
func IsValidEpisodeNumber(number, total int) bool {
	return anime.IsValidEpisodeNumber(number, total)
}

// Parse splits raw into ep. It reports whether a title was found.
func Parse(raw string, opts parser.Options, ep *anime.Episode) bool {
	parsed, ok := parser.Parse(raw, opts)
	*ep = parsed
	return ok
}
