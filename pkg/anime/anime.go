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

// Package anime defines the library and episode records shared by the
// recognition engine, the library store and the command line tools.
package anime

import (
	"strconv"
	"strings"
)

// IDUnknown is the identifier returned when no library item matches.
const IDUnknown = 0

type SeriesType int

const (
	TypeUnknown SeriesType = iota
	TypeTV
	TypeOVA
	TypeMovie
	TypeSpecial
	TypeONA
	TypeMusic
)

var seriesTypeNames = map[SeriesType]string{
	TypeUnknown: "Unknown",
	TypeTV:      "TV",
	TypeOVA:     "OVA",
	TypeMovie:   "Movie",
	TypeSpecial: "Special",
	TypeONA:     "ONA",
	TypeMusic:   "Music",
}

func (t SeriesType) String() string {
	if name, ok := seriesTypeNames[t]; ok {
		return name
	}
	return seriesTypeNames[TypeUnknown]
}

// ParseSeriesType maps a release keyword or a stored type name to a
// SeriesType. Unrecognized values return TypeUnknown.
func ParseSeriesType(s string) SeriesType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TV":
		return TypeTV
	case "OVA", "OAD", "OAV":
		return TypeOVA
	case "MOVIE", "GEKIJOUBAN":
		return TypeMovie
	case "SPECIAL", "SPECIALS", "SP":
		return TypeSpecial
	case "ONA":
		return TypeONA
	case "MUSIC":
		return TypeMusic
	default:
		return TypeUnknown
	}
}

type AiringStatus int

const (
	StatusUnknown AiringStatus = iota
	StatusFinishedAiring
	StatusCurrentlyAiring
	StatusNotYetAired
)

var airingStatusNames = map[AiringStatus]string{
	StatusUnknown:         "unknown",
	StatusFinishedAiring:  "finished",
	StatusCurrentlyAiring: "airing",
	StatusNotYetAired:     "upcoming",
}

func (s AiringStatus) String() string {
	if name, ok := airingStatusNames[s]; ok {
		return name
	}
	return airingStatusNames[StatusUnknown]
}

// ParseAiringStatus is the inverse of AiringStatus.String, ignoring case.
func ParseAiringStatus(s string) AiringStatus {
	s = strings.ToLower(strings.TrimSpace(s))
	for status, name := range airingStatusNames {
		if name == s {
			return status
		}
	}
	return StatusUnknown
}

// NumberRange is an inclusive range of episode or volume numbers. The zero
// value means no number is present; a single number N is {N, N}.
type NumberRange struct {
	Low  int
	High int
}

// SingleNumber returns the range holding only n.
func SingleNumber(n int) NumberRange {
	return NumberRange{Low: n, High: n}
}

func (r NumberRange) IsEmpty() bool {
	return r.Low == 0 && r.High == 0
}

// IsRange reports whether the range spans more than one number.
func (r NumberRange) IsRange() bool {
	return r.High > r.Low
}

func (r NumberRange) String() string {
	switch {
	case r.IsEmpty():
		return ""
	case r.IsRange():
		return strconv.Itoa(r.Low) + "-" + strconv.Itoa(r.High)
	default:
		return strconv.Itoa(r.Low)
	}
}

// Episode is the transient record produced for a single recognition
// request. Fields left empty by the caller are filled by the tokenizer and
// AnimeID and CleanTitle are set by the engine on a successful match.
type Episode struct {
	FileName        string
	Folder          string
	Title           string
	CleanTitle      string
	EpisodeTitle    string
	ReleaseGroup    string
	VideoResolution string
	Checksum        string
	FileExtension   string
	AnimeType       string
	AudioTerms      []string
	VideoTerms      []string
	Extras          []string
	ReleaseInfo     []string
	EpisodeNumber   NumberRange
	VolumeNumber    NumberRange
	AnimeID         int
	ReleaseVersion  int
	Year            int
	Season          int
	Processed       bool
}

// NewEpisode returns an episode for the given raw file name or title.
func NewEpisode(fileName string) Episode {
	return Episode{
		FileName:       fileName,
		ReleaseVersion: 1,
	}
}

// Number returns the low end of the episode number, or 0.
func (e *Episode) Number() int {
	return e.EpisodeNumber.Low
}

// HasReleaseInfo reports whether the release info contains the keyword,
// ignoring case.
func (e *Episode) HasReleaseInfo(keyword string) bool {
	for _, info := range e.ReleaseInfo {
		if strings.EqualFold(info, keyword) {
			return true
		}
	}
	return false
}

// Item is a library entry: an anime series with all of its known titles.
type Item struct {
	DateStart     Date
	DateEnd       Date
	Title         string `validate:"title"`
	EnglishTitle  string
	JapaneseTitle string
	Synonyms      []string
	UserSynonyms  []string
	ID            int          `validate:"gt=0"`
	EpisodeCount  int          `validate:"gte=0"`
	EpisodeLength int          `validate:"gte=0"`
	AiringStatus  AiringStatus `validate:"gte=0,lte=3"`
	Type          SeriesType   `validate:"gte=0,lte=6"`
}

// AlternativeTitles returns the English and Japanese titles followed by
// the synonyms, skipping empty values.
func (i *Item) AlternativeTitles() []string {
	titles := make([]string, 0, len(i.Synonyms)+2)
	if i.EnglishTitle != "" {
		titles = append(titles, i.EnglishTitle)
	}
	if i.JapaneseTitle != "" {
		titles = append(titles, i.JapaneseTitle)
	}
	for _, s := range i.Synonyms {
		if s != "" {
			titles = append(titles, s)
		}
	}
	return titles
}

// AllTitles returns every title of the item, main title first.
func (i *Item) AllTitles() []string {
	titles := make([]string, 0, len(i.Synonyms)+len(i.UserSynonyms)+3)
	if i.Title != "" {
		titles = append(titles, i.Title)
	}
	titles = append(titles, i.AlternativeTitles()...)
	for _, s := range i.UserSynonyms {
		if s != "" {
			titles = append(titles, s)
		}
	}
	return titles
}

func IsValidID(id int) bool {
	return id > IDUnknown
}

func IsValidEpisodeCount(count int) bool {
	return count > 0
}

// IsValidEpisodeNumber reports whether number can belong to a series with
// total episodes. A total of 0 means the length is unknown and any positive
// number is accepted.
func IsValidEpisodeNumber(number, total int) bool {
	if number < 1 {
		return false
	}
	return !IsValidEpisodeCount(total) || number <= total
}
