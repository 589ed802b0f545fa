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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidEpisodeNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		number int
		total  int
		want   bool
	}{
		{name: "within total", number: 5, total: 12, want: true},
		{name: "last episode", number: 12, total: 12, want: true},
		{name: "past total", number: 13, total: 12, want: false},
		{name: "zero number", number: 0, total: 12, want: false},
		{name: "negative number", number: -1, total: 0, want: false},
		{name: "unknown total", number: 5, total: 0, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsValidEpisodeNumber(tt.number, tt.total))
		})
	}
}

func TestParseSeriesType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, TypeTV, ParseSeriesType("tv"))
	assert.Equal(t, TypeOVA, ParseSeriesType("OAD"))
	assert.Equal(t, TypeMovie, ParseSeriesType("Gekijouban"))
	assert.Equal(t, TypeSpecial, ParseSeriesType("SP"))
	assert.Equal(t, TypeUnknown, ParseSeriesType("NCOP"))
	assert.Equal(t, "OVA", TypeOVA.String())
	assert.Equal(t, "Unknown", SeriesType(99).String())
}

func TestNumberRange(t *testing.T) {
	t.Parallel()

	assert.True(t, NumberRange{}.IsEmpty())
	assert.False(t, SingleNumber(5).IsRange())
	assert.True(t, NumberRange{Low: 1, High: 12}.IsRange())
	assert.Equal(t, "5", SingleNumber(5).String())
	assert.Equal(t, "1-12", NumberRange{Low: 1, High: 12}.String())
	assert.Empty(t, NumberRange{}.String())
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2024-04-07")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2024, Month: 4, Day: 7}, d)
	assert.Equal(t, "2024-04-07", d.String())

	d, err = ParseDate("2019")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2019}, d)
	assert.Equal(t, "2019", d.String())

	d, err = ParseDate("")
	require.NoError(t, err)
	assert.False(t, d.IsValid())

	_, err = ParseDate("soon")
	require.Error(t, err)

	_, err = ParseDate("2020-13-01")
	require.Error(t, err)
}

func TestIsAiredYet(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.April, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		item Item
		want bool
	}{
		{
			name: "started last week",
			item: Item{DateStart: Date{Year: 2024, Month: 4, Day: 3}},
			want: true,
		},
		{
			name: "starts next week",
			item: Item{DateStart: Date{Year: 2024, Month: 4, Day: 17}},
			want: false,
		},
		{
			name: "month only assumes end of month",
			item: Item{DateStart: Date{Year: 2024, Month: 4}},
			want: false,
		},
		{
			name: "previous year only",
			item: Item{DateStart: Date{Year: 2023}},
			want: true,
		},
		{
			name: "no date and not yet aired",
			item: Item{AiringStatus: StatusNotYetAired},
			want: false,
		},
		{
			name: "no date and unknown status",
			item: Item{},
			want: true,
		},
		{
			name: "currently airing overrides date",
			item: Item{AiringStatus: StatusCurrentlyAiring, DateStart: Date{Year: 2025}},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsAiredYet(&tt.item, now))
		})
	}
}

func TestIsAiredYetUsesJapanTime(t *testing.T) {
	t.Parallel()

	item := Item{DateStart: Date{Year: 2024, Month: 4, Day: 11}}
	// 2024-04-10 20:00 UTC is already 2024-04-11 in Japan.
	assert.True(t, IsAiredYet(&item, time.Date(2024, time.April, 10, 20, 0, 0, 0, time.UTC)))
	assert.False(t, IsAiredYet(&item, time.Date(2024, time.April, 10, 10, 0, 0, 0, time.UTC)))
}

func TestIsFinishedAiring(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.April, 10, 0, 0, 0, 0, time.UTC)
	assert.True(t, IsFinishedAiring(&Item{DateEnd: Date{Year: 2023, Month: 12, Day: 20}}, now))
	assert.False(t, IsFinishedAiring(&Item{DateEnd: Date{Year: 2024}}, now))
	assert.False(t, IsFinishedAiring(&Item{}, now))
	assert.True(t, IsFinishedAiring(&Item{AiringStatus: StatusFinishedAiring}, now))
}

func TestItemTitles(t *testing.T) {
	t.Parallel()

	item := Item{
		ID:           1,
		Title:        "Shingeki no Kyojin",
		EnglishTitle: "Attack on Titan",
		Synonyms:     []string{"AoT", ""},
		UserSynonyms: []string{"snk"},
	}
	assert.Equal(t, []string{"Attack on Titan", "AoT"}, item.AlternativeTitles())
	assert.Equal(t, []string{"Shingeki no Kyojin", "Attack on Titan", "AoT", "snk"}, item.AllTitles())
}

func TestMemoryLibrary(t *testing.T) {
	t.Parallel()

	lib := NewMemoryLibrary(Item{ID: 3, Title: "C"}, Item{ID: 1, Title: "A"})
	lib.Put(Item{ID: 2, Title: "B"})

	items := lib.Items()
	require.Len(t, items, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{items[0].ID, items[1].ID, items[2].ID})

	item, ok := lib.Find(2)
	require.True(t, ok)
	assert.Equal(t, "B", item.Title)

	assert.True(t, lib.Delete(2))
	assert.False(t, lib.Delete(2))
	_, ok = lib.Find(2)
	assert.False(t, ok)
	assert.Equal(t, 2, lib.Len())
}

func TestEpisodeHelpers(t *testing.T) {
	t.Parallel()

	ep := NewEpisode("[Group] Show - 05.mkv")
	assert.Equal(t, 1, ep.ReleaseVersion)
	ep.EpisodeNumber = SingleNumber(5)
	ep.ReleaseInfo = []string{"Batch"}
	assert.Equal(t, 5, ep.Number())
	assert.True(t, ep.HasReleaseInfo("batch"))
	assert.False(t, ep.HasReleaseInfo("complete"))
}
