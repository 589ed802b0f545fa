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

package parser

import (
	"testing"

	"github.com/ZaparooProject/anitrack/pkg/anime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		opts     Options
		expected anime.Episode
	}{
		{
			name:  "fansub release",
			input: "[Group] Example Show - 05 [720p].mkv",
			expected: anime.Episode{
				Title:           "Example Show",
				ReleaseGroup:    "Group",
				VideoResolution: "720p",
				FileExtension:   "mkv",
				EpisodeNumber:   anime.SingleNumber(5),
			},
		},
		{
			name:  "version and checksum",
			input: "[SubsPlease] Kaguya-sama wa Kokurasetai - 12v2 (1080p) [ABCDEF12].mkv",
			expected: anime.Episode{
				Title:           "Kaguya-sama wa Kokurasetai",
				ReleaseGroup:    "SubsPlease",
				VideoResolution: "1080p",
				Checksum:        "ABCDEF12",
				FileExtension:   "mkv",
				EpisodeNumber:   anime.SingleNumber(12),
				ReleaseVersion:  2,
			},
		},
		{
			name:  "scene release",
			input: "Show.Name.S01E05.1080p.WEB.x264-GRP.mkv",
			expected: anime.Episode{
				Title:           "Show Name",
				ReleaseGroup:    "GRP",
				VideoResolution: "1080p",
				VideoTerms:      []string{"WEB", "x264"},
				FileExtension:   "mkv",
				EpisodeNumber:   anime.SingleNumber(5),
				Season:          1,
			},
		},
		{
			name:  "underscores",
			input: "[Group]_Show_Name_-_03_[BD_720p].mkv",
			expected: anime.Episode{
				Title:           "Show Name",
				ReleaseGroup:    "Group",
				VideoResolution: "720p",
				VideoTerms:      []string{"BD"},
				FileExtension:   "mkv",
				EpisodeNumber:   anime.SingleNumber(3),
			},
		},
		{
			name:  "season kept in title",
			input: "Show Name 2nd Season - 05.mkv",
			expected: anime.Episode{
				Title:         "Show Name 2nd Season",
				FileExtension: "mkv",
				EpisodeNumber: anime.SingleNumber(5),
				Season:        2,
			},
		},
		{
			name:  "episode word",
			input: "Show Name Episode 7",
			opts:  Options{StreamingMedia: true},
			expected: anime.Episode{
				Title:         "Show Name",
				EpisodeNumber: anime.SingleNumber(7),
			},
		},
		{
			name:  "hash number",
			input: "Show Name #04",
			opts:  Options{StreamingMedia: true},
			expected: anime.Episode{
				Title:         "Show Name",
				EpisodeNumber: anime.SingleNumber(4),
			},
		},
		{
			name:  "year",
			input: "[Group] Show Name (2011) - 01 [720p].mkv",
			expected: anime.Episode{
				Title:           "Show Name",
				ReleaseGroup:    "Group",
				VideoResolution: "720p",
				FileExtension:   "mkv",
				EpisodeNumber:   anime.SingleNumber(1),
				Year:            2011,
			},
		},
		{
			name:  "batch",
			input: "[Group] Show Name [01-12] [Batch].mkv",
			expected: anime.Episode{
				Title:         "Show Name",
				ReleaseGroup:  "Group",
				ReleaseInfo:   []string{"Batch"},
				FileExtension: "mkv",
				EpisodeNumber: anime.NumberRange{Low: 1, High: 12},
			},
		},
		{
			name:  "type before number",
			input: "Show OVA - 02.mkv",
			expected: anime.Episode{
				Title:         "Show",
				AnimeType:     "OVA",
				FileExtension: "mkv",
				EpisodeNumber: anime.SingleNumber(2),
			},
		},
		{
			name:  "opening",
			input: "[Group] Show - NCOP [720p].mkv",
			expected: anime.Episode{
				Title:           "Show",
				ReleaseGroup:    "Group",
				AnimeType:       "NCOP",
				VideoResolution: "720p",
				FileExtension:   "mkv",
			},
		},
		{
			name:  "episode title",
			input: "Show - 05 - The Beginning [720p].mkv",
			expected: anime.Episode{
				Title:           "Show",
				EpisodeTitle:    "The Beginning",
				VideoResolution: "720p",
				FileExtension:   "mkv",
				EpisodeNumber:   anime.SingleNumber(5),
			},
		},
		{
			name:  "volume",
			input: "[Group] Show Vol.3 [BD].mkv",
			expected: anime.Episode{
				Title:         "Show",
				ReleaseGroup:  "Group",
				VideoTerms:    []string{"BD"},
				FileExtension: "mkv",
				VolumeNumber:  anime.SingleNumber(3),
			},
		},
		{
			name:  "japanese",
			input: "【Group】進撃の巨人 第05話.mp4",
			expected: anime.Episode{
				Title:         "進撃の巨人",
				ReleaseGroup:  "Group",
				FileExtension: "mp4",
				EpisodeNumber: anime.SingleNumber(5),
			},
		},
		{
			name:  "release info after number",
			input: "Show - 12 END [720p].mkv",
			expected: anime.Episode{
				Title:           "Show",
				ReleaseInfo:     []string{"END"},
				VideoResolution: "720p",
				FileExtension:   "mkv",
				EpisodeNumber:   anime.SingleNumber(12),
			},
		},
		{
			name:  "trailing number",
			input: "Show Name 08.avi",
			expected: anime.Episode{
				Title:         "Show Name",
				FileExtension: "avi",
				EpisodeNumber: anime.SingleNumber(8),
			},
		},
		{
			name:  "ignored strings",
			input: "[Group] Show - 01 [www.example.com].mkv",
			opts:  Options{IgnoredStrings: []string{"[www.example.com]"}},
			expected: anime.Episode{
				Title:         "Show",
				ReleaseGroup:  "Group",
				FileExtension: "mkv",
				EpisodeNumber: anime.SingleNumber(1),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := Parse(tt.input, tt.opts)
			require.True(t, ok)

			want := tt.expected
			want.FileName = tt.input
			if want.ReleaseVersion == 0 {
				want.ReleaseVersion = 1
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestParsePath(t *testing.T) {
	t.Parallel()

	ep, ok := Parse(`/media/anime/Example Show/[Group] Example Show - 05.mkv`, Options{ParsePath: true})
	require.True(t, ok)
	assert.Equal(t, "Example Show", ep.Folder)
	assert.Equal(t, "Example Show", ep.Title)
	assert.Equal(t, 5, ep.Number())

	ep, ok = Parse(`D:\Anime\Example Show S2\05.mkv`, Options{ParsePath: true})
	require.True(t, ok)
	assert.Equal(t, "Example Show S2", ep.Folder)
	assert.Equal(t, "Example Show S2", ep.Title)
	assert.Equal(t, 2, ep.Season)
	assert.Equal(t, anime.SingleNumber(5), ep.EpisodeNumber)

	ep, _ = Parse(`C:\05.mkv`, Options{ParsePath: true})
	assert.Empty(t, ep.Folder)
}

func TestParseNoTitle(t *testing.T) {
	t.Parallel()

	_, ok := Parse("[720p].mkv", Options{})
	assert.False(t, ok)

	_, ok = Parse("", Options{})
	assert.False(t, ok)
}

func TestParseStreamingKeepsDots(t *testing.T) {
	t.Parallel()

	ep, ok := Parse("Dr. Stone - 03", Options{StreamingMedia: true})
	require.True(t, ok)
	assert.Equal(t, "Dr. Stone", ep.Title)
	assert.Empty(t, ep.FileExtension)
}

func TestParseEnclosedTitle(t *testing.T) {
	t.Parallel()

	ep, ok := Parse("[Group][Example Show][05][720p].mkv", Options{})
	require.True(t, ok)
	assert.Equal(t, "Group", ep.ReleaseGroup)
	assert.Equal(t, "Example Show", ep.Title)
	assert.Equal(t, anime.SingleNumber(5), ep.EpisodeNumber)
}

func TestFill(t *testing.T) {
	t.Parallel()

	ep := anime.NewEpisode("[Group] Example Show - 05 [720p].mkv")
	ep.Title = "Custom Title"
	ep.VideoResolution = "1080p"

	require.True(t, Fill(&ep, Options{}))
	assert.Equal(t, "Custom Title", ep.Title)
	assert.Equal(t, "1080p", ep.VideoResolution)
	assert.Equal(t, "Group", ep.ReleaseGroup)
	assert.Equal(t, anime.SingleNumber(5), ep.EpisodeNumber)
	assert.Equal(t, "mkv", ep.FileExtension)
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []token{
		{text: "Group", enclosed: true},
		{text: " Show (unclosed - 01 "},
		{text: "720p", enclosed: true},
	}, tokenize("[Group] Show (unclosed - 01 [720p]"))
}

func TestReplaceDots(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{input: "Show.Name.S01E05.1080p.WEB", expected: "Show Name S01E05 1080p WEB"},
		{input: "Show.Name.05.5.720p", expected: "Show Name 05.5 720p"},
		{input: "Show.2.S01E05", expected: "Show 2 S01E05"},
		{input: "Show.v2.5", expected: "Show v2 5"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, replaceDots(tt.input))
		})
	}
}

func TestExtensions(t *testing.T) {
	t.Parallel()

	assert.True(t, IsVideoExtension("MKV"))
	assert.False(t, IsVideoExtension("txt"))
	assert.True(t, IsAudioExtension("flac"))
	assert.False(t, IsAudioExtension("mkv"))
	assert.True(t, IsNonEpisodeType("NCED"))
	assert.False(t, IsNonEpisodeType("OVA"))
}
