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

package relations

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ZaparooProject/anitrack/pkg/anime"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `# anime relations
::meta
- version: 1.3.0
- last_modified: 2026-01-01
::rules
# Example Show -> Example Show 2nd Season
- 42|1042:13-24 -> 43|1043:1-12
# Long runner with open end
- 100|?:1-? -> ~|~:1-?
- 10863|6547:14-26 -> ~|~:1-13!
- 200|2000:1 -> 201|2001:1
`

func readSample(t *testing.T, column int) *Table {
	t.Helper()
	table, err := Read(strings.NewReader(sampleDocument), column)
	require.NoError(t, err)
	return table
}

func TestRead(t *testing.T) {
	t.Parallel()

	table := readSample(t, 0)
	assert.Equal(t, "1.3.0", table.Meta.Version)
	assert.Equal(t, "2026-01-01", table.Meta.LastModified)
	assert.Equal(t, 5, table.Len())

	rules := table.Rules()
	assert.Equal(t, Rule{
		SourceID: 42, Source: anime.NumberRange{Low: 13, High: 24},
		DestID: 43, Dest: anime.NumberRange{Low: 1, High: 12},
	}, rules[0])
	assert.Equal(t, Rule{
		SourceID: 100, Source: anime.NumberRange{Low: 1},
		DestID: 100, Dest: anime.NumberRange{Low: 1},
	}, rules[1])
	// The "!" suffix adds the destination redirecting to itself.
	assert.Equal(t, 10863, rules[3].SourceID)
	assert.Equal(t, 10863, rules[3].DestID)
	assert.True(t, table.HasSource(42))
	assert.False(t, table.HasSource(43))
}

func TestReadSecondColumn(t *testing.T) {
	t.Parallel()

	table := readSample(t, 1)
	// The open ended rule has no id in the second column.
	assert.Equal(t, 4, table.Len())

	id, r, ok := table.Search(1042, anime.SingleNumber(15))
	require.True(t, ok)
	assert.Equal(t, 1043, id)
	assert.Equal(t, anime.SingleNumber(3), r)
}

func TestSearch(t *testing.T) {
	t.Parallel()

	table := readSample(t, 0)

	tests := []struct {
		name      string
		requested anime.NumberRange
		id        int
		wantID    int
		want      anime.NumberRange
		wantOK    bool
	}{
		{name: "single episode", id: 42, requested: anime.SingleNumber(15), wantOK: true, wantID: 43, want: anime.SingleNumber(3)},
		{name: "first episode of range", id: 42, requested: anime.SingleNumber(13), wantOK: true, wantID: 43, want: anime.SingleNumber(1)},
		{name: "last episode of range", id: 42, requested: anime.SingleNumber(24), wantOK: true, wantID: 43, want: anime.SingleNumber(12)},
		{name: "below range", id: 42, requested: anime.SingleNumber(12)},
		{name: "above range", id: 42, requested: anime.SingleNumber(25)},
		{name: "multi episode range", id: 42, requested: anime.NumberRange{Low: 13, High: 16}, wantOK: true, wantID: 43, want: anime.NumberRange{Low: 1, High: 4}},
		{name: "range leaving rule", id: 42, requested: anime.NumberRange{Low: 20, High: 26}},
		{name: "unknown id", id: 7, requested: anime.SingleNumber(15)},
		{name: "no number", id: 42, requested: anime.NumberRange{}},
		{name: "open ended rule", id: 100, requested: anime.SingleNumber(500), wantOK: true, wantID: 100, want: anime.SingleNumber(500)},
		{name: "self redirect", id: 10863, requested: anime.SingleNumber(14), wantOK: true, wantID: 10863, want: anime.SingleNumber(1)},
		{name: "single number destination", id: 200, requested: anime.SingleNumber(1), wantOK: true, wantID: 201, want: anime.SingleNumber(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			id, r, ok := table.Search(tt.id, tt.requested)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.want, r)
		})
	}
}

func TestSearchRangeAcrossDestinations(t *testing.T) {
	t.Parallel()

	table := NewTable()
	table.Add(Rule{SourceID: 1, Source: anime.NumberRange{Low: 13, High: 24}, DestID: 2, Dest: anime.NumberRange{Low: 1, High: 12}})
	table.Add(Rule{SourceID: 1, Source: anime.NumberRange{Low: 25, High: 36}, DestID: 3, Dest: anime.NumberRange{Low: 1, High: 12}})

	_, _, ok := table.Search(1, anime.NumberRange{Low: 20, High: 30})
	assert.False(t, ok)

	id, r, ok := table.Search(1, anime.SingleNumber(30))
	require.True(t, ok)
	assert.Equal(t, 3, id)
	assert.Equal(t, anime.SingleNumber(6), r)
}

func TestSearchNilTable(t *testing.T) {
	t.Parallel()

	var table *Table
	_, _, ok := table.Search(1, anime.SingleNumber(1))
	assert.False(t, ok)
}

func TestReadSkipsMalformedRules(t *testing.T) {
	t.Parallel()

	doc := "::rules\n- 1:13-24 -> 2:1-12\n- garbage\n- 3:5-1 -> 4:1\n- ~:1 -> 5:1\n"
	table, err := Read(strings.NewReader(doc), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestReadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{name: "empty", doc: ""},
		{name: "only comments", doc: "# nothing here\n\n"},
		{name: "no valid rules", doc: "::rules\n- nonsense\n- 1:a -> 2:b\n"},
		{name: "meta only", doc: "::meta\n- version: 1.0.0\n"},
		{name: "unknown section", doc: "::other\n- 1:1 -> 2:1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Read(strings.NewReader(tt.doc), 0)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrLoad)
			var loadErr *LoadError
			assert.ErrorAs(t, err, &loadErr)
		})
	}
}

func TestReadOtherColumnOnly(t *testing.T) {
	t.Parallel()

	table, err := Read(strings.NewReader("- ?|5:1-12 -> ?|6:1-12\n"), 0)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestReadFailure(t *testing.T) {
	t.Parallel()

	_, err := Read(failingReader{}, 0)
	require.ErrorIs(t, err, ErrLoad)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/anime-relations.txt", []byte(sampleDocument), 0o600))

	table, err := ReadFile(fs, "/data/anime-relations.txt", 0)
	require.NoError(t, err)
	assert.Equal(t, 5, table.Len())

	_, err = ReadFile(fs, "/data/missing.txt", 0)
	require.ErrorIs(t, err, ErrLoad)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "/data/missing.txt", loadErr.Path)

	require.NoError(t, afero.WriteFile(fs, "/data/empty.txt", nil, 0o600))
	_, err = ReadFile(fs, "/data/empty.txt", 0)
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "/data/empty.txt", loadErr.Path)
}

func TestWriteToRoundTrip(t *testing.T) {
	t.Parallel()

	for _, column := range []int{0, 1} {
		table := readSample(t, column)
		require.Equal(t, column, table.Column())

		var buf bytes.Buffer
		_, err := table.WriteTo(&buf)
		require.NoError(t, err)

		again, err := Read(strings.NewReader(buf.String()), column)
		require.NoError(t, err)
		assert.NotEmpty(t, again.Rules())
		assert.Equal(t, table.Rules(), again.Rules(), "column %d", column)
		assert.Equal(t, table.Meta, again.Meta)
	}

	table := readSample(t, 1)
	var buf bytes.Buffer
	_, err := table.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "- ?|1042:13-24 -> ?|1043:1-12\n")
}
