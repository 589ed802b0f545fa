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

package validation

import (
	"testing"

	"github.com/ZaparooProject/anitrack/pkg/anime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTitle(t *testing.T) {
	t.Parallel()

	type testStruct struct {
		Title string `validate:"title"`
	}

	tests := []struct {
		name      string
		value     string
		wantError bool
	}{
		{name: "plain", value: "Example Show"},
		{name: "japanese", value: "進撃の巨人"},
		{name: "empty", value: "", wantError: true},
		{name: "blank", value: "   ", wantError: true},
		{name: "control character", value: "Example\x00Show", wantError: true},
		{name: "tab", value: "Example\tShow", wantError: true},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := v.Validate(&testStruct{Title: tt.value})
			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "non-empty title")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateItem(t *testing.T) {
	t.Parallel()

	valid := anime.Item{
		ID:           42,
		Title:        "Example Show",
		EpisodeCount: 12,
		AiringStatus: anime.StatusFinishedAiring,
		Type:         anime.TypeTV,
		DateStart:    anime.Date{Year: 2020, Month: 4},
		DateEnd:      anime.Date{Year: 2020, Month: 6},
	}

	tests := []struct {
		modify  func(*anime.Item)
		name    string
		wantTag string
	}{
		{name: "valid", modify: func(*anime.Item) {}},
		{name: "missing id", modify: func(i *anime.Item) { i.ID = 0 }, wantTag: "gt"},
		{name: "negative episodes", modify: func(i *anime.Item) { i.EpisodeCount = -1 }, wantTag: "gte"},
		{name: "unknown type", modify: func(i *anime.Item) { i.Type = 42 }, wantTag: "lte"},
		{name: "blank title", modify: func(i *anime.Item) { i.Title = " " }, wantTag: "title"},
		{
			name:    "ends before start",
			modify:  func(i *anime.Item) { i.DateEnd = anime.Date{Year: 2019} },
			wantTag: "dateorder",
		},
		{name: "open end", modify: func(i *anime.Item) { i.DateEnd = anime.Date{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			item := valid
			tt.modify(&item)
			err := DefaultValidator.Validate(item)
			if tt.wantTag == "" {
				assert.NoError(t, err)
				return
			}

			var ve *Error
			require.ErrorAs(t, err, &ve)
			require.Len(t, ve.Fields, 1)
			assert.Equal(t, tt.wantTag, ve.Fields[0].Tag)
		})
	}
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "validation failed", (&Error{}).Error())
	assert.Equal(t, "a; b", (&Error{Fields: []FieldError{{Message: "a"}, {Message: "b"}}}).Error())
}
