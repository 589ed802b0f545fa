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

package librarydb

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ZaparooProject/anitrack/pkg/anime"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// titleSeparator joins multiple synonyms in a single CSV column.
const titleSeparator = ";"

// CSVEntry is one row of a library import or export file.
type CSVEntry struct {
	Title         string `csv:"title"`
	EnglishTitle  string `csv:"english_title"`
	JapaneseTitle string `csv:"japanese_title"`
	Synonyms      string `csv:"synonyms"`
	UserSynonyms  string `csv:"user_synonyms"`
	Type          string `csv:"type"`
	Status        string `csv:"status"`
	DateStart     string `csv:"date_start"`
	DateEnd       string `csv:"date_end"`
	ID            int    `csv:"id"`
	EpisodeCount  int    `csv:"episodes"`
	EpisodeLength int    `csv:"episode_length"`
}

func splitTitles(s string) []string {
	var titles []string
	for _, t := range strings.Split(s, titleSeparator) {
		if t = strings.TrimSpace(t); t != "" {
			titles = append(titles, t)
		}
	}
	return titles
}

// Item converts the row to a library item.
func (e *CSVEntry) Item() (anime.Item, error) {
	start, err := anime.ParseDate(strings.TrimSpace(e.DateStart))
	if err != nil {
		return anime.Item{}, fmt.Errorf("item %d: %w", e.ID, err)
	}
	end, err := anime.ParseDate(strings.TrimSpace(e.DateEnd))
	if err != nil {
		return anime.Item{}, fmt.Errorf("item %d: %w", e.ID, err)
	}
	return anime.Item{
		ID:            e.ID,
		Title:         strings.TrimSpace(e.Title),
		EnglishTitle:  strings.TrimSpace(e.EnglishTitle),
		JapaneseTitle: strings.TrimSpace(e.JapaneseTitle),
		Synonyms:      splitTitles(e.Synonyms),
		UserSynonyms:  splitTitles(e.UserSynonyms),
		Type:          anime.ParseSeriesType(e.Type),
		AiringStatus:  anime.ParseAiringStatus(e.Status),
		EpisodeCount:  e.EpisodeCount,
		EpisodeLength: e.EpisodeLength,
		DateStart:     start,
		DateEnd:       end,
	}, nil
}

// NewCSVEntry converts a library item to a CSV row.
func NewCSVEntry(item *anime.Item) CSVEntry {
	return CSVEntry{
		ID:            item.ID,
		Title:         item.Title,
		EnglishTitle:  item.EnglishTitle,
		JapaneseTitle: item.JapaneseTitle,
		Synonyms:      strings.Join(item.Synonyms, titleSeparator),
		UserSynonyms:  strings.Join(item.UserSynonyms, titleSeparator),
		Type:          item.Type.String(),
		Status:        item.AiringStatus.String(),
		EpisodeCount:  item.EpisodeCount,
		EpisodeLength: item.EpisodeLength,
		DateStart:     item.DateStart.String(),
		DateEnd:       item.DateEnd.String(),
	}
}

// ImportCSV reads library rows from r and stores them in one transaction,
// returning the number of items written.
func (db *LibraryDB) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	entries := make([]CSVEntry, 0)
	if err := gocsv.Unmarshal(r, &entries); err != nil {
		return 0, fmt.Errorf("failed to unmarshal library CSV: %w", err)
	}

	items := make([]anime.Item, 0, len(entries))
	for i := range entries {
		item, err := entries[i].Item()
		if err != nil {
			return 0, fmt.Errorf("failed to read library CSV row %d: %w", i+1, err)
		}
		items = append(items, item)
	}

	if err := db.UpsertAll(ctx, items); err != nil {
		return 0, err
	}

	log.Info().Int("items", len(items)).Msg("imported library CSV")
	return len(items), nil
}

// ImportCSVFile imports the CSV file at path.
func (db *LibraryDB) ImportCSVFile(ctx context.Context, fs afero.Fs, path string) (int, error) {
	file, err := fs.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open library CSV: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()
	return db.ImportCSV(ctx, file)
}

// ExportCSV writes every stored item to w with a header row.
func (db *LibraryDB) ExportCSV(ctx context.Context, w io.Writer) error {
	items, err := db.All(ctx)
	if err != nil {
		return err
	}

	entries := make([]CSVEntry, 0, len(items))
	for i := range items {
		entries = append(entries, NewCSVEntry(&items[i]))
	}

	if err := gocsv.Marshal(&entries, w); err != nil {
		return fmt.Errorf("failed to marshal library CSV: %w", err)
	}
	return nil
}
