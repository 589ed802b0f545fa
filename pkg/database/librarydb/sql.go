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
	"database/sql"
	"errors"
	"fmt"

	"github.com/ZaparooProject/anitrack/pkg/anime"
	"github.com/rs/zerolog/log"
)

const (
	titleKindSynonym = "synonym"
	titleKindUser    = "user"
)

const insertItemSQL = `
	insert into Items(
		ID, Title, EnglishTitle, JapaneseTitle, Type, EpisodeCount,
		EpisodeLength, AiringStatus, DateStart, DateEnd
	)
	values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	on conflict(ID) do update set
		Title = excluded.Title,
		EnglishTitle = excluded.EnglishTitle,
		JapaneseTitle = excluded.JapaneseTitle,
		Type = excluded.Type,
		EpisodeCount = excluded.EpisodeCount,
		EpisodeLength = excluded.EpisodeLength,
		AiringStatus = excluded.AiringStatus,
		DateStart = excluded.DateStart,
		DateEnd = excluded.DateEnd;
`

const selectItemsSQL = `
	select
		ID, Title, EnglishTitle, JapaneseTitle, Type, EpisodeCount,
		EpisodeLength, AiringStatus, DateStart, DateEnd
	from Items
`

func sqlUpsertItems(ctx context.Context, db *sql.DB, items []anime.Item) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Warn().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	itemStmt, err := tx.PrepareContext(ctx, insertItemSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare item insert statement: %w", err)
	}
	defer func() {
		if closeErr := itemStmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	titleStmt, err := tx.PrepareContext(ctx,
		`insert into ItemTitles(ItemID, Kind, Title) values (?, ?, ?);`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare title insert statement: %w", err)
	}
	defer func() {
		if closeErr := titleStmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	for i := range items {
		item := &items[i]
		_, err = itemStmt.ExecContext(ctx,
			item.ID,
			item.Title,
			item.EnglishTitle,
			item.JapaneseTitle,
			int(item.Type),
			item.EpisodeCount,
			item.EpisodeLength,
			int(item.AiringStatus),
			item.DateStart.String(),
			item.DateEnd.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert item %d: %w", item.ID, err)
		}

		_, err = tx.ExecContext(ctx, `delete from ItemTitles where ItemID = ?;`, item.ID)
		if err != nil {
			return fmt.Errorf("failed to clear titles of item %d: %w", item.ID, err)
		}

		err = insertTitles(ctx, titleStmt, item.ID, titleKindSynonym, item.Synonyms)
		if err != nil {
			return err
		}
		err = insertTitles(ctx, titleStmt, item.ID, titleKindUser, item.UserSynonyms)
		if err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertTitles(ctx context.Context, stmt *sql.Stmt, id int, kind string, titles []string) error {
	for _, title := range titles {
		if title == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, id, kind, title); err != nil {
			return fmt.Errorf("failed to insert %s title of item %d: %w", kind, id, err)
		}
	}
	return nil
}

func sqlDeleteItem(ctx context.Context, db *sql.DB, id int) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}

	_, err = tx.ExecContext(ctx, `delete from ItemTitles where ItemID = ?;`, id)
	if err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("failed to delete titles of item %d: %w", id, err)
	}

	res, err := tx.ExecContext(ctx, `delete from Items where ID = ?;`, id)
	if err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("failed to delete item %d: %w", id, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return rows > 0, nil
}

type itemScanner interface {
	Scan(dest ...any) error
}

func scanItem(row itemScanner) (anime.Item, error) {
	var item anime.Item
	var seriesType, status int
	var dateStart, dateEnd string
	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.EnglishTitle,
		&item.JapaneseTitle,
		&seriesType,
		&item.EpisodeCount,
		&item.EpisodeLength,
		&status,
		&dateStart,
		&dateEnd,
	)
	if err != nil {
		return item, fmt.Errorf("failed to scan item row: %w", err)
	}
	item.Type = anime.SeriesType(seriesType)
	item.AiringStatus = anime.AiringStatus(status)

	// Dates are written by Date.String so a parse failure means the row was
	// edited by hand; keep the item and drop the date.
	if item.DateStart, err = anime.ParseDate(dateStart); err != nil {
		log.Warn().Err(err).Int("id", item.ID).Msg("ignoring stored start date")
	}
	if item.DateEnd, err = anime.ParseDate(dateEnd); err != nil {
		log.Warn().Err(err).Int("id", item.ID).Msg("ignoring stored end date")
	}
	return item, nil
}

func sqlGetItem(ctx context.Context, db *sql.DB, id int) (anime.Item, error) {
	stmt, err := db.PrepareContext(ctx, selectItemsSQL+` where ID = ?;`)
	if err != nil {
		return anime.Item{}, fmt.Errorf("failed to prepare get item statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	item, err := scanItem(stmt.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return anime.Item{}, ErrNotFound
	} else if err != nil {
		return anime.Item{}, err
	}

	titles, err := sqlQueryTitles(ctx, db, `where ItemID = ?`, id)
	if err != nil {
		return anime.Item{}, err
	}
	attachTitles(&item, titles[id])
	return item, nil
}

func sqlAllItems(ctx context.Context, db *sql.DB) ([]anime.Item, error) {
	rows, err := db.QueryContext(ctx, selectItemsSQL+` order by ID;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close rows")
		}
	}()

	var items []anime.Item
	for rows.Next() {
		item, scanErr := scanItem(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	titles, err := sqlQueryTitles(ctx, db, "")
	if err != nil {
		return nil, err
	}
	for i := range items {
		attachTitles(&items[i], titles[items[i].ID])
	}
	return items, nil
}

type storedTitle struct {
	kind  string
	title string
}

// sqlQueryTitles returns titles grouped by item ID in insertion order.
func sqlQueryTitles(
	ctx context.Context,
	db *sql.DB,
	where string,
	args ...any,
) (map[int][]storedTitle, error) {
	q := `select ItemID, Kind, Title from ItemTitles ` + where + ` order by ItemID, DBID;`
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query titles: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close rows")
		}
	}()

	titles := make(map[int][]storedTitle)
	for rows.Next() {
		var id int
		var t storedTitle
		if err := rows.Scan(&id, &t.kind, &t.title); err != nil {
			return nil, fmt.Errorf("failed to scan title row: %w", err)
		}
		titles[id] = append(titles[id], t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate titles: %w", err)
	}
	return titles, nil
}

func attachTitles(item *anime.Item, titles []storedTitle) {
	for _, t := range titles {
		switch t.kind {
		case titleKindSynonym:
			item.Synonyms = append(item.Synonyms, t.title)
		case titleKindUser:
			item.UserSynonyms = append(item.UserSynonyms, t.title)
		default:
			log.Warn().Str("kind", t.kind).Int("id", item.ID).Msg("unknown title kind")
		}
	}
}
