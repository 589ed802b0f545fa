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
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ZaparooProject/anitrack/pkg/anime"
	testsqlmock "github.com/ZaparooProject/anitrack/pkg/testing/sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var itemColumns = []string{
	"ID", "Title", "EnglishTitle", "JapaneseTitle", "Type", "EpisodeCount",
	"EpisodeLength", "AiringStatus", "DateStart", "DateEnd",
}

func TestNullSQL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := &LibraryDB{}

	item := testItems()[0]
	require.ErrorIs(t, db.Upsert(ctx, &item), ErrNullSQL)
	require.ErrorIs(t, db.UpsertAll(ctx, nil), ErrNullSQL)
	_, err := db.Delete(ctx, 1)
	require.ErrorIs(t, err, ErrNullSQL)
	_, err = db.Get(ctx, 1)
	require.ErrorIs(t, err, ErrNullSQL)
	_, err = db.All(ctx)
	require.ErrorIs(t, err, ErrNullSQL)
	_, err = db.Snapshot(ctx)
	require.ErrorIs(t, err, ErrNullSQL)
	require.ErrorIs(t, db.MigrateUp(), ErrNullSQL)
	require.NoError(t, db.Close())
}

func TestSqlUpsertItems_BeginError(t *testing.T) {
	t.Parallel()
	sqlDB, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectBegin().WillReturnError(sqlmock.ErrCancelled)

	err = sqlUpsertItems(context.Background(), sqlDB, testItems())
	require.ErrorIs(t, err, sqlmock.ErrCancelled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlUpsertItems_InsertErrorRollsBack(t *testing.T) {
	t.Parallel()
	sqlDB, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectBegin()
	itemStmt := mock.ExpectPrepare(`insert into Items`)
	mock.ExpectPrepare(`insert into ItemTitles`)
	itemStmt.ExpectExec().
		WithArgs(42, "Example Show", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			12, 24, sqlmock.AnyArg(), "2020-04-03", "2020-06-26").
		WillReturnError(sqlmock.ErrCancelled)
	mock.ExpectRollback()

	err = sqlUpsertItems(context.Background(), sqlDB, testItems()[:1])
	require.ErrorIs(t, err, sqlmock.ErrCancelled)
	assert.Contains(t, err.Error(), "failed to insert item 42")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlUpsertItems_WritesTitles(t *testing.T) {
	t.Parallel()
	sqlDB, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = sqlDB.Close() }()

	item := anime.Item{
		ID:           7,
		Title:        "Short",
		Synonyms:     []string{"S", ""},
		UserSynonyms: []string{"Mine"},
	}

	mock.ExpectBegin()
	itemStmt := mock.ExpectPrepare(`insert into Items`)
	titleStmt := mock.ExpectPrepare(`insert into ItemTitles`)
	itemStmt.ExpectExec().
		WithArgs(7, "Short", "", "", 0, 0, 0, 0, "", "").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(`delete from ItemTitles where ItemID = \?`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	titleStmt.ExpectExec().
		WithArgs(7, titleKindSynonym, "S").
		WillReturnResult(sqlmock.NewResult(1, 1))
	titleStmt.ExpectExec().
		WithArgs(7, titleKindUser, "Mine").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, sqlUpsertItems(context.Background(), sqlDB, []anime.Item{item}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlGetItem_NotFound(t *testing.T) {
	t.Parallel()
	sqlDB, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectPrepare(`(?s)select.*from Items\s+where ID = \?`).ExpectQuery().
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows(itemColumns))

	_, err = sqlGetItem(context.Background(), sqlDB, 99)
	require.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlAllItems_IgnoresBadDates(t *testing.T) {
	t.Parallel()
	sqlDB, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectQuery(`(?s)select.*from Items\s+order by ID`).
		WillReturnRows(sqlmock.NewRows(itemColumns).
			AddRow(3, "Edited", "", "", 1, 12, 24, 1, "soon", "2020-06"))
	mock.ExpectQuery(`select ItemID, Kind, Title from ItemTitles\s+order by ItemID, DBID`).
		WillReturnRows(sqlmock.NewRows([]string{"ItemID", "Kind", "Title"}).
			AddRow(3, titleKindSynonym, "Edit").
			AddRow(3, "legacy", "Dropped"))

	items, err := sqlAllItems(context.Background(), sqlDB)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, anime.Date{}, items[0].DateStart)
	assert.Equal(t, anime.Date{Year: 2020, Month: 6}, items[0].DateEnd)
	assert.Equal(t, anime.TypeTV, items[0].Type)
	assert.Equal(t, anime.StatusFinishedAiring, items[0].AiringStatus)
	assert.Equal(t, []string{"Edit"}, items[0].Synonyms)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlDeleteItem_Error(t *testing.T) {
	t.Parallel()
	sqlDB, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec(`delete from ItemTitles where ItemID = \?`).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`delete from Items where ID = \?`).
		WithArgs(42).
		WillReturnError(sqlmock.ErrCancelled)
	mock.ExpectRollback()

	deleted, err := sqlDeleteItem(context.Background(), sqlDB, 42)
	require.ErrorIs(t, err, sqlmock.ErrCancelled)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshot_Error(t *testing.T) {
	t.Parallel()
	sqlDB, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectQuery(`(?s)select.*from Items`).WillReturnError(sqlmock.ErrCancelled)

	_, err = NewWithSQL(sqlDB).Snapshot(context.Background())
	require.ErrorIs(t, err, sqlmock.ErrCancelled)
	assert.NoError(t, mock.ExpectationsWereMet())
}
