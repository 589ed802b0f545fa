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

// Package librarydb stores the anime library in SQLite and loads it into
// the in-memory form used by the recognition engine.
package librarydb

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZaparooProject/anitrack/pkg/anime"
	"github.com/ZaparooProject/anitrack/pkg/database"
	"github.com/ZaparooProject/anitrack/pkg/validation"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNullSQL  = errors.New("LibraryDB is not connected")
	ErrNotFound = errors.New("library item not found")
)

const (
	sqliteConnParams = "?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000&_foreign_keys=on"
	migrationsDir    = "migrations"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type LibraryDB struct {
	sql      *sql.DB
	snapshot singleflight.Group
}

// Open opens or creates the library database at path and applies any
// pending migrations.
func Open(ctx context.Context, path string) (*LibraryDB, error) {
	err := os.MkdirAll(filepath.Dir(path), 0o750)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory for database: %w", err)
	}

	sqlInstance, err := sql.Open("sqlite3", path+sqliteConnParams)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := sqlInstance.PingContext(ctx); err != nil {
		_ = sqlInstance.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &LibraryDB{sql: sqlInstance}
	if err := db.MigrateUp(); err != nil {
		_ = sqlInstance.Close()
		return nil, err
	}
	return db, nil
}

// NewWithSQL wraps an existing connection without running migrations.
func NewWithSQL(sqlDB *sql.DB) *LibraryDB {
	return &LibraryDB{sql: sqlDB}
}

func (db *LibraryDB) MigrateUp() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return database.MigrateUp(db.sql, migrationFiles, migrationsDir)
}

func (db *LibraryDB) SchemaVersion() (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return database.SchemaVersion(db.sql, migrationFiles)
}

func (db *LibraryDB) Close() error {
	if db.sql == nil {
		return nil
	}
	err := db.sql.Close()
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// Upsert validates and stores an item, replacing every title previously
// stored for its ID.
func (db *LibraryDB) Upsert(ctx context.Context, item *anime.Item) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	if err := validation.DefaultValidator.Validate(item); err != nil {
		return fmt.Errorf("invalid library item %d: %w", item.ID, err)
	}
	return sqlUpsertItems(ctx, db.sql, []anime.Item{*item})
}

// UpsertAll stores items in a single transaction. Nothing is written if any
// item fails validation.
func (db *LibraryDB) UpsertAll(ctx context.Context, items []anime.Item) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	for i := range items {
		if err := validation.DefaultValidator.Validate(&items[i]); err != nil {
			return fmt.Errorf("invalid library item %d: %w", items[i].ID, err)
		}
	}
	return sqlUpsertItems(ctx, db.sql, items)
}

// Delete removes an item and its titles. It reports whether the item
// existed.
func (db *LibraryDB) Delete(ctx context.Context, id int) (bool, error) {
	if db.sql == nil {
		return false, ErrNullSQL
	}
	return sqlDeleteItem(ctx, db.sql, id)
}

// Get returns the item with the given ID or ErrNotFound.
func (db *LibraryDB) Get(ctx context.Context, id int) (anime.Item, error) {
	if db.sql == nil {
		return anime.Item{}, ErrNullSQL
	}
	return sqlGetItem(ctx, db.sql, id)
}

// All returns every stored item ordered by ID.
func (db *LibraryDB) All(ctx context.Context) ([]anime.Item, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlAllItems(ctx, db.sql)
}

// Snapshot loads the whole library into a new MemoryLibrary. Concurrent
// callers share a single database read.
func (db *LibraryDB) Snapshot(ctx context.Context) (*anime.MemoryLibrary, error) {
	v, err, _ := db.snapshot.Do("snapshot", func() (any, error) {
		return db.All(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load library snapshot: %w", err)
	}
	items, ok := v.([]anime.Item)
	if !ok {
		return nil, fmt.Errorf("unexpected snapshot result type %T", v)
	}
	return anime.NewMemoryLibrary(items...), nil
}
