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

// Package database holds the schema migration helpers shared by the
// SQLite stores.
package database

import (
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/ZaparooProject/anitrack/pkg/helpers/syncutil"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

// goose keeps its dialect, logger and base filesystem in package globals.
var migrationMutex syncutil.Mutex

// gooseLogger sends goose output to zerolog.
type gooseLogger struct{}

func (*gooseLogger) Printf(format string, v ...any) {
	log.Debug().Msgf(format, v...)
}

func (*gooseLogger) Fatalf(format string, v ...any) {
	log.Error().Msgf(format, v...)
}

func setupGoose(migrationFiles fs.FS) error {
	goose.SetLogger(&gooseLogger{})
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return nil
}

// MigrateUp applies every pending migration found in migrationDir of
// migrationFiles.
func MigrateUp(db *sql.DB, migrationFiles fs.FS, migrationDir string) error {
	migrationMutex.Lock()
	defer migrationMutex.Unlock()

	if err := setupGoose(migrationFiles); err != nil {
		return err
	}

	log.Debug().Str("migration_dir", migrationDir).Msg("running migrations")
	if err := goose.Up(db, migrationDir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// SchemaVersion returns the latest applied migration version.
func SchemaVersion(db *sql.DB, migrationFiles fs.FS) (int64, error) {
	migrationMutex.Lock()
	defer migrationMutex.Unlock()

	if err := setupGoose(migrationFiles); err != nil {
		return 0, err
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
