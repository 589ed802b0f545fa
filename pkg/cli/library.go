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

package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func newSearchCommand(c *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Search library titles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, lib, err := c.newEngine(cmd.Context())
			if err != nil {
				return err
			}

			ids := engine.Search(args[0])
			if limit > 0 && len(ids) > limit {
				ids = ids[:limit]
			}

			rows := make([][]string, 0, len(ids))
			for _, id := range ids {
				rows = append(rows, []string{strconv.Itoa(id), itemTitle(lib, id)})
			}
			renderTable(cmd.OutOrStdout(), []string{"ID", "Title"}, rows, 0)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of results, 0 for all")

	return cmd
}

func newImportCommand(c *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import library items from a CSV file",
		Long: `Import library items from a CSV file. Items with an existing ID are
replaced. Columns: id, title, english_title, japanese_title, synonyms,
user_synonyms, type, status, episodes, episode_length, date_start, date_end.
Multiple synonyms are separated with ";".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := c.openLibrary(cmd.Context())
			if err != nil {
				return err
			}
			defer closeLibrary(db)

			n, err := db.ImportCSVFile(cmd.Context(), c.fs, args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d items\n", n)
			return err
		},
	}
}

func newExportCommand(c *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file.csv]",
		Short: "Export the library as CSV, to stdout if no file is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := c.openLibrary(cmd.Context())
			if err != nil {
				return err
			}
			defer closeLibrary(db)

			if len(args) == 0 {
				return db.ExportCSV(cmd.Context(), cmd.OutOrStdout())
			}

			f, err := c.fs.OpenFile(args[0], os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
			if err != nil {
				return fmt.Errorf("failed to create export file: %w", err)
			}
			if err := db.ExportCSV(cmd.Context(), f); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close export file: %w", err)
			}
			return nil
		},
	}
}
