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
	"strconv"

	"github.com/ZaparooProject/anitrack/pkg/anime"
	"github.com/ZaparooProject/anitrack/pkg/recognition"
	"github.com/ZaparooProject/anitrack/pkg/recognition/matcher"
	"github.com/spf13/cobra"
)

const notFound = "-"

func newIdentifyCommand(c *commandContext) *cobra.Command {
	var showScores bool
	var noSequels bool
	var parsePath bool
	var streaming bool

	cmd := &cobra.Command{
		Use:   "identify <release>...",
		Short: "Identify release file names against the library",
		Long: `Identify release file names, paths or streaming titles against the
library and print the matching anime and episode.

Examples:
  anitrack identify "[Group] Example Show - 05 (1080p).mkv"
  anitrack identify --path /media/anime/Example\ Show/05.mkv
  anitrack identify --scores "Exampel Show - 05"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.ensureConfig()
			if err != nil {
				return err
			}
			engine, lib, err := c.newEngine(cmd.Context())
			if err != nil {
				return err
			}

			opts := cfg.MatchOptions()
			if noSequels {
				opts.AllowSequels = false
			}
			opts.ParsePath = parsePath
			opts.StreamingMedia = streaming

			out := cmd.OutOrStdout()
			if !showScores {
				results, err := engine.IdentifyAll(cmd.Context(), args, opts)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(results))
				for i := range results {
					rows = append(rows, resultRow(lib, &results[i]))
				}
				renderTable(out, resultHeaders, rows, 1)
				return nil
			}

			// Scores belong to the last Identify call, so inputs run one at
			// a time.
			for _, input := range args {
				ep := anime.NewEpisode(input)
				id := engine.Identify(&ep, true, opts)
				res := recognition.Result{Input: input, Episode: ep, AnimeID: id}
				renderTable(out, resultHeaders, [][]string{resultRow(lib, &res)}, 1)
				renderTable(out, scoreHeaders, scoreRows(lib, engine.GetScores()), 0, 2)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showScores, "scores", false, "print candidate scores for each input")
	cmd.Flags().BoolVar(&noSequels, "no-sequels", false, "do not follow sequel redirects")
	cmd.Flags().BoolVar(&parsePath, "path", false, "treat inputs as file paths and use folder names")
	cmd.Flags().BoolVar(&streaming, "streaming", false, "treat inputs as streaming titles")

	return cmd
}

var (
	resultHeaders = []string{"Input", "ID", "Title", "Episode"}
	scoreHeaders  = []string{"ID", "Title", "Score"}
)

func itemTitle(lib anime.Library, id int) string {
	if item, ok := lib.Find(id); ok {
		return item.Title
	}
	return notFound
}

func resultRow(lib anime.Library, res *recognition.Result) []string {
	if !anime.IsValidID(res.AnimeID) {
		return []string{res.Input, notFound, notFound, notFound}
	}
	episode := res.Episode.EpisodeNumber.String()
	if episode == "" {
		episode = notFound
	}
	return []string{
		res.Input,
		strconv.Itoa(res.AnimeID),
		itemTitle(lib, res.AnimeID),
		episode,
	}
}

func scoreRows(lib anime.Library, scores matcher.Scores) [][]string {
	rows := make([][]string, 0, len(scores))
	for _, s := range scores {
		rows = append(rows, []string{
			strconv.Itoa(s.ID),
			itemTitle(lib, s.ID),
			strconv.FormatFloat(s.Value, 'f', 3, 64),
		})
	}
	return rows
}
