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

// Package cli implements the anitrack command line: identifying release
// names against the local library and managing the library database.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ZaparooProject/anitrack/pkg/anime"
	"github.com/ZaparooProject/anitrack/pkg/config"
	"github.com/ZaparooProject/anitrack/pkg/database/librarydb"
	"github.com/ZaparooProject/anitrack/pkg/recognition"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// LogSetup initializes logging once the configuration directory is known.
type LogSetup func(logDir string, debug bool) error

type Option func(*commandContext)

// WithLogSetup replaces the logging setup run before each command.
func WithLogSetup(setup LogSetup) Option {
	return func(c *commandContext) {
		c.setupLogging = setup
	}
}

// WithFs sets the filesystem used for relations and CSV files.
func WithFs(fs afero.Fs) Option {
	return func(c *commandContext) {
		c.fs = fs
	}
}

type commandContext struct {
	fs           afero.Fs
	cfg          *config.Instance
	cfgErr       error
	setupLogging LogSetup
	configDir    string
	libraryPath  string
	relations    string
	cfgOnce      sync.Once
	debug        bool
}

func (c *commandContext) ensureConfig() (*config.Instance, error) {
	c.cfgOnce.Do(func() {
		dir := strings.TrimSpace(c.configDir)
		if dir == "" {
			var err error
			dir, err = DefaultConfigDir()
			if err != nil {
				c.cfgErr = err
				return
			}
		}

		cfg, err := config.NewConfig(dir, config.BaseDefaults)
		if err != nil {
			c.cfgErr = fmt.Errorf("failed to load config: %w", err)
			return
		}

		if c.libraryPath != "" {
			cfg.SetLibraryDBPath(absPath(c.libraryPath))
		}
		if c.relations != "" {
			cfg.SetRelationsPath(absPath(c.relations))
		}

		if c.setupLogging != nil {
			err = c.setupLogging(filepath.Dir(cfg.Path()), c.debug || cfg.DebugLogging())
			if err != nil {
				c.cfgErr = fmt.Errorf("failed to set up logging: %w", err)
				return
			}
		}

		c.cfg = cfg
	})
	return c.cfg, c.cfgErr
}

// absPath makes command line paths relative to the working directory
// rather than the config directory.
func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func (c *commandContext) openLibrary(ctx context.Context) (*librarydb.LibraryDB, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	db, err := librarydb.Open(ctx, cfg.LibraryDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open library: %w", err)
	}
	return db, nil
}

func closeLibrary(db *librarydb.LibraryDB) {
	if err := db.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close library database")
	}
}

// newEngine loads the library and relations into a ready engine. A missing
// relations file is not an error.
func (c *commandContext) newEngine(ctx context.Context) (*recognition.Engine, anime.Library, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}

	db, err := c.openLibrary(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer closeLibrary(db)

	lib, err := db.Snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}

	engine := recognition.NewEngine(lib,
		recognition.WithConfidenceThreshold(cfg.ConfidenceThreshold()),
		recognition.WithServiceColumn(cfg.ServiceColumn()),
	)
	engine.InitializeTitles()

	if path := cfg.RelationsPath(); path != "" {
		err := engine.ReadRelationsFile(c.fs, path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.Debug().Str("path", path).Msg("no relations file, sequel redirects disabled")
		case err != nil:
			return nil, nil, err
		}
	}

	return engine, lib, nil
}

// DefaultConfigDir returns the per-user configuration directory.
func DefaultConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to find user config directory: %w", err)
	}
	return filepath.Join(dir, config.AppName), nil
}

// NewRootCommand builds the anitrack command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	c := &commandContext{fs: afero.NewOsFs()}
	for _, opt := range opts {
		opt(c)
	}

	rootCmd := &cobra.Command{
		Use:           config.AppName,
		Short:         "Identify anime releases against a local library",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.configDir, "config", "c", "", "configuration directory")
	flags.StringVar(&c.libraryPath, "library", "", "library database path")
	flags.StringVar(&c.relations, "relations", "", "anime relations file")
	flags.BoolVar(&c.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newIdentifyCommand(c),
		newSearchCommand(c),
		newImportCommand(c),
		newExportCommand(c),
		newVersionCommand(),
	)

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s v%s\n", config.AppName, config.AppVersion)
			return err
		},
	}
}
