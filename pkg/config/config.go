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

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZaparooProject/anitrack/pkg/helpers/syncutil"
	"github.com/ZaparooProject/anitrack/pkg/recognition"
	"github.com/ZaparooProject/anitrack/pkg/validation"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	SchemaVersion = 1
	CfgEnv        = "ANITRACK_CFG"
)

var (
	ErrNoPath         = errors.New("config path not set")
	ErrSchemaMismatch = errors.New("schema version mismatch")
)

type Values struct {
	Relations    Relations   `toml:"relations"`
	Library      Library     `toml:"library"`
	Recognition  Recognition `toml:"recognition"`
	ConfigSchema int         `toml:"config_schema"`
	DebugLogging bool        `toml:"debug_logging"`
}

type Recognition struct {
	ConfidenceThreshold float64 `toml:"confidence_threshold" validate:"gt=0,lte=2"`
	AllowSequels        bool    `toml:"allow_sequels"`
	CheckAiringDate     bool    `toml:"check_airing_date"`
	CheckAnimeType      bool    `toml:"check_anime_type"`
	CheckEpisodeNumber  bool    `toml:"check_episode_number"`
}

type Relations struct {
	Path          string `toml:"path"`
	ServiceColumn int    `toml:"service_column" validate:"gte=0,lte=8"`
}

type Library struct {
	DBPath string `toml:"db_path" validate:"required"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Recognition: Recognition{
		ConfidenceThreshold: recognition.DefaultConfidenceThreshold,
		AllowSequels:        true,
		CheckAiringDate:     true,
		CheckAnimeType:      true,
		CheckEpisodeNumber:  true,
	},
	Relations: Relations{
		Path: RelationsFile,
	},
	Library: Library{
		DBPath: LibraryDbFile,
	},
}

type Instance struct {
	fs       afero.Fs
	cfgPath  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

// NewConfig loads the config file in configDir, or the file named by the
// ANITRACK_CFG environment variable. A default config is written first if
// the file doesn't exist.
//
//nolint:gocritic // config struct copied for immutability
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	return NewConfigWithFs(afero.NewOsFs(), configDir, defaults)
}

// NewConfigWithFs is NewConfig on a custom filesystem.
//
//nolint:gocritic // config struct copied for immutability
func NewConfigWithFs(fs afero.Fs, configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := Instance{
		fs:       fs,
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	exists, err := afero.Exists(fs, cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if !exists {
		log.Info().Msg("saving new default config to disk")

		err := fs.MkdirAll(filepath.Dir(cfgPath), 0o750)
		if err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		err = cfg.Save()
		if err != nil {
			return nil, err
		}
	}

	err = cfg.Load()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return ErrNoPath
	}

	data, err := afero.ReadFile(c.fs, c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then unmarshal file values on top.
	// This ensures fields not present in the file retain their default values.
	newVals := c.defaults
	err = toml.Unmarshal(data, &newVals)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return ErrSchemaMismatch
	}

	if err := validation.DefaultValidator.Validate(&newVals); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	c.vals = newVals
	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return ErrNoPath
	}

	// set current schema version
	c.vals.ConfigSchema = SchemaVersion

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := afero.WriteFile(c.fs, c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Path returns the location of the config file.
func (c *Instance) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfgPath
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
	if enabled {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func (c *Instance) ConfidenceThreshold() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Recognition.ConfidenceThreshold
}

func (c *Instance) AllowSequels() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Recognition.AllowSequels
}

func (c *Instance) SetAllowSequels(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Recognition.AllowSequels = enabled
}

// MatchOptions returns the recognition checks enabled in the config.
func (c *Instance) MatchOptions() recognition.MatchOptions {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r := c.vals.Recognition
	return recognition.MatchOptions{
		AllowSequels:       r.AllowSequels,
		CheckAiringDate:    r.CheckAiringDate,
		CheckAnimeType:     r.CheckAnimeType,
		CheckEpisodeNumber: r.CheckEpisodeNumber,
	}
}

// RelationsPath returns the relations document path. Relative paths are
// resolved against the config file's directory. An empty path disables
// relations.
func (c *Instance) RelationsPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resolve(c.vals.Relations.Path)
}

func (c *Instance) SetRelationsPath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Relations.Path = path
}

func (c *Instance) ServiceColumn() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Relations.ServiceColumn
}

// LibraryDBPath returns the library database path, resolved like
// RelationsPath.
func (c *Instance) LibraryDBPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resolve(c.vals.Library.DBPath)
}

func (c *Instance) SetLibraryDBPath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Library.DBPath = path
}

func (c *Instance) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(c.cfgPath), path)
}
