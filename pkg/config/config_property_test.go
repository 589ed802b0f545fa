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
	"testing"

	"github.com/spf13/afero"
	"pgregory.net/rapid"
)

// TestPropertySaveLoadRoundTrip verifies saved recognition settings load
// back unchanged.
func TestPropertySaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		threshold := rapid.Float64Range(0.01, 2).Draw(t, "threshold")
		sequels := rapid.Bool().Draw(t, "sequels")
		column := rapid.IntRange(0, 8).Draw(t, "column")

		defaults := BaseDefaults
		defaults.Recognition.ConfidenceThreshold = threshold
		defaults.Recognition.AllowSequels = sequels
		defaults.Relations.ServiceColumn = column

		fs := afero.NewMemMapFs()
		if _, err := NewConfigWithFs(fs, "/config", defaults); err != nil {
			t.Fatalf("failed to create config: %v", err)
		}

		// Reload with base defaults so only the file supplies the values.
		cfg, err := NewConfigWithFs(fs, "/config", BaseDefaults)
		if err != nil {
			t.Fatalf("failed to reload config: %v", err)
		}
		if got := cfg.ConfidenceThreshold(); got != threshold {
			t.Fatalf("threshold: expected %v, got %v", threshold, got)
		}
		if got := cfg.AllowSequels(); got != sequels {
			t.Fatalf("allow_sequels: expected %v, got %v", sequels, got)
		}
		if got := cfg.ServiceColumn(); got != column {
			t.Fatalf("service_column: expected %d, got %d", column, got)
		}
	})
}
