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

//go:build deadlock

// Package syncutil holds the locks used across anitrack. Building with
// -tags=deadlock swaps them for go-deadlock versions that report lock
// order problems and long waits.
package syncutil

import (
	"time"

	"github.com/rs/zerolog/log"
	deadlock "github.com/sasha-s/go-deadlock"
)

// DeadlockEnabled reports whether the deadlock detector is compiled in.
const DeadlockEnabled = true

// Title rebuilds hold the engine write mutex while every title is indexed,
// so the timeout leaves room for large libraries.
const deadlockTimeout = 45 * time.Second

func init() {
	deadlock.Opts.DeadlockTimeout = deadlockTimeout
	deadlock.Opts.OnPotentialDeadlock = func() {
		log.Error().Dur("timeout", deadlockTimeout).Msg("potential deadlock detected")
		panic("potential deadlock detected")
	}
}

type Mutex struct {
	deadlock.Mutex
}

// RWMutex guards the engine indexes and the config values.
type RWMutex struct {
	deadlock.RWMutex
}
