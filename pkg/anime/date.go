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

package anime

import (
	"fmt"
	"time"
)

// Broadcast dates are published in Japan time.
var japanLocation = time.FixedZone("JST", 9*60*60)

// Date is a calendar date where the month and day may be unknown (0).
type Date struct {
	Year  int
	Month int
	Day   int
}

func DateFromTime(t time.Time) Date {
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// ParseDate reads YYYY, YYYY-MM or YYYY-MM-DD. Empty input returns the
// zero date.
func ParseDate(s string) (Date, error) {
	var d Date
	if s == "" {
		return d, nil
	}
	n, err := fmt.Sscanf(s, "%d-%d-%d", &d.Year, &d.Month, &d.Day)
	if n == 0 {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	if d.Month < 0 || d.Month > 12 || d.Day < 0 || d.Day > 31 {
		return Date{}, fmt.Errorf("invalid date %q: out of range", s)
	}
	return d, nil
}

func (d Date) IsValid() bool {
	return d.Year > 0
}

func (d Date) String() string {
	switch {
	case !d.IsValid():
		return ""
	case d.Month == 0:
		return fmt.Sprintf("%04d", d.Year)
	case d.Day == 0:
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	default:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	}
}

// latest fills unknown month and day with the last possible values.
func (d Date) latest() Date {
	if d.Month == 0 {
		d.Month = 12
	}
	if d.Day == 0 {
		d.Day = 31
	}
	return d
}

// Before reports whether d is strictly earlier than o. Unknown parts
// compare as 0.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// IsAiredYet reports whether the item has started airing at now. Items
// without a start date are assumed to have aired unless they are marked as
// not yet aired. Missing month and day parts assume the worst case.
func IsAiredYet(item *Item, now time.Time) bool {
	if item.AiringStatus == StatusFinishedAiring || item.AiringStatus == StatusCurrentlyAiring {
		return true
	}
	if !item.DateStart.IsValid() {
		return item.AiringStatus != StatusNotYetAired
	}
	today := DateFromTime(now.In(japanLocation))
	return !today.Before(item.DateStart.latest())
}

// IsFinishedAiring reports whether the item has finished airing at now.
func IsFinishedAiring(item *Item, now time.Time) bool {
	if item.AiringStatus == StatusFinishedAiring {
		return true
	}
	if !item.DateEnd.IsValid() {
		return false
	}
	today := DateFromTime(now.In(japanLocation))
	return item.DateEnd.latest().Before(today)
}
