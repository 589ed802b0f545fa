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

package relations

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/ZaparooProject/anitrack/pkg/anime"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	sectionMeta  = "meta"
	sectionRules = "rules"
)

const (
	idSame    = "~"
	idUnknown = "?"
)

var (
	// 10863|6547|8077:14-26 -> ~|~|~:1-13!
	ruleRe = regexp.MustCompile(
		`^([\d?~]+(?:\|[\d?~]+)*):(\d+)(?:-(\d+|\?))? -> ([\d?~]+(?:\|[\d?~]+)*):(\d+)(?:-(\d+|\?))?(!)?$`,
	)
	metaRe = regexp.MustCompile(`^([a-z_]+):\s*(.*)$`)
)

var (
	errEmpty          = errors.New("document is empty")
	errNoRules        = errors.New("document has no valid rules")
	errUnknownSection = errors.New("unknown section")
	errNotApplicable  = errors.New("rule does not apply to this id column")
)

// ReadFile reads a relations document from fs.
func ReadFile(fs afero.Fs, path string, column int) (*Table, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close relations file")
		}
	}()

	table, err := Read(f, column)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			loadErr.Path = path
		}
		return nil, err
	}
	return table, nil
}

// Read parses a relations document. Ids in a rule may hold one column per
// list service separated by "|"; column selects which one is used. A rule
// that can't be parsed is logged and skipped, but a document without a
// single valid rule is rejected.
func Read(r io.Reader, column int) (*Table, error) {
	table := NewTable()
	table.column = max(column, 0)
	section := sectionRules
	ruleLines := 0
	skipped := 0
	empty := true

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		empty = false

		if name, ok := strings.CutPrefix(line, "::"); ok {
			name = strings.TrimSpace(name)
			if name != sectionMeta && name != sectionRules {
				return nil, &LoadError{Err: fmt.Errorf("%w %q on line %d", errUnknownSection, name, lineNo)}
			}
			section = name
			continue
		}

		entry, ok := strings.CutPrefix(line, "-")
		if !ok {
			log.Warn().Int("line", lineNo).Str("text", line).Msg("skipping relations line without list marker")
			continue
		}
		entry = strings.TrimSpace(entry)

		switch section {
		case sectionMeta:
			readMeta(&table.Meta, entry)
		case sectionRules:
			ruleLines++
			rules, err := parseRule(entry, column)
			if errors.Is(err, errNotApplicable) {
				skipped++
				continue
			}
			if err != nil {
				log.Warn().Err(err).Int("line", lineNo).Msgf("could not parse relation rule: %s", entry)
				continue
			}
			for _, rule := range rules {
				table.Add(rule)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &LoadError{Err: fmt.Errorf("failed to read document: %w", err)}
	}

	if empty {
		return nil, &LoadError{Err: errEmpty}
	}
	// Rules for other id columns only leave an empty but valid table.
	if ruleLines == 0 || (table.Len() == 0 && skipped < ruleLines) {
		return nil, &LoadError{Err: errNoRules}
	}

	log.Debug().
		Int("rules", table.Len()).
		Int("skipped", skipped).
		Str("version", table.Meta.Version).
		Msg("read anime relations")

	return table, nil
}

func readMeta(meta *Meta, entry string) {
	m := metaRe.FindStringSubmatch(entry)
	if m == nil {
		log.Debug().Str("entry", entry).Msg("ignoring relations meta entry")
		return
	}
	switch m[1] {
	case "version":
		meta.Version = m[2]
	case "last_modified":
		meta.LastModified = m[2]
	}
}

// parseRule returns the rule and, for rules ending in "!", the same
// redirection applied to the destination id itself.
func parseRule(entry string, column int) ([]Rule, error) {
	m := ruleRe.FindStringSubmatch(entry)
	if m == nil {
		return nil, errors.New("invalid rule syntax")
	}

	srcID, err := pickID(m[1], column, 0)
	if err != nil {
		return nil, err
	}
	destID, err := pickID(m[4], column, srcID)
	if err != nil {
		return nil, err
	}

	src, err := parseRange(m[2], m[3])
	if err != nil {
		return nil, err
	}
	dest, err := parseRange(m[5], m[6])
	if err != nil {
		return nil, err
	}

	rules := []Rule{{SourceID: srcID, Source: src, DestID: destID, Dest: dest}}
	if m[7] == "!" {
		rules = append(rules, Rule{SourceID: destID, Source: src, DestID: destID, Dest: dest})
	}
	return rules, nil
}

// pickID selects the id of the configured column. "~" resolves to same,
// "?" marks an id unknown to that service.
func pickID(ids string, column, same int) (int, error) {
	cols := strings.Split(ids, "|")
	if column < 0 || column >= len(cols) {
		return 0, errNotApplicable
	}
	switch id := cols[column]; id {
	case idUnknown:
		return 0, errNotApplicable
	case idSame:
		if same == 0 {
			return 0, errors.New("source id can't refer to itself")
		}
		return same, nil
	default:
		n, err := strconv.Atoi(id)
		if err != nil {
			return 0, fmt.Errorf("invalid id %q: %w", id, err)
		}
		if !anime.IsValidID(n) {
			return 0, fmt.Errorf("invalid id %q", id)
		}
		return n, nil
	}
}

func parseRange(low, high string) (anime.NumberRange, error) {
	l, err := strconv.Atoi(low)
	if err != nil {
		return anime.NumberRange{}, fmt.Errorf("invalid episode number %q: %w", low, err)
	}
	switch high {
	case "":
		return anime.SingleNumber(l), nil
	case idUnknown:
		return anime.NumberRange{Low: l}, nil
	}
	h, err := strconv.Atoi(high)
	if err != nil {
		return anime.NumberRange{}, fmt.Errorf("invalid episode number %q: %w", high, err)
	}
	if h < l {
		return anime.NumberRange{}, fmt.Errorf("range %d-%d is reversed", l, h)
	}
	return anime.NumberRange{Low: l, High: h}, nil
}

func formatRange(r anime.NumberRange) string {
	switch {
	case r.High == 0:
		return strconv.Itoa(r.Low) + "-?"
	case r.High == r.Low:
		return strconv.Itoa(r.Low)
	default:
		return strconv.Itoa(r.Low) + "-" + strconv.Itoa(r.High)
	}
}

// formatID places id in the table's column, marking the columns before it
// unknown, so the document reads back with the same column.
func (t *Table) formatID(id int) string {
	return strings.Repeat(idUnknown+"|", t.column) + strconv.Itoa(id)
}

// WriteTo writes the table as a document that Read parses back into the
// same rules when given the table's column.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	sb.WriteString("::meta\n")
	if t.Meta.Version != "" {
		sb.WriteString("- version: " + t.Meta.Version + "\n")
	}
	if t.Meta.LastModified != "" {
		sb.WriteString("- last_modified: " + t.Meta.LastModified + "\n")
	}
	sb.WriteString("::rules\n")
	for _, r := range t.rules {
		fmt.Fprintf(&sb, "- %s:%s -> %s:%s\n",
			t.formatID(r.SourceID), formatRange(r.Source), t.formatID(r.DestID), formatRange(r.Dest))
	}
	n, err := io.WriteString(w, sb.String())
	if err != nil {
		return int64(n), fmt.Errorf("failed to write relations: %w", err)
	}
	return int64(n), nil
}
