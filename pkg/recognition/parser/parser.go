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

// Package parser splits anime release names into the fields of an
// anime.Episode: title, episode number, release group and the technical
// tags commonly found in fansub and scene file names.
package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/ZaparooProject/anitrack/pkg/anime"
)

// Options control how a raw string is parsed.
type Options struct {
	// IgnoredStrings are removed from the input before parsing.
	IgnoredStrings []string
	// ParsePath treats the input as a path: the folder is recorded and only
	// the last element is parsed.
	ParsePath bool
	// StreamingMedia marks titles from streaming sites, which have no file
	// extension to strip.
	StreamingMedia bool
}

var (
	// 1080p, 720i, 1920x1080, 4K
	resolutionRe = regexp.MustCompile(`(?i)^(?:\d{3,4}[pi]|\d{3,4}x\d{3,4}|[48]k)$`)
	checksumRe   = regexp.MustCompile(`^[0-9A-Fa-f]{8}$`)
	versionRe    = regexp.MustCompile(`(?i)^v(\d)$`)
	yearRe       = regexp.MustCompile(`^(19[5-9]\d|20\d\d)$`)
	// 05, 01-12, 05v2
	numberRe = regexp.MustCompile(`^(\d{1,4})(?:[-~](\d{1,4}))?(?:[vV](\d))?$`)
	// S01E05, S01E05-E06, S1.E5
	seasonEpisodeRe = regexp.MustCompile(`(?i)^s(\d{1,2})[._]?e(\d{1,4})(?:-?e?(\d{1,4}))?(?:v(\d))?$`)
	// 1x05
	seasonXEpisodeRe = regexp.MustCompile(`^(\d{1,2})x(\d{1,3})(?:v(\d))?$`)
	// E05, Ep05, Ep.05, Episode05
	prefixedEpisodeRe = regexp.MustCompile(`(?i)^(?:e|ep|eps|episode|episodes)\.?(\d{1,4})(?:-(\d{1,4}))?(?:v(\d))?$`)
	episodeWordRe     = regexp.MustCompile(`(?i)^(?:e|ep|eps|episode|episodes)\.?$`)
	// 第05話
	japaneseEpisodeRe = regexp.MustCompile(`^第(\d{1,4})話$`)
	hashEpisodeRe     = regexp.MustCompile(`^#(\d{1,4})(?:v(\d))?$`)
	// Vol.3, Volume3, Vol.1-2
	volumeRe     = regexp.MustCompile(`(?i)^vol(?:ume)?\.?(\d{1,3})(?:-(\d{1,3}))?$`)
	volumeWordRe = regexp.MustCompile(`(?i)^vol(?:ume)?\.?$`)
	seasonRe     = regexp.MustCompile(`(?i)^s(\d{1,2})$`)
	ordinalRe    = regexp.MustCompile(`(?i)^(\d{1,2})(?:st|nd|rd|th)$`)
)

var brackets = map[rune]rune{
	'[': ']',
	'(': ')',
	'{': '}',
	'【': '】',
}

// Words that make a following number part of the title.
var numberGuards = map[string]bool{
	"season": true, "series": true, "part": true, "chapter": true, "vol": true,
	"vol.": true, "volume": true, "cour": true,
}

const separatorChars = " -~|:;,"

// boundary replaces enclosed tokens and keywords in the word list.
const boundary = "\x00"

type token struct {
	text     string
	enclosed bool
}

type parser struct {
	ep          *anime.Episode
	words       []string
	leftovers   []string
	groupTaken  bool
	numberFound bool
}

// Parse splits raw into an episode. It reports whether a title was found.
func Parse(raw string, opts Options) (anime.Episode, bool) {
	ep := anime.NewEpisode(raw)

	name := raw
	if opts.ParsePath {
		name, ep.Folder = splitPath(raw)
	}
	if !opts.StreamingMedia {
		if base, ext, ok := cutExtension(name); ok {
			name = base
			ep.FileExtension = ext
		}
	}
	for _, s := range opts.IgnoredStrings {
		if s != "" {
			name = strings.ReplaceAll(name, s, " ")
		}
	}

	p := &parser{ep: &ep}
	p.run(name)

	if ep.Title == "" && ep.Folder != "" {
		if folder, ok := Parse(ep.Folder, Options{StreamingMedia: true}); ok {
			ep.Title = folder.Title
			if ep.Season == 0 {
				ep.Season = folder.Season
			}
		}
	}

	return ep, ep.Title != ""
}

// Fill parses ep.FileName and copies the results into the fields of ep
// that are still empty. It reports whether ep ends up with a title.
func Fill(ep *anime.Episode, opts Options) bool {
	parsed, _ := Parse(ep.FileName, opts)

	fillString(&ep.Folder, parsed.Folder)
	fillString(&ep.Title, parsed.Title)
	fillString(&ep.EpisodeTitle, parsed.EpisodeTitle)
	fillString(&ep.ReleaseGroup, parsed.ReleaseGroup)
	fillString(&ep.VideoResolution, parsed.VideoResolution)
	fillString(&ep.Checksum, parsed.Checksum)
	fillString(&ep.FileExtension, parsed.FileExtension)
	fillString(&ep.AnimeType, parsed.AnimeType)
	fillSlice(&ep.AudioTerms, parsed.AudioTerms)
	fillSlice(&ep.VideoTerms, parsed.VideoTerms)
	fillSlice(&ep.Extras, parsed.Extras)
	fillSlice(&ep.ReleaseInfo, parsed.ReleaseInfo)
	if ep.EpisodeNumber.IsEmpty() {
		ep.EpisodeNumber = parsed.EpisodeNumber
	}
	if ep.VolumeNumber.IsEmpty() {
		ep.VolumeNumber = parsed.VolumeNumber
	}
	if ep.ReleaseVersion <= 1 {
		ep.ReleaseVersion = parsed.ReleaseVersion
	}
	if ep.Year == 0 {
		ep.Year = parsed.Year
	}
	if ep.Season == 0 {
		ep.Season = parsed.Season
	}

	return ep.Title != ""
}

func fillString(dst *string, src string) {
	if *dst == "" {
		*dst = src
	}
}

func fillSlice(dst *[]string, src []string) {
	if len(*dst) == 0 && len(src) > 0 {
		*dst = append([]string(nil), src...)
	}
}

func splitPath(raw string) (name, folder string) {
	p := strings.TrimRight(strings.ReplaceAll(raw, `\`, "/"), "/")
	i := strings.LastIndexByte(p, '/')
	if i < 0 {
		return p, ""
	}
	name = p[i+1:]
	dir := p[:i]
	if j := strings.LastIndexByte(dir, '/'); j >= 0 {
		dir = dir[j+1:]
	}
	// Drive letters aren't folders.
	if len(dir) == 2 && dir[1] == ':' {
		dir = ""
	}
	return name, dir
}

func cutExtension(name string) (base, ext string, ok bool) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return name, "", false
	}
	ext = name[i+1:]
	if !IsVideoExtension(ext) && !IsAudioExtension(ext) {
		return name, "", false
	}
	return name[:i], ext, true
}

// tokenize splits name into enclosed and free tokens. An unclosed bracket
// is treated as free text.
func tokenize(name string) []token {
	var tokens []token
	rs := []rune(name)
	start := 0
	for i := 0; i < len(rs); i++ {
		closing, ok := brackets[rs[i]]
		if !ok {
			continue
		}
		end := -1
		for j := i + 1; j < len(rs); j++ {
			if rs[j] == closing {
				end = j
				break
			}
		}
		if end < 0 {
			continue
		}
		if free := string(rs[start:i]); strings.TrimSpace(free) != "" {
			tokens = append(tokens, token{text: free})
		}
		if inner := strings.TrimSpace(string(rs[i+1 : end])); inner != "" {
			tokens = append(tokens, token{text: inner, enclosed: true})
		}
		start = end + 1
		i = end
	}
	if free := string(rs[start:]); strings.TrimSpace(free) != "" {
		tokens = append(tokens, token{text: free})
	}
	return tokens
}

// splitFree breaks free text into words. Names without spaces use
// underscores or dots as delimiters.
func splitFree(text string) []string {
	if !strings.Contains(strings.TrimSpace(text), " ") {
		if strings.Contains(text, "_") {
			text = strings.ReplaceAll(text, "_", " ")
		} else if strings.Count(text, ".") > 1 {
			text = replaceDots(text)
		}
	}
	return strings.Fields(text)
}

// replaceDots turns dots into spaces unless they join two all-digit parts
// of a decimal number such as "5.5".
func replaceDots(s string) string {
	parts := strings.Split(s, ".")
	var b strings.Builder
	for i, part := range parts {
		if i > 0 {
			if isDigits(parts[i-1]) && isDigits(part) {
				b.WriteByte('.')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString(part)
	}
	return b.String()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func (p *parser) run(name string) {
	tokens := tokenize(name)

	enclosedNumber := anime.NumberRange{}
	for i, tok := range tokens {
		if !tok.enclosed {
			p.words = append(p.words, splitFree(tok.text)...)
			continue
		}
		p.words = append(p.words, boundary)

		if r, ok := p.enclosed(tok.text, i == 0); ok && enclosedNumber.IsEmpty() {
			enclosedNumber = r
		}
	}

	p.markStrongKeywords()
	p.findVolume()
	p.findSeason()

	match, found := p.findNumber()
	if found {
		p.applyNumber(match)
	} else if !enclosedNumber.IsEmpty() {
		p.ep.EpisodeNumber = enclosedNumber
		p.numberFound = true
	}

	titleEnd := len(p.words)
	if found {
		titleEnd = match.index
		p.readEpisodeTitle(match.index + match.span)
	}
	p.readTitle(titleEnd)

	// A bare "05.mkv" is an episode of whatever the folder is named.
	if !p.numberFound {
		if r, v, ok := parseNumber(p.ep.Title); ok {
			p.ep.EpisodeNumber = r
			if v > 0 {
				p.ep.ReleaseVersion = v
			}
			p.ep.Title = ""
		}
	}

	if p.ep.Title == "" && len(p.leftovers) > 0 {
		p.ep.Title = strings.Trim(p.leftovers[0], separatorChars)
	}
}

// enclosed classifies a bracketed token. It returns an episode number when
// the token holds nothing else.
func (p *parser) enclosed(text string, first bool) (anime.NumberRange, bool) {
	switch {
	case checksumRe.MatchString(text) && p.ep.Checksum == "":
		p.ep.Checksum = strings.ToUpper(text)
		return anime.NumberRange{}, false
	case yearRe.MatchString(text):
		if p.ep.Year == 0 {
			p.ep.Year, _ = strconv.Atoi(text)
		}
		return anime.NumberRange{}, false
	}
	if r, _, ok := parseNumber(text); ok {
		return r, true
	}

	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == ',' || r == '_' || r == '+' || r == '&'
	})
	recognized := 0
	for _, part := range parts {
		if p.classify(part, true) {
			recognized++
		}
	}

	if recognized == len(parts) {
		return anime.NumberRange{}, false
	}
	if first && !p.groupTaken && recognized == 0 {
		p.ep.ReleaseGroup = text
		p.groupTaken = true
		return anime.NumberRange{}, false
	}
	if recognized == 0 {
		p.leftovers = append(p.leftovers, text)
	}
	return anime.NumberRange{}, false
}

// classify records a keyword. Ambiguous keywords (types, extras, release
// info, languages) are only accepted when allowed, since they also appear
// in titles.
func (p *parser) classify(word string, ambiguous bool) bool {
	switch {
	case resolutionRe.MatchString(word):
		if p.ep.VideoResolution == "" {
			p.ep.VideoResolution = word
		}
		return true
	case versionRe.MatchString(word):
		p.ep.ReleaseVersion, _ = strconv.Atoi(word[1:])
		return true
	}

	switch lookupKeyword(word) {
	case kindAudio:
		p.ep.AudioTerms = append(p.ep.AudioTerms, word)
	case kindVideo, kindSource:
		p.ep.VideoTerms = append(p.ep.VideoTerms, word)
	case kindAnimeType:
		if !ambiguous {
			return false
		}
		p.setAnimeType(word)
	case kindExtra, kindLanguage:
		if !ambiguous {
			return false
		}
		p.ep.Extras = append(p.ep.Extras, word)
	case kindReleaseInfo:
		if !ambiguous {
			return false
		}
		p.ep.ReleaseInfo = append(p.ep.ReleaseInfo, word)
	default:
		return false
	}
	return true
}

func (p *parser) setAnimeType(word string) {
	if p.ep.AnimeType == "" || (IsNonEpisodeType(word) && !IsNonEpisodeType(p.ep.AnimeType)) {
		p.ep.AnimeType = word
	}
}

func (p *parser) markStrongKeywords() {
	for i, w := range p.words {
		if w == boundary {
			continue
		}
		if p.classify(w, false) {
			p.words[i] = boundary
			continue
		}
		// Scene releases end with "x264-GROUP".
		if j := strings.LastIndexByte(w, '-'); j > 0 && j < len(w)-1 && p.classify(w[:j], false) {
			if !p.groupTaken {
				p.ep.ReleaseGroup = w[j+1:]
				p.groupTaken = true
			}
			p.words[i] = boundary
		}
	}
}

func (p *parser) findVolume() {
	for i, w := range p.words {
		if m := volumeRe.FindStringSubmatch(w); m != nil {
			p.ep.VolumeNumber = rangeFrom(m[1], m[2])
			p.words[i] = boundary
			return
		}
		if volumeWordRe.MatchString(w) && i+1 < len(p.words) {
			if r, _, ok := parseNumber(p.words[i+1]); ok {
				p.ep.VolumeNumber = r
				p.words[i] = boundary
				p.words[i+1] = boundary
				return
			}
		}
	}
}

// findSeason records season markers without removing them from the title.
func (p *parser) findSeason() {
	for i, w := range p.words {
		lower := strings.ToLower(w)
		switch {
		case seasonRe.MatchString(w):
			p.ep.Season, _ = strconv.Atoi(w[1:])
		case (lower == "season" || lower == "series") && i+1 < len(p.words):
			if n, err := strconv.Atoi(p.words[i+1]); err == nil {
				p.ep.Season = n
			}
		case ordinalRe.MatchString(w) && i+1 < len(p.words) && strings.EqualFold(p.words[i+1], "season"):
			p.ep.Season, _ = strconv.Atoi(ordinalRe.FindStringSubmatch(w)[1])
		}
	}
}

type numberMatch struct {
	number  anime.NumberRange
	index   int
	span    int
	season  int
	version int
}

func parseNumber(s string) (anime.NumberRange, int, bool) {
	m := numberRe.FindStringSubmatch(s)
	if m == nil {
		return anime.NumberRange{}, 0, false
	}
	r := rangeFrom(m[1], m[2])
	if r.High < r.Low {
		return anime.NumberRange{}, 0, false
	}
	version := 0
	if m[3] != "" {
		version, _ = strconv.Atoi(m[3])
	}
	return r, version, true
}

func rangeFrom(low, high string) anime.NumberRange {
	l, _ := strconv.Atoi(low)
	if high == "" {
		return anime.SingleNumber(l)
	}
	h, _ := strconv.Atoi(high)
	return anime.NumberRange{Low: l, High: h}
}

func atoiOr(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// findNumber looks for the episode number, from the most explicit
// notation to the least.
func (p *parser) findNumber() (numberMatch, bool) {
	for _, find := range []func() (numberMatch, bool){
		p.findSeasonEpisode,
		p.findPrefixedEpisode,
		p.findMarkedEpisode,
		p.findSeparatedEpisode,
		p.findTrailingNumber,
	} {
		if m, ok := find(); ok {
			return m, true
		}
	}
	return numberMatch{}, false
}

func (p *parser) findSeasonEpisode() (numberMatch, bool) {
	for i, w := range p.words {
		if m := seasonEpisodeRe.FindStringSubmatch(w); m != nil {
			return numberMatch{
				index:   i,
				span:    1,
				season:  atoiOr(m[1], 0),
				number:  rangeFrom(m[2], m[3]),
				version: atoiOr(m[4], 0),
			}, true
		}
		if m := seasonXEpisodeRe.FindStringSubmatch(w); m != nil {
			return numberMatch{
				index:   i,
				span:    1,
				season:  atoiOr(m[1], 0),
				number:  rangeFrom(m[2], ""),
				version: atoiOr(m[3], 0),
			}, true
		}
	}
	return numberMatch{}, false
}

func (p *parser) findPrefixedEpisode() (numberMatch, bool) {
	for i, w := range p.words {
		if i == 0 {
			continue
		}
		if m := prefixedEpisodeRe.FindStringSubmatch(w); m != nil {
			return numberMatch{index: i, span: 1, number: rangeFrom(m[1], m[2]), version: atoiOr(m[3], 0)}, true
		}
		if episodeWordRe.MatchString(w) && i+1 < len(p.words) {
			if r, v, ok := parseNumber(p.words[i+1]); ok {
				return numberMatch{index: i, span: 2, number: r, version: v}, true
			}
		}
	}
	return numberMatch{}, false
}

func (p *parser) findMarkedEpisode() (numberMatch, bool) {
	for i, w := range p.words {
		if m := japaneseEpisodeRe.FindStringSubmatch(w); m != nil {
			return numberMatch{index: i, span: 1, number: rangeFrom(m[1], "")}, true
		}
		if m := hashEpisodeRe.FindStringSubmatch(w); m != nil && i > 0 {
			return numberMatch{index: i, span: 1, number: rangeFrom(m[1], ""), version: atoiOr(m[2], 0)}, true
		}
	}
	return numberMatch{}, false
}

// findSeparatedEpisode matches "Title - 05".
func (p *parser) findSeparatedEpisode() (numberMatch, bool) {
	for i := 1; i+1 < len(p.words); i++ {
		if !isDash(p.words[i]) {
			continue
		}
		if r, v, ok := parseNumber(p.words[i+1]); ok {
			return numberMatch{index: i + 1, span: 1, number: r, version: v}, true
		}
	}
	return numberMatch{}, false
}

// findTrailingNumber matches the last plain number that follows a title
// word, skipping years and numbers that belong to season or part markers.
func (p *parser) findTrailingNumber() (numberMatch, bool) {
	for i := len(p.words) - 1; i > 0; i-- {
		w := p.words[i]
		r, v, ok := parseNumber(w)
		if !ok || (yearRe.MatchString(w) && !r.IsRange()) {
			continue
		}
		prev := strings.ToLower(p.words[i-1])
		if numberGuards[prev] {
			continue
		}
		if !p.hasTitleBefore(i) {
			return numberMatch{}, false
		}
		return numberMatch{index: i, span: 1, number: r, version: v}, true
	}
	return numberMatch{}, false
}

func (p *parser) hasTitleBefore(i int) bool {
	for _, w := range p.words[:i] {
		if w != boundary && !isDash(w) {
			return true
		}
	}
	return false
}

func (p *parser) applyNumber(m numberMatch) {
	p.ep.EpisodeNumber = m.number
	p.numberFound = true
	if m.season > 0 {
		p.ep.Season = m.season
	}
	if m.version > 0 {
		p.ep.ReleaseVersion = m.version
	}

	// "Title OVA - 02": a type keyword right before the number.
	for i := m.index - 1; i > 0; i-- {
		w := p.words[i]
		if isDash(w) {
			continue
		}
		if lookupKeyword(w) == kindAnimeType {
			p.setAnimeType(w)
			p.words[i] = boundary
		}
		break
	}
}

func (p *parser) readTitle(end int) {
	words := make([]string, 0, end)
	for _, w := range p.words[:end] {
		if w != boundary {
			words = append(words, w)
		}
	}

	if !p.numberFound && len(words) > 1 {
		if last := words[len(words)-1]; lookupKeyword(last) == kindAnimeType {
			p.setAnimeType(last)
			words = words[:len(words)-1]
		}
	}
	if len(words) > 1 && yearRe.MatchString(words[len(words)-1]) {
		if p.ep.Year == 0 {
			p.ep.Year, _ = strconv.Atoi(words[len(words)-1])
		}
		words = words[:len(words)-1]
	}

	p.ep.Title = strings.Trim(strings.Join(words, " "), separatorChars)
}

func (p *parser) readEpisodeTitle(start int) {
	var words []string
	i := start
	for ; i < len(p.words); i++ {
		w := p.words[i]
		if w == boundary {
			if len(words) > 0 {
				break
			}
			continue
		}
		if p.classify(w, true) {
			continue
		}
		words = append(words, w)
	}

	// Free words after the episode title can still hold keywords.
	for ; i < len(p.words); i++ {
		if w := p.words[i]; w != boundary {
			p.classify(w, true)
		}
	}

	p.ep.EpisodeTitle = strings.Trim(strings.Join(words, " "), separatorChars)
}

func isDash(w string) bool {
	return w == "-" || w == "~" || w == "–" || w == "—"
}
