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

package parser

import "strings"

type keywordKind int

const (
	kindNone keywordKind = iota
	kindAnimeType
	kindAudio
	kindVideo
	kindSource
	kindExtra
	kindReleaseInfo
	kindLanguage
)

var keywords = map[string]keywordKind{
	// anime types
	"tv": kindAnimeType, "ova": kindAnimeType, "oad": kindAnimeType, "oav": kindAnimeType,
	"ona": kindAnimeType, "movie": kindAnimeType, "gekijouban": kindAnimeType,
	"special": kindAnimeType, "specials": kindAnimeType, "sp": kindAnimeType,
	"op": kindAnimeType, "opening": kindAnimeType, "ed": kindAnimeType, "ending": kindAnimeType,
	"ncop": kindAnimeType, "nced": kindAnimeType, "pv": kindAnimeType, "cm": kindAnimeType,
	"preview": kindAnimeType, "trailer": kindAnimeType, "menu": kindAnimeType,
	"yokoku": kindAnimeType, "ost": kindAnimeType,

	// audio
	"aac": kindAudio, "aacx2": kindAudio, "aac2.0": kindAudio, "flac": kindAudio,
	"flacx2": kindAudio, "ac3": kindAudio, "eac3": kindAudio, "dts": kindAudio,
	"dts-es": kindAudio, "truehd": kindAudio, "mp3": kindAudio, "opus": kindAudio,
	"vorbis": kindAudio, "2ch": kindAudio, "5.1": kindAudio, "5.1ch": kindAudio,
	"dual-audio": kindAudio, "dualaudio": kindAudio, "dual": kindAudio,

	// video
	"x264": kindVideo, "x265": kindVideo, "h264": kindVideo, "h265": kindVideo,
	"h.264": kindVideo, "h.265": kindVideo, "hevc": kindVideo, "hevc2": kindVideo,
	"avc": kindVideo, "av1": kindVideo, "xvid": kindVideo, "divx": kindVideo,
	"8bit": kindVideo, "8-bit": kindVideo, "10bit": kindVideo, "10-bit": kindVideo,
	"hi10": kindVideo, "hi10p": kindVideo, "hi444": kindVideo, "hdr": kindVideo,
	"60fps": kindVideo, "120fps": kindVideo,

	// sources
	"bd": kindSource, "bdrip": kindSource, "bluray": kindSource, "blu-ray": kindSource,
	"bd-rip": kindSource, "dvd": kindSource, "dvd5": kindSource, "dvd9": kindSource,
	"dvdrip": kindSource, "dvd-rip": kindSource, "r2dvd": kindSource, "hdtv": kindSource,
	"hdtvrip": kindSource, "tvrip": kindSource, "tv-rip": kindSource, "web": kindSource,
	"webrip": kindSource, "web-rip": kindSource, "web-dl": kindSource, "webdl": kindSource,
	"remux": kindSource,

	// extras
	"uncensored": kindExtra, "uncut": kindExtra, "censored": kindExtra, "raw": kindExtra,
	"raws": kindExtra, "remastered": kindExtra, "remaster": kindExtra, "hardsub": kindExtra,
	"softsub": kindExtra, "sub": kindExtra, "subbed": kindExtra, "dub": kindExtra,
	"dubbed": kindExtra, "multisub": kindExtra, "multi-sub": kindExtra, "widescreen": kindExtra,
	"ws": kindExtra,

	// release info
	"batch": kindReleaseInfo, "complete": kindReleaseInfo, "end": kindReleaseInfo,
	"final": kindReleaseInfo, "patch": kindReleaseInfo, "remake": kindReleaseInfo,

	// languages
	"eng": kindLanguage, "english": kindLanguage, "espanol": kindLanguage,
	"jap": kindLanguage, "jpn": kindLanguage, "vostfr": kindLanguage, "ita": kindLanguage,
}

// Release types that are not regular episodes.
var nonEpisodeTypes = map[string]bool{
	"op": true, "opening": true, "ed": true, "ending": true, "ncop": true,
	"nced": true, "pv": true, "cm": true, "preview": true, "trailer": true,
	"menu": true, "yokoku": true, "ost": true,
}

var videoExtensions = map[string]bool{
	"3gp": true, "avi": true, "asf": true, "divx": true, "flv": true,
	"m2ts": true, "m4v": true, "mkv": true, "mov": true, "mp4": true,
	"mpeg": true, "mpg": true, "ogm": true, "ogv": true, "rm": true,
	"rmvb": true, "ts": true, "webm": true, "wmv": true,
}

var audioExtensions = map[string]bool{
	"aac": true, "flac": true, "m4a": true, "mka": true, "mp3": true,
	"ogg": true, "opus": true, "wav": true,
}

func lookupKeyword(word string) keywordKind {
	return keywords[strings.ToLower(word)]
}

// IsVideoExtension reports whether ext (without the dot) is a known video
// container.
func IsVideoExtension(ext string) bool {
	return videoExtensions[strings.ToLower(ext)]
}

// IsAudioExtension reports whether ext (without the dot) is a known audio
// container, such as external soundtracks released next to episodes.
func IsAudioExtension(ext string) bool {
	return audioExtensions[strings.ToLower(ext)]
}

// IsNonEpisodeType reports whether an anime type keyword names an
// opening, ending, preview or similar extra rather than an episode.
func IsNonEpisodeType(animeType string) bool {
	return nonEpisodeTypes[strings.ToLower(animeType)]
}
