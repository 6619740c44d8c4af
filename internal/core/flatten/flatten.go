// Package flatten turns raw recently-played records into canonical play rows
// Pipeline order for text fields
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFC normalization
// 3 Collapse whitespace to single spaces and trim
// The output is deterministic byte for byte for a given input
package flatten

import (
	"strings"
	"time"

	perr "spinlog/internal/platform/errors"

	"golang.org/x/text/unicode/norm"
)

// Unknown is the sentinel stored for optional text fields the record lacks
// it never names a real Spotify entity so extractors skip it
const Unknown = "unknown"

// RawRecord is one element of the recently-played items array, decoded leniently
type RawRecord struct {
	Track    *RawTrack   `json:"track"`
	PlayedAt string      `json:"played_at"`
	Context  *RawContext `json:"context"`
}

// RawTrack is the nested track object of a RawRecord
type RawTrack struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	DurationMS int64       `json:"duration_ms"`
	Explicit   bool        `json:"explicit"`
	Popularity int         `json:"popularity"`
	Album      *RawAlbum   `json:"album"`
	Artists    []RawArtist `json:"artists"`
}

// RawAlbum is the nested album object of a RawTrack
type RawAlbum struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date"`
}

// RawArtist is one element of a RawTrack artists array
type RawArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RawContext describes where playback happened (playlist, album, artist radio)
type RawContext struct {
	Type string `json:"type"`
}

// PlayRow is the canonical flat fact row
// (PlayedAt, TrackID) is the natural key; at most one stored row exists per key
type PlayRow struct {
	PlayedAt    time.Time
	TrackID     string
	ArtistID    string
	AlbumID     string
	TrackName   string
	ArtistName  string
	AlbumName   string
	ReleaseDate string
	DurationMS  int64
	Popularity  int
	Explicit    bool
	ContextType string
}

// Flatten normalizes one raw record into a PlayRow
// a record without a parseable played_at or a track id is malformed
func Flatten(raw RawRecord) (PlayRow, error) {
	ts := strings.TrimSpace(raw.PlayedAt)
	if ts == "" {
		return PlayRow{}, perr.Malformedf("record has no played_at")
	}
	playedAt, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return PlayRow{}, perr.Malformedf("bad played_at %q: %v", ts, err)
	}

	if raw.Track == nil {
		return PlayRow{}, perr.Malformedf("record has no track")
	}
	trackID := strings.TrimSpace(raw.Track.ID)
	if trackID == "" {
		return PlayRow{}, perr.Malformedf("track has no id")
	}

	row := PlayRow{
		PlayedAt:    playedAt.UTC(),
		TrackID:     trackID,
		ArtistID:    Unknown,
		AlbumID:     Unknown,
		TrackName:   textOr(raw.Track.Name),
		ArtistName:  Unknown,
		AlbumName:   Unknown,
		ReleaseDate: Unknown,
		DurationMS:  raw.Track.DurationMS,
		Popularity:  raw.Track.Popularity,
		Explicit:    raw.Track.Explicit,
		ContextType: Unknown,
	}

	if len(raw.Track.Artists) > 0 {
		// the lead artist carries the reference; feature credits stay in the raw zone
		if id := strings.TrimSpace(raw.Track.Artists[0].ID); id != "" {
			row.ArtistID = id
		}
		row.ArtistName = textOr(raw.Track.Artists[0].Name)
	}

	if a := raw.Track.Album; a != nil {
		if id := strings.TrimSpace(a.ID); id != "" {
			row.AlbumID = id
		}
		row.AlbumName = textOr(a.Name)
		row.ReleaseDate = textOr(a.ReleaseDate)
	}

	if c := raw.Context; c != nil {
		row.ContextType = textOr(c.Type)
	}

	return row, nil
}

// cleanText runs the documented text pipeline
func cleanText(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// textOr cleans s and substitutes the sentinel when nothing remains
func textOr(s string) string {
	if c := cleanText(s); c != "" {
		return c
	}
	return Unknown
}
