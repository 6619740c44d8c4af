// Package refs extracts and diffs the dimension ids referenced by play rows
package refs

import (
	"spinlog/internal/core/flatten"
)

// Category names one dimension family
type Category string

// Known categories
const (
	CategoryArtist Category = "artist"
	CategoryAlbum  Category = "album"
	CategoryTrack  Category = "track"
)

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	switch c {
	case CategoryArtist, CategoryAlbum, CategoryTrack:
		return true
	}
	return false
}

// Categories returns every category in canonical order
func Categories() []Category {
	return []Category{CategoryArtist, CategoryAlbum, CategoryTrack}
}

// Refs holds the per-category deduplicated id sets referenced by a batch
// slices keep first-seen order so extraction stays deterministic for a batch
type Refs struct {
	Artists []string
	Albums  []string
	Tracks  []string
}

// Total returns the number of ids across all categories
func (r Refs) Total() int { return len(r.Artists) + len(r.Albums) + len(r.Tracks) }

// IDs returns the extracted ids for cat; unknown categories return nil
func (r Refs) IDs(cat Category) []string {
	switch cat {
	case CategoryArtist:
		return r.Artists
	case CategoryAlbum:
		return r.Albums
	case CategoryTrack:
		return r.Tracks
	}
	return nil
}

// Extract collects the artist, album, and track ids referenced by rows
// the unknown sentinel is never emitted; duplicates collapse to one entry
func Extract(rows []flatten.PlayRow) Refs {
	var out Refs
	seenArtists := make(map[string]struct{}, len(rows))
	seenAlbums := make(map[string]struct{}, len(rows))
	seenTracks := make(map[string]struct{}, len(rows))

	add := func(seen map[string]struct{}, dst *[]string, id string) {
		if id == "" || id == flatten.Unknown {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		*dst = append(*dst, id)
	}

	for _, row := range rows {
		add(seenArtists, &out.Artists, row.ArtistID)
		add(seenAlbums, &out.Albums, row.AlbumID)
		add(seenTracks, &out.Tracks, row.TrackID)
	}
	return out
}

// Novel returns the ids from extracted that are absent from existing
// both inputs are treated as immutable snapshots; order follows extracted
func Novel(extracted []string, existing map[string]struct{}) []string {
	if len(extracted) == 0 {
		return nil
	}
	out := make([]string, 0, len(extracted))
	for _, id := range extracted {
		if _, ok := existing[id]; ok {
			continue
		}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
