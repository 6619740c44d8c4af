// Package domain defines catalog dimension types and ports
package domain

import "spinlog/internal/core/refs"

// MergePolicy names how dimension merges treat rows already present
type MergePolicy string

// MergePolicyInsertOnly is the only implemented policy: the first stored row
// for an id wins forever and no update arm exists
const MergePolicyInsertOnly MergePolicy = "insert_only"

// DimensionRow is one fetched dimension entity ready to merge
type DimensionRow interface {
	EntityID() string
	Category() refs.Category
}

// ArtistRow carries the artist fields we keep
type ArtistRow struct {
	ID         string
	Name       string
	Genres     []string
	Popularity int
	Followers  int64
}

// EntityID satisfies DimensionRow
func (r ArtistRow) EntityID() string { return r.ID }

// Category satisfies DimensionRow
func (r ArtistRow) Category() refs.Category { return refs.CategoryArtist }

// AlbumRow carries the album fields we keep
type AlbumRow struct {
	ID          string
	Name        string
	ReleaseDate string
	TotalTracks int
	Label       string
}

// EntityID satisfies DimensionRow
func (r AlbumRow) EntityID() string { return r.ID }

// Category satisfies DimensionRow
func (r AlbumRow) Category() refs.Category { return refs.CategoryAlbum }

// TrackRow carries the track fields we keep
type TrackRow struct {
	ID         string
	Name       string
	DurationMS int64
	Explicit   bool
	Popularity int
}

// EntityID satisfies DimensionRow
func (r TrackRow) EntityID() string { return r.ID }

// Category satisfies DimensionRow
func (r TrackRow) Category() refs.Category { return refs.CategoryTrack }

// EnrichOutcome reports one category enrichment pass. Counts reflect actual
// table mutations, never assumptions.
type EnrichOutcome struct {
	Category  refs.Category
	Extracted int
	Novel     int
	Fetched   int
	Inserted  int
	Deduped   int
}
