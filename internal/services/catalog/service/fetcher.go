package service

import (
	"context"

	"spinlog/internal/adapters/spotify"
	"spinlog/internal/core/refs"
	perr "spinlog/internal/platform/errors"
	"spinlog/internal/services/catalog/domain"
)

// MetadataClient is the slice of the Spotify client the fetcher needs
type MetadataClient interface {
	Artists(ctx context.Context, ids []string) ([]spotify.Artist, error)
	Albums(ctx context.Context, ids []string) ([]spotify.Album, error)
	Tracks(ctx context.Context, ids []string) ([]spotify.Track, error)
}

// SpotifyFetcher maps Web API metadata onto dimension rows
type SpotifyFetcher struct {
	client MetadataClient
}

// NewSpotifyFetcher constructs the production fetcher
func NewSpotifyFetcher(client MetadataClient) *SpotifyFetcher {
	return &SpotifyFetcher{client: client}
}

// Fetch implements domain.FetcherPort
func (f *SpotifyFetcher) Fetch(
	ctx context.Context,
	cat refs.Category,
	ids []string,
) ([]domain.DimensionRow, error) {
	switch cat {
	case refs.CategoryArtist:
		artists, err := f.client.Artists(ctx, ids)
		if err != nil {
			return nil, err
		}
		rows := make([]domain.DimensionRow, 0, len(artists))
		for _, a := range artists {
			rows = append(rows, domain.ArtistRow{
				ID:         a.ID,
				Name:       a.Name,
				Genres:     a.Genres,
				Popularity: a.Popularity,
				Followers:  a.Followers.Total,
			})
		}
		return rows, nil
	case refs.CategoryAlbum:
		albums, err := f.client.Albums(ctx, ids)
		if err != nil {
			return nil, err
		}
		rows := make([]domain.DimensionRow, 0, len(albums))
		for _, a := range albums {
			rows = append(rows, domain.AlbumRow{
				ID:          a.ID,
				Name:        a.Name,
				ReleaseDate: a.ReleaseDate,
				TotalTracks: a.TotalTracks,
				Label:       a.Label,
			})
		}
		return rows, nil
	case refs.CategoryTrack:
		tracks, err := f.client.Tracks(ctx, ids)
		if err != nil {
			return nil, err
		}
		rows := make([]domain.DimensionRow, 0, len(tracks))
		for _, tr := range tracks {
			rows = append(rows, domain.TrackRow{
				ID:         tr.ID,
				Name:       tr.Name,
				DurationMS: tr.DurationMS,
				Explicit:   tr.Explicit,
				Popularity: tr.Popularity,
			})
		}
		return rows, nil
	}
	return nil, perr.InvalidArgf("unknown category %q", cat)
}
