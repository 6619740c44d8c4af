package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"spinlog/internal/adapters/spotify"
	"spinlog/internal/core/refs"
	perr "spinlog/internal/platform/errors"
	"spinlog/internal/services/catalog/domain"
)

type fakeMetadata struct {
	artists []spotify.Artist
	albums  []spotify.Album
	tracks  []spotify.Track
	err     error

	gotArtistIDs []string
	gotAlbumIDs  []string
	gotTrackIDs  []string
}

func (f *fakeMetadata) Artists(_ context.Context, ids []string) ([]spotify.Artist, error) {
	f.gotArtistIDs = ids
	return f.artists, f.err
}

func (f *fakeMetadata) Albums(_ context.Context, ids []string) ([]spotify.Album, error) {
	f.gotAlbumIDs = ids
	return f.albums, f.err
}

func (f *fakeMetadata) Tracks(_ context.Context, ids []string) ([]spotify.Track, error) {
	f.gotTrackIDs = ids
	return f.tracks, f.err
}

func TestFetchMapsArtists(t *testing.T) {
	t.Parallel()

	m := &fakeMetadata{artists: []spotify.Artist{{
		ID:         "a1",
		Name:       "Rick Astley",
		Genres:     []string{"pop", "dance"},
		Popularity: 80,
	}}}
	m.artists[0].Followers.Total = 123456

	f := NewSpotifyFetcher(m)
	rows, err := f.Fetch(context.Background(), refs.CategoryArtist, []string{"a1"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !reflect.DeepEqual(m.gotArtistIDs, []string{"a1"}) {
		t.Fatalf("ids = %v", m.gotArtistIDs)
	}
	want := domain.ArtistRow{
		ID:         "a1",
		Name:       "Rick Astley",
		Genres:     []string{"pop", "dance"},
		Popularity: 80,
		Followers:  123456,
	}
	if len(rows) != 1 || !reflect.DeepEqual(rows[0], want) {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestFetchMapsAlbums(t *testing.T) {
	t.Parallel()

	m := &fakeMetadata{albums: []spotify.Album{{
		ID:          "al1",
		Name:        "Whenever You Need Somebody",
		ReleaseDate: "1987-11-12",
		TotalTracks: 10,
		Label:       "RCA",
	}}}

	f := NewSpotifyFetcher(m)
	rows, err := f.Fetch(context.Background(), refs.CategoryAlbum, []string{"al1"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	want := domain.AlbumRow{
		ID:          "al1",
		Name:        "Whenever You Need Somebody",
		ReleaseDate: "1987-11-12",
		TotalTracks: 10,
		Label:       "RCA",
	}
	if len(rows) != 1 || rows[0] != domain.DimensionRow(want) {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestFetchMapsTracks(t *testing.T) {
	t.Parallel()

	m := &fakeMetadata{tracks: []spotify.Track{{
		ID:         "t1",
		Name:       "Never Gonna Give You Up",
		DurationMS: 213573,
		Explicit:   false,
		Popularity: 85,
	}}}

	f := NewSpotifyFetcher(m)
	rows, err := f.Fetch(context.Background(), refs.CategoryTrack, []string{"t1"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	want := domain.TrackRow{
		ID:         "t1",
		Name:       "Never Gonna Give You Up",
		DurationMS: 213573,
		Popularity: 85,
	}
	if len(rows) != 1 || rows[0] != domain.DimensionRow(want) {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestFetchUnknownCategory(t *testing.T) {
	t.Parallel()

	f := NewSpotifyFetcher(&fakeMetadata{})
	_, err := f.Fetch(context.Background(), "playlist", []string{"x"})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("code = %v", perr.CodeOf(err))
	}
}

func TestFetchClientErrorPassesThrough(t *testing.T) {
	t.Parallel()

	boom := errors.New("api down")
	f := NewSpotifyFetcher(&fakeMetadata{err: boom})
	_, err := f.Fetch(context.Background(), refs.CategoryTrack, []string{"t1"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
