package spotify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	perr "spinlog/internal/platform/errors"
)

// Batch ceilings documented by the Web API per several-ids endpoint
const (
	artistChunk = 50
	albumChunk  = 20
	trackChunk  = 50
)

// RecentLimitMax is the API ceiling for one recently played page
const RecentLimitMax = 50

// fetchParallel bounds concurrent chunk requests per endpoint call
const fetchParallel = 4

// RecentlyPlayed returns one page of the user's recently played items as the
// raw response body. Harvest stores the bytes verbatim so no decoding
// happens here. Limits outside 1..50 clamp to the API maximum; a nonzero
// after asks only for plays strictly newer than that instant.
func (c *Client) RecentlyPlayed(ctx context.Context, limit int, after time.Time) ([]byte, error) {
	if limit <= 0 || limit > RecentLimitMax {
		limit = RecentLimitMax
	}
	path := fmt.Sprintf("/me/player/recently-played?limit=%d", limit)
	if !after.IsZero() {
		path += fmt.Sprintf("&after=%d", after.UnixMilli())
	}
	return c.get(ctx, path)
}

// Artists fetches full artist objects for ids, chunked per the API ceiling.
// Ids the API does not know come back as nulls and are dropped, so the
// result may be shorter than the input.
func (c *Client) Artists(ctx context.Context, ids []string) ([]Artist, error) {
	out := make([]Artist, 0, len(ids))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchParallel)
	for _, part := range chunk(ids, artistChunk) {
		g.Go(func() error {
			body, err := c.get(gctx, "/artists?ids="+strings.Join(part, ","))
			if err != nil {
				return err
			}
			var page struct {
				Artists []*Artist `json:"artists"`
			}
			if err := json.Unmarshal(body, &page); err != nil {
				return perr.JSONErrf("spotify decode artists: %v", err)
			}
			mu.Lock()
			for _, a := range page.Artists {
				if a != nil {
					out = append(out, *a)
				}
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Albums fetches full album objects for ids, chunked per the API ceiling
func (c *Client) Albums(ctx context.Context, ids []string) ([]Album, error) {
	out := make([]Album, 0, len(ids))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchParallel)
	for _, part := range chunk(ids, albumChunk) {
		g.Go(func() error {
			body, err := c.get(gctx, "/albums?ids="+strings.Join(part, ","))
			if err != nil {
				return err
			}
			var page struct {
				Albums []*Album `json:"albums"`
			}
			if err := json.Unmarshal(body, &page); err != nil {
				return perr.JSONErrf("spotify decode albums: %v", err)
			}
			mu.Lock()
			for _, a := range page.Albums {
				if a != nil {
					out = append(out, *a)
				}
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Tracks fetches full track objects for ids, chunked per the API ceiling
func (c *Client) Tracks(ctx context.Context, ids []string) ([]Track, error) {
	out := make([]Track, 0, len(ids))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchParallel)
	for _, part := range chunk(ids, trackChunk) {
		g.Go(func() error {
			body, err := c.get(gctx, "/tracks?ids="+strings.Join(part, ","))
			if err != nil {
				return err
			}
			var page struct {
				Tracks []*Track `json:"tracks"`
			}
			if err := json.Unmarshal(body, &page); err != nil {
				return perr.JSONErrf("spotify decode tracks: %v", err)
			}
			mu.Lock()
			for _, t := range page.Tracks {
				if t != nil {
					out = append(out, *t)
				}
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func chunk(ids []string, n int) [][]string {
	var parts [][]string
	for len(ids) > n {
		parts = append(parts, ids[:n])
		ids = ids[n:]
	}
	if len(ids) > 0 {
		parts = append(parts, ids)
	}
	return parts
}
