package service

import (
	"context"
	"io"
	"testing"
	"time"

	"spinlog/internal/adapters/rawstore"
	perr "spinlog/internal/platform/errors"
	"spinlog/internal/platform/testkit"
)

const recentPage = `{
	"items": [
		{"played_at": "2024-03-01T10:00:00Z", "track": {"id": "t1", "name": "One"}}
	],
	"limit": 50
}`

type fakeRecent struct {
	body     []byte
	err      error
	gotLimit int
	gotAfter time.Time
	calls    int
}

func (f *fakeRecent) RecentlyPlayed(_ context.Context, limit int, after time.Time) ([]byte, error) {
	f.calls++
	f.gotLimit = limit
	f.gotAfter = after
	if f.err != nil {
		return nil, f.err
	}
	return f.body, nil
}

func newTestSvc(t *testing.T, client *fakeRecent, cfg Config) (*Svc, rawstore.Store) {
	t.Helper()
	st, err := rawstore.NewDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	svc := NewWithClient(st, cfg, client)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 17, 30, 0, 0, time.UTC) }
	return svc, st
}

func readAll(t *testing.T, st rawstore.Store, key string) string {
	t.Helper()
	rc, err := st.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("Get %s: %v", key, err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read %s: %v", key, err)
	}
	return string(b)
}

func TestHarvestStoresFreshPage(t *testing.T) {
	t.Parallel()

	client := &fakeRecent{body: []byte(recentPage)}
	svc, st := newTestSvc(t, client, Config{})

	key, err := svc.Harvest(context.Background())
	if err != nil {
		t.Fatalf("Harvest: %v", err)
	}
	if key != "2024-03-01/recent_tracks.json" {
		t.Fatalf("key = %s", key)
	}
	if got := readAll(t, st, key); got != recentPage {
		t.Fatalf("stored body = %q", got)
	}
	if client.gotLimit != 50 {
		t.Fatalf("limit = %d", client.gotLimit)
	}
	if !client.gotAfter.IsZero() {
		t.Fatalf("after = %s without a lookback", client.gotAfter)
	}
}

func TestHarvestOverwritesSameDay(t *testing.T) {
	t.Parallel()

	client := &fakeRecent{body: []byte(recentPage)}
	svc, st := newTestSvc(t, client, Config{})

	if _, err := svc.Harvest(context.Background()); err != nil {
		t.Fatalf("first: %v", err)
	}
	fresher := `{"items": [], "limit": 50}`
	client.body = []byte(fresher)
	key, err := svc.Harvest(context.Background())
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if got := readAll(t, st, key); got != fresher {
		t.Fatalf("stored body = %q, want the fresher pull", got)
	}
}

func TestHarvestRejectsCorruptPayload(t *testing.T) {
	t.Parallel()

	client := &fakeRecent{body: []byte(`{"items": [`)}
	svc, st := newTestSvc(t, client, Config{})

	_, err := svc.Harvest(context.Background())
	if !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("code = %v", perr.CodeOf(err))
	}
	exists, err := st.Exists(context.Background(), "2024-03-01/recent_tracks.json")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Fatal("corrupt payload reached the raw zone")
	}
}

func TestHarvestPropagatesClientError(t *testing.T) {
	t.Parallel()

	client := &fakeRecent{err: perr.Unauthorizedf("refresh token revoked")}
	svc, st := newTestSvc(t, client, Config{})

	_, err := svc.Harvest(context.Background())
	if !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("code = %v", perr.CodeOf(err))
	}
	keys, err := st.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("keys = %v", keys)
	}
}

func TestHarvestAppliesLookbackCursor(t *testing.T) {
	t.Parallel()

	client := &fakeRecent{body: []byte(recentPage)}
	svc, _ := newTestSvc(t, client, Config{Limit: 25, Lookback: 24 * time.Hour})

	if _, err := svc.Harvest(context.Background()); err != nil {
		t.Fatalf("Harvest: %v", err)
	}
	if client.gotLimit != 25 {
		t.Fatalf("limit = %d", client.gotLimit)
	}
	want := time.Date(2024, 2, 29, 17, 30, 0, 0, time.UTC)
	if !client.gotAfter.Equal(want) {
		t.Fatalf("after = %s, want %s", client.gotAfter, want)
	}
}

func TestNewWithClientPanics(t *testing.T) {
	t.Parallel()

	st, err := rawstore.NewDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	testkit.MustPanic(t, func() { NewWithClient(nil, Config{}, &fakeRecent{}) })
	testkit.MustPanic(t, func() { NewWithClient(st, Config{}, nil) })
}
