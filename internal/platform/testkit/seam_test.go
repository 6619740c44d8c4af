package testkit

import "testing"

var (
	chunkSize = 50
	keyFor    = func(day string) string { return day + "/recent_tracks.json" }
)

func TestSwapRestoresValue(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Swap(t, &chunkSize, 5)
		if chunkSize != 5 {
			t.Fatalf("swap did not take, chunkSize=%d", chunkSize)
		}
	})
	if chunkSize != 50 {
		t.Fatalf("swap did not restore, chunkSize=%d", chunkSize)
	}
}

func TestSwapRestoresFunc(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Swap(t, &keyFor, func(string) string { return "fixed" })
		if keyFor("2026-08-25") != "fixed" {
			t.Fatalf("swap did not take for func seam")
		}
	})
	if got := keyFor("2026-08-25"); got != "2026-08-25/recent_tracks.json" {
		t.Fatalf("swap did not restore func seam, got %q", got)
	}
}
