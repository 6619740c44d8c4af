//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"spinlog/internal/core/flatten"
	"spinlog/internal/migrations"
	"spinlog/internal/platform/store"
	"spinlog/internal/platform/testkit"
)

func TestMergePlaysIntegration(t *testing.T) {
	dsn := testkit.StartPostgres(t, "spinlog", "spinlog", "spinlog")

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	if err := migrations.Apply(ctx, dsn); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	s, err := store.Open(ctx, store.Config{
		PG: store.PGConfig{Enabled: true, URL: dsn, MaxConns: 2},
	}, store.WithLogger(zerolog.New(io.Discard)))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}

	st := NewPG().Bind(s.PG)

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	cet := time.FixedZone("CET", 3600)

	// t1 appears twice at the same instant, once expressed in CET
	batch := []flatten.PlayRow{
		playRow(base, "t1", "Keeper"),
		playRow(base.In(cet), "t1", "Shadow"),
		playRow(base.Add(4*time.Minute), "t2", "Second"),
	}

	out, err := st.MergePlays(ctx, batch)
	if err != nil {
		t.Fatalf("first merge: %v", err)
	}
	if len(out.Inserted) != 2 || out.Skipped != 0 || out.InBatchDups != 1 {
		t.Fatalf("first merge = %+v", out)
	}
	for _, k := range out.Inserted {
		if k.PlayedAt.Location() != time.UTC {
			t.Fatalf("returned key not UTC: %v", k.PlayedAt)
		}
	}

	// replaying the identical batch must not touch the table
	out, err = st.MergePlays(ctx, batch)
	if err != nil {
		t.Fatalf("replay merge: %v", err)
	}
	if len(out.Inserted) != 0 || out.Skipped != 2 || out.InBatchDups != 1 {
		t.Fatalf("replay merge = %+v", out)
	}

	// the same instant expressed in another zone is still the same key
	shifted := []flatten.PlayRow{playRow(base.In(cet), "t1", "Rewritten")}
	out, err = st.MergePlays(ctx, shifted)
	if err != nil {
		t.Fatalf("shifted merge: %v", err)
	}
	if len(out.Inserted) != 0 || out.Skipped != 1 {
		t.Fatalf("shifted merge = %+v", out)
	}

	var count int
	if err := s.PG.QueryRow(ctx, "SELECT count(*) FROM plays").Scan(&count); err != nil {
		t.Fatalf("count plays: %v", err)
	}
	if count != 2 {
		t.Fatalf("plays count = %d, want 2", count)
	}

	var name string
	if err := s.PG.QueryRow(
		ctx, "SELECT track_name FROM plays WHERE track_id = $1", "t1",
	).Scan(&name); err != nil {
		t.Fatalf("read t1: %v", err)
	}
	if name != "Keeper" {
		t.Fatalf("t1 name = %q, want first occurrence to win", name)
	}

	// the merge also runs inside a transaction the way the service drives it
	err = s.PG.Tx(ctx, func(q store.RowQuerier) error {
		txOut, err := NewPG().Bind(q).MergePlays(ctx, []flatten.PlayRow{
			playRow(base.Add(8*time.Minute), "t3", "Third"),
		})
		if err != nil {
			return err
		}
		if len(txOut.Inserted) != 1 {
			return fmt.Errorf("tx merge = %+v", txOut)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("tx merge: %v", err)
	}
}
