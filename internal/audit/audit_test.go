package audit

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openSQLite(t *testing.T) *SQLiteRecorder {
	t.Helper()
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "nested", "decisions.db"))
	if err != nil {
		t.Fatalf("failed to open recorder: %v", err)
	}
	t.Cleanup(func() { rec.Close(context.Background()) })
	return rec
}

func TestSQLiteRecordAndRecent(t *testing.T) {
	rec := openSQLite(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	for i, stage := range []string{"win", "block", "search"} {
		d := Decision{
			ID:         string(rune('a' + i)),
			RequestID:  "req",
			Transport:  TransportHTTP,
			Difficulty: "hard",
			Player:     1,
			Stones:     10 + i,
			X:          i,
			Y:          7,
			Stage:      stage,
			Score:      100 * i,
			Depth:      4,
			Nodes:      int64(1000 * i),
			Cached:     i == 1,
			ElapsedMs:  int64(i),
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
		}
		if err := rec.Record(ctx, d); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	got, err := rec.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 decisions, got %d", len(got))
	}
	if got[0].Stage != "search" || got[1].Stage != "block" {
		t.Fatalf("expected newest first, got %s then %s", got[0].Stage, got[1].Stage)
	}
	if !got[1].Cached || got[0].Cached {
		t.Fatalf("cached flag not round-tripped")
	}
	if !got[0].CreatedAt.Equal(base.Add(2 * time.Second)) {
		t.Fatalf("unexpected timestamp %v", got[0].CreatedAt)
	}
	if got[0].Nodes != 2000 || got[0].X != 2 || got[0].Y != 7 {
		t.Fatalf("unexpected decision %+v", got[0])
	}
}

func TestSQLitePurge(t *testing.T) {
	rec := openSQLite(t)
	ctx := context.Background()
	for _, id := range []string{"one", "two"} {
		if err := rec.Record(ctx, Decision{ID: id, CreatedAt: time.Now()}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	n, err := rec.Purge(ctx)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 deleted, got %d", n)
	}
	left, err := rec.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("expected an empty log, got %d", len(left))
	}
}

func TestLogDecisionFillsDefaults(t *testing.T) {
	rec := openSQLite(t)
	LogDecision(rec, Decision{RequestID: "bg", Stage: "win"})

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		got, err := rec.Recent(context.Background(), 1)
		if err != nil {
			t.Fatalf("recent: %v", err)
		}
		if len(got) == 1 {
			if got[0].ID == "" || got[0].CreatedAt.IsZero() {
				t.Fatalf("defaults not filled: %+v", got[0])
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("background write never landed")
}

func TestOpen(t *testing.T) {
	rec, err := Open(Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := rec.(NopRecorder); !ok {
		t.Fatalf("expected a NopRecorder, got %T", rec)
	}

	rec, err = Open(Options{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "d.db")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rec.Close(context.Background())
	if _, ok := rec.(*SQLiteRecorder); !ok {
		t.Fatalf("expected a SQLiteRecorder, got %T", rec)
	}

	if _, err := Open(Options{Driver: "redis"}); !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("expected ErrUnknownDriver, got %v", err)
	}
}
