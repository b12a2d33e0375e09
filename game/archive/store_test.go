package archive_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/wricardo/ricochet-robots-game/game/archive"
	"github.com/wricardo/ricochet-robots-game/game/service"
)

func createTestStore(t *testing.T) *archive.Store {
	t.Helper()
	store, err := archive.NewStore(filepath.Join(t.TempDir(), "eval.db"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testEvaluation(problem, result string, at time.Time) *service.Evaluation {
	return &service.Evaluation{
		ID:             uuid.NewString(),
		Problem:        problem,
		RequestedMoves: 3,
		ExecutedMoves:  3,
		Result:         result,
		TraceLength:    11,
		DurationMs:     2,
		CreatedAt:      at,
	}
}

func TestStoreRecordAndList(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		ev := testEvaluation(fmt.Sprintf("p-%d", i), "reached", base.Add(time.Duration(i)*time.Second))
		if err := store.Record(ctx, ev); err != nil {
			t.Fatalf("Record %d failed: %v", i, err)
		}
	}

	evs, total, err := store.List(ctx, 1, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(evs) != 2 {
		t.Fatalf("page size = %d, want 2", len(evs))
	}
	// Newest first.
	if evs[0].Problem != "p-4" || evs[1].Problem != "p-3" {
		t.Errorf("page 1 = %s, %s; want p-4, p-3", evs[0].Problem, evs[1].Problem)
	}

	evs, _, err = store.List(ctx, 3, 2)
	if err != nil {
		t.Fatalf("List page 3 failed: %v", err)
	}
	if len(evs) != 1 || evs[0].Problem != "p-0" {
		t.Errorf("page 3 = %+v, want just p-0", evs)
	}
}

func TestStoreListEmpty(t *testing.T) {
	store := createTestStore(t)

	evs, total, err := store.List(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 0 || len(evs) != 0 {
		t.Errorf("total = %d, rows = %d, want empty", total, len(evs))
	}
}

func TestStoreCountByResult(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	for i, result := range []string{"reached", "reached", "cell-empty", "wrong-robot", "error"} {
		if err := store.Record(ctx, testEvaluation("p", result, now.Add(time.Duration(i)*time.Millisecond))); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	counts, err := store.CountByResult(ctx)
	if err != nil {
		t.Fatalf("CountByResult failed: %v", err)
	}
	want := map[string]int{"reached": 2, "cell-empty": 1, "wrong-robot": 1, "error": 1}
	for result, n := range want {
		if counts[result] != n {
			t.Errorf("counts[%s] = %d, want %d", result, counts[result], n)
		}
	}
}

func TestStoreFieldsRoundTrip(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	ev := &service.Evaluation{
		ID:             uuid.NewString(),
		Problem:        "round",
		SessionID:      "ab12",
		RequestedMoves: 4,
		ExecutedMoves:  2,
		Result:         "error",
		TraceLength:    7,
		DurationMs:     15,
		CreatedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := store.Record(ctx, ev); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	evs, _, err := store.List(ctx, 1, 1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	got := evs[0]
	if got.ID != ev.ID || got.SessionID != "ab12" || got.ExecutedMoves != 2 ||
		got.Result != "error" || got.TraceLength != 7 || got.DurationMs != 15 {
		t.Errorf("round trip = %+v", got)
	}
	if !got.CreatedAt.Equal(ev.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, ev.CreatedAt)
	}
}
