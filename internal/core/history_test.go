package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

func TestMemoryRunStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryRunStore(0)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		run := Run{ID: uuid.New(), Frame: fmt.Sprintf("F%d", i), Status: RunSucceeded}
		ids = append(ids, run.ID)
		if err := store.RecordRun(ctx, run); err != nil {
			t.Fatalf("RecordRun() error = %v", err)
		}
	}

	runs, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("ListRuns() returned %d runs, want 2", len(runs))
	}
	if runs[0].ID != ids[2] || runs[1].ID != ids[1] {
		t.Errorf("ListRuns() order = [%s %s], want newest first", runs[0].Frame, runs[1].Frame)
	}
}

func TestMemoryRunStore_Bounded(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryRunStore(2)

	for i := 0; i < 5; i++ {
		_ = store.RecordRun(ctx, Run{ID: uuid.New(), Frame: fmt.Sprintf("F%d", i)})
	}

	runs, _ := store.ListRuns(ctx, 10)
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	if runs[0].Frame != "F4" || runs[1].Frame != "F3" {
		t.Errorf("kept %s and %s, want F4 and F3", runs[0].Frame, runs[1].Frame)
	}
}

func TestMemoryRunStore_GetRun(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryRunStore(10)

	run := Run{ID: uuid.New(), Frame: "TitleFrame", Rows: 3}
	_ = store.RecordRun(ctx, run)

	got, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if got.Rows != 3 {
		t.Errorf("Rows = %d, want 3", got.Rows)
	}

	// The returned run is a copy.
	got.Rows = 99
	again, _ := store.GetRun(ctx, run.ID)
	if again.Rows != 3 {
		t.Errorf("store was modified through returned run")
	}

	if _, err := store.GetRun(ctx, uuid.New()); err != ErrRunNotFound {
		t.Errorf("GetRun(unknown) error = %v, want ErrRunNotFound", err)
	}
}
