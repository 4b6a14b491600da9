package core

import (
	"context"
	"fmt"
	"testing"
)

func TestMemoryRunStore_RecentNewestFirst(t *testing.T) {
	store := NewMemoryRunStore(10)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		if err := store.Record(ctx, Run{ID: fmt.Sprintf("run-%d", i)}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	runs, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	want := []string{"run-3", "run-2", "run-1"}
	if len(runs) != len(want) {
		t.Fatalf("len(runs) = %d, want %d", len(runs), len(want))
	}
	for i, id := range want {
		if runs[i].ID != id {
			t.Errorf("runs[%d].ID = %q, want %q", i, runs[i].ID, id)
		}
	}
}

func TestMemoryRunStore_EvictsOldest(t *testing.T) {
	store := NewMemoryRunStore(3)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		store.Record(ctx, Run{ID: fmt.Sprintf("run-%d", i)})
	}

	tests := []struct {
		limit int
		want  []string
	}{
		{limit: 0, want: []string{"run-5", "run-4", "run-3"}},
		{limit: 2, want: []string{"run-5", "run-4"}},
		{limit: 50, want: []string{"run-5", "run-4", "run-3"}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("limit=%d", tt.limit), func(t *testing.T) {
			runs, _ := store.Recent(ctx, tt.limit)
			if len(runs) != len(tt.want) {
				t.Fatalf("len(runs) = %d, want %d", len(runs), len(tt.want))
			}
			for i, id := range tt.want {
				if runs[i].ID != id {
					t.Errorf("runs[%d].ID = %q, want %q", i, runs[i].ID, id)
				}
			}
		})
	}
}

func TestMemoryRunStore_Empty(t *testing.T) {
	runs, err := NewMemoryRunStore(0).Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("len(runs) = %d, want 0", len(runs))
	}
}
