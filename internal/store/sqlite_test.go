package store

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "audit.db"), log.New(io.Discard))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seed(t *testing.T, s *SQLiteStore, recs ...ToolCall) {
	t.Helper()
	for _, rec := range recs {
		if err := s.InsertToolCall(context.Background(), rec); err != nil {
			t.Fatalf("InsertToolCall: %v", err)
		}
	}
}

func TestInsertAndRecentOrdering(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	now := time.Now().UTC()
	seed(t, s,
		ToolCall{Method: "tools/call", ToolName: "get_projects", Success: true, CreatedAt: now.Add(-2 * time.Hour)},
		ToolCall{Method: "tools/call", ToolName: "create_hub", Project: "Sales", Success: false, ErrorText: "hub exists", CreatedAt: now.Add(-time.Hour)},
		ToolCall{Method: "tools/call", ToolName: "search_model", Project: "Sales", Success: true, DurationMS: 42, CreatedAt: now},
	)

	calls, err := s.RecentToolCalls(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentToolCalls: %v", err)
	}
	if len(calls) != 3 {
		t.Fatalf("got %d calls, want 3", len(calls))
	}
	if calls[0].ToolName != "search_model" || calls[2].ToolName != "get_projects" {
		t.Fatalf("calls not newest-first: %+v", calls)
	}
	if calls[0].DurationMS != 42 || calls[0].Project != "Sales" {
		t.Fatalf("fields not round-tripped: %+v", calls[0])
	}

	failures, err := s.RecentFailures(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentFailures: %v", err)
	}
	if len(failures) != 1 || failures[0].ToolName != "create_hub" || failures[0].ErrorText != "hub exists" {
		t.Fatalf("unexpected failures: %+v", failures)
	}
}

func TestRecentToolCallsLimit(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	now := time.Now().UTC()
	for i := 0; i < 5; i++ {
		seed(t, s, ToolCall{Method: "ping", Success: true, CreatedAt: now.Add(time.Duration(i) * time.Second)})
	}

	calls, err := s.RecentToolCalls(context.Background(), 2)
	if err != nil {
		t.Fatalf("RecentToolCalls: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("limit ignored, got %d calls", len(calls))
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	now := time.Now().UTC()
	oldest := now.Add(-72 * time.Hour)
	seed(t, s,
		ToolCall{Method: "tools/call", Success: true, CreatedAt: oldest},
		ToolCall{Method: "tools/call", Success: false, CreatedAt: now.Add(-30 * time.Hour)},
		ToolCall{Method: "tools/call", Success: true, CreatedAt: now.Add(-time.Hour)},
	)

	st, err := s.Stats(context.Background(), now)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Total != 3 || st.Failed != 1 || st.Last24h != 1 {
		t.Fatalf("unexpected stats: %+v", st)
	}
	if !st.OldestAt.Equal(oldest) {
		t.Fatalf("oldest %v, want %v", st.OldestAt, oldest)
	}
}

func TestPruneBefore(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	now := time.Now().UTC()
	seed(t, s,
		ToolCall{Method: "tools/call", Success: true, CreatedAt: now.Add(-72 * time.Hour)},
		ToolCall{Method: "tools/call", Success: true, CreatedAt: now.Add(-48 * time.Hour)},
		ToolCall{Method: "tools/call", Success: true, CreatedAt: now},
	)

	n, err := s.PruneBefore(context.Background(), now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("PruneBefore: %v", err)
	}
	if n != 2 {
		t.Fatalf("pruned %d rows, want 2", n)
	}

	calls, err := s.RecentToolCalls(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentToolCalls: %v", err)
	}
	if len(calls) != 1 {
		t.Fatalf("got %d surviving calls, want 1", len(calls))
	}
}

func TestInsertDefaultsCreatedAt(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	seed(t, s, ToolCall{Method: "tools/call", ToolName: "get_projects", Success: true})

	calls, err := s.RecentToolCalls(context.Background(), 1)
	if err != nil {
		t.Fatalf("RecentToolCalls: %v", err)
	}
	if len(calls) != 1 || calls[0].CreatedAt.IsZero() {
		t.Fatalf("zero CreatedAt must default to now: %+v", calls)
	}
}
