package db

import (
	"errors"
	"testing"
	"time"
)

func seedTrace(t *testing.T, repo *Repository, traceID string, start time.Time) *Trace {
	t.Helper()
	tr := &Trace{TraceID: traceID, StartTime: start}
	if err := repo.CreateTrace(tr); err != nil {
		t.Fatalf("seed trace %s: %v", traceID, err)
	}
	return tr
}

func TestCreateTraceDefaultsAndConflict(t *testing.T) {
	repo := newTestRepo(t)

	tr := seedTrace(t, repo, "abc123", time.Now().UTC())
	if tr.Status != TraceStatusOK {
		t.Errorf("status = %q, want ok", tr.Status)
	}
	if tr.SpanCount != 1 {
		t.Errorf("span_count = %d, want 1", tr.SpanCount)
	}

	err := repo.CreateTrace(&Trace{TraceID: "abc123", StartTime: time.Now().UTC()})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestListTracesFilters(t *testing.T) {
	repo := newTestRepo(t)

	now := time.Now().UTC()
	seedTrace(t, repo, "t-early", now.Add(-2*time.Hour))
	seedTrace(t, repo, "t-late", now.Add(-time.Minute))

	slow := 900
	slowTrace := &Trace{TraceID: "t-slow", StartTime: now.Add(-time.Hour), DurationMs: &slow}
	if err := repo.CreateTrace(slowTrace); err != nil {
		t.Fatalf("create slow trace: %v", err)
	}

	all, err := repo.ListTraces(TraceFilters{})
	if err != nil {
		t.Fatalf("ListTraces: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(all))
	}
	if all[0].TraceID != "t-late" || all[2].TraceID != "t-early" {
		t.Error("expected start_time DESC ordering")
	}

	minDur := 500
	slowOnly, err := repo.ListTraces(TraceFilters{MinDurationMs: &minDur})
	if err != nil {
		t.Fatalf("ListTraces duration: %v", err)
	}
	if len(slowOnly) != 1 || slowOnly[0].TraceID != "t-slow" {
		t.Errorf("duration filter returned %d traces", len(slowOnly))
	}

	since := now.Add(-90 * time.Minute)
	recent, err := repo.ListTraces(TraceFilters{Since: &since})
	if err != nil {
		t.Fatalf("ListTraces since: %v", err)
	}
	if len(recent) != 2 {
		t.Errorf("len(recent) = %d, want 2", len(recent))
	}
}

func TestCreateSpanUpdatesSpanCount(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Now().UTC()
	seedTrace(t, repo, "trace-x", now)

	for i, name := range []string{"root", "db-query"} {
		span := &Span{
			TraceID:   "trace-x",
			SpanID:    name,
			StartTime: now.Add(time.Duration(i) * time.Millisecond),
			Name:      name,
		}
		if err := repo.CreateSpan(span); err != nil {
			t.Fatalf("CreateSpan %s: %v", name, err)
		}
	}

	got, err := repo.GetTrace("trace-x")
	if err != nil {
		t.Fatalf("GetTrace: %v", err)
	}
	if got.SpanCount != 2 {
		t.Errorf("span_count = %d, want 2", got.SpanCount)
	}

	spans, err := repo.ListSpans("trace-x")
	if err != nil {
		t.Fatalf("ListSpans: %v", err)
	}
	if len(spans) != 2 {
		t.Fatalf("len(spans) = %d, want 2", len(spans))
	}
	// Ascending by start time, root first.
	if spans[0].SpanID != "root" {
		t.Errorf("first span = %q, want root", spans[0].SpanID)
	}
}

func TestCreateSpanRequiresTrace(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.CreateSpan(&Span{TraceID: "missing", SpanID: "s1", StartTime: time.Now().UTC(), Name: "orphan"})
	if !errors.Is(err, ErrDependency) {
		t.Fatalf("err = %v, want ErrDependency", err)
	}
}

func TestDeleteTraceCascadesSpans(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Now().UTC()
	seedTrace(t, repo, "trace-del", now)

	span := &Span{TraceID: "trace-del", SpanID: "s1", StartTime: now, Name: "root"}
	if err := repo.CreateSpan(span); err != nil {
		t.Fatalf("CreateSpan: %v", err)
	}

	if err := repo.DeleteTrace("trace-del"); err != nil {
		t.Fatalf("DeleteTrace: %v", err)
	}

	if _, err := repo.GetTrace("trace-del"); !errors.Is(err, ErrNotFound) {
		t.Errorf("trace err = %v, want ErrNotFound", err)
	}
	spans, err := repo.ListSpans("trace-del")
	if err != nil {
		t.Fatalf("ListSpans: %v", err)
	}
	if len(spans) != 0 {
		t.Errorf("len(spans) = %d, want 0 after cascade", len(spans))
	}

	if err := repo.DeleteTrace("trace-del"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestPruneTraces(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Now().UTC()

	seedTrace(t, repo, "ancient", now.AddDate(0, 0, -20))
	seedTrace(t, repo, "current", now)

	n, err := repo.PruneTraces(now.AddDate(0, 0, -14))
	if err != nil {
		t.Fatalf("PruneTraces: %v", err)
	}
	if n != 1 {
		t.Errorf("pruned = %d, want 1", n)
	}
	if _, err := repo.GetTrace("current"); err != nil {
		t.Errorf("current trace should remain: %v", err)
	}
}
