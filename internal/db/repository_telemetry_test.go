package db

import (
	"errors"
	"testing"
	"time"
)

func TestLogLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	p := seedPlatform(t, repo, "logs")
	svc := seedService(t, repo, p.ID, "api")

	entry := &LogEntry{
		PlatformID: &p.ID,
		ServiceID:  &svc.ID,
		Level:      LogLevelError,
		Message:    "connection refused",
		TraceID:    strPtr("trace-1"),
		Attributes: JSONB{"retries": float64(3)},
	}
	if err := repo.CreateLogEntry(entry); err != nil {
		t.Fatalf("CreateLogEntry: %v", err)
	}
	if entry.Timestamp.IsZero() {
		t.Error("timestamp should default to creation time")
	}

	got, err := repo.GetLogEntry(entry.ID)
	if err != nil {
		t.Fatalf("GetLogEntry: %v", err)
	}
	if got.Message != "connection refused" {
		t.Errorf("message = %q", got.Message)
	}
	if got.Attributes["retries"] != float64(3) {
		t.Errorf("attributes = %v", got.Attributes)
	}

	if _, err := repo.GetLogEntry("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListLogsFiltersAndOrder(t *testing.T) {
	repo := newTestRepo(t)

	base := time.Now().UTC().Add(-time.Hour)
	for i, lvl := range []LogLevel{LogLevelInfo, LogLevelError, LogLevelInfo} {
		entry := &LogEntry{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Level:     lvl,
			Message:   "m",
		}
		if err := repo.CreateLogEntry(entry); err != nil {
			t.Fatalf("CreateLogEntry: %v", err)
		}
	}

	all, err := repo.ListLogs(LogFilters{})
	if err != nil {
		t.Fatalf("ListLogs: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(all))
	}
	// Newest first.
	if !all[0].Timestamp.After(all[2].Timestamp) {
		t.Error("expected timestamp DESC ordering")
	}

	lvl := LogLevelError
	errs, err := repo.ListLogs(LogFilters{Level: &lvl})
	if err != nil {
		t.Fatalf("ListLogs level: %v", err)
	}
	if len(errs) != 1 {
		t.Errorf("len(errs) = %d, want 1", len(errs))
	}

	since := base.Add(90 * time.Second)
	recent, err := repo.ListLogs(LogFilters{Since: &since})
	if err != nil {
		t.Fatalf("ListLogs since: %v", err)
	}
	if len(recent) != 1 {
		t.Errorf("len(recent) = %d, want 1", len(recent))
	}
}

func TestPruneLogs(t *testing.T) {
	repo := newTestRepo(t)

	old := &LogEntry{Timestamp: time.Now().UTC().AddDate(0, 0, -40), Level: LogLevelInfo, Message: "old"}
	fresh := &LogEntry{Level: LogLevelInfo, Message: "fresh"}
	if err := repo.CreateLogEntry(old); err != nil {
		t.Fatalf("create old: %v", err)
	}
	if err := repo.CreateLogEntry(fresh); err != nil {
		t.Fatalf("create fresh: %v", err)
	}

	n, err := repo.PruneLogs(time.Now().UTC().AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("PruneLogs: %v", err)
	}
	if n != 1 {
		t.Errorf("pruned = %d, want 1", n)
	}

	if _, err := repo.GetLogEntry(old.ID); !errors.Is(err, ErrNotFound) {
		t.Error("old entry should be gone")
	}
	if _, err := repo.GetLogEntry(fresh.ID); err != nil {
		t.Errorf("fresh entry should remain: %v", err)
	}
}

func TestMetricLifecycle(t *testing.T) {
	repo := newTestRepo(t)

	m := &Metric{
		Name:       "http_requests_total",
		MetricType: MetricTypeCounter,
		Value:      1542,
		Labels:     JSONB{"route": "/api/v1/platforms"},
		Unit:       strPtr("requests"),
	}
	if err := repo.CreateMetric(m); err != nil {
		t.Fatalf("CreateMetric: %v", err)
	}

	got, err := repo.GetMetric(m.ID)
	if err != nil {
		t.Fatalf("GetMetric: %v", err)
	}
	if got.Value != 1542 {
		t.Errorf("value = %v", got.Value)
	}
	if got.Labels["route"] != "/api/v1/platforms" {
		t.Errorf("labels = %v", got.Labels)
	}

	name := "http_requests_total"
	byName, err := repo.ListMetrics(MetricFilters{Name: &name})
	if err != nil {
		t.Fatalf("ListMetrics: %v", err)
	}
	if len(byName) != 1 {
		t.Errorf("len(byName) = %d, want 1", len(byName))
	}

	other := "unknown_metric"
	none, err := repo.ListMetrics(MetricFilters{Name: &other})
	if err != nil {
		t.Fatalf("ListMetrics none: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("len(none) = %d, want 0", len(none))
	}
}

func TestPruneMetrics(t *testing.T) {
	repo := newTestRepo(t)

	old := &Metric{Timestamp: time.Now().UTC().AddDate(0, 0, -100), Name: "old", MetricType: MetricTypeGauge, Value: 1}
	fresh := &Metric{Name: "fresh", MetricType: MetricTypeGauge, Value: 2}
	if err := repo.CreateMetric(old); err != nil {
		t.Fatalf("create old: %v", err)
	}
	if err := repo.CreateMetric(fresh); err != nil {
		t.Fatalf("create fresh: %v", err)
	}

	n, err := repo.PruneMetrics(time.Now().UTC().AddDate(0, 0, -90))
	if err != nil {
		t.Fatalf("PruneMetrics: %v", err)
	}
	if n != 1 {
		t.Errorf("pruned = %d, want 1", n)
	}
}
