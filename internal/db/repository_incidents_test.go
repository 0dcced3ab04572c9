package db

import (
	"errors"
	"testing"
	"time"
)

func seedIncident(t *testing.T, repo *Repository, title string) *Incident {
	t.Helper()
	in := &Incident{Title: title, Severity: SeverityHigh}
	if err := repo.CreateIncident(in); err != nil {
		t.Fatalf("seed incident: %v", err)
	}
	return in
}

func TestCreateIncidentDefaults(t *testing.T) {
	repo := newTestRepo(t)
	in := seedIncident(t, repo, "Payment latency spike")

	if in.Status != IncidentStatusOpen {
		t.Errorf("status = %q, want open", in.Status)
	}
	if in.StartedAt.IsZero() {
		t.Error("started_at should default to now")
	}

	got, err := repo.GetIncident(in.ID)
	if err != nil {
		t.Fatalf("GetIncident: %v", err)
	}
	if got.Title != "Payment latency spike" {
		t.Errorf("title = %q", got.Title)
	}
	if len(got.Timeline) != 0 {
		t.Errorf("timeline should start empty, got %d entries", len(got.Timeline))
	}
}

func TestListIncidentsFilterAndOrder(t *testing.T) {
	repo := newTestRepo(t)

	old := &Incident{Title: "old", Severity: SeverityLow, StartedAt: time.Now().UTC().Add(-2 * time.Hour)}
	if err := repo.CreateIncident(old); err != nil {
		t.Fatalf("create old: %v", err)
	}
	recent := seedIncident(t, repo, "recent")

	all, err := repo.ListIncidents(IncidentFilters{})
	if err != nil {
		t.Fatalf("ListIncidents: %v", err)
	}
	if len(all) != 2 || all[0].ID != recent.ID {
		t.Error("expected started_at DESC ordering")
	}

	sev := SeverityLow
	lows, err := repo.ListIncidents(IncidentFilters{Severity: &sev})
	if err != nil {
		t.Fatalf("ListIncidents severity: %v", err)
	}
	if len(lows) != 1 || lows[0].ID != old.ID {
		t.Errorf("severity filter returned %d incidents", len(lows))
	}
}

func TestAppendIncidentTimeline(t *testing.T) {
	repo := newTestRepo(t)
	in := seedIncident(t, repo, "DB failover")

	updated, err := repo.AppendIncidentTimelineEntry(in.ID, TimelineEntry{
		Action: "investigation_started",
		User:   "sre@example.com",
		Note:   "replica promoted",
	})
	if err != nil {
		t.Fatalf("AppendIncidentTimelineEntry: %v", err)
	}
	if len(updated.Timeline) != 1 {
		t.Fatalf("len(timeline) = %d, want 1", len(updated.Timeline))
	}

	updated, err = repo.AppendIncidentTimelineEntry(in.ID, TimelineEntry{Action: "mitigated"})
	if err != nil {
		t.Fatalf("second append: %v", err)
	}
	if len(updated.Timeline) != 2 {
		t.Fatalf("len(timeline) = %d, want 2", len(updated.Timeline))
	}

	got, err := repo.GetIncident(in.ID)
	if err != nil {
		t.Fatalf("GetIncident: %v", err)
	}
	first, ok := got.Timeline[0].(map[string]interface{})
	if !ok {
		t.Fatalf("timeline entry type %T", got.Timeline[0])
	}
	if first["action"] != "investigation_started" {
		t.Errorf("first action = %v", first["action"])
	}
	if first["user"] != "sre@example.com" {
		t.Errorf("first user = %v", first["user"])
	}

	if _, err := repo.AppendIncidentTimelineEntry("missing", TimelineEntry{Action: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestAttachAlertToIncident(t *testing.T) {
	repo := newTestRepo(t)
	in := seedIncident(t, repo, "Cascading failures")

	alert := &Alert{Name: "cpu high", Severity: SeverityCritical}
	if err := repo.CreateAlert(alert); err != nil {
		t.Fatalf("CreateAlert: %v", err)
	}

	if err := repo.AttachAlertToIncident(in.ID, alert.ID); err != nil {
		t.Fatalf("AttachAlertToIncident: %v", err)
	}

	attached, err := repo.GetIncidentAlerts(in.ID)
	if err != nil {
		t.Fatalf("GetIncidentAlerts: %v", err)
	}
	if len(attached) != 1 || attached[0].ID != alert.ID {
		t.Fatalf("attached = %d alerts", len(attached))
	}
	if attached[0].IncidentID == nil || *attached[0].IncidentID != in.ID {
		t.Error("alert should carry the incident id")
	}

	if err := repo.AttachAlertToIncident("missing", alert.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing incident err = %v, want ErrNotFound", err)
	}
	if err := repo.AttachAlertToIncident(in.ID, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing alert err = %v, want ErrNotFound", err)
	}
}

func TestDeleteIncidentDetachesAlerts(t *testing.T) {
	repo := newTestRepo(t)
	in := seedIncident(t, repo, "To be deleted")

	alert := &Alert{Name: "linked", Severity: SeverityMedium}
	if err := repo.CreateAlert(alert); err != nil {
		t.Fatalf("CreateAlert: %v", err)
	}
	if err := repo.AttachAlertToIncident(in.ID, alert.ID); err != nil {
		t.Fatalf("attach: %v", err)
	}

	if err := repo.DeleteIncident(in.ID); err != nil {
		t.Fatalf("DeleteIncident: %v", err)
	}

	// The alert survives with its incident reference cleared.
	got, err := repo.GetAlert(alert.ID)
	if err != nil {
		t.Fatalf("GetAlert: %v", err)
	}
	if got.IncidentID != nil {
		t.Errorf("incident_id = %v, want nil after SET NULL", *got.IncidentID)
	}
}
