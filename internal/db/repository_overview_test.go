package db

import "testing"

func seedServiceWithStatus(t *testing.T, repo *Repository, platformID, slug string, status PlatformStatus) *Service {
	t.Helper()
	s := &Service{PlatformID: platformID, Name: "Service " + slug, Slug: slug, Status: status}
	if err := repo.CreateService(s); err != nil {
		t.Fatalf("seed service %s: %v", slug, err)
	}
	return s
}

func TestSystemCounts(t *testing.T) {
	repo := newTestRepo(t)

	p1 := seedPlatform(t, repo, "bank")
	p2 := seedPlatform(t, repo, "pay")

	seedServiceWithStatus(t, repo, p1.ID, "api", StatusHealthy)
	seedServiceWithStatus(t, repo, p1.ID, "worker", StatusDegraded)
	// Old agents still report "warning"; it counts as degraded.
	seedServiceWithStatus(t, repo, p1.ID, "legacy", "warning")
	seedServiceWithStatus(t, repo, p2.ID, "gateway", StatusCritical)
	seedServiceWithStatus(t, repo, p2.ID, "cache", StatusHealthy)

	if err := repo.CreateAlert(&Alert{Name: "disk full", Severity: SeverityCritical}); err != nil {
		t.Fatalf("create critical alert: %v", err)
	}
	if err := repo.CreateAlert(&Alert{Name: "slow queries", Severity: SeverityLow}); err != nil {
		t.Fatalf("create low alert: %v", err)
	}
	resolved := &Alert{Name: "old noise", Severity: SeverityCritical}
	if err := repo.CreateAlert(resolved); err != nil {
		t.Fatalf("create resolved alert: %v", err)
	}
	resolved.Status = AlertStatusResolved
	if err := repo.UpdateAlert(resolved); err != nil {
		t.Fatalf("resolve alert: %v", err)
	}

	seedIncident(t, repo, "cache stampede")
	ack := seedIncident(t, repo, "elevated 5xx")
	ack.Status = IncidentStatusAcknowledged
	if err := repo.UpdateIncident(ack); err != nil {
		t.Fatalf("ack incident: %v", err)
	}
	closed := seedIncident(t, repo, "ancient history")
	closed.Status = IncidentStatusClosed
	if err := repo.UpdateIncident(closed); err != nil {
		t.Fatalf("close incident: %v", err)
	}

	c, err := repo.SystemCounts()
	if err != nil {
		t.Fatalf("SystemCounts: %v", err)
	}

	if c.TotalPlatforms != 2 {
		t.Errorf("TotalPlatforms = %d, want 2", c.TotalPlatforms)
	}
	if c.TotalServices != 5 {
		t.Errorf("TotalServices = %d, want 5", c.TotalServices)
	}
	if c.HealthyServices != 2 {
		t.Errorf("HealthyServices = %d, want 2", c.HealthyServices)
	}
	if c.DegradedServices != 2 {
		t.Errorf("DegradedServices = %d, want 2 (degraded + warning)", c.DegradedServices)
	}
	if c.CriticalServices != 1 {
		t.Errorf("CriticalServices = %d, want 1", c.CriticalServices)
	}
	if c.ActiveAlerts != 2 {
		t.Errorf("ActiveAlerts = %d, want 2", c.ActiveAlerts)
	}
	if c.CriticalAlerts != 1 {
		t.Errorf("CriticalAlerts = %d, want 1", c.CriticalAlerts)
	}
	if c.OpenIncidents != 2 {
		t.Errorf("OpenIncidents = %d, want 2 (open + acknowledged)", c.OpenIncidents)
	}
}

func TestPlatformCounts(t *testing.T) {
	repo := newTestRepo(t)

	p := seedPlatform(t, repo, "retail")
	other := seedPlatform(t, repo, "other")

	seedServiceWithStatus(t, repo, p.ID, "api", StatusHealthy)
	seedServiceWithStatus(t, repo, p.ID, "db", StatusCritical)
	seedServiceWithStatus(t, repo, other.ID, "api", StatusHealthy)

	if err := repo.CreateAlert(&Alert{PlatformID: &p.ID, Name: "here", Severity: SeverityHigh}); err != nil {
		t.Fatalf("create alert: %v", err)
	}
	if err := repo.CreateAlert(&Alert{PlatformID: &other.ID, Name: "elsewhere", Severity: SeverityHigh}); err != nil {
		t.Fatalf("create other alert: %v", err)
	}

	c, err := repo.PlatformCounts(p.ID)
	if err != nil {
		t.Fatalf("PlatformCounts: %v", err)
	}
	if c.ServiceCount != 2 {
		t.Errorf("ServiceCount = %d, want 2", c.ServiceCount)
	}
	if c.HealthyServiceCount != 1 {
		t.Errorf("HealthyServiceCount = %d, want 1", c.HealthyServiceCount)
	}
	if c.FiringAlertCount != 1 {
		t.Errorf("FiringAlertCount = %d, want 1", c.FiringAlertCount)
	}
}
