package db

// Count snapshots backing the aggregation layer. Every count in one
// snapshot comes from a single transaction so the health-score numerator
// and denominator cannot skew under concurrent writes.

type SystemCounts struct {
	TotalPlatforms   int
	TotalServices    int
	HealthyServices  int
	DegradedServices int
	CriticalServices int
	ActiveAlerts     int
	CriticalAlerts   int
	OpenIncidents    int
}

type PlatformCounts struct {
	ServiceCount        int
	HealthyServiceCount int
	FiringAlertCount    int
}

func (r *Repository) SystemCounts() (*SystemCounts, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var c SystemCounts

	if err := tx.Get(&c.TotalPlatforms, `SELECT COUNT(*) FROM platforms`); err != nil {
		return nil, err
	}
	if err := tx.Get(&c.TotalServices, `SELECT COUNT(*) FROM services`); err != nil {
		return nil, err
	}
	if err := tx.Get(&c.HealthyServices, tx.Rebind(
		`SELECT COUNT(*) FROM services WHERE status = ?`), StatusHealthy); err != nil {
		return nil, err
	}
	// "warning" is accepted here for backward compatibility with agents
	// that still report it instead of "degraded".
	if err := tx.Get(&c.DegradedServices, tx.Rebind(
		`SELECT COUNT(*) FROM services WHERE status IN (?, ?)`), StatusDegraded, "warning"); err != nil {
		return nil, err
	}
	if err := tx.Get(&c.CriticalServices, tx.Rebind(
		`SELECT COUNT(*) FROM services WHERE status = ?`), StatusCritical); err != nil {
		return nil, err
	}
	if err := tx.Get(&c.ActiveAlerts, tx.Rebind(
		`SELECT COUNT(*) FROM alerts WHERE status = ?`), AlertStatusFiring); err != nil {
		return nil, err
	}
	if err := tx.Get(&c.CriticalAlerts, tx.Rebind(
		`SELECT COUNT(*) FROM alerts WHERE status = ? AND severity = ?`),
		AlertStatusFiring, SeverityCritical); err != nil {
		return nil, err
	}
	if err := tx.Get(&c.OpenIncidents, tx.Rebind(
		`SELECT COUNT(*) FROM incidents WHERE status IN (?, ?, ?)`),
		IncidentStatusOpen, IncidentStatusAcknowledged, IncidentStatusInvestigating); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) PlatformCounts(platformID string) (*PlatformCounts, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var c PlatformCounts

	if err := tx.Get(&c.ServiceCount, tx.Rebind(
		`SELECT COUNT(*) FROM services WHERE platform_id = ?`), platformID); err != nil {
		return nil, err
	}
	if err := tx.Get(&c.HealthyServiceCount, tx.Rebind(
		`SELECT COUNT(*) FROM services WHERE platform_id = ? AND status = ?`),
		platformID, StatusHealthy); err != nil {
		return nil, err
	}
	if err := tx.Get(&c.FiringAlertCount, tx.Rebind(
		`SELECT COUNT(*) FROM alerts WHERE platform_id = ? AND status = ?`),
		platformID, AlertStatusFiring); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &c, nil
}
