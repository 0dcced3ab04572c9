package db

import (
	"database/sql"
	"errors"
	"time"
)

func (r *Repository) CreateIncident(in *Incident) error {
	now := time.Now().UTC()
	in.ID = newID()
	in.CreatedAt = now
	in.UpdatedAt = now
	if in.Status == "" {
		in.Status = IncidentStatusOpen
	}
	if in.StartedAt.IsZero() {
		in.StartedAt = now
	}
	if in.AffectedPlatforms == nil {
		in.AffectedPlatforms = StringSlice{}
	}
	if in.AffectedServices == nil {
		in.AffectedServices = StringSlice{}
	}
	if in.AssignedTo == nil {
		in.AssignedTo = StringSlice{}
	}
	if in.Timeline == nil {
		in.Timeline = JSONList{}
	}
	if in.ActionItems == nil {
		in.ActionItems = JSONList{}
	}

	query := `
		INSERT INTO incidents (
			id, title, description, severity, status,
			started_at, detected_at, acknowledged_at, resolved_at, closed_at,
			affected_platforms, affected_services, customer_impact,
			root_cause, resolution, commander_id, assigned_to,
			timeline, postmortem_url, action_items, created_at, updated_at
		) VALUES (
			:id, :title, :description, :severity, :status,
			:started_at, :detected_at, :acknowledged_at, :resolved_at, :closed_at,
			:affected_platforms, :affected_services, :customer_impact,
			:root_cause, :resolution, :commander_id, :assigned_to,
			:timeline, :postmortem_url, :action_items, :created_at, :updated_at
		)`

	_, err := r.db.NamedExec(query, in)
	return err
}

func (r *Repository) GetIncident(id string) (*Incident, error) {
	var in Incident
	err := r.db.Get(&in, r.db.Rebind(`SELECT * FROM incidents WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("incident")
	}
	if err != nil {
		return nil, err
	}
	return &in, nil
}

func (r *Repository) ListIncidents(f IncidentFilters) ([]*Incident, error) {
	incidents := []*Incident{}
	query := `SELECT * FROM incidents WHERE 1=1`
	args := []interface{}{}

	if f.Status != nil {
		query += ` AND status = ?`
		args = append(args, *f.Status)
	}
	if f.Severity != nil {
		query += ` AND severity = ?`
		args = append(args, *f.Severity)
	}
	query += ` ORDER BY started_at DESC LIMIT ? OFFSET ?`
	args = append(args, clampLimit(f.Limit), f.Offset)

	err := r.db.Select(&incidents, r.db.Rebind(query), args...)
	return incidents, err
}

func (r *Repository) UpdateIncident(in *Incident) error {
	in.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE incidents SET
			title = :title,
			description = :description,
			severity = :severity,
			status = :status,
			detected_at = :detected_at,
			acknowledged_at = :acknowledged_at,
			resolved_at = :resolved_at,
			closed_at = :closed_at,
			affected_platforms = :affected_platforms,
			affected_services = :affected_services,
			customer_impact = :customer_impact,
			root_cause = :root_cause,
			resolution = :resolution,
			commander_id = :commander_id,
			assigned_to = :assigned_to,
			timeline = :timeline,
			postmortem_url = :postmortem_url,
			action_items = :action_items,
			updated_at = :updated_at
		WHERE id = :id`

	res, err := r.db.NamedExec(query, in)
	if err != nil {
		return err
	}
	return requireRow(res, "incident")
}

func (r *Repository) DeleteIncident(id string) error {
	res, err := r.db.Exec(r.db.Rebind(`DELETE FROM incidents WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return requireRow(res, "incident")
}

// AppendIncidentTimelineEntry reads, appends and rewrites the timeline in
// one transaction so concurrent appends cannot drop entries.
func (r *Repository) AppendIncidentTimelineEntry(id string, entry TimelineEntry) (*Incident, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var in Incident
	err = tx.Get(&in, tx.Rebind(`SELECT * FROM incidents WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("incident")
	}
	if err != nil {
		return nil, err
	}

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	in.Timeline = append(in.Timeline, map[string]interface{}{
		"timestamp": entry.Timestamp.Format(time.RFC3339),
		"action":    entry.Action,
		"user":      entry.User,
		"note":      entry.Note,
	})
	in.UpdatedAt = time.Now().UTC()

	if _, err := tx.NamedExec(
		`UPDATE incidents SET timeline = :timeline, updated_at = :updated_at WHERE id = :id`, &in); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &in, nil
}

// AttachAlertToIncident links an existing alert to an incident; the
// relationship is non-owning so neither delete cascades into the other.
func (r *Repository) AttachAlertToIncident(incidentID, alertID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	if err := tx.Get(&count, tx.Rebind(`SELECT COUNT(*) FROM incidents WHERE id = ?`), incidentID); err != nil {
		return err
	}
	if count == 0 {
		return notFound("incident")
	}

	res, err := tx.Exec(tx.Rebind(`UPDATE alerts SET incident_id = ? WHERE id = ?`), incidentID, alertID)
	if err != nil {
		return err
	}
	if err := requireRow(res, "alert"); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) GetIncidentAlerts(incidentID string) ([]*Alert, error) {
	alerts := []*Alert{}
	err := r.db.Select(&alerts, r.db.Rebind(
		`SELECT * FROM alerts WHERE incident_id = ? ORDER BY fired_at DESC`), incidentID)
	return alerts, err
}
