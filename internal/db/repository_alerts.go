package db

import (
	"database/sql"
	"errors"
	"time"
)

// AlertRule operations

func (r *Repository) CreateAlertRule(ar *AlertRule) error {
	now := time.Now().UTC()
	ar.ID = newID()
	ar.CreatedAt = now
	ar.UpdatedAt = now
	if ar.Severity == "" {
		ar.Severity = SeverityMedium
	}
	if ar.DurationSeconds == 0 {
		ar.DurationSeconds = 300
	}
	if ar.NotificationChannels == nil {
		ar.NotificationChannels = StringSlice{}
	}
	if ar.Labels == nil {
		ar.Labels = JSONB{}
	}
	if ar.Annotations == nil {
		ar.Annotations = JSONB{}
	}

	query := `
		INSERT INTO alert_rules (
			id, name, description, platform_id, service_id,
			metric_name, condition_operator, threshold, duration_seconds, custom_query,
			severity, notification_channels,
			is_muted, muted_until, muted_reason,
			is_active, last_triggered, labels, annotations, created_by,
			created_at, updated_at
		) VALUES (
			:id, :name, :description, :platform_id, :service_id,
			:metric_name, :condition_operator, :threshold, :duration_seconds, :custom_query,
			:severity, :notification_channels,
			:is_muted, :muted_until, :muted_reason,
			:is_active, :last_triggered, :labels, :annotations, :created_by,
			:created_at, :updated_at
		)`

	_, err := r.db.NamedExec(query, ar)
	return err
}

func (r *Repository) GetAlertRule(id string) (*AlertRule, error) {
	var ar AlertRule
	err := r.db.Get(&ar, r.db.Rebind(`SELECT * FROM alert_rules WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("alert rule")
	}
	if err != nil {
		return nil, err
	}
	return &ar, nil
}

func (r *Repository) ListAlertRules(f AlertRuleFilters) ([]*AlertRule, error) {
	rules := []*AlertRule{}
	query := `SELECT * FROM alert_rules WHERE 1=1`
	args := []interface{}{}

	if f.PlatformID != nil {
		query += ` AND platform_id = ?`
		args = append(args, *f.PlatformID)
	}
	if f.ServiceID != nil {
		query += ` AND service_id = ?`
		args = append(args, *f.ServiceID)
	}
	if f.Severity != nil {
		query += ` AND severity = ?`
		args = append(args, *f.Severity)
	}
	if f.IsActive != nil {
		query += ` AND is_active = ?`
		args = append(args, *f.IsActive)
	}
	query += ` ORDER BY created_at LIMIT ? OFFSET ?`
	args = append(args, clampLimit(f.Limit), f.Offset)

	err := r.db.Select(&rules, r.db.Rebind(query), args...)
	return rules, err
}

func (r *Repository) UpdateAlertRule(ar *AlertRule) error {
	ar.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE alert_rules SET
			name = :name,
			description = :description,
			metric_name = :metric_name,
			condition_operator = :condition_operator,
			threshold = :threshold,
			duration_seconds = :duration_seconds,
			custom_query = :custom_query,
			severity = :severity,
			notification_channels = :notification_channels,
			is_muted = :is_muted,
			muted_until = :muted_until,
			muted_reason = :muted_reason,
			is_active = :is_active,
			last_triggered = :last_triggered,
			labels = :labels,
			annotations = :annotations,
			updated_at = :updated_at
		WHERE id = :id`

	res, err := r.db.NamedExec(query, ar)
	if err != nil {
		return err
	}
	return requireRow(res, "alert rule")
}

// DeleteAlertRule cascades to the rule's alerts via the FK.
func (r *Repository) DeleteAlertRule(id string) error {
	res, err := r.db.Exec(r.db.Rebind(`DELETE FROM alert_rules WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return requireRow(res, "alert rule")
}

// Alert operations

func (r *Repository) CreateAlert(a *Alert) error {
	now := time.Now().UTC()
	a.ID = newID()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.Status == "" {
		a.Status = AlertStatusFiring
	}
	if a.FiredAt.IsZero() {
		a.FiredAt = now
	}
	if a.Labels == nil {
		a.Labels = JSONB{}
	}
	if a.Annotations == nil {
		a.Annotations = JSONB{}
	}

	query := `
		INSERT INTO alerts (
			id, rule_id, platform_id, service_id,
			name, description, severity, current_value, threshold,
			status, fired_at, resolved_at, acknowledged_at, acknowledged_by,
			labels, annotations, incident_id, created_at, updated_at
		) VALUES (
			:id, :rule_id, :platform_id, :service_id,
			:name, :description, :severity, :current_value, :threshold,
			:status, :fired_at, :resolved_at, :acknowledged_at, :acknowledged_by,
			:labels, :annotations, :incident_id, :created_at, :updated_at
		)`

	_, err := r.db.NamedExec(query, a)
	return err
}

func (r *Repository) GetAlert(id string) (*Alert, error) {
	var a Alert
	err := r.db.Get(&a, r.db.Rebind(`SELECT * FROM alerts WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("alert")
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) ListAlerts(f AlertFilters) ([]*Alert, error) {
	alerts := []*Alert{}
	query := `SELECT * FROM alerts WHERE 1=1`
	args := []interface{}{}

	if f.Status != nil {
		query += ` AND status = ?`
		args = append(args, *f.Status)
	}
	if f.Severity != nil {
		query += ` AND severity = ?`
		args = append(args, *f.Severity)
	}
	if f.PlatformID != nil {
		query += ` AND platform_id = ?`
		args = append(args, *f.PlatformID)
	}
	if f.ServiceID != nil {
		query += ` AND service_id = ?`
		args = append(args, *f.ServiceID)
	}
	if f.IncidentID != nil {
		query += ` AND incident_id = ?`
		args = append(args, *f.IncidentID)
	}
	query += ` ORDER BY fired_at DESC LIMIT ? OFFSET ?`
	args = append(args, clampLimit(f.Limit), f.Offset)

	err := r.db.Select(&alerts, r.db.Rebind(query), args...)
	return alerts, err
}

func (r *Repository) UpdateAlert(a *Alert) error {
	a.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE alerts SET
			name = :name,
			description = :description,
			severity = :severity,
			current_value = :current_value,
			threshold = :threshold,
			status = :status,
			resolved_at = :resolved_at,
			acknowledged_at = :acknowledged_at,
			acknowledged_by = :acknowledged_by,
			labels = :labels,
			annotations = :annotations,
			incident_id = :incident_id,
			updated_at = :updated_at
		WHERE id = :id`

	res, err := r.db.NamedExec(query, a)
	if err != nil {
		return err
	}
	return requireRow(res, "alert")
}

func (r *Repository) DeleteAlert(id string) error {
	res, err := r.db.Exec(r.db.Rebind(`DELETE FROM alerts WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return requireRow(res, "alert")
}
