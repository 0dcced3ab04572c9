package db

import (
	"database/sql"
	"errors"
	"time"
)

// Log operations. Logs are insert-only: no update path exists.

func (r *Repository) CreateLogEntry(l *LogEntry) error {
	l.ID = newID()
	l.CreatedAt = time.Now().UTC()
	if l.Timestamp.IsZero() {
		l.Timestamp = l.CreatedAt
	}
	if l.Attributes == nil {
		l.Attributes = JSONB{}
	}

	query := `
		INSERT INTO logs (
			id, timestamp, platform_id, service_id, level, message,
			trace_id, span_id, request_id, user_id,
			source, environment, host, container_id, pod_name,
			attributes, created_at
		) VALUES (
			:id, :timestamp, :platform_id, :service_id, :level, :message,
			:trace_id, :span_id, :request_id, :user_id,
			:source, :environment, :host, :container_id, :pod_name,
			:attributes, :created_at
		)`

	_, err := r.db.NamedExec(query, l)
	return err
}

func (r *Repository) GetLogEntry(id string) (*LogEntry, error) {
	var l LogEntry
	err := r.db.Get(&l, r.db.Rebind(`SELECT * FROM logs WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("log entry")
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *Repository) ListLogs(f LogFilters) ([]*LogEntry, error) {
	logs := []*LogEntry{}
	query := `SELECT * FROM logs WHERE 1=1`
	args := []interface{}{}

	if f.PlatformID != nil {
		query += ` AND platform_id = ?`
		args = append(args, *f.PlatformID)
	}
	if f.ServiceID != nil {
		query += ` AND service_id = ?`
		args = append(args, *f.ServiceID)
	}
	if f.Level != nil {
		query += ` AND level = ?`
		args = append(args, *f.Level)
	}
	if f.TraceID != nil {
		query += ` AND trace_id = ?`
		args = append(args, *f.TraceID)
	}
	if f.Since != nil {
		query += ` AND timestamp >= ?`
		args = append(args, *f.Since)
	}
	if f.Until != nil {
		query += ` AND timestamp <= ?`
		args = append(args, *f.Until)
	}
	query += ` ORDER BY timestamp DESC LIMIT ? OFFSET ?`
	args = append(args, clampLimit(f.Limit), f.Offset)

	err := r.db.Select(&logs, r.db.Rebind(query), args...)
	return logs, err
}

// PruneLogs deletes entries older than the cutoff and reports how many
// rows went away.
func (r *Repository) PruneLogs(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(r.db.Rebind(`DELETE FROM logs WHERE timestamp < ?`), cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Metric operations. Same insert-only contract as logs.

func (r *Repository) CreateMetric(m *Metric) error {
	m.ID = newID()
	m.CreatedAt = time.Now().UTC()
	if m.Timestamp.IsZero() {
		m.Timestamp = m.CreatedAt
	}
	if m.Labels == nil {
		m.Labels = JSONB{}
	}

	query := `
		INSERT INTO metrics (
			id, timestamp, platform_id, service_id,
			name, metric_type, value, labels,
			aggregation, unit, description, created_at
		) VALUES (
			:id, :timestamp, :platform_id, :service_id,
			:name, :metric_type, :value, :labels,
			:aggregation, :unit, :description, :created_at
		)`

	_, err := r.db.NamedExec(query, m)
	return err
}

func (r *Repository) GetMetric(id string) (*Metric, error) {
	var m Metric
	err := r.db.Get(&m, r.db.Rebind(`SELECT * FROM metrics WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("metric")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) ListMetrics(f MetricFilters) ([]*Metric, error) {
	metrics := []*Metric{}
	query := `SELECT * FROM metrics WHERE 1=1`
	args := []interface{}{}

	if f.PlatformID != nil {
		query += ` AND platform_id = ?`
		args = append(args, *f.PlatformID)
	}
	if f.ServiceID != nil {
		query += ` AND service_id = ?`
		args = append(args, *f.ServiceID)
	}
	if f.Name != nil {
		query += ` AND name = ?`
		args = append(args, *f.Name)
	}
	if f.MetricType != nil {
		query += ` AND metric_type = ?`
		args = append(args, *f.MetricType)
	}
	if f.Since != nil {
		query += ` AND timestamp >= ?`
		args = append(args, *f.Since)
	}
	if f.Until != nil {
		query += ` AND timestamp <= ?`
		args = append(args, *f.Until)
	}
	query += ` ORDER BY timestamp DESC LIMIT ? OFFSET ?`
	args = append(args, clampLimit(f.Limit), f.Offset)

	err := r.db.Select(&metrics, r.db.Rebind(query), args...)
	return metrics, err
}

func (r *Repository) PruneMetrics(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(r.db.Rebind(`DELETE FROM metrics WHERE timestamp < ?`), cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
