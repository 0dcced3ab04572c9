package db

import (
	"database/sql"
	"errors"
	"time"
)

func (r *Repository) CreateTrace(t *Trace) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	if err := tx.Get(&count, tx.Rebind(`SELECT COUNT(*) FROM traces WHERE trace_id = ?`), t.TraceID); err != nil {
		return err
	}
	if count > 0 {
		return conflict("trace " + t.TraceID)
	}

	t.ID = newID()
	t.CreatedAt = time.Now().UTC()
	if t.Status == "" {
		t.Status = TraceStatusOK
	}
	if t.SpanCount == 0 {
		t.SpanCount = 1
	}
	if t.ServicesInvolved == nil {
		t.ServicesInvolved = StringSlice{}
	}

	query := `
		INSERT INTO traces (
			id, trace_id, platform_id, root_service_id,
			start_time, end_time, duration_ms,
			root_span_name, services_involved, span_count,
			status, has_error, error_message,
			http_method, http_path, http_status_code, user_id, created_at
		) VALUES (
			:id, :trace_id, :platform_id, :root_service_id,
			:start_time, :end_time, :duration_ms,
			:root_span_name, :services_involved, :span_count,
			:status, :has_error, :error_message,
			:http_method, :http_path, :http_status_code, :user_id, :created_at
		)`

	if _, err := tx.NamedExec(query, t); err != nil {
		return translateInsertErr(err)
	}

	return tx.Commit()
}

func (r *Repository) GetTrace(traceID string) (*Trace, error) {
	var t Trace
	err := r.db.Get(&t, r.db.Rebind(`SELECT * FROM traces WHERE trace_id = ?`), traceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("trace")
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repository) ListTraces(f TraceFilters) ([]*Trace, error) {
	traces := []*Trace{}
	query := `SELECT * FROM traces WHERE 1=1`
	args := []interface{}{}

	if f.PlatformID != nil {
		query += ` AND platform_id = ?`
		args = append(args, *f.PlatformID)
	}
	if f.Status != nil {
		query += ` AND status = ?`
		args = append(args, *f.Status)
	}
	if f.MinDurationMs != nil {
		query += ` AND duration_ms >= ?`
		args = append(args, *f.MinDurationMs)
	}
	if f.Since != nil {
		query += ` AND start_time >= ?`
		args = append(args, *f.Since)
	}
	if f.Until != nil {
		query += ` AND start_time <= ?`
		args = append(args, *f.Until)
	}
	query += ` ORDER BY start_time DESC LIMIT ? OFFSET ?`
	args = append(args, clampLimit(f.Limit), f.Offset)

	err := r.db.Select(&traces, r.db.Rebind(query), args...)
	return traces, err
}

// DeleteTrace cascades to the trace's spans via the FK on traces.trace_id.
func (r *Repository) DeleteTrace(traceID string) error {
	res, err := r.db.Exec(r.db.Rebind(`DELETE FROM traces WHERE trace_id = ?`), traceID)
	if err != nil {
		return err
	}
	return requireRow(res, "trace")
}

// PruneTraces removes traces older than the cutoff; spans follow via the
// cascade.
func (r *Repository) PruneTraces(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(r.db.Rebind(`DELETE FROM traces WHERE start_time < ?`), cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Span operations

// CreateSpan validates the owning trace and keeps its span_count current
// in the same transaction.
func (r *Repository) CreateSpan(s *Span) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	if err := tx.Get(&count, tx.Rebind(`SELECT COUNT(*) FROM traces WHERE trace_id = ?`), s.TraceID); err != nil {
		return err
	}
	if count == 0 {
		return dependency("trace " + s.TraceID)
	}

	s.ID = newID()
	s.CreatedAt = time.Now().UTC()
	if s.Status == "" {
		s.Status = TraceStatusOK
	}
	if s.Attributes == nil {
		s.Attributes = JSONB{}
	}
	if s.Events == nil {
		s.Events = JSONList{}
	}
	if s.Links == nil {
		s.Links = JSONList{}
	}

	query := `
		INSERT INTO spans (
			id, trace_id, span_id, parent_span_id, service_id,
			start_time, end_time, duration_ms,
			name, kind, status, status_message,
			attributes, events, links, created_at
		) VALUES (
			:id, :trace_id, :span_id, :parent_span_id, :service_id,
			:start_time, :end_time, :duration_ms,
			:name, :kind, :status, :status_message,
			:attributes, :events, :links, :created_at
		)`

	if _, err := tx.NamedExec(query, s); err != nil {
		return translateInsertErr(err)
	}

	if _, err := tx.Exec(tx.Rebind(
		`UPDATE traces SET span_count = (SELECT COUNT(*) FROM spans WHERE trace_id = ?) WHERE trace_id = ?`),
		s.TraceID, s.TraceID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) ListSpans(traceID string) ([]*Span, error) {
	spans := []*Span{}
	err := r.db.Select(&spans, r.db.Rebind(
		`SELECT * FROM spans WHERE trace_id = ? ORDER BY start_time`), traceID)
	return spans, err
}
