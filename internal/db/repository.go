package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

type Repository struct {
	db *sqlx.DB
}

func NewConnection(databaseURL string, maxOpen, maxIdle int) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Ping() error {
	return r.db.Ping()
}

// clampLimit enforces the [1,500] window for non-HTTP callers; the API
// layer rejects out-of-range limits before reaching here.
func clampLimit(limit int) int {
	if limit < 1 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

func newID() string {
	return uuid.New().String()
}

// Platform operations

func (r *Repository) CreatePlatform(p *Platform) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	if err := tx.Get(&count, tx.Rebind(`SELECT COUNT(*) FROM platforms WHERE code = ?`), p.Code); err != nil {
		return err
	}
	if count > 0 {
		return conflict("platform code " + p.Code)
	}

	now := time.Now().UTC()
	p.ID = newID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = StatusUnknown
	}
	if p.HealthScore == 0 {
		p.HealthScore = 100
	}
	if p.Color == "" {
		p.Color = "#00d4ff"
	}
	if p.Criticality == "" {
		p.Criticality = CriticalityHigh
	}
	if p.DefaultAvailabilityTarget == 0 {
		p.DefaultAvailabilityTarget = 0.999
	}
	if p.DefaultLatencyTargetMs == 0 {
		p.DefaultLatencyTargetMs = 500
	}
	if p.IsActive == nil {
		active := true
		p.IsActive = &active
	}
	if p.Settings == nil {
		p.Settings = JSONB{}
	}

	query := `
		INSERT INTO platforms (
			id, code, name, description, color, icon,
			base_url, metrics_endpoint, logs_endpoint, traces_endpoint,
			status, health_score, last_health_check,
			is_active, criticality, settings,
			default_availability_target, default_latency_target_ms,
			created_at, updated_at
		) VALUES (
			:id, :code, :name, :description, :color, :icon,
			:base_url, :metrics_endpoint, :logs_endpoint, :traces_endpoint,
			:status, :health_score, :last_health_check,
			:is_active, :criticality, :settings,
			:default_availability_target, :default_latency_target_ms,
			:created_at, :updated_at
		)`

	if _, err := tx.NamedExec(query, p); err != nil {
		return translateInsertErr(err)
	}

	return tx.Commit()
}

func (r *Repository) GetPlatform(id string) (*Platform, error) {
	var p Platform
	err := r.db.Get(&p, r.db.Rebind(`SELECT * FROM platforms WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("platform")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) GetPlatformByCode(code string) (*Platform, error) {
	var p Platform
	err := r.db.Get(&p, r.db.Rebind(`SELECT * FROM platforms WHERE code = ?`), code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("platform")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) ListPlatforms(f PlatformFilters) ([]*Platform, error) {
	platforms := []*Platform{}
	query := `SELECT * FROM platforms WHERE 1=1`
	args := []interface{}{}

	if f.IsActive != nil {
		query += ` AND is_active = ?`
		args = append(args, *f.IsActive)
	}
	if f.Criticality != nil {
		query += ` AND criticality = ?`
		args = append(args, *f.Criticality)
	}
	query += ` ORDER BY created_at`

	err := r.db.Select(&platforms, r.db.Rebind(query), args...)
	return platforms, err
}

func (r *Repository) CountPlatforms() (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM platforms`)
	return count, err
}

// UpdatePlatform writes every mutable column; handlers merge partial
// payloads into the fetched row first. Code is immutable.
func (r *Repository) UpdatePlatform(p *Platform) error {
	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE platforms SET
			name = :name,
			description = :description,
			color = :color,
			icon = :icon,
			base_url = :base_url,
			metrics_endpoint = :metrics_endpoint,
			logs_endpoint = :logs_endpoint,
			traces_endpoint = :traces_endpoint,
			status = :status,
			health_score = :health_score,
			last_health_check = :last_health_check,
			is_active = :is_active,
			criticality = :criticality,
			settings = :settings,
			default_availability_target = :default_availability_target,
			default_latency_target_ms = :default_latency_target_ms,
			updated_at = :updated_at
		WHERE id = :id`

	res, err := r.db.NamedExec(query, p)
	if err != nil {
		return err
	}
	return requireRow(res, "platform")
}

// DeletePlatform cascades to the platform's services via the FK.
func (r *Repository) DeletePlatform(id string) error {
	res, err := r.db.Exec(r.db.Rebind(`DELETE FROM platforms WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return requireRow(res, "platform")
}

func requireRow(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(entity)
	}
	return nil
}

// Service operations

func (r *Repository) CreateService(s *Service) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	if err := tx.Get(&count, tx.Rebind(`SELECT COUNT(*) FROM platforms WHERE id = ?`), s.PlatformID); err != nil {
		return err
	}
	if count == 0 {
		return dependency("platform " + s.PlatformID)
	}

	if err := tx.Get(&count, tx.Rebind(
		`SELECT COUNT(*) FROM services WHERE platform_id = ? AND slug = ?`), s.PlatformID, s.Slug); err != nil {
		return err
	}
	if count > 0 {
		return conflict("service slug " + s.Slug)
	}

	now := time.Now().UTC()
	s.ID = newID()
	s.CreatedAt = now
	s.UpdatedAt = now
	if s.Status == "" {
		s.Status = StatusUnknown
	}
	if s.HealthScore == 0 {
		s.HealthScore = 100
	}
	if s.MetricsPort == 0 {
		s.MetricsPort = 9090
	}
	if s.Replicas == 0 {
		s.Replicas = 1
	}
	if s.IsActive == nil {
		active := true
		s.IsActive = &active
	}
	if s.Settings == nil {
		s.Settings = JSONB{}
	}
	if s.Labels == nil {
		s.Labels = JSONB{}
	}

	query := `
		INSERT INTO services (
			id, platform_id, name, slug, description,
			service_type, technology, status, health_score, last_seen,
			team, owner_email, health_endpoint, metrics_port,
			cpu_limit, memory_limit, replicas,
			is_active, settings, labels, created_at, updated_at
		) VALUES (
			:id, :platform_id, :name, :slug, :description,
			:service_type, :technology, :status, :health_score, :last_seen,
			:team, :owner_email, :health_endpoint, :metrics_port,
			:cpu_limit, :memory_limit, :replicas,
			:is_active, :settings, :labels, :created_at, :updated_at
		)`

	if _, err := tx.NamedExec(query, s); err != nil {
		return translateInsertErr(err)
	}

	return tx.Commit()
}

func (r *Repository) GetService(id string) (*Service, error) {
	var s Service
	err := r.db.Get(&s, r.db.Rebind(`SELECT * FROM services WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("service")
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) ListServices(f ServiceFilters) ([]*Service, error) {
	services := []*Service{}
	query := `SELECT * FROM services WHERE 1=1`
	args := []interface{}{}

	if f.PlatformID != nil {
		query += ` AND platform_id = ?`
		args = append(args, *f.PlatformID)
	}
	if f.ServiceType != nil {
		query += ` AND service_type = ?`
		args = append(args, *f.ServiceType)
	}
	if f.Status != nil {
		query += ` AND status = ?`
		args = append(args, *f.Status)
	}
	if f.IsActive != nil {
		query += ` AND is_active = ?`
		args = append(args, *f.IsActive)
	}
	query += ` ORDER BY created_at LIMIT ? OFFSET ?`
	args = append(args, clampLimit(f.Limit), f.Offset)

	err := r.db.Select(&services, r.db.Rebind(query), args...)
	return services, err
}

func (r *Repository) ListServicesForPlatform(platformID string) ([]*Service, error) {
	services := []*Service{}
	err := r.db.Select(&services, r.db.Rebind(
		`SELECT * FROM services WHERE platform_id = ? ORDER BY created_at`), platformID)
	return services, err
}

// UpdateService writes every mutable column. PlatformID and Slug are
// immutable, so the (platform_id, slug) invariant cannot break on update.
func (r *Repository) UpdateService(s *Service) error {
	s.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE services SET
			name = :name,
			description = :description,
			service_type = :service_type,
			technology = :technology,
			status = :status,
			health_score = :health_score,
			last_seen = :last_seen,
			team = :team,
			owner_email = :owner_email,
			health_endpoint = :health_endpoint,
			metrics_port = :metrics_port,
			cpu_limit = :cpu_limit,
			memory_limit = :memory_limit,
			replicas = :replicas,
			is_active = :is_active,
			settings = :settings,
			labels = :labels,
			updated_at = :updated_at
		WHERE id = :id`

	res, err := r.db.NamedExec(query, s)
	if err != nil {
		return err
	}
	return requireRow(res, "service")
}

func (r *Repository) DeleteService(id string) error {
	res, err := r.db.Exec(r.db.Rebind(`DELETE FROM services WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return requireRow(res, "service")
}
