package db

import (
	"database/sql"
	"errors"
	"time"
)

// SLO operations

func (r *Repository) CreateSLO(s *SLO) error {
	now := time.Now().UTC()
	s.ID = newID()
	s.CreatedAt = now
	s.UpdatedAt = now
	if s.WindowType == "" {
		s.WindowType = WindowRolling
	}
	if s.WindowDays == 0 {
		s.WindowDays = 30
	}
	if s.BurnRateThreshold == 0 {
		s.BurnRateThreshold = 1.0
	}
	if s.AlertOnBudgetExhaustion == nil {
		alert := true
		s.AlertOnBudgetExhaustion = &alert
	}
	if s.IsActive == nil {
		active := true
		s.IsActive = &active
	}

	query := `
		INSERT INTO slos (
			id, name, description, platform_id, service_id,
			sli_type, sli_query, target, window_type, window_days,
			current_value, error_budget_remaining, last_calculated,
			burn_rate_threshold, alert_on_budget_exhaustion, is_active,
			created_at, updated_at
		) VALUES (
			:id, :name, :description, :platform_id, :service_id,
			:sli_type, :sli_query, :target, :window_type, :window_days,
			:current_value, :error_budget_remaining, :last_calculated,
			:burn_rate_threshold, :alert_on_budget_exhaustion, :is_active,
			:created_at, :updated_at
		)`

	_, err := r.db.NamedExec(query, s)
	return err
}

func (r *Repository) GetSLO(id string) (*SLO, error) {
	var s SLO
	err := r.db.Get(&s, r.db.Rebind(`SELECT * FROM slos WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("slo")
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) ListSLOs(f SLOFilters) ([]*SLO, error) {
	slos := []*SLO{}
	query := `SELECT * FROM slos WHERE 1=1`
	args := []interface{}{}

	if f.PlatformID != nil {
		query += ` AND platform_id = ?`
		args = append(args, *f.PlatformID)
	}
	if f.ServiceID != nil {
		query += ` AND service_id = ?`
		args = append(args, *f.ServiceID)
	}
	if f.IsActive != nil {
		query += ` AND is_active = ?`
		args = append(args, *f.IsActive)
	}
	query += ` ORDER BY created_at LIMIT ? OFFSET ?`
	args = append(args, clampLimit(f.Limit), f.Offset)

	err := r.db.Select(&slos, r.db.Rebind(query), args...)
	return slos, err
}

func (r *Repository) UpdateSLO(s *SLO) error {
	s.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE slos SET
			name = :name,
			description = :description,
			sli_type = :sli_type,
			sli_query = :sli_query,
			target = :target,
			window_type = :window_type,
			window_days = :window_days,
			current_value = :current_value,
			error_budget_remaining = :error_budget_remaining,
			last_calculated = :last_calculated,
			burn_rate_threshold = :burn_rate_threshold,
			alert_on_budget_exhaustion = :alert_on_budget_exhaustion,
			is_active = :is_active,
			updated_at = :updated_at
		WHERE id = :id`

	res, err := r.db.NamedExec(query, s)
	if err != nil {
		return err
	}
	return requireRow(res, "slo")
}

func (r *Repository) DeleteSLO(id string) error {
	res, err := r.db.Exec(r.db.Rebind(`DELETE FROM slos WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return requireRow(res, "slo")
}

// Dashboard operations

func (r *Repository) CreateDashboard(d *Dashboard) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	if err := tx.Get(&count, tx.Rebind(`SELECT COUNT(*) FROM dashboards WHERE slug = ?`), d.Slug); err != nil {
		return err
	}
	if count > 0 {
		return conflict("dashboard slug " + d.Slug)
	}

	now := time.Now().UTC()
	d.ID = newID()
	d.CreatedAt = now
	d.UpdatedAt = now
	if d.TimeRange == "" {
		d.TimeRange = "1h"
	}
	if d.RefreshInterval == 0 {
		d.RefreshInterval = 30
	}
	if d.Layout == nil {
		d.Layout = JSONList{}
	}
	if d.Variables == nil {
		d.Variables = JSONList{}
	}
	if d.Tags == nil {
		d.Tags = StringSlice{}
	}

	query := `
		INSERT INTO dashboards (
			id, name, description, slug, owner_id, is_public,
			layout, time_range, refresh_interval, variables, tags, is_starred,
			created_at, updated_at
		) VALUES (
			:id, :name, :description, :slug, :owner_id, :is_public,
			:layout, :time_range, :refresh_interval, :variables, :tags, :is_starred,
			:created_at, :updated_at
		)`

	if _, err := tx.NamedExec(query, d); err != nil {
		return translateInsertErr(err)
	}

	return tx.Commit()
}

func (r *Repository) GetDashboard(id string) (*Dashboard, error) {
	var d Dashboard
	err := r.db.Get(&d, r.db.Rebind(`SELECT * FROM dashboards WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("dashboard")
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repository) GetDashboardBySlug(slug string) (*Dashboard, error) {
	var d Dashboard
	err := r.db.Get(&d, r.db.Rebind(`SELECT * FROM dashboards WHERE slug = ?`), slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("dashboard")
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repository) ListDashboards(f DashboardFilters) ([]*Dashboard, error) {
	dashboards := []*Dashboard{}
	query := `SELECT * FROM dashboards WHERE 1=1`
	args := []interface{}{}

	if f.IsPublic != nil {
		query += ` AND is_public = ?`
		args = append(args, *f.IsPublic)
	}
	if f.IsStarred != nil {
		query += ` AND is_starred = ?`
		args = append(args, *f.IsStarred)
	}
	query += ` ORDER BY created_at LIMIT ? OFFSET ?`
	args = append(args, clampLimit(f.Limit), f.Offset)

	err := r.db.Select(&dashboards, r.db.Rebind(query), args...)
	return dashboards, err
}

func (r *Repository) UpdateDashboard(d *Dashboard) error {
	d.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE dashboards SET
			name = :name,
			description = :description,
			owner_id = :owner_id,
			is_public = :is_public,
			layout = :layout,
			time_range = :time_range,
			refresh_interval = :refresh_interval,
			variables = :variables,
			tags = :tags,
			is_starred = :is_starred,
			updated_at = :updated_at
		WHERE id = :id`

	res, err := r.db.NamedExec(query, d)
	if err != nil {
		return err
	}
	return requireRow(res, "dashboard")
}

// DeleteDashboard cascades to the dashboard's widgets via the FK.
func (r *Repository) DeleteDashboard(id string) error {
	res, err := r.db.Exec(r.db.Rebind(`DELETE FROM dashboards WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return requireRow(res, "dashboard")
}

// Widget operations

func (r *Repository) CreateWidget(w *DashboardWidget) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	if err := tx.Get(&count, tx.Rebind(`SELECT COUNT(*) FROM dashboards WHERE id = ?`), w.DashboardID); err != nil {
		return err
	}
	if count == 0 {
		return dependency("dashboard " + w.DashboardID)
	}

	now := time.Now().UTC()
	w.ID = newID()
	w.CreatedAt = now
	w.UpdatedAt = now
	if w.W == 0 {
		w.W = 4
	}
	if w.H == 0 {
		w.H = 3
	}
	if w.Config == nil {
		w.Config = JSONB{}
	}
	if w.Queries == nil {
		w.Queries = JSONList{}
	}

	query := `
		INSERT INTO dashboard_widgets (
			id, dashboard_id, x, y, w, h,
			widget_type, title, description, config, queries,
			created_at, updated_at
		) VALUES (
			:id, :dashboard_id, :x, :y, :w, :h,
			:widget_type, :title, :description, :config, :queries,
			:created_at, :updated_at
		)`

	if _, err := tx.NamedExec(query, w); err != nil {
		return translateInsertErr(err)
	}

	return tx.Commit()
}

func (r *Repository) GetWidget(id string) (*DashboardWidget, error) {
	var w DashboardWidget
	err := r.db.Get(&w, r.db.Rebind(`SELECT * FROM dashboard_widgets WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("widget")
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// ListWidgets returns the dashboard's widgets in grid order.
func (r *Repository) ListWidgets(dashboardID string) ([]*DashboardWidget, error) {
	widgets := []*DashboardWidget{}
	err := r.db.Select(&widgets, r.db.Rebind(
		`SELECT * FROM dashboard_widgets WHERE dashboard_id = ? ORDER BY y, x`), dashboardID)
	return widgets, err
}

func (r *Repository) UpdateWidget(w *DashboardWidget) error {
	w.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE dashboard_widgets SET
			x = :x,
			y = :y,
			w = :w,
			h = :h,
			widget_type = :widget_type,
			title = :title,
			description = :description,
			config = :config,
			queries = :queries,
			updated_at = :updated_at
		WHERE id = :id`

	res, err := r.db.NamedExec(query, w)
	if err != nil {
		return err
	}
	return requireRow(res, "widget")
}

func (r *Repository) DeleteWidget(id string) error {
	res, err := r.db.Exec(r.db.Rebind(`DELETE FROM dashboard_widgets WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return requireRow(res, "widget")
}

// Integration operations

func (r *Repository) CreateIntegration(i *Integration) error {
	now := time.Now().UTC()
	i.ID = newID()
	i.CreatedAt = now
	i.UpdatedAt = now
	if i.Config == nil {
		i.Config = JSONB{}
	}

	query := `
		INSERT INTO integrations (
			id, name, type, config, is_active, last_used, last_error,
			created_at, updated_at
		) VALUES (
			:id, :name, :type, :config, :is_active, :last_used, :last_error,
			:created_at, :updated_at
		)`

	_, err := r.db.NamedExec(query, i)
	return err
}

func (r *Repository) GetIntegration(id string) (*Integration, error) {
	var i Integration
	err := r.db.Get(&i, r.db.Rebind(`SELECT * FROM integrations WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("integration")
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *Repository) ListIntegrations(f IntegrationFilters) ([]*Integration, error) {
	integrations := []*Integration{}
	query := `SELECT * FROM integrations WHERE 1=1`
	args := []interface{}{}

	if f.Type != nil {
		query += ` AND type = ?`
		args = append(args, *f.Type)
	}
	if f.IsActive != nil {
		query += ` AND is_active = ?`
		args = append(args, *f.IsActive)
	}
	query += ` ORDER BY created_at LIMIT ? OFFSET ?`
	args = append(args, clampLimit(f.Limit), f.Offset)

	err := r.db.Select(&integrations, r.db.Rebind(query), args...)
	return integrations, err
}

func (r *Repository) UpdateIntegration(i *Integration) error {
	i.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE integrations SET
			name = :name,
			type = :type,
			config = :config,
			is_active = :is_active,
			last_used = :last_used,
			last_error = :last_error,
			updated_at = :updated_at
		WHERE id = :id`

	res, err := r.db.NamedExec(query, i)
	if err != nil {
		return err
	}
	return requireRow(res, "integration")
}

func (r *Repository) DeleteIntegration(id string) error {
	res, err := r.db.Exec(r.db.Rebind(`DELETE FROM integrations WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return requireRow(res, "integration")
}

// User operations

func (r *Repository) CreateUser(u *User) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	if err := tx.Get(&count, tx.Rebind(`SELECT COUNT(*) FROM users WHERE email = ?`), u.Email); err != nil {
		return err
	}
	if count > 0 {
		return conflict("user email " + u.Email)
	}

	now := time.Now().UTC()
	u.ID = newID()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Role == "" {
		u.Role = RoleViewer
	}
	if u.Permissions == nil {
		u.Permissions = JSONList{}
	}
	if u.Settings == nil {
		u.Settings = JSONB{}
	}

	query := `
		INSERT INTO users (
			id, email, hashed_password, name, avatar_url,
			role, permissions, is_active, is_verified, last_login, settings,
			created_at, updated_at
		) VALUES (
			:id, :email, :hashed_password, :name, :avatar_url,
			:role, :permissions, :is_active, :is_verified, :last_login, :settings,
			:created_at, :updated_at
		)`

	if _, err := tx.NamedExec(query, u); err != nil {
		return translateInsertErr(err)
	}

	return tx.Commit()
}

func (r *Repository) GetUser(id string) (*User, error) {
	var u User
	err := r.db.Get(&u, r.db.Rebind(`SELECT * FROM users WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("user")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetUserByEmail(email string) (*User, error) {
	var u User
	err := r.db.Get(&u, r.db.Rebind(`SELECT * FROM users WHERE email = ?`), email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("user")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) ListUsers(f UserFilters) ([]*User, error) {
	users := []*User{}
	query := `SELECT * FROM users WHERE 1=1`
	args := []interface{}{}

	if f.Role != nil {
		query += ` AND role = ?`
		args = append(args, *f.Role)
	}
	if f.IsActive != nil {
		query += ` AND is_active = ?`
		args = append(args, *f.IsActive)
	}
	query += ` ORDER BY created_at LIMIT ? OFFSET ?`
	args = append(args, clampLimit(f.Limit), f.Offset)

	err := r.db.Select(&users, r.db.Rebind(query), args...)
	return users, err
}

func (r *Repository) UpdateUser(u *User) error {
	u.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users SET
			hashed_password = :hashed_password,
			name = :name,
			avatar_url = :avatar_url,
			role = :role,
			permissions = :permissions,
			is_active = :is_active,
			is_verified = :is_verified,
			last_login = :last_login,
			settings = :settings,
			updated_at = :updated_at
		WHERE id = :id`

	res, err := r.db.NamedExec(query, u)
	if err != nil {
		return err
	}
	return requireRow(res, "user")
}

func (r *Repository) DeleteUser(id string) error {
	res, err := r.db.Exec(r.db.Rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return requireRow(res, "user")
}
