package db

import "time"

type SLIType string

const (
	SLIAvailability SLIType = "availability"
	SLILatency      SLIType = "latency"
	SLIErrorRate    SLIType = "error_rate"
	SLIThroughput   SLIType = "throughput"
)

type WindowType string

const (
	WindowRolling  WindowType = "rolling"
	WindowCalendar WindowType = "calendar"
)

type SLO struct {
	ID          string  `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description,omitempty" db:"description"`

	PlatformID *string `json:"platform_id,omitempty" db:"platform_id"`
	ServiceID  *string `json:"service_id,omitempty" db:"service_id"`

	SLIType  SLIType `json:"sli_type" db:"sli_type"`
	SLIQuery string  `json:"sli_query" db:"sli_query"`

	Target float64 `json:"target" db:"target"`

	WindowType WindowType `json:"window_type" db:"window_type"`
	WindowDays int        `json:"window_days" db:"window_days"`

	CurrentValue         *float64   `json:"current_value,omitempty" db:"current_value"`
	ErrorBudgetRemaining *float64   `json:"error_budget_remaining,omitempty" db:"error_budget_remaining"`
	LastCalculated       *time.Time `json:"last_calculated,omitempty" db:"last_calculated"`

	BurnRateThreshold       float64 `json:"burn_rate_threshold" db:"burn_rate_threshold"`
	AlertOnBudgetExhaustion *bool   `json:"alert_on_budget_exhaustion" db:"alert_on_budget_exhaustion"`

	IsActive *bool `json:"is_active" db:"is_active"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Dashboard struct {
	ID          string  `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description,omitempty" db:"description"`
	Slug        string  `json:"slug" db:"slug"`

	OwnerID  *string `json:"owner_id,omitempty" db:"owner_id"`
	IsPublic bool    `json:"is_public" db:"is_public"`

	Layout JSONList `json:"layout" db:"layout"`

	TimeRange       string `json:"time_range" db:"time_range"`
	RefreshInterval int    `json:"refresh_interval" db:"refresh_interval"`

	Variables JSONList    `json:"variables" db:"variables"`
	Tags      StringSlice `json:"tags" db:"tags"`
	IsStarred bool        `json:"is_starred" db:"is_starred"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type DashboardWidget struct {
	ID          string `json:"id" db:"id"`
	DashboardID string `json:"dashboard_id" db:"dashboard_id"`

	X int `json:"x" db:"x"`
	Y int `json:"y" db:"y"`
	W int `json:"w" db:"w"`
	H int `json:"h" db:"h"`

	WidgetType  string  `json:"widget_type" db:"widget_type"`
	Title       *string `json:"title,omitempty" db:"title"`
	Description *string `json:"description,omitempty" db:"description"`

	Config  JSONB    `json:"config" db:"config"`
	Queries JSONList `json:"queries" db:"queries"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type IntegrationType string

const (
	IntegrationSlack     IntegrationType = "slack"
	IntegrationPagerDuty IntegrationType = "pagerduty"
	IntegrationOpsGenie  IntegrationType = "opsgenie"
	IntegrationEmail     IntegrationType = "email"
	IntegrationWebhook   IntegrationType = "webhook"
	IntegrationTeams     IntegrationType = "teams"
)

type Integration struct {
	ID   string          `json:"id" db:"id"`
	Name string          `json:"name" db:"name"`
	Type IntegrationType `json:"type" db:"type"`

	Config JSONB `json:"config" db:"config"`

	IsActive  bool       `json:"is_active" db:"is_active"`
	LastUsed  *time.Time `json:"last_used,omitempty" db:"last_used"`
	LastError *string    `json:"last_error,omitempty" db:"last_error"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleViewer   Role = "viewer"
)

type User struct {
	ID             string `json:"id" db:"id"`
	Email          string `json:"email" db:"email"`
	HashedPassword string `json:"-" db:"hashed_password"`

	Name      string  `json:"name" db:"name"`
	AvatarURL *string `json:"avatar_url,omitempty" db:"avatar_url"`

	Role        Role     `json:"role" db:"role"`
	Permissions JSONList `json:"permissions" db:"permissions"`

	IsActive   bool       `json:"is_active" db:"is_active"`
	IsVerified bool       `json:"is_verified" db:"is_verified"`
	LastLogin  *time.Time `json:"last_login,omitempty" db:"last_login"`

	Settings JSONB `json:"settings" db:"settings"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type SLOFilters struct {
	PlatformID *string
	ServiceID  *string
	IsActive   *bool
	Limit      int
	Offset     int
}

type DashboardFilters struct {
	IsPublic  *bool
	IsStarred *bool
	Limit     int
	Offset    int
}

type IntegrationFilters struct {
	Type     *IntegrationType
	IsActive *bool
	Limit    int
	Offset   int
}

type UserFilters struct {
	Role     *Role
	IsActive *bool
	Limit    int
	Offset   int
}
