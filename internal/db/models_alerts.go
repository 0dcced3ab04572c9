package db

import "time"

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type ConditionOperator string

const (
	OperatorGT  ConditionOperator = "gt"
	OperatorLT  ConditionOperator = "lt"
	OperatorGTE ConditionOperator = "gte"
	OperatorLTE ConditionOperator = "lte"
	OperatorEQ  ConditionOperator = "eq"
	OperatorNEQ ConditionOperator = "neq"
)

// AlertRule scopes a condition to an optional platform/service; both nil
// means the rule is global.
type AlertRule struct {
	ID          string  `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description,omitempty" db:"description"`

	PlatformID *string `json:"platform_id,omitempty" db:"platform_id"`
	ServiceID  *string `json:"service_id,omitempty" db:"service_id"`

	MetricName        *string           `json:"metric_name,omitempty" db:"metric_name"`
	ConditionOperator ConditionOperator `json:"condition_operator" db:"condition_operator"`
	Threshold         float64           `json:"threshold" db:"threshold"`
	DurationSeconds   int               `json:"duration_seconds" db:"duration_seconds"`
	CustomQuery       *string           `json:"custom_query,omitempty" db:"custom_query"`

	Severity             Severity    `json:"severity" db:"severity"`
	NotificationChannels StringSlice `json:"notification_channels" db:"notification_channels"`

	IsMuted     bool       `json:"is_muted" db:"is_muted"`
	MutedUntil  *time.Time `json:"muted_until,omitempty" db:"muted_until"`
	MutedReason *string    `json:"muted_reason,omitempty" db:"muted_reason"`

	IsActive      bool       `json:"is_active" db:"is_active"`
	LastTriggered *time.Time `json:"last_triggered,omitempty" db:"last_triggered"`

	Labels      JSONB   `json:"labels" db:"labels"`
	Annotations JSONB   `json:"annotations" db:"annotations"`
	CreatedBy   *string `json:"created_by,omitempty" db:"created_by"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type AlertStatus string

const (
	AlertStatusFiring       AlertStatus = "firing"
	AlertStatusResolved     AlertStatus = "resolved"
	AlertStatusAcknowledged AlertStatus = "acknowledged"
)

type Alert struct {
	ID     string  `json:"id" db:"id"`
	RuleID *string `json:"rule_id,omitempty" db:"rule_id"`

	PlatformID *string `json:"platform_id,omitempty" db:"platform_id"`
	ServiceID  *string `json:"service_id,omitempty" db:"service_id"`

	Name        string   `json:"name" db:"name"`
	Description *string  `json:"description,omitempty" db:"description"`
	Severity    Severity `json:"severity" db:"severity"`

	CurrentValue *float64 `json:"current_value,omitempty" db:"current_value"`
	Threshold    *float64 `json:"threshold,omitempty" db:"threshold"`

	Status         AlertStatus `json:"status" db:"status"`
	FiredAt        time.Time   `json:"fired_at" db:"fired_at"`
	ResolvedAt     *time.Time  `json:"resolved_at,omitempty" db:"resolved_at"`
	AcknowledgedAt *time.Time  `json:"acknowledged_at,omitempty" db:"acknowledged_at"`
	AcknowledgedBy *string     `json:"acknowledged_by,omitempty" db:"acknowledged_by"`

	Labels      JSONB `json:"labels" db:"labels"`
	Annotations JSONB `json:"annotations" db:"annotations"`

	IncidentID *string `json:"incident_id,omitempty" db:"incident_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type IncidentStatus string

const (
	IncidentStatusOpen          IncidentStatus = "open"
	IncidentStatusAcknowledged  IncidentStatus = "acknowledged"
	IncidentStatusInvestigating IncidentStatus = "investigating"
	IncidentStatusResolved      IncidentStatus = "resolved"
	IncidentStatusClosed        IncidentStatus = "closed"
)

type Incident struct {
	ID          string  `json:"id" db:"id"`
	Title       string  `json:"title" db:"title"`
	Description *string `json:"description,omitempty" db:"description"`

	Severity Severity       `json:"severity" db:"severity"`
	Status   IncidentStatus `json:"status" db:"status"`

	StartedAt      time.Time  `json:"started_at" db:"started_at"`
	DetectedAt     *time.Time `json:"detected_at,omitempty" db:"detected_at"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty" db:"acknowledged_at"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`
	ClosedAt       *time.Time `json:"closed_at,omitempty" db:"closed_at"`

	AffectedPlatforms StringSlice `json:"affected_platforms" db:"affected_platforms"`
	AffectedServices  StringSlice `json:"affected_services" db:"affected_services"`
	CustomerImpact    *string     `json:"customer_impact,omitempty" db:"customer_impact"`

	RootCause  *string `json:"root_cause,omitempty" db:"root_cause"`
	Resolution *string `json:"resolution,omitempty" db:"resolution"`

	CommanderID *string     `json:"commander_id,omitempty" db:"commander_id"`
	AssignedTo  StringSlice `json:"assigned_to" db:"assigned_to"`

	Timeline JSONList `json:"timeline" db:"timeline"`

	PostmortemURL *string  `json:"postmortem_url,omitempty" db:"postmortem_url"`
	ActionItems   JSONList `json:"action_items" db:"action_items"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TimelineEntry is one chronological note appended to an incident.
type TimelineEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	User      string    `json:"user,omitempty"`
	Note      string    `json:"note,omitempty"`
}

type AlertFilters struct {
	Status     *AlertStatus
	Severity   *Severity
	PlatformID *string
	ServiceID  *string
	IncidentID *string
	Limit      int
	Offset     int
}

type AlertRuleFilters struct {
	PlatformID *string
	ServiceID  *string
	Severity   *Severity
	IsActive   *bool
	Limit      int
	Offset     int
}

type IncidentFilters struct {
	Status   *IncidentStatus
	Severity *Severity
	Limit    int
	Offset   int
}
