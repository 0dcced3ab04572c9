package db

import "time"

type PlatformStatus string

const (
	StatusHealthy     PlatformStatus = "healthy"
	StatusDegraded    PlatformStatus = "degraded"
	StatusCritical    PlatformStatus = "critical"
	StatusUnknown     PlatformStatus = "unknown"
	StatusMaintenance PlatformStatus = "maintenance"
)

type Criticality string

const (
	CriticalityCritical Criticality = "critical"
	CriticalityHigh     Criticality = "high"
	CriticalityMedium   Criticality = "medium"
	CriticalityLow      Criticality = "low"
)

type ServiceType string

const (
	ServiceTypeAPI      ServiceType = "api"
	ServiceTypeWorker   ServiceType = "worker"
	ServiceTypeDatabase ServiceType = "database"
	ServiceTypeCache    ServiceType = "cache"
	ServiceTypeQueue    ServiceType = "queue"
	ServiceTypeGateway  ServiceType = "gateway"
)

type Platform struct {
	ID          string  `json:"id" db:"id"`
	Code        string  `json:"code" db:"code"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description,omitempty" db:"description"`
	Color       string  `json:"color" db:"color"`
	Icon        *string `json:"icon,omitempty" db:"icon"`

	BaseURL         *string `json:"base_url,omitempty" db:"base_url"`
	MetricsEndpoint *string `json:"metrics_endpoint,omitempty" db:"metrics_endpoint"`
	LogsEndpoint    *string `json:"logs_endpoint,omitempty" db:"logs_endpoint"`
	TracesEndpoint  *string `json:"traces_endpoint,omitempty" db:"traces_endpoint"`

	Status          PlatformStatus `json:"status" db:"status"`
	HealthScore     float64        `json:"health_score" db:"health_score"`
	LastHealthCheck *time.Time     `json:"last_health_check,omitempty" db:"last_health_check"`

	// Pointer so an unset value can take the schema default at create.
	IsActive    *bool       `json:"is_active" db:"is_active"`
	Criticality Criticality `json:"criticality" db:"criticality"`
	Settings    JSONB       `json:"settings" db:"settings"`

	DefaultAvailabilityTarget float64 `json:"default_availability_target" db:"default_availability_target"`
	DefaultLatencyTargetMs    int     `json:"default_latency_target_ms" db:"default_latency_target_ms"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Service struct {
	ID         string `json:"id" db:"id"`
	PlatformID string `json:"platform_id" db:"platform_id"`

	Name        string  `json:"name" db:"name"`
	Slug        string  `json:"slug" db:"slug"`
	Description *string `json:"description,omitempty" db:"description"`

	ServiceType *ServiceType `json:"service_type,omitempty" db:"service_type"`
	Technology  *string      `json:"technology,omitempty" db:"technology"`

	Status      PlatformStatus `json:"status" db:"status"`
	HealthScore float64        `json:"health_score" db:"health_score"`
	LastSeen    *time.Time     `json:"last_seen,omitempty" db:"last_seen"`

	Team       *string `json:"team,omitempty" db:"team"`
	OwnerEmail *string `json:"owner_email,omitempty" db:"owner_email"`

	HealthEndpoint *string `json:"health_endpoint,omitempty" db:"health_endpoint"`
	MetricsPort    int     `json:"metrics_port" db:"metrics_port"`

	CPULimit    *string `json:"cpu_limit,omitempty" db:"cpu_limit"`
	MemoryLimit *string `json:"memory_limit,omitempty" db:"memory_limit"`
	Replicas    int     `json:"replicas" db:"replicas"`

	IsActive *bool `json:"is_active" db:"is_active"`
	Settings JSONB `json:"settings" db:"settings"`
	Labels   JSONB `json:"labels" db:"labels"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PlatformFilters narrows ListPlatforms. Nil fields are ignored.
type PlatformFilters struct {
	IsActive    *bool
	Criticality *Criticality
}

type ServiceFilters struct {
	PlatformID  *string
	ServiceType *ServiceType
	Status      *PlatformStatus
	IsActive    *bool
	Limit       int
	Offset      int
}
