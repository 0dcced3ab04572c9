package db

import "time"

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
	LogLevelFatal LogLevel = "fatal"
)

// LogEntry is insert-only; rows are never updated, only pruned by retention.
type LogEntry struct {
	ID        string    `json:"id" db:"id"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`

	PlatformID *string `json:"platform_id,omitempty" db:"platform_id"`
	ServiceID  *string `json:"service_id,omitempty" db:"service_id"`

	Level   LogLevel `json:"level" db:"level"`
	Message string   `json:"message" db:"message"`

	TraceID   *string `json:"trace_id,omitempty" db:"trace_id"`
	SpanID    *string `json:"span_id,omitempty" db:"span_id"`
	RequestID *string `json:"request_id,omitempty" db:"request_id"`
	UserID    *string `json:"user_id,omitempty" db:"user_id"`

	Source      *string `json:"source,omitempty" db:"source"`
	Environment *string `json:"environment,omitempty" db:"environment"`
	Host        *string `json:"host,omitempty" db:"host"`
	ContainerID *string `json:"container_id,omitempty" db:"container_id"`
	PodName     *string `json:"pod_name,omitempty" db:"pod_name"`

	Attributes JSONB `json:"attributes" db:"attributes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type MetricType string

const (
	MetricTypeCounter   MetricType = "counter"
	MetricTypeGauge     MetricType = "gauge"
	MetricTypeHistogram MetricType = "histogram"
	MetricTypeSummary   MetricType = "summary"
)

type Metric struct {
	ID        string    `json:"id" db:"id"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`

	PlatformID *string `json:"platform_id,omitempty" db:"platform_id"`
	ServiceID  *string `json:"service_id,omitempty" db:"service_id"`

	Name       string     `json:"name" db:"name"`
	MetricType MetricType `json:"metric_type" db:"metric_type"`
	Value      float64    `json:"value" db:"value"`

	Labels      JSONB   `json:"labels" db:"labels"`
	Aggregation *string `json:"aggregation,omitempty" db:"aggregation"`
	Unit        *string `json:"unit,omitempty" db:"unit"`
	Description *string `json:"description,omitempty" db:"description"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type TraceStatus string

const (
	TraceStatusOK      TraceStatus = "ok"
	TraceStatusError   TraceStatus = "error"
	TraceStatusTimeout TraceStatus = "timeout"
)

type Trace struct {
	ID      string `json:"id" db:"id"`
	TraceID string `json:"trace_id" db:"trace_id"`

	PlatformID    *string `json:"platform_id,omitempty" db:"platform_id"`
	RootServiceID *string `json:"root_service_id,omitempty" db:"root_service_id"`

	StartTime  time.Time  `json:"start_time" db:"start_time"`
	EndTime    *time.Time `json:"end_time,omitempty" db:"end_time"`
	DurationMs *int       `json:"duration_ms,omitempty" db:"duration_ms"`

	RootSpanName     *string     `json:"root_span_name,omitempty" db:"root_span_name"`
	ServicesInvolved StringSlice `json:"services_involved" db:"services_involved"`
	SpanCount        int         `json:"span_count" db:"span_count"`

	Status       TraceStatus `json:"status" db:"status"`
	HasError     bool        `json:"has_error" db:"has_error"`
	ErrorMessage *string     `json:"error_message,omitempty" db:"error_message"`

	HTTPMethod     *string `json:"http_method,omitempty" db:"http_method"`
	HTTPPath       *string `json:"http_path,omitempty" db:"http_path"`
	HTTPStatusCode *int    `json:"http_status_code,omitempty" db:"http_status_code"`
	UserID         *string `json:"user_id,omitempty" db:"user_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type SpanKind string

const (
	SpanKindServer   SpanKind = "server"
	SpanKindClient   SpanKind = "client"
	SpanKindProducer SpanKind = "producer"
	SpanKindConsumer SpanKind = "consumer"
	SpanKindInternal SpanKind = "internal"
)

// Span belongs to exactly one Trace via traces.trace_id. ParentSpanID is
// nil for the root span; the set forms a tree ordered by start time.
type Span struct {
	ID           string  `json:"id" db:"id"`
	TraceID      string  `json:"trace_id" db:"trace_id"`
	SpanID       string  `json:"span_id" db:"span_id"`
	ParentSpanID *string `json:"parent_span_id,omitempty" db:"parent_span_id"`

	ServiceID *string `json:"service_id,omitempty" db:"service_id"`

	StartTime  time.Time  `json:"start_time" db:"start_time"`
	EndTime    *time.Time `json:"end_time,omitempty" db:"end_time"`
	DurationMs *int       `json:"duration_ms,omitempty" db:"duration_ms"`

	Name string    `json:"name" db:"name"`
	Kind *SpanKind `json:"kind,omitempty" db:"kind"`

	Status        TraceStatus `json:"status" db:"status"`
	StatusMessage *string     `json:"status_message,omitempty" db:"status_message"`

	Attributes JSONB    `json:"attributes" db:"attributes"`
	Events     JSONList `json:"events" db:"events"`
	Links      JSONList `json:"links" db:"links"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type LogFilters struct {
	PlatformID *string
	ServiceID  *string
	Level      *LogLevel
	TraceID    *string
	Since      *time.Time
	Until      *time.Time
	Limit      int
	Offset     int
}

type MetricFilters struct {
	PlatformID *string
	ServiceID  *string
	Name       *string
	MetricType *MetricType
	Since      *time.Time
	Until      *time.Time
	Limit      int
	Offset     int
}

type TraceFilters struct {
	PlatformID    *string
	Status        *TraceStatus
	MinDurationMs *int
	Since         *time.Time
	Until         *time.Time
	Limit         int
	Offset        int
}
