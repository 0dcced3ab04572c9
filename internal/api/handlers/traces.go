package handlers

import (
	"net/http"
	"time"

	"github.com/followme-dot/INFRA-OBSERVATORY/internal/db"
	"github.com/gin-gonic/gin"
)

type CreateTraceRequest struct {
	TraceID string `json:"trace_id" binding:"required,min=1,max=64"`

	PlatformID    *string `json:"platform_id"`
	RootServiceID *string `json:"root_service_id"`

	StartTime time.Time  `json:"start_time" binding:"required"`
	EndTime   *time.Time `json:"end_time"`

	RootSpanName     *string        `json:"root_span_name"`
	ServicesInvolved db.StringSlice `json:"services_involved"`

	Status       *string `json:"status" binding:"omitempty,oneof=ok error timeout"`
	HasError     *bool   `json:"has_error"`
	ErrorMessage *string `json:"error_message"`

	HTTPMethod     *string `json:"http_method"`
	HTTPPath       *string `json:"http_path"`
	HTTPStatusCode *int    `json:"http_status_code" binding:"omitempty,min=100,max=599"`
	UserID         *string `json:"user_id"`
}

type CreateSpanRequest struct {
	SpanID       string  `json:"span_id" binding:"required,min=1,max=64"`
	ParentSpanID *string `json:"parent_span_id"`

	ServiceID *string `json:"service_id"`

	StartTime time.Time  `json:"start_time" binding:"required"`
	EndTime   *time.Time `json:"end_time"`

	Name string  `json:"name" binding:"required,min=1,max=255"`
	Kind *string `json:"kind" binding:"omitempty,oneof=server client producer consumer internal"`

	Status        *string `json:"status" binding:"omitempty,oneof=ok error timeout"`
	StatusMessage *string `json:"status_message"`

	Attributes db.JSONB    `json:"attributes"`
	Events     db.JSONList `json:"events"`
	Links      db.JSONList `json:"links"`
}

func durationMs(start time.Time, end *time.Time) *int {
	if end == nil {
		return nil
	}
	ms := int(end.Sub(start).Milliseconds())
	return &ms
}

func (h *Handler) CreateTrace(c *gin.Context) {
	var req CreateTraceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	trace := &db.Trace{
		TraceID:          req.TraceID,
		PlatformID:       req.PlatformID,
		RootServiceID:    req.RootServiceID,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		DurationMs:       durationMs(req.StartTime, req.EndTime),
		RootSpanName:     req.RootSpanName,
		ServicesInvolved: req.ServicesInvolved,
		ErrorMessage:     req.ErrorMessage,
		HTTPMethod:       req.HTTPMethod,
		HTTPPath:         req.HTTPPath,
		HTTPStatusCode:   req.HTTPStatusCode,
		UserID:           req.UserID,
	}
	if req.Status != nil {
		trace.Status = db.TraceStatus(*req.Status)
	}
	if req.HasError != nil {
		trace.HasError = *req.HasError
	} else {
		trace.HasError = trace.Status == db.TraceStatusError
	}

	if err := h.repo.CreateTrace(trace); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, trace)
}

func (h *Handler) ListTraces(c *gin.Context) {
	limit, offset, ok := listWindow(c)
	if !ok {
		return
	}

	since, ok := queryTime(c, "since")
	if !ok {
		return
	}
	until, ok := queryTime(c, "until")
	if !ok {
		return
	}

	filters := db.TraceFilters{
		PlatformID:    queryStr(c, "platform_id"),
		MinDurationMs: queryInt(c, "min_duration_ms"),
		Since:         since,
		Until:         until,
		Limit:         limit,
		Offset:        offset,
	}
	if v := queryStr(c, "status"); v != nil {
		s := db.TraceStatus(*v)
		filters.Status = &s
	}

	traces, err := h.repo.ListTraces(filters)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"traces": traces, "count": len(traces)})
}

func (h *Handler) GetTrace(c *gin.Context) {
	trace, err := h.repo.GetTrace(c.Param("trace_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	spans, err := h.repo.ListSpans(trace.TraceID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trace": trace, "spans": spans})
}

func (h *Handler) DeleteTrace(c *gin.Context) {
	if err := h.repo.DeleteTrace(c.Param("trace_id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

func (h *Handler) CreateSpan(c *gin.Context) {
	var req CreateSpanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	span := &db.Span{
		TraceID:       c.Param("trace_id"),
		SpanID:        req.SpanID,
		ParentSpanID:  req.ParentSpanID,
		ServiceID:     req.ServiceID,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		DurationMs:    durationMs(req.StartTime, req.EndTime),
		Name:          req.Name,
		StatusMessage: req.StatusMessage,
		Attributes:    req.Attributes,
		Events:        req.Events,
		Links:         req.Links,
	}
	if req.Kind != nil {
		k := db.SpanKind(*req.Kind)
		span.Kind = &k
	}
	if req.Status != nil {
		span.Status = db.TraceStatus(*req.Status)
	}

	if err := h.repo.CreateSpan(span); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, span)
}

func (h *Handler) ListSpans(c *gin.Context) {
	// Confirm the trace exists so an unknown trace_id is a 404, not an
	// empty list.
	if _, err := h.repo.GetTrace(c.Param("trace_id")); err != nil {
		h.respondError(c, err)
		return
	}

	spans, err := h.repo.ListSpans(c.Param("trace_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"spans": spans, "count": len(spans)})
}
