package handlers

import (
	"net/http"
	"time"

	"github.com/followme-dot/INFRA-OBSERVATORY/internal/db"
	"github.com/gin-gonic/gin"
)

type IngestLogRequest struct {
	Timestamp *time.Time `json:"timestamp"`

	PlatformID *string `json:"platform_id"`
	ServiceID  *string `json:"service_id"`

	Level   string `json:"level" binding:"required,oneof=debug info warn error fatal"`
	Message string `json:"message" binding:"required"`

	TraceID   *string `json:"trace_id"`
	SpanID    *string `json:"span_id"`
	RequestID *string `json:"request_id"`
	UserID    *string `json:"user_id"`

	Source      *string `json:"source"`
	Environment *string `json:"environment"`
	Host        *string `json:"host"`
	ContainerID *string `json:"container_id"`
	PodName     *string `json:"pod_name"`

	Attributes db.JSONB `json:"attributes"`
}

func (h *Handler) IngestLog(c *gin.Context) {
	var req IngestLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	entry := &db.LogEntry{
		PlatformID:  req.PlatformID,
		ServiceID:   req.ServiceID,
		Level:       db.LogLevel(req.Level),
		Message:     req.Message,
		TraceID:     req.TraceID,
		SpanID:      req.SpanID,
		RequestID:   req.RequestID,
		UserID:      req.UserID,
		Source:      req.Source,
		Environment: req.Environment,
		Host:        req.Host,
		ContainerID: req.ContainerID,
		PodName:     req.PodName,
		Attributes:  req.Attributes,
	}
	if req.Timestamp != nil {
		entry.Timestamp = *req.Timestamp
	}

	if err := h.repo.CreateLogEntry(entry); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) ListLogs(c *gin.Context) {
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

	filters := db.LogFilters{
		PlatformID: queryStr(c, "platform_id"),
		ServiceID:  queryStr(c, "service_id"),
		TraceID:    queryStr(c, "trace_id"),
		Since:      since,
		Until:      until,
		Limit:      limit,
		Offset:     offset,
	}
	if v := queryStr(c, "level"); v != nil {
		lvl := db.LogLevel(*v)
		filters.Level = &lvl
	}

	logs, err := h.repo.ListLogs(filters)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs, "count": len(logs)})
}

func (h *Handler) GetLog(c *gin.Context) {
	entry, err := h.repo.GetLogEntry(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}
