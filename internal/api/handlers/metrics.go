package handlers

import (
	"net/http"
	"time"

	"github.com/followme-dot/INFRA-OBSERVATORY/internal/db"
	"github.com/gin-gonic/gin"
)

type IngestMetricRequest struct {
	Timestamp *time.Time `json:"timestamp"`

	PlatformID *string `json:"platform_id"`
	ServiceID  *string `json:"service_id"`

	Name       string  `json:"name" binding:"required,min=1,max=255"`
	MetricType string  `json:"metric_type" binding:"required,oneof=counter gauge histogram summary"`
	Value      float64 `json:"value" binding:"required"`

	Labels      db.JSONB `json:"labels"`
	Aggregation *string  `json:"aggregation" binding:"omitempty,oneof=sum avg min max p50 p95 p99"`
	Unit        *string  `json:"unit"`
	Description *string  `json:"description"`
}

func (h *Handler) IngestMetric(c *gin.Context) {
	var req IngestMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	metric := &db.Metric{
		PlatformID:  req.PlatformID,
		ServiceID:   req.ServiceID,
		Name:        req.Name,
		MetricType:  db.MetricType(req.MetricType),
		Value:       req.Value,
		Labels:      req.Labels,
		Aggregation: req.Aggregation,
		Unit:        req.Unit,
		Description: req.Description,
	}
	if req.Timestamp != nil {
		metric.Timestamp = *req.Timestamp
	}

	if err := h.repo.CreateMetric(metric); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, metric)
}

func (h *Handler) ListMetrics(c *gin.Context) {
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

	filters := db.MetricFilters{
		PlatformID: queryStr(c, "platform_id"),
		ServiceID:  queryStr(c, "service_id"),
		Name:       queryStr(c, "name"),
		Since:      since,
		Until:      until,
		Limit:      limit,
		Offset:     offset,
	}
	if v := queryStr(c, "metric_type"); v != nil {
		mt := db.MetricType(*v)
		filters.MetricType = &mt
	}

	metrics, err := h.repo.ListMetrics(filters)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"metrics": metrics, "count": len(metrics)})
}

func (h *Handler) GetMetricRecord(c *gin.Context) {
	metric, err := h.repo.GetMetric(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, metric)
}
