package handlers

import (
	"net/http"
	"time"

	"github.com/followme-dot/INFRA-OBSERVATORY/internal/db"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CreateAlertRuleRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=255"`
	Description *string `json:"description"`

	PlatformID *string `json:"platform_id"`
	ServiceID  *string `json:"service_id"`

	MetricName        *string `json:"metric_name"`
	ConditionOperator string  `json:"condition_operator" binding:"required,oneof=gt lt gte lte eq neq"`
	Threshold         float64 `json:"threshold" binding:"required"`
	DurationSeconds   *int    `json:"duration_seconds" binding:"omitempty,min=0"`
	CustomQuery       *string `json:"custom_query"`

	Severity             *string        `json:"severity" binding:"omitempty,oneof=info low medium high critical"`
	NotificationChannels db.StringSlice `json:"notification_channels"`

	IsActive *bool `json:"is_active"`

	Labels      db.JSONB `json:"labels"`
	Annotations db.JSONB `json:"annotations"`
}

type UpdateAlertRuleRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`

	MetricName        *string  `json:"metric_name"`
	ConditionOperator *string  `json:"condition_operator" binding:"omitempty,oneof=gt lt gte lte eq neq"`
	Threshold         *float64 `json:"threshold"`
	DurationSeconds   *int     `json:"duration_seconds" binding:"omitempty,min=0"`
	CustomQuery       *string  `json:"custom_query"`

	Severity             *string        `json:"severity" binding:"omitempty,oneof=info low medium high critical"`
	NotificationChannels db.StringSlice `json:"notification_channels"`

	IsActive *bool `json:"is_active"`

	Labels      db.JSONB `json:"labels"`
	Annotations db.JSONB `json:"annotations"`
}

type MuteAlertRuleRequest struct {
	Until  *time.Time `json:"until"`
	Reason *string    `json:"reason"`
}

func (h *Handler) CreateAlertRule(c *gin.Context) {
	var req CreateAlertRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	// created_by is a UUID column; store the token subject.
	createdBy := c.GetString("user_id")

	rule := &db.AlertRule{
		Name:                 req.Name,
		Description:          req.Description,
		PlatformID:           req.PlatformID,
		ServiceID:            req.ServiceID,
		MetricName:           req.MetricName,
		ConditionOperator:    db.ConditionOperator(req.ConditionOperator),
		Threshold:            req.Threshold,
		CustomQuery:          req.CustomQuery,
		NotificationChannels: req.NotificationChannels,
		Labels:               req.Labels,
		Annotations:          req.Annotations,
		IsActive:             true,
	}
	if createdBy != "" {
		rule.CreatedBy = &createdBy
	}
	if req.DurationSeconds != nil {
		rule.DurationSeconds = *req.DurationSeconds
	}
	if req.Severity != nil {
		rule.Severity = db.Severity(*req.Severity)
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if err := h.repo.CreateAlertRule(rule); err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info("Alert rule created",
		zap.String("rule_id", rule.ID),
		zap.String("name", rule.Name),
	)

	c.JSON(http.StatusCreated, rule)
}

func (h *Handler) ListAlertRules(c *gin.Context) {
	limit, offset, ok := listWindow(c)
	if !ok {
		return
	}

	isActive, ok := queryBool(c, "is_active")
	if !ok {
		return
	}

	filters := db.AlertRuleFilters{
		PlatformID: queryStr(c, "platform_id"),
		ServiceID:  queryStr(c, "service_id"),
		IsActive:   isActive,
		Limit:      limit,
		Offset:     offset,
	}
	if v := queryStr(c, "severity"); v != nil {
		sev := db.Severity(*v)
		filters.Severity = &sev
	}

	rules, err := h.repo.ListAlertRules(filters)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rules": rules, "count": len(rules)})
}

func (h *Handler) GetAlertRule(c *gin.Context) {
	rule, err := h.repo.GetAlertRule(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rule)
}

func (h *Handler) UpdateAlertRule(c *gin.Context) {
	rule, err := h.repo.GetAlertRule(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req UpdateAlertRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.Description != nil {
		rule.Description = req.Description
	}
	if req.MetricName != nil {
		rule.MetricName = req.MetricName
	}
	if req.ConditionOperator != nil {
		rule.ConditionOperator = db.ConditionOperator(*req.ConditionOperator)
	}
	if req.Threshold != nil {
		rule.Threshold = *req.Threshold
	}
	if req.DurationSeconds != nil {
		rule.DurationSeconds = *req.DurationSeconds
	}
	if req.CustomQuery != nil {
		rule.CustomQuery = req.CustomQuery
	}
	if req.Severity != nil {
		rule.Severity = db.Severity(*req.Severity)
	}
	if req.NotificationChannels != nil {
		rule.NotificationChannels = req.NotificationChannels
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	if req.Labels != nil {
		rule.Labels = req.Labels
	}
	if req.Annotations != nil {
		rule.Annotations = req.Annotations
	}

	if err := h.repo.UpdateAlertRule(rule); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rule)
}

func (h *Handler) DeleteAlertRule(c *gin.Context) {
	if _, err := h.repo.GetAlertRule(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.repo.DeleteAlertRule(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

func (h *Handler) MuteAlertRule(c *gin.Context) {
	rule, err := h.repo.GetAlertRule(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req MuteAlertRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	rule.IsMuted = true
	rule.MutedUntil = req.Until
	rule.MutedReason = req.Reason

	if err := h.repo.UpdateAlertRule(rule); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rule)
}

func (h *Handler) UnmuteAlertRule(c *gin.Context) {
	rule, err := h.repo.GetAlertRule(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	rule.IsMuted = false
	rule.MutedUntil = nil
	rule.MutedReason = nil

	if err := h.repo.UpdateAlertRule(rule); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rule)
}
