package handlers

import (
	"net/http"
	"time"

	"github.com/followme-dot/INFRA-OBSERVATORY/internal/db"
	"github.com/gin-gonic/gin"
)

type CreateAlertRequest struct {
	RuleID *string `json:"rule_id"`

	PlatformID *string `json:"platform_id"`
	ServiceID  *string `json:"service_id"`

	Name        string  `json:"name" binding:"required,min=1,max=255"`
	Description *string `json:"description"`
	Severity    *string `json:"severity" binding:"omitempty,oneof=info low medium high critical"`

	CurrentValue *float64 `json:"current_value"`
	Threshold    *float64 `json:"threshold"`

	FiredAt *time.Time `json:"fired_at"`

	Labels      db.JSONB `json:"labels"`
	Annotations db.JSONB `json:"annotations"`
}

func (h *Handler) CreateAlert(c *gin.Context) {
	var req CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	alert := &db.Alert{
		RuleID:       req.RuleID,
		PlatformID:   req.PlatformID,
		ServiceID:    req.ServiceID,
		Name:         req.Name,
		Description:  req.Description,
		CurrentValue: req.CurrentValue,
		Threshold:    req.Threshold,
		Labels:       req.Labels,
		Annotations:  req.Annotations,
	}
	if req.Severity != nil {
		alert.Severity = db.Severity(*req.Severity)
	}
	if req.FiredAt != nil {
		alert.FiredAt = *req.FiredAt
	}

	if err := h.repo.CreateAlert(alert); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, alert)
}

func (h *Handler) ListAlerts(c *gin.Context) {
	limit, offset, ok := listWindow(c)
	if !ok {
		return
	}

	filters := db.AlertFilters{
		PlatformID: queryStr(c, "platform_id"),
		ServiceID:  queryStr(c, "service_id"),
		IncidentID: queryStr(c, "incident_id"),
		Limit:      limit,
		Offset:     offset,
	}
	if v := queryStr(c, "status"); v != nil {
		s := db.AlertStatus(*v)
		filters.Status = &s
	}
	if v := queryStr(c, "severity"); v != nil {
		sev := db.Severity(*v)
		filters.Severity = &sev
	}

	alerts, err := h.repo.ListAlerts(filters)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "count": len(alerts)})
}

func (h *Handler) GetAlert(c *gin.Context) {
	alert, err := h.repo.GetAlert(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, alert)
}

func (h *Handler) DeleteAlert(c *gin.Context) {
	if _, err := h.repo.GetAlert(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.repo.DeleteAlert(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

type UpdateAlertRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Severity    *string `json:"severity" binding:"omitempty,oneof=info low medium high critical"`
	Status      *string `json:"status" binding:"omitempty,oneof=firing acknowledged resolved"`

	CurrentValue *float64 `json:"current_value"`

	Labels      db.JSONB `json:"labels"`
	Annotations db.JSONB `json:"annotations"`
}

func (h *Handler) UpdateAlert(c *gin.Context) {
	alert, err := h.repo.GetAlert(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req UpdateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.Name != nil {
		alert.Name = *req.Name
	}
	if req.Description != nil {
		alert.Description = req.Description
	}
	if req.Severity != nil {
		alert.Severity = db.Severity(*req.Severity)
	}
	if req.CurrentValue != nil {
		alert.CurrentValue = req.CurrentValue
	}
	if req.Labels != nil {
		alert.Labels = req.Labels
	}
	if req.Annotations != nil {
		alert.Annotations = req.Annotations
	}

	if req.Status != nil {
		next := db.AlertStatus(*req.Status)
		if alert.Status == db.AlertStatusResolved && next != db.AlertStatusResolved {
			c.JSON(http.StatusConflict, gin.H{"error": "Alert is already resolved", "code": "conflict"})
			return
		}
		if next != alert.Status {
			now := time.Now().UTC()
			switch next {
			case db.AlertStatusAcknowledged:
				alert.AcknowledgedAt = &now
				if by := c.GetString("user_id"); by != "" {
					alert.AcknowledgedBy = &by
				}
			case db.AlertStatusResolved:
				alert.ResolvedAt = &now
			}
			alert.Status = next
		}
	}

	if err := h.repo.UpdateAlert(alert); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, alert)
}

// AcknowledgeAlert is idempotent for already-acknowledged alerts but
// refuses to reopen a resolved one.
func (h *Handler) AcknowledgeAlert(c *gin.Context) {
	alert, err := h.repo.GetAlert(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	if alert.Status == db.AlertStatusResolved {
		c.JSON(http.StatusConflict, gin.H{"error": "Alert is already resolved", "code": "conflict"})
		return
	}

	if alert.Status != db.AlertStatusAcknowledged {
		now := time.Now().UTC()
		// The column is a UUID, so this takes the token subject, not the email.
		ackBy := c.GetString("user_id")

		alert.Status = db.AlertStatusAcknowledged
		alert.AcknowledgedAt = &now
		if ackBy != "" {
			alert.AcknowledgedBy = &ackBy
		}

		if err := h.repo.UpdateAlert(alert); err != nil {
			h.respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, alert)
}

func (h *Handler) ResolveAlert(c *gin.Context) {
	alert, err := h.repo.GetAlert(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	if alert.Status != db.AlertStatusResolved {
		now := time.Now().UTC()
		alert.Status = db.AlertStatusResolved
		alert.ResolvedAt = &now

		if err := h.repo.UpdateAlert(alert); err != nil {
			h.respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, alert)
}
