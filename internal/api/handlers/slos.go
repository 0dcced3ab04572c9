package handlers

import (
	"net/http"

	"github.com/followme-dot/INFRA-OBSERVATORY/internal/db"
	"github.com/gin-gonic/gin"
)

type CreateSLORequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=255"`
	Description *string `json:"description"`

	PlatformID *string `json:"platform_id"`
	ServiceID  *string `json:"service_id"`

	SLIType  string `json:"sli_type" binding:"required,oneof=availability latency error_rate throughput"`
	SLIQuery string `json:"sli_query" binding:"required"`

	Target float64 `json:"target" binding:"required,gt=0,lte=1"`

	WindowType *string `json:"window_type" binding:"omitempty,oneof=rolling calendar"`
	WindowDays *int    `json:"window_days" binding:"omitempty,min=1,max=365"`

	BurnRateThreshold       *float64 `json:"burn_rate_threshold" binding:"omitempty,gt=0"`
	AlertOnBudgetExhaustion *bool    `json:"alert_on_budget_exhaustion"`

	IsActive *bool `json:"is_active"`
}

type UpdateSLORequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`

	SLIType  *string `json:"sli_type" binding:"omitempty,oneof=availability latency error_rate throughput"`
	SLIQuery *string `json:"sli_query"`

	Target *float64 `json:"target" binding:"omitempty,gt=0,lte=1"`

	WindowType *string `json:"window_type" binding:"omitempty,oneof=rolling calendar"`
	WindowDays *int    `json:"window_days" binding:"omitempty,min=1,max=365"`

	CurrentValue         *float64 `json:"current_value"`
	ErrorBudgetRemaining *float64 `json:"error_budget_remaining"`

	BurnRateThreshold       *float64 `json:"burn_rate_threshold" binding:"omitempty,gt=0"`
	AlertOnBudgetExhaustion *bool    `json:"alert_on_budget_exhaustion"`

	IsActive *bool `json:"is_active"`
}

func (h *Handler) CreateSLO(c *gin.Context) {
	var req CreateSLORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	slo := &db.SLO{
		Name:        req.Name,
		Description: req.Description,
		PlatformID:  req.PlatformID,
		ServiceID:   req.ServiceID,
		SLIType:     db.SLIType(req.SLIType),
		SLIQuery:    req.SLIQuery,
		Target:      req.Target,

		AlertOnBudgetExhaustion: req.AlertOnBudgetExhaustion,
		IsActive:                req.IsActive,
	}
	if req.WindowType != nil {
		slo.WindowType = db.WindowType(*req.WindowType)
	}
	if req.WindowDays != nil {
		slo.WindowDays = *req.WindowDays
	}
	if req.BurnRateThreshold != nil {
		slo.BurnRateThreshold = *req.BurnRateThreshold
	}

	if err := h.repo.CreateSLO(slo); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, slo)
}

func (h *Handler) ListSLOs(c *gin.Context) {
	limit, offset, ok := listWindow(c)
	if !ok {
		return
	}

	isActive, ok := queryBool(c, "is_active")
	if !ok {
		return
	}

	filters := db.SLOFilters{
		PlatformID: queryStr(c, "platform_id"),
		ServiceID:  queryStr(c, "service_id"),
		IsActive:   isActive,
		Limit:      limit,
		Offset:     offset,
	}

	slos, err := h.repo.ListSLOs(filters)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slos": slos, "count": len(slos)})
}

func (h *Handler) GetSLO(c *gin.Context) {
	slo, err := h.repo.GetSLO(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, slo)
}

func (h *Handler) UpdateSLO(c *gin.Context) {
	slo, err := h.repo.GetSLO(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req UpdateSLORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.Name != nil {
		slo.Name = *req.Name
	}
	if req.Description != nil {
		slo.Description = req.Description
	}
	if req.SLIType != nil {
		slo.SLIType = db.SLIType(*req.SLIType)
	}
	if req.SLIQuery != nil {
		slo.SLIQuery = *req.SLIQuery
	}
	if req.Target != nil {
		slo.Target = *req.Target
	}
	if req.WindowType != nil {
		slo.WindowType = db.WindowType(*req.WindowType)
	}
	if req.WindowDays != nil {
		slo.WindowDays = *req.WindowDays
	}
	if req.CurrentValue != nil {
		slo.CurrentValue = req.CurrentValue
	}
	if req.ErrorBudgetRemaining != nil {
		slo.ErrorBudgetRemaining = req.ErrorBudgetRemaining
	}
	if req.BurnRateThreshold != nil {
		slo.BurnRateThreshold = *req.BurnRateThreshold
	}
	if req.AlertOnBudgetExhaustion != nil {
		slo.AlertOnBudgetExhaustion = req.AlertOnBudgetExhaustion
	}
	if req.IsActive != nil {
		slo.IsActive = req.IsActive
	}

	if err := h.repo.UpdateSLO(slo); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, slo)
}

func (h *Handler) DeleteSLO(c *gin.Context) {
	if _, err := h.repo.GetSLO(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.repo.DeleteSLO(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
