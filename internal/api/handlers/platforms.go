package handlers

import (
	"net/http"

	"github.com/followme-dot/INFRA-OBSERVATORY/internal/db"
	"github.com/followme-dot/INFRA-OBSERVATORY/internal/overview"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CreatePlatformRequest struct {
	Code        string  `json:"code" binding:"required,min=1,max=50"`
	Name        string  `json:"name" binding:"required,min=1,max=255"`
	Description *string `json:"description"`
	Color       *string `json:"color" binding:"omitempty,hexcolor"`
	Icon        *string `json:"icon"`

	BaseURL         *string `json:"base_url" binding:"omitempty,url"`
	MetricsEndpoint *string `json:"metrics_endpoint"`
	LogsEndpoint    *string `json:"logs_endpoint"`
	TracesEndpoint  *string `json:"traces_endpoint"`

	Criticality *string  `json:"criticality" binding:"omitempty,oneof=critical high medium low"`
	IsActive    *bool    `json:"is_active"`
	Settings    db.JSONB `json:"settings"`

	DefaultAvailabilityTarget *float64 `json:"default_availability_target" binding:"omitempty,gt=0,lte=1"`
	DefaultLatencyTargetMs    *int     `json:"default_latency_target_ms" binding:"omitempty,min=1"`
}

type UpdatePlatformRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Color       *string `json:"color" binding:"omitempty,hexcolor"`
	Icon        *string `json:"icon"`

	BaseURL         *string `json:"base_url" binding:"omitempty,url"`
	MetricsEndpoint *string `json:"metrics_endpoint"`
	LogsEndpoint    *string `json:"logs_endpoint"`
	TracesEndpoint  *string `json:"traces_endpoint"`

	Status      *string  `json:"status" binding:"omitempty,oneof=healthy degraded critical unknown maintenance"`
	HealthScore *float64 `json:"health_score" binding:"omitempty,min=0,max=100"`

	Criticality *string  `json:"criticality" binding:"omitempty,oneof=critical high medium low"`
	IsActive    *bool    `json:"is_active"`
	Settings    db.JSONB `json:"settings"`

	DefaultAvailabilityTarget *float64 `json:"default_availability_target" binding:"omitempty,gt=0,lte=1"`
	DefaultLatencyTargetMs    *int     `json:"default_latency_target_ms" binding:"omitempty,min=1"`
}

func (h *Handler) CreatePlatform(c *gin.Context) {
	var req CreatePlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	platform := &db.Platform{
		Code:            req.Code,
		Name:            req.Name,
		Description:     req.Description,
		Icon:            req.Icon,
		BaseURL:         req.BaseURL,
		MetricsEndpoint: req.MetricsEndpoint,
		LogsEndpoint:    req.LogsEndpoint,
		TracesEndpoint:  req.TracesEndpoint,
		Settings:        req.Settings,
		IsActive:        req.IsActive,
	}
	if req.Color != nil {
		platform.Color = *req.Color
	}
	if req.Criticality != nil {
		platform.Criticality = db.Criticality(*req.Criticality)
	}
	if req.DefaultAvailabilityTarget != nil {
		platform.DefaultAvailabilityTarget = *req.DefaultAvailabilityTarget
	}
	if req.DefaultLatencyTargetMs != nil {
		platform.DefaultLatencyTargetMs = *req.DefaultLatencyTargetMs
	}

	if err := h.repo.CreatePlatform(platform); err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info("Platform created",
		zap.String("platform_id", platform.ID),
		zap.String("code", platform.Code),
	)

	c.JSON(http.StatusCreated, platform)
}

func (h *Handler) ListPlatforms(c *gin.Context) {
	isActive, ok := queryBool(c, "is_active")
	if !ok {
		return
	}

	filters := db.PlatformFilters{
		IsActive: isActive,
	}
	if v := queryStr(c, "criticality"); v != nil {
		crit := db.Criticality(*v)
		filters.Criticality = &crit
	}

	platforms, err := h.repo.ListPlatforms(filters)
	if err != nil {
		h.respondError(c, err)
		return
	}

	overviews := make([]*overview.PlatformOverview, 0, len(platforms))
	for _, p := range platforms {
		ov, err := h.overview.Platform(p)
		if err != nil {
			h.respondError(c, err)
			return
		}
		overviews = append(overviews, ov)
	}

	c.JSON(http.StatusOK, gin.H{"platforms": overviews, "total": len(overviews)})
}

func (h *Handler) GetPlatform(c *gin.Context) {
	platform, err := h.repo.GetPlatformByCode(c.Param("code"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	ov, err := h.overview.Platform(platform)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ov)
}

func (h *Handler) UpdatePlatform(c *gin.Context) {
	platform, err := h.repo.GetPlatformByCode(c.Param("code"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req UpdatePlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.Name != nil {
		platform.Name = *req.Name
	}
	if req.Description != nil {
		platform.Description = req.Description
	}
	if req.Color != nil {
		platform.Color = *req.Color
	}
	if req.Icon != nil {
		platform.Icon = req.Icon
	}
	if req.BaseURL != nil {
		platform.BaseURL = req.BaseURL
	}
	if req.MetricsEndpoint != nil {
		platform.MetricsEndpoint = req.MetricsEndpoint
	}
	if req.LogsEndpoint != nil {
		platform.LogsEndpoint = req.LogsEndpoint
	}
	if req.TracesEndpoint != nil {
		platform.TracesEndpoint = req.TracesEndpoint
	}
	if req.Status != nil {
		platform.Status = db.PlatformStatus(*req.Status)
	}
	if req.HealthScore != nil {
		platform.HealthScore = *req.HealthScore
	}
	if req.Criticality != nil {
		platform.Criticality = db.Criticality(*req.Criticality)
	}
	if req.IsActive != nil {
		platform.IsActive = req.IsActive
	}
	if req.Settings != nil {
		platform.Settings = req.Settings
	}
	if req.DefaultAvailabilityTarget != nil {
		platform.DefaultAvailabilityTarget = *req.DefaultAvailabilityTarget
	}
	if req.DefaultLatencyTargetMs != nil {
		platform.DefaultLatencyTargetMs = *req.DefaultLatencyTargetMs
	}

	if err := h.repo.UpdatePlatform(platform); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, platform)
}

func (h *Handler) DeletePlatform(c *gin.Context) {
	platform, err := h.repo.GetPlatformByCode(c.Param("code"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	// Services under the platform go with it via the cascade.
	if err := h.repo.DeletePlatform(platform.ID); err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info("Platform deleted",
		zap.String("platform_id", platform.ID),
		zap.String("code", platform.Code),
	)

	c.JSON(http.StatusNoContent, nil)
}

func (h *Handler) GetPlatformHealth(c *gin.Context) {
	platform, err := h.repo.GetPlatformByCode(c.Param("code"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	counts, err := h.repo.PlatformCounts(platform.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"platform_id":      platform.ID,
		"code":             platform.Code,
		"status":           platform.Status,
		"health_score":     overview.HealthScore(counts.HealthyServiceCount, counts.ServiceCount),
		"service_count":    counts.ServiceCount,
		"healthy_services": counts.HealthyServiceCount,
		"firing_alerts":    counts.FiringAlertCount,
	})
}

func (h *Handler) ListPlatformServices(c *gin.Context) {
	platform, err := h.repo.GetPlatformByCode(c.Param("code"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	services, err := h.repo.ListServicesForPlatform(platform.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"services": services, "total": len(services)})
}
