package handlers

import (
	"net/http"

	"github.com/followme-dot/INFRA-OBSERVATORY/internal/db"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CreateServiceRequest struct {
	PlatformID  string  `json:"platform_id" binding:"required"`
	Name        string  `json:"name" binding:"required,min=1,max=255"`
	Slug        string  `json:"slug" binding:"required,min=1,max=100"`
	Description *string `json:"description"`

	ServiceType *string `json:"service_type" binding:"omitempty,oneof=api worker database cache queue gateway"`
	Technology  *string `json:"technology"`

	Team       *string `json:"team"`
	OwnerEmail *string `json:"owner_email" binding:"omitempty,email"`

	HealthEndpoint *string `json:"health_endpoint"`
	MetricsPort    *int    `json:"metrics_port" binding:"omitempty,min=1,max=65535"`

	CPULimit    *string `json:"cpu_limit"`
	MemoryLimit *string `json:"memory_limit"`
	Replicas    *int    `json:"replicas" binding:"omitempty,min=0"`

	IsActive *bool    `json:"is_active"`
	Settings db.JSONB `json:"settings"`
	Labels   db.JSONB `json:"labels"`
}

type UpdateServiceRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`

	ServiceType *string `json:"service_type" binding:"omitempty,oneof=api worker database cache queue gateway"`
	Technology  *string `json:"technology"`

	Status      *string  `json:"status" binding:"omitempty,oneof=healthy degraded critical unknown maintenance"`
	HealthScore *float64 `json:"health_score" binding:"omitempty,min=0,max=100"`

	Team       *string `json:"team"`
	OwnerEmail *string `json:"owner_email" binding:"omitempty,email"`

	HealthEndpoint *string `json:"health_endpoint"`
	MetricsPort    *int    `json:"metrics_port" binding:"omitempty,min=1,max=65535"`

	CPULimit    *string `json:"cpu_limit"`
	MemoryLimit *string `json:"memory_limit"`
	Replicas    *int    `json:"replicas" binding:"omitempty,min=0"`

	IsActive *bool    `json:"is_active"`
	Settings db.JSONB `json:"settings"`
	Labels   db.JSONB `json:"labels"`
}

func (h *Handler) CreateService(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	svc := &db.Service{
		PlatformID:     req.PlatformID,
		Name:           req.Name,
		Slug:           req.Slug,
		Description:    req.Description,
		Technology:     req.Technology,
		Team:           req.Team,
		OwnerEmail:     req.OwnerEmail,
		HealthEndpoint: req.HealthEndpoint,
		CPULimit:       req.CPULimit,
		MemoryLimit:    req.MemoryLimit,
		Settings:       req.Settings,
		Labels:         req.Labels,
		IsActive:       req.IsActive,
	}
	if req.ServiceType != nil {
		st := db.ServiceType(*req.ServiceType)
		svc.ServiceType = &st
	}
	if req.MetricsPort != nil {
		svc.MetricsPort = *req.MetricsPort
	}
	if req.Replicas != nil {
		svc.Replicas = *req.Replicas
	}

	if err := h.repo.CreateService(svc); err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info("Service created",
		zap.String("service_id", svc.ID),
		zap.String("platform_id", svc.PlatformID),
		zap.String("slug", svc.Slug),
	)

	c.JSON(http.StatusCreated, svc)
}

func (h *Handler) ListServices(c *gin.Context) {
	limit, offset, ok := listWindow(c)
	if !ok {
		return
	}

	isActive, ok := queryBool(c, "is_active")
	if !ok {
		return
	}

	filters := db.ServiceFilters{
		PlatformID: queryStr(c, "platform_id"),
		IsActive:   isActive,
		Limit:      limit,
		Offset:     offset,
	}
	if v := queryStr(c, "service_type"); v != nil {
		st := db.ServiceType(*v)
		filters.ServiceType = &st
	}
	if v := queryStr(c, "status"); v != nil {
		s := db.PlatformStatus(*v)
		filters.Status = &s
	}

	services, err := h.repo.ListServices(filters)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"services": services, "count": len(services)})
}

func (h *Handler) GetService(c *gin.Context) {
	svc, err := h.repo.GetService(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, svc)
}

func (h *Handler) GetServiceHealth(c *gin.Context) {
	svc, err := h.repo.GetService(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"service_id":   svc.ID,
		"name":         svc.Name,
		"status":       svc.Status,
		"health_score": svc.HealthScore,
		"last_seen":    svc.LastSeen,
	})
}

func (h *Handler) UpdateService(c *gin.Context) {
	svc, err := h.repo.GetService(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = req.Description
	}
	if req.ServiceType != nil {
		st := db.ServiceType(*req.ServiceType)
		svc.ServiceType = &st
	}
	if req.Technology != nil {
		svc.Technology = req.Technology
	}
	if req.Status != nil {
		svc.Status = db.PlatformStatus(*req.Status)
	}
	if req.HealthScore != nil {
		svc.HealthScore = *req.HealthScore
	}
	if req.Team != nil {
		svc.Team = req.Team
	}
	if req.OwnerEmail != nil {
		svc.OwnerEmail = req.OwnerEmail
	}
	if req.HealthEndpoint != nil {
		svc.HealthEndpoint = req.HealthEndpoint
	}
	if req.MetricsPort != nil {
		svc.MetricsPort = *req.MetricsPort
	}
	if req.CPULimit != nil {
		svc.CPULimit = req.CPULimit
	}
	if req.MemoryLimit != nil {
		svc.MemoryLimit = req.MemoryLimit
	}
	if req.Replicas != nil {
		svc.Replicas = *req.Replicas
	}
	if req.IsActive != nil {
		svc.IsActive = req.IsActive
	}
	if req.Settings != nil {
		svc.Settings = req.Settings
	}
	if req.Labels != nil {
		svc.Labels = req.Labels
	}

	if err := h.repo.UpdateService(svc); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, svc)
}

func (h *Handler) DeleteService(c *gin.Context) {
	if _, err := h.repo.GetService(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.repo.DeleteService(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
