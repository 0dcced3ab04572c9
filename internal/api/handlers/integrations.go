package handlers

import (
	"net/http"

	"github.com/followme-dot/INFRA-OBSERVATORY/internal/db"
	"github.com/gin-gonic/gin"
)

type CreateIntegrationRequest struct {
	Name   string   `json:"name" binding:"required,min=1,max=255"`
	Type   string   `json:"type" binding:"required,oneof=slack pagerduty opsgenie email webhook teams"`
	Config db.JSONB `json:"config" binding:"required"`

	IsActive *bool `json:"is_active"`
}

type UpdateIntegrationRequest struct {
	Name   *string  `json:"name" binding:"omitempty,min=1,max=255"`
	Config db.JSONB `json:"config"`

	IsActive *bool `json:"is_active"`
}

func (h *Handler) CreateIntegration(c *gin.Context) {
	var req CreateIntegrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	integration := &db.Integration{
		Name:     req.Name,
		Type:     db.IntegrationType(req.Type),
		Config:   req.Config,
		IsActive: true,
	}
	if req.IsActive != nil {
		integration.IsActive = *req.IsActive
	}

	if err := h.repo.CreateIntegration(integration); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, integration)
}

func (h *Handler) ListIntegrations(c *gin.Context) {
	limit, offset, ok := listWindow(c)
	if !ok {
		return
	}

	isActive, ok := queryBool(c, "is_active")
	if !ok {
		return
	}

	filters := db.IntegrationFilters{
		IsActive: isActive,
		Limit:    limit,
		Offset:   offset,
	}
	if v := queryStr(c, "type"); v != nil {
		t := db.IntegrationType(*v)
		filters.Type = &t
	}

	integrations, err := h.repo.ListIntegrations(filters)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"integrations": integrations, "count": len(integrations)})
}

func (h *Handler) GetIntegration(c *gin.Context) {
	integration, err := h.repo.GetIntegration(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, integration)
}

func (h *Handler) UpdateIntegration(c *gin.Context) {
	integration, err := h.repo.GetIntegration(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req UpdateIntegrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.Name != nil {
		integration.Name = *req.Name
	}
	if req.Config != nil {
		integration.Config = req.Config
	}
	if req.IsActive != nil {
		integration.IsActive = *req.IsActive
	}

	if err := h.repo.UpdateIntegration(integration); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, integration)
}

func (h *Handler) DeleteIntegration(c *gin.Context) {
	if _, err := h.repo.GetIntegration(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.repo.DeleteIntegration(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
