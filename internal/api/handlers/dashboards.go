package handlers

import (
	"errors"
	"net/http"

	"github.com/followme-dot/INFRA-OBSERVATORY/internal/db"
	"github.com/gin-gonic/gin"
)

type CreateDashboardRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=255"`
	Slug        string  `json:"slug" binding:"required,min=1,max=100"`
	Description *string `json:"description"`

	IsPublic *bool `json:"is_public"`

	Layout db.JSONList `json:"layout"`

	TimeRange       *string `json:"time_range"`
	RefreshInterval *int    `json:"refresh_interval" binding:"omitempty,min=5"`

	Variables db.JSONList    `json:"variables"`
	Tags      db.StringSlice `json:"tags"`
}

type UpdateDashboardRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`

	IsPublic *bool `json:"is_public"`

	Layout db.JSONList `json:"layout"`

	TimeRange       *string `json:"time_range"`
	RefreshInterval *int    `json:"refresh_interval" binding:"omitempty,min=5"`

	Variables db.JSONList    `json:"variables"`
	Tags      db.StringSlice `json:"tags"`
	IsStarred *bool          `json:"is_starred"`
}

type CreateWidgetRequest struct {
	X *int `json:"x" binding:"omitempty,min=0"`
	Y *int `json:"y" binding:"omitempty,min=0"`
	W *int `json:"w" binding:"omitempty,min=1"`
	H *int `json:"h" binding:"omitempty,min=1"`

	WidgetType  string  `json:"widget_type" binding:"required,min=1,max=50"`
	Title       *string `json:"title"`
	Description *string `json:"description"`

	Config  db.JSONB    `json:"config"`
	Queries db.JSONList `json:"queries"`
}

type UpdateWidgetRequest struct {
	X *int `json:"x" binding:"omitempty,min=0"`
	Y *int `json:"y" binding:"omitempty,min=0"`
	W *int `json:"w" binding:"omitempty,min=1"`
	H *int `json:"h" binding:"omitempty,min=1"`

	WidgetType  *string `json:"widget_type" binding:"omitempty,min=1,max=50"`
	Title       *string `json:"title"`
	Description *string `json:"description"`

	Config  db.JSONB    `json:"config"`
	Queries db.JSONList `json:"queries"`
}

func (h *Handler) CreateDashboard(c *gin.Context) {
	var req CreateDashboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ownerID := c.GetString("user_id")

	dash := &db.Dashboard{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Layout:      req.Layout,
		Variables:   req.Variables,
		Tags:        req.Tags,
	}
	if ownerID != "" {
		dash.OwnerID = &ownerID
	}
	if req.IsPublic != nil {
		dash.IsPublic = *req.IsPublic
	}
	if req.TimeRange != nil {
		dash.TimeRange = *req.TimeRange
	}
	if req.RefreshInterval != nil {
		dash.RefreshInterval = *req.RefreshInterval
	}

	if err := h.repo.CreateDashboard(dash); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dash)
}

func (h *Handler) ListDashboards(c *gin.Context) {
	limit, offset, ok := listWindow(c)
	if !ok {
		return
	}

	isPublic, ok := queryBool(c, "is_public")
	if !ok {
		return
	}
	isStarred, ok := queryBool(c, "is_starred")
	if !ok {
		return
	}

	filters := db.DashboardFilters{
		IsPublic:  isPublic,
		IsStarred: isStarred,
		Limit:     limit,
		Offset:    offset,
	}

	dashboards, err := h.repo.ListDashboards(filters)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dashboards": dashboards, "count": len(dashboards)})
}

// findDashboard resolves the path parameter as an id first, then a slug.
func (h *Handler) findDashboard(c *gin.Context) (*db.Dashboard, error) {
	dash, err := h.repo.GetDashboard(c.Param("id"))
	if errors.Is(err, db.ErrNotFound) {
		return h.repo.GetDashboardBySlug(c.Param("id"))
	}
	return dash, err
}

func (h *Handler) GetDashboard(c *gin.Context) {
	dash, err := h.findDashboard(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	widgets, err := h.repo.ListWidgets(dash.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dashboard": dash, "widgets": widgets})
}

func (h *Handler) UpdateDashboard(c *gin.Context) {
	dash, err := h.findDashboard(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req UpdateDashboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.Name != nil {
		dash.Name = *req.Name
	}
	if req.Description != nil {
		dash.Description = req.Description
	}
	if req.IsPublic != nil {
		dash.IsPublic = *req.IsPublic
	}
	if req.Layout != nil {
		dash.Layout = req.Layout
	}
	if req.TimeRange != nil {
		dash.TimeRange = *req.TimeRange
	}
	if req.RefreshInterval != nil {
		dash.RefreshInterval = *req.RefreshInterval
	}
	if req.Variables != nil {
		dash.Variables = req.Variables
	}
	if req.Tags != nil {
		dash.Tags = req.Tags
	}
	if req.IsStarred != nil {
		dash.IsStarred = *req.IsStarred
	}

	if err := h.repo.UpdateDashboard(dash); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dash)
}

func (h *Handler) DeleteDashboard(c *gin.Context) {
	dash, err := h.findDashboard(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// Widgets go with the dashboard via the cascade.
	if err := h.repo.DeleteDashboard(dash.ID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

func (h *Handler) CreateWidget(c *gin.Context) {
	dash, err := h.findDashboard(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req CreateWidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	widget := &db.DashboardWidget{
		DashboardID: dash.ID,
		WidgetType:  req.WidgetType,
		Title:       req.Title,
		Description: req.Description,
		Config:      req.Config,
		Queries:     req.Queries,
	}
	if req.X != nil {
		widget.X = *req.X
	}
	if req.Y != nil {
		widget.Y = *req.Y
	}
	if req.W != nil {
		widget.W = *req.W
	}
	if req.H != nil {
		widget.H = *req.H
	}

	if err := h.repo.CreateWidget(widget); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, widget)
}

func (h *Handler) ListDashboardWidgets(c *gin.Context) {
	dash, err := h.findDashboard(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	widgets, err := h.repo.ListWidgets(dash.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"widgets": widgets, "count": len(widgets)})
}

func (h *Handler) UpdateWidget(c *gin.Context) {
	dash, err := h.findDashboard(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	widget, err := h.repo.GetWidget(c.Param("widget_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	if widget.DashboardID != dash.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "widget not found on this dashboard", "code": "not_found"})
		return
	}

	var req UpdateWidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.X != nil {
		widget.X = *req.X
	}
	if req.Y != nil {
		widget.Y = *req.Y
	}
	if req.W != nil {
		widget.W = *req.W
	}
	if req.H != nil {
		widget.H = *req.H
	}
	if req.WidgetType != nil {
		widget.WidgetType = *req.WidgetType
	}
	if req.Title != nil {
		widget.Title = req.Title
	}
	if req.Description != nil {
		widget.Description = req.Description
	}
	if req.Config != nil {
		widget.Config = req.Config
	}
	if req.Queries != nil {
		widget.Queries = req.Queries
	}

	if err := h.repo.UpdateWidget(widget); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, widget)
}

func (h *Handler) DeleteWidget(c *gin.Context) {
	dash, err := h.findDashboard(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	widget, err := h.repo.GetWidget(c.Param("widget_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	if widget.DashboardID != dash.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "widget not found on this dashboard", "code": "not_found"})
		return
	}

	if err := h.repo.DeleteWidget(widget.ID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
