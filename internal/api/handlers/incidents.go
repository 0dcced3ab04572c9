package handlers

import (
	"net/http"
	"time"

	"github.com/followme-dot/INFRA-OBSERVATORY/internal/db"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CreateIncidentRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=255"`
	Description *string `json:"description"`

	Severity *string    `json:"severity" binding:"omitempty,oneof=info low medium high critical"`
	StartedAt *time.Time `json:"started_at"`
	DetectedAt *time.Time `json:"detected_at"`

	AffectedPlatforms db.StringSlice `json:"affected_platforms"`
	AffectedServices  db.StringSlice `json:"affected_services"`
	CustomerImpact    *string        `json:"customer_impact"`

	CommanderID *string        `json:"commander_id"`
	AssignedTo  db.StringSlice `json:"assigned_to"`
}

type UpdateIncidentRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`

	Severity *string `json:"severity" binding:"omitempty,oneof=info low medium high critical"`
	Status   *string `json:"status" binding:"omitempty,oneof=open acknowledged investigating resolved closed"`

	AffectedPlatforms db.StringSlice `json:"affected_platforms"`
	AffectedServices  db.StringSlice `json:"affected_services"`
	CustomerImpact    *string        `json:"customer_impact"`

	RootCause  *string `json:"root_cause"`
	Resolution *string `json:"resolution"`

	CommanderID *string        `json:"commander_id"`
	AssignedTo  db.StringSlice `json:"assigned_to"`

	PostmortemURL *string     `json:"postmortem_url" binding:"omitempty,url"`
	ActionItems   db.JSONList `json:"action_items"`
}

type TimelineEntryRequest struct {
	Action string `json:"action" binding:"required,min=1,max=255"`
	Note   string `json:"note"`
}

type AttachAlertRequest struct {
	AlertID string `json:"alert_id" binding:"required"`
}

func (h *Handler) CreateIncident(c *gin.Context) {
	var req CreateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	incident := &db.Incident{
		Title:             req.Title,
		Description:       req.Description,
		DetectedAt:        req.DetectedAt,
		AffectedPlatforms: req.AffectedPlatforms,
		AffectedServices:  req.AffectedServices,
		CustomerImpact:    req.CustomerImpact,
		CommanderID:       req.CommanderID,
		AssignedTo:        req.AssignedTo,
	}
	if req.Severity != nil {
		incident.Severity = db.Severity(*req.Severity)
	}
	if req.StartedAt != nil {
		incident.StartedAt = *req.StartedAt
	}

	if err := h.repo.CreateIncident(incident); err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info("Incident created",
		zap.String("incident_id", incident.ID),
		zap.String("severity", string(incident.Severity)),
	)

	c.JSON(http.StatusCreated, incident)
}

func (h *Handler) ListIncidents(c *gin.Context) {
	limit, offset, ok := listWindow(c)
	if !ok {
		return
	}

	filters := db.IncidentFilters{
		Limit:  limit,
		Offset: offset,
	}
	if v := queryStr(c, "status"); v != nil {
		s := db.IncidentStatus(*v)
		filters.Status = &s
	}
	if v := queryStr(c, "severity"); v != nil {
		sev := db.Severity(*v)
		filters.Severity = &sev
	}

	incidents, err := h.repo.ListIncidents(filters)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"incidents": incidents, "count": len(incidents)})
}

func (h *Handler) GetIncident(c *gin.Context) {
	incident, err := h.repo.GetIncident(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, incident)
}

// incidentRank orders the lifecycle so a status can never move backwards.
var incidentRank = map[db.IncidentStatus]int{
	db.IncidentStatusOpen:          0,
	db.IncidentStatusAcknowledged:  1,
	db.IncidentStatusInvestigating: 2,
	db.IncidentStatusResolved:      3,
	db.IncidentStatusClosed:        4,
}

func (h *Handler) UpdateIncident(c *gin.Context) {
	incident, err := h.repo.GetIncident(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req UpdateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.Status != nil {
		next := db.IncidentStatus(*req.Status)
		if incidentRank[next] < incidentRank[incident.Status] {
			c.JSON(http.StatusConflict, gin.H{
				"error": "incident status cannot move backwards",
				"code":  "conflict",
			})
			return
		}
		if next != incident.Status {
			now := time.Now().UTC()
			switch next {
			case db.IncidentStatusAcknowledged:
				if incident.AcknowledgedAt == nil {
					incident.AcknowledgedAt = &now
				}
			case db.IncidentStatusResolved:
				if incident.ResolvedAt == nil {
					incident.ResolvedAt = &now
				}
			case db.IncidentStatusClosed:
				if incident.ClosedAt == nil {
					incident.ClosedAt = &now
				}
			}
			incident.Status = next
		}
	}

	if req.Title != nil {
		incident.Title = *req.Title
	}
	if req.Description != nil {
		incident.Description = req.Description
	}
	if req.Severity != nil {
		incident.Severity = db.Severity(*req.Severity)
	}
	if req.AffectedPlatforms != nil {
		incident.AffectedPlatforms = req.AffectedPlatforms
	}
	if req.AffectedServices != nil {
		incident.AffectedServices = req.AffectedServices
	}
	if req.CustomerImpact != nil {
		incident.CustomerImpact = req.CustomerImpact
	}
	if req.RootCause != nil {
		incident.RootCause = req.RootCause
	}
	if req.Resolution != nil {
		incident.Resolution = req.Resolution
	}
	if req.CommanderID != nil {
		incident.CommanderID = req.CommanderID
	}
	if req.AssignedTo != nil {
		incident.AssignedTo = req.AssignedTo
	}
	if req.PostmortemURL != nil {
		incident.PostmortemURL = req.PostmortemURL
	}
	if req.ActionItems != nil {
		incident.ActionItems = req.ActionItems
	}

	if err := h.repo.UpdateIncident(incident); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, incident)
}

func (h *Handler) DeleteIncident(c *gin.Context) {
	if _, err := h.repo.GetIncident(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.repo.DeleteIncident(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

func (h *Handler) AppendIncidentTimeline(c *gin.Context) {
	var req TimelineEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	entry := db.TimelineEntry{
		Timestamp: time.Now().UTC(),
		Action:    req.Action,
		User:      c.GetString("user_email"),
		Note:      req.Note,
	}

	incident, err := h.repo.AppendIncidentTimelineEntry(c.Param("id"), entry)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, incident)
}

func (h *Handler) AttachAlert(c *gin.Context) {
	var req AttachAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.repo.AttachAlertToIncident(c.Param("id"), req.AlertID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"incident_id": c.Param("id"), "alert_id": req.AlertID})
}

func (h *Handler) ListIncidentAlerts(c *gin.Context) {
	if _, err := h.repo.GetIncident(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	alerts, err := h.repo.GetIncidentAlerts(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "count": len(alerts)})
}
