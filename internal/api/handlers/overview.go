package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) SystemOverview(c *gin.Context) {
	ov, err := h.overview.System()
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ov)
}

func (h *Handler) GlobalStats(c *gin.Context) {
	stats, err := h.overview.Stats()
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
