package handlers

import (
	"errors"
	"net/http"

	"github.com/followme-dot/INFRA-OBSERVATORY/internal/db"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps repository error kinds onto HTTP statuses. Anything
// not in the taxonomy is logged and returned as a 500 without leaking
// the underlying message.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "not_found"})
	case errors.Is(err, db.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "conflict"})
	case errors.Is(err, db.ErrDependency):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "invalid_reference"})
	case errors.Is(err, db.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation_failed"})
	default:
		h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "code": "internal"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation_failed"})
}
