package handlers

import (
	"net/http"
	"time"

	"github.com/followme-dot/INFRA-OBSERVATORY/internal/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.repo.GetUserByEmail(req.Email)
	if err != nil || !user.IsActive || !auth.CheckPassword(user.HashedPassword, req.Password) {
		// Same response for unknown email and bad password.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.IssueToken(h.cfg.Auth.JWTSecret, h.cfg.Auth.TokenTTL, user.ID, user.Email, string(user.Role))
	if err != nil {
		h.logger.Error("Failed to issue token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	now := time.Now().UTC()
	user.LastLogin = &now
	if err := h.repo.UpdateUser(user); err != nil {
		h.logger.Warn("Failed to record last login", zap.String("user_id", user.ID), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   int(h.cfg.Auth.TokenTTL.Seconds()),
		"user":         user,
	})
}

func (h *Handler) Me(c *gin.Context) {
	userID := c.GetString("user_id")

	user, err := h.repo.GetUser(userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
