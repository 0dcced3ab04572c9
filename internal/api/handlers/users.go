package handlers

import (
	"net/http"

	"github.com/followme-dot/INFRA-OBSERVATORY/internal/auth"
	"github.com/followme-dot/INFRA-OBSERVATORY/internal/db"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Name     string `json:"name" binding:"required,min=1,max=255"`

	Role      *string `json:"role" binding:"omitempty,oneof=admin operator viewer"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url"`

	Settings db.JSONB `json:"settings"`
}

type UpdateUserRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=255"`
	Password  *string `json:"password" binding:"omitempty,min=8,max=128"`
	Role      *string `json:"role" binding:"omitempty,oneof=admin operator viewer"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url"`

	IsActive   *bool `json:"is_active"`
	IsVerified *bool `json:"is_verified"`

	Settings db.JSONB `json:"settings"`
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("Failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	user := &db.User{
		Email:          req.Email,
		HashedPassword: hashed,
		Name:           req.Name,
		AvatarURL:      req.AvatarURL,
		Settings:       req.Settings,
		IsActive:       true,
	}
	if req.Role != nil {
		user.Role = db.Role(*req.Role)
	}

	if err := h.repo.CreateUser(user); err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info("User created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))

	c.JSON(http.StatusCreated, user)
}

func (h *Handler) ListUsers(c *gin.Context) {
	limit, offset, ok := listWindow(c)
	if !ok {
		return
	}

	isActive, ok := queryBool(c, "is_active")
	if !ok {
		return
	}

	filters := db.UserFilters{
		IsActive: isActive,
		Limit:    limit,
		Offset:   offset,
	}
	if v := queryStr(c, "role"); v != nil {
		role := db.Role(*v)
		filters.Role = &role
	}

	users, err := h.repo.ListUsers(filters)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.repo.GetUser(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	user, err := h.repo.GetUser(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Password != nil {
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			h.logger.Error("Failed to hash password", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		user.HashedPassword = hashed
	}
	if req.Role != nil {
		user.Role = db.Role(*req.Role)
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.IsVerified != nil {
		user.IsVerified = *req.IsVerified
	}
	if req.Settings != nil {
		user.Settings = req.Settings
	}

	if err := h.repo.UpdateUser(user); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	if _, err := h.repo.GetUser(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.repo.DeleteUser(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
