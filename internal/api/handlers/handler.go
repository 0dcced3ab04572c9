package handlers

import (
	"github.com/followme-dot/INFRA-OBSERVATORY/internal/config"
	"github.com/followme-dot/INFRA-OBSERVATORY/internal/db"
	"github.com/followme-dot/INFRA-OBSERVATORY/internal/overview"
	"go.uber.org/zap"
)

type Handler struct {
	repo     *db.Repository
	overview *overview.Calculator
	cfg      *config.Config
	logger   *zap.Logger
}

func NewHandler(repo *db.Repository, calc *overview.Calculator, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		repo:     repo,
		overview: calc,
		cfg:      cfg,
		logger:   logger,
	}
}
