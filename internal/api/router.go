package api

import (
	"github.com/followme-dot/INFRA-OBSERVATORY/internal/api/handlers"
	"github.com/followme-dot/INFRA-OBSERVATORY/internal/api/middleware"
	"github.com/followme-dot/INFRA-OBSERVATORY/internal/config"
	"github.com/followme-dot/INFRA-OBSERVATORY/internal/db"
	"github.com/followme-dot/INFRA-OBSERVATORY/internal/metrics"
	"github.com/followme-dot/INFRA-OBSERVATORY/internal/overview"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Server struct {
	Config  *config.Config
	Router  *gin.Engine
	handler *handlers.Handler
	metrics *metrics.Collector
}

func NewServer(cfg *config.Config, repo *db.Repository, collector *metrics.Collector, logger *zap.Logger) *Server {
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()

	router.Use(middleware.Logger(logger))
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	router.Use(collector.HTTPMiddleware())
	if cfg.RateLimit.PerMinute > 0 {
		router.Use(middleware.RateLimit(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst))
	}

	calc := overview.NewCalculator(repo, logger)

	server := &Server{
		Config:  cfg,
		Router:  router,
		handler: handlers.NewHandler(repo, calc, cfg, logger),
		metrics: collector,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	h := s.handler

	s.Router.GET("/health", h.Health)
	s.Router.GET("/health/live", h.Live)
	s.Router.GET("/health/ready", h.Ready)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.Router.POST("/api/v1/auth/login", h.Login)

	api := s.Router.Group("/api/v1")
	api.Use(middleware.AuthRequired(s.Config.Auth.JWTSecret))

	api.GET("/auth/me", h.Me)

	api.GET("/overview", h.SystemOverview)
	api.GET("/stats", h.GlobalStats)

	platforms := api.Group("/platforms")
	{
		platforms.POST("", h.CreatePlatform)
		platforms.GET("", h.ListPlatforms)
		platforms.GET("/:code", h.GetPlatform)
		platforms.PUT("/:code", h.UpdatePlatform)
		platforms.DELETE("/:code", h.DeletePlatform)
		platforms.GET("/:code/health", h.GetPlatformHealth)
		platforms.GET("/:code/services", h.ListPlatformServices)
	}

	services := api.Group("/services")
	{
		services.POST("", h.CreateService)
		services.GET("", h.ListServices)
		services.GET("/:id", h.GetService)
		services.PUT("/:id", h.UpdateService)
		services.DELETE("/:id", h.DeleteService)
		services.GET("/:id/health", h.GetServiceHealth)
	}

	logs := api.Group("/logs")
	{
		logs.POST("", h.IngestLog)
		logs.GET("", h.ListLogs)
		logs.GET("/:id", h.GetLog)
	}

	metricRecords := api.Group("/metrics")
	{
		metricRecords.POST("", h.IngestMetric)
		metricRecords.GET("", h.ListMetrics)
		metricRecords.GET("/:id", h.GetMetricRecord)
	}

	traces := api.Group("/traces")
	{
		traces.POST("", h.CreateTrace)
		traces.GET("", h.ListTraces)
		traces.GET("/:trace_id", h.GetTrace)
		traces.DELETE("/:trace_id", h.DeleteTrace)
		traces.POST("/:trace_id/spans", h.CreateSpan)
		traces.GET("/:trace_id/spans", h.ListSpans)
	}

	rules := api.Group("/alert-rules")
	{
		rules.POST("", h.CreateAlertRule)
		rules.GET("", h.ListAlertRules)
		rules.GET("/:id", h.GetAlertRule)
		rules.PUT("/:id", h.UpdateAlertRule)
		rules.DELETE("/:id", h.DeleteAlertRule)
		rules.POST("/:id/mute", h.MuteAlertRule)
		rules.POST("/:id/unmute", h.UnmuteAlertRule)
	}

	alerts := api.Group("/alerts")
	{
		alerts.POST("", h.CreateAlert)
		alerts.GET("", h.ListAlerts)
		alerts.GET("/:id", h.GetAlert)
		alerts.PUT("/:id", h.UpdateAlert)
		alerts.DELETE("/:id", h.DeleteAlert)
		alerts.POST("/:id/acknowledge", h.AcknowledgeAlert)
		alerts.POST("/:id/resolve", h.ResolveAlert)
	}

	incidents := api.Group("/incidents")
	{
		incidents.POST("", h.CreateIncident)
		incidents.GET("", h.ListIncidents)
		incidents.GET("/:id", h.GetIncident)
		incidents.PUT("/:id", h.UpdateIncident)
		incidents.DELETE("/:id", h.DeleteIncident)
		incidents.POST("/:id/timeline", h.AppendIncidentTimeline)
		incidents.POST("/:id/alerts", h.AttachAlert)
		incidents.GET("/:id/alerts", h.ListIncidentAlerts)
	}

	slos := api.Group("/slos")
	{
		slos.POST("", h.CreateSLO)
		slos.GET("", h.ListSLOs)
		slos.GET("/:id", h.GetSLO)
		slos.PUT("/:id", h.UpdateSLO)
		slos.DELETE("/:id", h.DeleteSLO)
	}

	dashboards := api.Group("/dashboards")
	{
		dashboards.POST("", h.CreateDashboard)
		dashboards.GET("", h.ListDashboards)
		dashboards.GET("/:id", h.GetDashboard)
		dashboards.PUT("/:id", h.UpdateDashboard)
		dashboards.DELETE("/:id", h.DeleteDashboard)
		dashboards.POST("/:id/widgets", h.CreateWidget)
		dashboards.GET("/:id/widgets", h.ListDashboardWidgets)
		dashboards.PUT("/:id/widgets/:widget_id", h.UpdateWidget)
		dashboards.DELETE("/:id/widgets/:widget_id", h.DeleteWidget)
	}

	integrations := api.Group("/integrations")
	{
		integrations.POST("", h.CreateIntegration)
		integrations.GET("", h.ListIntegrations)
		integrations.GET("/:id", h.GetIntegration)
		integrations.PUT("/:id", h.UpdateIntegration)
		integrations.DELETE("/:id", h.DeleteIntegration)
	}

	users := api.Group("/users")
	users.Use(middleware.AdminRequired())
	{
		users.POST("", h.CreateUser)
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}
}
