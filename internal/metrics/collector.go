package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/followme-dot/INFRA-OBSERVATORY/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector exposes the service's own operational metrics. Entity gauges
// are refreshed from the database on a fixed interval rather than on
// every scrape.
type Collector struct {
	repo   *db.Repository
	logger *zap.Logger

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	platformHealthScore *prometheus.GaugeVec
	platformsTotal      prometheus.Gauge
	servicesTotal       prometheus.Gauge
	servicesHealthy     prometheus.Gauge
	alertsFiring        prometheus.Gauge
	incidentsOpen       prometheus.Gauge
}

func NewCollector(repo *db.Repository, logger *zap.Logger) *Collector {
	return &Collector{
		repo:   repo,
		logger: logger,

		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "observatory_http_requests_total",
			Help: "Total HTTP requests handled, by method, route and status code",
		}, []string{"method", "route", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "observatory_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		platformHealthScore: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "observatory_platform_health_score",
			Help: "Per-platform health score (0-100)",
		}, []string{"platform"}),

		platformsTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "observatory_platforms_total",
			Help: "Registered platforms",
		}),
		servicesTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "observatory_services_total",
			Help: "Registered services",
		}),
		servicesHealthy: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "observatory_services_healthy",
			Help: "Services currently reporting healthy",
		}),
		alertsFiring: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "observatory_alerts_firing",
			Help: "Alerts currently firing",
		}),
		incidentsOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "observatory_incidents_open",
			Help: "Incidents not yet resolved",
		}),
	}
}

func (c *Collector) HTTPMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}

		c.httpRequestsTotal.WithLabelValues(
			ctx.Request.Method,
			route,
			strconv.Itoa(ctx.Writer.Status()),
		).Inc()
		c.httpRequestDuration.WithLabelValues(ctx.Request.Method, route).
			Observe(time.Since(start).Seconds())
	}
}

// StartEntityRefresh keeps the gauges in sync with the database until
// the context is cancelled.
func (c *Collector) StartEntityRefresh(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.refresh()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.refresh()
		}
	}
}

func (c *Collector) refresh() {
	counts, err := c.repo.SystemCounts()
	if err != nil {
		c.logger.Warn("Failed to refresh entity gauges", zap.Error(err))
		return
	}

	c.platformsTotal.Set(float64(counts.TotalPlatforms))
	c.servicesTotal.Set(float64(counts.TotalServices))
	c.servicesHealthy.Set(float64(counts.HealthyServices))
	c.alertsFiring.Set(float64(counts.ActiveAlerts))
	c.incidentsOpen.Set(float64(counts.OpenIncidents))

	platforms, err := c.repo.ListPlatforms(db.PlatformFilters{})
	if err != nil {
		c.logger.Warn("Failed to refresh platform health gauges", zap.Error(err))
		return
	}
	for _, p := range platforms {
		c.platformHealthScore.WithLabelValues(p.Code).Set(p.HealthScore)
	}
}
