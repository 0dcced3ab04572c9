package overview

import (
	"math"

	"github.com/followme-dot/INFRA-OBSERVATORY/internal/db"
	"go.uber.org/zap"
)

// SystemOverview summarizes the whole estate from one read snapshot.
// The requests/error-rate/latency trio is nil until a metrics source is
// wired in; fabricated values are worse than absent ones.
type SystemOverview struct {
	HealthScore      float64  `json:"health_score"`
	TotalPlatforms   int      `json:"total_platforms"`
	TotalServices    int      `json:"total_services"`
	HealthyServices  int      `json:"healthy_services"`
	DegradedServices int      `json:"degraded_services"`
	CriticalServices int      `json:"critical_services"`
	ActiveAlerts     int      `json:"active_alerts"`
	CriticalAlerts   int      `json:"critical_alerts"`
	OpenIncidents    int      `json:"open_incidents"`
	RequestsPerSec   *float64 `json:"requests_per_second"`
	ErrorRate        *float64 `json:"error_rate"`
	P99Latency       *float64 `json:"p99_latency"`
}

// PlatformOverview embeds the platform record plus its scoped counts.
type PlatformOverview struct {
	db.Platform
	ServiceCount        int      `json:"service_count"`
	HealthyServiceCount int      `json:"healthy_service_count"`
	AlertCount          int      `json:"alert_count"`
	RequestsPerSec      *float64 `json:"requests_per_second"`
	ErrorRate           *float64 `json:"error_rate"`
	P99Latency          *float64 `json:"p99_latency"`
}

type GlobalStats struct {
	Platforms int `json:"platforms"`
	Services  int `json:"services"`
	Alerts    int `json:"alerts"`
}

type Calculator struct {
	repo   *db.Repository
	logger *zap.Logger
}

func NewCalculator(repo *db.Repository, logger *zap.Logger) *Calculator {
	return &Calculator{
		repo:   repo,
		logger: logger,
	}
}

func (c *Calculator) System() (*SystemOverview, error) {
	counts, err := c.repo.SystemCounts()
	if err != nil {
		return nil, err
	}

	return &SystemOverview{
		HealthScore:      HealthScore(counts.HealthyServices, counts.TotalServices),
		TotalPlatforms:   counts.TotalPlatforms,
		TotalServices:    counts.TotalServices,
		HealthyServices:  counts.HealthyServices,
		DegradedServices: counts.DegradedServices,
		CriticalServices: counts.CriticalServices,
		ActiveAlerts:     counts.ActiveAlerts,
		CriticalAlerts:   counts.CriticalAlerts,
		OpenIncidents:    counts.OpenIncidents,
	}, nil
}

func (c *Calculator) Platform(p *db.Platform) (*PlatformOverview, error) {
	counts, err := c.repo.PlatformCounts(p.ID)
	if err != nil {
		return nil, err
	}

	return &PlatformOverview{
		Platform:            *p,
		ServiceCount:        counts.ServiceCount,
		HealthyServiceCount: counts.HealthyServiceCount,
		AlertCount:          counts.FiringAlertCount,
	}, nil
}

func (c *Calculator) GlobalHealthScore() (float64, error) {
	counts, err := c.repo.SystemCounts()
	if err != nil {
		return 0, err
	}
	return HealthScore(counts.HealthyServices, counts.TotalServices), nil
}

func (c *Calculator) Stats() (*GlobalStats, error) {
	counts, err := c.repo.SystemCounts()
	if err != nil {
		return nil, err
	}
	return &GlobalStats{
		Platforms: counts.TotalPlatforms,
		Services:  counts.TotalServices,
		Alerts:    counts.ActiveAlerts,
	}, nil
}

// HealthScore is 100 * healthy/total rounded to two decimals; an estate
// with no services counts as fully healthy.
func HealthScore(healthy, total int) float64 {
	if total == 0 {
		return 100.0
	}
	score := float64(healthy) / float64(total) * 100
	return math.Round(score*100) / 100
}
