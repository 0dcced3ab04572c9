package main

import (
	"log"
	"math/rand"

	"github.com/followme-dot/INFRA-OBSERVATORY/internal/config"
	"github.com/followme-dot/INFRA-OBSERVATORY/internal/db"
)

type platformSeed struct {
	Code        string
	Name        string
	Description string
	Color       string
	Icon        string
	Criticality db.Criticality
}

type serviceSeed struct {
	Name        string
	Slug        string
	ServiceType db.ServiceType
	Technology  string
}

var platforms = []platformSeed{
	{"infrabank", "INFRABANK", "Banca Digital Híbrida TradFi + DeFi", "#00d4ff", "building-bank", db.CriticalityCritical},
	{"infrapay", "INFRA PAY & TREASURY", "Pagos Internacionales y Tesorería IA", "#7c3aed", "credit-card", db.CriticalityCritical},
	{"infravault", "INFRA VAULT CORE", "Plataforma Multilateral de Liquidez", "#10b981", "vault", db.CriticalityCritical},
	{"infradigital", "INFRA DIGITAL ASSETS", "Custodia y Trading Institucional", "#f59e0b", "coins", db.CriticalityCritical},
	{"infracoinn", "INFRACOINN", "Tokenización de Activos Reales", "#ec4899", "gem", db.CriticalityHigh},
	{"infradevtech", "INFRA Dev·Tech", "DevTools SaaS Marketplace", "#3b82f6", "code", db.CriticalityHigh},
	{"infraforge", "INFRA FORGE", "Smart Contracts AI", "#ef4444", "hammer", db.CriticalityMedium},
	{"infrainsurance", "INFRA Global Insurance", "Seguros Multi-Línea", "#06b6d4", "shield-check", db.CriticalityCritical},
	{"infraschool", "INFRA SCHOOL", "EdTech + Fintech Educativo", "#8b5cf6", "graduation-cap", db.CriticalityMedium},
}

var sampleServices = []serviceSeed{
	{"API Gateway", "api-gateway", db.ServiceTypeGateway, "Kong/Node.js"},
	{"Auth Service", "auth-service", db.ServiceTypeAPI, "Python/FastAPI"},
	{"User Service", "user-service", db.ServiceTypeAPI, "Go"},
	{"Notification Worker", "notification-worker", db.ServiceTypeWorker, "Python/Celery"},
	{"PostgreSQL Primary", "postgres-primary", db.ServiceTypeDatabase, "PostgreSQL"},
	{"Redis Cache", "redis-cache", db.ServiceTypeCache, "Redis"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	conn, err := db.NewConnection(cfg.Database.URL, cfg.Database.MaxConnections, cfg.Database.MaxIdleConns)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer conn.Close()

	if err := db.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	repo := db.NewRepository(conn)

	count, err := repo.CountPlatforms()
	if err != nil {
		log.Fatal("Failed to count platforms:", err)
	}
	if count > 0 {
		log.Printf("Database already has %d platforms. Skipping seed.", count)
		return
	}

	log.Println("Seeding platforms...")
	for _, ps := range platforms {
		status, score := randomHealth(85, 100, 60, 85)

		desc := ps.Description
		icon := ps.Icon
		platform := &db.Platform{
			Code:        ps.Code,
			Name:        ps.Name,
			Description: &desc,
			Color:       ps.Color,
			Icon:        &icon,
			Criticality: ps.Criticality,
			Status:      status,
			HealthScore: score,
		}

		if err := repo.CreatePlatform(platform); err != nil {
			log.Fatalf("Failed to seed platform %s: %v", ps.Code, err)
		}

		log.Printf("  Adding services for %s...", ps.Name)
		n := 4 + rand.Intn(len(sampleServices)-3)
		for _, ss := range sampleServices[:n] {
			svcStatus, svcScore := randomHealth(90, 100, 70, 90)

			tech := ss.Technology
			st := ss.ServiceType
			svc := &db.Service{
				PlatformID:  platform.ID,
				Name:        ss.Name,
				Slug:        ss.Slug,
				ServiceType: &st,
				Technology:  &tech,
				Status:      svcStatus,
				HealthScore: svcScore,
				Replicas:    1 + rand.Intn(5),
			}

			if err := repo.CreateService(svc); err != nil {
				log.Fatalf("Failed to seed service %s: %v", ss.Slug, err)
			}
		}
	}

	log.Println("Database seeded successfully!")
}

// randomHealth mostly returns healthy with a score in the upper band,
// occasionally degraded in the lower band.
func randomHealth(hiMin, hiMax, loMin, loMax float64) (db.PlatformStatus, float64) {
	if rand.Float64() > 0.2 {
		return db.StatusHealthy, round2(hiMin + rand.Float64()*(hiMax-hiMin))
	}
	return db.StatusDegraded, round2(loMin + rand.Float64()*(loMax-loMin))
}

func round2(v float64) float64 {
	return float64(int(v*100)) / 100
}
