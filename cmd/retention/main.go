package main

import (
	"log"
	"time"

	"github.com/followme-dot/INFRA-OBSERVATORY/internal/config"
	"github.com/followme-dot/INFRA-OBSERVATORY/internal/db"
)

// One-shot retention sweep, meant to run from cron or a Kubernetes
// CronJob. Each signal has its own window.
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

	repo := db.NewRepository(conn)
	now := time.Now().UTC()

	logsCutoff := now.AddDate(0, 0, -cfg.Retention.LogsDays)
	n, err := repo.PruneLogs(logsCutoff)
	if err != nil {
		log.Fatal("Failed to prune logs:", err)
	}
	log.Printf("Pruned %d log entries older than %s", n, logsCutoff.Format(time.RFC3339))

	metricsCutoff := now.AddDate(0, 0, -cfg.Retention.MetricsDays)
	n, err = repo.PruneMetrics(metricsCutoff)
	if err != nil {
		log.Fatal("Failed to prune metrics:", err)
	}
	log.Printf("Pruned %d metric records older than %s", n, metricsCutoff.Format(time.RFC3339))

	tracesCutoff := now.AddDate(0, 0, -cfg.Retention.TracesDays)
	n, err = repo.PruneTraces(tracesCutoff)
	if err != nil {
		log.Fatal("Failed to prune traces:", err)
	}
	log.Printf("Pruned %d traces older than %s", n, tracesCutoff.Format(time.RFC3339))
}
