package metrics

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/followme-dot/INFRA-OBSERVATORY/internal/config"
	"github.com/followme-dot/INFRA-OBSERVATORY/internal/db"
	"github.com/golang/snappy"
	"github.com/prometheus/prometheus/prompb"
	"go.uber.org/zap"
)

var invalidLabelChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// RemoteWriter forwards ingested metric records to a Prometheus
// remote-write endpoint (Mimir, Thanos, Cortex). Disabled when no URL is
// configured.
type RemoteWriter struct {
	cfg    config.RemoteWriteConfig
	repo   *db.Repository
	client *http.Client
	logger *zap.Logger

	lastFlush time.Time
}

func NewRemoteWriter(cfg config.RemoteWriteConfig, repo *db.Repository, logger *zap.Logger) *RemoteWriter {
	return &RemoteWriter{
		cfg:  cfg,
		repo: repo,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:    logger,
		lastFlush: time.Now().UTC(),
	}
}

func (w *RemoteWriter) Enabled() bool {
	return w.cfg.URL != ""
}

func (w *RemoteWriter) Start(ctx context.Context) {
	if !w.Enabled() {
		return
	}

	ticker := time.NewTicker(w.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.flush(); err != nil {
				w.logger.Error("Remote write flush failed", zap.Error(err))
			}
		}
	}
}

// flush forwards everything ingested since the previous flush. The
// window only advances on success so a failed push is retried on the
// next tick.
func (w *RemoteWriter) flush() error {
	now := time.Now().UTC()
	since := w.lastFlush

	var series []prompb.TimeSeries
	offset := 0
	for {
		page, err := w.repo.ListMetrics(db.MetricFilters{
			Since:  &since,
			Until:  &now,
			Limit:  w.cfg.BatchSize,
			Offset: offset,
		})
		if err != nil {
			return fmt.Errorf("list metrics: %w", err)
		}
		for _, m := range page {
			series = append(series, recordToSeries(m))
		}
		if len(page) < w.cfg.BatchSize {
			break
		}
		offset += len(page)
	}

	if len(series) == 0 {
		w.lastFlush = now
		return nil
	}

	for i := 0; i < len(series); i += w.cfg.BatchSize {
		end := i + w.cfg.BatchSize
		if end > len(series) {
			end = len(series)
		}
		if err := w.push(series[i:end]); err != nil {
			return err
		}
	}

	w.logger.Debug("Remote write flush complete", zap.Int("series", len(series)))
	w.lastFlush = now
	return nil
}

func recordToSeries(m *db.Metric) prompb.TimeSeries {
	labels := []prompb.Label{
		{Name: "__name__", Value: sanitizeLabel(m.Name)},
	}
	if m.PlatformID != nil {
		labels = append(labels, prompb.Label{Name: "platform_id", Value: *m.PlatformID})
	}
	if m.ServiceID != nil {
		labels = append(labels, prompb.Label{Name: "service_id", Value: *m.ServiceID})
	}
	for k, v := range m.Labels {
		if s, ok := v.(string); ok {
			labels = append(labels, prompb.Label{Name: sanitizeLabel(k), Value: s})
		}
	}

	return prompb.TimeSeries{
		Labels: labels,
		Samples: []prompb.Sample{{
			Value:     m.Value,
			Timestamp: m.Timestamp.UnixNano() / int64(time.Millisecond),
		}},
	}
}

func sanitizeLabel(name string) string {
	return invalidLabelChars.ReplaceAllString(name, "_")
}

func (w *RemoteWriter) push(series []prompb.TimeSeries) error {
	req := &prompb.WriteRequest{
		Timeseries: series,
	}

	data, err := req.Marshal()
	if err != nil {
		return fmt.Errorf("marshal write request: %w", err)
	}

	compressed := snappy.Encode(nil, data)

	httpReq, err := http.NewRequest(http.MethodPost, w.cfg.URL+"/api/v1/push", bytes.NewReader(compressed))
	if err != nil {
		return err
	}

	httpReq.Header.Set("Content-Type", "application/x-protobuf")
	httpReq.Header.Set("Content-Encoding", "snappy")
	httpReq.Header.Set("X-Prometheus-Remote-Write-Version", "0.1.0")
	if w.cfg.TenantID != "" {
		httpReq.Header.Set(w.cfg.TenantHeader, w.cfg.TenantID)
	}
	if w.cfg.AuthToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+w.cfg.AuthToken)
	}

	resp, err := w.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("remote write failed with status %d", resp.StatusCode)
	}

	return nil
}
