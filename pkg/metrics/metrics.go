// Package metrics keeps lightweight operational counters in an embedded
// time-series store under the application workdir.
package metrics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
	"go.uber.org/zap"
)

const (
	MetricHTTPRequests  = "zencart_http_requests"
	MetricCheckoutLinks = "zencart_checkout_links"
	MetricUploadImages  = "zencart_upload_images"
	MetricAuthCodes     = "zencart_auth_codes"
)

var (
	storage tstorage.Storage
	mu      sync.RWMutex
)

// InitMetrics opens the time-series store under workdir/metrics.
func InitMetrics(workdir string) error {
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(filepath.Join(workdir, "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithRetention(30*24*time.Hour),
	)
	if err != nil {
		return err
	}
	mu.Lock()
	storage = s
	mu.Unlock()
	return nil
}

// CounterInc records one occurrence of the named metric at the current time.
func CounterInc(name string) {
	mu.RLock()
	s := storage
	mu.RUnlock()
	if s == nil {
		return
	}
	err := s.InsertRows([]tstorage.Row{
		{
			Metric:    name,
			DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: 1},
		},
	})
	if err != nil {
		zap.S().Debugf("metrics insert failed: %s", err)
	}
}

// CountRange sums the named counter over [start, end].
func CountRange(name string, start, end time.Time) int64 {
	mu.RLock()
	s := storage
	mu.RUnlock()
	if s == nil {
		return 0
	}
	points, err := s.Select(name, nil, start.Unix(), end.Unix())
	if err != nil {
		return 0
	}
	var total int64
	for _, p := range points {
		total += int64(p.Value)
	}
	return total
}

// Close flushes and closes the store.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil
	}
	err := storage.Close()
	storage = nil
	return err
}
