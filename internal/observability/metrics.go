package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/caa-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	sessionsStarted   *CounterVec
	sessionsFinalized *Counter
	selections        *Counter
	responseTime      *HistogramVec
	uploads           *CounterVec

	dbStats   *GaugeVec
	redisUp   *Gauge
	redisPing *Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Current returns the process-wide metrics, or nil when Init was never called.
// Every Metrics method is safe on a nil receiver.
func Current() *Metrics {
	return instance
}

// Init builds the process-wide metrics once.
func Init(log *logger.Logger) *Metrics {
	initOnce.Do(func() {
		instance = New()
		if log != nil {
			log.Info("Observability metrics enabled")
		}
	})
	return instance
}

// New returns an unregistered Metrics, mostly useful in tests.
func New() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("caa_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"caa_api_request_duration_seconds",
			"API request latency in seconds by method/route.",
			[]string{"method", "route"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		apiInflight:       NewGauge("caa_api_inflight_requests", "In-flight API requests."),
		sessionsStarted:   NewCounterVec("caa_sessions_started_total", "Therapy session starts by result (created/reused).", []string{"result"}),
		sessionsFinalized: NewCounter("caa_sessions_finalized_total", "Therapy sessions finalized."),
		selections:        NewCounter("caa_pictogram_selections_total", "Pictogram selections recorded."),
		responseTime: NewHistogramVec(
			"caa_selection_response_seconds",
			"Patient response time reported with each selection.",
			nil,
			[]float64{1, 2, 5, 10, 20, 30, 60, 120},
		),
		uploads:   NewCounterVec("caa_image_uploads_total", "Image uploads by host mode/status.", []string{"mode", "status"}),
		dbStats:   NewGaugeVec("caa_db_stats", "Database connection pool stats.", []string{"metric"}),
		redisUp:   NewGauge("caa_redis_up", "Redis connectivity (1=up, 0=down)."),
		redisPing: NewGauge("caa_redis_ping_seconds", "Redis ping latency in seconds."),
	}
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) APIInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) APIInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) IncSessionStarted(created bool) {
	if m == nil {
		return
	}
	result := "reused"
	if created {
		result = "created"
	}
	m.sessionsStarted.Inc(result)
}

func (m *Metrics) IncSessionFinalized() {
	if m == nil {
		return
	}
	m.sessionsFinalized.Inc()
}

func (m *Metrics) ObserveSelection(responseSeconds *float64) {
	if m == nil {
		return
	}
	m.selections.Inc()
	if responseSeconds != nil {
		m.responseTime.Observe(*responseSeconds)
	}
}

func (m *Metrics) IncUpload(mode string, ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "failed"
	}
	m.uploads.Inc(mode, status)
}

// StartDBCollector samples the SQL pool stats every interval until ctx is done.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB, interval time.Duration) {
	if m == nil || db == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.Set(float64(stats.OpenConnections), "open_connections")
				m.dbStats.Set(float64(stats.InUse), "in_use")
				m.dbStats.Set(float64(stats.Idle), "idle")
				m.dbStats.Set(float64(stats.WaitCount), "wait_count")
				m.dbStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
				m.dbStats.Set(float64(stats.MaxOpenConnections), "max_open_connections")
			}
		}
	}()
}

// StartRedisCollector pings rdb every interval until ctx is done. It does not close rdb.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb redis.UniversalClient, interval time.Duration) {
	if m == nil || rdb == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.sessionsStarted,
		m.sessionsFinalized,
		m.selections,
		m.responseTime,
		m.uploads,
		m.dbStats,
		m.redisUp,
		m.redisPing,
	}
	for _, mw := range writers {
		if err := mw.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}
