package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/yungbote/caa-backend/internal/observability"
	"github.com/yungbote/caa-backend/internal/platform/logger"
)

// serveMetrics exposes /metrics on a dedicated listener, kept off the public API port.
func serveMetrics(ctx context.Context, log *logger.Logger, addr string, m *observability.Metrics, shutdownTimeout time.Duration) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", m.WriteHTTP)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Metrics listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
