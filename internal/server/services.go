package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"yatube/internal/logging"
	"yatube/internal/metrics"
)

// httpService runs an *http.Server under the supervisor.
type httpService struct {
	srv             *http.Server
	shutdownTimeout time.Duration
}

func (s *httpService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	logging.Info().Str("addr", s.srv.Addr).Msg("http server listening")

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		// ctx is already canceled, shutdown needs its own deadline
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		logging.Info().Msg("http server stopped")
		return ctx.Err()
	}
}

func (s *httpService) String() string { return "http-server" }

// SessionStore is the part of the store the janitor needs.
type SessionStore interface {
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// sessionJanitor периодически удаляет истекшие сессии.
type sessionJanitor struct {
	store    SessionStore
	interval time.Duration
	now      func() time.Time
}

func (j *sessionJanitor) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		j.sweep(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (j *sessionJanitor) sweep(ctx context.Context) {
	n, err := j.store.DeleteExpiredSessions(ctx, j.now())
	if err != nil {
		if ctx.Err() == nil {
			logging.Error().Err(err).Msg("failed to delete expired sessions")
		}
		return
	}
	if n > 0 {
		metrics.ExpiredSessionsDeleted.Add(float64(n))
		logging.Debug().Int64("deleted", n).Msg("expired sessions removed")
	}
}

func (j *sessionJanitor) String() string { return "session-janitor" }
