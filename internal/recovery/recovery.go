// Package recovery tracks the password-recovery flow marker. The reset
// screen is only reachable while the marker is set, which is what the route
// guard enforces.
package recovery

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/andeshop/storefront-go/internal/session"
)

const markerValue = "1"

type Service struct {
	sessions session.Store
	ttl      time.Duration
}

func NewService(sessions session.Store, ttl time.Duration) *Service {
	return &Service{sessions: sessions, ttl: ttl}
}

func markerKey(userID string) string {
	return "recovery:" + userID
}

// Begin sets the flow marker when the user starts password recovery.
func (s *Service) Begin(ctx context.Context, userID string) error {
	if err := s.sessions.Set(ctx, markerKey(userID), []byte(markerValue), s.ttl); err != nil {
		return fmt.Errorf("set recovery marker: %w", err)
	}
	return nil
}

func (s *Service) Active(ctx context.Context, userID string) (bool, error) {
	v, err := s.sessions.Get(ctx, markerKey(userID))
	if err != nil {
		return false, fmt.Errorf("load recovery marker: %w", err)
	}
	return v != nil, nil
}

// Complete clears the marker once the reset finishes.
func (s *Service) Complete(ctx context.Context, userID string) error {
	if err := s.sessions.Delete(ctx, markerKey(userID)); err != nil {
		return fmt.Errorf("clear recovery marker: %w", err)
	}
	return nil
}

// Guard redirects to the recovery start route when the marker is absent, so
// the reset step cannot be reached out of order.
func (s *Service) Guard(startPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.PathValue("userId")
			if userID == "" {
				http.Redirect(w, r, startPath, http.StatusSeeOther)
				return
			}

			active, err := s.Active(r.Context(), userID)
			if err != nil || !active {
				http.Redirect(w, r, startPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
