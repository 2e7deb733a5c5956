// Package discount validates and applies a single promotional code against
// the cart. At most one code is active per user, held in the session store.
package discount

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/andeshop/storefront-go/internal/cart"
	"github.com/andeshop/storefront-go/internal/session"
	"github.com/andeshop/storefront-go/internal/upstream"
)

var (
	ErrEmptyCode        = errors.New("discount code is empty")
	ErrAlreadyApplied   = errors.New("a discount is already applied")
	ErrPromotionalItems = errors.New("discount codes are not valid for promotional items")
)

// RejectedError carries the upstream's reason for refusing a code.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return e.Reason
}

// State is the single active code application. Percent is a 0-1 fraction.
type State struct {
	Code      string    `json:"code"`
	Percent   float64   `json:"percent"`
	Label     string    `json:"label"`
	AppliedAt time.Time `json:"appliedAt"`
}

// PercentDisplay renders the fraction the way the badge shows it, e.g. "10%".
func (s *State) PercentDisplay() string {
	return fmt.Sprintf("%d%%", int(math.Round(s.Percent*100)))
}

type Validator interface {
	ValidateCode(ctx context.Context, code string) (*upstream.CodeValidation, error)
}

type Service struct {
	validator Validator
	sessions  session.Store
	ttl       time.Duration
	logger    zerolog.Logger
}

func NewService(validator Validator, sessions session.Store, ttl time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		validator: validator,
		sessions:  sessions,
		ttl:       ttl,
		logger:    logger.With().Str("component", "discount").Logger(),
	}
}

func sessionKey(userID string) string {
	return "discount:" + userID
}

// Apply runs the precondition checks in order (empty code, already applied,
// promotional exclusion) before touching the upstream validator, then
// persists the resulting state. The returned message includes the remaining
// uses when the upstream reports them.
func (s *Service) Apply(ctx context.Context, userID, rawCode string, c *cart.Cart) (*State, string, error) {
	code := strings.ToUpper(strings.TrimSpace(rawCode))
	if code == "" {
		return nil, "", ErrEmptyCode
	}

	existing, err := s.Get(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrAlreadyApplied
	}

	if c.HasPromotional() {
		return nil, "", ErrPromotionalItems
	}

	v, err := s.validator.ValidateCode(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("validate code: %w", err)
	}
	if !v.Valid {
		reason := v.Message
		if reason == "" {
			reason = "the discount code is not valid"
		}
		return nil, "", &RejectedError{Reason: reason}
	}

	state := &State{
		Code:      code,
		Percent:   v.Percent / 100,
		Label:     fmt.Sprintf("%s (-%d%%)", code, int(math.Round(v.Percent))),
		AppliedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(state)
	if err != nil {
		return nil, "", fmt.Errorf("marshal discount state: %w", err)
	}
	if err := s.sessions.Set(ctx, sessionKey(userID), payload, s.ttl); err != nil {
		return nil, "", fmt.Errorf("persist discount state: %w", err)
	}

	msg := fmt.Sprintf("code %s applied: %s off", code, state.PercentDisplay())
	if v.UsesRemaining >= 0 {
		msg = fmt.Sprintf("%s (%d uses remaining)", msg, v.UsesRemaining)
	}

	s.logger.Info().Str("user_id", userID).Str("code", code).Msg("discount applied")
	return state, msg, nil
}

// Get returns the active state or nil.
func (s *Service) Get(ctx context.Context, userID string) (*State, error) {
	payload, err := s.sessions.Get(ctx, sessionKey(userID))
	if err != nil {
		return nil, fmt.Errorf("load discount state: %w", err)
	}
	if payload == nil {
		return nil, nil
	}

	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("decode discount state: %w", err)
	}
	return &state, nil
}

// Remove drops the active state. Removing when nothing is applied is a
// no-op.
func (s *Service) Remove(ctx context.Context, userID string) error {
	if err := s.sessions.Delete(ctx, sessionKey(userID)); err != nil {
		return fmt.Errorf("remove discount state: %w", err)
	}
	return nil
}

// DiscountedTotal applies the fraction and rounds to cents.
func DiscountedTotal(total, percent float64) float64 {
	return math.Round(total*(1-percent)*100) / 100
}
