package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/andeshop/storefront-go/internal/upstream"
)

var ErrLineNotFound = errors.New("cart line not found")

// StockError rejects a quantity increase past the product's recorded stock.
// Stock is a soft cap reported by the catalog, not a reservation.
type StockError struct {
	ProductID string
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: only %d available", e.ProductID, e.Available)
}

type NoticeKind string

const (
	NoticeNone            NoticeKind = ""
	NoticeItemAdded       NoticeKind = "item_added"
	NoticeQuantityUpdated NoticeKind = "quantity_updated"
	NoticeItemRemoved     NoticeKind = "item_removed"
	NoticeCartCleared     NoticeKind = "cart_cleared"
)

// Notice is what a mutation wants the caller to tell the user.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// Service owns cart mutations. Every mutation re-reads the persisted cart,
// applies the change in memory and writes the whole cart back, so a write
// from another session is picked up on the next operation.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("component", "cart").Logger()}
}

// Get returns the user's cart, hydrating an empty one when nothing is
// persisted yet.
func (s *Service) Get(ctx context.Context, userID string) (*Cart, error) {
	c, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = &Cart{UserID: userID, UpdatedAt: time.Now()}
	}
	return c, nil
}

// AddProduct merges on the canonical product ID: an existing line gets its
// quantity bumped by one, otherwise a new line with quantity 1 is appended.
func (s *Service) AddProduct(ctx context.Context, userID string, p upstream.Product) (*Cart, Notice, error) {
	if p.ID == "" {
		return nil, Notice{}, errors.New("product has no identifier")
	}

	c, err := s.Get(ctx, userID)
	if err != nil {
		return nil, Notice{}, err
	}

	var notice Notice
	if i := c.lineIndex(p.ID); i >= 0 {
		c.Lines[i].Quantity++
		notice = Notice{Kind: NoticeQuantityUpdated, Message: fmt.Sprintf("%s quantity updated", c.Lines[i].Name)}
	} else {
		line := NewLine(p)
		c.Lines = append(c.Lines, line)
		notice = Notice{Kind: NoticeItemAdded, Message: fmt.Sprintf("%s added to cart", line.Name)}
	}

	if err := s.persist(ctx, c); err != nil {
		return nil, Notice{}, err
	}
	return c, notice, nil
}

// IncreaseLine bumps the quantity by one unless that would exceed the
// recorded stock, in which case the mutation is rejected with the remaining
// figure and nothing is persisted.
func (s *Service) IncreaseLine(ctx context.Context, userID, productID string) (*Cart, error) {
	c, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	i := c.lineIndex(productID)
	if i < 0 {
		return nil, ErrLineNotFound
	}

	if candidate := c.Lines[i].Quantity + 1; candidate > c.Lines[i].Stock {
		return nil, &StockError{ProductID: productID, Available: c.Lines[i].Stock}
	}
	c.Lines[i].Quantity++

	if err := s.persist(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DecreaseLine decrements the quantity, removing the line entirely when it
// is at 1. The cart never holds a zero-quantity line.
func (s *Service) DecreaseLine(ctx context.Context, userID, productID string) (*Cart, error) {
	c, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	i := c.lineIndex(productID)
	if i < 0 {
		return nil, ErrLineNotFound
	}

	if c.Lines[i].Quantity <= 1 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	} else {
		c.Lines[i].Quantity--
	}

	if err := s.persist(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) RemoveLine(ctx context.Context, userID, productID string) (*Cart, Notice, error) {
	c, err := s.Get(ctx, userID)
	if err != nil {
		return nil, Notice{}, err
	}

	i := c.lineIndex(productID)
	if i < 0 {
		return nil, Notice{}, ErrLineNotFound
	}

	name := c.Lines[i].Name
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)

	if err := s.persist(ctx, c); err != nil {
		return nil, Notice{}, err
	}
	return c, Notice{Kind: NoticeItemRemoved, Message: fmt.Sprintf("%s removed from cart", name)}, nil
}

// Clear empties the cart. The notice is only emitted when there was
// something to clear.
func (s *Service) Clear(ctx context.Context, userID string) (Notice, error) {
	c, err := s.Get(ctx, userID)
	if err != nil {
		return Notice{}, err
	}

	if err := s.repo.Clear(ctx, userID); err != nil {
		return Notice{}, err
	}

	if c.IsEmpty() {
		return Notice{}, nil
	}
	return Notice{Kind: NoticeCartCleared, Message: "cart cleared"}, nil
}

func (s *Service) persist(ctx context.Context, c *Cart) error {
	c.UpdatedAt = time.Now()
	if err := s.repo.Upsert(ctx, c); err != nil {
		s.logger.Error().Err(err).Str("user_id", c.UserID).Msg("persist cart")
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}
