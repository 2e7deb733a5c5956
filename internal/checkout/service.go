// Package checkout turns the current cart and discount state into an
// upstream order plus a WhatsApp deep link.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/andeshop/storefront-go/internal/cart"
	"github.com/andeshop/storefront-go/internal/discount"
	"github.com/andeshop/storefront-go/internal/events"
	"github.com/andeshop/storefront-go/internal/upstream"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrLoginRequired = errors.New("login required to place an order")
)

type Carts interface {
	Get(ctx context.Context, userID string) (*cart.Cart, error)
	Clear(ctx context.Context, userID string) (cart.Notice, error)
}

type Discounts interface {
	Get(ctx context.Context, userID string) (*discount.State, error)
	Remove(ctx context.Context, userID string) error
}

type StoreAPI interface {
	ConsumeCode(ctx context.Context, code string) (*upstream.CodeConsumption, error)
	CreateOrder(ctx context.Context, header upstream.OrderHeader) (string, error)
	CreateOrderDetail(ctx context.Context, detail upstream.OrderDetail) error
}

type Publisher interface {
	PublishOrderSubmitted(ctx context.Context, ev events.OrderSubmitted) error
}

type DetailFailure struct {
	ProductID string `json:"productId"`
	Reason    string `json:"reason"`
}

// Result is the outcome of one submission attempt. WhatsAppURL is always
// set: on success it carries the registered order summary, on header
// failure it is the fallback link for placing the order manually.
// WhatsAppDelayMs is how long the client should show the confirmation
// before opening the link.
type Result struct {
	Status             Status          `json:"status"`
	OrderID            string          `json:"orderId,omitempty"`
	Total              float64         `json:"total"`
	DiscountApplied    bool            `json:"discountApplied"`
	DiscountDropped    bool            `json:"discountDropped,omitempty"`
	DiscountDropReason string          `json:"discountDropReason,omitempty"`
	FailedDetails      []DetailFailure `json:"failedDetails,omitempty"`
	WhatsAppURL        string          `json:"whatsAppUrl"`
	WhatsAppDelayMs    int64           `json:"whatsAppDelayMs"`
	Message            string          `json:"message"`
}

type Service struct {
	carts     Carts
	discounts Discounts
	api       StoreAPI
	snapshots SnapshotRepository
	publisher Publisher
	phone     string
	delay     time.Duration
	logger    zerolog.Logger
}

func NewService(carts Carts, discounts Discounts, api StoreAPI, snapshots SnapshotRepository, publisher Publisher, phone string, delay time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		carts:     carts,
		discounts: discounts,
		api:       api,
		snapshots: snapshots,
		publisher: publisher,
		phone:     phone,
		delay:     delay,
		logger:    logger.With().Str("component", "checkout").Logger(),
	}
}

// Submit runs the whole submission flow for one user. customerID is the
// authenticated identity; an empty one halts before any upstream call.
func (s *Service) Submit(ctx context.Context, userID, customerID string) (*Result, error) {
	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if customerID == "" {
		return nil, ErrLoginRequired
	}

	logger := s.logger.With().Str("user_id", userID).Str("customer_id", customerID).Logger()
	logger.Info().Int("lines", len(c.Lines)).Msg("submitting order")

	subtotal := c.TotalPrice()
	total := subtotal

	// Step 1: consume the active code, if any. Failure here drops the
	// discount and the order goes through undiscounted.
	state, err := s.discounts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load discount state: %w", err)
	}

	result := &Result{Status: StatusSubmitting}
	var consumed *discount.State
	if state != nil {
		consumption, err := s.api.ConsumeCode(ctx, state.Code)
		switch {
		case err == nil && consumption.Success:
			consumed = state
			total = discount.DiscountedTotal(subtotal, state.Percent)
		default:
			reason := "the discount code could not be applied"
			if err != nil {
				var apiErr *upstream.APIError
				if errors.As(err, &apiErr) {
					reason = apiErr.Message
				}
			} else if consumption.Message != "" {
				reason = consumption.Message
			}
			logger.Warn().Str("code", state.Code).Str("reason", reason).Msg("discount consumption failed, continuing undiscounted")
			if err := s.discounts.Remove(ctx, userID); err != nil {
				logger.Error().Err(err).Msg("clear dropped discount state")
			}
			result.DiscountDropped = true
			result.DiscountDropReason = reason
		}
	}

	// Step 2: order header. Failure is terminal for this attempt; the user
	// still gets a link to coordinate the order manually.
	header := upstream.OrderHeader{
		CustomerID: customerID,
		Total:      total,
		Status:     "pending",
	}
	if consumed != nil {
		header.DiscountCode = consumed.Code
		header.DiscountPercent = consumed.Percent
	}

	orderID, err := s.api.CreateOrder(ctx, header)
	if err != nil {
		logger.Error().Err(err).Msg("create order header")
		summary := BuildOrderSummary("", c.Lines, subtotal, consumed, total)
		result.Status = StatusFailedOrderCreation
		result.Total = total
		result.WhatsAppURL = WhatsAppURL(s.phone, summary)
		result.WhatsAppDelayMs = s.delay.Milliseconds()
		result.Message = "the order could not be registered; you can still send it over WhatsApp"
		return result, err
	}

	// Step 3: best-effort detail fan-out. Individual failures are recorded
	// and logged, never fatal, never retried.
	result.FailedDetails = s.submitDetails(ctx, logger, orderID, c.Lines)

	// Step 4: snapshot, clear, publish, build the deep link.
	if err := s.snapshots.Save(ctx, orderID, customerID, c.Lines); err != nil {
		logger.Error().Err(err).Str("order_id", orderID).Msg("save order snapshot")
	}

	if _, err := s.carts.Clear(ctx, userID); err != nil {
		logger.Error().Err(err).Msg("clear cart after submission")
	}
	if err := s.discounts.Remove(ctx, userID); err != nil {
		logger.Error().Err(err).Msg("clear discount after submission")
	}

	s.publishSubmitted(ctx, logger, orderID, customerID, total, consumed, c.Lines, result.FailedDetails)

	summary := BuildOrderSummary(orderID, c.Lines, subtotal, consumed, total)

	result.Status = StatusSucceeded
	result.OrderID = orderID
	result.Total = total
	result.DiscountApplied = consumed != nil
	result.WhatsAppURL = WhatsAppURL(s.phone, summary)
	result.WhatsAppDelayMs = s.delay.Milliseconds()
	result.Message = fmt.Sprintf("order %s registered", orderID)

	logger.Info().Str("order_id", orderID).Float64("total", total).Int("failed_details", len(result.FailedDetails)).Msg("order submitted")
	return result, nil
}

func (s *Service) submitDetails(ctx context.Context, logger zerolog.Logger, orderID string, lines []cart.Line) []DetailFailure {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		failures []DetailFailure
	)

	for _, l := range lines {
		wg.Add(1)
		go func(l cart.Line) {
			defer wg.Done()

			detail := upstream.OrderDetail{
				OrderID:   orderID,
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
			}
			if err := s.api.CreateOrderDetail(ctx, detail); err != nil {
				logger.Error().Err(err).Str("order_id", orderID).Str("product_id", l.ProductID).Msg("submit order detail")
				mu.Lock()
				failures = append(failures, DetailFailure{ProductID: l.ProductID, Reason: err.Error()})
				mu.Unlock()
			}
		}(l)
	}
	wg.Wait()

	return failures
}

func (s *Service) publishSubmitted(ctx context.Context, logger zerolog.Logger, orderID, customerID string, total float64, consumed *discount.State, lines []cart.Line, failures []DetailFailure) {
	if s.publisher == nil {
		return
	}

	ev := events.OrderSubmitted{
		OrderID:    orderID,
		CustomerID: customerID,
		Total:      total,
	}
	if consumed != nil {
		ev.DiscountCode = consumed.Code
		ev.DiscountPercent = consumed.Percent
	}
	for _, l := range lines {
		ev.Items = append(ev.Items, events.OrderItem{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	for _, f := range failures {
		ev.FailedDetails = append(ev.FailedDetails, f.ProductID)
	}

	if err := s.publisher.PublishOrderSubmitted(ctx, ev); err != nil {
		logger.Error().Err(err).Str("order_id", orderID).Msg("publish OrderSubmitted")
	}
}
