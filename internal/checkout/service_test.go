package checkout

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/andeshop/storefront-go/internal/cart"
	"github.com/andeshop/storefront-go/internal/discount"
	"github.com/andeshop/storefront-go/internal/events"
	"github.com/andeshop/storefront-go/internal/upstream"
)

type fakeCarts struct {
	cart    *cart.Cart
	cleared bool
}

func (f *fakeCarts) Get(_ context.Context, _ string) (*cart.Cart, error) {
	return f.cart, nil
}

func (f *fakeCarts) Clear(_ context.Context, _ string) (cart.Notice, error) {
	f.cleared = true
	return cart.Notice{Kind: cart.NoticeCartCleared}, nil
}

type fakeDiscounts struct {
	state   *discount.State
	removed bool
}

func (f *fakeDiscounts) Get(_ context.Context, _ string) (*discount.State, error) {
	return f.state, nil
}

func (f *fakeDiscounts) Remove(_ context.Context, _ string) error {
	f.removed = true
	f.state = nil
	return nil
}

type fakeAPI struct {
	mu sync.Mutex

	consumeFunc func(code string) (*upstream.CodeConsumption, error)
	orderFunc   func(header upstream.OrderHeader) (string, error)
	detailFunc  func(detail upstream.OrderDetail) error

	consumeCalls []string
	orderCalls   []upstream.OrderHeader
	detailCalls  []upstream.OrderDetail
}

func (f *fakeAPI) ConsumeCode(_ context.Context, code string) (*upstream.CodeConsumption, error) {
	f.mu.Lock()
	f.consumeCalls = append(f.consumeCalls, code)
	f.mu.Unlock()
	if f.consumeFunc != nil {
		return f.consumeFunc(code)
	}
	return &upstream.CodeConsumption{Success: true}, nil
}

func (f *fakeAPI) CreateOrder(_ context.Context, header upstream.OrderHeader) (string, error) {
	f.mu.Lock()
	f.orderCalls = append(f.orderCalls, header)
	f.mu.Unlock()
	if f.orderFunc != nil {
		return f.orderFunc(header)
	}
	return "ord-1", nil
}

func (f *fakeAPI) CreateOrderDetail(_ context.Context, detail upstream.OrderDetail) error {
	f.mu.Lock()
	f.detailCalls = append(f.detailCalls, detail)
	f.mu.Unlock()
	if f.detailFunc != nil {
		return f.detailFunc(detail)
	}
	return nil
}

func (f *fakeAPI) calls() (consume []string, orders []upstream.OrderHeader, details []upstream.OrderDetail) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.consumeCalls, f.orderCalls, f.detailCalls
}

type fakeSnapshots struct {
	orderID string
	lines   []cart.Line
}

func (f *fakeSnapshots) Save(_ context.Context, orderID, _ string, lines []cart.Line) error {
	f.orderID = orderID
	f.lines = lines
	return nil
}

func (f *fakeSnapshots) Get(_ context.Context, _ string) ([]cart.Line, error) {
	return f.lines, nil
}

type fakePublisher struct {
	events []events.OrderSubmitted
}

func (f *fakePublisher) PublishOrderSubmitted(_ context.Context, ev events.OrderSubmitted) error {
	f.events = append(f.events, ev)
	return nil
}

func twoLineCart() *cart.Cart {
	return &cart.Cart{
		ID:     "c1",
		UserID: "u1",
		Lines: []cart.Line{
			{ProductID: "1", Name: "Widget", UnitPrice: 100, Quantity: 2, Stock: 5},
			{ProductID: "2", Name: "Gadget", UnitPrice: 9.5, Quantity: 1, Stock: 5},
		},
	}
}

type fixture struct {
	carts     *fakeCarts
	discounts *fakeDiscounts
	api       *fakeAPI
	snapshots *fakeSnapshots
	publisher *fakePublisher
	svc       *Service
}

func newFixture(c *cart.Cart, state *discount.State) *fixture {
	f := &fixture{
		carts:     &fakeCarts{cart: c},
		discounts: &fakeDiscounts{state: state},
		api:       &fakeAPI{},
		snapshots: &fakeSnapshots{},
		publisher: &fakePublisher{},
	}
	f.svc = NewService(f.carts, f.discounts, f.api, f.snapshots, f.publisher, "573001112233", 2*time.Second, zerolog.Nop())
	return f
}

func TestSubmitEmptyCart(t *testing.T) {
	f := newFixture(&cart.Cart{UserID: "u1"}, nil)

	_, err := f.svc.Submit(context.Background(), "u1", "cust-1")
	require.ErrorIs(t, err, ErrEmptyCart)

	_, orders, details := f.api.calls()
	require.Empty(t, orders)
	require.Empty(t, details)
}

func TestSubmitRequiresLogin(t *testing.T) {
	f := newFixture(twoLineCart(), &discount.State{Code: "SAVE10", Percent: 0.1})

	_, err := f.svc.Submit(context.Background(), "u1", "")
	require.ErrorIs(t, err, ErrLoginRequired)

	consume, orders, details := f.api.calls()
	require.Empty(t, consume, "no upstream call before the identity guard")
	require.Empty(t, orders)
	require.Empty(t, details)
}

func TestSubmitWithoutDiscount(t *testing.T) {
	f := newFixture(twoLineCart(), nil)

	result, err := f.svc.Submit(context.Background(), "u1", "cust-1")
	require.NoError(t, err)

	require.Equal(t, StatusSucceeded, result.Status)
	require.Equal(t, "ord-1", result.OrderID)
	require.Equal(t, 209.5, result.Total)
	require.False(t, result.DiscountApplied)
	require.Empty(t, result.FailedDetails)

	_, orders, details := f.api.calls()
	require.Len(t, orders, 1)
	require.Equal(t, "cust-1", orders[0].CustomerID)
	require.Equal(t, 209.5, orders[0].Total)
	require.Equal(t, "pending", orders[0].Status)
	require.Empty(t, orders[0].DiscountCode)

	require.Len(t, details, 2)
	for _, d := range details {
		require.Equal(t, "ord-1", d.OrderID)
	}

	require.True(t, f.carts.cleared)
	require.True(t, f.discounts.removed)
	require.Equal(t, "ord-1", f.snapshots.orderID)
	require.Len(t, f.snapshots.lines, 2)
	require.True(t, strings.HasPrefix(result.WhatsAppURL, "https://wa.me/573001112233?text="))
	require.Equal(t, int64(2000), result.WhatsAppDelayMs)
}

func TestSubmitConsumesDiscount(t *testing.T) {
	f := newFixture(&cart.Cart{
		UserID: "u1",
		Lines:  []cart.Line{{ProductID: "1", Name: "Widget", UnitPrice: 100, Quantity: 2, Stock: 5}},
	}, &discount.State{Code: "SAVE10", Percent: 0.1})

	result, err := f.svc.Submit(context.Background(), "u1", "cust-1")
	require.NoError(t, err)

	require.Equal(t, StatusSucceeded, result.Status)
	require.Equal(t, 180.0, result.Total)
	require.True(t, result.DiscountApplied)
	require.False(t, result.DiscountDropped)

	consume, orders, _ := f.api.calls()
	require.Equal(t, []string{"SAVE10"}, consume)
	require.Equal(t, "SAVE10", orders[0].DiscountCode)
	require.Equal(t, 0.1, orders[0].DiscountPercent)
	require.Equal(t, 180.0, orders[0].Total)
}

func TestSubmitDropsDiscountWhenConsumptionFails(t *testing.T) {
	f := newFixture(&cart.Cart{
		UserID: "u1",
		Lines:  []cart.Line{{ProductID: "1", Name: "Widget", UnitPrice: 100, Quantity: 2, Stock: 5}},
	}, &discount.State{Code: "SAVE10", Percent: 0.1})
	f.api.consumeFunc = func(string) (*upstream.CodeConsumption, error) {
		return &upstream.CodeConsumption{Success: false, Message: "code already used"}, nil
	}

	result, err := f.svc.Submit(context.Background(), "u1", "cust-1")
	require.NoError(t, err, "consumption failure is not fatal")

	require.Equal(t, StatusSucceeded, result.Status)
	require.True(t, result.DiscountDropped)
	require.Equal(t, "code already used", result.DiscountDropReason)
	require.False(t, result.DiscountApplied)
	require.Equal(t, 200.0, result.Total, "order goes through undiscounted")
	require.True(t, f.discounts.removed, "local discount state cleared")

	_, orders, _ := f.api.calls()
	require.Empty(t, orders[0].DiscountCode)
}

func TestSubmitDropsDiscountOnConsumptionError(t *testing.T) {
	f := newFixture(twoLineCart(), &discount.State{Code: "SAVE10", Percent: 0.1})
	f.api.consumeFunc = func(string) (*upstream.CodeConsumption, error) {
		return nil, &upstream.APIError{Status: 409, Message: "no uses left"}
	}

	result, err := f.svc.Submit(context.Background(), "u1", "cust-1")
	require.NoError(t, err)
	require.True(t, result.DiscountDropped)
	require.Equal(t, "no uses left", result.DiscountDropReason)
}

func TestSubmitOrderCreationFailureIsTerminal(t *testing.T) {
	f := newFixture(twoLineCart(), nil)
	f.api.orderFunc = func(upstream.OrderHeader) (string, error) {
		return "", &upstream.APIError{Status: 500, Message: "boom"}
	}

	result, err := f.svc.Submit(context.Background(), "u1", "cust-1")
	require.Error(t, err)
	require.NotNil(t, result)
	require.Equal(t, StatusFailedOrderCreation, result.Status)
	require.NotEmpty(t, result.WhatsAppURL, "fallback link still offered")
	require.Contains(t, result.Message, "not be registered")

	_, _, details := f.api.calls()
	require.Empty(t, details, "no detail fan-out without an order id")
	require.False(t, f.carts.cleared, "cart stays re-attemptable")
	require.Empty(t, f.publisher.events)
}

func TestSubmitToleratesPartialDetailFailure(t *testing.T) {
	f := newFixture(twoLineCart(), nil)
	f.api.detailFunc = func(d upstream.OrderDetail) error {
		if d.ProductID == "2" {
			return errors.New("detail rejected")
		}
		return nil
	}

	result, err := f.svc.Submit(context.Background(), "u1", "cust-1")
	require.NoError(t, err, "partial detail failure is not fatal")

	require.Equal(t, StatusSucceeded, result.Status)
	require.Len(t, result.FailedDetails, 1)
	require.Equal(t, "2", result.FailedDetails[0].ProductID)

	require.Len(t, f.publisher.events, 1)
	require.Equal(t, []string{"2"}, f.publisher.events[0].FailedDetails)
}

func TestSubmitPublishesOrderSubmitted(t *testing.T) {
	f := newFixture(twoLineCart(), nil)

	_, err := f.svc.Submit(context.Background(), "u1", "cust-1")
	require.NoError(t, err)

	require.Len(t, f.publisher.events, 1)
	ev := f.publisher.events[0]
	require.Equal(t, "ord-1", ev.OrderID)
	require.Equal(t, "cust-1", ev.CustomerID)
	require.Len(t, ev.Items, 2)
}
