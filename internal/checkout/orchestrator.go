// Package checkout turns the cart into a confirmed order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fjod/storefront/internal/cart"
	"github.com/fjod/storefront/internal/domain"
	"go.uber.org/zap"
)

// Cart is the part of the cart model checkout needs.
type Cart interface {
	Hold() (*cart.Hold, cart.Snapshot, error)
}

// Orders is the append-only order history.
type Orders interface {
	AppendOrder(ctx context.Context, order domain.Order) error
}

// Listener receives the user-visible checkout signals. Calls are made on
// the goroutine running the checkout, outside any orchestrator lock.
type Listener interface {
	CheckoutStarted(message string)
	CheckoutSucceeded(order domain.Order, message string)
	CheckoutFailed(err error, message string)
}

// Status is what a client polls while a checkout runs.
type Status struct {
	State    State  `json:"state"`
	Message  string `json:"message,omitempty"`
	OrderID  string `json:"order_id,omitempty"`
	Redirect string `json:"redirect,omitempty"`
	Error    string `json:"error,omitempty"`
}

type Option func(*Orchestrator)

func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

func WithIDGenerator(newID func(time.Time) string) Option {
	return func(o *Orchestrator) {
		o.newID = newID
	}
}

// Orchestrator runs checkouts one at a time against a single cart.
type Orchestrator struct {
	cart      Cart
	orders    Orders
	submitter Submitter
	logger    *zap.Logger
	now       func() time.Time
	newID     func(time.Time) string

	mu        sync.Mutex
	status    Status
	listeners []Listener
}

func New(c Cart, orders Orders, submitter Submitter, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cart:      c,
		orders:    orders,
		submitter: submitter,
		logger:    zap.NewNop(),
		now:       time.Now,
		newID:     NewOrderID,
		status:    Status{State: StateIdle},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// AddListener registers l for checkout signals.
func (o *Orchestrator) AddListener(l Listener) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listeners = append(o.listeners, l)
}

func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// ProcessCheckout submits the cart as an order. On success the order is in
// the history and the cart is empty; on failure the cart is untouched and
// the orchestrator can be run again. Cancelling ctx does not stop a started
// checkout; only its deadline does.
func (o *Orchestrator) ProcessCheckout(ctx context.Context) (domain.Order, error) {
	ctx, cancel := detach(ctx)
	defer cancel()

	listeners, err := o.begin()
	if err != nil {
		return domain.Order{}, err
	}
	for _, l := range listeners {
		l.CheckoutStarted(ProcessingMessage)
	}

	hold, snap, err := o.cart.Hold()
	if err != nil {
		return domain.Order{}, o.fail(listeners, "", err)
	}
	defer hold.Release()

	if snap.IsEmpty() {
		return domain.Order{}, o.fail(listeners, "", ErrEmptyCart)
	}

	now := o.now()
	order := domain.Order{
		ID:        o.newID(now),
		Items:     snap.Items(),
		Total:     snap.Total(),
		CreatedAt: now,
		Status:    domain.OrderStatusConfirmed,
	}

	if err := o.submitter.Submit(ctx, order); err != nil {
		return domain.Order{}, o.fail(listeners, order.ID, fmt.Errorf("submit order: %w", err))
	}
	if err := o.orders.AppendOrder(ctx, order); err != nil {
		return domain.Order{}, o.fail(listeners, order.ID, fmt.Errorf("record order: %w", err))
	}
	if err := hold.Clear(ctx); err != nil {
		// The order stands even if the cart keeps its items.
		o.logger.Error("failed to clear cart after checkout", zap.String("order_id", order.ID), zap.Error(err))
	}

	o.finish(Status{
		State:    StateSucceeded,
		Message:  SuccessMessage,
		OrderID:  order.ID,
		Redirect: ConfirmationPath(order.ID),
	})
	o.logger.Info("order placed", zap.String("order_id", order.ID),
		zap.String("total", order.Total.StringFixed(2)), zap.Int("items", len(order.Items)))
	for _, l := range listeners {
		l.CheckoutSucceeded(order, SuccessMessage)
	}
	return order, nil
}

// detach drops ctx's cancellation but keeps its values and deadline.
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	base := context.WithoutCancel(ctx)
	if deadline, ok := ctx.Deadline(); ok {
		return context.WithDeadline(base, deadline)
	}
	return context.WithCancel(base)
}

func (o *Orchestrator) begin() ([]Listener, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status.State == StateProcessing {
		return nil, ErrCheckoutInProgress
	}
	if !o.status.State.CanTransitionTo(StateProcessing) {
		return nil, ErrIllegalTransition
	}
	o.status = Status{State: StateProcessing, Message: ProcessingMessage}
	return append([]Listener(nil), o.listeners...), nil
}

func (o *Orchestrator) finish(next Status) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status = next
}

func (o *Orchestrator) fail(listeners []Listener, orderID string, err error) error {
	if errors.Is(err, cart.ErrCheckoutInProgress) {
		err = fmt.Errorf("%w: %w", ErrCheckoutInProgress, err)
	}
	o.finish(Status{State: StateFailed, Message: FailureMessage, Error: err.Error()})
	o.logger.Error("checkout failed", zap.String("order_id", orderID), zap.Error(err))
	for _, l := range listeners {
		l.CheckoutFailed(err, FailureMessage)
	}
	return err
}
