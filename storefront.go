package storefront

import (
	"context"
	"errors"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"goflare.io/storefront/cart"
	"goflare.io/storefront/models"
	"goflare.io/storefront/notify"
)

// Service is what the rest of the storefront calls to work with the cart.
type Service interface {
	Cart() models.Cart
	AddProduct(ctx context.Context, productID int) cart.Result
	RemoveProduct(ctx context.Context, productID int) cart.Result
	UpdateProductAmount(ctx context.Context, params models.UpdateProductAmount) cart.Result
	Summary() *models.CartSummary

	// Close waits for pending notifications and events to be delivered.
	Close()
}

type service struct {
	store    *cart.Store
	notifier notify.Notifier

	eventManager *EventManager
	workerPool   *WorkerPool

	logger *zap.Logger
}

func NewService(store *cart.Store, notifier notify.Notifier, natsConn *nats.Conn, workers int, logger *zap.Logger) Service {
	s := &service{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
	s.eventManager = NewEventManager(natsConn, logger)
	s.workerPool = NewWorkerPool(workers, s, logger)

	return s
}

func (s *service) Cart() models.Cart {
	return s.store.Cart()
}

func (s *service) AddProduct(ctx context.Context, productID int) cart.Result {
	res := s.store.AddProduct(ctx, productID)
	s.dispatch(ctx, "add", productID, 0, res)
	return res
}

func (s *service) RemoveProduct(ctx context.Context, productID int) cart.Result {
	res := s.store.RemoveProduct(ctx, productID)
	s.dispatch(ctx, "remove", productID, 0, res)
	return res
}

func (s *service) UpdateProductAmount(ctx context.Context, params models.UpdateProductAmount) cart.Result {
	res := s.store.UpdateProductAmount(ctx, params)
	s.dispatch(ctx, "update", params.ProductID, params.Amount, res)
	return res
}

func (s *service) Summary() *models.CartSummary {
	return s.store.Cart().Summary()
}

func (s *service) Close() {
	s.workerPool.Shutdown()
}

func (s *service) dispatch(ctx context.Context, operation string, productID, amount int, res cart.Result) {
	event := &models.CartEvent{
		Outcome:    res.Outcome,
		Operation:  operation,
		ProductID:  productID,
		Amount:     amount,
		Cart:       res.Cart,
		OccurredAt: time.Now(),
	}
	if message, ok := notify.MessageFor(res.Outcome); ok {
		event.Message = message
	}
	if res.Err != nil {
		event.Error = res.Err.Error()
	}

	s.workerPool.Submit(context.WithoutCancel(ctx), event)
}

// ProcessEvent shows the toast for failed operations and publishes every event.
func (s *service) ProcessEvent(ctx context.Context, event *models.CartEvent) error {
	var errs []error

	if event.Message != "" {
		if err := s.notifier.Notify(ctx, notify.Notification{
			Outcome:   event.Outcome,
			ProductID: event.ProductID,
			Message:   event.Message,
		}); err != nil {
			errs = append(errs, err)
		}
	}

	if err := s.eventManager.Publish(ctx, event); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
