package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"goflare.io/storefront/models"
	"goflare.io/storefront/models/enum"
)

const eventSubjectPrefix = "storefront.cart"

// EventSubject is the NATS subject a cart event with outcome is published on.
func EventSubject(outcome enum.Outcome) string {
	return eventSubjectPrefix + "." + string(outcome)
}

type EventHandler func(context.Context, *models.CartEvent) error

type EventManager struct {
	natsConn *nats.Conn
	mu       sync.RWMutex
	handlers map[enum.Outcome]EventHandler
	logger   *zap.Logger
}

// NewEventManager returns a manager publishing on natsConn. A nil connection
// turns Publish into a no-op so the cart works without a broker.
func NewEventManager(natsConn *nats.Conn, logger *zap.Logger) *EventManager {
	return &EventManager{
		natsConn: natsConn,
		handlers: make(map[enum.Outcome]EventHandler),
		logger:   logger,
	}
}

func (em *EventManager) RegisterHandler(outcome enum.Outcome, handler EventHandler) {
	em.mu.Lock()
	defer em.mu.Unlock()

	em.handlers[outcome] = handler
}

func (em *EventManager) GetHandler(outcome enum.Outcome) (EventHandler, bool) {
	em.mu.RLock()
	defer em.mu.RUnlock()

	handler, exists := em.handlers[outcome]
	return handler, exists
}

func (em *EventManager) Publish(_ context.Context, event *models.CartEvent) error {
	if em.natsConn == nil {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal cart event: %w", err)
	}

	if err = em.natsConn.Publish(EventSubject(event.Outcome), data); err != nil {
		em.logger.Error("Failed to publish cart event", zap.String("outcome", string(event.Outcome)), zap.Error(err))
		return err
	}

	return nil
}

// SubscribeToEvents feeds every cart event seen on NATS into wp.
func (em *EventManager) SubscribeToEvents(wp *WorkerPool) (*nats.Subscription, error) {
	if em.natsConn == nil {
		return nil, fmt.Errorf("no NATS connection")
	}

	return em.natsConn.Subscribe(eventSubjectPrefix+".>", func(msg *nats.Msg) {
		var event models.CartEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			em.logger.Error("Failed to unmarshal event", zap.String("subject", msg.Subject), zap.Error(err))
			return
		}

		wp.Submit(context.Background(), &event)
	})
}

// ProcessEvent dispatches event to the handler registered for its outcome.
func (em *EventManager) ProcessEvent(ctx context.Context, event *models.CartEvent) error {
	handler, exists := em.GetHandler(event.Outcome)
	if !exists {
		em.logger.Debug("no handler registered for outcome", zap.String("outcome", string(event.Outcome)))
		return nil
	}

	return handler(ctx, event)
}
