// Package notify turns failed cart operations into user-facing messages.
package notify

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"goflare.io/storefront/models/enum"
)

const (
	MessageStockExceeded = "Quantidade solicitada fora de estoque"
	MessageAddFailed     = "Erro na adição do produto"
	MessageRemoveFailed  = "Erro na remoção do produto"
	MessageUpdateFailed  = "Erro na alteração de quantidade do produto"
)

var messages = map[enum.Outcome]string{
	enum.OutcomeStockExceeded: MessageStockExceeded,
	enum.OutcomeAddFailed:     MessageAddFailed,
	enum.OutcomeRemoveFailed:  MessageRemoveFailed,
	enum.OutcomeUpdateFailed:  MessageUpdateFailed,
}

// MessageFor returns the toast text for outcome. Outcomes that are not
// shown to the user return false.
func MessageFor(outcome enum.Outcome) (string, bool) {
	message, ok := messages[outcome]
	return message, ok
}

// Notification is a single error toast.
type Notification struct {
	Outcome   enum.Outcome `json:"outcome"`
	ProductID int          `json:"product_id"`
	Message   string       `json:"message"`
}

// Notifier is the sink notifications are delivered to.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Func adapts a plain function to a Notifier.
type Func func(ctx context.Context, n Notification) error

func (f Func) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

type logNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier writes each notification to logger at error level.
func NewLogNotifier(logger *zap.Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (l *logNotifier) Notify(_ context.Context, n Notification) error {
	l.logger.Error(n.Message,
		zap.String("outcome", string(n.Outcome)),
		zap.Int("product_id", n.ProductID),
	)
	return nil
}

type multi []Notifier

// Multi delivers to every notifier and joins their errors.
func Multi(notifiers ...Notifier) Notifier {
	return multi(notifiers)
}

func (m multi) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
