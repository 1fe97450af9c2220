package notify

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"goflare.io/storefront/models/enum"
)

func TestMessageFor(t *testing.T) {
	tests := []struct {
		outcome enum.Outcome
		message string
		shown   bool
	}{
		{enum.OutcomeStockExceeded, "Quantidade solicitada fora de estoque", true},
		{enum.OutcomeAddFailed, "Erro na adição do produto", true},
		{enum.OutcomeRemoveFailed, "Erro na remoção do produto", true},
		{enum.OutcomeUpdateFailed, "Erro na alteração de quantidade do produto", true},
		{enum.OutcomeSuccess, "", false},
		{enum.OutcomeNoop, "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			message, shown := MessageFor(tt.outcome)
			if message != tt.message || shown != tt.shown {
				t.Errorf("MessageFor(%s) = %q, %v", tt.outcome, message, shown)
			}
			if shown != tt.outcome.IsFailure() {
				t.Errorf("IsFailure disagrees for %s", tt.outcome)
			}
		})
	}
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	n := NewLogNotifier(zap.New(core))

	if err := n.Notify(context.Background(), Notification{Outcome: enum.OutcomeAddFailed, ProductID: 3, Message: MessageAddFailed}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := logs.All()
	if len(entries) != 1 || entries[0].Message != MessageAddFailed {
		t.Fatalf("entries = %+v", entries)
	}
	if entries[0].ContextMap()["product_id"] != int64(3) {
		t.Errorf("context = %v", entries[0].ContextMap())
	}
}

func TestMulti(t *testing.T) {
	errSink := errors.New("sink down")
	var got []Notification

	n := Multi(
		Func(func(_ context.Context, n Notification) error { got = append(got, n); return nil }),
		Func(func(context.Context, Notification) error { return errSink }),
		Func(func(_ context.Context, n Notification) error { got = append(got, n); return nil }),
	)

	err := n.Notify(context.Background(), Notification{Outcome: enum.OutcomeRemoveFailed})
	if !errors.Is(err, errSink) {
		t.Fatalf("expected joined sink error, got %v", err)
	}
	if len(got) != 2 {
		t.Errorf("delivered %d times, want 2", len(got))
	}
}
