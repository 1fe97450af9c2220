package driver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestConnectAPIValidation(t *testing.T) {
	for _, raw := range []string{"", "localhost:3333", "://bad"} {
		if _, err := ConnectAPI(raw, 0, zap.NewNop()); err == nil {
			t.Errorf("ConnectAPI(%q) should fail", raw)
		}
	}
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/stock/1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":1,"amount":3}`))
		case "/api/broken":
			_, _ = w.Write([]byte(`{"id":`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	api, err := ConnectAPI(srv.URL+"/api/", 0, zap.NewNop())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	t.Run("ok", func(t *testing.T) {
		var out struct {
			ID     int `json:"id"`
			Amount int `json:"amount"`
		}
		if err := api.GetJSON(context.Background(), "stock/1", &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.ID != 1 || out.Amount != 3 {
			t.Errorf("got %+v", out)
		}
	})

	t.Run("404 -> status error", func(t *testing.T) {
		var out map[string]any
		err := api.GetJSON(context.Background(), "stock/99", &out)
		if !errors.Is(err, ErrUnexpectedStatus) {
			t.Fatalf("expected ErrUnexpectedStatus, got %v", err)
		}
		var statusErr *StatusError
		if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404 StatusError, got %v", err)
		}
	})

	t.Run("bad body -> decode error", func(t *testing.T) {
		var out map[string]any
		if err := api.GetJSON(context.Background(), "broken", &out); err == nil {
			t.Fatal("expected decode error")
		}
	})
}

func TestNewLogger(t *testing.T) {
	if _, err := NewLogger("debug", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewLogger("loud", false); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
