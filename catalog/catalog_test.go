package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"goflare.io/storefront/driver"
)

func TestCatalogProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/1":
			_, _ = w.Write([]byte(`{"id":1,"title":"Tênis de Caminhada Leve Confortável","price":179.9,"image":"https://example.com/1.jpg","brand":"rocket"}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	api, err := driver.ConnectAPI(srv.URL, 0, zap.NewNop())
	if err != nil {
		t.Fatalf("connect api: %v", err)
	}
	catalog := NewCatalog(api, zap.NewNop())

	t.Run("found", func(t *testing.T) {
		product, err := catalog.Product(context.Background(), 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if product.ID != 1 || product.Price != 179.9 || product.Amount != 0 {
			t.Errorf("got %+v", product)
		}
		if string(product.Extra["brand"]) != `"rocket"` {
			t.Errorf("extra fields lost: %v", product.Extra)
		}
	})

	t.Run("upstream failure", func(t *testing.T) {
		if _, err := catalog.Product(context.Background(), 2); err == nil {
			t.Fatal("expected error")
		}
	})
}
