package cart

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"goflare.io/storefront/catalog"
	"goflare.io/storefront/models"
	"goflare.io/storefront/models/enum"
	"goflare.io/storefront/slot"
	"goflare.io/storefront/stock"
)

// Store owns the in-memory cart and mirrors every change into a slot.
//
// Each operation reads the cart when it starts and replaces it as a whole when
// it commits. Operations are not serialized against each other, so two
// concurrent updates of the same product may lose one of them.
type Store struct {
	mu   sync.RWMutex
	cart models.Cart

	stock   stock.Oracle
	catalog catalog.Catalog
	slot    slot.Slot
	key     string
	logger  *zap.Logger
}

type Option func(*Store)

// WithKey overrides the slot key the cart is stored under.
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// NewStore restores the cart from the slot, or starts empty when the slot has no value.
func NewStore(ctx context.Context, oracle stock.Oracle, catalog catalog.Catalog, slot slot.Slot, logger *zap.Logger, opts ...Option) (*Store, error) {
	s := &Store{
		stock:   oracle,
		catalog: catalog,
		slot:    slot,
		key:     defaultKey,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	blob, found, err := s.slot.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	s.cart = models.NewCart()
	if found {
		if s.cart, err = models.ParseCart(blob); err != nil {
			return nil, fmt.Errorf("failed to parse stored cart: %w", err)
		}
	}

	s.logger.Debug("cart restored", zap.String("key", s.key), zap.Int("items", len(s.cart)))

	return s, nil
}

const defaultKey = slot.DefaultKey

// Cart returns a copy of the current cart.
func (s *Store) Cart() models.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cart.Clone()
}

func (s *Store) AddProduct(ctx context.Context, productID int) Result {
	current := s.Cart()

	stockModel, err := s.stock.Stock(ctx, productID)
	if err != nil {
		return s.fail(enum.OutcomeAddFailed, current, err)
	}

	productToAdd, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return s.fail(enum.OutcomeAddFailed, current, err)
	}

	// 商品已存在，交由 UpdateProductAmount 增加數量
	if existing, ok := current.Find(productID); ok {
		if existing.Amount >= stockModel.Amount {
			return s.fail(enum.OutcomeStockExceeded, current,
				fmt.Errorf("product %d: have %d, stock %d: %w", productID, existing.Amount, stockModel.Amount, ErrStockExceeded))
		}

		return s.UpdateProductAmount(ctx, models.UpdateProductAmount{
			ProductID: productID,
			Amount:    existing.Amount + 1,
		})
	}

	product := *productToAdd
	product.ID = productID
	product.Amount = 1

	return s.commit(ctx, enum.OutcomeAddFailed, current.With(product))
}

func (s *Store) RemoveProduct(ctx context.Context, productID int) Result {
	current := s.Cart()

	if current.Index(productID) < 0 {
		return s.fail(enum.OutcomeRemoveFailed, current, fmt.Errorf("product %d: %w", productID, ErrProductNotFound))
	}

	return s.commit(ctx, enum.OutcomeRemoveFailed, current.Without(productID))
}

// UpdateProductAmount sets the cart line for params.ProductID to params.Amount.
// Amounts of zero or less are ignored rather than removing the line.
func (s *Store) UpdateProductAmount(ctx context.Context, params models.UpdateProductAmount) Result {
	current := s.Cart()

	if params.Amount <= 0 {
		return Result{Outcome: enum.OutcomeNoop, Cart: current}
	}

	stockModel, err := s.stock.Stock(ctx, params.ProductID)
	if err != nil {
		return s.fail(enum.OutcomeUpdateFailed, current, err)
	}

	if params.Amount > stockModel.Amount {
		return s.fail(enum.OutcomeStockExceeded, current,
			fmt.Errorf("product %d: want %d, stock %d: %w", params.ProductID, params.Amount, stockModel.Amount, ErrStockExceeded))
	}

	return s.commit(ctx, enum.OutcomeUpdateFailed, current.WithAmount(params.ProductID, params.Amount))
}

// commit writes next to the slot and then swaps it in. When the write fails
// the in-memory cart is left alone and failure is reported.
func (s *Store) commit(ctx context.Context, failure enum.Outcome, next models.Cart) Result {
	blob, err := next.Marshal()
	if err != nil {
		return s.fail(failure, s.Cart(), fmt.Errorf("failed to encode cart: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = s.slot.Set(ctx, s.key, blob); err != nil {
		return s.fail(failure, s.cart.Clone(), fmt.Errorf("failed to save cart: %w", err))
	}

	s.cart = next

	return Result{Outcome: enum.OutcomeSuccess, Cart: next.Clone()}
}

func (s *Store) fail(outcome enum.Outcome, cart models.Cart, err error) Result {
	s.logger.Warn("cart operation failed", zap.String("outcome", string(outcome)), zap.Error(err))
	return Result{Outcome: outcome, Cart: cart, Err: err}
}
