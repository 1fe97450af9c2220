package stock

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"goflare.io/storefront/driver"
	"goflare.io/storefront/models"
)

var _ Oracle = (*oracle)(nil)

// Oracle answers how many units of a product can be purchased right now.
type Oracle interface {
	Stock(ctx context.Context, productID int) (*models.Stock, error)
}

type oracle struct {
	api    *driver.APIClient
	logger *zap.Logger
}

// NewOracle returns an Oracle backed by GET /stock/{productId}.
func NewOracle(api *driver.APIClient, logger *zap.Logger) Oracle {
	return &oracle{
		api:    api,
		logger: logger,
	}
}

func (o *oracle) Stock(ctx context.Context, productID int) (*models.Stock, error) {
	var stock models.Stock
	if err := o.api.GetJSON(ctx, "stock/"+strconv.Itoa(productID), &stock); err != nil {
		o.logger.Error("failed to get stock", zap.Int("product_id", productID), zap.Error(err))
		return nil, fmt.Errorf("failed to get stock for product %d: %w", productID, err)
	}

	return &stock, nil
}
