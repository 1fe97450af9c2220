package catalog

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"goflare.io/storefront/driver"
	"goflare.io/storefront/models"
)

var _ Catalog = (*catalog)(nil)

// Catalog looks up the display data of a product.
type Catalog interface {
	Product(ctx context.Context, productID int) (*models.Product, error)
}

type catalog struct {
	api    *driver.APIClient
	logger *zap.Logger
}

// NewCatalog returns a Catalog backed by GET /products/{productId}.
func NewCatalog(api *driver.APIClient, logger *zap.Logger) Catalog {
	return &catalog{
		api:    api,
		logger: logger,
	}
}

func (c *catalog) Product(ctx context.Context, productID int) (*models.Product, error) {
	var product models.Product
	if err := c.api.GetJSON(ctx, "products/"+strconv.Itoa(productID), &product); err != nil {
		c.logger.Error("failed to get product", zap.Int("product_id", productID), zap.Error(err))
		return nil, fmt.Errorf("failed to get product %d: %w", productID, err)
	}

	return &product, nil
}
