// Package slot holds the named storage location the cart is mirrored into.
package slot

import (
	"context"
)

// DefaultKey is the well-known key the cart is stored under.
const DefaultKey = "@RocketShoes:cart"

// Slot is a string key-value store. Set always overwrites the whole value.
type Slot interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}
