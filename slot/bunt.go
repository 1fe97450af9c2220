package slot

import (
	"context"
	"errors"

	"github.com/tidwall/buntdb"
	"go.uber.org/zap"
)

var _ Slot = (*Bunt)(nil)

// Bunt stores values in a BuntDB file, the local-storage flavoured default.
type Bunt struct {
	db     *buntdb.DB
	logger *zap.Logger
}

func NewBunt(db *buntdb.DB, logger *zap.Logger) *Bunt {
	return &Bunt{
		db:     db,
		logger: logger,
	}
}

func (b *Bunt) Get(_ context.Context, key string) (string, bool, error) {
	var value string
	err := b.db.View(func(tx *buntdb.Tx) error {
		var err error
		value, err = tx.Get(key)
		return err
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		b.logger.Error("failed to read slot", zap.String("key", key), zap.Error(err))
		return "", false, err
	}

	return value, true, nil
}

func (b *Bunt) Set(_ context.Context, key, value string) error {
	err := b.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(key, value, nil)
		return err
	})
	if err != nil {
		b.logger.Error("failed to write slot", zap.String("key", key), zap.Error(err))
		return err
	}

	return nil
}
