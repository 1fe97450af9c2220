package slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goflare.io/storefront/driver"
)

var _ Slot = (*Postgres)(nil)

const (
	createSlotTable = `CREATE TABLE IF NOT EXISTS storefront_slots (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	selectSlot = `SELECT value FROM storefront_slots WHERE key = $1`
	upsertSlot = `INSERT INTO storefront_slots (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
)

// Postgres stores values in the storefront_slots table.
type Postgres struct {
	conn               driver.PostgresPool
	transactionManager *driver.TransactionManager
	logger             *zap.Logger
}

func NewPostgres(conn driver.PostgresPool, tm *driver.TransactionManager, logger *zap.Logger) *Postgres {
	return &Postgres{
		conn:               conn,
		transactionManager: tm,
		logger:             logger,
	}
}

// EnsureSchema creates the slot table when it does not exist yet.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.conn.Exec(ctx, createSlotTable); err != nil {
		p.logger.Error("failed to create slot table", zap.Error(err))
		return fmt.Errorf("failed to create slot table: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := p.conn.QueryRow(ctx, selectSlot, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		p.logger.Error("failed to read slot", zap.String("key", key), zap.Error(err))
		return "", false, err
	}

	return value, true, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	return p.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, upsertSlot, key, value); err != nil {
			p.logger.Error("failed to write slot", zap.String("key", key), zap.Error(err))
			return err
		}
		return nil
	})
}
