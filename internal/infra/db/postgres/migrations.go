package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// schema is applied at startup; statements are idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS claims (
  id            TEXT PRIMARY KEY,
  telegram_id   BIGINT NOT NULL,
  username      TEXT NOT NULL DEFAULT '',
  amount_sats   BIGINT NOT NULL,
  won_bonus     BOOLEAN NOT NULL DEFAULT FALSE,
  bonus_sats    BIGINT,
  claimed_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS claims_telegram_id_key ON claims (telegram_id);

CREATE TABLE IF NOT EXISTS vouchers (
  id           BIGSERIAL PRIMARY KEY,
  lnurl        TEXT NOT NULL UNIQUE,
  link_id      TEXT NOT NULL,
  amount_sats  BIGINT NOT NULL,
  bonus        BOOLEAN NOT NULL DEFAULT FALSE,
  assigned_to  TEXT,
  assigned_at  TIMESTAMPTZ
);
CREATE UNIQUE INDEX IF NOT EXISTS vouchers_assigned_to_key ON vouchers (assigned_to) WHERE assigned_to IS NOT NULL;
CREATE INDEX IF NOT EXISTS vouchers_free_idx ON vouchers (bonus) WHERE assigned_to IS NULL;
`

// Migrate creates the ledger and pool tables if they do not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
