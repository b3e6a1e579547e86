package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-voucher-bot/internal/domain"
	"telegram-voucher-bot/internal/domain/model"
	"telegram-voucher-bot/internal/domain/ports/repository"
)

var _ repository.VoucherRepository = (*PostgresVoucherRepo)(nil)

type PostgresVoucherRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresVoucherRepo(pool *pgxpool.Pool) *PostgresVoucherRepo {
	return &PostgresVoucherRepo{pool: pool}
}

// ImportBatch stores minted LNURLs. Duplicate payloads (re-fetched CSV,
// overlapping batches) are skipped, not errors.
func (r *PostgresVoucherRepo) ImportBatch(ctx context.Context, tx repository.Tx, vouchers []*model.Voucher) (int, error) {
	const q = `
INSERT INTO vouchers (lnurl, link_id, amount_sats, bonus)
VALUES ($1,$2,$3,$4) ON CONFLICT (lnurl) DO NOTHING;
`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return 0, err
	}
	stored := 0
	for _, v := range vouchers {
		if err := v.Validate(); err != nil {
			return stored, err
		}
		tag, err := ex.Exec(ctx, q, v.LNURL, v.LinkID, v.Amount, v.Bonus)
		if err != nil {
			return stored, err
		}
		stored += int(tag.RowsAffected())
	}
	return stored, nil
}

// AssignNext claims the next free voucher for tag. FOR UPDATE SKIP LOCKED
// keeps two concurrent claimants from racing onto the same row; the partial
// unique index on assigned_to backstops it.
func (r *PostgresVoucherRepo) AssignNext(ctx context.Context, tx repository.Tx, bonus bool, tag string) (*model.Voucher, error) {
	const sel = `
SELECT id, lnurl, link_id, amount_sats, bonus
  FROM vouchers
 WHERE assigned_to IS NULL AND bonus=$1
 ORDER BY id
 LIMIT 1
   FOR UPDATE SKIP LOCKED;
`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}

	var v model.Voucher
	if err := ex.QueryRow(ctx, sel, bonus).Scan(&v.ID, &v.LNURL, &v.LinkID, &v.Amount, &v.Bonus); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNoVouchersLeft
		}
		return nil, err
	}

	now := time.Now()
	_, err = ex.Exec(ctx, `UPDATE vouchers SET assigned_to=$1, assigned_at=$2 WHERE id=$3;`, tag, now, v.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, domain.ErrAlreadyClaimed
		}
		return nil, err
	}
	v.AssignedTo = &tag
	v.AssignedAt = &now
	return &v, nil
}

func (r *PostgresVoucherRepo) CountUnassigned(ctx context.Context, tx repository.Tx, bonus bool) (int, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return 0, err
	}
	var n int
	if err := ex.QueryRow(ctx, `SELECT COUNT(*) FROM vouchers WHERE assigned_to IS NULL AND bonus=$1;`, bonus).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresVoucherRepo) CountAssigned(ctx context.Context, tx repository.Tx) (int, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return 0, err
	}
	var n int
	if err := ex.QueryRow(ctx, `SELECT COUNT(*) FROM vouchers WHERE assigned_to IS NOT NULL;`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresVoucherRepo) RemoveInvalid(ctx context.Context, tx repository.Tx) (int, error) {
	const q = `
DELETE FROM vouchers
 WHERE btrim(lnurl) = '' OR btrim(link_id) = '' OR amount_sats <= 0;
`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return 0, err
	}
	tag, err := ex.Exec(ctx, q)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
