package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-voucher-bot/internal/domain"
	"telegram-voucher-bot/internal/domain/model"
	"telegram-voucher-bot/internal/domain/ports/repository"
)

var _ repository.ClaimRepository = (*PostgresClaimRepo)(nil)

// pgUniqueViolation is the SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

type PostgresClaimRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresClaimRepo(pool *pgxpool.Pool) *PostgresClaimRepo {
	return &PostgresClaimRepo{pool: pool}
}

// Save inserts the claim. The unique index on telegram_id makes the insert
// the dedup authority: a losing concurrent writer gets ErrAlreadyClaimed.
func (r *PostgresClaimRepo) Save(ctx context.Context, tx repository.Tx, rec *model.ClaimRecord) error {
	const q = `
INSERT INTO claims (id, telegram_id, username, amount_sats, won_bonus, bonus_sats, claimed_at)
VALUES ($1,$2,$3,$4,$5,$6,$7);
`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	_, err = ex.Exec(ctx, q, rec.ID, rec.TelegramID, rec.Username, rec.Amount, rec.WonBonus, rec.BonusAmount, rec.ClaimedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrAlreadyClaimed
		}
		return err
	}
	return nil
}

func (r *PostgresClaimRepo) FindByTelegramID(ctx context.Context, tx repository.Tx, tgID int64) (*model.ClaimRecord, error) {
	const q = `
SELECT id, telegram_id, username, amount_sats, won_bonus, bonus_sats, claimed_at
  FROM claims WHERE telegram_id=$1;
`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	var rec model.ClaimRecord
	if err := ex.QueryRow(ctx, q, tgID).Scan(&rec.ID, &rec.TelegramID, &rec.Username, &rec.Amount, &rec.WonBonus, &rec.BonusAmount, &rec.ClaimedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *PostgresClaimRepo) HasClaimed(ctx context.Context, tx repository.Tx, tgID int64) (bool, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return false, err
	}
	var n int
	if err := ex.QueryRow(ctx, `SELECT COUNT(*) FROM claims WHERE telegram_id=$1;`, tgID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostgresClaimRepo) ListRecentWinners(ctx context.Context, tx repository.Tx, n int) ([]*model.ClaimRecord, error) {
	const q = `
SELECT id, telegram_id, username, amount_sats, won_bonus, bonus_sats, claimed_at
  FROM claims WHERE won_bonus ORDER BY claimed_at DESC LIMIT $1;
`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, q, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.ClaimRecord
	for rows.Next() {
		var rec model.ClaimRecord
		if err := rows.Scan(&rec.ID, &rec.TelegramID, &rec.Username, &rec.Amount, &rec.WonBonus, &rec.BonusAmount, &rec.ClaimedAt); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

func (r *PostgresClaimRepo) CountClaims(ctx context.Context, tx repository.Tx) (int, error) {
	return r.countWhere(ctx, tx, `SELECT COUNT(*) FROM claims;`)
}

func (r *PostgresClaimRepo) CountBonusWins(ctx context.Context, tx repository.Tx) (int, error) {
	return r.countWhere(ctx, tx, `SELECT COUNT(*) FROM claims WHERE won_bonus;`)
}

func (r *PostgresClaimRepo) countWhere(ctx context.Context, tx repository.Tx, q string) (int, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return 0, err
	}
	var n int
	if err := ex.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// RemoveInvalid deletes rows that violate the ledger invariants: missing
// IDs or amounts, or bonus fields inconsistent with won_bonus. Well-formed
// rows are never touched.
func (r *PostgresClaimRepo) RemoveInvalid(ctx context.Context, tx repository.Tx) (int, error) {
	const q = `
DELETE FROM claims
 WHERE telegram_id <= 0
    OR amount_sats <= 0
    OR (won_bonus AND (bonus_sats IS NULL OR bonus_sats <= 0))
    OR (NOT won_bonus AND bonus_sats IS NOT NULL);
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
