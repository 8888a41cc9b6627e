package postgres

import (
	"context"
	"fmt"

	"github.com/mmtwa/money-transfer-comparison-sub003/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type UsageRepository struct {
	pool *pgxpool.Pool
}

func (r *UsageRepository) GetAll(ctx context.Context) (map[string]domain.Usage, error) {
	const q = `select provider_code, today, this_month, last_reset from provider_usage;`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query provider usage: %w", err)
	}
	defer rows.Close()

	usage := make(map[string]domain.Usage, 16)
	for rows.Next() {
		var (
			code string
			u    domain.Usage
		)
		if err = rows.Scan(&code, &u.Today, &u.ThisMonth, &u.LastReset); err != nil {
			return nil, fmt.Errorf("failed to scan provider usage: %w", err)
		}
		usage[code] = u
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating provider usage: %w", err)
	}
	return usage, nil
}

func (r *UsageRepository) Save(ctx context.Context, code string, u domain.Usage) error {
	const q = `
		insert into provider_usage (provider_code, today, this_month, last_reset)
		values ($1, $2, $3, $4)
		on conflict (provider_code) do update
		set today = excluded.today, this_month = excluded.this_month, last_reset = excluded.last_reset;
	`
	if _, err := r.pool.Exec(ctx, q, code, u.Today, u.ThisMonth, u.LastReset); err != nil {
		return fmt.Errorf("failed to save usage for provider %q: %w", code, err)
	}
	return nil
}

func NewUsageRepository(pool *pgxpool.Pool) *UsageRepository {
	return &UsageRepository{pool: pool}
}
