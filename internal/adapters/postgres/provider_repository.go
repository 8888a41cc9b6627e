package postgres

import (
	"context"
	"fmt"

	"github.com/mmtwa/money-transfer-comparison-sub003/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type ProviderRepository struct {
	pool *pgxpool.Pool
}

func (r *ProviderRepository) GetAll(ctx context.Context) ([]domain.Provider, error) {
	const q = `
		select code, name,
		       fee_type, fee_amount::text, fee_percentage::text, fee_minimum::text, fee_maximum::text,
		       convention, margin::text,
		       transfer_min_hours, transfer_max_hours,
		       methods, api_enabled, active, handler,
		       daily_limit, monthly_limit
		from providers
		order by code;
	`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query providers: %w", err)
	}
	defer rows.Close()

	providers := make([]domain.Provider, 0, 16)
	for rows.Next() {
		var (
			p          domain.Provider
			feeAmount  string
			feePct     string
			feeMin     string
			feeMax     *string
			margin     string
			convention string
			feeType    string
			methods    []string
		)
		if err = rows.Scan(
			&p.Code, &p.Name,
			&feeType, &feeAmount, &feePct, &feeMin, &feeMax,
			&convention, &margin,
			&p.TransferTime.MinHours, &p.TransferTime.MaxHours,
			&methods, &p.APIEnabled, &p.Active, &p.Handler,
			&p.Quota.DailyLimit, &p.Quota.MonthlyLimit,
		); err != nil {
			return nil, fmt.Errorf("failed to scan provider: %w", err)
		}

		p.Fee.Type = domain.FeeType(feeType)
		p.Convention = domain.Convention(convention)
		if p.Fee.Amount, err = decimal.NewFromString(feeAmount); err != nil {
			return nil, fmt.Errorf("bad fee_amount for provider %q: %w", p.Code, err)
		}
		if p.Fee.Percentage, err = decimal.NewFromString(feePct); err != nil {
			return nil, fmt.Errorf("bad fee_percentage for provider %q: %w", p.Code, err)
		}
		if p.Fee.Minimum, err = decimal.NewFromString(feeMin); err != nil {
			return nil, fmt.Errorf("bad fee_minimum for provider %q: %w", p.Code, err)
		}
		if feeMax != nil {
			maxVal, maxErr := decimal.NewFromString(*feeMax)
			if maxErr != nil {
				return nil, fmt.Errorf("bad fee_maximum for provider %q: %w", p.Code, maxErr)
			}
			p.Fee.Maximum = &maxVal
		}
		if p.Margin, err = decimal.NewFromString(margin); err != nil {
			return nil, fmt.Errorf("bad margin for provider %q: %w", p.Code, err)
		}
		p.Methods = make([]domain.Method, 0, len(methods))
		for _, m := range methods {
			p.Methods = append(p.Methods, domain.Method(m))
		}

		providers = append(providers, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating providers: %w", err)
	}
	return providers, nil
}

func (r *ProviderRepository) Upsert(ctx context.Context, p domain.Provider) error {
	const q = `
		insert into providers (
			code, name, fee_type, fee_amount, fee_percentage, fee_minimum, fee_maximum,
			convention, margin, transfer_min_hours, transfer_max_hours,
			methods, api_enabled, active, handler, daily_limit, monthly_limit, updated_at
		)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,now())
		on conflict (code) do update set
			name = excluded.name,
			fee_type = excluded.fee_type,
			fee_amount = excluded.fee_amount,
			fee_percentage = excluded.fee_percentage,
			fee_minimum = excluded.fee_minimum,
			fee_maximum = excluded.fee_maximum,
			convention = excluded.convention,
			margin = excluded.margin,
			transfer_min_hours = excluded.transfer_min_hours,
			transfer_max_hours = excluded.transfer_max_hours,
			methods = excluded.methods,
			api_enabled = excluded.api_enabled,
			active = excluded.active,
			handler = excluded.handler,
			daily_limit = excluded.daily_limit,
			monthly_limit = excluded.monthly_limit,
			updated_at = now();
	`

	methods := make([]string, 0, len(p.Methods))
	for _, m := range p.Methods {
		methods = append(methods, string(m))
	}
	var feeMax *string
	if p.Fee.Maximum != nil {
		s := p.Fee.Maximum.String()
		feeMax = &s
	}

	_, err := r.pool.Exec(ctx, q,
		p.Code, p.Name, string(p.Fee.Type),
		p.Fee.Amount.String(), p.Fee.Percentage.String(), p.Fee.Minimum.String(), feeMax,
		string(p.Convention), p.Margin.String(),
		p.TransferTime.MinHours, p.TransferTime.MaxHours,
		methods, p.APIEnabled, p.Active, p.Handler,
		p.Quota.DailyLimit, p.Quota.MonthlyLimit,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert provider %q: %w", p.Code, err)
	}
	return nil
}

func NewProviderRepository(pool *pgxpool.Pool) *ProviderRepository {
	return &ProviderRepository{pool: pool}
}
