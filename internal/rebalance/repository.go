package rebalance

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/talos/backend/internal/contracts"
)

// Repository persists rebalance plans, execution reports and holdings
// ⭐ SSOT: 리밸런싱 데이터 저장/조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new rebalance repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SavePlan persists a plan for audit. 발행 후 수정하지 않는다.
func (r *Repository) SavePlan(ctx context.Context, plan *contracts.RebalancePlan) error {
	sells, err := json.Marshal(plan.Sells)
	if err != nil {
		return fmt.Errorf("failed to marshal sells: %w", err)
	}
	buys, err := json.Marshal(plan.Buys)
	if err != nil {
		return fmt.Errorf("failed to marshal buys: %w", err)
	}
	holds, err := json.Marshal(plan.Holds)
	if err != nil {
		return fmt.Errorf("failed to marshal holds: %w", err)
	}

	query := `
		INSERT INTO quant.rebalance_plans (
			plan_date, sells, buys, holds, capital, cash_buffer, source, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (plan_date) DO UPDATE SET
			sells = EXCLUDED.sells,
			buys = EXCLUDED.buys,
			holds = EXCLUDED.holds,
			capital = EXCLUDED.capital,
			cash_buffer = EXCLUDED.cash_buffer,
			source = EXCLUDED.source,
			created_at = EXCLUDED.created_at
	`
	_, err = r.pool.Exec(ctx, query,
		plan.Date, sells, buys, holds, plan.Capital, plan.CashBuffer, plan.Source, plan.CreatedAt,
	)
	if err != nil {
		return &contracts.PersistenceError{Op: "save plan", Err: err}
	}
	return nil
}

// PlanByDate retrieves the plan for a date.
func (r *Repository) PlanByDate(ctx context.Context, date time.Time) (*contracts.RebalancePlan, error) {
	query := `
		SELECT plan_date, sells, buys, holds, capital, cash_buffer, source, created_at
		FROM quant.rebalance_plans
		WHERE plan_date = $1
	`

	var plan contracts.RebalancePlan
	var sells, buys, holds []byte
	err := r.pool.QueryRow(ctx, query, date).Scan(
		&plan.Date, &sells, &buys, &holds,
		&plan.Capital, &plan.CashBuffer, &plan.Source, &plan.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("no plan for %s: %w", date.Format("2006-01-02"), contracts.ErrNotFound)
	}
	if err != nil {
		return nil, &contracts.PersistenceError{Op: "query plan", Err: err}
	}

	if err := json.Unmarshal(sells, &plan.Sells); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sells: %w", err)
	}
	if err := json.Unmarshal(buys, &plan.Buys); err != nil {
		return nil, fmt.Errorf("failed to unmarshal buys: %w", err)
	}
	if err := json.Unmarshal(holds, &plan.Holds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal holds: %w", err)
	}
	return &plan, nil
}

// SaveReport persists an execution report.
func (r *Repository) SaveReport(ctx context.Context, report *contracts.ExecutionReport) error {
	submitted, err := json.Marshal(report.Submitted)
	if err != nil {
		return fmt.Errorf("failed to marshal submitted: %w", err)
	}
	unresolved, err := json.Marshal(report.Unresolved)
	if err != nil {
		return fmt.Errorf("failed to marshal unresolved: %w", err)
	}

	query := `
		INSERT INTO quant.execution_reports (
			report_date, submitted, unresolved, started_at, finished_at
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (report_date) DO UPDATE SET
			submitted = EXCLUDED.submitted,
			unresolved = EXCLUDED.unresolved,
			started_at = EXCLUDED.started_at,
			finished_at = EXCLUDED.finished_at
	`
	_, err = r.pool.Exec(ctx, query,
		report.Date, submitted, unresolved, report.StartedAt, report.FinishedAt,
	)
	if err != nil {
		return &contracts.PersistenceError{Op: "save report", Err: err}
	}
	return nil
}

// Holdings reads the recorded positions.
func (r *Repository) Holdings(ctx context.Context) ([]contracts.Holding, error) {
	query := `
		SELECT stock_code, stock_name, quantity, avg_cost
		FROM quant.holdings
		ORDER BY stock_code ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, &contracts.PersistenceError{Op: "query holdings", Err: err}
	}
	defer rows.Close()

	var holdings []contracts.Holding
	for rows.Next() {
		var h contracts.Holding
		if err := rows.Scan(&h.Code, &h.Name, &h.Quantity, &h.AvgCost); err != nil {
			return nil, &contracts.PersistenceError{Op: "scan holding", Err: err}
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

// ReplaceHoldings overwrites the recorded positions after execution
// confirmations. 전체 교체라 부분 상태가 남지 않는다.
func (r *Repository) ReplaceHoldings(ctx context.Context, holdings []contracts.Holding) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return &contracts.PersistenceError{Op: "begin", Err: err}
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM quant.holdings"); err != nil {
		return &contracts.PersistenceError{Op: "delete holdings", Err: err}
	}

	query := `
		INSERT INTO quant.holdings (stock_code, stock_name, quantity, avg_cost)
		VALUES ($1, $2, $3, $4)
	`
	for _, h := range holdings {
		if _, err := tx.Exec(ctx, query, h.Code, h.Name, h.Quantity, h.AvgCost); err != nil {
			return &contracts.PersistenceError{Op: "insert holding", Err: err}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return &contracts.PersistenceError{Op: "commit", Err: err}
	}
	return nil
}
