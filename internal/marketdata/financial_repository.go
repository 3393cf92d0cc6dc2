package marketdata

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/talos/backend/internal/contracts"
)

// FinancialRepository reads fundamental reports from Postgres
// ⭐ SSOT: 재무 데이터 조회는 여기서만
type FinancialRepository struct {
	pool *pgxpool.Pool
}

// NewFinancialRepository creates a new financial repository
func NewFinancialRepository(pool *pgxpool.Pool) *FinancialRepository {
	return &FinancialRepository{pool: pool}
}

// Financials returns up to `periods` most recent reports as of date,
// newest first. 같은 기간의 정정 보고서는 최신 것만 조회된다.
func (r *FinancialRepository) Financials(ctx context.Context, code string, date time.Time, periods int) ([]contracts.FinancialRecord, error) {
	query := `
		SELECT stock_code, report_date,
		       per, pbr, pcr, psr,
		       dividend_yield, dividend_growth_3yr, dividend_capacity,
		       discount_to_nav, liquidation_margin,
		       roe, roa, roic, operating_margin, net_margin,
		       debt_ratio, interest_coverage, current_ratio, quick_ratio, net_debt_ratio,
		       fcf_yield, ocf_to_ni, capex_ratio, cash_ratio,
		       revenue, operating_profit, net_income
		FROM data.fundamentals
		WHERE stock_code = $1 AND report_date <= $2
		ORDER BY report_date DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, code, date, periods)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []contracts.FinancialRecord
	for rows.Next() {
		var f contracts.FinancialRecord
		if err := rows.Scan(
			&f.Code, &f.ReportDate,
			&f.PER, &f.PBR, &f.PCR, &f.PSR,
			&f.DividendYield, &f.DividendGrowth3Y, &f.DividendCapacity,
			&f.DiscountToNAV, &f.LiquidationMargin,
			&f.ROE, &f.ROA, &f.ROIC, &f.OperatingMargin, &f.NetMargin,
			&f.DebtRatio, &f.InterestCoverage, &f.CurrentRatio, &f.QuickRatio, &f.NetDebtRatio,
			&f.FCFYield, &f.OCFToNI, &f.CapexRatio, &f.CashRatio,
			&f.Revenue, &f.OperatingProfit, &f.NetIncome,
		); err != nil {
			return nil, err
		}
		records = append(records, f)
	}
	return records, rows.Err()
}
