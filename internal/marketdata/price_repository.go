package marketdata

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/talos/backend/internal/contracts"
)

// PriceRepository reads market data from Postgres
// ⭐ SSOT: 가격 데이터 조회는 여기서만
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// Universe returns active instruments that have a price record on the date,
// ordered by market cap descending.
func (r *PriceRepository) Universe(ctx context.Context, date time.Time) ([]contracts.Instrument, error) {
	query := `
		SELECT s.code, s.name, COALESCE(s.sector, '')
		FROM data.stocks s
		JOIN data.daily_prices dp ON dp.stock_code = s.code AND dp.trade_date = $1
		WHERE s.is_active = true
		ORDER BY dp.market_cap DESC, s.code ASC
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instruments []contracts.Instrument
	for rows.Next() {
		var inst contracts.Instrument
		if err := rows.Scan(&inst.Code, &inst.Name, &inst.Sector); err != nil {
			return nil, err
		}
		instruments = append(instruments, inst)
	}
	return instruments, rows.Err()
}

// DailyPrices returns up to `days` most recent records ending at date,
// newest first.
func (r *PriceRepository) DailyPrices(ctx context.Context, code string, date time.Time, days int) ([]contracts.PriceRecord, error) {
	query := `
		SELECT stock_code, trade_date, open_price, high_price, low_price, close_price, volume,
		       return_1d, return_5d, return_20d, volatility_20d, market_cap
		FROM data.daily_prices
		WHERE stock_code = $1 AND trade_date <= $2
		ORDER BY trade_date DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, code, date, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prices []contracts.PriceRecord
	for rows.Next() {
		var p contracts.PriceRecord
		if err := rows.Scan(
			&p.Code, &p.Date, &p.Open, &p.High, &p.Low, &p.Close, &p.Volume,
			&p.Return1D, &p.Return5D, &p.Return20D, &p.Volatility20D, &p.MarketCap,
		); err != nil {
			return nil, err
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

// LatestPrice returns the most recent record on or before date.
func (r *PriceRepository) LatestPrice(ctx context.Context, code string, date time.Time) (*contracts.PriceRecord, error) {
	query := `
		SELECT stock_code, trade_date, open_price, high_price, low_price, close_price, volume,
		       return_1d, return_5d, return_20d, volatility_20d, market_cap
		FROM data.daily_prices
		WHERE stock_code = $1 AND trade_date <= $2
		ORDER BY trade_date DESC
		LIMIT 1
	`

	var p contracts.PriceRecord
	err := r.pool.QueryRow(ctx, query, code, date).Scan(
		&p.Code, &p.Date, &p.Open, &p.High, &p.Low, &p.Close, &p.Volume,
		&p.Return1D, &p.Return5D, &p.Return20D, &p.Volatility20D, &p.MarketCap,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UniverseRow 유니버스 필터링에 필요한 메타 정보 포함 행
type UniverseRow struct {
	Code      string
	Name      string
	Sector    string
	Close     float64
	MarketCap int64
	ADTV20    int64 // 20일 평균 거래대금 (원)
	PER       float64
	DebtRatio float64
}

// UniverseSnapshot returns instruments with the metadata the universe
// filters need, ordered by market cap descending.
func (r *PriceRepository) UniverseSnapshot(ctx context.Context, date time.Time) ([]UniverseRow, error) {
	query := `
		WITH adtv AS (
			SELECT stock_code, AVG(close_price * volume)::bigint AS adtv20
			FROM data.daily_prices
			WHERE trade_date <= $1 AND trade_date > $1::date - INTERVAL '30 days'
			GROUP BY stock_code
		)
		SELECT
			s.code,
			s.name,
			COALESCE(s.sector, ''),
			dp.close_price,
			dp.market_cap,
			COALESCE(a.adtv20, 0),
			COALESCE(f.per, 0),
			COALESCE(f.debt_ratio, 0)
		FROM data.stocks s
		JOIN data.daily_prices dp ON dp.stock_code = s.code AND dp.trade_date = $1
		LEFT JOIN adtv a ON a.stock_code = s.code
		LEFT JOIN LATERAL (
			SELECT per, debt_ratio
			FROM data.fundamentals
			WHERE stock_code = s.code AND report_date <= $1
			ORDER BY report_date DESC
			LIMIT 1
		) f ON true
		WHERE s.is_active = true
		ORDER BY dp.market_cap DESC, s.code ASC
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []UniverseRow
	for rows.Next() {
		var row UniverseRow
		if err := rows.Scan(
			&row.Code, &row.Name, &row.Sector, &row.Close, &row.MarketCap,
			&row.ADTV20, &row.PER, &row.DebtRatio,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
