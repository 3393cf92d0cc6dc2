package contracts

import "time"

// Instrument identifies a tradable equity
// ⭐ SSOT: 종목 식별자는 여기서만 정의
type Instrument struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Sector string `json:"sector"`
}

// PriceRecord represents one trading day of market data for an instrument.
// Append-only: one record per (code, trade date).
type PriceRecord struct {
	Code   string    `json:"code"`
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`

	// 파생 지표 (수집 시 계산됨)
	Return1D      float64 `json:"return_1d"`
	Return5D      float64 `json:"return_5d"`
	Return20D     float64 `json:"return_20d"`
	Volatility20D float64 `json:"volatility_20d"`
	MarketCap     int64   `json:"market_cap"`
}

// FinancialRecord represents a reporting-period snapshot of fundamentals.
// Superseded records are kept; the latest as of a date wins.
type FinancialRecord struct {
	Code       string    `json:"code"`
	ReportDate time.Time `json:"report_date"`

	// Valuation
	PER              float64 `json:"per"`
	PBR              float64 `json:"pbr"`
	PCR              float64 `json:"pcr"`
	PSR              float64 `json:"psr"`
	DividendYield    float64 `json:"dividend_yield"`
	DividendGrowth3Y float64 `json:"dividend_growth_3yr"`
	DividendCapacity float64 `json:"dividend_capacity"`
	DiscountToNAV    float64 `json:"discount_to_nav"`
	LiquidationMargin float64 `json:"liquidation_margin"`

	// Profitability
	ROE             float64 `json:"roe"`
	ROA             float64 `json:"roa"`
	ROIC            float64 `json:"roic"`
	OperatingMargin float64 `json:"operating_margin"`
	NetMargin       float64 `json:"net_margin"`

	// Leverage / liquidity
	DebtRatio        float64 `json:"debt_ratio"`
	InterestCoverage float64 `json:"interest_coverage"`
	CurrentRatio     float64 `json:"current_ratio"`
	QuickRatio       float64 `json:"quick_ratio"`
	NetDebtRatio     float64 `json:"net_debt_ratio"`

	// Cash flow
	FCFYield   float64 `json:"fcf_yield"`
	OCFToNI    float64 `json:"ocf_to_ni"`
	CapexRatio float64 `json:"capex_ratio"`
	CashRatio  float64 `json:"cash_ratio"`

	// Growth inputs (절대값, 성장률은 팩터 계산에서 산출)
	Revenue         int64 `json:"revenue"`
	OperatingProfit int64 `json:"operating_profit"`
	NetIncome       int64 `json:"net_income"`
}
