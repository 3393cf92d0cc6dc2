package screening

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/talos/backend/internal/contracts"
)

// 날짜 단위 재계산 직렬화를 위한 어드바이저리 락 네임스페이스
const lockNamespace = 7401

// Repository persists factor scores and portfolio targets
// ⭐ SSOT: 스코어링 결과 저장/조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new screening repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// dayKey converts a date to the advisory lock key.
func dayKey(date time.Time) int32 {
	return int32(date.Unix() / 86400)
}

// SaveRun replaces the scores and the target for a date in ONE transaction.
// 같은 날짜 동시 실행은 락으로 직렬화되고, 실패 시 이전 상태가 그대로 남는다.
func (r *Repository) SaveRun(ctx context.Context, date time.Time, scores []contracts.FactorScore, target *contracts.PortfolioTarget) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return &contracts.PersistenceError{Op: "begin", Err: err}
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1, $2)", lockNamespace, dayKey(date)); err != nil {
		return &contracts.PersistenceError{Op: "advisory lock", Err: err}
	}

	if err := replaceScoresTx(ctx, tx, date, scores); err != nil {
		return err
	}
	if err := replaceTargetTx(ctx, tx, target); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return &contracts.PersistenceError{Op: "commit", Err: err}
	}
	return nil
}

// ReplaceScores replaces all scores for a date atomically.
func (r *Repository) ReplaceScores(ctx context.Context, date time.Time, scores []contracts.FactorScore) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return &contracts.PersistenceError{Op: "begin", Err: err}
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1, $2)", lockNamespace, dayKey(date)); err != nil {
		return &contracts.PersistenceError{Op: "advisory lock", Err: err}
	}
	if err := replaceScoresTx(ctx, tx, date, scores); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return &contracts.PersistenceError{Op: "commit", Err: err}
	}
	return nil
}

// ReplaceTarget replaces the target portfolio for its date atomically.
func (r *Repository) ReplaceTarget(ctx context.Context, target *contracts.PortfolioTarget) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return &contracts.PersistenceError{Op: "begin", Err: err}
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1, $2)", lockNamespace, dayKey(target.Date)); err != nil {
		return &contracts.PersistenceError{Op: "advisory lock", Err: err}
	}
	if err := replaceTargetTx(ctx, tx, target); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return &contracts.PersistenceError{Op: "commit", Err: err}
	}
	return nil
}

func replaceScoresTx(ctx context.Context, tx pgx.Tx, date time.Time, scores []contracts.FactorScore) error {
	if _, err := tx.Exec(ctx, "DELETE FROM quant.factor_scores WHERE calc_date = $1", date); err != nil {
		return &contracts.PersistenceError{Op: "delete scores", Err: err}
	}

	query := `
		INSERT INTO quant.factor_scores (
			stock_code, stock_name, calc_date,
			value_score, momentum_score, quality_score, growth_score,
			total_score, rank, reason
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	for _, s := range scores {
		if _, err := tx.Exec(ctx, query,
			s.Code, s.Name, date,
			s.Value, s.Momentum, s.Quality, s.Growth,
			s.Total, s.Rank, s.Reason,
		); err != nil {
			return &contracts.PersistenceError{Op: "insert score", Err: err}
		}
	}
	return nil
}

func replaceTargetTx(ctx context.Context, tx pgx.Tx, target *contracts.PortfolioTarget) error {
	if _, err := tx.Exec(ctx, "DELETE FROM quant.portfolio_targets WHERE calc_date = $1", target.Date); err != nil {
		return &contracts.PersistenceError{Op: "delete target", Err: err}
	}

	query := `
		INSERT INTO quant.portfolio_targets (
			calc_date, stock_code, stock_name, rank, weight, reason
		) VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, p := range target.Positions {
		if _, err := tx.Exec(ctx, query,
			target.Date, p.Code, p.Name, p.Rank, p.Weight, p.Reason,
		); err != nil {
			return &contracts.PersistenceError{Op: "insert target", Err: err}
		}
	}
	return nil
}

// ScoresByDate retrieves all scores for a date, ordered by rank.
func (r *Repository) ScoresByDate(ctx context.Context, date time.Time) ([]contracts.FactorScore, error) {
	return r.queryScores(ctx, date, 0)
}

// TopScores retrieves the top `limit` scores for a date.
func (r *Repository) TopScores(ctx context.Context, date time.Time, limit int) ([]contracts.FactorScore, error) {
	return r.queryScores(ctx, date, limit)
}

func (r *Repository) queryScores(ctx context.Context, date time.Time, limit int) ([]contracts.FactorScore, error) {
	query := `
		SELECT stock_code, stock_name, calc_date,
		       value_score, momentum_score, quality_score, growth_score,
		       total_score, rank, reason
		FROM quant.factor_scores
		WHERE calc_date = $1
		ORDER BY rank ASC
	`
	args := []interface{}{date}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, &contracts.PersistenceError{Op: "query scores", Err: err}
	}
	defer rows.Close()

	var scores []contracts.FactorScore
	for rows.Next() {
		var s contracts.FactorScore
		if err := rows.Scan(
			&s.Code, &s.Name, &s.CalcDate,
			&s.Value, &s.Momentum, &s.Quality, &s.Growth,
			&s.Total, &s.Rank, &s.Reason,
		); err != nil {
			return nil, &contracts.PersistenceError{Op: "scan score", Err: err}
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

// TargetByDate retrieves the target portfolio for an exact date.
func (r *Repository) TargetByDate(ctx context.Context, date time.Time) (*contracts.PortfolioTarget, error) {
	return r.queryTarget(ctx, "calc_date = $1", date)
}

// LatestTarget retrieves the most recent target on or before asOf.
func (r *Repository) LatestTarget(ctx context.Context, asOf time.Time) (*contracts.PortfolioTarget, error) {
	query := `
		SELECT calc_date FROM quant.portfolio_targets
		WHERE calc_date <= $1
		ORDER BY calc_date DESC
		LIMIT 1
	`
	var date time.Time
	err := r.pool.QueryRow(ctx, query, asOf).Scan(&date)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("no target on or before %s: %w", asOf.Format("2006-01-02"), contracts.ErrNotFound)
	}
	if err != nil {
		return nil, &contracts.PersistenceError{Op: "query latest target date", Err: err}
	}
	return r.queryTarget(ctx, "calc_date = $1", date)
}

func (r *Repository) queryTarget(ctx context.Context, where string, date time.Time) (*contracts.PortfolioTarget, error) {
	query := `
		SELECT calc_date, stock_code, stock_name, rank, weight, reason
		FROM quant.portfolio_targets
		WHERE ` + where + `
		ORDER BY rank ASC
	`
	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, &contracts.PersistenceError{Op: "query target", Err: err}
	}
	defer rows.Close()

	target := &contracts.PortfolioTarget{}
	for rows.Next() {
		var p contracts.TargetWeight
		if err := rows.Scan(&target.Date, &p.Code, &p.Name, &p.Rank, &p.Weight, &p.Reason); err != nil {
			return nil, &contracts.PersistenceError{Op: "scan target", Err: err}
		}
		target.Positions = append(target.Positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, rows.Err()
	}
	if len(target.Positions) == 0 {
		return nil, fmt.Errorf("no target for %s: %w", date.Format("2006-01-02"), contracts.ErrNotFound)
	}
	return target, nil
}
