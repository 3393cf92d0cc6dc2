package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/talos/backend/internal/contracts"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "파이프라인 상태 조회",
	Long: `최신 타깃/계획/보유 상태를 요약합니다.

이 명령어는:
- 최신 타깃 포트폴리오 날짜와 상위 종목
- 해당 날짜의 리밸런싱 계획 유무
- 기록된 보유 현황

Example:
  go run ./cmd/quant status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()
	fmt.Println("=== Talos Status ===")
	fmt.Printf("Strategy: %s (v%s)\n\n", a.strategy.Meta.StrategyID, a.strategy.Meta.Version)

	// 최신 타깃
	target, err := a.screenRepo.LatestTarget(ctx, time.Now())
	switch {
	case errors.Is(err, contracts.ErrNotFound):
		fmt.Println("타깃: 없음 (스크리닝 미실행)")
	case err != nil:
		return fmt.Errorf("query target: %w", err)
	default:
		fmt.Printf("타깃: %s, %d종목\n", target.Date.Format("2006-01-02"), target.Count())
		top := target.Positions
		if len(top) > 5 {
			top = top[:5]
		}
		for _, pos := range top {
			fmt.Printf("  %3d. %s %s (%.1f%%)\n", pos.Rank, pos.Code, pos.Name, pos.Weight*100)
		}

		// 타깃 날짜의 계획
		plan, err := a.rebalanceRepo.PlanByDate(ctx, target.Date)
		switch {
		case errors.Is(err, contracts.ErrNotFound):
			fmt.Println("\n계획: 없음")
		case err != nil:
			return fmt.Errorf("query plan: %w", err)
		default:
			fmt.Printf("\n계획 (%s): 매도 %d / 매수 %d / 유지 %d\n",
				plan.Source, len(plan.Sells), len(plan.Buys), len(plan.Holds))
		}
	}

	// 보유 현황
	holdings, err := a.rebalanceRepo.Holdings(ctx)
	if err != nil {
		return fmt.Errorf("query holdings: %w", err)
	}
	fmt.Printf("\n보유: %d종목\n", len(holdings))
	for _, h := range holdings {
		fmt.Printf("  %s %s %d주 @%.0f\n", h.Code, h.Name, h.Quantity, h.AvgCost)
	}

	return nil
}
