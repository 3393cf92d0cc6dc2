package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// screenCmd represents the screen command
var screenCmd = &cobra.Command{
	Use:   "screen [date]",
	Short: "팩터 스코어링 실행",
	Long: `유니버스 전체를 4팩터로 점수화하고 상위 종목 타깃을 저장합니다.

이 명령어는:
- 유니버스 로드 및 필터링
- 가치/모멘텀/퀄리티/성장 팩터 점수 계산
- 종합 점수 순위 산정
- 상위 K 타깃 포트폴리오 저장

같은 날짜로 다시 실행하면 이전 결과를 통째로 교체합니다.

Example:
  go run ./cmd/quant screen
  go run ./cmd/quant screen 2025-07-01`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScreen,
}

func init() {
	rootCmd.AddCommand(screenCmd)
}

func runScreen(cmd *cobra.Command, args []string) error {
	date, err := parseDateArg(args)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	fmt.Printf("=== Talos Screening (%s) ===\n", date.Format("2006-01-02"))

	target, err := a.screener().Run(context.Background(), date)
	if err != nil {
		return fmt.Errorf("screening failed: %w", err)
	}

	fmt.Printf("\n✅ %d종목 선정:\n", target.Count())
	for _, pos := range target.Positions {
		fmt.Printf("  %3d. %s %s (%.1f%%) %s\n",
			pos.Rank, pos.Code, pos.Name, pos.Weight*100, pos.Reason)
	}
	return nil
}
