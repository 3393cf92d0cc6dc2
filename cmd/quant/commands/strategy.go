package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/talos/backend/internal/strategyconfig"
	"github.com/wonny/talos/backend/pkg/config"
)

// strategyCmd represents the strategy command
var strategyCmd = &cobra.Command{
	Use:   "strategy",
	Short: "전략 설정 검증/조회",
	Long: `전략 YAML을 로드해 검증하고 요약을 출력합니다.

이 명령어는:
- YAML 파싱 (알 수 없는 필드는 즉시 실패)
- 전 섹션 검증
- 경고 출력 (검증 실패는 아니지만 주의가 필요한 값)
- 설정 해시 출력 (의사결정 스냅샷용)

Example:
  go run ./cmd/quant strategy validate
  go run ./cmd/quant strategy validate --strategy config/strategy/quant_core.yaml`,
}

var strategyValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "전략 YAML 검증",
	RunE:  runStrategyValidate,
}

func init() {
	rootCmd.AddCommand(strategyCmd)
	strategyCmd.AddCommand(strategyValidateCmd)
}

func runStrategyValidate(cmd *cobra.Command, args []string) error {
	path := strategyFile
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		path = cfg.StrategyFile
	}

	fmt.Printf("Validating %s...\n", path)

	strategy, raw, err := strategyconfig.Load(path)
	if err != nil {
		return fmt.Errorf("❌ validation failed: %w", err)
	}

	snapshot, err := strategyconfig.NewDecisionSnapshot(strategy, raw)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	fmt.Println("✅ Valid")
	fmt.Printf("   Strategy: %s (v%s)\n", strategy.Meta.StrategyID, strategy.Meta.Version)
	fmt.Printf("   Hash: %s\n", snapshot.ConfigHash)
	fmt.Printf("   Weights: V%.2f M%.2f Q%.2f G%.2f\n",
		strategy.Scoring.Weights.Value, strategy.Scoring.Weights.Momentum,
		strategy.Scoring.Weights.Quality, strategy.Scoring.Weights.Growth)
	fmt.Printf("   Selection: top %d, cadence %s\n",
		strategy.Selection.TopK, strategy.Rebalance.Cadence)

	warnings := strategyconfig.Warn(strategy)
	if len(warnings) > 0 {
		fmt.Println("\n⚠️  Warnings:")
		for _, w := range warnings {
			fmt.Printf("   - [%s] %s\n", w.Code, w.Message)
		}
	}
	return nil
}
