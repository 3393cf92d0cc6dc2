package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/talos/backend/internal/contracts"
)

// rebalanceCmd represents the rebalance command
var rebalanceCmd = &cobra.Command{
	Use:   "rebalance [date]",
	Short: "리밸런싱 계획 산출/집행",
	Long: `현재 보유를 타깃 포트폴리오에 맞춥니다.

이 명령어는:
- 최신 타깃 해석 (계산 결과 또는 폴백)
- 매도/매수/유지 계획 산출 및 저장
- 주문 집행 (매도 우선) 및 보고서 저장

--dry-run이면 계획만 출력하고 주문은 내지 않습니다.
주기(cadence) 검사 없이 즉시 실행합니다 — 주기 적용은 scheduler가 합니다.

Example:
  go run ./cmd/quant rebalance --dry-run
  go run ./cmd/quant rebalance 2025-07-01`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRebalance,
}

var rebalanceDryRun bool

func init() {
	rootCmd.AddCommand(rebalanceCmd)
	rebalanceCmd.Flags().BoolVar(&rebalanceDryRun, "dry-run", false, "계획만 출력, 주문 미집행")
}

func runRebalance(cmd *cobra.Command, args []string) error {
	date, err := parseDateArg(args)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()
	broker := a.broker()
	resolver, planner, executor := a.rebalancer(broker)

	fmt.Printf("=== Talos Rebalance (%s) ===\n", date.Format("2006-01-02"))

	target, source, err := resolver.Resolve(ctx, date)
	if err != nil {
		return fmt.Errorf("resolve target: %w", err)
	}
	fmt.Printf("타깃 소스: %s (%d종목)\n", source, target.Count())

	holdings, err := broker.Holdings(ctx)
	if err != nil {
		return fmt.Errorf("fetch holdings: %w", err)
	}
	cash, err := broker.Cash(ctx)
	if err != nil {
		return fmt.Errorf("fetch cash: %w", err)
	}

	plan, err := planner.Plan(ctx, date, holdings, target, cash)
	if err != nil {
		return fmt.Errorf("build plan: %w", err)
	}
	plan.Source = source
	printPlan(plan)

	if rebalanceDryRun {
		fmt.Println("\n(dry-run) 주문 미집행")
		return nil
	}

	if err := a.rebalanceRepo.SavePlan(ctx, plan); err != nil {
		return err
	}

	report, err := executor.Execute(ctx, plan)
	if report != nil {
		if saveErr := a.rebalanceRepo.SaveReport(ctx, report); saveErr != nil {
			a.log.WithError(saveErr).Error("집행 보고서 저장 실패")
		}
	}
	if err != nil {
		return fmt.Errorf("execution aborted: %w", err)
	}

	fmt.Printf("\n✅ 주문 %d건 제출, 미체결 %d건\n", len(report.Submitted), len(report.Unresolved))
	return nil
}

func printPlan(plan *contracts.RebalancePlan) {
	fmt.Printf("\n매도 %d건:\n", len(plan.Sells))
	for _, leg := range plan.Sells {
		fmt.Printf("  - %s %s %d주 (%s)\n", leg.Code, leg.Name, leg.Quantity, leg.Reason)
	}
	fmt.Printf("매수 %d건:\n", len(plan.Buys))
	for _, leg := range plan.Buys {
		fmt.Printf("  + %s %s %d주 @%.0f\n", leg.Code, leg.Name, leg.Quantity, leg.Price)
	}
	fmt.Printf("유지 %d건\n", len(plan.Holds))
}
