package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyFile string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quant",
	Short: "Talos - 4팩터 퀀트 스코어링/리밸런싱 시스템",
	Long: `Talos Unified CLI

가치/모멘텀/퀄리티/성장 4팩터로 유니버스를 점수화하고
상위 종목 타깃 포트폴리오를 리밸런싱합니다.

Usage:
  go run ./cmd/quant [command]

Examples:
  go run ./cmd/quant screen
  go run ./cmd/quant rebalance --dry-run
  go run ./cmd/quant scheduler start
  go run ./cmd/quant api`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "strategy YAML (default: STRATEGY_FILE env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
