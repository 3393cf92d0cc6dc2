package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/talos/backend/internal/api"
	"github.com/wonny/talos/backend/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다. 스케줄러가 함께 뜹니다.

Endpoints:
  GET  /health               - Health check
  GET  /api/scores/{date}    - 팩터 점수 조회
  GET  /api/target/{date}    - 타깃 포트폴리오 조회
  GET  /api/target/latest    - 최신 타깃 조회
  GET  /api/plan/{date}      - 리밸런싱 계획 조회
  GET  /api/holdings         - 보유 조회
  GET  /api/jobs/stats       - 작업 통계
  POST /api/jobs/{name}/run  - 작업 즉시 실행

Example:
  go run ./cmd/quant api
  go run ./cmd/quant api --port 8090`,
	RunE: runAPIServer,
}

var (
	apiPort        string
	apiNoScheduler bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT env)")
	apiCmd.Flags().BoolVar(&apiNoScheduler, "no-scheduler", false, "스케줄러 없이 조회 전용으로 실행")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Talos API Server ===")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	// Override port if flag is set
	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	a.log.WithFields(map[string]interface{}{
		"port": a.cfg.Port,
		"env":  a.cfg.Env,
	}).Info("Initializing API server")

	// Scheduler (잡 통계/트리거 엔드포인트용)
	sched, err := a.newScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	if !apiNoScheduler {
		sched.Start()
		defer sched.Stop()
	}

	// Handlers
	scoreHandler := handlers.NewScoreHandler(a.screenRepo, a.log)
	planHandler := handlers.NewPlanHandler(a.rebalanceRepo, a.log)
	jobHandler := handlers.NewJobHandler(sched, a.log)

	// Router + server
	router := api.NewRouter(scoreHandler, planHandler, jobHandler, a.log)
	server := api.New(a.cfg, a.log, router)

	// Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			a.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	a.log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
