// Package app はアプリケーションの起動と依存関係のワイヤリングを行う。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/hs6uej/farmpigs-sub001/internal/activity"
	"github.com/hs6uej/farmpigs-sub001/internal/analytics"
	"github.com/hs6uej/farmpigs-sub001/internal/auth"
	"github.com/hs6uej/farmpigs-sub001/internal/config"
	"github.com/hs6uej/farmpigs-sub001/internal/database"
	"github.com/hs6uej/farmpigs-sub001/internal/handler"
	"github.com/hs6uej/farmpigs-sub001/internal/logger"
	"github.com/hs6uej/farmpigs-sub001/internal/metrics"
	"github.com/hs6uej/farmpigs-sub001/internal/middleware"
	"github.com/hs6uej/farmpigs-sub001/internal/repository"
	"github.com/hs6uej/farmpigs-sub001/internal/security"
)

// activityPurgeInterval は活動ログの保持期間超過分を削除する周期。
const activityPurgeInterval = 24 * time.Hour

// Init はアプリケーションの初期化を行う。
// .envがあれば読み込み、JSON構造化ログをセットアップし、環境変数からConfigを読み込む。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// .envはローカル開発用。存在しなくてもエラーにしない
	_ = godotenv.Load()

	logger.SetupDefault(w)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. リポジトリの初期化
	userRepo := repository.NewPostgresUserRepo(db)
	sessionRepo := repository.NewPostgresSessionRepo(db)
	activityRepo := repository.NewPostgresActivityLogRepo(db)
	penRepo := repository.NewPostgresPenRepo(db)
	sowRepo := repository.NewPostgresSowRepo(db)
	boarRepo := repository.NewPostgresBoarRepo(db)
	pigletRepo := repository.NewPostgresPigletRepo(db)
	breedingRepo := repository.NewPostgresBreedingRepo(db)
	farrowingRepo := repository.NewPostgresFarrowingRepo(db)
	healthRepo := repository.NewPostgresHealthRecordRepo(db)
	growthRepo := repository.NewPostgresGrowthRecordRepo(db)
	feedRepo := repository.NewPostgresFeedConsumptionRepo(db)

	// 3. ドメインサービスの初期化
	recorder := activity.NewRecorder(activityRepo)

	authService := auth.NewService(userRepo, sessionRepo, recorder, auth.ServiceConfig{
		MaxLoginAttempts: cfg.MaxLoginAttempts,
		LockoutDuration:  cfg.LockoutDuration,
		SessionMaxAge:    cfg.SessionMaxAge,
	})

	analyticsService := analytics.NewService(
		sowRepo, boarRepo, pigletRepo, penRepo,
		breedingRepo, farrowingRepo, healthRepo, growthRepo, feedRepo,
		analytics.ServiceConfig{DefaultWindowDays: cfg.DashboardDefaultWindowDays},
	)

	sanitizer := security.NewTextSanitizer()

	// 4. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 5. レートリミッターの初期化（configはreq/min単位）
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	rateLimiterCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
	rateLimiterCfg.GeneralBurst = cfg.RateLimitGeneral
	rateLimiterCfg.LoginRate = rate.Limit(float64(cfg.RateLimitLogin) / 60.0)
	rateLimiterCfg.LoginBurst = cfg.RateLimitLogin
	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	// 6. ルーターの構築
	authHandlerCfg := handler.AuthHandlerConfig{
		CookieDomain:  cfg.CookieDomain,
		CookieSecure:  cfg.CookieSecure,
		SessionMaxAge: cfg.SessionMaxAge,
	}

	router := handler.NewRouter(handler.RouterDeps{
		Logger: slog.Default(),

		AuthHandler:            handler.NewAuthHandler(authService, collector, authHandlerCfg),
		UserHandler:            handler.NewUserHandler(authService),
		DashboardHandler:       handler.NewDashboardHandler(analyticsService, collector),
		HealthHandler:          handler.NewHealthHandler(db),
		PenHandler:             handler.NewPenHandler(penRepo, sanitizer),
		SowHandler:             handler.NewSowHandler(sowRepo, sanitizer),
		BoarHandler:            handler.NewBoarHandler(boarRepo, sanitizer),
		PigletHandler:          handler.NewPigletHandler(pigletRepo),
		BreedingHandler:        handler.NewBreedingHandler(breedingRepo, sanitizer, collector),
		FarrowingHandler:       handler.NewFarrowingHandler(farrowingRepo, sanitizer, collector),
		HealthRecordHandler:    handler.NewHealthRecordHandler(healthRepo, sanitizer, collector),
		GrowthRecordHandler:    handler.NewGrowthRecordHandler(growthRepo, collector),
		FeedConsumptionHandler: handler.NewFeedConsumptionHandler(feedRepo, collector),

		SessionFinder: sessionRepo,
		UserFinder:    userRepo,
		RateLimiter:   rateLimiter,
		CSRFConfig: middleware.CSRFConfig{
			CookieSecure: cfg.CookieSecure,
			CookieDomain: cfg.CookieDomain,
		},
		AllowedOrigin: cfg.CORSAllowedOrigin,

		MetricsGatherer: registry,
		OnStatus:        collector.RecordHTTPStatus,
	})

	// 7. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	purgeCtx, cancelPurge := context.WithCancel(context.Background())
	defer cancelPurge()

	// 活動ログの保持期間超過分を日次で削除する
	go runActivityPurgeLoop(purgeCtx, recorder, cfg.LogRetentionDays)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")
	cancelPurge()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runActivityPurgeLoop は活動ログの古いエントリを定期的に削除する。
// 起動直後に1回実行し、以降はactivityPurgeInterval周期で繰り返す。
func runActivityPurgeLoop(ctx context.Context, recorder *activity.Recorder, retentionDays int) {
	if _, err := recorder.Purge(ctx, retentionDays); err != nil {
		slog.Error("activity log purge failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(activityPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := recorder.Purge(ctx, retentionDays); err != nil {
				slog.Error("activity log purge failed", slog.String("error", err.Error()))
			}
		}
	}
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
