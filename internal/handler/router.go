package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hs6uej/farmpigs-sub001/internal/metrics"
	"github.com/hs6uej/farmpigs-sub001/internal/middleware"
)

// RouterDeps はルーター構築に必要な依存をまとめる。
type RouterDeps struct {
	Logger *slog.Logger

	AuthHandler            *AuthHandler
	UserHandler            *UserHandler
	DashboardHandler       *DashboardHandler
	HealthHandler          *HealthHandler
	PenHandler             *PenHandler
	SowHandler             *SowHandler
	BoarHandler            *BoarHandler
	PigletHandler          *PigletHandler
	BreedingHandler        *BreedingHandler
	FarrowingHandler       *FarrowingHandler
	HealthRecordHandler    *HealthRecordHandler
	GrowthRecordHandler    *GrowthRecordHandler
	FeedConsumptionHandler *FeedConsumptionHandler

	SessionFinder middleware.SessionFinder
	UserFinder    middleware.UserFinder
	RateLimiter   *middleware.RateLimiter
	CSRFConfig    middleware.CSRFConfig
	AllowedOrigin string

	MetricsGatherer prometheus.Gatherer
	// OnStatus はレスポンスのステータスコードごとに呼ばれる。nil許容。
	OnStatus func(statusCode int)
}

// NewRouter はアプリケーションの全ルートを構築する。
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.AllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.OnStatus))

	csrf := middleware.NewCSRFMiddleware(deps.CSRFConfig)
	session := middleware.NewSessionMiddleware(deps.SessionFinder)
	requireAdmin := middleware.NewRequireAdminMiddleware(deps.UserFinder)

	// 認証不要ルート
	r.Get("/health", deps.HealthHandler.Check)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.MetricsGatherer))
	r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

	r.Route("/auth", func(r chi.Router) {
		r.Use(csrf)

		// ログイン系はIP単位の厳しいレート制限をかける
		r.Group(func(r chi.Router) {
			r.Use(deps.RateLimiter.LoginMiddleware())
			r.Post("/login", deps.AuthHandler.Login)
			r.Post("/login/check", deps.AuthHandler.LoginCheck)
		})

		r.Post("/logout", deps.AuthHandler.Logout)
		r.Get("/me", deps.AuthHandler.Me)
	})

	// セッション必須ルート
	r.Route("/api", func(r chi.Router) {
		r.Use(session)
		r.Use(csrf)
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/dashboard", deps.DashboardHandler.GetDashboard)

		r.With(requireAdmin).Post("/users/{id}/unlock", deps.UserHandler.Unlock)

		r.Route("/sows", func(r chi.Router) {
			r.Get("/", deps.SowHandler.List)
			r.Post("/", deps.SowHandler.Create)
			r.Get("/{id}", deps.SowHandler.Get)
			r.Put("/{id}", deps.SowHandler.Update)
			r.Delete("/{id}", deps.SowHandler.Delete)
		})

		r.Route("/boars", func(r chi.Router) {
			r.Get("/", deps.BoarHandler.List)
			r.Post("/", deps.BoarHandler.Create)
			r.Get("/{id}", deps.BoarHandler.Get)
			r.Put("/{id}", deps.BoarHandler.Update)
			r.Delete("/{id}", deps.BoarHandler.Delete)
		})

		r.Route("/piglets", func(r chi.Router) {
			r.Get("/", deps.PigletHandler.List)
			r.Post("/", deps.PigletHandler.Create)
			r.Get("/{id}", deps.PigletHandler.Get)
			r.Put("/{id}", deps.PigletHandler.Update)
			r.Delete("/{id}", deps.PigletHandler.Delete)
		})

		r.Route("/pens", func(r chi.Router) {
			r.Get("/", deps.PenHandler.List)
			r.Post("/", deps.PenHandler.Create)
			r.Get("/{id}", deps.PenHandler.Get)
			r.Put("/{id}", deps.PenHandler.Update)
			r.Delete("/{id}", deps.PenHandler.Delete)
		})

		r.Route("/breedings", func(r chi.Router) {
			r.Get("/", deps.BreedingHandler.List)
			r.Post("/", deps.BreedingHandler.Create)
			r.Get("/{id}", deps.BreedingHandler.Get)
			r.Put("/{id}", deps.BreedingHandler.Update)
			r.Delete("/{id}", deps.BreedingHandler.Delete)
		})

		r.Route("/farrowings", func(r chi.Router) {
			r.Get("/", deps.FarrowingHandler.List)
			r.Post("/", deps.FarrowingHandler.Create)
			r.Get("/{id}", deps.FarrowingHandler.Get)
			r.Put("/{id}", deps.FarrowingHandler.Update)
			r.Delete("/{id}", deps.FarrowingHandler.Delete)
		})

		r.Route("/health-records", func(r chi.Router) {
			r.Get("/", deps.HealthRecordHandler.List)
			r.Post("/", deps.HealthRecordHandler.Create)
			r.Get("/{id}", deps.HealthRecordHandler.Get)
			r.Put("/{id}", deps.HealthRecordHandler.Update)
			r.Delete("/{id}", deps.HealthRecordHandler.Delete)
		})

		r.Route("/growth-records", func(r chi.Router) {
			r.Get("/", deps.GrowthRecordHandler.ListByPiglet)
			r.Post("/", deps.GrowthRecordHandler.Create)
			r.Get("/{id}", deps.GrowthRecordHandler.Get)
			r.Put("/{id}", deps.GrowthRecordHandler.Update)
			r.Delete("/{id}", deps.GrowthRecordHandler.Delete)
		})

		r.Route("/feed-consumptions", func(r chi.Router) {
			r.Get("/", deps.FeedConsumptionHandler.List)
			r.Post("/", deps.FeedConsumptionHandler.Create)
			r.Get("/{id}", deps.FeedConsumptionHandler.Get)
			r.Put("/{id}", deps.FeedConsumptionHandler.Update)
			r.Delete("/{id}", deps.FeedConsumptionHandler.Delete)
		})
	})

	return r
}
