package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/timetrack/internal/metrics"
	"github.com/hitoshi/timetrack/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker     HealthChecker
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// メトリクス（nilの場合は/metricsを公開しない）
	MetricsGatherer prometheus.Gatherer
	MetricsRecorder middleware.HTTPStatusRecorder

	// ドメインサービス
	SessionService SessionServiceInterface
	UserService    UserServiceInterface
	ProjectService ProjectServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → RealIP → Recovery → Logging → Metrics → SecurityHeaders → CORS → RateLimit（/api/*のみ）
//
// /healthと/metricsはレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	if deps.MetricsRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.MetricsRecorder))
	}
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	sessionHandler := NewSessionHandler(deps.SessionService)
	userHandler := NewUserHandler(deps.UserService)
	projectHandler := NewProjectHandler(deps.ProjectService)

	// --- 運用エンドポイント ---
	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// --- API ---
	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware())
		}

		// セッション
		r.Route("/api/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.StartSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", sessionHandler.GetStatus)
				r.Post("/end", sessionHandler.EndSession)
			})
		})

		// ユーザー・プロジェクト
		r.Route("/api/users", func(r chi.Router) {
			r.Post("/", userHandler.CreateUser)

			r.Route("/{username}", func(r chi.Router) {
				r.Get("/", userHandler.GetUser)
				r.Delete("/", userHandler.DeleteUser)

				r.Route("/projects", func(r chi.Router) {
					r.Get("/", projectHandler.ListProjects)
					r.Post("/", projectHandler.CreateProject)

					r.Route("/{project}", func(r chi.Router) {
						r.Get("/", projectHandler.GetProject)
						r.Delete("/", projectHandler.DeleteProject)
						r.Get("/sessions", sessionHandler.ListSessions)
					})
				})
			})
		})
	})

	return r
}
