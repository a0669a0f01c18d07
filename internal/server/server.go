package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/lodgely/internal/config"
	"github.com/smallbiznis/lodgely/internal/observability"
	obslogger "github.com/smallbiznis/lodgely/internal/observability/logger"
	obstracing "github.com/smallbiznis/lodgely/internal/observability/tracing"
	reportingdomain "github.com/smallbiznis/lodgely/internal/reporting/domain"
	"github.com/smallbiznis/lodgely/internal/reporting/export"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	// Money goes out as exact JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine   *gin.Engine
	reports  reportingdomain.Service
	renderer export.Renderer
	log      *zap.Logger
}

type ServerParams struct {
	fx.In

	Gin      *gin.Engine
	Reports  reportingdomain.Service
	Renderer export.Renderer
	Log      *zap.Logger
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:   p.Gin,
		reports:  p.Reports,
		renderer: p.Renderer,
		log:      p.Log.Named("http.server"),
	}

	svc.registerLandlordRoutes()
	svc.registerAdminRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerLandlordRoutes() {
	landlord := s.engine.Group("/api/landlords/:landlord_id")

	landlord.GET("/cash-flow", s.GetCashFlowSummary)
	landlord.GET("/stats", s.GetLandlordStats)
	landlord.GET("/revenue-trend", s.GetLandlordRevenueTrend)
	landlord.GET("/dashboard", s.GetDashboardSummary)

	// -------- Reports --------
	reports := landlord.Group("/reports")
	{
		reports.GET("/revenue", s.GetRevenueReport)
		reports.GET("/revenue.pdf", s.GetRevenueStatement)
		reports.GET("/properties", s.GetPropertyPerformance)
		reports.GET("/tenants", s.GetTenantBehavior)
		reports.GET("/expenses", s.GetExpenseReport)
	}
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/api/admin")

	admin.GET("/overview", s.GetAdminOverview)
	admin.GET("/revenue-trend", s.GetSystemRevenueTrend)
	admin.GET("/top-performers", s.GetTopPerformers)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
