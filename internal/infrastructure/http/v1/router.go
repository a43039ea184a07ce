package v1

import (
	"github.com/gin-gonic/gin"

	"jargas/internal/domain/discrepancy"
	"jargas/internal/domain/documents/installed"
	"jargas/internal/domain/documents/letter"
	"jargas/internal/domain/documents/returns"
	"jargas/internal/domain/documents/stock_in"
	"jargas/internal/domain/documents/stock_out"
	"jargas/internal/domain/registers/stock"
	"jargas/internal/infrastructure/http/v1/handlers"
	"jargas/internal/infrastructure/http/v1/middleware"
	"jargas/pkg/logger"
)

// Services are the domain services exposed over HTTP.
type Services struct {
	Balance     *stock.Service
	Discrepancy *discrepancy.Service
	StockIn     *stock_in.Service
	StockOut    *stock_out.Service
	Installed   *installed.Service
	Returns     *returns.Service
	Letters     *letter.Service
}

// RouterConfig holds router configuration.
type RouterConfig struct {
	AppName string
	// Debug puts gin in debug mode
	Debug bool
	// TrustedProxies are passed to gin; nil trusts none
	TrustedProxies []string
	// MaxBodySize limits request bodies in bytes; 0 disables the limit
	MaxBodySize int64

	Logger *logger.Logger
	// HealthChecks are probed by /health/ready
	HealthChecks map[string]handlers.Pinger

	Services Services
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	// Order matters: Trace must run before anything that logs.
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	if cfg.MaxBodySize > 0 {
		router.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}

	healthHandler := handlers.NewHealthHandler(cfg.AppName, cfg.HealthChecks)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	api := router.Group("/api/v1")
	api.Use(middleware.Actor())

	registerLedgerRoutes(api, cfg.Services)
	return router, nil
}

func registerLedgerRoutes(api *gin.RouterGroup, svc Services) {
	base := handlers.NewBaseHandler()

	if svc.Balance != nil {
		h := handlers.NewBalanceHandler(base, svc.Balance)
		api.GET("/balance", h.List)
		api.GET("/balance/:id", h.Get)
	}

	if svc.Discrepancy != nil {
		h := handlers.NewDiscrepancyHandler(base, svc.Discrepancy)
		api.POST("/discrepancy/check", h.Check)
		api.GET("/notifications", h.ListNotifications)
		api.POST("/notifications/read", h.MarkRead)
	}

	if svc.StockIn != nil {
		RegisterDocumentRoutes(api.Group("/stock-in"), handlers.NewStockInHandler(base, svc.StockIn))
	}
	if svc.StockOut != nil {
		RegisterDocumentRoutes(api.Group("/stock-out"), handlers.NewStockOutHandler(base, svc.StockOut))
	}
	if svc.Installed != nil {
		RegisterDocumentRoutes(api.Group("/installed"), handlers.NewInstalledHandler(base, svc.Installed))
	}
	if svc.Returns != nil {
		h := handlers.NewReturnHandler(base, svc.Returns)
		group := api.Group("/returns")
		RegisterDocumentRoutes(group, h)
		group.POST("/:id/release", h.Release)
	}
	if svc.Letters != nil {
		RegisterDocumentRoutes(api.Group("/letters"), handlers.NewLetterHandler(base, svc.Letters))
	}
}
