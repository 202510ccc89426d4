package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/crm/workbench/internal/application/workbench"
	"github.com/crm/workbench/internal/infrastructure/auth"
	"github.com/crm/workbench/internal/infrastructure/config"
	"github.com/crm/workbench/internal/infrastructure/viewstate"
	"github.com/crm/workbench/internal/interfaces/http/handler"
	"github.com/crm/workbench/internal/interfaces/http/middleware"
)

// Dependencies holds everything the router needs wired up.
type Dependencies struct {
	Config     *config.Config
	Logger     *zap.Logger
	JWTService *auth.JWTService
	Workbench  *workbench.Workbench
	ViewStates *viewstate.Store
	Version    string
}

// New builds the gin engine with all middleware and routes.
func New(deps Dependencies) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.AccessLog(deps.Logger))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins: deps.Config.HTTP.CORSAllowOrigins,
		AllowMethods: deps.Config.HTTP.CORSAllowMethods,
		AllowHeaders: deps.Config.HTTP.CORSAllowHeaders,
	}))

	health := handler.NewHealthHandler(deps.Version)
	r.GET("/health", health.Health)
	r.GET("/healthz", health.Health)

	api := r.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(deps.JWTService))

	handler.NewQuotationHandler(deps.Workbench).RegisterRoutes(api)
	handler.NewInvoiceHandler(deps.Workbench).RegisterRoutes(api)
	handler.NewReceiptHandler(deps.Workbench).RegisterRoutes(api)
	handler.NewPurchaseOrderHandler(deps.Workbench).RegisterRoutes(api)
	handler.NewViewConfigHandler(deps.ViewStates).RegisterRoutes(api)

	return r
}
