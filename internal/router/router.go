package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/omfen/fenntech-internal-system-sub001/internal/config"
	"github.com/omfen/fenntech-internal-system-sub001/internal/handler"
	"github.com/omfen/fenntech-internal-system-sub001/internal/middleware"
	"github.com/omfen/fenntech-internal-system-sub001/internal/repository"
	"github.com/omfen/fenntech-internal-system-sub001/internal/service"
	"github.com/omfen/fenntech-internal-system-sub001/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigin))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	rateRepo := repository.NewExchangeRateRepository(db)
	invoiceRepo := repository.NewInvoiceSessionRepository(db)
	marketplaceRepo := repository.NewMarketplaceSessionRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	categorySvc := service.NewCategoryService(categoryRepo)
	rateSvc := service.NewRateService(rateRepo, rdb)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, categoryRepo, rateSvc, dispatcher)
	marketplaceSvc := service.NewMarketplaceService(marketplaceRepo, rateSvc, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	ratesH := handler.NewRatesHandler(rateSvc)
	invoicesH := handler.NewInvoicesHandler(invoiceSvc, cfg.ReportToEmail)
	marketplaceH := handler.NewMarketplaceHandler(marketplaceSvc, cfg.ReportToEmail)
	classifyH := handler.NewClassifyHandler()

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: clerk, manager, admin — declared per-endpoint
		anyRole := middleware.RequireRole("clerk", "manager", "admin")

		// Classifier preview — read-only, any authenticated role
		v1.GET("/classify", anyRole, classifyH.Preview)

		// Exchange rate — everyone reads, managers and admins write
		v1.GET("/exchange-rate", anyRole, ratesH.Current)
		v1.PUT("/exchange-rate", middleware.RequireRole("manager", "admin"), ratesH.Update)

		// Invoice pricing sessions
		invoices := v1.Group("/invoices", anyRole)
		{
			invoices.POST("", invoicesH.Create)
			invoices.GET("", invoicesH.List)
			invoices.GET("/:id", invoicesH.Get)
			invoices.POST("/:id/report", invoicesH.SendReport)
		}
		// Status changes are a review action — managers and admins only
		v1.PATCH("/invoices/:id", middleware.RequireRole("manager", "admin"), invoicesH.Update)

		// Marketplace pricing sessions
		marketplace := v1.Group("/marketplace", anyRole)
		{
			marketplace.POST("", marketplaceH.Create)
			marketplace.GET("", marketplaceH.List)
			marketplace.GET("/suggest-markup", marketplaceH.SuggestMarkup)
			marketplace.GET("/:id", marketplaceH.Get)
			marketplace.POST("/:id/report", marketplaceH.SendReport)
		}
		v1.PATCH("/marketplace/:id", middleware.RequireRole("manager", "admin"), marketplaceH.Update)

		// Categories — everyone reads (the UI shows markup per category),
		// admins write
		v1.GET("/categories", anyRole, categoriesH.List)
		categories := v1.Group("/categories", middleware.RequireRole("admin"))
		{
			categories.POST("", categoriesH.Create)
			categories.PUT("/:id", categoriesH.Update)
			categories.DELETE("/:id", categoriesH.Delete)
		}

		// Users — admin only
		users := v1.Group("/users", middleware.RequireRole("admin"))
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
