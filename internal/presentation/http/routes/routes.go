package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mkamau/storesight-api/internal/config"
	domainRepo "github.com/mkamau/storesight-api/internal/domain/repository"
	"github.com/mkamau/storesight-api/internal/presentation/http/handler"
	"github.com/mkamau/storesight-api/internal/presentation/http/middleware"
	"github.com/mkamau/storesight-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth        *handler.AuthHandler
	Tenant      *handler.TenantHandler
	Product     *handler.ProductHandler
	Transaction *handler.TransactionHandler
	Dashboard   *handler.DashboardHandler
	User        *handler.UserHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	TenantRepo      domainRepo.TenantRepository
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.TenantMiddleware(deps.TenantRepo))

		// Per-tenant rate limiter
		rateLimiter := middleware.NewTenantRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleRedirect)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Store onboarding
	registerOnboardingRoutes(protected, h)

	// Tenants
	registerTenantRoutes(protected, h)

	// Dashboard and reports
	registerDashboardRoutes(protected, h)

	// Products
	registerProductRoutes(protected, h)

	// Transactions
	registerTransactionRoutes(protected, h, deps)

	// Users (Admin)
	registerUserRoutes(protected, h)

	// Roles (Admin)
	registerRoleRoutes(protected, h)

	// Permissions (Admin)
	registerPermissionRoutes(protected, h)
}

func registerOnboardingRoutes(protected *gin.RouterGroup, h *Handlers) {
	onboarding := protected.Group("/onboarding")
	{
		onboarding.GET("/draft", h.Tenant.GetOnboardingDraft)
		onboarding.PUT("/draft", h.Tenant.SaveOnboardingDraft)
	}
}

func registerTenantRoutes(protected *gin.RouterGroup, h *Handlers) {
	tenants := protected.Group("/tenants")
	{
		tenants.GET("", h.Tenant.ListTenants)
		tenants.POST("", h.Tenant.CreateTenant)
		tenants.GET("/current", h.Tenant.GetCurrentTenant)
		tenants.PUT("/current", middleware.RequirePermission("manage-store"), h.Tenant.UpdateTenant)
		tenants.GET("/current/members", h.Tenant.ListMembers)
		tenants.POST("/current/members", middleware.RequirePermission("manage-users"), h.Tenant.InviteMember)
		tenants.PUT("/current/members/:user_id", middleware.RequirePermission("manage-users"), h.Tenant.UpdateMemberRole)
		tenants.DELETE("/current/members/:user_id", middleware.RequirePermission("manage-users"), h.Tenant.RemoveMember)
	}
}

func registerDashboardRoutes(protected *gin.RouterGroup, h *Handlers) {
	dashboard := protected.Group("/dashboard")
	dashboard.Use(middleware.RequireTenant(), middleware.RequirePermission("view-dashboard"))
	{
		dashboard.GET("", h.Dashboard.Get)
		dashboard.GET("/state", h.Dashboard.GetState)
		dashboard.GET("/restock-alerts", h.Dashboard.RestockAlerts)
	}

	reports := protected.Group("/reports")
	reports.Use(middleware.RequireTenant(), middleware.RequirePermission("view-reports"))
	{
		reports.GET("/sales", h.Dashboard.SalesReport)
		reports.GET("/purchases", h.Dashboard.PurchasesReport)
	}
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	products.Use(middleware.RequireTenant(), middleware.RequirePermission("manage-products"))
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/low-stock", h.Product.GetLowStock)
		products.GET("/slug/:slug", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
		products.POST("/:id/stock", h.Product.AdjustStock)
	}
}

func registerTransactionRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	transactions := protected.Group("/transactions")
	transactions.Use(middleware.RequireTenant(), middleware.RequirePermission("manage-transactions"))
	{
		transactions.GET("", h.Transaction.List)
		transactions.GET("/:id", h.Transaction.Get)
		transactions.DELETE("/:id", h.Transaction.Delete)

		// POS clients retry on flaky connections, so writes require an
		// idempotency key to prevent duplicate events.
		idempotent := middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		})
		transactions.POST("/sales", idempotent, h.Transaction.RecordSale)
		transactions.POST("/purchases", idempotent, h.Transaction.RecordPurchase)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	{
		users.GET("/salespeople", middleware.RequireTenant(), h.User.ListSalespeople)

		admin := users.Group("")
		admin.Use(middleware.RequirePermission("manage-users"))
		{
			admin.GET("", h.User.List)
			admin.GET("/:id", h.User.Get)
			admin.PUT("/:id/roles", h.User.UpdateRoles)
			admin.DELETE("/:id", h.User.Delete)
		}
	}
}

func registerRoleRoutes(protected *gin.RouterGroup, h *Handlers) {
	roles := protected.Group("/roles")
	roles.Use(middleware.RequirePermission("manage-users"))
	{
		roles.GET("", h.User.ListRoles)
	}
}

func registerPermissionRoutes(protected *gin.RouterGroup, h *Handlers) {
	permissions := protected.Group("/permissions")
	permissions.Use(middleware.RequirePermission("manage-users"))
	{
		permissions.GET("", h.User.ListPermissions)
	}
}
