package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tiendahub/backoffice/internal/auth"
	"github.com/tiendahub/backoffice/internal/cache"
	"github.com/tiendahub/backoffice/internal/config"
	"github.com/tiendahub/backoffice/internal/http/handlers"
	"github.com/tiendahub/backoffice/internal/http/middlewares"
	"github.com/tiendahub/backoffice/internal/observability"
	"github.com/tiendahub/backoffice/internal/repo/postgres"
)

// maximum accepted request body; the API only ever takes small JSON documents
const maxBodyBytes = 1 << 20

// Deps carries everything the router needs wired from main.
type Deps struct {
	Cfg    config.Config
	Log    *slog.Logger
	Pool   *pgxpool.Pool
	JWT    *auth.Manager
	Alerts handlers.AlertEnqueuer
	Prom   *observability.Prom
	Reg    *prometheus.Registry
}

func NewRouter(d Deps) *gin.Engine {
	if d.Cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("backoffice-api"))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(d.Log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(nil))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(d.Prom.GinHandleMiddleware())

	// health
	ping := func() error {
		if d.Pool == nil {
			return nil
		}

		return d.Prom.ObserveDB("ping", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
			defer cancel()

			return d.Pool.Ping(ctx)
		})
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Reg, promhttp.HandlerOpts{})))

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(d.Pool)
	rolesRepo := postgres.NewRolesRepo(d.Pool)
	suppliersRepo := postgres.NewSuppliersRepo(d.Pool)
	itemsRepo := postgres.NewItemsRepo(d.Pool)
	salesRepo := postgres.NewSalesRepo(d.Pool)
	purchasesRepo := postgres.NewPurchasesRepo(d.Pool)
	cashRepo := postgres.NewCashRepo(d.Pool)
	expensesRepo := postgres.NewExpensesRepo(d.Pool)
	dashboardRepo := postgres.NewDashboardRepo(d.Pool)

	// wire up handlers
	authHandler := handlers.NewAuthHandler(usersRepo, d.JWT)
	usersHandler := handlers.NewUsersHandler(usersRepo)
	rolesHandler := handlers.NewRolesHandler(rolesRepo)
	suppliersHandler := handlers.NewSuppliersHandler(suppliersRepo)
	itemsHandler := handlers.NewItemsHandler(itemsRepo)
	salesHandler := handlers.NewSalesHandler(salesRepo, d.Alerts)
	purchasesHandler := handlers.NewPurchasesHandler(purchasesRepo)
	cashHandler := handlers.NewCashHandler(cashRepo)
	expensesHandler := handlers.NewExpensesHandler(expensesRepo)
	dashboardHandler := handlers.NewDashboardHandler(dashboardRepo, cache.New(30*time.Second))

	authMW := middlewares.NewAuthMiddleware(d.JWT)
	loginLimiter := middlewares.NewRateLimiter(d.Cfg.LoginRateLimit, d.Cfg.LoginRateWindow)

	// public
	r.POST("/auth/login", loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Login)

	// any authenticated user
	api := r.Group("/", authMW.RequireAuth())
	{
		api.POST("/auth/logout", authHandler.Logout)

		api.GET("/dashboard/summary", dashboardHandler.GetSummary)

		api.GET("/suppliers", suppliersHandler.ListSuppliers)
		api.POST("/suppliers", suppliersHandler.CreateSupplier)
		api.GET("/suppliers/:id", suppliersHandler.GetSupplierByID)
		api.PUT("/suppliers/:id", suppliersHandler.UpdateSupplier)
		api.PATCH("/suppliers/:id", suppliersHandler.SetSupplierActive)

		api.GET("/items", itemsHandler.ListItems)
		api.POST("/items", itemsHandler.CreateItem)
		api.GET("/items/:id", itemsHandler.GetItemByID)
		api.PUT("/items/:id", itemsHandler.UpdateItem)
		api.DELETE("/items/:id", itemsHandler.DeleteItem)

		api.GET("/sales", salesHandler.ListSales)
		api.POST("/sales", salesHandler.CreateSale)
		api.GET("/sales/:id", salesHandler.GetSaleByID)

		api.GET("/purchases", purchasesHandler.ListPurchases)
		api.POST("/purchases", purchasesHandler.CreatePurchase)
		api.GET("/purchases/:id", purchasesHandler.GetPurchaseByID)

		api.GET("/cash", cashHandler.ListTransactions)
		api.POST("/cash", cashHandler.CreateTransaction)

		api.GET("/expenses", expensesHandler.ListExpenses)
		api.POST("/expenses", expensesHandler.CreateExpense)
	}

	// user and role administration requires the admin role
	admin := r.Group("/", authMW.RequireAuth(), authMW.RequireRoles("admin"))
	{
		admin.GET("/users", usersHandler.ListUsers)
		admin.POST("/users", usersHandler.CreateUser)
		admin.GET("/users/:id", usersHandler.GetUserByID)
		admin.PUT("/users/:id", usersHandler.UpdateUser)
		admin.PATCH("/users/:id", usersHandler.SetUserActive)

		admin.GET("/roles", rolesHandler.ListRoles)
		admin.POST("/roles", rolesHandler.CreateRole)
	}

	return r
}
