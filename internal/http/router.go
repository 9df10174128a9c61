package api

import (
	"log"
	stdhttp "net/http"
	"time"

	"backoffice/internal/auth"
	intconfig "backoffice/internal/config"
	h "backoffice/internal/http/handlers"
	"backoffice/internal/http/middleware"
	"backoffice/internal/repositories"
	"backoffice/internal/resource"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), corsMiddleware(env))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"success": false,
			"error":   "route not found",
		})
	})

	guard := auth.Guard{
		Secret:          []byte(env.JWTSecret),
		SessionDuration: env.SessionDuration,
		Users:           repositories.UserRepository{},
	}
	withAuth := middleware.WithAuth(guard, env.SessionCookie)

	authHandler := h.AuthHandler{
		Guard:      guard,
		Users:      repositories.UserRepository{},
		CookieName: env.SessionCookie,
	}
	orderHandler := h.OrderHandler{
		PageSize: env.DefaultPageSize,
		MaxPage:  env.MaxPageSize,
	}
	resourceHandler := h.ResourceHandler{
		Engine: resource.Engine{
			Store:           resource.SQLStore{DB: intconfig.DB},
			DefaultPageSize: env.DefaultPageSize,
			MaxPageSize:     env.MaxPageSize,
		},
	}

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		authGroup := api.Group("/auth")
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.POST("/register", authHandler.Register)
		authGroup.GET("/me", withAuth, authHandler.Me)

		manage := middleware.RequirePermission(auth.PermOrdersManage)

		orders := api.Group("/orders")
		orders.Use(withAuth)
		orders.GET("", orderHandler.List)
		orders.GET("/export", orderHandler.Export)
		orders.GET("/:id", orderHandler.Get)
		orders.GET("/:id/invoice", orderHandler.Invoice)
		orders.PUT("/:id/fulfillment", orderHandler.UpdateFulfillment)
		orders.PUT("/:id/payment", orderHandler.UpdatePayment)
		orders.PUT("/:id/tracking", orderHandler.UpdateTracking)
		orders.PUT("/:id/cancel", orderHandler.Cancel)
		orders.PUT("/:id/archive", orderHandler.Archive)
		orders.POST("/:id/refund", manage, orderHandler.Refund)
		orders.POST("/bulk", manage, orderHandler.Bulk)
		orders.GET("/:id/notes", orderHandler.Notes)
		orders.POST("/:id/notes", orderHandler.AddNote)
		orders.POST("/:id/flag", orderHandler.Flag)

		// New orders go through the generic engine; the lifecycle routes
		// above own every mutation after that.
		orders.POST("", middleware.RequirePermission(auth.PermOrdersWrite),
			resourceHandler.CreateHandler(h.OrderCreateDefinition()))

		write := middleware.RequirePermission(auth.PermResourcesWrite)

		customers := api.Group("/customers")
		customers.Use(withAuth)
		resourceHandler.Mount(customers, h.CustomerDefinition(), []string{"email"}, write)

		products := api.Group("/products")
		products.Use(withAuth)
		resourceHandler.Mount(products, h.ProductDefinition(), []string{"category", "sku"}, write)
	}

	return r
}

func corsMiddleware(env intconfig.Env) gin.HandlerFunc {
	origins := env.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		}
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	})
}
