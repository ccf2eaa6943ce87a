package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/manforhire/contractor-api/internal/auth"
	"github.com/manforhire/contractor-api/internal/config"
	"github.com/manforhire/contractor-api/internal/handlers"
	"github.com/manforhire/contractor-api/internal/middleware"
	"github.com/manforhire/contractor-api/internal/store"
)

func RegisterRoutes(r *gin.Engine, st store.Store, cfg *config.Config) {

	// ======================================================
	// HANDLERS
	// ======================================================
	metaHandler := handlers.NewMetaHandler(cfg)
	serviceHandler := handlers.NewServiceHandler(st, cfg)
	workOrderHandler := handlers.NewWorkOrderHandler(st, cfg)
	workRequestHandler := handlers.NewWorkRequestHandler(st, cfg)
	contactHandler := handlers.NewContactHandler(st, cfg)
	galleryHandler := handlers.NewGalleryHandler(st, cfg)
	authHandler := handlers.NewAuthHandler(st, cfg)
	userAuthHandler := handlers.NewUserAuthHandler(st, cfg)
	dashboardHandler := handlers.NewDashboardHandler(st, cfg)

	adminOnly := middleware.RequireAuth(cfg, auth.KindAdmin)
	userOnly := middleware.RequireAuth(cfg, auth.KindUser)

	// ======================================================
	// STATIC UPLOADS
	// ======================================================
	r.Static("/uploads", cfg.UploadDir)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		api.GET("/health", metaHandler.Health)
		api.GET("/docs", metaHandler.Docs)

		// ------------------------------
		// SERVICES
		// ------------------------------
		api.GET("/services", serviceHandler.List)
		api.GET("/services/categories", serviceHandler.Categories)
		api.GET("/services/:id", serviceHandler.Get)
		api.POST("/services", adminOnly, serviceHandler.Create)
		api.PUT("/services/:id", adminOnly, serviceHandler.Update)
		api.DELETE("/services/:id", adminOnly, serviceHandler.Delete)

		// ------------------------------
		// WORK ORDERS
		// ------------------------------
		api.POST("/work-orders", middleware.OptionalAuth(cfg), workOrderHandler.Create)
		api.GET("/work-orders/my-orders", userOnly, workOrderHandler.MyOrders)
		api.GET("/work-orders", adminOnly, workOrderHandler.List)
		api.GET("/work-orders/:id", adminOnly, workOrderHandler.Get)
		api.PUT("/work-orders/:id", adminOnly, workOrderHandler.Update)
		api.DELETE("/work-orders/:id", adminOnly, workOrderHandler.Delete)

		// ------------------------------
		// WORK REQUESTS
		// ------------------------------
		api.POST("/work-requests", workRequestHandler.Create)
		api.GET("/work-requests/stats/summary", adminOnly, workRequestHandler.Summary)
		api.GET("/work-requests", adminOnly, workRequestHandler.List)
		api.GET("/work-requests/:id", adminOnly, workRequestHandler.Get)
		api.PUT("/work-requests/:id", adminOnly, workRequestHandler.Update)
		api.DELETE("/work-requests/:id", adminOnly, workRequestHandler.Delete)

		// ------------------------------
		// CONTACT
		// ------------------------------
		api.POST("/contact", contactHandler.Create)
		api.GET("/contact", adminOnly, contactHandler.List)
		api.PUT("/contact/:id", adminOnly, contactHandler.UpdateStatus)

		// ------------------------------
		// GALLERY
		// ------------------------------
		api.GET("/gallery", galleryHandler.List)
		api.GET("/gallery/:id", galleryHandler.Get)
		api.POST("/gallery", adminOnly, galleryHandler.Create)
		api.PUT("/gallery/:id", adminOnly, galleryHandler.Update)
		api.DELETE("/gallery/:id", adminOnly, galleryHandler.Delete)

		// ------------------------------
		// AUTH (ADMIN)
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/register", authHandler.Register)
		api.GET("/auth/me", adminOnly, authHandler.Me)
		api.POST("/auth/change-password", adminOnly, authHandler.ChangePassword)

		// ------------------------------
		// AUTH (CUSTOMERS)
		// ------------------------------
		api.POST("/user-auth/register", userAuthHandler.Register)
		api.POST("/user-auth/login", userAuthHandler.Login)
		api.GET("/user-auth/me", userOnly, userAuthHandler.Me)

		// ------------------------------
		// ADMIN DASHBOARD
		// ------------------------------
		api.GET("/admin/dashboard", adminOnly, dashboardHandler.Stats)
	}

	r.NoRoute(metaHandler.NotFound)
}
