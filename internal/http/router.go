package api

import (
	"log"
	stdhttp "net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	intconfig "onnrides/internal/config"
	h "onnrides/internal/http/handlers"
	"onnrides/internal/http/middleware"
	"onnrides/internal/notifications"
)

func NewRouter(env intconfig.Env, sender notifications.Sender) *gin.Engine {
	h.Configure(env, sender)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), corsMiddleware(env))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	authRequired := middleware.RequireAuth([]byte(env.JWTSecret))
	adminOnly := middleware.RequireRole("admin")

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		// Vehicles: browsing is public, fleet management is admin.
		vehicles := api.Group("/vehicles")
		vehicles.GET("", h.GetVehicles)
		vehicles.GET("/:id", h.GetVehicleDetail)
		vehicles.POST("", authRequired, adminOnly, h.CreateVehicle)
		vehicles.PATCH("/:id", authRequired, adminOnly, h.UpdateVehicle)

		// Bookings
		bookings := api.Group("/bookings")
		bookings.POST("/quote", h.QuoteBooking)
		bookings.POST("", authRequired, h.CreateBooking)
		bookings.GET("", authRequired, h.GetBookings)
		bookings.GET("/:id", authRequired, h.GetBookingDetail)
		bookings.POST("/:id/collect", authRequired, h.CollectPayment)
		bookings.POST("/:id/cancel", authRequired, h.CancelBooking)
		bookings.POST("/:id/complete", authRequired, h.CompleteBooking)
		bookings.GET("/:id/receipt", authRequired, h.GetBookingReceipt)
		bookings.GET("/:id/invoice", authRequired, h.GetBookingInvoice)

		// Reports & jobs (admin)
		reports := api.Group("/reports", authRequired, adminOnly)
		reports.GET("/finance", h.GetFinanceSummary)

		reminders := api.Group("/reminders", authRequired, adminOnly)
		reminders.POST("/run", h.RunPaymentReminders)
	}

	return r
}

func corsMiddleware(env intconfig.Env) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(env.CORSAllowedOrigins) > 0 {
		cfg.AllowOrigins = env.CORSAllowedOrigins
	} else {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	}
	return cors.New(cfg)
}
