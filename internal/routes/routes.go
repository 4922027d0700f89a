package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/pedram-fm/massage-app-sub000/internal/audit"
	"github.com/pedram-fm/massage-app-sub000/internal/cache"
	"github.com/pedram-fm/massage-app-sub000/internal/config"
	"github.com/pedram-fm/massage-app-sub000/internal/handlers"
	"github.com/pedram-fm/massage-app-sub000/internal/middleware"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	availabilityCache := cache.New(
		rdb,
		time.Duration(cfg.AvailabilityCacheTTLSeconds)*time.Second,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)

	serviceHandler := handlers.NewServiceHandler(db, availabilityCache, auditDispatcher)
	scheduleHandler := handlers.NewScheduleHandler(db, availabilityCache, auditDispatcher)
	bookingHandler := handlers.NewBookingHandler(db, availabilityCache, auditDispatcher)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	publicHandler := handlers.NewPublicHandler(db, availabilityCache, auditDispatcher)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC API
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.GET("/:slug/availability-summary", publicHandler.AvailabilitySummary)
			publicAPI.GET("/:slug/next-slot", publicHandler.NextAvailableSlot)
			publicAPI.GET("/:slug/slot-check", publicHandler.SlotCheck)
			publicAPI.POST("/:slug/bookings", publicHandler.CreateBooking)
			publicAPI.GET("/:slug/bookings/:reference", publicHandler.BookingByReference)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.PATCH("/me", meHandler.UpdateMe)

			secured.GET("/services", serviceHandler.ListCatalog)

			secured.GET("/me/offerings", serviceHandler.ListOfferings)
			secured.POST("/me/offerings", serviceHandler.CreateOffering)
			secured.PATCH("/me/offerings/:id", serviceHandler.UpdateOffering)
			secured.DELETE("/me/offerings/:id", serviceHandler.DeleteOffering)

			secured.GET("/me/schedule", scheduleHandler.GetWeekly)
			secured.PUT("/me/schedule", scheduleHandler.PutWeekly)

			secured.GET("/me/overrides", scheduleHandler.ListOverrides)
			secured.PUT("/me/overrides", scheduleHandler.PutOverride)
			secured.DELETE("/me/overrides/:date", scheduleHandler.DeleteOverride)

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.POST("/me/bookings", bookingHandler.Create)
			secured.GET("/me/bookings", bookingHandler.ListByDate)
			secured.GET("/me/bookings/month", bookingHandler.ListByMonth)
			secured.GET("/me/bookings/gaps", bookingHandler.Gaps)
			secured.PATCH("/me/bookings/:id/cancel", bookingHandler.Cancel)
			secured.PATCH("/me/bookings/:id/complete", bookingHandler.Complete)
			secured.PATCH("/me/bookings/:id/no-show", bookingHandler.NoShow)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
