package router

import (
	"github.com/gin-gonic/gin"
	"github.com/mroshb/booking_api/internal/config"
	"github.com/mroshb/booking_api/internal/handlers"
	"github.com/mroshb/booking_api/internal/middleware"
	"github.com/mroshb/booking_api/internal/models"
	"github.com/mroshb/booking_api/internal/notify"
	"github.com/mroshb/booking_api/internal/repositories"
	"github.com/mroshb/booking_api/internal/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Setup builds the engine. The returned stop func releases the rate limiter's
// cleanup loop and must be called once the server is done.
func Setup(cfg *config.Config, db *gorm.DB, notifier notify.Notifier) (*gin.Engine, func()) {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerUser, cfg.RateLimitPerIP, cfg.GetRateLimitWindow())

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	txRepo := repositories.NewPointTransactionRepository(db)
	configRepo := repositories.NewPointsConfigRepository(db)
	bookingRepo := repositories.NewBookingRepository(db)

	// Services
	pointsSvc := services.NewPointsService(db, userRepo, txRepo, configRepo, notifier)
	bookingSvc := services.NewBookingService(db, bookingRepo, pointsSvc)
	exportSvc := services.NewExportService(pointsSvc)

	// Handlers
	healthHandler := handlers.NewHealthHandler(db)
	pointsHandler := handlers.NewPointsHandler(pointsSvc, exportSvc)
	bookingHandler := handlers.NewBookingHandler(bookingSvc)

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	adminOnly := middleware.RequireRole(models.RoleAdmin)

	api := r.Group("/api/v1")
	api.Use(
		middleware.IPRateLimit(limiter),
		middleware.AuthRequired(cfg.JWTSecret),
		middleware.UserRateLimit(limiter),
		middleware.Timeout(cfg.GetRequestTimeout()),
	)
	{
		points := api.Group("/points")
		{
			points.POST("/adjust", adminOnly, pointsHandler.AdjustPoints)
			points.POST("/reward-booking", adminOnly, pointsHandler.RewardForBooking)
			points.POST("/redeem", pointsHandler.RedeemPoints)
			points.POST("/check-in-reward", adminOnly, pointsHandler.GiveCheckInPoints)
			points.GET("/:userId", pointsHandler.GetUserPoints)
			points.GET("/:userId/export", pointsHandler.ExportStatement)
		}

		bookings := api.Group("/bookings")
		{
			bookings.POST("", bookingHandler.CreateBooking)
			bookings.GET("/mine", bookingHandler.GetMyBookings)
			bookings.POST("/:id/check-in", middleware.RequireRole(models.RoleAdmin, models.RoleProfessional), bookingHandler.CheckIn)
		}
	}

	return r, limiter.Close
}
