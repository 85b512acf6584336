package routes

import (
	"context"
	"net/http"
	"time"

	"ticketbooker/api/docs"
	"ticketbooker/internal/bookings"
	"ticketbooker/internal/events"
	"ticketbooker/internal/notifications"
	"ticketbooker/internal/payments"
	"ticketbooker/internal/reconciler"
	"ticketbooker/internal/seats"
	"ticketbooker/internal/shared/clock"
	"ticketbooker/internal/shared/config"
	"ticketbooker/internal/shared/constants"
	"ticketbooker/internal/shared/database"
	"ticketbooker/internal/shared/middleware"
	"ticketbooker/internal/store"
	"ticketbooker/pkg/cache"
	"ticketbooker/pkg/logger"
	"ticketbooker/pkg/metrics"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router owns the wired services and mounts their routes
type Router struct {
	config *config.Config
	db     *database.DB
	store  *store.Store
	clock  clock.Clock

	eventService   events.Service
	seatService    seats.Service
	bookingService bookings.Service
	paymentService payments.Service
	reconciler     *reconciler.Reconciler
}

// NewRouter builds every service over the shared store. publisher may be
// nil, in which case lifecycle events are not emitted.
func NewRouter(cfg *config.Config, db *database.DB, st *store.Store, clk clock.Clock, publisher notifications.Publisher) *Router {
	inventory := seats.NewInventory(clk)

	seatService := seats.NewService(st, inventory)
	bookingService := bookings.NewService(st, inventory, cfg.Booking)
	seatService.SetHoldProtector(bookingService)

	paymentService := payments.NewService(st, payments.NewSimulatedGateway(cfg.Payment.GatewaySuccessRate), clk)

	eventService := events.NewService(st, clk, cfg.Redis.StatsTTL)
	if db != nil && db.Redis != nil {
		cacheService := cache.NewService(db.Redis)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := cacheService.DeletePattern(ctx, constants.PATTERN_INVALIDATE_EVENT_ALL); err != nil {
			logger.GetDefault().Warn("Failed to clear stale event cache", "error", err.Error())
		}
		cancel()
		eventService.SetCacheService(cacheService)
	}

	if publisher != nil {
		bookingService.SetPublisher(publisher)
		paymentService.SetPublisher(publisher)
	}

	return &Router{
		config:         cfg,
		db:             db,
		store:          st,
		clock:          clk,
		eventService:   eventService,
		seatService:    seatService,
		bookingService: bookingService,
		paymentService: paymentService,
		reconciler:     reconciler.New(bookingService, seatService, st, clk, cfg.Reconciler),
	}
}

// Reconciler exposes the expiry loop so the process can start and stop it
func (r *Router) Reconciler() *reconciler.Reconciler {
	return r.reconciler
}

// EventService is used by the seed command
func (r *Router) EventService() events.Service {
	return r.eventService
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	auth := middleware.JWTAuth(r.config.JWT.Secret)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		events.SetupEventRoutes(api, events.NewController(r.eventService), auth)
		seats.SetupSeatRoutes(api, seats.NewController(r.seatService, r.config.Booking.SeatHoldDuration), auth)
		bookings.SetupBookingRoutes(api, bookings.NewController(r.bookingService), auth)
		payments.SetupPaymentRoutes(api, payments.NewController(r.paymentService), auth)
		reconciler.SetupReconcilerRoutes(api, reconciler.NewController(r.reconciler), auth)
	}
}

// setupHealthRoutes sets up health check, liveness and metrics routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		body := gin.H{
			"timestamp":     time.Now(),
			"service":       "ticketbooker",
			"pending_flush": r.store.PendingFlush(),
			"reconciler":    r.reconciler.Status(),
		}
		if r.db != nil {
			if err := r.db.HealthCheck(c.Request.Context()); err != nil {
				body["status"] = "unhealthy"
				body["error"] = err.Error()
				c.JSON(http.StatusServiceUnavailable, body)
				return
			}
		}
		body["status"] = "healthy"
		c.JSON(http.StatusOK, body)
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	if r.config.Metrics.Enabled {
		engine.GET(r.config.Metrics.Path, metrics.Handler())
	}

	if r.config.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = r.config.GetAPIBasePath()
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
