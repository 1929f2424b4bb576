package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/dls-barber/internal/audit"
	"github.com/BruksfildServices01/dls-barber/internal/auth"
	"github.com/BruksfildServices01/dls-barber/internal/config"
	domain "github.com/BruksfildServices01/dls-barber/internal/domain/reservation"
	"github.com/BruksfildServices01/dls-barber/internal/handlers"
	"github.com/BruksfildServices01/dls-barber/internal/httperr"
	infraRepo "github.com/BruksfildServices01/dls-barber/internal/infra/repository"
	"github.com/BruksfildServices01/dls-barber/internal/metrics"
	"github.com/BruksfildServices01/dls-barber/internal/middleware"
	"github.com/BruksfildServices01/dls-barber/internal/timezone"
	ucBarber "github.com/BruksfildServices01/dls-barber/internal/usecase/barber"
	ucReservation "github.com/BruksfildServices01/dls-barber/internal/usecase/reservation"
)

// Infra holds the process-wide singletons built by the entry point.
type Infra struct {
	Log     *slog.Logger
	Cache   domain.AvailabilityCache
	Audit   *audit.Dispatcher
	Metrics *metrics.Metrics

	// Photos is nil when S3 is not configured.
	Photos ucBarber.PhotoStore
}

// NewRouter builds the engine with the global middleware chain and every
// route registered.
func NewRouter(db *gorm.DB, cfg *config.Config, infra Infra) (*gin.Engine, error) {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(infra.Log),
		middleware.CORSMiddleware(cfg.CORSAllowOrigins),
		middleware.Timeout(cfg.RequestTimeout),
	)

	if err := RegisterRoutes(r, db, cfg, infra); err != nil {
		return nil, err
	}
	return r, nil
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, infra Infra) error {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	reservationRepo := infraRepo.NewReservationGormRepository(db)
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)
	catalogRepo := infraRepo.NewCatalogGormRepository(db)

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)

	policy, err := ucReservation.PolicyFromConfig(cfg)
	if err != nil {
		return err
	}

	// ======================================================
	// USE CASES
	// ======================================================
	availabilityUC := ucReservation.NewGetAvailability(
		scheduleRepo,
		reservationRepo,
		infra.Cache,
		infra.Metrics,
		infra.Log,
		policy,
	)

	createUC := ucReservation.NewCreateReservation(
		reservationRepo,
		scheduleRepo,
		catalogRepo,
		infra.Cache,
		infra.Audit,
		infra.Metrics,
		infra.Log,
		policy,
	)

	setStatusUC := ucReservation.NewSetStatus(
		reservationRepo,
		infra.Cache,
		infra.Audit,
		infra.Log,
	)

	cancelUC := ucReservation.NewCancelReservation(reservationRepo, setStatusUC)
	listUC := ucReservation.NewListReservations(reservationRepo, policy)

	scheduleUC := ucBarber.NewSchedule(
		scheduleRepo,
		catalogRepo,
		infra.Cache,
		infra.Audit,
		infra.Log,
	)

	profileUC := ucBarber.NewProfile(
		catalogRepo,
		infra.Photos,
		infra.Cache,
		infra.Audit,
		infra.Log,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(db, tokens, cfg.PhoneRegion, cfg.VerifyEmailDomain)
	catalogHandler := handlers.NewCatalogHandler(catalogRepo, profileUC)
	scheduleHandler := handlers.NewScheduleHandler(scheduleUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(db, timezone.Location(cfg.Timezone))

	reservationHandler := handlers.NewReservationHandler(
		availabilityUC,
		createUC,
		setStatusUC,
		cancelUC,
		listUC,
	)

	authRequired := middleware.AuthMiddleware(tokens)
	adminOnly := middleware.RequireAdmin()

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(infra.Metrics.Handler()))

	r.NoRoute(func(c *gin.Context) {
		httperr.NotFound(c, "route_not_found", "Route not found.")
	})

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.Health)

		// ------------------------------
		// CATALOG
		// ------------------------------
		api.GET("/barbers", catalogHandler.Barbers)
		api.GET("/services", catalogHandler.Services)
		api.GET("/general/barbers", catalogHandler.Barbers)
		api.GET("/general/services", catalogHandler.Services)

		// ------------------------------
		// AUTH
		// ------------------------------
		authAPI := api.Group("/auth")
		{
			authAPI.POST("/register", authHandler.Register)
			authAPI.POST("/login", authHandler.Login)

			authAPI.GET("/profile", authRequired, authHandler.Profile)
			authAPI.PUT("/profile", authRequired, authHandler.UpdateProfile)
			authAPI.PUT("/change-password", authRequired, authHandler.ChangePassword)
			authAPI.GET("/verify", authRequired, authHandler.Verify)
			authAPI.GET("/users", authRequired, adminOnly, authHandler.ListUsers)
		}

		// ------------------------------
		// RESERVATIONS
		// ------------------------------
		reservations := api.Group("/reservations")
		{
			reservations.GET("/available-hours", reservationHandler.Availability)
			reservations.GET("/available-hours/:date/:barber_id", reservationHandler.AvailabilityByPath)

			reservations.POST("", middleware.OptionalAuth(tokens), reservationHandler.Create)

			reservations.GET("/my-reservations", authRequired, reservationHandler.Mine)
			reservations.GET("/all", authRequired, adminOnly, reservationHandler.All)
			reservations.PUT("/:id/status", authRequired, adminOnly, reservationHandler.UpdateStatus)
			reservations.DELETE("/:id", authRequired, reservationHandler.Cancel)
		}

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("/admin", authRequired, adminOnly)
		{
			admin.GET("/barbers", catalogHandler.AdminBarbers)
			admin.PATCH("/barbers/:id", catalogHandler.SetBarberActive)
			admin.POST("/barbers/:id/photo", catalogHandler.UploadPhoto)
			admin.GET("/barbers/:id/schedule", scheduleHandler.Get)
			admin.PUT("/barbers/:id/schedule", scheduleHandler.Update)

			admin.GET("/services", catalogHandler.AdminServices)
			admin.GET("/reservations", reservationHandler.All)
			admin.GET("/audit-logs", auditLogsHandler.List)
		}
	}

	return nil
}
