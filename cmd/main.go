package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	createBookingHandler "github.com/booking4u/booking-service/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/booking4u/booking-service/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/booking4u/booking-service/internal/api/handlers/get_booking"
	getBusinessBookingsHandler "github.com/booking4u/booking-service/internal/api/handlers/get_business_bookings"
	getBusinessConfigHandler "github.com/booking4u/booking-service/internal/api/handlers/get_business_config"
	getBusinessStatsHandler "github.com/booking4u/booking-service/internal/api/handlers/get_business_stats"
	getUserBookingsHandler "github.com/booking4u/booking-service/internal/api/handlers/get_user_bookings"
	healthHandler "github.com/booking4u/booking-service/internal/api/handlers/health"
	listBusinessConfigsHandler "github.com/booking4u/booking-service/internal/api/handlers/list_business_configs"
	transitionBookingHandler "github.com/booking4u/booking-service/internal/api/handlers/transition_booking"
	updateBusinessConfigHandler "github.com/booking4u/booking-service/internal/api/handlers/update_business_config"
	"github.com/booking4u/booking-service/internal/api/middleware"
	"github.com/booking4u/booking-service/internal/config"
	"github.com/booking4u/booking-service/internal/infra/migrations"
	bookingRepo "github.com/booking4u/booking-service/internal/infra/storage/booking"
	businessRepo "github.com/booking4u/booking-service/internal/infra/storage/business"
	configRepo "github.com/booking4u/booking-service/internal/infra/storage/config"
	"github.com/booking4u/booking-service/internal/scheduling"
	bookingsService "github.com/booking4u/booking-service/internal/service/bookings"
	configService "github.com/booking4u/booking-service/internal/service/config"
	createBookingUC "github.com/booking4u/booking-service/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/booking4u/booking-service/internal/usecase/get_available_slots"
	transitionBookingUC "github.com/booking4u/booking-service/internal/usecase/transition_booking"
	"github.com/booking4u/booking-service/pkg/dbmetrics"
	"github.com/booking4u/booking-service/pkg/logger"
	"github.com/booking4u/booking-service/pkg/metrics"
	"github.com/booking4u/booking-service/pkg/slotlock"
	"github.com/booking4u/booking-service/pkg/tracing"
	"github.com/booking4u/booking-service/pkg/txmanager"
)

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting booking-service...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Booking.LoadLocation()
	if err != nil {
		log.Fatal("Invalid booking location: %v", err)
	}

	// Трассировка
	shutdownTracing, err := tracing.Setup(context.Background(), tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to setup tracing: %v", err)
	}
	if cfg.Tracing.Enabled {
		log.Info("Tracing enabled, exporting to %s", cfg.Tracing.OTLPEndpoint)
	}

	// Метрики собираются всегда, endpoint публикуется только если включен
	metricsCollector := metrics.New(cfg.Metrics.ServiceName)
	stopMetricsCh := make(chan struct{})

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.AutoMigrate {
		migrator, err := migrations.NewMigrator(db, log)
		if err != nil {
			log.Fatal("Failed to init migrator: %v", err)
		}
		if err := migrator.Up(context.Background()); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
	}

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)

	// Блокировка слотов: Redis для нескольких реплик, иначе в памяти процесса
	var locker slotlock.Locker = slotlock.NewMemoryLocker()
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}
		locker = slotlock.NewRedisLocker(rdb, cfg.Redis.Prefix, time.Duration(cfg.Redis.LockTTL)*time.Second)
		log.Info("Using redis slot locks (addr=%s)", cfg.Redis.Addr)
	}

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	businessRepository := businessRepo.NewRepository(wrappedDB)
	configRepository := configRepo.NewRepository(wrappedDB)
	txManager := txmanager.NewTransactionManager(wrappedDB)

	stateMachine := scheduling.NewStateMachine(scheduling.Policy{
		CustomerCanCancelConfirmed: cfg.Booking.CustomerCanCancelConfirmed,
	})

	// Сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, businessRepository, log)
	configSvc := configService.NewService(configRepository, businessRepository, log)

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		businessRepository,
		configRepository,
		txManager,
		locker,
		metricsCollector,
		createBookingUC.Settings{
			Location:    location,
			LockTimeout: cfg.Booking.LockTimeoutDuration(),
		},
		log,
	)
	transitionBookingUseCase := transitionBookingUC.NewUseCase(
		bookingRepository,
		businessRepository,
		stateMachine,
		metricsCollector,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		businessRepository,
		configRepository,
		location,
		log,
	)

	// Handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	transitionBooking := transitionBookingHandler.NewHandler(transitionBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getBusinessBookings := getBusinessBookingsHandler.NewHandler(bookingSvc, log)
	getBusinessStats := getBusinessStatsHandler.NewHandler(bookingSvc, log)
	getBusinessConfig := getBusinessConfigHandler.NewHandler(configSvc, log)
	updateBusinessConfig := updateBusinessConfigHandler.NewHandler(configSvc, log)
	listBusinessConfigs := listBusinessConfigsHandler.NewHandler(configSvc, log)
	health := healthHandler.NewHandler(wrappedDB, log)

	// Роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Metrics(metricsCollector, log))

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth)

	// Публичные маршруты
	api.HandleFunc("/businesses/{businessId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}/config", getBusinessConfig.Handle).Methods(http.MethodGet)

	// Маршруты, требующие X-User-ID
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/status", transitionBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}/bookings", getBusinessBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}/stats", getBusinessStats.Handle).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}/config", updateBusinessConfig.Handle).Methods(http.MethodPut)
	api.HandleFunc("/businesses/{businessId}/configs", listBusinessConfigs.Handle).Methods(http.MethodGet)

	var handler http.Handler = r
	handler = gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(cfg.Server.AllowedOrigins),
		gorillaHandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", middleware.UserIDHeader, middleware.UserRoleHeader, middleware.RequestIDHeader}),
	)(handler)
	handler = gorillaHandlers.RecoveryHandler(gorillaHandlers.PrintRecoveryStack(true))(handler)
	handler = tracing.Middleware("booking-service")(handler)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to flush traces: %v", err)
	}

	log.Info("Server stopped gracefully")
}
