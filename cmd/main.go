package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/m04kA/TourGuide-AvailabilityService/internal/api/handlers"
	createSlotHandler "github.com/m04kA/TourGuide-AvailabilityService/internal/api/handlers/create_slot"
	deleteSlotHandler "github.com/m04kA/TourGuide-AvailabilityService/internal/api/handlers/delete_slot"
	getCalendarHandler "github.com/m04kA/TourGuide-AvailabilityService/internal/api/handlers/get_calendar"
	getSlotHandler "github.com/m04kA/TourGuide-AvailabilityService/internal/api/handlers/get_slot"
	listSlotsHandler "github.com/m04kA/TourGuide-AvailabilityService/internal/api/handlers/list_slots"
	slotEventsHandler "github.com/m04kA/TourGuide-AvailabilityService/internal/api/handlers/slot_events"
	toggleSlotHandler "github.com/m04kA/TourGuide-AvailabilityService/internal/api/handlers/toggle_slot"
	updateSlotHandler "github.com/m04kA/TourGuide-AvailabilityService/internal/api/handlers/update_slot"
	"github.com/m04kA/TourGuide-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/TourGuide-AvailabilityService/internal/config"
	"github.com/m04kA/TourGuide-AvailabilityService/internal/infra/lock"
	"github.com/m04kA/TourGuide-AvailabilityService/internal/infra/notify"
	slotRepo "github.com/m04kA/TourGuide-AvailabilityService/internal/infra/storage/slot"
	"github.com/m04kA/TourGuide-AvailabilityService/internal/integrations/tourapi"
	"github.com/m04kA/TourGuide-AvailabilityService/internal/service/availability"
	"github.com/m04kA/TourGuide-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/TourGuide-AvailabilityService/pkg/logger"
	"github.com/m04kA/TourGuide-AvailabilityService/pkg/metrics"
	"github.com/m04kA/TourGuide-AvailabilityService/pkg/txmanager"
)

const (
	poolStatsInterval   = 15 * time.Second
	rateLimitSweepEvery = time.Minute
	rateLimitIdle       = 10 * time.Minute
	// guardTTLMargin запас поверх таймаута мутации, чтобы ключ не истёк раньше запроса
	guardTTLMargin = 5 * time.Second
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting TourGuide-AvailabilityService...")
	log.Info("Configuration loaded from config.toml")

	location, _ := cfg.App.Location()
	stopCh := make(chan struct{})

	// Метрики (nil, если выключены: все методы nil-safe)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.Wrap(db, metricsCollector)
	go wrappedDB.CollectPoolStats(poolStatsInterval, stopCh)

	slotRepository := slotRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Клиент внешнего API маркетплейса
	tourClient := tourapi.NewClient(
		cfg.TourAPI.URL,
		time.Duration(cfg.TourAPI.Timeout)*time.Second,
		log,
		metricsCollector,
	)
	log.Info("Tour API client initialized (url=%s, timeout=%ds)", cfg.TourAPI.URL, cfg.TourAPI.Timeout)

	mutationTimeout := time.Duration(cfg.TourAPI.MutationTimeout) * time.Second

	// Защита от повторных отправок
	var guard availability.SubmissionGuard
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}

		guard = lock.NewRedisGuard(redisClient, mutationTimeout+guardTTLMargin, log)
		log.Info("Submission guard: redis (addr=%s)", cfg.Redis.Addr)
	} else {
		guard = lock.NewLocalGuard()
		log.Info("Submission guard: in-process")
	}

	hub := notify.NewHub(log, metricsCollector, cfg.CORS.AllowedOrigins)

	availabilitySvc := availability.NewService(
		tourClient,
		slotRepository,
		txMgr,
		guard,
		hub,
		metricsCollector,
		availability.Config{
			MutationTimeout: mutationTimeout,
			MaxAge:          time.Duration(cfg.Store.MaxAgeSeconds) * time.Second,
			Location:        location,
		},
		log,
	)

	// Инициализируем handlers
	listSlots := listSlotsHandler.NewHandler(availabilitySvc, log)
	getSlot := getSlotHandler.NewHandler(availabilitySvc, log)
	getCalendar := getCalendarHandler.NewHandler(availabilitySvc, log)
	createSlot := createSlotHandler.NewHandler(availabilitySvc, log)
	updateSlot := updateSlotHandler.NewHandler(availabilitySvc, log)
	toggleSlot := toggleSlotHandler.NewHandler(availabilitySvc, log)
	deleteSlot := deleteSlotHandler.NewHandler(availabilitySvc, log)
	slotEvents := slotEventsHandler.NewHandler(hub)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handlers.RouteNotFound)
	r.Use(middleware.Recover(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// ============================================================
	// PROTECTED ROUTES (X-User-ID + сессионная cookie)
	// ============================================================

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RequestID)
	api.Use(middleware.Auth(cfg.Session.CookieName, log))

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log)
		go limiter.Cleanup(rateLimitSweepEvery, rateLimitIdle, stopCh)
		api.Use(limiter.Limit)
		log.Info("Rate limit enabled (rps=%.2f, burst=%d)", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// Статические пути регистрируются раньше /availability/{id}
	api.HandleFunc("/availability/calendar", getCalendar.Handle).Methods(http.MethodGet)
	api.HandleFunc("/availability/events", slotEvents.Handle).Methods(http.MethodGet)

	api.HandleFunc("/availability", listSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/availability", createSlot.Handle).Methods(http.MethodPost)
	api.HandleFunc("/availability/{id}", getSlot.Handle).Methods(http.MethodGet)
	api.HandleFunc("/availability/{id}", updateSlot.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/availability/{id}/toggle", toggleSlot.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/availability/{id}", deleteSlot.Handle).Methods(http.MethodDelete)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", middleware.HeaderUserID, middleware.HeaderRequestID},
		ExposedHeaders:   []string{middleware.HeaderRequestID},
		AllowCredentials: true,
	}).Handler(r)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	close(stopCh)
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
