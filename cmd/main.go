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

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/m04kA/GymLessonBookingService/database"
	createBookingHandler "github.com/m04kA/GymLessonBookingService/internal/api/handlers/create_booking"
	createReservationHandler "github.com/m04kA/GymLessonBookingService/internal/api/handlers/create_reservation"
	getAvailableSlotsHandler "github.com/m04kA/GymLessonBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/GymLessonBookingService/internal/api/handlers/get_booking"
	getDayBookingsHandler "github.com/m04kA/GymLessonBookingService/internal/api/handlers/get_day_bookings"
	paymentWebhookHandler "github.com/m04kA/GymLessonBookingService/internal/api/handlers/payment_webhook"
	releaseReservationHandler "github.com/m04kA/GymLessonBookingService/internal/api/handlers/release_reservation"
	updateBookingStatusHandler "github.com/m04kA/GymLessonBookingService/internal/api/handlers/update_booking_status"
	"github.com/m04kA/GymLessonBookingService/internal/api/middleware"
	"github.com/m04kA/GymLessonBookingService/internal/config"
	availabilityRepo "github.com/m04kA/GymLessonBookingService/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/GymLessonBookingService/internal/infra/storage/booking"
	paymentEventRepo "github.com/m04kA/GymLessonBookingService/internal/infra/storage/paymentevent"
	reservationRepo "github.com/m04kA/GymLessonBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/GymLessonBookingService/internal/integrations/notifier"
	"github.com/m04kA/GymLessonBookingService/internal/integrations/profileservice"
	"github.com/m04kA/GymLessonBookingService/internal/integrations/stripepay"
	bookingsService "github.com/m04kA/GymLessonBookingService/internal/service/bookings"
	reservationsService "github.com/m04kA/GymLessonBookingService/internal/service/reservations"
	bookingLifecycle "github.com/m04kA/GymLessonBookingService/internal/usecase/booking_lifecycle"
	getAvailableSlotsUC "github.com/m04kA/GymLessonBookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/GymLessonBookingService/internal/worker/sweeper"
	"github.com/m04kA/GymLessonBookingService/pkg/dbmetrics"
	"github.com/m04kA/GymLessonBookingService/pkg/lock"
	"github.com/m04kA/GymLessonBookingService/pkg/logger"
	"github.com/m04kA/GymLessonBookingService/pkg/metrics"
	"github.com/m04kA/GymLessonBookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию (файл + переменные окружения LESSONS_*)
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

	log.Info("Starting GymLessonBookingService...")

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Failed to load business timezone: %v", err)
	}

	// Инициализируем метрики (если включены); nil коллектор - метрики не пишутся
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Миграции
	if cfg.Database.AutoMigrate {
		if err := database.MigrateUp(cfg.Database.DSN()); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Database migrations applied")
	}

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

	stopMetricsCh := make(chan struct{})
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	reservationRepository := reservationRepo.NewRepository(wrappedDB)
	availabilityRepository := availabilityRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	paymentEventRepository := paymentEventRepo.NewRepository(wrappedDB)

	// Интеграции
	paymentClient := stripepay.NewClient(stripepay.Config{
		SecretKey:  cfg.Stripe.SecretKey,
		Currency:   cfg.Stripe.Currency,
		SuccessURL: cfg.Stripe.SuccessURL,
		CancelURL:  cfg.Stripe.CancelURL,
	}, log)

	var profiles bookingLifecycle.ProfileClient
	if cfg.ProfileService.URL != "" {
		profiles = profileservice.NewClient(
			cfg.ProfileService.URL,
			time.Duration(cfg.ProfileService.Timeout)*time.Second,
			log,
		)
		log.Info("Profile service client initialized (url=%s, timeout=%ds)",
			cfg.ProfileService.URL, cfg.ProfileService.Timeout)
	} else {
		log.Warn("Profile service URL is empty, parent profiles will not be linked")
	}

	var publisher notifier.Publisher
	if cfg.Notifications.AMQPURL != "" {
		amqpPublisher, err := notifier.NewAMQPPublisher(cfg.Notifications.AMQPURL, cfg.Notifications.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to message broker: %v", err)
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		log.Info("Booking notifications enabled (exchange=%s)", cfg.Notifications.Exchange)
	}
	bookingNotifier := notifier.New(publisher, log)

	// Сервисы и use cases
	reservationSvc, err := reservationsService.NewService(
		txMgr,
		reservationRepository,
		&reservationsService.RealTimeProvider{},
		metricsCollector,
		log,
		reservationsService.Config{
			HoldTTLMinutes: cfg.Booking.HoldTTLMinutes,
			Location:       location,
		},
	)
	if err != nil {
		log.Fatal("Failed to initialize reservation service: %v", err)
	}

	getAvailableSlotsUseCase, err := getAvailableSlotsUC.NewUseCase(
		availabilityRepository,
		bookingRepository,
		reservationRepository,
		log,
		getAvailableSlotsUC.Config{
			Location:           location,
			ExceptionOrder:     cfg.Booking.ExceptionOrder,
			MinNoticeMinutes:   cfg.Booking.MinNoticeMinutes,
			AdvanceBookingDays: cfg.Booking.AdvanceBookingDays,
		},
	)
	if err != nil {
		log.Fatal("Failed to initialize availability use case: %v", err)
	}

	coordinator := bookingLifecycle.NewCoordinator(
		reservationSvc,
		bookingRepository,
		reservationRepository,
		paymentEventRepository,
		paymentClient,
		profiles,
		bookingNotifier,
		txMgr,
		metricsCollector,
		log,
	)

	bookingSvc := bookingsService.NewService(bookingRepository, log)

	// Воркер очистки истекших удержаний; с Redis - один тик на все реплики
	var locker sweeper.Locker
	if cfg.Redis.Addr != "" {
		redisLock, err := lock.NewRedisLock(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("Redis unavailable, sweeper runs without distributed lock: %v", err)
		} else {
			defer redisLock.Close()
			locker = redisLock
		}
	}

	holdsSweeper, err := sweeper.New(reservationSvc, locker, cfg.Booking.SweepSchedule, log)
	if err != nil {
		log.Fatal("Failed to initialize sweeper: %v", err)
	}

	// Handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createReservation := createReservationHandler.NewHandler(reservationSvc, log)
	releaseReservation := releaseReservationHandler.NewHandler(reservationSvc, log)
	createBooking := createBookingHandler.NewHandler(coordinator, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	paymentWebhook := paymentWebhookHandler.NewHandler(coordinator, log)
	getDayBookings := getDayBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(coordinator, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	// Свободные слоты на дату
	api.HandleFunc("/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Удержания слотов (ограничены по частоте)
	reservationsRouter := api.PathPrefix("/reservations").Subrouter()
	reservationsRouter.Use(middleware.RateLimit(cfg.Booking.ReservationRateLimit, cfg.Server.TrustProxyHeaders, log))
	reservationsRouter.HandleFunc("", createReservation.Handle).Methods(http.MethodPost)
	reservationsRouter.HandleFunc("/{sessionId}", releaseReservation.Handle).Methods(http.MethodDelete)

	// Бронирования
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Webhook платежного провайдера
	api.HandleFunc("/webhooks/payments", paymentWebhook.Handle).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (требуют X-Admin-Key)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminKey(cfg.Admin.APIKey))

	admin.HandleFunc("/bookings", getDayBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return holdsSweeper.Run(gctx)
	})

	// Graceful shutdown по сигналу или падению одной из горутин
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		close(stopMetricsCh)

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
		)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Service stopped with error: %v", err)
		return
	}

	log.Info("Server stopped gracefully")
}
