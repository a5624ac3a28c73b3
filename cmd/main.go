package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	getAvailableSlotsHandler "github.com/m04kA/recentro-booking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/recentro-booking/internal/api/handlers/get_booking"
	getCatalogHandler "github.com/m04kA/recentro-booking/internal/api/handlers/get_catalog"
	getChainSlotsHandler "github.com/m04kA/recentro-booking/internal/api/handlers/get_chain_slots"
	getSlotBookingsHandler "github.com/m04kA/recentro-booking/internal/api/handlers/get_slot_bookings"
	getSubmissionHandler "github.com/m04kA/recentro-booking/internal/api/handlers/get_submission"
	submitAppointmentHandler "github.com/m04kA/recentro-booking/internal/api/handlers/submit_appointment"
	"github.com/m04kA/recentro-booking/internal/api/middleware"
	"github.com/m04kA/recentro-booking/internal/config"
	"github.com/m04kA/recentro-booking/internal/infra/storage"
	bookingRepo "github.com/m04kA/recentro-booking/internal/infra/storage/booking"
	ledgerRepo "github.com/m04kA/recentro-booking/internal/infra/storage/ledger"
	submissionRepo "github.com/m04kA/recentro-booking/internal/infra/storage/submission"
	"github.com/m04kA/recentro-booking/internal/integrations/broker"
	"github.com/m04kA/recentro-booking/internal/integrations/mailer"
	"github.com/m04kA/recentro-booking/internal/scheduler"
	bookingsService "github.com/m04kA/recentro-booking/internal/service/bookings"
	catalogService "github.com/m04kA/recentro-booking/internal/service/catalog"
	"github.com/m04kA/recentro-booking/internal/service/notification"
	"github.com/m04kA/recentro-booking/internal/service/planner"
	auditLedgerUC "github.com/m04kA/recentro-booking/internal/usecase/audit_ledger"
	getAvailableSlotsUC "github.com/m04kA/recentro-booking/internal/usecase/get_available_slots"
	getChainSlotsUC "github.com/m04kA/recentro-booking/internal/usecase/get_chain_slots"
	submitAppointmentUC "github.com/m04kA/recentro-booking/internal/usecase/submit_appointment"
	"github.com/m04kA/recentro-booking/pkg/dbmetrics"
	"github.com/m04kA/recentro-booking/pkg/logger"
	"github.com/m04kA/recentro-booking/pkg/metrics"
	"github.com/m04kA/recentro-booking/pkg/txmanager"
)

func main() {
	configPath := flag.String("config", config.LookupEnv("CONFIG_PATH", "config.toml"), "path to config.toml")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
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

	log.Info("Starting recentro-booking (%s)...", cfg.Booking.EventName)
	log.Info("Configuration loaded from %s", *configPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := storage.Open(cfg.Database.Driver, cfg.Database.DSN(), storage.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Successfully connected to database (driver=%s)", cfg.Database.Driver)

	if cfg.Database.AutoMigrate {
		if err := storage.Migrate(db, cfg.Database.Driver); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Database migrations applied")
	}

	// Обёртка с метриками; при выключенных метриках работает как обычный *sql.DB
	stopMetricsCh := make(chan struct{})
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil, cfg.Metrics.ServiceName)
	}

	// Каталоги
	times, err := cfg.TimeCatalog()
	if err != nil {
		log.Fatal("Invalid time catalog: %v", err)
	}
	agencies, err := cfg.AgencyCatalog()
	if err != nil {
		log.Fatal("Invalid agency catalog: %v", err)
	}
	capacity := cfg.CapacityPolicy()
	eventDates := cfg.EventDates()
	log.Info("Catalog: %d slots from %s every %d min, %d agencies, max_per_slot=%d",
		times.Len(), times.First(), times.Step(), len(agencies.All()), capacity.Default)

	// Репозитории
	ledgerRepository := ledgerRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	submissionRepository := submissionRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Каналы уведомлений
	var emailSender notification.EmailSender
	if cfg.Notifications.Email.Enabled {
		client, err := mailer.NewClient(ctx, mailer.Config{
			Region:          cfg.Notifications.Email.Region,
			Sender:          cfg.Notifications.Email.Sender,
			AccessKeyID:     cfg.Notifications.Email.AccessKeyID,
			SecretAccessKey: cfg.Notifications.Email.SecretAccessKey,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize SES client: %v", err)
		}
		emailSender = client
		log.Info("E-mail confirmations enabled (region=%s, sender=%s)",
			cfg.Notifications.Email.Region, cfg.Notifications.Email.Sender)
	}

	var eventPublisher notification.EventPublisher
	if cfg.Notifications.Broker.Enabled {
		publisher, err := broker.NewPublisher(cfg.Notifications.Broker.URL, cfg.Notifications.Broker.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
		eventPublisher = publisher
		log.Info("Broker events enabled (exchange=%s, routing_key=%s)",
			cfg.Notifications.Broker.Exchange, cfg.Notifications.Broker.RoutingKey)
	}

	dispatcher := notification.NewDispatcher(
		notification.Settings{
			EventName:  cfg.Booking.EventName,
			RoutingKey: cfg.Notifications.Broker.RoutingKey,
			Timeout:    time.Duration(cfg.Notifications.Timeout) * time.Second,
		},
		emailSender,
		eventPublisher,
		agencies,
		metricsCollector,
		log,
	)

	// Сервисы и use cases
	slotPlanner := planner.New(times, agencies, eventDates)

	bookingSvc := bookingsService.NewService(bookingRepository, submissionRepository, agencies, log)
	catalogSvc := catalogService.NewService(cfg.Booking.EventName, eventDates, times, agencies, capacity, log)

	submitAppointmentUseCase := submitAppointmentUC.NewUseCase(
		slotPlanner,
		ledgerRepository,
		bookingRepository,
		submissionRepository,
		txMgr,
		dispatcher,
		metricsCollector,
		submitAppointmentUC.Settings{
			Capacity:    capacity,
			PhoneRegion: cfg.Booking.PhoneRegion,
		},
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(slotPlanner, ledgerRepository, capacity, log)
	getChainSlotsUseCase := getChainSlotsUC.NewUseCase(slotPlanner, ledgerRepository, capacity, log)
	auditLedgerUseCase := auditLedgerUC.NewUseCase(ledgerRepository, metricsCollector, log)

	// Фоновая сверка счетчиков
	var jobs *scheduler.Service
	if cfg.Audit.Enabled {
		jobs, err = scheduler.New(log)
		if err != nil {
			log.Fatal("Failed to create scheduler: %v", err)
		}
		interval := time.Duration(cfg.Audit.IntervalMinutes) * time.Minute
		if _, err := jobs.AddIntervalJob("ledger-audit", interval, func() {
			auditLedgerUseCase.Run(ctx)
		}); err != nil {
			log.Fatal("Failed to register ledger audit: %v", err)
		}
		jobs.Start()
	}

	// Инициализируем handlers
	submitAppointment := submitAppointmentHandler.NewHandler(submitAppointmentUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getChainSlots := getChainSlotsHandler.NewHandler(getChainSlotsUseCase, log)
	getCatalog := getCatalogHandler.NewHandler(catalogSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getSubmission := getSubmissionHandler.NewHandler(bookingSvc, log)
	getSlotBookings := getSlotBookingsHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Форма записи ---
	api.HandleFunc("/catalog", getCatalog.Handle).Methods(http.MethodGet)
	api.HandleFunc("/availability", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/availability/chain", getChainSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments", submitAppointment.Handle).Methods(http.MethodPost)

	// --- Просмотр записей (для организаторов) ---
	if cfg.Server.AdminRoutes {
		api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
		api.HandleFunc("/submissions/{submissionId}", getSubmission.Handle).Methods(http.MethodGet)
		api.HandleFunc("/slots/bookings", getSlotBookings.Handle).Methods(http.MethodGet)
		log.Info("Admin read routes enabled")
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
		)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown: %v", err)
		}

		if jobs != nil {
			if err := jobs.Stop(); err != nil {
				log.Error("Scheduler stopped with error: %v", err)
			}
		}

		// Уже принятые заявки должны получить подтверждение
		if err := dispatcher.Wait(shutdownCtx); err != nil {
			log.Warn("Pending notifications abandoned: %v", err)
		}

		// Останавливаем сбор метрик connection pool
		close(stopMetricsCh)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("Server terminated with error: %v", err)
		os.Exit(1)
	}

	log.Info("Server stopped gracefully")
}
