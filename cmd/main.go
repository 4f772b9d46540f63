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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelAppointmentHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/create_appointment"
	createScheduleBlockHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/create_schedule_block"
	createTimeSlotHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/create_time_slot"
	deactivateAvailabilityRuleHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/deactivate_availability_rule"
	deactivateScheduleBlockHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/deactivate_schedule_block"
	getAppointmentHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_appointment"
	getAvailabilityHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_availability"
	getAvailabilityRuleHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_availability_rule"
	getDayAppointmentsHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_day_appointments"
	getScheduleBlocksHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_schedule_blocks"
	listTimeSlotsHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/list_time_slots"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/update_appointment_status"
	updateTimeSlotHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/update_time_slot"
	upsertAvailabilityRuleHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/upsert_availability_rule"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
	"github.com/m04kA/SMC-ScheduleService/internal/config"
	appointmentRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/appointment"
	availabilityRuleRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/availabilityrule"
	scheduleBlockRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/scheduleblock"
	timeSlotRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/timeslot"
	catalogServiceClient "github.com/m04kA/SMC-ScheduleService/internal/integrations/catalogservice"
	appointmentsService "github.com/m04kA/SMC-ScheduleService/internal/service/appointments"
	scheduleService "github.com/m04kA/SMC-ScheduleService/internal/service/schedule"
	createAppointmentUC "github.com/m04kA/SMC-ScheduleService/internal/usecase/create_appointment"
	resolveAvailabilityUC "github.com/m04kA/SMC-ScheduleService/internal/usecase/resolve_availability"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/logger"
	"github.com/m04kA/SMC-ScheduleService/pkg/metrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-ScheduleService/pkg/txmanager"
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

	log.Info("Starting SMC-ScheduleService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

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

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем клиент каталога услуг
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration client initialized (CatalogService=%s timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		apptRepository  *appointmentRepo.Repository
		slotRepository  *timeSlotRepo.Repository
		ruleRepository  *availabilityRuleRepo.Repository
		blockRepository *scheduleBlockRepo.Repository
	)

	// Интерфейс transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		apptRepository = appointmentRepo.NewRepository(wrappedDB)
		slotRepository = timeSlotRepo.NewRepository(wrappedDB)
		ruleRepository = availabilityRuleRepo.NewRepository(wrappedDB)
		blockRepository = scheduleBlockRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		apptRepository = appointmentRepo.NewRepository(db)
		slotRepository = timeSlotRepo.NewRepository(db)
		ruleRepository = availabilityRuleRepo.NewRepository(db)
		blockRepository = scheduleBlockRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	appointmentsSvc := appointmentsService.NewService(apptRepository, log)
	scheduleSvc := scheduleService.NewService(
		slotRepository,
		ruleRepository,
		blockRepository,
		catalogClient,
		log,
	)

	// Инициализируем use cases
	resolveAvailabilityUseCase := resolveAvailabilityUC.NewUseCase(
		slotRepository,
		ruleRepository,
		blockRepository,
		apptRepository,
		catalogClient,
		log,
	)

	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		apptRepository,
		slotRepository,
		ruleRepository,
		blockRepository,
		catalogClient,
		txMgr,
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(resolveAvailabilityUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentsSvc, log)
	getDayAppointments := getDayAppointmentsHandler.NewHandler(appointmentsSvc, log)
	listTimeSlots := listTimeSlotsHandler.NewHandler(scheduleSvc, log)
	createTimeSlot := createTimeSlotHandler.NewHandler(scheduleSvc, log)
	updateTimeSlot := updateTimeSlotHandler.NewHandler(scheduleSvc, log)
	getAvailabilityRule := getAvailabilityRuleHandler.NewHandler(scheduleSvc, log)
	upsertAvailabilityRule := upsertAvailabilityRuleHandler.NewHandler(scheduleSvc, log)
	deactivateAvailabilityRule := deactivateAvailabilityRuleHandler.NewHandler(scheduleSvc, log)
	getScheduleBlocks := getScheduleBlocksHandler.NewHandler(scheduleSvc, log)
	createScheduleBlock := createScheduleBlockHandler.NewHandler(scheduleSvc, log)
	deactivateScheduleBlock := deactivateScheduleBlockHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Расчёт доступности даты для записи
	api.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Каталог слотов расписания
	api.HandleFunc("/time-slots", listTimeSlots.Handle).Methods(http.MethodGet)

	// Создание записи
	api.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	api.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Отмена записи
	api.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header, для администраторов)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Расписание дня
	protected.HandleFunc("/appointments", getDayAppointments.Handle).Methods(http.MethodGet)

	// Смена статуса записи (подтверждение, завершение)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// --- Каталог слотов ---
	protected.HandleFunc("/time-slots", createTimeSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/time-slots/{slotId}", updateTimeSlot.Handle).Methods(http.MethodPatch)

	// --- Правила доступности услуг ---
	protected.HandleFunc("/services/{serviceId}/availability-rule", getAvailabilityRule.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/services/{serviceId}/availability-rule", upsertAvailabilityRule.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/services/{serviceId}/availability-rule", deactivateAvailabilityRule.Handle).Methods(http.MethodDelete)

	// --- Блокировки расписания ---
	protected.HandleFunc("/schedule-blocks", getScheduleBlocks.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/schedule-blocks", createScheduleBlock.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/schedule-blocks/{blockId}", deactivateScheduleBlock.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
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

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
