package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cmlabs-hris/hris-timekeeping/internal/config"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/shift"
	"github.com/cmlabs-hris/hris-timekeeping/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/hris-timekeeping/internal/handler/http"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/mongodb"
	"github.com/cmlabs-hris/hris-timekeeping/internal/repository/memory"
	mongoRepository "github.com/cmlabs-hris/hris-timekeeping/internal/repository/mongodb"
	"github.com/cmlabs-hris/hris-timekeeping/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-timekeeping/internal/service/attendance"
	calendarService "github.com/cmlabs-hris/hris-timekeeping/internal/service/calendar"
	leaveService "github.com/cmlabs-hris/hris-timekeeping/internal/service/leave"
	notificationService "github.com/cmlabs-hris/hris-timekeeping/internal/service/notification"
	shiftService "github.com/cmlabs-hris/hris-timekeeping/internal/service/shift"
	"github.com/go-chi/httplog/v3"
)

// stores groups the repositories the services run on.
type stores struct {
	tx           database.Transactor
	employees    employee.EmployeeRepository
	holidays     calendar.HolidayRepository
	settings     calendar.SettingsRepository
	leaveTypes   leave.LeaveTypeRepository
	leaveRequest leave.LeaveRequestRepository
	shifts       shift.ShiftRepository
	attendance   attendance.AttendanceRepository
	events       notification.Repository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.App.LogLevel))); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := stores{}
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if err := database.Migrate(ctx, db, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		s.tx = postgresql.NewTransactor(db)
		s.employees = postgresql.NewEmployeeRepository(db)
		s.holidays = postgresql.NewHolidayRepository(db)
		s.settings = postgresql.NewSettingsRepository(db)
		s.leaveTypes = postgresql.NewLeaveTypeRepository(db)
		s.leaveRequest = postgresql.NewLeaveRequestRepository(db)
		s.shifts = postgresql.NewShiftRepository(db)
		s.events = postgresql.NewNotificationRepository(db)
	default:
		logger.Warn("running on the in-memory store, data is lost on restart")
		s.tx = memory.NewTransactor()
		s.employees = memory.NewEmployeeRepository()
		s.holidays = memory.NewHolidayRepository()
		s.settings = memory.NewSettingsRepository()
		s.leaveTypes = memory.NewLeaveTypeRepository()
		s.leaveRequest = memory.NewLeaveRequestRepository()
		s.shifts = memory.NewShiftRepository()
	}

	if cfg.Mongo.URI != "" {
		mongoDB, err := mongodb.NewMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to mongodb: %w", err)
		}
		defer func() {
			if err := mongoDB.Close(context.Background()); err != nil {
				logger.Error("failed to close mongodb", slog.String("error", err.Error()))
			}
		}()

		if s.attendance, err = mongoRepository.NewAttendanceRepository(ctx, mongoDB); err != nil {
			return err
		}
		if s.events, err = mongoRepository.NewNotificationRepository(ctx, mongoDB); err != nil {
			return err
		}
	} else {
		s.attendance = memory.NewAttendanceRepository()
	}

	var sink notification.Sink
	if s.events != nil {
		dispatcher := notificationService.NewDispatcher(s.events, notificationService.Config{
			BatchSize:     cfg.Notification.BatchSize,
			FlushInterval: cfg.Notification.FlushInterval,
			WorkerCount:   cfg.Notification.WorkerCount,
			QueueSize:     cfg.Notification.QueueSize,
		}, logger)
		defer dispatcher.Stop()
		sink = dispatcher
	} else {
		sink = notificationService.NewLogSink(logger)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	calendarSvc := calendarService.NewCalendarService(s.holidays, s.settings, calendarService.Defaults{
		TimeZone:    cfg.Calendar.DefaultTimeZone,
		WeekendDays: cfg.Calendar.DefaultWeekendDays,
	}, logger)
	leaveSvc := leaveService.NewLeaveService(s.tx, s.leaveTypes, s.leaveRequest, s.employees, calendarSvc, sink, logger)
	attendanceSvc := attendanceService.NewAttendanceService(s.attendance, s.employees, s.shifts, calendarSvc, sink, logger)
	shiftSvc := shiftService.NewShiftService(s.shifts, logger)

	if cfg.Seed.Enabled {
		if err := fixtures.SeedCompany(ctx, cfg.Seed.CompanyID, leaveSvc, shiftSvc, logger); err != nil {
			return err
		}
	}

	router := appHTTP.NewRouter(
		logger,
		cfg.CORS.AllowedOrigins,
		JWTService,
		appHTTP.NewCalendarHandler(calendarSvc),
		appHTTP.NewLeaveHandler(leaveSvc),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewShiftHandler(shiftSvc),
	)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server running", slog.String("addr", server.Addr), slog.String("store", cfg.Store.Driver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
