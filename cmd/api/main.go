package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"

	"github.com/vijaygla/HRMS-sub000/internal/config"
	appHTTP "github.com/vijaygla/HRMS-sub000/internal/handler/http"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/cron"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/database"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/jwt"
	"github.com/vijaygla/HRMS-sub000/internal/repository/postgresql"
	attendanceService "github.com/vijaygla/HRMS-sub000/internal/service/attendance"
	serviceAuth "github.com/vijaygla/HRMS-sub000/internal/service/auth"
	departmentService "github.com/vijaygla/HRMS-sub000/internal/service/department"
	employeeService "github.com/vijaygla/HRMS-sub000/internal/service/employee"
	"github.com/vijaygla/HRMS-sub000/internal/service/leave"
	payrollService "github.com/vijaygla/HRMS-sub000/internal/service/payroll"
	performanceService "github.com/vijaygla/HRMS-sub000/internal/service/performance"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(!cfg.App.IsProduction())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.App.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hrms"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
	})
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	txManager := postgresql.NewTxManager(db)
	userRepo := postgresql.NewUserRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	reviewRepo := postgresql.NewPerformanceRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.App.IsProduction())

	authService := serviceAuth.NewAuthService(txManager, userRepo, employeeRepo, JWTService, refreshTokenRepo)
	departmentSvc := departmentService.NewDepartmentService(departmentRepo, employeeRepo)
	employeeSvc := employeeService.NewEmployeeService(txManager, employeeRepo, userRepo, departmentRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, cfg.App.Timezone)
	leaveService := leave.NewLeaveService(leaveRequestRepo, cfg.Leave.Policy())
	payrollSvc := payrollService.NewPayrollService(payrollRepo, employeeRepo, attendanceRepo, cfg.Payroll.Policy())
	reviewSvc := performanceService.NewReviewService(reviewRepo, employeeRepo)

	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		Logger:         logger,
		LogLevel:       cfg.App.SlogLevel(),
		AllowedOrigins: cfg.App.AllowedOrigins,
		RequestTimeout: cfg.App.RequestTimeout,
	}, JWTService, appHTTP.Handlers{
		Auth:        appHTTP.NewAuthHandler(JWTService, authService),
		Department:  appHTTP.NewDepartmentHandler(departmentSvc),
		Employee:    appHTTP.NewEmployeeHandler(employeeSvc),
		Attendance:  appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:       appHTTP.NewLeaveHandler(leaveService),
		Payroll:     appHTTP.NewPayrollHandler(payrollSvc),
		Performance: appHTTP.NewPerformanceHandler(reviewSvc),
	})

	if cfg.Cron.Enabled {
		scheduler := cron.NewScheduler()
		cron.NewAttendanceJobs(attendanceRepo, employeeRepo, leaveRequestRepo, cfg.App.Timezone, cfg.Cron.AbsentAfterHour).
			RegisterJobs(scheduler, cfg.Cron.Interval)
		scheduler.Start(ctx)
		defer scheduler.Stop()
		slog.Info("background jobs started", "jobs", scheduler.Jobs(), "interval", cfg.Cron.Interval.String())
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", server.Addr)
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

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
