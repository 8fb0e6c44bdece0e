package http

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/vijaygla/HRMS-sub000/internal/domain/user"
	"github.com/vijaygla/HRMS-sub000/internal/handler/http/middleware"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/jwt"
)

type Handlers struct {
	Auth        AuthHandler
	Department  DepartmentHandler
	Employee    EmployeeHandler
	Attendance  AttendanceHandler
	Leave       LeaveHandler
	Payroll     PayrollHandler
	Performance PerformanceHandler
}

type RouterOptions struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
	RequestTimeout time.Duration
}

var (
	staff      = middleware.RequireRoles(user.RoleAdmin, user.RoleHR, user.RoleManager)
	hrAndAdmin = middleware.RequireRoles(user.RoleAdmin, user.RoleHR)
	adminOnly  = middleware.RequireRoles(user.RoleAdmin)
)

func NewRouter(opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  opts.LogLevel,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	if opts.RequestTimeout > 0 {
		r.Use(chiMiddleware.Timeout(opts.RequestTimeout))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Get("/auth/me", h.Auth.Me)

			r.Route("/departments", func(r chi.Router) {
				r.Get("/", h.Department.List)
				r.Get("/{id}", h.Department.Get)
				r.Get("/{id}/stats", h.Department.GetStats)

				r.Group(func(r chi.Router) {
					r.Use(hrAndAdmin)
					r.Post("/", h.Department.Create)
					r.Put("/{id}", h.Department.Update)
				})
				r.With(adminOnly).Delete("/{id}", h.Department.Delete)
			})

			r.Route("/employees", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(staff)
					r.Get("/", h.Employee.ListEmployees)
					r.Get("/{id}", h.Employee.GetEmployee)
					r.Get("/department/{departmentId}", h.Employee.ListByDepartment)
				})

				// Role checks for writes live in the service
				r.Post("/", h.Employee.CreateEmployee)
				r.Put("/{id}", h.Employee.UpdateEmployee)
				r.Delete("/{id}", h.Employee.DeleteEmployee)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Post("/break/start", h.Attendance.StartBreak)
				r.Post("/break/end", h.Attendance.EndBreak)
				r.Get("/my-attendance", h.Attendance.GetMyAttendance)

				r.Group(func(r chi.Router) {
					r.Use(staff)
					r.Get("/", h.Attendance.List)
					r.Get("/stats/overview", h.Attendance.GetStats)
					r.Get("/{id}", h.Attendance.Get)
				})

				r.Group(func(r chi.Router) {
					r.Use(hrAndAdmin)
					r.Post("/", h.Attendance.CreateManual)
					r.Put("/{id}", h.Attendance.Update)
					r.Delete("/{id}", h.Attendance.Delete)
					r.Get("/reports/export", h.Attendance.ExportReport)
				})
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Post("/", h.Leave.Submit)
				r.Get("/my-leaves", h.Leave.GetMyLeaves)
				r.Get("/my-balance", h.Leave.GetMyBalance)
				r.Get("/{id}", h.Leave.Get)
				r.Put("/{id}", h.Leave.Update)
				r.Delete("/{id}", h.Leave.Delete)
				r.Put("/{id}/cancel", h.Leave.Cancel)

				r.Group(func(r chi.Router) {
					r.Use(staff)
					r.Get("/", h.Leave.List)
					r.Put("/{id}/approve", h.Leave.Approve)
					r.Put("/{id}/reject", h.Leave.Reject)
				})
				r.With(hrAndAdmin).Get("/stats/overview", h.Leave.GetStats)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/my-payroll", h.Payroll.GetMyPayroll)
				r.Get("/{id}/payslip", h.Payroll.GetPayslip)

				r.Group(func(r chi.Router) {
					r.Use(hrAndAdmin)
					r.Get("/", h.Payroll.List)
					r.Post("/", h.Payroll.Create)
					r.Get("/stats/overview", h.Payroll.GetStats)
					r.Post("/calculate/{employeeId}", h.Payroll.Calculate)
					r.Get("/{id}", h.Payroll.Get)
					r.Put("/{id}", h.Payroll.Update)
					r.Put("/{id}/approve", h.Payroll.Approve)
					r.Put("/{id}/pay", h.Payroll.MarkPaid)
					r.Put("/{id}/cancel", h.Payroll.Cancel)
				})
				r.With(adminOnly).Delete("/{id}", h.Payroll.Delete)
			})

			r.Route("/performance", func(r chi.Router) {
				r.Get("/my-reviews", h.Performance.GetMyReviews)
				r.Get("/{id}", h.Performance.Get)
				r.Put("/{id}", h.Performance.Update)
				r.Put("/{id}/acknowledge", h.Performance.Acknowledge)

				r.Group(func(r chi.Router) {
					r.Use(staff)
					r.Get("/", h.Performance.List)
					r.Post("/", h.Performance.Create)
					r.Put("/{id}/submit", h.Performance.Submit)
					r.Put("/{id}/complete", h.Performance.Complete)
				})

				r.Group(func(r chi.Router) {
					r.Use(hrAndAdmin)
					r.Delete("/{id}", h.Performance.Delete)
					r.Get("/stats/overview", h.Performance.GetStats)
				})
			})
		})
	})
	return r
}
