// Command seed fills a development database with an admin account, a few
// departments, employees and recent attendance.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/vijaygla/HRMS-sub000/internal/config"
	"github.com/vijaygla/HRMS-sub000/internal/domain/attendance"
	"github.com/vijaygla/HRMS-sub000/internal/domain/department"
	"github.com/vijaygla/HRMS-sub000/internal/domain/employee"
	"github.com/vijaygla/HRMS-sub000/internal/domain/user"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/database"
	"github.com/vijaygla/HRMS-sub000/internal/repository/postgresql"
	attendanceService "github.com/vijaygla/HRMS-sub000/internal/service/attendance"
	departmentService "github.com/vijaygla/HRMS-sub000/internal/service/department"
	employeeService "github.com/vijaygla/HRMS-sub000/internal/service/employee"
)

var departmentNames = []string{"Engineering", "Finance", "Human Resources", "Sales", "Operations", "Marketing"}

type options struct {
	adminEmail    string
	adminPassword string
	departments   int
	perDepartment int
	days          int
	seed          int64
}

func main() {
	var opts options
	flag.StringVar(&opts.adminEmail, "admin-email", "admin@example.com", "email of the admin account")
	flag.StringVar(&opts.adminPassword, "admin-password", "admin12345", "password of the admin account")
	flag.IntVar(&opts.departments, "departments", 3, "number of departments to create")
	flag.IntVar(&opts.perDepartment, "employees", 5, "employees per department")
	flag.IntVar(&opts.days, "days", 10, "weekdays of attendance history per employee")
	flag.Int64Var(&opts.seed, "seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	if err := run(context.Background(), opts); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	if opts.departments > len(departmentNames) {
		return fmt.Errorf("at most %d departments can be seeded", len(departmentNames))
	}
	gofakeit.Seed(opts.seed)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{})
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	txManager := postgresql.NewTxManager(db)
	userRepo := postgresql.NewUserRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)

	departments := departmentService.NewDepartmentService(departmentRepo, employeeRepo)
	employees := employeeService.NewEmployeeService(txManager, employeeRepo, userRepo, departmentRepo)
	attendances := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, cfg.App.Timezone)

	admin, err := ensureAdmin(ctx, userRepo, opts.adminEmail, opts.adminPassword)
	if err != nil {
		return err
	}
	ctx = user.WithActor(ctx, user.Actor{UserID: admin.ID, Email: admin.Email, Role: admin.Role})

	var staff []employee.EmployeeResponse
	for _, name := range departmentNames[:opts.departments] {
		dept, err := createDepartment(ctx, departments, name)
		if err != nil {
			return err
		}

		for i := 0; i < opts.perDepartment; i++ {
			role := user.RoleEmployee
			if i == 0 {
				role = user.RoleManager
			}
			emp, err := createEmployee(ctx, employees, dept.ID, role)
			if err != nil {
				return err
			}
			staff = append(staff, emp)

			if role == user.RoleManager {
				if _, err := departments.Update(ctx, department.UpdateDepartmentRequest{ID: dept.ID, ManagerID: &emp.ID}); err != nil {
					return fmt.Errorf("failed to assign manager to %s: %w", dept.Name, err)
				}
			}
		}
		slog.Info("seeded department", "name", dept.Name, "employees", opts.perDepartment)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, emp := range staff {
		emp := emp
		g.Go(func() error {
			return seedAttendance(gctx, attendances, emp.ID, opts.days)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("seed complete", "admin", admin.Email, "employees", len(staff))
	return nil
}

func ensureAdmin(ctx context.Context, users user.UserRepository, email, password string) (user.User, error) {
	existing, err := users.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return user.User{}, fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin, err := users.Create(ctx, user.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         user.RoleAdmin,
		IsActive:     true,
	})
	if err != nil {
		return user.User{}, fmt.Errorf("failed to create admin: %w", err)
	}
	slog.Info("created admin account", "email", email)
	return admin, nil
}

func createDepartment(ctx context.Context, svc department.DepartmentService, name string) (department.DepartmentResponse, error) {
	description := gofakeit.Sentence(8)
	location := gofakeit.City()
	budget := decimal.NewFromInt(int64(gofakeit.Number(50, 500)) * 1000)
	established := gofakeit.DateRange(time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)).Format(time.DateOnly)

	dept, err := svc.Create(ctx, department.CreateDepartmentRequest{
		Name:            name,
		Code:            strings.ToUpper(strings.ReplaceAll(name, " ", ""))[:3],
		Description:     &description,
		Location:        &location,
		Budget:          &budget,
		EstablishedDate: &established,
	})
	if err != nil {
		return department.DepartmentResponse{}, fmt.Errorf("failed to create department %s: %w", name, err)
	}
	return dept, nil
}

func createEmployee(ctx context.Context, svc employee.EmployeeService, departmentID string, role user.Role) (employee.EmployeeResponse, error) {
	first, last := gofakeit.FirstName(), gofakeit.LastName()
	email := strings.ToLower(fmt.Sprintf("%s.%s.%d@example.com", first, last, gofakeit.Number(100, 999)))
	gender := gofakeit.Gender()
	dob := gofakeit.DateRange(time.Date(1965, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2002, 1, 1, 0, 0, 0, 0, time.UTC)).Format(time.DateOnly)
	joinDate := gofakeit.DateRange(time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), time.Now().AddDate(0, -2, 0)).Format(time.DateOnly)
	street, city, state, zip, country := gofakeit.Street(), gofakeit.City(), gofakeit.State(), gofakeit.Zip(), "USA"

	emp, err := svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{
		Email:       email,
		Password:    gofakeit.Password(true, true, true, false, false, 12),
		Role:        role,
		FirstName:   first,
		LastName:    last,
		DateOfBirth: &dob,
		Gender:      &gender,
		Address: employee.Address{
			Street:  &street,
			City:    &city,
			State:   &state,
			ZipCode: &zip,
			Country: &country,
		},
		DepartmentID: departmentID,
		Position:     gofakeit.JobTitle(),
		JoinDate:     joinDate,
		BaseSalary:   decimal.NewFromInt(int64(gofakeit.Number(30, 120)) * 100),
		Benefits: employee.Benefits{
			HealthInsurance: gofakeit.Bool(),
			Retirement401k:  gofakeit.Bool(),
		},
	})
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee %s: %w", email, err)
	}
	return emp, nil
}

// seedAttendance writes manual entries for the last n weekdays before today.
func seedAttendance(ctx context.Context, svc attendance.AttendanceService, employeeID string, n int) error {
	day := time.Now().UTC().Truncate(24 * time.Hour)
	for written := 0; written < n; {
		day = day.AddDate(0, 0, -1)
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		written++

		req := attendance.ManualEntryRequest{EmployeeID: employeeID, Date: day.Format(time.DateOnly)}
		switch roll := gofakeit.Number(1, 20); {
		case roll == 1:
			req.Status = attendance.StatusAbsent
		case roll <= 3:
			req.Status = attendance.StatusLate
			req.CheckInTime, req.CheckOutTime = legTimes(day, 9, 30+gofakeit.Number(0, 29), 18)
		default:
			req.Status = attendance.StatusPresent
			req.CheckInTime, req.CheckOutTime = legTimes(day, 8, gofakeit.Number(30, 59), 17+gofakeit.Number(0, 2))
		}

		if _, err := svc.CreateManualEntry(ctx, req); err != nil {
			if errors.Is(err, attendance.ErrAttendanceExists) {
				continue
			}
			return fmt.Errorf("failed to seed attendance for %s on %s: %w", employeeID, req.Date, err)
		}
	}
	return nil
}

func legTimes(day time.Time, inHour, inMinute, outHour int) (*string, *string) {
	in := day.Add(time.Duration(inHour)*time.Hour + time.Duration(inMinute)*time.Minute).Format(time.RFC3339)
	out := day.Add(time.Duration(outHour) * time.Hour).Format(time.RFC3339)
	return &in, &out
}
