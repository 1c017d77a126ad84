package main

import (
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/oksasatya/employee-service/config"
	"github.com/oksasatya/employee-service/internal/domain/entity"
	pginfra "github.com/oksasatya/employee-service/internal/infrastructure/postgres"
	"github.com/oksasatya/employee-service/pkg/helpers"
)

const insertDemo = `
	INSERT INTO employees (first_name, last_name, email, department, position, salary, hire_date, phone)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (email) DO NOTHING
`

func str(s string) *string { return &s }

func day(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

func money(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

var demo = []entity.Employee{
	{FirstName: "John", LastName: "Smith", Email: "john.smith@example.com", Department: "Engineering",
		Position: str("Backend Developer"), Salary: money("85000.00"), HireDate: day("2021-03-15"), Phone: str("+1-555-0101")},
	{FirstName: "Jane", LastName: "Goldsmith", Email: "jane.goldsmith@example.com", Department: "Engineering",
		Position: str("Engineering Manager"), Salary: money("120000.00"), HireDate: day("2018-07-01"), Phone: str("+1-555-0102")},
	{FirstName: "Ann", LastName: "Lee", Email: "ann.lee@example.com", Department: "Sales",
		Position: str("Account Executive"), Salary: money("65000.00"), HireDate: day("2022-01-10")},
	{FirstName: "Carlos", LastName: "Diaz", Email: "carlos.diaz@example.com", Department: "Marketing",
		Position: str("Content Lead")},
	{FirstName: "Priya", LastName: "Nair", Email: "priya.nair@example.com", Department: "HR",
		HireDate: day("2020-11-02"), Phone: str("+1-555-0105")},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	dsn := cfg.PostgresDSN()
	if err := pginfra.RunMigrations(dsn, cfg.MigrationsDir, logger); err != nil {
		logger.WithError(err).Fatal("migration failed")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		logger.WithError(err).Fatal("failed to open db")
	}
	defer func() { _ = db.Close() }()

	inserted := 0
	for _, e := range demo {
		res, err := db.Exec(insertDemo, e.FirstName, e.LastName, e.Email, e.Department, e.Position, e.Salary, e.HireDate, e.Phone)
		if err != nil {
			logger.WithError(err).WithField("email", e.Email).Fatal("failed to seed employee")
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	logger.WithField("inserted", inserted).WithField("total", len(demo)).Info("seeded demo employees")
}
