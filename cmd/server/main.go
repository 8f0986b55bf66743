package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/inei-oti/activos-backend/internal/api"
	"github.com/inei-oti/activos-backend/internal/config"
	"github.com/inei-oti/activos-backend/internal/domain/assets"
	"github.com/inei-oti/activos-backend/internal/domain/assignments"
	"github.com/inei-oti/activos-backend/internal/domain/audit"
	"github.com/inei-oti/activos-backend/internal/domain/catalog"
	"github.com/inei-oti/activos-backend/internal/domain/consumables"
	"github.com/inei-oti/activos-backend/internal/domain/employees"
	"github.com/inei-oti/activos-backend/internal/domain/operations"
	"github.com/inei-oti/activos-backend/internal/domain/specs"
	"github.com/inei-oti/activos-backend/internal/infra/db"
	httpx "github.com/inei-oti/activos-backend/internal/infra/http"
	"github.com/inei-oti/activos-backend/internal/infra/logger"
	"github.com/inei-oti/activos-backend/internal/reports"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/subosito/gotenv"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	catalogRepo := catalog.NewRepo(pool)
	employeeRepo := employees.NewRepo(pool)
	assetRepo := assets.NewRepo(pool)
	eventRepo := audit.NewRepo(pool)
	opsRepo := operations.NewRepo(pool)
	specsRepo := specs.NewRepo(pool)

	validator := assets.NewValidator(assets.DefaultIdentifierPolicy(), catalogRepo, employeeRepo)
	guard := assets.NewGuard(nil)

	assignStore := assignments.NewPostgres(pool)
	custody := assignments.NewLedger(assignStore, employeeRepo, log)

	itemStore := consumables.NewPostgres(pool)
	stock := consumables.NewLedger(itemStore, log)

	handlers := api.New(
		api.Config{UserHeader: cfg.Auth.UserHeader, RolesHeader: cfg.Auth.RolesHeader},
		log,
		assetRepo, validator, guard,
		custody, assignStore, eventRepo,
		stock, itemStore,
		catalogRepo, employeeRepo, opsRepo, specsRepo,
		reports.NewService(assetRepo),
	)

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, handlers)
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
