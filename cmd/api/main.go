package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadp "loan-ledger/internal/adapter/http"
	appmw "loan-ledger/internal/adapter/middleware"
	"loan-ledger/internal/adapter/repository/gormrepo"
	"loan-ledger/internal/config"
	"loan-ledger/internal/domain/event"
	"loan-ledger/internal/infrastructure/cache"
	"loan-ledger/internal/infrastructure/db"
	"loan-ledger/internal/infrastructure/events"
	"loan-ledger/internal/infrastructure/logger"
	"loan-ledger/internal/infrastructure/telemetry"
	ucCustomer "loan-ledger/internal/usecase/customer"
	ucLoan "loan-ledger/internal/usecase/loan"
	ucPayment "loan-ledger/internal/usecase/payment"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	zap.ReplaceGlobals(zl)

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracer(sctx); err != nil {
			zl.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), db.ParseLogLevel(cfg.DBLogLevel))
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	if err := gormrepo.Migrate(gdb); err != nil {
		return err
	}

	rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer rdb.Close()

	var publisher event.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer func() {
			if err := kp.Close(); err != nil {
				zl.Warn("kafka writer close", zap.Error(err))
			}
		}()
		publisher = kp
		zl.Info("events: publishing to kafka", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	customers := gormrepo.NewCustomerRepository(gdb)
	loans := gormrepo.NewLoanRepository(gdb)
	payments := gormrepo.NewPaymentRepository(gdb)
	tx := gormrepo.NewGormUoW(gdb)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Recover(), appmw.Tracing(), appmw.RequestLogger(zl), appmw.Metrics())

	httpadp.Router{
		Health: httpadp.NewHandler(map[string]httpadp.Check{
			"database": sqlDB.PingContext,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
		Customers: httpadp.NewCustomerHandler(ucCustomer.NewUsecase(customers)),
		Loans:     httpadp.NewLoanHandler(ucLoan.NewUsecase(customers, loans, payments, tx).WithPublisher(publisher)),
		Payments:  httpadp.NewPaymentHandler(ucPayment.NewUsecase(tx).WithPublisher(publisher)),
		Write: []echo.MiddlewareFunc{
			appmw.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second),
		},
	}.Register(e)

	srvErr := make(chan error, 1)
	go func() {
		addr := ":" + cfg.AppPort
		zl.Info("listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
	}()

	select {
	case err := <-srvErr:
		return err
	case <-ctx.Done():
		zl.Info("shutting down")
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}
