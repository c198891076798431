package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ogurasousui/company-admin-console/internal/adapters/http/handler"
	"github.com/ogurasousui/company-admin-console/internal/adapters/repository/postgres"
	"github.com/ogurasousui/company-admin-console/internal/adapters/revocation"
	"github.com/ogurasousui/company-admin-console/internal/adapters/source/upstream"
	"github.com/ogurasousui/company-admin-console/internal/adapters/token"
	"github.com/ogurasousui/company-admin-console/internal/core/adminuser"
	"github.com/ogurasousui/company-admin-console/internal/core/company"
	"github.com/ogurasousui/company-admin-console/internal/core/employee"
	"github.com/ogurasousui/company-admin-console/internal/core/session"
	"github.com/ogurasousui/company-admin-console/internal/core/user"
	"github.com/ogurasousui/company-admin-console/internal/platform/config"
	pg "github.com/ogurasousui/company-admin-console/internal/platform/db/postgres"
	"github.com/ogurasousui/company-admin-console/internal/platform/logging"
	"github.com/ogurasousui/company-admin-console/internal/platform/messaging"
	"github.com/ogurasousui/company-admin-console/internal/platform/server"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	flag.Parse()

	cfg, err := config.Load(config.ResolvePath(*configPath))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database pool: %w", err)
	}
	defer dbPool.Close()

	txManager := pg.NewTransactionManager(dbPool)

	userRepo := postgres.NewUserRepository(dbPool)
	companyRepo := postgres.NewCompanyRepository(dbPool)

	var employeeSource employee.Repository = postgres.NewEmployeeRepository(dbPool)
	employeeTx := employee.TransactionManager(txManager)
	if cfg.Upstream.Enabled() {
		client, err := upstream.NewClient(cfg.Upstream, logger.Named("upstream"))
		if err != nil {
			return fmt.Errorf("initialize upstream client: %w", err)
		}
		employeeSource = client
		employeeTx = nil
		logger.Info("employee source: upstream api", zap.String("base_url", cfg.Upstream.BaseURL))
	}

	var revocations session.RevocationStore = revocation.NewMemoryStore()
	if cfg.Redis.Enabled() {
		client, err := revocation.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()
		revocations = revocation.NewRedisStore(client)
	} else {
		logger.Warn("redis is not configured; token revocation is kept in memory")
	}

	var publisher adminuser.EventPublisher
	if cfg.RabbitMQ.Enabled() {
		p, err := messaging.Dial(cfg.RabbitMQ, logger.Named("messaging"))
		if err != nil {
			return err
		}
		defer func() { _ = p.Close() }()
		publisher = p
	}

	userSvc := user.NewService(userRepo, nil)
	sessionSvc := session.NewService(userRepo, token.NewIssuer(cfg.Auth), revocations, nil, logger.Named("session"))
	adminUserSvc := adminuser.NewService(userRepo, txManager, publisher, nil, logger.Named("adminuser"))
	employeeSvc := employee.NewService(employeeSource, employeeTx)
	companySvc := company.NewService(companyRepo, txManager)

	router := handler.NewRouter(handler.Dependencies{
		Sessions:   sessionSvc,
		Users:      userSvc,
		AdminUsers: adminUserSvc,
		Employees:  employeeSvc,
		Companies:  companySvc,
		Logger:     logger.Named("http"),
	})

	srv := server.New(cfg.Server.ListenAddr, cfg.Server.GRPCListenAddr, router, cfg.Server.ShutdownTimeout, logger)
	return srv.Run(ctx)
}
