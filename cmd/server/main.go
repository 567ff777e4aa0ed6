package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tasukeai/shift-marketplace/internal/adapters/httpapi"
	"github.com/tasukeai/shift-marketplace/internal/adapters/repository/memory"
	pgrepo "github.com/tasukeai/shift-marketplace/internal/adapters/repository/postgres"
	"github.com/tasukeai/shift-marketplace/internal/core/export"
	"github.com/tasukeai/shift-marketplace/internal/core/shift"
	"github.com/tasukeai/shift-marketplace/internal/core/user"
	"github.com/tasukeai/shift-marketplace/internal/platform/config"
	pg "github.com/tasukeai/shift-marketplace/internal/platform/db/postgres"
	"github.com/tasukeai/shift-marketplace/internal/platform/server"
	"github.com/tasukeai/shift-marketplace/internal/platform/telemetry"
	"github.com/tasukeai/shift-marketplace/internal/watch"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdownTelemetry := telemetry.Setup(ctx, "shift-marketplace")
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			log.Printf("telemetry shutdown error: %v", err)
		}
	}()

	var (
		shiftRepo shift.Repository
		userRepo  user.Repository
		txManager shift.TransactionManager
	)

	switch cfg.Store.Driver {
	case config.StorePostgres:
		dbPool, err := pg.NewPool(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("failed to initialize database pool: %v", err)
		}
		defer dbPool.Close()

		shiftRepo = pgrepo.NewShiftRepository(dbPool)
		userRepo = pgrepo.NewUserRepository(dbPool)
		txManager = pg.NewTransactionManager(dbPool)
	case config.StoreMemory:
		memShifts := memory.NewShiftRepository()
		userRepo = memory.NewUserRepository()

		today := time.Now().UTC().Format("2006-01-02")
		if n, err := memory.SeedDemoShifts(ctx, memShifts, today, time.Now().UTC()); err != nil {
			log.Fatalf("failed to seed demo shifts: %v", err)
		} else if n > 0 {
			log.Printf("seeded %d demo shifts", n)
		}
		shiftRepo = memShifts
	}

	shiftHub := watch.NewHub[[]*shift.Shift]()
	userHub := watch.NewHub[[]*user.User]()

	shiftSvc := shift.NewService(shiftRepo, nil, txManager, shiftHub)
	userSvc := user.NewService(userRepo, nil, userHub)

	if n, err := userSvc.SeedDemoDirectory(ctx); err != nil {
		log.Fatalf("failed to seed user directory: %v", err)
	} else if n > 0 {
		log.Printf("seeded %d users", n)
	}

	handler := httpapi.NewHandler(shiftSvc, userSvc, export.NewAggregator(shiftRepo, userRepo), shiftHub, httpapi.Config{
		ExportFilePrefix: cfg.Export.FilePrefix,
		ExportBOM:        cfg.ExportBOM(),
	})

	var root http.Handler = handler.Routes()
	root = httpapi.LoggingMiddleware(root)
	root = otelhttp.NewHandler(root, "shift-marketplace")

	httpServer := server.New(cfg.Server.ListenAddr, root)

	log.Printf("http server listening on %s (store=%s)", cfg.Server.ListenAddr, cfg.Store.Driver)

	if err := httpServer.Run(ctx); err != nil {
		log.Fatalf("server stopped with error: %v", err)
	}
}
