package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/quocphungccq1911h/mobi/internal/api/http"
	"github.com/quocphungccq1911h/mobi/internal/api/http/handlers"
	"github.com/quocphungccq1911h/mobi/internal/auth"
	"github.com/quocphungccq1911h/mobi/internal/cache"
	"github.com/quocphungccq1911h/mobi/internal/config"
	"github.com/quocphungccq1911h/mobi/internal/events"
	"github.com/quocphungccq1911h/mobi/internal/notify"
	"github.com/quocphungccq1911h/mobi/internal/observability"
	"github.com/quocphungccq1911h/mobi/internal/persistence"
	"github.com/quocphungccq1911h/mobi/internal/repository"
	"github.com/quocphungccq1911h/mobi/internal/service"
	"github.com/quocphungccq1911h/mobi/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)
	productRepo := repository.NewProductRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	outbound := notify.NewRedisDispatcher(redis.Client, cfg.Notification.Channel)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		RoleRepo:   roleRepo,
		Dispatcher: dispatcher,
	})
	resetService := service.NewPasswordResetService(*cfg, service.PasswordResetDependencies{
		UserRepo:   userRepo,
		ResetRepo:  resetRepo,
		Dispatcher: dispatcher,
	})
	userService := service.NewUserService(userRepo, roleRepo, cfg.Auth.BcryptCost)
	productCache := cache.NewProductCache(redis.Client, cfg.Cache.TTL(), logger)
	productService := service.NewProductService(productRepo, productCache)

	notificationService := service.NewNotificationService(dispatcher, outbound, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewMiddleware(authService.TokenManager())

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService, authService, resetService),
		Products:       handlers.NewProductsHandler(productService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	dispatcher.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
