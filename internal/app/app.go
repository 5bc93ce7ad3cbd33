package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Freeeeeet/availability_engine/internal/availability"
	"github.com/Freeeeeet/availability_engine/internal/cache"
	"github.com/Freeeeeet/availability_engine/internal/config"
	"github.com/Freeeeeet/availability_engine/internal/controller"
	"github.com/Freeeeeet/availability_engine/internal/controller/httpapi"
	"github.com/Freeeeeet/availability_engine/internal/metrics"
	"github.com/Freeeeeet/availability_engine/internal/repository"
	"github.com/Freeeeeet/availability_engine/internal/repository/base"
	"github.com/Freeeeeet/availability_engine/internal/service"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// App собранное приложение: HTTP API, бот и фоновые задачи
type App struct {
	cfg       *config.Config
	logger    *zap.Logger
	pool      *pgxpool.Pool
	redis     *redis.Client
	server    *http.Server
	bot       *controller.BotController
	scheduler *Scheduler
}

// New подключается к хранилищам, применяет миграции и собирает зависимости
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	weekStart, err := cfg.WeekStart()
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info("✅ Connected to database")

	a := &App{cfg: cfg, logger: logger, pool: pool}

	if err := a.migrate(ctx); err != nil {
		a.Close()
		return nil, err
	}

	slotCache, err := a.slotCache(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	// Репозитории
	userRepo := repository.NewUserRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool, logger)
	eventRepo := repository.NewEventRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	tx := base.NewTransactor(pool)

	// Движок и сервисы
	m := metrics.New(prometheus.DefaultRegisterer)
	clock := availability.SystemClock{}
	engine := availability.NewEngine(weekStart, cfg.EngineWorkers)

	userService := service.NewUserService(userRepo, logger)
	scheduleService := service.NewScheduleService(scheduleRepo, eventRepo, tx, slotCache, logger)
	eventService := service.NewEventService(eventRepo, scheduleRepo, tx, slotCache, logger)
	availabilityService := service.NewAvailabilityService(eventRepo, scheduleRepo, bookingRepo, engine, clock, slotCache, m, logger)
	bookingService := service.NewBookingService(bookingRepo, availabilityService, tx, slotCache, m, logger)

	handler := httpapi.NewHandler(scheduleService, eventService, availabilityService, bookingService, userService, logger)
	a.server = &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.NewRouter(handler, httpapi.RouterOptions{
			RateLimitRPM: cfg.RateLimitRPM,
			Metrics:      promhttp.Handler(),
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	a.scheduler = NewScheduler(bookingService, cfg.CompleteInterval, logger)

	if cfg.TelegramToken != "" {
		b, err := bot.New(cfg.TelegramToken, bot.WithErrorsHandler(func(err error) {
			logger.Error("Telegram bot error", zap.Error(err))
		}))
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("create bot: %w", err)
		}
		a.bot = controller.NewBotController(b, controller.BotServices{
			Users:        userService,
			Events:       eventService,
			Schedules:    scheduleService,
			Availability: availabilityService,
			Bookings:     bookingService,
		}, clock, weekStart, logger)
	} else {
		logger.Info("TELEGRAM_TOKEN is empty, bot disabled")
	}

	return a, nil
}

func (a *App) migrate(ctx context.Context) error {
	migrator, err := NewMigrator(a.pool, a.cfg.MigrationsDir, a.logger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	return migrator.Run(ctx)
}

// slotCache Redis, если настроен, иначе кеш отключён
func (a *App) slotCache(ctx context.Context) (service.SlotCache, error) {
	if a.cfg.RedisURL == "" {
		a.logger.Info("REDIS_URL is empty, slot cache disabled")
		return service.NoopSlotCache{}, nil
	}

	client, err := cache.NewRedisClient(ctx, a.cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	a.redis = client
	a.logger.Info("✅ Connected to Redis", zap.Duration("ttl", a.cfg.SlotCacheTTL))
	return cache.NewRedisSlotCache(client, a.cfg.SlotCacheTTL, a.logger), nil
}

// Run блокируется до отмены ctx или падения одного из компонентов
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	a.scheduler.Start(ctx)

	g.Go(func() error {
		a.logger.Info("HTTP server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if a.bot != nil {
		g.Go(func() error {
			if err := a.bot.RegisterHandlers(ctx); err != nil {
				// Меню команд не критично, бот продолжает работать
				a.logger.Warn("Bot commands were not set", zap.Error(err))
			}
			return a.bot.Start(ctx)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		a.scheduler.Stop()
		return a.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close освобождает соединения
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("Failed to close redis", zap.Error(err))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
