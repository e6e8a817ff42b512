package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/Freeeeeet/roomstatus_bot/internal/app"
	"github.com/Freeeeeet/roomstatus_bot/internal/availability"
	"github.com/Freeeeeet/roomstatus_bot/internal/config"
	"github.com/Freeeeeet/roomstatus_bot/internal/controller"
	"github.com/Freeeeeet/roomstatus_bot/internal/repository"
	"github.com/Freeeeeet/roomstatus_bot/internal/service"
)

type flags struct {
	envFile     string
	catalog     string
	schedule    string
	migrateOnly bool
}

func main() {
	var f flags

	flagSet := pflag.NewFlagSet("roomstatus-bot", pflag.ContinueOnError)
	flagSet.StringVar(&f.envFile, "env-file", ".env", "путь к .env файлу")
	flagSet.StringVar(&f.catalog, "catalog", "", "YAML каталог аудиторий (по умолчанию ROOM_CATALOG)")
	flagSet.StringVar(&f.schedule, "schedule", "", "YAML выгрузка расписания для загрузки при старте")
	flagSet.BoolVar(&f.migrateOnly, "migrate-only", false, "применить миграции и выйти")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatalf("Failed to parse flags: %v", err)
	}

	cfg, err := config.Load(f.envFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, f, logger); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, f flags, logger *zap.Logger) error {
	logger.Info("Starting room status bot",
		zap.String("environment", cfg.Environment),
		zap.String("timezone", cfg.Timezone),
		zap.Int("admins", len(cfg.AdminIDs)))

	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	migrator, err := app.NewMigrator(pool, logger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		return err
	}
	if f.migrateOnly {
		return nil
	}

	catalogPath := f.catalog
	if catalogPath == "" {
		catalogPath = cfg.RoomCatalog
	}
	catalog, err := config.LoadCatalog(catalogPath)
	if err != nil {
		return err
	}

	// Репозитории
	scheduleRepo := repository.NewScheduleRepository(pool)
	roomRepo := repository.NewRoomRepository(pool)

	// Сервисы
	calc := availability.NewCalculator(availability.DefaultBoundaries)
	planner := service.NewPlanner(scheduleRepo, availability.NewPlanCache(cfg.CacheSize, cfg.CacheTTL))
	clock := service.SystemClock(cfg.Location())

	scheduleService := service.NewScheduleService(scheduleRepo, planner, clock, logger)
	roomService := service.NewRoomService(roomRepo, scheduleRepo, planner, calc, catalog, clock, logger)
	queryService := service.NewQueryService(scheduleRepo, roomRepo, planner, calc, clock, cfg.SearchLimit, logger)

	if f.schedule != "" {
		if err := loadSchedule(ctx, f.schedule, scheduleService, roomService, logger); err != nil {
			return err
		}
	}

	cmdHandlers, callbackHandler := controller.NewHandlers(
		queryService,
		roomService,
		scheduleService,
		cfg.IsAdmin,
		logger,
	)

	b, err := bot.New(cfg.TelegramToken, bot.WithDefaultHandler(cmdHandlers.HandleTextMessage))
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	botController := controller.NewBotController(b, cmdHandlers, callbackHandler, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		// Без меню команд бот продолжает работать
		logger.Warn("Failed to register bot commands menu", zap.Error(err))
	}

	scheduler, err := app.NewScheduler(ctx, roomService, calc.Boundaries(), cfg.RefreshEvery, cfg.Location(), logger)
	if err != nil {
		return err
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logger.Info("✅ Bot is running")
	return botController.Start(ctx)
}

// loadSchedule загружает выгрузку расписания и пересобирает реестр аудиторий
func loadSchedule(
	ctx context.Context,
	path string,
	scheduleService *service.ScheduleService,
	roomService *service.RoomService,
	logger *zap.Logger,
) error {
	rows, err := config.LoadScheduleFeed(path)
	if err != nil {
		return err
	}

	inserted, err := scheduleService.Ingest(ctx, rows)
	if err != nil {
		return err
	}

	result, err := roomService.RebuildRegistry(ctx)
	if err != nil {
		return fmt.Errorf("rebuild room registry: %w", err)
	}

	logger.Info("Schedule feed loaded",
		zap.String("path", path),
		zap.Int("rows", len(rows)),
		zap.Int64("inserted", inserted),
		zap.Int("rooms", result.Rooms),
		zap.Int64("removed", result.Removed))
	return nil
}
