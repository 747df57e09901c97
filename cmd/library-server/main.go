// Точка входа Library Module — сервис учёта библиотечного фонда.
// Загружает конфигурацию, подключается к PostgreSQL, применяет миграции,
// создаёт repositories, кэши и сервисный слой, настраивает Basic Auth
// и запускает HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/bigkaa/golibrary/internal/api/handlers"
	"github.com/bigkaa/golibrary/internal/api/middleware"
	"github.com/bigkaa/golibrary/internal/config"
	"github.com/bigkaa/golibrary/internal/database"
	"github.com/bigkaa/golibrary/internal/domain/model"
	"github.com/bigkaa/golibrary/internal/repository"
	"github.com/bigkaa/golibrary/internal/server"
	"github.com/bigkaa/golibrary/internal/service"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Library Module запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("borrow_policy", cfg.BorrowPolicy),
	)

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 5. Repositories
	bookRepo := repository.NewBookRepository(pool)
	patronRepo := repository.NewPatronRepository(pool)
	borrowingStore := repository.NewBorrowingStore(pool)

	// 6. Кэши сущностей (LRU с TTL)
	bookCache := service.NewEntityCache[*model.Book]("books", cfg.CacheSize, cfg.CacheTTL)
	patronCache := service.NewEntityCache[*model.Patron]("patrons", cfg.CacheSize, cfg.CacheTTL)

	// 7. Services
	bookSvc := service.NewBookService(bookRepo, bookCache, logger)
	patronSvc := service.NewPatronService(patronRepo, patronCache, logger)
	borrowingSvc := service.NewBorrowingService(
		borrowingStore, bookSvc, patronSvc,
		cfg.BorrowPolicy,
		logger,
	)

	// 8. Readiness checker (PostgreSQL)
	pgChecker := database.NewReadinessChecker(pool)
	healthHandler := handlers.NewHealthHandler(pgChecker)

	// 9. API handler
	apiHandler := handlers.NewAPIHandler(
		healthHandler,
		bookSvc,
		patronSvc,
		borrowingSvc,
		logger,
	)

	// 10. Basic Auth middleware
	basicAuth, err := middleware.NewBasicAuth(cfg.AuthUsers, logger)
	if err != nil {
		logger.Error("Ошибка создания Basic Auth middleware", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Basic Auth middleware инициализирован",
		slog.Int("users", len(cfg.AuthUsers)),
	)

	// 11. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, apiHandler, basicAuth)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Library Module остановлен")
}
