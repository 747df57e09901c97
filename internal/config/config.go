// Пакет config — загрузка и валидация конфигурации Library Module
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Политики проверки доступности книги при выдаче.
const (
	// BorrowPolicyLegacy — исторически сложившееся поведение:
	// выдача отклоняется, когда флаг available == true, и флаг
	// не меняется операциями выдачи/возврата.
	BorrowPolicyLegacy = "legacy"
	// BorrowPolicyStrict — исправленное поведение: выдача отклоняется,
	// когда книга недоступна (available == false); выдача снимает флаг,
	// возврат восстанавливает его.
	BorrowPolicyStrict = "strict"
)

// Credential — статически заданная пара логин/пароль для HTTP Basic auth.
type Credential struct {
	// Username — имя пользователя
	Username string
	// Password — пароль в открытом виде (хэшируется bcrypt при старте)
	Password string
}

// Config содержит все параметры конфигурации Library Module.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- PostgreSQL ---

	// Хост PostgreSQL
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных
	DBName string
	// Имя пользователя PostgreSQL
	DBUser string
	// Пароль пользователя PostgreSQL
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string

	// --- Кэш чтения ---

	// Максимальное количество записей в LRU-кэше (на сущность)
	CacheSize int
	// Время жизни записи кэша
	CacheTTL time.Duration

	// --- Выдача книг ---

	// Политика проверки доступности при выдаче (legacy, strict)
	BorrowPolicy string

	// --- Аутентификация ---

	// Статически заданные учётные записи HTTP Basic auth
	AuthUsers []Credential

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// LM_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("LM_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("LM_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("LM_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// LM_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("LM_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("LM_LOG_LEVEL: %w", err)
	}

	// LM_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("LM_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("LM_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- PostgreSQL ---

	// LM_DB_HOST — обязательный
	cfg.DBHost, err = getEnvRequired("LM_DB_HOST")
	if err != nil {
		return nil, err
	}

	// LM_DB_PORT — порт PostgreSQL (по умолчанию 5432)
	cfg.DBPort, err = getEnvInt("LM_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("LM_DB_PORT: %w", err)
	}

	// LM_DB_NAME — обязательный
	cfg.DBName, err = getEnvRequired("LM_DB_NAME")
	if err != nil {
		return nil, err
	}

	// LM_DB_USER — обязательный
	cfg.DBUser, err = getEnvRequired("LM_DB_USER")
	if err != nil {
		return nil, err
	}

	// LM_DB_PASSWORD — обязательный
	cfg.DBPassword, err = getEnvRequired("LM_DB_PASSWORD")
	if err != nil {
		return nil, err
	}

	// LM_DB_SSL_MODE — режим SSL (по умолчанию disable)
	cfg.DBSSLMode = getEnvDefault("LM_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("LM_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// --- Кэш чтения ---

	// LM_CACHE_SIZE — размер LRU-кэша на сущность (по умолчанию 1024)
	cfg.CacheSize, err = getEnvInt("LM_CACHE_SIZE", 1024)
	if err != nil {
		return nil, fmt.Errorf("LM_CACHE_SIZE: %w", err)
	}
	if cfg.CacheSize < 1 {
		return nil, fmt.Errorf("LM_CACHE_SIZE: значение %d должно быть положительным", cfg.CacheSize)
	}

	// LM_CACHE_TTL — TTL записей кэша (по умолчанию 5m)
	cfg.CacheTTL, err = getEnvDuration("LM_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("LM_CACHE_TTL: %w", err)
	}

	// --- Выдача книг ---

	// LM_BORROW_POLICY — политика доступности (по умолчанию legacy)
	cfg.BorrowPolicy = getEnvDefault("LM_BORROW_POLICY", BorrowPolicyLegacy)
	if cfg.BorrowPolicy != BorrowPolicyLegacy && cfg.BorrowPolicy != BorrowPolicyStrict {
		return nil, fmt.Errorf("LM_BORROW_POLICY: недопустимое значение %q, допустимые: legacy, strict", cfg.BorrowPolicy)
	}

	// --- Аутентификация ---

	// LM_AUTH_USERS — пары user:password через запятую.
	// По умолчанию две статически прописанные учётные записи.
	cfg.AuthUsers, err = parseCredentials(getEnvDefault("LM_AUTH_USERS", "user1:123456,user2:123456"))
	if err != nil {
		return nil, fmt.Errorf("LM_AUTH_USERS: %w", err)
	}

	// --- Graceful shutdown ---

	// LM_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("LM_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("LM_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}

// parseCredentials разбирает строку вида "user1:pass1,user2:pass2"
// в список учётных записей. Пустые элементы игнорируются,
// дублирующиеся имена пользователей — ошибка.
func parseCredentials(s string) ([]Credential, error) {
	parts := strings.Split(s, ",")
	seen := make(map[string]bool)
	result := make([]Credential, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		user, pass, ok := strings.Cut(p, ":")
		if !ok || user == "" || pass == "" {
			return nil, fmt.Errorf("некорректная пара %q, ожидается формат user:password", p)
		}
		if seen[user] {
			return nil, fmt.Errorf("дублирующееся имя пользователя %q", user)
		}
		seen[user] = true

		result = append(result, Credential{Username: user, Password: pass})
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("не задано ни одной учётной записи")
	}

	return result, nil
}
