package config

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

// setEnvs устанавливает переменные окружения и возвращает функцию для их очистки.
func setEnvs(t *testing.T, envs map[string]string) {
	t.Helper()
	for k, v := range envs {
		t.Setenv(k, v)
	}
}

// minimalEnvs возвращает минимальный набор обязательных переменных.
func minimalEnvs() map[string]string {
	return map[string]string{
		"LM_DB_HOST":     "localhost",
		"LM_DB_NAME":     "library",
		"LM_DB_USER":     "library",
		"LM_DB_PASSWORD": "secret",
	}
}

func TestLoad_MinimalConfig(t *testing.T) {
	setEnvs(t, minimalEnvs())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	// Проверяем значения по умолчанию
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, ожидается 8080", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, ожидается Info", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, ожидается json", cfg.LogFormat)
	}
	if cfg.DBHost != "localhost" {
		t.Errorf("DBHost = %q, ожидается localhost", cfg.DBHost)
	}
	if cfg.DBPort != 5432 {
		t.Errorf("DBPort = %d, ожидается 5432", cfg.DBPort)
	}
	if cfg.DBSSLMode != "disable" {
		t.Errorf("DBSSLMode = %q, ожидается disable", cfg.DBSSLMode)
	}
	if cfg.CacheSize != 1024 {
		t.Errorf("CacheSize = %d, ожидается 1024", cfg.CacheSize)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v, ожидается 5m", cfg.CacheTTL)
	}
	if cfg.BorrowPolicy != BorrowPolicyLegacy {
		t.Errorf("BorrowPolicy = %q, ожидается legacy", cfg.BorrowPolicy)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v, ожидается 5s", cfg.ShutdownTimeout)
	}
	if len(cfg.AuthUsers) != 2 {
		t.Fatalf("AuthUsers имеет длину %d, ожидается 2", len(cfg.AuthUsers))
	}
	if cfg.AuthUsers[0].Username != "user1" || cfg.AuthUsers[1].Username != "user2" {
		t.Errorf("AuthUsers = %v, ожидаются user1 и user2", cfg.AuthUsers)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	envs := minimalEnvs()
	envs["LM_PORT"] = "9090"
	envs["LM_LOG_LEVEL"] = "debug"
	envs["LM_LOG_FORMAT"] = "text"
	envs["LM_DB_PORT"] = "5433"
	envs["LM_DB_SSL_MODE"] = "require"
	envs["LM_CACHE_SIZE"] = "256"
	envs["LM_CACHE_TTL"] = "30s"
	envs["LM_BORROW_POLICY"] = "strict"
	envs["LM_AUTH_USERS"] = "librarian:reading-room"
	envs["LM_SHUTDOWN_TIMEOUT"] = "10s"
	setEnvs(t, envs)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("Port = %d, ожидается 9090", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, ожидается Debug", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, ожидается text", cfg.LogFormat)
	}
	if cfg.DBPort != 5433 {
		t.Errorf("DBPort = %d, ожидается 5433", cfg.DBPort)
	}
	if cfg.DBSSLMode != "require" {
		t.Errorf("DBSSLMode = %q, ожидается require", cfg.DBSSLMode)
	}
	if cfg.CacheSize != 256 {
		t.Errorf("CacheSize = %d, ожидается 256", cfg.CacheSize)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("CacheTTL = %v, ожидается 30s", cfg.CacheTTL)
	}
	if cfg.BorrowPolicy != BorrowPolicyStrict {
		t.Errorf("BorrowPolicy = %q, ожидается strict", cfg.BorrowPolicy)
	}
	if len(cfg.AuthUsers) != 1 || cfg.AuthUsers[0].Username != "librarian" || cfg.AuthUsers[0].Password != "reading-room" {
		t.Errorf("AuthUsers = %v, ожидается [librarian:reading-room]", cfg.AuthUsers)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, ожидается 10s", cfg.ShutdownTimeout)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	requiredVars := []string{
		"LM_DB_HOST", "LM_DB_NAME", "LM_DB_USER", "LM_DB_PASSWORD",
	}

	for _, missing := range requiredVars {
		t.Run(missing, func(t *testing.T) {
			envs := minimalEnvs()
			delete(envs, missing)
			// Очищаем все переменные окружения
			for k := range minimalEnvs() {
				os.Unsetenv(k)
			}
			setEnvs(t, envs)

			_, err := Load()
			if err == nil {
				t.Errorf("Load() не вернул ошибку при отсутствии %s", missing)
			}
		})
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"ноль", "0"},
		{"отрицательный", "-1"},
		{"выше диапазона", "70000"},
		{"не число", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envs := minimalEnvs()
			envs["LM_PORT"] = tt.value
			setEnvs(t, envs)

			_, err := Load()
			if err == nil {
				t.Errorf("Load() не вернул ошибку при LM_PORT=%q", tt.value)
			}
		})
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	envs := minimalEnvs()
	envs["LM_LOG_LEVEL"] = "verbose"
	setEnvs(t, envs)

	_, err := Load()
	if err == nil {
		t.Error("Load() не вернул ошибку при LM_LOG_LEVEL=verbose")
	}
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	envs := minimalEnvs()
	envs["LM_LOG_FORMAT"] = "xml"
	setEnvs(t, envs)

	_, err := Load()
	if err == nil {
		t.Error("Load() не вернул ошибку при LM_LOG_FORMAT=xml")
	}
}

func TestLoad_InvalidSSLMode(t *testing.T) {
	envs := minimalEnvs()
	envs["LM_DB_SSL_MODE"] = "prefer"
	setEnvs(t, envs)

	_, err := Load()
	if err == nil {
		t.Error("Load() не вернул ошибку при LM_DB_SSL_MODE=prefer")
	}
}

func TestLoad_InvalidCacheSize(t *testing.T) {
	envs := minimalEnvs()
	envs["LM_CACHE_SIZE"] = "0"
	setEnvs(t, envs)

	_, err := Load()
	if err == nil {
		t.Error("Load() не вернул ошибку при LM_CACHE_SIZE=0")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	envs := minimalEnvs()
	envs["LM_CACHE_TTL"] = "abc"
	setEnvs(t, envs)

	_, err := Load()
	if err == nil {
		t.Error("Load() не вернул ошибку при LM_CACHE_TTL=abc")
	}
}

func TestLoad_InvalidBorrowPolicy(t *testing.T) {
	envs := minimalEnvs()
	envs["LM_BORROW_POLICY"] = "optimistic"
	setEnvs(t, envs)

	_, err := Load()
	if err == nil {
		t.Error("Load() не вернул ошибку при LM_BORROW_POLICY=optimistic")
	}
}

func TestDatabaseDSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "db.example.com",
		DBPort:     5432,
		DBName:     "library",
		DBUser:     "user",
		DBPassword: "pass",
		DBSSLMode:  "disable",
	}
	expected := "host=db.example.com port=5432 dbname=library user=user password=pass sslmode=disable"
	if dsn := cfg.DatabaseDSN(); dsn != expected {
		t.Errorf("DatabaseDSN() = %q, ожидается %q", dsn, expected)
	}
}

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name   string
		format string
	}{
		{"json", "json"},
		{"text", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				LogLevel:  slog.LevelInfo,
				LogFormat: tt.format,
			}
			logger := SetupLogger(cfg)
			if logger == nil {
				t.Error("SetupLogger() вернул nil")
			}
		})
	}
}

func TestParseCredentials(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLen int
		wantErr bool
	}{
		{"одна пара", "user1:123456", 1, false},
		{"две пары", "user1:123456,user2:654321", 2, false},
		{"пробелы и пустые элементы", " user1:a , ,user2:b,", 2, false},
		{"без пароля", "user1:", 0, true},
		{"без двоеточия", "user1", 0, true},
		{"дубликат пользователя", "user1:a,user1:b", 0, true},
		{"пустая строка", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds, err := parseCredentials(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseCredentials(%q) не вернул ошибку", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseCredentials(%q) вернул ошибку: %v", tt.input, err)
			}
			if len(creds) != tt.wantLen {
				t.Errorf("parseCredentials(%q) = %v (len %d), ожидается len %d",
					tt.input, creds, len(creds), tt.wantLen)
			}
		})
	}
}
