// handler.go — основной обработчик API Library Module.
// Объединяет все доменные обработчики и делегирует запросы в сервисный слой.
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/golibrary/internal/service"
)

// APIHandler — основной обработчик API Library Module.
// Делегирует запросы в сервисный слой.
type APIHandler struct {
	health     *HealthHandler
	books      *service.BookService
	patrons    *service.PatronService
	borrowings *service.BorrowingService
	logger     *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(
	health *HealthHandler,
	books *service.BookService,
	patrons *service.PatronService,
	borrowings *service.BorrowingService,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:     health,
		books:      books,
		patrons:    patrons,
		borrowings: borrowings,
		logger:     logger.With(slog.String("component", "api_handler")),
	}
}

// HealthLive — liveness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики (делегируется в HealthHandler).
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// parseID извлекает числовой идентификатор из URL-параметра chi.
// Нечисловое значение — ошибка; проверка id > 0 выполняется сервисным слоем.
func parseID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректный идентификатор %s: %q", param, raw)
	}
	return id, nil
}
