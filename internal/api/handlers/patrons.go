// patrons.go — обработчики /api/patrons endpoints.
// CRUD читателей: список, получение, добавление, обновление, удаление.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	apierrors "github.com/bigkaa/golibrary/internal/api/errors"
	"github.com/bigkaa/golibrary/internal/domain/model"
	"github.com/bigkaa/golibrary/internal/service"
)

// apiPatron — представление читателя в HTTP API.
type apiPatron struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// apiPatronRequest — тело запроса создания/обновления читателя.
type apiPatronRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// ListPatrons — GET /api/patrons.
// Возвращает всех читателей. Пустой список — 404.
func (h *APIHandler) ListPatrons(w http.ResponseWriter, r *http.Request) {
	patrons, err := h.patrons.List(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "читатели не найдены")
			return
		}
		h.logger.Error("Ошибка получения списка читателей", "error", err)
		apierrors.InternalError(w, "ошибка получения списка читателей")
		return
	}

	items := make([]apiPatron, len(patrons))
	for i, p := range patrons {
		items[i] = mapPatron(p)
	}

	writeJSON(w, http.StatusOK, items)
}

// GetPatron — GET /api/patrons/{id}.
func (h *APIHandler) GetPatron(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	patron, err := h.patrons.Get(r.Context(), id)
	if err != nil {
		h.writePatronError(w, id, err, "получения")
		return
	}

	writeJSON(w, http.StatusOK, mapPatron(patron))
}

// AddPatron — POST /api/patrons.
// Email должен быть уникальным среди всех читателей.
func (h *APIHandler) AddPatron(w http.ResponseWriter, r *http.Request) {
	var req apiPatronRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "некорректный JSON: "+err.Error())
		return
	}

	patron, err := h.patrons.Add(r.Context(), mapPatronRequest(&req))
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			apierrors.ValidationError(w, err.Error())
			return
		}
		h.logger.Error("Ошибка добавления читателя", "error", err)
		apierrors.InternalError(w, "ошибка добавления читателя")
		return
	}

	writeJSON(w, http.StatusOK, mapPatron(patron))
}

// UpdatePatron — PUT /api/patrons/{id}.
// Полная перезапись всех полей существующего читателя.
func (h *APIHandler) UpdatePatron(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	var req apiPatronRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "некорректный JSON: "+err.Error())
		return
	}

	patron, err := h.patrons.Update(r.Context(), id, mapPatronRequest(&req))
	if err != nil {
		h.writePatronError(w, id, err, "обновления")
		return
	}

	writeJSON(w, http.StatusOK, mapPatron(patron))
}

// DeletePatron — DELETE /api/patrons/{id}.
func (h *APIHandler) DeletePatron(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	if err := h.patrons.Delete(r.Context(), id); err != nil {
		h.writePatronError(w, id, err, "удаления")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writePatronError маппит ошибки сервисного слоя читателей на HTTP-ответы.
func (h *APIHandler) writePatronError(w http.ResponseWriter, id int64, err error, op string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		apierrors.ValidationError(w, err.Error())
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, err.Error())
	default:
		h.logger.Error("Ошибка "+op+" читателя", "patron_id", id, "error", err)
		apierrors.InternalError(w, "ошибка "+op+" читателя")
	}
}

// --- Маппинг domain ↔ API ---

func mapPatron(p *model.Patron) apiPatron {
	return apiPatron{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		Address:   p.Address,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func mapPatronRequest(req *apiPatronRequest) *model.Patron {
	return &model.Patron{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
}
