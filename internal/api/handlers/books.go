// books.go — обработчики /api/books endpoints.
// CRUD каталога книг: список, получение, добавление, обновление, удаление.
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

// apiBook — представление книги в HTTP API.
type apiBook struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	PublicationYear int       `json:"publication_year"`
	ISBN            string    `json:"isbn"`
	Genre           string    `json:"genre"`
	Publisher       string    `json:"publisher"`
	Pages           int       `json:"pages"`
	Available       bool      `json:"available"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// apiBookRequest — тело запроса создания/обновления книги.
// id и available клиентом не управляются.
type apiBookRequest struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	PublicationYear int    `json:"publication_year"`
	ISBN            string `json:"isbn"`
	Genre           string `json:"genre"`
	Publisher       string `json:"publisher"`
	Pages           int    `json:"pages"`
	Available       bool   `json:"available"`
}

// ListBooks — GET /api/books.
// Возвращает все книги каталога. Пустой каталог — 404.
func (h *APIHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.List(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "книги не найдены")
			return
		}
		h.logger.Error("Ошибка получения списка книг", "error", err)
		apierrors.InternalError(w, "ошибка получения списка книг")
		return
	}

	items := make([]apiBook, len(books))
	for i, b := range books {
		items[i] = mapBook(b)
	}

	writeJSON(w, http.StatusOK, items)
}

// GetBook — GET /api/books/{id}.
func (h *APIHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	book, err := h.books.Get(r.Context(), id)
	if err != nil {
		h.writeBookError(w, id, err, "получения")
		return
	}

	writeJSON(w, http.StatusOK, mapBook(book))
}

// AddBook — POST /api/books.
// Идентификатор из тела игнорируется, книга создается доступной для выдачи.
func (h *APIHandler) AddBook(w http.ResponseWriter, r *http.Request) {
	var req apiBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "некорректный JSON: "+err.Error())
		return
	}

	book, err := h.books.Add(r.Context(), mapBookRequest(&req))
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			apierrors.ValidationError(w, err.Error())
			return
		}
		h.logger.Error("Ошибка добавления книги", "error", err)
		apierrors.InternalError(w, "ошибка добавления книги")
		return
	}

	writeJSON(w, http.StatusOK, mapBook(book))
}

// UpdateBook — PUT /api/books/{id}.
// Полная перезапись всех полей существующей книги.
func (h *APIHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	var req apiBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "некорректный JSON: "+err.Error())
		return
	}

	book, err := h.books.Update(r.Context(), id, mapBookRequest(&req))
	if err != nil {
		h.writeBookError(w, id, err, "обновления")
		return
	}

	writeJSON(w, http.StatusOK, mapBook(book))
}

// DeleteBook — DELETE /api/books/{id}.
func (h *APIHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	if err := h.books.Delete(r.Context(), id); err != nil {
		h.writeBookError(w, id, err, "удаления")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeBookError маппит ошибки сервисного слоя книг на HTTP-ответы.
func (h *APIHandler) writeBookError(w http.ResponseWriter, id int64, err error, op string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		apierrors.ValidationError(w, err.Error())
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, err.Error())
	default:
		h.logger.Error("Ошибка "+op+" книги", "book_id", id, "error", err)
		apierrors.InternalError(w, "ошибка "+op+" книги")
	}
}

// --- Маппинг domain ↔ API ---

// mapBook конвертирует доменную модель в API-представление.
func mapBook(b *model.Book) apiBook {
	return apiBook{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		PublicationYear: b.PublicationYear,
		ISBN:            b.ISBN,
		Genre:           b.Genre,
		Publisher:       b.Publisher,
		Pages:           b.Pages,
		Available:       b.Available,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// mapBookRequest конвертирует тело запроса в доменную модель.
func mapBookRequest(req *apiBookRequest) *model.Book {
	return &model.Book{
		Title:           req.Title,
		Author:          req.Author,
		PublicationYear: req.PublicationYear,
		ISBN:            req.ISBN,
		Genre:           req.Genre,
		Publisher:       req.Publisher,
		Pages:           req.Pages,
		Available:       req.Available,
	}
}
