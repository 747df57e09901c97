// borrowings.go — обработчики выдачи и возврата книг.
// POST /api/borrow/{bookId}/patron/{patronId} — оформление выдачи
// PUT  /api/return/{bookId}/patron/{patronId} — возврат книги
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	apierrors "github.com/bigkaa/golibrary/internal/api/errors"
	"github.com/bigkaa/golibrary/internal/domain/model"
	"github.com/bigkaa/golibrary/internal/service"
)

// dateLayout — формат дат выдачи и возврата в API.
const dateLayout = "2006-01-02"

// apiBorrowing — представление выдачи в HTTP API.
// Даты сериализуются как YYYY-MM-DD.
type apiBorrowing struct {
	ID            int64     `json:"id"`
	BookID        int64     `json:"book_id"`
	PatronID      int64     `json:"patron_id"`
	BorrowingDate string    `json:"borrowing_date"`
	ReturnDate    string    `json:"return_date"`
	Returned      bool      `json:"returned"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// apiBorrowRequest — необязательное тело запроса выдачи.
// Без тела ожидаемая дата возврата — текущая дата плюс 14 дней.
type apiBorrowRequest struct {
	ReturnDate string `json:"return_date"`
}

// BorrowBook — POST /api/borrow/{bookId}/patron/{patronId}.
// Оформляет выдачу книги читателю. Недоступная книга — 409.
func (h *APIHandler) BorrowBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := parseID(r, "bookId")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	patronID, err := parseID(r, "patronId")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	returnDate, err := parseBorrowBody(r.Body)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	borrowing, err := h.borrowings.Borrow(r.Context(), bookID, patronID, returnDate)
	if err != nil {
		h.writeBorrowingError(w, bookID, patronID, err, "оформления выдачи")
		return
	}

	writeJSON(w, http.StatusOK, mapBorrowing(borrowing))
}

// ReturnBook — PUT /api/return/{bookId}/patron/{patronId}.
// Закрывает последнюю выдачу пары книга-читатель.
// Повторный возврат — 409, отсутствие выдачи — 404.
func (h *APIHandler) ReturnBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := parseID(r, "bookId")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	patronID, err := parseID(r, "patronId")
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	returned, err := h.borrowings.Return(r.Context(), bookID, patronID)
	if err != nil {
		h.writeBorrowingError(w, bookID, patronID, err, "возврата")
		return
	}

	writeJSON(w, http.StatusOK, returned)
}

// writeBorrowingError маппит ошибки сервисного слоя выдач на HTTP-ответы.
func (h *APIHandler) writeBorrowingError(w http.ResponseWriter, bookID, patronID int64, err error, op string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		apierrors.ValidationError(w, err.Error())
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, err.Error())
	case errors.Is(err, service.ErrBookNotAvailable),
		errors.Is(err, service.ErrAlreadyReturned):
		apierrors.Conflict(w, err.Error())
	default:
		h.logger.Error("Ошибка "+op,
			"book_id", bookID,
			"patron_id", patronID,
			"error", err,
		)
		apierrors.InternalError(w, "ошибка "+op)
	}
}

// parseBorrowBody читает необязательное тело запроса выдачи.
// Пустое тело — дата возврата через 14 дней от текущей даты (UTC).
func parseBorrowBody(body io.Reader) (time.Time, error) {
	var req apiBorrowRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return defaultReturnDate(), nil
		}
		return time.Time{}, errors.New("некорректный JSON: " + err.Error())
	}
	if req.ReturnDate == "" {
		return defaultReturnDate(), nil
	}

	returnDate, err := time.ParseInLocation(dateLayout, req.ReturnDate, time.UTC)
	if err != nil {
		return time.Time{}, errors.New("некорректная дата возврата, ожидается формат YYYY-MM-DD")
	}
	return returnDate, nil
}

// defaultReturnDate возвращает текущую дату плюс период выдачи.
func defaultReturnDate() time.Time {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return today.AddDate(0, 0, service.BorrowPeriodDays)
}

// --- Маппинг domain → API ---

func mapBorrowing(b *model.Borrowing) apiBorrowing {
	return apiBorrowing{
		ID:            b.ID,
		BookID:        b.BookID,
		PatronID:      b.PatronID,
		BorrowingDate: b.BorrowingDate.Format(dateLayout),
		ReturnDate:    b.ReturnDate.Format(dateLayout),
		Returned:      b.Returned,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
