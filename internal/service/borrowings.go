// borrowings.go — сервис выдачи и возврата книг.
// Оркестрирует BookService и PatronService, проверяет окно даты возврата
// и выполняет одностороннее изменение статуса выдачи.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bigkaa/golibrary/internal/config"
	"github.com/bigkaa/golibrary/internal/domain/model"
	"github.com/bigkaa/golibrary/internal/repository"
)

// BorrowPeriodDays — максимальный срок выдачи книги в днях.
const BorrowPeriodDays = 14

// BorrowingStore — доступ к выдачам с поддержкой транзакций.
// Реализуется repository.BorrowingStore.
type BorrowingStore interface {
	repository.BorrowingRepository
	// WithTx выполняет fn с репозиториями выдач и книг в одной транзакции.
	WithTx(ctx context.Context, fn func(borrowings repository.BorrowingRepository, books repository.BookRepository) error) error
}

// BorrowingService — сервис выдачи и возврата книг.
type BorrowingService struct {
	store   BorrowingStore
	books   *BookService
	patrons *PatronService
	policy  string
	logger  *slog.Logger
}

// NewBorrowingService создаёт сервис выдач.
// policy — config.BorrowPolicyLegacy или config.BorrowPolicyStrict.
func NewBorrowingService(
	store BorrowingStore,
	books *BookService,
	patrons *PatronService,
	policy string,
	logger *slog.Logger,
) *BorrowingService {
	return &BorrowingService{
		store:   store,
		books:   books,
		patrons: patrons,
		policy:  policy,
		logger:  logger.With(slog.String("component", "borrowing_service")),
	}
}

// Borrow оформляет выдачу книги читателю.
// returnDate должна попадать в окно [сегодня, сегодня+14 дней].
// Проверка доступности книги зависит от политики:
//   - legacy: выдача отклоняется, когда available == true, флаг не меняется;
//   - strict: выдача отклоняется, когда available == false, флаг снимается
//     в одной транзакции с созданием выдачи.
func (s *BorrowingService) Borrow(ctx context.Context, bookID, patronID int64, returnDate time.Time) (*model.Borrowing, error) {
	defer observe("borrowings.borrow", time.Now())

	if err := validateID(bookID, "книги"); err != nil {
		return nil, err
	}
	if err := validateID(patronID, "читателя"); err != nil {
		return nil, err
	}

	book, err := s.books.Get(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if err := s.checkAvailability(book); err != nil {
		return nil, err
	}

	if _, err := s.patrons.Get(ctx, patronID); err != nil {
		return nil, err
	}

	today := truncateToDate(time.Now())
	if err := validateReturnDate(returnDate, today); err != nil {
		return nil, err
	}

	borrowing := &model.Borrowing{
		BookID:        bookID,
		PatronID:      patronID,
		BorrowingDate: today,
		ReturnDate:    truncateToDate(returnDate),
		Returned:      false,
	}

	if s.policy == config.BorrowPolicyStrict {
		// Создание выдачи и снятие флага доступности — атомарно.
		// Флаг снимается условным UPDATE внутри транзакции: кэшированное
		// значение доступности здесь не авторитетно.
		err = s.store.WithTx(ctx, func(borrowings repository.BorrowingRepository, books repository.BookRepository) error {
			if err := books.MarkBorrowed(ctx, bookID); err != nil {
				if errors.Is(err, repository.ErrConflict) {
					return fmt.Errorf("%w: книга с id %d недоступна", ErrBookNotAvailable, bookID)
				}
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("%w: книга с id %d не найдена", ErrNotFound, bookID)
				}
				return err
			}
			return borrowings.Create(ctx, borrowing)
		})
		if err == nil {
			s.books.cache.Delete(bookID)
			s.books.cache.InvalidateList()
		}
	} else {
		err = s.store.Create(ctx, borrowing)
	}
	if err != nil {
		return nil, fmt.Errorf("оформление выдачи: %w", err)
	}

	s.logger.Info("Книга выдана",
		slog.Int64("borrowing_id", borrowing.ID),
		slog.Int64("book_id", bookID),
		slog.Int64("patron_id", patronID),
		slog.Time("return_date", borrowing.ReturnDate),
	)

	return borrowing, nil
}

// Return закрывает выдачу книги читателем.
// Последняя выдача пары (bookID, patronID) ищется с блокировкой строки;
// повторный возврат — ошибка ErrAlreadyReturned. При политике strict
// флаг доступности книги восстанавливается в той же транзакции.
func (s *BorrowingService) Return(ctx context.Context, bookID, patronID int64) (bool, error) {
	defer observe("borrowings.return", time.Now())

	if err := validateID(bookID, "книги"); err != nil {
		return false, err
	}
	if err := validateID(patronID, "читателя"); err != nil {
		return false, err
	}

	var borrowingID int64
	err := s.store.WithTx(ctx, func(borrowings repository.BorrowingRepository, books repository.BookRepository) error {
		borrowing, err := borrowings.GetByBookAndPatronForUpdate(ctx, bookID, patronID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: выдача для книги %d и читателя %d не найдена", ErrNotFound, bookID, patronID)
			}
			return fmt.Errorf("получение выдачи: %w", err)
		}

		if borrowing.Returned {
			return fmt.Errorf("%w: книга %d уже возвращена читателем %d", ErrAlreadyReturned, bookID, patronID)
		}

		if err := borrowings.MarkReturned(ctx, borrowing.ID); err != nil {
			return fmt.Errorf("закрытие выдачи: %w", err)
		}

		if s.policy == config.BorrowPolicyStrict {
			if err := books.SetAvailable(ctx, bookID, true); err != nil {
				return fmt.Errorf("восстановление доступности книги: %w", err)
			}
		}

		borrowingID = borrowing.ID
		return nil
	})
	if err != nil {
		return false, err
	}

	if s.policy == config.BorrowPolicyStrict {
		s.books.cache.Delete(bookID)
		s.books.cache.InvalidateList()
	}

	s.logger.Info("Книга возвращена",
		slog.Int64("borrowing_id", borrowingID),
		slog.Int64("book_id", bookID),
		slog.Int64("patron_id", patronID),
	)

	return true, nil
}

// checkAvailability применяет настроенную политику доступности.
func (s *BorrowingService) checkAvailability(book *model.Book) error {
	switch s.policy {
	case config.BorrowPolicyStrict:
		if !book.Available {
			return fmt.Errorf("%w: книга с id %d недоступна", ErrBookNotAvailable, book.ID)
		}
	default:
		// legacy: условие унаследовано в инвертированном виде
		if book.Available {
			return fmt.Errorf("%w: книга с id %d недоступна", ErrBookNotAvailable, book.ID)
		}
	}
	return nil
}

// validateReturnDate проверяет окно даты возврата [today, today+14].
func validateReturnDate(returnDate, today time.Time) error {
	if returnDate.IsZero() {
		return fmt.Errorf("%w: дата возврата не задана", ErrValidation)
	}

	rd := truncateToDate(returnDate)
	if rd.Before(today) {
		return fmt.Errorf("%w: дата возврата не может быть в прошлом", ErrValidation)
	}
	if rd.After(today.AddDate(0, 0, BorrowPeriodDays)) {
		return fmt.Errorf("%w: дата возврата не может быть позже %d дней от сегодня", ErrValidation, BorrowPeriodDays)
	}
	return nil
}

// truncateToDate обнуляет время, оставляя календарную дату в UTC.
func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
