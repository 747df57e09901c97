// books.go — сервис каталога книг.
// CRUD книг: валидация, кэширование чтения, инвалидация кэша при записи.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bigkaa/golibrary/internal/domain/model"
	"github.com/bigkaa/golibrary/internal/repository"
)

// BookService — сервис управления каталогом книг.
type BookService struct {
	books  repository.BookRepository
	cache  *EntityCache[*model.Book]
	logger *slog.Logger
}

// NewBookService создаёт сервис каталога книг.
func NewBookService(books repository.BookRepository, cache *EntityCache[*model.Book], logger *slog.Logger) *BookService {
	return &BookService{
		books:  books,
		cache:  cache,
		logger: logger.With(slog.String("component", "book_service")),
	}
}

// List возвращает все книги каталога, упорядоченные по id.
// Пустой каталог считается ошибкой ErrNotFound.
// Результат кэшируется под ключом "list all".
func (s *BookService) List(ctx context.Context) ([]*model.Book, error) {
	defer observe("books.list", time.Now())

	if cached, ok := s.cache.GetList(); ok {
		return cached, nil
	}

	books, err := s.books.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение списка книг: %w", err)
	}
	if len(books) == 0 {
		return nil, fmt.Errorf("%w: книги не найдены", ErrNotFound)
	}

	s.cache.SetList(books)
	return books, nil
}

// Get возвращает книгу по id. Результат кэшируется по id.
func (s *BookService) Get(ctx context.Context, id int64) (*model.Book, error) {
	defer observe("books.get", time.Now())

	if err := validateID(id, "книги"); err != nil {
		return nil, err
	}

	if cached, ok := s.cache.Get(id); ok {
		return cached, nil
	}

	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: книга с id %d не найдена", ErrNotFound, id)
		}
		return nil, fmt.Errorf("получение книги: %w", err)
	}

	s.cache.Set(id, book)
	return book, nil
}

// Add валидирует и создаёт книгу. Переданный вызывающим id отбрасывается,
// флаг доступности принудительно устанавливается в true.
func (s *BookService) Add(ctx context.Context, book *model.Book) (*model.Book, error) {
	defer observe("books.add", time.Now())

	if err := validateBook(book); err != nil {
		return nil, err
	}

	// id назначает только БД
	book.ID = 0
	book.Available = true

	if err := s.books.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("создание книги: %w", err)
	}

	s.cache.Set(book.ID, book)
	s.cache.InvalidateList()

	s.logger.Info("Книга добавлена",
		slog.Int64("book_id", book.ID),
		slog.String("title", book.Title),
	)

	return book, nil
}

// Update валидирует и полностью перезаписывает изменяемые поля
// существующей книги (включая флаг доступности).
func (s *BookService) Update(ctx context.Context, id int64, book *model.Book) (*model.Book, error) {
	defer observe("books.update", time.Now())

	if err := validateID(id, "книги"); err != nil {
		return nil, err
	}
	if err := validateBook(book); err != nil {
		return nil, err
	}

	existing, err := s.books.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: книга с id %d не найдена", ErrNotFound, id)
		}
		return nil, fmt.Errorf("получение книги для обновления: %w", err)
	}

	existing.Title = book.Title
	existing.Author = book.Author
	existing.PublicationYear = book.PublicationYear
	existing.ISBN = book.ISBN
	existing.Genre = book.Genre
	existing.Publisher = book.Publisher
	existing.Pages = book.Pages
	existing.Available = book.Available

	if err := s.books.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("обновление книги: %w", err)
	}

	s.cache.Set(id, existing)
	s.cache.InvalidateList()

	s.logger.Info("Книга обновлена",
		slog.Int64("book_id", id),
	)

	return existing, nil
}

// Delete удаляет книгу по id.
func (s *BookService) Delete(ctx context.Context, id int64) error {
	defer observe("books.delete", time.Now())

	if err := validateID(id, "книги"); err != nil {
		return err
	}

	if err := s.books.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: книга с id %d не найдена", ErrNotFound, id)
		}
		return fmt.Errorf("удаление книги: %w", err)
	}

	s.cache.Delete(id)
	s.cache.InvalidateList()

	s.logger.Info("Книга удалена",
		slog.Int64("book_id", id),
	)

	return nil
}

// validateID проверяет, что идентификатор положительный.
// entity — родительный падеж для сообщения ("книги", "читателя").
func validateID(id int64, entity string) error {
	if id <= 0 {
		return fmt.Errorf("%w: id %s должен быть положительным", ErrValidation, entity)
	}
	return nil
}

// validateBook проверяет обязательные поля книги.
func validateBook(book *model.Book) error {
	if book == nil {
		return fmt.Errorf("%w: книга не задана", ErrValidation)
	}
	if book.Title == "" {
		return fmt.Errorf("%w: название книги не может быть пустым", ErrValidation)
	}
	if book.PublicationYear <= 0 {
		return fmt.Errorf("%w: год издания должен быть положительным", ErrValidation)
	}
	if book.Pages <= 0 {
		return fmt.Errorf("%w: количество страниц должно быть положительным", ErrValidation)
	}
	return nil
}
