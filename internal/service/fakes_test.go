// fakes_test.go — in-memory реализации репозиториев для unit-тестов
// сервисного слоя. БД не используется.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/bigkaa/golibrary/internal/domain/model"
	"github.com/bigkaa/golibrary/internal/repository"
)

// testLogger — логгер, отбрасывающий весь вывод.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- fakeBookRepo ---

type fakeBookRepo struct {
	books  map[int64]*model.Book
	nextID int64
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: make(map[int64]*model.Book), nextID: 1}
}

func (f *fakeBookRepo) Create(_ context.Context, book *model.Book) error {
	book.ID = f.nextID
	f.nextID++
	book.CreatedAt = time.Now()
	book.UpdatedAt = book.CreatedAt
	cp := *book
	f.books[book.ID] = &cp
	return nil
}

func (f *fakeBookRepo) GetByID(_ context.Context, id int64) (*model.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookRepo) List(_ context.Context) ([]*model.Book, error) {
	result := make([]*model.Book, 0, len(f.books))
	for _, b := range f.books {
		cp := *b
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeBookRepo) Update(_ context.Context, book *model.Book) error {
	if _, ok := f.books[book.ID]; !ok {
		return repository.ErrNotFound
	}
	book.UpdatedAt = time.Now()
	cp := *book
	f.books[book.ID] = &cp
	return nil
}

func (f *fakeBookRepo) SetAvailable(_ context.Context, id int64, available bool) error {
	b, ok := f.books[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Available = available
	return nil
}

func (f *fakeBookRepo) MarkBorrowed(_ context.Context, id int64) error {
	b, ok := f.books[id]
	if !ok {
		return repository.ErrNotFound
	}
	if !b.Available {
		return repository.ErrConflict
	}
	b.Available = false
	b.UpdatedAt = time.Now()
	return nil
}

func (f *fakeBookRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.books[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.books, id)
	return nil
}

// --- fakePatronRepo ---

type fakePatronRepo struct {
	patrons map[int64]*model.Patron
	nextID  int64
}

func newFakePatronRepo() *fakePatronRepo {
	return &fakePatronRepo{patrons: make(map[int64]*model.Patron), nextID: 1}
}

func (f *fakePatronRepo) Create(_ context.Context, patron *model.Patron) error {
	for _, p := range f.patrons {
		if p.Email == patron.Email {
			return repository.ErrConflict
		}
	}
	patron.ID = f.nextID
	f.nextID++
	patron.CreatedAt = time.Now()
	patron.UpdatedAt = patron.CreatedAt
	cp := *patron
	f.patrons[patron.ID] = &cp
	return nil
}

func (f *fakePatronRepo) GetByID(_ context.Context, id int64) (*model.Patron, error) {
	p, ok := f.patrons[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePatronRepo) List(_ context.Context) ([]*model.Patron, error) {
	result := make([]*model.Patron, 0, len(f.patrons))
	for _, p := range f.patrons {
		cp := *p
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakePatronRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, p := range f.patrons {
		if p.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePatronRepo) Update(_ context.Context, patron *model.Patron) error {
	if _, ok := f.patrons[patron.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, p := range f.patrons {
		if id != patron.ID && p.Email == patron.Email {
			return repository.ErrConflict
		}
	}
	patron.UpdatedAt = time.Now()
	cp := *patron
	f.patrons[patron.ID] = &cp
	return nil
}

func (f *fakePatronRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.patrons[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.patrons, id)
	return nil
}

// --- fakeBorrowingStore ---

// fakeBorrowingStore реализует BorrowingStore поверх map.
// WithTx исполняет fn без настоящей транзакции, передавая те же
// репозитории; атомарность в unit-тестах не проверяется.
type fakeBorrowingStore struct {
	borrowings map[int64]*model.Borrowing
	books      *fakeBookRepo
	nextID     int64
}

func newFakeBorrowingStore(books *fakeBookRepo) *fakeBorrowingStore {
	return &fakeBorrowingStore{
		borrowings: make(map[int64]*model.Borrowing),
		books:      books,
		nextID:     1,
	}
}

func (f *fakeBorrowingStore) Create(_ context.Context, borrowing *model.Borrowing) error {
	borrowing.ID = f.nextID
	f.nextID++
	borrowing.CreatedAt = time.Now()
	borrowing.UpdatedAt = borrowing.CreatedAt
	cp := *borrowing
	f.borrowings[borrowing.ID] = &cp
	return nil
}

// getLatest возвращает последнюю выдачу пары (bookID, patronID).
func (f *fakeBorrowingStore) getLatest(bookID, patronID int64) (*model.Borrowing, error) {
	var latest *model.Borrowing
	for _, b := range f.borrowings {
		if b.BookID != bookID || b.PatronID != patronID {
			continue
		}
		if latest == nil || b.ID > latest.ID {
			latest = b
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeBorrowingStore) GetByBookAndPatron(_ context.Context, bookID, patronID int64) (*model.Borrowing, error) {
	return f.getLatest(bookID, patronID)
}

func (f *fakeBorrowingStore) GetByBookAndPatronForUpdate(_ context.Context, bookID, patronID int64) (*model.Borrowing, error) {
	return f.getLatest(bookID, patronID)
}

func (f *fakeBorrowingStore) MarkReturned(_ context.Context, id int64) error {
	b, ok := f.borrowings[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Returned = true
	b.UpdatedAt = time.Now()
	return nil
}

func (f *fakeBorrowingStore) WithTx(ctx context.Context, fn func(borrowings repository.BorrowingRepository, books repository.BookRepository) error) error {
	return fn(f, f.books)
}

// --- Конструкторы сервисов для тестов ---

func newTestBookService(repo *fakeBookRepo) *BookService {
	cache := NewEntityCache[*model.Book]("books-test", 100, time.Minute)
	return NewBookService(repo, cache, testLogger())
}

func newTestPatronService(repo *fakePatronRepo) *PatronService {
	cache := NewEntityCache[*model.Patron]("patrons-test", 100, time.Minute)
	return NewPatronService(repo, cache, testLogger())
}

// testBook возвращает валидную книгу для тестов.
func testBook() *model.Book {
	return &model.Book{
		Title:           "Дюна",
		Author:          "Фрэнк Герберт",
		PublicationYear: 1965,
		ISBN:            "978-5-17-118933-2",
		Genre:           "фантастика",
		Publisher:       "АСТ",
		Pages:           704,
	}
}

// testPatron возвращает валидного читателя для тестов.
// suffix добавляется к email для уникальности.
func testPatron(suffix string) *model.Patron {
	return &model.Patron{
		Name:    "Иван Петров",
		Email:   fmt.Sprintf("ivan%s@example.com", suffix),
		Phone:   "+7-900-000-00-00",
		Address: "Москва, ул. Библиотечная, 1",
	}
}
