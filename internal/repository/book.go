package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/golibrary/internal/domain/model"
)

// BookRepository — интерфейс CRUD для таблицы books.
type BookRepository interface {
	// Create создаёт новую книгу, id назначается БД.
	Create(ctx context.Context, book *model.Book) error
	// GetByID возвращает книгу по id.
	GetByID(ctx context.Context, id int64) (*model.Book, error)
	// List возвращает все книги, упорядоченные по id.
	List(ctx context.Context) ([]*model.Book, error)
	// Update обновляет все изменяемые поля книги.
	Update(ctx context.Context, book *model.Book) error
	// SetAvailable изменяет флаг доступности книги.
	SetAvailable(ctx context.Context, id int64, available bool) error
	// MarkBorrowed снимает флаг доступности, если книга доступна.
	// Возвращает ErrConflict, если флаг уже снят.
	MarkBorrowed(ctx context.Context, id int64) error
	// Delete удаляет книгу по id.
	Delete(ctx context.Context, id int64) error
}

// bookRepo — реализация BookRepository.
type bookRepo struct {
	db DBTX
}

// NewBookRepository создаёт репозиторий книг.
// db — *pgxpool.Pool или pgx.Tx.
func NewBookRepository(db DBTX) BookRepository {
	return &bookRepo{db: db}
}

const bookColumns = `id, title, author, publication_year, isbn, genre,
	publisher, pages, available, created_at, updated_at`

// scanBook сканирует строку результата в модель Book.
func scanBook(row pgx.Row) (*model.Book, error) {
	b := &model.Book{}
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.PublicationYear, &b.ISBN, &b.Genre,
		&b.Publisher, &b.Pages, &b.Available, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func (r *bookRepo) Create(ctx context.Context, book *model.Book) error {
	query := `
		INSERT INTO books (title, author, publication_year, isbn, genre,
			publisher, pages, available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		book.Title, book.Author, book.PublicationYear, book.ISBN, book.Genre,
		book.Publisher, book.Pages, book.Available,
	).Scan(&book.ID, &book.CreatedAt, &book.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания книги: %w", err)
	}
	return nil
}

func (r *bookRepo) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books WHERE id = $1`, bookColumns)
	b, err := scanBook(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения книги: %w", err)
	}
	return b, nil
}

func (r *bookRepo) List(ctx context.Context) ([]*model.Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books ORDER BY id`, bookColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка книг: %w", err)
	}
	defer rows.Close()

	var result []*model.Book
	for rows.Next() {
		b := &model.Book{}
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.PublicationYear, &b.ISBN, &b.Genre,
			&b.Publisher, &b.Pages, &b.Available, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования книги: %w", err)
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

func (r *bookRepo) Update(ctx context.Context, book *model.Book) error {
	query := `
		UPDATE books
		SET title = $2, author = $3, publication_year = $4, isbn = $5,
			genre = $6, publisher = $7, pages = $8, available = $9,
			updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		book.ID, book.Title, book.Author, book.PublicationYear, book.ISBN,
		book.Genre, book.Publisher, book.Pages, book.Available,
	).Scan(&book.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка обновления книги: %w", err)
	}
	return nil
}

func (r *bookRepo) SetAvailable(ctx context.Context, id int64, available bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE books SET available = $2, updated_at = now() WHERE id = $1`,
		id, available,
	)
	if err != nil {
		return fmt.Errorf("ошибка изменения доступности книги: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *bookRepo) MarkBorrowed(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE books SET available = false, updated_at = now()
		 WHERE id = $1 AND available`,
		id,
	)
	if err != nil {
		return fmt.Errorf("ошибка выдачи книги: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Либо книги нет, либо флаг уже снят
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}

func (r *bookRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления книги: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
