package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/golibrary/internal/domain/model"
)

// BorrowingRepository — интерфейс для таблицы borrowings.
// Выдачи никогда не удаляются — только создаются и закрываются.
type BorrowingRepository interface {
	// Create создаёт новую выдачу, id назначается БД.
	Create(ctx context.Context, borrowing *model.Borrowing) error
	// GetByBookAndPatron возвращает последнюю выдачу для пары
	// (book_id, patron_id) независимо от статуса возврата.
	GetByBookAndPatron(ctx context.Context, bookID, patronID int64) (*model.Borrowing, error)
	// GetByBookAndPatronForUpdate — то же, но с блокировкой строки
	// (SELECT ... FOR UPDATE). Использовать только внутри транзакции.
	GetByBookAndPatronForUpdate(ctx context.Context, bookID, patronID int64) (*model.Borrowing, error)
	// MarkReturned помечает выдачу возвращённой.
	MarkReturned(ctx context.Context, id int64) error
}

// borrowingRepo — реализация BorrowingRepository.
type borrowingRepo struct {
	db DBTX
}

// NewBorrowingRepository создаёт репозиторий выдач.
// db — *pgxpool.Pool или pgx.Tx.
func NewBorrowingRepository(db DBTX) BorrowingRepository {
	return &borrowingRepo{db: db}
}

const borrowingColumns = `id, book_id, patron_id, borrowing_date, return_date,
	returned, created_at, updated_at`

// scanBorrowing сканирует строку результата в модель Borrowing.
func scanBorrowing(row pgx.Row) (*model.Borrowing, error) {
	b := &model.Borrowing{}
	err := row.Scan(
		&b.ID, &b.BookID, &b.PatronID, &b.BorrowingDate, &b.ReturnDate,
		&b.Returned, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func (r *borrowingRepo) Create(ctx context.Context, borrowing *model.Borrowing) error {
	query := `
		INSERT INTO borrowings (book_id, patron_id, borrowing_date, return_date, returned)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		borrowing.BookID, borrowing.PatronID, borrowing.BorrowingDate,
		borrowing.ReturnDate, borrowing.Returned,
	).Scan(&borrowing.ID, &borrowing.CreatedAt, &borrowing.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания выдачи: %w", err)
	}
	return nil
}

func (r *borrowingRepo) GetByBookAndPatron(ctx context.Context, bookID, patronID int64) (*model.Borrowing, error) {
	return r.getByBookAndPatron(ctx, bookID, patronID, "")
}

func (r *borrowingRepo) GetByBookAndPatronForUpdate(ctx context.Context, bookID, patronID int64) (*model.Borrowing, error) {
	return r.getByBookAndPatron(ctx, bookID, patronID, "FOR UPDATE")
}

// getByBookAndPatron возвращает последнюю по дате выдачу для пары.
// lock — пустая строка или "FOR UPDATE".
func (r *borrowingRepo) getByBookAndPatron(ctx context.Context, bookID, patronID int64, lock string) (*model.Borrowing, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM borrowings
		WHERE book_id = $1 AND patron_id = $2
		ORDER BY borrowing_date DESC, id DESC
		LIMIT 1 %s`, borrowingColumns, lock)

	b, err := scanBorrowing(r.db.QueryRow(ctx, query, bookID, patronID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения выдачи: %w", err)
	}
	return b, nil
}

func (r *borrowingRepo) MarkReturned(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE borrowings SET returned = TRUE, updated_at = now() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("ошибка закрытия выдачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
