package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/golibrary/internal/domain/model"
)

// PatronRepository — интерфейс CRUD для таблицы patrons.
type PatronRepository interface {
	// Create создаёт нового читателя, id назначается БД.
	Create(ctx context.Context, patron *model.Patron) error
	// GetByID возвращает читателя по id.
	GetByID(ctx context.Context, id int64) (*model.Patron, error)
	// List возвращает всех читателей, упорядоченных по id.
	List(ctx context.Context) ([]*model.Patron, error)
	// ExistsByEmail проверяет, есть ли читатель с указанным email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Update обновляет все изменяемые поля читателя.
	Update(ctx context.Context, patron *model.Patron) error
	// Delete удаляет читателя по id.
	Delete(ctx context.Context, id int64) error
}

// patronRepo — реализация PatronRepository.
type patronRepo struct {
	db DBTX
}

// NewPatronRepository создаёт репозиторий читателей.
func NewPatronRepository(db DBTX) PatronRepository {
	return &patronRepo{db: db}
}

const patronColumns = `id, name, email, phone, address, created_at, updated_at`

// scanPatron сканирует строку результата в модель Patron.
func scanPatron(row pgx.Row) (*model.Patron, error) {
	p := &model.Patron{}
	err := row.Scan(
		&p.ID, &p.Name, &p.Email, &p.Phone, &p.Address,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *patronRepo) Create(ctx context.Context, patron *model.Patron) error {
	query := `
		INSERT INTO patrons (name, email, phone, address)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		patron.Name, patron.Email, patron.Phone, patron.Address,
	).Scan(&patron.ID, &patron.CreatedAt, &patron.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: читатель с таким email уже существует", ErrConflict)
		}
		return fmt.Errorf("ошибка создания читателя: %w", err)
	}
	return nil
}

func (r *patronRepo) GetByID(ctx context.Context, id int64) (*model.Patron, error) {
	query := fmt.Sprintf(`SELECT %s FROM patrons WHERE id = $1`, patronColumns)
	p, err := scanPatron(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения читателя: %w", err)
	}
	return p, nil
}

func (r *patronRepo) List(ctx context.Context) ([]*model.Patron, error) {
	query := fmt.Sprintf(`SELECT %s FROM patrons ORDER BY id`, patronColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка читателей: %w", err)
	}
	defer rows.Close()

	var result []*model.Patron
	for rows.Next() {
		p := &model.Patron{}
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Email, &p.Phone, &p.Address,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования читателя: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *patronRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM patrons WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки email: %w", err)
	}
	return exists, nil
}

func (r *patronRepo) Update(ctx context.Context, patron *model.Patron) error {
	query := `
		UPDATE patrons
		SET name = $2, email = $3, phone = $4, address = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		patron.ID, patron.Name, patron.Email, patron.Phone, patron.Address,
	).Scan(&patron.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: читатель с таким email уже существует", ErrConflict)
		}
		return fmt.Errorf("ошибка обновления читателя: %w", err)
	}
	return nil
}

func (r *patronRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM patrons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления читателя: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
