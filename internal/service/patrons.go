// patrons.go — сервис читателей.
// CRUD читателей: валидация, уникальность email при создании,
// кэширование чтения с инвалидацией при записи.
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

// PatronService — сервис управления читателями.
type PatronService struct {
	patrons repository.PatronRepository
	cache   *EntityCache[*model.Patron]
	logger  *slog.Logger
}

// NewPatronService создаёт сервис читателей.
func NewPatronService(patrons repository.PatronRepository, cache *EntityCache[*model.Patron], logger *slog.Logger) *PatronService {
	return &PatronService{
		patrons: patrons,
		cache:   cache,
		logger:  logger.With(slog.String("component", "patron_service")),
	}
}

// List возвращает всех читателей, упорядоченных по id.
// Пустой список считается ошибкой ErrNotFound.
func (s *PatronService) List(ctx context.Context) ([]*model.Patron, error) {
	defer observe("patrons.list", time.Now())

	if cached, ok := s.cache.GetList(); ok {
		return cached, nil
	}

	patrons, err := s.patrons.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение списка читателей: %w", err)
	}
	if len(patrons) == 0 {
		return nil, fmt.Errorf("%w: читатели не найдены", ErrNotFound)
	}

	s.cache.SetList(patrons)
	return patrons, nil
}

// Get возвращает читателя по id. Результат кэшируется по id.
func (s *PatronService) Get(ctx context.Context, id int64) (*model.Patron, error) {
	defer observe("patrons.get", time.Now())

	if err := validateID(id, "читателя"); err != nil {
		return nil, err
	}

	if cached, ok := s.cache.Get(id); ok {
		return cached, nil
	}

	patron, err := s.patrons.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: читатель с id %d не найден", ErrNotFound, id)
		}
		return nil, fmt.Errorf("получение читателя: %w", err)
	}

	s.cache.Set(id, patron)
	return patron, nil
}

// Add валидирует и создаёт читателя. Переданный вызывающим id отбрасывается.
// Дублирующийся email — ошибка валидации; уникальность проверяется только
// при создании, constraint БД служит страховкой при гонке.
func (s *PatronService) Add(ctx context.Context, patron *model.Patron) (*model.Patron, error) {
	defer observe("patrons.add", time.Now())

	if err := validatePatron(patron); err != nil {
		return nil, err
	}

	// id назначает только БД
	patron.ID = 0

	exists, err := s.patrons.ExistsByEmail(ctx, patron.Email)
	if err != nil {
		return nil, fmt.Errorf("проверка email: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: читатель с email %s уже существует", ErrValidation, patron.Email)
	}

	if err := s.patrons.Create(ctx, patron); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: читатель с email %s уже существует", ErrValidation, patron.Email)
		}
		return nil, fmt.Errorf("создание читателя: %w", err)
	}

	s.cache.Set(patron.ID, patron)
	s.cache.InvalidateList()

	s.logger.Info("Читатель добавлен",
		slog.Int64("patron_id", patron.ID),
		slog.String("email", patron.Email),
	)

	return patron, nil
}

// Update валидирует и полностью перезаписывает поля существующего читателя.
// Уникальность email при обновлении не перепроверяется — срабатывает
// только constraint БД.
func (s *PatronService) Update(ctx context.Context, id int64, patron *model.Patron) (*model.Patron, error) {
	defer observe("patrons.update", time.Now())

	if err := validateID(id, "читателя"); err != nil {
		return nil, err
	}
	if err := validatePatron(patron); err != nil {
		return nil, err
	}

	existing, err := s.patrons.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: читатель с id %d не найден", ErrNotFound, id)
		}
		return nil, fmt.Errorf("получение читателя для обновления: %w", err)
	}

	existing.Name = patron.Name
	existing.Email = patron.Email
	existing.Phone = patron.Phone
	existing.Address = patron.Address

	if err := s.patrons.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: читатель с email %s уже существует", ErrValidation, patron.Email)
		}
		return nil, fmt.Errorf("обновление читателя: %w", err)
	}

	s.cache.Set(id, existing)
	s.cache.InvalidateList()

	s.logger.Info("Читатель обновлён",
		slog.Int64("patron_id", id),
	)

	return existing, nil
}

// Delete удаляет читателя по id.
func (s *PatronService) Delete(ctx context.Context, id int64) error {
	defer observe("patrons.delete", time.Now())

	if err := validateID(id, "читателя"); err != nil {
		return err
	}

	if err := s.patrons.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: читатель с id %d не найден", ErrNotFound, id)
		}
		return fmt.Errorf("удаление читателя: %w", err)
	}

	s.cache.Delete(id)
	s.cache.InvalidateList()

	s.logger.Info("Читатель удалён",
		slog.Int64("patron_id", id),
	)

	return nil
}

// validatePatron проверяет обязательные поля читателя.
func validatePatron(patron *model.Patron) error {
	if patron == nil {
		return fmt.Errorf("%w: читатель не задан", ErrValidation)
	}
	if patron.Name == "" {
		return fmt.Errorf("%w: имя читателя не может быть пустым", ErrValidation)
	}
	if patron.Email == "" {
		return fmt.Errorf("%w: email читателя не может быть пустым", ErrValidation)
	}
	if patron.Phone == "" {
		return fmt.Errorf("%w: телефон читателя не может быть пустым", ErrValidation)
	}
	if patron.Address == "" {
		return fmt.Errorf("%w: адрес читателя не может быть пустым", ErrValidation)
	}
	return nil
}
