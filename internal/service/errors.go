// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrNotFound — ресурс не найден.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrBookNotAvailable — книга недоступна для выдачи.
	ErrBookNotAvailable = errors.New("книга недоступна для выдачи")
	// ErrAlreadyReturned — книга по этой выдаче уже возвращена.
	ErrAlreadyReturned = errors.New("книга уже возвращена")
)
