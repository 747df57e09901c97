package model

import "time"

// Patron — читатель библиотеки.
// Хранится в таблице patrons. Email уникален (constraint уровня БД).
type Patron struct {
	// ID — идентификатор читателя (bigserial, назначается БД при создании)
	ID int64
	// Name — имя читателя (обязательное, непустое)
	Name string
	// Email — электронная почта (обязательная, уникальная)
	Email string
	// Phone — телефон (обязательный, непустой)
	Phone string
	// Address — адрес (обязательный, непустой)
	Address string
	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}
