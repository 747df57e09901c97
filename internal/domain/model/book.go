// Пакет model — доменные модели Library Module.
// Book, Patron, Borrowing — маппинг таблиц books, patrons, borrowings.
package model

import "time"

// Book — книга в каталоге библиотеки.
// Хранится в таблице books.
type Book struct {
	// ID — идентификатор книги (bigserial, назначается БД при создании)
	ID int64
	// Title — название книги (обязательное, непустое)
	Title string
	// Author — автор
	Author string
	// PublicationYear — год издания (> 0)
	PublicationYear int
	// ISBN — международный книжный номер
	ISBN string
	// Genre — жанр
	Genre string
	// Publisher — издательство
	Publisher string
	// Pages — количество страниц (> 0)
	Pages int
	// Available — флаг доступности для выдачи (true при создании)
	Available bool
	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}
