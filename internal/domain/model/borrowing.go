package model

import "time"

// Borrowing — факт выдачи книги читателю.
// Хранится в таблице borrowings. Ссылается на Book и Patron по id
// (много выдач могут ссылаться на одну книгу или одного читателя).
// Состояние одностороннее: открыта (Returned=false) → закрыта (Returned=true).
type Borrowing struct {
	// ID — идентификатор выдачи (bigserial, назначается БД при создании)
	ID int64
	// BookID — идентификатор выданной книги
	BookID int64
	// PatronID — идентификатор читателя
	PatronID int64
	// BorrowingDate — дата выдачи (устанавливается на текущую дату)
	BorrowingDate time.Time
	// ReturnDate — ожидаемая дата возврата (не позже 14 дней от выдачи)
	ReturnDate time.Time
	// Returned — флаг возврата (false при создании, одностороннее изменение)
	Returned bool
	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}
