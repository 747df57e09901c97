package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BorrowingStore — репозиторий выдач с поддержкой транзакционной
// единицы работы. Вне транзакции ведёт себя как BorrowingRepository
// поверх пула; WithTx даёт репозитории выдач и книг, привязанные
// к одной транзакции (возврат книги — read-modify-write).
type BorrowingStore struct {
	BorrowingRepository
	runner *TxRunner
}

// NewBorrowingStore создаёт BorrowingStore поверх пула подключений.
func NewBorrowingStore(pool *pgxpool.Pool) *BorrowingStore {
	return &BorrowingStore{
		BorrowingRepository: NewBorrowingRepository(pool),
		runner:              NewTxRunner(pool),
	}
}

// WithTx выполняет fn с репозиториями выдач и книг в одной транзакции.
// При ошибке fn транзакция откатывается.
func (s *BorrowingStore) WithTx(ctx context.Context, fn func(borrowings BorrowingRepository, books BookRepository) error) error {
	return s.runner.RunInTx(ctx, func(tx pgx.Tx) error {
		return fn(NewBorrowingRepository(tx), NewBookRepository(tx))
	})
}
