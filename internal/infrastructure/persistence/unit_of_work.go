package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ignatzorin/gig-marketplace/internal/domain/repository"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
	"github.com/jmoiron/sqlx"
)

// UnitOfWork выполняет операции над заказами и откликами в одной транзакции READ COMMITTED.
// Гонку двух наймов решает CAS по статусу заказа, гонку откликов решает уникальный индекс.
type UnitOfWork struct {
	db *sqlx.DB
}

var _ repository.UnitOfWork = (*UnitOfWork)(nil)

func NewUnitOfWork(db *sqlx.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(provider repository.RepositoryProvider) error) error {
	return WithTransaction(ctx, u.db, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, func(tx *sqlx.Tx) error {
		return fn(txProvider{tx: tx})
	})
}

type txProvider struct {
	tx *sqlx.Tx
}

func (p txProvider) Gigs() repository.GigRepository { return NewGigRepositoryAdapter(p.tx) }
func (p txProvider) Bids() repository.BidRepository { return NewBidRepositoryAdapter(p.tx) }

// WithTransaction выполняет функцию внутри транзакции с правильной обработкой ошибок
func WithTransaction(ctx context.Context, db *sqlx.DB, opts *sql.TxOptions, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, opts)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось начать транзакцию")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w (rollback error: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapError(err, "не удалось зафиксировать транзакцию")
	}
	return nil
}
