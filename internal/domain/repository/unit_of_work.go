package repository

import "context"

// RepositoryProvider выдаёт репозитории, привязанные к одной транзакции.
type RepositoryProvider interface {
	Gigs() GigRepository
	Bids() BidRepository
}

// UnitOfWork выполняет fn атомарно: все изменения через provider либо фиксируются вместе,
// либо откатываются, если fn вернула ошибку, запаниковала или ctx отменён до коммита.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(provider RepositoryProvider) error) error
}
