package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/domain/valueobject"
)

type GigRepository interface {
	Create(ctx context.Context, gig *entity.Gig) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Gig, error)
	// FindByIDLocked читает заказ и удерживает блокировку строки до конца единицы работы.
	FindByIDLocked(ctx context.Context, id uuid.UUID) (*entity.Gig, error)
	List(ctx context.Context, filter GigFilter) ([]*entity.Gig, error)
	// CompareAndSetStatus меняет статус, только если текущий равен expected.
	// Возвращает false, если строка не изменилась.
	CompareAndSetStatus(ctx context.Context, id uuid.UUID, expected, next valueobject.GigStatus) (bool, error)
}

// GigFilter: параметры выборки заказов. Сортировка всегда по created_at DESC.
type GigFilter struct {
	Status  *valueobject.GigStatus
	OwnerID *uuid.UUID
	Search  string
	Limit   int
	Offset  int
}
