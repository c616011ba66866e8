package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/domain/repository"
	"github.com/ignatzorin/gig-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
	"github.com/jmoiron/sqlx"
)

type BidRepositoryAdapter struct {
	db sqlx.ExtContext
}

var _ repository.BidRepository = (*BidRepositoryAdapter)(nil)

func NewBidRepositoryAdapter(db sqlx.ExtContext) *BidRepositoryAdapter {
	return &BidRepositoryAdapter{db: db}
}

func (r *BidRepositoryAdapter) Insert(ctx context.Context, bid *entity.Bid) error {
	query := `
		INSERT INTO bids (id, gig_id, freelancer_id, message, price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		bid.ID, bid.GigID, bid.FreelancerID, bid.Message, bid.Price,
		string(bid.Status), bid.CreatedAt, bid.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "не удалось создать отклик")
	}
	return nil
}

func (r *BidRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Bid, error) {
	var row bidRow
	query := `SELECT ` + bidColumns + ` FROM bids WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.db, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrBidNotFound
		}
		return nil, mapError(err, "не удалось получить отклик")
	}
	return row.toEntity(), nil
}

func (r *BidRepositoryAdapter) FindByGigAndFreelancer(ctx context.Context, gigID, freelancerID uuid.UUID) (*entity.Bid, error) {
	var row bidRow
	query := `SELECT ` + bidColumns + ` FROM bids WHERE gig_id = $1 AND freelancer_id = $2`
	if err := sqlx.GetContext(ctx, r.db, &row, query, gigID, freelancerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(err, "не удалось получить отклик")
	}
	return row.toEntity(), nil
}

func (r *BidRepositoryAdapter) ListByGig(ctx context.Context, gigID uuid.UUID) ([]*entity.Bid, error) {
	return r.list(ctx, "gig_id", gigID)
}

func (r *BidRepositoryAdapter) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]*entity.Bid, error) {
	return r.list(ctx, "freelancer_id", freelancerID)
}

func (r *BidRepositoryAdapter) list(ctx context.Context, column string, value uuid.UUID) ([]*entity.Bid, error) {
	query, args, err := buildBidListQuery(column, value)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось построить запрос")
	}

	var rows []bidRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, mapError(err, "не удалось получить отклики")
	}
	return toBidEntities(rows), nil
}

func (r *BidRepositoryAdapter) SetStatus(ctx context.Context, id uuid.UUID, status valueobject.BidStatus) error {
	query := `UPDATE bids SET status = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, string(status))
	if err != nil {
		return mapError(err, "не удалось обновить статус отклика")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(err, "не удалось обновить статус отклика")
	}
	if n == 0 {
		return apperror.ErrBidNotFound
	}
	return nil
}

func (r *BidRepositoryAdapter) RejectPending(ctx context.Context, gigID, exceptBidID uuid.UUID) ([]*entity.Bid, error) {
	query := `
		UPDATE bids SET status = $3, updated_at = NOW()
		WHERE gig_id = $1 AND id <> $2 AND status = $4
		RETURNING ` + bidColumns
	var rows []bidRow
	err := sqlx.SelectContext(ctx, r.db, &rows, query,
		gigID, exceptBidID, string(valueobject.BidStatusRejected), string(valueobject.BidStatusPending),
	)
	if err != nil {
		return nil, mapError(err, "не удалось отклонить отклики")
	}
	return toBidEntities(rows), nil
}

type bidRow struct {
	ID           uuid.UUID `db:"id"`
	GigID        uuid.UUID `db:"gig_id"`
	FreelancerID uuid.UUID `db:"freelancer_id"`
	Message      string    `db:"message"`
	Price        float64   `db:"price"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r *bidRow) toEntity() *entity.Bid {
	return &entity.Bid{
		ID:           r.ID,
		GigID:        r.GigID,
		FreelancerID: r.FreelancerID,
		Message:      r.Message,
		Price:        r.Price,
		Status:       valueobject.BidStatus(r.Status),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func toBidEntities(rows []bidRow) []*entity.Bid {
	bids := make([]*entity.Bid, 0, len(rows))
	for i := range rows {
		bids = append(bids, rows[i].toEntity())
	}
	return bids
}
