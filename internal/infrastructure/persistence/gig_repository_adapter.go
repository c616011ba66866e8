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

// GigRepositoryAdapter работает как с *sqlx.DB, так и с *sqlx.Tx.
type GigRepositoryAdapter struct {
	db sqlx.ExtContext
}

var _ repository.GigRepository = (*GigRepositoryAdapter)(nil)

func NewGigRepositoryAdapter(db sqlx.ExtContext) *GigRepositoryAdapter {
	return &GigRepositoryAdapter{db: db}
}

func (r *GigRepositoryAdapter) Create(ctx context.Context, gig *entity.Gig) error {
	query := `
		INSERT INTO gigs (id, owner_id, title, description, budget, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		gig.ID, gig.OwnerID, gig.Title, gig.Description, gig.Budget,
		string(gig.Status), gig.CreatedAt, gig.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "не удалось создать заказ")
	}
	return nil
}

func (r *GigRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Gig, error) {
	return r.findOne(ctx, `SELECT `+gigColumns+` FROM gigs WHERE id = $1`, id)
}

// FindByIDLocked берёт FOR SHARE: параллельный CAS статуса ждёт коммита этой транзакции.
func (r *GigRepositoryAdapter) FindByIDLocked(ctx context.Context, id uuid.UUID) (*entity.Gig, error) {
	return r.findOne(ctx, `SELECT `+gigColumns+` FROM gigs WHERE id = $1 FOR SHARE`, id)
}

func (r *GigRepositoryAdapter) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.Gig, error) {
	var row gigRow
	if err := sqlx.GetContext(ctx, r.db, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrGigNotFound
		}
		return nil, mapError(err, "не удалось получить заказ")
	}
	return row.toEntity(), nil
}

func (r *GigRepositoryAdapter) List(ctx context.Context, filter repository.GigFilter) ([]*entity.Gig, error) {
	query, args, err := buildGigListQuery(filter)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось построить запрос")
	}

	var rows []gigRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, mapError(err, "не удалось получить заказы")
	}

	gigs := make([]*entity.Gig, 0, len(rows))
	for i := range rows {
		gigs = append(gigs, rows[i].toEntity())
	}
	return gigs, nil
}

func (r *GigRepositoryAdapter) CompareAndSetStatus(ctx context.Context, id uuid.UUID, expected, next valueobject.GigStatus) (bool, error) {
	query := `UPDATE gigs SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`
	res, err := r.db.ExecContext(ctx, query, id, string(expected), string(next))
	if err != nil {
		return false, mapError(err, "не удалось обновить статус заказа")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, mapError(err, "не удалось обновить статус заказа")
	}
	return n == 1, nil
}

type gigRow struct {
	ID          uuid.UUID `db:"id"`
	OwnerID     uuid.UUID `db:"owner_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Budget      float64   `db:"budget"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r *gigRow) toEntity() *entity.Gig {
	return &entity.Gig{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Title:       r.Title,
		Description: r.Description,
		Budget:      r.Budget,
		Status:      valueobject.GigStatus(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
