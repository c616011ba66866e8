package persistence

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/repository"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const (
	gigColumns = "id, owner_id, title, description, budget, status, created_at, updated_at"
	bidColumns = "id, gig_id, freelancer_id, message, price, status, created_at, updated_at"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func buildGigListQuery(filter repository.GigFilter) (string, []interface{}, error) {
	builder := psql.Select(gigColumns).From("gigs")

	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": string(*filter.Status)})
	}
	if filter.OwnerID != nil {
		builder = builder.Where(sq.Eq{"owner_id": filter.OwnerID.String()})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		builder = builder.Where(sq.ILike{"title": "%" + likeEscaper.Replace(search) + "%"})
	}

	builder = builder.OrderBy("created_at DESC", "id")
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}
	return builder.ToSql()
}

func buildBidListQuery(column string, value uuid.UUID) (string, []interface{}, error) {
	return psql.Select(bidColumns).
		From("bids").
		Where(sq.Eq{column: value.String()}).
		OrderBy("created_at DESC", "id").
		ToSql()
}
