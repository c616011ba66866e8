package persistence

import (
	"errors"

	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"

	constraintBidPair    = "bids_gig_freelancer_unique"
	constraintBidGig     = "bids_gig_id_fkey"
	constraintUsersEmail = "users_email_key"
)

// mapError переводит ошибки PostgreSQL в ошибки предметной области,
// остальное оборачивает как DATABASE_ERROR с сообщением msg.
func mapError(err error, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			switch pqErr.Constraint {
			case constraintBidPair:
				return apperror.ErrDuplicateBid
			case constraintUsersEmail:
				return apperror.ErrEmailTaken
			}
		case pqForeignKeyViolation:
			if pqErr.Constraint == constraintBidGig {
				return apperror.ErrGigNotFound
			}
		}
	}
	return apperror.Wrap(err, apperror.ErrCodeDatabaseError, msg)
}
