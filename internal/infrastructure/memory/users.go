package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
)

type userRepo struct{ store *Store }

func (r userRepo) Create(ctx context.Context, user *entity.User) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	email := entity.NormalizeEmail(user.Email)
	if _, taken := s.emails[email]; taken {
		return apperror.ErrEmailTaken
	}
	s.users[user.ID] = *user
	s.emails[email] = user.ID
	return nil
}

func (r userRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[id]
	if !ok {
		return nil, apperror.ErrUserNotFound
	}
	return &u, nil
}

func (r userRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.emails[entity.NormalizeEmail(email)]
	if !ok {
		return nil, apperror.ErrUserNotFound
	}
	u := r.store.users[id]
	return &u, nil
}

func (r userRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.User, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make(map[uuid.UUID]*entity.User, len(ids))
	for _, id := range ids {
		if u, ok := r.store.users[id]; ok {
			c := u
			out[id] = &c
		}
	}
	return out, nil
}
