package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/domain/repository"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
)

type bidKey struct {
	gigID        uuid.UUID
	freelancerID uuid.UUID
}

// Store хранит данные в памяти процесса с теми же гарантиями, что и PostgreSQL-адаптеры:
// уникальность (gig_id, freelancer_id), блокировка заказа до конца транзакции
// и атомарный коммит набора изменений.
type Store struct {
	mu      sync.RWMutex
	gigs    map[uuid.UUID]entity.Gig
	bids    map[uuid.UUID]entity.Bid
	bidKeys map[bidKey]uuid.UUID
	users   map[uuid.UUID]entity.User
	emails  map[string]uuid.UUID

	locksMu  sync.Mutex
	gigLocks map[uuid.UUID]chan struct{}
}

var _ repository.UnitOfWork = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		gigs:     make(map[uuid.UUID]entity.Gig),
		bids:     make(map[uuid.UUID]entity.Bid),
		bidKeys:  make(map[bidKey]uuid.UUID),
		users:    make(map[uuid.UUID]entity.User),
		emails:   make(map[string]uuid.UUID),
		gigLocks: make(map[uuid.UUID]chan struct{}),
	}
}

// Do выполняет fn в отдельной транзакции.
func (s *Store) Do(ctx context.Context, fn func(provider repository.RepositoryProvider) error) error {
	if err := ctx.Err(); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "транзакция прервана")
	}

	t := s.begin()
	defer t.release()

	if err := fn(t); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "транзакция прервана")
	}
	return t.commit()
}

// Gigs возвращает репозиторий, где каждая операция выполняется отдельной транзакцией.
func (s *Store) Gigs() repository.GigRepository {
	return autoGigs{store: s}
}

func (s *Store) Bids() repository.BidRepository {
	return autoBids{store: s}
}

func (s *Store) Users() repository.UserRepository {
	return userRepo{store: s}
}

func (s *Store) lockGig(ctx context.Context, id uuid.UUID) error {
	s.locksMu.Lock()
	ch, ok := s.gigLocks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.gigLocks[id] = ch
	}
	s.locksMu.Unlock()

	select {
	case ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return apperror.Wrap(ctx.Err(), apperror.ErrCodeDatabaseError, "не удалось дождаться блокировки заказа")
	}
}

func (s *Store) unlockGig(id uuid.UUID) {
	s.locksMu.Lock()
	ch := s.gigLocks[id]
	s.locksMu.Unlock()
	<-ch
}

func (s *Store) committedGig(id uuid.UUID) (entity.Gig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.gigs[id]
	return g, ok
}

func (s *Store) committedBid(id uuid.UUID) (entity.Bid, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bids[id]
	return b, ok
}

func (s *Store) committedBidByKey(k bidKey) (entity.Bid, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.bidKeys[k]
	if !ok {
		return entity.Bid{}, false
	}
	return s.bids[id], true
}

func (s *Store) committedGigs() []entity.Gig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Gig, 0, len(s.gigs))
	for _, g := range s.gigs {
		out = append(out, g)
	}
	return out
}

func (s *Store) committedBids(match func(entity.Bid) bool) []entity.Bid {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.Bid
	for _, b := range s.bids {
		if match(b) {
			out = append(out, b)
		}
	}
	return out
}

func matchGig(g entity.Gig, f repository.GigFilter) bool {
	if f.Status != nil && g.Status != *f.Status {
		return false
	}
	if f.OwnerID != nil && g.OwnerID != *f.OwnerID {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(g.Title), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func sortGigs(gigs []*entity.Gig) {
	sort.Slice(gigs, func(i, j int) bool {
		if !gigs[i].CreatedAt.Equal(gigs[j].CreatedAt) {
			return gigs[i].CreatedAt.After(gigs[j].CreatedAt)
		}
		return gigs[i].ID.String() < gigs[j].ID.String()
	})
}

func sortBids(bids []*entity.Bid) {
	sort.Slice(bids, func(i, j int) bool {
		if !bids[i].CreatedAt.Equal(bids[j].CreatedAt) {
			return bids[i].CreatedAt.After(bids[j].CreatedAt)
		}
		return bids[i].ID.String() < bids[j].ID.String()
	})
}
