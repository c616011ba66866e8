package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/domain/repository"
	"github.com/ignatzorin/gig-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
)

// tx накапливает изменения поверх зафиксированного состояния.
// Блокировки заказов держатся до commit или release.
type tx struct {
	store   *Store
	held    map[uuid.UUID]struct{}
	gigs    map[uuid.UUID]entity.Gig
	bids    map[uuid.UUID]entity.Bid
	newBids []uuid.UUID
}

func (s *Store) begin() *tx {
	return &tx{
		store: s,
		held:  make(map[uuid.UUID]struct{}),
		gigs:  make(map[uuid.UUID]entity.Gig),
		bids:  make(map[uuid.UUID]entity.Bid),
	}
}

func (t *tx) Gigs() repository.GigRepository { return txGigs{t: t} }
func (t *tx) Bids() repository.BidRepository { return txBids{t: t} }

func (t *tx) lock(ctx context.Context, gigID uuid.UUID) error {
	if _, ok := t.held[gigID]; ok {
		return nil
	}
	if err := t.store.lockGig(ctx, gigID); err != nil {
		return err
	}
	t.held[gigID] = struct{}{}
	return nil
}

func (t *tx) release() {
	for id := range t.held {
		t.store.unlockGig(id)
	}
	t.held = map[uuid.UUID]struct{}{}
}

func (t *tx) commit() error {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range t.newBids {
		b := t.bids[id]
		if other, ok := s.bidKeys[bidKey{b.GigID, b.FreelancerID}]; ok && other != id {
			return apperror.ErrDuplicateBid
		}
		if _, ok := s.gigs[b.GigID]; !ok {
			if _, staged := t.gigs[b.GigID]; !staged {
				return apperror.ErrGigNotFound
			}
		}
	}

	for id, g := range t.gigs {
		s.gigs[id] = g
	}
	for id, b := range t.bids {
		s.bids[id] = b
		s.bidKeys[bidKey{b.GigID, b.FreelancerID}] = id
	}
	return nil
}

func (t *tx) gig(id uuid.UUID) (entity.Gig, bool) {
	if g, ok := t.gigs[id]; ok {
		return g, true
	}
	return t.store.committedGig(id)
}

func (t *tx) bid(id uuid.UUID) (entity.Bid, bool) {
	if b, ok := t.bids[id]; ok {
		return b, true
	}
	return t.store.committedBid(id)
}

func (t *tx) bidsWhere(match func(entity.Bid) bool) []*entity.Bid {
	staged := make(map[uuid.UUID]struct{}, len(t.bids))
	var out []*entity.Bid
	for id, b := range t.bids {
		staged[id] = struct{}{}
		if match(b) {
			c := b
			out = append(out, &c)
		}
	}
	for _, b := range t.store.committedBids(match) {
		if _, ok := staged[b.ID]; ok {
			continue
		}
		c := b
		out = append(out, &c)
	}
	sortBids(out)
	return out
}

func checkCtx(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "операция с хранилищем прервана")
	}
	return nil
}

type txGigs struct{ t *tx }

func (r txGigs) Create(ctx context.Context, gig *entity.Gig) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	if _, exists := r.t.gig(gig.ID); exists {
		return apperror.New(apperror.ErrCodeConflict, "заказ с таким id уже существует")
	}
	r.t.gigs[gig.ID] = *gig
	return nil
}

func (r txGigs) FindByID(ctx context.Context, id uuid.UUID) (*entity.Gig, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	g, ok := r.t.gig(id)
	if !ok {
		return nil, apperror.ErrGigNotFound
	}
	return &g, nil
}

func (r txGigs) FindByIDLocked(ctx context.Context, id uuid.UUID) (*entity.Gig, error) {
	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if err := r.t.lock(ctx, id); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r txGigs) List(ctx context.Context, filter repository.GigFilter) ([]*entity.Gig, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	var out []*entity.Gig
	for _, g := range r.t.store.committedGigs() {
		if _, staged := r.t.gigs[g.ID]; staged {
			continue
		}
		if matchGig(g, filter) {
			c := g
			out = append(out, &c)
		}
	}
	for _, g := range r.t.gigs {
		if matchGig(g, filter) {
			c := g
			out = append(out, &c)
		}
	}
	sortGigs(out)
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (r txGigs) CompareAndSetStatus(ctx context.Context, id uuid.UUID, expected, next valueobject.GigStatus) (bool, error) {
	if err := checkCtx(ctx); err != nil {
		return false, err
	}
	if err := r.t.lock(ctx, id); err != nil {
		return false, err
	}
	g, ok := r.t.gig(id)
	if !ok || g.Status != expected {
		return false, nil
	}
	g.Status = next
	g.UpdatedAt = time.Now().UTC()
	r.t.gigs[id] = g
	return true, nil
}

type txBids struct{ t *tx }

func (r txBids) Insert(ctx context.Context, bid *entity.Bid) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	if err := r.t.lock(ctx, bid.GigID); err != nil {
		return err
	}
	if _, ok := r.t.gig(bid.GigID); !ok {
		return apperror.ErrGigNotFound
	}
	existing, err := r.FindByGigAndFreelancer(ctx, bid.GigID, bid.FreelancerID)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperror.ErrDuplicateBid
	}
	r.t.bids[bid.ID] = *bid
	r.t.newBids = append(r.t.newBids, bid.ID)
	return nil
}

func (r txBids) FindByID(ctx context.Context, id uuid.UUID) (*entity.Bid, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	b, ok := r.t.bid(id)
	if !ok {
		return nil, apperror.ErrBidNotFound
	}
	return &b, nil
}

func (r txBids) FindByGigAndFreelancer(ctx context.Context, gigID, freelancerID uuid.UUID) (*entity.Bid, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	for _, b := range r.t.bids {
		if b.GigID == gigID && b.FreelancerID == freelancerID {
			c := b
			return &c, nil
		}
	}
	b, ok := r.t.store.committedBidByKey(bidKey{gigID, freelancerID})
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r txBids) ListByGig(ctx context.Context, gigID uuid.UUID) ([]*entity.Bid, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	return r.t.bidsWhere(func(b entity.Bid) bool { return b.GigID == gigID }), nil
}

func (r txBids) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]*entity.Bid, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	return r.t.bidsWhere(func(b entity.Bid) bool { return b.FreelancerID == freelancerID }), nil
}

func (r txBids) SetStatus(ctx context.Context, id uuid.UUID, status valueobject.BidStatus) error {
	b, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.t.lock(ctx, b.GigID); err != nil {
		return err
	}
	b.Status = status
	b.UpdatedAt = time.Now().UTC()
	r.t.bids[id] = *b
	return nil
}

func (r txBids) RejectPending(ctx context.Context, gigID, exceptBidID uuid.UUID) ([]*entity.Bid, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	if err := r.t.lock(ctx, gigID); err != nil {
		return nil, err
	}

	pending := r.t.bidsWhere(func(b entity.Bid) bool {
		return b.GigID == gigID && b.ID != exceptBidID && b.Status == valueobject.BidStatusPending
	})
	now := time.Now().UTC()
	for _, b := range pending {
		b.Status = valueobject.BidStatusRejected
		b.UpdatedAt = now
		r.t.bids[b.ID] = *b
	}
	return pending, nil
}
