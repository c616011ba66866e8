package lifecycle_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/domain/event"
	"github.com/ignatzorin/gig-marketplace/internal/domain/repository"
	"github.com/ignatzorin/gig-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/gig-marketplace/internal/goroutine"
	"github.com/ignatzorin/gig-marketplace/internal/infrastructure/memory"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
	"github.com/ignatzorin/gig-marketplace/internal/usecase/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, events ...event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return p.err
}

func (p *recordingPublisher) byType(t event.Type) []event.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []event.Event
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type nopLogger struct{}

func (nopLogger) Errorf(string, ...interface{}) {}

// faultyUoW оборачивает настоящую единицу работы и подменяет отдельные операции.
type faultyUoW struct {
	inner         repository.UnitOfWork
	rejectErr     error
	blindPrecheck bool
	hideGigs      bool
}

func (f *faultyUoW) Do(ctx context.Context, fn func(repository.RepositoryProvider) error) error {
	return f.inner.Do(ctx, func(p repository.RepositoryProvider) error {
		return fn(faultyProvider{RepositoryProvider: p, f: f})
	})
}

type faultyProvider struct {
	repository.RepositoryProvider
	f *faultyUoW
}

func (p faultyProvider) Gigs() repository.GigRepository {
	return faultyGigs{GigRepository: p.RepositoryProvider.Gigs(), f: p.f}
}

func (p faultyProvider) Bids() repository.BidRepository {
	return faultyBids{BidRepository: p.RepositoryProvider.Bids(), f: p.f}
}

type faultyGigs struct {
	repository.GigRepository
	f *faultyUoW
}

func (g faultyGigs) FindByID(ctx context.Context, id uuid.UUID) (*entity.Gig, error) {
	if g.f.hideGigs {
		return nil, apperror.ErrGigNotFound
	}
	return g.GigRepository.FindByID(ctx, id)
}

type faultyBids struct {
	repository.BidRepository
	f *faultyUoW
}

func (b faultyBids) FindByGigAndFreelancer(ctx context.Context, gigID, freelancerID uuid.UUID) (*entity.Bid, error) {
	if b.f.blindPrecheck {
		return nil, nil
	}
	return b.BidRepository.FindByGigAndFreelancer(ctx, gigID, freelancerID)
}

func (b faultyBids) RejectPending(ctx context.Context, gigID, exceptBidID uuid.UUID) ([]*entity.Bid, error) {
	if b.f.rejectErr != nil {
		return nil, b.f.rejectErr
	}
	return b.BidRepository.RejectPending(ctx, gigID, exceptBidID)
}

type fixture struct {
	store     *memory.Store
	engine    *lifecycle.Engine
	publisher *recordingPublisher
	async     *goroutine.RecoveryHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	return newFixtureWith(t, store, store)
}

func newFixtureWith(t *testing.T, store *memory.Store, uow repository.UnitOfWork) *fixture {
	t.Helper()
	pub := &recordingPublisher{}
	rh := goroutine.NewRecoveryHandler(nopLogger{})
	return &fixture{
		store:     store,
		engine:    lifecycle.NewEngine(uow, pub, lifecycle.WithRecoveryHandler(rh), lifecycle.WithOperationTimeout(5*time.Second)),
		publisher: pub,
		async:     rh,
	}
}

func (f *fixture) gig(t *testing.T, ownerID uuid.UUID) *entity.Gig {
	t.Helper()
	gig, err := entity.NewGig(ownerID, "Разработать API", "Нужен REST API на Go", 500)
	require.NoError(t, err)
	require.NoError(t, f.store.Gigs().Create(context.Background(), gig))
	return gig
}

func (f *fixture) bid(t *testing.T, gigID, freelancerID uuid.UUID, price float64) *entity.Bid {
	t.Helper()
	bid, err := f.engine.CreateBid(context.Background(), lifecycle.CreateBidInput{
		GigID:        gigID,
		FreelancerID: freelancerID,
		Message:      "Сделаю за неделю",
		Price:        price,
	})
	require.NoError(t, err)
	return bid
}

func (f *fixture) waitEvents(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, f.async.Wait(ctx))
}

// snapshot фиксирует статусы заказа и всех его откликов.
func (f *fixture) snapshot(t *testing.T, gigID uuid.UUID) string {
	t.Helper()
	ctx := context.Background()
	gig, err := f.store.Gigs().FindByID(ctx, gigID)
	require.NoError(t, err)
	bids, err := f.store.Bids().ListByGig(ctx, gigID)
	require.NoError(t, err)

	s := string(gig.Status)
	for _, b := range bids {
		s += fmt.Sprintf("|%s=%s", b.ID, b.Status)
	}
	return s
}

func TestHireFreelancer_EndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, f1, f2 := uuid.New(), uuid.New(), uuid.New()

	gig := f.gig(t, owner)
	assert.Equal(t, valueobject.GigStatusOpen, gig.Status)

	b1 := f.bid(t, gig.ID, f1, 100)
	b2 := f.bid(t, gig.ID, f2, 150)
	assert.Equal(t, valueobject.BidStatusPending, b1.Status)
	assert.Equal(t, valueobject.BidStatusPending, b2.Status)

	result, err := f.engine.HireFreelancer(ctx, b1.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, valueobject.GigStatusAssigned, result.Gig.Status)
	assert.Equal(t, valueobject.BidStatusHired, result.Bid.Status)
	assert.Equal(t, b1.ID, result.Bid.ID)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, b2.ID, result.Rejected[0].ID)

	got, err := f.store.Bids().FindByID(ctx, b2.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.BidStatusRejected, got.Status)

	storedGig, err := f.store.Gigs().FindByID(ctx, gig.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.GigStatusAssigned, storedGig.Status)

	_, err = f.engine.HireFreelancer(ctx, b2.ID, owner)
	assert.ErrorIs(t, err, apperror.ErrGigAlreadyAssigned)
	assert.True(t, apperror.IsConflict(err))
}

func TestHireFreelancer_RehireSameBidIsConflict(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	gig := f.gig(t, owner)
	b := f.bid(t, gig.ID, uuid.New(), 100)

	_, err := f.engine.HireFreelancer(context.Background(), b.ID, owner)
	require.NoError(t, err)

	_, err = f.engine.HireFreelancer(context.Background(), b.ID, owner)
	assert.True(t, apperror.IsConflict(err))
}

func TestHireFreelancer_NotOwner(t *testing.T) {
	f := newFixture(t)
	gig := f.gig(t, uuid.New())
	freelancer := uuid.New()
	b := f.bid(t, gig.ID, freelancer, 100)
	before := f.snapshot(t, gig.ID)

	_, err := f.engine.HireFreelancer(context.Background(), b.ID, freelancer)
	assert.ErrorIs(t, err, apperror.ErrNotGigOwner)
	assert.True(t, apperror.IsForbidden(err))
	assert.Equal(t, before, f.snapshot(t, gig.ID))
}

func TestHireFreelancer_BidNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.HireFreelancer(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrBidNotFound)
}

func TestHireFreelancer_MissingGigIsNotFound(t *testing.T) {
	store := memory.NewStore()
	faulty := &faultyUoW{inner: store}
	f := newFixtureWith(t, store, faulty)
	owner := uuid.New()
	gig := f.gig(t, owner)
	b := f.bid(t, gig.ID, uuid.New(), 100)

	faulty.hideGigs = true
	_, err := f.engine.HireFreelancer(context.Background(), b.ID, owner)
	assert.ErrorIs(t, err, apperror.ErrGigNotFound)
}

func TestHireFreelancer_RequiresCaller(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.HireFreelancer(context.Background(), uuid.New(), uuid.Nil)
	assert.True(t, apperror.IsUnauthorized(err))
}

func TestHireFreelancer_RejectsOnlyPendingSiblings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	gig := f.gig(t, owner)

	target := f.bid(t, gig.ID, uuid.New(), 100)
	var siblings []*entity.Bid
	for i := 0; i < 5; i++ {
		siblings = append(siblings, f.bid(t, gig.ID, uuid.New(), float64(100+i)))
	}
	other := f.gig(t, owner)
	untouched := f.bid(t, other.ID, uuid.New(), 70)

	result, err := f.engine.HireFreelancer(ctx, target.ID, owner)
	require.NoError(t, err)
	assert.Len(t, result.Rejected, len(siblings))

	bids, err := f.store.Bids().ListByGig(ctx, gig.ID)
	require.NoError(t, err)
	hired := 0
	for _, b := range bids {
		switch b.ID {
		case target.ID:
			assert.Equal(t, valueobject.BidStatusHired, b.Status)
			hired++
		default:
			assert.Equal(t, valueobject.BidStatusRejected, b.Status)
		}
	}
	assert.Equal(t, 1, hired)

	got, err := f.store.Bids().FindByID(ctx, untouched.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.BidStatusPending, got.Status)
}

func TestHireFreelancer_NoPartialCommit(t *testing.T) {
	store := memory.NewStore()
	faulty := &faultyUoW{inner: store}
	f := newFixtureWith(t, store, faulty)
	owner := uuid.New()
	gig := f.gig(t, owner)
	b1 := f.bid(t, gig.ID, uuid.New(), 100)
	f.bid(t, gig.ID, uuid.New(), 120)
	before := f.snapshot(t, gig.ID)

	faulty.rejectErr = apperror.Wrap(errors.New("connection reset"), apperror.ErrCodeDatabaseError, "не удалось отклонить отклики")
	_, err := f.engine.HireFreelancer(context.Background(), b1.ID, owner)
	require.Error(t, err)
	assert.False(t, apperror.IsDomain(err))
	assert.Equal(t, before, f.snapshot(t, gig.ID))

	faulty.rejectErr = nil
	_, err = f.engine.HireFreelancer(context.Background(), b1.ID, owner)
	require.NoError(t, err)
}

func TestHireFreelancer_CancelledContextRollsBack(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	gig := f.gig(t, owner)
	b := f.bid(t, gig.ID, uuid.New(), 100)
	before := f.snapshot(t, gig.ID)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.engine.HireFreelancer(ctx, b.ID, owner)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, before, f.snapshot(t, gig.ID))
}

func TestHireFreelancer_ConcurrentHiresOnSameGig(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	gig := f.gig(t, owner)

	const n = 8
	bids := make([]*entity.Bid, n)
	for i := range bids {
		bids[i] = f.bid(t, gig.ID, uuid.New(), float64(100+i))
	}

	var wins, conflicts atomic.Int32
	var g errgroup.Group
	start := make(chan struct{})
	for _, b := range bids {
		b := b
		g.Go(func() error {
			<-start
			_, err := f.engine.HireFreelancer(ctx, b.ID, owner)
			switch {
			case err == nil:
				wins.Add(1)
			case apperror.IsConflict(err):
				conflicts.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	close(start)
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(n-1), conflicts.Load())

	stored, err := f.store.Bids().ListByGig(ctx, gig.ID)
	require.NoError(t, err)
	hired := 0
	for _, b := range stored {
		if b.Status == valueobject.BidStatusHired {
			hired++
			continue
		}
		assert.Equal(t, valueobject.BidStatusRejected, b.Status)
	}
	assert.Equal(t, 1, hired)

	storedGig, err := f.store.Gigs().FindByID(ctx, gig.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.GigStatusAssigned, storedGig.Status)
}

func TestHireFreelancer_DifferentGigsInParallel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	type pair struct {
		owner uuid.UUID
		bid   *entity.Bid
	}
	pairs := make([]pair, 6)
	for i := range pairs {
		owner := uuid.New()
		gig := f.gig(t, owner)
		pairs[i] = pair{owner: owner, bid: f.bid(t, gig.ID, uuid.New(), 100)}
	}

	var g errgroup.Group
	for _, p := range pairs {
		p := p
		g.Go(func() error {
			_, err := f.engine.HireFreelancer(ctx, p.bid.ID, p.owner)
			return err
		})
	}
	require.NoError(t, g.Wait())
}

// Отклик, поданный одновременно с наймом, не может остаться pending под назначенным заказом.
func TestCreateBidRacingHire_NoPendingLeftBehind(t *testing.T) {
	for i := 0; i < 20; i++ {
		f := newFixture(t)
		ctx := context.Background()
		owner := uuid.New()
		gig := f.gig(t, owner)
		first := f.bid(t, gig.ID, uuid.New(), 100)

		var g errgroup.Group
		g.Go(func() error {
			_, err := f.engine.HireFreelancer(ctx, first.ID, owner)
			return err
		})
		g.Go(func() error {
			_, err := f.engine.CreateBid(ctx, lifecycle.CreateBidInput{
				GigID: gig.ID, FreelancerID: uuid.New(), Message: "успею?", Price: 90,
			})
			if err != nil && !errors.Is(err, apperror.ErrGigNotOpen) {
				return err
			}
			return nil
		})
		require.NoError(t, g.Wait())

		bids, err := f.store.Bids().ListByGig(ctx, gig.ID)
		require.NoError(t, err)
		for _, b := range bids {
			assert.NotEqual(t, valueobject.BidStatusPending, b.Status)
		}
	}
}

func TestCreateBid_SelfBidForbidden(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	gig := f.gig(t, owner)

	input := lifecycle.CreateBidInput{GigID: gig.ID, FreelancerID: owner, Message: "сам себе", Price: 1}
	_, err := f.engine.CreateBid(context.Background(), input)
	assert.ErrorIs(t, err, apperror.ErrSelfBid)

	b := f.bid(t, gig.ID, uuid.New(), 100)
	_, err = f.engine.HireFreelancer(context.Background(), b.ID, owner)
	require.NoError(t, err)

	_, err = f.engine.CreateBid(context.Background(), input)
	assert.ErrorIs(t, err, apperror.ErrSelfBid)
}

func TestCreateBid_Preconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, freelancer := uuid.New(), uuid.New()
	gig := f.gig(t, owner)

	_, err := f.engine.CreateBid(ctx, lifecycle.CreateBidInput{GigID: uuid.New(), FreelancerID: freelancer, Message: "x", Price: 1})
	assert.ErrorIs(t, err, apperror.ErrGigNotFound)

	f.bid(t, gig.ID, freelancer, 100)
	_, err = f.engine.CreateBid(ctx, lifecycle.CreateBidInput{GigID: gig.ID, FreelancerID: freelancer, Message: "ещё", Price: 100})
	assert.ErrorIs(t, err, apperror.ErrDuplicateBid)

	assigned := f.gig(t, owner)
	hired := f.bid(t, assigned.ID, uuid.New(), 10)
	_, err = f.engine.HireFreelancer(ctx, hired.ID, owner)
	require.NoError(t, err)
	_, err = f.engine.CreateBid(ctx, lifecycle.CreateBidInput{GigID: assigned.ID, FreelancerID: freelancer, Message: "поздно", Price: 10})
	assert.ErrorIs(t, err, apperror.ErrGigNotOpen)
}

func TestCreateBid_Validation(t *testing.T) {
	f := newFixture(t)
	gig := f.gig(t, uuid.New())

	cases := []struct {
		name  string
		input lifecycle.CreateBidInput
	}{
		{"negative price", lifecycle.CreateBidInput{GigID: gig.ID, FreelancerID: uuid.New(), Message: "ok", Price: -1}},
		{"empty message", lifecycle.CreateBidInput{GigID: gig.ID, FreelancerID: uuid.New(), Message: "  ", Price: 1}},
		{"missing gig id", lifecycle.CreateBidInput{FreelancerID: uuid.New(), Message: "ok", Price: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.engine.CreateBid(context.Background(), tc.input)
			assert.True(t, apperror.IsValidation(err), "got %v", err)
		})
	}
}

func TestCreateBid_StorageConstraintIsConflict(t *testing.T) {
	store := memory.NewStore()
	f := newFixtureWith(t, store, &faultyUoW{inner: store, blindPrecheck: true})
	gig := f.gig(t, uuid.New())
	freelancer := uuid.New()
	f.bid(t, gig.ID, freelancer, 100)

	_, err := f.engine.CreateBid(context.Background(), lifecycle.CreateBidInput{
		GigID: gig.ID, FreelancerID: freelancer, Message: "повтор", Price: 100,
	})
	assert.ErrorIs(t, err, apperror.ErrDuplicateBid)
}

func TestCreateBid_ConcurrentSamePair(t *testing.T) {
	f := newFixture(t)
	gig := f.gig(t, uuid.New())
	freelancer := uuid.New()

	var wins, conflicts atomic.Int32
	var g errgroup.Group
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			_, err := f.engine.CreateBid(context.Background(), lifecycle.CreateBidInput{
				GigID: gig.ID, FreelancerID: freelancer, Message: "первый!", Price: 50,
			})
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, apperror.ErrDuplicateBid):
				conflicts.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(9), conflicts.Load())
}

func TestEngine_PublishesEventsAfterCommit(t *testing.T) {
	f := newFixture(t)
	owner, f1, f2 := uuid.New(), uuid.New(), uuid.New()
	gig := f.gig(t, owner)
	b1 := f.bid(t, gig.ID, f1, 100)
	b2 := f.bid(t, gig.ID, f2, 120)

	_, err := f.engine.HireFreelancer(context.Background(), b1.ID, owner)
	require.NoError(t, err)
	f.waitEvents(t)

	placed := f.publisher.byType(event.TypeBidPlaced)
	require.Len(t, placed, 2)
	assert.Equal(t, owner, placed[0].RecipientID)

	assigned := f.publisher.byType(event.TypeGigAssigned)
	require.Len(t, assigned, 1)
	assert.Equal(t, owner, assigned[0].RecipientID)

	hired := f.publisher.byType(event.TypeBidHired)
	require.Len(t, hired, 1)
	assert.Equal(t, f1, hired[0].RecipientID)

	rejected := f.publisher.byType(event.TypeBidRejected)
	require.Len(t, rejected, 1)
	assert.Equal(t, f2, rejected[0].RecipientID)
	assert.Equal(t, b2.ID, rejected[0].BidID)
}

func TestEngine_PublishFailureDoesNotFailOperation(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("broker down")
	owner := uuid.New()
	gig := f.gig(t, owner)
	b := f.bid(t, gig.ID, uuid.New(), 100)

	_, err := f.engine.HireFreelancer(context.Background(), b.ID, owner)
	require.NoError(t, err)
	f.waitEvents(t)
}

func TestEngine_NoEventsOnFailure(t *testing.T) {
	f := newFixture(t)
	gig := f.gig(t, uuid.New())
	b := f.bid(t, gig.ID, uuid.New(), 100)
	f.waitEvents(t)

	_, err := f.engine.HireFreelancer(context.Background(), b.ID, uuid.New())
	require.Error(t, err)
	f.waitEvents(t)
	assert.Empty(t, f.publisher.byType(event.TypeGigAssigned))
}
