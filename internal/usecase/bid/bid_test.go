package bid_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/infrastructure/memory"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
	"github.com/ignatzorin/gig-marketplace/internal/usecase/bid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type world struct {
	store      *memory.Store
	owner      *entity.User
	freelancer *entity.User
	gig        *entity.Gig
	bid        *entity.Bid
}

func newWorld(t *testing.T) *world {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	owner := entity.NewUser("Заказчик", "owner@example.com", "hash")
	freelancer := entity.NewUser("Фрилансер", "free@example.com", "hash")
	require.NoError(t, store.Users().Create(ctx, owner))
	require.NoError(t, store.Users().Create(ctx, freelancer))

	g, err := entity.NewGig(owner.ID, "Вёрстка", "Сверстать макет", 200)
	require.NoError(t, err)
	require.NoError(t, store.Gigs().Create(ctx, g))

	b, err := entity.NewBid(g.ID, freelancer.ID, "Сделаю", 180)
	require.NoError(t, err)
	require.NoError(t, store.Bids().Insert(ctx, b))

	return &world{store: store, owner: owner, freelancer: freelancer, gig: g, bid: b}
}

func TestListGigBids_Owner(t *testing.T) {
	w := newWorld(t)
	uc := bid.NewListGigBidsUseCase(w.store.Gigs(), w.store.Bids(), w.store.Users())

	bids, err := uc.Execute(context.Background(), w.gig.ID, w.owner.ID)
	require.NoError(t, err)
	require.Len(t, bids, 1)
	assert.Equal(t, w.bid.ID, bids[0].Bid.ID)
	require.NotNil(t, bids[0].Freelancer)
	assert.Equal(t, "free@example.com", bids[0].Freelancer.Email)
}

func TestListGigBids_NotOwner(t *testing.T) {
	w := newWorld(t)
	uc := bid.NewListGigBidsUseCase(w.store.Gigs(), w.store.Bids(), w.store.Users())

	_, err := uc.Execute(context.Background(), w.gig.ID, w.freelancer.ID)
	assert.ErrorIs(t, err, apperror.ErrNotGigOwner)

	_, err = uc.Execute(context.Background(), uuid.New(), w.owner.ID)
	assert.ErrorIs(t, err, apperror.ErrGigNotFound)
}

func TestListMyBids(t *testing.T) {
	w := newWorld(t)
	uc := bid.NewListMyBidsUseCase(w.store.Bids(), w.store.Gigs())

	mine, err := uc.Execute(context.Background(), w.freelancer.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, w.gig.Title, mine[0].Gig.Title)

	none, err := uc.Execute(context.Background(), w.owner.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}
