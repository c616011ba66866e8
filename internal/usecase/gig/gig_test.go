package gig_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/domain/repository"
	"github.com/ignatzorin/gig-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/gig-marketplace/internal/infrastructure/memory"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
	"github.com/ignatzorin/gig-marketplace/internal/usecase/gig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockGigRepository struct {
	mock.Mock
	repository.GigRepository
}

func (m *mockGigRepository) Create(ctx context.Context, g *entity.Gig) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func TestCreateGig_Success(t *testing.T) {
	repo := &mockGigRepository{}
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Gig")).Return(nil)
	uc := gig.NewCreateGigUseCase(repo)
	owner := uuid.New()

	g, err := uc.Execute(context.Background(), gig.CreateGigInput{
		OwnerID:     owner,
		Title:       "  Telegram-бот  ",
		Description: "Бот для записи клиентов",
		Budget:      300,
	})
	require.NoError(t, err)
	assert.Equal(t, "Telegram-бот", g.Title)
	assert.Equal(t, owner, g.OwnerID)
	assert.Equal(t, valueobject.GigStatusOpen, g.Status)
	repo.AssertExpectations(t)
}

func TestCreateGig_Validation(t *testing.T) {
	repo := &mockGigRepository{}
	uc := gig.NewCreateGigUseCase(repo)
	long := make([]rune, 101)
	for i := range long {
		long[i] = 'я'
	}

	cases := map[string]gig.CreateGigInput{
		"no owner":       {Title: "t", Description: "d", Budget: 1},
		"empty title":    {OwnerID: uuid.New(), Description: "d", Budget: 1},
		"long title":     {OwnerID: uuid.New(), Title: string(long), Description: "d", Budget: 1},
		"negative":       {OwnerID: uuid.New(), Title: "t", Description: "d", Budget: -5},
		"no description": {OwnerID: uuid.New(), Title: "t", Budget: 1},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), input)
			assert.True(t, apperror.IsValidation(err), "got %v", err)
		})
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateGig_RepositoryError(t *testing.T) {
	repo := &mockGigRepository{}
	dbErr := apperror.New(apperror.ErrCodeDatabaseError, "не удалось создать заказ")
	repo.On("Create", mock.Anything, mock.Anything).Return(dbErr)
	uc := gig.NewCreateGigUseCase(repo)

	_, err := uc.Execute(context.Background(), gig.CreateGigInput{OwnerID: uuid.New(), Title: "t", Description: "d", Budget: 1})
	assert.ErrorIs(t, err, dbErr)
}

func seed(t *testing.T, store *memory.Store, owner *entity.User, title string, created time.Time) *entity.Gig {
	t.Helper()
	g, err := entity.NewGig(owner.ID, title, "описание", 100)
	require.NoError(t, err)
	g.CreatedAt = created
	require.NoError(t, store.Gigs().Create(context.Background(), g))
	return g
}

func TestListOpenGigs(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	owner := entity.NewUser("Ольга", "olga@example.com", "hash")
	require.NoError(t, store.Users().Create(ctx, owner))

	now := time.Now().UTC()
	older := seed(t, store, owner, "Сайт-визитка", now.Add(-time.Hour))
	newer := seed(t, store, owner, "Интернет-магазин", now)
	closed := seed(t, store, owner, "Сайт для кафе", now.Add(-time.Minute))
	_, err := store.Gigs().CompareAndSetStatus(ctx, closed.ID, valueobject.GigStatusOpen, valueobject.GigStatusAssigned)
	require.NoError(t, err)

	uc := gig.NewListOpenGigsUseCase(store.Gigs(), store.Users())

	all, err := uc.Execute(ctx, gig.ListOpenGigsInput{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, newer.ID, all[0].Gig.ID)
	assert.Equal(t, older.ID, all[1].Gig.ID)
	require.NotNil(t, all[0].Owner)
	assert.Equal(t, "olga@example.com", all[0].Owner.Email)

	found, err := uc.Execute(ctx, gig.ListOpenGigsInput{Search: "САЙТ"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, older.ID, found[0].Gig.ID)
}

func TestListMyGigs_IncludesAssigned(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	me := entity.NewUser("Иван", "ivan@example.com", "hash")
	other := entity.NewUser("Пётр", "petr@example.com", "hash")

	now := time.Now().UTC()
	mine := seed(t, store, me, "Мой заказ", now)
	seed(t, store, other, "Чужой заказ", now)
	_, err := store.Gigs().CompareAndSetStatus(ctx, mine.ID, valueobject.GigStatusOpen, valueobject.GigStatusAssigned)
	require.NoError(t, err)

	gigs, err := gig.NewListMyGigsUseCase(store.Gigs()).Execute(ctx, me.ID)
	require.NoError(t, err)
	require.Len(t, gigs, 1)
	assert.Equal(t, valueobject.GigStatusAssigned, gigs[0].Status)
}

func TestGetGig(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	owner := entity.NewUser("Мария", "maria@example.com", "hash")
	require.NoError(t, store.Users().Create(ctx, owner))
	g := seed(t, store, owner, "Логотип", time.Now().UTC())

	uc := gig.NewGetGigUseCase(store.Gigs(), store.Users())
	details, err := uc.Execute(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.ID, details.Gig.ID)
	assert.Equal(t, owner.Name, details.Owner.Name)

	_, err = uc.Execute(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrGigNotFound)
}
