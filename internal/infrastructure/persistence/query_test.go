package persistence

import (
	"testing"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/repository"
	"github.com/ignatzorin/gig-marketplace/internal/domain/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGigListQuery_NoFilter(t *testing.T) {
	query, args, err := buildGigListQuery(repository.GigFilter{})
	require.NoError(t, err)
	assert.Equal(t, "SELECT "+gigColumns+" FROM gigs ORDER BY created_at DESC, id", query)
	assert.Empty(t, args)
}

func TestBuildGigListQuery_AllFilters(t *testing.T) {
	status := valueobject.GigStatusOpen
	owner := uuid.New()

	query, args, err := buildGigListQuery(repository.GigFilter{
		Status:  &status,
		OwnerID: &owner,
		Search:  " 50%_off ",
		Limit:   20,
		Offset:  40,
	})
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT "+gigColumns+" FROM gigs WHERE status = $1 AND owner_id = $2 AND title ILIKE $3 "+
			"ORDER BY created_at DESC, id LIMIT 20 OFFSET 40",
		query)
	assert.Equal(t, []interface{}{"open", owner.String(), `%50\%\_off%`}, args)
}

func TestBuildBidListQuery(t *testing.T) {
	gigID := uuid.New()
	query, args, err := buildBidListQuery("gig_id", gigID)
	require.NoError(t, err)
	assert.Equal(t, "SELECT "+bidColumns+" FROM bids WHERE gig_id = $1 ORDER BY created_at DESC, id", query)
	assert.Equal(t, []interface{}{gigID.String()}, args)
}
