package postgres

import (
	"context"
	"testing"

	"coderr/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsRepository_PlatformSummary(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewStatsRepository(db)

	empty, err := repo.PlatformSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, &entity.PlatformSummary{}, empty)

	acme := seedUser(t, db, "acme", entity.UserTypeBusiness)
	globex := seedUser(t, db, "globex", entity.UserTypeBusiness)
	jane := seedUser(t, db, "jane", entity.UserTypeCustomer)
	john := seedUser(t, db, "john", entity.UserTypeCustomer)
	seedOffer(t, db, acme.ID, "Logo", threeTiers([3]string{"10", "20", "30"}, [3]int{1, 2, 3})...)
	seedReview(t, db, jane.ID, acme.ID, 5, baseTime)
	seedReview(t, db, john.ID, acme.ID, 4, baseTime)
	seedReview(t, db, jane.ID, globex.ID, 4, baseTime)

	summary, err := repo.PlatformSummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), summary.ReviewCount)
	assert.InDelta(t, 4.3, summary.AverageRating, 1e-9)
	assert.Equal(t, int64(2), summary.BusinessProfileCount)
	assert.Equal(t, int64(1), summary.OfferCount)
}
