package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"coderr/internal/domain/entity"
	"coderr/internal/infra/persistence/model"
	"coderr/internal/infra/persistence/sqlitetest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type tierSeed struct {
	offerType entity.OfferType
	price     string
	delivery  int
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	return sqlitetest.NewDB(t)
}

func seedUser(t *testing.T, db *gorm.DB, username string, userType entity.UserType) *entity.User {
	t.Helper()

	profile, ok := entity.NewProfileFor(userType)
	require.True(t, ok)

	user := &entity.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Type:         userType,
		Profile:      profile,
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))

	return user
}

func seedOffer(t *testing.T, db *gorm.DB, creatorID int64, title string, tiers ...tierSeed) *entity.Offer {
	t.Helper()

	offer := &entity.Offer{
		CreatorID:   creatorID,
		Title:       title,
		Description: "Description of " + title,
	}
	for _, tier := range tiers {
		offer.Details = append(offer.Details, &entity.OfferDetail{
			OfferType:          tier.offerType,
			Title:              fmt.Sprintf("%s %s", title, tier.offerType),
			Price:              decimal.RequireFromString(tier.price),
			DeliveryTimeInDays: tier.delivery,
			Revisions:          1,
			Features:           []string{"Logo"},
		})
	}
	require.NoError(t, NewOfferRepository(db).Create(context.Background(), offer))

	return offer
}

// threeTiers builds the canonical basic/standard/premium set.
func threeTiers(prices [3]string, deliveries [3]int) []tierSeed {
	types := entity.OfferTypes()
	tiers := make([]tierSeed, 0, len(types))
	for i, offerType := range types {
		tiers = append(tiers, tierSeed{offerType: offerType, price: prices[i], delivery: deliveries[i]})
	}

	return tiers
}

func setOfferUpdatedAt(t *testing.T, db *gorm.DB, offerID int64, at time.Time) {
	t.Helper()

	require.NoError(t, db.Model(&model.OfferModel{}).Where("id = ?", offerID).UpdateColumn("updated_at", at).Error)
}

func seedOrder(t *testing.T, db *gorm.DB, customerID int64, offer *entity.Offer, offerType entity.OfferType) *entity.Order {
	t.Helper()

	detail, ok := offer.Detail(offerType)
	require.True(t, ok)

	order := &entity.Order{
		CustomerID:    customerID,
		OfferID:       &offer.ID,
		OfferDetailID: &detail.ID,
		Status:        entity.OrderStatusPending,
	}
	require.NoError(t, NewOrderRepository(db).Create(context.Background(), order))

	return order
}

func offerIDs(offers []*entity.Offer) []int64 {
	ids := make([]int64, 0, len(offers))
	for _, offer := range offers {
		ids = append(ids, offer.ID)
	}

	return ids
}
