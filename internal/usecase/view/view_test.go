package view

import (
	"encoding/json"
	"testing"
	"time"

	"coderr/internal/domain/entity"
	"coderr/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleOffer() *entity.Offer {
	minPrice := decimal.RequireFromString("49.5")
	minDelivery := 3

	return &entity.Offer{
		ID:        7,
		CreatorID: 2,
		Creator:   &entity.User{ID: 2, Username: "studio", FirstName: "Max", LastName: "Muster"},
		Title:     "Logo design",
		Image:     "offers/logo.png",
		Details: []*entity.OfferDetail{
			{ID: 71, OfferType: entity.OfferTypeBasic, Title: "Basic", Price: minPrice, DeliveryTimeInDays: 3},
		},
		MinPrice:        &minPrice,
		MinDeliveryTime: &minDelivery,
		CreatedAt:       created,
		UpdatedAt:       created,
	}
}

func TestPresenter_OfferSummary(t *testing.T) {
	p := NewPresenter("https://api.example.com/")

	raw, err := json.Marshal(p.OfferSummary(sampleOffer()))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, 49.5, got["min_price"])
	assert.Contains(t, string(raw), `"min_price":49.50`)
	assert.Equal(t, float64(3), got["min_delivery_time"])
	assert.Equal(t, "https://api.example.com/media/offers/logo.png", got["image"])
	assert.Equal(t, []any{map[string]any{"id": float64(71), "url": "https://api.example.com/api/offerdetails/71/"}}, got["details"])
	assert.Equal(t, map[string]any{"first_name": "Max", "last_name": "Muster", "username": "studio"}, got["user_details"])
}

func TestPresenter_OfferWithoutDetails(t *testing.T) {
	p := NewPresenter("")
	offer := &entity.Offer{ID: 1, CreatorID: 2, Title: "Empty"}

	raw, err := json.Marshal(p.Offer(offer))
	require.NoError(t, err)

	assert.Contains(t, string(raw), `"min_price":null`)
	assert.Contains(t, string(raw), `"image":null`)
	assert.Contains(t, string(raw), `"details":[]`)
}

func TestPresenter_OfferDetail(t *testing.T) {
	p := NewPresenter("")
	d := &entity.OfferDetail{ID: 5, OfferType: entity.OfferTypePremium, Title: "Pro", Price: decimal.NewFromInt(300), Revisions: -1}

	got := p.OfferDetail(d)

	assert.Equal(t, json.Number("300.00"), got.Price)
	assert.Equal(t, []string{}, got.Features)
	assert.Equal(t, "premium", got.OfferType)
	assert.Equal(t, -1, got.Revisions)
}

func TestPresenter_OrderGhost(t *testing.T) {
	p := NewPresenter("")
	order := &entity.Order{ID: 3, CustomerID: 4, Status: entity.OrderStatusCompleted, CreatedAt: created, UpdatedAt: created}

	raw, err := json.Marshal(p.Order(order))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	for _, field := range []string{"business_user", "title", "revisions", "delivery_time_in_days", "price", "features", "offer_type"} {
		assert.Nil(t, got[field], field)
		assert.Contains(t, got, field)
	}
	assert.Equal(t, "completed", got["status"])
}

func TestPresenter_OrderLive(t *testing.T) {
	p := NewPresenter("")
	offerID, detailID := int64(7), int64(71)
	order := &entity.Order{
		ID:            3,
		CustomerID:    4,
		OfferID:       &offerID,
		OfferDetailID: &detailID,
		Status:        entity.OrderStatusPending,
		Offer:         &entity.Offer{ID: offerID, CreatorID: 2},
		OfferDetail:   &entity.OfferDetail{ID: detailID, Title: "Basic", Price: decimal.NewFromInt(100), OfferType: entity.OfferTypeBasic, Features: []string{"Logo"}},
	}

	got := p.Order(order)

	require.NotNil(t, got.BusinessUser)
	assert.Equal(t, int64(2), *got.BusinessUser)
	assert.Equal(t, "Basic", *got.Title)
	assert.Equal(t, json.Number("100.00"), *got.Price)
	assert.Equal(t, []string{"Logo"}, got.Features)
}

func TestPresenter_Profile(t *testing.T) {
	p := NewPresenter("http://localhost:8000")

	t.Run("business", func(t *testing.T) {
		u := &entity.User{ID: 2, Username: "studio", Type: entity.UserTypeBusiness, Profile: &entity.BusinessProfile{
			Description: "We design", Phone: "123", WorkingHours: "9-17", ProfilePicture: "profiles/a.png",
		}}

		got := p.Profile(u)

		assert.Equal(t, "We design", got.Description)
		assert.Equal(t, "9-17", got.WorkingHours)
		assert.Equal(t, "123", got.Tel)
		require.NotNil(t, got.File)
		assert.Equal(t, "http://localhost:8000/media/profiles/a.png", *got.File)
	})

	t.Run("customer", func(t *testing.T) {
		u := &entity.User{ID: 4, Username: "buyer", Type: entity.UserTypeCustomer, Profile: &entity.CustomerProfile{Bio: "Hi"}}

		got := p.Profile(u)

		assert.Equal(t, "Hi", got.Description)
		assert.Empty(t, got.WorkingHours)
		assert.Nil(t, got.File)
		assert.Equal(t, "customer", got.Type)
	})
}

func TestPresenter_OfferPageAndAuth(t *testing.T) {
	p := NewPresenter("")

	page := p.OfferPage(&usecase.OfferPage{Count: 12, Results: []*entity.Offer{sampleOffer()}})
	assert.Equal(t, int64(12), page.Count)
	assert.Len(t, page.Results, 1)

	auth := p.Auth(&usecase.AuthOutput{Token: "t", User: &entity.User{ID: 9, Username: "u", Email: "u@example.com"}})
	assert.Equal(t, Auth{Token: "t", Username: "u", Email: "u@example.com", UserID: 9}, auth)
}

func TestPresenter_Review(t *testing.T) {
	p := NewPresenter("")
	orderID := int64(3)

	got := p.Review(&entity.Review{ID: 1, CustomerID: 4, BusinessID: 2, Rating: 5, OrderID: &orderID})

	assert.Equal(t, int64(2), got.BusinessUser)
	assert.Equal(t, int64(4), got.Reviewer)
	assert.Equal(t, &orderID, got.Order)
}
