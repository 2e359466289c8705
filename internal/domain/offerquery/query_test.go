package offerquery

import (
	"testing"

	domainerrors "coderr/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLimits = Limits{DefaultPageSize: 6, MaxPageSize: 50}

func TestParse_Defaults(t *testing.T) {
	q, err := Parse(Params{}, testLimits)

	require.NoError(t, err)
	assert.Nil(t, q.CreatorID)
	assert.Nil(t, q.MinPrice)
	assert.Nil(t, q.MaxDeliveryTime)
	assert.Equal(t, DefaultOrdering, q.Ordering)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 6, q.PageSize)
	assert.Equal(t, 0, q.Offset())
}

func TestParse_Filters(t *testing.T) {
	q, err := Parse(Params{
		CreatorID:       ` "12" `,
		MinPrice:        "49.5",
		MaxDeliveryTime: "'7'",
		Search:          "  Logo ",
		Ordering:        "-min_price",
		Page:            "3",
		PageSize:        "500",
	}, testLimits)

	require.NoError(t, err)
	require.NotNil(t, q.CreatorID)
	assert.Equal(t, int64(12), *q.CreatorID)
	require.NotNil(t, q.MinPrice)
	assert.True(t, decimal.RequireFromString("49.5").Equal(*q.MinPrice))
	require.NotNil(t, q.MaxDeliveryTime)
	assert.Equal(t, 7, *q.MaxDeliveryTime)
	assert.Equal(t, "logo", q.Search)
	assert.Equal(t, OrderingMinPriceDesc, q.Ordering)
	assert.Equal(t, 50, q.PageSize, "page size is capped")
	assert.Equal(t, 100, q.Offset())
}

func TestParse_InvalidFiltersAreLoud(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		field  string
	}{
		{name: "creator not integer", params: Params{CreatorID: "abc"}, field: "creator_id"},
		{name: "creator float", params: Params{CreatorID: "1.5"}, field: "creator_id"},
		{name: "min price text", params: Params{MinPrice: "cheap"}, field: "min_price"},
		{name: "min price NaN", params: Params{MinPrice: "NaN"}, field: "min_price"},
		{name: "delivery float", params: Params{MaxDeliveryTime: "2.5"}, field: "max_delivery_time"},
		{name: "page zero", params: Params{Page: "0"}, field: "page"},
		{name: "page size text", params: Params{PageSize: "many"}, field: "page_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.params, testLimits)

			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
			appErr, ok := domainerrors.AsAppError(err)
			require.True(t, ok)
			assert.Contains(t, appErr.Details(), tt.field)
		})
	}
}

func TestParse_BlankAfterUnquoteMeansNoFilter(t *testing.T) {
	q, err := Parse(Params{CreatorID: `""`, MinPrice: "  "}, testLimits)

	require.NoError(t, err)
	assert.Nil(t, q.CreatorID)
	assert.Nil(t, q.MinPrice)
}

func TestParseOrdering_FallsBackSilently(t *testing.T) {
	assert.Equal(t, OrderingMinPriceAsc, ParseOrdering("min_price"))
	assert.Equal(t, OrderingUpdatedAtAsc, ParseOrdering(" updated_at "))
	assert.Equal(t, DefaultOrdering, ParseOrdering("title"))
	assert.Equal(t, DefaultOrdering, ParseOrdering(""))
}
