package offertier

import (
	"encoding/json"
	"testing"

	"coderr/internal/domain/entity"
	domainerrors "coderr/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func tier(offerType string, price int) Input {
	return Input{
		OfferType:          offerType,
		Title:              strPtr("Tier " + offerType),
		Price:              Int(price),
		DeliveryTimeInDays: Int(5),
		Revisions:          Int(2),
		Features:           &[]string{"Logo Design", " Visitenkarte "},
	}
}

func assertFieldError(t *testing.T, err error, kind *domainerrors.BaseError, field string) {
	t.Helper()

	require.Error(t, err)
	assert.True(t, errors.Is(err, kind), "unexpected error kind: %v", err)

	appErr, ok := domainerrors.AsAppError(err)
	require.True(t, ok)
	details, ok := appErr.Details().(domainerrors.FieldErrors)
	require.True(t, ok)
	assert.Contains(t, details, field)
}

func TestValidateSet(t *testing.T) {
	tests := []struct {
		name   string
		inputs []Input
		valid  bool
	}{
		{name: "exact triple", inputs: []Input{tier("basic", 1), tier("standard", 2), tier("premium", 3)}, valid: true},
		{name: "order does not matter", inputs: []Input{tier("premium", 1), tier("basic", 2), tier("standard", 3)}, valid: true},
		{name: "two tiers", inputs: []Input{tier("basic", 1), tier("premium", 3)}},
		{name: "four tiers", inputs: []Input{tier("basic", 1), tier("standard", 2), tier("premium", 3), tier("basic", 4)}},
		{name: "duplicate basic", inputs: []Input{tier("basic", 1), tier("basic", 2), tier("premium", 3)}},
		{name: "unknown type", inputs: []Input{tier("basic", 1), tier("standard", 2), tier("gold", 3)}},
		{name: "empty", inputs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSet(tt.inputs)
			if tt.valid {
				assert.NoError(t, err)

				return
			}
			assertFieldError(t, err, domainerrors.ErrValidationFailed, FieldDetails)
		})
	}
}

func TestBuild_Success(t *testing.T) {
	detail, err := Build(Input{
		OfferType:          "standard",
		Title:              strPtr(" Standard "),
		Price:              Raw("149.90"),
		DeliveryTimeInDays: Int(7),
		Revisions:          Int(-1),
		Features:           &[]string{"A", "", " B "},
	})

	require.NoError(t, err)
	assert.Equal(t, entity.OfferTypeStandard, detail.OfferType)
	assert.Equal(t, "Standard", detail.Title)
	assert.True(t, decimal.RequireFromString("149.9").Equal(detail.Price))
	assert.Equal(t, 7, detail.DeliveryTimeInDays)
	assert.Equal(t, entity.UnlimitedRevisions, detail.Revisions)
	assert.Equal(t, []string{"A", "B"}, detail.Features)
}

func TestBuild_NullAndAbsentNumericsBecomeZero(t *testing.T) {
	detail, err := Build(Input{
		OfferType:          "basic",
		Title:              strPtr("Basic"),
		Price:              Null(),
		DeliveryTimeInDays: Null(),
	})

	require.NoError(t, err)
	assert.True(t, detail.Price.IsZero())
	assert.Zero(t, detail.DeliveryTimeInDays)
	assert.Zero(t, detail.Revisions)
	assert.Equal(t, []string{}, detail.Features)
}

func TestBuild_RejectsStringNumbers(t *testing.T) {
	tests := []struct {
		name  string
		patch func(in *Input)
		field string
	}{
		{name: "price", patch: func(in *Input) { in.Price = Raw(`"10"`) }, field: FieldPrice},
		{name: "delivery", patch: func(in *Input) { in.DeliveryTimeInDays = Raw(`"3"`) }, field: FieldDeliveryTimeInDays},
		{name: "revisions", patch: func(in *Input) { in.Revisions = Raw(`"1"`) }, field: FieldRevisions},
		{name: "boolean price", patch: func(in *Input) { in.Price = Raw(`true`) }, field: FieldPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tier("basic", 10)
			tt.patch(&in)

			_, err := Build(in)
			assertFieldError(t, err, domainerrors.ErrTypeValidation, tt.field)
		})
	}
}

func TestBuild_TypeErrorWinsOverRangeError(t *testing.T) {
	in := tier("basic", -5)
	in.Revisions = Raw(`"2"`)

	_, err := Build(in)
	assertFieldError(t, err, domainerrors.ErrTypeValidation, FieldRevisions)
}

func TestBuild_RangeErrors(t *testing.T) {
	tests := []struct {
		name  string
		patch func(in *Input)
		field string
	}{
		{name: "negative price", patch: func(in *Input) { in.Price = Int(-1) }, field: FieldPrice},
		{name: "three decimals", patch: func(in *Input) { in.Price = Raw("1.005") }, field: FieldPrice},
		{name: "too large", patch: func(in *Input) { in.Price = Raw("100000000") }, field: FieldPrice},
		{name: "negative delivery", patch: func(in *Input) { in.DeliveryTimeInDays = Int(-1) }, field: FieldDeliveryTimeInDays},
		{name: "fractional delivery", patch: func(in *Input) { in.DeliveryTimeInDays = Raw("2.5") }, field: FieldDeliveryTimeInDays},
		{name: "revisions below -1", patch: func(in *Input) { in.Revisions = Int(-2) }, field: FieldRevisions},
		{name: "invalid type", patch: func(in *Input) { in.OfferType = "gold" }, field: FieldOfferType},
		{name: "blank title", patch: func(in *Input) { in.Title = strPtr("  ") }, field: FieldTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tier("basic", 10)
			tt.patch(&in)

			_, err := Build(in)
			assertFieldError(t, err, domainerrors.ErrValidationFailed, tt.field)
		})
	}
}

func TestBuild_IntegersBeyondColumnRange(t *testing.T) {
	values := []string{
		"2147483648",           // 2^31
		"9223372036854775808",  // 2^63
		"18446744073709551615", // 2^64-1
		"18446744073709551616", // 2^64
	}

	for _, v := range values {
		t.Run("delivery "+v, func(t *testing.T) {
			in := tier("basic", 10)
			in.DeliveryTimeInDays = Raw(v)

			_, err := Build(in)
			assertFieldError(t, err, domainerrors.ErrValidationFailed, FieldDeliveryTimeInDays)
		})
		t.Run("revisions "+v, func(t *testing.T) {
			in := tier("basic", 10)
			in.Revisions = Raw(v)

			_, err := Build(in)
			assertFieldError(t, err, domainerrors.ErrValidationFailed, FieldRevisions)
		})
	}

	t.Run("large negative revisions", func(t *testing.T) {
		in := tier("basic", 10)
		in.Revisions = Raw("-18446744073709551617")

		_, err := Build(in)
		assertFieldError(t, err, domainerrors.ErrValidationFailed, FieldRevisions)
	})
}

func TestBuild_AcceptsColumnMaximum(t *testing.T) {
	in := tier("basic", 10)
	in.DeliveryTimeInDays = Raw("2147483647")
	in.Revisions = Raw("2147483647")

	detail, err := Build(in)
	require.NoError(t, err)
	assert.Equal(t, 2147483647, detail.DeliveryTimeInDays)
	assert.Equal(t, 2147483647, detail.Revisions)
}

func TestApply_RejectsWrappingIntegers(t *testing.T) {
	detail, err := Build(tier("basic", 10))
	require.NoError(t, err)

	err = Apply(detail, Input{OfferType: "basic", DeliveryTimeInDays: Raw("18446744073709551616")})
	assertFieldError(t, err, domainerrors.ErrValidationFailed, FieldDeliveryTimeInDays)
	assert.Equal(t, 5, detail.DeliveryTimeInDays)
}

func TestApply_PartialUpdate(t *testing.T) {
	detail := &entity.OfferDetail{
		OfferType:          entity.OfferTypePremium,
		Title:              "Premium",
		Price:              decimal.NewFromInt(300),
		DeliveryTimeInDays: 10,
		Revisions:          5,
		Features:           []string{"All"},
	}

	err := Apply(detail, Input{OfferType: "premium", Price: Int(20), Revisions: Null()})

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(20).Equal(detail.Price))
	assert.Equal(t, 0, detail.Revisions, "explicit null normalizes to 0")
	assert.Equal(t, 10, detail.DeliveryTimeInDays, "absent fields stay unchanged")
	assert.Equal(t, "Premium", detail.Title)
	assert.Equal(t, []string{"All"}, detail.Features)
}

func TestApply_FailureLeavesDetailUntouched(t *testing.T) {
	detail := &entity.OfferDetail{OfferType: entity.OfferTypeBasic, Title: "Basic", Price: decimal.NewFromInt(50)}

	err := Apply(detail, Input{Title: strPtr("New"), Price: Raw(`"60"`)})

	assertFieldError(t, err, domainerrors.ErrTypeValidation, FieldPrice)
	assert.Equal(t, "Basic", detail.Title)
	assert.True(t, decimal.NewFromInt(50).Equal(detail.Price))
}

func TestApply_RejectsTypeChange(t *testing.T) {
	detail := &entity.OfferDetail{OfferType: entity.OfferTypeBasic}

	err := Apply(detail, Input{OfferType: "premium"})

	assertFieldError(t, err, domainerrors.ErrValidationFailed, FieldOfferType)
}

func TestIsComplete(t *testing.T) {
	assert.True(t, IsComplete(tier("basic", 1)))

	partial := tier("basic", 1)
	partial.Revisions = Number{}
	assert.False(t, IsComplete(partial))

	noType := tier("", 1)
	assert.False(t, IsComplete(noType))
}

func TestNumber_UnmarshalDistinguishesAbsentNullAndString(t *testing.T) {
	var in Input
	require.NoError(t, json.Unmarshal([]byte(`{"offer_type":"basic","price":null,"revisions":"3"}`), &in))

	assert.True(t, in.Price.Present())
	assert.True(t, in.Price.IsNull())
	assert.False(t, in.DeliveryTimeInDays.Present())
	assert.True(t, in.Revisions.Present())

	normalized := NormalizeNumerics(in)
	assert.False(t, normalized.Price.IsNull())
	assert.True(t, in.Price.IsNull(), "input is not mutated")
}
