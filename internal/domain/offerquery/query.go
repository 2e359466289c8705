// Package offerquery turns raw offer-list parameters into a validated query.
// Filters are strict: a malformed value is a ValidationError naming the field.
// Ordering is lenient: an unknown value falls back to the default.
package offerquery

import (
	"math"
	"strconv"
	"strings"

	domainerrors "coderr/internal/domain/errors"

	"github.com/shopspring/decimal"
)

// Ordering is a sort key for offer listings.
type Ordering string

const (
	OrderingUpdatedAtDesc Ordering = "-updated_at"
	OrderingUpdatedAtAsc  Ordering = "updated_at"
	OrderingMinPriceAsc   Ordering = "min_price"
	OrderingMinPriceDesc  Ordering = "-min_price"

	DefaultOrdering = OrderingUpdatedAtDesc
)

// Params are the untouched query-string values; empty means not supplied.
type Params struct {
	CreatorID       string
	MinPrice        string
	MaxDeliveryTime string
	Search          string
	Ordering        string
	Page            string
	PageSize        string
}

// Query is a validated offer listing request.
type Query struct {
	CreatorID       *int64
	MinPrice        *decimal.Decimal // Offer qualifies when any tier price >= MinPrice.
	MaxDeliveryTime *int             // Offer qualifies when any tier delivery time <= MaxDeliveryTime.
	Search          string           // Lowercased substring matched against title or description.
	Ordering        Ordering
	Page            int
	PageSize        int
}

// Offset returns the row offset for the requested page.
func (q Query) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Limits bounds pagination.
type Limits struct {
	DefaultPageSize int
	MaxPageSize     int
}

// Parse validates raw parameters.
func Parse(p Params, limits Limits) (Query, error) {
	q := Query{
		Ordering: ParseOrdering(p.Ordering),
		Search:   strings.ToLower(strings.TrimSpace(p.Search)),
		Page:     1,
		PageSize: limits.DefaultPageSize,
	}

	creatorID, err := ParseID("creator_id", p.CreatorID)
	if err != nil {
		return Query{}, err
	}
	q.CreatorID = creatorID

	if raw := unquote(p.MinPrice); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return Query{}, fieldError("min_price", "min_price must be a valid number.")
		}
		price := decimal.NewFromFloat(f)
		q.MinPrice = &price
	}

	if raw := unquote(p.MaxDeliveryTime); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return Query{}, fieldError("max_delivery_time", "max_delivery_time must be a valid integer.")
		}
		q.MaxDeliveryTime = &days
	}

	if raw := unquote(p.Page); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return Query{}, fieldError("page", "page must be a positive integer.")
		}
		q.Page = page
	}

	if raw := unquote(p.PageSize); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return Query{}, fieldError("page_size", "page_size must be a positive integer.")
		}
		q.PageSize = min(size, limits.MaxPageSize)
	}

	return q, nil
}

// ParseOrdering maps a raw ordering value, falling back to DefaultOrdering.
func ParseOrdering(raw string) Ordering {
	switch o := Ordering(strings.TrimSpace(raw)); o {
	case OrderingUpdatedAtDesc, OrderingUpdatedAtAsc, OrderingMinPriceAsc, OrderingMinPriceDesc:
		return o
	default:
		return DefaultOrdering
	}
}

// ParseID parses an optional integer id filter. An empty value yields nil.
func ParseID(field, raw string) (*int64, error) {
	raw = unquote(raw)
	if raw == "" {
		return nil, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fieldError(field, field+" must be a valid integer.")
	}

	return &id, nil
}

// unquote trims whitespace and one layer of surrounding quotes, so both
// ?creator_id=5 and ?creator_id="5" are accepted.
func unquote(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) >= 2 {
		if first, last := s[0], s[len(s)-1]; first == last && (first == '"' || first == '\'') {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}

	return s
}

func fieldError(field, message string) error {
	return domainerrors.ErrValidationFailed.WithField(field, message)
}
