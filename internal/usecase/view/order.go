package view

import (
	"encoding/json"
	"time"

	"coderr/internal/domain/entity"
)

// Order renders every tier-sourced field as null once the tier is gone.
type Order struct {
	ID                 int64        `json:"id"`
	CustomerUser       int64        `json:"customer_user"`
	BusinessUser       *int64       `json:"business_user"`
	Title              *string      `json:"title"`
	Revisions          *int         `json:"revisions"`
	DeliveryTimeInDays *int         `json:"delivery_time_in_days"`
	Price              *json.Number `json:"price"`
	Features           []string     `json:"features"`
	OfferType          *string      `json:"offer_type"`
	Status             string       `json:"status"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
	CompletedAt        *time.Time   `json:"completed_at"`
}

type OrderCount struct {
	OrderCount int64 `json:"order_count"`
}

type CompletedOrderCount struct {
	CompletedOrderCount int64 `json:"completed_order_count"`
}

func (p *Presenter) Order(o *entity.Order) Order {
	out := Order{
		ID:           o.ID,
		CustomerUser: o.CustomerID,
		Status:       o.Status.String(),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
		CompletedAt:  o.CompletedAt,
	}
	if partnerID, ok := o.BusinessPartnerID(); ok {
		out.BusinessUser = &partnerID
	}

	if d := o.OfferDetail; d != nil && o.OfferDetailID != nil {
		price := Money(d.Price)
		offerType := d.OfferType.String()
		out.Title = &d.Title
		out.Revisions = &d.Revisions
		out.DeliveryTimeInDays = &d.DeliveryTimeInDays
		out.Price = &price
		out.OfferType = &offerType
		out.Features = d.Features
		if out.Features == nil {
			out.Features = []string{}
		}
	}

	return out
}

func (p *Presenter) Orders(orders []*entity.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, p.Order(o))
	}

	return out
}
