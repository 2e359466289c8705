package view

import (
	"encoding/json"
	"time"

	"coderr/internal/domain/entity"
	"coderr/internal/usecase"
)

type OfferDetailLink struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

type OfferDetail struct {
	ID                 int64       `json:"id"`
	Title              string      `json:"title"`
	Revisions          int         `json:"revisions"`
	DeliveryTimeInDays int         `json:"delivery_time_in_days"`
	Price              json.Number `json:"price"`
	Features           []string    `json:"features"`
	OfferType          string      `json:"offer_type"`
}

type UserDetails struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

// offerBase holds the fields shared by list and single-offer views.
type offerBase struct {
	ID              int64        `json:"id"`
	User            int64        `json:"user"`
	Title           string       `json:"title"`
	Image           *string      `json:"image"`
	Description     string       `json:"description"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
	MinPrice        *json.Number `json:"min_price"`
	MinDeliveryTime *int         `json:"min_delivery_time"`
	UserDetails     *UserDetails `json:"user_details,omitempty"`
}

// OfferSummary links to its tiers instead of embedding them.
type OfferSummary struct {
	offerBase
	Details []OfferDetailLink `json:"details"`
}

// Offer embeds its full tiers.
type Offer struct {
	offerBase
	Details []OfferDetail `json:"details"`
}

type OfferPage struct {
	Count   int64          `json:"count"`
	Results []OfferSummary `json:"results"`
}

func (p *Presenter) offerBase(o *entity.Offer) offerBase {
	base := offerBase{
		ID:              o.ID,
		User:            o.CreatorID,
		Title:           o.Title,
		Image:           p.MediaURL(o.Image),
		Description:     o.Description,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		MinDeliveryTime: o.MinDeliveryTime,
	}
	if o.MinPrice != nil {
		price := Money(*o.MinPrice)
		base.MinPrice = &price
	}
	if o.Creator != nil {
		base.UserDetails = &UserDetails{
			FirstName: o.Creator.FirstName,
			LastName:  o.Creator.LastName,
			Username:  o.Creator.Username,
		}
	}

	return base
}

func (p *Presenter) OfferSummary(o *entity.Offer) OfferSummary {
	links := make([]OfferDetailLink, 0, len(o.Details))
	for _, d := range o.Details {
		links = append(links, OfferDetailLink{ID: d.ID, URL: p.OfferDetailURL(d.ID)})
	}

	return OfferSummary{offerBase: p.offerBase(o), Details: links}
}

func (p *Presenter) Offer(o *entity.Offer) Offer {
	details := make([]OfferDetail, 0, len(o.Details))
	for _, d := range o.Details {
		details = append(details, p.OfferDetail(d))
	}

	return Offer{offerBase: p.offerBase(o), Details: details}
}

func (p *Presenter) OfferDetail(d *entity.OfferDetail) OfferDetail {
	features := d.Features
	if features == nil {
		features = []string{}
	}

	return OfferDetail{
		ID:                 d.ID,
		Title:              d.Title,
		Revisions:          d.Revisions,
		DeliveryTimeInDays: d.DeliveryTimeInDays,
		Price:              Money(d.Price),
		Features:           features,
		OfferType:          d.OfferType.String(),
	}
}

func (p *Presenter) OfferPage(page *usecase.OfferPage) OfferPage {
	results := make([]OfferSummary, 0, len(page.Results))
	for _, o := range page.Results {
		results = append(results, p.OfferSummary(o))
	}

	return OfferPage{Count: page.Count, Results: results}
}
