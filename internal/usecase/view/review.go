package view

import (
	"time"

	"coderr/internal/domain/entity"
)

type Review struct {
	ID           int64     `json:"id"`
	BusinessUser int64     `json:"business_user"`
	Reviewer     int64     `json:"reviewer"`
	Rating       int       `json:"rating"`
	Description  string    `json:"description"`
	Order        *int64    `json:"order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (p *Presenter) Review(r *entity.Review) Review {
	return Review{
		ID:           r.ID,
		BusinessUser: r.BusinessID,
		Reviewer:     r.CustomerID,
		Rating:       r.Rating,
		Description:  r.Description,
		Order:        r.OrderID,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (p *Presenter) Reviews(reviews []*entity.Review) []Review {
	out := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, p.Review(r))
	}

	return out
}
