// Package view projects domain entities into the JSON shapes served to clients.
package view

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"coderr/internal/domain/entity"
	"coderr/internal/usecase"

	"github.com/shopspring/decimal"
)

// Presenter builds views. Links are absolute when BaseURL is set.
type Presenter struct {
	BaseURL string
}

// NewPresenter trims any trailing slash from baseURL.
func NewPresenter(baseURL string) *Presenter {
	return &Presenter{BaseURL: strings.TrimRight(baseURL, "/")}
}

// OfferDetailURL links to a single tier resource.
func (p *Presenter) OfferDetailURL(id int64) string {
	return p.BaseURL + "/api/offerdetails/" + strconv.FormatInt(id, 10) + "/"
}

// MediaURL links to a stored image, nil when path is empty.
func (p *Presenter) MediaURL(path string) *string {
	if path == "" {
		return nil
	}
	url := p.BaseURL + "/media/" + strings.TrimLeft(path, "/")

	return &url
}

// Money renders a price with exactly two decimals as a JSON number.
func Money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

// --- Auth ---

type Auth struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
	UserID   int64  `json:"user_id"`
}

func (p *Presenter) Auth(out *usecase.AuthOutput) Auth {
	return Auth{
		Token:    out.Token,
		Username: out.User.Username,
		Email:    out.User.Email,
		UserID:   out.User.ID,
	}
}

// --- Profiles ---

// Profile flattens a user and its profile variant. For customers,
// description is the bio and working_hours is always empty.
type Profile struct {
	User         int64     `json:"user"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	File         *string   `json:"file"`
	Location     string    `json:"location"`
	Tel          string    `json:"tel"`
	Description  string    `json:"description"`
	WorkingHours string    `json:"working_hours"`
	Type         string    `json:"type"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
}

func (p *Presenter) Profile(u *entity.User) Profile {
	out := Profile{
		User:      u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Type:      u.Type.String(),
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}

	switch prof := u.Profile.(type) {
	case *entity.BusinessProfile:
		out.File = p.MediaURL(prof.ProfilePicture)
		out.Location = prof.Location
		out.Tel = prof.Phone
		out.Description = prof.Description
		out.WorkingHours = prof.WorkingHours
	case *entity.CustomerProfile:
		out.File = p.MediaURL(prof.ProfilePicture)
		out.Location = prof.Location
		out.Tel = prof.Phone
		out.Description = prof.Bio
	}

	return out
}

func (p *Presenter) Profiles(users []*entity.User) []Profile {
	out := make([]Profile, 0, len(users))
	for _, u := range users {
		out = append(out, p.Profile(u))
	}

	return out
}

// --- Platform ---

type Summary struct {
	ReviewCount          int64   `json:"review_count"`
	AverageRating        float64 `json:"average_rating"`
	BusinessProfileCount int64   `json:"business_profile_count"`
	OfferCount           int64   `json:"offer_count"`
}

func (p *Presenter) Summary(s *entity.PlatformSummary) Summary {
	return Summary{
		ReviewCount:          s.ReviewCount,
		AverageRating:        s.AverageRating,
		BusinessProfileCount: s.BusinessProfileCount,
		OfferCount:           s.OfferCount,
	}
}
