package postgres

import (
	"context"
	"database/sql"
	"math"

	"coderr/internal/domain/entity"
	"coderr/internal/domain/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const platformSummaryQuery = `SELECT
	(SELECT COUNT(*) FROM reviews) AS review_count,
	(SELECT CAST(AVG(rating) AS DOUBLE PRECISION) FROM reviews) AS average_rating,
	(SELECT COUNT(*) FROM business_profiles) AS business_profile_count,
	(SELECT COUNT(*) FROM offers) AS offer_count`

type platformSummaryRow struct {
	ReviewCount          int64
	AverageRating        sql.NullFloat64
	BusinessProfileCount int64
	OfferCount           int64
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a statistics repository bound to db.
func NewStatsRepository(db *gorm.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

// PlatformSummary reads every counter in one statement so they describe the same snapshot.
func (repo *statsRepository) PlatformSummary(ctx context.Context) (*entity.PlatformSummary, error) {
	var row platformSummaryRow
	if err := repo.db.WithContext(ctx).Raw(platformSummaryQuery).Scan(&row).Error; err != nil {
		return nil, errors.Wrap(err, "failed to compute platform summary")
	}

	summary := &entity.PlatformSummary{
		ReviewCount:          row.ReviewCount,
		BusinessProfileCount: row.BusinessProfileCount,
		OfferCount:           row.OfferCount,
	}
	if row.AverageRating.Valid {
		summary.AverageRating = math.Round(row.AverageRating.Float64*10) / 10
	}

	return summary, nil
}
