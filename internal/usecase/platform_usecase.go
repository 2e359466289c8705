package usecase

import (
	"context"

	"coderr/internal/domain/entity"
)

// PlatformUsecase serves public platform statistics.
type PlatformUsecase interface {
	Summary(ctx context.Context) (*entity.PlatformSummary, error)
}
