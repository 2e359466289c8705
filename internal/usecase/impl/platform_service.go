package impl

import (
	"context"
	"log/slog"

	deliverycontext "coderr/internal/delivery/context"
	"coderr/internal/domain/entity"
	"coderr/internal/domain/repository"
	"coderr/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type platformService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// PlatformServiceParams holds dependencies for PlatformService, injected by Fx.
type PlatformServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Logger    *slog.Logger
}

// NewPlatformService is the constructor for platformService.
func NewPlatformService(params PlatformServiceParams) usecase.PlatformUsecase {
	return &platformService{
		txManager: params.TxManager,
		logger:    params.Logger,
	}
}

// Summary returns the public counters in one aggregate read.
func (srv *platformService) Summary(ctx context.Context) (*entity.PlatformSummary, error) {
	deliverycontext.GetLoggerOrDefault(ctx, srv.logger).Debug("Computing platform summary")

	var summary *entity.PlatformSummary
	err := srv.txManager.Query(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.StatsRepo().PlatformSummary(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to aggregate platform statistics")
		}
		summary = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get platform summary")
	}

	return summary, nil
}
