package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"coderr/internal/domain/repository"
	mockRepo "coderr/internal/mocks/repository"

	"github.com/stretchr/testify/mock"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// txHarness hands every transaction callback a factory backed by mock repositories.
type txHarness struct {
	txManager *mockRepo.MockTransactionManager
	factory   *mockRepo.MockRepositoryFactory
	users     *mockRepo.MockUserRepository
	offers    *mockRepo.MockOfferRepository
	orders    *mockRepo.MockOrderRepository
	reviews   *mockRepo.MockReviewRepository
	stats     *mockRepo.MockStatsRepository
}

func newTxHarness(t *testing.T) *txHarness {
	h := &txHarness{
		txManager: mockRepo.NewMockTransactionManager(t),
		factory:   mockRepo.NewMockRepositoryFactory(t),
		users:     mockRepo.NewMockUserRepository(t),
		offers:    mockRepo.NewMockOfferRepository(t),
		orders:    mockRepo.NewMockOrderRepository(t),
		reviews:   mockRepo.NewMockReviewRepository(t),
		stats:     mockRepo.NewMockStatsRepository(t),
	}

	h.factory.EXPECT().UserRepo().Return(h.users).Maybe()
	h.factory.EXPECT().OfferRepo().Return(h.offers).Maybe()
	h.factory.EXPECT().OrderRepo().Return(h.orders).Maybe()
	h.factory.EXPECT().ReviewRepo().Return(h.reviews).Maybe()
	h.factory.EXPECT().StatsRepo().Return(h.stats).Maybe()

	return h
}

// onExecute expects one write transaction and runs its callback.
func (h *txHarness) onExecute(ctx context.Context) {
	h.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
			return fn(h.factory)
		}).
		Once()
}

// onQuery expects one read and runs its callback.
func (h *txHarness) onQuery(ctx context.Context) {
	h.txManager.EXPECT().
		Query(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
			return fn(h.factory)
		}).
		Once()
}

func ptr[T any](v T) *T {
	return &v
}
