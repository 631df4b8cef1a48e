package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

type mockPlayerRepo struct {
	mock.Mock
}

func newMockPlayerRepo(t *testing.T) *mockPlayerRepo {
	t.Helper()

	repo := &mockPlayerRepo{}
	repo.Test(t)
	t.Cleanup(func() { repo.AssertExpectations(t) })

	return repo
}

func (that *mockPlayerRepo) CreateOrUpdate(ctx context.Context, player *entity.Player) error {
	return that.Called(ctx, player).Error(0)
}

func (that *mockPlayerRepo) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	args := that.Called(ctx, id)
	player, _ := args.Get(0).(*entity.Player)

	return player, args.Error(1)
}

type mockGameRepo struct {
	mock.Mock
}

func newMockGameRepo(t *testing.T) *mockGameRepo {
	t.Helper()

	repo := &mockGameRepo{}
	repo.Test(t)
	t.Cleanup(func() { repo.AssertExpectations(t) })

	return repo
}

func (that *mockGameRepo) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	return that.Called(ctx, game).Error(0)
}

func (that *mockGameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)

	return game, args.Error(1)
}

func (that *mockGameRepo) DeleteByID(ctx context.Context, id string) error {
	return that.Called(ctx, id).Error(0)
}

type mockHistoryService struct {
	mock.Mock
}

func newMockHistoryService(t *testing.T) *mockHistoryService {
	t.Helper()

	historyService := &mockHistoryService{}
	historyService.Test(t)
	t.Cleanup(func() { historyService.AssertExpectations(t) })

	return historyService
}

func (that *mockHistoryService) Record(ctx context.Context, game *entity.Game) error {
	return that.Called(ctx, game).Error(0)
}

func (that *mockHistoryService) History(ctx context.Context, playerID string) ([]*entity.GameResult, error) {
	args := that.Called(ctx, playerID)
	results, _ := args.Get(0).([]*entity.GameResult)

	return results, args.Error(1)
}

func (that *mockHistoryService) Stats(ctx context.Context, playerID string) (*entity.Stats, error) {
	args := that.Called(ctx, playerID)
	stats, _ := args.Get(0).(*entity.Stats)

	return stats, args.Error(1)
}
