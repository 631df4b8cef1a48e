package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

type HistoryService interface {
	Record(ctx context.Context, game *entity.Game) error
	History(ctx context.Context, playerID string) ([]*entity.GameResult, error)
	Stats(ctx context.Context, playerID string) (*entity.Stats, error)
}

type historyRepo interface {
	Append(ctx context.Context, playerID string, result *entity.GameResult) error
	List(ctx context.Context, playerID string) ([]*entity.GameResult, error)
}

type historyService struct {
	historyRepo historyRepo
	now         func() time.Time
}

func NewHistoryService(historyRepo historyRepo) HistoryService {
	return &historyService{
		historyRepo: historyRepo,
		now:         time.Now,
	}
}

// Record - stores the result of a finished game for each human player.
func (that *historyService) Record(ctx context.Context, game *entity.Game) error {
	playedAt := that.now().UTC()

	for _, player := range game.Humans() {
		result := entity.NewGameResult(game, player, playedAt)

		if err := that.historyRepo.Append(ctx, player.ID, result); err != nil {
			return fmt.Errorf("failed to record result of %s: %w", player.ID, err)
		}
	}

	return nil
}

func (that *historyService) History(ctx context.Context, playerID string) ([]*entity.GameResult, error) {
	results, err := that.historyRepo.List(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	return results, nil
}

// Stats - totals over the results still kept in the history.
func (that *historyService) Stats(ctx context.Context, playerID string) (*entity.Stats, error) {
	results, err := that.History(ctx, playerID)
	if err != nil {
		return nil, err
	}

	stats := &entity.Stats{}
	for _, result := range results {
		stats.Add(result)
	}

	return stats, nil
}
