package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

type HistoryRepository interface {
	Append(ctx context.Context, playerID string, result *entity.GameResult) error
	List(ctx context.Context, playerID string) ([]*entity.GameResult, error)
}

// dbHistory keeps the results of a player newest first, capped at limit.
type dbHistory struct {
	client *redis.Client
	limit  int64
}

func NewHistoryRepository(client *redis.Client, limit int64) HistoryRepository {
	return &dbHistory{
		client: client,
		limit:  limit,
	}
}

func historyKey(playerID string) string {
	return "history:" + playerID
}

func (that *dbHistory) Append(ctx context.Context, playerID string, result *entity.GameResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal game result: %w", err)
	}

	key := historyKey(playerID)

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, resultJSON)
		if that.limit > 0 {
			pipe.LTrim(ctx, key, 0, that.limit-1)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append game result: %w", err)
	}

	return nil
}

func (that *dbHistory) List(ctx context.Context, playerID string) ([]*entity.GameResult, error) {
	response, err := that.client.LRange(ctx, historyKey(playerID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	results := make([]*entity.GameResult, 0, len(response))
	for _, item := range response {
		var result entity.GameResult
		if err = json.Unmarshal([]byte(item), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal game result: %w", err)
		}

		results = append(results, &result)
	}

	return results, nil
}
