package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/prasetia/lending-engine/internal/domain"
)

const delinquencySnapshotKey = "lending:delinquency:latest"

type snapshotCache struct {
	client *redis.Client
}

func NewSnapshotCache(client *redis.Client) SnapshotCache {
	return &snapshotCache{client: client}
}

func (c *snapshotCache) SetDelinquencySnapshot(ctx context.Context, snapshot *domain.DelinquencySnapshot, ttl time.Duration) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, delinquencySnapshotKey, payload, ttl).Err()
}

func (c *snapshotCache) GetDelinquencySnapshot(ctx context.Context) (*domain.DelinquencySnapshot, error) {
	payload, err := c.client.Get(ctx, delinquencySnapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var snapshot domain.DelinquencySnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
