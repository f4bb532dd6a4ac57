package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"flightassist-service/internal/domain/entity"
	"flightassist-service/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

const (
	redisContextItemPrefix = "ctx:item:"
	redisContextUserPrefix = "ctx:user:"
	redisContextUsersKey   = "ctx:users"
)

// RedisContextRepository keeps contexts as JSON items with a per-user sorted set of active ids.
// Deactivated items stay readable until they age out.
type RedisContextRepository struct {
	client    *redis.Client
	retention time.Duration
}

// NewRedisContextRepository creates a new Redis context repository.
// retention is how long an item is kept after it stops being live.
func NewRedisContextRepository(client *redis.Client, retention time.Duration) repository.ContextRepository {
	return &RedisContextRepository{
		client:    client,
		retention: retention,
	}
}

func redisItemKey(id string) string {
	return redisContextItemPrefix + id
}

func redisUserKey(userID int64) string {
	return redisContextUserPrefix + strconv.FormatInt(userID, 10)
}

// Insert stores the item and indexes it by creation time
func (r *RedisContextRepository) Insert(ctx context.Context, sc *entity.SearchContext) error {
	data, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("failed to encode context: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, redisItemKey(sc.ID), data, r.itemTTL(sc))
	if sc.Active {
		pipe.ZAdd(ctx, redisUserKey(sc.UserID), redis.Z{
			Score:  float64(sc.CreatedAt.UnixMilli()),
			Member: sc.ID,
		})
		pipe.SAdd(ctx, redisContextUsersKey, sc.UserID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert context: %w", err)
	}
	return nil
}

// DeactivateExpired deactivates a user's contexts whose expiry has passed
func (r *RedisContextRepository) DeactivateExpired(ctx context.Context, userID int64, now time.Time) (int64, error) {
	items, missing, err := r.activeItems(ctx, userID)
	if err != nil {
		return 0, err
	}

	var expired []*entity.SearchContext
	for _, sc := range items {
		if !sc.ExpiresAt.After(now) {
			expired = append(expired, sc)
		}
	}
	n, err := r.deactivate(ctx, userID, expired, missing)
	return n, err
}

// DeactivateBeyond keeps the newest keep active contexts and deactivates the older ones
func (r *RedisContextRepository) DeactivateBeyond(ctx context.Context, userID int64, keep int) (int64, error) {
	items, missing, err := r.activeItems(ctx, userID)
	if err != nil {
		return 0, err
	}
	if keep < 0 {
		keep = 0
	}
	if len(items) <= keep {
		return r.deactivate(ctx, userID, nil, missing)
	}
	return r.deactivate(ctx, userID, items[keep:], missing)
}

// FindLatestActive returns the newest live context of a user
func (r *RedisContextRepository) FindLatestActive(ctx context.Context, userID int64, now time.Time) (*entity.SearchContext, error) {
	items, _, err := r.activeItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, sc := range items {
		if sc.IsLive(now) {
			return sc, nil
		}
	}
	return nil, entity.ErrContextNotFound
}

// CountActive counts a user's live contexts
func (r *RedisContextRepository) CountActive(ctx context.Context, userID int64, now time.Time) (int64, error) {
	items, _, err := r.activeItems(ctx, userID)
	if err != nil {
		return 0, err
	}
	var count int64
	for _, sc := range items {
		if sc.IsLive(now) {
			count++
		}
	}
	return count, nil
}

// DeactivateAll deactivates every context of a user
func (r *RedisContextRepository) DeactivateAll(ctx context.Context, userID int64) (int64, error) {
	items, missing, err := r.activeItems(ctx, userID)
	if err != nil {
		return 0, err
	}
	return r.deactivate(ctx, userID, items, missing)
}

// SweepExpired deactivates expired contexts of all users
func (r *RedisContextRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	members, err := r.client.SMembers(ctx, redisContextUsersKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to list context users: %w", err)
	}

	var total int64
	for _, m := range members {
		userID, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		n, err := r.DeactivateExpired(ctx, userID, now)
		if err != nil {
			return total, err
		}
		total += n

		remaining, err := r.client.ZCard(ctx, redisUserKey(userID)).Result()
		if err == nil && remaining == 0 {
			r.client.SRem(ctx, redisContextUsersKey, m)
		}
	}
	return total, nil
}

// activeItems loads the indexed items newest first. Ids whose item key has vanished are returned separately.
func (r *RedisContextRepository) activeItems(ctx context.Context, userID int64) ([]*entity.SearchContext, []string, error) {
	ids, err := r.client.ZRevRange(ctx, redisUserKey(userID), 0, -1).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read context index: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, redisItemKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, nil, fmt.Errorf("failed to read contexts: %w", err)
	}

	var items []*entity.SearchContext
	var missing []string
	for i, cmd := range cmds {
		data, err := cmd.Bytes()
		if errors.Is(err, redis.Nil) {
			missing = append(missing, ids[i])
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		var sc entity.SearchContext
		if err := json.Unmarshal(data, &sc); err != nil {
			missing = append(missing, ids[i])
			continue
		}
		items = append(items, &sc)
	}
	return items, missing, nil
}

func (r *RedisContextRepository) deactivate(ctx context.Context, userID int64, items []*entity.SearchContext, missing []string) (int64, error) {
	if len(items) == 0 && len(missing) == 0 {
		return 0, nil
	}

	pipe := r.client.TxPipeline()
	for _, sc := range items {
		sc.Active = false
		data, err := json.Marshal(sc)
		if err != nil {
			return 0, fmt.Errorf("failed to encode context: %w", err)
		}
		pipe.Set(ctx, redisItemKey(sc.ID), data, redis.KeepTTL)
		pipe.ZRem(ctx, redisUserKey(userID), sc.ID)
	}
	for _, id := range missing {
		pipe.ZRem(ctx, redisUserKey(userID), id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to deactivate contexts: %w", err)
	}
	return int64(len(items) + len(missing)), nil
}

func (r *RedisContextRepository) itemTTL(sc *entity.SearchContext) time.Duration {
	ttl := time.Until(sc.ExpiresAt) + r.retention
	if ttl < time.Second {
		ttl = r.retention
	}
	return ttl
}
