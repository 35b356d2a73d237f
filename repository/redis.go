// redis.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"go-duel/entities"
	"go-duel/utils"
)

var ErrNotFound = errors.New("duel info not found")

// NewRedis 连接 Redis 并 Ping 一次
func NewRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis 连接失败 %s: %w", addr, err)
	}
	return rdb, nil
}

const duelIDsKey = "duel:ids"

func duelInfoKey(duelID string) string {
	return fmt.Sprintf("duel:%s:info", duelID)
}

// DuelStore 对局目录。每次保存刷新 TTL，长时间不活跃的记录由 Redis 自行过期
type DuelStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDuelStore(rdb *redis.Client, ttl time.Duration) *DuelStore {
	return &DuelStore{rdb: rdb, ttl: ttl}
}

// SaveDuel 整体写入对局信息
func (s *DuelStore) SaveDuel(ctx context.Context, info entities.DuelInfo) error {
	key := duelInfoKey(info.DuelID)
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"duelId":    info.DuelID,
		"userId":    info.UserID,
		"phase":     info.Phase,
		"round":     info.Round,
		"wins":      info.Wins,
		"losses":    info.Losses,
		"updatedAt": info.UpdatedAt,
	})
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	pipe.SAdd(ctx, duelIDsKey, info.DuelID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("写入对局[%s]失败: %w", info.DuelID, err)
	}
	return nil
}

// GetDuel 读取对局信息，不存在返回 ErrNotFound
func (s *DuelStore) GetDuel(ctx context.Context, duelID string) (entities.DuelInfo, error) {
	data, err := s.rdb.HGetAll(ctx, duelInfoKey(duelID)).Result()
	if err != nil {
		return entities.DuelInfo{}, fmt.Errorf("获取对局[%s]失败: %w", duelID, err)
	}
	if len(data) == 0 {
		return entities.DuelInfo{}, ErrNotFound
	}
	var info entities.DuelInfo
	if err := utils.Decode(data, &info); err != nil {
		return entities.DuelInfo{}, fmt.Errorf("对局[%s]数据解析失败: %w", duelID, err)
	}
	return info, nil
}

// ListDuels 列出全部对局，顺手清理已过期的 id
func (s *DuelStore) ListDuels(ctx context.Context) ([]entities.DuelInfo, error) {
	ids, err := s.rdb.SMembers(ctx, duelIDsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("获取对局ID失败: %w", err)
	}
	duels := make([]entities.DuelInfo, 0, len(ids))
	for _, id := range ids {
		info, err := s.GetDuel(ctx, id)
		if errors.Is(err, ErrNotFound) {
			s.rdb.SRem(ctx, duelIDsKey, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		duels = append(duels, info)
	}
	return duels, nil
}

// DeleteDuel 删除对局信息
func (s *DuelStore) DeleteDuel(ctx context.Context, duelID string) error {
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, duelInfoKey(duelID))
	pipe.SRem(ctx, duelIDsKey, duelID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("删除对局[%s]失败: %w", duelID, err)
	}
	return nil
}
