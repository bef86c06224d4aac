package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/1arunjyoti/resume-builder/internal/resume"
)

const (
	snapshotKey = "store:current_resume"
	snapshotTTL = 7 * 24 * time.Hour
)

var ErrNoSnapshot = errors.New("no store snapshot")

// SnapshotCache 把当前正在编辑的简历镜像到 Redis，用于下次会话快速恢复。
// 它只是加速层：丢失无害，数据库才是跨会话的事实来源。
type SnapshotCache struct {
	client *redis.Client
}

func NewSnapshotCache(client *redis.Client) *SnapshotCache {
	return &SnapshotCache{client: client}
}

// Put 覆盖快照。
func (c *SnapshotCache) Put(ctx context.Context, doc resume.Resume) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := c.client.Set(ctx, snapshotKey, data, snapshotTTL).Err(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Get 读取快照；键不存在返回 ErrNoSnapshot。
func (c *SnapshotCache) Get(ctx context.Context) (resume.Resume, error) {
	data, err := c.client.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return resume.Resume{}, ErrNoSnapshot
		}
		return resume.Resume{}, fmt.Errorf("read snapshot: %w", err)
	}
	var doc resume.Resume
	if err := json.Unmarshal(data, &doc); err != nil {
		// 损坏的快照按不存在处理，让调用方回落到数据库。
		return resume.Resume{}, ErrNoSnapshot
	}
	return doc, nil
}

// Drop 删除快照（删除当前简历后调用）。
func (c *SnapshotCache) Drop(ctx context.Context) error {
	if err := c.client.Del(ctx, snapshotKey).Err(); err != nil {
		return fmt.Errorf("drop snapshot: %w", err)
	}
	return nil
}
