package service

import (
	"context"
	"time"
)

// TokenBlacklist 登出 token 黑名单（由 pkg/redis.Client 实现）
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// SlotCache 槽位查询缓存（由 pkg/redis.Client 实现）
// 槽位数据是咨询性的，短暂过期可以接受
type SlotCache interface {
	CacheSlots(ctx context.Context, key string, slots interface{}, ttl time.Duration) error
	GetCachedSlots(ctx context.Context, key string, dest interface{}) (bool, error)
	InvalidateSlots(ctx context.Context, roomID string) error
}
