// Package cache là port cho read-through cache của order detail.
// Production dùng Redis (internal/infrastructure/cache), test dùng map in-memory.
package cache

import (
	"context"
	"time"
)

// Cache lưu value dạng JSON theo key.
// Cache lỗi không được làm fail request: caller log rồi đọc DB.
type Cache interface {
	// Get trả found=false khi miss, dest giữ nguyên
	Get(ctx context.Context, key string, dest interface{}) (found bool, err error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Delete dùng để invalidate sau mỗi lần đổi status
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}
