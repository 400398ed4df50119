package quota

import (
	"context"
	"sync"
	"time"
)

// Store 计数存储接口
// 用量计数的存取全部通过该接口,便于在测试中使用内存实现、生产中使用 Redis
type Store interface {
	// IncrBy 增加计数并返回新值,键不存在时以 ttl 创建
	IncrBy(ctx context.Context, key string, n int64, ttl time.Duration) (int64, error)
	// Get 获取计数,键不存在或已过期时返回 0
	Get(ctx context.Context, key string) (int64, error)
	// Del 删除计数
	Del(ctx context.Context, key string) error
}

// sweepInterval 过期清理的最小间隔
const sweepInterval = time.Hour

type entry struct {
	value     int64
	expiresAt time.Time
}

// MemoryStore 进程内计数存储
// 写入时最多每小时触发一次全量清理,读取时对过期键做惰性回收
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]entry
	lastSweep time.Time

	now func() time.Time // 测试中可替换
}

// NewMemoryStore 创建内存计数存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:   make(map[string]entry),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// IncrBy 增加计数
func (s *MemoryStore) IncrBy(_ context.Context, key string, n int64, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.entries[key]
	if !ok || now.After(e.expiresAt) {
		e = entry{expiresAt: now.Add(ttl)}
	}
	e.value += n
	s.entries[key] = e

	s.sweepLocked(now)
	return e.value, nil
}

// Get 获取计数
func (s *MemoryStore) Get(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return 0, nil
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, key)
		return 0, nil
	}
	return e.value, nil
}

// Del 删除计数
func (s *MemoryStore) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// sweepLocked 清理过期键,调用方需持有锁
func (s *MemoryStore) sweepLocked(now time.Time) {
	if now.Sub(s.lastSweep) < sweepInterval {
		return
	}
	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
		}
	}
	s.lastSweep = now
}
