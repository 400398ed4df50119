package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/spidersno1/job-accelerator/internal/logger"
)

// Unlimited 表示该维度不限制
const Unlimited = -1

// 计数桶的保留时长
const (
	dailyRetention  = 7 * 24 * time.Hour
	minuteRetention = time.Hour
)

// Limit 单个服务的额度限制,-1 表示不限制
type Limit struct {
	Daily  int `json:"daily"`
	Minute int `json:"minute"`
}

// LimitStatus 额度检查结果
type LimitStatus struct {
	DailyOK    bool `json:"daily_ok"`
	MinuteOK   bool `json:"minute_ok"`
	CanProceed bool `json:"can_proceed"`
}

// WindowStats 单个时间窗口的用量统计
type WindowStats struct {
	Used       int     `json:"used"`
	Limit      int     `json:"limit"`
	Remaining  int     `json:"remaining"`
	Percentage float64 `json:"percentage"`
}

// UsageStats 单个服务的用量统计
type UsageStats struct {
	Service string      `json:"service"`
	Daily   WindowStats `json:"daily"`
	Minute  WindowStats `json:"minute"`
}

// Tracker 用量追踪器
// 按 (用户, 服务) 维护天级和分钟级计数,用于免费额度控制。
// 所有读操作在存储故障时返回宽松值(0 用量/不限制),宁可放行也不因计数
// 故障阻断对话功能。
type Tracker struct {
	store  Store
	limits map[string]Limit

	now func() time.Time // 测试中可替换
}

// NewTracker 创建用量追踪器
func NewTracker(store Store, limits map[string]Limit) *Tracker {
	if limits == nil {
		limits = map[string]Limit{}
	}
	return &Tracker{
		store:  store,
		limits: limits,
		now:    time.Now,
	}
}

// dailyKey 天级计数键
func (t *Tracker) dailyKey(userID uint, service string) string {
	return fmt.Sprintf("usage:daily:%s:%d:%s", t.now().Format("2006-01-02"), userID, service)
}

// minuteKey 分钟级计数键
func (t *Tracker) minuteKey(userID uint, service string) string {
	return fmt.Sprintf("usage:minute:%s:%d:%s", t.now().Format("2006-01-02 15:04"), userID, service)
}

// limitFor 获取服务限额,未配置的服务不限制
func (t *Tracker) limitFor(service string) Limit {
	if l, ok := t.limits[service]; ok {
		return l
	}
	return Limit{Daily: Unlimited, Minute: Unlimited}
}

// Increment 增加使用计数
// 尽力而为:存储故障只记日志,不影响调用方
func (t *Tracker) Increment(ctx context.Context, userID uint, service string, count int) {
	if count <= 0 {
		count = 1
	}

	if _, err := t.store.IncrBy(ctx, t.dailyKey(userID, service), int64(count), dailyRetention); err != nil {
		logger.Error("Failed to increment daily usage, user %d, service %s: %v", userID, service, err)
	}
	if _, err := t.store.IncrBy(ctx, t.minuteKey(userID, service), int64(count), minuteRetention); err != nil {
		logger.Error("Failed to increment minute usage, user %d, service %s: %v", userID, service, err)
	}

	logger.Debug("Usage incremented, user %d, service %s, +%d", userID, service, count)
}

// DailyUsage 获取当日使用量
func (t *Tracker) DailyUsage(ctx context.Context, userID uint, service string) int {
	val, err := t.store.Get(ctx, t.dailyKey(userID, service))
	if err != nil {
		logger.Error("Failed to get daily usage, user %d, service %s: %v", userID, service, err)
		return 0
	}
	return int(val)
}

// MinuteUsage 获取当前分钟使用量
func (t *Tracker) MinuteUsage(ctx context.Context, userID uint, service string) int {
	val, err := t.store.Get(ctx, t.minuteKey(userID, service))
	if err != nil {
		logger.Error("Failed to get minute usage, user %d, service %s: %v", userID, service, err)
		return 0
	}
	return int(val)
}

// CheckLimit 检查是否超出限额
// 存储故障时按未超限处理
func (t *Tracker) CheckLimit(ctx context.Context, userID uint, service string) LimitStatus {
	limit := t.limitFor(service)

	dailyUsage := t.DailyUsage(ctx, userID, service)
	minuteUsage := t.MinuteUsage(ctx, userID, service)

	dailyOK := limit.Daily == Unlimited || dailyUsage < limit.Daily
	minuteOK := limit.Minute == Unlimited || minuteUsage < limit.Minute

	return LimitStatus{
		DailyOK:    dailyOK,
		MinuteOK:   minuteOK,
		CanProceed: dailyOK && minuteOK,
	}
}

// UsageStats 获取单个服务的用量统计
func (t *Tracker) UsageStats(ctx context.Context, userID uint, service string) UsageStats {
	limit := t.limitFor(service)

	return UsageStats{
		Service: service,
		Daily:   windowStats(t.DailyUsage(ctx, userID, service), limit.Daily),
		Minute:  windowStats(t.MinuteUsage(ctx, userID, service), limit.Minute),
	}
}

// AllUsageStats 获取所有已配置服务的用量统计
func (t *Tracker) AllUsageStats(ctx context.Context, userID uint) map[string]UsageStats {
	stats := make(map[string]UsageStats, len(t.limits))
	for service := range t.limits {
		stats[service] = t.UsageStats(ctx, userID, service)
	}
	return stats
}

// Reset 重置用户当前计数桶(管理功能),幂等
func (t *Tracker) Reset(ctx context.Context, userID uint, service string) error {
	if err := t.store.Del(ctx, t.dailyKey(userID, service)); err != nil {
		return fmt.Errorf("failed to reset daily usage: %w", err)
	}
	if err := t.store.Del(ctx, t.minuteKey(userID, service)); err != nil {
		return fmt.Errorf("failed to reset minute usage: %w", err)
	}

	logger.Info("Usage reset, user %d, service %s", userID, service)
	return nil
}

// windowStats 计算单个窗口的统计值
func windowStats(used, limit int) WindowStats {
	stats := WindowStats{
		Used:      used,
		Limit:     limit,
		Remaining: Unlimited,
	}

	if limit > 0 {
		stats.Remaining = limit - used
		if stats.Remaining < 0 {
			stats.Remaining = 0
		}
		stats.Percentage = float64(used) / float64(limit) * 100
	}

	return stats
}
