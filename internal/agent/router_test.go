package agent

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spidersno1/job-accelerator/internal/quota"
)

// mediumQuery 中等复杂度的提问:超过短句阈值,不命中任何模式
const mediumQuery = "推荐一下后端方向的学习重点和进阶路线，最好结合实际项目"

// stubModel 可编程的模型客户端桩
type stubModel struct {
	healthy bool
	result  *ChatResult
	err     error
	calls   int
}

func (s *stubModel) HealthCheck(context.Context) bool { return s.healthy }

func (s *stubModel) ListModels(context.Context) ([]string, error) {
	return []string{"stub-model"}, nil
}

func (s *stubModel) ChatCompletion(_ context.Context, _ []Message, model string, _ *ChatOptions) (*ChatResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &ChatResult{Content: "stub reply", Model: model}, nil
}

func (s *stubModel) BestModel(_ context.Context, _ string) string { return "stub-model" }

// stubCloud 云端客户端桩
type stubCloud struct {
	stubModel
	configured bool
	quotaOK    bool
}

func (s *stubCloud) IsConfigured() bool                    { return s.configured }
func (s *stubCloud) CheckQuota(context.Context, uint) bool { return s.quotaOK }

func newTestRouter(local ModelClient, cloud CloudModelClient) *Router {
	rules := NewRuleEngine(NewConversationMemory(), rand.New(rand.NewSource(1)))
	tracker := quota.NewTracker(quota.NewMemoryStore(), map[string]quota.Limit{})
	return NewRouter(rules, local, cloud, tracker, nil)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		query      string
		complexity string
	}{
		// 寒暄、感谢、确认类
		{"你好", ComplexitySimple},
		{"hi", ComplexitySimple},
		{"thanks", ComplexitySimple},
		{"谢谢", ComplexitySimple},
		{"ok", ComplexitySimple},
		{"你好，我最近在准备换工作，想了解一下方向", ComplexitySimple},
		// 无模式的短句按长度归为简单
		{"嗯嗯好的", ComplexitySimple},
		{"不过我还是想再比较一下别的方案", ComplexitySimple},
		{"为什么？什么时候？", ComplexitySimple},
		// 深度话题,关键词对之间允许插入修饰语,且优先于长度判断
		{"如何实现分布式缓存", ComplexityComplex},
		{"如何设计一个高并发系统的架构？", ComplexityComplex},
		{"性能提升的常见思路", ComplexityComplex},
		{"职业规划应该怎么做", ComplexityComplex},
		// 长文与多问号
		{"这个框架的性能怎么样？适合初学者上手吗？", ComplexityComplex},
		// 包含肯定词但不独立成句的陈述不算简单问题
		{"这是一个关于后端开发方向选择的说明文字示例", ComplexityMedium},
		{mediumQuery, ComplexityMedium},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.complexity, classify(tc.query), "query: %s", tc.query)
	}

	long := strings.Repeat("后端方向的学习重点包括数据库和系统设计", 8)
	assert.Equal(t, ComplexityComplex, classify(long))
}

func TestChatSimpleGoesToRules(t *testing.T) {
	local := &stubModel{healthy: true}
	cloud := &stubCloud{stubModel: stubModel{healthy: true}, configured: true, quotaOK: true}
	router := newTestRouter(local, cloud)

	envelope := router.Chat(context.Background(), 1, "你好")
	require.True(t, envelope.Success)
	assert.Equal(t, SourceRuleBased, envelope.Source)
	assert.Equal(t, ComplexitySimple, envelope.Complexity)
	assert.Empty(t, envelope.FallbackReason)
	// 模型完全没被调用
	assert.Zero(t, local.calls)
	assert.Zero(t, cloud.calls)
}

func TestChatPrefersLocalModel(t *testing.T) {
	local := &stubModel{healthy: true, result: &ChatResult{Content: "本地模型建议你先做技能分析", Model: "qwen2.5:7b"}}
	cloud := &stubCloud{stubModel: stubModel{healthy: true}, configured: true, quotaOK: true}
	router := newTestRouter(local, cloud)

	envelope := router.Chat(context.Background(), 1, mediumQuery)
	require.True(t, envelope.Success)
	assert.Equal(t, SourceLocalModel, envelope.Source)
	assert.Equal(t, "qwen2.5:7b", envelope.Model)
	assert.InDelta(t, 0.9, envelope.Confidence, 1e-9)
	assert.Contains(t, envelope.Suggestions, "查看技能分析报告")
	assert.Zero(t, cloud.calls)
}

func TestChatFallsBackToCloud(t *testing.T) {
	local := &stubModel{healthy: false}
	cloud := &stubCloud{
		stubModel:  stubModel{healthy: true, result: &ChatResult{Content: "cloud reply", Model: "llama3-8b-8192"}},
		configured: true,
		quotaOK:    true,
	}
	router := newTestRouter(local, cloud)

	envelope := router.Chat(context.Background(), 1, mediumQuery)
	require.True(t, envelope.Success)
	assert.Equal(t, SourceCloudModel, envelope.Source)
	assert.InDelta(t, 0.95, envelope.Confidence, 1e-9)
	assert.Zero(t, local.calls)
	assert.Equal(t, 1, cloud.calls)
}

func TestChatLocalErrorFallsThrough(t *testing.T) {
	// 本地探活通过但调用失败,应继续降级云端
	local := &stubModel{healthy: true, err: ErrTimeout}
	cloud := &stubCloud{
		stubModel:  stubModel{healthy: true, result: &ChatResult{Content: "cloud reply", Model: "llama3-8b-8192"}},
		configured: true,
		quotaOK:    true,
	}
	router := newTestRouter(local, cloud)

	envelope := router.Chat(context.Background(), 1, mediumQuery)
	require.True(t, envelope.Success)
	assert.Equal(t, SourceCloudModel, envelope.Source)
	assert.Equal(t, 1, local.calls)
}

func TestChatExhaustedFallsBackToRules(t *testing.T) {
	local := &stubModel{healthy: false}
	cloud := &stubCloud{stubModel: stubModel{healthy: false, err: ErrUnreachable}, configured: true, quotaOK: false}
	router := newTestRouter(local, cloud)

	envelope := router.Chat(context.Background(), 1, mediumQuery)
	require.True(t, envelope.Success)
	assert.Equal(t, SourceRuleBased, envelope.Source)
	assert.Equal(t, FallbackReasonModelsDown, envelope.FallbackReason)
	assert.NotEmpty(t, envelope.Content)
	// 额度不足时云端不应被调用
	assert.Zero(t, cloud.calls)
}

func TestChatNoClientsStillResponds(t *testing.T) {
	router := newTestRouter(nil, nil)

	envelope := router.Chat(context.Background(), 1, "如何实现分布式缓存？求职方向怎么选？")
	require.True(t, envelope.Success)
	assert.Equal(t, SourceRuleBased, envelope.Source)
	assert.Equal(t, ComplexityComplex, envelope.Complexity)
	assert.NotEmpty(t, envelope.Content)
}

func TestChatUnconfiguredCloudSkipped(t *testing.T) {
	local := &stubModel{healthy: false}
	cloud := &stubCloud{stubModel: stubModel{healthy: true}, configured: false, quotaOK: true}
	router := newTestRouter(local, cloud)

	envelope := router.Chat(context.Background(), 1, mediumQuery)
	assert.Equal(t, SourceRuleBased, envelope.Source)
	assert.Zero(t, cloud.calls)
}

func TestChatIncrementsUsage(t *testing.T) {
	local := &stubModel{healthy: true}
	rules := NewRuleEngine(NewConversationMemory(), rand.New(rand.NewSource(1)))
	tracker := quota.NewTracker(quota.NewMemoryStore(), map[string]quota.Limit{})
	router := NewRouter(rules, local, nil, tracker, nil)

	router.Chat(context.Background(), 42, mediumQuery)
	stats := tracker.UsageStats(context.Background(), 42, SourceLocalModel)
	assert.Equal(t, 1, stats.Daily.Used)
	assert.Equal(t, 1, stats.Minute.Used)
}

func TestChatCloudIncrementsUsage(t *testing.T) {
	// 本地不可用,走云端成功,计数记在 cloud_model 名下
	local := &stubModel{healthy: false}
	cloud := &stubCloud{
		stubModel:  stubModel{healthy: true, result: &ChatResult{Content: "cloud reply", Model: "llama3-8b-8192"}},
		configured: true,
		quotaOK:    true,
	}
	rules := NewRuleEngine(NewConversationMemory(), rand.New(rand.NewSource(1)))
	tracker := quota.NewTracker(quota.NewMemoryStore(), map[string]quota.Limit{
		SourceCloudModel: {Daily: 100, Minute: 30},
	})
	router := NewRouter(rules, local, cloud, tracker, nil)

	envelope := router.Chat(context.Background(), 42, mediumQuery)
	require.Equal(t, SourceCloudModel, envelope.Source)

	stats := tracker.UsageStats(context.Background(), 42, SourceCloudModel)
	assert.Equal(t, 1, stats.Daily.Used)
	assert.Equal(t, 1, stats.Minute.Used)
	assert.Zero(t, tracker.DailyUsage(context.Background(), 42, SourceLocalModel))
}

// panicProfile 总是 panic 的画像源,验证最后防线
type panicProfile struct{}

func (panicProfile) UserProfile(context.Context, uint) (*UserContext, error) {
	panic("profile store corrupted")
}

func TestChatEmergencyEnvelope(t *testing.T) {
	rules := NewRuleEngine(NewConversationMemory(), rand.New(rand.NewSource(1)))
	router := NewRouter(rules, nil, nil, nil, panicProfile{})

	envelope := router.Chat(context.Background(), 1, mediumQuery)
	require.NotNil(t, envelope)
	assert.False(t, envelope.Success)
	assert.Equal(t, SourceEmergency, envelope.Source)
	assert.NotEmpty(t, envelope.Content)
	assert.Contains(t, envelope.Error, "profile store corrupted")
	assert.InDelta(t, 0.1, envelope.Confidence, 1e-9)
}

func TestHealth(t *testing.T) {
	local := &stubModel{healthy: true}
	cloud := &stubCloud{stubModel: stubModel{healthy: false}, configured: true, quotaOK: true}
	router := newTestRouter(local, cloud)

	status := router.Health(context.Background())
	assert.True(t, status.RuleEngine)
	assert.True(t, status.LocalModel)
	assert.False(t, status.CloudModel)
	assert.Equal(t, "healthy", status.Overall)

	// 模型全部不可用时降级但不算故障
	degraded := newTestRouter(&stubModel{healthy: false}, nil)
	assert.Equal(t, "degraded", degraded.Health(context.Background()).Overall)
}

func TestModelSuggestionsCapped(t *testing.T) {
	content := "关于技能、学习、求职和项目的建议"
	suggestions := modelSuggestions(content)
	assert.Len(t, suggestions, 3)
}
