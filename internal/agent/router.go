package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spidersno1/job-accelerator/internal/logger"
	"github.com/spidersno1/job-accelerator/internal/quota"
)

// 问题复杂度分级
const (
	ComplexitySimple  = "simple"
	ComplexityMedium  = "medium"
	ComplexityComplex = "complex"
)

// FallbackReasonModelsDown AI 模型全部不可用时的降级原因
const FallbackReasonModelsDown = "ai_models_unavailable"

// simplePatterns 简单问题特征:寒暄、感谢、告别开头,或单独成句的肯定/否定
// 肯定/否定词锚定到整句,避免把包含这些字的陈述句误判为简单问题
var simplePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(你好|hi|hello|嗨)`),
	regexp.MustCompile(`^(谢谢|感谢|thanks?)`),
	regexp.MustCompile(`^(再见|bye|拜拜)`),
	regexp.MustCompile(`^(是|好的|ok|行|可以)$`),
	regexp.MustCompile(`^(不|不是|no|不行)$`),
}

// complexPatterns 复杂问题特征:需要深度推理的话题,关键词对之间允许插入修饰语
var complexPatterns = []*regexp.Regexp{
	regexp.MustCompile(`如何.*实现|怎么.*开发|设计.*架构`),
	regexp.MustCompile(`算法.*优化|性能.*提升|代码.*重构`),
	regexp.MustCompile(`职业.*规划|学习.*路径|技能.*提升`),
	regexp.MustCompile(`面试.*准备|简历.*优化|项目.*经验`),
}

// codeTaskPattern 代码类任务特征,用于模型选择
var codeTaskPattern = regexp.MustCompile(`代码|编程|算法|debug|code|bug`)

// Envelope 路由后的统一回复信封
type Envelope struct {
	Success        bool      `json:"success"`
	Content        string    `json:"content"`
	Source         string    `json:"source"`
	Model          string    `json:"model,omitempty"`
	Confidence     float64   `json:"confidence"`
	Complexity     string    `json:"complexity,omitempty"`
	Intent         string    `json:"intent,omitempty"`
	Topic          string    `json:"topic,omitempty"`
	Suggestions    []string  `json:"suggestions,omitempty"`
	FallbackReason string    `json:"fallback_reason,omitempty"`
	Error          string    `json:"error,omitempty"`
	Usage          *Usage    `json:"usage,omitempty"`
	ResponseTime   float64   `json:"response_time"` // 秒
	Timestamp      time.Time `json:"timestamp"`
}

// HealthStatus 各回复通道的可用状态
type HealthStatus struct {
	LocalModel bool   `json:"local_model"`
	CloudModel bool   `json:"cloud_model"`
	RuleEngine bool   `json:"rule_engine"`
	Overall    string `json:"overall"` // healthy/degraded
}

// Router 分级回复路由器
// 简单问题直接走规则引擎;中等和复杂问题优先本地模型,
// 不可用时降级云端模型,再不可用降级规则引擎,保证永远有回复
type Router struct {
	rules   *RuleEngine
	local   ModelClient
	cloud   CloudModelClient
	tracker *quota.Tracker
	profile ProfileSource
}

// NewRouter 创建路由器
// profile 可为 nil,此时不注入用户画像
func NewRouter(rules *RuleEngine, local ModelClient, cloud CloudModelClient, tracker *quota.Tracker, profile ProfileSource) *Router {
	return &Router{
		rules:   rules,
		local:   local,
		cloud:   cloud,
		tracker: tracker,
		profile: profile,
	}
}

// classify 问题复杂度分级
// 先按模式判断:寒暄类为简单,深度话题为复杂;
// 都不命中时短句为简单,长文或多问号为复杂,其余为中等
func classify(query string) string {
	trimmed := strings.TrimSpace(query)
	lowered := strings.ToLower(trimmed)

	for _, pattern := range simplePatterns {
		if pattern.MatchString(lowered) {
			return ComplexitySimple
		}
	}
	for _, pattern := range complexPatterns {
		if pattern.MatchString(lowered) {
			return ComplexityComplex
		}
	}

	length := len([]rune(trimmed))
	if length < 20 {
		return ComplexitySimple
	}
	questionMarks := strings.Count(trimmed, "?") + strings.Count(trimmed, "？")
	if length > 100 || questionMarks >= 2 {
		return ComplexityComplex
	}
	return ComplexityMedium
}

// taskTypeFor 按问题内容推断任务类型,用于模型选择
func taskTypeFor(query string) string {
	if codeTaskPattern.MatchString(strings.ToLower(query)) {
		return "code"
	}
	return "general"
}

// Chat 路由一次用户提问,保证总能返回非空回复
func (r *Router) Chat(ctx context.Context, userID uint, query string) (envelope *Envelope) {
	started := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Response router panic recovered, user %d: %v", userID, rec)
			envelope = r.emergency(fmt.Sprintf("%v", rec))
		}
		envelope.ResponseTime = time.Since(started).Seconds()
		envelope.Timestamp = time.Now()
	}()

	complexity := classify(query)
	userCtx := r.userContext(ctx, userID)

	if complexity == ComplexitySimple {
		envelope = r.ruleAnswer(userID, query, userCtx, "")
	} else {
		envelope = r.modelAnswer(ctx, userID, query, userCtx)
	}
	envelope.Complexity = complexity

	if envelope.Success && r.tracker != nil {
		r.tracker.Increment(ctx, userID, envelope.Source, 1)
	}
	return envelope
}

// userContext 取用户画像并补充最近话题,取不到时降级为仅含话题的背景
func (r *Router) userContext(ctx context.Context, userID uint) *UserContext {
	var userCtx *UserContext
	if r.profile != nil {
		loaded, err := r.profile.UserProfile(ctx, userID)
		if err != nil {
			logger.Warn("Load user profile failed, user %d: %v", userID, err)
		} else {
			userCtx = loaded
		}
	}
	if userCtx == nil {
		userCtx = &UserContext{UserID: userID}
	}
	userCtx.RecentTopics = r.rules.Memory().RecentTopics(userID)
	return userCtx
}

// modelAnswer 模型优先的回复路径:本地 -> 云端 -> 规则兜底
func (r *Router) modelAnswer(ctx context.Context, userID uint, query string, userCtx *UserContext) *Envelope {
	messages := BuildMessages(userCtx, query)
	taskType := taskTypeFor(query)

	if r.local != nil && r.local.HealthCheck(ctx) {
		model := r.local.BestModel(ctx, taskType)
		result, err := r.local.ChatCompletion(ctx, messages, model, nil)
		if err == nil {
			r.rules.Memory().Record(userID, query, result.Content)
			return &Envelope{
				Success:     true,
				Content:     result.Content,
				Source:      SourceLocalModel,
				Model:       result.Model,
				Confidence:  0.9,
				Suggestions: modelSuggestions(result.Content),
				Usage:       result.Usage,
			}
		}
		logger.Warn("Local model chat failed, user %d: %v", userID, err)
	}

	if r.cloud != nil && r.cloud.IsConfigured() && r.cloud.CheckQuota(ctx, userID) {
		model := r.cloud.BestModel(ctx, taskType)
		result, err := r.cloud.ChatCompletion(ctx, messages, model, nil)
		if err == nil {
			r.rules.Memory().Record(userID, query, result.Content)
			return &Envelope{
				Success:     true,
				Content:     result.Content,
				Source:      SourceCloudModel,
				Model:       result.Model,
				Confidence:  0.95,
				Suggestions: modelSuggestions(result.Content),
				Usage:       result.Usage,
			}
		}
		logger.Warn("Cloud model chat failed, user %d: %v", userID, err)
	}

	return r.ruleAnswer(userID, query, userCtx, FallbackReasonModelsDown)
}

// ruleAnswer 规则引擎回复路径
func (r *Router) ruleAnswer(userID uint, query string, userCtx *UserContext, fallbackReason string) *Envelope {
	result := r.rules.Respond(userID, query, userCtx)
	return &Envelope{
		Success:        true,
		Content:        result.Content,
		Source:         result.Source,
		Confidence:     result.Confidence,
		Intent:         result.Intent,
		Topic:          result.Topic,
		Suggestions:    result.Suggestions,
		FallbackReason: fallbackReason,
	}
}

// emergency 最后防线:所有路径都异常时的固定回复,错误信息随信封返回
func (r *Router) emergency(errText string) *Envelope {
	return &Envelope{
		Success:    false,
		Content:    "抱歉，系统暂时出现问题。你可以稍后再试，或者问我一些关于学习规划、技能分析的问题。",
		Source:     SourceEmergency,
		Confidence: 0.1,
		Error:      errText,
	}
}

// modelSuggestions 从模型回复内容中提取后续建议,最多 3 条
func modelSuggestions(content string) []string {
	var suggestions []string
	if strings.Contains(content, "技能") {
		suggestions = append(suggestions, "查看技能分析报告")
	}
	if strings.Contains(content, "学习") {
		suggestions = append(suggestions, "生成个性化学习路径")
	}
	if strings.Contains(content, "求职") || strings.Contains(content, "面试") {
		suggestions = append(suggestions, "查看岗位匹配结果")
	}
	if strings.Contains(content, "项目") {
		suggestions = append(suggestions, "获取项目实战指导")
	}
	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}
	return suggestions
}

// ClearMemory 清空某用户的对话记忆
func (r *Router) ClearMemory(userID uint) {
	r.rules.Memory().Clear(userID)
}

// Health 各通道的可用状态,规则引擎永远在线
// 任一模型可用为 healthy,只剩规则引擎时为 degraded
func (r *Router) Health(ctx context.Context) *HealthStatus {
	status := &HealthStatus{RuleEngine: true}
	if r.local != nil {
		status.LocalModel = r.local.HealthCheck(ctx)
	}
	if r.cloud != nil && r.cloud.IsConfigured() {
		status.CloudModel = r.cloud.HealthCheck(ctx)
	}

	status.Overall = "degraded"
	if status.LocalModel || status.CloudModel {
		status.Overall = "healthy"
	}
	return status
}
