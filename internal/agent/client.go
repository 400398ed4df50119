package agent

import "context"

// 响应来源标签
const (
	SourceRuleBased    = "rule_based"
	SourceLocalModel   = "local_model"
	SourceCloudModel   = "cloud_model"
	SourceEmergency    = "rule_based_emergency"
	SourceRuleFallback = "rule_based_fallback"
)

// Message LLM 消息
type Message struct {
	Role    string `json:"role"` // system/user/assistant
	Content string `json:"content"`
}

// ChatOptions 对话调用参数
type ChatOptions struct {
	Temperature float64
	MaxTokens   int
}

// Usage token 用量
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResult 模型调用结果
type ChatResult struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	Usage   *Usage `json:"usage,omitempty"`
}

// ModelClient 文本生成后端的统一能力面
// 本地模型与云端模型传输细节不同,但对路由器暴露相同的接口
type ModelClient interface {
	// HealthCheck 探活,任何内部错误都返回 false 而不是抛出
	HealthCheck(ctx context.Context) bool
	// ListModels 获取当前可用的模型列表
	ListModels(ctx context.Context) ([]string, error)
	// ChatCompletion 发起对话补全,失败时返回本包定义的软失败错误
	ChatCompletion(ctx context.Context, messages []Message, model string, opts *ChatOptions) (*ChatResult, error)
	// BestModel 按任务类型选择最佳模型
	BestModel(ctx context.Context, taskType string) string
}

// CloudModelClient 云端模型客户端,在通用能力之外带配置检测与额度检查
type CloudModelClient interface {
	ModelClient
	// IsConfigured 是否配置了访问凭证
	IsConfigured() bool
	// CheckQuota 用户免费额度是否可用
	CheckQuota(ctx context.Context, userID uint) bool
}
