package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/spidersno1/job-accelerator/internal/logger"
	"github.com/spidersno1/job-accelerator/internal/quota"
)

// 云端模型调用超时
const (
	cloudHealthTimeout = 10 * time.Second
	cloudChatTimeout   = 30 * time.Second
)

// DefaultCloudModel 云端默认模型
const DefaultCloudModel = "llama3-8b-8192"

// cloudModelPreferences 云端模型按任务类型的偏好表
var cloudModelPreferences = map[string]string{
	"general":  "llama3-8b-8192",
	"code":     "llama3-8b-8192",
	"creative": "mixtral-8x7b-32768",
	"fast":     "gemma-7b-it",
}

// CloudClient 云端模型客户端(OpenAI 兼容 API,默认接 Groq 免费层)
// 带鉴权和免费额度限制,额度检查委托给用量追踪器
type CloudClient struct {
	apiKey  string
	client  *openai.Client
	tracker *quota.Tracker
}

// NewCloudClient 创建云端模型客户端
func NewCloudClient(apiKey, baseURL string, tracker *quota.Tracker) *CloudClient {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout: cloudChatTimeout,
	}

	return &CloudClient{
		apiKey:  apiKey,
		client:  openai.NewClientWithConfig(clientConfig),
		tracker: tracker,
	}
}

// IsConfigured 是否配置了 API Key
func (c *CloudClient) IsConfigured() bool {
	return strings.TrimSpace(c.apiKey) != ""
}

// CheckQuota 检查用户免费额度
func (c *CloudClient) CheckQuota(ctx context.Context, userID uint) bool {
	if c.tracker == nil {
		return true
	}

	status := c.tracker.CheckLimit(ctx, userID, SourceCloudModel)
	if !status.DailyOK {
		logger.Warn("Cloud model daily quota exhausted, user %d", userID)
	}
	if !status.MinuteOK {
		logger.Warn("Cloud model minute quota exhausted, user %d", userID)
	}
	return status.CanProceed
}

// HealthCheck 探活
// 429 也视为服务可用,只是限流
func (c *CloudClient) HealthCheck(ctx context.Context) bool {
	if !c.IsConfigured() {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, cloudHealthTimeout)
	defer cancel()

	_, err := c.client.ListModels(ctx)
	if err != nil {
		if errors.Is(mapOpenAIError(err), ErrRateLimited) {
			return true
		}
		logger.Warn("Cloud model health check failed: %v", err)
		return false
	}
	return true
}

// ListModels 获取可用模型列表
func (c *CloudClient) ListModels(ctx context.Context) ([]string, error) {
	list, err := c.client.ListModels(ctx)
	if err != nil {
		return nil, mapOpenAIError(err)
	}

	names := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		names = append(names, m.ID)
	}
	return names, nil
}

// ChatCompletion 对话补全
func (c *CloudClient) ChatCompletion(ctx context.Context, messages []Message, model string, opts *ChatOptions) (*ChatResult, error) {
	if !c.IsConfigured() {
		return nil, fmt.Errorf("%w: api key not configured", ErrAuth)
	}
	if model == "" {
		model = DefaultCloudModel
	}

	openaiMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		openaiMessages = append(openaiMessages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    openaiMessages,
		Temperature: 0.7,
		MaxTokens:   1000,
	}
	if opts != nil {
		if opts.Temperature > 0 {
			req.Temperature = float32(opts.Temperature)
		}
		if opts.MaxTokens > 0 {
			req.MaxTokens = opts.MaxTokens
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, mapOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no response choices", ErrBadResponse)
	}

	return &ChatResult{
		Content: resp.Choices[0].Message.Content,
		Model:   model,
		Usage: &Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// BestModel 按任务类型选择最佳模型
func (c *CloudClient) BestModel(_ context.Context, taskType string) string {
	if preferred, ok := cloudModelPreferences[taskType]; ok {
		return preferred
	}
	return DefaultCloudModel
}

// mapOpenAIError 将 OpenAI SDK 错误归入软失败分类
// 429 为限流,401 为凭证错误,超时与连接失败分别归类,其余视为不可达
func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrAuth, err)
		default:
			return fmt.Errorf("%w: %v", ErrUnreachable, err)
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrAuth, err)
		}
	}

	return mapTransportError(err)
}
