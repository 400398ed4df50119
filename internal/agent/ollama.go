package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spidersno1/job-accelerator/internal/logger"
)

// 本地模型调用超时
const (
	localHealthTimeout = 5 * time.Second
	localChatTimeout   = 60 * time.Second
)

// DefaultLocalModel 本地默认模型
const DefaultLocalModel = "qwen2.5:7b"

// localModelPreferences 本地模型按任务类型的偏好表
var localModelPreferences = map[string]string{
	"general": "qwen2.5:7b",  // 通用任务优先中文模型
	"code":    "codellama:7b",
	"english": "llama3.1:8b",
	"chinese": "qwen2.5:7b",
}

// localKnownModels 本地候选模型,偏好不可用时按序回退
var localKnownModels = []string{
	"qwen2.5:7b",
	"llama3.1:8b",
	"codellama:7b",
}

// LocalClient 本地模型客户端(Ollama 兼容 API)
// 无鉴权、无限流,走 /api/tags 和 /api/chat
type LocalClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewLocalClient 创建本地模型客户端
func NewLocalClient(baseURL string) *LocalClient {
	return &LocalClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: localChatTimeout,
		},
	}
}

// HealthCheck 探活
func (c *LocalClient) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, localHealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("Local model health check failed: %v", err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}

// tagsResponse /api/tags 响应
type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// ListModels 获取可用模型列表
func (c *LocalClient) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, mapTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrBadResponse, resp.StatusCode)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// localChatRequest /api/chat 请求
type localChatRequest struct {
	Model    string         `json:"model"`
	Messages []Message      `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

// localChatResponse /api/chat 响应
type localChatResponse struct {
	Model   string `json:"model"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
}

// ChatCompletion 对话补全
func (c *LocalClient) ChatCompletion(ctx context.Context, messages []Message, model string, opts *ChatOptions) (*ChatResult, error) {
	if model == "" {
		model = DefaultLocalModel
	}

	temperature := 0.7
	if opts != nil && opts.Temperature > 0 {
		temperature = opts.Temperature
	}

	payload := localChatRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
		Options: map[string]any{
			"temperature": temperature,
			"top_p":       0.9,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, mapTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrBadResponse, resp.StatusCode, text)
	}

	var chatResp localChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if chatResp.Message.Content == "" {
		return nil, fmt.Errorf("%w: empty content", ErrBadResponse)
	}

	return &ChatResult{
		Content: chatResp.Message.Content,
		Model:   chatResp.Model,
	}, nil
}

// BestModel 按任务类型选择最佳模型
// 能拿到可用模型列表时做过滤,拿不到时直接返回偏好模型
func (c *LocalClient) BestModel(ctx context.Context, taskType string) string {
	preferred, ok := localModelPreferences[taskType]
	if !ok {
		preferred = DefaultLocalModel
	}

	available, err := c.ListModels(ctx)
	if err != nil || len(available) == 0 {
		return preferred
	}

	availableSet := make(map[string]bool, len(available))
	for _, name := range available {
		availableSet[name] = true
	}

	if availableSet[preferred] {
		return preferred
	}

	// 偏好模型不可用时按候选顺序回退
	for _, name := range localKnownModels {
		if availableSet[name] {
			return name
		}
	}

	return preferred
}

// mapTransportError 将传输层错误归入软失败分类
func mapTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	// net/http 的超时错误实现了 net.Error
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}
