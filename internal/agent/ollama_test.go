package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalServer(t *testing.T, models []string, chatContent string, chatStatus int) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, _ *http.Request) {
		type tagModel struct {
			Name string `json:"name"`
		}
		tags := struct {
			Models []tagModel `json:"models"`
		}{}
		for _, m := range models {
			tags.Models = append(tags.Models, tagModel{Name: m})
		}
		_ = json.NewEncoder(w).Encode(tags)
	})
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		var req localChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)

		if chatStatus != http.StatusOK {
			w.WriteHeader(chatStatus)
			return
		}
		resp := localChatResponse{Model: req.Model}
		resp.Message.Role = "assistant"
		resp.Message.Content = chatContent
		_ = json.NewEncoder(w).Encode(resp)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestLocalHealthCheck(t *testing.T) {
	server := newLocalServer(t, []string{"qwen2.5:7b"}, "", http.StatusOK)
	client := NewLocalClient(server.URL)
	assert.True(t, client.HealthCheck(context.Background()))

	// 服务不可达时探活失败而不报错
	down := NewLocalClient("http://127.0.0.1:1")
	assert.False(t, down.HealthCheck(context.Background()))
}

func TestLocalListModels(t *testing.T) {
	server := newLocalServer(t, []string{"qwen2.5:7b", "codellama:7b"}, "", http.StatusOK)
	client := NewLocalClient(server.URL)

	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"qwen2.5:7b", "codellama:7b"}, models)
}

func TestLocalChatCompletion(t *testing.T) {
	server := newLocalServer(t, nil, "建议从Go基础语法开始学习", http.StatusOK)
	client := NewLocalClient(server.URL)

	result, err := client.ChatCompletion(context.Background(), []Message{
		{Role: "user", Content: "怎么学Go"},
	}, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "建议从Go基础语法开始学习", result.Content)
	assert.Equal(t, DefaultLocalModel, result.Model)
}

func TestLocalChatCompletionServerError(t *testing.T) {
	server := newLocalServer(t, nil, "", http.StatusInternalServerError)
	client := NewLocalClient(server.URL)

	_, err := client.ChatCompletion(context.Background(), []Message{
		{Role: "user", Content: "hi"},
	}, "qwen2.5:7b", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadResponse)
	assert.True(t, IsSoftFailure(err))
}

func TestLocalChatCompletionUnreachable(t *testing.T) {
	client := NewLocalClient("http://127.0.0.1:1")

	_, err := client.ChatCompletion(context.Background(), []Message{
		{Role: "user", Content: "hi"},
	}, "qwen2.5:7b", nil)
	require.Error(t, err)
	assert.True(t, IsSoftFailure(err))
}

func TestLocalBestModel(t *testing.T) {
	// 偏好模型在线时直接返回
	server := newLocalServer(t, []string{"qwen2.5:7b", "codellama:7b"}, "", http.StatusOK)
	client := NewLocalClient(server.URL)
	assert.Equal(t, "codellama:7b", client.BestModel(context.Background(), "code"))
	assert.Equal(t, "qwen2.5:7b", client.BestModel(context.Background(), "general"))
	assert.Equal(t, DefaultLocalModel, client.BestModel(context.Background(), "unknown-task"))

	// 偏好模型不在线时按候选顺序回退
	server2 := newLocalServer(t, []string{"llama3.1:8b"}, "", http.StatusOK)
	client2 := NewLocalClient(server2.URL)
	assert.Equal(t, "llama3.1:8b", client2.BestModel(context.Background(), "code"))

	// 拿不到列表时返回偏好模型
	down := NewLocalClient("http://127.0.0.1:1")
	assert.Equal(t, "codellama:7b", down.BestModel(context.Background(), "code"))
}
