package server

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spidersno1/job-accelerator/internal/agent"
	"github.com/spidersno1/job-accelerator/internal/config"
	"github.com/spidersno1/job-accelerator/internal/quota"
)

var (
	testServer     *HTTPGinServer
	testServerOnce sync.Once
)

// newTestServer 构建一个只带规则引擎的完整服务器
// 数据库是进程级单例,整个测试包共用一个临时库
func newTestServer(t *testing.T) *HTTPGinServer {
	t.Helper()

	testServerOnce.Do(func() {
		// 临时库必须活到整个测试包结束,不能用 t.TempDir(首个测试结束即被清理)
		dir, err := os.MkdirTemp("", "jobacc-test-")
		require.NoError(t, err)
		os.Setenv("JOBACC_DB_PATH", filepath.Join(dir, "test.db"))

		cfg := &config.Config{}
		cfg.Server.Port = 0
		cfg.Auth.JWTSecret = "test-secret"
		cfg.Auth.TokenTTL = 1

		tracker := quota.NewTracker(quota.NewMemoryStore(), map[string]quota.Limit{})
		rules := agent.NewRuleEngine(agent.NewConversationMemory(), rand.New(rand.NewSource(1)))
		router := agent.NewRouter(rules, nil, nil, tracker, nil)

		testServer = NewHTTPGinServer(cfg, router, tracker)
	})
	return testServer
}

// doJSON 发送 JSON 请求,返回解析后的统一响应
func doJSON(t *testing.T, s *HTTPGinServer, method, path, token string, body any) (int, Response) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	s.engine.ServeHTTP(recorder, req)

	var resp Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	return recorder.Code, resp
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	status, resp := doJSON(t, s, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 200, resp.Code)
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	// 注册
	status, resp := doJSON(t, s, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "testuser",
		"password": "secret123",
		"email":    "testuser@example.com",
	})
	require.Equal(t, http.StatusOK, status, "register failed: %s", resp.Message)

	// 重复注册被拒
	status, _ = doJSON(t, s, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "testuser",
		"password": "secret123",
		"email":    "testuser@example.com",
	})
	assert.Equal(t, http.StatusConflict, status)

	// 登录拿 token
	status, resp = doJSON(t, s, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "testuser",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, status)
	data := resp.Data.(map[string]any)
	token := data["access_token"].(string)
	require.NotEmpty(t, token)

	// 带 token 访问受保护接口
	status, resp = doJSON(t, s, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, status)
	me := resp.Data.(map[string]any)
	assert.Equal(t, "testuser", me["username"])

	// 无 token 被拒
	status, _ = doJSON(t, s, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	// 错误密码登录失败
	status, _ = doJSON(t, s, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "testuser",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestChatEndpoint(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "chatuser")

	// 模型不可用时依然返回可用的规则回复
	status, resp := doJSON(t, s, http.MethodPost, "/api/v1/agent/chat", token, gin.H{
		"message": "你好",
	})
	require.Equal(t, http.StatusOK, status)

	envelope := resp.Data.(map[string]any)
	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, "rule_based", envelope["source"])
	assert.NotEmpty(t, envelope["content"])

	// 空消息是参数错误
	status, _ = doJSON(t, s, http.MethodPost, "/api/v1/agent/chat", token, gin.H{
		"message": "",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSkillEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "skilluser")

	status, resp := doJSON(t, s, http.MethodPost, "/api/v1/skills", token, gin.H{
		"name":        "Go",
		"category":    "编程语言",
		"proficiency": 75,
	})
	require.Equal(t, http.StatusOK, status, "upsert failed: %s", resp.Message)

	status, resp = doJSON(t, s, http.MethodGet, "/api/v1/skills", token, nil)
	require.Equal(t, http.StatusOK, status)
	data := resp.Data.(map[string]any)
	assert.EqualValues(t, 1, data["total"])

	status, resp = doJSON(t, s, http.MethodPost, "/api/v1/skills/report", token, nil)
	require.Equal(t, http.StatusOK, status)
	report := resp.Data.(map[string]any)
	assert.Equal(t, "intermediate", report["skill_level"])
}

// registerAndLogin 注册并登录,返回 token
func registerAndLogin(t *testing.T, s *HTTPGinServer, username string) string {
	t.Helper()

	status, resp := doJSON(t, s, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": username,
		"password": "secret123",
		"email":    username + "@example.com",
	})
	require.Equal(t, http.StatusOK, status, "register failed: %s", resp.Message)

	status, resp = doJSON(t, s, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": username,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, status)
	return resp.Data.(map[string]any)["access_token"].(string)
}
