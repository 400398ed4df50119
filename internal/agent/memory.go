package agent

import (
	"strings"
	"sync"
	"time"
)

// maxExchanges 每用户保留的最近对话轮数
const maxExchanges = 5

// Exchange 一轮对话
type Exchange struct {
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationMemory 按用户维护的短期对话记忆
// 每用户一个定长环形缓冲,只存最近 maxExchanges 轮
type ConversationMemory struct {
	mu    sync.RWMutex
	users map[uint][]Exchange
	now   func() time.Time
}

// NewConversationMemory 创建对话记忆
func NewConversationMemory() *ConversationMemory {
	return &ConversationMemory{
		users: make(map[uint][]Exchange),
		now:   time.Now,
	}
}

// Record 记录一轮对话,超出容量时淘汰最旧的一轮
func (m *ConversationMemory) Record(userID uint, query, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	history := append(m.users[userID], Exchange{
		Query:     query,
		Response:  response,
		Timestamp: m.now(),
	})
	if len(history) > maxExchanges {
		history = history[len(history)-maxExchanges:]
	}
	m.users[userID] = history
}

// Recent 返回某用户的最近对话,按时间先后排序
func (m *ConversationMemory) Recent(userID uint) []Exchange {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := m.users[userID]
	out := make([]Exchange, len(history))
	copy(out, history)
	return out
}

// Clear 清空某用户的对话记忆
func (m *ConversationMemory) Clear(userID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, userID)
}

// RecentTopics 从最近对话中提取话题标签,去重保序
func (m *ConversationMemory) RecentTopics(userID uint) []string {
	history := m.Recent(userID)

	seen := make(map[string]bool)
	topics := make([]string, 0, 3)
	for _, ex := range history {
		for _, mapping := range topicKeywordMap {
			if strings.Contains(ex.Query, mapping.Keyword) && !seen[mapping.Topic] {
				seen[mapping.Topic] = true
				topics = append(topics, mapping.Topic)
			}
		}
	}
	return topics
}

// topicKeywordMap 对话查询中关键词到话题的映射
var topicKeywordMap = []struct {
	Keyword string
	Topic   string
}{
	{"学习", "学习规划"},
	{"求职", "求职指导"},
	{"技能", "技能分析"},
}
