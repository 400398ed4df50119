package agent

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *RuleEngine {
	return NewRuleEngine(NewConversationMemory(), rand.New(rand.NewSource(1)))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "你好 world", normalize("  你好   WORLD  "))
	assert.Equal(t, "怎么学习go？", normalize("怎么学习Go？"))
	// 表情等杂字符被剔除
	assert.Equal(t, "你好", normalize("你好🎉✨"))
}

func TestClassifyIntent(t *testing.T) {
	engine := newTestEngine()

	cases := []struct {
		query  string
		intent string
	}{
		{"你好", "greeting"},
		{"早上好", "greeting"},
		{"怎么提高编程水平", "question"},
		{"这个要多久？", "question"},
		{"帮我制定学习计划", "request"},
		{"系统有bug", "complaint"},
		{"谢谢你的帮助", "praise"},
		{"嗯嗯", IntentUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.intent, engine.classifyIntent(normalize(tc.query)), "query: %s", tc.query)
	}
}

func TestClassifyTopic(t *testing.T) {
	engine := newTestEngine()

	topic, entry := engine.classifyTopic(normalize("我想做技能分析评估"))
	require.NotNil(t, entry)
	assert.Equal(t, "技能分析", topic)

	topic, entry = engine.classifyTopic(normalize("帮我准备面试和简历"))
	require.NotNil(t, entry)
	assert.Equal(t, "求职指导", topic)

	topic, entry = engine.classifyTopic(normalize("嗯嗯好的呀"))
	assert.Nil(t, entry)
	assert.Equal(t, TopicGeneral, topic)

	// 分词片段只是关键词的一部分时不计分
	topic, entry = engine.classifyTopic(normalize("skil up"))
	assert.Nil(t, entry)
	assert.Equal(t, TopicGeneral, topic)
}

func TestRespondConfidence(t *testing.T) {
	engine := newTestEngine()

	// 意图+话题+知识库全部命中,封顶 0.9
	result := engine.Respond(1, "帮我做技能分析", nil)
	assert.Equal(t, SourceRuleBased, result.Source)
	assert.InDelta(t, 0.9, result.Confidence, 1e-9)
	assert.NotEmpty(t, result.Content)

	// 什么都没命中,只有基线分
	result = engine.Respond(1, "嗯嗯", nil)
	assert.InDelta(t, 0.5, result.Confidence, 1e-9)
	assert.NotEmpty(t, result.Content)
}

func TestRespondAppendsAdvice(t *testing.T) {
	engine := newTestEngine()

	result := engine.Respond(1, "我想制定学习计划", nil)
	assert.Equal(t, "学习规划", result.Topic)
	assert.Contains(t, result.Content, adviceMap["学习规划"])
}

func TestRespondPersonalization(t *testing.T) {
	engine := newTestEngine()

	beginner := &UserContext{UserID: 1, SkillLevel: "beginner", TargetJob: "后端工程师"}
	result := engine.Respond(1, "我想学习编程", beginner)
	assert.Contains(t, result.Content, "入门阶段")
	assert.Contains(t, result.Content, "后端方向")
	require.NotEmpty(t, result.Suggestions)
	assert.Equal(t, "从基础教程开始学习", result.Suggestions[0])
	assert.LessOrEqual(t, len(result.Suggestions), 4)

	advanced := &UserContext{UserID: 2, SkillLevel: "advanced"}
	result = engine.Respond(2, "我想学习算法", advanced)
	assert.Contains(t, result.Content, "挑战更有深度")
	require.NotEmpty(t, result.Suggestions)
	assert.Equal(t, "尝试进阶实战项目", result.Suggestions[0])
}

func TestRespondRecordsMemory(t *testing.T) {
	engine := newTestEngine()

	engine.Respond(7, "怎么准备求职", nil)
	history := engine.Memory().Recent(7)
	require.Len(t, history, 1)
	assert.Equal(t, "怎么准备求职", history[0].Query)
	assert.NotEmpty(t, history[0].Response)
}

func TestSuggestionsCapped(t *testing.T) {
	engine := newTestEngine()

	userCtx := &UserContext{UserID: 1, SkillLevel: "beginner"}
	result := engine.Respond(1, "帮我做技能分析", userCtx)
	assert.Len(t, result.Suggestions, 4)
	for _, s := range result.Suggestions {
		assert.False(t, strings.TrimSpace(s) == "")
	}
}

func TestConfidenceBounds(t *testing.T) {
	entry := &knowledgeBase[0]
	assert.InDelta(t, 0.9, confidence("question", "技能分析", entry), 1e-9)
	assert.InDelta(t, 0.7, confidence("question", TopicGeneral, nil), 1e-9)
	assert.InDelta(t, 0.5, confidence(IntentUnknown, TopicGeneral, nil), 1e-9)
}
