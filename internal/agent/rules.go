package agent

import (
	"math/rand"
	"regexp"
	"strings"
	"sync"

	"github.com/spidersno1/job-accelerator/internal/logger"
)

// RuleResult 规则引擎的回复结果
type RuleResult struct {
	Content     string
	Confidence  float64
	Intent      string
	Topic       string
	Suggestions []string
	Source      string
}

// RuleEngine 基于模式匹配的规则回复引擎
// 不依赖外部服务,任何情况下都能产出回复
type RuleEngine struct {
	memory *ConversationMemory

	mu  sync.Mutex
	rng *rand.Rand

	intents []compiledIntent
}

type compiledIntent struct {
	name     string
	patterns []*regexp.Regexp
}

// NewRuleEngine 创建规则引擎
// rng 可注入以便测试,传 nil 时使用默认随机源
func NewRuleEngine(memory *ConversationMemory, rng *rand.Rand) *RuleEngine {
	if memory == nil {
		memory = NewConversationMemory()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	engine := &RuleEngine{
		memory: memory,
		rng:    rng,
	}
	for _, group := range intentPatterns {
		compiled := compiledIntent{name: group.Name}
		for _, pattern := range group.Patterns {
			compiled.patterns = append(compiled.patterns, regexp.MustCompile(pattern))
		}
		engine.intents = append(engine.intents, compiled)
	}
	return engine
}

// normalizePattern 清洗输入,仅保留字母数字、空白、中文和常用标点
var normalizePattern = regexp.MustCompile(`[^\w\s\x{4e00}-\x{9fff}\?\!\.，。？！]`)

// whitespacePattern 连续空白
var whitespacePattern = regexp.MustCompile(`\s+`)

// normalize 输入预处理:转小写、压缩空白、去除杂字符
func normalize(query string) string {
	cleaned := strings.ToLower(strings.TrimSpace(query))
	cleaned = normalizePattern.ReplaceAllString(cleaned, "")
	cleaned = whitespacePattern.ReplaceAllString(cleaned, " ")
	return cleaned
}

// 兜底分类标签
const (
	IntentUnknown = "unknown"
	TopicGeneral  = "general"
)

// classifyIntent 意图识别,按声明顺序第一个命中的意图胜出
func (e *RuleEngine) classifyIntent(query string) string {
	for _, intent := range e.intents {
		for _, pattern := range intent.patterns {
			if pattern.MatchString(query) {
				return intent.name
			}
		}
	}
	return IntentUnknown
}

// classifyTopic 话题识别
// 关键词在全文出现记 2 分,作为某个分词片段的子串记 1 分,得分最高者胜出,同分取先声明者
func (e *RuleEngine) classifyTopic(query string) (string, *topicEntry) {
	tokens := strings.Fields(query)

	bestScore := 0
	var bestEntry *topicEntry
	for i := range knowledgeBase {
		entry := &knowledgeBase[i]
		score := 0
		for _, keyword := range entry.Keywords {
			if strings.Contains(query, keyword) {
				score += 2
				continue
			}
			for _, token := range tokens {
				if strings.Contains(token, keyword) {
					score++
					break
				}
			}
		}
		if score > bestScore {
			bestScore = score
			bestEntry = entry
		}
	}

	if bestEntry == nil {
		return TopicGeneral, nil
	}
	return bestEntry.Name, bestEntry
}

// pick 从候选回复中随机取一条
func (e *RuleEngine) pick(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return candidates[e.rng.Intn(len(candidates))]
}

// baseResponse 按话题优先、意图其次的顺序取基础回复
func (e *RuleEngine) baseResponse(intent string, entry *topicEntry) string {
	if entry != nil && len(entry.Responses) > 0 {
		return e.pick(entry.Responses)
	}
	if templates, ok := responseTemplates[intent]; ok {
		return e.pick(templates)
	}
	return e.pick(responseTemplates["default"])
}

// personalize 按用户背景追加个性化语句
// 技能水平语句只在学习类话题下追加,目标岗位语句按前端/后端关键词匹配
func personalize(response, topic string, userCtx *UserContext) string {
	if userCtx == nil {
		return response
	}

	var clauses []string
	if topic == "学习规划" || topic == "编程学习" {
		switch userCtx.SkillLevel {
		case "beginner":
			clauses = append(clauses, "考虑到你还在入门阶段，建议从基础知识开始，打好根基。")
		case "advanced":
			clauses = append(clauses, "以你目前的水平，可以挑战更有深度的内容。")
		}
	}
	switch {
	case strings.Contains(userCtx.TargetJob, "前端"):
		clauses = append(clauses, "针对前端方向，重点关注JavaScript生态和工程化能力。")
	case strings.Contains(userCtx.TargetJob, "后端"):
		clauses = append(clauses, "针对后端方向，重点关注系统设计和数据库能力。")
	}

	if len(clauses) == 0 {
		return response
	}
	return response + "\n\n" + strings.Join(clauses, "")
}

// buildSuggestions 组装后续建议,最多 4 条
func buildSuggestions(entry *topicEntry, userCtx *UserContext) []string {
	var suggestions []string
	if userCtx != nil {
		switch userCtx.SkillLevel {
		case "beginner":
			suggestions = append(suggestions, "从基础教程开始学习")
		case "advanced":
			suggestions = append(suggestions, "尝试进阶实战项目")
		}
	}
	if entry != nil {
		suggestions = append(suggestions, entry.Suggestions...)
	}
	if len(suggestions) > 4 {
		suggestions = suggestions[:4]
	}
	return suggestions
}

// confidence 规则回复的置信度
// 基线 0.5,识别出意图 +0.2,识别出话题 +0.2,命中知识库 +0.1,上限 0.9
func confidence(intent, topic string, entry *topicEntry) float64 {
	score := 0.5
	if intent != IntentUnknown {
		score += 0.2
	}
	if topic != TopicGeneral {
		score += 0.2
	}
	if entry != nil {
		score += 0.1
	}
	if score > 0.9 {
		score = 0.9
	}
	return score
}

// Respond 生成规则回复
// 内部异常时返回兜底道歉回复,绝不向调用方传播 panic
func (e *RuleEngine) Respond(userID uint, query string, userCtx *UserContext) (result *RuleResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Rule engine panic recovered: %v", r)
			result = &RuleResult{
				Content:    "抱歉，我暂时无法理解你的问题，请换个方式描述一下。",
				Confidence: 0.1,
				Source:     SourceRuleFallback,
			}
		}
	}()

	cleaned := normalize(query)

	intent := e.classifyIntent(cleaned)
	topic, entry := e.classifyTopic(cleaned)

	response := e.baseResponse(intent, entry)
	response = personalize(response, topic, userCtx)
	if advice, ok := adviceMap[topic]; ok {
		response += "\n\n💡 " + advice
	}

	result = &RuleResult{
		Content:     response,
		Confidence:  confidence(intent, topic, entry),
		Intent:      intent,
		Topic:       topic,
		Suggestions: buildSuggestions(entry, userCtx),
		Source:      SourceRuleBased,
	}

	e.memory.Record(userID, query, response)
	return result
}

// Memory 暴露会话记忆,供路由器提取最近话题
func (e *RuleEngine) Memory() *ConversationMemory {
	return e.memory
}
