package agent

// topicEntry 单个话题的知识库条目
type topicEntry struct {
	Name        string
	Keywords    []string
	Responses   []string
	Suggestions []string
}

// knowledgeBase 话题知识库
// 顺序即话题得分相同时的胜出顺序
var knowledgeBase = []topicEntry{
	{
		Name:     "技能分析",
		Keywords: []string{"技能", "能力", "水平", "分析", "评估", "skill", "ability"},
		Responses: []string{
			"根据你的GitHub和LeetCode数据，我可以为你分析技能水平。",
			"技能分析可以帮助你了解自己的优势和不足。",
			"建议你先完成技能分析，然后制定学习计划。",
			"我可以从多个维度评估你的技术能力：编程语言、算法能力、项目经验等。",
		},
		Suggestions: []string{
			"查看技能分析报告",
			"上传代码进行分析",
			"连接GitHub账号",
			"输入LeetCode用户名",
		},
	},
	{
		Name:     "学习规划",
		Keywords: []string{"学习", "计划", "路径", "规划", "提升", "learning", "plan", "study"},
		Responses: []string{
			"我可以根据你的目标制定个性化学习路径。",
			"学习计划应该循序渐进，建议从基础开始。",
			"每日坚持学习1-2小时，效果会更好。",
			"根据你的技能水平和目标岗位，我会推荐最适合的学习资源。",
		},
		Suggestions: []string{
			"生成学习路径",
			"设定学习目标",
			"查看推荐资源",
			"制定学习计划",
		},
	},
	{
		Name:     "求职指导",
		Keywords: []string{"求职", "面试", "简历", "工作", "岗位", "job", "interview", "resume"},
		Responses: []string{
			"求职前建议先完善技能，提高竞争力。",
			"简历要突出项目经验和技术能力。",
			"面试时要展现你的学习能力和解决问题的思路。",
			"我可以帮你分析岗位要求，匹配你的技能水平。",
		},
		Suggestions: []string{
			"分析简历",
			"岗位匹配",
			"面试准备",
			"技能提升建议",
		},
	},
	{
		Name:     "编程学习",
		Keywords: []string{"编程", "代码", "算法", "开发", "语言", "programming", "code", "algorithm"},
		Responses: []string{
			"编程学习要理论结合实践，多写项目。",
			"建议从一门语言开始，深入学习后再扩展。",
			"LeetCode刷题可以提高算法思维。",
			"项目经验比单纯的理论学习更重要。",
		},
		Suggestions: []string{
			"选择编程语言",
			"制定练习计划",
			"推荐学习资源",
			"项目实战指导",
		},
	},
	{
		Name:     "职业发展",
		Keywords: []string{"职业", "发展", "晋升", "转行", "career", "development"},
		Responses: []string{
			"职业发展需要明确目标和持续学习。",
			"技术岗位要保持技术敏感度，关注行业趋势。",
			"软技能和硬技能同样重要。",
			"建议制定3-5年的职业规划。",
		},
		Suggestions: []string{
			"职业规划",
			"技能提升",
			"行业分析",
			"发展建议",
		},
	},
	{
		Name:     "项目经验",
		Keywords: []string{"项目", "经验", "作品", "portfolio", "project"},
		Responses: []string{
			"项目经验是技术能力的最好证明。",
			"建议从小项目开始，逐步增加复杂度。",
			"开源项目是很好的学习和展示平台。",
			"项目要有完整的文档和演示。",
		},
		Suggestions: []string{
			"项目创意",
			"技术选型",
			"项目管理",
			"作品展示",
		},
	},
}

// intentPatterns 意图识别模式,按声明顺序匹配,先命中先赢
var intentPatterns = []struct {
	Name     string
	Patterns []string
}{
	{
		Name: "greeting",
		Patterns: []string{
			`你好|hi|hello|嗨|您好`,
			`早上好|下午好|晚上好|morning|afternoon|evening`,
			`在吗|在不在|are you there`,
		},
	},
	{
		Name: "question",
		Patterns: []string{
			`.*\?|.*？`,
			`怎么.*|如何.*|什么.*|为什么.*|为啥.*`,
			`how.*|what.*|why.*|when.*|where.*`,
		},
	},
	{
		Name: "request",
		Patterns: []string{
			`帮我.*|给我.*|我想.*|请.*`,
			`可以.*吗|能.*吗|能否.*`,
			`help.*|please.*|can you.*`,
		},
	},
	{
		Name: "complaint",
		Patterns: []string{
			`不好|不行|有问题|bug|错误`,
			`慢|卡|不工作|failed|error`,
			`没用|不对|wrong`,
		},
	},
	{
		Name: "praise",
		Patterns: []string{
			`好的|不错|很好|棒|excellent|good|great`,
			`谢谢|感谢|thank you|thanks`,
			`有用|有帮助|helpful`,
		},
	},
}

// responseTemplates 意图回复模板
var responseTemplates = map[string][]string{
	"greeting": {
		"你好！我是小智，你的AI学习助手。有什么可以帮助你的吗？",
		"嗨！很高兴为你服务，我可以帮你规划学习路径和职业发展。",
		"你好！我可以协助你进行技能分析、学习规划和求职指导。",
		"欢迎！我是专业的程序员求职助手，随时为你答疑解惑。",
	},
	"question": {
		"这是个很好的问题！让我为你分析一下...",
		"根据我的理解，这个问题可以从几个角度来看...",
		"我来帮你解答这个问题。",
		"让我基于我的知识为你详细解释...",
	},
	"request": {
		"当然可以！我很乐意帮助你。",
		"没问题，我来协助你完成这个任务。",
		"我会尽力帮助你实现这个目标。",
		"好的，让我为你提供详细的指导。",
	},
	"complaint": {
		"抱歉给你带来了困扰，让我帮你解决这个问题。",
		"我理解你的困难，让我们一起找到解决方案。",
		"感谢你的反馈，我会努力改进。",
		"让我帮你分析问题所在，找到更好的解决办法。",
	},
	"praise": {
		"谢谢你的认可！我会继续努力帮助你。",
		"很高兴能帮到你！还有其他需要协助的吗？",
		"感谢你的反馈！有任何问题随时找我。",
		"能够帮助你我很开心！继续加油！",
	},
	"default": {
		"我理解你的意思，让我为你提供一些建议。",
		"基于你的情况，我建议你可以考虑以下几点。",
		"这确实是个值得思考的问题。",
		"让我根据我的知识为你提供一些想法。",
	},
}

// adviceMap 按话题追加的固定建议
var adviceMap = map[string]string{
	"技能分析": "你可以通过GitHub分析、LeetCode分析等功能来全面了解自己的技能水平。",
	"学习规划": "建议设定明确的学习目标，制定详细的时间计划，并定期评估学习效果。",
	"求职指导": "完善你的技术简历，准备技术面试，关注目标公司的技术栈要求。",
	"编程学习": "推荐采用项目驱动的学习方式，在实践中掌握编程技能。",
	"职业发展": "持续关注行业趋势，培养核心竞争力，建立专业人脉网络。",
}
