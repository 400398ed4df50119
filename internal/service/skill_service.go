package service

import (
	"encoding/json"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/spidersno1/job-accelerator/internal/agent"
	"github.com/spidersno1/job-accelerator/internal/database"
	"github.com/spidersno1/job-accelerator/internal/model"
)

// categoryWeights 技能分类权重,算法和数据结构在技术面试中占比更高
var categoryWeights = map[string]float64{
	"算法":   1.5,
	"数据结构": 1.5,
	"编程语言": 1.2,
	"框架":   1.0,
}

// LeetCode 题目难度对应的能力分
var leetcodeDifficultyScores = map[string]float64{
	"easy":   1,
	"medium": 3,
	"hard":   6,
}

// SkillService 技能服务
type SkillService struct {
	db *gorm.DB
}

// NewSkillService 创建技能服务实例
func NewSkillService() *SkillService {
	return &SkillService{
		db: database.GetDB(),
	}
}

// UpsertSkill 录入或更新技能,按 (用户, 技能名) 去重
func (s *SkillService) UpsertSkill(userID uint, name, category string, proficiency float64, source, evidence string) (*model.Skill, error) {
	if proficiency < 0 {
		proficiency = 0
	}
	if proficiency > 100 {
		proficiency = 100
	}

	var skill model.Skill
	err := s.db.Where("user_id = ? AND name = ?", userID, name).First(&skill).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	skill.UserID = userID
	skill.Name = name
	skill.Category = category
	skill.Proficiency = proficiency
	skill.Source = source
	skill.Evidence = evidence
	if err := s.db.Save(&skill).Error; err != nil {
		return nil, err
	}
	return &skill, nil
}

// ListSkills 列出用户技能,按熟练度降序
func (s *SkillService) ListSkills(userID uint) ([]model.Skill, error) {
	var skills []model.Skill
	err := s.db.Where("user_id = ?", userID).
		Order("proficiency DESC").
		Find(&skills).Error
	return skills, err
}

// DeleteSkill 删除技能
func (s *SkillService) DeleteSkill(userID, skillID uint) error {
	return s.db.Where("user_id = ?", userID).Delete(&model.Skill{}, skillID).Error
}

// SkillReportData 技能分析报告内容
type SkillReportData struct {
	OverallScore float64            `json:"overall_score"` // 0-100 加权平均
	SkillLevel   string             `json:"skill_level"`   // beginner/intermediate/advanced
	TopSkills    []model.Skill      `json:"top_skills"`    // 最多 5 项
	Categories   map[string]float64 `json:"categories"`    // 分类平均分
	Strengths    []string           `json:"strengths"`
	Weaknesses   []string           `json:"weaknesses"`
	SkillCount   int                `json:"skill_count"`
	GeneratedAt  time.Time          `json:"generated_at"`
}

// GenerateReport 生成技能分析报告并持久化
func (s *SkillService) GenerateReport(userID uint) (*SkillReportData, error) {
	skills, err := s.ListSkills(userID)
	if err != nil {
		return nil, err
	}

	report := &SkillReportData{
		Categories:  map[string]float64{},
		SkillCount:  len(skills),
		GeneratedAt: time.Now(),
	}

	if len(skills) > 0 {
		report.OverallScore = weightedScore(skills)
		report.TopSkills = skills
		if len(report.TopSkills) > 5 {
			report.TopSkills = report.TopSkills[:5]
		}
		report.Categories = categoryAverages(skills)

		for _, skill := range skills {
			if skill.Proficiency >= 80 {
				report.Strengths = append(report.Strengths, skill.Name)
			} else if skill.Proficiency < 50 {
				report.Weaknesses = append(report.Weaknesses, skill.Name)
			}
		}
	}
	report.SkillLevel = skillLevelFor(report.OverallScore)

	data, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}
	row := &model.SkillReport{UserID: userID, ReportData: string(data)}
	if err := s.db.Create(row).Error; err != nil {
		return nil, err
	}
	return report, nil
}

// LatestReport 获取最近一份报告
func (s *SkillService) LatestReport(userID uint) (*model.SkillReport, error) {
	var report model.SkillReport
	err := s.db.Where("user_id = ?", userID).
		Order("generated_at DESC").
		First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

// ScoreLeetcode 根据 LeetCode 解题记录计算算法能力分并落库
// 难度加权求和,通过率高于 60% 有质量加成,封顶 100
func (s *SkillService) ScoreLeetcode(userID uint, easy, medium, hard int, acceptanceRate float64) (*model.Skill, error) {
	score := float64(easy)*leetcodeDifficultyScores["easy"] +
		float64(medium)*leetcodeDifficultyScores["medium"] +
		float64(hard)*leetcodeDifficultyScores["hard"]

	// 粗粒度压缩:500 加权题量对应满分
	proficiency := score / 5
	if acceptanceRate > 0.6 {
		proficiency *= 1.1
	}
	if proficiency > 100 {
		proficiency = 100
	}

	evidence, _ := json.Marshal(map[string]any{
		"easy":            easy,
		"medium":          medium,
		"hard":            hard,
		"acceptance_rate": acceptanceRate,
	})
	return s.UpsertSkill(userID, "算法能力", "算法", proficiency, "leetcode", string(evidence))
}

// weightedScore 分类加权平均分
func weightedScore(skills []model.Skill) float64 {
	var weightedSum, weightSum float64
	for _, skill := range skills {
		weight, ok := categoryWeights[skill.Category]
		if !ok {
			weight = 1.0
		}
		weightedSum += skill.Proficiency * weight
		weightSum += weight
	}
	if weightSum == 0 {
		return 0
	}
	return weightedSum / weightSum
}

// categoryAverages 各分类的平均熟练度
func categoryAverages(skills []model.Skill) map[string]float64 {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, skill := range skills {
		category := skill.Category
		if category == "" {
			category = "其他"
		}
		sums[category] += skill.Proficiency
		counts[category]++
	}

	averages := make(map[string]float64, len(sums))
	for category, sum := range sums {
		averages[category] = sum / float64(counts[category])
	}
	return averages
}

// skillLevelFor 按加权平均分分档,阈值定义在 agent 包
func skillLevelFor(score float64) string {
	return agent.SkillLevelFor(score)
}

// TopSkillNames 最高的 N 项技能名
func TopSkillNames(skills []model.Skill, n int) []string {
	sorted := make([]model.Skill, len(skills))
	copy(sorted, skills)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Proficiency > sorted[j].Proficiency
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	names := make([]string, 0, len(sorted))
	for _, skill := range sorted {
		names = append(names, skill.Name)
	}
	return names
}
