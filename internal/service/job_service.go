package service

import (
	"encoding/json"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/spidersno1/job-accelerator/internal/database"
	"github.com/spidersno1/job-accelerator/internal/model"
)

// matchCategoryWeights 岗位匹配时各技能分类的权重
var matchCategoryWeights = map[string]float64{
	"编程语言": 0.3,
	"框架":   0.25,
	"算法":   0.2,
	"数据结构": 0.15,
	"工具":   0.1,
}

// defaultMatchWeight 未知分类的匹配权重
const defaultMatchWeight = 0.1

// JobService 岗位服务
type JobService struct {
	db *gorm.DB
}

// NewJobService 创建岗位服务实例
func NewJobService() *JobService {
	return &JobService{
		db: database.GetDB(),
	}
}

// CreateJob 创建岗位
func (s *JobService) CreateJob(job *model.Job) error {
	return s.db.Create(job).Error
}

// GetJob 获取岗位
func (s *JobService) GetJob(id uint) (*model.Job, error) {
	var job model.Job
	if err := s.db.First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// ListJobs 分页列出在招岗位
func (s *JobService) ListJobs(pageNum, pageSize int) ([]model.Job, int64, error) {
	if pageNum < 1 {
		pageNum = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var total int64
	if err := s.db.Model(&model.Job{}).Where("is_active = ?", true).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []model.Job
	err := s.db.Where("is_active = ?", true).
		Order("created_at DESC").
		Offset((pageNum - 1) * pageSize).
		Limit(pageSize).
		Find(&jobs).Error
	return jobs, total, err
}

// DeactivateJob 下架岗位
func (s *JobService) DeactivateJob(id uint) error {
	return s.db.Model(&model.Job{}).Where("id = ?", id).Update("is_active", false).Error
}

// SkillMatchDetail 单项技能的匹配详情
type SkillMatchDetail struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Required float64 `json:"required"`
	Actual   float64 `json:"actual"`
	Matched  bool    `json:"matched"`
}

// MatchResult 岗位匹配结果
type MatchResult struct {
	JobID      uint               `json:"job_id"`
	MatchScore float64            `json:"match_score"` // 0-100
	Details    []SkillMatchDetail `json:"details"`
	Gaps       []string           `json:"gaps"` // 需要补强的技能
}

// jobRequirement 岗位要求的单项技能,Requirements 字段的 JSON 结构
type jobRequirement struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Level    float64 `json:"level"` // 0-100 期望熟练度
}

// MatchUser 计算用户与岗位的匹配度并持久化
func (s *JobService) MatchUser(userID, jobID uint, skills []model.Skill) (*MatchResult, error) {
	job, err := s.GetJob(jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, gorm.ErrRecordNotFound
	}

	var requirements []jobRequirement
	if job.Requirements != "" {
		if err := json.Unmarshal([]byte(job.Requirements), &requirements); err != nil {
			return nil, err
		}
	}

	result := scoreMatch(jobID, requirements, skills)

	skillMatch, _ := json.Marshal(result.Details)
	gapAnalysis, _ := json.Marshal(result.Gaps)
	match := &model.JobMatch{
		UserID:      userID,
		JobID:       jobID,
		MatchScore:  result.MatchScore,
		SkillMatch:  string(skillMatch),
		GapAnalysis: string(gapAnalysis),
	}
	if err := s.db.Create(match).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// Recommendations 对所有在招岗位打分,返回匹配度最高的 N 个
func (s *JobService) Recommendations(userID uint, skills []model.Skill, limit int) ([]MatchResult, error) {
	if limit <= 0 {
		limit = 5
	}

	var jobs []model.Job
	if err := s.db.Where("is_active = ?", true).Find(&jobs).Error; err != nil {
		return nil, err
	}

	results := make([]MatchResult, 0, len(jobs))
	for _, job := range jobs {
		var requirements []jobRequirement
		if job.Requirements != "" {
			if err := json.Unmarshal([]byte(job.Requirements), &requirements); err != nil {
				continue // 跳过要求数据损坏的岗位
			}
		}
		results = append(results, *scoreMatch(job.ID, requirements, skills))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// MarkApplied 标记岗位已投递
func (s *JobService) MarkApplied(userID, jobID uint) error {
	now := time.Now()
	return s.db.Model(&model.JobMatch{}).
		Where("user_id = ? AND job_id = ?", userID, jobID).
		Updates(map[string]any{
			"is_applied":   true,
			"applied_date": &now,
		}).Error
}

// scoreMatch 分类加权的匹配打分
// 每项要求按用户实际熟练度与期望值的比值得分,按分类权重加权汇总
func scoreMatch(jobID uint, requirements []jobRequirement, skills []model.Skill) *MatchResult {
	result := &MatchResult{JobID: jobID}

	if len(requirements) == 0 {
		// 没有结构化要求时给中性分
		result.MatchScore = 50
		return result
	}

	skillByName := make(map[string]model.Skill, len(skills))
	for _, skill := range skills {
		skillByName[skill.Name] = skill
	}

	var weightedSum, weightSum float64
	for _, req := range requirements {
		weight, ok := matchCategoryWeights[req.Category]
		if !ok {
			weight = defaultMatchWeight
		}

		expected := req.Level
		if expected <= 0 {
			expected = 60
		}

		detail := SkillMatchDetail{
			Name:     req.Name,
			Category: req.Category,
			Required: expected,
		}
		if skill, ok := skillByName[req.Name]; ok {
			detail.Actual = skill.Proficiency
			ratio := skill.Proficiency / expected
			if ratio > 1 {
				ratio = 1
			}
			detail.Matched = skill.Proficiency >= expected
			weightedSum += ratio * weight
		}
		weightSum += weight

		if !detail.Matched {
			result.Gaps = append(result.Gaps, req.Name)
		}
		result.Details = append(result.Details, detail)
	}

	if weightSum > 0 {
		result.MatchScore = weightedSum / weightSum * 100
	}
	return result
}
