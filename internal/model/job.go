package model

import "time"

// Job 岗位模型
type Job struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title           string     `gorm:"not null;size:200" json:"title"`
	Company         string     `gorm:"not null;size:200" json:"company"`
	Location        string     `gorm:"size:100" json:"location"`
	SalaryRange     string     `gorm:"size:100" json:"salary_range"`
	Description     string     `gorm:"type:text" json:"description"`
	Requirements    string     `gorm:"type:text" json:"requirements"` // JSON 格式存储技能要求
	JobType         string     `gorm:"size:50" json:"job_type"`       // 全职、兼职、实习
	ExperienceLevel string     `gorm:"size:50" json:"experience_level"`
	SourceURL       string     `gorm:"size:500" json:"source_url"`
	PostedDate      *time.Time `json:"posted_date"`
	IsActive        bool       `gorm:"default:true;index" json:"is_active"`
}

// TableName 指定表名
func (Job) TableName() string {
	return "jobs"
}

// JobMatch 岗位匹配结果
type JobMatch struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID      uint       `gorm:"index;not null" json:"user_id"`
	JobID       uint       `gorm:"index;not null" json:"job_id"`
	MatchScore  float64    `json:"match_score"`                   // 匹配度分数 0-100
	SkillMatch  string     `gorm:"type:text" json:"skill_match"`  // JSON 格式存储技能匹配详情
	GapAnalysis string     `gorm:"type:text" json:"gap_analysis"` // JSON 格式存储技能差距分析
	IsApplied   bool       `gorm:"default:false" json:"is_applied"`
	AppliedDate *time.Time `json:"applied_date"`
}

// TableName 指定表名
func (JobMatch) TableName() string {
	return "job_matches"
}
