package model

import "time"

// Skill 技能模型
type Skill struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID      uint    `gorm:"index;not null" json:"user_id"`
	Name        string  `gorm:"not null;size:100" json:"name"`
	Category    string  `gorm:"size:50" json:"category"`               // 编程语言、框架、算法等
	Proficiency float64 `gorm:"default:0" json:"proficiency"`          // 0-100
	Source      string  `gorm:"size:50" json:"source"`                 // github/leetcode/manual
	Evidence    string  `gorm:"type:text" json:"evidence,omitempty"`   // JSON 格式存储证据
}

// TableName 指定表名
func (Skill) TableName() string {
	return "skills"
}

// SkillReport 技能分析报告
type SkillReport struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	GeneratedAt time.Time `gorm:"autoCreateTime" json:"generated_at"`

	UserID     uint   `gorm:"index;not null" json:"user_id"`
	ReportData string `gorm:"type:text" json:"report_data"` // JSON 格式存储完整报告
}

// TableName 指定表名
func (SkillReport) TableName() string {
	return "skill_reports"
}
