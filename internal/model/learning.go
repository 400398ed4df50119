package model

import "time"

// LearningPath 学习路径
type LearningPath struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID            uint   `gorm:"index;not null" json:"user_id"`
	TargetRole        string `gorm:"not null;size:100" json:"target_role"`
	Name              string `gorm:"not null;size:200" json:"name"`
	Description       string `gorm:"type:text" json:"description"`
	EstimatedDuration int    `json:"estimated_duration"`            // 预计天数
	CurrentProgress   int    `gorm:"default:0" json:"current_progress"` // 进度百分比
	IsActive          bool   `gorm:"default:true" json:"is_active"`
}

// TableName 指定表名
func (LearningPath) TableName() string {
	return "learning_paths"
}

// LearningTask 学习任务
type LearningTask struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	LearningPathID uint       `gorm:"index;not null" json:"learning_path_id"`
	Name           string     `gorm:"not null;size:200" json:"name"`
	Description    string     `gorm:"type:text" json:"description"`
	TaskType       string     `gorm:"size:50" json:"task_type"` // 学习、练习、项目等
	Difficulty     string     `gorm:"size:20" json:"difficulty"`
	EstimatedHours int        `json:"estimated_hours"`
	Resources      string     `gorm:"type:text" json:"resources"` // JSON 格式存储资源链接
	IsCompleted    bool       `gorm:"default:false" json:"is_completed"`
	CompletedAt    *time.Time `json:"completed_at"`
	OrderIndex     int        `json:"order_index"` // 任务顺序
}

// TableName 指定表名
func (LearningTask) TableName() string {
	return "learning_tasks"
}
