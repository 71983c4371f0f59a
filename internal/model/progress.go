package model

import "time"

type LearningStatus string

const (
	LearningPending   LearningStatus = "pending"
	LearningCompleted LearningStatus = "completed"
)

type ExamStatus string

const (
	ExamPending ExamStatus = "pending"
	ExamTaken   ExamStatus = "taken"
	ExamPassed  ExamStatus = "passed"
)

// LearningProgress 学习进度，每个 (user, module) 唯一。
// 状态单调：一旦 completed 不会回退
type LearningProgress struct {
	BaseModel
	UserID      uint           `gorm:"uniqueIndex:uniq_user_module;type:bigint unsigned;not null" json:"userId"`
	ModuleID    string         `gorm:"uniqueIndex:uniq_user_module;type:varchar(36);not null" json:"moduleId"`
	Status      LearningStatus `gorm:"size:20;default:'pending'" json:"status"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
}

func (LearningProgress) TableName() string {
	return "learning_progress"
}

// ExamProgress 考试进度，每个 (user, exam) 唯一。passed 为终态
type ExamProgress struct {
	BaseModel
	UserID uint       `gorm:"uniqueIndex:uniq_user_exam;type:bigint unsigned;not null" json:"userId"`
	ExamID string     `gorm:"uniqueIndex:uniq_user_exam;type:varchar(36);not null" json:"examId"`
	Status ExamStatus `gorm:"size:20;default:'pending'" json:"status"`
	Score  int        `gorm:"default:0" json:"score"` // 0-100 百分比
}

func (ExamProgress) TableName() string {
	return "exam_progress"
}
