package model

import "encoding/json"

// Exam 主题考试，每个主题至多一个生效的试卷
type Exam struct {
	UUIDBase
	TopicID   string         `gorm:"uniqueIndex;type:varchar(36);not null" json:"topicId"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Questions []ExamQuestion `gorm:"foreignKey:ExamID" json:"questions,omitempty"`
}

func (Exam) TableName() string {
	return "exams"
}

// ExamQuestion 考试题目。Distractors 为干扰项列表（JSON 数组），至少一项
type ExamQuestion struct {
	UUIDBase
	ExamID        string          `gorm:"index;type:varchar(36);not null" json:"examId"`
	Prompt        string          `gorm:"type:text;not null" json:"prompt"`
	CorrectAnswer string          `gorm:"type:text;not null" json:"-"`
	Distractors   json.RawMessage `gorm:"type:json" json:"-"`
	Order         int             `gorm:"default:0" json:"order"`
}

func (ExamQuestion) TableName() string {
	return "exam_questions"
}

// DistractorList 解析干扰项，损坏的JSON按空列表处理
func (q *ExamQuestion) DistractorList() []string {
	var out []string
	if len(q.Distractors) == 0 {
		return out
	}
	_ = json.Unmarshal(q.Distractors, &out)
	return out
}
