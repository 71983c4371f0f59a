package model

// TriageQuery 伤情描述分类查询日志。分类本身由远端ML服务完成，
// 这里只记录输入文本与命中的主题
type TriageQuery struct {
	BaseModel
	UserID     uint    `gorm:"index;type:bigint unsigned" json:"userId"`
	Text       string  `gorm:"type:text;not null" json:"text"`
	Label      string  `gorm:"size:100" json:"label"`
	Confidence float64 `gorm:"default:0" json:"confidence"`
	TopicID    string  `gorm:"type:varchar(36)" json:"topicId"`
}

func (TriageQuery) TableName() string {
	return "triage_queries"
}
