package model

// Topic 急救主题（如"烧伤"、"气道异物"），目录数据，本服务只读不改其归属关系
type Topic struct {
	UUIDBase
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Icon        string `gorm:"size:255" json:"icon"`
	Order       int    `gorm:"default:0" json:"order"`
}

func (Topic) TableName() string {
	return "topics"
}

// LearningModule 主题下的学习模块，每个主题至多一个
type LearningModule struct {
	UUIDBase
	TopicID       string  `gorm:"uniqueIndex;type:varchar(36);not null" json:"topicId"`
	Title         string  `gorm:"size:255;not null" json:"title"`
	Content       string  `gorm:"type:text" json:"content"`
	VideoURL      string  `gorm:"size:255" json:"videoUrl"`
	VideoDuration float64 `gorm:"default:0" json:"videoDuration"` // 秒
}

func (LearningModule) TableName() string {
	return "learning_modules"
}
