package model

import "time"

// AwardOutcome 徽章授予结果
type AwardOutcome string

const (
	AwardGranted         AwardOutcome = "awarded"
	AwardAlreadyHeld     AwardOutcome = "already_held"
	AwardNoBadgeForTopic AwardOutcome = "no_badge_for_topic"
)

// Badge 主题徽章，每个主题零或一枚
type Badge struct {
	UUIDBase
	TopicID     string `gorm:"uniqueIndex;type:varchar(36);not null" json:"topicId"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Icon        string `gorm:"size:255" json:"icon"`
}

func (Badge) TableName() string {
	return "badges"
}

// BadgeAward 徽章授予记录。(user_id, badge_id) 唯一索引是防止重复授予的
// 最终保障，重试或并发提交都只能产生一条记录
type BadgeAward struct {
	BaseModel
	UserID   uint      `gorm:"uniqueIndex:uniq_user_badge;type:bigint unsigned;not null" json:"userId"`
	BadgeID  string    `gorm:"uniqueIndex:uniq_user_badge;type:varchar(36);not null" json:"badgeId"`
	TopicID  string    `gorm:"index;type:varchar(36);not null" json:"topicId"`
	ExamID   string    `gorm:"type:varchar(36);not null" json:"examId"`
	EarnedAt time.Time `json:"earnedAt"`
}

func (BadgeAward) TableName() string {
	return "badge_awards"
}
