package database

import (
	"firstaid_backend/internal/config"
	"firstaid_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	return db, nil
}

// Migrate 建表并插入默认主题。BadgeAward 的 (user_id, badge_id) 唯一索引
// 由模型标签声明，是徽章幂等授予的数据库级保障
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Topic{},
		&model.LearningModule{},
		&model.Exam{},
		&model.ExamQuestion{},
		&model.Badge{},
		&model.LearningProgress{},
		&model.ExamProgress{},
		&model.BadgeAward{},
		&model.TriageQuery{},
	)
	if err != nil {
		return err
	}

	log.Println("Database migration completed")

	seedTopics(db)
	return nil
}

// 默认急救主题（空库时插入，方便首次部署演示）
func seedTopics(db *gorm.DB) {
	var count int64
	db.Model(&model.Topic{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []model.Topic{
		{Title: "烧烫伤", Description: "烧伤与烫伤的分级与现场处理", Order: 1},
		{Title: "气道异物梗阻", Description: "成人与婴幼儿海姆立克急救法", Order: 2},
		{Title: "心肺复苏", Description: "CPR 操作流程与 AED 使用", Order: 3},
		{Title: "外伤出血", Description: "止血、包扎与伤口处理", Order: 4},
	}
	for i := range defaults {
		db.Create(&defaults[i])
	}
}
