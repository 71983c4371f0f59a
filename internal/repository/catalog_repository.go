package repository

import (
	"errors"
	"firstaid_backend/internal/model"

	"gorm.io/gorm"
)

// CatalogRepository 目录数据：主题、学习模块、考试、题目、徽章。
// 进度核心只读目录，写操作仅供教员后台使用
type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

// ---- Topic ----

func (r *CatalogRepository) ListTopics() ([]model.Topic, error) {
	var topics []model.Topic
	err := r.DB.Order("`order` asc, created_at asc").Find(&topics).Error
	return topics, err
}

func (r *CatalogRepository) FindTopicByID(id string) (*model.Topic, error) {
	var topic model.Topic
	err := r.DB.Where("id = ?", id).First(&topic).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *CatalogRepository) CreateTopic(topic *model.Topic) error {
	return r.DB.Create(topic).Error
}

func (r *CatalogRepository) UpdateTopic(topic *model.Topic) error {
	return r.DB.Save(topic).Error
}

func (r *CatalogRepository) DeleteTopic(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.Topic{}).Error
}

// ---- LearningModule ----

// FindModuleByTopic 返回主题的学习模块，不存在时返回 (nil, nil)。
// 门控判定依赖这个"可以没有模块"的语义
func (r *CatalogRepository) FindModuleByTopic(topicID string) (*model.LearningModule, error) {
	var module model.LearningModule
	err := r.DB.Where("topic_id = ?", topicID).First(&module).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *CatalogRepository) FindModuleByID(id string) (*model.LearningModule, error) {
	var module model.LearningModule
	err := r.DB.Where("id = ?", id).First(&module).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *CatalogRepository) CreateModule(module *model.LearningModule) error {
	return r.DB.Create(module).Error
}

func (r *CatalogRepository) UpdateModule(module *model.LearningModule) error {
	return r.DB.Save(module).Error
}

// ---- Exam ----

// FindExamByID 带题目（按 order 排序）
func (r *CatalogRepository) FindExamByID(id string) (*model.Exam, error) {
	var exam model.Exam
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("exam_questions.`order` asc")
	}).Where("id = ?", id).First(&exam).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *CatalogRepository) FindExamByTopic(topicID string) (*model.Exam, error) {
	var exam model.Exam
	err := r.DB.Where("topic_id = ?", topicID).First(&exam).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *CatalogRepository) CreateExam(exam *model.Exam) error {
	return r.DB.Create(exam).Error
}

func (r *CatalogRepository) DeleteExam(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exam_id = ?", id).Delete(&model.ExamQuestion{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Exam{}).Error
	})
}

// ---- ExamQuestion ----

func (r *CatalogRepository) FindQuestionByID(id string) (*model.ExamQuestion, error) {
	var q model.ExamQuestion
	err := r.DB.Where("id = ?", id).First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *CatalogRepository) CreateQuestion(q *model.ExamQuestion) error {
	return r.DB.Create(q).Error
}

func (r *CatalogRepository) UpdateQuestion(q *model.ExamQuestion) error {
	return r.DB.Save(q).Error
}

func (r *CatalogRepository) DeleteQuestion(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.ExamQuestion{}).Error
}

// ---- Badge ----

// FindBadgeByTopic 主题徽章，很多主题没有徽章，(nil, nil) 是正常结果
func (r *CatalogRepository) FindBadgeByTopic(topicID string) (*model.Badge, error) {
	var badge model.Badge
	err := r.DB.Where("topic_id = ?", topicID).First(&badge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &badge, nil
}

func (r *CatalogRepository) FindBadgeByID(id string) (*model.Badge, error) {
	var badge model.Badge
	err := r.DB.Where("id = ?", id).First(&badge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &badge, nil
}

func (r *CatalogRepository) CreateBadge(badge *model.Badge) error {
	return r.DB.Create(badge).Error
}

func (r *CatalogRepository) UpdateBadge(badge *model.Badge) error {
	return r.DB.Save(badge).Error
}
