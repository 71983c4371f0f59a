package service

import (
	"encoding/json"
	"fmt"
	"testing"

	"firstaid_backend/internal/model"
	"firstaid_backend/internal/repository"
	"firstaid_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", model.GenerateUUID())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.Topic{},
		&model.LearningModule{},
		&model.Exam{},
		&model.ExamQuestion{},
		&model.Badge{},
		&model.LearningProgress{},
		&model.ExamProgress{},
		&model.BadgeAward{},
	)
	require.NoError(t, err)

	return db
}

type testFixture struct {
	db       *gorm.DB
	catalog  *repository.CatalogRepository
	progress *repository.ProgressRepository
	badges   *BadgeService
	svc      *ProgressService

	topic  *model.Topic
	module *model.LearningModule
	exam   *model.Exam
	badge  *model.Badge
}

// newFixture 搭一套完整主题：学习模块 + 两道题的考试 + 主题徽章
func newFixture(t *testing.T) *testFixture {
	t.Helper()

	db := newTestDB(t)
	catalog := repository.NewCatalogRepository(db)
	progress := repository.NewProgressRepository(db)
	badges := NewBadgeService(catalog, progress, nil)
	svc := NewProgressService(catalog, progress, badges, nil)

	topic := &model.Topic{Title: "心肺复苏", Order: 1}
	require.NoError(t, db.Create(topic).Error)

	module := &model.LearningModule{TopicID: topic.ID, Title: "CPR基础", Content: "..."}
	require.NoError(t, db.Create(module).Error)

	exam := &model.Exam{TopicID: topic.ID, Title: "CPR测验"}
	require.NoError(t, db.Create(exam).Error)

	questions := []model.ExamQuestion{
		{ExamID: exam.ID, Prompt: "按压频率？", CorrectAnswer: "每分钟100-120次", Distractors: mustJSON(t, []string{"每分钟60次", "越快越好"}), Order: 1},
		{ExamID: exam.ID, Prompt: "按压深度？", CorrectAnswer: "5-6厘米", Distractors: mustJSON(t, []string{"2厘米", "10厘米"}), Order: 2},
	}
	for i := range questions {
		require.NoError(t, db.Create(&questions[i]).Error)
	}

	badge := &model.Badge{TopicID: topic.ID, Name: "急救先锋"}
	require.NoError(t, db.Create(badge).Error)

	loaded, err := catalog.FindExamByID(exam.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	return &testFixture{
		db:       db,
		catalog:  catalog,
		progress: progress,
		badges:   badges,
		svc:      svc,
		topic:    topic,
		module:   module,
		exam:     loaded,
		badge:    badge,
	}
}

func mustJSON(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

// correctAnswers 全对的答卷
func (f *testFixture) correctAnswers() map[string]string {
	out := make(map[string]string, len(f.exam.Questions))
	for _, q := range f.exam.Questions {
		out[q.ID] = q.CorrectAnswer
	}
	return out
}

// wrongAnswers 错 wrong 题、其余全对的答卷
func (f *testFixture) wrongAnswers(wrong int) map[string]string {
	out := f.correctAnswers()
	for _, q := range f.exam.Questions {
		if wrong == 0 {
			break
		}
		out[q.ID] = q.CorrectAnswer + " (错)"
		wrong--
	}
	return out
}

func (f *testFixture) completeModule(t *testing.T, userID uint) {
	t.Helper()
	_, err := f.svc.CompleteLearning(userID, f.module.ID)
	require.NoError(t, err)
}
