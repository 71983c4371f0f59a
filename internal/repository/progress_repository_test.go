package repository

import (
	"fmt"
	"testing"

	"firstaid_backend/internal/model"
	"firstaid_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", model.GenerateUUID())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.LearningProgress{},
		&model.ExamProgress{},
		&model.BadgeAward{},
	)
	require.NoError(t, err)

	return db
}

func TestSetLearningCompletedMonotonic(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))
	userID, moduleID := uint(1), model.GenerateUUID()

	lp, err := repo.GetLearningProgress(userID, moduleID)
	require.NoError(t, err)
	assert.Nil(t, lp)

	lp, err = repo.SetLearningCompleted(userID, moduleID)
	require.NoError(t, err)
	require.NotNil(t, lp)
	assert.Equal(t, model.LearningCompleted, lp.Status)
	require.NotNil(t, lp.CompletedAt)
	first := *lp.CompletedAt

	lp, err = repo.SetLearningCompleted(userID, moduleID)
	require.NoError(t, err)
	assert.Equal(t, first, *lp.CompletedAt)
}

func TestUpdateExamProgressInsertPath(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))
	userID, examID := uint(1), model.GenerateUUID()

	ep, err := repo.UpdateExamProgress(userID, examID, model.ExamPending, model.ExamTaken, 50)
	require.NoError(t, err)
	assert.Equal(t, model.ExamTaken, ep.Status)
	assert.Equal(t, 50, ep.Score)
}

func TestUpdateExamProgressConditionalWrite(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))
	userID, examID := uint(1), model.GenerateUUID()

	_, err := repo.UpdateExamProgress(userID, examID, model.ExamPending, model.ExamTaken, 50)
	require.NoError(t, err)

	// 期望前置状态不匹配：记录已是 taken，按 pending 写入被拒
	_, err = repo.UpdateExamProgress(userID, examID, model.ExamPending, model.ExamPassed, 100)
	assert.ErrorIs(t, err, util.ErrWriteConflict)

	// 按真实前置状态写入成功
	ep, err := repo.UpdateExamProgress(userID, examID, model.ExamTaken, model.ExamPassed, 100)
	require.NoError(t, err)
	assert.Equal(t, model.ExamPassed, ep.Status)
	assert.Equal(t, 100, ep.Score)

	// 终态后任何期望为 taken/pending 的写入都失败
	_, err = repo.UpdateExamProgress(userID, examID, model.ExamTaken, model.ExamTaken, 0)
	assert.ErrorIs(t, err, util.ErrWriteConflict)
}

func TestUpdateExamProgressKeepsUsersApart(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))
	examID := model.GenerateUUID()

	_, err := repo.UpdateExamProgress(1, examID, model.ExamPending, model.ExamPassed, 100)
	require.NoError(t, err)

	ep, err := repo.GetExamProgress(2, examID)
	require.NoError(t, err)
	assert.Nil(t, ep)
}

func TestCreateBadgeAwardIfAbsent(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))
	userID, badgeID := uint(1), model.GenerateUUID()

	award := &model.BadgeAward{UserID: userID, BadgeID: badgeID, TopicID: model.GenerateUUID(), ExamID: model.GenerateUUID()}
	outcome, err := repo.CreateBadgeAwardIfAbsent(award)
	require.NoError(t, err)
	assert.Equal(t, model.AwardGranted, outcome)
	assert.False(t, award.EarnedAt.IsZero())

	// 同 (user, badge) 再插 -> already_held，且记录数不变
	dup := &model.BadgeAward{UserID: userID, BadgeID: badgeID, TopicID: award.TopicID, ExamID: award.ExamID}
	outcome, err = repo.CreateBadgeAwardIfAbsent(dup)
	require.NoError(t, err)
	assert.Equal(t, model.AwardAlreadyHeld, outcome)

	var count int64
	require.NoError(t, repo.DB.Model(&model.BadgeAward{}).
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// 不同徽章互不冲突
	other := &model.BadgeAward{UserID: userID, BadgeID: model.GenerateUUID(), TopicID: model.GenerateUUID(), ExamID: model.GenerateUUID()}
	outcome, err = repo.CreateBadgeAwardIfAbsent(other)
	require.NoError(t, err)
	assert.Equal(t, model.AwardGranted, outcome)
}

func TestGetOverviewCounts(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))
	userID := uint(1)

	_, err := repo.SetLearningCompleted(userID, model.GenerateUUID())
	require.NoError(t, err)
	_, err = repo.SetLearningCompleted(userID, model.GenerateUUID())
	require.NoError(t, err)

	_, err = repo.UpdateExamProgress(userID, model.GenerateUUID(), model.ExamPending, model.ExamPassed, 100)
	require.NoError(t, err)
	// taken 不计入通过数
	_, err = repo.UpdateExamProgress(userID, model.GenerateUUID(), model.ExamPending, model.ExamTaken, 50)
	require.NoError(t, err)

	_, err = repo.CreateBadgeAwardIfAbsent(&model.BadgeAward{UserID: userID, BadgeID: model.GenerateUUID(), TopicID: model.GenerateUUID(), ExamID: model.GenerateUUID()})
	require.NoError(t, err)

	overview, err := repo.GetOverview(userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), overview.ModulesCompleted)
	assert.Equal(t, int64(1), overview.ExamsPassed)
	assert.Equal(t, int64(1), overview.BadgesHeld)
}

func TestListPassedExams(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))
	userID := uint(1)

	passedID := model.GenerateUUID()
	_, err := repo.UpdateExamProgress(userID, passedID, model.ExamPending, model.ExamPassed, 100)
	require.NoError(t, err)
	_, err = repo.UpdateExamProgress(userID, model.GenerateUUID(), model.ExamPending, model.ExamTaken, 50)
	require.NoError(t, err)

	passed, err := repo.ListPassedExams(userID)
	require.NoError(t, err)
	require.Len(t, passed, 1)
	assert.Equal(t, passedID, passed[0].ExamID)
}
