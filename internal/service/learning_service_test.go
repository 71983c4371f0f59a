package service

import (
	"context"
	"testing"

	"firstaid_backend/internal/model"
	"firstaid_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTopicsWithStatusFullCycle(t *testing.T) {
	f := newFixture(t)
	svc := NewLearningService(f.catalog, f.progress)
	userID := uint(1)

	// 初始：模块未完成，考试锁定，徽章未获得
	statuses, err := svc.GetTopicsWithStatus(userID)
	require.NoError(t, err)
	require.Len(t, statuses, 1)

	st := statuses[0]
	assert.Equal(t, f.topic.ID, st.Topic.ID)
	require.NotNil(t, st.Module)
	assert.Equal(t, model.LearningPending, st.ModuleStatus)
	assert.Equal(t, f.exam.ID, st.ExamID)
	assert.False(t, st.ExamUnlocked)
	assert.True(t, st.HasBadge)
	assert.False(t, st.BadgeEarned)

	// 完成模块后考试解锁
	f.completeModule(t, userID)
	statuses, err = svc.GetTopicsWithStatus(userID)
	require.NoError(t, err)
	st = statuses[0]
	assert.Equal(t, model.LearningCompleted, st.ModuleStatus)
	assert.True(t, st.ExamUnlocked)
	assert.Equal(t, model.ExamPending, st.ExamStatus)

	// 通过考试后徽章达成
	_, err = f.svc.SubmitExam(context.Background(), userID, f.exam.ID, f.correctAnswers())
	require.NoError(t, err)

	statuses, err = svc.GetTopicsWithStatus(userID)
	require.NoError(t, err)
	st = statuses[0]
	assert.Equal(t, model.ExamPassed, st.ExamStatus)
	assert.Equal(t, 100, st.ExamScore)
	assert.True(t, st.BadgeEarned)
}

func TestGetTopicsWithStatusNoModuleTopic(t *testing.T) {
	f := newFixture(t)
	svc := NewLearningService(f.catalog, f.progress)

	topic := &model.Topic{Title: "中暑处理", Order: 2}
	require.NoError(t, f.db.Create(topic).Error)
	exam := &model.Exam{TopicID: topic.ID, Title: "中暑测验"}
	require.NoError(t, f.db.Create(exam).Error)

	statuses, err := svc.GetTopicsWithStatus(1)
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	// 无模块主题的考试直接解锁
	st := statuses[1]
	assert.Nil(t, st.Module)
	assert.True(t, st.ExamUnlocked)
	assert.False(t, st.HasBadge)
}

func TestGetModuleDetail(t *testing.T) {
	f := newFixture(t)
	svc := NewLearningService(f.catalog, f.progress)
	userID := uint(1)

	module, lp, err := svc.GetModuleDetail(userID, f.module.ID)
	require.NoError(t, err)
	assert.Equal(t, f.module.ID, module.ID)
	assert.Nil(t, lp)

	f.completeModule(t, userID)

	_, lp, err = svc.GetModuleDetail(userID, f.module.ID)
	require.NoError(t, err)
	require.NotNil(t, lp)
	assert.Equal(t, model.LearningCompleted, lp.Status)

	_, _, err = svc.GetModuleDetail(userID, "no-such-module")
	assert.ErrorIs(t, err, util.ErrModuleNotFound)
}
