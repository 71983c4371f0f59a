package service

import (
	"context"
	"testing"

	"firstaid_backend/internal/model"
	"firstaid_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteLearningIdempotent(t *testing.T) {
	f := newFixture(t)
	userID := uint(1)

	lp, err := f.svc.CompleteLearning(userID, f.module.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LearningCompleted, lp.Status)
	require.NotNil(t, lp.CompletedAt)
	first := *lp.CompletedAt

	// 重复完成：状态不变，完成时间不刷新
	lp, err = f.svc.CompleteLearning(userID, f.module.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LearningCompleted, lp.Status)
	require.NotNil(t, lp.CompletedAt)
	assert.Equal(t, first.Unix(), lp.CompletedAt.Unix())
}

func TestCompleteLearningUnknownModule(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CompleteLearning(1, "no-such-module")
	assert.ErrorIs(t, err, util.ErrModuleNotFound)
}

func TestSubmitExamLockedBeforeModuleCompleted(t *testing.T) {
	f := newFixture(t)
	userID := uint(1)

	unlocked, err := f.svc.IsExamUnlocked(userID, f.exam.ID)
	require.NoError(t, err)
	assert.False(t, unlocked)

	_, err = f.svc.SubmitExam(context.Background(), userID, f.exam.ID, f.correctAnswers())
	assert.ErrorIs(t, err, util.ErrExamLocked)

	// 被拒绝的提交不留任何进度记录
	ep, err := f.progress.GetExamProgress(userID, f.exam.ID)
	require.NoError(t, err)
	assert.Nil(t, ep)
}

func TestSubmitExamPassAwardsBadge(t *testing.T) {
	f := newFixture(t)
	userID := uint(1)
	f.completeModule(t, userID)

	res, err := f.svc.SubmitExam(context.Background(), userID, f.exam.ID, f.correctAnswers())
	require.NoError(t, err)

	assert.Equal(t, model.ExamPassed, res.Status)
	assert.Equal(t, 100, res.Score)
	assert.False(t, res.AlreadyPassed)
	assert.Equal(t, model.AwardGranted, res.AwardOutcome)

	award, err := f.progress.FindBadgeAward(userID, f.badge.ID)
	require.NoError(t, err)
	require.NotNil(t, award)
	assert.Equal(t, f.exam.ID, award.ExamID)
}

func TestSubmitExamPartialScoreIsTaken(t *testing.T) {
	f := newFixture(t)
	userID := uint(1)
	f.completeModule(t, userID)

	res, err := f.svc.SubmitExam(context.Background(), userID, f.exam.ID, f.wrongAnswers(1))
	require.NoError(t, err)

	assert.Equal(t, model.ExamTaken, res.Status)
	assert.Equal(t, 50, res.Score)
	assert.Empty(t, res.AwardOutcome)

	// 未通过不授予徽章
	award, err := f.progress.FindBadgeAward(userID, f.badge.ID)
	require.NoError(t, err)
	assert.Nil(t, award)
}

func TestSubmitExamRetakeAfterFailure(t *testing.T) {
	f := newFixture(t)
	userID := uint(1)
	f.completeModule(t, userID)
	ctx := context.Background()

	res, err := f.svc.SubmitExam(ctx, userID, f.exam.ID, f.wrongAnswers(2))
	require.NoError(t, err)
	assert.Equal(t, model.ExamTaken, res.Status)
	assert.Equal(t, 0, res.Score)

	// 重考通过
	res, err = f.svc.SubmitExam(ctx, userID, f.exam.ID, f.correctAnswers())
	require.NoError(t, err)
	assert.Equal(t, model.ExamPassed, res.Status)
	assert.Equal(t, 100, res.Score)
	assert.Equal(t, model.AwardGranted, res.AwardOutcome)
}

func TestSubmitExamPassedIsTerminal(t *testing.T) {
	f := newFixture(t)
	userID := uint(1)
	f.completeModule(t, userID)
	ctx := context.Background()

	res, err := f.svc.SubmitExam(ctx, userID, f.exam.ID, f.correctAnswers())
	require.NoError(t, err)
	assert.Equal(t, model.ExamPassed, res.Status)

	// 通过后再提交：不评分，分数保持原值，不会回退到 taken
	res, err = f.svc.SubmitExam(ctx, userID, f.exam.ID, f.wrongAnswers(2))
	require.NoError(t, err)
	assert.True(t, res.AlreadyPassed)
	assert.Equal(t, model.ExamPassed, res.Status)
	assert.Equal(t, 100, res.Score)

	ep, err := f.progress.GetExamProgress(userID, f.exam.ID)
	require.NoError(t, err)
	require.NotNil(t, ep)
	assert.Equal(t, model.ExamPassed, ep.Status)
	assert.Equal(t, 100, ep.Score)
}

func TestSubmitExamIncompleteSubmission(t *testing.T) {
	f := newFixture(t)
	userID := uint(1)
	f.completeModule(t, userID)

	answers := f.correctAnswers()
	delete(answers, f.exam.Questions[0].ID)

	_, err := f.svc.SubmitExam(context.Background(), userID, f.exam.ID, answers)
	assert.ErrorIs(t, err, util.ErrIncompleteSubmission)
}

func TestSubmitExamUnknownExam(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SubmitExam(context.Background(), 1, "no-such-exam", map[string]string{})
	assert.ErrorIs(t, err, util.ErrExamNotFound)
}

// 主题没有学习模块时考试无前置条件
func TestSubmitExamNoModuleTopic(t *testing.T) {
	f := newFixture(t)
	userID := uint(7)

	topic := &model.Topic{Title: "异物梗阻"}
	require.NoError(t, f.db.Create(topic).Error)
	exam := &model.Exam{TopicID: topic.ID, Title: "海姆立克测验"}
	require.NoError(t, f.db.Create(exam).Error)
	q := model.ExamQuestion{ExamID: exam.ID, Prompt: "q", CorrectAnswer: "a", Order: 1}
	require.NoError(t, f.db.Create(&q).Error)

	unlocked, err := f.svc.IsExamUnlocked(userID, exam.ID)
	require.NoError(t, err)
	assert.True(t, unlocked)

	res, err := f.svc.SubmitExam(context.Background(), userID, exam.ID, map[string]string{q.ID: "a"})
	require.NoError(t, err)
	assert.Equal(t, model.ExamPassed, res.Status)
	// 该主题没有配置徽章
	assert.Equal(t, model.AwardNoBadgeForTopic, res.AwardOutcome)
}

func TestGetExamForLearnerHidesQuestionsWhenLocked(t *testing.T) {
	f := newFixture(t)
	userID := uint(1)

	view, err := f.svc.GetExamForLearner(userID, f.exam.ID)
	require.NoError(t, err)
	assert.False(t, view.Unlocked)
	assert.Empty(t, view.Questions)
	assert.Equal(t, model.ExamPending, view.Status)

	f.completeModule(t, userID)

	view, err = f.svc.GetExamForLearner(userID, f.exam.ID)
	require.NoError(t, err)
	assert.True(t, view.Unlocked)
	require.Len(t, view.Questions, 2)

	// 每道题的选项包含正确答案与全部干扰项
	for i, q := range view.Questions {
		assert.Len(t, q.Options, 3)
		assert.Contains(t, q.Options, f.exam.Questions[i].CorrectAnswer)
	}
}

func TestGetOverview(t *testing.T) {
	f := newFixture(t)
	userID := uint(1)
	f.completeModule(t, userID)

	_, err := f.svc.SubmitExam(context.Background(), userID, f.exam.ID, f.correctAnswers())
	require.NoError(t, err)

	overview, err := f.svc.GetOverview(userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), overview.ModulesCompleted)
	assert.Equal(t, int64(1), overview.ExamsPassed)
	assert.Equal(t, int64(1), overview.BadgesHeld)

	// 其他用户的面板互不影响
	overview, err = f.svc.GetOverview(99)
	require.NoError(t, err)
	assert.Equal(t, int64(0), overview.ModulesCompleted)
	assert.Equal(t, int64(0), overview.ExamsPassed)
	assert.Equal(t, int64(0), overview.BadgesHeld)
}
