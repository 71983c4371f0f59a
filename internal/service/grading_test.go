package service

import (
	"testing"

	"firstaid_backend/internal/model"
	"firstaid_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func questionSet(n int) []model.ExamQuestion {
	qs := make([]model.ExamQuestion, 0, n)
	for i := 0; i < n; i++ {
		q := model.ExamQuestion{Prompt: "q", CorrectAnswer: "answer"}
		q.ID = model.GenerateUUID()
		qs = append(qs, q)
	}
	return qs
}

func answersFor(qs []model.ExamQuestion, value string) map[string]string {
	out := make(map[string]string, len(qs))
	for _, q := range qs {
		out[q.ID] = value
	}
	return out
}

func TestGradeExamAllCorrect(t *testing.T) {
	qs := questionSet(4)

	res, err := GradeExam(qs, answersFor(qs, "answer"))
	require.NoError(t, err)

	assert.Equal(t, 100, res.Score)
	assert.True(t, res.AllCorrect)
	assert.Equal(t, 4, res.Correct)
	assert.Equal(t, 4, res.Total)
}

// 错一题无论分数多高都不通过
func TestGradeExamOneWrongIsNotAPass(t *testing.T) {
	qs := questionSet(10)
	answers := answersFor(qs, "answer")
	answers[qs[0].ID] = "wrong"

	res, err := GradeExam(qs, answers)
	require.NoError(t, err)

	assert.Equal(t, 90, res.Score)
	assert.False(t, res.AllCorrect)
	assert.Equal(t, 9, res.Correct)
}

func TestGradeExamScoreRounding(t *testing.T) {
	qs := questionSet(3)
	answers := answersFor(qs, "answer")
	answers[qs[0].ID] = "wrong"

	// 2/3 = 66.67 -> 67
	res, err := GradeExam(qs, answers)
	require.NoError(t, err)
	assert.Equal(t, 67, res.Score)

	answers[qs[1].ID] = "wrong"

	// 1/3 = 33.33 -> 33
	res, err = GradeExam(qs, answers)
	require.NoError(t, err)
	assert.Equal(t, 33, res.Score)
}

func TestGradeExamCaseSensitive(t *testing.T) {
	qs := questionSet(1)

	res, err := GradeExam(qs, answersFor(qs, "Answer"))
	require.NoError(t, err)

	assert.Equal(t, 0, res.Score)
	assert.False(t, res.AllCorrect)
}

func TestGradeExamMissingAnswer(t *testing.T) {
	qs := questionSet(3)
	answers := answersFor(qs, "answer")
	delete(answers, qs[2].ID)

	_, err := GradeExam(qs, answers)
	assert.ErrorIs(t, err, util.ErrIncompleteSubmission)
}

// 多余的答案键不影响评分
func TestGradeExamIgnoresExtraAnswers(t *testing.T) {
	qs := questionSet(2)
	answers := answersFor(qs, "answer")
	answers["nonexistent-question"] = "whatever"

	res, err := GradeExam(qs, answers)
	require.NoError(t, err)
	assert.True(t, res.AllCorrect)
	assert.Equal(t, 100, res.Score)
}

func TestGradeExamEmptyExam(t *testing.T) {
	res, err := GradeExam(nil, map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, 0, res.Score)
	assert.False(t, res.AllCorrect)
	assert.Equal(t, 0, res.Total)
}
