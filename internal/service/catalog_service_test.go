package service

import (
	"testing"

	"firstaid_backend/internal/model"
	"firstaid_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateExamWithQuestions(t *testing.T) {
	f := newFixture(t)
	svc := NewCatalogService(f.catalog)

	topic := &model.Topic{Title: "溺水急救"}
	require.NoError(t, f.db.Create(topic).Error)

	exam, err := svc.CreateExam(ExamRequest{
		TopicID: topic.ID,
		Title:   "溺水急救测验",
		Questions: []QuestionRequest{
			{Prompt: "第一步做什么？", CorrectAnswer: "确保环境安全", Distractors: []string{"立即下水", "等待救援"}},
			{Prompt: "何时开始人工呼吸？", CorrectAnswer: "无呼吸时", Distractors: []string{"立即"}, Order: 5},
		},
	})
	require.NoError(t, err)
	require.Len(t, exam.Questions, 2)

	// 未指定 order 的题目按录入顺序补号
	assert.Equal(t, 1, exam.Questions[0].Order)
	assert.Equal(t, 5, exam.Questions[1].Order)
	assert.Equal(t, []string{"立即下水", "等待救援"}, exam.Questions[0].DistractorList())
}

func TestCreateExamRejectsQuestionWithoutDistractors(t *testing.T) {
	f := newFixture(t)
	svc := NewCatalogService(f.catalog)

	_, err := svc.CreateExam(ExamRequest{
		TopicID: f.topic.ID,
		Title:   "无效试卷",
		Questions: []QuestionRequest{
			{Prompt: "q", CorrectAnswer: "a"},
		},
	})
	assert.ErrorIs(t, err, util.ErrNoDistractors)
}

func TestCreateExamUnknownTopic(t *testing.T) {
	f := newFixture(t)
	svc := NewCatalogService(f.catalog)

	_, err := svc.CreateExam(ExamRequest{TopicID: "no-such-topic", Title: "x"})
	assert.ErrorIs(t, err, util.ErrTopicNotFound)
}

func TestCreateModuleRequiresTopic(t *testing.T) {
	f := newFixture(t)
	svc := NewCatalogService(f.catalog)

	_, err := svc.CreateModule(ModuleRequest{TopicID: "no-such-topic", Title: "x"})
	assert.ErrorIs(t, err, util.ErrTopicNotFound)

	topic := &model.Topic{Title: "止血包扎"}
	require.NoError(t, f.db.Create(topic).Error)

	module, err := svc.CreateModule(ModuleRequest{TopicID: topic.ID, Title: "进阶模块", Content: "..."})
	require.NoError(t, err)
	assert.NotEmpty(t, module.ID)
}

func TestAddQuestionValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewCatalogService(f.catalog)

	_, err := svc.AddQuestion(f.exam.ID, QuestionRequest{Prompt: "q", CorrectAnswer: "a"})
	assert.ErrorIs(t, err, util.ErrNoDistractors)

	q, err := svc.AddQuestion(f.exam.ID, QuestionRequest{Prompt: "q", CorrectAnswer: "a", Distractors: []string{"b"}, Order: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, q.Order)

	_, err = svc.AddQuestion("no-such-exam", QuestionRequest{Prompt: "q", CorrectAnswer: "a", Distractors: []string{"b"}})
	assert.ErrorIs(t, err, util.ErrExamNotFound)
}
