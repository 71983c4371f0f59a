package service

import (
	"testing"

	"firstaid_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestExamUnlockedNoModule(t *testing.T) {
	// 主题没有学习模块 -> 考试无前置条件，永久解锁
	assert.True(t, ExamUnlocked(nil, nil))
	assert.True(t, ExamUnlocked(nil, &model.LearningProgress{Status: model.LearningPending}))
}

func TestExamUnlockedModulePending(t *testing.T) {
	module := &model.LearningModule{Title: "CPR基础"}

	assert.False(t, ExamUnlocked(module, nil))
	assert.False(t, ExamUnlocked(module, &model.LearningProgress{Status: model.LearningPending}))
}

func TestExamUnlockedModuleCompleted(t *testing.T) {
	module := &model.LearningModule{Title: "CPR基础"}
	lp := &model.LearningProgress{Status: model.LearningCompleted}

	assert.True(t, ExamUnlocked(module, lp))
}
