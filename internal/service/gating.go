package service

import "firstaid_backend/internal/model"

// ExamUnlocked 判定考试是否解锁。纯函数，相同输入永远得到相同结果。
//
// 规则：主题存在学习模块时，必须完成该模块才解锁；
// 主题没有学习模块时，考试无前置条件，永久解锁。
// progress 为 nil 等同 pending（记录懒创建）
func ExamUnlocked(module *model.LearningModule, progress *model.LearningProgress) bool {
	if module == nil {
		// 没有前置模块的主题，考试不设门槛
		return true
	}
	if progress == nil {
		return false
	}
	return progress.Status == model.LearningCompleted
}
