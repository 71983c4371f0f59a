package util

import "errors"

var (
	ErrUserNotFound         = errors.New("用户不存在")
	ErrEmailRegistered      = errors.New("该邮箱已被注册")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrTopicNotFound        = errors.New("topic not found")
	ErrModuleNotFound       = errors.New("learning module not found")
	ErrExamNotFound         = errors.New("exam not found")
	ErrBadgeNotFound        = errors.New("badge not found")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrExamLocked           = errors.New("exam locked: learning module not completed")
	ErrIncompleteSubmission = errors.New("submission is missing answers for one or more questions")
	ErrNoDistractors        = errors.New("question must have at least one distractor option")
	ErrWriteConflict        = errors.New("progress write conflict: state changed concurrently")
	ErrSubmissionInFlight   = errors.New("another submission for this exam is in progress")
)
