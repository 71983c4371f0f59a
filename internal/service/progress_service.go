package service

import (
	"context"
	"firstaid_backend/internal/model"
	"firstaid_backend/internal/repository"
	"firstaid_backend/internal/util"
	"firstaid_backend/pkg/logger"
	"firstaid_backend/pkg/monitoring"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// 单次提交的锁保护窗口，覆盖 门控->评分->落库->授予 全链路
const submitLockTTL = 30 * time.Second

// ProgressService 进度状态机的编排层。
//
// 学习进度：pending --CompleteLearning--> completed（终态，重复调用幂等）。
// 考试进度：pending/taken --提交未全对--> taken（可重考），
// --提交全对--> passed（终态，后续提交直接返回已通过结果，不再评分）
type ProgressService struct {
	Catalog  *repository.CatalogRepository
	Progress *repository.ProgressRepository
	Badge    *BadgeService
	Redis    *redis.Client
}

func NewProgressService(catalog *repository.CatalogRepository, progress *repository.ProgressRepository, badge *BadgeService, rdb *redis.Client) *ProgressService {
	return &ProgressService{Catalog: catalog, Progress: progress, Badge: badge, Redis: rdb}
}

// CompleteLearning 完成学习模块。幂等：已完成的模块原样返回完成状态
func (s *ProgressService) CompleteLearning(userID uint, moduleID string) (*model.LearningProgress, error) {
	module, err := s.Catalog.FindModuleByID(moduleID)
	if err != nil {
		return nil, err
	}
	if module == nil {
		return nil, util.ErrModuleNotFound
	}

	return s.Progress.SetLearningCompleted(userID, moduleID)
}

// IsExamUnlocked 展示层的解锁查询，与提交时的复核用同一个纯函数
func (s *ProgressService) IsExamUnlocked(userID uint, examID string) (bool, error) {
	exam, err := s.Catalog.FindExamByID(examID)
	if err != nil {
		return false, err
	}
	if exam == nil {
		return false, util.ErrExamNotFound
	}
	return s.examUnlockedForTopic(userID, exam.TopicID)
}

func (s *ProgressService) examUnlockedForTopic(userID uint, topicID string) (bool, error) {
	module, err := s.Catalog.FindModuleByTopic(topicID)
	if err != nil {
		return false, err
	}

	var lp *model.LearningProgress
	if module != nil {
		lp, err = s.Progress.GetLearningProgress(userID, module.ID)
		if err != nil {
			return false, err
		}
	}

	return ExamUnlocked(module, lp), nil
}

// SubmitExamResult 一次提交的最终结果
type SubmitExamResult struct {
	Status        model.ExamStatus   `json:"status"`
	Score         int                `json:"score"`
	AlreadyPassed bool               `json:"alreadyPassed"`
	AwardOutcome  model.AwardOutcome `json:"awardOutcome,omitempty"`
}

// SubmitExam 考试提交主流程，严格顺序执行：
//  1. 已通过 -> 直接返回（不评分、不重复授予）
//  2. 复核解锁条件（学习状态可能在界面渲染后变化，这里关掉这个窗口）
//  3. 评分
//  4. 条件写进度（期望前置状态不匹配 -> ErrWriteConflict）
//  5. 通过时在写入提交之后授予徽章；授予失败只记日志，绝不回滚已落库的通过
//
// 同一 (user, exam) 的并发提交由 Redis 锁串行化
func (s *ProgressService) SubmitExam(ctx context.Context, userID uint, examID string, answers map[string]string) (*SubmitExamResult, error) {
	unlock, err := s.acquireSubmitLock(ctx, userID, examID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	exam, err := s.Catalog.FindExamByID(examID)
	if err != nil {
		return nil, err
	}
	if exam == nil {
		return nil, util.ErrExamNotFound
	}

	// 1. 终态短路
	prior, err := s.Progress.GetExamProgress(userID, examID)
	if err != nil {
		return nil, err
	}
	if prior != nil && prior.Status == model.ExamPassed {
		return &SubmitExamResult{
			Status:        model.ExamPassed,
			Score:         prior.Score,
			AlreadyPassed: true,
		}, nil
	}

	// 2. 门控复核
	unlocked, err := s.examUnlockedForTopic(userID, exam.TopicID)
	if err != nil {
		return nil, err
	}
	if !unlocked {
		return nil, util.ErrExamLocked
	}

	// 3. 评分
	grade, err := GradeExam(exam.Questions, answers)
	if err != nil {
		return nil, err
	}

	newStatus := model.ExamTaken
	if grade.AllCorrect {
		newStatus = model.ExamPassed
	}

	expectedPrior := model.ExamPending
	if prior != nil {
		expectedPrior = prior.Status
	}

	// 4. 条件写
	if _, err := s.Progress.UpdateExamProgress(userID, examID, expectedPrior, newStatus, grade.Score); err != nil {
		return nil, err
	}

	monitoring.ExamsGraded.WithLabelValues(string(newStatus)).Inc()

	result := &SubmitExamResult{
		Status: newStatus,
		Score:  grade.Score,
	}

	// 5. 通过后授予，进度写入已提交，授予失败不影响通过结果
	if newStatus == model.ExamPassed {
		outcome, err := s.Badge.AwardIfEligible(ctx, userID, examID)
		if err != nil {
			logger.Log.Error("badge award failed after exam pass",
				zap.Uint("userId", userID),
				zap.String("examId", examID),
				zap.Error(err))
		} else {
			result.AwardOutcome = outcome
		}
	}

	return result, nil
}

// acquireSubmitLock 按 (user, exam) 互斥。拿不到锁说明另一台设备
// 正在提交同一份考试，直接拒绝而不是排队
func (s *ProgressService) acquireSubmitLock(ctx context.Context, userID uint, examID string) (func(), error) {
	if s.Redis == nil {
		return func() {}, nil
	}

	key := fmt.Sprintf("exam_submit_lock:%d:%s", userID, examID)
	ok, err := s.Redis.SetNX(ctx, key, 1, submitLockTTL).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, util.ErrSubmissionInFlight
	}

	return func() {
		if err := s.Redis.Del(context.Background(), key).Err(); err != nil {
			logger.Log.Warn("failed to release submit lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

// GetOverview 学习面板汇总
func (s *ProgressService) GetOverview(userID uint) (*repository.ProgressOverview, error) {
	return s.Progress.GetOverview(userID)
}

// StudentQuestion 学生视角的题目：选项为正确答案与干扰项打乱后的集合，
// 顺序每次呈现都重新随机；评分按值比较，与这里的顺序无关
type StudentQuestion struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Order   int      `json:"order"`
}

// StudentExamView 学生视角的试卷，带解锁状态与当前进度
type StudentExamView struct {
	ID        string            `json:"id"`
	TopicID   string            `json:"topicId"`
	Title     string            `json:"title"`
	Unlocked  bool              `json:"unlocked"`
	Status    model.ExamStatus  `json:"status"`
	Score     int               `json:"score"`
	Questions []StudentQuestion `json:"questions"`
}

// GetExamForLearner 组装学生试卷视图。锁定状态下不下发题目
func (s *ProgressService) GetExamForLearner(userID uint, examID string) (*StudentExamView, error) {
	exam, err := s.Catalog.FindExamByID(examID)
	if err != nil {
		return nil, err
	}
	if exam == nil {
		return nil, util.ErrExamNotFound
	}

	unlocked, err := s.examUnlockedForTopic(userID, exam.TopicID)
	if err != nil {
		return nil, err
	}

	view := &StudentExamView{
		ID:       exam.ID,
		TopicID:  exam.TopicID,
		Title:    exam.Title,
		Unlocked: unlocked,
		Status:   model.ExamPending,
	}

	ep, err := s.Progress.GetExamProgress(userID, examID)
	if err != nil {
		return nil, err
	}
	if ep != nil {
		view.Status = ep.Status
		view.Score = ep.Score
	}

	if !unlocked {
		return view, nil
	}

	view.Questions = make([]StudentQuestion, 0, len(exam.Questions))
	for _, q := range exam.Questions {
		options := append([]string{q.CorrectAnswer}, q.DistractorList()...)
		rand.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})
		view.Questions = append(view.Questions, StudentQuestion{
			ID:      q.ID,
			Prompt:  q.Prompt,
			Options: options,
			Order:   q.Order,
		})
	}

	return view, nil
}
