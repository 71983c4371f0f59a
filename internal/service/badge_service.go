package service

import (
	"context"
	"firstaid_backend/internal/model"
	"firstaid_backend/internal/repository"
	"firstaid_backend/internal/util"
	"firstaid_backend/pkg/logger"
	"firstaid_backend/pkg/monitoring"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const badgeLeaderboardKey = "badge_leaderboard"

// BadgeService 徽章授予协调器。AwardIfEligible 可以独立重复调用：
// 通过考试后授予超时或失败时，重试只会补发，不会重复发
type BadgeService struct {
	Catalog  *repository.CatalogRepository
	Progress *repository.ProgressRepository
	Redis    *redis.Client
}

func NewBadgeService(catalog *repository.CatalogRepository, progress *repository.ProgressRepository, rdb *redis.Client) *BadgeService {
	return &BadgeService{Catalog: catalog, Progress: progress, Redis: rdb}
}

// AwardIfEligible 考试通过后的徽章授予：
// 考试 -> 主题 -> 徽章，没有徽章的主题返回 no_badge_for_topic（不是错误）。
// 授予本身是仓储层的原子 create-if-absent，重复调用返回 already_held
func (s *BadgeService) AwardIfEligible(ctx context.Context, userID uint, examID string) (model.AwardOutcome, error) {
	exam, err := s.Catalog.FindExamByID(examID)
	if err != nil {
		return "", err
	}
	if exam == nil {
		return "", util.ErrExamNotFound
	}

	badge, err := s.Catalog.FindBadgeByTopic(exam.TopicID)
	if err != nil {
		return "", err
	}
	if badge == nil {
		return model.AwardNoBadgeForTopic, nil
	}

	// 先查一次，已持有时省掉一次写。真正的幂等保障在下面的原子插入
	existing, err := s.Progress.FindBadgeAward(userID, badge.ID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return model.AwardAlreadyHeld, nil
	}

	outcome, err := s.Progress.CreateBadgeAwardIfAbsent(&model.BadgeAward{
		UserID:   userID,
		BadgeID:  badge.ID,
		TopicID:  exam.TopicID,
		ExamID:   examID,
		EarnedAt: time.Now(),
	})
	if err != nil {
		return "", err
	}

	if outcome == model.AwardGranted {
		monitoring.BadgesAwarded.Inc()
		s.bumpLeaderboard(ctx, userID)
		logger.Log.Info("badge awarded",
			zap.Uint("userId", userID),
			zap.String("badgeId", badge.ID),
			zap.String("topicId", exam.TopicID))
	}

	return outcome, nil
}

// 排行榜只是缓存视图，失败不影响授予结果
func (s *BadgeService) bumpLeaderboard(ctx context.Context, userID uint) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.ZIncrBy(ctx, badgeLeaderboardKey, 1, strconv.FormatUint(uint64(userID), 10)).Err(); err != nil {
		logger.Log.Warn("failed to update badge leaderboard", zap.Error(err))
	}
}

// UserBadge 持有的徽章及授予信息
type UserBadge struct {
	Badge    model.Badge `json:"badge"`
	TopicID  string      `json:"topicId"`
	EarnedAt time.Time   `json:"earnedAt"`
}

func (s *BadgeService) GetUserBadges(userID uint) ([]UserBadge, error) {
	awards, err := s.Progress.ListBadgeAwards(userID)
	if err != nil {
		return nil, err
	}

	out := make([]UserBadge, 0, len(awards))
	for _, a := range awards {
		badge, err := s.Catalog.FindBadgeByID(a.BadgeID)
		if err != nil {
			return nil, err
		}
		if badge == nil {
			continue
		}
		out = append(out, UserBadge{
			Badge:    *badge,
			TopicID:  a.TopicID,
			EarnedAt: a.EarnedAt,
		})
	}
	return out, nil
}

// Reconcile 补发：遍历用户所有已通过的考试重新执行授予。
// 幂等，适用于"已通过但徽章写入失败"的对账场景
func (s *BadgeService) Reconcile(ctx context.Context, userID uint) (map[string]model.AwardOutcome, error) {
	passed, err := s.Progress.ListPassedExams(userID)
	if err != nil {
		return nil, err
	}

	results := make(map[string]model.AwardOutcome, len(passed))
	for _, ep := range passed {
		outcome, err := s.AwardIfEligible(ctx, userID, ep.ExamID)
		if err != nil {
			logger.Log.Error("badge reconcile failed for exam",
				zap.Uint("userId", userID),
				zap.String("examId", ep.ExamID),
				zap.Error(err))
			continue
		}
		results[ep.ExamID] = outcome
	}
	return results, nil
}

// LeaderboardEntry 徽章数排行
type LeaderboardEntry struct {
	UserID uint  `json:"userId"`
	Badges int64 `json:"badges"`
}

func (s *BadgeService) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	if s.Redis == nil {
		return []LeaderboardEntry{}, nil
	}

	zs, err := s.Redis.ZRevRangeWithScores(ctx, badgeLeaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	out := make([]LeaderboardEntry, 0, len(zs))
	for _, z := range zs {
		member, _ := z.Member.(string)
		id, err := strconv.ParseUint(member, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, LeaderboardEntry{UserID: uint(id), Badges: int64(z.Score)})
	}
	return out, nil
}
