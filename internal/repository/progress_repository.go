package repository

import (
	"errors"
	"firstaid_backend/internal/model"
	"firstaid_backend/internal/util"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressRepository 独占 LearningProgress / ExamProgress / BadgeAward 的生命周期。
// 考试进度写入是条件更新（带期望前置状态），徽章创建是原子的
// create-if-absent，两者合起来挡住并发提交产生的重复授予
type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// ---- LearningProgress ----

// GetLearningProgress 不存在时返回 (nil, nil)，语义上等同 pending
func (r *ProgressRepository) GetLearningProgress(userID uint, moduleID string) (*model.LearningProgress, error) {
	var lp model.LearningProgress
	err := r.DB.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&lp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lp, nil
}

// SetLearningCompleted 幂等upsert。已完成的记录原样返回，
// 不会刷新 CompletedAt，也永远不会回退到 pending
func (r *ProgressRepository) SetLearningCompleted(userID uint, moduleID string) (*model.LearningProgress, error) {
	lp, err := r.GetLearningProgress(userID, moduleID)
	if err != nil {
		return nil, err
	}

	if lp != nil && lp.Status == model.LearningCompleted {
		return lp, nil
	}

	now := time.Now()
	if lp == nil {
		lp = &model.LearningProgress{
			UserID:      userID,
			ModuleID:    moduleID,
			Status:      model.LearningCompleted,
			CompletedAt: &now,
		}
		err := r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(lp).Error
		if err != nil {
			return nil, err
		}
		// 并发下另一请求可能先插入，重读拿到权威状态
		return r.GetLearningProgress(userID, moduleID)
	}

	lp.Status = model.LearningCompleted
	lp.CompletedAt = &now
	if err := r.DB.Save(lp).Error; err != nil {
		return nil, err
	}
	return lp, nil
}

// ---- ExamProgress ----

// GetExamProgress 不存在时返回 (nil, nil)，语义上等同 pending / score 0
func (r *ProgressRepository) GetExamProgress(userID uint, examID string) (*model.ExamProgress, error) {
	var ep model.ExamProgress
	err := r.DB.Where("user_id = ? AND exam_id = ?", userID, examID).First(&ep).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ep, nil
}

// UpdateExamProgress 条件写：仅当当前状态等于 expectedPrior 时生效。
// 不匹配返回 ErrWriteConflict，调用方应重读状态后决定是否重试。
// expectedPrior 为 pending 且记录不存在时走插入路径，唯一索引
// 保证并发插入只有一个成功
func (r *ProgressRepository) UpdateExamProgress(userID uint, examID string, expectedPrior, newStatus model.ExamStatus, score int) (*model.ExamProgress, error) {
	res := r.DB.Model(&model.ExamProgress{}).
		Where("user_id = ? AND exam_id = ? AND status = ?", userID, examID, expectedPrior).
		Updates(map[string]interface{}{"status": newStatus, "score": score})
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		if expectedPrior != model.ExamPending {
			return nil, util.ErrWriteConflict
		}

		existing, err := r.GetExamProgress(userID, examID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			// pending 记录已被并发请求推进
			return nil, util.ErrWriteConflict
		}

		ep := &model.ExamProgress{
			UserID: userID,
			ExamID: examID,
			Status: newStatus,
			Score:  score,
		}
		ins := r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(ep)
		if ins.Error != nil {
			return nil, ins.Error
		}
		if ins.RowsAffected == 0 {
			return nil, util.ErrWriteConflict
		}
		return ep, nil
	}

	return r.GetExamProgress(userID, examID)
}

// ListPassedExams 用户已通过的全部考试进度（徽章补发用）
func (r *ProgressRepository) ListPassedExams(userID uint) ([]model.ExamProgress, error) {
	var eps []model.ExamProgress
	err := r.DB.Where("user_id = ? AND status = ?", userID, model.ExamPassed).Find(&eps).Error
	return eps, err
}

// ---- BadgeAward ----

func (r *ProgressRepository) FindBadgeAward(userID uint, badgeID string) (*model.BadgeAward, error) {
	var award model.BadgeAward
	err := r.DB.Where("user_id = ? AND badge_id = ?", userID, badgeID).First(&award).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &award, nil
}

// CreateBadgeAwardIfAbsent 原子 create-if-absent：唯一索引 + ON CONFLICT DO NOTHING，
// RowsAffected 区分首次授予与已持有。绝不产生第二条 (user, badge) 记录
func (r *ProgressRepository) CreateBadgeAwardIfAbsent(award *model.BadgeAward) (model.AwardOutcome, error) {
	if award.EarnedAt.IsZero() {
		award.EarnedAt = time.Now()
	}
	res := r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(award)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return model.AwardAlreadyHeld, nil
	}
	return model.AwardGranted, nil
}

func (r *ProgressRepository) ListBadgeAwards(userID uint) ([]model.BadgeAward, error) {
	var awards []model.BadgeAward
	err := r.DB.Where("user_id = ?", userID).Order("earned_at desc").Find(&awards).Error
	return awards, err
}

// ---- 汇总 ----

type ProgressOverview struct {
	ModulesCompleted int64 `json:"modulesCompleted"`
	ExamsPassed      int64 `json:"examsPassed"`
	BadgesHeld       int64 `json:"badgesHeld"`
}

func (r *ProgressRepository) GetOverview(userID uint) (*ProgressOverview, error) {
	var out ProgressOverview

	err := r.DB.Model(&model.LearningProgress{}).
		Where("user_id = ? AND status = ?", userID, model.LearningCompleted).
		Count(&out.ModulesCompleted).Error
	if err != nil {
		return nil, err
	}

	err = r.DB.Model(&model.ExamProgress{}).
		Where("user_id = ? AND status = ?", userID, model.ExamPassed).
		Count(&out.ExamsPassed).Error
	if err != nil {
		return nil, err
	}

	err = r.DB.Model(&model.BadgeAward{}).
		Where("user_id = ?", userID).
		Count(&out.BadgesHeld).Error
	if err != nil {
		return nil, err
	}

	return &out, nil
}
