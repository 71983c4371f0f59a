package service

import (
	"firstaid_backend/internal/model"
	"firstaid_backend/internal/repository"
	"firstaid_backend/internal/util"
)

// LearningService 学生端的主题/模块浏览视图
type LearningService struct {
	Catalog  *repository.CatalogRepository
	Progress *repository.ProgressRepository
}

func NewLearningService(catalog *repository.CatalogRepository, progress *repository.ProgressRepository) *LearningService {
	return &LearningService{Catalog: catalog, Progress: progress}
}

// TopicStatus 单个主题的聚合状态：模块、考试、徽章与各自的进度
type TopicStatus struct {
	Topic        model.Topic           `json:"topic"`
	Module       *model.LearningModule `json:"module,omitempty"`
	ModuleStatus model.LearningStatus  `json:"moduleStatus"`
	ExamID       string                `json:"examId,omitempty"`
	ExamStatus   model.ExamStatus      `json:"examStatus"`
	ExamScore    int                   `json:"examScore"`
	ExamUnlocked bool                  `json:"examUnlocked"`
	HasBadge     bool                  `json:"hasBadge"`
	BadgeEarned  bool                  `json:"badgeEarned"`
}

// GetTopicsWithStatus 主题列表 + 当前学习者的进度快照
func (s *LearningService) GetTopicsWithStatus(userID uint) ([]TopicStatus, error) {
	topics, err := s.Catalog.ListTopics()
	if err != nil {
		return nil, err
	}

	out := make([]TopicStatus, 0, len(topics))
	for _, topic := range topics {
		st := TopicStatus{
			Topic:        topic,
			ModuleStatus: model.LearningPending,
			ExamStatus:   model.ExamPending,
		}

		module, err := s.Catalog.FindModuleByTopic(topic.ID)
		if err != nil {
			return nil, err
		}
		st.Module = module

		var lp *model.LearningProgress
		if module != nil {
			lp, err = s.Progress.GetLearningProgress(userID, module.ID)
			if err != nil {
				return nil, err
			}
			if lp != nil {
				st.ModuleStatus = lp.Status
			}
		}

		exam, err := s.Catalog.FindExamByTopic(topic.ID)
		if err != nil {
			return nil, err
		}
		if exam != nil {
			st.ExamID = exam.ID
			st.ExamUnlocked = ExamUnlocked(module, lp)

			ep, err := s.Progress.GetExamProgress(userID, exam.ID)
			if err != nil {
				return nil, err
			}
			if ep != nil {
				st.ExamStatus = ep.Status
				st.ExamScore = ep.Score
			}
		}

		badge, err := s.Catalog.FindBadgeByTopic(topic.ID)
		if err != nil {
			return nil, err
		}
		if badge != nil {
			st.HasBadge = true
			award, err := s.Progress.FindBadgeAward(userID, badge.ID)
			if err != nil {
				return nil, err
			}
			st.BadgeEarned = award != nil
		}

		out = append(out, st)
	}

	return out, nil
}

// GetModuleDetail 模块详情（含所属主题）
func (s *LearningService) GetModuleDetail(userID uint, moduleID string) (*model.LearningModule, *model.LearningProgress, error) {
	module, err := s.Catalog.FindModuleByID(moduleID)
	if err != nil {
		return nil, nil, err
	}
	if module == nil {
		return nil, nil, util.ErrModuleNotFound
	}

	lp, err := s.Progress.GetLearningProgress(userID, moduleID)
	if err != nil {
		return nil, nil, err
	}
	return module, lp, nil
}
