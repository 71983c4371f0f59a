package service

import (
	"encoding/json"
	"firstaid_backend/internal/model"
	"firstaid_backend/internal/repository"
	"firstaid_backend/internal/util"
)

// CatalogService 目录编辑（教员后台）。干扰项数量在这里校验：
// 没有干扰项的题目在录入时被拒绝，评分阶段不再防御
type CatalogService struct {
	Repo *repository.CatalogRepository
}

func NewCatalogService(repo *repository.CatalogRepository) *CatalogService {
	return &CatalogService{Repo: repo}
}

type TopicRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Order       int    `json:"order"`
}

func (s *CatalogService) CreateTopic(req TopicRequest) (*model.Topic, error) {
	topic := &model.Topic{
		Title:       req.Title,
		Description: req.Description,
		Icon:        req.Icon,
		Order:       req.Order,
	}
	if err := s.Repo.CreateTopic(topic); err != nil {
		return nil, err
	}
	return topic, nil
}

func (s *CatalogService) UpdateTopic(id string, req TopicRequest) (*model.Topic, error) {
	topic, err := s.Repo.FindTopicByID(id)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, util.ErrTopicNotFound
	}

	topic.Title = req.Title
	topic.Description = req.Description
	topic.Icon = req.Icon
	topic.Order = req.Order
	if err := s.Repo.UpdateTopic(topic); err != nil {
		return nil, err
	}
	return topic, nil
}

func (s *CatalogService) ListTopics() ([]model.Topic, error) {
	return s.Repo.ListTopics()
}

func (s *CatalogService) GetTopic(id string) (*model.Topic, error) {
	topic, err := s.Repo.FindTopicByID(id)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, util.ErrTopicNotFound
	}
	return topic, nil
}

type ModuleRequest struct {
	TopicID string `json:"topicId" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

func (s *CatalogService) CreateModule(req ModuleRequest) (*model.LearningModule, error) {
	topic, err := s.Repo.FindTopicByID(req.TopicID)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, util.ErrTopicNotFound
	}

	module := &model.LearningModule{
		TopicID: req.TopicID,
		Title:   req.Title,
		Content: req.Content,
	}
	if err := s.Repo.CreateModule(module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *CatalogService) GetModule(id string) (*model.LearningModule, error) {
	module, err := s.Repo.FindModuleByID(id)
	if err != nil {
		return nil, err
	}
	if module == nil {
		return nil, util.ErrModuleNotFound
	}
	return module, nil
}

// AttachModuleVideo 关联教学视频（上传完成后回填地址与时长）
func (s *CatalogService) AttachModuleVideo(moduleID, videoURL string, duration float64) (*model.LearningModule, error) {
	module, err := s.Repo.FindModuleByID(moduleID)
	if err != nil {
		return nil, err
	}
	if module == nil {
		return nil, util.ErrModuleNotFound
	}

	module.VideoURL = videoURL
	module.VideoDuration = duration
	if err := s.Repo.UpdateModule(module); err != nil {
		return nil, err
	}
	return module, nil
}

type QuestionRequest struct {
	Prompt        string   `json:"prompt" binding:"required"`
	CorrectAnswer string   `json:"correctAnswer" binding:"required"`
	Distractors   []string `json:"distractors"`
	Order         int      `json:"order"`
}

type ExamRequest struct {
	TopicID   string            `json:"topicId" binding:"required"`
	Title     string            `json:"title" binding:"required"`
	Questions []QuestionRequest `json:"questions"`
}

// CreateExam 创建试卷。每道题必须至少带一个干扰项
func (s *CatalogService) CreateExam(req ExamRequest) (*model.Exam, error) {
	topic, err := s.Repo.FindTopicByID(req.TopicID)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, util.ErrTopicNotFound
	}

	for _, q := range req.Questions {
		if len(q.Distractors) == 0 {
			return nil, util.ErrNoDistractors
		}
	}

	exam := &model.Exam{
		TopicID: req.TopicID,
		Title:   req.Title,
	}
	if err := s.Repo.CreateExam(exam); err != nil {
		return nil, err
	}

	for i, qReq := range req.Questions {
		q, err := buildQuestion(exam.ID, qReq)
		if err != nil {
			return nil, err
		}
		if q.Order == 0 {
			q.Order = i + 1
		}
		if err := s.Repo.CreateQuestion(q); err != nil {
			return nil, err
		}
	}

	return s.Repo.FindExamByID(exam.ID)
}

func (s *CatalogService) AddQuestion(examID string, req QuestionRequest) (*model.ExamQuestion, error) {
	exam, err := s.Repo.FindExamByID(examID)
	if err != nil {
		return nil, err
	}
	if exam == nil {
		return nil, util.ErrExamNotFound
	}

	q, err := buildQuestion(examID, req)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.CreateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *CatalogService) UpdateQuestion(id string, req QuestionRequest) (*model.ExamQuestion, error) {
	q, err := s.Repo.FindQuestionByID(id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, util.ErrQuestionNotFound
	}

	updated, err := buildQuestion(q.ExamID, req)
	if err != nil {
		return nil, err
	}

	q.Prompt = updated.Prompt
	q.CorrectAnswer = updated.CorrectAnswer
	q.Distractors = updated.Distractors
	q.Order = updated.Order
	if err := s.Repo.UpdateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *CatalogService) DeleteQuestion(id string) error {
	return s.Repo.DeleteQuestion(id)
}

func buildQuestion(examID string, req QuestionRequest) (*model.ExamQuestion, error) {
	if len(req.Distractors) == 0 {
		return nil, util.ErrNoDistractors
	}

	raw, err := json.Marshal(req.Distractors)
	if err != nil {
		return nil, err
	}

	return &model.ExamQuestion{
		ExamID:        examID,
		Prompt:        req.Prompt,
		CorrectAnswer: req.CorrectAnswer,
		Distractors:   raw,
		Order:         req.Order,
	}, nil
}

type BadgeRequest struct {
	TopicID     string `json:"topicId" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func (s *CatalogService) CreateBadge(req BadgeRequest) (*model.Badge, error) {
	topic, err := s.Repo.FindTopicByID(req.TopicID)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, util.ErrTopicNotFound
	}

	badge := &model.Badge{
		TopicID:     req.TopicID,
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	}
	if err := s.Repo.CreateBadge(badge); err != nil {
		return nil, err
	}
	return badge, nil
}
