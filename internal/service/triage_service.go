package service

import (
	"context"
	"firstaid_backend/internal/config"
	"firstaid_backend/internal/model"
	"firstaid_backend/internal/repository"
	"firstaid_backend/pkg/logger"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TriageService 伤情描述分类：把学习者的自由文本转发到远端ML分类服务，
// 再把返回的标签映射到本地主题。分类算法对本服务完全不透明
type TriageService struct {
	Cfg     config.TriageConfig
	Catalog *repository.CatalogRepository
	DB      *gorm.DB
	client  *resty.Client
}

func NewTriageService(cfg config.TriageConfig, catalog *repository.CatalogRepository, db *gorm.DB) *TriageService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}

	return &TriageService{Cfg: cfg, Catalog: catalog, DB: db, client: client}
}

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Error      string  `json:"error,omitempty"`
}

// TriageResult 分类结果与命中的主题（可能为空）
type TriageResult struct {
	Label      string       `json:"label"`
	Confidence float64      `json:"confidence"`
	Topic      *model.Topic `json:"topic,omitempty"`
}

// Classify 调用远端分类端点并记录查询日志。
// 远端失败按原样上抛，由调用方决定是否重试
func (s *TriageService) Classify(ctx context.Context, userID uint, text string) (*TriageResult, error) {
	var body classifyResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(classifyRequest{Text: text}).
		SetResult(&body).
		Post("/classify")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("triage classifier returned %s", resp.Status())
	}
	if body.Error != "" {
		return nil, fmt.Errorf("triage classifier error: %s", body.Error)
	}

	result := &TriageResult{
		Label:      body.Label,
		Confidence: body.Confidence,
	}

	// 标签与主题标题做大小写不敏感匹配，匹配不到时只返回标签
	topics, err := s.Catalog.ListTopics()
	if err != nil {
		return nil, err
	}
	for i := range topics {
		if strings.EqualFold(topics[i].Title, body.Label) {
			result.Topic = &topics[i]
			break
		}
	}

	query := &model.TriageQuery{
		UserID:     userID,
		Text:       text,
		Label:      body.Label,
		Confidence: body.Confidence,
	}
	if result.Topic != nil {
		query.TopicID = result.Topic.ID
	}
	if err := s.DB.Create(query).Error; err != nil {
		// 日志记录失败不影响分类结果
		logger.Log.Warn("failed to record triage query", zap.Error(err))
	}

	return result, nil
}
