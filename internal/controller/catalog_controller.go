package controller

import (
	"errors"
	"firstaid_backend/internal/model"
	"firstaid_backend/internal/service"
	"firstaid_backend/internal/util"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// CatalogController 教员后台：主题/模块/试卷/徽章维护
type CatalogController struct {
	CatalogService *service.CatalogService
	StorageService *service.StorageService
}

func NewCatalogController(catalogService *service.CatalogService, storageService *service.StorageService) *CatalogController {
	return &CatalogController{
		CatalogService: catalogService,
		StorageService: storageService,
	}
}

func (c *CatalogController) handleCatalogError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrTopicNotFound),
		errors.Is(err, util.ErrModuleNotFound),
		errors.Is(err, util.ErrExamNotFound),
		errors.Is(err, util.ErrQuestionNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrNoDistractors):
		util.BadRequest(ctx, "每道题至少需要一个干扰选项")
	default:
		util.LogInternalError(ctx, err)
	}
}

// CreateTopic godoc
// @Summary 创建主题
// @Tags 目录管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.TopicRequest true "主题信息"
// @Success 201 {object} util.Response
// @Router /api/admin/topics [post]
func (c *CatalogController) CreateTopic(ctx *gin.Context) {
	var req service.TopicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	topic, err := c.CatalogService.CreateTopic(req)
	if err != nil {
		c.handleCatalogError(ctx, err)
		return
	}
	util.Created(ctx, topic)
}

// UpdateTopic godoc
// @Summary 更新主题
// @Tags 目录管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "主题ID"
// @Param body body service.TopicRequest true "主题信息"
// @Success 200 {object} util.Response
// @Router /api/admin/topics/{id} [put]
func (c *CatalogController) UpdateTopic(ctx *gin.Context) {
	var req service.TopicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	topic, err := c.CatalogService.UpdateTopic(ctx.Param("id"), req)
	if err != nil {
		c.handleCatalogError(ctx, err)
		return
	}
	util.Success(ctx, topic)
}

// CreateModule godoc
// @Summary 创建学习模块
// @Tags 目录管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ModuleRequest true "模块信息"
// @Success 201 {object} util.Response
// @Router /api/admin/modules [post]
func (c *CatalogController) CreateModule(ctx *gin.Context) {
	var req service.ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.CatalogService.CreateModule(req)
	if err != nil {
		c.handleCatalogError(ctx, err)
		return
	}
	util.Created(ctx, module)
}

// UploadModuleVideo godoc
// @Summary 上传模块教学视频
// @Description 上传视频，探测时长后回填到模块
// @Tags 目录管理
// @Accept mpfd
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "模块ID"
// @Param file formData file true "视频文件"
// @Success 200 {object} util.Response
// @Router /api/admin/modules/{id}/video [post]
func (c *CatalogController) UploadModuleVideo(ctx *gin.Context) {
	moduleID := ctx.Param("id")

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少视频文件")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	mimeType, err := util.ValidateMimeType(file, []string{util.MimeVideo})
	file.Close()
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	// 先落临时文件，探测元数据后再入存储
	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("module_video_%s%s", model.GenerateUUID(), filepath.Ext(fileHeader.Filename)))
	if err := ctx.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer os.Remove(tmpPath)

	info, err := util.GetVideoInfo(tmpPath)
	if err != nil {
		util.BadRequest(ctx, "无法解析视频文件")
		return
	}

	objectName := fmt.Sprintf("modules/%s/video%s", moduleID, filepath.Ext(fileHeader.Filename))
	url, err := c.StorageService.UploadFile(ctx.Request.Context(), objectName, tmpPath, mimeType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	module, err := c.CatalogService.AttachModuleVideo(moduleID, url, info.Duration)
	if err != nil {
		c.handleCatalogError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"module": module,
		"video":  info,
	})
}

// CreateExam godoc
// @Summary 创建试卷
// @Description 创建主题试卷及题目，每道题至少一个干扰项
// @Tags 目录管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ExamRequest true "试卷信息"
// @Success 201 {object} util.Response
// @Router /api/admin/exams [post]
func (c *CatalogController) CreateExam(ctx *gin.Context) {
	var req service.ExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.CatalogService.CreateExam(req)
	if err != nil {
		c.handleCatalogError(ctx, err)
		return
	}
	util.Created(ctx, exam)
}

// AddQuestion godoc
// @Summary 添加题目
// @Tags 目录管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "考试ID"
// @Param body body service.QuestionRequest true "题目信息"
// @Success 201 {object} util.Response
// @Router /api/admin/exams/{id}/questions [post]
func (c *CatalogController) AddQuestion(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.CatalogService.AddQuestion(ctx.Param("id"), req)
	if err != nil {
		c.handleCatalogError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// UpdateQuestion godoc
// @Summary 更新题目
// @Tags 目录管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "题目ID"
// @Param body body service.QuestionRequest true "题目信息"
// @Success 200 {object} util.Response
// @Router /api/admin/questions/{id} [put]
func (c *CatalogController) UpdateQuestion(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.CatalogService.UpdateQuestion(ctx.Param("id"), req)
	if err != nil {
		c.handleCatalogError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// DeleteQuestion godoc
// @Summary 删除题目
// @Tags 目录管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/admin/questions/{id} [delete]
func (c *CatalogController) DeleteQuestion(ctx *gin.Context) {
	if err := c.CatalogService.DeleteQuestion(ctx.Param("id")); err != nil {
		c.handleCatalogError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// CreateBadge godoc
// @Summary 创建主题徽章
// @Tags 目录管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.BadgeRequest true "徽章信息"
// @Success 201 {object} util.Response
// @Router /api/admin/badges [post]
func (c *CatalogController) CreateBadge(ctx *gin.Context) {
	var req service.BadgeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	badge, err := c.CatalogService.CreateBadge(req)
	if err != nil {
		c.handleCatalogError(ctx, err)
		return
	}
	util.Created(ctx, badge)
}
