package controller

import (
	"errors"
	"firstaid_backend/internal/service"
	"firstaid_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LearningController struct {
	LearningService *service.LearningService
	ProgressService *service.ProgressService
}

func NewLearningController(learningService *service.LearningService, progressService *service.ProgressService) *LearningController {
	return &LearningController{
		LearningService: learningService,
		ProgressService: progressService,
	}
}

// GetTopics godoc
// @Summary 主题列表
// @Description 全部急救主题及当前学习者的进度状态
// @Tags 学习
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/topics [get]
func (c *LearningController) GetTopics(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	topics, err := c.LearningService.GetTopicsWithStatus(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, topics)
}

// GetModule godoc
// @Summary 学习模块详情
// @Tags 学习
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "模块ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/learning/modules/{id} [get]
func (c *LearningController) GetModule(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	module, progress, err := c.LearningService.GetModuleDetail(user.UserID, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"module":   module,
		"progress": progress,
	})
}

// CompleteModule godoc
// @Summary 完成学习模块
// @Description 将模块标记为已完成。幂等：重复调用返回同一完成状态
// @Tags 学习
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "模块ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/learning/modules/{id}/complete [post]
func (c *LearningController) CompleteModule(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.ProgressService.CompleteLearning(user.UserID, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, progress)
}

// GetOverview godoc
// @Summary 学习进度总览
// @Tags 学习
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/progress/overview [get]
func (c *LearningController) GetOverview(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	overview, err := c.ProgressService.GetOverview(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, overview)
}
