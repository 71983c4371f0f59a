package controller

import (
	"errors"
	"firstaid_backend/internal/service"
	"firstaid_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	ProgressService *service.ProgressService
}

func NewExamController(progressService *service.ProgressService) *ExamController {
	return &ExamController{ProgressService: progressService}
}

// GetExam godoc
// @Summary 学生试卷视图
// @Description 试卷题目（选项乱序）与解锁状态。未解锁时只返回状态不下发题目
// @Tags 考试
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "考试ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/exams/{id} [get]
func (c *ExamController) GetExam(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.ProgressService.GetExamForLearner(user.UserID, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrExamNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, view)
}

// swagger:model SubmitExamRequest
type SubmitExamRequest struct {
	// 题目ID -> 所选答案
	Answers map[string]string `json:"answers" binding:"required"`
}

// SubmitExam godoc
// @Summary 提交考试
// @Description 评分并推进考试状态。全对才算通过；已通过的考试直接返回原结果
// @Tags 考试
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "考试ID"
// @Param body body SubmitExamRequest true "答案"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "考试不存在"
// @Failure 409 {object} util.Response "并发提交冲突"
// @Failure 422 {object} util.Response "答卷不完整"
// @Failure 423 {object} util.Response "考试未解锁"
// @Router /api/exams/{id}/submit [post]
func (c *ExamController) SubmitExam(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ProgressService.SubmitExam(ctx.Request.Context(), user.UserID, ctx.Param("id"), req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrExamNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrExamLocked):
			util.Locked(ctx, "请先完成该主题的学习模块")
		case errors.Is(err, util.ErrIncompleteSubmission):
			util.Error(ctx, http.StatusUnprocessableEntity, "请回答所有题目后再提交")
		case errors.Is(err, util.ErrWriteConflict), errors.Is(err, util.ErrSubmissionInFlight):
			util.Conflict(ctx, "考试状态已变化，请刷新后重试")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// IsUnlocked godoc
// @Summary 考试解锁状态
// @Description 展示层门控查询；提交时服务端会再次复核
// @Tags 考试
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "考试ID"
// @Success 200 {object} util.Response
// @Router /api/exams/{id}/unlocked [get]
func (c *ExamController) IsUnlocked(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	unlocked, err := c.ProgressService.IsExamUnlocked(user.UserID, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrExamNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"unlocked": unlocked})
}
