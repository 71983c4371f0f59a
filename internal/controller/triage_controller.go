package controller

import (
	"firstaid_backend/internal/service"
	"firstaid_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type TriageController struct {
	TriageService *service.TriageService
}

func NewTriageController(triageService *service.TriageService) *TriageController {
	return &TriageController{TriageService: triageService}
}

// swagger:model ClassifyRequest
type ClassifyRequest struct {
	Text string `json:"text" binding:"required"`
}

// Classify godoc
// @Summary 伤情描述分类
// @Description 将自由文本伤情描述发送到远端分类服务，返回标签与对应主题
// @Tags 分诊
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body ClassifyRequest true "伤情描述"
// @Success 200 {object} util.Response
// @Failure 502 {object} util.Response "分类服务不可用"
// @Router /api/triage/classify [post]
func (c *TriageController) Classify(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ClassifyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.TriageService.Classify(ctx.Request.Context(), user.UserID, req.Text)
	if err != nil {
		util.Error(ctx, http.StatusBadGateway, "分类服务暂不可用，请稍后重试")
		return
	}

	util.Success(ctx, result)
}
