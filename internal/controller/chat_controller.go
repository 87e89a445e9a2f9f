package controller

import (
	"course_hub_backend/internal/service"
	"course_hub_backend/internal/util"
	"course_hub_backend/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ChatController struct {
	ChatService *service.ChatService
}

func NewChatController(chatService *service.ChatService) *ChatController {
	return &ChatController{ChatService: chatService}
}

// Chat godoc
// @Summary 课时助教对话
// @Description 以 NDJSON 流的形式原样转发模型输出。上游不可用时返回 200 与一行 {"error": "..."}
// @Tags 助教
// @Accept json
// @Produce application/x-ndjson
// @Param body body service.ChatRequest true "对话与课时上下文"
// @Success 200 {string} string "NDJSON stream"
// @Failure 422 {object} util.Response "字段校验失败"
// @Router /api/chat [post]
func (c *ChatController) Chat(ctx *gin.Context) {
	var req service.ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}

	header := ctx.Writer.Header()
	header.Set("Content-Type", "application/x-ndjson")
	header.Set("X-Accel-Buffering", "no")
	header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	header.Set("Pragma", "no-cache")
	header.Set("Expires", "0")
	ctx.Status(http.StatusOK)

	if err := c.ChatService.Stream(ctx.Request.Context(), &req, ctx.Writer, ctx.Writer.Flush); err != nil {
		logger.Log.Debug("chat stream aborted", zap.Error(err))
	}
}
