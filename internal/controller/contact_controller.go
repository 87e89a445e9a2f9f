package controller

import (
	"course_hub_backend/internal/service"
	"course_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContactController struct {
	ContactService *service.ContactService
}

func NewContactController(contactService *service.ContactService) *ContactController {
	return &ContactController{ContactService: contactService}
}

// Submit godoc
// @Summary 提交联系表单
// @Tags 联系我们
// @Accept json
// @Produce json
// @Param body body service.ContactRequest true "留言内容"
// @Success 201 {object} util.Response{data=object}
// @Failure 422 {object} util.Response "字段校验失败"
// @Router /api/contact [post]
func (c *ContactController) Submit(ctx *gin.Context) {
	var req service.ContactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}

	msg, err := c.ContactService.Submit(ctx.Request.Context(), &req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"id": msg.ID})
}
