package controller

import (
	"course_hub_backend/internal/service"
	"course_hub_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type SearchController struct {
	SearchService *service.SearchService
}

func NewSearchController(searchService *service.SearchService) *SearchController {
	return &SearchController{SearchService: searchService}
}

// Search godoc
// @Summary 搜索课程与课时
// @Description 少于 2 个字符返回空结果；名称以关键词开头的排在前面，每类最多 5 条。响应体不使用统一包装
// @Tags 搜索
// @Produce json
// @Param q query string true "关键词"
// @Success 200 {object} model.SearchResult
// @Router /api/search [get]
func (c *SearchController) Search(ctx *gin.Context) {
	result, err := c.SearchService.Search(ctx.Request.Context(), ctx.Query("q"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}
