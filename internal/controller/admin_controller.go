package controller

import (
	"course_hub_backend/internal/admin"
	"course_hub_backend/internal/service"
	"course_hub_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	AdminService *service.AdminService
	MediaService *service.MediaService
}

func NewAdminController(adminService *service.AdminService, mediaService *service.MediaService) *AdminController {
	return &AdminController{AdminService: adminService, MediaService: mediaService}
}

func adminError(ctx *gin.Context, err error) {
	var verr *admin.ValidationError
	switch {
	case errors.As(err, &verr):
		util.ValidationFailed(ctx, verr.Fields)
	case util.IsNotFound(err):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Error(ctx, http.StatusMethodNotAllowed, err.Error())
	case errors.Is(err, util.ErrInvalidFileType):
		util.ValidationFailed(ctx, map[string]string{"file": "The file must be a file of an allowed type."})
	case errors.Is(err, util.ErrFileTooLarge):
		util.ValidationFailed(ctx, map[string]string{"file": "The file is too large."})
	default:
		util.LogInternalError(ctx, err)
	}
}

// ListResources godoc
// @Summary 后台资源描述
// @Description 返回所有资源的表单字段与列表列定义，前端据此渲染
// @Tags 管理后台
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]admin.Resource}
// @Failure 403 {object} util.Response
// @Router /api/admin/resources [get]
func (c *AdminController) ListResources(ctx *gin.Context) {
	util.Success(ctx, c.AdminService.Resources())
}

// List godoc
// @Summary 资源分页列表
// @Tags 管理后台
// @Produce json
// @Security ApiKeyAuth
// @Param resource path string true "资源名" Enums(courses, lessons, contact-forms, user-courses, user-lessons)
// @Param page query int false "页码"
// @Param limit query int false "每页条数"
// @Param search query string false "搜索关键词"
// @Param sort query string false "排序列，前缀 - 表示降序"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Failure 404 {object} util.Response
// @Router /api/admin/{resource} [get]
func (c *AdminController) List(ctx *gin.Context) {
	var q service.AdminListQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	page, err := c.AdminService.List(ctx.Request.Context(), ctx.Param("resource"), q)
	if err != nil {
		adminError(ctx, err)
		return
	}
	util.Success(ctx, page)
}

// Get godoc
// @Summary 资源详情
// @Tags 管理后台
// @Produce json
// @Security ApiKeyAuth
// @Param resource path string true "资源名"
// @Param id path int true "记录ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/{resource}/{id} [get]
func (c *AdminController) Get(ctx *gin.Context) {
	id, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.NotFound(ctx)
		return
	}

	record, err := c.AdminService.Get(ctx.Request.Context(), ctx.Param("resource"), id)
	if err != nil {
		adminError(ctx, err)
		return
	}
	util.Success(ctx, record)
}

// Create godoc
// @Summary 新建资源记录
// @Tags 管理后台
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param resource path string true "资源名"
// @Param body body object true "字段取值，键见资源描述"
// @Success 201 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /api/admin/{resource} [post]
func (c *AdminController) Create(ctx *gin.Context) {
	var payload map[string]interface{}
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	record, err := c.AdminService.Create(ctx.Request.Context(), ctx.Param("resource"), payload)
	if err != nil {
		adminError(ctx, err)
		return
	}
	util.Created(ctx, record)
}

// Update godoc
// @Summary 更新资源记录
// @Description 只更新请求中出现的字段
// @Tags 管理后台
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param resource path string true "资源名"
// @Param id path int true "记录ID"
// @Param body body object true "字段取值"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /api/admin/{resource}/{id} [put]
func (c *AdminController) Update(ctx *gin.Context) {
	id, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.NotFound(ctx)
		return
	}

	var payload map[string]interface{}
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	record, err := c.AdminService.Update(ctx.Request.Context(), ctx.Param("resource"), id, payload)
	if err != nil {
		adminError(ctx, err)
		return
	}
	util.Success(ctx, record)
}

// Delete godoc
// @Summary 删除资源记录
// @Tags 管理后台
// @Produce json
// @Security ApiKeyAuth
// @Param resource path string true "资源名"
// @Param id path int true "记录ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/{resource}/{id} [delete]
func (c *AdminController) Delete(ctx *gin.Context) {
	id, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.NotFound(ctx)
		return
	}

	if err := c.AdminService.Delete(ctx.Request.Context(), ctx.Param("resource"), id); err != nil {
		adminError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UploadCourseImage godoc
// @Summary 上传课程图片
// @Tags 管理后台
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "图片文件"
// @Success 201 {object} util.Response{data=service.UploadResult}
// @Failure 422 {object} util.Response
// @Router /api/admin/uploads/course-image [post]
func (c *AdminController) UploadCourseImage(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.ValidationFailed(ctx, map[string]string{"file": "The file field is required."})
		return
	}

	result, err := c.MediaService.UploadCourseImage(ctx.Request.Context(), file)
	if err != nil {
		adminError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// UploadLessonAudio godoc
// @Summary 上传课时音频
// @Description 自动读取音频时长；带 lesson_id 时直接写回该课时
// @Tags 管理后台
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "音频文件"
// @Param lesson_id formData int false "课时ID"
// @Success 201 {object} util.Response{data=service.UploadResult}
// @Failure 404 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /api/admin/uploads/lesson-audio [post]
func (c *AdminController) UploadLessonAudio(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.ValidationFailed(ctx, map[string]string{"file": "The file field is required."})
		return
	}

	lessonID := util.MustParseUint(ctx.PostForm("lesson_id"))
	result, err := c.MediaService.UploadLessonAudio(ctx.Request.Context(), file, lessonID)
	if err != nil {
		adminError(ctx, err)
		return
	}
	util.Created(ctx, result)
}
