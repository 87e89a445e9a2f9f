package controller

import (
	"course_hub_backend/internal/service"
	"course_hub_backend/internal/util"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// courseError 课程/课时不存在（含课时不属于该课程）统一 404
func courseError(ctx *gin.Context, err error) {
	if util.IsNotFound(err) {
		util.NotFound(ctx)
		return
	}
	util.LogInternalError(ctx, err)
}

// ListCourses godoc
// @Summary 课程列表
// @Description 登录用户会得到每门课程的完成状态
// @Tags 课程
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.CourseView}
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	courses, err := c.CourseService.ListCourses(ctx.Request.Context(), util.GetUserID(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// ShowCourse godoc
// @Summary 进入课程
// @Description 登录用户自动报名；有课时时 302 跳转到当前课时，否则返回课程概览
// @Tags 课程
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Success 200 {object} util.Response{data=service.CoursePage}
// @Success 302 "跳转到当前课时"
// @Failure 404 {object} util.Response
// @Router /api/courses/{courseId} [get]
func (c *CourseController) ShowCourse(ctx *gin.Context) {
	courseID, ok := util.ParseID(ctx.Param("courseId"))
	if !ok {
		util.NotFound(ctx)
		return
	}

	page, current, err := c.CourseService.ShowCourse(ctx.Request.Context(), courseID, util.GetUserID(ctx))
	if err != nil {
		courseError(ctx, err)
		return
	}
	if current != nil {
		ctx.Redirect(http.StatusFound, fmt.Sprintf("/api/courses/%d/lessons/%d", courseID, current.ID))
		return
	}
	util.Success(ctx, page)
}

// ShowLesson godoc
// @Summary 查看课时
// @Description 登录用户查看课时即记为完成，并重新判定课程完成状态
// @Tags 课程
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Param lessonId path int true "课时ID"
// @Success 200 {object} util.Response{data=service.CoursePage}
// @Failure 404 {object} util.Response
// @Router /api/courses/{courseId}/lessons/{lessonId} [get]
func (c *CourseController) ShowLesson(ctx *gin.Context) {
	courseID, ok1 := util.ParseID(ctx.Param("courseId"))
	lessonID, ok2 := util.ParseID(ctx.Param("lessonId"))
	if !ok1 || !ok2 {
		util.NotFound(ctx)
		return
	}

	page, err := c.CourseService.ShowLesson(ctx.Request.Context(), courseID, lessonID, util.GetUserID(ctx))
	if err != nil {
		courseError(ctx, err)
		return
	}
	util.Success(ctx, page)
}

// CompleteLesson godoc
// @Summary 标记课时完成
// @Tags 课程
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Param lessonId path int true "课时ID"
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/courses/{courseId}/lessons/{lessonId}/complete [post]
func (c *CourseController) CompleteLesson(ctx *gin.Context) {
	userID := util.GetUserID(ctx)
	if userID == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID, ok1 := util.ParseID(ctx.Param("courseId"))
	lessonID, ok2 := util.ParseID(ctx.Param("lessonId"))
	if !ok1 || !ok2 {
		util.NotFound(ctx)
		return
	}

	if err := c.CourseService.CompleteLesson(ctx.Request.Context(), courseID, lessonID, *userID); err != nil {
		courseError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"lessonId": lessonID, "isCompleted": true})
}
