package service

import (
	"context"
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/util"
	"course_hub_backend/pkg/logger"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo     *repository.CourseRepository
	LessonRepo     *repository.LessonRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Progress       *ProgressService
	Storage        *StorageService
	Markdown       *MarkdownRenderer
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	lessonRepo *repository.LessonRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	progress *ProgressService,
	storage *StorageService,
	markdown *MarkdownRenderer,
) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		LessonRepo:     lessonRepo,
		EnrollmentRepo: enrollmentRepo,
		Progress:       progress,
		Storage:        storage,
		Markdown:       markdown,
	}
}

// CoursePage 课程页面数据，CurrentLesson 仅在课时页返回
type CoursePage struct {
	Course        model.CourseView   `json:"course"`
	Lessons       []model.LessonView `json:"lessons"`
	CurrentLesson *model.LessonView  `json:"currentLesson,omitempty"`
}

func (s *CourseService) ListCourses(ctx context.Context, userID *uint) ([]model.CourseView, error) {
	courses, err := s.CourseRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	var completed map[uint]bool
	if userID != nil {
		completed, err = s.EnrollmentRepo.CompletedCourseIDs(ctx, *userID)
		if err != nil {
			return nil, err
		}
	}

	views := make([]model.CourseView, 0, len(courses))
	for i := range courses {
		views = append(views, s.courseView(ctx, &courses[i], completed[courses[i].ID]))
	}
	return views, nil
}

// ShowCourse 登录用户自动报名。存在当前课时时返回该课时供跳转，否则返回课程概览
func (s *CourseService) ShowCourse(ctx context.Context, courseID uint, userID *uint) (*CoursePage, *model.Lesson, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}

	if userID != nil {
		if _, err := s.Progress.EnsureEnrolled(ctx, *userID, course.ID); err != nil {
			return nil, nil, err
		}
	}

	current, err := s.Progress.CurrentLesson(ctx, course, userID)
	if err != nil {
		return nil, nil, err
	}
	if current != nil {
		return nil, current, nil
	}

	page, err := s.buildPage(ctx, course, userID)
	if err != nil {
		return nil, nil, err
	}
	return page, nil, nil
}

// ShowLesson 打开课时即视为完成（仅登录用户），随后重新判定课程完成状态
func (s *CourseService) ShowLesson(ctx context.Context, courseID, lessonID uint, userID *uint) (*CoursePage, error) {
	lesson, err := s.lessonInCourse(ctx, courseID, lessonID)
	if err != nil {
		return nil, err
	}

	if userID != nil {
		if _, err := s.Progress.EnsureEnrolled(ctx, *userID, courseID); err != nil {
			return nil, err
		}
		if err := s.track(ctx, *userID, courseID, lesson.ID); err != nil {
			return nil, err
		}
	}

	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	page, err := s.buildPage(ctx, course, userID)
	if err != nil {
		return nil, err
	}

	for i := range page.Lessons {
		if page.Lessons[i].ID == lesson.ID {
			current := page.Lessons[i]
			current.ContentHTML = s.render(lesson)
			page.CurrentLesson = &current
			break
		}
	}
	return page, nil
}

// CompleteLesson 显式标记课时完成
func (s *CourseService) CompleteLesson(ctx context.Context, courseID, lessonID, userID uint) error {
	lesson, err := s.lessonInCourse(ctx, courseID, lessonID)
	if err != nil {
		return err
	}
	return s.track(ctx, userID, courseID, lesson.ID)
}

func (s *CourseService) track(ctx context.Context, userID, courseID, lessonID uint) error {
	if err := s.Progress.MarkLessonCompleted(ctx, userID, lessonID); err != nil {
		return err
	}
	if _, err := s.Progress.RecomputeCourseCompletion(ctx, userID, courseID); err != nil {
		return err
	}
	return nil
}

func (s *CourseService) loadCourse(ctx context.Context, courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindWithLessons(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, fmt.Errorf("load course %d: %w", courseID, err)
	}
	return course, nil
}

func (s *CourseService) lessonInCourse(ctx context.Context, courseID, lessonID uint) (*model.Lesson, error) {
	if _, err := s.CourseRepo.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	lesson, err := s.LessonRepo.FindByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	if lesson.CourseID != courseID {
		return nil, util.ErrLessonNotInCourse
	}
	return lesson, nil
}

func (s *CourseService) buildPage(ctx context.Context, course *model.Course, userID *uint) (*CoursePage, error) {
	completed, err := s.Progress.CompletedLessons(ctx, course.Lessons, userID)
	if err != nil {
		return nil, err
	}

	courseDone := false
	if userID != nil {
		enrollment, err := s.EnrollmentRepo.Find(ctx, *userID, course.ID)
		if err == nil {
			courseDone = enrollment.IsCompleted
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	lessons := make([]model.LessonView, 0, len(course.Lessons))
	for i := range course.Lessons {
		lessons = append(lessons, s.lessonView(ctx, &course.Lessons[i], completed[course.Lessons[i].ID]))
	}

	return &CoursePage{
		Course:  s.courseView(ctx, course, courseDone),
		Lessons: lessons,
	}, nil
}

func (s *CourseService) courseView(ctx context.Context, c *model.Course, completed bool) model.CourseView {
	view := model.CourseView{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IsCompleted: completed,
	}
	if url := s.Storage.ResolveURL(ctx, c.Image); url != nil {
		view.ImageURL = *url
	}
	return view
}

func (s *CourseService) lessonView(ctx context.Context, l *model.Lesson, completed bool) model.LessonView {
	return model.LessonView{
		ID:            l.ID,
		Title:         l.Title,
		Index:         l.Index,
		Audio:         l.Audio,
		AudioURL:      s.Storage.ResolveURL(ctx, l.Audio),
		AudioDuration: l.AudioDuration,
		Content:       l.Content,
		IsCompleted:   completed,
	}
}

func (s *CourseService) render(l *model.Lesson) string {
	html, err := s.Markdown.Render(l.Content)
	if err != nil {
		logger.Log.Warn("render lesson content", zap.Uint("lesson_id", l.ID), zap.Error(err))
		return ""
	}
	return html
}
