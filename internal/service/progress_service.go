package service

import (
	"context"
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/pkg/logger"
	"course_hub_backend/pkg/monitoring"
	"fmt"

	"go.uber.org/zap"
)

// ProgressService 报名、课时完成与课程完成判定。
// 所有写操作都是幂等且单向（false -> true）的，同一用户并发访问不需要加锁。
type ProgressService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CompletionRepo *repository.LessonCompletionRepository
	LessonRepo     *repository.LessonRepository
}

func NewProgressService(
	enrollmentRepo *repository.EnrollmentRepository,
	completionRepo *repository.LessonCompletionRepository,
	lessonRepo *repository.LessonRepository,
) *ProgressService {
	return &ProgressService{
		EnrollmentRepo: enrollmentRepo,
		CompletionRepo: completionRepo,
		LessonRepo:     lessonRepo,
	}
}

func (s *ProgressService) EnsureEnrolled(ctx context.Context, userID, courseID uint) (*model.CourseEnrollment, error) {
	enrollment, err := s.EnrollmentRepo.FirstOrCreate(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("ensure enrolled: %w", err)
	}
	return enrollment, nil
}

func (s *ProgressService) MarkLessonCompleted(ctx context.Context, userID, lessonID uint) error {
	if err := s.CompletionRepo.MarkCompleted(ctx, userID, lessonID); err != nil {
		return fmt.Errorf("mark lesson completed: %w", err)
	}
	monitoring.LessonsCompleted.Inc()
	return nil
}

// RecomputeCourseCompletion 课程至少有一个课时且全部完成时把报名记录置为完成。
// 不会把已完成改回未完成；报名记录不存在时更新 0 行，静默忽略。
func (s *ProgressService) RecomputeCourseCompletion(ctx context.Context, userID, courseID uint) (bool, error) {
	total, err := s.LessonRepo.CountByCourse(ctx, courseID)
	if err != nil {
		return false, fmt.Errorf("count lessons: %w", err)
	}
	if total == 0 {
		return false, nil
	}

	done, err := s.CompletionRepo.CountCompletedInCourse(ctx, userID, courseID)
	if err != nil {
		return false, fmt.Errorf("count completions: %w", err)
	}
	if done != total {
		return false, nil
	}

	rows, err := s.EnrollmentRepo.MarkCompleted(ctx, userID, courseID)
	if err != nil {
		return false, fmt.Errorf("mark course completed: %w", err)
	}
	if rows == 0 {
		logger.Log.Debug("course completion matched no enrollment",
			zap.Uint("user_id", userID), zap.Uint("course_id", courseID))
	} else {
		monitoring.CoursesCompleted.Inc()
	}
	return true, nil
}

// CompletedLessons 匿名用户返回 nil
func (s *ProgressService) CompletedLessons(ctx context.Context, lessons []model.Lesson, userID *uint) (map[uint]bool, error) {
	if userID == nil {
		return nil, nil
	}
	ids := make([]uint, 0, len(lessons))
	for _, l := range lessons {
		ids = append(ids, l.ID)
	}
	completed, err := s.CompletionRepo.CompletedLessonIDs(ctx, *userID, ids)
	if err != nil {
		return nil, fmt.Errorf("load completed lessons: %w", err)
	}
	return completed, nil
}

// CurrentLesson course.Lessons 需已加载
func (s *ProgressService) CurrentLesson(ctx context.Context, course *model.Course, userID *uint) (*model.Lesson, error) {
	if len(course.Lessons) == 0 {
		return nil, nil
	}
	completed, err := s.CompletedLessons(ctx, course.Lessons, userID)
	if err != nil {
		return nil, err
	}
	return ResolveCurrentLesson(course.Lessons, completed), nil
}
