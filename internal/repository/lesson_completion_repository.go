package repository

import (
	"context"
	"course_hub_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LessonCompletionRepository struct {
	DB *gorm.DB
}

func NewLessonCompletionRepository(db *gorm.DB) *LessonCompletionRepository {
	return &LessonCompletionRepository{DB: db}
}

// MarkCompleted 按 (user_id, lesson_id) 唯一索引 upsert，只会写入 true
func (r *LessonCompletionRepository) MarkCompleted(ctx context.Context, userID, lessonID uint) error {
	completion := model.LessonCompletion{
		UserID:      userID,
		LessonID:    lessonID,
		IsCompleted: true,
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"is_completed": true,
			"updated_at":   time.Now(),
		}),
	}).Create(&completion).Error
}

// CompletedLessonIDs 返回给定课时中用户已完成的集合
func (r *LessonCompletionRepository) CompletedLessonIDs(ctx context.Context, userID uint, lessonIDs []uint) (map[uint]bool, error) {
	set := make(map[uint]bool)
	if len(lessonIDs) == 0 {
		return set, nil
	}

	var ids []uint
	err := r.DB.WithContext(ctx).Model(&model.LessonCompletion{}).
		Where("user_id = ? AND lesson_id IN ? AND is_completed = ?", userID, lessonIDs, true).
		Pluck("lesson_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// CountCompletedInCourse 统计用户在课程内已完成的课时数
func (r *LessonCompletionRepository) CountCompletedInCourse(ctx context.Context, userID, courseID uint) (int64, error) {
	var count int64
	lessonIDs := r.DB.Model(&model.Lesson{}).Select("id").Where("course_id = ?", courseID)
	err := r.DB.WithContext(ctx).Model(&model.LessonCompletion{}).
		Where("user_id = ? AND is_completed = ? AND lesson_id IN (?)", userID, true, lessonIDs).
		Count(&count).Error
	return count, err
}

func (r *LessonCompletionRepository) Count(ctx context.Context, userID, lessonID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.LessonCompletion{}).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Count(&count).Error
	return count, err
}
