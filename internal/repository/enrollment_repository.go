package repository

import (
	"context"
	"course_hub_backend/internal/model"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

// FirstOrCreate 已存在时原样返回，不修改任何字段。
// 并发首次访问时插入冲突由 idx_user_course 吸收，随后统一读回同一行
func (r *EnrollmentRepository) FirstOrCreate(ctx context.Context, userID, courseID uint) (*model.CourseEnrollment, error) {
	enrollment, err := r.Find(ctx, userID, courseID)
	if err == nil {
		return enrollment, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.CourseEnrollment{UserID: userID, CourseID: courseID, IsCompleted: false}).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}
	return r.Find(ctx, userID, courseID)
}

func (r *EnrollmentRepository) Find(ctx context.Context, userID, courseID uint) (*model.CourseEnrollment, error) {
	var enrollment model.CourseEnrollment
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	return &enrollment, err
}

// MarkCompleted 仅置为 true；记录不存在时影响 0 行，不视为错误
func (r *EnrollmentRepository) MarkCompleted(ctx context.Context, userID, courseID uint) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&model.CourseEnrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Update("is_completed", true)
	return res.RowsAffected, res.Error
}

// CompletedCourseIDs 返回用户已完成课程的集合
func (r *EnrollmentRepository) CompletedCourseIDs(ctx context.Context, userID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).Model(&model.CourseEnrollment{}).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Pluck("course_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
