package repository

import (
	"context"
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SearchRepository struct {
	DB *gorm.DB
}

func NewSearchRepository(db *gorm.DB) *SearchRepository {
	return &SearchRepository{DB: db}
}

// startsWithFirst 前缀匹配排在包含匹配之前，同档按 id
func startsWithFirst(column, prefix string) clause.OrderBy {
	return clause.OrderBy{Expression: clause.Expr{
		SQL:                "CASE WHEN " + util.LowerLike(column) + " THEN 1 ELSE 2 END, id",
		Vars:               []interface{}{prefix},
		WithoutParentheses: true,
	}}
}

func (r *SearchRepository) SearchCourses(ctx context.Context, term string, limit int) ([]model.Course, error) {
	var courses []model.Course
	like := util.LikeContains(term)
	err := r.DB.WithContext(ctx).
		Select("id", "name").
		Where(util.LowerLike("name")+" OR "+util.LowerLike("description"), like, like).
		Order(startsWithFirst("name", util.LikePrefix(term))).
		Limit(limit).
		Find(&courses).Error
	return courses, err
}

// SearchLessons 预加载所属课程的 id/name 作为展示上下文
func (r *SearchRepository) SearchLessons(ctx context.Context, term string, limit int) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.WithContext(ctx).
		Select("id", "title", "course_id").
		Preload("Course", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		}).
		Where(util.LowerLike("title"), util.LikeContains(term)).
		Order(startsWithFirst("title", util.LikePrefix(term))).
		Limit(limit).
		Find(&lessons).Error
	return lessons, err
}
