package repository

import (
	"context"
	"course_hub_backend/internal/admin"
	"reflect"

	"gorm.io/gorm"
)

// AdminRepository 基于资源描述的通用数据访问
type AdminRepository struct {
	DB *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{DB: db}
}

func (r *AdminRepository) preload(db *gorm.DB, res *admin.Resource) *gorm.DB {
	for _, rel := range res.Preload {
		db = db.Preload(rel)
	}
	return db
}

// List 返回 []T 与总数
func (r *AdminRepository) List(ctx context.Context, res *admin.Resource, search, sort string, offset, limit int) (interface{}, int64, error) {
	scoped := func() *gorm.DB {
		query := r.DB.WithContext(ctx).Model(res.New())
		if cond, args := res.SearchCondition(search); cond != "" {
			query = query.Where(cond, args...)
		}
		return query
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := res.NewSlice()
	err := r.preload(scoped(), res).
		Order(res.SortClause(sort)).
		Offset(offset).
		Limit(limit).
		Find(items).Error
	if err != nil {
		return nil, 0, err
	}
	return reflect.ValueOf(items).Elem().Interface(), total, nil
}

func (r *AdminRepository) Find(ctx context.Context, res *admin.Resource, id uint) (interface{}, error) {
	record := res.New()
	err := r.preload(r.DB.WithContext(ctx), res).First(record, id).Error
	return record, err
}

func (r *AdminRepository) Create(ctx context.Context, record interface{}) error {
	return r.DB.WithContext(ctx).Create(record).Error
}

// Update record 需含主键；values 以数据库列为键
func (r *AdminRepository) Update(ctx context.Context, record interface{}, values map[string]interface{}) error {
	return r.DB.WithContext(ctx).Model(record).Updates(values).Error
}

func (r *AdminRepository) Delete(ctx context.Context, res *admin.Resource, id uint) (int64, error) {
	result := r.DB.WithContext(ctx).Delete(res.New(), id)
	return result.RowsAffected, result.Error
}

// Exists 用于关联字段的外键校验
func (r *AdminRepository) Exists(ctx context.Context, model interface{}, id uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
