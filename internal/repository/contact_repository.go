package repository

import (
	"context"
	"course_hub_backend/internal/model"

	"gorm.io/gorm"
)

type ContactRepository struct {
	DB *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{DB: db}
}

func (r *ContactRepository) Create(ctx context.Context, msg *model.ContactMessage) error {
	return r.DB.WithContext(ctx).Create(msg).Error
}
