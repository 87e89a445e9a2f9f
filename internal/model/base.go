package model

import (
	"time"

	"gorm.io/gorm"
)

// swagger:model
type BaseModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Timestamps 无软删除的基础字段，进度类记录需要硬唯一约束
type Timestamps struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Identifiable 通用后台读取新建记录的主键
type Identifiable interface {
	GetID() uint
}

func (m BaseModel) GetID() uint  { return m.ID }
func (m Timestamps) GetID() uint { return m.ID }
