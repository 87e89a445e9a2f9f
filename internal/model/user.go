package model

import (
	"strings"
	"time"
)

// swagger:model User
type User struct {
	BaseModel
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	LastLogin time.Time `json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}

// CanAccessAdmin 管理后台只对指定域名的邮箱开放
func (u *User) CanAccessAdmin(domain string) bool {
	return CanAccessAdmin(u.Email, domain)
}

func CanAccessAdmin(email, domain string) bool {
	if domain == "" {
		return false
	}
	return strings.HasSuffix(strings.ToLower(email), strings.ToLower(domain))
}
