package model

// ContactMessage 联系表单留言
// swagger:model ContactMessage
type ContactMessage struct {
	BaseModel
	Name    string `gorm:"size:255;not null" json:"name"`
	Email   string `gorm:"size:255;not null" json:"email"`
	Subject string `gorm:"size:255;not null" json:"subject"`
	Message string `gorm:"type:text;not null" json:"message"`
}

func (ContactMessage) TableName() string {
	return "contact_forms"
}
