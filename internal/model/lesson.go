package model

// Lesson 课时，Index 决定课程内的学习顺序（不要求连续）
// swagger:model Lesson
type Lesson struct {
	BaseModel
	CourseID      uint    `gorm:"index;not null" json:"courseId"`
	Index         int     `gorm:"column:index;not null;default:0" json:"index"`
	Title         string  `gorm:"size:255;not null" json:"title"`
	Content       string  `gorm:"type:text" json:"content"`
	Audio         string  `gorm:"size:255" json:"audio"`
	AudioDuration float64 `gorm:"default:0" json:"audioDuration"` // 秒
	Course        *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}
