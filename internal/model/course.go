package model

// Course 课程
// swagger:model Course
type Course struct {
	BaseModel
	Name        string             `gorm:"size:255;not null" json:"name"`
	Description string             `gorm:"type:text" json:"description"`
	Image       string             `gorm:"size:255" json:"image"`
	Lessons     []Lesson           `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
	Enrollments []CourseEnrollment `gorm:"foreignKey:CourseID" json:"-"`
}

func (Course) TableName() string {
	return "courses"
}
