package model

// CourseEnrollment 用户与课程的关联，首次访问课程时创建
// swagger:model CourseEnrollment
type CourseEnrollment struct {
	Timestamps
	UserID      uint    `gorm:"uniqueIndex:idx_user_course;not null" json:"userId"`
	CourseID    uint    `gorm:"uniqueIndex:idx_user_course;not null" json:"courseId"`
	IsCompleted bool    `gorm:"not null;default:false" json:"isCompleted"`
	User        *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Course      *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (CourseEnrollment) TableName() string {
	return "user_courses"
}

// LessonCompletion 用户对课时的完成记录
// swagger:model LessonCompletion
type LessonCompletion struct {
	Timestamps
	UserID      uint    `gorm:"uniqueIndex:idx_user_lesson;not null" json:"userId"`
	LessonID    uint    `gorm:"uniqueIndex:idx_user_lesson;not null" json:"lessonId"`
	IsCompleted bool    `gorm:"not null;default:false" json:"isCompleted"`
	User        *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Lesson      *Lesson `gorm:"foreignKey:LessonID" json:"lesson,omitempty"`
}

func (LessonCompletion) TableName() string {
	return "user_lessons"
}
