package admin

import (
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/util"
)

var audioAccept = util.AllowedAudioTypes[:6]

var Courses = define[model.Course](Resource{
	Name:  "courses",
	Label: "Courses",
	Fields: []Field{
		{Name: "name", Column: "name", Label: "name", Kind: KindText, Required: true, MaxLength: 255},
		{Name: "description", Column: "description", Label: "description", Kind: KindText, Required: true},
		{Name: "image", Column: "image", Label: "image", Kind: KindFile, Required: true,
			Accept: []string{util.MimeImage}, MaxSizeKB: util.MaxImageSizeKB, Upload: "course-image"},
	},
	Columns: []Column{
		{Name: "id", Label: "ID", Sortable: true},
		{Name: "name", Label: "Name", Sortable: true},
		{Name: "description", Label: "Description"},
		{Name: "image", Label: "Image"},
		{Name: "createdAt", Label: "Created at", Sortable: true, DBColumn: "created_at"},
	},
	SearchColumns: []string{"name", "description"},
	DefaultSort:   "-id",
})

var Lessons = define[model.Lesson](Resource{
	Name:  "lessons",
	Label: "Lessons",
	Fields: []Field{
		{Name: "courseId", Column: "course_id", Label: "course", Kind: KindSelect, Required: true, Relation: "courses"},
		{Name: "title", Column: "title", Label: "title", Kind: KindText, Required: true, MaxLength: 255},
		{Name: "index", Column: "index", Label: "index", Kind: KindNumber, Required: true, Integer: true},
		{Name: "audio", Column: "audio", Label: "audio", Kind: KindFile, Required: true,
			Accept: audioAccept, MaxSizeKB: util.MaxAudioSizeKB, Upload: "lesson-audio"},
		{Name: "audioDuration", Column: "audio_duration", Label: "audio duration", Kind: KindNumber},
		{Name: "content", Column: "content", Label: "content", Kind: KindTextarea, Required: true},
	},
	Columns: []Column{
		{Name: "id", Label: "ID", Sortable: true},
		{Name: "course.name", Label: "Course"},
		{Name: "title", Label: "Title", Sortable: true},
		{Name: "index", Label: "Index", Sortable: true},
		{Name: "audio", Label: "Audio"},
		{Name: "updatedAt", Label: "Updated at", Sortable: true, DBColumn: "updated_at"},
	},
	SearchColumns: []string{"title", "audio"},
	DefaultSort:   "-id",
	Preload:       []string{"Course"},
})

var ContactForms = define[model.ContactMessage](Resource{
	Name:  "contact-forms",
	Label: "Contact forms",
	Fields: []Field{
		{Name: "name", Column: "name", Label: "name", Kind: KindText, Required: true, MaxLength: 255},
		{Name: "email", Column: "email", Label: "email address", Kind: KindEmail, Required: true, MaxLength: 255},
		{Name: "subject", Column: "subject", Label: "subject", Kind: KindText, Required: true, MaxLength: 255},
		{Name: "message", Column: "message", Label: "message", Kind: KindTextarea, Required: true},
	},
	Columns: []Column{
		{Name: "id", Label: "ID", Sortable: true},
		{Name: "name", Label: "Name", Sortable: true},
		{Name: "email", Label: "Email address", Sortable: true},
		{Name: "subject", Label: "Subject"},
		{Name: "createdAt", Label: "Received at", Sortable: true, DBColumn: "created_at"},
	},
	SearchColumns: []string{"name", "email", "subject"},
	DefaultSort:   "-id",
	DisableCreate: true,
})

var UserCourses = define[model.CourseEnrollment](Resource{
	Name:  "user-courses",
	Label: "User courses",
	Fields: []Field{
		{Name: "userId", Column: "user_id", Label: "user", Kind: KindSelect, Required: true, Relation: "users"},
		{Name: "courseId", Column: "course_id", Label: "course", Kind: KindSelect, Required: true, Relation: "courses"},
		{Name: "isCompleted", Column: "is_completed", Label: "is completed", Kind: KindBool, Required: true},
	},
	Columns: []Column{
		{Name: "id", Label: "ID", Sortable: true},
		{Name: "user.name", Label: "User"},
		{Name: "course.name", Label: "Course"},
		{Name: "isCompleted", Label: "Completed", Sortable: true, DBColumn: "is_completed"},
	},
	DefaultSort: "-id",
	Preload:     []string{"User", "Course"},
})

var UserLessons = define[model.LessonCompletion](Resource{
	Name:  "user-lessons",
	Label: "User lessons",
	Fields: []Field{
		{Name: "userId", Column: "user_id", Label: "user", Kind: KindSelect, Required: true, Relation: "users"},
		{Name: "lessonId", Column: "lesson_id", Label: "lesson", Kind: KindSelect, Required: true, Relation: "lessons"},
		{Name: "isCompleted", Column: "is_completed", Label: "is completed", Kind: KindBool, Required: true},
	},
	Columns: []Column{
		{Name: "id", Label: "ID", Sortable: true},
		{Name: "user.name", Label: "User"},
		{Name: "lesson.title", Label: "Lesson"},
		{Name: "isCompleted", Label: "Completed", Sortable: true, DBColumn: "is_completed"},
	},
	DefaultSort:   "-id",
	DisableCreate: true,
	Preload:       []string{"User", "Lesson"},
})

// RelationModels 关联字段指向的模型，用于校验外键存在
var RelationModels = map[string]func() interface{}{
	"users":   func() interface{} { return &model.User{} },
	"courses": func() interface{} { return &model.Course{} },
	"lessons": func() interface{} { return &model.Lesson{} },
}

// DefaultRegistry 后台开放的全部资源
func DefaultRegistry() *Registry {
	return NewRegistry(Courses, Lessons, ContactForms, UserCourses, UserLessons)
}
