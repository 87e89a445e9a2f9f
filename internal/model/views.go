package model

// CourseView 课程对外展示结构，IsCompleted 针对当前用户
type CourseView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	IsCompleted bool   `json:"is_completed"`
}

// LessonView 课时对外展示结构
type LessonView struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	Index         int     `json:"index"`
	Audio         string  `json:"audio"`
	AudioURL      *string `json:"audio_url"`
	AudioDuration float64 `json:"audio_duration"`
	Content       string  `json:"content"`
	ContentHTML   string  `json:"content_html,omitempty"`
	IsCompleted   bool    `json:"is_completed"`
}

// CourseRef 搜索结果中课时所属课程的最小信息
type CourseRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CourseHit struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type LessonHit struct {
	ID       uint      `json:"id"`
	Title    string    `json:"title"`
	CourseID uint      `json:"course_id"`
	Course   CourseRef `json:"course"`
}

// SearchResult 两个数组都保证非 nil，序列化为 []
type SearchResult struct {
	Courses []CourseHit `json:"courses"`
	Lessons []LessonHit `json:"lessons"`
}

func EmptySearchResult() *SearchResult {
	return &SearchResult{Courses: []CourseHit{}, Lessons: []LessonHit{}}
}
