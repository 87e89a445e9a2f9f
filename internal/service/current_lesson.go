package service

import (
	"course_hub_backend/internal/model"
	"sort"
)

// ResolveCurrentLesson 选出用户应进入的课时:
// 按 index 升序第一个未完成的课时；全部完成或匿名访问（completed 为空）时返回 index 最小的课时；
// 没有课时返回 nil。结果只取决于课时列表与完成集合，与集合遍历顺序无关。
func ResolveCurrentLesson(lessons []model.Lesson, completed map[uint]bool) *model.Lesson {
	if len(lessons) == 0 {
		return nil
	}

	ordered := make([]model.Lesson, len(lessons))
	copy(ordered, lessons)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Index < ordered[j].Index
	})

	for i := range ordered {
		if !completed[ordered[i].ID] {
			return &ordered[i]
		}
	}
	return &ordered[0]
}
