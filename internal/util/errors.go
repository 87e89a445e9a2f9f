package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrCourseNotFound     = errors.New("course not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrLessonNotInCourse  = errors.New("lesson does not belong to course")
	ErrUnknownResource    = errors.New("unknown admin resource")
	ErrResourceNotFound   = errors.New("resource not found")
	ErrInvalidFileType    = errors.New("invalid file type")
	ErrFileTooLarge       = errors.New("file too large")
)

// IsNotFound 统一判断各类"不存在"错误，课时不属于课程也按不存在处理
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCourseNotFound) ||
		errors.Is(err, ErrLessonNotFound) ||
		errors.Is(err, ErrLessonNotInCourse) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrResourceNotFound) ||
		errors.Is(err, ErrUnknownResource)
}
