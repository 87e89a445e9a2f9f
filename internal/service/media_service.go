package service

import (
	"context"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/util"
	"course_hub_backend/pkg/logger"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UploadResult Key 写入课程/课时记录，URL 供前端预览
type UploadResult struct {
	Key      string  `json:"key"`
	URL      string  `json:"url"`
	MimeType string  `json:"mime_type"`
	Duration float64 `json:"duration,omitempty"`
}

type MediaService struct {
	Storage    *StorageService
	LessonRepo *repository.LessonRepository
	TempDir    string
}

func NewMediaService(storage *StorageService, lessonRepo *repository.LessonRepository, tempDir string) *MediaService {
	return &MediaService{Storage: storage, LessonRepo: lessonRepo, TempDir: tempDir}
}

func (s *MediaService) UploadCourseImage(ctx context.Context, file *multipart.FileHeader) (*UploadResult, error) {
	if file.Size > util.MaxImageSizeKB*1024 {
		return nil, util.ErrFileTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	// 按内容校验 MIME
	mimeType, err := util.ValidateMimeType(src, []string{util.MimeImage})
	if err != nil {
		return nil, err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	key := objectKey("courses", file.Filename)
	url, err := s.Storage.Upload(ctx, key, src, file.Size, mimeType)
	if err != nil {
		return nil, fmt.Errorf("upload course image: %w", err)
	}
	return &UploadResult{Key: key, URL: url, MimeType: mimeType}, nil
}

// UploadLessonAudio 音频先落到临时文件用 ffprobe 读取时长，探测失败时长记为 0。
// lessonID 非零时直接写回课时记录。
func (s *MediaService) UploadLessonAudio(ctx context.Context, file *multipart.FileHeader, lessonID uint) (*UploadResult, error) {
	if file.Size > util.MaxAudioSizeKB*1024 {
		return nil, util.ErrFileTooLarge
	}
	if lessonID != 0 {
		if _, err := s.LessonRepo.FindByID(ctx, lessonID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrLessonNotFound
			}
			return nil, err
		}
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, util.AllowedAudioTypes)
	if err != nil {
		return nil, err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.TempDir, 0755); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(s.TempDir, "audio-*"+strings.ToLower(filepath.Ext(file.Filename)))
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	var duration float64
	if info, err := util.ProbeAudio(tmpPath); err != nil {
		logger.Log.Warn("probe lesson audio", zap.String("file", file.Filename), zap.Error(err))
	} else {
		duration = info.Duration
	}

	key := objectKey("lessons/audio", file.Filename)
	url, err := s.Storage.UploadFile(ctx, key, tmpPath, mimeType)
	if err != nil {
		return nil, fmt.Errorf("upload lesson audio: %w", err)
	}

	if lessonID != 0 {
		if err := s.LessonRepo.AttachAudio(ctx, lessonID, key, duration); err != nil {
			return nil, err
		}
	}

	return &UploadResult{Key: key, URL: url, MimeType: mimeType, Duration: duration}, nil
}

func objectKey(dir, filename string) string {
	return dir + "/" + uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}
