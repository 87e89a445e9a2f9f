package util

import (
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ValidateMimeType 按文件内容（而非扩展名）校验 MIME 类型
// allowedTypes: 允许的 MIME 前缀（以 / 结尾）或完整类型，如 "image/", "audio/mpeg"
func ValidateMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	mtype, err := mimetype.DetectReader(reader)
	if err != nil {
		return "", err
	}

	detected := mtype.String()
	for _, allowed := range allowedTypes {
		if strings.HasSuffix(allowed, "/") {
			if strings.HasPrefix(detected, allowed) {
				return detected, nil
			}
			continue
		}
		if mtype.Is(allowed) {
			return detected, nil
		}
	}

	return detected, fmt.Errorf("%w: %s", ErrInvalidFileType, detected)
}

// IsImage 检测是否为图片
func IsImage(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}

// IsAudio 检测是否为音频
func IsAudio(mimeType string) bool {
	return strings.HasPrefix(mimeType, "audio/")
}
