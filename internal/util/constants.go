package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimeImage = "image/"
)

// AllowedAudioTypes 课时音频允许的 MIME 类型
var AllowedAudioTypes = []string{
	"audio/mpeg",
	"audio/wav",
	"audio/mp3",
	"audio/ogg",
	"audio/mp4",
	"audio/m4a",
	"audio/x-m4a",
}

const (
	MaxAudioSizeKB = 10240
	MaxImageSizeKB = 5120
)
