package util

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"course_hub_backend/internal/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{Email: "u@test.dev"}
	user.ID = 7

	token, err := GenerateJWT(user, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "u@test.dev", claims.Email)

	_, err = ParseJWT(token, "other")
	assert.Error(t, err)

	expired, err := GenerateJWT(user, "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, "secret")
	assert.Error(t, err)
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in     string
		want   uint
		wantOK bool
	}{
		{"12", 12, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseID(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

type contactPayload struct {
	Name  string `json:"name" binding:"required,max=5"`
	Email string `json:"email" binding:"required,email"`
}

func TestFieldErrors(t *testing.T) {
	err := binding.Validator.ValidateStruct(&contactPayload{Name: "toolongname", Email: "nope"})
	require.Error(t, err)

	fields := FieldErrors(err)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields["email"], "valid email")

	assert.Nil(t, FieldErrors(errors.New("boom")))
}

type notePayload struct {
	Title string `json:"title" binding:"required,notblank"`
}

func TestNotBlank(t *testing.T) {
	tests := []struct {
		title string
		ok    bool
	}{
		{"Alphabet", true},
		{"  Alphabet  ", true},
		{"", false},
		{"   ", false},
		{"\t\n", false},
	}
	for _, tt := range tests {
		err := binding.Validator.ValidateStruct(&notePayload{Title: tt.title})
		if tt.ok {
			assert.NoError(t, err, "%q", tt.title)
			continue
		}
		fields := FieldErrors(err)
		require.Contains(t, fields, "title", "%q", tt.title)
		assert.Contains(t, fields["title"], "is required")
	}
}

func TestValidateMimeType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	mime, err := ValidateMimeType(bytes.NewReader(png), []string{MimeImage})
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	_, err = ValidateMimeType(bytes.NewReader(png), AllowedAudioTypes)
	assert.ErrorIs(t, err, ErrInvalidFileType)

	_, err = ValidateMimeType(bytes.NewReader([]byte("plain text")), []string{MimeImage})
	assert.ErrorIs(t, err, ErrInvalidFileType)
}

func TestParseProbe(t *testing.T) {
	out := `{"streams":[{"codec_type":"audio","codec_name":"mp3"}],"format":{"duration":"12.5","format_name":"mp3,mp2"}}`
	info, err := parseProbe(out)
	require.NoError(t, err)
	assert.Equal(t, 12.5, info.Duration)
	assert.Equal(t, "mp3", info.Codec)
	assert.Equal(t, "mp3", info.Format)

	_, err = parseProbe("not json")
	assert.Error(t, err)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrLessonNotInCourse))
	assert.True(t, IsNotFound(errors.Join(errors.New("ctx"), ErrCourseNotFound)))
	assert.False(t, IsNotFound(ErrUnauthorized))
}
