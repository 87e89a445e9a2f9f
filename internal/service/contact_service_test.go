package service

import (
	"context"
	"errors"
	"testing"

	"course_hub_backend/internal/config"
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	got []*model.ContactMessage
	err error
}

func (n *recordingNotifier) NotifyContact(_ context.Context, msg *model.ContactMessage) error {
	n.got = append(n.got, msg)
	return n.err
}

func TestContactSubmit(t *testing.T) {
	db := testutil.OpenDB(t)
	notifier := &recordingNotifier{}
	svc := NewContactService(repository.NewContactRepository(db), notifier)

	msg, err := svc.Submit(context.Background(), &ContactRequest{
		Name:    "  Ana ",
		Email:   "ana@test.dev ",
		Subject: "Question",
		Message: "Hello there",
	})
	require.NoError(t, err)
	assert.NotZero(t, msg.ID)
	assert.Equal(t, "Ana", msg.Name)
	assert.Equal(t, "ana@test.dev", msg.Email)

	var stored model.ContactMessage
	require.NoError(t, db.First(&stored, msg.ID).Error)
	assert.Equal(t, "Hello there", stored.Message)

	require.Len(t, notifier.got, 1)
	assert.Equal(t, msg.ID, notifier.got[0].ID)
}

func TestContactSubmitIgnoresNotifierFailure(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewContactService(repository.NewContactRepository(db), &recordingNotifier{err: errors.New("smtp down")})

	msg, err := svc.Submit(context.Background(), &ContactRequest{Name: "Ana", Email: "ana@test.dev", Subject: "Hi", Message: "x"})
	require.NoError(t, err)
	assert.NotZero(t, msg.ID)
}

func TestNewNotifier(t *testing.T) {
	assert.IsType(t, &ConsoleNotifier{}, NewNotifier(config.MailConfig{}))
	assert.IsType(t, &ConsoleNotifier{}, NewNotifier(config.MailConfig{SendgridAPIKey: "key"}))
	assert.IsType(t, &SendgridNotifier{}, NewNotifier(config.MailConfig{
		SendgridAPIKey: "key",
		From:           "no-reply@test.dev",
		AdminAddress:   "admin@test.dev",
	}))
}
