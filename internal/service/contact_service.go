package service

import (
	"context"
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

type ContactRequest struct {
	Name    string `json:"name" binding:"required,notblank,max=255"`
	Email   string `json:"email" binding:"required,email,max=255"`
	Subject string `json:"subject" binding:"required,notblank,max=255"`
	Message string `json:"message" binding:"required,notblank"`
}

type ContactService struct {
	Repo     *repository.ContactRepository
	Notifier Notifier
}

func NewContactService(repo *repository.ContactRepository, notifier Notifier) *ContactService {
	return &ContactService{Repo: repo, Notifier: notifier}
}

// Submit 保存留言；通知失败只记录日志
func (s *ContactService) Submit(ctx context.Context, req *ContactRequest) (*model.ContactMessage, error) {
	msg := &model.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Subject: strings.TrimSpace(req.Subject),
		Message: req.Message,
	}
	if err := s.Repo.Create(ctx, msg); err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		if err := s.Notifier.NotifyContact(ctx, msg); err != nil {
			logger.Log.Warn("contact notification failed", zap.Uint("id", msg.ID), zap.Error(err))
		}
	}
	return msg, nil
}
