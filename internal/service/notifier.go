package service

import (
	"context"
	"course_hub_backend/internal/config"
	"course_hub_backend/internal/model"
	"course_hub_backend/pkg/logger"
	"fmt"
	"html"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// Notifier 新留言通知管理员
type Notifier interface {
	NotifyContact(ctx context.Context, msg *model.ContactMessage) error
}

// NewNotifier 配置了 SendGrid key 时发邮件，否则只打日志
func NewNotifier(cfg config.MailConfig) Notifier {
	if cfg.SendgridAPIKey == "" || cfg.AdminAddress == "" {
		return &ConsoleNotifier{}
	}
	return &SendgridNotifier{
		key:  cfg.SendgridAPIKey,
		from: sgmail.NewEmail("Course Hub", cfg.From),
		to:   sgmail.NewEmail("Admin", cfg.AdminAddress),
	}
}

type SendgridNotifier struct {
	key  string
	from *sgmail.Email
	to   *sgmail.Email
}

func (n *SendgridNotifier) NotifyContact(_ context.Context, msg *model.ContactMessage) error {
	body := fmt.Sprintf("From: %s <%s>\n\n%s", msg.Name, msg.Email, msg.Message)
	htmlBody := "<pre>" + html.EscapeString(body) + "</pre>"
	m := sgmail.NewSingleEmail(n.from, "[Contact] "+msg.Subject, n.to, body, htmlBody)
	m.SetReplyTo(sgmail.NewEmail(msg.Name, msg.Email))

	req := sendgrid.GetRequest(n.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

type ConsoleNotifier struct{}

func (ConsoleNotifier) NotifyContact(_ context.Context, msg *model.ContactMessage) error {
	logger.Log.Info("new contact message",
		zap.Uint("id", msg.ID),
		zap.String("name", msg.Name),
		zap.String("email", msg.Email),
		zap.String("subject", msg.Subject),
	)
	return nil
}
