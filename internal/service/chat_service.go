package service

import (
	"context"
	"course_hub_backend/internal/config"
	"course_hub_backend/pkg/logger"
	"course_hub_backend/pkg/monitoring"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const chatChunkSize = 1024

// tutorRules 约束模型只依据页面上下文作答，仅是提示词层面的限制
const tutorRules = "You are an AI assistant that works as a tutor. " +
	"Your primary goal is to help users by answering questions based on the provided context (Lesson). " +
	"Always adhere to the following rules: " +
	"1. **Context is King**: Only use the information present in the provided context to formulate your answers. " +
	"2. **Clarify Ambiguity**: If a question is unclear or could be interpreted in multiple ways based on the context, ask the user for clarification. " +
	"3. **No External Knowledge**: Do not use any knowledge outside of the context. If the answer is not found within the context, say that you do not have enough information to answer and do not make up any details. " +
	"4. **Be Concise and Direct**: Answer directly and avoid unnecessary elaboration unless the context warrants it. " +
	"5. **Polite Refusal**: If asked to perform tasks outside your scope, such as generating code or discussing topics not related to the context, politely decline."

type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required,notblank"`
}

type ChatRequest struct {
	Messages []ChatMessage `json:"messages" binding:"required,min=1,dive"`
	Context  string        `json:"context" binding:"required,notblank"`
}

type upstreamMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type upstreamRequest struct {
	Model    string            `json:"model"`
	Messages []upstreamMessage `json:"messages"`
	Stream   bool              `json:"stream"`
}

// ChatService 把对话转发给 Ollama 并原样中继 NDJSON 流
type ChatService struct {
	client *resty.Client
	model  atomic.Value
}

func NewChatService(cfg config.ChatConfig) *ChatService {
	s := &ChatService{
		client: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetHeader("Content-Type", "application/json"),
	}
	s.SetModel(cfg.Model)
	return s
}

// SetModel 配置热更新时调用
func (s *ChatService) SetModel(model string) {
	s.model.Store(model)
}

func (s *ChatService) Model() string {
	return s.model.Load().(string)
}

// buildMessages 在用户消息前插入携带上下文的系统消息
func buildMessages(req *ChatRequest) []upstreamMessage {
	messages := make([]upstreamMessage, 0, len(req.Messages)+1)
	messages = append(messages, upstreamMessage{
		Role:    "system",
		Content: tutorRules + "\n\nContext: " + req.Context,
	})
	for _, m := range req.Messages {
		messages = append(messages, upstreamMessage{Role: m.Role, Content: m.Content})
	}
	return messages
}

// Stream 上游不可用时写入一行 JSON 错误代替流内容。
// 只有写客户端失败才返回错误。
func (s *ChatService) Stream(ctx context.Context, req *ChatRequest, w io.Writer, flush func()) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetBody(upstreamRequest{
			Model:    s.Model(),
			Messages: buildMessages(req),
			Stream:   true,
		}).
		Post("/api/chat")

	if resp != nil && resp.RawBody() != nil {
		defer resp.RawBody().Close()
	}
	if err != nil {
		return s.fail(w, flush, err)
	}
	if resp.IsError() {
		return s.fail(w, flush, fmt.Errorf("upstream returned %s", resp.Status()))
	}

	buf := make([]byte, chatChunkSize)
	body := resp.RawBody()
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				return err
			}
			flush()
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				// 客户端已断开
				return nil
			}
			return s.fail(w, flush, readErr)
		}
	}
}

func (s *ChatService) fail(w io.Writer, flush func(), cause error) error {
	monitoring.ChatUpstreamFailures.Inc()
	logger.Log.Warn("chat upstream failed", zap.Error(cause))

	line, err := json.Marshal(map[string]string{
		"error": "Failed to connect to chat service: " + cause.Error(),
	})
	if err != nil {
		return err
	}
	if _, err := w.Write(append(line, '\n')); err != nil {
		return err
	}
	flush()
	return nil
}
