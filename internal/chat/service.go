package chat

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/truthcheck/truthcheck/internal/common"
	"github.com/truthcheck/truthcheck/internal/faq"
)

var ErrEmptyMessage = errors.New("chat: message is empty")

// Responder produces the assistant reply for a user message.
type Responder interface {
	Respond(ctx context.Context, userText string) (string, error)
}

type Service struct {
	repo      *Repo
	responder Responder
}

func NewService(repo *Repo, responder Responder) *Service {
	return &Service{repo: repo, responder: responder}
}

// CreateSession opens a widget session and seeds the greeting message.
func (s *Service) CreateSession(ctx context.Context, userID uint64) (*Session, error) {
	sid, err := common.NewULID()
	if err != nil {
		return nil, err
	}

	session := &Session{
		SessionID: sid,
		UserID:    userID,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	if err := s.repo.InsertMessage(ctx, &Message{
		SessionID: sid,
		UserID:    userID,
		IsBot:     true,
		Content:   faq.Greeting,
	}); err != nil {
		return nil, err
	}
	return session, nil
}

// SendMessage appends the user message, waits for the responder (which
// carries the reply latency) and appends the bot reply. There is no mutual
// exclusion across in-flight messages: replies to overlapping sends may land
// out of send order, but ids stay increasing.
func (s *Service) SendMessage(ctx context.Context, userID uint64, sessionID string, content string) (reply string, botMsgID uint64, err error) {
	if strings.TrimSpace(content) == "" {
		return "", 0, ErrEmptyMessage
	}

	session, err := s.repo.GetSessionBySessionID(ctx, sessionID)
	if err != nil {
		return "", 0, err
	}
	if session.UserID != userID {
		return "", 0, gorm.ErrRecordNotFound
	}

	userMsg := &Message{
		SessionID: sessionID,
		UserID:    userID,
		IsBot:     false,
		Content:   content,
	}
	if err := s.repo.InsertMessage(ctx, userMsg); err != nil {
		return "", 0, err
	}

	reply, err = s.responder.Respond(ctx, content)
	if err != nil {
		return "", 0, err
	}

	botMsg := &Message{
		SessionID: sessionID,
		UserID:    userID,
		IsBot:     true,
		Content:   reply,
	}
	if err := s.repo.InsertMessage(ctx, botMsg); err != nil {
		return "", 0, err
	}
	return reply, botMsg.ID, nil
}

func (s *Service) ListMessages(ctx context.Context, userID uint64, sessionID string, limit int, beforeID uint64) ([]Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if _, err := s.repo.GetSessionBySessionID(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, userID, sessionID, limit, beforeID)
}
