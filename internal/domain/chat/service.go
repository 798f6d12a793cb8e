package chat

import (
	"context"
	"time"

	"github.com/daosail/daosail-server/internal/domain/knowledge"
	"github.com/daosail/daosail-server/internal/infrastructure/metrics"
	"github.com/daosail/daosail-server/internal/utils/idgen"
	"github.com/daosail/daosail-server/internal/utils/platformerrors"
	"github.com/daosail/daosail-server/internal/utils/stringutils"
)

const sessionTitleMaxLen = 60

// Service manages sessions and message logs.
type Service struct {
	sessions SessionRepository
	messages MessageRepository
	now      func() time.Time
}

func NewService(sessions SessionRepository, messages MessageRepository) *Service {
	return &Service{sessions: sessions, messages: messages, now: time.Now}
}

// EnsureSession returns the referenced session or creates a fresh one
// titled after the first user message.
func (s *Service) EnsureSession(ctx context.Context, userID, sessionID, assistantType, firstUserMessage string) (*Session, error) {
	if sessionID != "" {
		sess, err := s.sessions.GetByID(ctx, sessionID)
		if err != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load session")
		}
		if err := s.authorize(ctx, sess, userID); err != nil {
			return nil, err
		}
		if sess.Status == SessionDeleted {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
				"session not found", nil, "")
		}
		return sess, nil
	}

	id, err := idgen.GenerateSecureID("sess", 16)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "generate session id")
	}

	title := stringutils.GenerateTitle(firstUserMessage, sessionTitleMaxLen)
	if title == "" {
		title = "Новый разговор"
	}

	now := s.now().UTC()
	sess := &Session{
		ID:             id,
		UserID:         userID,
		Title:          title,
		AssistantType:  assistantType,
		Status:         SessionActive,
		LastActivityAt: now,
		CreatedAt:      now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "create session")
	}
	metrics.SessionsCreatedTotal.Inc()
	return sess, nil
}

// AppendTurn persists the user and assistant messages of one finished
// turn and bumps the session counters atomically.
func (s *Service) AppendTurn(ctx context.Context, sessionID string, userMsg, assistantMsg Message) error {
	now := s.now().UTC()
	for _, m := range []*Message{&userMsg, &assistantMsg} {
		if m.ID == "" {
			id, err := idgen.GenerateSecureID("msg", 16)
			if err != nil {
				return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "generate message id")
			}
			m.ID = id
		}
		m.SessionID = sessionID
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		if err := s.messages.Insert(ctx, m); err != nil {
			return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "append message")
		}
	}
	if err := s.sessions.TouchActivity(ctx, sessionID, 2, now); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "touch session activity")
	}
	return nil
}

// ListSessions returns the user's sessions, deleted ones excluded.
func (s *Service) ListSessions(ctx context.Context, userID string) ([]Session, error) {
	list, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list sessions")
	}
	return list, nil
}

// Messages returns the ordered message log of an owned session.
func (s *Service) Messages(ctx context.Context, userID, sessionID string) ([]Message, error) {
	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list messages")
	}
	return msgs, nil
}

// Rename sets a session title.
func (s *Service) Rename(ctx context.Context, userID, sessionID, title string) error {
	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return err
	}
	title = stringutils.GenerateTitle(title, sessionTitleMaxLen)
	if title == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"title must not be empty", nil, "")
	}
	if err := s.sessions.UpdateTitle(ctx, sessionID, title); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "rename session")
	}
	return nil
}

// SetStatus archives or restores a session.
func (s *Service) SetStatus(ctx context.Context, userID, sessionID string, status SessionStatus) error {
	if status != SessionActive && status != SessionArchived {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"status must be active or archived", nil, "")
	}
	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return err
	}
	if err := s.sessions.UpdateStatus(ctx, sessionID, status); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "update session status")
	}
	return nil
}

// Delete soft-deletes a session. The row is purged later by the sweep.
func (s *Service) Delete(ctx context.Context, userID, sessionID string) error {
	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return err
	}
	if err := s.sessions.UpdateStatus(ctx, sessionID, SessionDeleted); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "delete session")
	}
	return nil
}

// ExportSession bundles a session and its messages for download.
func (s *Service) ExportSession(ctx context.Context, userID, sessionID string) (*Export, error) {
	sess, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list messages for export")
	}
	return &Export{Session: *sess, Messages: msgs, Exported: s.now().UTC()}, nil
}

// PurgeDeleted removes soft-deleted sessions older than maxAge.
func (s *Service) PurgeDeleted(ctx context.Context, maxAge time.Duration) (int64, error) {
	return s.sessions.PurgeDeletedBefore(ctx, s.now().UTC().Add(-maxAge))
}

// NewCitationMessage builds an assistant message carrying citations.
func NewCitationMessage(content, assistantType, modelID string, citations []knowledge.Citation) Message {
	return Message{
		Role:          "assistant",
		Content:       content,
		AssistantType: assistantType,
		ModelID:       modelID,
		Citations:     citations,
	}
}

func (s *Service) ownedSession(ctx context.Context, userID, sessionID string) (*Session, error) {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load session")
	}
	if err := s.authorize(ctx, sess, userID); err != nil {
		return nil, err
	}
	if sess.Status == SessionDeleted {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"session not found", nil, "")
	}
	return sess, nil
}

func (s *Service) authorize(ctx context.Context, sess *Session, userID string) error {
	if sess.UserID != userID {
		// Not-found keeps session ids unguessable.
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"session not found", nil, "")
	}
	return nil
}
