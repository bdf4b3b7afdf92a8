package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/model"
)

type StartSessionRequest struct {
	UserID   string    `json:"user_id"`
	Goal     string    `json:"goal"`
	Deadline time.Time `json:"deadline,omitempty"`
}

// StartSession opens a new active session. Any previous active session
// for the user is cancelled first so at most one is live at a time.
func (s *Service) StartSession(req StartSessionRequest) (model.Session, error) {
	user, err := s.GetUser(req.UserID)
	if err != nil {
		return model.Session{}, err
	}
	if strings.TrimSpace(req.Goal) == "" {
		return model.Session{}, ErrGoalRequired
	}

	if prev, found, err := s.store.GetActiveSessionByUser(user.ID); err != nil {
		return model.Session{}, fmt.Errorf("get active session: %w", err)
	} else if found {
		prev.Status = model.SessionCancelled
		if err := s.store.UpdateSession(prev); err != nil {
			return model.Session{}, fmt.Errorf("cancel previous session: %w", err)
		}
	}

	session := model.Session{
		ID:        "sess_" + uuid.NewString(),
		UserID:    user.ID,
		GroupID:   user.GroupID,
		Goal:      strings.TrimSpace(req.Goal),
		Deadline:  req.Deadline,
		Status:    model.SessionActive,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.SaveSession(session); err != nil {
		return model.Session{}, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

func (s *Service) CompleteSession(sessionID string) (model.Session, error) {
	return s.closeSession(sessionID, model.SessionCompleted)
}

func (s *Service) CancelSession(sessionID string) (model.Session, error) {
	return s.closeSession(sessionID, model.SessionCancelled)
}

func (s *Service) closeSession(sessionID, status string) (model.Session, error) {
	session, found, err := s.store.GetSession(sessionID)
	if err != nil {
		return model.Session{}, fmt.Errorf("get session: %w", err)
	}
	if !found {
		return model.Session{}, ErrSessionNotFound
	}
	if session.Status != model.SessionActive {
		return model.Session{}, ErrSessionNotActive
	}
	session.Status = status
	if err := s.store.UpdateSession(session); err != nil {
		return model.Session{}, fmt.Errorf("update session: %w", err)
	}
	return session, nil
}

func (s *Service) ListSessions(userID string) ([]model.Session, error) {
	if _, err := s.GetUser(userID); err != nil {
		return nil, err
	}
	sessions, err := s.store.ListSessionsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}
