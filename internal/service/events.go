package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/model"
	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/productivity"
	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/roast"
)

type IngestEventRequest struct {
	UserID        string    `json:"user_id"`
	Emotion       string    `json:"emotion"`
	Focus         string    `json:"focus"`
	ThumbsUp      string    `json:"thumbs_up"`
	Wave          string    `json:"wave"`
	CurrentTabURL string    `json:"current_tab_url,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

type IngestEventResponse struct {
	EventID    string    `json:"event_id,omitempty"`
	SessionID  string    `json:"session_id,omitempty"`
	UserID     string    `json:"user_id"`
	EventType  string    `json:"event_type,omitempty"`
	EventValue string    `json:"event_value,omitempty"`
	Timestamp  time.Time `json:"timestamp,omitempty"`
	Roast      string    `json:"roast,omitempty"`
	Message    string    `json:"message,omitempty"`
}

// resolveEvent picks the single most significant signal out of a report:
// distraction, then wave, then thumbs-up, then a non-neutral emotion.
// Raw values pass through untouched so validation can reject them.
func resolveEvent(req IngestEventRequest) (eventType string, eventValue string, ok bool) {
	if req.Focus != "" && req.Focus != "focused" {
		return model.EventEyeMovement, req.Focus, true
	}
	if req.Wave != "" && req.Wave != "not_detected" {
		return model.EventWave, req.Wave, true
	}
	if req.ThumbsUp != "" && req.ThumbsUp != "not_detected" {
		return model.EventThumbsUp, req.ThumbsUp, true
	}
	if req.Emotion != "" && req.Emotion != "neutral" {
		return model.EventEmotion, req.Emotion, true
	}
	return "", "", false
}

// IngestEvent accepts a raw focus-agent report, resolves and validates
// the significant event, persists it, and applies the roast policy.
func (s *Service) IngestEvent(req IngestEventRequest) (IngestEventResponse, error) {
	user, err := s.GetUser(req.UserID)
	if err != nil {
		return IngestEventResponse{}, err
	}

	eventType, eventValue, ok := resolveEvent(req)
	if !ok {
		return IngestEventResponse{
			UserID:  user.ID,
			Message: "no significant event",
		}, nil
	}
	if !model.IsAllowedEventValue(eventType, eventValue) {
		return IngestEventResponse{}, fmt.Errorf("%w: %s=%s", ErrInvalidEventValue, eventType, eventValue)
	}

	session, found, err := s.store.GetActiveSessionByUser(user.ID)
	if err != nil {
		return IngestEventResponse{}, fmt.Errorf("get active session: %w", err)
	}
	if !found || session.Expired(s.now()) {
		return IngestEventResponse{}, ErrNoActiveSession
	}

	ts := req.Timestamp
	if ts.IsZero() {
		ts = s.now().UTC()
	}
	event := model.CVEvent{
		ID:             "evt_" + uuid.NewString(),
		SessionID:      session.ID,
		UserID:         user.ID,
		EventType:      eventType,
		EventValue:     eventValue,
		EventTimestamp: ts,
	}
	if err := s.store.AddEvent(event); err != nil {
		return IngestEventResponse{}, fmt.Errorf("save event: %w", err)
	}

	resp := IngestEventResponse{
		EventID:    event.ID,
		SessionID:  session.ID,
		UserID:     user.ID,
		EventType:  eventType,
		EventValue: eventValue,
		Timestamp:  ts,
	}
	if isDistraction(eventType, eventValue) {
		resp.Roast, err = s.roastForDistraction(user, session, req.CurrentTabURL, event)
		if err != nil {
			return IngestEventResponse{}, err
		}
	}
	return resp, nil
}

func isDistraction(eventType, eventValue string) bool {
	return (eventType == model.EventEyeMovement || eventType == model.EventFaceMovement) &&
		eventValue == "distracted"
}

// roastForDistraction implements the roast policy. An aligned tab URL
// suppresses the roast; an alignment-check failure roasts anyway; a
// failed generation call falls back to a canned line. Only a failed
// history write is an error.
func (s *Service) roastForDistraction(user model.User, session model.Session, tabURL string, event model.CVEvent) (string, error) {
	group, _, err := s.groupForUser(user.ID)
	if err != nil {
		return "", nil
	}

	ctx := context.Background()
	if s.roaster != nil && tabURL != "" && session.Goal != "" {
		aligned, err := s.roaster.CheckAlignment(ctx, tabURL, session.Goal)
		if err == nil && aligned {
			return "", nil
		}
	}

	content := roast.Fallback
	if s.roaster != nil {
		generated, err := s.roaster.Generate(ctx, roast.Request{
			TargetName: user.Name,
			Level:      group.RoastLevel,
			Goal:       session.Goal,
			TabURL:     tabURL,
			EventType:  event.EventType,
			EventValue: event.EventValue,
			Ticks:      s.recentTickContents(user.ID, 5),
		})
		if err == nil && generated != "" {
			content = generated
		}
	}

	record := model.Roast{
		ID:           "roast_" + uuid.NewString(),
		GroupID:      group.ID,
		TargetUserID: user.ID,
		RoastContent: content,
		RoastLevel:   group.RoastLevel,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.AddRoast(record); err != nil {
		return "", fmt.Errorf("save roast: %w", err)
	}
	return content, nil
}

func (s *Service) recentTickContents(userID string, limit int) []string {
	ticks, err := s.store.ListTicksByUser(userID, limit)
	if err != nil {
		return nil
	}
	contents := make([]string, 0, len(ticks))
	for _, tick := range ticks {
		contents = append(contents, tick.Content)
	}
	return contents
}

type CheckURLRequest struct {
	URL    string   `json:"url"`
	UserID string   `json:"user_id"`
	Goals  []string `json:"goals,omitempty"`
}

type CheckURLResponse struct {
	IsProductive bool   `json:"is_productive"`
	Message      string `json:"message"`
}

// CheckURL classifies a visited URL and, when it is unproductive,
// charges the shared pet a fixed health penalty.
func (s *Service) CheckURL(req CheckURLRequest) (CheckURLResponse, error) {
	if req.URL == "" {
		return CheckURLResponse{}, ErrURLRequired
	}
	goals := req.Goals
	if len(goals) == 0 && req.UserID != "" {
		if session, found, err := s.store.GetActiveSessionByUser(req.UserID); err == nil && found && session.Goal != "" {
			goals = []string{session.Goal}
		}
	}
	result := productivity.Check(req.URL, goals)
	if !result.IsProductive && req.UserID != "" {
		if _, pet, err := s.groupForUser(req.UserID); err == nil {
			if _, err := s.applyPetDelta(pet, -unproductiveURLPenalty); err != nil {
				return CheckURLResponse{}, err
			}
		}
	}
	return CheckURLResponse{
		IsProductive: result.IsProductive,
		Message:      result.Message,
	}, nil
}
