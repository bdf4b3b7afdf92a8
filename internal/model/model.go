package model

import "time"

// Event types reported by the focus agent.
const (
	EventEmotion      = "emotion"
	EventEyeMovement  = "eye_movement"
	EventFaceMovement = "face_movement"
	EventThumbsUp     = "thumbs_up"
	EventWave         = "wave"
)

// Session lifecycle states.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
	SessionCancelled = "cancelled"
)

// AllowedEventValues maps each event type to the set of values the
// ingestion endpoint accepts. Anything else is a client error.
var AllowedEventValues = map[string][]string{
	EventEmotion:      {"happy", "sad", "angry", "surprised", "neutral"},
	EventEyeMovement:  {"focused", "distracted"},
	EventFaceMovement: {"focused", "distracted"},
	EventThumbsUp:     {"detected", "not_detected"},
	EventWave:         {"detected", "not_detected"},
}

// IsAllowedEventValue reports whether value is valid for eventType.
func IsAllowedEventValue(eventType string, value string) bool {
	for _, allowed := range AllowedEventValues[eventType] {
		if allowed == value {
			return true
		}
	}
	return false
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	GroupID   string    `json:"group_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Group owns the shared pet and the roast level applied to its members.
type Group struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Members    []string  `json:"members"`
	PetID      string    `json:"pet_id"`
	RoastLevel int       `json:"roast_level"`
	CreatedAt  time.Time `json:"created_at"`
}

// Pet is the shared health gauge a group stakes on its goals.
// Health stays within [0,100]; Dead is sticky until an explicit reset.
type Pet struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"group_id"`
	Health    int       `json:"health"`
	Dead      bool      `json:"dead"`
	Captured  bool      `json:"captured"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CVEvent is an append-only record of a computer-vision signal.
type CVEvent struct {
	ID             string    `json:"event_id"`
	SessionID      string    `json:"session_id"`
	UserID         string    `json:"user_id"`
	EventType      string    `json:"event_type"`
	EventValue     string    `json:"event_value"`
	EventTimestamp time.Time `json:"event_timestamp"`
}

// Roast is immutable once stored.
type Roast struct {
	ID           string    `json:"id"`
	GroupID      string    `json:"group_id"`
	TargetUserID string    `json:"target_user_id"`
	RoastContent string    `json:"roast_content"`
	RoastLevel   int       `json:"roast_level"`
	CreatedAt    time.Time `json:"created_at"`
}

type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	GroupID   string    `json:"group_id,omitempty"`
	Goal      string    `json:"goal"`
	Deadline  time.Time `json:"deadline"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session deadline has passed at now.
func (s Session) Expired(now time.Time) bool {
	return !s.Deadline.IsZero() && now.After(s.Deadline)
}

// Tick is a free-text observation about a group member, used only as
// contextual input to roast generation.
type Tick struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// RoastStat aggregates roast history per target user.
type RoastStat struct {
	TargetUserID string    `json:"target_user_id"`
	Count        int       `json:"count"`
	LastRoastAt  time.Time `json:"last_roast_at"`
}
