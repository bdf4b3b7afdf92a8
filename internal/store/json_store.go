package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/model"
)

type fileState struct {
	Users    map[string]model.User    `json:"users"`
	Groups   map[string]model.Group   `json:"groups"`
	Pets     map[string]model.Pet     `json:"pets"`
	Events   []model.CVEvent          `json:"events"`
	Roasts   []model.Roast            `json:"roasts"`
	Sessions map[string]model.Session `json:"sessions"`
	Ticks    []model.Tick             `json:"ticks"`
}

type JSONStore struct {
	filePath string
	mu       sync.RWMutex
	state    fileState
}

func NewJSONStore(filePath string) (*JSONStore, error) {
	s := &JSONStore{
		filePath: filePath,
		state:    emptyState(),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func emptyState() fileState {
	return fileState{
		Users:    make(map[string]model.User),
		Groups:   make(map[string]model.Group),
		Pets:     make(map[string]model.Pet),
		Events:   make([]model.CVEvent, 0),
		Roasts:   make([]model.Roast, 0),
		Sessions: make(map[string]model.Session),
		Ticks:    make([]model.Tick, 0),
	}
}

func (s *JSONStore) SaveUser(user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Users[user.ID] = user
	return s.persistLocked()
}

func (s *JSONStore) GetUser(id string) (model.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.state.Users[id]
	return user, ok, nil
}

func (s *JSONStore) GetUserByEmail(email string) (model.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.state.Users {
		if user.Email == email {
			return user, true, nil
		}
	}
	return model.User{}, false, nil
}

func (s *JSONStore) UpdateUser(user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.Users[user.ID]; !ok {
		return errors.New("user not found")
	}
	s.state.Users[user.ID] = user
	return s.persistLocked()
}

func (s *JSONStore) SaveGroup(group model.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Groups[group.ID] = group
	return s.persistLocked()
}

func (s *JSONStore) GetGroup(id string) (model.Group, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	group, ok := s.state.Groups[id]
	return group, ok, nil
}

func (s *JSONStore) UpdateGroup(group model.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.Groups[group.ID]; !ok {
		return errors.New("group not found")
	}
	s.state.Groups[group.ID] = group
	return s.persistLocked()
}

func (s *JSONStore) ListGroupsByMember(userID string) ([]model.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var groups []model.Group
	for _, group := range s.state.Groups {
		for _, member := range group.Members {
			if member == userID {
				groups = append(groups, group)
				break
			}
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].CreatedAt.Before(groups[j].CreatedAt)
	})
	return groups, nil
}

func (s *JSONStore) SavePet(pet model.Pet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Pets[pet.ID] = pet
	return s.persistLocked()
}

func (s *JSONStore) GetPet(id string) (model.Pet, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pet, ok := s.state.Pets[id]
	return pet, ok, nil
}

func (s *JSONStore) GetPetByGroup(groupID string) (model.Pet, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, pet := range s.state.Pets {
		if pet.GroupID == groupID {
			return pet, true, nil
		}
	}
	return model.Pet{}, false, nil
}

func (s *JSONStore) UpdatePet(pet model.Pet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.Pets[pet.ID]; !ok {
		return errors.New("pet not found")
	}
	s.state.Pets[pet.ID] = pet
	return s.persistLocked()
}

func (s *JSONStore) AddEvent(event model.CVEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Events = append(s.state.Events, event)
	return s.persistLocked()
}

func (s *JSONStore) ListEventsByUser(userID string, limit int) ([]model.CVEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 100
	}
	var result []model.CVEvent
	for _, event := range s.state.Events {
		if event.UserID == userID {
			result = append(result, event)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].EventTimestamp.After(result[j].EventTimestamp)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *JSONStore) AddRoast(roast model.Roast) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Roasts = append(s.state.Roasts, roast)
	return s.persistLocked()
}

func (s *JSONStore) ListRoastsByGroup(groupID string) ([]model.Roast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []model.Roast
	for _, roast := range s.state.Roasts {
		if roast.GroupID == groupID {
			result = append(result, roast)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *JSONStore) SaveSession(session model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Sessions[session.ID] = session
	return s.persistLocked()
}

func (s *JSONStore) GetSession(id string) (model.Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.state.Sessions[id]
	return session, ok, nil
}

func (s *JSONStore) UpdateSession(session model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.Sessions[session.ID]; !ok {
		return errors.New("session not found")
	}
	s.state.Sessions[session.ID] = session
	return s.persistLocked()
}

func (s *JSONStore) GetActiveSessionByUser(userID string) (model.Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest model.Session
	var found bool
	for _, session := range s.state.Sessions {
		if session.UserID != userID || session.Status != model.SessionActive {
			continue
		}
		if !found || session.CreatedAt.After(latest.CreatedAt) {
			latest = session
			found = true
		}
	}
	return latest, found, nil
}

func (s *JSONStore) ListSessionsByUser(userID string) ([]model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []model.Session
	for _, session := range s.state.Sessions {
		if session.UserID == userID {
			result = append(result, session)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *JSONStore) AddTick(tick model.Tick) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Ticks = append(s.state.Ticks, tick)
	return s.persistLocked()
}

func (s *JSONStore) ListTicksByUser(userID string, limit int) ([]model.Tick, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 50
	}
	var result []model.Tick
	for _, tick := range s.state.Ticks {
		if tick.UserID == userID {
			result = append(result, tick)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *JSONStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	empty := emptyState()
	if state.Users == nil {
		state.Users = empty.Users
	}
	if state.Groups == nil {
		state.Groups = empty.Groups
	}
	if state.Pets == nil {
		state.Pets = empty.Pets
	}
	if state.Events == nil {
		state.Events = empty.Events
	}
	if state.Roasts == nil {
		state.Roasts = empty.Roasts
	}
	if state.Sessions == nil {
		state.Sessions = empty.Sessions
	}
	if state.Ticks == nil {
		state.Ticks = empty.Ticks
	}
	s.state = state
	return nil
}

func (s *JSONStore) persistLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := s.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.filePath)
}
