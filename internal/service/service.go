package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/media"
	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/model"
	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/roast"
	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/store"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrGroupNotFound     = errors.New("group not found")
	ErrPetNotFound       = errors.New("pet not found")
	ErrSessionNotFound   = errors.New("session not found")
	ErrNoActiveSession   = errors.New("no active session for user")
	ErrInvalidEventType  = errors.New("unknown event type")
	ErrInvalidEventValue = errors.New("event value not allowed for event type")
	ErrURLRequired       = errors.New("url is required")
	ErrEmailRequired     = errors.New("email is required")
	ErrNameRequired      = errors.New("name is required")
	ErrGoalRequired      = errors.New("goal is required")
	ErrEmailTaken        = errors.New("email already registered")
	ErrAlreadyMember     = errors.New("user already in group")
	ErrInvalidRoastLevel = errors.New("roast_level must be between 1 and 10")
	ErrTickContentEmpty  = errors.New("tick content is required")
	ErrSessionNotActive  = errors.New("session is not active")
	ErrImageRequired     = errors.New("image payload is required")
	ErrMediaUnavailable  = errors.New("image upload is not configured")
)

// RoastClient is the subset of the generation client the service needs.
type RoastClient interface {
	Generate(ctx context.Context, req roast.Request) (string, error)
	CheckAlignment(ctx context.Context, tabURL string, goal string) (bool, error)
}

type Service struct {
	store    store.Store
	roaster  RoastClient
	uploader *media.Uploader

	now func() time.Time
}

func New(st store.Store) *Service {
	return &Service{
		store: st,
		now:   time.Now,
	}
}

func (s *Service) SetRoastClient(client RoastClient) {
	s.roaster = client
}

func (s *Service) SetUploader(up *media.Uploader) {
	s.uploader = up
}

type CreateUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *Service) CreateUser(req CreateUserRequest) (model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return model.User{}, ErrEmailRequired
	}
	if strings.TrimSpace(req.Name) == "" {
		return model.User{}, ErrNameRequired
	}
	_, found, err := s.store.GetUserByEmail(email)
	if err != nil {
		return model.User{}, fmt.Errorf("lookup user: %w", err)
	}
	if found {
		return model.User{}, ErrEmailTaken
	}
	user := model.User{
		ID:        "usr_" + uuid.NewString(),
		Email:     email,
		Name:      strings.TrimSpace(req.Name),
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.SaveUser(user); err != nil {
		return model.User{}, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

func (s *Service) GetUser(id string) (model.User, error) {
	user, found, err := s.store.GetUser(id)
	if err != nil {
		return model.User{}, fmt.Errorf("get user: %w", err)
	}
	if !found {
		return model.User{}, ErrUserNotFound
	}
	return user, nil
}

type CreateGroupRequest struct {
	Name      string `json:"name"`
	CreatorID string `json:"creator_id"`
}

// CreateGroup creates a group together with its shared pet.
func (s *Service) CreateGroup(req CreateGroupRequest) (model.Group, model.Pet, error) {
	if strings.TrimSpace(req.Name) == "" {
		return model.Group{}, model.Pet{}, ErrNameRequired
	}
	members := []string{}
	var creator model.User
	if req.CreatorID != "" {
		var err error
		creator, err = s.GetUser(req.CreatorID)
		if err != nil {
			return model.Group{}, model.Pet{}, err
		}
		members = append(members, req.CreatorID)
	}
	now := s.now().UTC()
	group := model.Group{
		ID:         "grp_" + uuid.NewString(),
		Name:       strings.TrimSpace(req.Name),
		Members:    members,
		RoastLevel: defaultRoastLevel,
		CreatedAt:  now,
	}
	pet := model.Pet{
		ID:        "pet_" + uuid.NewString(),
		GroupID:   group.ID,
		Health:    maxPetHealth,
		CreatedAt: now,
		UpdatedAt: now,
	}
	group.PetID = pet.ID
	if err := s.store.SaveGroup(group); err != nil {
		return model.Group{}, model.Pet{}, fmt.Errorf("save group: %w", err)
	}
	if err := s.store.SavePet(pet); err != nil {
		return model.Group{}, model.Pet{}, fmt.Errorf("save pet: %w", err)
	}
	if creator.ID != "" {
		creator.GroupID = group.ID
		if err := s.store.UpdateUser(creator); err != nil {
			return model.Group{}, model.Pet{}, fmt.Errorf("update user: %w", err)
		}
	}
	return group, pet, nil
}

func (s *Service) GetGroup(id string) (model.Group, error) {
	group, found, err := s.store.GetGroup(id)
	if err != nil {
		return model.Group{}, fmt.Errorf("get group: %w", err)
	}
	if !found {
		return model.Group{}, ErrGroupNotFound
	}
	return group, nil
}

func (s *Service) JoinGroup(groupID, userID string) (model.Group, error) {
	group, err := s.GetGroup(groupID)
	if err != nil {
		return model.Group{}, err
	}
	user, err := s.GetUser(userID)
	if err != nil {
		return model.Group{}, err
	}
	for _, member := range group.Members {
		if member == userID {
			return model.Group{}, ErrAlreadyMember
		}
	}
	group.Members = append(group.Members, userID)
	if err := s.store.UpdateGroup(group); err != nil {
		return model.Group{}, fmt.Errorf("update group: %w", err)
	}
	user.GroupID = group.ID
	if err := s.store.UpdateUser(user); err != nil {
		return model.Group{}, fmt.Errorf("update user: %w", err)
	}
	return group, nil
}

func (s *Service) SetGroupRoastLevel(groupID string, level int) (model.Group, error) {
	if level < 1 || level > 10 {
		return model.Group{}, ErrInvalidRoastLevel
	}
	group, err := s.GetGroup(groupID)
	if err != nil {
		return model.Group{}, err
	}
	group.RoastLevel = level
	if err := s.store.UpdateGroup(group); err != nil {
		return model.Group{}, fmt.Errorf("update group: %w", err)
	}
	return group, nil
}

// groupForUser returns the group the user belongs to, along with its
// pet. Event ingestion and URL checks operate on this shared pet.
func (s *Service) groupForUser(userID string) (model.Group, model.Pet, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return model.Group{}, model.Pet{}, err
	}
	var group model.Group
	if user.GroupID != "" {
		group, err = s.GetGroup(user.GroupID)
		if err != nil {
			return model.Group{}, model.Pet{}, err
		}
	} else {
		groups, err := s.store.ListGroupsByMember(user.ID)
		if err != nil {
			return model.Group{}, model.Pet{}, fmt.Errorf("list groups: %w", err)
		}
		if len(groups) == 0 {
			return model.Group{}, model.Pet{}, ErrGroupNotFound
		}
		group = groups[0]
	}
	pet, found, err := s.store.GetPetByGroup(group.ID)
	if err != nil {
		return group, model.Pet{}, fmt.Errorf("get pet: %w", err)
	}
	if !found {
		return group, model.Pet{}, ErrPetNotFound
	}
	return group, pet, nil
}
