package service

import (
	"context"
	"fmt"

	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/model"
)

const (
	maxPetHealth      = 100
	defaultRoastLevel = 5

	unproductiveURLPenalty = 5
)

// Stock artwork served when a group has not uploaded its own.
const (
	petImageHappy    = "/static/pets/happy.gif"
	petImageIdle     = "/static/pets/idle.gif"
	petImageHurt     = "/static/pets/hurt.gif"
	petImageCritical = "/static/pets/critical.gif"
	petImageDead     = "/static/pets/dead.gif"
)

type PetDisplay struct {
	PetID    string `json:"pet_id"`
	Health   int    `json:"health"`
	Dead     bool   `json:"dead"`
	ImageURL string `json:"image_url"`
}

func (s *Service) GetPetDisplay(groupID string) (PetDisplay, error) {
	pet, found, err := s.store.GetPetByGroup(groupID)
	if err != nil {
		return PetDisplay{}, fmt.Errorf("get pet: %w", err)
	}
	if !found {
		return PetDisplay{}, ErrPetNotFound
	}
	return PetDisplay{
		PetID:    pet.ID,
		Health:   pet.Health,
		Dead:     pet.Dead,
		ImageURL: petImageFor(pet),
	}, nil
}

// petImageFor picks artwork by health band. Uploaded artwork wins while
// the pet is alive.
func petImageFor(pet model.Pet) string {
	if pet.Dead {
		return petImageDead
	}
	if pet.ImageURL != "" {
		return pet.ImageURL
	}
	switch {
	case pet.Health >= 80:
		return petImageHappy
	case pet.Health >= 50:
		return petImageIdle
	case pet.Health >= 25:
		return petImageHurt
	default:
		return petImageCritical
	}
}

// AdjustPetHealth applies a manual delta. Dead pets ignore adjustments;
// only ResetPet revives.
func (s *Service) AdjustPetHealth(groupID string, delta int) (model.Pet, error) {
	pet, found, err := s.store.GetPetByGroup(groupID)
	if err != nil {
		return model.Pet{}, fmt.Errorf("get pet: %w", err)
	}
	if !found {
		return model.Pet{}, ErrPetNotFound
	}
	if pet.Dead {
		return pet, nil
	}
	pet.Health = clampHealth(pet.Health + delta)
	if pet.Health == 0 {
		pet.Dead = true
	}
	pet.UpdatedAt = s.now().UTC()
	if err := s.store.UpdatePet(pet); err != nil {
		return model.Pet{}, fmt.Errorf("update pet: %w", err)
	}
	return pet, nil
}

func (s *Service) ResetPet(groupID string) (model.Pet, error) {
	pet, found, err := s.store.GetPetByGroup(groupID)
	if err != nil {
		return model.Pet{}, fmt.Errorf("get pet: %w", err)
	}
	if !found {
		return model.Pet{}, ErrPetNotFound
	}
	pet.Health = maxPetHealth
	pet.Dead = false
	pet.UpdatedAt = s.now().UTC()
	if err := s.store.UpdatePet(pet); err != nil {
		return model.Pet{}, fmt.Errorf("update pet: %w", err)
	}
	return pet, nil
}

// CaptureBetByUser marks the shared pet of the user's group as captured.
// Idempotent: a pet already captured stays captured.
func (s *Service) CaptureBetByUser(userID string) (model.Pet, error) {
	_, pet, err := s.groupForUser(userID)
	if err != nil {
		return model.Pet{}, err
	}
	if pet.Captured {
		return pet, nil
	}
	pet.Captured = true
	pet.UpdatedAt = s.now().UTC()
	if err := s.store.UpdatePet(pet); err != nil {
		return model.Pet{}, fmt.Errorf("update pet: %w", err)
	}
	return pet, nil
}

type UploadPetImageRequest struct {
	GroupID  string
	FileName string
	Bytes    []byte
}

// UploadPetImage stores custom artwork in object storage and points the
// pet at the public URL.
func (s *Service) UploadPetImage(req UploadPetImageRequest) (model.Pet, error) {
	if s.uploader == nil || !s.uploader.Enabled() {
		return model.Pet{}, ErrMediaUnavailable
	}
	if len(req.Bytes) == 0 {
		return model.Pet{}, ErrImageRequired
	}
	pet, found, err := s.store.GetPetByGroup(req.GroupID)
	if err != nil {
		return model.Pet{}, fmt.Errorf("get pet: %w", err)
	}
	if !found {
		return model.Pet{}, ErrPetNotFound
	}
	url, err := s.uploader.UploadPetImage(context.Background(), req.Bytes, req.FileName)
	if err != nil {
		return model.Pet{}, fmt.Errorf("upload pet image: %w", err)
	}
	pet.ImageURL = url
	pet.UpdatedAt = s.now().UTC()
	if err := s.store.UpdatePet(pet); err != nil {
		return model.Pet{}, fmt.Errorf("update pet: %w", err)
	}
	return pet, nil
}

// applyPetDelta mutates shared pet health for server-side rules (URL
// penalty). Dead pets are untouched.
func (s *Service) applyPetDelta(pet model.Pet, delta int) (model.Pet, error) {
	if pet.Dead || delta == 0 {
		return pet, nil
	}
	pet.Health = clampHealth(pet.Health + delta)
	if pet.Health == 0 {
		pet.Dead = true
	}
	pet.UpdatedAt = s.now().UTC()
	if err := s.store.UpdatePet(pet); err != nil {
		return pet, fmt.Errorf("update pet: %w", err)
	}
	return pet, nil
}

func clampHealth(h int) int {
	if h < 0 {
		return 0
	}
	if h > maxPetHealth {
		return maxPetHealth
	}
	return h
}
