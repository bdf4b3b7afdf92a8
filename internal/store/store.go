package store

import (
	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/model"
)

type Store interface {
	SaveUser(user model.User) error
	GetUser(id string) (model.User, bool, error)
	GetUserByEmail(email string) (model.User, bool, error)
	UpdateUser(user model.User) error

	SaveGroup(group model.Group) error
	GetGroup(id string) (model.Group, bool, error)
	UpdateGroup(group model.Group) error
	ListGroupsByMember(userID string) ([]model.Group, error)

	SavePet(pet model.Pet) error
	GetPet(id string) (model.Pet, bool, error)
	GetPetByGroup(groupID string) (model.Pet, bool, error)
	UpdatePet(pet model.Pet) error

	AddEvent(event model.CVEvent) error
	ListEventsByUser(userID string, limit int) ([]model.CVEvent, error)

	AddRoast(roast model.Roast) error
	ListRoastsByGroup(groupID string) ([]model.Roast, error)

	SaveSession(session model.Session) error
	GetSession(id string) (model.Session, bool, error)
	UpdateSession(session model.Session) error
	GetActiveSessionByUser(userID string) (model.Session, bool, error)
	ListSessionsByUser(userID string) ([]model.Session, error)

	AddTick(tick model.Tick) error
	ListTicksByUser(userID string, limit int) ([]model.Tick, error)
}
