package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/model"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(filePath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", filePath)
	if err != nil {
		return nil, err
	}
	st := &SQLiteStore{db: db}
	if err := st.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveUser(user model.User) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO users
		(id, email, name, group_id, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.Name,
		user.GroupID,
		toTS(user.CreatedAt),
	)
	return err
}

func (s *SQLiteStore) GetUser(id string) (model.User, bool, error) {
	return s.scanUser(s.db.QueryRow(`
		SELECT id, email, name, group_id, created_at
		FROM users
		WHERE id = ?`,
		id,
	))
}

func (s *SQLiteStore) GetUserByEmail(email string) (model.User, bool, error) {
	return s.scanUser(s.db.QueryRow(`
		SELECT id, email, name, group_id, created_at
		FROM users
		WHERE email = ?`,
		email,
	))
}

func (s *SQLiteStore) scanUser(row *sql.Row) (model.User, bool, error) {
	var user model.User
	var createdAt string
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.GroupID,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, false, nil
	}
	if err != nil {
		return model.User{}, false, err
	}
	user.CreatedAt = fromTS(createdAt)
	return user, true, nil
}

func (s *SQLiteStore) UpdateUser(user model.User) error {
	result, err := s.db.Exec(`
		UPDATE users
		SET email = ?, name = ?, group_id = ?
		WHERE id = ?`,
		user.Email,
		user.Name,
		user.GroupID,
		user.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(result, "user not found")
}

func (s *SQLiteStore) SaveGroup(group model.Group) error {
	members, err := json.Marshal(group.Members)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO groups
		(id, name, members, pet_id, roast_level, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		group.ID,
		group.Name,
		string(members),
		group.PetID,
		group.RoastLevel,
		toTS(group.CreatedAt),
	)
	return err
}

func (s *SQLiteStore) GetGroup(id string) (model.Group, bool, error) {
	row := s.db.QueryRow(`
		SELECT id, name, members, pet_id, roast_level, created_at
		FROM groups
		WHERE id = ?`,
		id,
	)
	var group model.Group
	var members string
	var createdAt string
	err := row.Scan(
		&group.ID,
		&group.Name,
		&members,
		&group.PetID,
		&group.RoastLevel,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Group{}, false, nil
	}
	if err != nil {
		return model.Group{}, false, err
	}
	if err := json.Unmarshal([]byte(members), &group.Members); err != nil {
		return model.Group{}, false, err
	}
	group.CreatedAt = fromTS(createdAt)
	return group, true, nil
}

func (s *SQLiteStore) UpdateGroup(group model.Group) error {
	members, err := json.Marshal(group.Members)
	if err != nil {
		return err
	}
	result, err := s.db.Exec(`
		UPDATE groups
		SET name = ?, members = ?, pet_id = ?, roast_level = ?
		WHERE id = ?`,
		group.Name,
		string(members),
		group.PetID,
		group.RoastLevel,
		group.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(result, "group not found")
}

func (s *SQLiteStore) ListGroupsByMember(userID string) ([]model.Group, error) {
	rows, err := s.db.Query(`
		SELECT id, name, members, pet_id, roast_level, created_at
		FROM groups
		ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var groups []model.Group
	for rows.Next() {
		var group model.Group
		var members string
		var createdAt string
		if err := rows.Scan(
			&group.ID,
			&group.Name,
			&members,
			&group.PetID,
			&group.RoastLevel,
			&createdAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(members), &group.Members); err != nil {
			return nil, err
		}
		group.CreatedAt = fromTS(createdAt)
		for _, member := range group.Members {
			if member == userID {
				groups = append(groups, group)
				break
			}
		}
	}
	return groups, rows.Err()
}

func (s *SQLiteStore) SavePet(pet model.Pet) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO pets
		(id, group_id, health, dead, captured, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		pet.ID,
		pet.GroupID,
		pet.Health,
		boolToInt(pet.Dead),
		boolToInt(pet.Captured),
		pet.ImageURL,
		toTS(pet.CreatedAt),
		toTS(pet.UpdatedAt),
	)
	return err
}

func (s *SQLiteStore) GetPet(id string) (model.Pet, bool, error) {
	return s.scanPet(s.db.QueryRow(`
		SELECT id, group_id, health, dead, captured, image_url, created_at, updated_at
		FROM pets
		WHERE id = ?`,
		id,
	))
}

func (s *SQLiteStore) GetPetByGroup(groupID string) (model.Pet, bool, error) {
	return s.scanPet(s.db.QueryRow(`
		SELECT id, group_id, health, dead, captured, image_url, created_at, updated_at
		FROM pets
		WHERE group_id = ?`,
		groupID,
	))
}

func (s *SQLiteStore) scanPet(row *sql.Row) (model.Pet, bool, error) {
	var pet model.Pet
	var dead int
	var captured int
	var createdAt string
	var updatedAt string
	err := row.Scan(
		&pet.ID,
		&pet.GroupID,
		&pet.Health,
		&dead,
		&captured,
		&pet.ImageURL,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Pet{}, false, nil
	}
	if err != nil {
		return model.Pet{}, false, err
	}
	pet.Dead = intToBool(dead)
	pet.Captured = intToBool(captured)
	pet.CreatedAt = fromTS(createdAt)
	pet.UpdatedAt = fromTS(updatedAt)
	return pet, true, nil
}

func (s *SQLiteStore) UpdatePet(pet model.Pet) error {
	result, err := s.db.Exec(`
		UPDATE pets
		SET health = ?, dead = ?, captured = ?, image_url = ?, updated_at = ?
		WHERE id = ?`,
		pet.Health,
		boolToInt(pet.Dead),
		boolToInt(pet.Captured),
		pet.ImageURL,
		toTS(pet.UpdatedAt),
		pet.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(result, "pet not found")
}

func (s *SQLiteStore) AddEvent(event model.CVEvent) error {
	_, err := s.db.Exec(`
		INSERT INTO cv_events
		(id, session_id, user_id, event_type, event_value, event_timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		event.ID,
		event.SessionID,
		event.UserID,
		event.EventType,
		event.EventValue,
		toTS(event.EventTimestamp),
	)
	return err
}

func (s *SQLiteStore) ListEventsByUser(userID string, limit int) ([]model.CVEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(`
		SELECT id, session_id, user_id, event_type, event_value, event_timestamp
		FROM cv_events
		WHERE user_id = ?
		ORDER BY event_timestamp DESC
		LIMIT ?`,
		userID,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.CVEvent
	for rows.Next() {
		var event model.CVEvent
		var ts string
		if err := rows.Scan(
			&event.ID,
			&event.SessionID,
			&event.UserID,
			&event.EventType,
			&event.EventValue,
			&ts,
		); err != nil {
			return nil, err
		}
		event.EventTimestamp = fromTS(ts)
		result = append(result, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *SQLiteStore) AddRoast(roast model.Roast) error {
	_, err := s.db.Exec(`
		INSERT INTO roasts
		(id, group_id, target_user_id, roast_content, roast_level, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		roast.ID,
		roast.GroupID,
		roast.TargetUserID,
		roast.RoastContent,
		roast.RoastLevel,
		toTS(roast.CreatedAt),
	)
	return err
}

func (s *SQLiteStore) ListRoastsByGroup(groupID string) ([]model.Roast, error) {
	rows, err := s.db.Query(`
		SELECT id, group_id, target_user_id, roast_content, roast_level, created_at
		FROM roasts
		WHERE group_id = ?
		ORDER BY created_at DESC`,
		groupID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Roast
	for rows.Next() {
		var roast model.Roast
		var createdAt string
		if err := rows.Scan(
			&roast.ID,
			&roast.GroupID,
			&roast.TargetUserID,
			&roast.RoastContent,
			&roast.RoastLevel,
			&createdAt,
		); err != nil {
			return nil, err
		}
		roast.CreatedAt = fromTS(createdAt)
		result = append(result, roast)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *SQLiteStore) SaveSession(session model.Session) error {
	_, err := s.db.Exec(`
		INSERT INTO sessions
		(id, user_id, group_id, goal, deadline, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.UserID,
		session.GroupID,
		session.Goal,
		nullableTS(session.Deadline),
		session.Status,
		toTS(session.CreatedAt),
	)
	return err
}

func (s *SQLiteStore) GetSession(id string) (model.Session, bool, error) {
	return s.scanSession(s.db.QueryRow(`
		SELECT id, user_id, group_id, goal, deadline, status, created_at
		FROM sessions
		WHERE id = ?`,
		id,
	))
}

func (s *SQLiteStore) GetActiveSessionByUser(userID string) (model.Session, bool, error) {
	return s.scanSession(s.db.QueryRow(`
		SELECT id, user_id, group_id, goal, deadline, status, created_at
		FROM sessions
		WHERE user_id = ? AND status = ?
		ORDER BY created_at DESC
		LIMIT 1`,
		userID,
		model.SessionActive,
	))
}

func (s *SQLiteStore) scanSession(row *sql.Row) (model.Session, bool, error) {
	var session model.Session
	var deadline sql.NullString
	var createdAt string
	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.GroupID,
		&session.Goal,
		&deadline,
		&session.Status,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, false, nil
	}
	if err != nil {
		return model.Session{}, false, err
	}
	if deadline.Valid && deadline.String != "" {
		session.Deadline = fromTS(deadline.String)
	}
	session.CreatedAt = fromTS(createdAt)
	return session, true, nil
}

func (s *SQLiteStore) UpdateSession(session model.Session) error {
	result, err := s.db.Exec(`
		UPDATE sessions
		SET user_id = ?, group_id = ?, goal = ?, deadline = ?, status = ?
		WHERE id = ?`,
		session.UserID,
		session.GroupID,
		session.Goal,
		nullableTS(session.Deadline),
		session.Status,
		session.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(result, "session not found")
}

func (s *SQLiteStore) ListSessionsByUser(userID string) ([]model.Session, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, group_id, goal, deadline, status, created_at
		FROM sessions
		WHERE user_id = ?
		ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Session
	for rows.Next() {
		var session model.Session
		var deadline sql.NullString
		var createdAt string
		if err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.GroupID,
			&session.Goal,
			&deadline,
			&session.Status,
			&createdAt,
		); err != nil {
			return nil, err
		}
		if deadline.Valid && deadline.String != "" {
			session.Deadline = fromTS(deadline.String)
		}
		session.CreatedAt = fromTS(createdAt)
		result = append(result, session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *SQLiteStore) AddTick(tick model.Tick) error {
	_, err := s.db.Exec(`
		INSERT INTO ticks
		(id, user_id, content, created_at)
		VALUES (?, ?, ?, ?)`,
		tick.ID,
		tick.UserID,
		tick.Content,
		toTS(tick.CreatedAt),
	)
	return err
}

func (s *SQLiteStore) ListTicksByUser(userID string, limit int) ([]model.Tick, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, user_id, content, created_at
		FROM ticks
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?`,
		userID,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Tick
	for rows.Next() {
		var tick model.Tick
		var createdAt string
		if err := rows.Scan(
			&tick.ID,
			&tick.UserID,
			&tick.Content,
			&createdAt,
		); err != nil {
			return nil, err
		}
		tick.CreatedAt = fromTS(createdAt)
		result = append(result, tick)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
		PRAGMA journal_mode=WAL;
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			name TEXT NOT NULL,
			group_id TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email);
		CREATE TABLE IF NOT EXISTS groups (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			members TEXT NOT NULL,
			pet_id TEXT NOT NULL DEFAULT '',
			roast_level INTEGER NOT NULL DEFAULT 5,
			created_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS pets (
			id TEXT PRIMARY KEY,
			group_id TEXT NOT NULL,
			health INTEGER NOT NULL,
			dead INTEGER NOT NULL,
			captured INTEGER NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_pets_group ON pets(group_id);
		CREATE TABLE IF NOT EXISTS cv_events (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			event_type TEXT NOT NULL,
			event_value TEXT NOT NULL,
			event_timestamp TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_events_user_time ON cv_events(user_id, event_timestamp);
		CREATE TABLE IF NOT EXISTS roasts (
			id TEXT PRIMARY KEY,
			group_id TEXT NOT NULL,
			target_user_id TEXT NOT NULL,
			roast_content TEXT NOT NULL,
			roast_level INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_roasts_group_time ON roasts(group_id, created_at);
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			group_id TEXT NOT NULL DEFAULT '',
			goal TEXT NOT NULL,
			deadline TEXT,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_user_status ON sessions(user_id, status);
		CREATE TABLE IF NOT EXISTS ticks (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_ticks_user_time ON ticks(user_id, created_at);
	`)
	return err
}

func requireRow(result sql.Result, message string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.New(message)
	}
	return nil
}

func toTS(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nullableTS(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return toTS(t)
}

func fromTS(v string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func intToBool(v int) bool {
	return v != 0
}
