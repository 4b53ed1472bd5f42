// Package json persists relay sessions as JSON files.
package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/relay"
	"github.com/google/uuid"
)

// envelope is the v1 wire format for a persisted session.
type envelope struct {
	Version   int          `json:"version"`
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Messages  []messageDTO `json:"messages"`
}

// messageDTO is the JSON representation of a Message.
type messageDTO struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// MarshalSession serializes a Session to JSON in v1 envelope format.
func MarshalSession(s relay.Session) ([]byte, error) {
	env := envelope{
		Version:   1,
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Messages:  make([]messageDTO, len(s.Messages)),
	}
	for i, msg := range s.Messages {
		if err := checkRole(msg.Role); err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		env.Messages[i] = messageDTO{
			ID:        msg.ID,
			Role:      string(msg.Role),
			Text:      msg.Text,
			CreatedAt: msg.CreatedAt,
		}
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalSession deserializes a Session from JSON in v1 envelope format.
func UnmarshalSession(data []byte) (relay.Session, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return relay.Session{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return relay.Session{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	msgs := make([]relay.Message, len(env.Messages))
	for i, dto := range env.Messages {
		role := relay.Role(dto.Role)
		if err := checkRole(role); err != nil {
			return relay.Session{}, fmt.Errorf("message %d: %w", i, err)
		}
		msgs[i] = relay.Message{
			ID:        dto.ID,
			Role:      role,
			Text:      dto.Text,
			CreatedAt: dto.CreatedAt,
		}
	}
	return relay.Session{
		ID:        env.ID,
		CreatedAt: env.CreatedAt,
		UpdatedAt: env.UpdatedAt,
		Messages:  msgs,
	}, nil
}

func checkRole(r relay.Role) error {
	switch r {
	case relay.RoleUser, relay.RoleAssistant:
		return nil
	default:
		return fmt.Errorf("unknown role %q", r)
	}
}

// Save writes a Session to a JSON file, creating parent directories as needed.
func Save(path string, s relay.Session) error {
	data, err := MarshalSession(s)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a Session from a JSON file.
func Load(path string) (relay.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return relay.Session{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalSession(data)
}

// LoadOrCreate loads the session stored at path. When no file exists it
// starts a session with a fresh UUID and saves it, so that the same upstream
// session id is reused by later runs.
func LoadOrCreate(path string) (relay.Session, error) {
	s, err := Load(path)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return relay.Session{}, err
	}
	now := time.Now()
	s = relay.Session{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	if err := Save(path, s); err != nil {
		return relay.Session{}, err
	}
	return s, nil
}
