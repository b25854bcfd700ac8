package ops

import (
	"crypto/rand"
	"database/sql"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/gauge/internal/db"
	"github.com/hpungsan/gauge/internal/errors"
)

// Session is the state one collaborator (REPL, web server, MCP server) keeps
// between calculations: its history database.
type Session struct {
	ID string
	DB *sql.DB
}

// NewSession opens a fresh, empty session.
func NewSession() (*Session, error) {
	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	database, err := db.Open("gauge-" + id)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &Session{ID: id, DB: database}, nil
}

// Close releases the session; its history is discarded.
func (s *Session) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
