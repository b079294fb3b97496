// Package storage keeps per-session view state (zoom domain, focus path,
// allocation mode, scroll progress) in an embedded key-value store.
// Entries expire after an hour of inactivity.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/buntdb"
)

// ErrNotFound is returned when a session has no stored state.
var ErrNotFound = errors.New("view state not found")

// ViewState is everything the chart server remembers about one session.
type ViewState struct {
	SessionID  string     `json:"session_id"`
	ZoomFrom   *time.Time `json:"zoom_from,omitempty"`
	ZoomTo     *time.Time `json:"zoom_to,omitempty"`
	FocusPath  []string   `json:"focus_path,omitempty"`
	Calculated bool       `json:"calculated"`
	Scroll     float64    `json:"scroll"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ViewStore is the session-state surface the chart server consumes.
type ViewStore interface {
	Save(state *ViewState) error
	Get(sessionID string) (*ViewState, error)
	Delete(sessionID string) error
	Close() error
}

// BuntViewStore implements ViewStore using BuntDB.
type BuntViewStore struct {
	db  *buntdb.DB
	ttl time.Duration
}

// FromMemory creates the in-memory store the server uses by default.
func FromMemory() (*BuntViewStore, error) {
	return NewBuntViewStore(":memory:")
}

// FromFile creates a file-backed store. Sessions then survive process
// restarts, which departs from the page's stateless model; nothing uses
// this by default, it is strictly opt-in via WithViewStore.
func FromFile(sourceFile string) (*BuntViewStore, error) {
	return NewBuntViewStore(sourceFile)
}

// NewBuntViewStore opens a store on the given source.
func NewBuntViewStore(sourceFile string) (*BuntViewStore, error) {
	db, err := buntdb.Open(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}

	err = db.CreateIndex("update_index", "*", buntdb.IndexJSON("updated_at"))
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &BuntViewStore{
		db:  db,
		ttl: time.Hour,
	}, nil
}

// Save stores or replaces the state for its session.
func (b *BuntViewStore) Save(state *ViewState) error {
	return b.db.Update(func(tx *buntdb.Tx) error {
		state.UpdatedAt = time.Now()

		content, err := json.Marshal(state)
		if err != nil {
			return fmt.Errorf("failed to marshal view state: %w", err)
		}

		options := &buntdb.SetOptions{Expires: true, TTL: b.ttl}
		_, _, err = tx.Set(state.SessionID, string(content), options)
		if err != nil {
			return fmt.Errorf("failed to store view state: %w", err)
		}

		return nil
	})
}

// Get returns the state for a session, or ErrNotFound.
func (b *BuntViewStore) Get(sessionID string) (*ViewState, error) {
	var state ViewState

	err := b.db.View(func(tx *buntdb.Tx) error {
		content, err := tx.Get(sessionID)
		if err != nil {
			if errors.Is(err, buntdb.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}

		return json.Unmarshal([]byte(content), &state)
	})
	if err != nil {
		return nil, err
	}

	return &state, nil
}

// Delete removes a session's state. Deleting an unknown session is a no-op.
func (b *BuntViewStore) Delete(sessionID string) error {
	return b.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(sessionID)
		if errors.Is(err, buntdb.ErrNotFound) {
			return nil
		}
		return err
	})
}

// Close releases the underlying database.
func (b *BuntViewStore) Close() error {
	return b.db.Close()
}
