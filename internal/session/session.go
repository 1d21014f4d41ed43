// Package session holds the authenticated identity for the running client.
//
// The store is explicit and injectable: the HTTP adapter and the image
// loader receive it at construction instead of reading ambient globals.
// Login and Logout are the only mutators; every outbound request reads the
// token once through Token(), so a request either saw the old token or the
// new one, never a partial value.
package session

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
)

// Session is the identity established by a successful login.
type Session struct {
	Token    string `json:"accessToken"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

// Storage is the persistence port for the session. Implementations must be
// safe to call from a single goroutine at a time; Store serializes access.
type Storage interface {
	Get() (string, error)
	Set(value string) error
	Clear() error
}

// Store keeps the current session in memory and mirrors it to Storage.
type Store struct {
	mu      sync.RWMutex
	cur     Session
	storage Storage
}

// NewStore builds a store backed by storage. A nil storage keeps the session
// in memory only (used by tests and one-shot commands).
func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Restore loads a previously persisted session, if any. A missing or empty
// record is not an error; the store simply stays logged out.
func (s *Store) Restore() error {
	if s.storage == nil {
		return nil
	}
	raw, err := s.storage.Get()
	if err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return err
	}
	s.mu.Lock()
	s.cur = sess
	s.mu.Unlock()
	return nil
}

// Login replaces the current session and persists it.
func (s *Store) Login(sess Session) error {
	if strings.TrimSpace(sess.Token) == "" {
		return errors.New("session token is empty")
	}
	s.mu.Lock()
	s.cur = sess
	s.mu.Unlock()
	if s.storage == nil {
		return nil
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.storage.Set(string(b))
}

// Logout clears the session in memory and in storage.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.cur = Session{}
	s.mu.Unlock()
	if s.storage == nil {
		return nil
	}
	return s.storage.Clear()
}

// Token returns the current bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Token
}

// Current returns a copy of the session.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Authenticated reports whether a token is present.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}
