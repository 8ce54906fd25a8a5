// Package session keeps pipeline results in memory between the run and the
// later edit, export and publish calls. Nothing survives a restart.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"
)

var ErrNotFound = errors.New("session: not found")

// maxTitleLen bounds the issue summary derived from the story text.
const maxTitleLen = 254

// Session is one completed pipeline run and its editable story.
type Session struct {
	ID        string    `json:"id"`
	Input     string    `json:"input"`
	Analysis  string    `json:"analysis"`
	Draft     string    `json:"draft"`
	Story     string    `json:"story"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is a mutex-guarded in-memory session map.
type Store struct {
	mu       sync.Mutex
	sessions map[string]Session
}

func NewStore() *Store {
	return &Store{sessions: map[string]Session{}}
}

// Create stores the run result under a fresh random id and returns the
// session.
func (s *Store) Create(input, analysis, draft, story string) Session {
	sess := Session{
		ID:        newID(),
		Input:     input,
		Analysis:  analysis,
		Draft:     draft,
		Story:     story,
		Title:     ExtractTitle(story),
		CreatedAt: time.Now(),
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

func (s *Store) Get(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return sess, nil
}

// UpdateStory replaces the story text and recomputes the derived title.
func (s *Store) UpdateStory(id, story string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	sess.Story = story
	sess.Title = ExtractTitle(story)
	s.sessions[id] = sess
	return sess, nil
}

// ExtractTitle derives the issue summary from the story's first non-blank
// line, stripping markdown heading and emphasis markers.
func ExtractTitle(story string) string {
	for _, line := range strings.Split(story, "\n") {
		line = strings.ReplaceAll(line, "#", "")
		line = strings.ReplaceAll(line, "*", "")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if runes := []rune(line); len(runes) > maxTitleLen {
			line = string(runes[:maxTitleLen])
		}
		return line
	}
	return ""
}

func newID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return hex.EncodeToString([]byte(time.Now().String()))[:32]
	}
	return hex.EncodeToString(b)
}
