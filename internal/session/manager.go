package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"
)

// Session is the reading progress of one document.
type Session struct {
	Created     time.Time `json:"created"`
	LastUpdated time.Time `json:"last_updated"`
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	Title       string    `json:"title"`
	Seen        []string  `json:"seen"`
}

// Manager keeps one session per document under .spyglass/sessions.
type Manager struct {
	sessions     map[string]*Session
	ProjectPath  string
	sessionsPath string
}

// NewManager creates a new session manager.
func NewManager(projectPath string) *Manager {
	return &Manager{
		ProjectPath:  projectPath,
		sessionsPath: filepath.Join(projectPath, ".spyglass", "sessions"),
		sessions:     make(map[string]*Session),
	}
}

// Initialize sets up the session directory and loads existing sessions.
func (m *Manager) Initialize() error {
	// Create sessions directory if it doesn't exist
	if err := os.MkdirAll(m.sessionsPath, 0o755); err != nil {
		return fmt.Errorf("failed to create sessions directory: %w", err)
	}

	// Load existing sessions
	return m.loadSessions()
}

// Open returns the session for the document at path, creating it if this
// is the first time the document is read.
func (m *Manager) Open(path, title string) (*Session, error) {
	id := IDFor(path)
	if session, exists := m.sessions[id]; exists {
		if title != "" && session.Title != title {
			session.Title = title
			session.LastUpdated = time.Now()
			return session, m.saveSession(session)
		}
		return session, nil
	}

	session := &Session{
		ID:          id,
		Path:        path,
		Title:       title,
		Seen:        []string{},
		Created:     time.Now(),
		LastUpdated: time.Now(),
	}
	m.sessions[id] = session

	// Save immediately
	if err := m.saveSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession returns a specific session by ID.
func (m *Manager) GetSession(id string) (*Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	return session, nil
}

// ListSessions returns all sessions sorted by last updated.
func (m *Manager) ListSessions() []*Session {
	sessions := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}

	// Sort by last updated (newest first)
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].LastUpdated.After(sessions[j].LastUpdated)
	})

	return sessions
}

// MarkSeen records a seen section. It reports whether the section was new.
func (m *Manager) MarkSeen(id, section string) (bool, error) {
	session, err := m.GetSession(id)
	if err != nil {
		return false, err
	}
	if slices.Contains(session.Seen, section) {
		return false, nil
	}

	session.Seen = append(session.Seen, section)
	session.LastUpdated = time.Now()
	return true, m.saveSession(session)
}

// ResetSeen forgets every seen section of a session.
func (m *Manager) ResetSeen(id string) error {
	session, err := m.GetSession(id)
	if err != nil {
		return err
	}

	session.Seen = []string{}
	session.LastUpdated = time.Now()
	return m.saveSession(session)
}

// DeleteSession removes a session.
func (m *Manager) DeleteSession(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errors.New("session not found: " + id)
	}
	delete(m.sessions, id)

	// Remove file
	return os.Remove(m.sessionFile(id))
}

// Tracker binds a session to the reader's progress callbacks.
func (m *Manager) Tracker(id string) *Tracker {
	return &Tracker{manager: m, id: id}
}

// Tracker is the progress of one document.
type Tracker struct {
	manager *Manager
	id      string
}

// Seen returns the sections seen so far.
func (t *Tracker) Seen() []string {
	session, err := t.manager.GetSession(t.id)
	if err != nil {
		return nil
	}
	return slices.Clone(session.Seen)
}

// MarkSeen records a seen section.
func (t *Tracker) MarkSeen(section string) error {
	_, err := t.manager.MarkSeen(t.id, section)
	return err
}

// Reset forgets every seen section.
func (t *Tracker) Reset() error {
	return t.manager.ResetSeen(t.id)
}

// IDFor derives a stable, file-name safe session ID from a document path.
func IDFor(path string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(path))

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	base = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, base)
	return fmt.Sprintf("%s_%x", base, h.Sum64())
}

// Private methods

func (m *Manager) loadSessions() error {
	entries, err := os.ReadDir(m.sessionsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No sessions yet
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(m.sessionsPath, entry.Name()))
		if err != nil {
			continue // Skip bad files
		}

		var session Session
		if err := json.Unmarshal(data, &session); err != nil || session.ID == "" {
			continue // Skip bad JSON
		}
		if session.Seen == nil {
			session.Seen = []string{}
		}

		m.sessions[session.ID] = &session
	}

	return nil
}

func (m *Manager) saveSession(session *Session) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(m.sessionFile(session.ID), data, 0o644)
}

func (m *Manager) sessionFile(id string) string {
	return filepath.Join(m.sessionsPath, id+".json")
}
