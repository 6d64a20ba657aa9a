package service

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/MKato2361/Report-maker-V3/config"
	"github.com/MKato2361/Report-maker-V3/model"
)

// SessionStore is an in-memory store for working report sessions. Sessions
// are short-lived by nature (paste, review, download), so no database.
type SessionStore struct {
	sessions    map[string]*model.ReportSession
	mu          sync.RWMutex
	maxSessions int // 0 = unlimited
}

var (
	globalStore *SessionStore
	storeOnce   sync.Once
)

// InitSessionStore initializes the global session store with configuration
func InitSessionStore(cfg *config.StoreConfig) {
	storeOnce.Do(func() {
		maxSessions := cfg.MaxSessions
		if maxSessions < 0 {
			maxSessions = 0
		}
		globalStore = &SessionStore{
			sessions:    make(map[string]*model.ReportSession),
			maxSessions: maxSessions,
		}
		slog.Info("session store initialized", "max_sessions", maxSessions)
	})
}

// GetSessionStore returns the global session store
func GetSessionStore() *SessionStore {
	if globalStore == nil {
		// Fallback initialization with default settings
		globalStore = &SessionStore{
			sessions:    make(map[string]*model.ReportSession),
			maxSessions: 100,
		}
	}
	return globalStore
}

func (s *SessionStore) Save(session *model.ReportSession) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session.UpdatedAt = time.Now()
	s.sessions[session.ID] = session

	s.cleanupIfNeeded()
}

func (s *SessionStore) Get(id string) *model.ReportSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id]
}

// GetByOperator returns the sessions owned by operator, newest first.
func (s *SessionStore) GetByOperator(operator string) []*model.ReportSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*model.ReportSession
	for _, sess := range s.sessions {
		if sess.Operator == operator {
			result = append(result, sess)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// UpdateRecord replaces the committed record of a session wholesale.
func (s *SessionStore) UpdateRecord(id string, rec model.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.Record = rec
		sess.UpdatedAt = time.Now()
	}
}

// OpenDraft snapshots the committed record into a draft buffer. Reports
// whether a draft was opened (false when one is already open).
func (s *SessionStore) OpenDraft(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || sess.Draft != nil {
		return false
	}
	sess.Draft = sess.Record.Clone()
	sess.UpdatedAt = time.Now()
	return true
}

// UpdateDraft replaces the draft buffer wholesale. Partial merges are not
// supported: the draft is always a full snapshot.
func (s *SessionStore) UpdateDraft(id string, draft model.Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || sess.Draft == nil {
		return false
	}
	sess.Draft = draft.Clone()
	sess.UpdatedAt = time.Now()
	return true
}

// CommitDraft promotes the draft to the committed record.
func (s *SessionStore) CommitDraft(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || sess.Draft == nil {
		return false
	}
	sess.Record = sess.Draft
	sess.Draft = nil
	sess.UpdatedAt = time.Now()
	return true
}

// DiscardDraft drops the draft, leaving the committed record untouched.
func (s *SessionStore) DiscardDraft(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || sess.Draft == nil {
		return false
	}
	sess.Draft = nil
	sess.UpdatedAt = time.Now()
	return true
}

// cleanupIfNeeded removes oldest sessions if store exceeds maxSessions
// Must be called with lock held
func (s *SessionStore) cleanupIfNeeded() {
	if s.maxSessions <= 0 {
		return // Unlimited
	}

	if len(s.sessions) <= s.maxSessions {
		return
	}

	sessions := make([]*model.ReportSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})

	removeCount := len(sessions) - s.maxSessions
	for i := 0; i < removeCount; i++ {
		slog.Info("auto-cleaning old session",
			"session_id", sessions[i].ID,
			"created_at", sessions[i].CreatedAt,
		)
		delete(s.sessions, sessions[i].ID)
	}
}

// Count returns the number of sessions in the store
func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
