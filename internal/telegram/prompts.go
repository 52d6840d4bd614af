package telegram

import (
	"sync"
	"time"
)

const promptTTL = 10 * time.Minute

type promptKind int

const (
	promptField promptKind = iota
	promptDetail
	promptErase
	promptImport
)

// prompt is a question waiting for the next text message of a chat.
type prompt struct {
	kind      promptKind
	name      string
	expiresAt time.Time
}

// promptStore keeps at most one armed prompt per chat. Prompts expire so a
// stray message hours later is not taken as an answer.
type promptStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[int64]prompt
}

func newPromptStore(ttl time.Duration, now func() time.Time) *promptStore {
	return &promptStore{ttl: ttl, now: now, items: make(map[int64]prompt)}
}

func (s *promptStore) arm(chatID int64, p prompt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.expiresAt = s.now().Add(s.ttl)
	s.items[chatID] = p
}

// take returns and removes the armed prompt of a chat.
func (s *promptStore) take(chatID int64) (prompt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[chatID]
	if !ok {
		return prompt{}, false
	}
	delete(s.items, chatID)
	if s.now().After(p.expiresAt) {
		return prompt{}, false
	}
	return p, true
}

func (s *promptStore) clear(chatID int64) {
	s.mu.Lock()
	delete(s.items, chatID)
	s.mu.Unlock()
}
