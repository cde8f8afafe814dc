package sessions

import (
	"context"
	"sync"

	"hackfest_v2/internal/common"
	"hackfest_v2/internal/domain/model"
)

// MemoryStore keeps challenge sessions in process memory. Suitable for a
// single-instance deployment and for tests; RedisStore is the shared variant.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]model.ChallengeSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]model.ChallengeSession)}
}

func (s *MemoryStore) Get(_ context.Context, userID, hackathonID string) (*model.ChallengeSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionKey(userID, hackathonID)]
	if !ok {
		return nil, common.ErrSessionNotFound
	}
	// Copy out so callers cannot mutate stored state without Save.
	out := sess
	out.TestResults = append([]model.TestResult(nil), sess.TestResults...)
	out.Submitted = make(map[int]bool, len(sess.Submitted))
	for k, v := range sess.Submitted {
		out.Submitted[k] = v
	}
	return &out, nil
}

func (s *MemoryStore) Save(_ context.Context, sess *model.ChallengeSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *sess
	stored.TestResults = append([]model.TestResult(nil), sess.TestResults...)
	stored.Submitted = make(map[int]bool, len(sess.Submitted))
	for k, v := range sess.Submitted {
		stored.Submitted[k] = v
	}
	s.sessions[sessionKey(sess.UserID, sess.HackathonID)] = stored
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID, hackathonID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionKey(userID, hackathonID))
	return nil
}

func sessionKey(userID, hackathonID string) string {
	return "challenge:session:" + hackathonID + ":" + userID
}
