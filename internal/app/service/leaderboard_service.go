package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"hackfest_v2/internal/domain/model"
	"hackfest_v2/internal/domain/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LeaderboardService serves ranked standings with a short-lived Redis cache
// and fans fresh standings out to live websocket subscribers.
type LeaderboardService struct {
	submissionRepo repository.SubmissionRepository
	rdb            *redis.Client
	cacheTTL       time.Duration
	logger         *zap.SugaredLogger

	mu       sync.RWMutex
	watchers map[string]map[chan []model.LeaderboardEntry]struct{}
}

func NewLeaderboardService(submissionRepo repository.SubmissionRepository, rdb *redis.Client, cacheTTL time.Duration, logger *zap.SugaredLogger) *LeaderboardService {
	return &LeaderboardService{
		submissionRepo: submissionRepo,
		rdb:            rdb,
		cacheTTL:       cacheTTL,
		logger:         logger,
		watchers:       make(map[string]map[chan []model.LeaderboardEntry]struct{}),
	}
}

func leaderboardKey(hackathonID string) string {
	return "leaderboard:" + hackathonID
}

// Get returns the standings, served from cache when fresh.
func (s *LeaderboardService) Get(ctx context.Context, hackathonID string) ([]model.LeaderboardEntry, error) {
	key := leaderboardKey(hackathonID)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var entries []model.LeaderboardEntry
			if err := json.Unmarshal(cached, &entries); err == nil {
				return entries, nil
			}
		}
	}
	return s.fetch(ctx, hackathonID)
}

func (s *LeaderboardService) fetch(ctx context.Context, hackathonID string) ([]model.LeaderboardEntry, error) {
	entries, err := s.submissionRepo.LeaderboardTotals(ctx, hackathonID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute leaderboard: %w", err)
	}
	if s.rdb != nil {
		if data, err := json.Marshal(entries); err == nil {
			if err := s.rdb.Set(ctx, leaderboardKey(hackathonID), data, s.cacheTTL).Err(); err != nil {
				s.logger.Warnw("failed to cache leaderboard", "hackathonId", hackathonID, "error", err)
			}
		}
	}
	return entries, nil
}

func (s *LeaderboardService) Metrics(ctx context.Context, hackathonID string) (*model.HackathonMetrics, error) {
	return s.submissionRepo.Metrics(ctx, hackathonID)
}

// Submissions lists the raw challenge submissions for admin review.
func (s *LeaderboardService) Submissions(ctx context.Context, hackathonID string) ([]model.Submission, error) {
	return s.submissionRepo.ListByHackathon(ctx, hackathonID)
}

// Subscribe registers a live watcher for one hackathon's standings. The
// returned cancel func must be called when the watcher goes away.
func (s *LeaderboardService) Subscribe(hackathonID string) (<-chan []model.LeaderboardEntry, func()) {
	ch := make(chan []model.LeaderboardEntry, 1)

	s.mu.Lock()
	if s.watchers[hackathonID] == nil {
		s.watchers[hackathonID] = make(map[chan []model.LeaderboardEntry]struct{})
	}
	s.watchers[hackathonID][ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if set, ok := s.watchers[hackathonID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(s.watchers, hackathonID)
			}
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// Refresh recomputes the standings, refreshes the cache and notifies live
// watchers. Slow watchers are skipped rather than blocked on.
func (s *LeaderboardService) Refresh(ctx context.Context, hackathonID string) {
	entries, err := s.fetch(ctx, hackathonID)
	if err != nil {
		s.logger.Warnw("leaderboard refresh failed", "hackathonId", hackathonID, "error", err)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for ch := range s.watchers[hackathonID] {
		select {
		case ch <- entries:
		default:
		}
	}
}
