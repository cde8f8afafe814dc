package service

import (
	"context"
	"fmt"
	"time"

	"hackfest_v2/internal/domain/model"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// deviceClasses are object-detection labels treated as electronic devices.
var deviceClasses = map[string]bool{
	"cell phone": true,
	"laptop":     true,
	"keyboard":   true,
	"remote":     true,
	"mouse":      true,
	"tablet":     true,
	"camera":     true,
}

// audioClasses are labels treated as headphones or earbuds.
var audioClasses = map[string]bool{
	"headphones": true,
	"earbuds":    true,
	"headset":    true,
}

// ProctoringService evaluates detection frames from the client-side vision
// pipeline and tracks per-attempt alert counts in Redis. Reaching the alert
// limit forces the participant out of the attempt.
type ProctoringService struct {
	rdb    *redis.Client
	limit  int64
	ttl    time.Duration
	logger *zap.SugaredLogger
}

func NewProctoringService(rdb *redis.Client, limit int, ttl time.Duration, logger *zap.SugaredLogger) *ProctoringService {
	return &ProctoringService{rdb: rdb, limit: int64(limit), ttl: ttl, logger: logger}
}

// Evaluate classifies one detection frame. Device detections take priority
// over audio detections, which take priority over person-count violations.
func (s *ProctoringService) Evaluate(ev model.DetectionEvent) (string, bool) {
	persons := 0
	audio := false
	for _, p := range ev.Predictions {
		switch {
		case p.Class == "person":
			persons++
		case deviceClasses[p.Class]:
			return model.AlertDevice, true
		case audioClasses[p.Class]:
			audio = true
		}
	}
	if audio {
		return model.AlertAudio, true
	}
	if persons == 0 && !ev.FaceDetected {
		return model.AlertNoPerson, true
	}
	if persons > 1 {
		return model.AlertMultiple, true
	}
	return "", false
}

// RecordEvent evaluates the frame and, when it violates, bumps the
// participant's alert counter.
func (s *ProctoringService) RecordEvent(ctx context.Context, userID, hackathonID string, ev model.DetectionEvent) (*model.ProctoringVerdict, error) {
	key := alertKey(userID, hackathonID)
	alert, violated := s.Evaluate(ev)

	if !violated {
		count, err := s.rdb.Get(ctx, key).Int64()
		if err != nil && err != redis.Nil {
			return nil, fmt.Errorf("failed to read alert count: %w", err)
		}
		return &model.ProctoringVerdict{AlertCount: count, ForceLogout: count >= s.limit}, nil
	}

	count, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to increment alert count: %w", err)
	}
	if count == 1 {
		if err := s.rdb.Expire(ctx, key, s.ttl).Err(); err != nil {
			s.logger.Warnw("failed to set alert counter TTL", "key", key, "error", err)
		}
	}

	verdict := &model.ProctoringVerdict{
		Alert:       alert,
		AlertCount:  count,
		ForceLogout: count >= s.limit,
	}
	if verdict.ForceLogout {
		s.logger.Infow("proctoring limit reached", "userId", userID, "hackathonId", hackathonID, "alerts", count)
	}
	return verdict, nil
}

// ResetAlerts clears the counter, e.g. when a fresh attempt window opens.
func (s *ProctoringService) ResetAlerts(ctx context.Context, userID, hackathonID string) error {
	return s.rdb.Del(ctx, alertKey(userID, hackathonID)).Err()
}

func alertKey(userID, hackathonID string) string {
	return "proctoring:alerts:" + hackathonID + ":" + userID
}
