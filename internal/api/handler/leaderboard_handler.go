package handler

import (
	"net/http"

	"hackfest_v2/internal/app/service"
	"hackfest_v2/internal/common"
	"hackfest_v2/internal/domain/model"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type LeaderboardHandler struct {
	leaderboardService *service.LeaderboardService
	upgrader           websocket.Upgrader
	logger             *zap.SugaredLogger
}

func NewLeaderboardHandler(ls *service.LeaderboardService, logger *zap.SugaredLogger) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: ls,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// RegisterRoutes mounts under /api/users/hackathons.
func (h *LeaderboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{hackathonID}/leaderboard", h.get)
	r.Get("/{hackathonID}/leaderboard/live", h.live)
	r.Get("/{hackathonID}/metrics", h.metrics)
}

func (h *LeaderboardHandler) get(w http.ResponseWriter, r *http.Request) {
	entries, err := h.leaderboardService.Get(r.Context(), chi.URLParam(r, "hackathonID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, entries)
}

func (h *LeaderboardHandler) metrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.leaderboardService.Metrics(r.Context(), chi.URLParam(r, "hackathonID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, metrics)
}

type leaderboardMessage struct {
	Type    string                   `json:"type"`
	Entries []model.LeaderboardEntry `json:"entries"`
}

// live upgrades to a websocket and streams standings: one snapshot on
// connect, then a message per refresh until the client hangs up.
func (h *LeaderboardHandler) live(w http.ResponseWriter, r *http.Request) {
	hackathonID := chi.URLParam(r, "hackathonID")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnw("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.leaderboardService.Subscribe(hackathonID)
	defer cancel()

	snapshot, err := h.leaderboardService.Get(r.Context(), hackathonID)
	if err != nil {
		_ = conn.WriteJSON(leaderboardMessage{Type: "error"})
		return
	}
	if err := conn.WriteJSON(leaderboardMessage{Type: "leaderboard", Entries: snapshot}); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Drain the read side so we notice the peer closing.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case entries := <-updates:
			if err := conn.WriteJSON(leaderboardMessage{Type: "leaderboard", Entries: entries}); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
