package handler

import (
	"encoding/json"
	"net/http"

	"hackfest_v2/internal/api/middleware"
	"hackfest_v2/internal/app/service"
	"hackfest_v2/internal/common"
	"hackfest_v2/internal/platform/judge"

	"github.com/go-chi/chi/v5"
)

type ChallengeHandler struct {
	challengeService *service.ChallengeService
}

func NewChallengeHandler(cs *service.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challengeService: cs}
}

// RegisterRoutes mounts the challenge runner under a hackathon.
func (h *ChallengeHandler) RegisterRoutes(r chi.Router) {
	r.Route("/{hackathonID}/challenge-session", func(sr chi.Router) {
		sr.Post("/", h.start)
		sr.Get("/", h.get)
		sr.Post("/language", h.selectLanguage)
		sr.Post("/navigate", h.navigate)
		sr.Post("/reset-code", h.resetCode)
		sr.Post("/run", h.runSample)
	})
	r.Post("/{hackathonID}/submit-coding-challenge", h.submitAll)
}

// RegisterUserRoutes mounts the direct execution relay.
func (h *ChallengeHandler) RegisterUserRoutes(r chi.Router) {
	r.Post("/test-judge0", h.testJudge)
}

func (h *ChallengeHandler) start(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	sess, err := h.challengeService.StartSession(r.Context(), userID, chi.URLParam(r, "hackathonID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sess)
}

func (h *ChallengeHandler) get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	sess, err := h.challengeService.GetSession(r.Context(), userID, chi.URLParam(r, "hackathonID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sess)
}

func (h *ChallengeHandler) selectLanguage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req struct {
		Language string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	sess, err := h.challengeService.SelectLanguage(r.Context(), userID, chi.URLParam(r, "hackathonID"), req.Language)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sess)
}

func (h *ChallengeHandler) navigate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req struct {
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	sess, err := h.challengeService.Navigate(r.Context(), userID, chi.URLParam(r, "hackathonID"), req.Direction)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sess)
}

func (h *ChallengeHandler) resetCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	sess, err := h.challengeService.ResetCode(r.Context(), userID, chi.URLParam(r, "hackathonID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sess)
}

func (h *ChallengeHandler) runSample(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	sess, err := h.challengeService.RunSample(r.Context(), userID, chi.URLParam(r, "hackathonID"), req.Code)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sess)
}

func (h *ChallengeHandler) submitAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	sess, err := h.challengeService.SubmitAll(r.Context(), userID, chi.URLParam(r, "hackathonID"), req.Code)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sess)
}

// testJudge relays an ad-hoc execution request to the judge and returns its
// raw result.
func (h *ChallengeHandler) testJudge(w http.ResponseWriter, r *http.Request) {
	var req judge.ExecRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	res, err := h.challengeService.RunCustom(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, res)
}
