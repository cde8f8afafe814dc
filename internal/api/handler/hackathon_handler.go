package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"hackfest_v2/internal/api/middleware"
	"hackfest_v2/internal/app/service"
	"hackfest_v2/internal/common"

	"github.com/go-chi/chi/v5"
)

type HackathonHandler struct {
	hackathonService *service.HackathonService
	regService       *service.RegistrationService
	progressService  *service.ProgressService
}

func NewHackathonHandler(hs *service.HackathonService, rs *service.RegistrationService, ps *service.ProgressService) *HackathonHandler {
	return &HackathonHandler{hackathonService: hs, regService: rs, progressService: ps}
}

func (h *HackathonHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{hackathonID}", h.get)
	r.Get("/{hackathonID}/attempt", h.attemptContext)
	r.Get("/{hackathonID}/registration-status", h.registrationStatus)
	r.Post("/{hackathonID}/register", h.register)
	r.Get("/{hackathonID}/progress", h.getProgress)
	r.Post("/{hackathonID}/progress", h.updateProgress)
}

func (h *HackathonHandler) list(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	resp, err := h.hackathonService.List(r.Context(), page, pageSize)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *HackathonHandler) get(w http.ResponseWriter, r *http.Request) {
	hackathon, err := h.hackathonService.GetForParticipant(r.Context(), chi.URLParam(r, "hackathonID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, hackathon)
}

// attemptContext returns the hackathon, registration status and wizard
// progress in one round trip.
func (h *HackathonHandler) attemptContext(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	resp, err := h.hackathonService.GetAttemptContext(r.Context(), userID, chi.URLParam(r, "hackathonID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *HackathonHandler) registrationStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	status, err := h.regService.Status(r.Context(), userID, chi.URLParam(r, "hackathonID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, status)
}

func (h *HackathonHandler) register(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	reg, err := h.regService.Register(r.Context(), userID, chi.URLParam(r, "hackathonID"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, reg)
}

func (h *HackathonHandler) getProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	p, err := h.progressService.Get(r.Context(), userID, chi.URLParam(r, "hackathonID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, p)
}

func (h *HackathonHandler) updateProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.UpdateProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	p, err := h.progressService.Update(r.Context(), userID, chi.URLParam(r, "hackathonID"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, p)
}
