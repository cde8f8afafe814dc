package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"hackfest_v2/internal/app/service"
	"hackfest_v2/internal/common"
	"hackfest_v2/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	hackathonService   *service.HackathonService
	userService        *service.UserService
	leaderboardService *service.LeaderboardService
}

func NewAdminHandler(hs *service.HackathonService, us *service.UserService, ls *service.LeaderboardService) *AdminHandler {
	return &AdminHandler{hackathonService: hs, userService: us, leaderboardService: ls}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Route("/hackathons", func(hr chi.Router) {
		hr.Get("/", h.listHackathons)
		hr.Post("/", h.createHackathon)
		hr.Get("/{hackathonID}", h.getHackathon)
		hr.Put("/{hackathonID}", h.updateHackathon)
		hr.Delete("/{hackathonID}", h.deleteHackathon)
		hr.Get("/{hackathonID}/submissions", h.listSubmissions)
	})
	r.Route("/users", func(ur chi.Router) {
		ur.Get("/", h.listUsers)
		ur.Put("/{userID}/role", h.updateUserRole)
		ur.Delete("/{userID}", h.deleteUser)
	})
	r.Put("/mcqs/{hackathonID}", h.replaceMCQs)
	r.Route("/coding-challenges", func(cr chi.Router) {
		cr.Post("/{hackathonID}", h.addChallenge)
		cr.Delete("/{challengeID}", h.deleteChallenge)
	})
}

func (h *AdminHandler) listHackathons(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	resp, err := h.hackathonService.List(r.Context(), page, pageSize)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *AdminHandler) createHackathon(w http.ResponseWriter, r *http.Request) {
	var req service.CreateHackathonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	hackathon, err := h.hackathonService.Create(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, hackathon)
}

func (h *AdminHandler) getHackathon(w http.ResponseWriter, r *http.Request) {
	hackathon, err := h.hackathonService.GetForAdmin(r.Context(), chi.URLParam(r, "hackathonID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, hackathon)
}

func (h *AdminHandler) updateHackathon(w http.ResponseWriter, r *http.Request) {
	var req service.CreateHackathonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	hackathon, err := h.hackathonService.Update(r.Context(), chi.URLParam(r, "hackathonID"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, hackathon)
}

func (h *AdminHandler) deleteHackathon(w http.ResponseWriter, r *http.Request) {
	if err := h.hackathonService.Delete(r.Context(), chi.URLParam(r, "hackathonID")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AdminHandler) listSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.leaderboardService.Submissions(r.Context(), chi.URLParam(r, "hackathonID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, subs)
}

func (h *AdminHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	users, err := h.userService.List(r.Context(), page, pageSize)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) updateUserRole(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if err := h.userService.UpdateRole(r.Context(), chi.URLParam(r, "userID"), req.Role); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *AdminHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.Delete(r.Context(), chi.URLParam(r, "userID")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AdminHandler) replaceMCQs(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MCQs []model.MCQ `json:"mcqs"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if err := h.hackathonService.ReplaceMCQs(r.Context(), chi.URLParam(r, "hackathonID"), req.MCQs); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *AdminHandler) addChallenge(w http.ResponseWriter, r *http.Request) {
	var req service.CreateChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	challenge, err := h.hackathonService.AddChallenge(r.Context(), chi.URLParam(r, "hackathonID"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, challenge)
}

func (h *AdminHandler) deleteChallenge(w http.ResponseWriter, r *http.Request) {
	if err := h.hackathonService.DeleteChallenge(r.Context(), chi.URLParam(r, "challengeID")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
