package handler

import (
	"encoding/json"
	"net/http"

	"hackfest_v2/internal/api/middleware"
	"hackfest_v2/internal/app/service"
	"hackfest_v2/internal/common"
	"hackfest_v2/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type ProctoringHandler struct {
	proctoringService *service.ProctoringService
}

func NewProctoringHandler(ps *service.ProctoringService) *ProctoringHandler {
	return &ProctoringHandler{proctoringService: ps}
}

// RegisterRoutes mounts under /api/users/hackathons.
func (h *ProctoringHandler) RegisterRoutes(r chi.Router) {
	r.Post("/{hackathonID}/proctoring-events", h.recordEvent)
}

func (h *ProctoringHandler) recordEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var ev model.DetectionEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	verdict, err := h.proctoringService.RecordEvent(r.Context(), userID, chi.URLParam(r, "hackathonID"), ev)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, verdict)
}
