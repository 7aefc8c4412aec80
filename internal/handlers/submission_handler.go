package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"vertrieb-backend/internal/middleware"
	"vertrieb-backend/internal/services"
	"vertrieb-backend/pkg/utils"
)

type SubmissionHandler struct {
	Service *services.SubmissionService
}

func NewSubmissionHandler(s *services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{Service: s}
}

// ListMySubmissions returns the authenticated GL's submission history.
func (h *SubmissionHandler) ListMySubmissions(w http.ResponseWriter, r *http.Request) {
	glID, _ := middleware.GetUserIDFromContext(r.Context())
	subs, err := h.Service.ListByGebietsleiter(r.Context(), glID)
	if err != nil {
		log.Printf("[Submission] list for GL %d failed: %v", glID, err)
		utils.Error(w, http.StatusInternalServerError, msgServerError)
		return
	}
	utils.JSON(w, http.StatusOK, subs)
}

// GetSubmissionPhoto streams one stored completion photo for review.
func (h *SubmissionHandler) GetSubmissionPhoto(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if !strings.HasPrefix(key, "photos/") {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	data, err := h.Service.FetchPhoto(r.Context(), key)
	if err != nil {
		log.Printf("[Submission] fetch photo %s failed: %v", key, err)
		utils.Error(w, http.StatusNotFound, msgNotFound)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ListMarketObligations returns the open photo obligations for one market.
func (h *SubmissionHandler) ListMarketObligations(w http.ResponseWriter, r *http.Request) {
	marketID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	open, err := h.Service.OpenObligations(r.Context(), marketID)
	if err != nil {
		log.Printf("[Submission] obligations for market %d failed: %v", marketID, err)
		utils.Error(w, http.StatusInternalServerError, msgServerError)
		return
	}
	utils.JSON(w, http.StatusOK, open)
}
