package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"vertrieb-backend/internal/middleware"
	"vertrieb-backend/internal/models"
	"vertrieb-backend/internal/services"
	"vertrieb-backend/internal/timeutil"
	"vertrieb-backend/pkg/utils"
)

type NaraHandler struct {
	Service *services.NaraService
}

func NewNaraHandler(s *services.NaraService) *NaraHandler {
	return &NaraHandler{Service: s}
}

func (h *NaraHandler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	glID, _ := middleware.GetUserIDFromContext(r.Context())
	var req models.CreateNaraRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	sub, err := h.Service.Create(r.Context(), glID, req)
	if err != nil {
		log.Printf("[Nara] create failed: %v", err)
		utils.Error(w, http.StatusBadRequest, "Einreichung konnte nicht gespeichert werden")
		return
	}
	utils.JSON(w, http.StatusCreated, sub)
}

// ListGrouped returns the admin view: per-market, per-day aggregates.
func (h *NaraHandler) ListGrouped(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Service.Grouped(r.Context())
	if err != nil {
		log.Printf("[Nara] grouped list failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, msgServerError)
		return
	}
	utils.JSON(w, http.StatusOK, groups)
}

// ExportXLSX streams the grouped view as a workbook download.
func (h *NaraHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	f, err := h.Service.ExportXLSX(r.Context())
	if err != nil {
		log.Printf("[Nara] export failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, msgServerError)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("nara-%s.xlsx", timeutil.Now().Format(timeutil.DateLayout))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	if err := f.Write(w); err != nil {
		log.Printf("[Nara] export write failed: %v", err)
	}
}
