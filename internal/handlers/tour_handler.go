package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"vertrieb-backend/internal/middleware"
	"vertrieb-backend/internal/services"
	"vertrieb-backend/internal/tour"
	"vertrieb-backend/pkg/utils"
)

type TourHandler struct {
	Service *services.TourService
}

func NewTourHandler(s *services.TourService) *TourHandler {
	return &TourHandler{Service: s}
}

type planView struct {
	State        tour.State         `json:"state"`
	Selected     []int              `json:"selected"`
	Mode         tour.TransportMode `json:"mode,omitempty"`
	Order        []int              `json:"order,omitempty"`
	TotalMinutes int                `json:"totalMinutes"`
	Modified     bool               `json:"modified"`
}

func planViewOf(p *tour.Plan) planView {
	return planView{
		State:        p.State,
		Selected:     p.Selected,
		Mode:         p.Mode,
		Order:        p.Order,
		TotalMinutes: p.TotalMinutes,
		Modified:     p.Modified,
	}
}

func tourMessage(err error) string {
	switch {
	case errors.Is(err, tour.ErrNoSelection):
		return "Bitte mindestens einen Markt auswählen"
	case errors.Is(err, tour.ErrNoMode), errors.Is(err, tour.ErrUnknownMode):
		return "Bitte ein Verkehrsmittel wählen"
	case errors.Is(err, tour.ErrBadOrder):
		return "Ungültige Reihenfolge"
	case errors.Is(err, tour.ErrWrongState):
		return "Aktion in diesem Schritt nicht möglich"
	}
	return msgServerError
}

func (h *TourHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	glID, _ := middleware.GetUserIDFromContext(r.Context())
	utils.JSON(w, http.StatusOK, planViewOf(h.Service.Plan(glID)))
}

func (h *TourHandler) ResetPlan(w http.ResponseWriter, r *http.Request) {
	glID, _ := middleware.GetUserIDFromContext(r.Context())
	h.Service.Reset(glID)
	utils.JSON(w, http.StatusOK, planViewOf(h.Service.Plan(glID)))
}

func (h *TourHandler) ToggleMarket(w http.ResponseWriter, r *http.Request) {
	glID, _ := middleware.GetUserIDFromContext(r.Context())
	var req struct {
		MarketID int `json:"marketId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	plan, err := h.Service.Toggle(r.Context(), glID, req.MarketID)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, tourMessage(err))
		return
	}
	utils.JSON(w, http.StatusOK, planViewOf(plan))
}

func (h *TourHandler) Continue(w http.ResponseWriter, r *http.Request) {
	glID, _ := middleware.GetUserIDFromContext(r.Context())
	plan, err := h.Service.Continue(glID)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, tourMessage(err))
		return
	}
	utils.JSON(w, http.StatusOK, planViewOf(plan))
}

func (h *TourHandler) ChooseMode(w http.ResponseWriter, r *http.Request) {
	glID, _ := middleware.GetUserIDFromContext(r.Context())
	var req struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	plan, err := h.Service.ChooseMode(glID, tour.TransportMode(req.Mode))
	if err != nil {
		utils.Error(w, http.StatusBadRequest, tourMessage(err))
		return
	}
	utils.JSON(w, http.StatusOK, planViewOf(plan))
}

func (h *TourHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	glID, _ := middleware.GetUserIDFromContext(r.Context())
	var req struct {
		Order []int `json:"order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	plan, err := h.Service.Reorder(glID, req.Order)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, tourMessage(err))
		return
	}
	utils.JSON(w, http.StatusOK, planViewOf(plan))
}

func (h *TourHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	glID, _ := middleware.GetUserIDFromContext(r.Context())
	plan, err := h.Service.Recompute(glID)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, tourMessage(err))
		return
	}
	utils.JSON(w, http.StatusOK, planViewOf(plan))
}

func (h *TourHandler) Back(w http.ResponseWriter, r *http.Request) {
	glID, _ := middleware.GetUserIDFromContext(r.Context())
	plan, err := h.Service.Back(glID)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, tourMessage(err))
		return
	}
	utils.JSON(w, http.StatusOK, planViewOf(plan))
}

// Stops resolves the planned route to full market records.
func (h *TourHandler) Stops(w http.ResponseWriter, r *http.Request) {
	glID, _ := middleware.GetUserIDFromContext(r.Context())
	stops, err := h.Service.Stops(r.Context(), glID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, msgServerError)
		return
	}
	utils.JSON(w, http.StatusOK, stops)
}
