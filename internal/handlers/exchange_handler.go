package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"vertrieb-backend/internal/middleware"
	"vertrieb-backend/internal/models"
	"vertrieb-backend/internal/services"
	"vertrieb-backend/pkg/utils"
)

type ExchangeHandler struct {
	Service *services.ExchangeService
}

func NewExchangeHandler(s *services.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{Service: s}
}

func (h *ExchangeHandler) CreateExchange(w http.ResponseWriter, r *http.Request) {
	glID, _ := middleware.GetUserIDFromContext(r.Context())
	var req models.CreateExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	entry, err := h.Service.Create(r.Context(), glID, req)
	if err != nil {
		log.Printf("[Exchange] create failed: %v", err)
		utils.Error(w, http.StatusBadRequest, "Tausch konnte nicht gespeichert werden")
		return
	}
	utils.JSON(w, http.StatusCreated, entry)
}

func (h *ExchangeHandler) ListExchanges(w http.ResponseWriter, r *http.Request) {
	glID, _ := middleware.GetUserIDFromContext(r.Context())
	entries, err := h.Service.ListByGebietsleiter(r.Context(), glID)
	if err != nil {
		log.Printf("[Exchange] list failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, msgServerError)
		return
	}
	utils.JSON(w, http.StatusOK, entries)
}

func (h *ExchangeHandler) GetExchange(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	entry, err := h.Service.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, msgNotFound)
		return
	}
	utils.JSON(w, http.StatusOK, entry)
}

func (h *ExchangeHandler) DeleteExchange(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		log.Printf("[Exchange] delete %d failed: %v", id, err)
		utils.Error(w, http.StatusInternalServerError, msgServerError)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// PreviewBalance computes the value balance of an in-progress swap without
// persisting anything.
func (h *ExchangeHandler) PreviewBalance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Removed     []models.ExchangeItemInput `json:"removed"`
		Replacement []models.ExchangeItemInput `json:"replacement"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	toItems := func(inputs []models.ExchangeItemInput) []models.ExchangeItem {
		items := make([]models.ExchangeItem, 0, len(inputs))
		for _, in := range inputs {
			items = append(items, models.ExchangeItem{Name: in.Name, Quantity: in.Quantity, UnitPrice: in.UnitPrice})
		}
		return items
	}
	balance := services.Balance(toItems(req.Removed), toItems(req.Replacement))
	utils.JSON(w, http.StatusOK, balance)
}

// GetBalance derives the balance of a stored entry.
func (h *ExchangeHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	balance, err := h.Service.BalanceOf(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, msgNotFound)
		return
	}
	utils.JSON(w, http.StatusOK, balance)
}
