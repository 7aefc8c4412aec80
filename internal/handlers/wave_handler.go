package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"vertrieb-backend/internal/models"
	"vertrieb-backend/internal/services"
	"vertrieb-backend/pkg/utils"
)

type WaveHandler struct {
	Service *services.WaveService
}

func NewWaveHandler(s *services.WaveService) *WaveHandler {
	return &WaveHandler{Service: s}
}

func (h *WaveHandler) ListWaves(w http.ResponseWriter, r *http.Request) {
	var (
		waves []*models.Wave
		err   error
	)
	if r.URL.Query().Get("active") == "true" {
		waves, err = h.Service.ListActive(r.Context())
	} else {
		waves, err = h.Service.List(r.Context())
	}
	if err != nil {
		log.Printf("[Wave] list failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, msgServerError)
		return
	}
	utils.JSON(w, http.StatusOK, waves)
}

func (h *WaveHandler) GetWave(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	wave, err := h.Service.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, msgNotFound)
		return
	}
	utils.JSON(w, http.StatusOK, wave)
}

func (h *WaveHandler) CreateWave(w http.ResponseWriter, r *http.Request) {
	var req models.CreateWaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	wave, err := h.Service.Create(r.Context(), req)
	if err != nil {
		log.Printf("[Wave] create failed: %v", err)
		utils.Error(w, http.StatusBadRequest, "Welle konnte nicht angelegt werden")
		return
	}
	utils.JSON(w, http.StatusCreated, wave)
}

func (h *WaveHandler) UpdateWave(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	var req models.UpdateWaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	wave, err := h.Service.Update(r.Context(), id, req)
	if err != nil {
		log.Printf("[Wave] update %d failed: %v", id, err)
		utils.Error(w, http.StatusBadRequest, "Welle konnte nicht gespeichert werden")
		return
	}
	utils.JSON(w, http.StatusOK, wave)
}

func (h *WaveHandler) DeleteWave(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		log.Printf("[Wave] delete %d failed: %v", id, err)
		utils.Error(w, http.StatusInternalServerError, msgServerError)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// WaveProgress returns the derived goal progress for one wave.
func (h *WaveHandler) WaveProgress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	progress, err := h.Service.Progress(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, msgNotFound)
		return
	}
	utils.JSON(w, http.StatusOK, progress)
}
