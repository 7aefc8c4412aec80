package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"vertrieb-backend/internal/importer"
	"vertrieb-backend/internal/mapper"
	"vertrieb-backend/internal/middleware"
	"vertrieb-backend/internal/models"
	"vertrieb-backend/internal/services"
	"vertrieb-backend/pkg/utils"
)

type MarketHandler struct {
	Service *services.MarketService
}

func NewMarketHandler(s *services.MarketService) *MarketHandler {
	return &MarketHandler{Service: s}
}

func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}

func (h *MarketHandler) ListMarkets(w http.ResponseWriter, r *http.Request) {
	markets, err := h.Service.List(r.Context())
	if err != nil {
		log.Printf("[Market] list failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, msgServerError)
		return
	}
	utils.JSON(w, http.StatusOK, markets)
}

// ListMyMarkets returns the markets assigned to the authenticated GL.
func (h *MarketHandler) ListMyMarkets(w http.ResponseWriter, r *http.Request) {
	glID, _ := middleware.GetUserIDFromContext(r.Context())
	markets, err := h.Service.ListByGebietsleiter(r.Context(), glID)
	if err != nil {
		log.Printf("[Market] list for GL %d failed: %v", glID, err)
		utils.Error(w, http.StatusInternalServerError, msgServerError)
		return
	}
	utils.JSON(w, http.StatusOK, markets)
}

func (h *MarketHandler) GetMarket(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	market, err := h.Service.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, msgNotFound)
		return
	}
	utils.JSON(w, http.StatusOK, market)
}

func (h *MarketHandler) CreateMarket(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMarketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	market, err := h.Service.Create(r.Context(), req)
	if err != nil {
		log.Printf("[Market] create failed: %v", err)
		utils.Error(w, http.StatusBadRequest, "Markt konnte nicht angelegt werden")
		return
	}
	utils.JSON(w, http.StatusCreated, market)
}

func (h *MarketHandler) UpdateMarket(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	var req models.UpdateMarketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	market, err := h.Service.Update(r.Context(), id, req)
	if err != nil {
		log.Printf("[Market] update %d failed: %v", id, err)
		utils.Error(w, http.StatusBadRequest, "Markt konnte nicht gespeichert werden")
		return
	}
	utils.JSON(w, http.StatusOK, market)
}

func (h *MarketHandler) DeleteMarket(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		log.Printf("[Market] delete %d failed: %v", id, err)
		utils.Error(w, http.StatusInternalServerError, msgServerError)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ImportMarkets accepts a JSON batch of loosely typed market rows.
func (h *MarketHandler) ImportMarkets(w http.ResponseWriter, r *http.Request) {
	var req models.ImportMarketsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	report, err := h.Service.Import(r.Context(), req)
	if err != nil {
		log.Printf("[Market] import failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, msgServerError)
		return
	}
	utils.JSON(w, http.StatusOK, report)
}

// UploadMarkets accepts a CSV or XLSX file upload of markets.
func (h *MarketHandler) UploadMarkets(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Keine Datei hochgeladen")
		return
	}
	defer file.Close()

	var rows []map[string]interface{}
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".xlsx":
		rows, err = importer.ParseXLSX(file, mapper.MarketFields)
	default:
		rows, err = importer.ParseCSV(file, mapper.MarketFields)
	}
	if err != nil {
		log.Printf("[Market] upload parse failed: %v", err)
		utils.Error(w, http.StatusBadRequest, "Datei konnte nicht gelesen werden")
		return
	}

	report, err := h.Service.Import(r.Context(), models.ImportMarketsRequest{Markets: rows})
	if err != nil {
		log.Printf("[Market] upload import failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, msgServerError)
		return
	}
	utils.JSON(w, http.StatusOK, report)
}
