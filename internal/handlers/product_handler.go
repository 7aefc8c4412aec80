package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"vertrieb-backend/internal/importer"
	"vertrieb-backend/internal/mapper"
	"vertrieb-backend/internal/models"
	"vertrieb-backend/internal/services"
	"vertrieb-backend/pkg/utils"
)

type ProductHandler struct {
	Service *services.ProductService
}

func NewProductHandler(s *services.ProductService) *ProductHandler {
	return &ProductHandler{Service: s}
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Service.List(r.Context())
	if err != nil {
		log.Printf("[Product] list failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, msgServerError)
		return
	}
	utils.JSON(w, http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	product, err := h.Service.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, msgNotFound)
		return
	}
	utils.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	product, err := h.Service.Create(r.Context(), req)
	if err != nil {
		log.Printf("[Product] create failed: %v", err)
		utils.Error(w, http.StatusBadRequest, "Produkt konnte nicht angelegt werden")
		return
	}
	utils.JSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	var req models.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	product, err := h.Service.Update(r.Context(), id, req)
	if err != nil {
		log.Printf("[Product] update %d failed: %v", id, err)
		utils.Error(w, http.StatusBadRequest, "Produkt konnte nicht gespeichert werden")
		return
	}
	utils.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		log.Printf("[Product] delete %d failed: %v", id, err)
		utils.Error(w, http.StatusInternalServerError, msgServerError)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// UploadProducts accepts a CSV or XLSX catalog upload.
func (h *ProductHandler) UploadProducts(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Keine Datei hochgeladen")
		return
	}
	defer file.Close()

	var rows []map[string]interface{}
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".xlsx":
		rows, err = importer.ParseXLSX(file, mapper.ProductFields)
	default:
		rows, err = importer.ParseCSV(file, mapper.ProductFields)
	}
	if err != nil {
		log.Printf("[Product] upload parse failed: %v", err)
		utils.Error(w, http.StatusBadRequest, "Datei konnte nicht gelesen werden")
		return
	}

	report, err := h.Service.Import(r.Context(), rows)
	if err != nil {
		log.Printf("[Product] upload import failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, msgServerError)
		return
	}
	utils.JSON(w, http.StatusOK, report)
}
