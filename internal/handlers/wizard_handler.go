package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"vertrieb-backend/internal/middleware"
	"vertrieb-backend/internal/services"
	"vertrieb-backend/internal/wizard"
	"vertrieb-backend/pkg/utils"
)

type WizardHandler struct {
	Service *services.WizardService
}

func NewWizardHandler(s *services.WizardService) *WizardHandler {
	return &WizardHandler{Service: s}
}

// sessionView is the client-facing snapshot of a wizard session.
type sessionView struct {
	ID          string           `json:"id"`
	State       wizard.State     `json:"state"`
	WaveID      *int             `json:"waveId,omitempty"`
	Exchange    bool             `json:"exchange"`
	MarketID    *int             `json:"marketId,omitempty"`
	Obligations []obligationView `json:"obligations,omitempty"`
	Lines       []lineView       `json:"lines"`
	TotalValue  float64          `json:"totalValue"`
	TotalCount  int              `json:"totalCount"`
	VisitChoice string           `json:"visitChoice,omitempty"`
}

type obligationView struct {
	ID       int    `json:"id"`
	Tag      string `json:"tag"`
	Resolved bool   `json:"resolved"`
}

type lineView struct {
	Kind      string  `json:"kind"`
	ItemID    int     `json:"itemId"`
	UnitValue float64 `json:"unitValue"`
	Quantity  int     `json:"quantity"`
}

func viewOf(sess *wizard.Session) sessionView {
	snap := sess.View()
	view := sessionView{
		ID:          snap.ID,
		State:       snap.State,
		WaveID:      snap.WaveID,
		Exchange:    snap.Exchange,
		MarketID:    snap.MarketID,
		TotalValue:  wizard.TotalValue(snap.Lines),
		TotalCount:  wizard.TotalCount(snap.Lines),
		VisitChoice: snap.VisitChoice,
		Lines:       []lineView{},
	}
	for _, l := range snap.Lines {
		view.Lines = append(view.Lines, lineView{
			Kind:      l.Key.Kind,
			ItemID:    l.Key.ItemID,
			UnitValue: l.UnitValue,
			Quantity:  l.Quantity,
		})
	}
	for _, o := range snap.Obligations {
		view.Obligations = append(view.Obligations, obligationView{ID: o.ID, Tag: o.Tag, Resolved: o.Resolved})
	}
	return view
}

// wizardMessage translates machine guard errors into client copy.
func wizardMessage(err error) string {
	switch {
	case errors.Is(err, wizard.ErrNoTarget):
		return "Bitte zuerst eine Welle oder den Tauschmodus wählen"
	case errors.Is(err, wizard.ErrNoMarket):
		return "Bitte einen Markt auswählen"
	case errors.Is(err, wizard.ErrOpenObligations):
		return "Offene Lieferfotos müssen zuerst erledigt oder übersprungen werden"
	case errors.Is(err, wizard.ErrNothingSelected):
		return "Bitte mindestens einen Artikel auswählen"
	case errors.Is(err, wizard.ErrMissingPhotos):
		return "Erforderliche Fotos fehlen noch"
	case errors.Is(err, wizard.ErrAlreadySubmitting):
		return "Übermittlung läuft bereits"
	case errors.Is(err, services.ErrNoSession):
		return "Sitzung abgelaufen, bitte neu beginnen"
	case errors.Is(err, wizard.ErrInvalidTransition):
		return "Aktion in diesem Schritt nicht möglich"
	}
	return msgServerError
}

func (h *WizardHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	glID, _ := middleware.GetUserIDFromContext(r.Context())
	sess := h.Service.Open(glID)
	utils.JSON(w, http.StatusCreated, viewOf(sess))
}

func (h *WizardHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Service.Get(mux.Vars(r)["sid"])
	if err != nil {
		utils.Error(w, http.StatusNotFound, wizardMessage(err))
		return
	}
	utils.JSON(w, http.StatusOK, viewOf(sess))
}

func (h *WizardHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	h.Service.Close(mux.Vars(r)["sid"])
	utils.JSON(w, http.StatusOK, map[string]string{"status": "closed"})
}

// ChooseTarget picks a wave or the exchange context and moves forward.
func (h *WizardHandler) ChooseTarget(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WaveID   *int `json:"waveId,omitempty"`
		Exchange bool `json:"exchange"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	sid := mux.Vars(r)["sid"]
	var (
		sess *wizard.Session
		err  error
	)
	switch {
	case req.WaveID != nil:
		sess, err = h.Service.ChooseWave(r.Context(), sid, *req.WaveID)
	case req.Exchange:
		sess, err = h.Service.ChooseExchange(sid)
	default:
		utils.Error(w, http.StatusBadRequest, wizardMessage(wizard.ErrNoTarget))
		return
	}
	if err != nil {
		utils.Error(w, http.StatusBadRequest, wizardMessage(err))
		return
	}
	utils.JSON(w, http.StatusOK, viewOf(sess))
}

func (h *WizardHandler) ChooseMarket(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MarketID int `json:"marketId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	sess, err := h.Service.ChooseMarket(r.Context(), mux.Vars(r)["sid"], req.MarketID)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, wizardMessage(err))
		return
	}
	utils.JSON(w, http.StatusOK, viewOf(sess))
}

// FulfillObligation attaches a late delivery photo to an open obligation.
func (h *WizardHandler) FulfillObligation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	oid, err := strconv.Atoi(vars["oid"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	file, _, err := r.FormFile("photo")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Kein Foto hochgeladen")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Foto konnte nicht gelesen werden")
		return
	}
	if err := h.Service.FulfillObligation(vars["sid"], oid, data); err != nil {
		utils.Error(w, http.StatusBadRequest, wizardMessage(err))
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "fulfilled"})
}

func (h *WizardHandler) SkipObligation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	oid, err := strconv.Atoi(vars["oid"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	if err := h.Service.SkipObligation(vars["sid"], oid); err != nil {
		utils.Error(w, http.StatusBadRequest, wizardMessage(err))
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "skipped"})
}

// SetQuantity sets one line's quantity. The quantity arrives as a string
// because the client sends raw keypad input.
func (h *WizardHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind      string  `json:"kind"`
		ItemID    int     `json:"itemId"`
		UnitValue float64 `json:"unitValue"`
		Quantity  string  `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	qty, err := wizard.ParseQuantity(req.Quantity)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Ungültige Menge")
		return
	}
	key := wizard.ItemKey{Kind: req.Kind, ItemID: req.ItemID}
	if err := h.Service.SetQuantity(mux.Vars(r)["sid"], key, req.UnitValue, qty); err != nil {
		utils.Error(w, http.StatusNotFound, wizardMessage(err))
		return
	}
	h.respondWithSession(w, r)
}

// Increment steps one line's quantity (plus/minus buttons).
func (h *WizardHandler) Increment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind      string  `json:"kind"`
		ItemID    int     `json:"itemId"`
		UnitValue float64 `json:"unitValue"`
		Delta     int     `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	key := wizard.ItemKey{Kind: req.Kind, ItemID: req.ItemID}
	if err := h.Service.Increment(mux.Vars(r)["sid"], key, req.UnitValue, req.Delta); err != nil {
		utils.Error(w, http.StatusNotFound, wizardMessage(err))
		return
	}
	h.respondWithSession(w, r)
}

// AttachPhoto stores one captured completion photo under its tag.
func (h *WizardHandler) AttachPhoto(w http.ResponseWriter, r *http.Request) {
	tag := r.FormValue("tag")
	if tag == "" {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	file, _, err := r.FormFile("photo")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Kein Foto hochgeladen")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Foto konnte nicht gelesen werden")
		return
	}
	if err := h.Service.AttachPhoto(mux.Vars(r)["sid"], tag, data); err != nil {
		utils.Error(w, http.StatusNotFound, wizardMessage(err))
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "attached"})
}

// Advance applies one machine action: continue, count-new, count-existing.
func (h *WizardHandler) Advance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	sess, err := h.Service.Advance(r.Context(), mux.Vars(r)["sid"], wizard.Action(req.Action))
	if err != nil {
		log.Printf("[Wizard] advance %s failed: %v", req.Action, err)
		utils.Error(w, http.StatusBadRequest, wizardMessage(err))
		return
	}
	utils.JSON(w, http.StatusOK, viewOf(sess))
}

func (h *WizardHandler) respondWithSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Service.Get(mux.Vars(r)["sid"])
	if err != nil {
		utils.Error(w, http.StatusNotFound, wizardMessage(err))
		return
	}
	utils.JSON(w, http.StatusOK, viewOf(sess))
}
