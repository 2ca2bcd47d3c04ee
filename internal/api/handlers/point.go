package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/point-ledger/internal/api/httpx"
	"github.com/baharkarakas/point-ledger/internal/api/validate"
	"github.com/baharkarakas/point-ledger/internal/services"
)

const maxBodyBytes = 1 << 10

type PointHandler struct {
	Svc *services.PointService
}

func NewPointHandler(svc *services.PointService) *PointHandler {
	return &PointHandler{Svc: svc}
}

func (h *PointHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	up, err := h.Svc.GetUserPoint(r.Context(), id)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, up)
}

func (h *PointHandler) Histories(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	hs, err := h.Svc.GetPointHistory(r.Context(), id)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, hs)
}

func (h *PointHandler) Charge(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	amount, ok := readAmount(w, r)
	if !ok {
		return
	}
	up, err := h.Svc.Charge(r.Context(), id, amount)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, up)
}

func (h *PointHandler) Use(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	amount, ok := readAmount(w, r)
	if !ok {
		return
	}
	up, err := h.Svc.Use(r.Context(), id, amount)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, up)
}

func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ferr := validate.Int64("id", chi.URLParam(r, "id"))
	if ferr != nil {
		httpx.WriteError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid user id", validate.Errs{*ferr})
		return 0, false
	}
	return id, true
}

type amountReq struct {
	Amount *int64 `json:"amount"`
}

// readAmount accepts either {"amount": N} or a bare JSON number.
// Sign checks are left to the service.
func readAmount(w http.ResponseWriter, r *http.Request) (int64, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "unreadable body", nil)
		return 0, false
	}
	body = bytes.TrimSpace(body)

	if bytes.HasPrefix(body, []byte("{")) {
		var req amountReq
		if err := json.Unmarshal(body, &req); err != nil || req.Amount == nil {
			httpx.WriteError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "amount must be an integer",
				validate.Errs{{Field: "amount", Msg: "must be an integer"}})
			return 0, false
		}
		return *req.Amount, true
	}

	var amount int64
	if err := json.Unmarshal(body, &amount); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "amount must be an integer",
			validate.Errs{{Field: "amount", Msg: "must be an integer"}})
		return 0, false
	}
	return amount, true
}
