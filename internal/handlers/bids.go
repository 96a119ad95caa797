package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"estatehub/internal/auth"
	"estatehub/models"
)

type bidRequest struct {
	Amount json.RawMessage `json:"amount"`
}

// parseAmount принимает число или строку с числом. Все остальное дает NaN,
// который сервис отклоняет как неверную сумму.
func parseAmount(raw json.RawMessage) float64 {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v
		}
	}
	return math.NaN()
}

// SubmitBidHandler создает или обновляет предложение пользователя по тендеру
func (h *Handler) SubmitBidHandler(w http.ResponseWriter, r *http.Request) {
	tenderID, ok := pathID(w, r, "tenderId")
	if !ok {
		return
	}

	var req bidRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.Service.SubmitBid(r.Context(), tenderID, auth.UserID(r.Context()), parseAmount(req.Amount))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) GetUserBidsHandler(w http.ResponseWriter, r *http.Request) {
	bids, err := h.Service.ListMyBids(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bids)
}

// UpdateBidStatusHandler меняет статус предложения (только администратор)
func (h *Handler) UpdateBidStatusHandler(w http.ResponseWriter, r *http.Request) {
	bidID, ok := pathID(w, r, "bidId")
	if !ok {
		return
	}

	status := r.URL.Query().Get("status")
	if status == "" {
		http.Error(w, "Missing status parameter", http.StatusBadRequest)
		return
	}

	bid, err := h.Service.UpdateBidStatus(r.Context(), bidID, models.BidStatus(status))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bid)
}
