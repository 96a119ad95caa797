package handlers

import (
	"net/http"
	"strconv"

	"estatehub/internal/auth"
	"estatehub/models"
)

type PaginationParams struct {
	Limit  int
	Offset int
}

// parsePaginationParams парсит limit и offset из query, с дефолтами и ограничениями
func parsePaginationParams(r *http.Request) PaginationParams {
	var params PaginationParams
	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")

	params.Limit = 5 // дефолт
	params.Offset = 0

	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 50 {
			params.Limit = l
		}
	}
	if offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			params.Offset = o
		}
	}
	return params
}

// ListTendersHandler возвращает тендеры с пересчитанным статусом, ?status= фильтрует по нему
func (h *Handler) ListTendersHandler(w http.ResponseWriter, r *http.Request) {
	tenders, err := h.Service.ListTenders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tenders)
}

// GetTenderHandler возвращает тендер и предложение текущего пользователя, если оно есть
func (h *Handler) GetTenderHandler(w http.ResponseWriter, r *http.Request) {
	tenderID, ok := pathID(w, r, "tenderId")
	if !ok {
		return
	}

	tender, err := h.Service.GetTender(r.Context(), tenderID, auth.UserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tender)
}

// CreateTenderHandler обрабатывает POST /api/tenders (только администратор)
func (h *Handler) CreateTenderHandler(w http.ResponseWriter, r *http.Request) {
	var tender models.Tender
	if !decodeBody(w, r, &tender) {
		return
	}
	// статус всегда вычисляется сервером
	tender.ID = 0
	tender.Status = ""

	created, err := h.Service.CreateTender(r.Context(), &tender)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) AwardTenderHandler(w http.ResponseWriter, r *http.Request) {
	tenderID, ok := pathID(w, r, "tenderId")
	if !ok {
		return
	}

	tender, err := h.Service.AwardTender(r.Context(), tenderID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tender)
}
