package handlers

import (
	"net/http"

	"estatehub/db"
	"estatehub/internal/auth"
	"estatehub/models"
)

// ListPropertiesHandler возвращает объявления с фильтрами category, location и сортировкой sort
func (h *Handler) ListPropertiesHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)
	q := r.URL.Query()

	props, err := h.Service.ListProperties(r.Context(), db.PropertyFilter{
		Category: q.Get("category"),
		Location: q.Get("location"),
		Sort:     q.Get("sort"),
		Limit:    params.Limit,
		Offset:   params.Offset,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, props)
}

func (h *Handler) CreatePropertyHandler(w http.ResponseWriter, r *http.Request) {
	var in models.PropertyInput
	if !decodeBody(w, r, &in) {
		return
	}

	p, err := h.Service.CreateProperty(r.Context(), auth.UserID(r.Context()), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) GetUserPropertiesHandler(w http.ResponseWriter, r *http.Request) {
	props, err := h.Service.ListMyProperties(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, props)
}

func (h *Handler) GetPropertyHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "propertyId")
	if !ok {
		return
	}

	p, err := h.Service.GetProperty(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeletePropertyHandler удаляет объявление владельца, удаление необратимо
func (h *Handler) DeletePropertyHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "propertyId")
	if !ok {
		return
	}

	if err := h.Service.DeleteProperty(r.Context(), auth.UserID(r.Context()), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type presignRequest struct {
	ContentType string `json:"contentType"`
}

// PresignImageHandler выдает подписанный URL для загрузки фото объявления напрямую в S3
func (h *Handler) PresignImageHandler(w http.ResponseWriter, r *http.Request) {
	if h.Images == nil {
		http.Error(w, "Image uploads are not configured", http.StatusServiceUnavailable)
		return
	}

	var req presignRequest
	if !decodeBody(w, r, &req) {
		return
	}

	upload, err := h.Images.PresignUpload(r.Context(), auth.UserID(r.Context()), req.ContentType)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, upload)
}
