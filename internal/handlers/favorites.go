package handlers

import (
	"net/http"

	"estatehub/internal/auth"
)

type favoriteResponse struct {
	PropertyID int64 `json:"propertyId"`
	Liked      bool  `json:"liked"`
}

// GetFavoriteHandler сообщает, в избранном ли объявление. Анонимный пользователь получает false.
func (h *Handler) GetFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "propertyId")
	if !ok {
		return
	}

	liked, err := h.Service.IsFavorite(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, favoriteResponse{PropertyID: id, Liked: liked})
}

// ToggleFavoriteHandler переключает объявление в избранном и возвращает новое состояние
func (h *Handler) ToggleFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "propertyId")
	if !ok {
		return
	}

	liked, err := h.Service.ToggleFavorite(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, favoriteResponse{PropertyID: id, Liked: liked})
}

func (h *Handler) ListFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	props, err := h.Service.ListFavorites(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, props)
}
