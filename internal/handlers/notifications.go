package handlers

import (
	"net/http"

	"estatehub/internal/auth"
)

func (h *Handler) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListNotifications(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) UnreadCountHandler(w http.ResponseWriter, r *http.Request) {
	count, err := h.Service.UnreadCount(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

// MarkNotificationReadHandler помечает прочитанным уведомление текущего пользователя
func (h *Handler) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "notificationId")
	if !ok {
		return
	}

	if err := h.Service.MarkNotificationRead(r.Context(), auth.UserID(r.Context()), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) MarkAllNotificationsReadHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.MarkAllNotificationsRead(r.Context(), auth.UserID(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
