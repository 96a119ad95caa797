package handlers

import (
	"net/http"

	"estatehub/internal/auth"
	"estatehub/internal/service"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	u, err := h.Service.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// LoginHandler выдает токен доступа
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	session, err := h.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// MeHandler возвращает текущего пользователя
func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	u, err := h.Service.CurrentUser(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) UpdateMeHandler(w http.ResponseWriter, r *http.Request) {
	var upd service.ProfileUpdate
	if !decodeBody(w, r, &upd) {
		return
	}

	u, err := h.Service.UpdateProfile(r.Context(), auth.UserID(r.Context()), upd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
