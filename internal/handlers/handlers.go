package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"estatehub/internal/images"
	"estatehub/internal/logger"
	"estatehub/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxBodySize ограничивает размер тела запроса
const maxBodySize = 1048576

// Handler связывает HTTP с сервисным слоем
type Handler struct {
	Service Service
	Images  ImagePresigner
	log     *zap.Logger
}

// NewHandler создает новый Handler. presigner может быть nil, тогда загрузка изображений отключена.
func NewHandler(svc Service, presigner ImagePresigner, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Service: svc, Images: presigner, log: log}
}

// PingHandler отвечает "ok" для проверки сервера
func (h *Handler) PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// decodeBody читает тело запроса с ограничением размера и разбирает JSON
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// pathID читает положительный числовой параметр пути
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// writeError переводит ошибку сервиса в код ответа.
// Причина из хранилища клиенту не отдается, только в лог.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "Validation failed",
			"fields": ve.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrAuthenticationRequired):
		http.Error(w, "Authentication required", http.StatusUnauthorized)
	case errors.Is(err, service.ErrInvalidCredentials):
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
	case errors.Is(err, service.ErrInvalidBidAmount):
		http.Error(w, "Bid amount must be a positive number", http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidTenderDate):
		http.Error(w, "Tender has invalid dates", http.StatusBadRequest)
	case errors.Is(err, images.ErrUnsupportedContentType):
		http.Error(w, "Unsupported image type", http.StatusBadRequest)
	case errors.Is(err, service.ErrTenderNotFound):
		http.Error(w, "Tender not found", http.StatusNotFound)
	case errors.Is(err, service.ErrBidNotFound):
		http.Error(w, "Bid not found", http.StatusNotFound)
	case errors.Is(err, service.ErrPropertyNotFound):
		http.Error(w, "Property not found", http.StatusNotFound)
	case errors.Is(err, service.ErrNotificationNotFound):
		http.Error(w, "Notification not found", http.StatusNotFound)
	case errors.Is(err, service.ErrUserNotFound):
		http.Error(w, "User not found", http.StatusNotFound)
	case errors.Is(err, service.ErrNotOwner):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, service.ErrTenderNotOpen):
		http.Error(w, "Tender is not open for bidding", http.StatusConflict)
	case errors.Is(err, service.ErrEmailTaken):
		http.Error(w, "Email is already registered", http.StatusConflict)
	case errors.Is(err, service.ErrBidSubmissionFailed):
		h.logFailure(r, err)
		http.Error(w, "Failed to submit bid", http.StatusInternalServerError)
	case errors.Is(err, service.ErrFavoriteToggleFailed):
		h.logFailure(r, err)
		http.Error(w, "Failed to update favorite", http.StatusInternalServerError)
	default:
		h.logFailure(r, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) logFailure(r *http.Request, err error) {
	logger.FromContext(r.Context(), h.log).Error("request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
}
