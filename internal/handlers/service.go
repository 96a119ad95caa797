package handlers

import (
	"context"

	"estatehub/db"
	"estatehub/internal/images"
	"estatehub/internal/service"
	"estatehub/models"
)

// Service - операции, которые нужны HTTP слою
type Service interface {
	Register(ctx context.Context, email, password, fullName string) (*service.CurrentUser, error)
	Login(ctx context.Context, email, password string) (*service.Session, error)
	CurrentUser(ctx context.Context, userID string) (*service.CurrentUser, error)
	UpdateProfile(ctx context.Context, userID string, upd service.ProfileUpdate) (*service.CurrentUser, error)

	CreateProperty(ctx context.Context, userID string, in models.PropertyInput) (*models.Property, error)
	ListProperties(ctx context.Context, f db.PropertyFilter) ([]models.Property, error)
	ListMyProperties(ctx context.Context, userID string) ([]models.Property, error)
	GetProperty(ctx context.Context, id int64) (*models.Property, error)
	DeleteProperty(ctx context.Context, userID string, id int64) error

	ToggleFavorite(ctx context.Context, userID string, propertyID int64) (bool, error)
	IsFavorite(ctx context.Context, userID string, propertyID int64) (bool, error)
	ListFavorites(ctx context.Context, userID string) ([]models.Property, error)

	ListTenders(ctx context.Context, statusFilter string) ([]service.TenderView, error)
	GetTender(ctx context.Context, tenderID int64, userID string) (*service.TenderView, error)
	CreateTender(ctx context.Context, t *models.Tender) (*service.TenderView, error)
	AwardTender(ctx context.Context, tenderID int64) (*service.TenderView, error)

	SubmitBid(ctx context.Context, tenderID int64, userID string, amount float64) (*service.BidResult, error)
	ListMyBids(ctx context.Context, userID string) ([]models.Bid, error)
	UpdateBidStatus(ctx context.Context, bidID int64, status models.BidStatus) (*models.Bid, error)

	ListNotifications(ctx context.Context, userID string) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkNotificationRead(ctx context.Context, userID string, id int64) error
	MarkAllNotificationsRead(ctx context.Context, userID string) error
}

// ImagePresigner выдает ссылки для прямой загрузки изображений
type ImagePresigner interface {
	PresignUpload(ctx context.Context, userID, contentType string) (*images.Upload, error)
}
