package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"estatehub/db"
	"estatehub/internal/auth"
	"estatehub/internal/logger"
	"estatehub/internal/metrics"
	"estatehub/models"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, id, fullName string) error
	UpdateUserPassword(ctx context.Context, id, passwordHash string) error
	SetUserRole(ctx context.Context, email, role string) error
}

type PropertyStore interface {
	CreateProperty(ctx context.Context, p *models.Property) error
	GetProperty(ctx context.Context, id int64) (*models.Property, error)
	ListProperties(ctx context.Context, f db.PropertyFilter) ([]models.Property, error)
	ListUserProperties(ctx context.Context, userID string) ([]models.Property, error)
	DeleteProperty(ctx context.Context, id int64) error
}

type FavoriteStore interface {
	AddFavorite(ctx context.Context, userID string, propertyID int64) error
	RemoveFavorite(ctx context.Context, userID string, propertyID int64) (bool, error)
	FavoriteExists(ctx context.Context, userID string, propertyID int64) (bool, error)
	ListFavoriteProperties(ctx context.Context, userID string) ([]models.Property, error)
}

type TenderStore interface {
	CreateTender(ctx context.Context, t *models.Tender) error
	GetTender(ctx context.Context, id int64) (*models.Tender, error)
	ListTenders(ctx context.Context) ([]models.Tender, error)
	UpdateTenderStatus(ctx context.Context, id int64, status models.TenderStatus) error
}

type BidStore interface {
	FindBid(ctx context.Context, tenderID int64, userID string) (*models.Bid, error)
	CreateBid(ctx context.Context, b *models.Bid) error
	UpdateBidAmount(ctx context.Context, b *models.Bid) error
	GetBid(ctx context.Context, id int64) (*models.Bid, error)
	ListUserBids(ctx context.Context, userID string) ([]models.Bid, error)
	UpdateBidStatus(ctx context.Context, id int64, status models.BidStatus, updatedAt time.Time) error
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID string) ([]models.Notification, error)
	CountUnreadNotifications(ctx context.Context, userID string) (int, error)
	MarkNotificationRead(ctx context.Context, id int64, userID string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) error
}

// Store - все хранилища, с которыми работает сервис. *db.Storage реализует его целиком.
type Store interface {
	UserStore
	PropertyStore
	FavoriteStore
	TenderStore
	BidStore
	NotificationStore
}

var _ Store = (*db.Storage)(nil)

type Service struct {
	store    Store
	tokens   *auth.TokenIssuer
	metrics  *metrics.Metrics
	log      *zap.Logger
	validate *validator.Validate
	now      func() time.Time
}

type Option func(*Service)

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) { s.log = log }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock подменяет источник текущего времени
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(store Store, tokens *auth.TokenIssuer, opts ...Option) *Service {
	s := &Service{
		store:    store,
		tokens:   tokens,
		log:      zap.NewNop(),
		validate: newValidator(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) logger(ctx context.Context) *zap.Logger {
	return logger.FromContext(ctx, s.log)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct переводит ошибки validator в ValidationError
func (s *Service) validateStruct(v interface{}) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}
	ve := &ValidationError{Fields: map[string]string{}}
	for _, fe := range verrs {
		ve.Fields[fieldPath(fe)] = describe(fe)
	}
	return ve
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte", "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "url":
		return "must be a valid URL"
	case "startswith":
		return "must start with " + fe.Param()
	case "email":
		return "must be a valid email"
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}
