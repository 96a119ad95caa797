package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"estatehub/db"
	"estatehub/internal/auth"
	"estatehub/models"

	"go.uber.org/zap"
)

const minPasswordLen = 8

// Session - результат входа
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *CurrentUser `json:"user"`
}

type UserMetadata struct {
	FullName string `json:"full_name"`
}

// CurrentUser - то, что клиент знает о вошедшем пользователе
type CurrentUser struct {
	ID       string       `json:"id"`
	Email    string       `json:"email"`
	Role     string       `json:"role"`
	Metadata UserMetadata `json:"user_metadata"`
}

func currentUser(u *models.User) *CurrentUser {
	return &CurrentUser{ID: u.ID, Email: u.Email, Role: u.Role, Metadata: UserMetadata{FullName: u.FullName}}
}

// ProfileUpdate - изменяемые поля профиля; nil значит "не менять"
type ProfileUpdate struct {
	FullName *string `json:"fullName"`
	Password *string `json:"password"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, email, password, fullName string) (*CurrentUser, error) {
	email = normalizeEmail(email)
	fullName = strings.TrimSpace(fullName)

	fields := map[string]string{}
	if err := s.validate.Var(email, "required,email"); err != nil {
		fields["email"] = "must be a valid email"
	}
	if len(password) < minPasswordLen {
		fields["password"] = fmt.Sprintf("must be at least %d characters", minPasswordLen)
	}
	if len(fullName) > 100 {
		fields["fullName"] = "must be at most 100 characters"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{Email: email, PasswordHash: hash, FullName: fullName, Role: models.RoleUser}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, db.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.logger(ctx).Info("user registered", zap.String("user_id", u.ID))
	return currentUser(u), nil
}

// Login проверяет пароль и выдает токен доступа
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := auth.VerifyPassword(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expires, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expires, User: currentUser(u)}, nil
}

// CurrentUser возвращает пользователя запроса
func (s *Service) CurrentUser(ctx context.Context, userID string) (*CurrentUser, error) {
	if userID == "" {
		return nil, ErrAuthenticationRequired
	}
	u, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return currentUser(u), nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*CurrentUser, error) {
	if userID == "" {
		return nil, ErrAuthenticationRequired
	}

	if upd.FullName != nil {
		name := strings.TrimSpace(*upd.FullName)
		if name == "" || len(name) > 100 {
			return nil, invalidField("fullName", "must be between 1 and 100 characters")
		}
		if err := s.store.UpdateUserProfile(ctx, userID, name); err != nil {
			return nil, s.userErr(err)
		}
	}

	if upd.Password != nil {
		if len(*upd.Password) < minPasswordLen {
			return nil, invalidField("password", fmt.Sprintf("must be at least %d characters", minPasswordLen))
		}
		hash, err := auth.HashPassword(*upd.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		if err := s.store.UpdateUserPassword(ctx, userID, hash); err != nil {
			return nil, s.userErr(err)
		}
	}

	return s.CurrentUser(ctx, userID)
}

// GrantAdmin выдает пользователю роль администратора
func (s *Service) GrantAdmin(ctx context.Context, email string) error {
	if err := s.store.SetUserRole(ctx, normalizeEmail(email), models.RoleAdmin); err != nil {
		return s.userErr(err)
	}
	s.logger(ctx).Info("admin role granted", zap.String("email", normalizeEmail(email)))
	return nil
}

func (s *Service) userErr(err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return ErrUserNotFound
	}
	return fmt.Errorf("update user: %w", err)
}
