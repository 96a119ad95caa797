package service

import (
	"context"
	"errors"
	"fmt"

	"estatehub/db"
	"estatehub/models"
)

// ToggleFavorite снимает отметку, если она была, иначе ставит.
// Возвращает, отмечено ли объявление после вызова.
func (s *Service) ToggleFavorite(ctx context.Context, userID string, propertyID int64) (bool, error) {
	if userID == "" {
		return false, ErrAuthenticationRequired
	}

	removed, err := s.store.RemoveFavorite(ctx, userID, propertyID)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrFavoriteToggleFailed, err)
	}
	if removed {
		s.metrics.RecordFavoriteToggle(false)
		return false, nil
	}

	if err := s.store.AddFavorite(ctx, userID, propertyID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return false, ErrPropertyNotFound
		}
		return false, fmt.Errorf("%w: %w", ErrFavoriteToggleFailed, err)
	}
	s.metrics.RecordFavoriteToggle(true)
	return true, nil
}

// IsFavorite - единственная проверка наличия отметки; анонимный пользователь получает false
func (s *Service) IsFavorite(ctx context.Context, userID string, propertyID int64) (bool, error) {
	if userID == "" {
		return false, nil
	}
	ok, err := s.store.FavoriteExists(ctx, userID, propertyID)
	if err != nil {
		return false, fmt.Errorf("favorite exists: %w", err)
	}
	return ok, nil
}

func (s *Service) ListFavorites(ctx context.Context, userID string) ([]models.Property, error) {
	if userID == "" {
		return nil, ErrAuthenticationRequired
	}
	props, err := s.store.ListFavoriteProperties(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return props, nil
}
