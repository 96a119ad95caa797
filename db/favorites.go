package db

import (
	"context"
	"fmt"

	"estatehub/models"

	"github.com/jmoiron/sqlx"
)

// AddFavorite добавляет пару (пользователь, объявление). Повторная вставка ничего не меняет.
func (s *Storage) AddFavorite(ctx context.Context, userID string, propertyID int64) error {
	query := `
        INSERT INTO favorites (user_id, property_id)
        VALUES ($1, $2)
        ON CONFLICT (user_id, property_id) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, query, userID, propertyID); err != nil {
		return fmt.Errorf("add favorite: %w", mapError(err))
	}
	return nil
}

// RemoveFavorite удаляет пару и сообщает, была ли она.
func (s *Storage) RemoveFavorite(ctx context.Context, userID string, propertyID int64) (bool, error) {
	query := `DELETE FROM favorites WHERE user_id=$1 AND property_id=$2`
	res, err := s.db.ExecContext(ctx, query, userID, propertyID)
	if err != nil {
		return false, fmt.Errorf("remove favorite: %w", mapError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove favorite: %w", err)
	}
	return n > 0, nil
}

func (s *Storage) FavoriteExists(ctx context.Context, userID string, propertyID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id=$1 AND property_id=$2)`
	if err := s.db.GetContext(ctx, &exists, query, userID, propertyID); err != nil {
		return false, fmt.Errorf("favorite exists: %w", mapError(err))
	}
	return exists, nil
}

func (s *Storage) ListFavoriteProperties(ctx context.Context, userID string) ([]models.Property, error) {
	var ids []int64
	idsQuery := `SELECT property_id FROM favorites WHERE user_id=$1 ORDER BY created_at DESC`
	if err := s.db.SelectContext(ctx, &ids, idsQuery, userID); err != nil {
		return nil, fmt.Errorf("list favorite ids: %w", mapError(err))
	}

	properties := []models.Property{}
	if len(ids) == 0 {
		return properties, nil
	}

	query, args, err := sqlx.In(`SELECT `+propertyColumns+` FROM properties WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("build favorites query: %w", err)
	}
	query = s.db.Rebind(query) + ` ORDER BY created_at DESC`

	if err := s.db.SelectContext(ctx, &properties, query, args...); err != nil {
		return nil, fmt.Errorf("list favorite properties: %w", mapError(err))
	}
	return properties, nil
}
