package db

import (
	"context"
	"fmt"
	"time"

	"estatehub/models"
)

const bidColumns = `id, tender_id, user_id, amount, status, created_at, updated_at`

// FindBid ищет предложение пользователя по тендеру
func (s *Storage) FindBid(ctx context.Context, tenderID int64, userID string) (*models.Bid, error) {
	b := &models.Bid{}
	query := `SELECT ` + bidColumns + ` FROM bids WHERE tender_id=$1 AND user_id=$2`
	if err := s.db.GetContext(ctx, b, query, tenderID, userID); err != nil {
		return nil, fmt.Errorf("find bid: %w", mapError(err))
	}
	return b, nil
}

// CreateBid вставляет новое предложение. Если пара (тендер, пользователь) уже занята,
// возвращается ErrConflict.
func (s *Storage) CreateBid(ctx context.Context, b *models.Bid) error {
	query := `
        INSERT INTO bids (tender_id, user_id, amount, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`
	err := s.db.QueryRowContext(ctx, query,
		b.TenderID, b.UserID, b.Amount, b.Status, b.CreatedAt, b.UpdatedAt).
		Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("create bid: %w", mapError(err))
	}
	return nil
}

// UpdateBidAmount перезаписывает сумму, статус и время обновления
func (s *Storage) UpdateBidAmount(ctx context.Context, b *models.Bid) error {
	query := `
        UPDATE bids
        SET amount=$1, status=$2, updated_at=$3
        WHERE id=$4
        RETURNING created_at`
	err := s.db.QueryRowContext(ctx, query, b.Amount, b.Status, b.UpdatedAt, b.ID).
		Scan(&b.CreatedAt)
	if err != nil {
		return fmt.Errorf("update bid: %w", mapError(err))
	}
	return nil
}

func (s *Storage) GetBid(ctx context.Context, id int64) (*models.Bid, error) {
	b := &models.Bid{}
	query := `SELECT ` + bidColumns + ` FROM bids WHERE id=$1`
	if err := s.db.GetContext(ctx, b, query, id); err != nil {
		return nil, fmt.Errorf("get bid: %w", mapError(err))
	}
	return b, nil
}

func (s *Storage) ListUserBids(ctx context.Context, userID string) ([]models.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids
        WHERE user_id = $1
        ORDER BY created_at DESC`
	bids := []models.Bid{}
	if err := s.db.SelectContext(ctx, &bids, query, userID); err != nil {
		return nil, fmt.Errorf("list user bids: %w", mapError(err))
	}
	return bids, nil
}

func (s *Storage) UpdateBidStatus(ctx context.Context, id int64, status models.BidStatus, updatedAt time.Time) error {
	query := `UPDATE bids SET status=$1, updated_at=$2 WHERE id=$3`
	res, err := s.db.ExecContext(ctx, query, status, updatedAt, id)
	if err != nil {
		return fmt.Errorf("update bid status: %w", mapError(err))
	}
	return affected(res)
}
