package db

import (
	"context"
	"fmt"

	"estatehub/models"
)

const notificationColumns = `id, user_id, type, message, tender_id, bid_id, read, created_at`

func (s *Storage) CreateNotification(ctx context.Context, n *models.Notification) error {
	query := `
        INSERT INTO notifications (user_id, type, message, tender_id, bid_id, read, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`
	err := s.db.QueryRowContext(ctx, query,
		n.UserID, n.Type, n.Message, n.TenderID, n.BidID, n.Read, n.CreatedAt).
		Scan(&n.ID)
	if err != nil {
		return fmt.Errorf("create notification: %w", mapError(err))
	}
	return nil
}

func (s *Storage) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications
        WHERE user_id = $1
        ORDER BY created_at DESC`
	notifications := []models.Notification{}
	if err := s.db.SelectContext(ctx, &notifications, query, userID); err != nil {
		return nil, fmt.Errorf("list notifications: %w", mapError(err))
	}
	return notifications, nil
}

func (s *Storage) CountUnreadNotifications(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(1) FROM notifications WHERE user_id=$1 AND read = false`
	if err := s.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", mapError(err))
	}
	return count, nil
}

// MarkNotificationRead помечает прочитанным только уведомление самого пользователя
func (s *Storage) MarkNotificationRead(ctx context.Context, id int64, userID string) error {
	query := `UPDATE notifications SET read = true WHERE id=$1 AND user_id=$2`
	res, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", mapError(err))
	}
	return affected(res)
}

func (s *Storage) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	query := `UPDATE notifications SET read = true WHERE user_id=$1 AND read = false`
	if _, err := s.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("mark all notifications read: %w", mapError(err))
	}
	return nil
}
