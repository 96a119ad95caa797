package db

import (
	"context"
	"fmt"

	"estatehub/models"
)

const userColumns = `id, email, password_hash, full_name, role, created_at, updated_at`

func (s *Storage) CreateUser(ctx context.Context, u *models.User) error {
	query := `
        INSERT INTO users (email, password_hash, full_name, role)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`
	err := s.db.QueryRowContext(ctx, query, u.Email, u.PasswordHash, u.FullName, u.Role).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", mapError(err))
	}
	return nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	if err := s.db.GetContext(ctx, u, query, email); err != nil {
		return nil, fmt.Errorf("get user by email: %w", mapError(err))
	}
	return u, nil
}

func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	u := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	if err := s.db.GetContext(ctx, u, query, id); err != nil {
		return nil, fmt.Errorf("get user: %w", mapError(err))
	}
	return u, nil
}

func (s *Storage) UpdateUserProfile(ctx context.Context, id, fullName string) error {
	query := `UPDATE users SET full_name=$1, updated_at=NOW() WHERE id=$2`
	res, err := s.db.ExecContext(ctx, query, fullName, id)
	if err != nil {
		return fmt.Errorf("update user: %w", mapError(err))
	}
	return affected(res)
}

func (s *Storage) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE users SET password_hash=$1, updated_at=NOW() WHERE id=$2`
	res, err := s.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", mapError(err))
	}
	return affected(res)
}

func (s *Storage) SetUserRole(ctx context.Context, email, role string) error {
	query := `UPDATE users SET role=$1, updated_at=NOW() WHERE email=$2`
	res, err := s.db.ExecContext(ctx, query, role, email)
	if err != nil {
		return fmt.Errorf("set role: %w", mapError(err))
	}
	return affected(res)
}
