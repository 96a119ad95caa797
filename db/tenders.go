package db

import (
	"context"
	"fmt"

	"estatehub/models"
)

const tenderColumns = `id, title, reference_no, start_date, closing_date, opening_date, description,
            category, estimated_cost, status, documents, eligibility_criteria, created_at`

func (s *Storage) CreateTender(ctx context.Context, t *models.Tender) error {
	query := `
        INSERT INTO tenders
            (title, reference_no, start_date, closing_date, opening_date, description,
             category, estimated_cost, status, documents, eligibility_criteria)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id, created_at`
	err := s.db.QueryRowContext(ctx, query,
		t.Title, t.ReferenceNo, t.StartDate, t.ClosingDate, t.OpeningDate, t.Description,
		t.Category, t.EstimatedCost, t.Status, t.Documents, t.EligibilityCriteria).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("create tender: %w", mapError(err))
	}
	return nil
}

func (s *Storage) GetTender(ctx context.Context, id int64) (*models.Tender, error) {
	t := &models.Tender{}
	query := `SELECT ` + tenderColumns + ` FROM tenders WHERE id=$1`
	if err := s.db.GetContext(ctx, t, query, id); err != nil {
		return nil, fmt.Errorf("get tender: %w", mapError(err))
	}
	return t, nil
}

func (s *Storage) ListTenders(ctx context.Context) ([]models.Tender, error) {
	query := `SELECT ` + tenderColumns + ` FROM tenders ORDER BY created_at DESC`
	tenders := []models.Tender{}
	if err := s.db.SelectContext(ctx, &tenders, query); err != nil {
		return nil, fmt.Errorf("list tenders: %w", mapError(err))
	}
	return tenders, nil
}

func (s *Storage) UpdateTenderStatus(ctx context.Context, id int64, status models.TenderStatus) error {
	query := `UPDATE tenders SET status=$1 WHERE id=$2`
	res, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update tender status: %w", mapError(err))
	}
	return affected(res)
}
