package db

import (
	"context"
	"fmt"
	"strings"

	"estatehub/models"
)

const propertyColumns = `id, location, price, area, category, contact, image_url, description,
            amenities, bhk, baths, created_by, created_at`

// Допустимые варианты сортировки списка объявлений
var propertySortOrders = map[string]string{
	"newest":         "created_at DESC",
	"priceHighToLow": "price DESC, id DESC",
	"priceLowToHigh": "price ASC, id ASC",
	"locationAToZ":   "location ASC, id ASC",
	"locationZToA":   "location DESC, id DESC",
}

func ValidPropertySort(sort string) bool {
	_, ok := propertySortOrders[sort]
	return ok
}

// PropertyFilter - фильтры и пагинация для списка объявлений
type PropertyFilter struct {
	Category string
	Location string
	Sort     string
	Limit    int
	Offset   int
}

func (s *Storage) CreateProperty(ctx context.Context, p *models.Property) error {
	query := `
        INSERT INTO properties
            (location, price, area, category, contact, image_url, description, amenities, bhk, baths, created_by)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id, created_at`
	err := s.db.QueryRowContext(ctx, query,
		p.Location, p.Price, p.Area, p.Category, p.Contact, p.ImageURL, p.Description,
		p.Amenities, p.BHK, p.Baths, p.CreatedBy).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create property: %w", mapError(err))
	}
	return nil
}

func (s *Storage) GetProperty(ctx context.Context, id int64) (*models.Property, error) {
	p := &models.Property{}
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id=$1`
	if err := s.db.GetContext(ctx, p, query, id); err != nil {
		return nil, fmt.Errorf("get property: %w", mapError(err))
	}
	return p, nil
}

func (s *Storage) ListProperties(ctx context.Context, f PropertyFilter) ([]models.Property, error) {
	baseQuery := `SELECT ` + propertyColumns + ` FROM properties`
	var (
		conds []string
		args  []interface{}
	)

	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Location != "" {
		args = append(args, "%"+f.Location+"%")
		conds = append(conds, fmt.Sprintf("location ILIKE $%d", len(args)))
	}

	query := baseQuery
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	order, ok := propertySortOrders[f.Sort]
	if !ok {
		order = propertySortOrders["newest"]
	}
	query += " ORDER BY " + order
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)

	properties := []models.Property{}
	if err := s.db.SelectContext(ctx, &properties, query, args...); err != nil {
		return nil, fmt.Errorf("list properties: %w", mapError(err))
	}
	return properties, nil
}

func (s *Storage) ListUserProperties(ctx context.Context, userID string) ([]models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties
        WHERE created_by = $1
        ORDER BY created_at DESC`
	properties := []models.Property{}
	if err := s.db.SelectContext(ctx, &properties, query, userID); err != nil {
		return nil, fmt.Errorf("list user properties: %w", mapError(err))
	}
	return properties, nil
}

func (s *Storage) DeleteProperty(ctx context.Context, id int64) error {
	query := `DELETE FROM properties WHERE id=$1`
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete property: %w", mapError(err))
	}
	return affected(res)
}
