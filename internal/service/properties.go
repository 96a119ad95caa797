package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"estatehub/db"
	"estatehub/models"

	"go.uber.org/zap"
)

// CreateProperty размещает объявление от имени пользователя
func (s *Service) CreateProperty(ctx context.Context, userID string, in models.PropertyInput) (*models.Property, error) {
	if userID == "" {
		return nil, ErrAuthenticationRequired
	}

	in.Location = strings.TrimSpace(in.Location)
	in.Contact = strings.TrimSpace(in.Contact)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.Amenities = dedupeAmenities(in.Amenities)

	if err := s.validateStruct(in); err != nil {
		return nil, err
	}

	// для коммерческой недвижимости спальни и санузлы не указываются
	if in.Category == models.CategoryCommercial {
		in.BHK, in.Baths = nil, nil
	} else {
		fields := map[string]string{}
		if in.BHK == nil {
			fields["bhk"] = "is required"
		}
		if in.Baths == nil {
			fields["baths"] = "is required"
		}
		if len(fields) > 0 {
			return nil, &ValidationError{Fields: fields}
		}
	}

	p := &models.Property{
		Location:    in.Location,
		Price:       in.Price,
		Area:        in.Area,
		Category:    in.Category,
		Contact:     in.Contact,
		ImageURL:    in.ImageURL,
		Description: in.Description,
		Amenities:   in.Amenities,
		BHK:         in.BHK,
		Baths:       in.Baths,
		CreatedBy:   userID,
	}
	if err := s.store.CreateProperty(ctx, p); err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}
	s.logger(ctx).Info("property listed", zap.Int64("property_id", p.ID), zap.String("category", string(p.Category)))
	return p, nil
}

// dedupeAmenities убирает пустые значения и повторы без учета регистра, сохраняя порядок
func dedupeAmenities(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, a := range in {
		a = strings.TrimSpace(a)
		key := strings.ToLower(a)
		if a == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	return out
}

// ListProperties возвращает объявления с фильтрами и сортировкой
func (s *Service) ListProperties(ctx context.Context, f db.PropertyFilter) ([]models.Property, error) {
	if f.Category != "" && !models.ValidPropertyCategory(models.PropertyCategory(f.Category)) {
		return nil, invalidField("category", "must be one of: Residential, Commercial, FarmHouse/Villas")
	}
	if f.Sort != "" && !db.ValidPropertySort(f.Sort) {
		return nil, invalidField("sort", "must be one of: newest, priceHighToLow, priceLowToHigh, locationAToZ, locationZToA")
	}
	f.Location = strings.TrimSpace(f.Location)

	props, err := s.store.ListProperties(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	return props, nil
}

func (s *Service) ListMyProperties(ctx context.Context, userID string) ([]models.Property, error) {
	if userID == "" {
		return nil, ErrAuthenticationRequired
	}
	props, err := s.store.ListUserProperties(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user properties: %w", err)
	}
	return props, nil
}

func (s *Service) GetProperty(ctx context.Context, id int64) (*models.Property, error) {
	p, err := s.store.GetProperty(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("get property: %w", err)
	}
	return p, nil
}

// DeleteProperty безвозвратно удаляет объявление. Доступно только владельцу.
func (s *Service) DeleteProperty(ctx context.Context, userID string, id int64) error {
	if userID == "" {
		return ErrAuthenticationRequired
	}
	p, err := s.GetProperty(ctx, id)
	if err != nil {
		return err
	}
	if p.CreatedBy != userID {
		return ErrNotOwner
	}

	if err := s.store.DeleteProperty(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrPropertyNotFound
		}
		return fmt.Errorf("delete property: %w", err)
	}
	s.logger(ctx).Info("property delisted", zap.Int64("property_id", id))
	return nil
}
