package service

import (
	"context"
	"errors"
	"fmt"

	"estatehub/db"
	"estatehub/models"

	"go.uber.org/zap"
)

// ListTenders пересчитывает статусы на каждый запрос. Тендеры с некорректными
// датами пропускаются. statusFilter может быть пустым.
func (s *Service) ListTenders(ctx context.Context, statusFilter string) ([]TenderView, error) {
	var filter models.TenderStatus
	if statusFilter != "" {
		filter = models.ParseTenderStatus(statusFilter)
		if filter == "" {
			return nil, invalidField("status", "must be one of: upcoming, ongoing, closed, awarded")
		}
	}

	tenders, err := s.store.ListTenders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tenders: %w", err)
	}

	now := s.now()
	views := make([]TenderView, 0, len(tenders))
	for _, t := range tenders {
		v, err := view(t, now)
		if err != nil {
			s.logger(ctx).Warn("skipping tender with invalid dates", zap.Int64("tender_id", t.ID))
			continue
		}
		if filter != "" && v.Status != filter {
			continue
		}
		views = append(views, *v)
	}
	return views, nil
}

// GetTender возвращает тендер; для аутентифицированного пользователя добавляет его предложение
func (s *Service) GetTender(ctx context.Context, tenderID int64, userID string) (*TenderView, error) {
	t, err := s.store.GetTender(ctx, tenderID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrTenderNotFound
		}
		return nil, fmt.Errorf("get tender: %w", err)
	}

	v, err := view(*t, s.now())
	if err != nil {
		s.logger(ctx).Warn("tender has invalid dates", zap.Int64("tender_id", t.ID))
		return nil, err
	}

	if userID != "" {
		bid, err := s.GetMyBid(ctx, tenderID, userID)
		if err != nil {
			return nil, err
		}
		v.MyBid = bid
	}
	return v, nil
}

// CreateTender сохраняет новый тендер
func (s *Service) CreateTender(ctx context.Context, t *models.Tender) (*TenderView, error) {
	if err := s.validateStruct(t); err != nil {
		return nil, err
	}
	if t.ClosingDate.Before(*t.StartDate) {
		return nil, invalidField("closingDate", "must not be before startDate")
	}
	if t.OpeningDate != nil && t.OpeningDate.Before(*t.ClosingDate) {
		return nil, invalidField("openingDate", "must not be before closingDate")
	}

	now := s.now()
	status, err := DeriveStatus("", t.StartDate, t.ClosingDate, now)
	if err != nil {
		return nil, err
	}
	t.Status = string(status)
	if t.Documents == nil {
		t.Documents = []string{}
	}
	if t.EligibilityCriteria == nil {
		t.EligibilityCriteria = []string{}
	}

	if err := s.store.CreateTender(ctx, t); err != nil {
		return nil, fmt.Errorf("create tender: %w", err)
	}
	s.logger(ctx).Info("tender created", zap.Int64("tender_id", t.ID), zap.String("reference_no", t.ReferenceNo))
	return view(*t, now)
}

// AwardTender переводит тендер в конечный статус awarded
func (s *Service) AwardTender(ctx context.Context, tenderID int64) (*TenderView, error) {
	t, err := s.store.GetTender(ctx, tenderID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrTenderNotFound
		}
		return nil, fmt.Errorf("get tender: %w", err)
	}

	if err := s.store.UpdateTenderStatus(ctx, tenderID, models.TenderAwarded); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrTenderNotFound
		}
		return nil, fmt.Errorf("award tender: %w", err)
	}
	t.Status = string(models.TenderAwarded)
	s.logger(ctx).Info("tender awarded", zap.Int64("tender_id", tenderID))
	return view(*t, s.now())
}
