package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"estatehub/db"
	"estatehub/models"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Типы уведомлений о предложениях
const (
	NotificationBidSubmitted = "Bid Submitted"
	NotificationBidUpdated   = "Bid Updated"
)

var inrPrinter = message.NewPrinter(language.MustParse("en-IN"))

// formatINR форматирует сумму в рупиях с индийской группировкой разрядов
func formatINR(amount float64) string {
	return inrPrinter.Sprintf("₹%.2f", amount)
}

type BidResult struct {
	Bid       *models.Bid `json:"bid"`
	WasUpdate bool        `json:"wasUpdate"`
}

// SubmitBid создает предложение пользователя по тендеру или обновляет существующее.
// Уведомление пишется после успешной записи и на результат не влияет.
func (s *Service) SubmitBid(ctx context.Context, tenderID int64, userID string, amount float64) (*BidResult, error) {
	if userID == "" {
		return nil, ErrAuthenticationRequired
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return nil, ErrInvalidBidAmount
	}
	amount = math.Round(amount*100) / 100
	if amount <= 0 {
		return nil, ErrInvalidBidAmount
	}

	tender, err := s.store.GetTender(ctx, tenderID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrTenderNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrBidSubmissionFailed, err)
	}

	now := s.now()
	status, err := DeriveStatus(models.ParseTenderStatus(tender.Status), tender.StartDate, tender.ClosingDate, now)
	if err != nil {
		return nil, err
	}
	if status != models.TenderOngoing {
		return nil, fmt.Errorf("%w: tender is %s", ErrTenderNotOpen, status)
	}

	bid, wasUpdate, err := s.upsertBid(ctx, tenderID, userID, amount, now)
	if err != nil {
		s.logger(ctx).Error("bid submission failed",
			zap.Int64("tender_id", tenderID), zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrBidSubmissionFailed, err)
	}
	s.metrics.RecordBid(wasUpdate)

	s.notifyBidSubmitted(ctx, tender, bid, wasUpdate)
	return &BidResult{Bid: bid, WasUpdate: wasUpdate}, nil
}

// upsertBid ищет предложение по (тендер, пользователь), обновляет его или вставляет новое.
// Проигранная гонка на вставке превращается в обновление строки победителя.
func (s *Service) upsertBid(ctx context.Context, tenderID int64, userID string, amount float64, now time.Time) (*models.Bid, bool, error) {
	existing, err := s.store.FindBid(ctx, tenderID, userID)
	switch {
	case err == nil:
		return s.rewriteBid(ctx, existing, amount, now)
	case !errors.Is(err, db.ErrNotFound):
		return nil, false, err
	}

	bid := &models.Bid{
		TenderID:  tenderID,
		UserID:    userID,
		Amount:    amount,
		Status:    models.BidSubmitted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = s.store.CreateBid(ctx, bid)
	if err == nil {
		return bid, false, nil
	}
	if !errors.Is(err, db.ErrConflict) {
		return nil, false, err
	}

	existing, err = s.store.FindBid(ctx, tenderID, userID)
	if err != nil {
		return nil, false, err
	}
	return s.rewriteBid(ctx, existing, amount, now)
}

func (s *Service) rewriteBid(ctx context.Context, b *models.Bid, amount float64, now time.Time) (*models.Bid, bool, error) {
	b.Amount = amount
	b.Status = models.BidSubmitted
	b.UpdatedAt = now
	if err := s.store.UpdateBidAmount(ctx, b); err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *Service) notifyBidSubmitted(ctx context.Context, tender *models.Tender, bid *models.Bid, wasUpdate bool) {
	kind, verb := NotificationBidSubmitted, "submitted"
	if wasUpdate {
		kind, verb = NotificationBidUpdated, "updated"
	}
	msg := fmt.Sprintf("Your bid for %s has been %s to %s", tender.Title, verb, formatINR(bid.Amount))
	s.notify(ctx, bid, kind, msg)
}

// notify пишет уведомление владельцу предложения. Ошибка только логируется.
func (s *Service) notify(ctx context.Context, bid *models.Bid, kind, msg string) {
	tenderID, bidID := bid.TenderID, bid.ID
	n := &models.Notification{
		UserID:    bid.UserID,
		Type:      kind,
		Message:   msg,
		TenderID:  &tenderID,
		BidID:     &bidID,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		s.metrics.RecordNotificationFailure()
		s.logger(ctx).Warn("failed to write notification",
			zap.String("type", kind),
			zap.Int64("bid_id", bid.ID),
			zap.String("user_id", bid.UserID),
			zap.Error(err))
	}
}

// GetMyBid возвращает предложение пользователя по тендеру или nil
func (s *Service) GetMyBid(ctx context.Context, tenderID int64, userID string) (*models.Bid, error) {
	if userID == "" {
		return nil, ErrAuthenticationRequired
	}
	bid, err := s.store.FindBid(ctx, tenderID, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find bid: %w", err)
	}
	return bid, nil
}

func (s *Service) ListMyBids(ctx context.Context, userID string) ([]models.Bid, error) {
	if userID == "" {
		return nil, ErrAuthenticationRequired
	}
	bids, err := s.store.ListUserBids(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bids: %w", err)
	}
	return bids, nil
}

// UpdateBidStatus меняет статус рассмотрения предложения и уведомляет участника
func (s *Service) UpdateBidStatus(ctx context.Context, bidID int64, status models.BidStatus) (*models.Bid, error) {
	switch status {
	case models.BidUnderReview, models.BidAccepted, models.BidRejected:
	default:
		return nil, invalidField("status", "must be one of: under_review, accepted, rejected")
	}

	bid, err := s.store.GetBid(ctx, bidID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrBidNotFound
		}
		return nil, fmt.Errorf("get bid: %w", err)
	}

	now := s.now()
	if err := s.store.UpdateBidStatus(ctx, bidID, status, now); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrBidNotFound
		}
		return nil, fmt.Errorf("update bid status: %w", err)
	}
	bid.Status = status
	bid.UpdatedAt = now

	title := fmt.Sprintf("tender #%d", bid.TenderID)
	if t, err := s.store.GetTender(ctx, bid.TenderID); err == nil {
		title = t.Title
	}
	label := strings.ReplaceAll(string(status), "_", " ")
	s.notify(ctx, bid, "Bid "+strings.ToUpper(label[:1])+label[1:],
		fmt.Sprintf("Your bid for %s is now %s", title, label))
	return bid, nil
}
