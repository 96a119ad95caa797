package service

import (
	"time"

	"estatehub/models"
)

// DeriveStatus вычисляет фазу тендера по датам и текущему моменту.
// Сохраненный статус учитывается только если это awarded.
func DeriveStatus(stored models.TenderStatus, start, closing *time.Time, now time.Time) (models.TenderStatus, error) {
	if stored == models.TenderAwarded {
		return models.TenderAwarded, nil
	}
	if start == nil || closing == nil || start.IsZero() || closing.IsZero() {
		return "", ErrInvalidTenderDate
	}
	if closing.Before(*start) {
		return "", ErrInvalidTenderDate
	}

	switch {
	case now.Before(*start):
		return models.TenderUpcoming, nil
	case now.Before(*closing):
		return models.TenderOngoing, nil
	default:
		return models.TenderClosed, nil
	}
}

// Метки обратного отсчета для карточки тендера
const (
	CountdownStartsIn = "starts_in"
	CountdownClosesIn = "closes_in"
	CountdownOpensIn  = "opens_in"
)

type Countdown struct {
	Label string    `json:"label"`
	At    time.Time `json:"at"`
}

// TenderView - тендер с вычисленным статусом
type TenderView struct {
	models.Tender
	Status    models.TenderStatus `json:"status"`
	Countdown *Countdown          `json:"countdown,omitempty"`
	MyBid     *models.Bid         `json:"myBid,omitempty"`
}

func countdownFor(status models.TenderStatus, t *models.Tender) *Countdown {
	switch status {
	case models.TenderUpcoming:
		return &Countdown{Label: CountdownStartsIn, At: *t.StartDate}
	case models.TenderOngoing:
		return &Countdown{Label: CountdownClosesIn, At: *t.ClosingDate}
	case models.TenderClosed:
		if t.OpeningDate != nil {
			return &Countdown{Label: CountdownOpensIn, At: *t.OpeningDate}
		}
	}
	return nil
}

// view строит представление тендера на момент now
func view(t models.Tender, now time.Time) (*TenderView, error) {
	status, err := DeriveStatus(models.ParseTenderStatus(t.Status), t.StartDate, t.ClosingDate, now)
	if err != nil {
		return nil, err
	}
	return &TenderView{Tender: t, Status: status, Countdown: countdownFor(status, &t)}, nil
}
