package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"estatehub/models"

	"github.com/stretchr/testify/require"
)

func TestSubmitBid_CreateThenUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tid := f.ongoingTender("Road Works")

	first, err := f.svc.SubmitBid(ctx, tid, "u1", 100)
	require.NoError(t, err)
	require.False(t, first.WasUpdate)
	require.Equal(t, models.BidSubmitted, first.Bid.Status)
	require.Equal(t, f.clock.Now(), first.Bid.CreatedAt)

	f.clock.Advance(day)
	second, err := f.svc.SubmitBid(ctx, tid, "u1", 150)
	require.NoError(t, err)
	require.True(t, second.WasUpdate)
	require.Equal(t, first.Bid.ID, second.Bid.ID)

	bids := f.store.Bids()
	require.Len(t, bids, 1)
	require.Equal(t, 150.0, bids[0].Amount)
	require.Equal(t, f.clock.Now(), bids[0].UpdatedAt)
	require.True(t, bids[0].UpdatedAt.After(bids[0].CreatedAt))

	require.Equal(t, 1.0, counterValue(t, f.metrics.BidsSubmitted.WithLabelValues("created")))
	require.Equal(t, 1.0, counterValue(t, f.metrics.BidsSubmitted.WithLabelValues("updated")))
}

func TestSubmitBid_ResubmitResetsStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tid := f.ongoingTender("Bridge")

	res, err := f.svc.SubmitBid(ctx, tid, "u1", 100)
	require.NoError(t, err)
	_, err = f.svc.UpdateBidStatus(ctx, res.Bid.ID, models.BidUnderReview)
	require.NoError(t, err)

	res, err = f.svc.SubmitBid(ctx, tid, "u1", 120)
	require.NoError(t, err)
	require.Equal(t, models.BidSubmitted, res.Bid.Status)
}

func TestSubmitBid_InvalidAmount(t *testing.T) {
	f := newFixture(t)
	tid := f.ongoingTender("Road Works")

	for _, amount := range []float64{-5, math.NaN(), math.Inf(1), math.Inf(-1), 0, 0.001} {
		_, err := f.svc.SubmitBid(context.Background(), tid, "u1", amount)
		require.ErrorIs(t, err, ErrInvalidBidAmount, "amount %v", amount)
	}
	require.Empty(t, f.store.Bids())
	require.Empty(t, f.store.Notifications())
}

func TestSubmitBid_Anonymous(t *testing.T) {
	f := newFixture(t)
	tid := f.ongoingTender("Road Works")

	_, err := f.svc.SubmitBid(context.Background(), tid, "", 100)
	require.ErrorIs(t, err, ErrAuthenticationRequired)
	require.Empty(t, f.store.Bids())
}

func TestSubmitBid_TenderNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SubmitBid(context.Background(), 404, "u1", 100)
	require.ErrorIs(t, err, ErrTenderNotFound)
}

func TestSubmitBid_OnlyOngoingTendersAcceptBids(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	upcoming := f.seedTender("Upcoming", day, 30*day)
	closed := f.seedTender("Closed", -31*day, -day)
	awarded := f.store.SeedTender(models.Tender{Title: "Awarded", Status: string(models.TenderAwarded)})

	for _, tid := range []int64{upcoming, closed, awarded} {
		_, err := f.svc.SubmitBid(ctx, tid, "u1", 100)
		require.ErrorIs(t, err, ErrTenderNotOpen)
	}
	require.Empty(t, f.store.Bids())
}

func TestSubmitBid_MissingDates(t *testing.T) {
	f := newFixture(t)
	tid := f.store.SeedTender(models.Tender{Title: "Broken", StartDate: at(f.clock.Now(), -day)})

	_, err := f.svc.SubmitBid(context.Background(), tid, "u1", 100)
	require.ErrorIs(t, err, ErrInvalidTenderDate)
	require.Empty(t, f.store.Bids())
}

func TestSubmitBid_LookupFailure(t *testing.T) {
	f := newFixture(t)
	tid := f.ongoingTender("Road Works")
	f.store.FindBidErr = errors.New("connection reset")

	_, err := f.svc.SubmitBid(context.Background(), tid, "u1", 100)
	require.ErrorIs(t, err, ErrBidSubmissionFailed)
	require.Contains(t, err.Error(), "connection reset")
	require.Empty(t, f.store.Bids())
	require.Empty(t, f.store.Notifications())
}

func TestSubmitBid_InsertFailure(t *testing.T) {
	f := newFixture(t)
	tid := f.ongoingTender("Road Works")
	f.store.CreateBidErr = errors.New("disk full")

	_, err := f.svc.SubmitBid(context.Background(), tid, "u1", 100)
	require.ErrorIs(t, err, ErrBidSubmissionFailed)
	require.Empty(t, f.store.Notifications())
}

func TestSubmitBid_LostInsertRaceBecomesUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tid := f.ongoingTender("Road Works")

	// конкурирующий запрос успевает вставить строку между поиском и вставкой
	f.store.BeforeCreateBid = func(b *models.Bid) {
		f.store.BeforeCreateBid = nil
		require.NoError(t, f.store.CreateBid(ctx, &models.Bid{
			TenderID: b.TenderID, UserID: b.UserID, Amount: 90, Status: models.BidSubmitted,
		}))
	}

	res, err := f.svc.SubmitBid(ctx, tid, "u1", 110)
	require.NoError(t, err)
	require.True(t, res.WasUpdate)

	bids := f.store.Bids()
	require.Len(t, bids, 1)
	require.Equal(t, 110.0, bids[0].Amount)
}

func TestSubmitBid_ConcurrentSubmissionsKeepOneRow(t *testing.T) {
	f := newFixture(t)
	tid := f.ongoingTender("Road Works")

	const workers = 32
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		creates int
	)
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := f.svc.SubmitBid(context.Background(), tid, "u1", float64(100+i))
			if err != nil {
				errs <- err
				return
			}
			if !res.WasUpdate {
				mu.Lock()
				creates++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.Len(t, f.store.Bids(), 1)
	require.Equal(t, 1, creates)
	require.Len(t, f.store.Notifications(), workers)
}

func TestSubmitBid_NotificationMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tid := f.ongoingTender("Road Works")

	res, err := f.svc.SubmitBid(ctx, tid, "u1", 150)
	require.NoError(t, err)

	list := f.store.Notifications()
	require.Len(t, list, 1)
	n := list[0]
	require.Equal(t, "u1", n.UserID)
	require.Equal(t, NotificationBidSubmitted, n.Type)
	require.True(t, strings.HasPrefix(n.Message, "Your bid for Road Works has been submitted to ₹"))
	require.Contains(t, n.Message, "150.00")
	require.Equal(t, tid, *n.TenderID)
	require.Equal(t, res.Bid.ID, *n.BidID)
	require.False(t, n.Read)

	_, err = f.svc.SubmitBid(ctx, tid, "u1", 175.5)
	require.NoError(t, err)

	types := map[string]string{}
	for _, n := range f.store.Notifications() {
		types[n.Type] = n.Message
	}
	require.Contains(t, types[NotificationBidUpdated], "has been updated to ₹")
	require.Contains(t, types[NotificationBidUpdated], "175.50")
}

func TestSubmitBid_NotificationFailureIsIsolated(t *testing.T) {
	f := newFixture(t)
	tid := f.ongoingTender("Road Works")
	f.store.CreateNotificationErr = errors.New("notifications table locked")

	res, err := f.svc.SubmitBid(context.Background(), tid, "u1", 100)
	require.NoError(t, err)
	require.NotNil(t, res.Bid)
	require.NotZero(t, res.Bid.ID)

	require.Len(t, f.store.Bids(), 1)
	require.Empty(t, f.store.Notifications())

	entries := f.logs.FilterMessage("failed to write notification").All()
	require.Len(t, entries, 1)
	require.Equal(t, "notifications table locked", entries[0].ContextMap()["error"])
	require.Equal(t, 1.0, counterValue(t, f.metrics.NotificationFailures))
}

func TestFormatINR(t *testing.T) {
	got := formatINR(150)
	require.True(t, strings.HasPrefix(got, "₹"))
	require.True(t, strings.HasSuffix(got, "150.00"))
}

func TestGetMyBid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tid := f.ongoingTender("Road Works")

	bid, err := f.svc.GetMyBid(ctx, tid, "u1")
	require.NoError(t, err)
	require.Nil(t, bid)

	_, err = f.svc.SubmitBid(ctx, tid, "u1", 100)
	require.NoError(t, err)

	bid, err = f.svc.GetMyBid(ctx, tid, "u1")
	require.NoError(t, err)
	require.Equal(t, 100.0, bid.Amount)

	_, err = f.svc.GetMyBid(ctx, tid, "")
	require.ErrorIs(t, err, ErrAuthenticationRequired)

	mine, err := f.svc.ListMyBids(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
}

func TestUpdateBidStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tid := f.ongoingTender("Road Works")

	res, err := f.svc.SubmitBid(ctx, tid, "u1", 100)
	require.NoError(t, err)

	bid, err := f.svc.UpdateBidStatus(ctx, res.Bid.ID, models.BidAccepted)
	require.NoError(t, err)
	require.Equal(t, models.BidAccepted, bid.Status)
	require.Equal(t, models.BidAccepted, f.store.Bids()[0].Status)

	var found bool
	for _, n := range f.store.Notifications() {
		if n.Type == "Bid Accepted" {
			found = true
			require.Equal(t, "Your bid for Road Works is now accepted", n.Message)
		}
	}
	require.True(t, found)

	_, err = f.svc.UpdateBidStatus(ctx, res.Bid.ID, models.BidSubmitted)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = f.svc.UpdateBidStatus(ctx, 999, models.BidRejected)
	require.ErrorIs(t, err, ErrBidNotFound)
}
