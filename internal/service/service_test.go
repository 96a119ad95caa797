package service

import (
	"testing"
	"time"

	"estatehub/internal/auth"
	"estatehub/internal/metrics"
	"estatehub/internal/testutils"
	"estatehub/models"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fixture struct {
	svc     *Service
	store   *testutils.MemoryStore
	clock   *testutils.Clock
	logs    *observer.ObservedLogs
	metrics *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutils.NewMemoryStore()
	clock := testutils.NewClock(time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC))
	core, logs := observer.New(zapcore.DebugLevel)
	m := metrics.New()

	svc := New(store, auth.NewTokenIssuer(testSecret, time.Hour),
		WithLogger(zap.New(core)),
		WithMetrics(m),
		WithClock(clock.Now),
	)
	return &fixture{svc: svc, store: store, clock: clock, logs: logs, metrics: m}
}

func (f *fixture) seedTender(title string, start, closing time.Duration) int64 {
	now := f.clock.Now()
	return f.store.SeedTender(models.Tender{
		Title:       title,
		ReferenceNo: "REF-" + title,
		StartDate:   at(now, start),
		ClosingDate: at(now, closing),
		Status:      string(models.TenderUpcoming),
	})
}

func (f *fixture) ongoingTender(title string) int64 {
	return f.seedTender(title, -day, 29*day)
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}
