package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/arbscan/internal/domain"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func storedOpportunity(conditionID string, netPct float64) domain.Opportunity {
	now := time.Now().UTC()
	return domain.Opportunity{
		ID: "rec-" + conditionID,
		Market: domain.Market{
			ConditionID: conditionID,
			Question:    "q-" + conditionID,
			Category:    "Economics",
			EndDate:     now.AddDate(0, 1, 0),
		},
		Status:             domain.StatusActive,
		Pricing:            domain.PricingResult{Direction: domain.DirectionBuyBoth},
		Risk:               domain.RiskAssessment{Score: 4, Level: domain.RiskMedium},
		GrossProfitPercent: netPct + 1.2,
		NetProfitPercent:   netPct,
		ConfidenceScore:    0.8,
		MinLiquidity:       2000,
		RecommendedSize:    200,
		MaxSize:            1000,
		DiscoveredAt:       now,
		UpdatedAt:          now,
	}
}

func TestSQLiteStorage_SaveAndGetHistory(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	stats := domain.ScanCycleStats{MarketsScanned: 10, BestNetProfitPct: 4.0}
	opps := []domain.Opportunity{
		storedOpportunity("0xaaa", 4.0),
		storedOpportunity("0xbbb", 2.5),
	}
	require.NoError(t, s.SaveScan(ctx, stats, opps))

	got, err := s.GetHistory(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Orden por net profit descendente.
	assert.Equal(t, "0xaaa", got[0].Market.ConditionID)
	assert.InDelta(t, 4.0, got[0].NetProfitPercent, 1e-9)
	assert.Equal(t, domain.DirectionBuyBoth, got[0].Pricing.Direction)
	assert.Equal(t, domain.RiskMedium, got[0].Risk.Level)
}

func TestSQLiteStorage_UpsertDoesNotDuplicate(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	opp := storedOpportunity("0xaaa", 2.0)
	require.NoError(t, s.SaveScan(ctx, domain.ScanCycleStats{}, []domain.Opportunity{opp}))

	// El mismo mercado con mejor profit reemplaza su fila, no la duplica.
	opp.NetProfitPercent = 5.0
	require.NoError(t, s.SaveScan(ctx, domain.ScanCycleStats{}, []domain.Opportunity{opp}))

	got, err := s.GetHistory(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 5.0, got[0].NetProfitPercent, 1e-9)
}

func TestSQLiteStorage_EmptyScanStillRecordsCycle(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveScan(ctx, domain.ScanCycleStats{MarketsScanned: 0}, nil))

	got, err := s.GetHistory(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteStorage_HistoryRangeFilters(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveScan(ctx, domain.ScanCycleStats{},
		[]domain.Opportunity{storedOpportunity("0xaaa", 3.0)}))

	got, err := s.GetHistory(ctx, time.Now().Add(-2*time.Hour), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, got)
}
