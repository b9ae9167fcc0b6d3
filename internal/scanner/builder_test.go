package scanner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/arbscan/internal/domain"
)

var testNow = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

func testMarket() domain.Market {
	return domain.Market{
		ConditionID: "0xabc123",
		Question:    "Will it happen?",
		Category:    "Economics",
		EndDate:     testNow.AddDate(0, 1, 0),
		Active:      true,
		Tokens: []domain.Token{
			{TokenID: "yes", Outcome: "Yes"},
			{TokenID: "no", Outcome: "No"},
		},
	}
}

func bookWith(bid, ask, askSize float64) domain.OrderBook {
	return domain.OrderBook{
		Bids: []domain.BookEntry{{Price: bid, Size: 1000}},
		Asks: []domain.BookEntry{{Price: ask, Size: askSize}},
	}
}

func defaultBuilderConfig() BuilderConfig {
	return BuilderConfig{MinProfitPercent: 0.5, MaxRiskScore: 7}
}

func TestBuild_AcceptsProfitableMarket(t *testing.T) {
	// combined ask 0.95 → gross 5.263%, liquidez amplia, riesgo bajo
	yes := bookWith(0.38, 0.40, 2000)
	no := bookWith(0.53, 0.55, 3000)

	opp, ok := Build(testMarket(), yes, no, defaultBuilderConfig(), testNow)
	require.True(t, ok)

	assert.NotEmpty(t, opp.ID)
	assert.Equal(t, domain.StatusActive, opp.Status)
	assert.Equal(t, domain.DirectionBuyBoth, opp.Pricing.Direction)
	assert.InDelta(t, 5.263, opp.GrossProfitPercent, 0.001)

	// Costes fijos: 1% taker + 0.002 gas = 1.2 puntos porcentuales
	assert.InDelta(t, 0.012, opp.BreakevenPercent, 1e-9)
	assert.InDelta(t, 4.063, opp.NetProfitPercent, 0.001)
	assert.InDelta(t, 0.05, opp.GrossProfitAbsolute, 1e-9)
	assert.InDelta(t, 0.038, opp.NetProfitAbsolute, 1e-9)

	// Sizing acotado por la liquidez mínima (2000): 10% recomendado, 50% máximo.
	assert.InDelta(t, 2000.0, opp.MinLiquidity, 1e-9)
	assert.InDelta(t, 200.0, opp.RecommendedSize, 1e-9)
	assert.InDelta(t, 1000.0, opp.MaxSize, 1e-9)

	assert.Equal(t, testNow, opp.DiscoveredAt)
	assert.Equal(t, testNow, opp.UpdatedAt)
}

func TestBuild_RecommendedSizeCappedAt1000(t *testing.T) {
	yes := bookWith(0.38, 0.40, 50000)
	no := bookWith(0.53, 0.55, 50000)

	opp, ok := Build(testMarket(), yes, no, defaultBuilderConfig(), testNow)
	require.True(t, ok)
	assert.InDelta(t, 1000.0, opp.RecommendedSize, 1e-9)
	assert.InDelta(t, 25000.0, opp.MaxSize, 1e-9)
}

func TestBuild_RejectsIncompleteBook(t *testing.T) {
	yes := bookWith(0.38, 0.40, 2000)
	noSinAsks := domain.OrderBook{Bids: []domain.BookEntry{{Price: 0.53, Size: 10}}}

	_, ok := Build(testMarket(), yes, noSinAsks, defaultBuilderConfig(), testNow)
	assert.False(t, ok)
}

func TestBuild_RejectsNoDirection(t *testing.T) {
	// combined ask 1.01: precios consistentes, no hay edge
	yes := bookWith(0.49, 0.51, 2000)
	no := bookWith(0.48, 0.50, 2000)

	_, ok := Build(testMarket(), yes, no, defaultBuilderConfig(), testNow)
	assert.False(t, ok)
}

func TestBuild_ProfitBoundaryIsInclusive(t *testing.T) {
	// combined ask 0.995 → gross = 0.005/0.995×100 = 0.502513...%
	yes := bookWith(0.47, 0.495, 2000)
	no := bookWith(0.47, 0.50, 2000)

	cfg := defaultBuilderConfig()

	// Umbral exactamente en el gross calculado → la igualdad acepta.
	combined := 0.495 + 0.50
	cfg.MinProfitPercent = (1.0 - combined) / combined * 100
	_, ok := Build(testMarket(), yes, no, cfg, testNow)
	assert.True(t, ok)

	// Un epsilon por encima → rechaza.
	cfg.MinProfitPercent += 1e-9
	_, ok = Build(testMarket(), yes, no, cfg, testNow)
	assert.False(t, ok)
}

func TestBuild_RejectsBelowMinLiquidity(t *testing.T) {
	yes := bookWith(0.38, 0.40, 300)
	no := bookWith(0.53, 0.55, 3000)

	cfg := defaultBuilderConfig()
	cfg.MinLiquidity = 500
	_, ok := Build(testMarket(), yes, no, cfg, testNow)
	assert.False(t, ok)

	// Sin mínimo configurado, la misma liquidez pasa.
	cfg.MinLiquidity = 0
	_, ok = Build(testMarket(), yes, no, cfg, testNow)
	assert.True(t, ok)
}

func TestBuild_RejectsExcessiveRisk(t *testing.T) {
	// Liquidez baja + spread ancho + expira mañana → score 3+2+2+2 = 9
	m := testMarket()
	m.EndDate = testNow.Add(12 * time.Hour)
	yes := bookWith(0.30, 0.40, 100)
	no := bookWith(0.45, 0.55, 100)

	cfg := defaultBuilderConfig() // MaxRiskScore 7
	_, ok := Build(m, yes, no, cfg, testNow)
	assert.False(t, ok)

	cfg.MaxRiskScore = 10
	opp, ok := Build(m, yes, no, cfg, testNow)
	require.True(t, ok)
	assert.Equal(t, 9, opp.Risk.Score)
	assert.Equal(t, domain.RiskExtreme, opp.Risk.Level)
}

func TestBuild_ConfidenceTiers(t *testing.T) {
	cfg := defaultBuilderConfig()
	cfg.MaxRiskScore = 10
	m := testMarket()

	// Riesgo base (3): confianza máxima.
	opp, ok := Build(m, bookWith(0.38, 0.40, 5000), bookWith(0.53, 0.55, 5000), cfg, testNow)
	require.True(t, ok)
	assert.Equal(t, 3, opp.Risk.Score)
	assert.InDelta(t, 0.95, opp.ConfidenceScore, 1e-9)

	// Liquidez moderada + spread moderado → score 5 → 0.8
	opp, ok = Build(m, bookWith(0.37, 0.40, 800), bookWith(0.52, 0.55, 800), cfg, testNow)
	require.True(t, ok)
	assert.Equal(t, 5, opp.Risk.Score)
	assert.InDelta(t, 0.8, opp.ConfidenceScore, 1e-9)

	// Liquidez baja + spread moderado → score 6 → 0.6
	opp, ok = Build(m, bookWith(0.37, 0.40, 300), bookWith(0.52, 0.55, 300), cfg, testNow)
	require.True(t, ok)
	assert.Equal(t, 6, opp.Risk.Score)
	assert.InDelta(t, 0.6, opp.ConfidenceScore, 1e-9)
}

func TestBuild_SellBothUsesSettlementProfit(t *testing.T) {
	yes := bookWith(0.58, 0.60, 2000)
	no := bookWith(0.58, 0.60, 2000)

	opp, ok := Build(testMarket(), yes, no, defaultBuilderConfig(), testNow)
	require.True(t, ok)
	assert.Equal(t, domain.DirectionSellBoth, opp.Pricing.Direction)
	assert.InDelta(t, 16.0, opp.GrossProfitPercent, 1e-9)
	assert.InDelta(t, 0.16, opp.GrossProfitAbsolute, 1e-9)
	assert.InDelta(t, 0.148, opp.NetProfitAbsolute, 1e-9)
}
