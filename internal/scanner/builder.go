package scanner

// builder.go — construcción de oportunidades.
//
// Este es el ÚNICO sitio donde vive la política de aceptación/rechazo:
// cada rechazo devuelve (zero, false), nunca un error. Los umbrales vienen
// de config; los fees y las fracciones de sizing son política fija.

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/arbscan/internal/domain"
)

// Política fija de costes y sizing. Deliberadamente NO configurables:
// taker fee del CLOB y coste de gas por $1 de notional.
const (
	takerFeeRate   = 0.01
	gasCostPerUnit = 0.002

	recommendedSizeFraction = 0.10
	maxSizeFraction         = 0.50
	recommendedSizeCapUSDC  = 1000.0
)

// BuilderConfig son los umbrales de aceptación del builder.
type BuilderConfig struct {
	// MinProfitPercent es el profit bruto mínimo en %. La igualdad acepta:
	// el rechazo es estricto (< MinProfitPercent).
	MinProfitPercent float64
	// MaxRiskScore rechaza oportunidades con score de riesgo superior.
	MaxRiskScore int
	// MinLiquidity (opcional, 0 = sin mínimo) exige liquidez ask mínima.
	MinLiquidity float64
}

// Build analiza un mercado y construye la oportunidad si supera todos los
// filtros. Devuelve (zero, false) en cualquier rechazo: pricing inusable,
// sin dirección, profit bajo umbral, liquidez insuficiente o riesgo excesivo.
func Build(market domain.Market, yesBook, noBook domain.OrderBook, cfg BuilderConfig, now time.Time) (domain.Opportunity, bool) {
	pricing, err := domain.AnalyzePricing(yesBook, noBook)
	if err != nil {
		return domain.Opportunity{}, false
	}

	if pricing.Direction == domain.DirectionNone || pricing.GrossProfitPercent < cfg.MinProfitPercent {
		return domain.Opportunity{}, false
	}

	minLiquidity := math.Min(yesBook.AskLiquidity(), noBook.AskLiquidity())
	if cfg.MinLiquidity > 0 && minLiquidity < cfg.MinLiquidity {
		return domain.Opportunity{}, false
	}

	avgSpread := (yesBook.Spread() + noBook.Spread()) / 2
	risk := domain.AssessRisk(
		pricing.GrossProfitPercent,
		minLiquidity,
		avgSpread,
		market.DaysToExpiry(now),
	)
	if risk.Score > cfg.MaxRiskScore {
		return domain.Opportunity{}, false
	}

	// Costes fijos por $1 de notional, idénticos para ambas direcciones.
	costs := takerFeeRate + gasCostPerUnit
	grossAbs := pricing.GrossProfitAbsolute()

	opp := domain.Opportunity{
		ID:      uuid.New().String(),
		Market:  market,
		Status:  domain.StatusActive,
		Pricing: pricing,
		Risk:    risk,

		GrossProfitPercent:  pricing.GrossProfitPercent,
		NetProfitPercent:    pricing.GrossProfitPercent - costs*100,
		GrossProfitAbsolute: grossAbs,
		NetProfitAbsolute:   grossAbs - costs,
		BreakevenPercent:    costs,

		MinLiquidity:    minLiquidity,
		RecommendedSize: math.Min(minLiquidity*recommendedSizeFraction, recommendedSizeCapUSDC),
		MaxSize:         minLiquidity * maxSizeFraction,

		ConfidenceScore: confidenceFor(risk.Score),

		DiscoveredAt: now,
		UpdatedAt:    now,
	}
	return opp, true
}

// confidenceFor mapea el risk score a la confianza de la recomendación.
func confidenceFor(riskScore int) float64 {
	switch {
	case riskScore <= 3:
		return 0.95
	case riskScore <= 5:
		return 0.8
	default:
		return 0.6
	}
}
