package domain

import "time"

// OpportunityStatus es el estado del ciclo de vida de una oportunidad.
type OpportunityStatus string

const (
	StatusActive    OpportunityStatus = "active"
	StatusExecuting OpportunityStatus = "executing"
	StatusExecuted  OpportunityStatus = "executed"
	StatusExpired   OpportunityStatus = "expired"
	StatusMissed    OpportunityStatus = "missed"
)

// Opportunity es el resultado completo del análisis de un mercado que superó
// todos los filtros. La identidad de deduplicación es ConditionID del mercado:
// un re-escaneo del mismo mercado reemplaza el registro, nunca lo duplica.
type Opportunity struct {
	ID     string // uuid del registro; la clave de dedup es Market.ConditionID
	Market Market
	Status OpportunityStatus

	Pricing PricingResult
	Risk    RiskAssessment

	// --- Profit ajustado por fees ---
	GrossProfitPercent  float64
	NetProfitPercent    float64 // gross - 100×(fee+gas)
	GrossProfitAbsolute float64 // por $1 de notional
	NetProfitAbsolute   float64
	BreakevenPercent    float64 // fee + gas: el gap mínimo que cubre costes

	// --- Sizing acotado por liquidez ---
	MinLiquidity    float64 // min(ask depth YES, ask depth NO)
	RecommendedSize float64 // min(10% de la liquidez, $1000)
	MaxSize         float64 // 50% de la liquidez

	ConfidenceScore float64 // 0.95 / 0.8 / 0.6 según risk score

	DiscoveredAt time.Time
	UpdatedAt    time.Time
}

// NearMiss es un mercado cuyo ask combinado se desvía de 1.00 por poco,
// pero no lo suficiente para superar los umbrales de rentabilidad.
type NearMiss struct {
	ConditionID string
	Question    string
	CombinedAsk float64
	Deviation   float64 // |1.0 - combinedAsk|, menor = más cerca
	SeenAt      time.Time
}

// LiveMarketEntry es el registro de display de cualquier mercado analizable,
// rankeado por liquidez total, sea oportunidad o no.
type LiveMarketEntry struct {
	ConditionID    string
	Question       string
	Category       string
	CombinedAsk    float64
	TotalLiquidity float64
	SeenAt         time.Time
}

// ScanCycleStats son los contadores acumulados del scanner.
type ScanCycleStats struct {
	TotalScans         int
	MarketsScanned     int // mercados del último ciclo
	OpportunitiesFound int // acumulado desde el arranque
	BestNetProfitPct   float64
	LastScanAt         time.Time
	StartedAt          time.Time
}

// Uptime devuelve el tiempo de vida del proceso medido desde now.
func (s ScanCycleStats) Uptime(now time.Time) time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	return now.Sub(s.StartedAt)
}
