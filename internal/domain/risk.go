package domain

// RiskLevel es la clasificación cualitativa derivada del score numérico.
type RiskLevel string

const (
	RiskLow     RiskLevel = "LOW"     // score <= 3
	RiskMedium  RiskLevel = "MEDIUM"  // score <= 5
	RiskHigh    RiskLevel = "HIGH"    // score <= 7
	RiskExtreme RiskLevel = "EXTREME" // score > 7
)

// Etiquetas de los factores de riesgo, en el orden en que se evalúan.
const (
	FactorLowLiquidity      = "low_liquidity"
	FactorModerateLiquidity = "moderate_liquidity"
	FactorWideSpread        = "wide_spread"
	FactorModerateSpread    = "moderate_spread"
	FactorExpiringSoon      = "expiring_soon"
	FactorShortExpiry       = "short_expiry"
	FactorThinMargin        = "thin_margin"
)

// RiskAssessment es el resultado del scoring de riesgo de una oportunidad.
type RiskAssessment struct {
	Score   int       // 1-10, base 3 + penalizaciones aditivas
	Factors []string  // etiquetas disparadas, en orden de evaluación
	Level   RiskLevel
}

// Umbrales del scoring. Aditivos sobre una base de 3, tope en 10.
const (
	riskBase     = 3
	riskCeiling  = 10

	lowLiquidityBelow      = 500.0
	moderateLiquidityBelow = 1000.0
	wideSpreadAbove        = 0.05
	moderateSpreadAbove    = 0.02
	expiringSoonDays       = 1.0
	shortExpiryDays        = 7.0
	thinMarginBelowPct     = 1.0
)

// AssessRisk calcula el score de riesgo de actuar sobre una inconsistencia.
// Función pura y monótona: menos liquidez, más spread, menos días a expiración
// o menos profit nunca bajan el score.
//
//   - liquidity: mínimo entre la profundidad ask de ambos tokens (suma de sizes)
//   - avgSpread: spread bid/ask medio de los dos books
//   - daysToExpiry: días hasta resolución; negativo cuenta como "expira ya"
//     (nunca reduce el score por debajo de los incrementos definidos)
//   - grossProfitPct: ganancia bruta en porcentaje
func AssessRisk(grossProfitPct, liquidity, avgSpread, daysToExpiry float64) RiskAssessment {
	score := riskBase
	var factors []string

	switch {
	case liquidity < lowLiquidityBelow:
		score += 2
		factors = append(factors, FactorLowLiquidity)
	case liquidity < moderateLiquidityBelow:
		score++
		factors = append(factors, FactorModerateLiquidity)
	}

	switch {
	case avgSpread > wideSpreadAbove:
		score += 2
		factors = append(factors, FactorWideSpread)
	case avgSpread > moderateSpreadAbove:
		score++
		factors = append(factors, FactorModerateSpread)
	}

	switch {
	case daysToExpiry < expiringSoonDays:
		score += 2
		factors = append(factors, FactorExpiringSoon)
	case daysToExpiry < shortExpiryDays:
		score++
		factors = append(factors, FactorShortExpiry)
	}

	if grossProfitPct < thinMarginBelowPct {
		score++
		factors = append(factors, FactorThinMargin)
	}

	if score > riskCeiling {
		score = riskCeiling
	}

	return RiskAssessment{
		Score:   score,
		Factors: factors,
		Level:   levelFor(score),
	}
}

// levelFor mapea el score numérico a su nivel cualitativo.
func levelFor(score int) RiskLevel {
	switch {
	case score <= 3:
		return RiskLow
	case score <= 5:
		return RiskMedium
	case score <= 7:
		return RiskHigh
	default:
		return RiskExtreme
	}
}
