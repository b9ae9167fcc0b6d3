package domain

import "errors"

// ErrIncompleteBook indica que a uno de los dos books le falta un lado
// (sin best bid o sin best ask) y el pricing no se puede calcular.
var ErrIncompleteBook = errors.New("order book incomplete: missing bid or ask side")

// Direction indica qué lado de la inconsistencia de precios es rentable.
type Direction int

const (
	// DirectionNone: los precios combinados son consistentes, no hay edge.
	DirectionNone Direction = iota
	// DirectionBuyBoth: combined ask < 1.00 → comprar YES + NO cuesta menos
	// que el $1 garantizado a resolución.
	DirectionBuyBoth
	// DirectionSellBoth: combined bid > 1.00 → vender ambos lados recauda más
	// que el $1 que se debe a resolución. Informativo: el scanner no modela
	// ejecución de ventas, solo reporta la inconsistencia.
	DirectionSellBoth
)

func (d Direction) String() string {
	switch d {
	case DirectionBuyBoth:
		return "BUY_BOTH"
	case DirectionSellBoth:
		return "SELL_BOTH"
	default:
		return "NONE"
	}
}

// PricingResult contiene el análisis de precios de un par YES/NO.
// Es un valor derivado, nunca se persiste tal cual.
type PricingResult struct {
	CombinedAsk        float64 // best_ask_YES + best_ask_NO
	CombinedBid        float64 // best_bid_YES + best_bid_NO
	BuyBothProfit      float64 // 1.0 - CombinedAsk
	SellBothProfit     float64 // CombinedBid - 1.0
	Direction          Direction
	GrossProfitPercent float64
}

// AnalyzePricing calcula el pricing combinado de dos books complementarios.
// Función pura: mismos books → mismo resultado, sin I/O ni efectos.
//
// La dirección se elige con precedencia estricta: BUY_BOTH si comprar ambos
// lados deja ganancia, si no SELL_BOTH si vender ambos la deja, si no NONE.
// En un book válido combinedAsk >= combinedBid, así que como mucho una de las
// dos condiciones puede ser positiva — la precedencia preserva esa exclusión.
//
// El porcentaje bruto se expresa sobre el capital comprometido:
//   - BUY_BOTH: ganancia / coste de compra (combinedAsk)
//   - SELL_BOTH: ganancia sobre el $1 que se liquida a resolución
func AnalyzePricing(yesBook, noBook OrderBook) (PricingResult, error) {
	if yesBook.Incomplete() || noBook.Incomplete() {
		return PricingResult{}, ErrIncompleteBook
	}

	r := PricingResult{
		CombinedAsk: yesBook.BestAsk() + noBook.BestAsk(),
		CombinedBid: yesBook.BestBid() + noBook.BestBid(),
	}
	r.BuyBothProfit = 1.0 - r.CombinedAsk
	r.SellBothProfit = r.CombinedBid - 1.0

	switch {
	case r.BuyBothProfit > 0:
		r.Direction = DirectionBuyBoth
		r.GrossProfitPercent = r.BuyBothProfit / r.CombinedAsk * 100
	case r.SellBothProfit > 0:
		r.Direction = DirectionSellBoth
		r.GrossProfitPercent = r.SellBothProfit * 100
	default:
		r.Direction = DirectionNone
	}

	return r, nil
}

// GrossProfitAbsolute devuelve la ganancia bruta absoluta según la dirección.
func (r PricingResult) GrossProfitAbsolute() float64 {
	switch r.Direction {
	case DirectionBuyBoth:
		return r.BuyBothProfit
	case DirectionSellBoth:
		return r.SellBothProfit
	default:
		return 0
	}
}

// Deviation devuelve |1.0 - combinedAsk|, la distancia del ask combinado al
// precio justo. Se usa para la watchlist de near-misses.
func (r PricingResult) Deviation() float64 {
	d := 1.0 - r.CombinedAsk
	if d < 0 {
		return -d
	}
	return d
}
