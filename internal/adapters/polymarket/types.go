package polymarket

// DTOs raw de la API del CLOB. Solo se usan dentro de este paquete.
// La conversión a domain entities se hace en mapping.go.

// marketsResponse es la respuesta paginada de GET /markets.
type marketsResponse struct {
	Limit      int          `json:"limit"`
	Count      int          `json:"count"`
	NextCursor string       `json:"next_cursor"`
	Data       []clobMarket `json:"data"`
}

// clobMarket es un mercado del catálogo.
type clobMarket struct {
	ConditionID string      `json:"condition_id"`
	Question    string      `json:"question"`
	Category    string      `json:"category"`
	EndDateISO  string      `json:"end_date_iso"`
	Tokens      []clobToken `json:"tokens"`
	Active      bool        `json:"active"`
	Closed      bool        `json:"closed"`
}

// clobToken representa un token (YES/NO) en el CLOB.
type clobToken struct {
	TokenID string `json:"token_id"`
	Outcome string `json:"outcome"`
}

// orderBookResponse es la respuesta de GET /book.
// Los precios y sizes llegan como strings.
type orderBookResponse struct {
	AssetID string       `json:"asset_id"`
	Bids    []priceLevel `json:"bids"`
	Asks    []priceLevel `json:"asks"`
}

// priceLevel es un nivel de precio del book.
type priceLevel struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}
