package polymarket

import (
	"sort"
	"time"

	"github.com/alejandrodnm/arbscan/internal/domain"
)

// mapMarkets convierte los DTOs del CLOB a domain.Market.
func mapMarkets(raw []clobMarket) []domain.Market {
	markets := make([]domain.Market, 0, len(raw))
	for _, r := range raw {
		markets = append(markets, mapMarket(r))
	}
	return markets
}

// mapMarket convierte un clobMarket DTO a domain.Market.
func mapMarket(r clobMarket) domain.Market {
	m := domain.Market{
		ConditionID: r.ConditionID,
		Question:    r.Question,
		Category:    r.Category,
		Active:      r.Active,
		Closed:      r.Closed,
	}

	if r.EndDateISO != "" {
		if end, err := time.Parse(time.RFC3339, r.EndDateISO); err == nil {
			m.EndDate = end
		}
	}

	for _, t := range r.Tokens {
		m.Tokens = append(m.Tokens, domain.Token{
			TokenID: t.TokenID,
			Outcome: t.Outcome,
		})
	}

	return m
}

// mapOrderBook convierte la respuesta de /book a domain.OrderBook.
// La API no garantiza el orden de los niveles, así que se normaliza:
// bids descendente, asks ascendente.
func mapOrderBook(r orderBookResponse) domain.OrderBook {
	book := domain.OrderBook{TokenID: r.AssetID}

	for _, lvl := range r.Bids {
		book.Bids = append(book.Bids, domain.BookEntry{
			Price: domain.ParsePrice(lvl.Price),
			Size:  domain.ParsePrice(lvl.Size),
		})
	}
	for _, lvl := range r.Asks {
		book.Asks = append(book.Asks, domain.BookEntry{
			Price: domain.ParsePrice(lvl.Price),
			Size:  domain.ParsePrice(lvl.Size),
		})
	}

	sort.Slice(book.Bids, func(i, j int) bool { return book.Bids[i].Price > book.Bids[j].Price })
	sort.Slice(book.Asks, func(i, j int) bool { return book.Asks[i].Price < book.Asks[j].Price })

	return book
}
