package polymarket

// clob.go — adapter de catálogo y orderbooks del CLOB.
//
// El catálogo pagina con next_cursor; "LTE=" es el cursor vacío en base64 que
// marca la última página. El fetch de books es por token: un fallo individual
// se devuelve como BookResult no usable, nunca propaga al ciclo completo.

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/arbscan/internal/domain"
	"github.com/alejandrodnm/arbscan/internal/ports"
)

const (
	marketsPath = "/markets"
	bookPath    = "/book"
	pageSize    = 100
)

// FetchActiveMarkets devuelve todos los mercados del catálogo.
// Pagina automáticamente usando next_cursor hasta agotar los resultados.
// Un fallo total se envuelve en ports.ErrUpstreamUnavailable para que el
// scanner lo trate como "cero mercados este ciclo".
func (c *Client) FetchActiveMarkets(ctx context.Context) ([]domain.Market, error) {
	var all []domain.Market
	cursor := ""

	for {
		url := fmt.Sprintf("%s%s?limit=%d", c.clobBase, marketsPath, pageSize)
		if cursor != "" {
			url += "&next_cursor=" + cursor
		}

		var resp marketsResponse
		if err := c.get(ctx, c.clobLimiter, url, &resp); err != nil {
			return nil, fmt.Errorf("%w: clob.FetchActiveMarkets: %w", ports.ErrUpstreamUnavailable, err)
		}

		all = append(all, mapMarkets(resp.Data)...)

		slog.Debug("fetched markets page",
			"count", len(resp.Data),
			"total", len(all),
			"has_more", resp.NextCursor != "" && resp.NextCursor != "LTE=",
		)

		if resp.NextCursor == "" || resp.NextCursor == "LTE=" {
			break
		}
		cursor = resp.NextCursor
	}

	slog.Info("market catalog fetched", "total", len(all))
	return all, nil
}

// FetchOrderBook obtiene el book de un token individual.
// Nunca devuelve error: los fallos se etiquetan en el BookResult para que el
// caller distinga "la API falló" de "book presente pero incompleto".
func (c *Client) FetchOrderBook(ctx context.Context, tokenID string) ports.BookResult {
	url := fmt.Sprintf("%s%s?token_id=%s", c.clobBase, bookPath, tokenID)

	var resp orderBookResponse
	if err := c.get(ctx, c.bookLimiter, url, &resp); err != nil {
		slog.Debug("book fetch failed", "token_id", tokenID, "err", err)
		return ports.BookResult{Status: ports.BookFetchFailed, Err: err}
	}

	book := mapOrderBook(resp)
	if book.Incomplete() {
		return ports.BookResult{Book: book, Status: ports.BookIncomplete}
	}
	return ports.BookResult{Book: book, Status: ports.BookUsable}
}
