package ports

import (
	"context"
	"errors"

	"github.com/alejandrodnm/arbscan/internal/domain"
)

// ErrUpstreamUnavailable indica que el catálogo de mercados no se pudo
// obtener. El scanner lo trata como "cero mercados este ciclo", nunca como
// error fatal.
var ErrUpstreamUnavailable = errors.New("market catalog unavailable")

// MarketProvider obtiene el catálogo de mercados activos del CLOB.
type MarketProvider interface {
	// FetchActiveMarkets devuelve todos los mercados activos y tradeables.
	// Pagina automáticamente hasta obtener todos los resultados.
	FetchActiveMarkets(ctx context.Context) ([]domain.Market, error)
}
