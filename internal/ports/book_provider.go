package ports

import (
	"context"

	"github.com/alejandrodnm/arbscan/internal/domain"
)

// BookStatus distingue por qué un book no es usable. Los tests necesitan
// diferenciar "la API falló" de "el book llegó pero le falta un lado";
// colapsar ambos a nil pierde esa señal.
type BookStatus int

const (
	BookUsable BookStatus = iota
	BookFetchFailed
	BookIncomplete
)

func (s BookStatus) String() string {
	switch s {
	case BookUsable:
		return "usable"
	case BookFetchFailed:
		return "fetch_failed"
	default:
		return "incomplete"
	}
}

// BookResult es el resultado etiquetado del fetch de un book.
type BookResult struct {
	Book   domain.OrderBook
	Status BookStatus
	Err    error // causa original cuando Status == BookFetchFailed
}

// Usable devuelve true si el book se puede analizar.
func (r BookResult) Usable() bool {
	return r.Status == BookUsable
}

// BookProvider obtiene el orderbook de un token individual.
type BookProvider interface {
	// FetchOrderBook devuelve el book del token dado. Un fallo para un token
	// nunca aborta el ciclo: se devuelve como BookResult no usable y el
	// mercado correspondiente se salta.
	FetchOrderBook(ctx context.Context, tokenID string) BookResult
}
