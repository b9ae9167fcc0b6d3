package ports

import (
	"context"

	"github.com/alejandrodnm/arbscan/internal/domain"
)

// Notifier presenta el conjunto rankeado de oportunidades al usuario.
type Notifier interface {
	// Notify muestra las oportunidades ordenadas por net profit.
	// En la implementación de consola, imprime una tabla formateada.
	Notify(ctx context.Context, opportunities []domain.Opportunity) error
}

// AlertSender entrega una alerta puntual por un canal externo (Telegram, etc.).
// El Alert Gate decide cuándo se invoca; el sender solo entrega.
type AlertSender interface {
	// Send entrega la alerta. Un error significa que la entrega NO se
	// confirmó y el cooldown del gate no debe avanzar.
	Send(ctx context.Context, opp domain.Opportunity) error

	// Name identifica el canal ("telegram", "console", ...).
	Name() string
}
