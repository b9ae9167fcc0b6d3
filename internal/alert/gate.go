// Package alert decide cuándo una oportunidad puede disparar una notificación
// externa. El gate mantiene el último envío confirmado por mercado y canal y
// suprime re-envíos dentro de la ventana de cooldown.
package alert

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/alejandrodnm/arbscan/internal/domain"
	"github.com/alejandrodnm/arbscan/internal/ports"
)

// ErrCooldownActive indica que el envío se suprimió por cooldown.
var ErrCooldownActive = errors.New("alert suppressed: cooldown active")

// DefaultCooldown es la ventana mínima entre dos alertas del mismo mercado.
const DefaultCooldown = 60 * time.Second

// Gate aplica el cooldown por mercado y por canal. El timestamp solo avanza
// tras una entrega CONFIRMADA: un fallo de entrega deja el reloj intacto y el
// siguiente ciclo elegible reintenta.
//
// El mapa de cooldowns se muta secuencialmente por el mismo caller que lo
// consulta (el callback OnOpportunity del scanner); no se asumen escritores
// concurrentes.
type Gate struct {
	cooldown time.Duration
	senders  []ports.AlertSender
	lastSent map[string]time.Time // "canal|conditionID" → último envío confirmado
	now      func() time.Time
}

// New crea un Gate con la ventana de cooldown dada (0 = DefaultCooldown).
func New(cooldown time.Duration, senders ...ports.AlertSender) *Gate {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Gate{
		cooldown: cooldown,
		senders:  senders,
		lastSent: make(map[string]time.Time),
		now:      time.Now,
	}
}

// SetClock reemplaza el reloj del gate. Solo para tests.
func (g *Gate) SetClock(now func() time.Time) {
	g.now = now
}

// Dispatch intenta entregar la oportunidad por todos los canales registrados.
// Cada canal tiene su propio cooldown; la supresión en uno no afecta al resto.
// Un fallo de entrega no es fatal y no avanza el cooldown de ese canal.
func (g *Gate) Dispatch(ctx context.Context, opp domain.Opportunity) {
	for _, sender := range g.senders {
		if err := g.send(ctx, sender, opp); err != nil {
			if errors.Is(err, ErrCooldownActive) {
				continue
			}
			slog.Warn("alert delivery failed, will retry next eligible cycle",
				"channel", sender.Name(),
				"condition_id", opp.Market.ConditionID,
				"err", err,
			)
		}
	}
}

// send entrega por un canal respetando el cooldown. Devuelve
// ErrCooldownActive si el envío se suprimió.
func (g *Gate) send(ctx context.Context, sender ports.AlertSender, opp domain.Opportunity) error {
	key := sender.Name() + "|" + opp.Market.ConditionID
	now := g.now()

	if last, seen := g.lastSent[key]; seen && now.Sub(last) < g.cooldown {
		return ErrCooldownActive
	}

	if err := sender.Send(ctx, opp); err != nil {
		// Entrega no confirmada: el timestamp NO avanza.
		return err
	}

	g.lastSent[key] = now
	slog.Debug("alert sent",
		"channel", sender.Name(),
		"condition_id", opp.Market.ConditionID,
		"net_profit_pct", opp.NetProfitPercent,
	)
	return nil
}

// Clear borra el cooldown de un mercado en todos los canales.
func (g *Gate) Clear(conditionID string) {
	for _, sender := range g.senders {
		delete(g.lastSent, sender.Name()+"|"+conditionID)
	}
}

// ClearAll borra todos los cooldowns.
func (g *Gate) ClearAll() {
	g.lastSent = make(map[string]time.Time)
}
