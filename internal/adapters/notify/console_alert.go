package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alejandrodnm/arbscan/internal/domain"
)

// ConsoleAlert implementa ports.AlertSender escribiendo una línea por alerta.
// Es el canal por defecto cuando no hay Telegram configurado.
type ConsoleAlert struct {
	out io.Writer
}

// NewConsoleAlert crea un alert sender que escribe a stdout.
func NewConsoleAlert() *ConsoleAlert {
	return &ConsoleAlert{out: os.Stdout}
}

// NewConsoleAlertWriter crea un alert sender para tests.
func NewConsoleAlertWriter(w io.Writer) *ConsoleAlert {
	return &ConsoleAlert{out: w}
}

// Send imprime la alerta. Escribir a stdout no falla en la práctica, así que
// la entrega siempre se confirma y el cooldown del gate avanza.
func (c *ConsoleAlert) Send(_ context.Context, opp domain.Opportunity) error {
	_, err := fmt.Fprintf(c.out, "[%s] ALERT %s %s net=%.3f%% risk=%d/%s size=$%.0f\n",
		time.Now().Format("15:04:05"),
		opp.Pricing.Direction,
		domain.TruncateQuestion(opp.Market.Question, opp.Market.ConditionID, 50),
		opp.NetProfitPercent,
		opp.Risk.Score, opp.Risk.Level,
		opp.RecommendedSize,
	)
	return err
}

// Name identifica el canal.
func (c *ConsoleAlert) Name() string { return "console" }
