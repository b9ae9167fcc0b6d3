package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/arbscan/internal/domain"
)

// Console implementa ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole crea un notificador que escribe a stdout.
// Con table=true imprime la tabla completa; si no, una línea compacta.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// Notify imprime el conjunto rankeado en el modo configurado.
func (c *Console) Notify(_ context.Context, opportunities []domain.Opportunity) error {
	if len(opportunities) == 0 {
		fmt.Fprintf(c.out, "[%s] no opportunities found\n", time.Now().Format("15:04:05"))
		return nil
	}

	if c.table {
		c.printFull(opportunities)
	} else {
		c.printCompact(opportunities)
	}
	return nil
}

// printCompact imprime lo esencial en una línea.
func (c *Console) printCompact(opps []domain.Opportunity) {
	now := time.Now().Format("15:04:05")

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %d opps", now, len(opps))

	shown := 0
	for _, opp := range opps {
		if shown >= 4 {
			break
		}
		name := compactName(opp.Market.Question, 25)
		fmt.Fprintf(&sb, " | %s %s net%.2f%% risk%d sz$%.0f",
			opp.Pricing.Direction, name,
			opp.NetProfitPercent, opp.Risk.Score, opp.RecommendedSize)
		shown++
	}

	fmt.Fprintln(c.out, sb.String())
}

// printFull imprime la tabla completa de oportunidades.
func (c *Console) printFull(opps []domain.Opportunity) {
	now := time.Now().Format("15:04:05")
	fmt.Fprintf(c.out, "\n[%s] %d opportunities\n", now, len(opps))

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Dir", "Market", "Gross%", "Net%", "Risk", "Conf", "Rec$", "Max$", "Expires")

	for i, opp := range opps {
		table.Append(
			fmt.Sprintf("%d", i+1),
			opp.Pricing.Direction.String(),
			domain.TruncateQuestion(opp.Market.Question, opp.Market.ConditionID, 40),
			fmt.Sprintf("%.3f", opp.GrossProfitPercent),
			fmt.Sprintf("%.3f", opp.NetProfitPercent),
			fmt.Sprintf("%d %s", opp.Risk.Score, opp.Risk.Level),
			fmt.Sprintf("%.2f", opp.ConfidenceScore),
			fmt.Sprintf("%.0f", opp.RecommendedSize),
			fmt.Sprintf("%.0f", opp.MaxSize),
			opp.Market.EndDate.Format("2006-01-02"),
		)
	}
	table.Render()
}

// compactName acorta el nombre del mercado para el modo de una línea.
func compactName(question string, maxLen int) string {
	q := strings.TrimSuffix(question, "?")
	if len(q) > maxLen {
		q = q[:maxLen-1] + "…"
	}
	return q
}
