package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alejandrodnm/arbscan/internal/domain"
)

const telegramAPIBase = "https://api.telegram.org"

// Telegram implementa ports.AlertSender sobre el Bot API de Telegram.
type Telegram struct {
	token   string
	chatID  string
	apiBase string
	http    *http.Client
}

// NewTelegram crea un sender para el bot token y chat ID dados.
func NewTelegram(token, chatID string) *Telegram {
	return &Telegram{
		token:   token,
		chatID:  chatID,
		apiBase: telegramAPIBase,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// NewTelegramWithBase crea un sender contra un API base alternativo. Para tests.
func NewTelegramWithBase(token, chatID, apiBase string) *Telegram {
	t := NewTelegram(token, chatID)
	t.apiBase = apiBase
	return t
}

// Send entrega la alerta vía sendMessage. Un status no-2xx cuenta como
// entrega NO confirmada: el error propaga y el gate no avanza su cooldown.
func (t *Telegram) Send(ctx context.Context, opp domain.Opportunity) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.token)

	payload := map[string]string{
		"chat_id":    t.chatID,
		"text":       formatAlert(opp),
		"parse_mode": "Markdown",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// Name identifica el canal.
func (t *Telegram) Name() string { return "telegram" }

// formatAlert arma el mensaje Markdown de la alerta.
func formatAlert(opp domain.Opportunity) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s* %s\n", opp.Pricing.Direction,
		domain.TruncateQuestion(opp.Market.Question, opp.Market.ConditionID, 60))
	fmt.Fprintf(&sb, "net profit: %.3f%% (gross %.3f%%)\n",
		opp.NetProfitPercent, opp.GrossProfitPercent)
	fmt.Fprintf(&sb, "risk: %d/10 %s", opp.Risk.Score, opp.Risk.Level)
	if len(opp.Risk.Factors) > 0 {
		fmt.Fprintf(&sb, " [%s]", strings.Join(opp.Risk.Factors, ", "))
	}
	fmt.Fprintf(&sb, "\nsize: $%.0f recommended, $%.0f max (liquidity $%.0f)\n",
		opp.RecommendedSize, opp.MaxSize, opp.MinLiquidity)
	fmt.Fprintf(&sb, "expires: %s", opp.Market.EndDate.Format("2006-01-02"))
	return sb.String()
}
