package alert

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alejandrodnm/arbscan/internal/domain"
)

// fakeSender registra los envíos y puede fallar bajo demanda.
type fakeSender struct {
	name  string
	fail  bool
	sends []string
}

func (f *fakeSender) Send(_ context.Context, opp domain.Opportunity) error {
	if f.fail {
		return errors.New("delivery failed")
	}
	f.sends = append(f.sends, opp.Market.ConditionID)
	return nil
}

func (f *fakeSender) Name() string { return f.name }

func opp(conditionID string) domain.Opportunity {
	return domain.Opportunity{Market: domain.Market{ConditionID: conditionID}}
}

func TestGate_CooldownSuppressesSecondSend(t *testing.T) {
	sender := &fakeSender{name: "test"}
	gate := New(60*time.Second, sender)

	clock := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	gate.SetClock(func() time.Time { return clock })

	gate.Dispatch(context.Background(), opp("0xabc"))
	assert.Len(t, sender.sends, 1)

	// Segundo intento 30s después, dentro de la ventana → suprimido.
	clock = clock.Add(30 * time.Second)
	gate.Dispatch(context.Background(), opp("0xabc"))
	assert.Len(t, sender.sends, 1)

	// Tras expirar el cooldown, el tercer intento pasa.
	clock = clock.Add(31 * time.Second)
	gate.Dispatch(context.Background(), opp("0xabc"))
	assert.Len(t, sender.sends, 2)
}

func TestGate_FailedDeliveryDoesNotAdvanceCooldown(t *testing.T) {
	sender := &fakeSender{name: "test", fail: true}
	gate := New(60*time.Second, sender)

	clock := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	gate.SetClock(func() time.Time { return clock })

	gate.Dispatch(context.Background(), opp("0xabc"))
	assert.Empty(t, sender.sends)

	// La entrega falló → el siguiente ciclo reintenta aunque no pasara cooldown.
	sender.fail = false
	clock = clock.Add(5 * time.Second)
	gate.Dispatch(context.Background(), opp("0xabc"))
	assert.Len(t, sender.sends, 1)
}

func TestGate_CooldownIsPerMarket(t *testing.T) {
	sender := &fakeSender{name: "test"}
	gate := New(60*time.Second, sender)

	clock := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	gate.SetClock(func() time.Time { return clock })

	gate.Dispatch(context.Background(), opp("0xabc"))
	gate.Dispatch(context.Background(), opp("0xdef"))
	assert.Equal(t, []string{"0xabc", "0xdef"}, sender.sends)
}

func TestGate_CooldownIsPerChannel(t *testing.T) {
	a := &fakeSender{name: "console"}
	b := &fakeSender{name: "telegram", fail: true}
	gate := New(60*time.Second, a, b)

	clock := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	gate.SetClock(func() time.Time { return clock })

	gate.Dispatch(context.Background(), opp("0xabc"))
	assert.Len(t, a.sends, 1)
	assert.Empty(t, b.sends)

	// El canal que falló reintenta; el que entregó queda en cooldown.
	b.fail = false
	clock = clock.Add(10 * time.Second)
	gate.Dispatch(context.Background(), opp("0xabc"))
	assert.Len(t, a.sends, 1)
	assert.Len(t, b.sends, 1)
}

func TestGate_Clear(t *testing.T) {
	sender := &fakeSender{name: "test"}
	gate := New(60*time.Second, sender)

	clock := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	gate.SetClock(func() time.Time { return clock })

	gate.Dispatch(context.Background(), opp("0xabc"))
	gate.Clear("0xabc")
	gate.Dispatch(context.Background(), opp("0xabc"))
	assert.Len(t, sender.sends, 2)
}

func TestGate_ClearAll(t *testing.T) {
	sender := &fakeSender{name: "test"}
	gate := New(60*time.Second, sender)

	clock := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	gate.SetClock(func() time.Time { return clock })

	gate.Dispatch(context.Background(), opp("0xabc"))
	gate.Dispatch(context.Background(), opp("0xdef"))
	gate.ClearAll()
	gate.Dispatch(context.Background(), opp("0xabc"))
	gate.Dispatch(context.Background(), opp("0xdef"))
	assert.Len(t, sender.sends, 4)
}
