package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alejandrodnm/arbscan/internal/domain"
)

func newNearMissList(capacity int) *rankedList[domain.NearMiss] {
	return newRankedList(capacity,
		func(n domain.NearMiss) string { return n.ConditionID },
		func(a, b domain.NearMiss) bool { return a.Deviation < b.Deviation },
	)
}

func TestRankedList_MaintainsOrder(t *testing.T) {
	l := newNearMissList(10)
	l.Upsert(domain.NearMiss{ConditionID: "a", Deviation: 0.03})
	l.Upsert(domain.NearMiss{ConditionID: "b", Deviation: 0.01})
	l.Upsert(domain.NearMiss{ConditionID: "c", Deviation: 0.02})

	items := l.Items()
	assert.Equal(t, []string{"b", "c", "a"}, []string{
		items[0].ConditionID, items[1].ConditionID, items[2].ConditionID,
	})
}

func TestRankedList_UpsertReplacesByKey(t *testing.T) {
	l := newNearMissList(10)
	l.Upsert(domain.NearMiss{ConditionID: "a", Deviation: 0.03})
	l.Upsert(domain.NearMiss{ConditionID: "a", Deviation: 0.005})

	assert.Equal(t, 1, l.Len())
	assert.InDelta(t, 0.005, l.Items()[0].Deviation, 1e-9)
}

func TestRankedList_EvictsWorstOverCapacity(t *testing.T) {
	l := newNearMissList(2)
	l.Upsert(domain.NearMiss{ConditionID: "a", Deviation: 0.03})
	l.Upsert(domain.NearMiss{ConditionID: "b", Deviation: 0.01})
	l.Upsert(domain.NearMiss{ConditionID: "c", Deviation: 0.02})

	// Capacidad 2: expulsa la peor desviación (a).
	items := l.Items()
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, "b", items[0].ConditionID)
	assert.Equal(t, "c", items[1].ConditionID)
}

func TestRankedList_LiquidityDescending(t *testing.T) {
	l := newRankedList(3,
		func(e domain.LiveMarketEntry) string { return e.ConditionID },
		func(a, b domain.LiveMarketEntry) bool { return a.TotalLiquidity > b.TotalLiquidity },
	)
	l.Upsert(domain.LiveMarketEntry{ConditionID: "low", TotalLiquidity: 100})
	l.Upsert(domain.LiveMarketEntry{ConditionID: "high", TotalLiquidity: 9000})
	l.Upsert(domain.LiveMarketEntry{ConditionID: "mid", TotalLiquidity: 500})
	l.Upsert(domain.LiveMarketEntry{ConditionID: "tiny", TotalLiquidity: 10})

	// tiny queda fuera: es la de menor liquidez y la capacidad es 3.
	items := l.Items()
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, "high", items[0].ConditionID)
	assert.Equal(t, "mid", items[1].ConditionID)
	assert.Equal(t, "low", items[2].ConditionID)
}

func TestRankedList_ItemsReturnsCopy(t *testing.T) {
	l := newNearMissList(10)
	l.Upsert(domain.NearMiss{ConditionID: "a", Deviation: 0.03})

	items := l.Items()
	items[0].ConditionID = "mutated"
	assert.Equal(t, "a", l.Items()[0].ConditionID)
}
