package scanner

// scanner.go — orquestador del loop de escaneo.
//
// Single-flight: un trigger que llega mientras un ciclo está en curso se
// descarta, no se encola. Es backpressure deliberado hacia el upstream, no
// un bug. Dentro de un batch el fetch es concurrente; entre batches hay un
// delay fijo para no saturar la API. Toda la mutación de las colecciones
// compartidas ocurre en la fase secuencial posterior al join del batch.

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync/atomic"
	"time"

	"github.com/alejandrodnm/arbscan/internal/domain"
	"github.com/alejandrodnm/arbscan/internal/ports"
)

const (
	batchSize       = 8
	interBatchDelay = 120 * time.Millisecond

	// Un mercado es near-miss si su ask combinado se desvía de 1.00 por
	// (0, nearMissMaxDeviation] y no llegó a ser oportunidad.
	nearMissMaxDeviation = 0.05

	defaultMaxOpportunities = 100
	defaultMaxNearMisses    = 25
	defaultMaxLiveMarkets   = 50
)

// Config contiene la configuración del scanner.
type Config struct {
	ScanInterval time.Duration
	Builder      BuilderConfig

	// Filtros de categoría. Si un mercado matchea ambos, exclude gana.
	IncludeCategories []string
	ExcludeCategories []string

	// Capacidades de las ventanas rodantes (0 = defaults).
	MaxOpportunities int
	MaxNearMisses    int
	MaxLiveMarkets   int

	// OnOpportunity se dispara una vez por oportunidad aceptada o
	// actualizada por ciclo. Lo consume el alert gate.
	OnOpportunity func(domain.Opportunity)
}

// DefaultConfig devuelve una configuración razonable para producción.
func DefaultConfig() Config {
	return Config{
		ScanInterval: 30 * time.Second,
		Builder: BuilderConfig{
			MinProfitPercent: 0.5,
			MaxRiskScore:     7,
		},
	}
}

// State es el snapshot del estado del scanner para colaboradores de display.
type State struct {
	Opportunities []domain.Opportunity // rankeadas por net profit desc
	NearMisses    []domain.NearMiss    // por desviación asc
	LiveMarkets   []domain.LiveMarketEntry // por liquidez desc
	Stats         domain.ScanCycleStats
	Scanning      bool
}

// Scanner es el orquestador del ciclo de escaneo. Es el dueño exclusivo del
// conjunto de oportunidades, la watchlist de near-misses, el feed de mercados
// por liquidez y los contadores; ningún otro componente los muta.
type Scanner struct {
	cfg      Config
	markets  ports.MarketProvider
	books    ports.BookProvider
	storage  ports.Storage
	notifier ports.Notifier
	now      func() time.Time

	scanning      atomic.Bool
	opportunities []domain.Opportunity // working set en orden de ranking
	nearMisses    *rankedList[domain.NearMiss]
	liveMarkets   *rankedList[domain.LiveMarketEntry]
	stats         domain.ScanCycleStats
}

// New crea un Scanner con todas las dependencias inyectadas.
// storage y notifier pueden ser nil (se omiten).
func New(cfg Config, markets ports.MarketProvider, books ports.BookProvider, storage ports.Storage, notifier ports.Notifier) *Scanner {
	if cfg.MaxOpportunities <= 0 {
		cfg.MaxOpportunities = defaultMaxOpportunities
	}
	if cfg.MaxNearMisses <= 0 {
		cfg.MaxNearMisses = defaultMaxNearMisses
	}
	if cfg.MaxLiveMarkets <= 0 {
		cfg.MaxLiveMarkets = defaultMaxLiveMarkets
	}

	s := &Scanner{
		cfg:      cfg,
		markets:  markets,
		books:    books,
		storage:  storage,
		notifier: notifier,
		now:      time.Now,
		nearMisses: newRankedList(cfg.MaxNearMisses,
			func(n domain.NearMiss) string { return n.ConditionID },
			func(a, b domain.NearMiss) bool { return a.Deviation < b.Deviation },
		),
		liveMarkets: newRankedList(cfg.MaxLiveMarkets,
			func(e domain.LiveMarketEntry) string { return e.ConditionID },
			func(a, b domain.LiveMarketEntry) bool { return a.TotalLiquidity > b.TotalLiquidity },
		),
	}
	s.stats.StartedAt = s.now()
	return s
}

// SetClock reemplaza el reloj del scanner. Solo para tests.
func (s *Scanner) SetClock(now func() time.Time) {
	s.now = now
}

// Run ejecuta el loop de escaneo hasta que el contexto se cancele.
func (s *Scanner) Run(ctx context.Context) error {
	slog.Info("scanner starting",
		"interval", s.cfg.ScanInterval,
		"min_profit_pct", s.cfg.Builder.MinProfitPercent,
		"max_risk_score", s.cfg.Builder.MaxRiskScore,
	)

	s.Scan(ctx)

	ticker := time.NewTicker(s.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scanner stopped")
			return nil
		case <-ticker.C:
			s.Scan(ctx)
		}
	}
}

// Scan dispara un ciclo de escaneo. Si ya hay un ciclo en curso, el trigger
// se descarta y devuelve false (single-flight).
func (s *Scanner) Scan(ctx context.Context) bool {
	if !s.scanning.CompareAndSwap(false, true) {
		slog.Debug("scan already in progress, trigger dropped")
		return false
	}
	defer s.scanning.Store(false)

	s.runCycle(ctx)
	return true
}

// RunOnce ejecuta exactamente un ciclo y devuelve las oportunidades rankeadas.
func (s *Scanner) RunOnce(ctx context.Context) []domain.Opportunity {
	s.Scan(ctx)
	return s.Snapshot().Opportunities
}

// Snapshot devuelve el estado actual para colaboradores de display.
func (s *Scanner) Snapshot() State {
	opps := make([]domain.Opportunity, len(s.opportunities))
	copy(opps, s.opportunities)
	return State{
		Opportunities: opps,
		NearMisses:    s.nearMisses.Items(),
		LiveMarkets:   s.liveMarkets.Items(),
		Stats:         s.stats,
		Scanning:      s.scanning.Load(),
	}
}

// marketEval es el resultado del fetch concurrente de los books de un mercado.
type marketEval struct {
	market  domain.Market
	yesBook ports.BookResult
	noBook  ports.BookResult
}

// runCycle ejecuta un ciclo completo: fetch → evaluate → aggregate → emit.
func (s *Scanner) runCycle(ctx context.Context) {
	start := s.now()

	markets, err := s.markets.FetchActiveMarkets(ctx)
	if err != nil {
		// Catálogo caído: el ciclo continúa con cero mercados, nunca es fatal.
		slog.Warn("market catalog unavailable, scanning zero markets", "err", err)
		markets = nil
	}

	filtered := s.filterMarkets(markets)

	accepted := 0
	batches := splitBatches(filtered, batchSize)
	for i, batch := range batches {
		evals := s.fetchBatch(ctx, batch)
		// Fase secuencial: toda la mutación de colecciones ocurre aquí,
		// después del join de los fetches concurrentes.
		for _, ev := range evals {
			if s.evaluate(ev) {
				accepted++
			}
		}

		// Delay entre batches: backpressure hacia la API, no corrección.
		if i < len(batches)-1 {
			select {
			case <-time.After(interBatchDelay):
			case <-ctx.Done():
			}
		}
	}

	s.rankAndEvict()
	now := s.now()

	s.stats.TotalScans++
	s.stats.MarketsScanned = len(filtered)
	s.stats.OpportunitiesFound += accepted
	s.stats.LastScanAt = now
	for _, o := range s.opportunities {
		if o.NetProfitPercent > s.stats.BestNetProfitPct {
			s.stats.BestNetProfitPct = o.NetProfitPercent
		}
	}

	s.emit(ctx)

	slog.Info("scan cycle complete",
		"markets", len(filtered),
		"opportunities", len(s.opportunities),
		"accepted_this_cycle", accepted,
		"near_misses", s.nearMisses.Len(),
		"duration", s.now().Sub(start).Round(time.Millisecond),
	)
}

// filterMarkets deja solo los mercados analizables que pasan los filtros de
// categoría. Exclude tiene precedencia sobre include.
func (s *Scanner) filterMarkets(markets []domain.Market) []domain.Market {
	out := make([]domain.Market, 0, len(markets))
	for _, m := range markets {
		if !m.Analyzable() {
			continue
		}
		if matchesCategory(m.Category, s.cfg.ExcludeCategories) {
			continue
		}
		if len(s.cfg.IncludeCategories) > 0 && !matchesCategory(m.Category, s.cfg.IncludeCategories) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func matchesCategory(category string, list []string) bool {
	return slices.Contains(list, category)
}

// splitBatches divide los mercados en slices de tamaño máximo size.
func splitBatches(markets []domain.Market, size int) [][]domain.Market {
	if size <= 0 {
		size = batchSize
	}
	batches := make([][]domain.Market, 0, (len(markets)+size-1)/size)
	for i := 0; i < len(markets); i += size {
		end := i + size
		if end > len(markets) {
			end = len(markets)
		}
		batches = append(batches, markets[i:end])
	}
	return batches
}

// fetchBatch obtiene los books de todos los mercados del batch en paralelo.
// Los resultados vuelven en el orden del batch para que el agregado sea
// determinista aunque el fetch no lo sea.
func (s *Scanner) fetchBatch(ctx context.Context, batch []domain.Market) []marketEval {
	evals := make([]marketEval, len(batch))
	done := make(chan int, len(batch))

	for i, m := range batch {
		go func(i int, m domain.Market) {
			evals[i] = marketEval{
				market:  m,
				yesBook: s.books.FetchOrderBook(ctx, m.YesToken().TokenID),
				noBook:  s.books.FetchOrderBook(ctx, m.NoToken().TokenID),
			}
			done <- i
		}(i, m)
	}
	for range batch {
		<-done
	}
	return evals
}

// evaluate procesa un mercado ya fetcheado: actualiza el feed de mercados,
// intenta construir la oportunidad y mantiene la watchlist de near-misses.
// Devuelve true si el mercado produjo (o refrescó) una oportunidad.
func (s *Scanner) evaluate(ev marketEval) bool {
	if !ev.yesBook.Usable() || !ev.noBook.Usable() {
		slog.Debug("market skipped, books unusable",
			"condition_id", ev.market.ConditionID,
			"yes", ev.yesBook.Status.String(),
			"no", ev.noBook.Status.String(),
		)
		return false
	}

	pricing, err := domain.AnalyzePricing(ev.yesBook.Book, ev.noBook.Book)
	if err != nil {
		slog.Debug("market skipped, pricing unusable",
			"condition_id", ev.market.ConditionID, "err", err)
		return false
	}

	now := s.now()

	// Todo mercado analizable entra al feed por liquidez, sea oportunidad o no.
	s.liveMarkets.Upsert(domain.LiveMarketEntry{
		ConditionID:    ev.market.ConditionID,
		Question:       ev.market.Question,
		Category:       ev.market.Category,
		CombinedAsk:    pricing.CombinedAsk,
		TotalLiquidity: ev.yesBook.Book.TotalLiquidity() + ev.noBook.Book.TotalLiquidity(),
		SeenAt:         now,
	})

	opp, ok := Build(ev.market, ev.yesBook.Book, ev.noBook.Book, s.cfg.Builder, now)
	if ok {
		s.upsertOpportunity(opp)
		return true
	}

	if dev := pricing.Deviation(); dev > 0 && dev <= nearMissMaxDeviation {
		s.nearMisses.Upsert(domain.NearMiss{
			ConditionID: ev.market.ConditionID,
			Question:    ev.market.Question,
			CombinedAsk: pricing.CombinedAsk,
			Deviation:   dev,
			SeenAt:      now,
		})
	}
	return false
}

// upsertOpportunity inserta o reemplaza por ConditionID. El reemplazo
// conserva la posición y el DiscoveredAt original: es una actualización del
// mismo registro, no un duplicado.
func (s *Scanner) upsertOpportunity(opp domain.Opportunity) {
	for i := range s.opportunities {
		if s.opportunities[i].Market.ConditionID == opp.Market.ConditionID {
			opp.ID = s.opportunities[i].ID
			opp.DiscoveredAt = s.opportunities[i].DiscoveredAt
			s.opportunities[i] = opp
			return
		}
	}
	s.opportunities = append(s.opportunities, opp)
}

// rankAndEvict ordena el working set por net profit descendente (empates
// conservan el orden de descubrimiento) y expulsa los registros más viejos
// por encima de la capacidad.
func (s *Scanner) rankAndEvict() {
	sort.SliceStable(s.opportunities, func(i, j int) bool {
		return s.opportunities[i].NetProfitPercent > s.opportunities[j].NetProfitPercent
	})

	for len(s.opportunities) > s.cfg.MaxOpportunities {
		oldest := 0
		for i := range s.opportunities {
			if s.opportunities[i].DiscoveredAt.Before(s.opportunities[oldest].DiscoveredAt) {
				oldest = i
			}
		}
		s.opportunities = append(s.opportunities[:oldest], s.opportunities[oldest+1:]...)
	}
}

// emit entrega el estado del ciclo a los colaboradores: callback por
// oportunidad, notifier de display y storage. Ningún fallo aquí es fatal.
func (s *Scanner) emit(ctx context.Context) {
	if s.cfg.OnOpportunity != nil {
		for _, opp := range s.opportunities {
			s.cfg.OnOpportunity(opp)
		}
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, s.Snapshot().Opportunities); err != nil {
			slog.Warn("notifier error", "err", err)
		}
	}

	if s.storage != nil {
		if err := s.storage.SaveScan(ctx, s.stats, s.opportunities); err != nil {
			slog.Warn("storage error", "err", err)
		}
	}
}

// Describe devuelve un resumen de una línea del estado, útil en logs.
func (s *Scanner) Describe() string {
	return fmt.Sprintf("scans=%d markets=%d opps=%d best=%.3f%%",
		s.stats.TotalScans, s.stats.MarketsScanned,
		len(s.opportunities), s.stats.BestNetProfitPct)
}
