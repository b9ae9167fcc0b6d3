package storage

// sqlite.go — histórico de escaneos sin ruido.
//
// Estrategia:
//   - `cycles`: resumen ligero por ciclo (mercados, oportunidades, mejor net%).
//     Siempre 1 fila por ciclo.
//   - `opportunities`: UNA fila por mercado (UPSERT por condition_id). Se
//     actualiza last_seen y el pico de net profit en cada re-aparición.
//   - Prune automático al arrancar: cycles > 30d, opportunities no vistas en 14d.

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/alejandrodnm/arbscan/internal/domain"
)

const schema = `
-- Resumen ligero por ciclo de scan
CREATE TABLE IF NOT EXISTS cycles (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    scanned_at      DATETIME NOT NULL,
    markets_scanned INTEGER  NOT NULL DEFAULT 0,
    opportunities   INTEGER  NOT NULL DEFAULT 0,
    best_net_pct    REAL     NOT NULL DEFAULT 0
);

-- Una fila por mercado, sin duplicados
CREATE TABLE IF NOT EXISTS opportunities (
    condition_id     TEXT PRIMARY KEY,
    record_id        TEXT NOT NULL,
    question         TEXT,
    category         TEXT,
    direction        TEXT NOT NULL,
    gross_profit_pct REAL NOT NULL DEFAULT 0,
    net_profit_pct   REAL NOT NULL DEFAULT 0,
    risk_score       INTEGER NOT NULL DEFAULT 0,
    risk_level       TEXT NOT NULL DEFAULT '',
    confidence       REAL NOT NULL DEFAULT 0,
    min_liquidity    REAL NOT NULL DEFAULT 0,
    recommended_size REAL NOT NULL DEFAULT 0,
    max_size         REAL NOT NULL DEFAULT 0,
    end_date         DATETIME,
    first_seen       DATETIME NOT NULL,
    last_seen        DATETIME NOT NULL,
    peak_net_pct     REAL NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_cycles_at ON cycles(scanned_at DESC);
CREATE INDEX IF NOT EXISTS idx_opp_last  ON opportunities(last_seen DESC);
CREATE INDEX IF NOT EXISTS idx_opp_net   ON opportunities(net_profit_pct DESC);
`

const (
	retentionCycles = 30 * 24 * time.Hour // ciclos: 30 días
	retentionOpps   = 14 * 24 * time.Hour // oportunidades: 14 días
)

// SQLiteStorage implementa ports.Storage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia datos antiguos.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveScan persiste el resumen del ciclo y hace upsert de las oportunidades.
func (s *SQLiteStorage) SaveScan(ctx context.Context, stats domain.ScanCycleStats, opportunities []domain.Opportunity) error {
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveScan: begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO cycles (scanned_at, markets_scanned, opportunities, best_net_pct)
		 VALUES (?, ?, ?, ?)`,
		now, stats.MarketsScanned, len(opportunities), stats.BestNetProfitPct,
	)
	if err != nil {
		return fmt.Errorf("storage.SaveScan: insert cycle: %w", err)
	}

	for _, opp := range opportunities {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO opportunities (
			    condition_id, record_id, question, category, direction,
			    gross_profit_pct, net_profit_pct, risk_score, risk_level,
			    confidence, min_liquidity, recommended_size, max_size,
			    end_date, first_seen, last_seen, peak_net_pct
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(condition_id) DO UPDATE SET
			    record_id        = excluded.record_id,
			    direction        = excluded.direction,
			    gross_profit_pct = excluded.gross_profit_pct,
			    net_profit_pct   = excluded.net_profit_pct,
			    risk_score       = excluded.risk_score,
			    risk_level       = excluded.risk_level,
			    confidence       = excluded.confidence,
			    min_liquidity    = excluded.min_liquidity,
			    recommended_size = excluded.recommended_size,
			    max_size         = excluded.max_size,
			    last_seen        = excluded.last_seen,
			    peak_net_pct     = MAX(peak_net_pct, excluded.peak_net_pct)`,
			opp.Market.ConditionID, opp.ID, opp.Market.Question, opp.Market.Category,
			opp.Pricing.Direction.String(),
			opp.GrossProfitPercent, opp.NetProfitPercent,
			opp.Risk.Score, string(opp.Risk.Level),
			opp.ConfidenceScore, opp.MinLiquidity, opp.RecommendedSize, opp.MaxSize,
			opp.Market.EndDate, opp.DiscoveredAt.UTC(), now, opp.NetProfitPercent,
		)
		if err != nil {
			return fmt.Errorf("storage.SaveScan: upsert %s: %w", opp.Market.ConditionID, err)
		}
	}

	return tx.Commit()
}

// GetHistory devuelve las oportunidades vistas en el rango [from, to],
// ordenadas por net profit descendente. Reconstruye los campos persistidos;
// los books y el pricing completo no se guardan.
func (s *SQLiteStorage) GetHistory(ctx context.Context, from, to time.Time) ([]domain.Opportunity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT condition_id, record_id, question, category, direction,
		        gross_profit_pct, net_profit_pct, risk_score, risk_level,
		        confidence, min_liquidity, recommended_size, max_size,
		        end_date, first_seen, last_seen
		 FROM opportunities
		 WHERE last_seen >= ? AND last_seen <= ?
		 ORDER BY net_profit_pct DESC`,
		from.UTC(), to.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("storage.GetHistory: query: %w", err)
	}
	defer rows.Close()

	var opps []domain.Opportunity
	for rows.Next() {
		var (
			opp       domain.Opportunity
			direction string
			level     string
			endDate   sql.NullTime
		)
		err := rows.Scan(
			&opp.Market.ConditionID, &opp.ID, &opp.Market.Question, &opp.Market.Category,
			&direction,
			&opp.GrossProfitPercent, &opp.NetProfitPercent,
			&opp.Risk.Score, &level,
			&opp.ConfidenceScore, &opp.MinLiquidity, &opp.RecommendedSize, &opp.MaxSize,
			&endDate, &opp.DiscoveredAt, &opp.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("storage.GetHistory: scan row: %w", err)
		}
		opp.Status = domain.StatusActive
		opp.Risk.Level = domain.RiskLevel(level)
		opp.Pricing.Direction = parseDirection(direction)
		opp.Pricing.GrossProfitPercent = opp.GrossProfitPercent
		if endDate.Valid {
			opp.Market.EndDate = endDate.Time
		}
		opps = append(opps, opp)
	}
	return opps, rows.Err()
}

// Close cierra la conexión limpiamente.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// pruneOld borra ciclos y oportunidades fuera de la ventana de retención.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	now := time.Now().UTC()

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM cycles WHERE scanned_at < ?`, now.Add(-retentionCycles)); err != nil {
		slog.Warn("storage prune cycles failed", "err", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM opportunities WHERE last_seen < ?`, now.Add(-retentionOpps)); err != nil {
		slog.Warn("storage prune opportunities failed", "err", err)
	}
}

// parseDirection convierte el string persistido a domain.Direction.
func parseDirection(s string) domain.Direction {
	switch s {
	case "BUY_BOTH":
		return domain.DirectionBuyBoth
	case "SELL_BOTH":
		return domain.DirectionSellBoth
	default:
		return domain.DirectionNone
	}
}
