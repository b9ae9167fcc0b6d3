package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/arbscan/internal/domain"
)

// Storage persiste los resultados de cada ciclo de escaneo.
type Storage interface {
	// SaveScan persiste el resumen del ciclo y las oportunidades aceptadas.
	SaveScan(ctx context.Context, stats domain.ScanCycleStats, opportunities []domain.Opportunity) error

	// GetHistory devuelve las oportunidades registradas en el rango de tiempo dado.
	GetHistory(ctx context.Context, from, to time.Time) ([]domain.Opportunity, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
