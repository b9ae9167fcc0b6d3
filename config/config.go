package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del scanner.
type Config struct {
	Scanner ScannerConfig `yaml:"scanner"`
	API     APIConfig     `yaml:"api"`
	Alerts  AlertConfig   `yaml:"alerts"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// ScannerConfig controla el comportamiento del scanner.
// Los fees (1% taker + 0.002 gas) son política fija del builder y
// deliberadamente no se exponen aquí.
type ScannerConfig struct {
	IntervalMs        int      `yaml:"interval_ms"`
	MinProfitPercent  float64  `yaml:"min_profit_percent"`
	MaxRiskScore      int      `yaml:"max_risk_score"`
	MinLiquidity      float64  `yaml:"min_liquidity"` // 0 = sin mínimo
	IncludeCategories []string `yaml:"include_categories"`
	ExcludeCategories []string `yaml:"exclude_categories"`
}

// APIConfig contiene el base URL de la API.
type APIConfig struct {
	CLOBBase string `yaml:"clob_base"`
}

// AlertConfig controla el alert gate y sus canales.
type AlertConfig struct {
	CooldownSeconds int    `yaml:"cooldown_seconds"`
	TelegramToken   string `yaml:"telegram_token"`   // normalmente vía TELEGRAM_TOKEN
	TelegramChatID  string `yaml:"telegram_chat_id"` // normalmente vía TELEGRAM_CHAT_ID
}

// StorageConfig controla dónde se persisten los datos.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// ScanInterval devuelve el intervalo de escaneo como time.Duration.
func (c *Config) ScanInterval() time.Duration {
	return time.Duration(c.Scanner.IntervalMs) * time.Millisecond
}

// AlertCooldown devuelve la ventana de cooldown como time.Duration.
func (c *Config) AlertCooldown() time.Duration {
	return time.Duration(c.Alerts.CooldownSeconds) * time.Second
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		cfg.Alerts.TelegramToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Alerts.TelegramChatID = v
	}
	if v := os.Getenv("SCAN_EXCLUDE_CATEGORIES"); v != "" {
		cfg.Scanner.ExcludeCategories = splitList(v)
	}
	if v := os.Getenv("SCAN_INCLUDE_CATEGORIES"); v != "" {
		cfg.Scanner.IncludeCategories = splitList(v)
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Scanner.IntervalMs <= 0 {
		cfg.Scanner.IntervalMs = 30000
	}
	if cfg.Scanner.MinProfitPercent <= 0 {
		cfg.Scanner.MinProfitPercent = 0.5
	}
	if cfg.Scanner.MaxRiskScore <= 0 || cfg.Scanner.MaxRiskScore > 10 {
		cfg.Scanner.MaxRiskScore = 7
	}
	if cfg.Alerts.CooldownSeconds <= 0 {
		cfg.Alerts.CooldownSeconds = 60
	}
	if cfg.API.CLOBBase == "" {
		cfg.API.CLOBBase = "https://clob.polymarket.com"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "arbscan.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// splitList parsea una lista separada por comas.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
