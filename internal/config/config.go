// Package config loads service configuration from environment variables and
// an optional .env file.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/govalues/decimal"
	"github.com/joho/godotenv"
)

// Classifier modes.
const (
	ClassifierKeyword      = "keyword"
	ClassifierKeywordBayes = "keyword+bayes"
)

// Config represents the service configuration.
type Config struct {
	HTTPAddr string
	Storage  StorageConfig
	Kafka    KafkaConfig
	Intake   IntakeConfig
	Auth     AuthConfig
	Log      LogConfig
}

// StorageConfig selects the session persistence adapter. DatabaseURL wins
// over SQLitePath; with neither the session is memory only.
type StorageConfig struct {
	DatabaseURL string
	SQLitePath  string
	// ExportDir, when set, receives a CSV per ledger at shutdown.
	ExportDir string
}

// KafkaConfig enables entry-recorded events when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// IntakeConfig tunes classification and extraction.
type IntakeConfig struct {
	KeywordsFile    string
	DefaultCurrency string
	VATRate         decimal.Decimal
	Classifier      string
}

// AuthConfig enables HS256 bearer tokens when Secret is set.
type AuthConfig struct {
	Secret   string
	Issuer   string
	Audience string
}

// LogConfig is read by the logger builder in cmd.
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables.
// It loads .env from the current directory if present, or the given path.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Ignore a missing .env in the working directory
		_ = godotenv.Load()
	}

	vat, err := decimal.Parse(getEnvOrDefault("VAT_RATE", "0.15"))
	if err != nil {
		return nil, fmt.Errorf("invalid VAT_RATE: %w", err)
	}
	if vat.Sign() < 0 || vat.Cmp(decimal.One) > 0 {
		return nil, fmt.Errorf("invalid VAT_RATE: %s is outside [0, 1]", vat)
	}

	mode := strings.ToLower(getEnvOrDefault("CLASSIFIER", ClassifierKeyword))
	switch mode {
	case ClassifierKeyword, ClassifierKeywordBayes:
	default:
		return nil, fmt.Errorf("invalid CLASSIFIER: %q (want %s or %s)", mode, ClassifierKeyword, ClassifierKeywordBayes)
	}

	cur := strings.ToUpper(getEnvOrDefault("DEFAULT_CURRENCY", "SAR"))
	if len(cur) != 3 {
		return nil, fmt.Errorf("invalid DEFAULT_CURRENCY: %q", cur)
	}

	cfg := &Config{
		HTTPAddr: getEnvOrDefault("HTTP_ADDR", ":8080"),
		Storage: StorageConfig{
			DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
			SQLitePath:  strings.TrimSpace(os.Getenv("SQLITE_PATH")),
			ExportDir:   strings.TrimSpace(os.Getenv("EXPORT_DIR")),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnvOrDefault("KAFKA_TOPIC", "entry_recorded"),
		},
		Intake: IntakeConfig{
			KeywordsFile:    strings.TrimSpace(os.Getenv("KEYWORDS_FILE")),
			DefaultCurrency: cur,
			VATRate:         vat,
			Classifier:      mode,
		},
		Auth: AuthConfig{
			Secret:   os.Getenv("JWT_HS256_SECRET"),
			Issuer:   os.Getenv("JWT_ISSUER"),
			Audience: os.Getenv("JWT_AUDIENCE"),
		},
		Log: LogConfig{
			Level:  os.Getenv("LOG_LEVEL"),
			Format: strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT"))),
		},
	}
	return cfg, nil
}

// getEnvOrDefault returns the trimmed value of key or def when unset or blank.
func getEnvOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
