package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/govalues/decimal"
)

var allKeys = []string{
	"HTTP_ADDR", "DATABASE_URL", "SQLITE_PATH", "EXPORT_DIR", "KAFKA_BROKERS", "KAFKA_TOPIC",
	"KEYWORDS_FILE", "DEFAULT_CURRENCY", "VAT_RATE", "CLASSIFIER",
	"JWT_HS256_SECRET", "JWT_ISSUER", "JWT_AUDIENCE", "LOG_LEVEL", "LOG_FORMAT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
	// keep a stray .env in the package dir from leaking in
	t.Chdir(t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.Kafka.Topic != "entry_recorded" || cfg.Intake.DefaultCurrency != "SAR" {
		t.Fatalf("defaults: %+v", cfg)
	}
	if cfg.Intake.VATRate.Cmp(decimal.MustParse("0.15")) != 0 || cfg.Intake.Classifier != ClassifierKeyword {
		t.Fatalf("intake defaults: %+v", cfg.Intake)
	}
	if len(cfg.Kafka.Brokers) != 0 || cfg.Storage.DatabaseURL != "" {
		t.Fatalf("optional integrations should be off: %+v", cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,,")
	t.Setenv("DEFAULT_CURRENCY", "usd")
	t.Setenv("VAT_RATE", "0.05")
	t.Setenv("CLASSIFIER", "Keyword+Bayes")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "b:9092" {
		t.Fatalf("brokers: %v", cfg.Kafka.Brokers)
	}
	if cfg.Intake.DefaultCurrency != "USD" || cfg.Intake.Classifier != ClassifierKeywordBayes {
		t.Fatalf("intake: %+v", cfg.Intake)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	cases := map[string]string{
		"VAT_RATE":         "fifteen",
		"CLASSIFIER":       "neural",
		"DEFAULT_CURRENCY": "RIYAL",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, val)
			}
		})
	}
	t.Run("VAT_RATE range", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("VAT_RATE", "1.5")
		if _, err := Load(); err == nil {
			t.Fatalf("expected range error")
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides a variable that is already set, even to ""
	os.Unsetenv("HTTP_ADDR")
	os.Unsetenv("SQLITE_PATH")
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("HTTP_ADDR=:9999\nSQLITE_PATH=/tmp/books.db\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":9999" || cfg.Storage.SQLitePath != "/tmp/books.db" {
		t.Fatalf("env file values: %+v", cfg)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("expected error for missing env file")
	}
}
