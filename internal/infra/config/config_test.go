package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "HTTP_ADDR", "STORAGE_MODE", "MONGO_URI", "MONGO_DB",
		"KAFKA_BROKERS", "KAFKA_TOPIC_PREFIX", "CORS_ORIGINS",
		"IDEMP_TTL", "OUTBOX_POLL_INTERVAL", "RETRY_BACKOFF", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Env != "dev" || cfg.HTTPAddr != ":8080" {
		t.Errorf("Env = %q, HTTPAddr = %q", cfg.Env, cfg.HTTPAddr)
	}
	if cfg.StorageMode != StorageMemory {
		t.Errorf("StorageMode = %q, want %q", cfg.StorageMode, StorageMemory)
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Errorf("KafkaBrokers = %v, want empty", cfg.KafkaBrokers)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.IdempotencyTTL != 168*time.Hour {
		t.Errorf("IdempotencyTTL = %v", cfg.IdempotencyTTL)
	}
	if cfg.OutboxPollInterval != 500*time.Millisecond {
		t.Errorf("OutboxPollInterval = %v", cfg.OutboxPollInterval)
	}
	want := []time.Duration{time.Second, 5 * time.Second, 30 * time.Second}
	if len(cfg.RetryBackoff) != len(want) {
		t.Fatalf("RetryBackoff = %v, want %v", cfg.RetryBackoff, want)
	}
	for i := range want {
		if cfg.RetryBackoff[i] != want[i] {
			t.Errorf("RetryBackoff[%d] = %v, want %v", i, cfg.RetryBackoff[i], want[i])
		}
	}
}

func TestLoadMongoRequiresURI(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_MODE", "mongo")

	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want MONGO_URI requirement")
	}

	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.StorageMode != StorageMongo || cfg.MongoDB != "rentify" {
		t.Errorf("StorageMode = %q, MongoDB = %q", cfg.StorageMode, cfg.MongoDB)
	}
}

func TestLoadUnknownStorageMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_MODE", "postgres")

	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want unknown mode rejected")
	}
}

func TestLoadListsAndDurations(t *testing.T) {
	clearEnv(t)
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092 ,")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("RETRY_BACKOFF", "250ms, 2s")
	t.Setenv("OUTBOX_POLL_INTERVAL", "1s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "kafka-2:9092" {
		t.Errorf("KafkaBrokers = %v", cfg.KafkaBrokers)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if len(cfg.RetryBackoff) != 2 || cfg.RetryBackoff[0] != 250*time.Millisecond || cfg.RetryBackoff[1] != 2*time.Second {
		t.Errorf("RetryBackoff = %v", cfg.RetryBackoff)
	}
	if cfg.OutboxPollInterval != time.Second {
		t.Errorf("OutboxPollInterval = %v", cfg.OutboxPollInterval)
	}
}

func TestLoadBadDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("RETRY_BACKOFF", "1s,banana")

	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want parse failure")
	}
}
