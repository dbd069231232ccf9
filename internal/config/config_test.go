package config

import (
	"strings"
	"testing"

	"github.com/jpashop-api/internal/constants"

	"github.com/spf13/viper"
)

func TestDecodeAppliesDefaults(t *testing.T) {
	cfg, err := decode(viper.New())
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("driver want sqlite got %s", cfg.Database.Driver)
	}
	if cfg.Fetch.BatchSize != constants.DefaultBatchFetchSize {
		t.Fatalf("batch size want %d got %d", constants.DefaultBatchFetchSize, cfg.Fetch.BatchSize)
	}
	if cfg.Fetch.MaxResults != constants.DefaultMaxResults {
		t.Fatalf("max results want %d got %d", constants.DefaultMaxResults, cfg.Fetch.MaxResults)
	}
	if cfg.Queue.Queues[constants.QueueDefault] != 10 {
		t.Fatalf("default queue weight want 10 got %v", cfg.Queue.Queues)
	}
	if cfg.Database.UsePgxProjection() {
		t.Fatalf("sqlite should never use pgx projection")
	}
}

func TestDecodeReadsYAMLAndNormalizes(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	yaml := `
database:
  driver: PostgreSQL
  dsn: postgres://localhost/jpashop
  native_projection: true
fetch:
  batch_size: 0
  max_results: 50
`
	if err := v.ReadConfig(strings.NewReader(yaml)); err != nil {
		t.Fatalf("read yaml failed: %v", err)
	}
	cfg, err := decode(v)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cfg.Database.Driver != "postgres" {
		t.Fatalf("driver want postgres got %s", cfg.Database.Driver)
	}
	if !cfg.Database.UsePgxProjection() {
		t.Fatalf("postgres with native_projection should use pgx")
	}
	if cfg.Fetch.BatchSize != constants.DefaultBatchFetchSize {
		t.Fatalf("zero batch size should fall back to default, got %d", cfg.Fetch.BatchSize)
	}
	if cfg.Fetch.MaxResults != 50 {
		t.Fatalf("max results want 50 got %d", cfg.Fetch.MaxResults)
	}
}
