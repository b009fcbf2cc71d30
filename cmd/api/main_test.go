package main

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

func TestBootstrapStorageFallsBackToMemoryWhenRedisIsDown(t *testing.T) {
	cfg := &config.Config{
		Persist: config.PersistConfig{Driver: config.PersistDriverRedis, Namespace: "persist:root"},
		Redis: config.RedisConfig{
			Address:      "127.0.0.1:1",
			PoolSize:     1,
			DialTimeout:  200 * time.Millisecond,
			ReadTimeout:  200 * time.Millisecond,
			WriteTimeout: 200 * time.Millisecond,
		},
	}
	reg := prometheus.NewRegistry()
	m := metrics.NewStoreMetrics(reg)

	backend, pingers, closeFn := bootstrapStorage(context.Background(), cfg, logger.Nop(), m)
	defer closeFn()

	if _, ok := backend.(*storage.Memory); !ok {
		t.Fatalf("expected memory fallback, got %T", backend)
	}
	if len(pingers) != 0 {
		t.Fatalf("expected no readiness pingers for the fallback, got %v", pingers)
	}
	if err := backend.Save(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("fallback store rejected a write: %v", err)
	}
	if got, err := testutil.GatherAndCount(reg, "storefront_persist_degraded_total"); err != nil || got != 1 {
		t.Fatalf("expected one degraded series, got %d (%v)", got, err)
	}
}

func TestBootstrapStorageUsesMemoryDriver(t *testing.T) {
	cfg := &config.Config{Persist: config.PersistConfig{Driver: config.PersistDriverMemory, Namespace: "persist:root"}}
	reg := prometheus.NewRegistry()

	backend, _, closeFn := bootstrapStorage(context.Background(), cfg, logger.Nop(), metrics.NewStoreMetrics(reg))
	defer closeFn()

	if _, ok := backend.(*storage.Memory); !ok {
		t.Fatalf("expected memory store, got %T", backend)
	}
	if got, err := testutil.GatherAndCount(reg, "storefront_persist_degraded_total"); err != nil || got != 0 {
		t.Fatalf("expected no degraded series, got %d (%v)", got, err)
	}
}

func TestConfigureWireFormatRendersPricesAsNumbers(t *testing.T) {
	prev := decimal.MarshalJSONWithoutQuotes
	t.Cleanup(func() { decimal.MarshalJSONWithoutQuotes = prev })

	configureWireFormat()
	raw, err := decimal.NewFromInt(45000).MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != "45000" {
		t.Fatalf("expected a bare number, got %s", raw)
	}
}
