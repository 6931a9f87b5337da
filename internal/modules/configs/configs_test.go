package configs

import (
	"encoding/json"
	"testing"

	"github.com/musebox/core/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.OptionModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestGetReturnsDefaultsOnFreshInstall(t *testing.T) {
	svc := NewService(newTestDB(t))

	cfg, err := svc.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cfg.Generation.MinConfidence != 0.7 {
		t.Errorf("MinConfidence = %v, want 0.7", cfg.Generation.MinConfidence)
	}
	if cfg.Generation.TrackDelaySeconds != 2 {
		t.Errorf("TrackDelaySeconds = %v, want 2", cfg.Generation.TrackDelaySeconds)
	}
	if !cfg.Ingest.AnalyzeSuitability {
		t.Error("AnalyzeSuitability should default to true")
	}
}

func TestPatchDeepMergesAndPersists(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	partial := map[string]json.RawMessage{
		"generation": json.RawMessage(`{"min_confidence": 0.85}`),
	}
	updated, err := svc.Patch(partial)
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if updated.Generation.MinConfidence != 0.85 {
		t.Errorf("MinConfidence = %v, want 0.85", updated.Generation.MinConfidence)
	}
	// Sibling fields survive the merge.
	if updated.Generation.TrackDelaySeconds != 2 {
		t.Errorf("TrackDelaySeconds = %v, want untouched default 2", updated.Generation.TrackDelaySeconds)
	}

	// A fresh service sees the persisted value, not the defaults.
	fresh := NewService(db)
	cfg, err := fresh.Get()
	if err != nil {
		t.Fatalf("Get after patch: %v", err)
	}
	if cfg.Generation.MinConfidence != 0.85 {
		t.Errorf("persisted MinConfidence = %v, want 0.85", cfg.Generation.MinConfidence)
	}
}

func TestPatchReplacesArraysWhole(t *testing.T) {
	svc := NewService(newTestDB(t))

	_, err := svc.Patch(map[string]json.RawMessage{
		"ai": json.RawMessage(`{"providers":[{"id":"p1","type":"openai","api_key":"k","enabled":true}]}`),
	})
	if err != nil {
		t.Fatalf("first patch: %v", err)
	}

	updated, err := svc.Patch(map[string]json.RawMessage{
		"ai": json.RawMessage(`{"providers":[{"id":"p2","type":"anthropic","api_key":"k2","enabled":true}]}`),
	})
	if err != nil {
		t.Fatalf("second patch: %v", err)
	}
	if len(updated.AI.Providers) != 1 || updated.AI.Providers[0].ID != "p2" {
		t.Errorf("providers = %+v, want replaced as a whole by p2", updated.AI.Providers)
	}
}

func TestInvalidateForcesReload(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	if _, err := svc.Get(); err != nil {
		t.Fatalf("Get: %v", err)
	}

	// Another writer changes the row behind the cache.
	other := NewService(db)
	if _, err := other.Patch(map[string]json.RawMessage{
		"generation": json.RawMessage(`{"min_confidence": 0.95}`),
	}); err != nil {
		t.Fatalf("Patch: %v", err)
	}

	cfg, _ := svc.Get()
	if cfg.Generation.MinConfidence != 0.7 {
		t.Fatalf("expected stale cache before Invalidate, got %v", cfg.Generation.MinConfidence)
	}

	svc.Invalidate()
	cfg, err := svc.Get()
	if err != nil {
		t.Fatalf("Get after invalidate: %v", err)
	}
	if cfg.Generation.MinConfidence != 0.95 {
		t.Errorf("MinConfidence = %v, want reloaded 0.95", cfg.Generation.MinConfidence)
	}
}
