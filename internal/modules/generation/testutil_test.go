package generation

import (
	"context"
	"testing"
	"time"

	"github.com/musebox/core/internal/database"
	"github.com/musebox/core/internal/models"
	"github.com/musebox/core/internal/modules/configs"
	"github.com/musebox/core/internal/modules/prompt"
	"go.uber.org/zap"
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
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// newTestService wires a Service against sqlite with a fake generator.
// Tests assign s.generate and s.sleep as needed.
func newTestService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	log := zap.NewNop()
	cfgSvc := configs.NewService(db)
	promptSvc := prompt.NewService(db)
	s := NewService(db, nil, promptSvc, cfgSvc, log)
	s.sleep = func(d time.Duration) {}
	return s
}

func seedSource(t *testing.T, db *gorm.DB, src *models.SourceModel) *models.SourceModel {
	t.Helper()
	if src.Content == "" {
		src.Content = "The Pacific Ocean is the largest and deepest of Earth's five oceans."
	}
	if src.Theme == "" {
		src.Theme = "nature"
	}
	if src.Summary == "" {
		src.Summary = "Facts about the Pacific Ocean."
	}
	if src.Status == "" {
		src.Status = models.SourceStatusActive
	}
	if err := db.Create(src).Error; err != nil {
		t.Fatalf("seed source: %v", err)
	}
	return src
}

func seedActivePrompts(t *testing.T, db *gorm.DB, trackKeys ...string) {
	t.Helper()
	svc := prompt.NewService(db)
	for _, key := range trackKeys {
		if _, err := svc.Create(context.Background(), key, "default", "Generate items."); err != nil {
			t.Fatalf("seed prompt for %s: %v", key, err)
		}
	}
}
