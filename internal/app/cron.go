package app

import (
	"context"
	"time"

	"github.com/musebox/core/internal/models"
	pkgcron "github.com/musebox/core/internal/pkg/cron"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// registerCronJobs registers all scheduled background jobs. The
// auto-generate job fans out sources that were ingested with a
// suitability analysis but never processed, without operator
// interaction.
func registerCronJobs(sched *pkgcron.Scheduler, db *gorm.DB, d deps, logger *zap.Logger) {
	log := logger.Named("cron")

	interval := 60 * time.Minute
	if cfg, err := d.cfgSvc.Get(); err == nil && cfg.Generation.AutoGenerate.IntervalMinutes > 0 {
		interval = time.Duration(cfg.Generation.AutoGenerate.IntervalMinutes) * time.Minute
	}

	sched.Register(&pkgcron.Job{
		Name:     "auto_generate",
		Interval: interval,
		Enabled: func() bool {
			cfg, err := d.cfgSvc.Get()
			if err != nil {
				return false
			}
			return cfg.Generation.AutoGenerate.Enable
		},
		Run: func(ctx context.Context) error {
			cfg, err := d.cfgSvc.Get()
			if err != nil {
				return err
			}
			batchSize := cfg.Generation.AutoGenerate.BatchSize
			if batchSize <= 0 {
				batchSize = 5
			}

			var sources []models.SourceModel
			err = db.WithContext(ctx).
				Select("id").
				Where("status = ?", models.SourceStatusActive).
				Where("suitability IS NOT NULL AND suitability <> ?", "null").
				Where("used_for IS NULL OR used_for = ? OR used_for = ?", "[]", "").
				Order("created_at ASC").
				Limit(batchSize).
				Find(&sources).Error
			if err != nil {
				return err
			}
			if len(sources) == 0 {
				return nil
			}

			log.Info("auto-generate picked up sources", zap.Int("count", len(sources)))
			for _, src := range sources {
				result := d.generationSvc.ProcessSource(ctx, src.ID)
				log.Info("auto-generate fan-out finished",
					zap.String("source_id", src.ID),
					zap.Bool("success", result.Success),
					zap.Int("processed", result.TotalProcessed),
					zap.Int("skipped", result.TotalSkipped),
				)
			}
			return nil
		},
	})
}
