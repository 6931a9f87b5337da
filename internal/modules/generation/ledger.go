package generation

import (
	"context"

	"github.com/musebox/core/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Ledger answers "has this (source, content type) pair been generated
// already?" and records completions. Two signals exist: rows in the
// track's content table (primary) and the source's used_for list
// (secondary, written in a separate best-effort step). A pair counts as
// used when either signal says so.
type Ledger struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewLedger(db *gorm.DB, log *zap.Logger) *Ledger {
	return &Ledger{db: db, log: log.Named("ledger")}
}

// IsUsed reports whether content of the track's type already exists for
// the source. Query failures are logged and the failing signal treated
// as unused: an operator re-reviewing a duplicate beats being silently
// blocked by a transient read error.
func (l *Ledger) IsUsed(ctx context.Context, sourceID string, track *Track) bool {
	var count int64
	err := l.db.WithContext(ctx).Table(track.Table).
		Where("source_id = ? AND deleted_at IS NULL", sourceID).
		Count(&count).Error
	if err != nil {
		l.log.Warn("content-table usage lookup failed, treating as unused",
			zap.String("source_id", sourceID),
			zap.String("track", track.Key),
			zap.Error(err),
		)
	} else if count > 0 {
		return true
	}

	var src models.SourceModel
	if err := l.db.WithContext(ctx).Select("used_for").Where("id = ?", sourceID).First(&src).Error; err != nil {
		l.log.Warn("used_for lookup failed, treating as unused",
			zap.String("source_id", sourceID),
			zap.String("track", track.Key),
			zap.Error(err),
		)
		return false
	}
	return src.UsedFor.Contains(track.Key)
}

// MarkUsed appends the track key to the source's used_for list if
// absent. Idempotent; failures are logged and never surfaced — the
// persisted content rows are the durable record of success, this write
// is bookkeeping.
func (l *Ledger) MarkUsed(ctx context.Context, sourceID, trackKey string) {
	var src models.SourceModel
	if err := l.db.WithContext(ctx).Select("id", "used_for").Where("id = ?", sourceID).First(&src).Error; err != nil {
		l.log.Warn("mark-used read failed",
			zap.String("source_id", sourceID),
			zap.String("track", trackKey),
			zap.Error(err),
		)
		return
	}

	if src.UsedFor.Contains(trackKey) {
		return
	}

	updated := append(models.StringArray{}, src.UsedFor...)
	updated = append(updated, trackKey)
	if err := l.db.WithContext(ctx).Model(&models.SourceModel{}).Where("id = ?", sourceID).
		Update("used_for", updated).Error; err != nil {
		l.log.Warn("mark-used write failed",
			zap.String("source_id", sourceID),
			zap.String("track", trackKey),
			zap.Error(err),
		)
	}
}
