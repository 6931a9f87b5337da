package generation

import (
	"context"
	"fmt"
	"time"

	"github.com/musebox/core/internal/models"
	"go.uber.org/zap"
)

// SkipEntry records why a content type was not generated in a fan-out.
type SkipEntry struct {
	TrackKey    string `json:"track_key"`
	ContentType string `json:"content_type"`
	Reason      string `json:"reason"`
}

// BatchResult aggregates one fan-out run over a source.
type BatchResult struct {
	Success        bool          `json:"success"`
	SourceID       string        `json:"source_id"`
	Processed      []TrackResult `json:"processed"`
	Skipped        []SkipEntry   `json:"skipped"`
	TotalProcessed int           `json:"total_processed"`
	TotalSkipped   int           `json:"total_skipped"`
}

// ProcessSource fans a source out to every content type its suitability
// analysis qualifies: suitable with confidence at or above the
// configured minimum. Qualifying tracks run strictly sequentially with
// a fixed delay between consecutive runs — the throttling strategy
// against provider rate limits. A single track's failure is recorded
// and the loop continues; the batch only aborts before starting when
// the source or its analysis cannot be loaded at all.
func (s *Service) ProcessSource(ctx context.Context, sourceID string) BatchResult {
	result := BatchResult{SourceID: sourceID, Processed: []TrackResult{}, Skipped: []SkipEntry{}}

	minConfidence, delay := s.fanoutSettings()

	var src models.SourceModel
	if err := s.db.WithContext(ctx).Where("id = ?", sourceID).First(&src).Error; err != nil {
		result.Skipped = append(result.Skipped, SkipEntry{Reason: "source not found"})
		result.TotalSkipped = len(result.Skipped)
		return result
	}
	if src.Status != models.SourceStatusActive {
		result.Skipped = append(result.Skipped, SkipEntry{
			Reason: fmt.Sprintf("source status is %q, only active sources are processed", src.Status),
		})
		result.TotalSkipped = len(result.Skipped)
		return result
	}
	if len(src.Suitability) == 0 {
		result.Skipped = append(result.Skipped, SkipEntry{
			Reason: "source has no suitability analysis; run analysis first",
		})
		result.TotalSkipped = len(result.Skipped)
		return result
	}

	first := true
	for _, key := range models.SuitabilityTrackKeys {
		entry, ok := src.Suitability[key]
		if !ok {
			continue
		}
		track := TrackByKey(key)
		if track == nil || track.SuitabilityKey == "" {
			continue
		}

		if !entry.Suitable {
			result.Skipped = append(result.Skipped, SkipEntry{
				TrackKey:    track.Key,
				ContentType: track.Label,
				Reason:      fmt.Sprintf("not suitable: %s", entry.Reasoning),
			})
			continue
		}
		if entry.Confidence < minConfidence {
			result.Skipped = append(result.Skipped, SkipEntry{
				TrackKey:    track.Key,
				ContentType: track.Label,
				Reason: fmt.Sprintf("confidence %.0f%% is below threshold %.0f%%",
					entry.Confidence*100, minConfidence*100),
			})
			continue
		}

		if !first {
			s.sleep(delay)
		}
		first = false

		trackResult := s.GenerateTrack(ctx, sourceID, track.Key)
		if trackResult.Skipped {
			result.Skipped = append(result.Skipped, SkipEntry{
				TrackKey:    track.Key,
				ContentType: track.Label,
				Reason:      trackResult.Message,
			})
			continue
		}
		result.Processed = append(result.Processed, trackResult)
		if trackResult.Success {
			result.Success = true
		} else {
			s.log.Warn("track failed during fan-out",
				zap.String("source_id", sourceID),
				zap.String("track", track.Key),
				zap.String("message", trackResult.Message),
			)
		}
	}

	result.TotalProcessed = len(result.Processed)
	result.TotalSkipped = len(result.Skipped)
	return result
}

func (s *Service) fanoutSettings() (minConfidence float64, delay time.Duration) {
	minConfidence = 0.7
	delay = 2 * time.Second

	cfg, err := s.cfgSvc.Get()
	if err != nil {
		s.log.Warn("config unavailable, using fan-out defaults", zap.Error(err))
		return minConfidence, delay
	}
	if cfg.Generation.MinConfidence > 0 {
		minConfidence = cfg.Generation.MinConfidence
	}
	if cfg.Generation.TrackDelaySeconds > 0 {
		delay = time.Duration(cfg.Generation.TrackDelaySeconds) * time.Second
	}
	return minConfidence, delay
}
