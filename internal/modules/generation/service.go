package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/musebox/core/internal/models"
	"github.com/musebox/core/internal/modules/ai"
	"github.com/musebox/core/internal/modules/configs"
	"github.com/musebox/core/internal/modules/prompt"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrSourceNotFound = errors.New("source not found")

// GeneratorFunc produces raw items from a prompt and source text. The
// default implementation calls the configured AI provider; tests swap
// it out.
type GeneratorFunc func(ctx context.Context, promptText, sourceText string) ([]RawItem, error)

// TrackResult is the outcome of one single-track generation run.
type TrackResult struct {
	TrackKey    string        `json:"track_key"`
	ContentType string        `json:"content_type"`
	Success     bool          `json:"success"`
	Skipped     bool          `json:"skipped"`
	Message     string        `json:"message"`
	ItemCount   int           `json:"item_count"`
	Items       []interface{} `json:"items,omitempty"`
}

// Service owns the single-track generation flow and the fan-out built
// on top of it. Exactly one code path (GenerateTrack) can create
// content items; that is what keeps the ledger's guarantee sound.
type Service struct {
	db      *gorm.DB
	aiSvc   *ai.Client
	prompts *prompt.Service
	cfgSvc  *configs.Service
	ledger  *Ledger
	log     *zap.Logger

	generate GeneratorFunc
	sleep    func(time.Duration)
}

func NewService(db *gorm.DB, aiClient *ai.Client, prompts *prompt.Service, cfgSvc *configs.Service, log *zap.Logger) *Service {
	s := &Service{
		db:      db,
		aiSvc:   aiClient,
		prompts: prompts,
		cfgSvc:  cfgSvc,
		ledger:  NewLedger(db, log),
		log:     log.Named("generation"),
		sleep:   time.Sleep,
	}
	s.generate = s.generateViaAI
	return s
}

func (s *Service) generateViaAI(ctx context.Context, promptText, sourceText string) ([]RawItem, error) {
	raw, err := s.aiSvc.Complete(ctx, ai.UseGeneration, promptText, "<<<CONTENT\n"+sourceText+"\nCONTENT")
	if err != nil {
		return nil, err
	}
	parsed, err := ai.ParseItemsEnvelope(raw)
	if err != nil {
		return nil, err
	}
	items := make([]RawItem, len(parsed))
	for i, p := range parsed {
		items[i] = RawItem(p)
	}
	return items, nil
}

// GenerateTrack runs the full single-track flow for one (source, track)
// pair: ledger check, prompt load, source load, generator call,
// normalize+validate every item, batch persist, mark used.
func (s *Service) GenerateTrack(ctx context.Context, sourceID, trackKey string) TrackResult {
	track := TrackByKey(trackKey)
	if track == nil {
		return failure(trackKey, trackKey, fmt.Sprintf("unknown content type %q", trackKey))
	}
	result := TrackResult{TrackKey: track.Key, ContentType: track.Label}

	if s.ledger.IsUsed(ctx, sourceID, track) {
		result.Skipped = true
		result.Message = "already generated for this source"
		return result
	}

	promptText, err := s.prompts.Active(ctx, track.Key)
	if err != nil {
		result.Message = err.Error()
		return result
	}

	var src models.SourceModel
	err = s.db.WithContext(ctx).Select("id", "content").Where("id = ?", sourceID).First(&src).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		result.Message = ErrSourceNotFound.Error()
		return result
	}
	if err != nil {
		result.Message = fmt.Sprintf("load source: %v", err)
		return result
	}
	if strings.TrimSpace(src.Content) == "" {
		result.Message = "source has no usable text"
		return result
	}

	items, err := s.generate(ctx, promptText, src.Content)
	if err != nil {
		result.Message = err.Error()
		return result
	}
	if len(items) == 0 {
		result.Message = "no items generated: the model produced nothing for this source"
		return result
	}

	records := make([]interface{}, 0, len(items))
	rejected := 0
	var sampleRejected RawItem
	for _, item := range items {
		record := track.Normalize(item, sourceID)
		if record == nil || (track.Validate != nil && !track.Validate(record)) {
			rejected++
			if sampleRejected == nil {
				sampleRejected = item
			}
			continue
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		result.Message = fmt.Sprintf(
			"all %d items rejected by validation; required fields: %s; sample item keys: %s",
			rejected,
			strings.Join(track.RequiredFields, ", "),
			itemKeys(sampleRejected),
		)
		return result
	}

	if err := track.Insert(ctx, s.db, records); err != nil {
		result.Message = fmt.Sprintf("persist batch: %v", err)
		return result
	}

	s.ledger.MarkUsed(ctx, sourceID, track.Key)

	if rejected > 0 {
		s.log.Info("some items rejected during normalization",
			zap.String("source_id", sourceID),
			zap.String("track", track.Key),
			zap.Int("accepted", len(records)),
			zap.Int("rejected", rejected),
		)
	}

	result.Success = true
	result.ItemCount = len(records)
	result.Items = records
	result.Message = fmt.Sprintf("generated %d items", len(records))
	return result
}

func failure(trackKey, contentType, message string) TrackResult {
	return TrackResult{TrackKey: trackKey, ContentType: contentType, Message: message}
}
