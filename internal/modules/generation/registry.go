package generation

import (
	"context"

	"github.com/musebox/core/internal/models"
	"gorm.io/gorm"
)

// RawItem is one loosely-typed record from the AI's items envelope.
type RawItem map[string]interface{}

// Track binds a content-type key to everything the single-track flow
// needs: how to normalize raw items into a typed record, how to validate
// them, and where they are persisted. Adding a content type is adding
// one entry here; the flow and the fan-out never change.
type Track struct {
	Key   string
	Label string

	// SuitabilityKey selects this track's entry in a source's suitability
	// analysis. Empty for tracks that are interactive-only and never part
	// of the batch fan-out.
	SuitabilityKey string

	// RequiredFields names the logical fields the normalizer must
	// recover; used in all-rejected error summaries.
	RequiredFields []string

	// Table is the persistence target, used by the usage ledger's
	// primary-signal lookup.
	Table string

	// Normalize maps one raw item to a typed create-record, or nil when
	// mandatory fields cannot be recovered.
	Normalize func(item RawItem, sourceID string) interface{}

	// Validate re-checks a normalized record. Optional; a record failing
	// validation is treated exactly like a normalizer rejection.
	Validate func(record interface{}) bool

	// Insert writes the whole batch in one create.
	Insert func(ctx context.Context, db *gorm.DB, records []interface{}) error
}

// Tracks returns the registry in canonical order.
func Tracks() []*Track {
	return []*Track{
		{
			Key:            models.TrackWisdom,
			Label:          "wisdom",
			SuitabilityKey: models.TrackWisdom,
			RequiredFields: []string{"musing", "pull_quote", "theme"},
			Table:          models.WisdomModel{}.TableName(),
			Normalize:      normalizeWisdom,
			Validate:       validateWisdom,
			Insert:         insertBatch[models.WisdomModel],
		},
		{
			Key:            models.TrackGreeting,
			Label:          "greeting",
			SuitabilityKey: "",
			RequiredFields: []string{"text"},
			Table:          models.GreetingModel{}.TableName(),
			Normalize:      normalizeGreeting,
			Insert:         insertBatch[models.GreetingModel],
		},
		{
			Key:            models.TrackMotivational,
			Label:          "motivational quote",
			SuitabilityKey: models.TrackMotivational,
			RequiredFields: []string{"text"},
			Table:          models.QuoteModel{}.TableName(),
			Normalize:      normalizeQuote,
			Insert:         insertBatch[models.QuoteModel],
		},
		{
			Key:            models.TrackFacts,
			Label:          "fact",
			SuitabilityKey: models.TrackFacts,
			RequiredFields: []string{"text"},
			Table:          models.FactModel{}.TableName(),
			Normalize:      normalizeFact,
			Insert:         insertBatch[models.FactModel],
		},
		{
			Key:            models.TrackMultipleChoice,
			Label:          "multiple-choice trivia",
			SuitabilityKey: models.TrackMultipleChoice,
			RequiredFields: []string{"question", "correct_answer", "wrong_answers"},
			Table:          models.MultipleChoiceModel{}.TableName(),
			Normalize:      normalizeMultipleChoice,
			Validate:       validateMultipleChoice,
			Insert:         insertBatch[models.MultipleChoiceModel],
		},
		{
			Key:            models.TrackTrueFalse,
			Label:          "true/false trivia",
			SuitabilityKey: models.TrackTrueFalse,
			RequiredFields: []string{"question", "correct_answer"},
			Table:          models.TrueFalseModel{}.TableName(),
			Normalize:      normalizeTrueFalse,
			Insert:         insertBatch[models.TrueFalseModel],
		},
		{
			Key:            models.TrackWhoAmI,
			Label:          "who-am-i trivia",
			SuitabilityKey: models.TrackWhoAmI,
			RequiredFields: []string{"question", "correct_answer"},
			Table:          models.WhoAmIModel{}.TableName(),
			Normalize:      normalizeWhoAmI,
			Insert:         insertBatch[models.WhoAmIModel],
		},
	}
}

// TrackByKey returns the track for a content-type key, or nil.
func TrackByKey(key string) *Track {
	for _, track := range Tracks() {
		if track.Key == key {
			return track
		}
	}
	return nil
}

// insertBatch persists all records in a single create. Records must be
// *T as produced by the track's normalizer.
func insertBatch[T any](ctx context.Context, db *gorm.DB, records []interface{}) error {
	batch := make([]T, 0, len(records))
	for _, record := range records {
		typed, ok := record.(*T)
		if !ok {
			continue
		}
		batch = append(batch, *typed)
	}
	return db.WithContext(ctx).Create(&batch).Error
}
