package generation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/musebox/core/internal/models"
)

func TestGenerateTrackSuccess(t *testing.T) {
	db := newTestDB(t)
	s := newTestService(t, db)
	ctx := context.Background()

	src := seedSource(t, db, &models.SourceModel{})
	seedActivePrompts(t, db, models.TrackFacts)

	s.generate = func(ctx context.Context, promptText, sourceText string) ([]RawItem, error) {
		if !strings.Contains(sourceText, "Pacific") {
			t.Errorf("generator did not receive the source text")
		}
		return []RawItem{
			{"fact": "The Pacific covers about a third of Earth's surface."},
			{"fact": "The Mariana Trench is in the Pacific."},
			{"nonsense": "no recoverable text"},
		}, nil
	}

	result := s.GenerateTrack(ctx, src.ID, models.TrackFacts)
	if !result.Success {
		t.Fatalf("expected success, got message %q", result.Message)
	}
	if result.ItemCount != 2 {
		t.Errorf("ItemCount = %d, want 2 (one item rejected)", result.ItemCount)
	}

	var count int64
	db.Model(&models.FactModel{}).Where("source_id = ?", src.ID).Count(&count)
	if count != 2 {
		t.Errorf("persisted facts = %d, want 2", count)
	}

	var reloaded models.SourceModel
	db.Where("id = ?", src.ID).First(&reloaded)
	if !reloaded.UsedFor.Contains(models.TrackFacts) {
		t.Error("used_for was not updated after success")
	}

	// Second run is an idempotent skip, not a duplicate generation.
	second := s.GenerateTrack(ctx, src.ID, models.TrackFacts)
	if !second.Skipped {
		t.Fatalf("second run: expected skip, got %+v", second)
	}
	db.Model(&models.FactModel{}).Where("source_id = ?", src.ID).Count(&count)
	if count != 2 {
		t.Errorf("second run created rows: %d facts", count)
	}
}

func TestGenerateTrackNoActivePrompt(t *testing.T) {
	db := newTestDB(t)
	s := newTestService(t, db)

	src := seedSource(t, db, &models.SourceModel{})

	result := s.GenerateTrack(context.Background(), src.ID, models.TrackFacts)
	if result.Success || result.Skipped {
		t.Fatalf("expected failure, got %+v", result)
	}
	if !strings.Contains(result.Message, "no active prompt") {
		t.Errorf("message %q should name the missing prompt", result.Message)
	}
	if !strings.Contains(result.Message, models.TrackFacts) {
		t.Errorf("message %q should name the content type", result.Message)
	}
}

func TestGenerateTrackSourceMissing(t *testing.T) {
	db := newTestDB(t)
	s := newTestService(t, db)
	seedActivePrompts(t, db, models.TrackFacts)

	result := s.GenerateTrack(context.Background(), "missing-id", models.TrackFacts)
	if result.Success || result.Skipped {
		t.Fatalf("expected failure, got %+v", result)
	}
	if !strings.Contains(result.Message, "not found") {
		t.Errorf("message %q should say the source was not found", result.Message)
	}
}

func TestGenerateTrackZeroItems(t *testing.T) {
	db := newTestDB(t)
	s := newTestService(t, db)

	src := seedSource(t, db, &models.SourceModel{})
	seedActivePrompts(t, db, models.TrackFacts)

	s.generate = func(context.Context, string, string) ([]RawItem, error) {
		return []RawItem{}, nil
	}

	result := s.GenerateTrack(context.Background(), src.ID, models.TrackFacts)
	if result.Success || result.Skipped {
		t.Fatalf("expected failure, got %+v", result)
	}
	if !strings.Contains(result.Message, "no items generated") {
		t.Errorf("message %q should distinguish an empty result from a hard error", result.Message)
	}
}

func TestGenerateTrackGeneratorError(t *testing.T) {
	db := newTestDB(t)
	s := newTestService(t, db)

	src := seedSource(t, db, &models.SourceModel{})
	seedActivePrompts(t, db, models.TrackFacts)

	s.generate = func(context.Context, string, string) ([]RawItem, error) {
		return nil, errors.New("upstream exploded")
	}

	result := s.GenerateTrack(context.Background(), src.ID, models.TrackFacts)
	if result.Success {
		t.Fatal("expected failure")
	}
	if !strings.Contains(result.Message, "upstream exploded") {
		t.Errorf("generator error should surface verbatim, got %q", result.Message)
	}

	var count int64
	db.Model(&models.FactModel{}).Count(&count)
	if count != 0 {
		t.Error("nothing should be persisted after a generator error")
	}
}

func TestGenerateTrackAllItemsRejected(t *testing.T) {
	db := newTestDB(t)
	s := newTestService(t, db)

	src := seedSource(t, db, &models.SourceModel{})
	seedActivePrompts(t, db, models.TrackMultipleChoice)

	s.generate = func(context.Context, string, string) ([]RawItem, error) {
		return []RawItem{
			{"question": "Q1", "correct_answer": "A", "wrong_answers": []interface{}{"b", "c"}},
			{"question": "Q2", "bogus": true},
		}, nil
	}

	result := s.GenerateTrack(context.Background(), src.ID, models.TrackMultipleChoice)
	if result.Success || result.Skipped {
		t.Fatalf("expected validation failure, got %+v", result)
	}
	for _, want := range []string{"rejected", "question", "correct_answer", "wrong_answers", "sample item keys"} {
		if !strings.Contains(result.Message, want) {
			t.Errorf("message %q should contain %q", result.Message, want)
		}
	}

	var reloaded models.SourceModel
	db.Where("id = ?", src.ID).First(&reloaded)
	if reloaded.UsedFor.Contains(models.TrackMultipleChoice) {
		t.Error("used_for must not be marked when nothing was persisted")
	}
}

func TestGenerateTrackUnknownKey(t *testing.T) {
	db := newTestDB(t)
	s := newTestService(t, db)

	result := s.GenerateTrack(context.Background(), "src", "haiku")
	if result.Success {
		t.Fatal("expected failure for unknown track key")
	}
	if !strings.Contains(result.Message, "haiku") {
		t.Errorf("message %q should name the unknown key", result.Message)
	}
}
