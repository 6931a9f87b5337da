package generation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/musebox/core/internal/models"
)

func TestProcessSourceNoAnalysis(t *testing.T) {
	db := newTestDB(t)
	s := newTestService(t, db)

	src := seedSource(t, db, &models.SourceModel{})

	result := s.ProcessSource(context.Background(), src.ID)
	if result.Success {
		t.Fatal("expected no success without an analysis")
	}
	if result.TotalProcessed != 0 {
		t.Errorf("TotalProcessed = %d, want 0", result.TotalProcessed)
	}
	if len(result.Skipped) != 1 {
		t.Fatalf("Skipped = %v, want a single entry", result.Skipped)
	}
	if !strings.Contains(result.Skipped[0].Reason, "no suitability analysis") {
		t.Errorf("reason %q should explain the missing analysis", result.Skipped[0].Reason)
	}
}

func TestProcessSourceNotActive(t *testing.T) {
	db := newTestDB(t)
	s := newTestService(t, db)

	src := seedSource(t, db, &models.SourceModel{
		Status: models.SourceStatusArchived,
		Suitability: models.SuitabilityMap{
			models.TrackFacts: {Suitable: true, Confidence: 0.9},
		},
	})

	result := s.ProcessSource(context.Background(), src.ID)
	if result.TotalProcessed != 0 || len(result.Skipped) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !strings.Contains(result.Skipped[0].Reason, "archived") {
		t.Errorf("reason %q should name the status", result.Skipped[0].Reason)
	}
}

func TestProcessSourceMissing(t *testing.T) {
	db := newTestDB(t)
	s := newTestService(t, db)

	result := s.ProcessSource(context.Background(), "nope")
	if result.TotalProcessed != 0 || len(result.Skipped) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !strings.Contains(result.Skipped[0].Reason, "not found") {
		t.Errorf("reason %q should say not found", result.Skipped[0].Reason)
	}
}

func TestProcessSourceConfidenceThreshold(t *testing.T) {
	db := newTestDB(t)
	s := newTestService(t, db)

	src := seedSource(t, db, &models.SourceModel{
		Suitability: models.SuitabilityMap{
			models.TrackFacts:  {Suitable: true, Confidence: 0.9},
			models.TrackWisdom: {Suitable: true, Confidence: 0.5},
		},
	})
	seedActivePrompts(t, db, models.TrackFacts)

	s.generate = func(context.Context, string, string) ([]RawItem, error) {
		return []RawItem{{"fact": "Generated fact."}}, nil
	}

	result := s.ProcessSource(context.Background(), src.ID)
	if !result.Success {
		t.Fatalf("expected batch success, got %+v", result)
	}
	if result.TotalProcessed != 1 {
		t.Fatalf("TotalProcessed = %d, want 1 (facts only)", result.TotalProcessed)
	}
	if result.Processed[0].TrackKey != models.TrackFacts {
		t.Errorf("processed %q, want facts", result.Processed[0].TrackKey)
	}

	var wisdomSkip *SkipEntry
	for i := range result.Skipped {
		if result.Skipped[i].TrackKey == models.TrackWisdom {
			wisdomSkip = &result.Skipped[i]
		}
	}
	if wisdomSkip == nil {
		t.Fatalf("wisdom missing from skipped: %+v", result.Skipped)
	}
	if !strings.Contains(wisdomSkip.Reason, "50% is below threshold 70%") {
		t.Errorf("reason %q should cite the percentages", wisdomSkip.Reason)
	}
}

func TestProcessSourceNotSuitableReason(t *testing.T) {
	db := newTestDB(t)
	s := newTestService(t, db)

	src := seedSource(t, db, &models.SourceModel{
		Suitability: models.SuitabilityMap{
			models.TrackFacts: {Suitable: false, Confidence: 0.9, Reasoning: "pure opinion, no facts"},
		},
	})

	result := s.ProcessSource(context.Background(), src.ID)
	if result.TotalProcessed != 0 {
		t.Fatalf("TotalProcessed = %d, want 0", result.TotalProcessed)
	}
	if len(result.Skipped) != 1 || !strings.Contains(result.Skipped[0].Reason, "not suitable") {
		t.Fatalf("skipped = %+v, want a not-suitable reason", result.Skipped)
	}
	if !strings.Contains(result.Skipped[0].Reason, "pure opinion") {
		t.Errorf("reason %q should carry the AI's reasoning", result.Skipped[0].Reason)
	}
}

func TestProcessSourceSequentialWithDelay(t *testing.T) {
	db := newTestDB(t)
	s := newTestService(t, db)

	src := seedSource(t, db, &models.SourceModel{
		Suitability: models.SuitabilityMap{
			models.TrackFacts:        {Suitable: true, Confidence: 0.9},
			models.TrackMotivational: {Suitable: true, Confidence: 0.8},
			models.TrackTrueFalse:    {Suitable: true, Confidence: 0.95},
		},
	})
	seedActivePrompts(t, db, models.TrackFacts, models.TrackMotivational, models.TrackTrueFalse)

	var sleeps []time.Duration
	s.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }

	inFlight := 0
	s.generate = func(context.Context, string, string) ([]RawItem, error) {
		inFlight++
		if inFlight != 1 {
			t.Error("generator calls overlapped")
		}
		defer func() { inFlight-- }()
		return []RawItem{
			{"fact": "x", "text": "x", "quote": "x", "question": "Is water wet?", "correct_answer": "yes"},
		}, nil
	}

	result := s.ProcessSource(context.Background(), src.ID)
	if result.TotalProcessed != 3 {
		t.Fatalf("TotalProcessed = %d, want 3: %+v", result.TotalProcessed, result)
	}

	// Delay between consecutive tracks, never after the last.
	if len(sleeps) != 2 {
		t.Fatalf("sleeps = %v, want exactly 2", sleeps)
	}
	for _, d := range sleeps {
		if d != 2*time.Second {
			t.Errorf("sleep = %v, want the default 2s", d)
		}
	}
}

func TestProcessSourceSecondRunSkipsSucceeded(t *testing.T) {
	db := newTestDB(t)
	s := newTestService(t, db)

	src := seedSource(t, db, &models.SourceModel{
		Suitability: models.SuitabilityMap{
			models.TrackFacts:  {Suitable: true, Confidence: 0.9},
			models.TrackWisdom: {Suitable: true, Confidence: 0.9},
		},
	})
	seedActivePrompts(t, db, models.TrackFacts, models.TrackWisdom)

	// The returned items normalize for facts but never for wisdom, so
	// facts succeeds and wisdom fails with a validation error.
	s.generate = func(ctx context.Context, promptText, sourceText string) ([]RawItem, error) {
		return []RawItem{{"fact": "x"}}, nil
	}

	first := s.ProcessSource(context.Background(), src.ID)
	if !first.Success {
		t.Fatalf("first run failed: %+v", first)
	}

	// facts persisted, wisdom failed (items unusable for wisdom).
	factsDone := false
	wisdomFailed := false
	for _, p := range first.Processed {
		switch p.TrackKey {
		case models.TrackFacts:
			factsDone = p.Success
		case models.TrackWisdom:
			wisdomFailed = !p.Success
		}
	}
	if !factsDone || !wisdomFailed {
		t.Fatalf("unexpected first run: %+v", first.Processed)
	}

	// Second run: facts skipped via the ledger, wisdom retried.
	second := s.ProcessSource(context.Background(), src.ID)
	for _, skip := range second.Skipped {
		if skip.TrackKey == models.TrackFacts && !strings.Contains(skip.Reason, "already generated") {
			t.Errorf("facts skip reason = %q", skip.Reason)
		}
	}
	retried := false
	for _, p := range second.Processed {
		if p.TrackKey == models.TrackWisdom {
			retried = true
		}
		if p.TrackKey == models.TrackFacts {
			t.Error("facts must not be processed again")
		}
	}
	if !retried {
		t.Errorf("wisdom should be retried after a non-persistence failure: %+v", second)
	}

	var count int64
	db.Model(&models.FactModel{}).Where("source_id = ?", src.ID).Count(&count)
	if count != 1 {
		t.Errorf("facts rows = %d, want 1 after two runs", count)
	}
}

func TestProcessSourcePartialFailureContinues(t *testing.T) {
	db := newTestDB(t)
	s := newTestService(t, db)

	src := seedSource(t, db, &models.SourceModel{
		Suitability: models.SuitabilityMap{
			models.TrackMultipleChoice: {Suitable: true, Confidence: 0.9},
			models.TrackFacts:          {Suitable: true, Confidence: 0.9},
		},
	})
	seedActivePrompts(t, db, models.TrackMultipleChoice, models.TrackFacts)

	calls := 0
	s.generate = func(context.Context, string, string) ([]RawItem, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("rate limited by provider")
		}
		return []RawItem{{"fact": "x"}}, nil
	}

	result := s.ProcessSource(context.Background(), src.ID)
	if calls != 2 {
		t.Fatalf("generator calls = %d, want 2 (failure must not abort the batch)", calls)
	}
	if !result.Success {
		t.Error("partial success is still batch success")
	}
	if result.TotalProcessed != 2 {
		t.Errorf("TotalProcessed = %d, want 2 (one failed, one succeeded)", result.TotalProcessed)
	}
}
