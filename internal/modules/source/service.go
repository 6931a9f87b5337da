package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/musebox/core/internal/models"
	"github.com/musebox/core/internal/modules/ai"
	"github.com/musebox/core/internal/modules/configs"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("source not found")
	ErrEmptyContent   = errors.New("source content is empty")
	ErrContentTooLong = errors.New("source content exceeds the configured maximum length")
)

// Service runs the ingestion pipeline and owns source lifecycle changes.
type Service struct {
	db     *gorm.DB
	ai     *ai.Client
	cfgSvc *configs.Service
	log    *zap.Logger
}

func NewService(db *gorm.DB, aiClient *ai.Client, cfgSvc *configs.Service, log *zap.Logger) *Service {
	return &Service{db: db, ai: aiClient, cfgSvc: cfgSvc, log: log.Named("source")}
}

type metadataResult struct {
	Theme    string   `json:"theme"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Summary  string   `json:"summary"`
}

type enrichmentResult struct {
	Title      string   `json:"title"`
	KeyPhrases []string `json:"key_phrases"`
}

// Ingest normalizes pasted text, derives metadata and enrichment through
// the AI, optionally runs the suitability analysis, and persists one
// active source.
func (s *Service) Ingest(ctx context.Context, rawContent string) (*models.SourceModel, error) {
	content := NormalizeText(rawContent)
	if content == "" {
		return nil, ErrEmptyContent
	}

	cfg, err := s.cfgSvc.Get()
	if err != nil {
		return nil, err
	}
	if max := cfg.Ingest.MaxContentLength; max > 0 && len([]rune(content)) > max {
		return nil, fmt.Errorf("%w (%d characters, max %d)", ErrContentTooLong, len([]rune(content)), max)
	}

	meta, err := s.deriveMetadata(ctx, content)
	if err != nil {
		return nil, err
	}

	src := &models.SourceModel{
		Content: content,
		Theme:   meta.Theme,
		Tags:    models.StringArray(meta.Tags),
		Summary: meta.Summary,
		Status:  models.SourceStatusActive,
		UsedFor: models.StringArray{},
	}
	if meta.Category != "" {
		category := meta.Category
		src.Category = &category
	}

	// Enrichment is best-effort: a missing title never blocks ingestion.
	if enrich, err := s.deriveEnrichment(ctx, content); err != nil {
		s.log.Warn("enrichment call failed, falling back to derived title", zap.Error(err))
		src.Title = fallbackTitle(content)
	} else {
		src.Title = enrich.Title
		src.KeyPhrases = models.StringArray(enrich.KeyPhrases)
	}

	if cfg.Ingest.AnalyzeSuitability {
		if suitability, err := s.deriveSuitability(ctx, content); err != nil {
			s.log.Warn("suitability analysis failed at ingestion, source can be analyzed later", zap.Error(err))
		} else {
			src.Suitability = suitability
		}
	}

	if err := s.db.WithContext(ctx).Create(src).Error; err != nil {
		return nil, fmt.Errorf("persist source: %w", err)
	}

	s.log.Info("source ingested",
		zap.String("id", src.ID),
		zap.String("theme", src.Theme),
		zap.Int("suitability_entries", len(src.Suitability)),
	)
	return src, nil
}

func (s *Service) deriveMetadata(ctx context.Context, content string) (*metadataResult, error) {
	system, prompt := buildMetadataPrompt(content)
	raw, err := s.ai.Complete(ctx, ai.UseMetadata, system, prompt)
	if err != nil {
		return nil, fmt.Errorf("metadata call: %w", err)
	}

	var meta metadataResult
	if err := ai.UnmarshalResponse(raw, &meta); err != nil {
		return nil, fmt.Errorf("metadata call: %w", err)
	}

	meta.Theme = strings.ToLower(strings.TrimSpace(meta.Theme))
	if !models.IsValidTheme(meta.Theme) {
		fallback := models.SourceThemes[0]
		s.log.Warn("AI returned an unknown theme, falling back",
			zap.String("theme", meta.Theme),
			zap.String("fallback", fallback),
		)
		meta.Theme = fallback
	}

	meta.Category = strings.ToLower(strings.TrimSpace(meta.Category))
	if meta.Category != "" && !models.IsValidCategory(meta.Theme, meta.Category) {
		s.log.Warn("AI returned a category outside the theme's allowed list, dropping",
			zap.String("theme", meta.Theme),
			zap.String("category", meta.Category),
		)
		meta.Category = ""
	}

	meta.Summary = strings.TrimSpace(meta.Summary)
	if meta.Summary == "" {
		return nil, errors.New("metadata call: summary is empty in AI response")
	}

	meta.Tags = cleanStrings(meta.Tags)
	return &meta, nil
}

func (s *Service) deriveEnrichment(ctx context.Context, content string) (*enrichmentResult, error) {
	system, prompt := buildEnrichmentPrompt(content)
	raw, err := s.ai.Complete(ctx, ai.UseEnrichment, system, prompt)
	if err != nil {
		return nil, err
	}

	var enrich enrichmentResult
	if err := ai.UnmarshalResponse(raw, &enrich); err != nil {
		return nil, err
	}

	enrich.Title = strings.TrimSpace(enrich.Title)
	if enrich.Title == "" {
		return nil, errors.New("title is empty in AI response")
	}
	enrich.KeyPhrases = cleanStrings(enrich.KeyPhrases)
	return &enrich, nil
}

func (s *Service) deriveSuitability(ctx context.Context, content string) (models.SuitabilityMap, error) {
	system, prompt := buildSuitabilityPrompt(content)
	raw, err := s.ai.Complete(ctx, ai.UseSuitability, system, prompt)
	if err != nil {
		return nil, err
	}

	parsed := map[string]models.SuitabilityEntry{}
	if err := ai.UnmarshalResponse(raw, &parsed); err != nil {
		return nil, err
	}

	// Keep only the known content types and clamp confidences.
	out := models.SuitabilityMap{}
	for _, key := range models.SuitabilityTrackKeys {
		entry, ok := parsed[key]
		if !ok {
			continue
		}
		if entry.Confidence < 0 {
			entry.Confidence = 0
		}
		if entry.Confidence > 1 {
			entry.Confidence = 1
		}
		out[key] = entry
	}
	if len(out) == 0 {
		return nil, errors.New("suitability response contained no known content types")
	}
	return out, nil
}

// RefreshMetadata re-runs the metadata call for an existing source and
// updates theme, category, tags and summary in place.
func (s *Service) RefreshMetadata(ctx context.Context, id string) (*models.SourceModel, error) {
	src, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	meta, err := s.deriveMetadata(ctx, src.Content)
	if err != nil {
		return nil, err
	}

	src.Theme = meta.Theme
	src.Category = nil
	if meta.Category != "" {
		category := meta.Category
		src.Category = &category
	}
	src.Tags = models.StringArray(meta.Tags)
	src.Summary = meta.Summary

	updates := map[string]interface{}{
		"theme":    src.Theme,
		"category": src.Category,
		"tags":     src.Tags,
		"summary":  src.Summary,
	}
	if err := s.db.WithContext(ctx).Model(&models.SourceModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("persist refreshed metadata: %w", err)
	}
	return src, nil
}

// Analyze runs (or re-runs) the suitability analysis for a source.
func (s *Service) Analyze(ctx context.Context, id string) (*models.SourceModel, error) {
	src, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	suitability, err := s.deriveSuitability(ctx, src.Content)
	if err != nil {
		return nil, fmt.Errorf("suitability call: %w", err)
	}

	src.Suitability = suitability
	if err := s.db.WithContext(ctx).Model(&models.SourceModel{}).Where("id = ?", id).
		Update("suitability", src.Suitability).Error; err != nil {
		return nil, fmt.Errorf("persist suitability: %w", err)
	}
	return src, nil
}

// Get loads one source by id.
func (s *Service) Get(ctx context.Context, id string) (*models.SourceModel, error) {
	var src models.SourceModel
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&src).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &src, nil
}

// ListQuery filters the source listing.
type ListQuery struct {
	Theme  string
	Status string
}

// ListScope returns the filtered query for the pagination helper.
func (s *Service) ListScope(ctx context.Context, q ListQuery) *gorm.DB {
	tx := s.db.WithContext(ctx).Model(&models.SourceModel{}).Order("created_at DESC")
	if q.Theme != "" {
		tx = tx.Where("theme = ?", q.Theme)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	return tx
}

// Archive retires a source from the fan-out without deleting it.
func (s *Service) Archive(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, models.SourceStatusArchived)
}

// Restore returns an archived source to active.
func (s *Service) Restore(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, models.SourceStatusActive)
}

func (s *Service) setStatus(ctx context.Context, id, status string) error {
	result := s.db.WithContext(ctx).Model(&models.SourceModel{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}

func fallbackTitle(content string) string {
	line := content
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	words := strings.Fields(line)
	if len(words) > 10 {
		words = words[:10]
	}
	return strings.Join(words, " ")
}
