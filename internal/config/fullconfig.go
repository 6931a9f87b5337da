package config

import (
	"encoding/json"
	"strings"
)

// FullConfig is the application config stored in the database
// (options table, key="configs"). Operators edit it through the
// configs API; the startup YAML only covers what is needed before
// the database is reachable.
type FullConfig struct {
	AI         AIConfig          `json:"ai"`
	Generation GenerationOptions `json:"generation"`
	Ingest     IngestOptions     `json:"ingest"`
}

// AIConfig lists providers and per-use model assignments.
type AIConfig struct {
	Providers        []AIProvider       `json:"providers"`
	MetadataModel    *AIModelAssignment `json:"metadata_model,omitempty"`
	EnrichmentModel  *AIModelAssignment `json:"enrichment_model,omitempty"`
	SuitabilityModel *AIModelAssignment `json:"suitability_model,omitempty"`
	GenerationModel  *AIModelAssignment `json:"generation_model,omitempty"`
}

type AIProvider struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"` // OpenAI | OpenAI-Compatible | Anthropic | OpenRouter
	APIKey       string `json:"api_key"`
	Endpoint     string `json:"endpoint,omitempty"`
	DefaultModel string `json:"default_model"`
	Enabled      bool   `json:"enabled"`
}

type AIModelAssignment struct {
	ProviderID string `json:"provider_id"`
	Model      string `json:"model"`
}

func (a *AIModelAssignment) UnmarshalJSON(data []byte) error {
	var raw struct {
		ProviderID      string `json:"provider_id"`
		ProviderIDCamel string `json:"providerId"`
		Model           string `json:"model"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	a.ProviderID = strings.TrimSpace(raw.ProviderID)
	if a.ProviderID == "" {
		a.ProviderID = strings.TrimSpace(raw.ProviderIDCamel)
	}
	a.Model = strings.TrimSpace(raw.Model)
	return nil
}

// GenerationOptions control the content generation fan-out.
type GenerationOptions struct {
	// MinConfidence is the suitability threshold a track must meet to
	// qualify for batch generation (0..1).
	MinConfidence float64 `json:"min_confidence"`
	// TrackDelaySeconds is the pause between consecutive track
	// generations within one fan-out. Sequential calls with a fixed
	// delay are the throttling strategy against provider rate limits.
	TrackDelaySeconds int                 `json:"track_delay_seconds"`
	AutoGenerate      AutoGenerateOptions `json:"auto_generate"`
}

// AutoGenerateOptions control the background job that fans out
// never-used analyzed sources without operator interaction.
type AutoGenerateOptions struct {
	Enable          bool `json:"enable"`
	BatchSize       int  `json:"batch_size"`
	IntervalMinutes int  `json:"interval_minutes"`
}

// IngestOptions control the source ingestion pipeline.
type IngestOptions struct {
	// AnalyzeSuitability runs the suitability analysis call at
	// ingestion time. Sources ingested without it cannot be fanned out
	// until analyzed explicitly.
	AnalyzeSuitability bool `json:"analyze_suitability"`
	MaxContentLength   int  `json:"max_content_length"`
}

// DefaultFullConfig returns sensible defaults for a fresh install.
func DefaultFullConfig() FullConfig {
	return FullConfig{
		AI: AIConfig{
			Providers: []AIProvider{},
		},
		Generation: GenerationOptions{
			MinConfidence:     0.7,
			TrackDelaySeconds: 2,
			AutoGenerate: AutoGenerateOptions{
				Enable:          false,
				BatchSize:       5,
				IntervalMinutes: 60,
			},
		},
		Ingest: IngestOptions{
			AnalyzeSuitability: true,
			MaxContentLength:   20000,
		},
	}
}
