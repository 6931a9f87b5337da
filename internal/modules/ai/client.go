package ai

import (
	"context"
	"strings"

	appcfg "github.com/musebox/core/internal/config"
	"github.com/musebox/core/internal/modules/configs"
	"go.uber.org/zap"
)

// Model uses. Each resolves to a provider assignment in the config so
// operators can route cheap analysis calls and expensive generation calls
// to different models.
const (
	UseMetadata    = "metadata"
	UseEnrichment  = "enrichment"
	UseSuitability = "suitability"
	UseGeneration  = "generation"
)

var maxTokensByUse = map[string]int{
	UseMetadata:    1024,
	UseEnrichment:  1024,
	UseSuitability: 1536,
	UseGeneration:  4096,
}

// Client issues completions against the configured AI providers.
type Client struct {
	configs *configs.Service
	log     *zap.Logger
}

func NewClient(cfgSvc *configs.Service, log *zap.Logger) *Client {
	return &Client{configs: cfgSvc, log: log.Named("ai")}
}

// Complete sends a prompt to the provider assigned to the given use and
// returns the raw text response. Errors are classified so callers can
// test errors.Is(err, ErrRateLimited).
func (c *Client) Complete(ctx context.Context, use, systemPrompt, prompt string) (string, error) {
	cfg, err := c.configs.Get()
	if err != nil {
		return "", err
	}

	provider := selectProvider(cfg.AI, c.assignmentFor(cfg, use))
	if provider == nil {
		return "", ErrNoProvider
	}

	maxTokens := maxTokensByUse[use]
	if maxTokens == 0 {
		maxTokens = 1024
	}

	raw, err := callProvider(ctx, provider, systemPrompt, prompt, maxTokens)
	if err != nil {
		err = classifyError(err)
		c.log.Warn("AI call failed",
			zap.String("use", use),
			zap.String("provider", provider.ID),
			zap.String("model", provider.DefaultModel),
			zap.Error(err),
		)
		return "", err
	}

	if strings.TrimSpace(raw) == "" {
		return "", ErrEmptyResponse
	}
	return raw, nil
}

func (c *Client) assignmentFor(cfg *appcfg.FullConfig, use string) *appcfg.AIModelAssignment {
	switch use {
	case UseMetadata:
		return cfg.AI.MetadataModel
	case UseEnrichment:
		return cfg.AI.EnrichmentModel
	case UseSuitability:
		return cfg.AI.SuitabilityModel
	case UseGeneration:
		return cfg.AI.GenerationModel
	default:
		return nil
	}
}
