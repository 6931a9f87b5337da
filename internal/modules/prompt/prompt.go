package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/musebox/core/internal/models"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("prompt not found")
	// ErrNoActivePrompt is a per-track configuration error: generation for
	// that track cannot run until an operator activates a prompt.
	ErrNoActivePrompt = errors.New("no active prompt configured")
)

// Service manages per-track prompt texts.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Active returns the active prompt text for a track.
func (s *Service) Active(ctx context.Context, trackKey string) (string, error) {
	var p models.PromptModel
	err := s.db.WithContext(ctx).
		Where("track_key = ? AND active = ?", trackKey, true).
		Order("updated_at DESC").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("%w for content type %q", ErrNoActivePrompt, trackKey)
	}
	if err != nil {
		return "", err
	}
	return p.Text, nil
}

// Create stores a new prompt. The first prompt for a track becomes
// active automatically.
func (s *Service) Create(ctx context.Context, trackKey, name, text string) (*models.PromptModel, error) {
	trackKey = strings.TrimSpace(trackKey)
	if !isKnownTrackKey(trackKey) {
		return nil, fmt.Errorf("unknown content type %q", trackKey)
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("prompt text is required")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.PromptModel{}).
		Where("track_key = ?", trackKey).Count(&count).Error; err != nil {
		return nil, err
	}

	p := &models.PromptModel{
		TrackKey: trackKey,
		Name:     strings.TrimSpace(name),
		Text:     text,
		Active:   count == 0,
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// Update changes a prompt's name and text.
func (s *Service) Update(ctx context.Context, id, name, text string) (*models.PromptModel, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(name) != "" {
		p.Name = strings.TrimSpace(name)
	}
	if strings.TrimSpace(text) != "" {
		p.Text = text
	}
	if err := s.db.WithContext(ctx).Model(&models.PromptModel{}).Where("id = ?", id).
		Updates(map[string]interface{}{"name": p.Name, "text": p.Text}).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// Activate makes one prompt the active one for its track, deactivating
// every sibling in the same transaction.
func (s *Service) Activate(ctx context.Context, id string) (*models.PromptModel, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PromptModel{}).
			Where("track_key = ? AND id <> ?", p.TrackKey, p.ID).
			Update("active", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.PromptModel{}).Where("id = ?", p.ID).
			Update("active", true).Error
	})
	if err != nil {
		return nil, err
	}
	p.Active = true
	return p, nil
}

// Get loads one prompt by id.
func (s *Service) Get(ctx context.Context, id string) (*models.PromptModel, error) {
	var p models.PromptModel
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns prompts, optionally filtered by track key.
func (s *Service) List(ctx context.Context, trackKey string) ([]models.PromptModel, error) {
	tx := s.db.WithContext(ctx).Model(&models.PromptModel{}).Order("track_key, created_at DESC")
	if trackKey != "" {
		tx = tx.Where("track_key = ?", trackKey)
	}
	var prompts []models.PromptModel
	if err := tx.Find(&prompts).Error; err != nil {
		return nil, err
	}
	return prompts, nil
}

// Delete removes a prompt.
func (s *Service) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PromptModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func isKnownTrackKey(key string) bool {
	switch key {
	case models.TrackWisdom, models.TrackGreeting, models.TrackMotivational,
		models.TrackFacts, models.TrackMultipleChoice, models.TrackTrueFalse,
		models.TrackWhoAmI:
		return true
	}
	return false
}
