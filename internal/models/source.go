package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Source lifecycle statuses. Only active sources participate in the
// generation fan-out.
const (
	SourceStatusActive   = "active"
	SourceStatusArchived = "archived"
)

// SourceThemes is the closed set of themes a source may be tagged with.
var SourceThemes = []string{
	"nature",
	"science",
	"history",
	"philosophy",
	"relationships",
	"work",
	"health",
	"creativity",
	"spirituality",
	"travel",
	"food",
	"sport",
	"technology",
}

// AllowedCategories lists the valid categories per theme. A source's
// category, when present, must belong to its theme's list.
var AllowedCategories = map[string][]string{
	"nature":        {"animals", "plants", "weather", "oceans"},
	"science":       {"physics", "biology", "astronomy", "chemistry"},
	"history":       {"ancient", "modern", "biography"},
	"philosophy":    {"ethics", "stoicism", "eastern", "existentialism"},
	"relationships": {"family", "friendship", "romance", "community"},
	"work":          {"career", "leadership", "craftsmanship"},
	"health":        {"fitness", "nutrition", "mindfulness", "sleep"},
	"creativity":    {"art", "music", "writing", "design"},
	"spirituality":  {"meditation", "faith", "ritual"},
	"travel":        {"places", "cultures", "journeys"},
	"food":          {"cooking", "ingredients", "traditions"},
	"sport":         {"competition", "training", "teams"},
	"technology":    {"computing", "inventions", "internet"},
}

// IsValidTheme reports whether t belongs to the closed theme set.
func IsValidTheme(t string) bool {
	for _, theme := range SourceThemes {
		if theme == t {
			return true
		}
	}
	return false
}

// IsValidCategory reports whether cat is allowed for the given theme.
func IsValidCategory(theme, cat string) bool {
	for _, c := range AllowedCategories[theme] {
		if c == cat {
			return true
		}
	}
	return false
}

// SuitabilityEntry is the AI's per-content-type assessment of a source.
type SuitabilityEntry struct {
	Suitable   bool    `json:"suitable"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// SuitabilityMap maps content-type keys to suitability assessments.
// Produced once at ingestion time and read-only afterward.
type SuitabilityMap map[string]SuitabilityEntry

func (m SuitabilityMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(map[string]SuitabilityEntry(m))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *SuitabilityMap) Scan(value interface{}) error {
	if m == nil {
		return fmt.Errorf("models.SuitabilityMap: Scan on nil pointer")
	}
	if value == nil {
		*m = nil
		return nil
	}

	var raw string
	switch v := value.(type) {
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("models.SuitabilityMap: unsupported Scan type %T", value)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		*m = nil
		return nil
	}

	parsed := map[string]SuitabilityEntry{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return fmt.Errorf("models.SuitabilityMap: %w", err)
	}
	*m = parsed
	return nil
}

// SourceModel is one ingested unit of raw text plus AI-derived metadata.
type SourceModel struct {
	Base
	Content     string         `json:"content"     gorm:"type:longtext;not null"`
	Title       string         `json:"title"`
	Theme       string         `json:"theme"       gorm:"index;not null"`
	Category    *string        `json:"category"`
	Tags        StringArray    `json:"tags"        gorm:"type:json"`
	Summary     string         `json:"summary"     gorm:"type:text;not null"`
	KeyPhrases  StringArray    `json:"key_phrases" gorm:"type:json"`
	Suitability SuitabilityMap `json:"suitability" gorm:"type:json"`
	Status      string         `json:"status"      gorm:"default:'active';index"`

	// UsedFor is the denormalized record of content types already
	// generated from this source. The generation ledger treats it as a
	// secondary signal alongside the content tables themselves.
	UsedFor StringArray `json:"used_for" gorm:"type:json"`
}

func (SourceModel) TableName() string { return "sources" }
