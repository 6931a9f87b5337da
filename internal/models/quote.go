package models

// QuoteModel is one generated motivational quote.
type QuoteModel struct {
	Base
	Text     string `json:"text"      gorm:"type:text;not null"`
	SourceID string `json:"source_id" gorm:"index;not null"`
	Status   string `json:"status"    gorm:"default:'draft';index"`
}

func (QuoteModel) TableName() string { return "motivational_quotes" }
