package models

// FactModel is one generated fact.
type FactModel struct {
	Base
	Text     string `json:"text"      gorm:"type:text;not null"`
	SourceID string `json:"source_id" gorm:"index;not null"`
	Status   string `json:"status"    gorm:"default:'draft';index"`
}

func (FactModel) TableName() string { return "facts" }
