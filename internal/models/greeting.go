package models

// GreetingModel is one generated greeting line.
type GreetingModel struct {
	Base
	Text     string `json:"text"      gorm:"type:text;not null"`
	SourceID string `json:"source_id" gorm:"index;not null"`
	Status   string `json:"status"    gorm:"default:'draft';index"`
}

func (GreetingModel) TableName() string { return "greetings" }
