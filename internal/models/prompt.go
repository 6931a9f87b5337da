package models

// PromptModel stores an operator-editable generation prompt for one
// content track. At most one prompt per track is active at a time.
type PromptModel struct {
	Base
	TrackKey string `json:"track_key" gorm:"index;not null"`
	Name     string `json:"name"      gorm:"not null"`
	Text     string `json:"text"      gorm:"type:longtext;not null"`
	Active   bool   `json:"active"    gorm:"default:false;index"`
}

func (PromptModel) TableName() string { return "prompts" }
