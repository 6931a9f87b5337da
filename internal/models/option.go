package models

// OptionModel is a generic key/value store for persisted application
// configuration (the configs service keeps FullConfig under name="configs").
type OptionModel struct {
	Base
	Name  string `json:"name"  gorm:"uniqueIndex;not null"`
	Value string `json:"value" gorm:"type:longtext"`
}

func (OptionModel) TableName() string { return "options" }
