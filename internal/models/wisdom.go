package models

// WisdomThemes is the closed set of themes a wisdom item may carry.
// Items whose theme falls outside this set are rejected at
// normalization time, never defaulted.
var WisdomThemes = []string{
	"perspective",
	"gratitude",
	"resilience",
	"growth",
	"connection",
	"purpose",
}

// IsValidWisdomTheme reports whether t belongs to the wisdom theme set.
func IsValidWisdomTheme(t string) bool {
	for _, theme := range WisdomThemes {
		if theme == t {
			return true
		}
	}
	return false
}

// WisdomModel is one generated wisdom item: a musing plus a short
// "from the box" pull-quote.
type WisdomModel struct {
	Base
	Musing    string `json:"musing"     gorm:"type:text;not null"`
	PullQuote string `json:"pull_quote" gorm:"type:text;not null"`
	Theme     string `json:"theme"      gorm:"not null;index"`
	SourceID  string `json:"source_id"  gorm:"index;not null"`
	Status    string `json:"status"     gorm:"default:'draft';index"`
}

func (WisdomModel) TableName() string { return "wisdom_items" }
