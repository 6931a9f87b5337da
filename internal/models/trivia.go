package models

// MultipleChoiceModel is one generated multiple-choice trivia question.
// WrongAnswers always holds exactly three distinct non-empty entries;
// the generation normalizer rejects anything else.
type MultipleChoiceModel struct {
	Base
	Question      string      `json:"question"       gorm:"type:text;not null"`
	CorrectAnswer string      `json:"correct_answer" gorm:"type:text;not null"`
	WrongAnswers  StringArray `json:"wrong_answers"  gorm:"type:json"`
	SourceID      string      `json:"source_id"      gorm:"index;not null"`
	Status        string      `json:"status"         gorm:"default:'draft';index"`
}

func (MultipleChoiceModel) TableName() string { return "multiple_choice_questions" }

// TrueFalseModel is one generated true/false trivia question.
type TrueFalseModel struct {
	Base
	Question      string `json:"question"       gorm:"type:text;not null"`
	CorrectAnswer bool   `json:"correct_answer" gorm:"not null"`
	SourceID      string `json:"source_id"      gorm:"index;not null"`
	Status        string `json:"status"         gorm:"default:'draft';index"`
}

func (TrueFalseModel) TableName() string { return "true_false_questions" }

// WhoAmIModel is one generated who-am-i trivia question.
type WhoAmIModel struct {
	Base
	Question      string `json:"question"       gorm:"type:text;not null"`
	CorrectAnswer string `json:"correct_answer" gorm:"type:text;not null"`
	SourceID      string `json:"source_id"      gorm:"index;not null"`
	Status        string `json:"status"         gorm:"default:'draft';index"`
}

func (WhoAmIModel) TableName() string { return "who_am_i_questions" }
