package generation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/musebox/core/internal/models"
)

// The AI's output field names drift between prompt revisions, so every
// logical field is recovered through an ordered alias list: first alias
// with a non-empty value wins. The tables below are the complete set of
// accepted spellings per track.
var (
	wisdomMusingAliases    = []string{"musing", "text", "wisdom", "content", "body"}
	wisdomPullQuoteAliases = []string{"pull_quote", "pullQuote", "from_the_box", "fromTheBox", "quote"}
	wisdomThemeAliases     = []string{"theme", "wisdom_theme", "wisdomTheme"}

	greetingTextAliases = []string{"text", "greeting", "message", "content"}

	quoteTextAliases = []string{"text", "quote", "motivational_quote", "motivationalQuote", "content"}

	factTextAliases = []string{"text", "fact", "content"}

	questionAliases     = []string{"question", "question_text", "questionText", "text"}
	correctAliases      = []string{"correct_answer", "correctAnswer", "answer", "correct"}
	wrongAnswersAliases = []string{"wrong_answers", "wrongAnswers", "incorrect_answers", "incorrectAnswers", "distractors", "wrong"}

	whoAmIQuestionAliases = []string{"question", "clue", "riddle", "text"}
	whoAmIAnswerAliases   = []string{"correct_answer", "correctAnswer", "answer", "who_am_i", "whoAmI"}
)

// pickString returns the first alias whose value is a non-empty string.
func pickString(item RawItem, aliases []string) string {
	for _, alias := range aliases {
		raw, ok := item[alias]
		if !ok {
			continue
		}
		if s, ok := raw.(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// pickStringList returns the first alias whose value is a non-empty list
// of strings. Non-string elements and blanks are dropped.
func pickStringList(item RawItem, aliases []string) []string {
	for _, alias := range aliases {
		raw, ok := item[alias]
		if !ok {
			continue
		}
		list, ok := raw.([]interface{})
		if !ok {
			continue
		}
		out := make([]string, 0, len(list))
		for _, el := range list {
			s, ok := el.(string)
			if !ok {
				continue
			}
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// coerceBool accepts native booleans plus the string spellings
// true/false/t/f/yes/no, case-insensitively.
func coerceBool(raw interface{}) (bool, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "t", "yes":
			return true, true
		case "false", "f", "no":
			return false, true
		}
	}
	return false, false
}

func pickBool(item RawItem, aliases []string) (bool, bool) {
	for _, alias := range aliases {
		raw, ok := item[alias]
		if !ok {
			continue
		}
		if b, ok := coerceBool(raw); ok {
			return b, true
		}
	}
	return false, false
}

func normalizeWisdom(item RawItem, sourceID string) interface{} {
	musing := pickString(item, wisdomMusingAliases)
	pullQuote := pickString(item, wisdomPullQuoteAliases)
	theme := strings.ToLower(pickString(item, wisdomThemeAliases))

	if musing == "" || pullQuote == "" {
		return nil
	}
	// Out-of-enum themes are rejected, never defaulted.
	if !models.IsValidWisdomTheme(theme) {
		return nil
	}

	return &models.WisdomModel{
		Musing:    musing,
		PullQuote: pullQuote,
		Theme:     theme,
		SourceID:  sourceID,
		Status:    models.ContentStatusDraft,
	}
}

func validateWisdom(record interface{}) bool {
	w, ok := record.(*models.WisdomModel)
	if !ok {
		return false
	}
	return w.Musing != "" && w.PullQuote != "" && models.IsValidWisdomTheme(w.Theme)
}

func normalizeGreeting(item RawItem, sourceID string) interface{} {
	text := pickString(item, greetingTextAliases)
	if text == "" {
		return nil
	}
	return &models.GreetingModel{
		Text:     text,
		SourceID: sourceID,
		Status:   models.ContentStatusDraft,
	}
}

func normalizeQuote(item RawItem, sourceID string) interface{} {
	text := pickString(item, quoteTextAliases)
	if text == "" {
		return nil
	}
	return &models.QuoteModel{
		Text:     text,
		SourceID: sourceID,
		Status:   models.ContentStatusDraft,
	}
}

func normalizeFact(item RawItem, sourceID string) interface{} {
	text := pickString(item, factTextAliases)
	if text == "" {
		return nil
	}
	return &models.FactModel{
		Text:     text,
		SourceID: sourceID,
		Status:   models.ContentStatusDraft,
	}
}

func normalizeMultipleChoice(item RawItem, sourceID string) interface{} {
	question := pickString(item, questionAliases)
	correct := pickString(item, correctAliases)
	wrong := pickStringList(item, wrongAnswersAliases)

	if question == "" || correct == "" {
		return nil
	}
	if !hasExactlyThreeDistinct(wrong) {
		return nil
	}

	return &models.MultipleChoiceModel{
		Question:      question,
		CorrectAnswer: correct,
		WrongAnswers:  models.StringArray(wrong),
		SourceID:      sourceID,
		Status:        models.ContentStatusDraft,
	}
}

func validateMultipleChoice(record interface{}) bool {
	mc, ok := record.(*models.MultipleChoiceModel)
	if !ok {
		return false
	}
	return mc.Question != "" && mc.CorrectAnswer != "" && hasExactlyThreeDistinct(mc.WrongAnswers)
}

// hasExactlyThreeDistinct enforces the multiple-choice answer-set shape:
// exactly three distinct non-empty wrong answers, not more, not fewer.
func hasExactlyThreeDistinct(answers []string) bool {
	if len(answers) != 3 {
		return false
	}
	seen := map[string]struct{}{}
	for _, a := range answers {
		if strings.TrimSpace(a) == "" {
			return false
		}
		seen[a] = struct{}{}
	}
	return len(seen) == 3
}

func normalizeTrueFalse(item RawItem, sourceID string) interface{} {
	question := pickString(item, questionAliases)
	if question == "" {
		return nil
	}
	correct, ok := pickBool(item, correctAliases)
	if !ok {
		return nil
	}
	return &models.TrueFalseModel{
		Question:      question,
		CorrectAnswer: correct,
		SourceID:      sourceID,
		Status:        models.ContentStatusDraft,
	}
}

func normalizeWhoAmI(item RawItem, sourceID string) interface{} {
	question := pickString(item, whoAmIQuestionAliases)
	answer := pickString(item, whoAmIAnswerAliases)
	if question == "" || answer == "" {
		return nil
	}
	return &models.WhoAmIModel{
		Question:      question,
		CorrectAnswer: answer,
		SourceID:      sourceID,
		Status:        models.ContentStatusDraft,
	}
}

// itemKeys lists a raw item's field names for rejection diagnostics.
func itemKeys(item RawItem) string {
	keys := make([]string, 0, len(item))
	for k := range item {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("%v", keys)
}
