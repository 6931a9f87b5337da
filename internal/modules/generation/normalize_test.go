package generation

import (
	"testing"

	"github.com/musebox/core/internal/models"
)

func TestNormalizeMultipleChoice(t *testing.T) {
	tests := []struct {
		name string
		item RawItem
		want bool
	}{
		{
			name: "exactly three distinct wrong answers",
			item: RawItem{
				"question":       "What is the largest ocean?",
				"correct_answer": "Pacific",
				"wrong_answers":  []interface{}{"Atlantic", "Indian", "Arctic"},
			},
			want: true,
		},
		{
			name: "two wrong answers rejected",
			item: RawItem{
				"question":       "What is the largest ocean?",
				"correct_answer": "Pacific",
				"wrong_answers":  []interface{}{"Atlantic", "Indian"},
			},
			want: false,
		},
		{
			name: "four wrong answers rejected",
			item: RawItem{
				"question":       "What is the largest ocean?",
				"correct_answer": "Pacific",
				"wrong_answers":  []interface{}{"Atlantic", "Indian", "Arctic", "Southern"},
			},
			want: false,
		},
		{
			name: "duplicate wrong answers rejected",
			item: RawItem{
				"question":       "What is the largest ocean?",
				"correct_answer": "Pacific",
				"wrong_answers":  []interface{}{"Atlantic", "Atlantic", "Indian"},
			},
			want: false,
		},
		{
			name: "blank wrong answer rejected",
			item: RawItem{
				"question":       "What is the largest ocean?",
				"correct_answer": "Pacific",
				"wrong_answers":  []interface{}{"Atlantic", "  ", "Indian"},
			},
			want: false,
		},
		{
			name: "missing question rejected",
			item: RawItem{
				"correct_answer": "Pacific",
				"wrong_answers":  []interface{}{"Atlantic", "Indian", "Arctic"},
			},
			want: false,
		},
		{
			name: "camelCase aliases recovered",
			item: RawItem{
				"questionText":  "What is the largest ocean?",
				"correctAnswer": "Pacific",
				"wrongAnswers":  []interface{}{"Atlantic", "Indian", "Arctic"},
			},
			want: true,
		},
		{
			name: "distractors alias recovered",
			item: RawItem{
				"question":    "What is the largest ocean?",
				"answer":      "Pacific",
				"distractors": []interface{}{"Atlantic", "Indian", "Arctic"},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := normalizeMultipleChoice(tt.item, "src-1")
			if (record != nil) != tt.want {
				t.Fatalf("normalizeMultipleChoice() accepted = %v, want %v", record != nil, tt.want)
			}
			if record == nil {
				return
			}
			mc := record.(*models.MultipleChoiceModel)
			if mc.SourceID != "src-1" {
				t.Errorf("SourceID = %q, want src-1", mc.SourceID)
			}
			if len(mc.WrongAnswers) != 3 {
				t.Errorf("WrongAnswers length = %d, want 3", len(mc.WrongAnswers))
			}
			if !validateMultipleChoice(record) {
				t.Error("validateMultipleChoice rejected a normalized record")
			}
		})
	}
}

func TestNormalizeWisdom(t *testing.T) {
	tests := []struct {
		name string
		item RawItem
		want bool
	}{
		{
			name: "valid item",
			item: RawItem{
				"musing":     "Small steps still move you forward.",
				"pull_quote": "Forward is forward.",
				"theme":      "growth",
			},
			want: true,
		},
		{
			name: "theme outside the enum rejected",
			item: RawItem{
				"musing":     "Small steps still move you forward.",
				"pull_quote": "Forward is forward.",
				"theme":      "happiness",
			},
			want: false,
		},
		{
			name: "missing theme rejected",
			item: RawItem{
				"musing":     "Small steps still move you forward.",
				"pull_quote": "Forward is forward.",
			},
			want: false,
		},
		{
			name: "missing pull quote rejected",
			item: RawItem{
				"musing": "Small steps still move you forward.",
				"theme":  "growth",
			},
			want: false,
		},
		{
			name: "uppercase theme accepted via lowering",
			item: RawItem{
				"musing":     "Gratitude turns what we have into enough.",
				"from_the_box": "Enough is a feast.",
				"theme":        "Gratitude",
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := normalizeWisdom(tt.item, "src-1")
			if (record != nil) != tt.want {
				t.Fatalf("normalizeWisdom() accepted = %v, want %v", record != nil, tt.want)
			}
		})
	}
}

func TestNormalizeTrueFalse(t *testing.T) {
	tests := []struct {
		name    string
		item    RawItem
		want    bool
		wantVal bool
	}{
		{
			name:    "native boolean",
			item:    RawItem{"question": "The sun is a star.", "correct_answer": true},
			want:    true,
			wantVal: true,
		},
		{
			name:    "string T coerced to true",
			item:    RawItem{"question": "The sun is a star.", "correct_answer": "T"},
			want:    true,
			wantVal: true,
		},
		{
			name:    "string no coerced to false",
			item:    RawItem{"question": "The moon is a star.", "correct_answer": "no"},
			want:    true,
			wantVal: false,
		},
		{
			name:    "string YES coerced to true",
			item:    RawItem{"question": "The sun is a star.", "answer": "YES"},
			want:    true,
			wantVal: true,
		},
		{
			name: "unparseable answer rejected",
			item: RawItem{"question": "The sun is a star.", "correct_answer": "maybe"},
			want: false,
		},
		{
			name: "missing question rejected",
			item: RawItem{"correct_answer": "true"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := normalizeTrueFalse(tt.item, "src-1")
			if (record != nil) != tt.want {
				t.Fatalf("normalizeTrueFalse() accepted = %v, want %v", record != nil, tt.want)
			}
			if record == nil {
				return
			}
			tf := record.(*models.TrueFalseModel)
			if tf.CorrectAnswer != tt.wantVal {
				t.Errorf("CorrectAnswer = %v, want %v", tf.CorrectAnswer, tt.wantVal)
			}
		})
	}
}

func TestNormalizeSingleTextTracks(t *testing.T) {
	tests := []struct {
		name      string
		normalize func(RawItem, string) interface{}
		item      RawItem
		want      bool
	}{
		{"greeting text field", normalizeGreeting, RawItem{"text": "Good morning, sunshine!"}, true},
		{"greeting alias", normalizeGreeting, RawItem{"greeting": "Good morning!"}, true},
		{"greeting empty", normalizeGreeting, RawItem{"text": "   "}, false},
		{"quote alias", normalizeQuote, RawItem{"quote": "Keep going."}, true},
		{"quote missing", normalizeQuote, RawItem{"author": "nobody"}, false},
		{"fact alias", normalizeFact, RawItem{"fact": "Octopuses have three hearts."}, true},
		{"fact missing", normalizeFact, RawItem{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := tt.normalize(tt.item, "src-1")
			if (record != nil) != tt.want {
				t.Fatalf("accepted = %v, want %v", record != nil, tt.want)
			}
		})
	}
}

func TestNormalizeWhoAmI(t *testing.T) {
	record := normalizeWhoAmI(RawItem{
		"clue":   "I have keys but open no locks.",
		"answer": "A piano",
	}, "src-9")
	if record == nil {
		t.Fatal("expected aliases clue/answer to be recovered")
	}
	w := record.(*models.WhoAmIModel)
	if w.Question == "" || w.CorrectAnswer != "A piano" {
		t.Errorf("unexpected record: %+v", w)
	}

	if normalizeWhoAmI(RawItem{"clue": "I have keys."}, "src-9") != nil {
		t.Error("expected missing answer to be rejected")
	}
}

func TestCoerceBool(t *testing.T) {
	accept := map[string]bool{
		"true": true, "TRUE": true, "t": true, "Yes": true,
		"false": false, "F": false, "no": false, " NO ": false,
	}
	for input, want := range accept {
		got, ok := coerceBool(input)
		if !ok || got != want {
			t.Errorf("coerceBool(%q) = (%v, %v), want (%v, true)", input, got, ok, want)
		}
	}
	for _, input := range []interface{}{"1", "y", 1, nil, 0.5} {
		if _, ok := coerceBool(input); ok {
			t.Errorf("coerceBool(%v) accepted, want rejection", input)
		}
	}
}
