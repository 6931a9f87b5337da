package ai

import (
	"errors"
	"testing"
)

func TestUnmarshalResponse(t *testing.T) {
	type payload struct {
		Summary string `json:"summary"`
	}

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "plain json",
			raw:  `{"summary":"hello"}`,
			want: "hello",
		},
		{
			name: "json fences",
			raw:  "```json\n{\"summary\":\"hello\"}\n```",
			want: "hello",
		},
		{
			name: "bare fences",
			raw:  "```\n{\"summary\":\"hello\"}\n```",
			want: "hello",
		},
		{
			name: "surrounding prose",
			raw:  "Sure! Here is the JSON you asked for: {\"summary\":\"hello\"} Hope that helps.",
			want: "hello",
		},
		{
			name:    "no json at all",
			raw:     "I cannot help with that.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got payload
			err := UnmarshalResponse(tt.raw, &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if err == nil && got.Summary != tt.want {
				t.Errorf("summary = %q, want %q", got.Summary, tt.want)
			}
		})
	}
}

func TestParseItemsEnvelope(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantCount int
		wantErr   bool
	}{
		{
			name:      "envelope",
			raw:       `{"items":[{"text":"a"},{"text":"b"}]}`,
			wantCount: 2,
		},
		{
			name:      "envelope in fences",
			raw:       "```json\n{\"items\":[{\"text\":\"a\"}]}\n```",
			wantCount: 1,
		},
		{
			name:      "empty items is valid and empty",
			raw:       `{"items":[]}`,
			wantCount: 0,
		},
		{
			name:      "bare array fallback",
			raw:       `[{"text":"a"},{"text":"b"},{"text":"c"}]`,
			wantCount: 3,
		},
		{
			name:    "missing items field",
			raw:     `{"results":[{"text":"a"}]}`,
			wantErr: true,
		},
		{
			name:    "items not an array",
			raw:     `{"items":"a,b,c"}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			raw:     `{"items":[{"text":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := ParseItemsEnvelope(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if err == nil && len(items) != tt.wantCount {
				t.Errorf("len(items) = %d, want %d", len(items), tt.wantCount)
			}
		})
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name        string
		msg         string
		rateLimited bool
	}{
		{"http 429", "unexpected status 429 from provider", true},
		{"grpc resource exhausted", "rpc error: RESOURCE_EXHAUSTED", true},
		{"prose rate limit", "provider said: Rate limit exceeded", true},
		{"generic", "connection refused", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyError(errors.New(tt.msg))
			if got := errors.Is(err, ErrRateLimited); got != tt.rateLimited {
				t.Errorf("rate limited = %v, want %v", got, tt.rateLimited)
			}
		})
	}
}
