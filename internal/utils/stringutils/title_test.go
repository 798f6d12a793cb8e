package stringutils

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeTitleContent(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips urls",
			input:    "Смотрите https://daosail.example/regatta и пишите",
			expected: "Смотрите и пишите",
		},
		{
			name:     "unwraps markdown links",
			input:    "Читайте [устав клуба](https://daosail.example/charter)",
			expected: "Читайте устав клуба",
		},
		{
			name:     "strips emails",
			input:    "Пишите на info@daosail.example сегодня",
			expected: "Пишите на сегодня",
		},
		{
			name:     "trims trailing punctuation",
			input:    "Как вступить в клуб???",
			expected: "Как вступить в клуб",
		},
		{
			name:     "collapses whitespace",
			input:    "первый   вопрос \n про  паруса",
			expected: "первый вопрос про паруса",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeTitleContent(tt.input); got != tt.expected {
				t.Errorf("SanitizeTitleContent(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTruncateTitleRuneSafe(t *testing.T) {
	input := "Как вступить в яхт-клуб и что для этого нужно сделать новичку без опыта"
	got := TruncateTitle(input, 40)

	if !utf8.ValidString(got) {
		t.Fatalf("truncated title is not valid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n > 40 {
		t.Errorf("truncated title has %d runes, want at most 40", n)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated title %q should end with ellipsis", got)
	}
}

func TestTruncateTitleShortInputUnchanged(t *testing.T) {
	input := "Планирование регаты"
	if got := TruncateTitle(input, 60); got != input {
		t.Errorf("TruncateTitle(%q, 60) = %q, want unchanged", input, got)
	}
}

func TestGenerateTitleEmptyAfterSanitize(t *testing.T) {
	if got := GenerateTitle("   !!! ...   ", 60); got != "" {
		t.Errorf("GenerateTitle of punctuation-only input = %q, want empty", got)
	}
}
