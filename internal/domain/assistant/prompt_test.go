package assistant

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want Type
	}{
		{"navigator", "navigator", TypeNavigator},
		{"skipper", "skipper", TypeSkipper},
		{"sailing coach", "sailing_coach", TypeSailingCoach},
		{"steward", "steward", TypeSteward},
		{"unknown falls back to navigator", "harbormaster", TypeNavigator},
		{"empty falls back to navigator", "", TypeNavigator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.id); got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestRetrievalCategories(t *testing.T) {
	if got := TypeNavigator.RetrievalCategories(); len(got) != 4 || got[0] != "sailing_basics" {
		t.Errorf("navigator categories = %v", got)
	}
	if got := TypeSkipper.RetrievalCategories(); len(got) != 4 || got[0] != "safety" {
		t.Errorf("skipper categories = %v", got)
	}
	if got := TypeSailingCoach.RetrievalCategories(); len(got) != 4 || got[0] != "safety" {
		t.Errorf("sailing_coach categories = %v", got)
	}
	if got := TypeSteward.RetrievalCategories(); got != nil {
		t.Errorf("steward categories = %v, want nil (broad search)", got)
	}
}

func TestBuildSystemPromptStewardEmbedsContext(t *testing.T) {
	prompt := BuildSystemPrompt(PromptInput{
		Assistant: TypeSteward,
		Language:  "ru",
		Context:   "[1] Клуб основан в 2023 году.",
	})
	if !strings.Contains(prompt, "[1] Клуб основан в 2023 году.") {
		t.Error("steward prompt should embed retrieved context")
	}
	if !strings.Contains(prompt, "ТОЛЬКО на основе предоставленного контекста") {
		t.Error("steward prompt should carry the strict grounding rule")
	}
}

func TestBuildSystemPromptStewardEmptyContext(t *testing.T) {
	prompt := BuildSystemPrompt(PromptInput{Assistant: TypeSteward, Language: "ru"})
	if prompt == "" {
		t.Fatal("system prompt must never be empty")
	}
	if !strings.Contains(prompt, "Контекст не найден") {
		t.Error("empty context should instruct the steward to report missing information")
	}
}

func TestBuildSystemPromptHintOnlyWithContext(t *testing.T) {
	withCtx := BuildSystemPrompt(PromptInput{Assistant: TypeNavigator, Language: "en", Context: "ctx"})
	if !strings.Contains(withCtx, "IMPORTANT: Use the information from the knowledge base") {
		t.Error("context hint missing when context present")
	}
	withoutCtx := BuildSystemPrompt(PromptInput{Assistant: TypeNavigator, Language: "en"})
	if strings.Contains(withoutCtx, "IMPORTANT: Use the information from the knowledge base") {
		t.Error("context hint present without context")
	}
}

func TestAssembleOrdering(t *testing.T) {
	history := []Message{
		{Role: RoleUser, Content: "Как завязать булинь?"},
		{Role: RoleAssistant, Content: "Вот так."},
		{Role: RoleUser, Content: "А выбленочный?"},
	}
	out := Assemble(PromptInput{
		Assistant: TypeNavigator,
		Language:  "ru",
		Context:   "Контекст из базы знаний",
		History:   history,
	})

	if len(out) != len(history)+1 {
		t.Fatalf("Assemble() returned %d messages, want %d", len(out), len(history)+1)
	}
	if out[0].Role != RoleSystem {
		t.Errorf("first message role = %q, want system", out[0].Role)
	}
	if !strings.Contains(out[0].Content, "Контекст из базы знаний") {
		t.Error("navigator context should be appended to the system prompt")
	}
	for i, msg := range history {
		if out[i+1] != msg {
			t.Errorf("message %d = %+v, want %+v", i+1, out[i+1], msg)
		}
	}
}

func TestAssembleFilesContext(t *testing.T) {
	out := Assemble(PromptInput{
		Assistant:    TypeSkipper,
		Language:     "ru",
		FilesContext: "Содержимое приложенного файла",
		History:      []Message{{Role: RoleUser, Content: "вопрос"}},
	})
	if !strings.Contains(out[0].Content, "Содержимое приложенного файла") {
		t.Error("file context should be appended to the system prompt")
	}
}

func TestStrictGrounding(t *testing.T) {
	if !TypeSteward.StrictGrounding() {
		t.Error("steward must be strictly grounded")
	}
	if TypeNavigator.StrictGrounding() || TypeSkipper.StrictGrounding() {
		t.Error("advisory personas must not be strictly grounded")
	}
}
