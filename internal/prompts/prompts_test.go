package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_EmbeddedDefaults(t *testing.T) {
	bundle, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if bundle.Persona == "" {
		t.Error("Persona should not be empty")
	}
	if bundle.ChecklistText == "" {
		t.Error("ChecklistText should not be empty")
	}
	if bundle.Moderator == "" {
		t.Error("Moderator should not be empty")
	}
}

func TestLoad_DirOverridesSingleFile(t *testing.T) {
	dir := t.TempDir()
	custom := "# Custom checklist\n1. Say hello\n"
	if err := os.WriteFile(filepath.Join(dir, "survey_checklist.md"), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}

	bundle, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if bundle.ChecklistText != strings.TrimSpace(custom) {
		t.Errorf("ChecklistText = %q, want override", bundle.ChecklistText)
	}

	// Files absent from the directory fall back to the embedded defaults.
	embedded, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if bundle.Persona != embedded.Persona {
		t.Error("Persona should fall back to the embedded default")
	}
	if bundle.Moderator != embedded.Moderator {
		t.Error("Moderator should fall back to the embedded default")
	}
}

func TestSessionInstructions(t *testing.T) {
	bundle := &Bundle{
		Persona:       "You are a friendly interviewer.",
		ChecklistText: "1. Greeting",
	}

	got := bundle.SessionInstructions("Dana")
	if !strings.Contains(got, "You are a friendly interviewer.") {
		t.Error("instructions should start from the persona")
	}
	if !strings.Contains(got, "is named Dana.") {
		t.Error("instructions should address the participant by name")
	}
	if !strings.Contains(got, "Checklist:\n1. Greeting") {
		t.Error("instructions should append the checklist")
	}

	anonymous := bundle.SessionInstructions("")
	if strings.Contains(anonymous, "is named") {
		t.Error("no name line expected without a participant name")
	}
}
