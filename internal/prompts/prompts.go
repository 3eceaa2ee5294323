// Package prompts loads the markdown prompt texts used by the interview
// agent and the moderator engine. The bundle is read once at startup and
// treated as read-only for the process lifetime.
package prompts

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed files/*.md
var defaults embed.FS

const (
	personaFile   = "agent_persona.md"
	checklistFile = "survey_checklist.md"
	moderatorFile = "moderator_instructions.md"
)

// Bundle holds the prompt texts.
type Bundle struct {
	// Persona is the interview agent's persona and task description.
	Persona string
	// ChecklistText is the survey checklist reference markdown, sent
	// verbatim to the moderator model.
	ChecklistText string
	// Moderator is the system instruction for the guidance model.
	Moderator string
}

// Load reads the prompt files. A file found under dir overrides the embedded
// default of the same name; dir may be empty to use only the defaults.
func Load(dir string) (*Bundle, error) {
	persona, err := read(dir, personaFile)
	if err != nil {
		return nil, err
	}
	checklist, err := read(dir, checklistFile)
	if err != nil {
		return nil, err
	}
	moderator, err := read(dir, moderatorFile)
	if err != nil {
		return nil, err
	}
	return &Bundle{
		Persona:       persona,
		ChecklistText: checklist,
		Moderator:     moderator,
	}, nil
}

func read(dir, name string) (string, error) {
	if dir != "" {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			return strings.TrimSpace(string(b)), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("read prompt %s: %w", name, err)
		}
	}
	b, err := defaults.ReadFile("files/" + name)
	if err != nil {
		return "", fmt.Errorf("read embedded prompt %s: %w", name, err)
	}
	return strings.TrimSpace(string(b)), nil
}

// SessionInstructions builds the realtime agent instructions from the
// persona, optionally addressing the participant by name.
func (b *Bundle) SessionInstructions(participantName string) string {
	goal := b.Persona
	if participantName != "" {
		goal += fmt.Sprintf("\n\nThe customer you are interviewing is named %s.", participantName)
	}
	goal += "\n\nKeep your questions aligned with the checklist. Summarise the highlight, pain point," +
		" and suggestion before closing with gratitude."
	return goal + "\n\nChecklist:\n" + b.ChecklistText
}
