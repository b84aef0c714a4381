// Package prompts manages named instruction overrides for the model-backed
// address checks. When no override is active for a stage the built-in
// instructions apply.
package prompts

import "github.com/google/uuid"

// Prompt is a named instruction override for a check stage.
type Prompt struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Stage        Stage     `json:"stage"`
	Instructions string    `json:"instructions"`
	Description  *string   `json:"description"`
	Active       bool      `json:"active"`
}

// CreateCommand carries the data needed to create a prompt override.
type CreateCommand struct {
	Name         string  `json:"name"`
	Stage        Stage   `json:"stage"`
	Instructions string  `json:"instructions"`
	Description  *string `json:"description"`
}

// UpdateCommand carries the data needed to update a prompt override.
type UpdateCommand struct {
	Name         string  `json:"name"`
	Stage        Stage   `json:"stage"`
	Instructions string  `json:"instructions"`
	Description  *string `json:"description"`
}

func validate(name string, stage Stage, instructions string) error {
	if name == "" || instructions == "" {
		return ErrInvalidPrompt
	}
	if _, err := ParseStage(string(stage)); err != nil {
		return err
	}
	return nil
}
