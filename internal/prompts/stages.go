package prompts

import (
	"encoding/json"
	"slices"
)

// Stage identifies the model call a prompt override targets.
type Stage string

// StageDiscrepancy is the submitted-versus-reference address comparison.
const StageDiscrepancy Stage = "discrepancy"

var stages = []Stage{StageDiscrepancy}

// Stages returns the known stages.
func Stages() []Stage {
	return slices.Clone(stages)
}

// UnmarshalJSON rejects unknown stage values.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseStage(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStage validates s as a known stage.
func ParseStage(s string) (Stage, error) {
	v := Stage(s)
	if !slices.Contains(stages, v) {
		return "", ErrInvalidStage
	}
	return v, nil
}
