package prompts

const discrepancySpec = `Call the submit_verdict tool exactly once with:

- is_discrepant: true when the submitted and reference addresses describe different locations, false otherwise.
- reason: when is_discrepant is true, a short sentence naming the components that differ (for example "street differs: submitted '1 Test Layout St', reference 'Lekki Phase 1'"). When is_discrepant is false, an empty string.

If tools are unavailable, respond with only a JSON object of the same shape:

{"is_discrepant": <true|false>, "reason": "<text>"}

Never return is_discrepant true with an empty reason.`

var specs = map[Stage]string{
	StageDiscrepancy: discrepancySpec,
}

// Spec returns the fixed output specification for a stage. Specs are not
// overridable so the response shape stays stable.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
