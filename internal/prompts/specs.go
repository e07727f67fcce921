package prompts

const semanticTechSpec = `Respond with a JSON object matching this exact structure:

{
  "used": ["<technology>", "<technology>"]
}

Field constraints:
- used: Names of the listed technologies that the excerpts clearly show in
  use, spelled as they appear in the list. Empty array when none qualify.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Only include names from the provided list
- If you cannot produce JSON, write a single line starting with "USED:"
  followed by the comma-separated names`

const coreLogicSpec = `Respond with a JSON object matching this exact structure:

{
  "verdict": "<VERIFIED|UNVERIFIED|CONTRADICTED>",
  "reasoning": "<explanation>"
}

Field constraints:
- verdict: One of VERIFIED, UNVERIFIED, or CONTRADICTED as defined above.
- reasoning: One or two sentences naming the code that supports or
  contradicts the claimed features.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Judge only the provided file content
- Prefer VERIFIED over UNVERIFIED when the evidence is ambiguous`

var specs = map[Stage]string{
	StageSemanticTech: semanticTechSpec,
	StageCoreLogic:    coreLogicSpec,
}

// Spec returns the response specification for a stage.
// Specifications define the expected output format and behavioral constraints.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
