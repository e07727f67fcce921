package prompts

import (
	"fmt"
	"strings"
)

// Section is a titled block of prompt context.
type Section struct {
	Title string
	Body  string
}

// Compose builds a prompt by combining a stage's instructions, its response
// specification, and the given context sections in order.
func Compose(stage Stage, sections ...Section) (string, error) {
	inst, err := Instructions(stage)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", stage, err)
	}

	spec, err := Spec(stage)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", stage, err)
	}

	var sb strings.Builder
	sb.WriteString(inst)
	sb.WriteString("\n\n")
	sb.WriteString(spec)

	for _, s := range sections {
		sb.WriteString("\n\n")
		sb.WriteString(s.Title)
		sb.WriteString(":\n\n")
		sb.WriteString(s.Body)
	}

	return sb.String(), nil
}
