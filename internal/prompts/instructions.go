package prompts

const semanticTechInstructions = `You are reviewing source code from a hackathon repository to confirm which claimed technologies the team actually used.

Below are short code excerpts returned by searching the repository for each technology, followed by the list of technologies still unconfirmed. A technology counts as used when an excerpt imports it, calls its API, configures it, or otherwise depends on it in working code. A mention in a comment, a README, or an unused string is not enough.

Judge each listed technology on the excerpts alone. Do not guess from the project's theme or from other technologies.`

const coreLogicInstructions = `You are checking whether a hackathon project's main source file is consistent with the features the team claims to have built.

Be lenient. Hackathon code is rushed, partial, and often spread across many files, so one file rarely shows every feature. Answer VERIFIED when the file plausibly implements or wires up at least part of the claimed functionality. Answer UNVERIFIED when the file is unrelated boilerplate or too thin to judge. Answer CONTRADICTED only when the file clearly shows a different project than the one claimed.`

var instructions = map[Stage]string{
	StageSemanticTech: semanticTechInstructions,
	StageCoreLogic:    coreLogicInstructions,
}

// Instructions returns the default instructions for a stage.
// Returns ErrInvalidStage if the stage is not recognized.
func Instructions(stage Stage) (string, error) {
	text, ok := instructions[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
