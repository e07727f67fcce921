package workflow

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"
	"unicode"

	"github.com/JaimeStill/hackid/internal/prompts"
	"github.com/JaimeStill/hackid/pkg/formatting"
)

var excludedDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"out":          true,
	"target":       true,
	"bin":          true,
	"obj":          true,
	".git":         true,
	".github":      true,
	".next":        true,
	".venv":        true,
	"venv":         true,
	"env":          true,
	"__pycache__":  true,
	"coverage":     true,
	"assets":       true,
	"static":       true,
	"public":       true,
	"images":       true,
	"fonts":        true,
	"migrations":   true,
	"test":         true,
	"tests":        true,
	"__tests__":    true,
}

var sourceExts = map[string]bool{
	".py": true, ".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".go": true, ".java": true, ".kt": true, ".swift": true, ".rs": true,
	".c": true, ".cc": true, ".cpp": true, ".cs": true, ".rb": true,
	".php": true, ".dart": true, ".vue": true, ".svelte": true,
}

var indicators = []struct {
	word  string
	boost int
}{
	{"main", 10},
	{"app", 8},
	{"server", 7},
	{"index", 6},
	{"logic", 6},
	{"core", 4},
	{"api", 3},
}

const depthPenalty = 2

// RankCandidates orders source file paths by how likely each is to hold the
// project's main logic. Files under build, dependency, asset, or test
// directories and non-source files are dropped.
func RankCandidates(paths []string) []string {
	type scored struct {
		path  string
		score int
	}

	var ranked []scored
	for _, p := range paths {
		if !candidatePath(p) {
			continue
		}
		ranked = append(ranked, scored{path: p, score: scorePath(p)})
	}

	slices.SortStableFunc(ranked, func(a, b scored) int {
		if a.score != b.score {
			return b.score - a.score
		}
		if len(a.path) != len(b.path) {
			return len(a.path) - len(b.path)
		}
		return strings.Compare(a.path, b.path)
	})

	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = s.path
	}
	return out
}

func candidatePath(p string) bool {
	if !sourceExts[strings.ToLower(path.Ext(p))] {
		return false
	}

	base := strings.ToLower(path.Base(p))
	if strings.Contains(base, ".test.") || strings.Contains(base, ".spec.") || strings.HasSuffix(base, "_test.go") {
		return false
	}

	dir := path.Dir(p)
	if dir == "." {
		return true
	}
	for seg := range strings.SplitSeq(dir, "/") {
		if excludedDirs[strings.ToLower(seg)] {
			return false
		}
	}
	return true
}

func scorePath(p string) int {
	stem := strings.ToLower(strings.TrimSuffix(path.Base(p), path.Ext(p)))
	score := 0
	for _, ind := range indicators {
		if strings.Contains(stem, ind.word) {
			score += ind.boost
		}
	}
	return score - depthPenalty*strings.Count(p, "/")
}

type logicResponse struct {
	Verdict   string `json:"verdict"`
	Reasoning string `json:"reasoning"`
}

func skipped(reason string) CoreLogicVerdict {
	return CoreLogicVerdict{Status: LogicSkipped, Reasoning: reason}
}

func verifyCoreLogic(ctx context.Context, r *run) CoreLogicVerdict {
	if r.oracle == nil {
		return skipped("no oracle configured")
	}
	if len(r.claims.KeyFeatures) == 0 {
		return skipped("no claimed features to verify")
	}

	tree := r.repo.Tree(ctx)
	if !tree.OK() {
		return skipped("repository tree unavailable")
	}

	candidates := RankCandidates(tree.Value)
	if len(candidates) == 0 {
		return skipped("no candidate source file")
	}
	file := candidates[0]

	content := r.repo.File(ctx, file)
	if !content.OK() {
		return skipped(fmt.Sprintf("could not fetch %s", file))
	}

	prompt, err := prompts.Compose(
		prompts.StageCoreLogic,
		prompts.Section{Title: "Claimed features", Body: "- " + strings.Join(r.claims.KeyFeatures, "\n- ")},
		prompts.Section{Title: "File " + file, Body: formatting.Truncate(content.Value, r.opts.SourceBytes)},
	)
	if err != nil {
		return skipped(err.Error())
	}

	out, err := r.oracle.Complete(ctx, prompt)
	if err != nil {
		r.logger.WarnContext(ctx, "core logic check unavailable", "error", err)
		return skipped("oracle unavailable")
	}

	v, ok := ParseLogicVerdict(out)
	if !ok {
		return skipped("unparsable oracle response")
	}
	v.File = file
	return v
}

// ParseLogicVerdict reads the oracle's verdict from JSON, falling back to the
// first upper-case word in the text that names a verdict.
func ParseLogicVerdict(reply string) (CoreLogicVerdict, bool) {
	if parsed, err := formatting.Parse[logicResponse](reply); err == nil {
		if s, ok := logicStatus(parsed.Verdict); ok {
			return CoreLogicVerdict{Status: s, Reasoning: strings.TrimSpace(parsed.Reasoning)}, true
		}
	}

	words := strings.FieldsFunc(reply, func(r rune) bool { return !unicode.IsLetter(r) })
	for _, w := range words {
		if w != strings.ToUpper(w) {
			continue
		}
		if s, ok := logicStatus(w); ok {
			return CoreLogicVerdict{Status: s, Reasoning: formatting.Truncate(strings.TrimSpace(reply), 300)}, true
		}
	}
	return CoreLogicVerdict{}, false
}

func logicStatus(v string) (LogicStatus, bool) {
	s := LogicStatus(strings.ToUpper(strings.TrimSpace(v)))
	switch s {
	case LogicVerified, LogicUnverified, LogicContradicted:
		return s, true
	}
	return "", false
}
