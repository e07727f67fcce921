package workflow

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/JaimeStill/hackid/internal/prompts"
	"github.com/JaimeStill/hackid/pkg/formatting"
)

// transitions lists, for each evidence state, the states it may move to.
// Only NOT_FOUND has successors: once a tier confirms a technology no later
// tier can revisit it.
var transitions = map[Evidence][]Evidence{
	EvidenceNotFound: {EvidenceLanguage, EvidenceKeyword, EvidenceSemantic},
	EvidenceLanguage: nil,
	EvidenceKeyword:  nil,
	EvidenceSemantic: nil,
}

// TechLedger tracks the evidence state of every claimed technology for one run.
type TechLedger struct {
	claims []WeightedClaim
	state  map[string]Evidence
}

// NewTechLedger starts every claimed technology at NOT_FOUND.
func NewTechLedger(claims []WeightedClaim) *TechLedger {
	l := &TechLedger{
		claims: claims,
		state:  make(map[string]Evidence, len(claims)),
	}
	for _, c := range claims {
		l.state[c.Name] = EvidenceNotFound
	}
	return l
}

// Promote moves a technology to the given state if the transition table allows it.
func (l *TechLedger) Promote(name string, to Evidence) bool {
	from, ok := l.state[name]
	if !ok || !slices.Contains(transitions[from], to) {
		return false
	}
	l.state[name] = to
	return true
}

// State returns the current evidence state of a technology.
func (l *TechLedger) State(name string) Evidence {
	return l.state[name]
}

// Pending returns unresolved claims in claim order, one per name.
func (l *TechLedger) Pending() []WeightedClaim {
	seen := make(map[string]bool, len(l.claims))
	var out []WeightedClaim
	for _, c := range l.claims {
		if seen[c.Name] || l.state[c.Name].Found() {
			continue
		}
		seen[c.Name] = true
		out = append(out, c)
	}
	return out
}

// Snapshot copies the evidence map.
func (l *TechLedger) Snapshot() map[string]Evidence {
	out := make(map[string]Evidence, len(l.state))
	for k, v := range l.state {
		out[k] = v
	}
	return out
}

func resolveTech(ctx context.Context, r *run) map[string]Evidence {
	ledger := NewTechLedger(r.claims.TechStack)

	languageTier(ctx, r, ledger)
	keywordTier(ctx, r, ledger)
	semanticTier(ctx, r, ledger)

	return ledger.Snapshot()
}

func languageTier(ctx context.Context, r *run, l *TechLedger) {
	pending := l.Pending()
	if len(pending) == 0 {
		return
	}

	rd := r.repo.Languages(ctx)
	if !rd.OK() {
		r.logger.DebugContext(ctx, "language histogram unavailable", "status", rd.Status, "error", rd.Err)
		return
	}

	for _, c := range pending {
		lang, ok := LanguageFor(c.Name)
		if !ok || !hasLanguage(rd.Value, lang) {
			continue
		}
		if l.Promote(c.Name, EvidenceLanguage) {
			r.logger.DebugContext(ctx, "tech found", "tech", c.Name, "tier", EvidenceLanguage, "language", lang)
		}
	}
}

func hasLanguage(histogram map[string]int64, lang string) bool {
	for k, n := range histogram {
		if n > 0 && strings.EqualFold(k, lang) {
			return true
		}
	}
	return false
}

func keywordTier(ctx context.Context, r *run, l *TechLedger) {
	pending := l.Pending()
	if len(pending) == 0 {
		return
	}

	var sb strings.Builder
	for _, path := range ManifestFiles {
		rd := r.repo.File(ctx, path)
		if !rd.OK() {
			continue
		}
		sb.WriteString(rd.Value)
		sb.WriteString("\n")
	}

	manifest := sb.String()
	if manifest == "" {
		return
	}

	for _, c := range pending {
		if MatchManifest(c.Name, manifest) && l.Promote(c.Name, EvidenceKeyword) {
			r.logger.DebugContext(ctx, "tech found", "tech", c.Name, "tier", EvidenceKeyword)
		}
	}
}

type semanticResponse struct {
	Used []string `json:"used"`
}

// SemanticCandidates orders unresolved claims by weight, heaviest first,
// keeping claim order among equal weights, and caps the list at limit.
func SemanticCandidates(pending []WeightedClaim, limit int) []WeightedClaim {
	out := slices.Clone(pending)
	slices.SortStableFunc(out, func(a, b WeightedClaim) int {
		switch {
		case a.Weight > b.Weight:
			return -1
		case a.Weight < b.Weight:
			return 1
		default:
			return 0
		}
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func semanticTier(ctx context.Context, r *run, l *TechLedger) {
	if r.oracle == nil {
		return
	}

	candidates := SemanticCandidates(l.Pending(), r.opts.SemanticLimit)
	if len(candidates) == 0 {
		return
	}

	var snippets strings.Builder
	for _, c := range candidates {
		term := SearchTerm(c.Name)
		rd := r.repo.SearchCode(ctx, term)
		if !rd.OK() {
			continue
		}
		m := rd.Value[0]
		fmt.Fprintf(&snippets, "[%s] %s\n%s\n\n", c.Name, m.Path, formatting.Truncate(m.Content, r.opts.SnippetBytes))
	}

	if snippets.Len() == 0 {
		r.logger.DebugContext(ctx, "semantic tier skipped, no snippets", "candidates", len(candidates))
		return
	}

	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Name
	}

	prompt, err := prompts.Compose(
		prompts.StageSemanticTech,
		prompts.Section{Title: "Code excerpts", Body: snippets.String()},
		prompts.Section{Title: "Unconfirmed technologies", Body: strings.Join(names, "\n")},
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "compose semantic prompt", "error", err)
		return
	}

	out, err := r.oracle.Complete(ctx, prompt)
	if err != nil {
		r.logger.WarnContext(ctx, "semantic tier unavailable", "error", err)
		return
	}

	used := ParseUsed(out)
	for _, c := range candidates {
		if slices.ContainsFunc(used, func(u string) bool { return TechMatches(u, c.Name) }) &&
			l.Promote(c.Name, EvidenceSemantic) {
			r.logger.DebugContext(ctx, "tech found", "tech", c.Name, "tier", EvidenceSemantic)
		}
	}
}

// ParseUsed extracts the technologies an oracle reply marks as used. It reads
// the JSON structure first and falls back to a "USED:" line; anything else
// yields no names.
func ParseUsed(reply string) []string {
	if parsed, err := formatting.Parse[semanticResponse](reply); err == nil {
		return parsed.Used
	}

	for line := range strings.Lines(reply) {
		line = strings.TrimSpace(line)
		rest, ok := cutPrefixFold(line, "USED:")
		if !ok {
			continue
		}
		var names []string
		for n := range strings.SplitSeq(rest, ",") {
			if n = strings.Trim(strings.TrimSpace(n), "\"'`*"); n != "" {
				names = append(names, n)
			}
		}
		return names
	}
	return nil
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", false
	}
	return s[len(prefix):], true
}
