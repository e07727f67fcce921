package workflow

import "strings"

// minPartialMatch is the shortest normalized name allowed to match by
// containment. "C", "R", and "Go" would otherwise match almost anything.
const minPartialMatch = 3

// ManifestFiles are the dependency manifests read by the keyword tier.
var ManifestFiles = []string{
	"package.json",
	"requirements.txt",
	"pyproject.toml",
	"go.mod",
}

// languages maps a normalized claim name to the hosting service's language label.
var languages = map[string]string{
	"c++":        "C++",
	"cpp":        "C++",
	"c":          "C",
	"c#":         "C#",
	"csharp":     "C#",
	"python":     "Python",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"go":         "Go",
	"golang":     "Go",
	"swift":      "Swift",
	"java":       "Java",
	"kotlin":     "Kotlin",
	"rust":       "Rust",
	"ruby":       "Ruby",
	"php":        "PHP",
	"dart":       "Dart",
	"html":       "HTML",
	"html5":      "HTML",
	"css":        "CSS",
	"css3":       "CSS",
	"shell":      "Shell",
	"bash":       "Shell",
	"r":          "R",
	"scala":      "Scala",
	"lua":        "Lua",
	"solidity":   "Solidity",
	"jupyter":    "Jupyter Notebook",
}

// keywords maps a normalized claim name to lowercase manifest substrings.
// Claims without an entry fall back to their lowercased name.
var keywords = map[string][]string{
	"react":       {"react", "react-dom"},
	"reactnative": {"react-native"},
	"express":     {"express"},
	"mongodb":     {"mongodb", "mongoose"},
	"postgresql":  {"psycopg2", "\"pg\"", "postgres", "asyncpg", "pgx"},
	"postgres":    {"psycopg2", "\"pg\"", "postgres", "asyncpg", "pgx"},
	"aws":         {"boto3", "aws-sdk", "amazonaws"},
	"firebase":    {"firebase"},
	"typescript":  {"typescript"},
	"tailwind":    {"tailwindcss"},
	"next":        {"\"next\""},
	"flask":       {"flask"},
	"fastapi":     {"fastapi"},
	"django":      {"django"},
	"gemini":      {"google-generativeai", "@google/generative-ai", "google-genai", "gemini"},
	"geminiapi":   {"google-generativeai", "@google/generative-ai", "google-genai", "gemini"},
	"openai":      {"openai"},
	"opencv":      {"opencv", "cv2"},
	"pytorch":     {"torch"},
	"tensorflow":  {"tensorflow"},
	"supabase":    {"supabase"},
	"langchain":   {"langchain"},
	"streamlit":   {"streamlit"},
	"vue":         {"\"vue\""},
	"svelte":      {"svelte"},
	"redis":       {"redis"},
	"prisma":      {"prisma"},
	"gin":         {"gin-gonic"},
}

// NormalizeTech lowercases a technology name, drops spaces, hyphens, and
// underscores, then strips a trailing ".js"/"js" or "css" suffix and dots.
// "Next.js" and "next" both normalize to "next"; "Tailwind CSS" to "tailwind".
func NormalizeTech(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(n)

	for _, suffix := range []string{".js", "js", "css"} {
		if trimmed, ok := strings.CutSuffix(n, suffix); ok && trimmed != "" {
			n = trimmed
			break
		}
	}

	return strings.ReplaceAll(n, ".", "")
}

// TechMatches compares two technology names after normalization: equal, or
// one contained in the other when the shorter has at least minPartialMatch
// characters.
func TechMatches(a, b string) bool {
	na, nb := NormalizeTech(a), NormalizeTech(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if min(len(na), len(nb)) < minPartialMatch {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

// LanguageFor returns the language label a claim maps to, if any.
func LanguageFor(name string) (string, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if lang, ok := languages[n]; ok {
		return lang, true
	}
	lang, ok := languages[NormalizeTech(name)]
	return lang, ok
}

// Keywords returns the manifest keywords for a claim.
func Keywords(name string) []string {
	if kw, ok := keywords[NormalizeTech(name)]; ok {
		return kw
	}
	return []string{strings.ToLower(strings.TrimSpace(name))}
}

// MatchManifest reports whether manifest text shows evidence of the claim,
// either by keyword containment or by the normalized name appearing in the
// manifest with spaces and hyphens removed.
func MatchManifest(name, manifest string) bool {
	text := strings.ToLower(manifest)
	for _, kw := range Keywords(name) {
		if len(kw) >= minPartialMatch && strings.Contains(text, kw) {
			return true
		}
	}

	n := NormalizeTech(name)
	if len(n) < minPartialMatch {
		return false
	}
	squashed := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(text)
	return strings.Contains(squashed, n)
}

// SearchTerm picks the code search query for a claim: its first keyword
// with any quoting removed.
func SearchTerm(name string) string {
	return strings.Trim(Keywords(name)[0], "\"")
}
