package club

import (
	"cmp"
	"slices"
	"strings"
	"unicode"

	"github.com/mauv0809/kendo-tally/internal/kendo"
)

const (
	minConfidence  = 0.3
	maxSuggestions = 5
)

// Suggestion is a roster player that resembles a typed name.
type Suggestion struct {
	Player     kendo.Player `json:"player"`
	Confidence float64      `json:"confidence"`
	Reasons    []string     `json:"reasons"`
}

// FindPlayers ranks roster players by how closely their name matches query.
// It is used to resolve names typed in the CLI or a Slack command.
func FindPlayers(players []kendo.Player, query string) []Suggestion {
	q := normalizeName(query)
	if q == "" {
		return []Suggestion{}
	}
	suggestions := []Suggestion{}
	for _, p := range players {
		name := normalizeName(p.Name)
		whole := similarity(q, name)
		tokens := tokenSimilarity(q, name)
		score := (whole + tokens) / 2
		if strings.Contains(name, q) {
			score = max(score, 0.5+0.5*float64(len(q))/float64(len(name)))
		}
		if score <= minConfidence {
			continue
		}
		suggestions = append(suggestions, Suggestion{Player: p, Confidence: score, Reasons: reasons(q, name, whole, tokens)})
	}
	slices.SortStableFunc(suggestions, func(a, b Suggestion) int {
		return cmp.Compare(b.Confidence, a.Confidence)
	})
	return suggestions[:min(maxSuggestions, len(suggestions))]
}

func reasons(query, name string, whole, tokens float64) []string {
	var out []string
	switch {
	case query == name:
		out = append(out, "Exact name match")
	case whole > 0.8:
		out = append(out, "Very similar name")
	case strings.Contains(name, query):
		out = append(out, "Name contains query")
	}
	if tokens > 0.5 && query != name {
		out = append(out, "Matching name components")
	}
	if len(out) == 0 {
		out = append(out, "Partial name similarity")
	}
	return out
}

// normalizeName lowercases, drops everything but letters and collapses spaces.
func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

func tokenSimilarity(a, b string) float64 {
	ta, tb := strings.Fields(a), strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	matched := 0
	for _, x := range ta {
		if slices.ContainsFunc(tb, func(y string) bool { return similarity(x, y) > 0.8 }) {
			matched++
		}
	}
	return float64(matched) / float64(max(len(ta), len(tb)))
}

func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
