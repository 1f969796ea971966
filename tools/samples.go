package tools

import "github.com/sahilm/fuzzy"

// SampleQuery is a canned question offered to new users.
type SampleQuery struct {
	Label string
	Text  string
}

var sampleQueries = []SampleQuery{
	{Label: "Success Rate by Printer", Text: "What is the success rate for each printer?"},
	{Label: "Filament Usage", Text: "How much PLA vs PETG have I used?"},
	{Label: "Common Failures", Text: "What are the most common reasons for failed prints?"},
	{Label: "Expensive Prints", Text: "List the top 5 most expensive prints"},
}

// SampleQueries returns the canned questions in display order.
func SampleQueries() []SampleQuery {
	out := make([]SampleQuery, len(sampleQueries))
	copy(out, sampleQueries)
	return out
}

type sampleSource []SampleQuery

func (s sampleSource) String(i int) string { return s[i].Label + " " + s[i].Text }
func (s sampleSource) Len() int            { return len(s) }

// MatchSamples returns the sample queries fuzzy-matching pattern, best
// match first. An empty pattern returns all samples.
func MatchSamples(pattern string) []SampleQuery {
	if pattern == "" {
		return SampleQueries()
	}

	matches := fuzzy.FindFrom(pattern, sampleSource(sampleQueries))
	out := make([]SampleQuery, 0, len(matches))
	for _, m := range matches {
		out = append(out, sampleQueries[m.Index])
	}
	return out
}
