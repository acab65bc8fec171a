// Package relevance ranks member profiles against a free-text query.
//
// Matching is a case-folded substring test over a record's searchable text;
// ranking is an additive keyword score with a stable sort so that records with
// equal scores keep the order in which they were fetched.
package relevance

import (
	"sort"
	"strings"
)

// Candidate is a member profile projected onto the fields search looks at.
// Username is carried for display only and never matched.
type Candidate struct {
	ID             string   `json:"id"`
	Username       string   `json:"username"`
	Name           string   `json:"name"`
	Bio            string   `json:"bio"`
	Role           string   `json:"role"`
	Location       string   `json:"location"`
	ExpertiseLevel string   `json:"expertise_level"`
	Skills         []string `json:"skills"`
	Languages      []string `json:"languages"`
}

// Result is a matching candidate together with its relevance score.
type Result struct {
	Candidate Candidate `json:"candidate"`
	Score     int       `json:"score"`
}

// Weights are the per-field score increments. They are tuning values, not a contract.
type Weights struct {
	ExactSkill   int
	PartialSkill int
	Name         int
	Location     int
	Bio          int
	Role         int
	Language     int
}

// DefaultWeights returns the stock scoring table.
func DefaultWeights() Weights {
	return Weights{
		ExactSkill:   5,
		PartialSkill: 3,
		Name:         4,
		Location:     3,
		Bio:          2,
		Role:         2,
		Language:     2,
	}
}

// Ranker scores candidates with a fixed set of weights. The zero value uses DefaultWeights.
type Ranker struct {
	weights Weights
	set     bool
}

// NewRanker returns a Ranker using w.
func NewRanker(w Weights) *Ranker {
	return &Ranker{weights: w, set: true}
}

func (r *Ranker) w() Weights {
	if r == nil || !r.set {
		return DefaultWeights()
	}
	return r.weights
}

// Search returns the candidates whose searchable text contains query, ordered
// by descending score. limit <= 0 means no cap.
func Search(query string, candidates []Candidate, limit int) []Result {
	return (*Ranker)(nil).Search(query, candidates, limit)
}

// Search is the weighted form of the package-level Search.
func (r *Ranker) Search(query string, candidates []Candidate, limit int) []Result {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []Result{}
	}

	weights := r.w()
	results := make([]Result, 0)
	for _, c := range candidates {
		if !strings.Contains(SearchableText(c), q) {
			continue
		}
		results = append(results, Result{Candidate: c, Score: score(c, q, weights)})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Score computes the relevance of c for query using the default weights.
// It does not check whether c matches at all.
func Score(c Candidate, query string) int {
	return score(c, strings.ToLower(strings.TrimSpace(query)), DefaultWeights())
}

// SearchableText is the lower-cased concatenation matched against queries.
func SearchableText(c Candidate) string {
	parts := make([]string, 0, len(c.Skills)+len(c.Languages)+5)
	parts = append(parts, c.Skills...)
	parts = append(parts, c.Bio, c.Name, c.Role, c.Location, c.ExpertiseLevel)
	parts = append(parts, c.Languages...)
	return strings.ToLower(strings.Join(parts, " "))
}

// score expects q already trimmed and lower-cased.
func score(c Candidate, q string, w Weights) int {
	total := 0

	for _, skill := range c.Skills {
		s := strings.ToLower(skill)
		if s == q {
			total += w.ExactSkill
		} else if strings.Contains(s, q) {
			total += w.PartialSkill
		}
	}

	if strings.Contains(strings.ToLower(c.Name), q) {
		total += w.Name
	}
	if strings.Contains(strings.ToLower(c.Location), q) {
		total += w.Location
	}
	if strings.Contains(strings.ToLower(c.Bio), q) {
		total += w.Bio
	}
	if strings.Contains(strings.ToLower(c.Role), q) {
		total += w.Role
	}

	for _, lang := range c.Languages {
		if strings.Contains(strings.ToLower(lang), q) {
			total += w.Language
		}
	}

	return total
}
