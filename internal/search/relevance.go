package search

import (
	"regexp"
	"sort"
	"strings"

	"storefront-assist/internal/catalog"
)

// Field weights for the aggregate relevance score. Title and brand matches
// are the most diagnostic; category and department are supporting signal.
const (
	weightTitle       = 3.0
	weightDescription = 2.0
	weightBrand       = 2.0
	weightCategories  = 1.5
	weightDepartment  = 1.0

	phraseBonus   = 10.0
	wordHitScore  = 2.0
	minWordLength = 2

	// DefaultLimit matches the conversational flow's result cap.
	DefaultLimit = 5
)

// Result pairs a catalog product with its relevance score.
type Result struct {
	Product   catalog.Product
	Relevance float64
}

// query holds the normalized form of a search string with precompiled
// whole-word matchers, so per-field scoring does not recompile per product.
type query struct {
	phrase   string
	words    []string
	patterns []*regexp.Regexp
}

func parseQuery(raw string) query {
	phrase := strings.ToLower(strings.TrimSpace(raw))
	q := query{phrase: phrase}
	for _, word := range strings.Fields(phrase) {
		if len(word) < minWordLength {
			continue
		}
		q.words = append(q.words, word)
		q.patterns = append(q.patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(word)+`\b`))
	}
	return q
}

// fieldScore scores a single field: a flat bonus when the whole query appears
// as a contiguous substring, plus two points per whole-word occurrence of each
// significant query word.
func fieldScore(field string, q query) float64 {
	if field == "" {
		return 0
	}
	lower := strings.ToLower(field)

	var score float64
	if q.phrase != "" && strings.Contains(lower, q.phrase) {
		score += phraseBonus
	}
	for _, pattern := range q.patterns {
		if hits := pattern.FindAllStringIndex(lower, -1); hits != nil {
			score += float64(len(hits)) * wordHitScore
		}
	}
	return score
}

func relevance(p catalog.Product, q query) float64 {
	return fieldScore(p.Title, q)*weightTitle +
		fieldScore(p.Description, q)*weightDescription +
		fieldScore(p.Brand, q)*weightBrand +
		fieldScore(p.Categories, q)*weightCategories +
		fieldScore(p.Department, q)*weightDepartment
}

// Search ranks the catalog against a free-text query and returns at most
// limit results. The primary tier keeps products with a positive weighted
// score, ordered by descending relevance with catalog order breaking ties.
// When it comes up empty, a lenient tier keeps any product whose title, brand
// or department contains a query word as a plain substring, ordered by
// descending title length. An empty return after both tiers means no match.
func Search(rawQuery string, products []catalog.Product, limit int) []Result {
	if limit <= 0 {
		limit = DefaultLimit
	}
	q := parseQuery(rawQuery)

	scored := make([]Result, 0, len(products))
	for _, p := range products {
		if score := relevance(p, q); score > 0 {
			scored = append(scored, Result{Product: p, Relevance: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Relevance > scored[j].Relevance
	})
	if len(scored) > 0 {
		if len(scored) > limit {
			scored = scored[:limit]
		}
		return scored
	}

	return fallback(q, products, limit)
}

// fallback is deliberately more permissive than the primary tier: any
// significant query word matching as a substring qualifies, and longer titles
// rank first as a crude proxy for listing specificity.
func fallback(q query, products []catalog.Product, limit int) []Result {
	var loose []Result
	for _, p := range products {
		if matchesAnyWord(p, q.words) {
			loose = append(loose, Result{Product: p})
		}
	}
	sort.SliceStable(loose, func(i, j int) bool {
		return len(loose[i].Product.Title) > len(loose[j].Product.Title)
	})
	if len(loose) > limit {
		loose = loose[:limit]
	}
	return loose
}

func matchesAnyWord(p catalog.Product, words []string) bool {
	title := strings.ToLower(p.Title)
	brand := strings.ToLower(p.Brand)
	department := strings.ToLower(p.Department)
	for _, word := range words {
		if strings.Contains(title, word) || strings.Contains(brand, word) || strings.Contains(department, word) {
			return true
		}
	}
	return false
}
