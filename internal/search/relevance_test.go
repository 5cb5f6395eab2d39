package search

import (
	"testing"

	"storefront-assist/internal/catalog"
)

func TestSearchRanksPhraseMatchFirst(t *testing.T) {
	products := []catalog.Product{
		{Title: "Alpine Pro Waterproof Jacket", Description: "Premium 3-layer waterproof jacket."},
		{Title: "Storm Shield Rain Jacket", Description: "Lightweight packable jacket."},
		{Title: "Summit Thermal Base Layer", Description: "Merino wool blend base layer."},
	}

	results := Search("waterproof", products, 5)
	if len(results) != 1 {
		t.Fatalf("expected 1 result got %d", len(results))
	}
	if results[0].Product.Title != "Alpine Pro Waterproof Jacket" {
		t.Fatalf("unexpected top result %q", results[0].Product.Title)
	}
	if results[0].Relevance <= 0 {
		t.Fatalf("expected positive relevance got %f", results[0].Relevance)
	}
}

func TestSearchOrderingAndLimit(t *testing.T) {
	products := []catalog.Product{
		{Title: "running socks"},
		{Title: "running shoes", Description: "running shoes for running"},
		{Title: "trail running shoes", Brand: "running co"},
		{Title: "walking shoes"},
	}

	results := Search("running shoes", products, 2)
	if len(results) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Relevance > results[i-1].Relevance {
			t.Fatalf("results not sorted: %f before %f", results[i-1].Relevance, results[i].Relevance)
		}
	}
}

func TestSearchTieBreakKeepsCatalogOrder(t *testing.T) {
	products := []catalog.Product{
		{Title: "blue kettle"},
		{Title: "red kettle"},
	}

	results := Search("kettle", products, 5)
	if len(results) != 2 {
		t.Fatalf("expected 2 results got %d", len(results))
	}
	if results[0].Relevance != results[1].Relevance {
		t.Fatalf("expected equal scores, got %f and %f", results[0].Relevance, results[1].Relevance)
	}
	if results[0].Product.Title != "blue kettle" {
		t.Fatalf("stable sort violated, got %q first", results[0].Product.Title)
	}
}

func TestPhraseMatchOutranksWordOnlyMatch(t *testing.T) {
	q := parseQuery("trail running")
	withPhrase := fieldScore("trail running shoes", q)
	wordsOnly := fieldScore("running shoes for any trail", q)
	if withPhrase <= wordsOnly {
		t.Fatalf("phrase score %f should exceed word-only score %f", withPhrase, wordsOnly)
	}
}

func TestFieldScoreWholeWordOnly(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		query    string
		expected float64
	}{
		{"single whole word", "red running shoes", "running", 12},
		{"word repeated", "running shoes for running fans", "running", 14},
		{"embedded word not counted", "rerunning the race", "running gear", 0},
		{"short words dropped", "b a c", "a b", 0},
		{"no match", "cast iron pan", "jacket", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := fieldScore(tc.field, parseQuery(tc.query))
			if got != tc.expected {
				t.Fatalf("expected %f got %f", tc.expected, got)
			}
		})
	}
}

func TestFieldWeights(t *testing.T) {
	q := parseQuery("nike")
	title := catalog.Product{Title: "nike"}
	brand := catalog.Product{Brand: "nike"}
	department := catalog.Product{Department: "nike"}

	titleScore := relevance(title, q)
	brandScore := relevance(brand, q)
	departmentScore := relevance(department, q)

	if titleScore <= brandScore || brandScore <= departmentScore {
		t.Fatalf("expected title > brand > department, got %f %f %f", titleScore, brandScore, departmentScore)
	}
}

func TestNoPhantomMatches(t *testing.T) {
	products := []catalog.Product{
		{Title: "cast iron skillet", Brand: "Lodge", Department: "Kitchen"},
	}
	results := Search("snowboard bindings", products, 5)
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestFallbackTierSubstringMatch(t *testing.T) {
	// Neither the full phrase nor any whole word matches, so the primary tier
	// is empty and the lenient substring tier must fire.
	products := []catalog.Product{
		{Title: "snowshoes deluxe kit"},
		{Title: "pan"},
	}
	results := Search("mens shoes", products, 5)
	if len(results) != 1 {
		t.Fatalf("expected fallback match, got %d results", len(results))
	}
	if results[0].Product.Title != "snowshoes deluxe kit" {
		t.Fatalf("unexpected fallback result %q", results[0].Product.Title)
	}
	if results[0].Relevance != 0 {
		t.Fatalf("fallback results carry no relevance score, got %f", results[0].Relevance)
	}
}

func TestFallbackSortsByTitleLength(t *testing.T) {
	products := []catalog.Product{
		{Title: "snowshoes"},
		{Title: "aluminum frame snowshoes with poles"},
		{Title: "kids snowshoes set"},
	}
	results := Search("mens shoes", products, 5)
	if len(results) != 3 {
		t.Fatalf("expected 3 fallback results got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if len(results[i].Product.Title) > len(results[i-1].Product.Title) {
			t.Fatalf("fallback not sorted by title length: %q before %q",
				results[i-1].Product.Title, results[i].Product.Title)
		}
	}
}

func TestSearchEmptyInputs(t *testing.T) {
	if results := Search("jacket", nil, 5); len(results) != 0 {
		t.Fatalf("empty catalog should yield no results, got %d", len(results))
	}
	products := []catalog.Product{{Title: "jacket"}}
	if results := Search("", products, 5); len(results) != 0 {
		t.Fatalf("empty query should yield no results, got %d", len(results))
	}
}
