package knowledge

import (
	"strings"
	"testing"

	"storefront-assist/internal/catalog"
)

func testStore() *catalog.Store {
	return catalog.NewStoreFromProducts([]catalog.Product{
		{
			Title:        "Alpine Pro Waterproof Jacket",
			Brand:        "Alpine Pro",
			Description:  "Premium 3-layer waterproof jacket.",
			FinalPrice:   "189.99",
			Availability: "In Stock",
			Categories:   `["Clothing","Jackets"]`,
			Rating:       "4.5",
			Department:   "Outdoor",
		},
		{
			Title:        "Trail Running Shoes",
			Brand:        "Glacier",
			Description:  "Grippy trail running shoes.",
			FinalPrice:   "1.2999E2",
			Availability: "Out of Stock",
			Categories:   `["Footwear"]`,
			Department:   "Sports",
		},
		{
			Title:      "Insulated Water Bottle",
			FinalPrice: "not-a-price",
			Categories: "Footwear|Shoes", // unparseable on purpose
			Department: "Kitchen",
		},
	})
}

func TestPolicyShortcutBypassesSearch(t *testing.T) {
	responder := NewResponder(testStore(), nil)

	tests := []struct {
		name     string
		query    string
		fragment string
	}{
		{"returns", "what is your return policy?", "30 days of delivery"},
		{"refund keyword", "when do I get my refund", "30 days of delivery"},
		{"shipping", "how long does delivery take", "free standard shipping"},
		{"warranty", "is there a guarantee on electronics", "manufacturer warranties"},
		{"payment", "can I pay with apple pay", "major credit cards"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			answer, err := responder.Respond(tc.query)
			if err != nil {
				t.Fatalf("respond: %v", err)
			}
			if !strings.Contains(answer.Message, tc.fragment) {
				t.Fatalf("expected policy answer containing %q, got %q", tc.fragment, answer.Message)
			}
			if len(answer.Matches) != 0 {
				t.Fatalf("policy shortcut must not return product matches, got %d", len(answer.Matches))
			}
		})
	}
}

func TestBrandSummaryShortcut(t *testing.T) {
	responder := NewResponder(testStore(), nil)

	answer, err := responder.Respond("what brands do you carry?")
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if !strings.Contains(answer.Message, "We carry 2+ brands") {
		t.Fatalf("expected brand summary, got %q", answer.Message)
	}
	if !strings.Contains(answer.Message, "Alpine Pro") {
		t.Fatalf("expected sample brands in %q", answer.Message)
	}
	if len(answer.Matches) != 0 {
		t.Fatalf("brand summary must not return product matches")
	}
}

func TestBrandMentionWithoutQuestionWordSearches(t *testing.T) {
	responder := NewResponder(testStore(), nil)

	// "brand" alone is not a lineup question; it should fall through to
	// ranked search and, with no hits, the no-results message.
	answer, err := responder.Respond("brandnew zzz")
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if !strings.Contains(answer.Message, "couldn't find products") {
		t.Fatalf("expected no-results message, got %q", answer.Message)
	}
	if !strings.Contains(answer.Message, "3 items available") {
		t.Fatalf("no-results message should quote catalog size, got %q", answer.Message)
	}
}

func TestProductSearchFormatsMatches(t *testing.T) {
	responder := NewResponder(testStore(), nil)

	answer, err := responder.Respond("waterproof jacket")
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if len(answer.Matches) == 0 {
		t.Fatal("expected product matches")
	}
	top := answer.Matches[0]
	if top.Title != "Alpine Pro Waterproof Jacket" {
		t.Fatalf("unexpected top match %q", top.Title)
	}
	if top.Price != "189.99" {
		t.Fatalf("expected price 189.99 got %q", top.Price)
	}
	if !top.InStock {
		t.Fatal("expected in-stock match")
	}
}

func TestLeadInSelection(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		fragment string
	}{
		{"shoe before running", "running shoes", "shoe options"},
		{"running", "running gear", "running gear"},
		{"clothing", "apparel for hiking", "clothing items"},
		{"electronics", "cool gadget", "electronics"},
		{"default", "water bottle", "Great question"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			phrase := leadInFor(tc.query)
			if !strings.Contains(phrase, tc.fragment) {
				t.Fatalf("expected lead-in containing %q, got %q", tc.fragment, phrase)
			}
		})
	}
}

func TestFormatMatchDefaults(t *testing.T) {
	long := strings.Repeat("x", 150)
	match := formatMatch(catalog.Product{Title: long, FinalPrice: "bogus"})
	if len(match.Title) != 100 {
		t.Fatalf("expected title capped at 100 chars, got %d", len(match.Title))
	}
	if match.Brand != "Unknown" {
		t.Fatalf("expected Unknown brand got %q", match.Brand)
	}
	if match.Price != "N/A" {
		t.Fatalf("expected N/A price got %q", match.Price)
	}
	if match.InStock {
		t.Fatal("blank availability must not count as in stock")
	}

	empty := formatMatch(catalog.Product{})
	if empty.Title != "Unknown Product" {
		t.Fatalf("expected placeholder title got %q", empty.Title)
	}
}

func TestTopicTableFirstMatchWins(t *testing.T) {
	table := TopicTable{
		{Name: "first", Keywords: []string{"ship"}, Answer: "first answer"},
		{Name: "second", Keywords: []string{"shipping"}, Answer: "second answer"},
	}
	topic := table.Match("shipping cost?")
	if topic == nil || topic.Name != "first" {
		t.Fatalf("expected first entry to win, got %+v", topic)
	}
	if table.Match("unrelated") != nil {
		t.Fatal("expected no match")
	}
}
