package knowledge

import (
	"fmt"
	"strings"

	"storefront-assist/internal/catalog"
	"storefront-assist/internal/search"
)

const (
	displayTitleMax = 100
	matchLimit      = 3
	brandSampleMax  = 8
)

// Match is the rendering shape for one product hit.
type Match struct {
	Title   string `json:"title"`
	Brand   string `json:"brand"`
	Price   string `json:"price"`
	Rating  string `json:"rating"`
	InStock bool   `json:"in_stock"`
}

// Answer is a structured knowledge reply: a conversational message, plus up
// to three formatted product matches when the query hit the catalog.
type Answer struct {
	Message string  `json:"message"`
	Matches []Match `json:"matches,omitempty"`
}

// leadIn maps query substrings to a conversational opener. Ordered,
// first match wins.
type leadIn struct {
	substrings []string
	phrase     string
}

var leadIns = []leadIn{
	{[]string{"shoe"}, "Yes! We have some great shoe options. Here are a few that might interest you:"},
	{[]string{"running"}, "Absolutely! We carry running gear. Check out these options:"},
	{[]string{"shirt", "clothing", "apparel"}, "Great choice! We have several clothing items. Here are some recommendations:"},
	{[]string{"electronic", "gadget"}, "Yes, we have electronics! Here are some popular options:"},
}

const defaultLeadIn = "Great question! Here are some items we have that match what you're looking for:"

func leadInFor(query string) string {
	lower := strings.ToLower(query)
	for _, entry := range leadIns {
		for _, sub := range entry.substrings {
			if strings.Contains(lower, sub) {
				return entry.phrase
			}
		}
	}
	return defaultLeadIn
}

// brandQuestionWords accompany "brand" in queries that ask about the brand
// lineup as a whole rather than a specific product.
var brandQuestionWords = []string{"what", "which", "all", "carry", "sell"}

func isBrandQuestion(query string) bool {
	lower := strings.ToLower(query)
	if !strings.Contains(lower, "brand") {
		return false
	}
	for _, word := range brandQuestionWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// Responder answers catalog and policy questions. Policy topics and brand
// lineup questions short-circuit the ranking engine; everything else goes
// through relevance search.
type Responder struct {
	store  *catalog.Store
	topics TopicTable
}

// NewResponder wires a responder over the catalog store.
func NewResponder(store *catalog.Store, topics TopicTable) *Responder {
	if topics == nil {
		topics = DefaultTopics()
	}
	return &Responder{store: store, topics: topics}
}

// Respond resolves a query: policy shortcut first, then the brand summary
// shortcut, then ranked product search, then the no-results message.
func (r *Responder) Respond(query string) (Answer, error) {
	if topic := r.topics.Match(query); topic != nil {
		return Answer{Message: topic.Answer}, nil
	}

	products, err := r.store.Products()
	if err != nil {
		return Answer{}, err
	}
	stats := catalog.ComputeStats(products)

	if isBrandQuestion(query) {
		samples := stats.SampleBrands
		if len(samples) > brandSampleMax {
			samples = samples[:brandSampleMax]
		}
		return Answer{Message: fmt.Sprintf(
			"We carry %d+ brands across %d categories. Popular brands include %s, and many more.",
			stats.TotalBrands, stats.TotalCategories, strings.Join(samples, ", "),
		)}, nil
	}

	results := search.Search(query, products, search.DefaultLimit)
	if len(results) == 0 {
		return Answer{Message: fmt.Sprintf(
			"I couldn't find products matching that specific search. We have %d items available. "+
				"Feel free to ask about a specific brand, category, or try searching with different keywords!",
			stats.TotalProducts,
		)}, nil
	}

	matches := make([]Match, 0, matchLimit)
	for _, result := range results {
		if len(matches) == matchLimit {
			break
		}
		matches = append(matches, formatMatch(result.Product))
	}
	return Answer{Message: leadInFor(query), Matches: matches}, nil
}

func formatMatch(p catalog.Product) Match {
	return Match{
		Title:   p.DisplayTitle(displayTitleMax),
		Brand:   p.DisplayBrand(),
		Price:   p.PriceLabel(),
		Rating:  p.Rating,
		InStock: p.InStock(),
	}
}

// Stats exposes catalog aggregates for the config endpoint and tooling.
func (r *Responder) Stats() (catalog.Stats, error) {
	products, err := r.store.Products()
	if err != nil {
		return catalog.Stats{}, err
	}
	return catalog.ComputeStats(products), nil
}
