package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Topic is one entry in the policy shortcut table: if any keyword appears in
// the query, the canned answer is returned and ranking is bypassed entirely.
type Topic struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Answer   string   `json:"answer"`
}

// TopicTable is an ordered list of topics evaluated first-match-wins.
type TopicTable []Topic

// DefaultTopics returns the built-in policy answers.
func DefaultTopics() TopicTable {
	return TopicTable{
		{
			Name:     "returns",
			Keywords: []string{"return", "refund"},
			Answer: "Our return policy allows returns within 30 days of delivery. Items must be unused " +
				"and in original packaging. Return shipping is free for defective items. For non-defective " +
				"returns, a return shipping fee may apply. Refunds are processed within 5-7 business days " +
				"after we receive your return.",
		},
		{
			Name:     "shipping",
			Keywords: []string{"ship", "delivery", "arrive"},
			Answer: "We offer free standard shipping on orders over $25. Standard shipping takes 5-7 " +
				"business days. Expedited shipping (2-3 days) and express shipping (1-2 days) are available " +
				"for an additional fee. We ship to all 50 states and select international locations.",
		},
		{
			Name:     "warranty",
			Keywords: []string{"warrant", "guarantee"},
			Answer: "Most electronics come with manufacturer warranties ranging from 90 days to 2 years. " +
				"Extended warranty options are available at checkout. Clothing and soft goods have a 30-day " +
				"satisfaction guarantee.",
		},
		{
			Name:     "payment",
			Keywords: []string{"payment", "pay", "credit card"},
			Answer: "We accept all major credit cards (Visa, Mastercard, American Express, Discover), " +
				"PayPal, Apple Pay, Google Pay, and Amazon Pay. Payment is processed securely at checkout.",
		},
	}
}

// LoadTopics reads a topic table from a JSON file, falling back to the
// built-in table when path is empty.
func LoadTopics(path string) (TopicTable, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultTopics(), nil
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read topics: %w", err)
	}
	var table TopicTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("unmarshal topics: %w", err)
	}
	cleaned := table[:0]
	for _, topic := range table {
		if len(topic.Keywords) == 0 || strings.TrimSpace(topic.Answer) == "" {
			continue
		}
		cleaned = append(cleaned, topic)
	}
	return cleaned, nil
}

// Match returns the first topic whose keyword appears in the query, or nil.
func (t TopicTable) Match(query string) *Topic {
	lower := strings.ToLower(query)
	for i := range t {
		for _, keyword := range t[i].Keywords {
			if keyword != "" && strings.Contains(lower, strings.ToLower(keyword)) {
				return &t[i]
			}
		}
	}
	return nil
}
