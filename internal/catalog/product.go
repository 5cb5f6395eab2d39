package catalog

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Product is a single catalog row. Fields come straight from the export CSV
// and may be empty or malformed; accessors degrade to safe defaults instead
// of failing.
type Product struct {
	Title        string
	Brand        string
	Description  string
	SellerName   string
	FinalPrice   string
	Availability string
	Categories   string
	Rating       string
	ReviewsCount string
	URL          string
	ImageURL     string
	Department   string
}

// CategoryList decodes the JSON-encoded category field. Returns nil when the
// field is empty or does not parse.
func (p Product) CategoryList() []string {
	if strings.TrimSpace(p.Categories) == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(p.Categories), &out); err != nil {
		return nil
	}
	return out
}

// PriceValue parses the price field, tolerating surrounding quotes and
// scientific notation. The second return reports whether a usable number was
// found.
func (p Product) PriceValue() (float64, bool) {
	raw := strings.TrimSpace(strings.ReplaceAll(p.FinalPrice, "\"", ""))
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// PriceLabel renders the price with two decimals, or "N/A" when unparseable.
func (p Product) PriceLabel() string {
	value, ok := p.PriceValue()
	if !ok {
		return "N/A"
	}
	return strconv.FormatFloat(value, 'f', 2, 64)
}

// InStock reports availability. "In Stock" is the only recognized positive
// value in the feed.
func (p Product) InStock() bool {
	return p.Availability == "In Stock"
}

// DisplayTitle caps the title at max runes and substitutes a placeholder for
// blank titles.
func (p Product) DisplayTitle(max int) string {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return "Unknown Product"
	}
	if max > 0 && len(title) > max {
		return title[:max]
	}
	return title
}

// DisplayBrand substitutes "Unknown" for blank brands.
func (p Product) DisplayBrand() string {
	brand := strings.TrimSpace(p.Brand)
	if brand == "" {
		return "Unknown"
	}
	return brand
}
