package catalog

// Stats aggregates catalog-wide counts for brand and category summaries.
// Category counts are a best-effort lower bound: rows whose category field
// fails to parse are skipped silently.
type Stats struct {
	TotalProducts   int      `json:"total_products"`
	TotalBrands     int      `json:"total_brands"`
	TotalCategories int      `json:"total_categories"`
	SampleBrands    []string `json:"sample_brands"`
}

const sampleBrandLimit = 10

// ComputeStats walks the catalog once, collecting distinct brands (first-seen
// order for the sample list) and distinct category tags.
func ComputeStats(products []Product) Stats {
	brands := make(map[string]struct{})
	categories := make(map[string]struct{})
	var samples []string

	for _, p := range products {
		if p.Brand != "" {
			if _, seen := brands[p.Brand]; !seen {
				brands[p.Brand] = struct{}{}
				if len(samples) < sampleBrandLimit {
					samples = append(samples, p.Brand)
				}
			}
		}
		for _, cat := range p.CategoryList() {
			categories[cat] = struct{}{}
		}
	}

	return Stats{
		TotalProducts:   len(products),
		TotalBrands:     len(brands),
		TotalCategories: len(categories),
		SampleBrands:    samples,
	}
}
