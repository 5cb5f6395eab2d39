// Command catalog inspects a product export offline: it prints catalog
// aggregates and optionally runs a relevance query against the file, useful
// for sanity-checking a feed before pointing the server at it.
package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"storefront-assist/internal/catalog"
	"storefront-assist/internal/search"
)

func main() {
	path := flag.String("catalog", "amazon-products.csv", "path to the product export CSV")
	query := flag.String("query", "", "optional relevance query to run against the catalog")
	limit := flag.Int("limit", search.DefaultLimit, "maximum results for the query")
	flag.Parse()

	products, err := catalog.LoadCSV(*path)
	if err != nil {
		logrus.Fatalf("load catalog: %v", err)
	}

	stats := catalog.ComputeStats(products)
	fmt.Printf("products:   %d\n", stats.TotalProducts)
	fmt.Printf("brands:     %d\n", stats.TotalBrands)
	fmt.Printf("categories: %d\n", stats.TotalCategories)
	if len(stats.SampleBrands) > 0 {
		fmt.Printf("samples:    %s\n", strings.Join(stats.SampleBrands, ", "))
	}

	if strings.TrimSpace(*query) == "" {
		return
	}

	results := search.Search(*query, products, *limit)
	if len(results) == 0 {
		fmt.Printf("\nno matches for %q\n", *query)
		return
	}
	fmt.Printf("\ntop matches for %q:\n", *query)
	for i, result := range results {
		p := result.Product
		fmt.Printf("%2d. [%6.1f] %s (%s, %s)\n", i+1, result.Relevance, p.DisplayTitle(80), p.DisplayBrand(), p.PriceLabel())
	}
}
