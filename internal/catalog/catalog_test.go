package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPriceValue(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		value float64
		ok    bool
	}{
		{"plain", "189.99", 189.99, true},
		{"quoted", `"49.50"`, 49.50, true},
		{"scientific notation", "1.2999E2", 129.99, true},
		{"empty", "", 0, false},
		{"garbage", "call us", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			value, ok := Product{FinalPrice: tc.raw}.PriceValue()
			if ok != tc.ok {
				t.Fatalf("expected ok=%v got %v", tc.ok, ok)
			}
			if ok && value != tc.value {
				t.Fatalf("expected %f got %f", tc.value, value)
			}
		})
	}
}

func TestPriceLabel(t *testing.T) {
	if label := (Product{FinalPrice: "1.2999E2"}).PriceLabel(); label != "129.99" {
		t.Fatalf("expected 129.99 got %q", label)
	}
	if label := (Product{FinalPrice: "oops"}).PriceLabel(); label != "N/A" {
		t.Fatalf("expected N/A got %q", label)
	}
}

func TestCategoryListDegradesOnBadInput(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected int
	}{
		{"valid", `["Clothing","Jackets"]`, 2},
		{"empty", "", 0},
		{"malformed", "Clothing|Jackets", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cats := Product{Categories: tc.raw}.CategoryList()
			if len(cats) != tc.expected {
				t.Fatalf("expected %d categories got %d", tc.expected, len(cats))
			}
		})
	}
}

func TestInStockRecognizesOnlyExactValue(t *testing.T) {
	tests := []struct {
		availability string
		inStock      bool
	}{
		{"In Stock", true},
		{"in stock", false},
		{"Out of Stock", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := (Product{Availability: tc.availability}).InStock(); got != tc.inStock {
			t.Fatalf("availability %q: expected %v got %v", tc.availability, tc.inStock, got)
		}
	}
}

func TestLoadCSVHeaderMapping(t *testing.T) {
	csv := "title,brand,final_price,availability,categories,department\n" +
		"Alpine Pro Waterproof Jacket,Alpine Pro,189.99,In Stock,\"[\"\"Clothing\"\"]\",Outdoor\n" +
		"\n" +
		"Trail Running Shoes,Glacier,,Out of Stock,,Sports\n"

	path := writeTempCSV(t, csv)
	products, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("load csv: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products got %d", len(products))
	}
	first := products[0]
	if first.Title != "Alpine Pro Waterproof Jacket" || first.Brand != "Alpine Pro" {
		t.Fatalf("unexpected first product %+v", first)
	}
	if !first.InStock() {
		t.Fatal("expected first product in stock")
	}
	if cats := first.CategoryList(); len(cats) != 1 || cats[0] != "Clothing" {
		t.Fatalf("unexpected categories %v", cats)
	}
	if products[1].PriceLabel() != "N/A" {
		t.Fatalf("missing price should render N/A, got %q", products[1].PriceLabel())
	}
}

func TestLoadCSVMissingColumnsDegrade(t *testing.T) {
	path := writeTempCSV(t, "title\nLone Product\n")
	products, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("load csv: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product got %d", len(products))
	}
	p := products[0]
	if p.Title != "Lone Product" || p.Brand != "" || p.Department != "" {
		t.Fatalf("unexpected product %+v", p)
	}
	if p.DisplayBrand() != "Unknown" {
		t.Fatalf("expected Unknown brand got %q", p.DisplayBrand())
	}
}

func TestComputeStats(t *testing.T) {
	products := []Product{
		{Brand: "Alpine Pro", Categories: `["Clothing","Jackets"]`},
		{Brand: "Glacier", Categories: `["Footwear"]`},
		{Brand: "Alpine Pro", Categories: "not json"},
		{Categories: `["Clothing"]`},
	}

	stats := ComputeStats(products)
	if stats.TotalProducts != 4 {
		t.Fatalf("expected 4 products got %d", stats.TotalProducts)
	}
	if stats.TotalBrands != 2 {
		t.Fatalf("expected 2 brands got %d", stats.TotalBrands)
	}
	if stats.TotalCategories != 3 {
		t.Fatalf("expected 3 categories got %d", stats.TotalCategories)
	}
	if len(stats.SampleBrands) != 2 || stats.SampleBrands[0] != "Alpine Pro" || stats.SampleBrands[1] != "Glacier" {
		t.Fatalf("expected first-seen sample order, got %v", stats.SampleBrands)
	}
}

func TestStoreMemoizesLoad(t *testing.T) {
	path := writeTempCSV(t, "title\nOnly Item\n")
	store := NewStore(path)

	first, err := store.Products()
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected 1 product got %d", len(first))
	}

	// Removing the file must not matter: the catalog is cached for the
	// process lifetime after the first load.
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	second, err := store.Products()
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if len(second) != 1 {
		t.Fatalf("expected cached catalog, got %d products", len(second))
	}
}

func writeTempCSV(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}
