package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Store holds the materialized catalog for the lifetime of the process. It is
// populated once and read-only afterwards, so any number of concurrent
// searches may share it without coordination.
type Store struct {
	path     string
	once     sync.Once
	products []Product
	err      error
}

// NewStore creates a store that lazily loads the CSV at path on first access.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// NewStoreFromProducts wraps an already materialized product list, primarily
// for tests and offline tooling.
func NewStoreFromProducts(products []Product) *Store {
	s := &Store{products: products}
	s.once.Do(func() {})
	return s
}

// Products returns the cached catalog, loading it on first call.
func (s *Store) Products() ([]Product, error) {
	s.once.Do(func() {
		start := time.Now()
		products, err := LoadCSV(s.path)
		if err != nil {
			s.err = err
			logrus.WithError(err).WithField("path", s.path).Error("load catalog failed")
			return
		}
		s.products = products
		logrus.WithFields(logrus.Fields{
			"path":     s.path,
			"products": len(products),
			"duration": time.Since(start),
		}).Info("catalog loaded")
	})
	return s.products, s.err
}

// LoadCSV reads a product export with a header row. Column order is detected
// from the header; unrecognized columns are ignored and missing ones leave the
// corresponding field empty.
func LoadCSV(path string) ([]Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}
	columns := mapColumns(header)

	var products []Product
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog row: %w", err)
		}
		if emptyRecord(record) {
			continue
		}
		products = append(products, productFromRecord(record, columns))
	}
	return products, nil
}

func mapColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for idx, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF")))
		if name == "" {
			continue
		}
		if _, exists := columns[name]; !exists {
			columns[name] = idx
		}
	}
	return columns
}

func productFromRecord(record []string, columns map[string]int) Product {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}
	return Product{
		Title:        field("title"),
		Brand:        field("brand"),
		Description:  field("description"),
		SellerName:   field("seller_name"),
		FinalPrice:   field("final_price"),
		Availability: field("availability"),
		Categories:   field("categories"),
		Rating:       field("rating"),
		ReviewsCount: field("reviews_count"),
		URL:          field("url"),
		ImageURL:     field("image_url"),
		Department:   field("department"),
	}
}

func emptyRecord(record []string) bool {
	for _, value := range record {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
