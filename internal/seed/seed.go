// Package seed loads an initial catalog into an empty database. Seed
// documents are JSON, optionally gzip-compressed, and may come from a local
// file, an S3 object or an HTTP URL.
package seed

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"storefront/internal/model"

	"github.com/shopspring/decimal"
)

// Loader fetches a seed document from a source. The meaning of source
// depends on the implementation: a path, an S3 key or a URL.
type Loader interface {
	Load(ctx context.Context, source string) (*Document, error)
}

// Document is a catalog seed.
type Document struct {
	Categories []CategoryEntry `json:"categories"`
	Products   []ProductEntry  `json:"products"`
}

// CategoryEntry describes one seeded category.
type CategoryEntry struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// ProductEntry describes one seeded product. Category refers to a category
// slug or name from the same document; anything else is kept as free text.
type ProductEntry struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       decimal.Decimal   `json:"price"`
	Category    string            `json:"category"`
	Image       string            `json:"image"`
	Stock       int               `json:"stock"`
	Active      *bool             `json:"active"`
	Flavors     model.RawVariants `json:"flavors"`
}

// gzip streams start with these two bytes.
var gzipMagic = []byte{0x1f, 0x8b}

// Decode reads a seed document, transparently inflating gzip input.
func Decode(r io.Reader) (*Document, error) {
	br := bufio.NewReader(r)

	var src io.Reader = br
	if head, err := br.Peek(2); err == nil && head[0] == gzipMagic[0] && head[1] == gzipMagic[1] {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		src = gz
	}

	var doc Document
	if err := json.NewDecoder(src).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode seed document: %w", err)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks that the document can be applied as a whole.
func (d *Document) Validate() error {
	seen := make(map[string]bool, len(d.Categories))
	for i, c := range d.Categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return fmt.Errorf("categories[%d]: name is required", i)
		}
		if seen[name] {
			return fmt.Errorf("categories[%d]: duplicate name %q", i, name)
		}
		seen[name] = true
	}

	for i, p := range d.Products {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("products[%d]: name is required", i)
		}
		if !p.Price.IsPositive() {
			return fmt.Errorf("products[%d]: price must be greater than 0", i)
		}
		if p.Stock < 0 {
			return fmt.Errorf("products[%d]: stock must be at least 0", i)
		}
	}
	return nil
}
