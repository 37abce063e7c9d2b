//go:build ignore

package main

import (
	"compress/gzip"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"storefront/internal/model"
	"storefront/internal/seed"

	"github.com/shopspring/decimal"
)

// generateSampleCatalog writes a gzipped seed document. The hand-written
// catalog is copied as-is and, with -extra N, padded with N generated liquids
// for load testing.
func main() {
	src := flag.String("src", "data/seed/catalog.json", "source seed document")
	dst := flag.String("dst", "data/seed/catalog.json.gz", "gzipped output")
	extra := flag.Int("extra", 0, "number of generated liquid products to append")
	flag.Parse()

	in, err := os.Open(*src)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *src, err)
	}
	doc, err := seed.Decode(in)
	in.Close()
	if err != nil {
		log.Fatalf("Invalid seed document: %v", err)
	}

	flavors := []string{"Mango Ice", "Blueberry", "Cola Lime", "Grape", "Watermelon", "Peach Ice"}
	for i := 0; i < *extra; i++ {
		doc.Products = append(doc.Products, seed.ProductEntry{
			Name:        fmt.Sprintf("Sample Liquid %03d", i+1),
			Description: "Generated sample product",
			Price:       decimal.NewFromInt(int64(20 + i%30)),
			Category:    "liquids",
			Stock:       10 + i%40,
			Flavors: model.VariantsFromObject(map[string]any{
				flavors[i%len(flavors)]:     5 + i%10,
				flavors[(i+1)%len(flavors)]: 3 + i%7,
			}),
		})
	}

	if err := os.MkdirAll(filepath.Dir(*dst), 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	out, err := os.Create(*dst)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *dst, err)
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	enc := json.NewEncoder(gz)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		log.Fatalf("Failed to write seed: %v", err)
	}
	if err := gz.Close(); err != nil {
		log.Fatalf("Failed to finish gzip stream: %v", err)
	}

	fmt.Printf("Wrote %s: %d categories, %d products\n", *dst, len(doc.Categories), len(doc.Products))
}
