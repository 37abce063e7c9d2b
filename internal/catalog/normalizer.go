// Package catalog reshapes raw product rows into the client-facing product
// schema. Everything here is pure and safe for concurrent use.
package catalog

import (
	"strings"

	"storefront/internal/model"
)

// Canonical category ids.
const (
	Liquids    = "liquids"
	Cartridges = "cartridges"
	Disposable = "disposable"
)

// KnownCategory is one entry of the fixed storefront category set.
type KnownCategory struct {
	ID          string
	Code        int64
	Name        string
	Description string
}

// KnownCategories lists the canonical categories in display order.
var KnownCategories = []KnownCategory{
	{ID: Liquids, Code: 1, Name: "Жидкости", Description: "Жидкости для вейпинга"},
	{ID: Cartridges, Code: 2, Name: "Картриджи", Description: "Сменные картриджи"},
	{ID: Disposable, Code: 3, Name: "Одноразовые", Description: "Одноразовые вейпы"},
}

// keywordRule maps free-text fragments to a canonical id. Rules are checked
// in order; cartridge spellings win over the others.
type keywordRule struct {
	category string
	tokens   []string
}

var keywordRules = []keywordRule{
	{category: Cartridges, tokens: []string{"cartridge", "картридж", "карик", "pod"}},
	{category: Disposable, tokens: []string{"disposable", "одноразов"}},
	{category: Liquids, tokens: []string{"liquid", "жидкост"}},
}

// Normalize converts a raw product into its canonical form. It never fails:
// the worst case is an uncategorized product with no flavors.
func Normalize(raw model.RawProduct) model.Product {
	flavors := DecodeVariants(raw.Flavors)

	return model.Product{
		ID:           raw.ID,
		Name:         raw.Name,
		Description:  raw.Description,
		Price:        raw.Price,
		CategoryID:   copyInt64(raw.CategoryID),
		CategoryName: copyString(raw.CategoryName),
		Image:        raw.Image,
		Stock:        raw.Stock,
		Active:       raw.Active,
		CreatedAt:    raw.CreatedAt,
		UpdatedAt:    raw.UpdatedAt,
		Category:     ResolveCategory(raw, flavors),
		Flavors:      flavors,
	}
}

// NormalizeAll normalizes a slice of raw products, preserving order.
func NormalizeAll(raws []model.RawProduct) []model.Product {
	products := make([]model.Product, len(raws))
	for i, raw := range raws {
		products[i] = Normalize(raw)
	}
	return products
}

// ResolveCategory returns the canonical category id for raw, or nil.
func ResolveCategory(raw model.RawProduct, flavors model.Flavors) *string {
	for _, name := range []*string{raw.CategoryName, raw.Category} {
		if name == nil {
			continue
		}
		if id, ok := byName(*name); ok {
			return &id
		}
	}

	if raw.CategoryID != nil {
		if id, ok := byCode(*raw.CategoryID); ok {
			return &id
		}
	}

	for _, text := range []*string{raw.Category, raw.CategoryName} {
		if text == nil {
			continue
		}
		if id, ok := byKeyword(*text); ok {
			return &id
		}
	}

	if len(flavors) > 0 {
		id := Liquids
		return &id
	}

	return nil
}

// byName matches a display name or canonical id exactly.
func byName(name string) (string, bool) {
	for _, c := range KnownCategories {
		if name == c.Name || name == c.ID {
			return c.ID, true
		}
	}
	return "", false
}

func byCode(code int64) (string, bool) {
	for _, c := range KnownCategories {
		if code == c.Code {
			return c.ID, true
		}
	}
	return "", false
}

func byKeyword(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, rule := range keywordRules {
		for _, token := range rule.tokens {
			if strings.Contains(lower, token) {
				return rule.category, true
			}
		}
	}
	return "", false
}

func copyInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
