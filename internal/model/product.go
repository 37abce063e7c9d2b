package model

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// VariantsKind identifies the shape a raw flavors value arrived in.
type VariantsKind int

const (
	VariantsAbsent VariantsKind = iota
	VariantsText
	VariantsObject
)

// RawVariants holds a flavors value exactly as a storage backend or client
// produced it: missing, a JSON-encoded string, or an already decoded object.
type RawVariants struct {
	Kind   VariantsKind
	Text   string
	Object map[string]any
}

// VariantsFromText wraps a nullable text column.
func VariantsFromText(s *string) RawVariants {
	if s == nil {
		return RawVariants{Kind: VariantsAbsent}
	}
	return RawVariants{Kind: VariantsText, Text: *s}
}

// VariantsFromObject wraps a decoded mapping.
func VariantsFromObject(m map[string]any) RawVariants {
	if m == nil {
		return RawVariants{Kind: VariantsAbsent}
	}
	return RawVariants{Kind: VariantsObject, Object: m}
}

// UnmarshalJSON accepts null, a string or an object. Any other JSON value is
// kept verbatim as text and left for the normalizer to reject.
func (v *RawVariants) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*v = RawVariants{Kind: VariantsAbsent}
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = RawVariants{Kind: VariantsText, Text: s}
	case trimmed[0] == '{':
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		var m map[string]any
		if err := dec.Decode(&m); err != nil {
			return err
		}
		*v = RawVariants{Kind: VariantsObject, Object: m}
	default:
		*v = RawVariants{Kind: VariantsText, Text: string(trimmed)}
	}
	return nil
}

// MarshalJSON writes the value back in the shape it arrived in.
func (v RawVariants) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case VariantsText:
		return json.Marshal(v.Text)
	case VariantsObject:
		return json.Marshal(v.Object)
	default:
		return []byte("null"), nil
	}
}

// RawProduct is a product row in whatever shape the storage layer returned.
// The category may be carried by any combination of the three category
// fields, or by none of them.
type RawProduct struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	CategoryID   *int64          `json:"category_id,omitempty"`
	CategoryName *string         `json:"category_name,omitempty"`
	Category     *string         `json:"category,omitempty"`
	Image        string          `json:"image,omitempty"`
	Stock        int             `json:"stock"`
	Active       bool            `json:"active"`
	Flavors      RawVariants     `json:"flavors"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Flavors maps a variant label to its available stock count.
type Flavors map[string]int

// Product is the client-facing product after normalization. Category is nil
// for uncategorized products.
type Product struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	CategoryID   *int64          `json:"category_id"`
	CategoryName *string         `json:"category_name"`
	Image        string          `json:"image"`
	Stock        int             `json:"stock"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Category     *string         `json:"category"`
	Flavors      Flavors         `json:"flavors"`
}

// ProductFilter narrows a product listing.
type ProductFilter struct {
	CategoryID *int64
	Active     *bool
	Limit      int
	Offset     int
}

// ProductRequest is the payload for creating or partially updating a
// product. Nil fields are left untouched on update.
type ProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gt=0,money"`
	CategoryID  *int64           `json:"category_id" validate:"omitempty,gt=0"`
	Category    *string          `json:"category"`
	Image       *string          `json:"image"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0,max=2147483647"`
	Active      *bool            `json:"active"`
	Flavors     RawVariants      `json:"flavors"`
}

// ProductImageRequest carries a data URI for a product image.
type ProductImageRequest struct {
	Image string `json:"image" validate:"required"`
}
