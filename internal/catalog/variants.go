package catalog

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"storefront/internal/model"
)

// DecodeVariants resolves a raw flavors value to a label → stock mapping.
// Malformed or missing input yields an empty mapping, never an error.
func DecodeVariants(raw model.RawVariants) model.Flavors {
	switch raw.Kind {
	case model.VariantsObject:
		return fromObject(raw.Object)
	case model.VariantsText:
		return fromText(raw.Text, 1)
	default:
		return model.Flavors{}
	}
}

// fromText parses a JSON document. Legacy writers sometimes stored an already
// encoded string, so one level of string nesting is unwrapped.
func fromText(text string, depth int) model.Flavors {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Flavors{}
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()

	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return model.Flavors{}
	}

	switch v := decoded.(type) {
	case map[string]any:
		return fromObject(v)
	case string:
		if depth > 0 {
			return fromText(v, depth-1)
		}
	}
	return model.Flavors{}
}

func fromObject(obj map[string]any) model.Flavors {
	flavors := make(model.Flavors, len(obj))
	for label, value := range obj {
		if count, ok := stockCount(value); ok {
			flavors[label] = count
		}
	}
	return flavors
}

// stockCount accepts the numeric representations a decoder may produce.
func stockCount(value any) (int, bool) {
	switch n := value.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		if f, err := n.Float64(); err == nil {
			return floatCount(f)
		}
	case float64:
		return floatCount(n)
	case float32:
		return floatCount(float64(n))
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	}
	return 0, false
}

func floatCount(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
