package service

import (
	"encoding/base64"
	"strings"

	"storefront/internal/model"

	"github.com/gabriel-vasile/mimetype"
)

// maxImageBytes bounds a decoded product image.
const maxImageBytes = 5 << 20

// validateImageDataURI checks that uri is a base64 data URI whose payload
// really is an image. The declared media type is not trusted.
func validateImageDataURI(uri string) error {
	const prefix = "data:"
	if !strings.HasPrefix(uri, prefix) {
		return model.NewValidationError("image", "must be a base64 data URI")
	}

	meta, payload, ok := strings.Cut(uri[len(prefix):], ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return model.NewValidationError("image", "must be a base64 data URI")
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > maxImageBytes+3 {
		return model.NewValidationError("image", "must not exceed 5 MB")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return model.NewValidationError("image", "contains invalid base64 data")
	}
	if len(data) > maxImageBytes {
		return model.NewValidationError("image", "must not exceed 5 MB")
	}

	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return model.NewValidationError("image", "must be an image, got "+detected.String())
	}

	return nil
}

// validateImageRef accepts an empty value, an absolute URL, a site path or
// an image data URI.
func validateImageRef(image string) error {
	switch {
	case image == "",
		strings.HasPrefix(image, "http://"),
		strings.HasPrefix(image, "https://"),
		strings.HasPrefix(image, "/"):
		return nil
	default:
		return validateImageDataURI(image)
	}
}
