package validators

import (
	"strings"

	pkgerrors "github.com/basketwise/basketwise-backend/pkg/errors"
)

// ValidateGTIN enforces the 8-14 digit GTIN shape used across the catalog.
func ValidateGTIN(raw string) (string, error) {
	gtin := strings.TrimSpace(raw)
	if len(gtin) < 8 || len(gtin) > 14 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "gtin must be 8 to 14 digits").WithDetails(map[string]any{"gtin": raw})
	}
	for _, r := range gtin {
		if r < '0' || r > '9' {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "gtin must contain only digits").WithDetails(map[string]any{"gtin": raw})
		}
	}
	return gtin, nil
}
